// Package methclust clusters single cells by the pairwise dissimilarity
// of their CpG methylation profiles.
//
// Each cell is a table of per-site methylation calls. Every unordered
// cell pair is joined on genomic position and scored at the shared sites
// (shared-site count, Pearson correlation, Manhattan distance, and
// Manhattan distance scaled by shared sites). The long-form pairwise
// records pivot into a symmetric dissimilarity matrix, which is then
// hierarchically clustered and cut into a requested number of groups.
//
// Basic usage:
//
//	stats, err := methclust.PairwiseStats(tables, methclust.DefaultOptions())
//	matrix, err := methclust.AssembleMatrix(stats, methclust.DefaultMatrixConfig())
//	cfg := methclust.DefaultClusterConfig()
//	cfg.K = 3
//	result, err := methclust.Cluster(matrix, cfg)
//	// result.Assignment[cell] is the cluster label in 1..K
//	// result.Dendrogram is the full linkage in scipy format
//
// Pair comparison fans out over a fixed number of parallel workers;
// results are always returned in the deterministic pair enumeration
// order (sorted cell names, first index outer), regardless of worker
// count. Pairs with no shared sites are propagated as missing values,
// never as zero distance.
package methclust
