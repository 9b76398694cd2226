package methclust

import (
	"fmt"
	"math"
)

// Linkage selects how inter-cluster distance is updated during
// agglomeration (Lance–Williams family).
type Linkage string

const (
	LinkageSingle   Linkage = "single"
	LinkageComplete Linkage = "complete"
	LinkageAverage  Linkage = "average"
)

// ClusterConfig controls hierarchical clustering.
// Start with [DefaultClusterConfig] and set K.
type ClusterConfig struct {
	// K is the number of flat clusters to cut the dendrogram into.
	// Required; must be in [1, number of cells].
	K int

	// Linkage is the agglomeration rule. Default: LinkageComplete.
	Linkage Linkage
}

// DefaultClusterConfig returns the default clustering configuration
// (complete linkage; K must still be set by the caller).
func DefaultClusterConfig() ClusterConfig {
	return ClusterConfig{Linkage: LinkageComplete}
}

// ClusterResult is the output of hierarchical clustering.
type ClusterResult struct {
	// Names are the clustered cells, in matrix (sorted) order. Leaf i of
	// the dendrogram is Names[i].
	Names []string

	// Dendrogram holds the n-1 merges in scipy linkage format: each row
	// is [left, right, height, mergedSize], with merged-cluster IDs
	// starting at n.
	Dendrogram [][4]float64

	// Assignment maps every cell name to a flat cluster label in 1..K.
	// Labels are assigned in order of each cluster's lexicographically
	// smallest member, so labeling is deterministic for a fixed matrix.
	Assignment map[string]int
}

// Cluster agglomeratively clusters the cells of a dissimilarity matrix
// and cuts the dendrogram into cfg.K flat clusters. The matrix must be
// fully populated off-diagonal for every cell being clustered — any
// missing (NaN) entry is an error. The diagonal is ignored.
func Cluster(m *DissimilarityMatrix, cfg ClusterConfig) (*ClusterResult, error) {
	if cfg.Linkage == "" {
		cfg.Linkage = LinkageComplete
	}
	switch cfg.Linkage {
	case LinkageSingle, LinkageComplete, LinkageAverage:
	default:
		return nil, fmt.Errorf("%w: unknown linkage %q", ErrConfiguration, cfg.Linkage)
	}

	n := m.Len()
	if cfg.K < 1 || cfg.K > n {
		return nil, fmt.Errorf("%w: K must be in [1, %d], got %d", ErrConfiguration, n, cfg.K)
	}

	names := m.Names()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if math.IsNaN(m.data.At(i, j)) {
				return nil, fmt.Errorf("%w: no dissimilarity for pair %s/%s",
					ErrIncompleteMatrix, names[i], names[j])
			}
		}
	}

	dendrogram := linkageMerges(m, cfg.Linkage)
	assignment := cutDendrogram(dendrogram, names, cfg.K)

	return &ClusterResult{
		Names:      names,
		Dendrogram: dendrogram,
		Assignment: assignment,
	}, nil
}

// linkageMerges runs naive Lance–Williams agglomeration over the dense
// matrix: n-1 rounds, each picking the closest active cluster pair and
// merging it under the next dendrogram ID. O(n³) scan, which is fine at
// single-cell experiment scale (hundreds of cells).
func linkageMerges(m *DissimilarityMatrix, linkage Linkage) [][4]float64 {
	n := m.Len()
	if n <= 1 {
		return nil
	}

	// Cluster slots 0..2n-2: leaves first, then one slot per merge.
	total := 2*n - 1
	dist := make([][]float64, total)
	for i := range dist {
		dist[i] = make([]float64, total)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := m.data.At(i, j)
			dist[i][j] = d
			dist[j][i] = d
		}
	}

	active := make([]bool, total)
	size := make([]int, total)
	for i := 0; i < n; i++ {
		active[i] = true
		size[i] = 1
	}

	merges := make([][4]float64, 0, n-1)
	for step := 0; step < n-1; step++ {
		// Closest active pair; strict < keeps the lowest-indexed pair on
		// ties, so merges are deterministic.
		best := math.Inf(1)
		bi, bj := -1, -1
		for i := 0; i < n+step; i++ {
			if !active[i] {
				continue
			}
			for j := i + 1; j < n+step; j++ {
				if active[j] && dist[i][j] < best {
					best = dist[i][j]
					bi, bj = i, j
				}
			}
		}

		c := n + step
		for k := 0; k < n+step; k++ {
			if !active[k] || k == bi || k == bj {
				continue
			}
			var d float64
			switch linkage {
			case LinkageSingle:
				d = math.Min(dist[bi][k], dist[bj][k])
			case LinkageComplete:
				d = math.Max(dist[bi][k], dist[bj][k])
			default: // LinkageAverage
				si, sj := float64(size[bi]), float64(size[bj])
				d = (si*dist[bi][k] + sj*dist[bj][k]) / (si + sj)
			}
			dist[c][k] = d
			dist[k][c] = d
		}

		size[c] = size[bi] + size[bj]
		active[bi], active[bj] = false, false
		active[c] = true
		merges = append(merges, [4]float64{float64(bi), float64(bj), best, float64(size[c])})
	}
	return merges
}

// cutDendrogram replays the first n-k merges through a union-find and
// labels the resulting clusters 1..k. Iterating leaves in matrix order
// (sorted names) assigns labels by each cluster's smallest member.
func cutDendrogram(merges [][4]float64, names []string, k int) map[string]int {
	n := len(names)
	uf := newUnionFind(n)
	for _, row := range merges[:n-k] {
		uf.merge(int(row[0]), int(row[1]))
	}

	assignment := make(map[string]int, n)
	labels := make(map[int]int, k)
	for i, name := range names {
		root := uf.find(i)
		label, ok := labels[root]
		if !ok {
			label = len(labels) + 1
			labels[root] = label
		}
		assignment[name] = label
	}
	return assignment
}
