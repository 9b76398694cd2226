package methclust

import "errors"

// Sentinel error kinds. Callers distinguish failure classes with
// errors.Is; concrete failures wrap these with contextual detail.
var (
	// ErrConfiguration reports an invalid option value (worker count,
	// cluster count, measure, empty input set). Configuration errors are
	// raised before any work is dispatched.
	ErrConfiguration = errors.New("methclust: invalid configuration")

	// ErrIncompleteMatrix reports a clustering request on a matrix with a
	// missing off-diagonal entry. Clustering never runs on partial data.
	ErrIncompleteMatrix = errors.New("methclust: incomplete dissimilarity matrix")

	// ErrMalformedTable reports a CpG table that fails validation:
	// missing fields, out-of-range methylation values, or duplicate
	// positions within a chromosome.
	ErrMalformedTable = errors.New("methclust: malformed CpG table")
)
