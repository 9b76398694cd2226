package methclust

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Measure selects which PairStats field the assembled matrix holds.
type Measure string

const (
	MeasureSharedSites     Measure = "shared_sites"
	MeasurePearson         Measure = "pearson"
	MeasureManhattan       Measure = "manhattan"
	MeasureManhattanScaled Measure = "manhattan_scaled"
)

// value extracts the measure from a record. Any measure of a
// zero-overlap pair is missing: those pairs carry no information.
func (m Measure) value(s PairStats) float64 {
	if !s.Comparable() {
		return math.NaN()
	}
	switch m {
	case MeasureSharedSites:
		return float64(s.SharedSites)
	case MeasurePearson:
		return s.Pearson
	case MeasureManhattan:
		return s.Manhattan
	default:
		return s.ManhattanScaled
	}
}

// equalOrBothNaN treats NaN as equal to NaN, so duplicate zero-overlap
// records collapse like any other identical duplicates.
func equalOrBothNaN(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return a == b
}

func (m Measure) valid() bool {
	switch m {
	case MeasureSharedSites, MeasurePearson, MeasureManhattan, MeasureManhattanScaled:
		return true
	}
	return false
}

// MatrixConfig controls matrix assembly.
// Start with [DefaultMatrixConfig] and override the fields you need.
type MatrixConfig struct {
	// Measure is the PairStats field to pivot into the matrix.
	// Default: MeasureManhattanScaled.
	Measure Measure

	// Diagonal is the value placed at (cell, cell). nil leaves the
	// diagonal missing (NaN), the default. Clustering ignores the
	// diagonal either way.
	Diagonal *float64

	// Subset, when non-nil, drops any record whose pair is not fully
	// contained in the given cell names before assembly.
	Subset []string
}

// DefaultMatrixConfig returns the default assembly configuration:
// scaled Manhattan distance, missing diagonal, no subsetting.
func DefaultMatrixConfig() MatrixConfig {
	return MatrixConfig{Measure: MeasureManhattanScaled}
}

// DissimilarityMatrix is a square symmetric matrix of pairwise
// dissimilarities, indexed by cell name on both axes. Missing entries
// are NaN. Never mutated after assembly; Subset returns a new matrix.
type DissimilarityMatrix struct {
	names []string
	index map[string]int
	data  *mat.SymDense
}

// AssembleMatrix pivots long-form pairwise records into a square
// symmetric matrix. Cell names are the sorted union of names on the
// retained records; pairs absent from the records stay missing (NaN),
// never defaulted. Conflicting duplicate records for one pair are an
// error; identical duplicates collapse silently.
func AssembleMatrix(stats []PairStats, cfg MatrixConfig) (*DissimilarityMatrix, error) {
	if cfg.Measure == "" {
		cfg.Measure = MeasureManhattanScaled
	}
	if !cfg.Measure.valid() {
		return nil, fmt.Errorf("%w: unknown measure %q", ErrConfiguration, cfg.Measure)
	}

	retained := stats
	if cfg.Subset != nil {
		keep := make(map[string]bool, len(cfg.Subset))
		for _, name := range cfg.Subset {
			keep[name] = true
		}
		retained = retained[:0:0]
		for _, s := range stats {
			if keep[s.CellA] && keep[s.CellB] {
				retained = append(retained, s)
			}
		}
	}
	if len(retained) == 0 {
		return nil, fmt.Errorf("%w: no pairwise records to assemble", ErrConfiguration)
	}

	nameSet := make(map[string]bool, 2*len(retained))
	for _, s := range retained {
		if s.CellA == s.CellB {
			return nil, fmt.Errorf("%w: record pairs a cell with itself (%s)", ErrConfiguration, s.CellA)
		}
		nameSet[s.CellA] = true
		nameSet[s.CellB] = true
	}
	names := make([]string, 0, len(nameSet))
	for name := range nameSet {
		names = append(names, name)
	}
	sort.Strings(names)

	n := len(names)
	index := make(map[string]int, n)
	for i, name := range names {
		index[name] = i
	}

	// Pre-fill with NaN so unseen pairs read as missing.
	backing := make([]float64, n*n)
	for i := range backing {
		backing[i] = math.NaN()
	}
	data := mat.NewSymDense(n, backing)

	// Seen pairs are tracked explicitly: a missing (NaN) value is a real
	// record for its pair, so a later conflicting record must error even
	// when the first write was NaN.
	seen := make(map[[2]int]float64, len(retained))
	for _, s := range retained {
		i, j := index[s.CellA], index[s.CellB]
		v := cfg.Measure.value(s)
		key := [2]int{min(i, j), max(i, j)}
		if prev, dup := seen[key]; dup && !equalOrBothNaN(prev, v) {
			return nil, fmt.Errorf("%w: conflicting records for pair %s/%s (%v vs %v)",
				ErrConfiguration, s.CellA, s.CellB, prev, v)
		}
		seen[key] = v
		data.SetSym(i, j, v)
	}

	if cfg.Diagonal != nil {
		for i := 0; i < n; i++ {
			data.SetSym(i, i, *cfg.Diagonal)
		}
	}

	return &DissimilarityMatrix{names: names, index: index, data: data}, nil
}

// Names returns the cell names in matrix order (sorted). The returned
// slice is shared; callers must not modify it.
func (m *DissimilarityMatrix) Names() []string { return m.names }

// Len returns the number of cells on each axis.
func (m *DissimilarityMatrix) Len() int { return len(m.names) }

// At returns the entry for a cell-name pair. The second result is false
// if either name is not in the matrix. Missing entries are NaN.
func (m *DissimilarityMatrix) At(a, b string) (float64, bool) {
	i, ok := m.index[a]
	if !ok {
		return math.NaN(), false
	}
	j, ok := m.index[b]
	if !ok {
		return math.NaN(), false
	}
	return m.data.At(i, j), true
}

// Sym exposes the backing symmetric matrix, ordered as Names. Treat it
// as read-only.
func (m *DissimilarityMatrix) Sym() *mat.SymDense { return m.data }

// Subset returns a new matrix restricted to the given cell names. The
// result is sorted; input order does not matter. Unknown names are an
// error. The receiver is left untouched.
func (m *DissimilarityMatrix) Subset(names []string) (*DissimilarityMatrix, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: empty subset", ErrConfiguration)
	}
	sub := make([]string, len(names))
	copy(sub, names)
	sort.Strings(sub)

	index := make(map[string]int, len(sub))
	for i, name := range sub {
		if _, ok := m.index[name]; !ok {
			return nil, fmt.Errorf("%w: unknown cell %q in subset", ErrConfiguration, name)
		}
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("%w: duplicate cell %q in subset", ErrConfiguration, name)
		}
		index[name] = i
	}

	n := len(sub)
	data := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			data.SetSym(i, j, m.data.At(m.index[sub[i]], m.index[sub[j]]))
		}
	}
	return &DissimilarityMatrix{names: sub, index: index, data: data}, nil
}
