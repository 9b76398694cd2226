package methclust

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// PairStats is the dissimilarity record for one unordered cell pair.
// Pearson and ManhattanScaled are NaN when undefined: a pair with no
// shared sites has no scaled distance, and a pair with zero variance on
// either side has no correlation. NaN here means "missing", never zero.
type PairStats struct {
	CellA, CellB    string
	SharedSites     int
	Pearson         float64
	Manhattan       float64
	ManhattanScaled float64
}

// Comparable reports whether the pair overlapped at all. Pairs with no
// shared sites must be treated as missing, not as distance zero.
func (p PairStats) Comparable() bool { return p.SharedSites > 0 }

// Compare joins two cells' tables on genomic position and computes their
// dissimilarity record. With digitalOnly set, both tables are first
// restricted to binary calls (0 or 100). Pure function: neither input is
// modified, and equal inputs always produce equal output.
func Compare(a, b CpGTable, digitalOnly bool) PairStats {
	if digitalOnly {
		a = DigitalCalls(a)
		b = DigitalCalls(b)
	}
	return StatsFromShared(JoinShared(a, b))
}

// StatsFromShared computes the numeric fields from an already-joined pair
// table, as returned by JoinShared or PairwiseJoins. Compare is exactly
// this applied to the join, so computing stats from retained joins yields
// the same records Compare would.
func StatsFromShared(shared []SharedSite) PairStats {
	n := len(shared)
	if n == 0 {
		return PairStats{
			SharedSites:     0,
			Pearson:         math.NaN(),
			Manhattan:       0,
			ManhattanScaled: math.NaN(),
		}
	}

	x := make([]float64, n)
	y := make([]float64, n)
	for i, s := range shared {
		x[i] = s.MethA
		y[i] = s.MethB
	}

	manhattan := floats.Distance(x, y, 1)
	return PairStats{
		SharedSites:     n,
		Pearson:         stat.Correlation(x, y, nil), // NaN when either side has zero variance
		Manhattan:       manhattan,
		ManhattanScaled: manhattan / float64(n),
	}
}
