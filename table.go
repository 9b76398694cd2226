package methclust

import (
	"fmt"
	"math"
	"sort"
)

// CpGSite is a single methylation call: one CpG position in one cell.
// MethylationPercent is in [0, 100]; a digital (binary) call is exactly
// 0 or 100.
type CpGSite struct {
	Chromosome         string
	Position           int
	MethylationPercent float64
}

// CpGTable holds all methylation calls for one cell. Order is not
// significant; positions are unique within a chromosome. Tables are
// read-only to this package: no function here mutates one.
type CpGTable []CpGSite

// sitePos identifies a CpG site across tables.
type sitePos struct {
	chrom string
	pos   int
}

// Validate checks the table against the ingestion contract: non-empty
// chromosome names, positive positions, methylation percentages in
// [0, 100] (NaN rejected), and no duplicate (chromosome, position).
// Returns an error wrapping ErrMalformedTable on the first violation.
func (t CpGTable) Validate() error {
	seen := make(map[sitePos]struct{}, len(t))
	for i, s := range t {
		if s.Chromosome == "" {
			return fmt.Errorf("%w: row %d: empty chromosome", ErrMalformedTable, i)
		}
		if s.Position <= 0 {
			return fmt.Errorf("%w: row %d: position %d is not positive", ErrMalformedTable, i, s.Position)
		}
		if math.IsNaN(s.MethylationPercent) || s.MethylationPercent < 0 || s.MethylationPercent > 100 {
			return fmt.Errorf("%w: row %d: methylation percent %v outside [0,100]",
				ErrMalformedTable, i, s.MethylationPercent)
		}
		key := sitePos{s.Chromosome, s.Position}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: duplicate site %s:%d", ErrMalformedTable, s.Chromosome, s.Position)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// DigitalCalls returns the subset of t whose calls are digital
// (methylation percent exactly 0 or 100). Intermediate values in
// single-cell data reflect measurement noise rather than true partial
// methylation, so they are dropped before comparison. The input is
// not modified.
func DigitalCalls(t CpGTable) CpGTable {
	out := make(CpGTable, 0, len(t))
	for _, s := range t {
		if s.MethylationPercent == 0 || s.MethylationPercent == 100 {
			out = append(out, s)
		}
	}
	return out
}

// SharedSite is one genomic position covered by both cells of a pair,
// with each cell's methylation call.
type SharedSite struct {
	Chromosome   string
	Position     int
	MethA, MethB float64
}

// JoinShared inner-joins two tables on (chromosome, position), keeping
// only sites present in both. The result is sorted by chromosome then
// position, so join output is deterministic regardless of input order.
func JoinShared(a, b CpGTable) []SharedSite {
	idx := make(map[sitePos]float64, len(b))
	for _, s := range b {
		idx[sitePos{s.Chromosome, s.Position}] = s.MethylationPercent
	}

	shared := make([]SharedSite, 0)
	for _, s := range a {
		if mb, ok := idx[sitePos{s.Chromosome, s.Position}]; ok {
			shared = append(shared, SharedSite{
				Chromosome: s.Chromosome,
				Position:   s.Position,
				MethA:      s.MethylationPercent,
				MethB:      mb,
			})
		}
	}

	sort.Slice(shared, func(i, j int) bool {
		if shared[i].Chromosome != shared[j].Chromosome {
			return shared[i].Chromosome < shared[j].Chromosome
		}
		return shared[i].Position < shared[j].Position
	})
	return shared
}
