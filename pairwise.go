package methclust

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Pair names an unordered cell pair; A sorts before B.
type Pair struct {
	A, B string
}

// Options controls a pairwise run.
// Start with [DefaultOptions] and override the fields you need.
type Options struct {
	// DigitalOnly restricts every table to binary calls (0 or 100) before
	// joining. Default: true.
	DigitalOnly bool

	// Workers is the parallel worker count for the pair fan-out. Must be
	// >= 2; 0 means use runtime.NumCPU() (floored at 2). There is no
	// process-wide default: parallelism is always an explicit per-call
	// option. Default: 0 (auto).
	Workers int
}

// DefaultOptions returns the default pairwise run options.
func DefaultOptions() Options {
	return Options{DigitalOnly: true}
}

func applyOptionDefaults(opts *Options) {
	if opts.Workers == 0 {
		opts.Workers = runtime.NumCPU()
		if opts.Workers < 2 {
			opts.Workers = 2
		}
	}
}

// PairwiseStats compares every unordered pair of cells and returns one
// dissimilarity record per pair, in the deterministic enumeration order:
// cell names sorted lexicographically, pairs (i, j) with i < j, first
// index outer. Records appear in this order regardless of worker count
// or scheduling.
//
// Every table is validated before any work dispatches; a malformed table
// fails fast with the cell named. A failure inside a batch aborts the
// whole run — no partial results are returned.
func PairwiseStats(tables map[string]CpGTable, opts Options) ([]PairStats, error) {
	pairs, err := preparePairs(tables)
	if err != nil {
		return nil, err
	}

	out := make([]PairStats, len(pairs))
	err = runBatches(pairs, opts, func(i int, p Pair) error {
		stats := Compare(tables[p.A], tables[p.B], opts.DigitalOnly)
		stats.CellA, stats.CellB = p.A, p.B
		out[i] = stats
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// PairwiseJoins runs the same fan-out as PairwiseStats but stops after the
// join, returning each pair's shared-site table instead of its record.
// Use StatsFromShared on a returned table to recover the record Compare
// would have produced.
func PairwiseJoins(tables map[string]CpGTable, opts Options) (map[Pair][]SharedSite, error) {
	pairs, err := preparePairs(tables)
	if err != nil {
		return nil, err
	}

	joined := make([][]SharedSite, len(pairs))
	err = runBatches(pairs, opts, func(i int, p Pair) error {
		a, b := tables[p.A], tables[p.B]
		if opts.DigitalOnly {
			a = DigitalCalls(a)
			b = DigitalCalls(b)
		}
		joined[i] = JoinShared(a, b)
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make(map[Pair][]SharedSite, len(pairs))
	for i, p := range pairs {
		out[p] = joined[i]
	}
	return out, nil
}

// preparePairs validates every table and enumerates all C(n,2) unordered
// pairs over the sorted name list.
func preparePairs(tables map[string]CpGTable) ([]Pair, error) {
	if len(tables) < 2 {
		return nil, fmt.Errorf("%w: pairwise comparison needs at least 2 cells (got %d)",
			ErrConfiguration, len(tables))
	}

	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := tables[name].Validate(); err != nil {
			return nil, fmt.Errorf("cell %s: %w", name, err)
		}
	}

	pairs := make([]Pair, 0, len(names)*(len(names)-1)/2)
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			pairs = append(pairs, Pair{A: names[i], B: names[j]})
		}
	}
	return pairs, nil
}

// runBatches partitions the pair indices and fans batches out to parallel
// workers. Each batch walks its range sequentially in index order and
// writes through fn into caller-owned slots — slots are disjoint across
// batches, so no synchronization is needed beyond the join. The first
// error cancels the remaining batches (between pairs) and is returned
// wrapped with the offending pair's cell names.
func runBatches(pairs []Pair, opts Options, fn func(i int, p Pair) error) error {
	applyOptionDefaults(&opts)

	ranges, err := Partition(len(pairs), opts.Workers)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(context.Background())
	for _, r := range ranges {
		r := r
		g.Go(func() error {
			for i := r.From; i <= r.To; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				p := pairs[i-1] // ranges are 1-based
				if err := fn(i-1, p); err != nil {
					return fmt.Errorf("pair %s/%s: %w", p.A, p.B, err)
				}
			}
			return nil
		})
	}
	return g.Wait()
}
