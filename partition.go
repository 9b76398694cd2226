package methclust

import "fmt"

// BatchRange is a contiguous range of work-item indices assigned to one
// worker, 1-based and inclusive on both ends.
type BatchRange struct {
	From, To int
}

// Size returns the number of items in the range.
func (r BatchRange) Size() int { return r.To - r.From + 1 }

// Partition splits the indices 1..total into at most `workers` contiguous
// ranges, covering every index exactly once:
//
//   - total <= workers: one singleton range per item.
//   - total <= 2*workers: ranges of size 2; an odd total extends the final
//     range by one instead of creating a trailing singleton.
//   - otherwise: workers-1 ranges of size total/workers, with the final
//     range absorbing the remainder.
//
// The remainder always lands in the last range, so batch sizes are
// approximately — not optimally — balanced. Requires workers >= 2 and
// total >= 1; anything else is a configuration error.
func Partition(total, workers int) ([]BatchRange, error) {
	if workers <= 1 {
		return nil, fmt.Errorf("%w: parallelism requires 2 or more workers (got %d)", ErrConfiguration, workers)
	}
	if total < 1 {
		return nil, fmt.Errorf("%w: nothing to partition (total %d)", ErrConfiguration, total)
	}

	switch {
	case total <= workers:
		ranges := make([]BatchRange, total)
		for i := range ranges {
			ranges[i] = BatchRange{From: i + 1, To: i + 1}
		}
		return ranges, nil

	case total <= 2*workers:
		ranges := make([]BatchRange, 0, workers)
		for from := 1; from+1 <= total; from += 2 {
			ranges = append(ranges, BatchRange{From: from, To: from + 1})
		}
		// Odd total: stretch the last pair to cover the final item.
		if total%2 == 1 {
			ranges[len(ranges)-1].To = total
		}
		return ranges, nil

	default:
		batch := total / workers
		ranges := make([]BatchRange, 0, workers)
		from := 1
		for i := 0; i < workers-1; i++ {
			ranges = append(ranges, BatchRange{From: from, To: from + batch - 1})
			from += batch
		}
		// Final range absorbs the remainder.
		ranges = append(ranges, BatchRange{From: from, To: total})
		return ranges, nil
	}
}
