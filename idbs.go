package rectpack

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

// IDBSResult is the outcome of one IDBS.Run call: the best permutation and
// height found, if any, and whether that height reached the caller's
// target. Whether the search ended on its time budget or on cancellation
// is reported by the error Run returns alongside it, not by this struct.
type IDBSResult struct {
	Permutation []*Rectangle
	Height      int
	Found       bool
	Optimal     bool
}

// IDBS is component C: binary search over candidate strip heights, with an
// exponentially doubling per-trial Tabu Search iteration budget. A zero
// IDBS is not usable; build one with NewIDBS.
type IDBS struct {
	opts options
}

// NewIDBS builds an IDBS driver from the given options; the same L, T,
// time limit, seed, and max-spread options that configure TabuSearch.
func NewIDBS(opts ...Option) (*IDBS, error) {
	o, err := buildOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &IDBS{opts: o}, nil
}

// Run performs a binary search on strip height, widening its window by
// 1.1x whenever a full pass finds no feasible height, doubling the Tabu
// Search iteration budget every pass. targetHeight is the known optimum;
// pass 0 if it is unknown, in which case Run never short-circuits on
// height equality and instead runs until LB == UB or the time budget (or
// ctx) ends it.
//
// The order of rectangles is left as it is, but the Rectangle values its
// elements point to have their index and placement fields mutated; callers racing several IDBS.Run calls
// concurrently must pass each one its own deep copy, exactly as the Race
// harness does.
func (d *IDBS) Run(ctx context.Context, rng *rand.Rand, rectangles []*Rectangle, width, targetHeight int, seq *TabuSearch) (IDBSResult, error) {
	totalArea := 0
	for _, r := range rectangles {
		totalArea += r.Area()
	}
	lb := ceilDiv(totalArea, width)
	ub := ceilDiv(lb*11, 10)
	if ub < lb {
		ub = lb
	}

	iter := 1
	var best IDBSResult
	deadline := time.Now().Add(d.opts.timeLimit)

	for lb != ub {
		if err := budgetErr(ctx, deadline); err != nil {
			return best, err
		}

		tmpLB := lb
		ubFound := false

		for tmpLB < ub {
			if err := budgetErr(ctx, deadline); err != nil {
				return best, err
			}

			height := (tmpLB + ub) / 2
			perm := make([]*Rectangle, len(rectangles))
			copy(perm, rectangles)

			ok, result, err := seq.Run(ctx, rng, perm, width, height, iter)
			if err != nil {
				return best, err
			}
			if ok {
				best = IDBSResult{Permutation: result, Height: height, Found: true}
				d.opts.logger.Debug().Int("height", height).Int("iter", iter).Msg("idbs: feasible height found")
				if targetHeight > 0 && height == targetHeight {
					best.Optimal = true
					return best, nil
				}
				ub = height
				ubFound = true
			} else {
				tmpLB = height + 1
			}
		}

		if !ubFound {
			ub = ceilDiv(ub*11, 10)
		}
		iter *= 2
	}

	return best, nil
}

// ceilDiv returns ceil(a/b) for positive a, b using integer-only
// arithmetic, per spec.md §9's explicit rejection of float rounding.
func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func cancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// budgetErr reports why Run should stop right now, if at all: ctx
// cancellation takes priority over a merely-expired deadline.
func budgetErr(ctx context.Context, deadline time.Time) error {
	if cancelled(ctx) {
		return fmt.Errorf("rectpack: idbs cancelled: %w", ErrCancelled)
	}
	if !time.Now().Before(deadline) {
		return fmt.Errorf("rectpack: idbs time budget exhausted: %w", ErrTimeBudget)
	}
	return nil
}

// vim: ts=4
