package rectpack

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
)

// failureScoreBase separates the two comparison strata described by
// spec.md §4.B: every successful trial's score is its wasted area, every
// failed trial's score is failureScoreBase plus its unplaced count, so
// "all placed" always sorts below (better than) "any unplaced" regardless
// of how little was wasted or how few rectangles remain.
const failureScoreBase = 1 << 30

// tabuTrial is one evaluated neighbor: the permutation produced by
// swapping positions a and b, and the heuristic outcome it reached.
type tabuTrial struct {
	a, b   int
	perm   []*Rectangle
	ok     bool
	wasted int
	placed int
}

func (t tabuTrial) score(n int) int {
	if t.ok {
		return t.wasted
	}
	return failureScoreBase + (n - t.placed)
}

// TabuSearch is component B: a swap-neighborhood local search over
// rectangle permutations, using Heuristic.Run as its evaluation function.
// A TabuSearch value holds only its tuning parameters and is safe to
// reuse and to run concurrently, as long as each call gets its own
// rectangle slice and *rand.Rand.
type TabuSearch struct {
	opts options
}

// NewTabuSearch builds a TabuSearch from the given options, defaulting to
// L=10 neighbors per iteration and tenure multiplier T=3 (spec.md §4.B).
func NewTabuSearch(opts ...Option) (*TabuSearch, error) {
	o, err := buildOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &TabuSearch{opts: o}, nil
}

// Run searches permutations of rectangles for one the placement heuristic
// can fit into a strip of width x height, stopping after budget iterations
// or when ctx is cancelled, whichever comes first. It returns whether a
// fully-placed permutation was found and the best permutation observed —
// ok implies best placed every rectangle; otherwise best is simply the
// lowest-scoring permutation seen, per the (wasted, unplaced-count)
// stratified score above.
//
// Run mutates the Rectangle values pointed to by rectangles repeatedly
// (every trial reassigns their index and placement fields); callers
// racing multiple TabuSearch.Run calls concurrently must give each one a
// distinct, deep-copied slice of rectangles, exactly as the Race harness
// does for its workers.
func (ts *TabuSearch) Run(ctx context.Context, rng *rand.Rand, rectangles []*Rectangle, width, height, budget int) (ok bool, best []*Rectangle, err error) {
	n := len(rectangles)
	if n == 0 {
		return true, nil, nil
	}

	perm := make([]*Rectangle, n)
	copy(perm, rectangles)

	hx := &Heuristic{MaxSpread: ts.opts.maxSpread, PollEvery: ts.opts.pollEvery}

	initOK, initWasted, initPlaced, err := hx.Run(ctx, perm, width, height)
	if err != nil {
		return false, nil, err
	}
	if initOK {
		return true, perm, nil
	}

	bestPerm := make([]*Rectangle, n)
	copy(bestPerm, perm)
	bestScore := (tabuTrial{ok: initOK, wasted: initWasted, placed: initPlaced}).score(n)

	// tabu[p] is the iteration at or after which position p may again be
	// chosen as a swap endpoint. Grounded on the QAP tabu search example's
	// tabuList[i][value], simplified to one map keyed by position since
	// spec.md §4.B describes "mark its swapped positions tabu", not a
	// per-(position,value) attribute tabu.
	tabu := make(map[int]int, n)
	tenureSpan := ts.opts.t * n

	for k := 1; k <= budget; k++ {
		if cancelled(ctx) {
			return false, bestPerm, fmt.Errorf("rectpack: tabu search cancelled at iteration %d: %w", k, ErrCancelled)
		}

		trials, err := ts.sampleNeighbors(ctx, rng, perm, tabu, k, width, height, hx)
		if err != nil {
			return false, bestPerm, err
		}
		if len(trials) == 0 {
			// Every sampled pair landed on a locked position; nothing to
			// do this iteration, the tenures will expire on their own.
			continue
		}

		sort.Slice(trials, func(i, j int) bool {
			si, sj := trials[i].score(n), trials[j].score(n)
			if si != sj {
				return si < sj
			}
			if trials[i].a != trials[j].a {
				return trials[i].a < trials[j].a
			}
			return trials[i].b < trials[j].b
		})

		chosen := trials[0]
		perm = chosen.perm
		tabu[chosen.a] = k + tenureSpan
		tabu[chosen.b] = k + tenureSpan

		ts.opts.logger.Debug().
			Int("iter", k).
			Bool("ok", chosen.ok).
			Int("wasted", chosen.wasted).
			Int("placed", chosen.placed).
			Msg("tabu: accepted neighbor")

		if chosen.ok {
			return true, perm, nil
		}
		if s := chosen.score(n); s < bestScore {
			bestScore = s
			copy(bestPerm, perm)
		}
	}

	return false, bestPerm, nil
}

// sampleNeighbors draws up to L distinct, currently-unlocked swap pairs
// from perm and evaluates each via the placement heuristic. It gives up
// after 20x as many attempts as requested neighbors, so a mostly-locked
// tabu state degrades to "do nothing this iteration" instead of spinning.
// A cancellation observed by the heuristic aborts sampling immediately and
// propagates up to Run; any other heuristic error is skipped, since
// dimension validation already happened on the initial permutation and a
// later failure here would mean the caller mutated a rectangle mid-search,
// which the contract above forbids.
func (ts *TabuSearch) sampleNeighbors(ctx context.Context, rng *rand.Rand, perm []*Rectangle, tabu map[int]int, iter, width, height int, hx *Heuristic) ([]tabuTrial, error) {
	n := len(perm)
	var trials []tabuTrial
	seen := make(map[[2]int]bool)

	maxAttempts := ts.opts.l * 20
	for attempts := 0; len(trials) < ts.opts.l && attempts < maxAttempts; attempts++ {
		a, b := rng.IntN(n), rng.IntN(n)
		if a == b {
			continue
		}
		if a > b {
			a, b = b, a
		}
		if seen[[2]int{a, b}] {
			continue
		}
		seen[[2]int{a, b}] = true
		if tabu[a] > iter || tabu[b] > iter {
			continue
		}

		cand := make([]*Rectangle, n)
		copy(cand, perm)
		cand[a], cand[b] = cand[b], cand[a]

		candOK, candWasted, candPlaced, err := hx.Run(ctx, cand, width, height)
		if err != nil {
			if errors.Is(err, ErrCancelled) {
				return nil, err
			}
			continue
		}
		trials = append(trials, tabuTrial{a: a, b: b, perm: cand, ok: candOK, wasted: candWasted, placed: candPlaced})
	}
	return trials, nil
}

// vim: ts=4
