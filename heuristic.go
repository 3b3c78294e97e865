package rectpack

import (
	"context"
	"fmt"
)

// Heuristic is the deterministic segment-list constructive placement
// algorithm (component A). Given a permutation of rectangles and a
// bounded strip height, it decides for every rectangle where, if
// anywhere, to place it, maintaining a piecewise-constant skyline and
// applying a lookahead waste/fitness decision rule at every step.
//
// A Heuristic value holds no state between calls to Run and is safe to
// reuse (including concurrently, as long as each call gets its own
// sequence of rectangles).
type Heuristic struct {
	// MaxSpread caps how far the occupied region may grow above its
	// current lowest altitude during a run. Zero (the default) disables
	// the constraint by using the target height.
	MaxSpread int

	// PollEvery is how many placements Run makes between checks of the
	// ctx passed to it (spec.md §5 poll point (c), "optionally between
	// heuristic placements for datasets with hundreds of rectangles").
	// Zero or negative disables polling entirely, leaving a run
	// uncancellable once started — the right default for small N, where
	// the run completes before cancellation would ever matter.
	PollEvery int
}

// Run places every rectangle in sequence into a strip of the given width,
// subject to a hard height cap. Rectangle order in sequence determines
// the tie-break priority described in the fourth cascade step below; each
// rectangle's stable index is (re)assigned to its position in sequence at
// the start of the run.
//
// On success every rectangle in sequence has a placement, ok is true, and
// placed equals len(sequence). On failure no rectangle in sequence is left
// with a placement, and ok is false; wasted reflects only the accounted
// waste up to the failing step, and placed reports how many rectangles had
// been placed before the step that found no valid candidate — Tabu Search
// uses this count to rank otherwise-infeasible permutations; it exposes no
// coordinates, only a count, so it doesn't violate the "no partial
// placements" rule above.
//
// Run validates input eagerly: a non-positive dimension, or a rectangle
// whose shorter side exceeds width even after rotation, fails fast with
// ErrInvalidInput and attempts no placement at all.
//
// If PollEvery is positive, Run checks ctx for cancellation after every
// PollEvery-th placement; on cancellation it clears every placement made
// during the run (the same "no partial placements" rule that governs an
// ordinary failed run) and returns an error wrapping ErrCancelled.
func (hx *Heuristic) Run(ctx context.Context, sequence []*Rectangle, width, height int) (ok bool, wasted int, placed int, err error) {
	if width <= 0 || height <= 0 {
		return false, 0, 0, fmt.Errorf("rectpack: strip dimensions must be positive: %w", ErrInvalidInput)
	}
	for _, r := range sequence {
		if r.Width <= 0 || r.Height <= 0 {
			return false, 0, 0, fmt.Errorf("rectpack: rectangle id=%d has a non-positive dimension: %w", r.ID, ErrInvalidInput)
		}
		if r.MinSide() > width {
			return false, 0, 0, fmt.Errorf("rectpack: rectangle id=%d does not fit strip width %d even rotated: %w", r.ID, width, ErrInvalidInput)
		}
	}

	maxSpread := hx.MaxSpread
	if maxSpread <= 0 {
		maxSpread = height
	}

	run := newHeuristicRun(width, height, maxSpread)
	run.unplaced = make([]*Rectangle, 0, len(sequence))
	for i, r := range sequence {
		r.index = i
		r.clearPlacement()
		run.unplaced = append(run.unplaced, r)
	}

	placements := 0
	clearAll := func() {
		for _, r := range sequence {
			r.clearPlacement()
		}
	}
	place := func(c placementCandidate) {
		run.place(c)
		placements++
	}

	for len(run.unplaced) > 0 {
		if hx.PollEvery > 0 && placements > 0 && placements%hx.PollEvery == 0 {
			select {
			case <-ctx.Done():
				placedSoFar := len(sequence) - len(run.unplaced)
				clearAll()
				return false, run.wasted, placedSoFar, fmt.Errorf("rectpack: heuristic run cancelled after %d placements: %w", placedSoFar, ErrCancelled)
			default:
			}
		}

		run.findMinValues()
		run.findCandidatePoints()
		run.onlyFits = run.onlyFits[:0]
		candidates := run.findValidPlacements()

		if len(candidates) == 0 {
			placedSoFar := len(sequence) - len(run.unplaced)
			// Clear every rectangle, not just the still-unplaced ones —
			// spec.md §4.A is explicit that a failed run exposes no
			// partial placements at all, unlike the reference
			// implementation, which only resets unplaced_rectangles.
			clearAll()
			return false, run.wasted, placedSoFar, nil
		}

		if len(run.onlyFits) == 1 {
			place(run.onlyFits[0])
			continue
		}
		if len(run.onlyFits) > 1 {
			candidates = run.onlyFits
		}

		candidates = run.filterMinWaste(candidates)
		if len(candidates) == 1 {
			place(candidates[0])
			continue
		}

		candidates = run.filterMaxFitness(candidates)
		if len(candidates) == 1 {
			place(candidates[0])
			continue
		}

		place(run.tiebreak(candidates))
	}

	return true, run.wasted, len(sequence), nil
}

// vim: ts=4
