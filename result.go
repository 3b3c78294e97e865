package rectpack

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Placement is one rectangle's final position: bottom-left coordinate and
// whether it was placed rotated. RectangleID echoes the Rectangle.ID the
// caller supplied; it plays no role in the search itself.
type Placement struct {
	RectangleID int
	X, Y        int
	Rotated     bool
}

// Result is the output of the core per spec.md §6: the achieved strip
// height and the placements reached at it. If not every rectangle was
// placed, Placements holds only the ones that were, and Height is the
// best feasible height found, which may be worse than any target height
// that was passed in.
type Result struct {
	Height     int
	Placements []Placement
	// Optimal is true when Height equals the caller's known target
	// height (spec.md §7's normal termination case), false when the
	// search stopped for any other reason (time budget, cancellation, or
	// simply never reaching the target).
	Optimal bool
}

// Complete reports whether every rectangle passed to Run appears in
// Placements.
func (res Result) Complete(rectangleCount int) bool {
	return len(res.Placements) == rectangleCount
}

// newResultFromPermutation re-runs the placement heuristic once on perm at
// height to recover concrete coordinates. IDBS and Tabu Search only ever
// carry a permutation and a height between trials — not placements — so
// the harness materializes the final Result exactly once, on the winning
// permutation, instead of threading coordinates through every trial.
func newResultFromPermutation(perm []*Rectangle, width, height int, maxSpread int, optimal bool) (Result, error) {
	hx := &Heuristic{MaxSpread: maxSpread}
	// context.Background(): this re-derivation runs once, fast and
	// deterministically, on a permutation already proven to fit at this
	// height — it always runs to completion regardless of the outer
	// Race's ctx, including when that ctx is the one just cancelled by
	// this very winner.
	ok, _, _, err := hx.Run(context.Background(), perm, width, height)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{}, fmt.Errorf("rectpack: winning permutation no longer fits height %d: %w", height, ErrNoResult)
	}

	placements := make([]Placement, 0, len(perm))
	for _, r := range perm {
		x, y := r.Position()
		placements = append(placements, Placement{RectangleID: r.ID, X: x, Y: y, Rotated: r.Rotated()})
	}
	return Result{Height: height, Placements: placements, Optimal: optimal}, nil
}

// Summary renders a human-readable table of the result, one row per
// placement, for diagnostics and manual inspection — never parsed by the
// core itself.
func (res Result) Summary() string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(fmt.Sprintf("Strip height %d (%d placed)", res.Height, len(res.Placements)))
	tw.AppendHeader(table.Row{"ID", "X", "Y", "Rotated"})
	for _, p := range res.Placements {
		tw.AppendRow(table.Row{p.RectangleID, p.X, p.Y, p.Rotated})
	}
	return tw.Render()
}

// vim: ts=4
