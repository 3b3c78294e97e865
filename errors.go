package rectpack

import "errors"

// Sentinel errors for the strip-packing core. The heuristic's own
// "no valid placement at this step" outcome (spec.md §7's NoPlacement) has
// no sentinel here — it is signalled only via Heuristic.Run's bool return,
// consumed internally by Tabu Search, and never surfaces as an error.
var (
	// ErrInvalidInput is returned when a rectangle has a non-positive
	// dimension, or is too wide for the strip even after rotation, or
	// when the strip itself has non-positive dimensions. The caller gets
	// this back before any search is attempted.
	ErrInvalidInput = errors.New("rectpack: invalid input")

	// ErrTimeBudget wraps the best-so-far result IDBS.Run returns when
	// its deadline passes before LB closes with UB. Checked via
	// errors.Is; the Race harness treats it as an expected per-worker
	// outcome, not a fatal one.
	ErrTimeBudget = errors.New("rectpack: time budget exhausted before convergence")

	// ErrCancelled wraps the best-so-far (or zero-value) result that
	// Heuristic.Run, TabuSearch.Run, and IDBS.Run return when ctx is
	// cancelled before they finish. The Race harness swallows it at the
	// worker boundary — a cancelled worker losing the race is expected,
	// not fatal.
	ErrCancelled = errors.New("rectpack: cancelled")

	// ErrNoResult is returned by Race.Run when none of its IDBS workers
	// produced a feasible placement within its budget. IDBS.Run itself
	// never returns it; it reports that case with IDBSResult.Found false.
	ErrNoResult = errors.New("rectpack: no feasible placement found")

	// ErrOptionViolation is returned when a functional Option carries an
	// invalid value (e.g. a non-positive tabu tenure multiplier).
	ErrOptionViolation = errors.New("rectpack: invalid option")
)

// segmentInvariantError reports a violated segment-list invariant;
// surfaced only from validateInvariants, which property tests call
// directly since the invariants are internal to one heuristic run.
type segmentInvariantError struct {
	reason string
}

func errSegmentInvariant(reason string) error {
	return &segmentInvariantError{reason: reason}
}

func (e *segmentInvariantError) Error() string {
	return "rectpack: segment invariant violated: " + e.reason
}

// vim: ts=4
