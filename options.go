package rectpack

import (
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog"
)

// Option configures a Solver via functional arguments. If an Option
// carries an invalid value (e.g. a non-positive tenure multiplier), it is
// recorded internally and surfaced as ErrOptionViolation when the Solver
// is built, rather than panicking.
type Option func(*options)

// options holds every tunable of the search layer (components B, C, D).
// Per-call heuristic parameters (strip width, target height) are not
// here — they stay plain arguments, mirroring how the teacher's
// NewPacker takes width/height directly rather than through options.
type options struct {
	l           int
	t           int
	timeLimit   time.Duration
	parallelism int
	seed        uint64
	maxSpread   int
	pollEvery   int
	logger      zerolog.Logger
	err         error
}

// defaultOptions returns the Solver defaults: L=10, T=3 (spec.md §4.B),
// a 100s time budget, NumCPU-sized parallelism, and a disabled
// (Nop) logger.
func defaultOptions() options {
	return options{
		l:           10,
		t:           3,
		timeLimit:   100 * time.Second,
		parallelism: runtime.NumCPU(),
		seed:        1,
		pollEvery:   256,
		logger:      zerolog.Nop(),
	}
}

func buildOptions(opts ...Option) (options, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return options{}, o.err
	}
	return o, nil
}

// WithTabuParams sets the Tabu Search neighbor count L (new neighbors
// generated per iteration) and tenure multiplier T (unlock offset is
// T*N, N the rectangle count). Both must be positive.
func WithTabuParams(l, t int) Option {
	return func(o *options) {
		if l <= 0 || t <= 0 {
			o.err = fmt.Errorf("%w: L and T must be positive, got L=%d T=%d", ErrOptionViolation, l, t)
			return
		}
		o.l = l
		o.t = t
	}
}

// WithTimeLimit bounds the wall-clock budget of a single IDBS run. Must
// be positive.
func WithTimeLimit(d time.Duration) Option {
	return func(o *options) {
		if d <= 0 {
			o.err = fmt.Errorf("%w: time limit must be positive, got %s", ErrOptionViolation, d)
			return
		}
		o.timeLimit = d
	}
}

// WithParallelism sets the parallelism fed into the Race harness's
// max(1, parallelism/2) worker-count rule. Must be positive.
func WithParallelism(n int) Option {
	return func(o *options) {
		if n <= 0 {
			o.err = fmt.Errorf("%w: parallelism must be positive, got %d", ErrOptionViolation, n)
			return
		}
		o.parallelism = n
	}
}

// WithSeed sets the base RNG seed. Each Race worker derives its own seed
// from this value combined with its worker index, so no two workers
// sample the same Tabu neighborhoods.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithMaxSpread overrides the heuristic's vertical spread cap. Zero (the
// default) disables the constraint.
func WithMaxSpread(spread int) Option {
	return func(o *options) {
		if spread < 0 {
			o.err = fmt.Errorf("%w: max spread must be non-negative, got %d", ErrOptionViolation, spread)
			return
		}
		o.maxSpread = spread
	}
}

// WithHeuristicPollInterval sets how many placements the heuristic
// performs between cancellation checks, forwarded to every internal
// Heuristic's PollEvery field (tabu.go). Only relevant for datasets with
// hundreds of rectangles, per spec.md §5; must be positive.
func WithHeuristicPollInterval(n int) Option {
	return func(o *options) {
		if n <= 0 {
			o.err = fmt.Errorf("%w: poll interval must be positive, got %d", ErrOptionViolation, n)
			return
		}
		o.pollEvery = n
	}
}

// WithLogger attaches a zerolog.Logger for structured progress output
// from the Tabu Search, IDBS driver, and Race harness. The placement
// heuristic itself never logs — it runs far too often per search.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// vim: ts=4
