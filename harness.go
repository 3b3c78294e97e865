package rectpack

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Race is component D: it runs several independent IDBS searches
// concurrently over deep-copied rectangle sets and returns the first
// success, cancelling the rest. Grounded on original_source/src/test.py's
// multiprocessing Event/Queue race, translated to one context.Context for
// cancellation and one buffered channel for the result handoff.
type Race struct {
	opts options
}

// NewRace builds a Race from the given options. WithParallelism controls
// worker count via max(1, parallelism/2), per spec.md §4.D; the rest
// configure every worker's IDBS and Tabu Search identically except for
// their RNG seed, which is derived per worker so no two explore the same
// neighborhoods.
func NewRace(opts ...Option) (*Race, error) {
	o, err := buildOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &Race{opts: o}, nil
}

// workerResult pairs an IDBS outcome with the worker that produced it, for
// logging only; selection among multiple late-arriving winners uses only
// the height.
type workerResult struct {
	workerID string
	outcome  IDBSResult
}

// Run races max(1, parallelism/2) IDBS workers against independent deep
// copies of rectangles, targeting strip width and (if known) targetHeight
// (pass 0 if unknown). The first worker to report a feasible height
// cancels the rest; Run then re-runs the placement heuristic once on the
// winning permutation to materialize a full Result.
func (race *Race) Run(ctx context.Context, rectangles []Rectangle, width, targetHeight int) (Result, error) {
	if len(rectangles) == 0 {
		return Result{Height: 0}, nil
	}
	for i := range rectangles {
		if rectangles[i].Width <= 0 || rectangles[i].Height <= 0 {
			return Result{}, fmt.Errorf("rectpack: rectangle id=%d has a non-positive dimension: %w", rectangles[i].ID, ErrInvalidInput)
		}
		if rectangles[i].MinSide() > width {
			return Result{}, fmt.Errorf("rectpack: rectangle id=%d does not fit strip width %d even rotated: %w", rectangles[i].ID, width, ErrInvalidInput)
		}
	}

	workerCount := max(1, race.opts.parallelism/2)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan workerResult, workerCount)
	g, gctx := errgroup.WithContext(runCtx)

	for w := 0; w < workerCount; w++ {
		workerIndex := w
		g.Go(func() error {
			workerID := uuid.NewString()
			rng := rand.New(rand.NewPCG(race.opts.seed, uint64(workerIndex)))
			clones := cloneRectangles(rectangles)

			workerOpts := race.opts
			workerOpts.logger = race.opts.logger.With().
				Str("worker", workerID).
				Int("worker_index", workerIndex).
				Logger()

			tabu := &TabuSearch{opts: workerOpts}
			driver := &IDBS{opts: workerOpts}

			outcome, err := driver.Run(gctx, rng, clones, width, targetHeight, tabu)
			if err != nil && !errors.Is(err, ErrCancelled) && !errors.Is(err, ErrTimeBudget) {
				return err
			}
			if err != nil {
				// Losing the race or timing out is an expected per-worker
				// outcome, not a group-wide failure — IDBS.Run still
				// returns its best-so-far outcome alongside the error, so
				// a worker that found something before running out of
				// time or being cancelled can still win below.
				workerOpts.logger.Debug().Str("worker", workerID).Err(err).Msg("race: worker ended without full convergence")
			}
			if outcome.Found {
				select {
				case results <- workerResult{workerID: workerID, outcome: outcome}:
					cancel()
				case <-gctx.Done():
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	close(results)

	var winner *workerResult
	for out := range results {
		out := out
		if winner == nil || out.outcome.Height < winner.outcome.Height {
			winner = &out
		}
	}
	if winner == nil {
		return Result{}, ErrNoResult
	}

	race.opts.logger.Info().
		Str("worker", winner.workerID).
		Int("height", winner.outcome.Height).
		Bool("optimal", winner.outcome.Optimal).
		Msg("race: winner selected")

	return newResultFromPermutation(winner.outcome.Permutation, width, winner.outcome.Height, race.opts.maxSpread, winner.outcome.Optimal)
}

// cloneRectangles returns a fresh, independently-owned copy of src so that
// concurrent Race workers never share mutable Rectangle state.
func cloneRectangles(src []Rectangle) []*Rectangle {
	out := make([]*Rectangle, len(src))
	for i := range src {
		r := src[i]
		out[i] = &r
	}
	return out
}

// Solve is the package's top-level entry point: build rectangles from
// caller-supplied dimensions, race IDBS workers over them, and return the
// best Result found within the configured time budget. targetHeight is the
// known optimum strip height, or 0 if unknown.
func Solve(ctx context.Context, rectangles []Rectangle, width, targetHeight int, opts ...Option) (Result, error) {
	race, err := NewRace(opts...)
	if err != nil {
		return Result{}, err
	}
	return race.Run(ctx, rectangles, width, targetHeight)
}

// vim: ts=4
