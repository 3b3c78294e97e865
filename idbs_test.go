package rectpack

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCeilDiv(t *testing.T) {
	require.Equal(t, 4, ceilDiv(16, 4))
	require.Equal(t, 5, ceilDiv(17, 4))
	require.Equal(t, 1, ceilDiv(1, 4))
	require.Equal(t, 11, ceilDiv(10*11, 10))
}

// S6 — the rectangles tile the target height exactly, so IDBS must
// converge on H_target well within a generous time budget.
func TestIDBSConvergesOnKnownOptimum(t *testing.T) {
	driver, err := NewIDBS(WithTimeLimit(5 * time.Second))
	require.NoError(t, err)
	tabu, err := NewTabuSearch(WithTabuParams(8, 3))
	require.NoError(t, err)

	rectangles := ptrs([]Rectangle{
		NewRectangle(0, 2, 2),
		NewRectangle(1, 2, 2),
		NewRectangle(2, 2, 2),
		NewRectangle(3, 2, 2),
	})
	rng := rand.New(rand.NewPCG(1, 1))

	res, err := driver.Run(context.Background(), rng, rectangles, 4, 4, tabu)
	require.NoError(t, err)
	require.True(t, res.Found)
	require.Equal(t, 4, res.Height)
	require.True(t, res.Optimal)
	require.Len(t, res.Permutation, 4)
}

func TestIDBSHonoursCancellation(t *testing.T) {
	driver, err := NewIDBS(WithTimeLimit(30 * time.Second))
	require.NoError(t, err)
	tabu, err := NewTabuSearch(WithTabuParams(4, 2))
	require.NoError(t, err)

	rectangles := ptrs([]Rectangle{
		NewRectangle(0, 2, 2),
		NewRectangle(1, 2, 2),
	})
	rng := rand.New(rand.NewPCG(2, 1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := driver.Run(ctx, rng, rectangles, 4, 2, tabu)
	require.ErrorIs(t, err, ErrCancelled)
	require.False(t, res.Found)
}

// An all-but-expired time budget is indistinguishable from one exhausted
// mid-search: Run must report ErrTimeBudget rather than silently returning
// a zero-value result with a nil error.
func TestIDBSReportsTimeBudgetExhaustion(t *testing.T) {
	driver, err := NewIDBS(WithTimeLimit(time.Nanosecond))
	require.NoError(t, err)
	tabu, err := NewTabuSearch(WithTabuParams(4, 2))
	require.NoError(t, err)

	rectangles := ptrs([]Rectangle{
		NewRectangle(0, 2, 2),
		NewRectangle(1, 2, 2),
	})
	rng := rand.New(rand.NewPCG(5, 1))

	res, err := driver.Run(context.Background(), rng, rectangles, 4, 2, tabu)
	require.ErrorIs(t, err, ErrTimeBudget)
	require.False(t, res.Found)
}
