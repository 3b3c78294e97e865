package rectpack

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestTabuSearch(t *testing.T, l, tMult int) *TabuSearch {
	t.Helper()
	ts, err := NewTabuSearch(WithTabuParams(l, tMult))
	require.NoError(t, err)
	return ts
}

func TestTabuSearchFindsImmediateFit(t *testing.T) {
	ts := newTestTabuSearch(t, 5, 3)
	rng := rand.New(rand.NewPCG(1, 1))

	rectangles := ptrs([]Rectangle{
		NewRectangle(0, 2, 2),
		NewRectangle(1, 2, 2),
		NewRectangle(2, 2, 2),
		NewRectangle(3, 2, 2),
	})

	ok, best, err := ts.Run(context.Background(), rng, rectangles, 4, 4, 20)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, best, 4)
}

// A height below the area lower bound can never be placed; Run should
// exhaust its budget and report failure without panicking or hanging.
func TestTabuSearchReportsFailureWhenInfeasible(t *testing.T) {
	ts := newTestTabuSearch(t, 4, 2)
	rng := rand.New(rand.NewPCG(2, 1))

	rectangles := ptrs([]Rectangle{
		NewRectangle(0, 3, 3),
		NewRectangle(1, 3, 3),
	})

	ok, best, err := ts.Run(context.Background(), rng, rectangles, 4, 3, 10)
	require.NoError(t, err)
	require.False(t, ok)
	require.Len(t, best, 2)
}

func TestTabuSearchHonoursCancellation(t *testing.T) {
	ts := newTestTabuSearch(t, 4, 2)
	rng := rand.New(rand.NewPCG(3, 1))

	rectangles := ptrs([]Rectangle{
		NewRectangle(0, 3, 3),
		NewRectangle(1, 3, 3),
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ok, best, err := ts.Run(ctx, rng, rectangles, 4, 3, 1000)
	require.ErrorIs(t, err, ErrCancelled)
	require.False(t, ok)
	require.Len(t, best, 2)
}

func TestTabuSearchEmptyInput(t *testing.T) {
	ts := newTestTabuSearch(t, 4, 2)
	rng := rand.New(rand.NewPCG(4, 1))

	ok, best, err := ts.Run(context.Background(), rng, nil, 4, 3, 10)
	require.NoError(t, err)
	require.True(t, ok)
	require.Nil(t, best)
}
