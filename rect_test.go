package rectpack

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRectangleDims(t *testing.T) {
	r := NewRectangle(1, 3, 7)
	w, h := r.Dims(false)
	require.Equal(t, 3, w)
	require.Equal(t, 7, h)

	w, h = r.Dims(true)
	require.Equal(t, 7, w)
	require.Equal(t, 3, h)
}

func TestRectangleMinSide(t *testing.T) {
	r := NewRectangle(1, 3, 7)
	require.Equal(t, 3, r.MinSide())
}

func TestRectanglePlacementLifecycle(t *testing.T) {
	r := NewRectangle(1, 3, 7)
	require.False(t, r.Placed())

	r.setPlacement(2, 4, true)
	require.True(t, r.Placed())
	x, y := r.Position()
	require.Equal(t, 2, x)
	require.Equal(t, 4, y)
	require.True(t, r.Rotated())

	r.clearPlacement()
	require.False(t, r.Placed())
	x, y = r.Position()
	require.Equal(t, 0, x)
	require.Equal(t, 0, y)
}

func TestRectangleOverlaps(t *testing.T) {
	a := NewRectangle(1, 4, 4)
	b := NewRectangle(2, 4, 4)
	a.setPlacement(0, 0, false)
	b.setPlacement(3, 3, false)
	require.True(t, a.Overlaps(&b))

	b.setPlacement(4, 0, false)
	require.False(t, a.Overlaps(&b))

	b.clearPlacement()
	require.False(t, a.Overlaps(&b))
}
