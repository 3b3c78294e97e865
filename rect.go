package rectpack

import "fmt"

// Rectangle describes one item to place into the strip. Width and Height
// are immutable once constructed; the placement fields (X, Y, Rotated)
// are filled in by a successful Heuristic.Run and cleared again if a
// later step of the same run fails, so a failed run never exposes
// partial placements.
type Rectangle struct {
	// Width is the unrotated horizontal extent.
	Width int
	// Height is the unrotated vertical extent.
	Height int
	// ID is a caller-supplied identifier, echoed back in Placement.RectangleID. It
	// plays no role in the algorithm itself.
	ID int

	// index is this rectangle's position in the permutation currently
	// being evaluated. Assigned fresh at the start of every Heuristic.Run,
	// per the "stable input index... assigned when a permutation is
	// evaluated" rule.
	index int

	placed  bool
	x, y    int
	rotated bool
}

// NewRectangle creates an unplaced rectangle with the given dimensions
// and caller identifier.
func NewRectangle(id, width, height int) Rectangle {
	return Rectangle{ID: id, Width: width, Height: height}
}

// MinSide returns the smaller of Width and Height. Because rotation is
// free, this is the value compared when tracking the w_min/w_sec minima
// over the unplaced set.
func (r *Rectangle) MinSide() int {
	return min(r.Width, r.Height)
}

// Area returns Width * Height.
func (r *Rectangle) Area() int {
	return r.Width * r.Height
}

// Dims returns the effective (width, height) after applying rotation.
func (r *Rectangle) Dims(rotated bool) (w, h int) {
	if rotated {
		return r.Height, r.Width
	}
	return r.Width, r.Height
}

// Placed reports whether this rectangle currently holds a valid
// bottom-left coordinate from a successful placement step.
func (r *Rectangle) Placed() bool {
	return r.placed
}

// Position returns the bottom-left coordinate of the current placement.
// Only meaningful when Placed reports true.
func (r *Rectangle) Position() (x, y int) {
	return r.x, r.y
}

// Rotated reports whether the current placement applied a rotation.
func (r *Rectangle) Rotated() bool {
	return r.rotated
}

// clearPlacement removes any placement state.
func (r *Rectangle) clearPlacement() {
	r.placed = false
	r.x, r.y = 0, 0
	r.rotated = false
}

// setPlacement records a successful placement.
func (r *Rectangle) setPlacement(x, y int, rotated bool) {
	r.placed = true
	r.x, r.y = x, y
	r.rotated = rotated
}

// Overlaps reports whether the receiver's current placement overlaps
// another placed rectangle's interior. Used by the non-overlap property
// tests; both rectangles must be placed.
func (r *Rectangle) Overlaps(o *Rectangle) bool {
	if !r.placed || !o.placed {
		return false
	}
	rw, rh := r.Dims(r.rotated)
	ow, oh := o.Dims(o.rotated)
	return r.x < o.x+ow && o.x < r.x+rw && r.y < o.y+oh && o.y < r.y+rh
}

// String returns a human-readable description of the rectangle.
func (r *Rectangle) String() string {
	if !r.placed {
		return fmt.Sprintf("<id=%d %dx%d unplaced>", r.ID, r.Width, r.Height)
	}
	return fmt.Sprintf("<id=%d %dx%d @ (%d,%d) rotated=%v>", r.ID, r.Width, r.Height, r.x, r.y, r.rotated)
}

// vim: ts=4
