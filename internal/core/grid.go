package core

// Grid stores a fixed 2D grid of values in row-major order.
type Grid[T any] struct {
	W, H int
	data []T
}

// NewGrid allocates a grid with the given dimensions.
func NewGrid[T any](w, h int) *Grid[T] {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &Grid[T]{W: w, H: h, data: make([]T, w*h)}
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *Grid[T]) Cells() []T { return g.data }

// Len returns the number of cells.
func (g *Grid[T]) Len() int { return len(g.data) }

// Index returns the linear slice index for column x, row y.
func (g *Grid[T]) Index(x, y int) int { return y*g.W + x }

// Coords is the inverse of Index.
func (g *Grid[T]) Coords(idx int) (x, y int) { return idx % g.W, idx / g.W }

// At returns the value at column x, row y.
func (g *Grid[T]) At(x, y int) T { return g.data[g.Index(x, y)] }

// Row returns the cells of row y as a subslice of the backing storage.
func (g *Grid[T]) Row(y int) []T {
	start := y * g.W
	return g.data[start : start+g.W]
}
