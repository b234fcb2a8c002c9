package world

import (
	"errors"
	"math/rand"
)

var (
	ErrInvalidDimensions = errors.New("invalid grid dimensions")
	ErrCellOccupied      = errors.New("cell occupied")
	ErrNotPlaced         = errors.New("occupant not placed")
	ErrAlreadyPlaced     = errors.New("occupant already placed")
	ErrGridFull          = errors.New("grid full")
)

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Grid is a width x height torus holding at most one occupant per cell.
// Every point passed in is wrapped onto the torus first.
type Grid[T comparable] struct {
	width  int
	height int
	cells  []T
	used   []bool
	where  map[T]Point
}

func NewGrid[T comparable](width, height int) (*Grid[T], error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	n := width * height
	return &Grid[T]{
		width:  width,
		height: height,
		cells:  make([]T, n),
		used:   make([]bool, n),
		where:  make(map[T]Point),
	}, nil
}

func (g *Grid[T]) Dimensions() (int, int) {
	return g.width, g.height
}

func (g *Grid[T]) Len() int {
	return len(g.where)
}

func (g *Grid[T]) Wrap(p Point) Point {
	return Point{X: mod(p.X, g.width), Y: mod(p.Y, g.height)}
}

func (g *Grid[T]) OccupantAt(p Point) (T, bool) {
	i := g.index(p)
	if !g.used[i] {
		var zero T
		return zero, false
	}
	return g.cells[i], true
}

func (g *Grid[T]) LocationOf(v T) (Point, bool) {
	p, ok := g.where[v]
	return p, ok
}

func (g *Grid[T]) Place(v T, p Point) error {
	if _, ok := g.where[v]; ok {
		return ErrAlreadyPlaced
	}
	p = g.Wrap(p)
	i := g.index(p)
	if g.used[i] {
		return ErrCellOccupied
	}
	g.cells[i] = v
	g.used[i] = true
	g.where[v] = p
	return nil
}

// MoveTo relocates an occupant. Moving onto its own cell is a no-op.
func (g *Grid[T]) MoveTo(v T, p Point) error {
	from, ok := g.where[v]
	if !ok {
		return ErrNotPlaced
	}
	p = g.Wrap(p)
	if p == from {
		return nil
	}
	i := g.index(p)
	if g.used[i] {
		return ErrCellOccupied
	}
	g.clear(from)
	g.cells[i] = v
	g.used[i] = true
	g.where[v] = p
	return nil
}

func (g *Grid[T]) Remove(v T) (Point, bool) {
	p, ok := g.where[v]
	if !ok {
		return Point{}, false
	}
	g.clear(p)
	delete(g.where, v)
	return p, true
}

// Neighbors returns the Moore neighborhood of p in row-major order. On grids
// narrower than three cells wrapped duplicates and p itself are dropped.
func (g *Grid[T]) Neighbors(p Point) []Point {
	p = g.Wrap(p)
	out := make([]Point, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			n := g.Wrap(Point{X: p.X + dx, Y: p.Y + dy})
			if n == p || containsPoint(out, n) {
				continue
			}
			out = append(out, n)
		}
	}
	return out
}

func (g *Grid[T]) FreeNeighbors(p Point) []Point {
	all := g.Neighbors(p)
	out := all[:0]
	for _, n := range all {
		if !g.used[g.index(n)] {
			out = append(out, n)
		}
	}
	return out
}

func (g *Grid[T]) OccupiedAround(p Point) int {
	count := 0
	for _, n := range g.Neighbors(p) {
		if g.used[g.index(n)] {
			count++
		}
	}
	return count
}

// RandomFreeCell picks a free cell uniformly. A few random draws cover the
// sparse case; a full scan handles crowded grids.
func (g *Grid[T]) RandomFreeCell(rng *rand.Rand) (Point, error) {
	total := len(g.cells)
	if len(g.where) >= total {
		return Point{}, ErrGridFull
	}
	for i := 0; i < 16; i++ {
		idx := rng.Intn(total)
		if !g.used[idx] {
			return g.point(idx), nil
		}
	}
	free := make([]int, 0, total-len(g.where))
	for idx, used := range g.used {
		if !used {
			free = append(free, idx)
		}
	}
	return g.point(free[rng.Intn(len(free))]), nil
}

// Each visits occupied cells in row-major order.
func (g *Grid[T]) Each(fn func(p Point, v T)) {
	for idx, used := range g.used {
		if used {
			fn(g.point(idx), g.cells[idx])
		}
	}
}

func (g *Grid[T]) index(p Point) int {
	p = g.Wrap(p)
	return p.Y*g.width + p.X
}

func (g *Grid[T]) point(idx int) Point {
	return Point{X: idx % g.width, Y: idx / g.width}
}

func (g *Grid[T]) clear(p Point) {
	i := g.index(p)
	var zero T
	g.cells[i] = zero
	g.used[i] = false
}

func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}

func containsPoint(points []Point, p Point) bool {
	for _, q := range points {
		if q == p {
			return true
		}
	}
	return false
}
