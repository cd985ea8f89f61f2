// Package core provides the fundamental types shared by the game, the
// session loop and the transports: grid geometry, pixel frames, colors,
// controller events and the frame clock.
// It contains no transport or UI dependencies to keep game logic pure and testable.
package core

// Point is a cell coordinate on the LED grid. (0, 0) is the top-left pixel.
type Point struct {
	X, Y int
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Direction is one of the four movement directions.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Delta returns the unit vector for the direction. Up decreases Y.
func (d Direction) Delta() Point {
	switch d {
	case DirUp:
		return Point{Y: -1}
	case DirDown:
		return Point{Y: 1}
	case DirLeft:
		return Point{X: -1}
	case DirRight:
		return Point{X: 1}
	default:
		return Point{}
	}
}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	default:
		return DirLeft
	}
}

// IsOpposite reports whether d and other point in exactly opposite directions.
func (d Direction) IsOpposite(other Direction) bool {
	return d.Opposite() == other
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// Grid is the playing field: the visible pixel area of the display.
type Grid struct {
	W, H int
}

// NewGrid creates a grid with the given dimensions.
func NewGrid(w, h int) Grid {
	return Grid{W: w, H: h}
}

// Contains returns true if p lies inside the grid.
func (g Grid) Contains(p Point) bool {
	return p.X >= 0 && p.X < g.W && p.Y >= 0 && p.Y < g.H
}

// Wrap maps p onto the grid, treating the edges as connected (torus).
func (g Grid) Wrap(p Point) Point {
	return Point{X: mod(p.X, g.W), Y: mod(p.Y, g.H)}
}

// Area returns the number of cells.
func (g Grid) Area() int {
	return g.W * g.H
}

// Center returns the center cell, rounding down.
func (g Grid) Center() Point {
	return Point{X: g.W / 2, Y: g.H / 2}
}

// mod is the non-negative remainder of a / n.
func mod(a, n int) int {
	if n <= 0 {
		return 0
	}
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
