package snake

import "github.com/vovakirdan/matesnake/internal/core"

// WallMode decides what happens when the head leaves the grid.
type WallMode string

const (
	// WallsWrap connects opposite edges: the head re-enters on the other side.
	WallsWrap WallMode = "wrap"
	// WallsSolid treats the grid border as a wall; leaving the grid ends the game.
	WallsSolid WallMode = "solid"
)

// Valid reports whether m is a known wall mode.
func (m WallMode) Valid() bool {
	return m == WallsWrap || m == WallsSolid
}

// Snake is the ordered body of the snake. The head is the last element:
// a move appends a new head and, unless growing, drops the first element.
type Snake struct {
	parts     []core.Point
	direction core.Direction // requested direction for the next move
	heading   core.Direction // direction of the last move
	grow      bool           // if true, keep the tail on the next move
	grid      core.Grid
	walls     WallMode
}

// NewSnake creates a snake from tail to head. parts must not be empty.
func NewSnake(parts []core.Point, dir core.Direction, grid core.Grid, walls WallMode) *Snake {
	body := make([]core.Point, len(parts))
	copy(body, parts)
	if !walls.Valid() {
		walls = WallsWrap
	}
	return &Snake{
		parts:     body,
		direction: dir,
		heading:   dir,
		grid:      grid,
		walls:     walls,
	}
}

// Head returns the head position.
func (s *Snake) Head() core.Point {
	return s.parts[len(s.parts)-1]
}

// Parts returns a copy of the body, tail first.
func (s *Snake) Parts() []core.Point {
	parts := make([]core.Point, len(s.parts))
	copy(parts, s.parts)
	return parts
}

// Len returns the number of segments.
func (s *Snake) Len() int {
	return len(s.parts)
}

// Direction returns the direction the next move will take.
func (s *Snake) Direction() core.Direction {
	return s.direction
}

// Growing reports whether the next move keeps the tail.
func (s *Snake) Growing() bool {
	return s.grow
}

// SetGrow makes the next successful move keep the tail.
func (s *Snake) SetGrow() {
	s.grow = true
}

// SetDirection requests a turn. The exact opposite of the current
// direction is ignored and false is returned, as is the opposite of the
// last move, which would turn back onto the segment behind the head.
func (s *Snake) SetDirection(d core.Direction) bool {
	if d.IsOpposite(s.direction) || d.IsOpposite(s.heading) {
		return false
	}
	s.direction = d
	return true
}

// Occupies checks if any segment sits on p.
func (s *Snake) Occupies(p core.Point) bool {
	for _, part := range s.parts {
		if part == p {
			return true
		}
	}
	return false
}

// Move advances the snake one cell. It returns false and leaves the body
// untouched when the new head would hit the snake itself, or the border
// with solid walls.
func (s *Snake) Move() bool {
	next := s.Head().Add(s.direction.Delta())
	if !s.grid.Contains(next) {
		if s.walls == WallsSolid {
			return false
		}
		next = s.grid.Wrap(next)
	}

	// The tail counts: it has not moved out of the way yet.
	if s.Occupies(next) {
		return false
	}

	s.heading = s.direction
	s.parts = append(s.parts, next)

	if s.grow {
		s.grow = false
		return true
	}
	copy(s.parts, s.parts[1:])
	s.parts = s.parts[:len(s.parts)-1]
	return true
}
