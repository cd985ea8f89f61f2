package snake

import (
	"math/rand"

	"github.com/vovakirdan/matesnake/internal/core"
)

// AppleSpawner picks cells for new apples.
type AppleSpawner struct {
	rng        *rand.Rand
	grid       core.Grid
	avoidSnake bool
}

// NewAppleSpawner creates a spawner drawing from rng.
// With avoidSnake false any cell may be chosen, including the snake's body.
func NewAppleSpawner(rng *rand.Rand, grid core.Grid, avoidSnake bool) *AppleSpawner {
	return &AppleSpawner{rng: rng, grid: grid, avoidSnake: avoidSnake}
}

// Generate returns a uniformly random cell for the next apple.
func (a *AppleSpawner) Generate(s *Snake) core.Point {
	if a.avoidSnake && s != nil {
		if p, ok := a.freeCell(s); ok {
			return p
		}
	}
	return core.Point{
		X: a.rng.Intn(a.grid.W),
		Y: a.rng.Intn(a.grid.H),
	}
}

// freeCell picks uniformly among cells the snake does not occupy.
// ok is false when the snake fills the whole grid.
func (a *AppleSpawner) freeCell(s *Snake) (core.Point, bool) {
	empty := make([]core.Point, 0, max(a.grid.Area()-s.Len(), 0))
	for y := range a.grid.H {
		for x := range a.grid.W {
			p := core.Point{X: x, Y: y}
			if !s.Occupies(p) {
				empty = append(empty, p)
			}
		}
	}
	if len(empty) == 0 {
		return core.Point{}, false
	}
	return empty[a.rng.Intn(len(empty))], true
}
