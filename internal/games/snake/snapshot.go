package snake

import "github.com/vovakirdan/matesnake/internal/core"

// Snapshot captures the complete game state for determinism testing and replay.
type Snapshot struct {
	Tick     uint64
	Score    int
	SnakeLen int
	HeadX    int
	HeadY    int
	Dir      core.Direction
	Growing  bool
	AppleX   int
	AppleY   int
	Phase    Phase
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	head := g.snake.Head()
	return Snapshot{
		Tick:     g.tick,
		Score:    g.score,
		SnakeLen: g.snake.Len(),
		HeadX:    head.X,
		HeadY:    head.Y,
		Dir:      g.snake.Direction(),
		Growing:  g.snake.Growing(),
		AppleX:   g.apple.X,
		AppleY:   g.apple.Y,
		Phase:    g.phase,
	}
}
