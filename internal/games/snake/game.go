// Package snake implements the Snake simulation played on the LED wall.
// It is pure game logic: the session loop feeds it controller events once
// per tick and hands the rendered frame to a display.
package snake

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/matesnake/internal/core"
)

// GameID identifies the game in score storage.
const GameID = "snake"

// MinWidth is the narrowest grid that fits the starting snake: its tail
// sits two cells left of the center column.
const MinWidth = 4

// Phase is the state of the game state machine.
type Phase string

const (
	PhasePlaying  Phase = "playing"
	PhaseGameOver Phase = "game_over"
)

// Palette holds the colors used to draw a frame.
type Palette struct {
	Snake      core.Color
	Apple      core.Color
	Background core.Color
}

// DefaultPalette returns a red snake and a green apple on black.
func DefaultPalette() Palette {
	return Palette{
		Snake:      core.ColorRed,
		Apple:      core.ColorGreen,
		Background: core.ColorBlack,
	}
}

// Options tune game rules that are not part of the runtime config.
type Options struct {
	Walls      WallMode
	AvoidSnake bool // spawn apples only on free cells
	Palette    Palette
}

// DefaultOptions returns wrap-around walls and unrestricted apple spawns.
func DefaultOptions() Options {
	return Options{
		Walls:   WallsWrap,
		Palette: DefaultPalette(),
	}
}

// Game implements the Snake game.
type Game struct {
	opts   Options
	rng    *rand.Rand
	grid   core.Grid
	tick   uint64
	score  int
	phase  Phase
	snake  *Snake
	apples *AppleSpawner
	apple  core.Point

	// eaten is the last apple the head reached. The snake grows once
	// its head is seen on this cell after a tick, one move later.
	eaten      core.Point
	eatenValid bool
}

// New creates a Snake game with the given options.
// Reset must be called before the first Step.
func New(opts Options) *Game {
	if !opts.Walls.Valid() {
		opts.Walls = WallsWrap
	}
	return &Game{opts: opts}
}

// Reset starts a new game: fresh snake in the middle heading right,
// fresh apple, score 0.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.grid = core.NewGrid(cfg.Width, cfg.Height)
	g.tick = 0
	g.score = 0
	g.phase = PhasePlaying

	c := g.grid.Center()
	g.snake = NewSnake([]core.Point{
		{X: c.X - 2, Y: c.Y},
		{X: c.X - 1, Y: c.Y},
		c, // Head
	}, core.DirRight, g.grid, g.opts.Walls)

	g.apples = NewAppleSpawner(g.rng, g.grid, g.opts.AvoidSnake)
	g.apple = g.apples.Generate(g.snake)
	g.eaten = g.apple
	g.eatenValid = true
}

// Step advances the game by one tick.
// Order matters: turns, move, apple, delayed growth.
func (g *Game) Step(events []core.Event) core.StepResult {
	if g.phase == PhaseGameOver {
		return core.StepResult{State: g.State()}
	}
	g.tick++

	g.processInput(events)

	if !g.snake.Move() {
		g.phase = PhaseGameOver
		return core.StepResult{State: g.State()}
	}

	ate := false
	head := g.snake.Head()
	if head == g.apple {
		g.score++
		g.eaten = g.apple
		g.eatenValid = true
		g.apple = g.apples.Generate(g.snake)
		ate = true
	}

	if g.eatenValid && head == g.eaten {
		g.snake.SetGrow()
		g.eatenValid = false
	}

	return core.StepResult{State: g.State(), Ate: ate}
}

// processInput applies direction changes. Reversals are rejected by the snake.
func (g *Game) processInput(events []core.Event) {
	for _, ev := range events {
		if d, ok := ev.TurnDirection(); ok {
			g.snake.SetDirection(d)
		}
	}
}

// Render draws the snake and the apple onto a cleared frame.
func (g *Game) Render(dst *core.Frame) {
	dst.SetBackground(g.opts.Palette.Background)
	dst.Clear()

	for _, part := range g.snake.parts {
		dst.Set(part, g.opts.Palette.Snake)
	}
	dst.Set(g.apple, g.opts.Palette.Apple)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		GameOver: g.phase == PhaseGameOver,
	}
}

// Phase returns the current state machine phase.
func (g *Game) Phase() Phase {
	return g.phase
}

// Score returns the number of apples eaten in this game.
func (g *Game) Score() int {
	return g.score
}

// Snake exposes the snake for inspection.
func (g *Game) Snake() *Snake {
	return g.snake
}

// Apple returns the current apple position.
func (g *Game) Apple() core.Point {
	return g.apple
}

// PlaceApple moves the current apple to p.
func (g *Game) PlaceApple(p core.Point) {
	g.apple = p
}

// EatenApple returns the apple waiting to trigger growth, if any.
func (g *Game) EatenApple() (core.Point, bool) {
	return g.eaten, g.eatenValid
}

// --- Debug helper ---

// DebugState returns a one-line summary of the game state.
func (g *Game) DebugState() string {
	snap := g.Snapshot()
	return fmt.Sprintf("tick=%d score=%d phase=%s len=%d dir=%s grow=%t head=(%d,%d) apple=(%d,%d)",
		snap.Tick, snap.Score, snap.Phase, snap.SnakeLen, snap.Dir, snap.Growing,
		snap.HeadX, snap.HeadY, snap.AppleX, snap.AppleY)
}
