package core

// RuntimeConfig contains configuration passed to the game at initialization.
// The game uses this to size the grid and for deterministic simulation.
type RuntimeConfig struct {
	Width    int   // Grid width in pixels
	Height   int   // Grid height in pixels
	TickRate int   // Simulation ticks per second (default 15)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig matching a 15x16 Mate Light wall.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		Width:    15,
		Height:   16,
		TickRate: 15,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score    int  // Current score
	GameOver bool // Whether the game has ended
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
	Ate   bool // The head reached the apple this tick
}
