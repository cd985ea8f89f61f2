// Package config provides YAML-based configuration loading for matesnake,
// with .env and environment variable overrides.
package config

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/vovakirdan/matesnake/internal/core"
	"github.com/vovakirdan/matesnake/internal/games/snake"
)

// Config contains the full application configuration.
type Config struct {
	Display     DisplayConfig     `yaml:"display"`
	Game        GameConfig        `yaml:"game"`
	Colors      ColorConfig       `yaml:"colors"`
	Highscore   HighscoreConfig   `yaml:"highscore"`
	Controllers ControllersConfig `yaml:"controllers"`
	Log         LogConfig         `yaml:"log"`
}

// DisplayConfig addresses the LED wall.
type DisplayConfig struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// GameConfig defines game rules and pacing.
type GameConfig struct {
	FPS           int           `yaml:"fps"`
	GameOverDelay time.Duration `yaml:"game_over_delay"`
	Walls         string        `yaml:"walls"` // "wrap" or "solid"
	AvoidSnake    bool          `yaml:"avoid_snake"`
	SpeedUp       SpeedUpConfig `yaml:"speedup"`
}

// ColorConfig holds "#rrggbb" colors for game elements.
type ColorConfig struct {
	Snake      string `yaml:"snake"`
	Apple      string `yaml:"apple"`
	Background string `yaml:"background"`
}

// HighscoreConfig selects the highscore backend.
type HighscoreConfig struct {
	Backend string `yaml:"backend"` // "file" or "sqlite"
	Path    string `yaml:"path"`    // highscore file for the file backend
	DB      string `yaml:"db"`      // database path for the sqlite backend
}

// ControllersConfig defines where controllers can connect.
type ControllersConfig struct {
	UDP     string `yaml:"udp"`      // UDP listen address, empty disables
	SSH     string `yaml:"ssh"`      // SSH listen address, empty disables
	HostKey string `yaml:"host_key"` // SSH host key path
	Queue   int    `yaml:"queue"`    // events buffered between ticks
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Highscore backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		return fmt.Errorf("display size must be positive, got %dx%d", c.Display.Width, c.Display.Height)
	}
	if c.Display.Width < snake.MinWidth {
		return fmt.Errorf("display width must be at least %d to fit the snake, got %d", snake.MinWidth, c.Display.Width)
	}
	if c.Display.Port <= 0 || c.Display.Port > 65535 {
		return fmt.Errorf("display port out of range: %d", c.Display.Port)
	}
	if c.Game.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.Game.FPS)
	}
	if c.Game.GameOverDelay < 0 {
		return fmt.Errorf("game_over_delay cannot be negative")
	}
	if !snake.WallMode(c.Game.Walls).Valid() {
		return fmt.Errorf("walls must be %q or %q, got %q", snake.WallsWrap, snake.WallsSolid, c.Game.Walls)
	}
	if c.Game.SpeedUp.Every < 0 || c.Game.SpeedUp.Step < 0 {
		return fmt.Errorf("speedup values cannot be negative")
	}
	switch c.Highscore.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("highscore backend must be %q or %q, got %q", BackendFile, BackendSQLite, c.Highscore.Backend)
	}
	if _, err := c.Palette(); err != nil {
		return err
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

// Palette parses the configured colors.
func (c *Config) Palette() (snake.Palette, error) {
	var p snake.Palette
	var err error
	if p.Snake, err = parseColor("snake", c.Colors.Snake); err != nil {
		return p, err
	}
	if p.Apple, err = parseColor("apple", c.Colors.Apple); err != nil {
		return p, err
	}
	if p.Background, err = parseColor("background", c.Colors.Background); err != nil {
		return p, err
	}
	return p, nil
}

// GameOptions returns the rule set for the snake game.
func (c *Config) GameOptions() (snake.Options, error) {
	palette, err := c.Palette()
	if err != nil {
		return snake.Options{}, err
	}
	return snake.Options{
		Walls:      snake.WallMode(c.Game.Walls),
		AvoidSnake: c.Game.AvoidSnake,
		Palette:    palette,
	}, nil
}

// Runtime returns the runtime config for the game.
func (c *Config) Runtime(seed int64) core.RuntimeConfig {
	return core.RuntimeConfig{
		Width:    c.Display.Width,
		Height:   c.Display.Height,
		TickRate: c.Game.FPS,
		Seed:     seed,
	}
}

// LogLevel returns the parsed log level, defaulting to info.
func (c *Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// parseColor converts a hex string to a pixel color.
func parseColor(name, hex string) (core.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return core.Color{}, fmt.Errorf("colors.%s: %w", name, err)
	}
	r, g, b := c.RGB255()
	return core.RGB(r, g, b), nil
}
