package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/matesnake.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Display: DisplayConfig{
			Port:   1337,
			Width:  15,
			Height: 16,
		},
		Game: GameConfig{
			FPS:           15,
			GameOverDelay: 5 * time.Second,
			Walls:         "wrap",
			SpeedUp: SpeedUpConfig{
				Every:  0,
				Step:   1,
				MaxFPS: 30,
			},
		},
		Colors: ColorConfig{
			Snake:      "#ff0000",
			Apple:      "#00ff00",
			Background: "#000000",
		},
		Highscore: HighscoreConfig{
			Backend: BackendFile,
			Path:    "highscore",
			DB:      "~/.matesnake/scores.db",
		},
		Controllers: ControllersConfig{
			UDP:   ":1338",
			Queue: 256,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
