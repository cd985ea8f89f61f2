// matesnake plays Snake on a Mate Light LED wall.
//
// Usage:
//
//	matesnake <host>         - Play on the wall at host
//	matesnake local          - Play in this terminal
//	matesnake scores         - Show recorded scores
//	matesnake config         - Print the effective configuration
//
// Global flags:
//
//	--config <path>  - Config file (default: ~/.matesnake/config.yaml)
//	--fps <rate>     - Set tick rate (default: 15)
//	--seed <value>   - Set RNG seed for reproducible games
//	--db <path>      - Keep scores in a SQLite database
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig    string
	flagWidth     int
	flagHeight    int
	flagFPS       int
	flagSeed      int64
	flagWalls     string
	flagHighscore string
	flagDBPath    string
	flagLogLevel  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "matesnake <host>",
	Short: "Snake for the Mate Light LED wall",
	Long: `matesnake runs a game of Snake on a Mate Light LED wall.

Frames are sent to <host> over UDP. Players join with networked
controllers or over SSH. After a game over the wall stays dark for
a few seconds and a new game starts.

Available commands:
  local    - Play in this terminal instead of on the wall
  scores   - View recorded scores (SQLite backend)
  config   - Print the effective configuration

Examples:
  matesnake matelight.local
  matesnake 10.0.0.5 --port 1337 --width 40 --height 16
  matesnake matelight.local --ssh :2323
  matesnake matelight.local --db ~/.matesnake/scores.db`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runWall,
}

func init() {
	// Global persistent flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Path to config YAML")
	pf.IntVar(&flagWidth, "width", 15, "Wall width in pixels")
	pf.IntVar(&flagHeight, "height", 16, "Wall height in pixels")
	pf.IntVar(&flagFPS, "fps", 15, "Tick rate (frames per second)")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagWalls, "walls", "wrap", "Wall behaviour: wrap or solid")
	pf.StringVar(&flagHighscore, "highscore", "highscore", "Path to the highscore file")
	pf.StringVar(&flagDBPath, "db", "", "Path to scores database (selects the sqlite backend)")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	initWallFlags()

	// Add subcommands
	rootCmd.AddCommand(localCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(configCmd)
}
