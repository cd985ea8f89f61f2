package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/matesnake/internal/config"
	"github.com/vovakirdan/matesnake/internal/games/snake"
	"github.com/vovakirdan/matesnake/internal/platform/tui"
	"github.com/vovakirdan/matesnake/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresPlain bool
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show recorded scores",
	Long: `Display recorded scores from the SQLite database.

The file backend only keeps the highscore, which is printed instead.

Examples:
  matesnake scores
  matesnake scores --db ./scores.db --plain
  matesnake scores --db ./scores.db --clear`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVarP(&flagScoresLimit, "limit", "n", 10, "Number of scores to print with --plain")
	scoresCmd.Flags().BoolVar(&flagScoresPlain, "plain", false, "Print a plain table instead of the interactive view")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete all recorded scores")
}

func runScores(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	if cfg.Highscore.Backend != config.BackendSQLite {
		fs := storage.NewFileStore(cfg.Highscore.Path)
		fmt.Printf("Highscore (%s): %d\n", fs.Path(), fs.Load())
		return nil
	}

	store, err := storage.Open(cfg.Highscore.DB)
	if err != nil {
		return fmt.Errorf("open scores database: %w", err)
	}
	defer store.Close()

	if flagScoresClear {
		return clearScores(os.Stdout, store)
	}

	fd := int(os.Stdout.Fd())
	if !flagScoresPlain && term.IsTerminal(fd) {
		width, height := 80, 24 // Defaults
		if w, h, termErr := term.GetSize(fd); termErr == nil {
			width, height = w, h
		}
		return tui.RunScoreboard(store, snake.GameID, width, height)
	}

	return printScores(store)
}

func printScores(store *storage.Store) error {
	scores, err := store.TopScores(snake.GameID, flagScoresLimit)
	if err != nil {
		return fmt.Errorf("retrieve scores: %w", err)
	}

	fmt.Println("High Scores - Snake")
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		return nil
	}

	fmt.Printf("  %-4s  %-10s  %s\n", "Rank", "Score", "Date")
	fmt.Printf("  %-4s  %-10s  %s\n", "----", "-----", "----")
	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-10d  %s\n", i+1, entry.Score, dateStr)
	}

	stats, err := store.Stats(snake.GameID)
	if err == nil {
		fmt.Println()
		fmt.Printf("Best: %d  Games: %d  Average: %.1f\n", stats.HighScore, stats.GamesCount, stats.AvgScore)
	}
	return nil
}

// clearScores deletes the score history and reports how many games it held.
func clearScores(w io.Writer, store *storage.Store) error {
	stats, err := store.Stats(snake.GameID)
	if err != nil {
		return fmt.Errorf("read scores: %w", err)
	}
	if err := store.ClearScores(snake.GameID); err != nil {
		return fmt.Errorf("clear scores: %w", err)
	}
	fmt.Fprintf(w, "Cleared %d scores.\n", stats.GamesCount)
	return nil
}
