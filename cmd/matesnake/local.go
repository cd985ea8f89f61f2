package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/matesnake/internal/controller"
	"github.com/vovakirdan/matesnake/internal/platform/tui"
)

var flagLogFile string

var localCmd = &cobra.Command{
	Use:   "local",
	Short: "Play in this terminal",
	Long: `Play Snake in this terminal instead of on the LED wall.

The wall is drawn with colored blocks. The keyboard acts as a
controller; networked controllers can join too when enabled in the
config.

Controls:
  Arrows/WASD  - Steer
  ?            - Toggle help
  Q/Esc        - Quit

Examples:
  matesnake local
  matesnake local --walls solid --fps 10
  matesnake local --log-file /tmp/matesnake.log`,
	Args: cobra.NoArgs,
	RunE: runLocal,
}

func init() {
	localCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (the screen is in use)")
}

func runLocal(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	var logOut io.Writer = io.Discard
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = f
	}
	logger := newLogger(cfg, logOut)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	hub := controller.NewHub(cfg.Controllers.Queue, logger)

	var svc services
	if err := startControllers(ctx, cfg, hub, logger, &svc); err != nil {
		stop()
		svc.wait()
		return err
	}

	runErr := tui.RunLocal(ctx, hub, cfg.Display.Width, cfg.Display.Height,
		func(ctx context.Context, d *tui.ProgramDisplay) error {
			sess, err := newSession(cfg, d, hub, store, logger)
			if err != nil {
				return err
			}
			return sess.Run(ctx)
		})
	stop()
	svc.wait()
	return runErr
}
