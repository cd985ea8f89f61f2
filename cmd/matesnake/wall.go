package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/matesnake/internal/config"
	"github.com/vovakirdan/matesnake/internal/controller"
	"github.com/vovakirdan/matesnake/internal/matelight"
)

var (
	flagPort        int
	flagControllers string
	flagSSHAddr     string
	flagHostKey     string
)

func initWallFlags() {
	f := rootCmd.Flags()
	f.IntVarP(&flagPort, "port", "p", matelight.DefaultPort, "Mate Light UDP port")
	f.StringVar(&flagControllers, "controllers", controller.DefaultAddr, "UDP address for controllers (empty disables)")
	f.StringVar(&flagSSHAddr, "ssh", "", "SSH address for terminal controllers, e.g. :2323 (empty disables)")
	f.StringVar(&flagHostKey, "host-key", "", "Path to SSH host key file (auto-generated if not specified)")
}

// applyWallFlags copies explicitly set wall-only flags into cfg.
// Subcommands do not define them, so Lookup may return nil.
func applyWallFlags(cmd *cobra.Command, cfg *config.Config) {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if changed("port") {
		cfg.Display.Port = flagPort
	}
	if changed("controllers") {
		cfg.Controllers.UDP = flagControllers
	}
	if changed("ssh") {
		cfg.Controllers.SSH = flagSSHAddr
	}
	if changed("host-key") {
		cfg.Controllers.HostKey = flagHostKey
	}
}

func runWall(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if cfg.Display.Host == "" {
		return errors.New("no Mate Light host given; pass <host> or set MATESNAKE_HOST")
	}

	logger := newLogger(cfg, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open highscore store: %w", err)
	}
	defer closeStore()

	display, err := matelight.Dial(cfg.Display.Host, cfg.Display.Port, cfg.Display.Width, cfg.Display.Height)
	if err != nil {
		return err
	}
	defer display.Close()
	logger.Info("sending frames", "to", display.Addr(),
		"size", fmt.Sprintf("%dx%d", cfg.Display.Width, cfg.Display.Height))

	hub := controller.NewHub(cfg.Controllers.Queue, logger)
	sess, err := newSession(cfg, display, hub, store, logger)
	if err != nil {
		return err
	}

	var svc services
	if err := startControllers(ctx, cfg, hub, logger, &svc); err != nil {
		stop()
		svc.wait()
		return err
	}

	runErr := sess.Run(ctx)
	stop()
	logger.Info("shutting down", "highscore", sess.Highscore())

	return errors.Join(runErr, svc.wait())
}
