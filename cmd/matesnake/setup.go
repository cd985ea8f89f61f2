package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/matesnake/internal/config"
	"github.com/vovakirdan/matesnake/internal/controller"
	"github.com/vovakirdan/matesnake/internal/core"
	"github.com/vovakirdan/matesnake/internal/games/snake"
	"github.com/vovakirdan/matesnake/internal/platform/tui"
	"github.com/vovakirdan/matesnake/internal/session"
	"github.com/vovakirdan/matesnake/internal/storage"
)

// loadConfig reads the config file and environment, then applies the
// flags the user set explicitly.
func loadConfig(cmd *cobra.Command, args []string) (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if len(args) > 0 {
		cfg.Display.Host = args[0]
	}
	if flags.Changed("width") {
		cfg.Display.Width = flagWidth
	}
	if flags.Changed("height") {
		cfg.Display.Height = flagHeight
	}
	if flags.Changed("fps") {
		cfg.Game.FPS = flagFPS
	}
	if flags.Changed("walls") {
		cfg.Game.Walls = flagWalls
	}
	if flags.Changed("highscore") {
		cfg.Highscore.Backend = config.BackendFile
		cfg.Highscore.Path = flagHighscore
	}
	if flags.Changed("db") {
		cfg.Highscore.Backend = config.BackendSQLite
		cfg.Highscore.DB = flagDBPath
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = flagLogLevel
	}
	applyWallFlags(cmd, &cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg config.Config, w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "matesnake",
		Level:           cfg.LogLevel(),
	})
}

// openStore returns the configured highscore backend and its closer.
func openStore(cfg config.Config) (storage.HighscoreStore, func(), error) {
	switch cfg.Highscore.Backend {
	case config.BackendSQLite:
		db, err := storage.Open(cfg.Highscore.DB)
		if err != nil {
			return nil, nil, err
		}
		return storage.NewScoreBoard(db, snake.GameID), func() { db.Close() }, nil
	default:
		return storage.NewFileStore(cfg.Highscore.Path), func() {}, nil
	}
}

// newSession wires a game session from cfg.
func newSession(cfg config.Config, display session.Display, events session.EventSource,
	store storage.HighscoreStore, logger *log.Logger,
) (*session.Session, error) {
	opts, err := cfg.GameOptions()
	if err != nil {
		return nil, err
	}
	speedup := cfg.Game.SpeedUp
	base := cfg.Game.FPS

	return session.New(session.Config{
		Game:          snake.New(opts),
		Runtime:       cfg.Runtime(flagSeed),
		Display:       display,
		Events:        events,
		Clock:         core.NewFrameClock(base),
		Store:         store,
		Logger:        logger,
		GameOverDelay: cfg.Game.GameOverDelay,
		Rate: func(score int) int {
			return speedup.Rate(base, score)
		},
	})
}

// services runs the controller transports next to the game loop.
type services struct {
	wg   sync.WaitGroup
	mu   sync.Mutex
	errs []error
}

func (s *services) goRun(name string, logger *log.Logger, fn func() error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := fn(); err != nil {
			logger.Error("service stopped", "service", name, "err", err)
			s.mu.Lock()
			s.errs = append(s.errs, fmt.Errorf("%s: %w", name, err))
			s.mu.Unlock()
		}
	}()
}

func (s *services) wait() error {
	s.wg.Wait()
	return errors.Join(s.errs...)
}

// startControllers starts the UDP and SSH controller servers enabled in cfg.
func startControllers(ctx context.Context, cfg config.Config, hub *controller.Hub,
	logger *log.Logger, svc *services,
) error {
	if cfg.Controllers.UDP != "" {
		srv, err := controller.Listen(cfg.Controllers.UDP, hub, logger)
		if err != nil {
			return err
		}
		logger.Info("waiting for controllers", "address", srv.Addr().String())
		svc.goRun("controllers", logger, func() error { return srv.Serve(ctx) })
	}

	if cfg.Controllers.SSH != "" {
		sshCfg := tui.DefaultSSHServerConfig()
		sshCfg.Address = cfg.Controllers.SSH
		sshCfg.HostKeyPath = cfg.Controllers.HostKey
		srv, err := tui.NewSSHServer(sshCfg, hub, logger)
		if err != nil {
			return err
		}
		svc.goRun("ssh", logger, func() error { return srv.ListenAndServe(ctx) })
	}
	return nil
}
