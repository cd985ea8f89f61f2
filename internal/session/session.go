// Package session runs the Snake game loop against a display and a set of
// controllers. It owns the game-over interval and the highscore.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/matesnake/internal/core"
	"github.com/vovakirdan/matesnake/internal/games/snake"
	"github.com/vovakirdan/matesnake/internal/storage"
)

// DefaultGameOverDelay is how long the wall stays dark after a game ends.
const DefaultGameOverDelay = 5 * time.Second

// Display receives one rendered frame per tick.
type Display interface {
	Show(f *core.Frame, st core.GameState) error
}

// EventSource yields the controller events collected since the last call.
type EventSource interface {
	Poll() []core.Event
}

// Config wires a Session to its collaborators.
type Config struct {
	Game    *snake.Game
	Runtime core.RuntimeConfig
	Display Display
	Events  EventSource
	Clock   core.Clock
	Store   storage.HighscoreStore
	Logger  *log.Logger

	// GameOverDelay defaults to DefaultGameOverDelay when zero.
	GameOverDelay time.Duration
	// Rate returns the frame rate for a score. Nil keeps Runtime.TickRate.
	Rate func(score int) int
}

// Session drives one game at a time until its context is cancelled.
type Session struct {
	game    *snake.Game
	runtime core.RuntimeConfig
	display Display
	events  EventSource
	clock   core.Clock
	store   storage.HighscoreStore
	logger  *log.Logger
	delay   time.Duration
	rate    func(score int) int

	frame *core.Frame
	blank *core.Frame

	baseSeed  int64
	games     int
	highscore int

	displayFailing bool
}

// New validates cfg and prepares the first game.
func New(cfg Config) (*Session, error) {
	switch {
	case cfg.Game == nil:
		return nil, errors.New("session: game is required")
	case cfg.Display == nil:
		return nil, errors.New("session: display is required")
	case cfg.Events == nil:
		return nil, errors.New("session: event source is required")
	case cfg.Store == nil:
		return nil, errors.New("session: highscore store is required")
	}
	if cfg.Runtime.Width < snake.MinWidth || cfg.Runtime.Height < 1 {
		return nil, fmt.Errorf("session: grid %dx%d is too small", cfg.Runtime.Width, cfg.Runtime.Height)
	}
	if cfg.Runtime.TickRate <= 0 {
		cfg.Runtime.TickRate = core.DefaultConfig().TickRate
	}
	if cfg.Clock == nil {
		cfg.Clock = core.NewFrameClock(cfg.Runtime.TickRate)
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.GameOverDelay == 0 {
		cfg.GameOverDelay = DefaultGameOverDelay
	}

	s := &Session{
		game:     cfg.Game,
		runtime:  cfg.Runtime,
		display:  cfg.Display,
		events:   cfg.Events,
		clock:    cfg.Clock,
		store:    cfg.Store,
		logger:   cfg.Logger,
		delay:    cfg.GameOverDelay,
		rate:     cfg.Rate,
		frame:    core.NewFrame(cfg.Runtime.Width, cfg.Runtime.Height),
		blank:    core.NewFrame(cfg.Runtime.Width, cfg.Runtime.Height),
		baseSeed: cfg.Runtime.Seed,
	}
	s.reset()
	return s, nil
}

// Game returns the game being played.
func (s *Session) Game() *snake.Game {
	return s.game
}

// Highscore returns the best score known to the session.
func (s *Session) Highscore() int {
	return s.highscore
}

// Games returns how many games have been started, including the current one.
func (s *Session) Games() int {
	return s.games
}

// Run plays until ctx is cancelled. Cancellation is a normal exit and
// returns nil; nothing is persisted for the game in progress.
func (s *Session) Run(ctx context.Context) error {
	s.highscore = s.store.Load()
	s.logger.Info("session started",
		"size", fmt.Sprintf("%dx%d", s.runtime.Width, s.runtime.Height),
		"fps", s.clock.Rate(),
		"highscore", s.highscore)

	for {
		if ctx.Err() != nil {
			return nil
		}

		res := s.game.Step(s.poll())
		if res.State.GameOver {
			s.finish(res.State.Score)
			if err := s.waitGameOver(ctx); err != nil {
				return stopErr(err)
			}
			s.reset()
			continue
		}
		if res.Ate {
			s.applyRate(res.State.Score)
		}

		s.game.Render(s.frame)
		s.show(s.frame, res.State)

		if err := s.clock.Tick(ctx); err != nil {
			return stopErr(err)
		}
	}
}

// poll drains pending events and logs controller lifecycle changes.
func (s *Session) poll() []core.Event {
	events := s.events.Poll()
	for _, ev := range events {
		switch ev.Kind {
		case core.EventConnected:
			s.logger.Info("new controller", "uid", ev.UID)
		case core.EventDisconnected:
			s.logger.Info("controller left", "uid", ev.UID)
		case core.EventPing:
			s.logger.Debug("ping", "uid", ev.UID)
		}
	}
	return events
}

// finish logs the result and persists it.
func (s *Session) finish(score int) {
	s.logger.Info("game over", "score", score, "highscore", s.highscore)
	s.logger.Debug("final state", "game", s.game.DebugState())

	if rec, ok := s.store.(storage.ScoreRecorder); ok {
		if err := rec.Record(score); err != nil {
			s.logger.Warn("failed to record score", "score", score, "err", err)
		}
	} else if score > s.highscore {
		if err := s.store.Save(score); err != nil {
			s.logger.Warn("failed to save highscore", "score", score, "err", err)
		}
	}

	if score > s.highscore {
		s.logger.Info("new highscore", "score", score)
		s.highscore = score
	}
}

// waitGameOver keeps the wall dark for the game-over delay.
// Input arriving meanwhile is discarded.
func (s *Session) waitGameOver(ctx context.Context) error {
	deadline := s.clock.Now().Add(s.delay)
	st := s.game.State()
	for s.clock.Now().Before(deadline) {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.poll()
		s.show(s.blank, st)
		if err := s.clock.Tick(ctx); err != nil {
			return err
		}
	}
	return nil
}

// reset starts a new game with a fresh seed and the base frame rate.
func (s *Session) reset() {
	cfg := s.runtime
	if s.baseSeed == 0 {
		cfg.Seed = time.Now().UnixNano()
	} else {
		cfg.Seed = s.baseSeed + int64(s.games)
	}
	s.games++
	s.game.Reset(cfg)
	s.applyRate(0)
}

func (s *Session) applyRate(score int) {
	fps := s.runtime.TickRate
	if s.rate != nil {
		fps = s.rate(score)
	}
	if fps != s.clock.Rate() {
		s.logger.Debug("frame rate", "fps", fps, "score", score)
		s.clock.SetRate(fps)
	}
}

// show sends a frame. Failures are logged once until the display recovers.
func (s *Session) show(f *core.Frame, st core.GameState) {
	err := s.display.Show(f, st)
	switch {
	case err != nil && !s.displayFailing:
		s.displayFailing = true
		s.logger.Warn("display unreachable", "err", err)
	case err == nil && s.displayFailing:
		s.displayFailing = false
		s.logger.Info("display recovered")
	}
}

func stopErr(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
