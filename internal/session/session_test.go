package session

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/matesnake/internal/core"
	"github.com/vovakirdan/matesnake/internal/games/snake"
	"github.com/vovakirdan/matesnake/internal/storage"
)

// fakeClock advances one frame per Tick and cancels the run after limit ticks.
type fakeClock struct {
	now    time.Time
	fps    int
	ticks  int
	limit  int
	cancel context.CancelFunc
}

func (c *fakeClock) Now() time.Time  { return c.now }
func (c *fakeClock) SetRate(fps int) { c.fps = fps }
func (c *fakeClock) Rate() int       { return c.fps }

func (c *fakeClock) Tick(ctx context.Context) error {
	c.ticks++
	c.now = c.now.Add(time.Second / time.Duration(c.fps))
	if c.limit > 0 && c.ticks >= c.limit {
		c.cancel()
	}
	return ctx.Err()
}

type recordingDisplay struct {
	frames []*core.Frame
	err    error
}

func (d *recordingDisplay) Show(f *core.Frame, _ core.GameState) error {
	d.frames = append(d.frames, f.Clone())
	return d.err
}

type scriptedEvents struct {
	script [][]core.Event
	polls  int
}

func (e *scriptedEvents) Poll() []core.Event {
	e.polls++
	if len(e.script) == 0 {
		return nil
	}
	next := e.script[0]
	e.script = e.script[1:]
	return next
}

type memStore struct {
	highscore int
	saves     []int
	saveErr   error
}

func (m *memStore) Load() int { return m.highscore }

func (m *memStore) Save(score int) error {
	m.saves = append(m.saves, score)
	return m.saveErr
}

type recorderStore struct {
	memStore
	records []int
}

func (r *recorderStore) Record(score int) error {
	r.records = append(r.records, score)
	return nil
}

type harness struct {
	sess    *Session
	clock   *fakeClock
	display *recordingDisplay
	events  *scriptedEvents
	ctx     context.Context
}

func newHarness(t *testing.T, walls snake.WallMode, store storage.HighscoreStore, limit int) *harness {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	h := &harness{
		clock:   &fakeClock{now: time.Unix(1000, 0), fps: 15, limit: limit, cancel: cancel},
		display: &recordingDisplay{},
		events:  &scriptedEvents{},
		ctx:     ctx,
	}

	opts := snake.DefaultOptions()
	opts.Walls = walls
	sess, err := New(Config{
		Game:    snake.New(opts),
		Runtime: core.RuntimeConfig{Width: 15, Height: 16, TickRate: 15, Seed: 1},
		Display: h.display,
		Events:  h.events,
		Clock:   h.clock,
		Store:   store,
		Logger:  log.New(io.Discard),
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	h.sess = sess
	return h
}

func isBlank(f *core.Frame) bool {
	for _, c := range f.Pixels() {
		if !c.IsBlack() {
			return false
		}
	}
	return true
}

func TestNewRequiresCollaborators(t *testing.T) {
	store := &memStore{}
	base := Config{
		Game:    snake.New(snake.DefaultOptions()),
		Runtime: core.DefaultConfig(),
		Display: &recordingDisplay{},
		Events:  &scriptedEvents{},
		Store:   store,
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no game", func(c *Config) { c.Game = nil }},
		{"no display", func(c *Config) { c.Display = nil }},
		{"no events", func(c *Config) { c.Events = nil }},
		{"no store", func(c *Config) { c.Store = nil }},
		{"tiny grid", func(c *Config) { c.Runtime.Width = snake.MinWidth - 1 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.mutate(&cfg)
			if _, err := New(cfg); err == nil {
				t.Error("New() should fail")
			}
		})
	}

	if _, err := New(base); err != nil {
		t.Errorf("New() with all collaborators failed: %v", err)
	}
}

func TestNewMinimumWidthFitsSnake(t *testing.T) {
	sess, err := New(Config{
		Game:    snake.New(snake.DefaultOptions()),
		Runtime: core.RuntimeConfig{Width: snake.MinWidth, Height: 3, Seed: 1},
		Display: &recordingDisplay{},
		Events:  &scriptedEvents{},
		Store:   &memStore{},
	})
	if err != nil {
		t.Fatalf("New() at width %d failed: %v", snake.MinWidth, err)
	}

	grid := core.NewGrid(snake.MinWidth, 3)
	for _, p := range sess.Game().Snake().Parts() {
		if !grid.Contains(p) {
			t.Errorf("Segment %v lies outside the %dx3 grid", p, snake.MinWidth)
		}
	}
}

func TestRunCancelledReturnsNil(t *testing.T) {
	store := &memStore{highscore: 3}
	h := newHarness(t, snake.WallsWrap, store, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := h.sess.Run(ctx); err != nil {
		t.Fatalf("Run() = %v, expected nil", err)
	}
	if len(store.saves) != 0 {
		t.Errorf("Cancelled run should not persist, got saves %v", store.saves)
	}
	if h.sess.Highscore() != 3 {
		t.Errorf("Highscore() = %d, expected 3 loaded from store", h.sess.Highscore())
	}
}

func TestRunShowsOneFramePerTick(t *testing.T) {
	store := &memStore{}
	h := newHarness(t, snake.WallsWrap, store, 5)

	if err := h.sess.Run(h.ctx); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if len(h.display.frames) != 5 {
		t.Errorf("Shown %d frames, expected 5", len(h.display.frames))
	}
	if h.events.polls != 5 {
		t.Errorf("Polled %d times, expected 5", h.events.polls)
	}
	// Snake starts at (5..7, 8) heading right; after 5 moves the head is at (12, 8)
	head := h.sess.Game().Snake().Head()
	if head != (core.Point{X: 12, Y: 8}) {
		t.Errorf("Head = %v, expected (12, 8)", head)
	}
	if got := h.display.frames[4].Get(head); got != core.ColorRed {
		t.Errorf("Head pixel = %v, expected red", got)
	}
}

func TestRunAppliesInput(t *testing.T) {
	h := newHarness(t, snake.WallsWrap, &memStore{}, 1)
	h.events.script = [][]core.Event{{
		{Kind: core.EventConnected, UID: "c1"},
		core.KeyDown("c1", core.ButtonUp),
	}}

	if err := h.sess.Run(h.ctx); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	s := h.sess.Game().Snake()
	if s.Direction() != core.DirUp {
		t.Errorf("Direction = %v, expected up", s.Direction())
	}
	if s.Head() != (core.Point{X: 7, Y: 7}) {
		t.Errorf("Head = %v, expected (7, 7)", s.Head())
	}
}

// Solid walls on a 15-wide grid: the snake dies on the 8th step.
const (
	playTicks     = 7
	gameOverTicks = 76 // 5s at 15 fps, measured on the clock
)

// firstGameScore plays the harness's first game (seed 1, solid walls, no
// input) on its own and returns the final score.
func firstGameScore(t *testing.T, apple core.Point) int {
	t.Helper()
	opts := snake.DefaultOptions()
	opts.Walls = snake.WallsSolid
	g := snake.New(opts)
	g.Reset(core.RuntimeConfig{Width: 15, Height: 16, TickRate: 15, Seed: 1})
	g.PlaceApple(apple)
	for range 100 {
		if g.Step(nil).State.GameOver {
			return g.Score()
		}
	}
	t.Fatal("reference game did not end")
	return 0
}

func TestGameOverPersistsNewHighscore(t *testing.T) {
	store := &memStore{}
	h := newHarness(t, snake.WallsSolid, store, playTicks+gameOverTicks+3)
	h.sess.Game().PlaceApple(core.Point{X: 8, Y: 8})

	if err := h.sess.Run(h.ctx); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	if len(store.saves) != 1 {
		t.Fatalf("Expected one save, got %v", store.saves)
	}
	if want := firstGameScore(t, core.Point{X: 8, Y: 8}); store.saves[0] != want {
		t.Errorf("Saved score %d, expected %d", store.saves[0], want)
	}
	if h.sess.Highscore() != store.saves[0] {
		t.Errorf("Highscore() = %d, expected %d", h.sess.Highscore(), store.saves[0])
	}
	if h.sess.Games() != 2 {
		t.Errorf("Games() = %d, expected 2 after one reset", h.sess.Games())
	}

	frames := h.display.frames
	if len(frames) != playTicks+gameOverTicks+3 {
		t.Fatalf("Shown %d frames", len(frames))
	}
	for i := playTicks; i < playTicks+gameOverTicks; i++ {
		if !isBlank(frames[i]) {
			t.Fatalf("Frame %d during game over should be blank", i)
		}
	}
	if isBlank(frames[len(frames)-1]) {
		t.Error("Frames after the reset should show the new game")
	}
	if h.sess.Game().Score() != 0 {
		t.Errorf("New game score = %d, expected 0", h.sess.Game().Score())
	}
}

func TestGameOverKeepsHigherHighscore(t *testing.T) {
	store := &memStore{highscore: 10}
	h := newHarness(t, snake.WallsSolid, store, playTicks+gameOverTicks+1)

	if err := h.sess.Run(h.ctx); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if len(store.saves) != 0 {
		t.Errorf("Score below highscore should not be saved, got %v", store.saves)
	}
	if h.sess.Highscore() != 10 {
		t.Errorf("Highscore() = %d, expected 10", h.sess.Highscore())
	}
}

func TestGameOverEqualHighscoreNotSaved(t *testing.T) {
	apple := core.Point{X: 8, Y: 8}
	score := firstGameScore(t, apple)
	store := &memStore{highscore: score}
	h := newHarness(t, snake.WallsSolid, store, playTicks+gameOverTicks+1)
	h.sess.Game().PlaceApple(apple)

	if err := h.sess.Run(h.ctx); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if len(store.saves) != 0 {
		t.Errorf("Score equal to the highscore should not be saved, got %v", store.saves)
	}
	if h.sess.Highscore() != score {
		t.Errorf("Highscore() = %d, expected %d", h.sess.Highscore(), score)
	}
}

func TestGameOverSaveFailureIsNotFatal(t *testing.T) {
	store := &memStore{saveErr: errors.New("disk full")}
	h := newHarness(t, snake.WallsSolid, store, playTicks+gameOverTicks+3)
	h.sess.Game().PlaceApple(core.Point{X: 8, Y: 8})

	if err := h.sess.Run(h.ctx); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if len(store.saves) != 1 {
		t.Fatalf("Expected one save attempt, got %v", store.saves)
	}
	if h.sess.Highscore() != store.saves[0] {
		t.Errorf("In-memory highscore should update even when saving fails")
	}
}

func TestGameOverRecordsEveryScore(t *testing.T) {
	store := &recorderStore{memStore: memStore{highscore: 10}}
	h := newHarness(t, snake.WallsSolid, store, playTicks+gameOverTicks+1)

	if err := h.sess.Run(h.ctx); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if len(store.records) != 1 {
		t.Errorf("Expected one recorded score, got %v", store.records)
	}
	if len(store.saves) != 0 {
		t.Errorf("Recorder stores should not also get Save, got %v", store.saves)
	}
}

func TestGameOverDiscardsInput(t *testing.T) {
	h := newHarness(t, snake.WallsSolid, &memStore{}, playTicks+gameOverTicks+1)

	script := make([][]core.Event, playTicks+gameOverTicks+1)
	// A turn pressed while the wall is dark must not leak into the next game
	script[playTicks+10] = []core.Event{core.KeyDown("c1", core.ButtonDown)}
	h.events.script = script

	if err := h.sess.Run(h.ctx); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	s := h.sess.Game().Snake()
	if s.Direction() != core.DirRight {
		t.Errorf("Direction = %v, expected right after reset", s.Direction())
	}
	// One extra poll for the step that ended the game
	if want := playTicks + 1 + gameOverTicks + 1; h.events.polls != want {
		t.Errorf("Polled %d times, expected %d", h.events.polls, want)
	}
}

func TestDisplayFailureKeepsRunning(t *testing.T) {
	h := newHarness(t, snake.WallsWrap, &memStore{}, 10)
	h.display.err = errors.New("connection refused")

	if err := h.sess.Run(h.ctx); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if len(h.display.frames) != 10 {
		t.Errorf("Shown %d frames, expected 10", len(h.display.frames))
	}
	if !h.sess.displayFailing {
		t.Error("Session should remember the display is failing")
	}
}

func TestSpeedUpOnScore(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := &fakeClock{now: time.Unix(0, 0), fps: 15, limit: 1, cancel: cancel}
	sess, err := New(Config{
		Game:    snake.New(snake.DefaultOptions()),
		Runtime: core.RuntimeConfig{Width: 15, Height: 16, TickRate: 15, Seed: 1},
		Display: &recordingDisplay{},
		Events:  &scriptedEvents{},
		Clock:   clock,
		Store:   &memStore{},
		Logger:  log.New(io.Discard),
		Rate:    func(score int) int { return 15 + 5*score },
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	sess.Game().PlaceApple(core.Point{X: 8, Y: 8})

	if err := sess.Run(ctx); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if clock.Rate() != 20 {
		t.Errorf("Rate = %d, expected 20 after the first apple", clock.Rate())
	}
}

func TestGameOverLogsFinalState(t *testing.T) {
	h := newHarness(t, snake.WallsSolid, &memStore{highscore: 10}, playTicks+1)
	var buf bytes.Buffer
	h.sess.logger = log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	if err := h.sess.Run(h.ctx); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "game over") {
		t.Errorf("Log should report the game over, got:\n%s", out)
	}
	if !strings.Contains(out, "final state") || !strings.Contains(out, "phase=game_over") {
		t.Errorf("Log should include the final game state, got:\n%s", out)
	}
}
