// Package tui provides the Bubble Tea front ends for matesnake: a local
// terminal display and terminal controllers, locally or over SSH.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/vovakirdan/matesnake/internal/core"
)

// LocalUID identifies the keyboard of the local terminal as a controller.
const LocalUID = "local"

// Publisher accepts controller events, usually a controller.Hub.
type Publisher interface {
	Publish(ev core.Event) bool
}

// FrameMsg carries a rendered frame into the Bubble Tea program.
type FrameMsg struct {
	Frame *core.Frame
	State core.GameState
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	hudStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	wallStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))
)

// Model is a terminal controller. Key presses become controller events
// for uid. When frames arrive it also shows the wall.
type Model struct {
	pub      Publisher
	uid      string
	keys     KeyMap
	help     help.Model
	frame    *core.Frame
	state    core.GameState
	quitting bool
}

// NewModel creates a controller model publishing as uid.
func NewModel(pub Publisher, uid string) Model {
	return Model{
		pub:  pub,
		uid:  uid,
		keys: DefaultKeyMap(),
		help: help.New(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case FrameMsg:
		m.frame = msg.Frame
		m.state = msg.State
		return m, nil
	}

	return m, nil
}

// handleKey turns key presses into controller events.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "?" {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	if b, ok := m.keys.ButtonFor(msg); ok {
		m.pub.Publish(core.KeyDown(m.uid, b))
		return m, nil
	}
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// Quitting reports whether the user asked to leave.
func (m Model) Quitting() bool {
	return m.quitting
}

// View renders the wall, if any, with a status line and key help.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("MATESNAKE"))
	b.WriteString("\n\n")

	if m.frame == nil {
		b.WriteString(hudStyle.Render(fmt.Sprintf("Controller %s connected. Watch the wall!", m.uid)))
		b.WriteString("\n")
	} else {
		b.WriteString(wallStyle.Render(RenderFrame(m.frame)))
		b.WriteString("\n")
		status := fmt.Sprintf("Score: %d", m.state.Score)
		if m.state.GameOver {
			status += "  GAME OVER"
		}
		b.WriteString(hudStyle.Render(status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// ProgramDisplay shows session frames inside a running Bubble Tea program.
type ProgramDisplay struct {
	p *tea.Program
}

// Show forwards a copy of f to the program.
func (d *ProgramDisplay) Show(f *core.Frame, st core.GameState) error {
	d.p.Send(FrameMsg{Frame: f.Clone(), State: st})
	return nil
}

// RunLocal plays in this terminal. play runs the game loop against the
// given display until its context ends; quitting the UI cancels it.
func RunLocal(ctx context.Context, pub Publisher, width, height int,
	play func(ctx context.Context, d *ProgramDisplay) error,
) error {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return errors.New("tui: local mode needs a terminal")
	}
	if cols, rows, err := term.GetSize(fd); err == nil {
		// Frame is two columns per pixel plus a border, with title and help around it
		if cols < width*2+2 || rows < height+8 {
			return fmt.Errorf("tui: terminal is %dx%d, need at least %dx%d",
				cols, rows, width*2+2, height+8)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewModel(pub, LocalUID), tea.WithAltScreen(), tea.WithContext(ctx))

	done := make(chan error, 1)
	go func() {
		err := play(ctx, &ProgramDisplay{p: p})
		p.Quit()
		done <- err
	}()

	_, runErr := p.Run()
	cancel()
	playErr := <-done

	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return fmt.Errorf("tui: %w", runErr)
	}
	return playErr
}
