// Package tui is the terminal adapter: Bubble Tea supplies key presses and
// draws the frames the dispatcher publishes.
package tui

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/talgya/incremental/internal/dispatch"
)

// FrameMsg delivers a dispatcher snapshot to the Bubble Tea program.
type FrameMsg dispatch.Frame

// Poster accepts events for the dispatcher queue.
type Poster interface {
	Post(dispatch.Event) error
}

// Model is the Bubble Tea model. It holds only the latest frame; the game
// state itself lives in the dispatcher.
type Model struct {
	poster Poster
	frame  dispatch.Frame
	ready  bool
	width  int
	styles styles
}

// NewModel creates a model that forwards key presses to poster.
func NewModel(poster Poster) Model {
	return Model{poster: poster, styles: defaultStyles()}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key, ok := TranslateKey(msg)
		if !ok {
			return m, nil
		}
		if err := m.poster.Post(dispatch.KeyEvent{Key: key}); err != nil {
			slog.Debug("key dropped, dispatcher stopped", "key", key)
			return m, tea.Quit
		}
	case FrameMsg:
		m.frame = dispatch.Frame(msg)
		m.ready = true
		if m.frame.Status == dispatch.Stopped {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

// Frame returns the latest frame received.
func (m Model) Frame() dispatch.Frame {
	return m.frame
}

// ProgramRenderer forwards frames into a running Bubble Tea program.
type ProgramRenderer struct {
	Program *tea.Program
}

// Render implements dispatch.Renderer.
func (r ProgramRenderer) Render(f dispatch.Frame) {
	r.Program.Send(FrameMsg(f))
}
