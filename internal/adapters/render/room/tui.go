package room

import (
	"context"
	"time"

	"github.com/bnema/talkie/internal/application"
	"github.com/bnema/talkie/internal/domain"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const DefaultRefresh = 200 * time.Millisecond

// Controller is the part of the session the room view drives.
type Controller interface {
	PressTalk(ctx context.Context) error
	ReleaseTalk() error
	SetHandsFree(ctx context.Context, enabled bool) error
	Announce(ctx context.Context, text string) error
	LeaveRoom() error
	Snapshot() application.SessionSnapshot
}

type tickMsg struct{}

type actionDoneMsg struct {
	err error
}

// Model is the interactive room view. ctrl+t toggles push-to-talk, ctrl+f
// toggles hands-free, enter announces the typed text and esc leaves.
type Model struct {
	ctx      context.Context
	ctrl     Controller
	opts     RenderOptions
	styles   styles
	refresh  time.Duration
	input    textinput.Model
	snapshot application.SessionSnapshot
	err      error
	left     bool
}

func NewModel(ctx context.Context, ctrl Controller, opts RenderOptions, refresh time.Duration) Model {
	if refresh <= 0 {
		refresh = DefaultRefresh
	}

	input := textinput.New()
	input.Placeholder = "type a message, enter to announce"
	input.CharLimit = 280
	input.Focus()

	return Model{
		ctx:      ctx,
		ctrl:     ctrl,
		opts:     opts,
		styles:   newStyles(opts.Theme),
		refresh:  refresh,
		input:    input,
		snapshot: ctrl.Snapshot(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.tick())
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.refresh, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if m.left {
			return m, nil
		}
		m.snapshot = m.ctrl.Snapshot()
		return m, m.tick()

	case actionDoneMsg:
		m.err = msg.err
		m.snapshot = m.ctrl.Snapshot()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		m.err = m.ctrl.LeaveRoom()
		m.left = true
		m.snapshot = m.ctrl.Snapshot()
		return m, tea.Quit

	case "ctrl+t":
		ctrl, ctx := m.ctrl, m.ctx
		// the session talks before the device finishes opening
		if m.snapshot.Session.Status == domain.StatusTalking {
			return m, m.action(func() error { return ctrl.ReleaseTalk() })
		}
		return m, m.action(func() error { return ctrl.PressTalk(ctx) })

	case "ctrl+f":
		ctrl, ctx := m.ctrl, m.ctx
		enabled := !m.snapshot.Session.HandsFree
		return m, m.action(func() error { return ctrl.SetHandsFree(ctx, enabled) })

	case "enter":
		text := m.input.Value()
		m.input.Reset()
		if text == "" {
			return m, nil
		}
		ctrl, ctx := m.ctrl, m.ctx
		return m, m.action(func() error { return ctrl.Announce(ctx, text) })
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) action(run func() error) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{err: run()}
	}
}

func (m Model) View() string {
	parts := []string{renderView(m.snapshot, m.opts, m.styles)}
	if m.left {
		return parts[0] + "\n"
	}

	parts = append(parts, m.styles.section.Render(m.input.View()))
	if m.err != nil {
		parts = append(parts, m.styles.errorLine.Render("error: "+m.err.Error()))
	}
	parts = append(parts, m.styles.help.Render("ctrl+t talk  ctrl+f hands-free  enter announce  esc leave"))

	return lipgloss.JoinVertical(lipgloss.Left, parts...) + "\n"
}

// Left reports whether the user left the room through the view.
func (m Model) Left() bool {
	return m.left
}

// Err is the last error returned by a session action.
func (m Model) Err() error {
	return m.err
}
