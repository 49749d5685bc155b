package room

import (
	"errors"
	"io"

	"github.com/bnema/talkie/internal/application"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type renderReadyMsg struct{}

// snapshotModel renders one snapshot and quits.
type snapshotModel struct {
	snapshot application.SessionSnapshot
	opts     RenderOptions
	styles   styles
	output   string
}

func (m snapshotModel) Init() tea.Cmd {
	return func() tea.Msg {
		return renderReadyMsg{}
	}
}

func (m snapshotModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case renderReadyMsg:
		m.output = renderView(m.snapshot, m.opts, m.styles)
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m snapshotModel) View() string {
	return m.output
}

func Render(snapshot application.SessionSnapshot, opts RenderOptions) (string, error) {
	p := tea.NewProgram(
		snapshotModel{snapshot: snapshot, opts: opts, styles: newStyles(opts.Theme)},
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(snapshotModel)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}
