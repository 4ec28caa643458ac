package ui

import (
	"context"
	"fmt"
	"os"

	"stepline"
	"stepline/progress"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// RunWithLiveBar runs fn while rendering the step indicator live on stderr.
// fn receives a reporter; every snapshot it emits redraws the bar, with a
// spinner beside the running step's label. In non-interactive mode fn runs
// synchronously and transitions print as plain lines. Ctrl+C cancels the
// context passed to fn.
func RunWithLiveBar(ctx context.Context, fn func(ctx context.Context, report progress.Reporter) error) error {
	if IsNoInteraction() {
		line := NewLineReporter(os.Stderr)
		return fn(ctx, line.OnSnapshot)
	}

	m := &liveBarModel{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(AccentStyle),
		),
	}

	fnCtx, fnCancel := context.WithCancel(ctx)
	defer fnCancel()

	p := tea.NewProgram(m,
		tea.WithOutput(os.Stderr),
		tea.WithContext(ctx),
	)

	go func() {
		m.err = fn(fnCtx, func(snap progress.Snapshot) {
			p.Send(snapshotMsg{snap: snap})
		})
		p.Send(liveDoneMsg{})
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("live bar: %w", err)
	}

	if m.cancelled {
		fnCancel()
		return context.Canceled
	}

	return m.err
}

type snapshotMsg struct{ snap progress.Snapshot }

type liveDoneMsg struct{}

type liveBarModel struct {
	spinner   spinner.Model
	snap      progress.Snapshot
	width     int
	err       error
	done      bool
	cancelled bool
}

func (m *liveBarModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *liveBarModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancelled = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case snapshotMsg:
		m.snap = msg.snap
		return m, nil
	case liveDoneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *liveBarModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	if len(m.snap.Steps) == 0 {
		return m.spinner.View() + " " + Muted("preparing") + "\n"
	}

	width := m.width
	if width > 2 {
		width -= 2
	}
	bar := m.snap.Sequence().Render(stepline.WithWidth(width))

	return bar + "\n\n" + m.statusLine() + "\n"
}

func (m *liveBarModel) statusLine() string {
	for _, step := range m.snap.Steps {
		if step.Status == progress.Failed {
			if step.Message != "" {
				return ErrorMsg("%s: %s", step.Label, step.Message)
			}
			return ErrorMsg("%s failed", step.Label)
		}
	}

	if idx := m.snap.CurrentIndex(); idx < len(m.snap.Steps) {
		return m.spinner.View() + " " + m.snap.Steps[idx].Label
	}
	return SuccessMsg("all steps completed")
}
