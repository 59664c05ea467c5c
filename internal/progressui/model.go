// Package progressui shows a progress bar while samples are collected.
package progressui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/seedaudit/internal/collector"
)

const (
	padding  = 2
	maxWidth = 72
)

type progressMsg collector.Progress

type doneMsg struct{}

// Model is the bubbletea model for the collection progress view.
type Model struct {
	bar       progress.Model
	runs      int
	attempt   int
	accepted  int
	done      bool
	cancelled bool
	cancel    context.CancelFunc
}

// NewModel builds the model. cancel is invoked when the operator quits.
func NewModel(runs int, cancel context.CancelFunc) Model {
	return Model{
		bar:    progress.New(progress.WithDefaultGradient()),
		runs:   runs,
		cancel: cancel,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.cancelled = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.bar.Width = msg.Width - padding*2
		if m.bar.Width > maxWidth {
			m.bar.Width = maxWidth
		}
	case progressMsg:
		m.attempt = msg.Attempt
		m.accepted = msg.Accepted
		if msg.Runs > 0 {
			m.runs = msg.Runs
		}
	case doneMsg:
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	pad := strings.Repeat(" ", padding)
	percent := 0.0
	if m.runs > 0 {
		percent = float64(m.attempt) / float64(m.runs)
	}
	status := fmt.Sprintf("%d/%d invocations, %d accepted", m.attempt, m.runs, m.accepted)
	if m.cancelled {
		status += " (stopping)"
	}
	return "\n" + pad + m.bar.ViewAs(percent) + "\n" + pad + status + "\n"
}

// Work is the collection job driven under the progress view.
type Work func(ctx context.Context, report func(collector.Progress)) error

// Run draws the progress view on out while work runs. Quitting the view
// cancels the context passed to work.
func Run(ctx context.Context, out io.Writer, runs int, work Work) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(NewModel(runs, cancel), tea.WithOutput(out))

	var workErr error
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		workErr = work(ctx, func(p collector.Progress) {
			program.Send(progressMsg(p))
		})
		program.Send(doneMsg{})
	}()

	if _, err := program.Run(); err != nil {
		cancel()
		<-finished
		return fmt.Errorf("failed to run progress view: %w", err)
	}
	<-finished
	return workErr
}
