package cli

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrInterrupted is returned when the user quits the spinner before the work finishes.
var ErrInterrupted = errors.New("interrupted")

type doneMsg[T any] struct {
	value T
	err   error
}

// spinnerModel shows a spinner until work delivers its result.
type spinnerModel[T any] struct {
	spinner spinner.Model
	label   string
	work    func() (T, error)
	cancel  context.CancelFunc

	done   bool
	result T
	err    error
}

func newSpinnerModel[T any](label string, work func() (T, error), cancel context.CancelFunc) spinnerModel[T] {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorAccent)
	return spinnerModel[T]{spinner: sp, label: label, work: work, cancel: cancel}
}

func (m spinnerModel[T]) Init() tea.Cmd {
	work := m.work
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		v, err := work()
		return doneMsg[T]{value: v, err: err}
	})
}

func (m spinnerModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg[T]:
		m.done = true
		m.result = msg.value
		m.err = msg.err
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" || msg.String() == "esc" {
			if m.cancel != nil {
				m.cancel()
			}
			m.err = ErrInterrupted
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel[T]) View() string {
	if m.done || m.err != nil {
		return ""
	}
	return "  " + m.spinner.View() + " " + mutedStyle.Render(m.label) + "\n"
}

// WithSpinner runs work while drawing a spinner on out. Quitting the spinner
// cancels the context handed to work.
func WithSpinner[T any](ctx context.Context, out io.Writer, label string, work func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := newSpinnerModel(label, func() (T, error) { return work(ctx) }, cancel)
	final, err := tea.NewProgram(m, tea.WithOutput(out)).Run()
	if err != nil {
		var zero T
		return zero, err
	}
	fm := final.(spinnerModel[T])
	return fm.result, fm.err
}
