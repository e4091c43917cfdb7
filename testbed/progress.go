package testbed

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/spaghettifunk/anima-io/engine/loader"
)

const (
	padding  = 2
	maxWidth = 80
)

var ErrInterrupted = errors.New("loading interrupted")

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

type progressMsg float32

type doneMsg struct {
	loaded loader.Loaded
}

// ProgressMsg wraps a loader progress report for the program.
func ProgressMsg(p float32) tea.Msg { return progressMsg(p) }

// DoneMsg wraps a completed batch for the program.
func DoneMsg(loaded loader.Loaded) tea.Msg { return doneMsg{loaded: loaded} }

// Model renders a progress bar while a batch loads and a summary once it is done.
type Model struct {
	bar      progress.Model
	total    int
	percent  float64
	loaded   loader.Loaded
	done     bool
	quitting bool
}

func NewModel(total int) Model {
	return Model{
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(maxWidth-padding*2-4)),
		total: total,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.bar.Width = msg.Width - padding*2 - 4
		if m.bar.Width > maxWidth {
			m.bar.Width = maxWidth
		}
		return m, nil

	case progressMsg:
		if p := float64(msg); p > m.percent {
			m.percent = p
		}
		return m, nil

	case doneMsg:
		m.percent = 1
		m.loaded = msg.loaded
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	if m.done {
		return Summary(m.loaded)
	}
	pad := strings.Repeat(" ", padding)
	title := titleStyle.Render(fmt.Sprintf("Loading %d resources", m.total))
	return "\n" + pad + title + "\n\n" +
		pad + m.bar.ViewAs(m.percent) + "\n\n" +
		pad + helpStyle.Render("Press q to quit") + "\n"
}

// Loaded returns the completed batch, nil while loading.
func (m Model) Loaded() loader.Loaded {
	if !m.done {
		return nil
	}
	return m.loaded
}

// Summary lists every entry of a completed batch, failures included.
func Summary(loaded loader.Loaded) string {
	var b strings.Builder
	failed := loaded.Failed()

	b.WriteString("\n")
	for _, id := range loaded.IDs() {
		if err, ok := failed[id]; ok {
			b.WriteString(failStyle.Render("  ✗ " + id))
			fmt.Fprintf(&b, "  %s\n", err)
			continue
		}
		b.WriteString(okStyle.Render("  ✓ " + id))
		fmt.Fprintf(&b, "  %d bytes\n", len(loaded[id].Data))
	}
	fmt.Fprintf(&b, "\n  %s, %s, %d bytes\n",
		okStyle.Render(fmt.Sprintf("%d loaded", len(loaded)-len(failed))),
		failStyle.Render(fmt.Sprintf("%d failed", len(failed))),
		loaded.TotalBytes(),
	)
	return b.String()
}

// Run loads ids with l while drawing the progress bar to out, and returns
// once the batch completes or the user quits.
func Run(l *loader.Loader, ids []string, out io.Writer) (loader.Loaded, error) {
	p := tea.NewProgram(NewModel(len(ids)), tea.WithOutput(out))

	err := l.LoadWithProgress(ids,
		func(f float32) { p.Send(ProgressMsg(f)) },
		func(loaded loader.Loaded) { p.Send(DoneMsg(loaded)) },
	)
	if err != nil {
		return nil, err
	}

	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	m := final.(Model)
	if m.quitting && !m.done {
		return nil, ErrInterrupted
	}
	return m.Loaded(), nil
}
