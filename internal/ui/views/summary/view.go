package summary

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	trackerdto "tasktrack/internal/modules/tracker/dto"
	"tasktrack/internal/ui/theme"
)

// Model shows the recent-projects summary as rendered markdown.
type Model struct {
	viewport viewport.Model
	summary  trackerdto.SummaryOutput
	width    int
	height   int
}

func New() Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Background(theme.Mantle).Foreground(theme.Text)
	return Model{viewport: vp}
}

func (m *Model) SetSummary(summary trackerdto.SummaryOutput) {
	m.summary = summary
	m.viewport.SetContent(m.render())
	m.viewport.GotoTop()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
		m.viewport.Width = m.width - 2
		m.viewport.Height = m.height - 2
		m.viewport.SetContent(m.render())
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return theme.Pane.Width(m.width - 2).Height(m.height - 2).Render(m.viewport.View())
}

// Markdown renders the summary the way the popup listed it: one block per
// project with per-task hours and a total.
func Markdown(summary trackerdto.SummaryOutput) string {
	if len(summary.Projects) == 0 {
		return "_No sessions recorded yet._\n"
	}
	var b strings.Builder
	b.WriteString("# Recent projects\n\n")
	for _, p := range summary.Projects {
		fmt.Fprintf(&b, "**%s** (Runtime: %dm, Boxes: %d)\n\n", p.Project, p.Runtime, p.Boxes)
		for _, t := range p.Tasks {
			fmt.Fprintf(&b, "- %s: %sh\n", t.Task, t.Hours)
		}
		fmt.Fprintf(&b, "\nTotal: %sh\n\n", p.Total)
	}
	return b.String()
}

func (m Model) render() string {
	raw := Markdown(m.summary)
	width := m.width - 4
	if width < 20 {
		return raw
	}
	renderer, err := glamour.NewTermRenderer(glamour.WithStylePath("dark"), glamour.WithWordWrap(width))
	if err != nil {
		return raw
	}
	out, err := renderer.Render(raw)
	if err != nil {
		return raw
	}
	return out
}
