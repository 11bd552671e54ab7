package selection

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	trackerdto "tasktrack/internal/modules/tracker/dto"
	"tasktrack/internal/ui/theme"
)

// ─── list items ──────────────────────────────────────────────────────────────

type projectItem struct {
	project trackerdto.ProjectOutput
}

func (i projectItem) Title() string { return i.project.Name }
func (i projectItem) Description() string {
	return fmt.Sprintf("runtime %dm  boxes %d", i.project.Runtime, i.project.Boxes)
}
func (i projectItem) FilterValue() string { return i.project.Name }

type taskItem string

func (i taskItem) Title() string       { return string(i) }
func (i taskItem) Description() string { return "" }
func (i taskItem) FilterValue() string { return string(i) }

// ─── model ───────────────────────────────────────────────────────────────────

type pane int

const (
	paneProjects pane = iota
	paneTasks
)

// Model holds the project and task pickers side by side. Only the focused
// list receives key input.
type Model struct {
	projects list.Model
	tasks    list.Model
	focus    pane
	width    int
	height   int
}

func newList(title string, showDescription bool) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = showDescription
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)
	if !showDescription {
		delegate.SetSpacing(0)
	}

	l := list.New(nil, delegate, 0, 0)
	l.Title = title
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	return l
}

func New() Model {
	return Model{
		projects: newList("Projects", true),
		tasks:    newList("Tasks", false),
	}
}

// SetProjects replaces the project list, keeping the selection by name.
func (m *Model) SetProjects(projects []trackerdto.ProjectOutput) tea.Cmd {
	selected := m.SelectedProject()
	items := make([]list.Item, len(projects))
	for i, p := range projects {
		items[i] = projectItem{project: p}
	}
	cmd := m.projects.SetItems(items)
	selectByTitle(&m.projects, selected)
	return cmd
}

func (m *Model) SetTasks(tasks []string) tea.Cmd {
	selected := m.SelectedTask()
	items := make([]list.Item, len(tasks))
	for i, t := range tasks {
		items[i] = taskItem(t)
	}
	cmd := m.tasks.SetItems(items)
	selectByTitle(&m.tasks, selected)
	return cmd
}

// Select moves both cursors to the given names when present.
func (m *Model) Select(project, task string) {
	selectByTitle(&m.projects, project)
	selectByTitle(&m.tasks, task)
}

func selectByTitle(l *list.Model, title string) {
	if title == "" {
		return
	}
	for i, item := range l.Items() {
		if item.FilterValue() == title {
			l.Select(i)
			return
		}
	}
}

func (m Model) SelectedProject() string {
	if item, ok := m.projects.SelectedItem().(projectItem); ok {
		return item.project.Name
	}
	return ""
}

func (m Model) SelectedTask() string {
	if item, ok := m.tasks.SelectedItem().(taskItem); ok {
		return string(item)
	}
	return ""
}

// Filtering reports whether either list's search filter is active.
func (m Model) Filtering() bool {
	return m.projects.FilterState() == list.Filtering || m.tasks.FilterState() == list.Filtering
}

// ToggleFocus switches key input between the two lists.
func (m *Model) ToggleFocus() {
	if m.focus == paneProjects {
		m.focus = paneTasks
	} else {
		m.focus = paneProjects
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		half := m.width / 2
		m.projects.SetSize(half-2, m.height-2)
		m.tasks.SetSize(m.width-half-2, m.height-2)
		return m, nil
	case tea.KeyMsg:
		var cmd tea.Cmd
		if m.focus == paneProjects {
			m.projects, cmd = m.projects.Update(msg)
		} else {
			m.tasks, cmd = m.tasks.Update(msg)
		}
		return m, cmd
	}

	var pCmd, tCmd tea.Cmd
	m.projects, pCmd = m.projects.Update(msg)
	m.tasks, tCmd = m.tasks.Update(msg)
	return m, tea.Batch(pCmd, tCmd)
}

func (m Model) View() string {
	half := m.width / 2
	projectPane, taskPane := theme.Pane, theme.Pane
	if m.focus == paneProjects {
		projectPane = theme.PaneActive
	} else {
		taskPane = theme.PaneActive
	}
	left := projectPane.Width(half - 2).Height(m.height - 2).Render(m.projects.View())
	right := taskPane.Width(m.width - half - 2).Height(m.height - 2).Render(m.tasks.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}
