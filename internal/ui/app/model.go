package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	trackerdto "tasktrack/internal/modules/tracker/dto"
	apperrors "tasktrack/internal/platform/errors"
	"tasktrack/internal/platform/timefmt"
	"tasktrack/internal/ui/components"
	"tasktrack/internal/ui/theme"
	selectionview "tasktrack/internal/ui/views/selection"
	summaryview "tasktrack/internal/ui/views/summary"
)

// RefreshInterval matches the CLI ticker's redraw cadence.
const RefreshInterval = 500 * time.Millisecond

// ─── ports ───────────────────────────────────────────────────────────────────

type trackerPort interface {
	Initialize(ctx context.Context) (trackerdto.StateOutput, error)
	AddProject(ctx context.Context, name string, runtime, boxes int) (trackerdto.AddProjectOutput, error)
	AddTask(ctx context.Context, name string) (trackerdto.AddTaskOutput, error)
	Start(ctx context.Context, project, task string) (trackerdto.StartOutput, error)
	Stop(ctx context.Context) (trackerdto.StopOutput, error)
	Export(ctx context.Context, path string) (trackerdto.ExportOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabTimer tabID = iota
	tabSummary
	tabCount
)

var tabLabels = [tabCount]string{"Timer", "Summary"}

// ─── async messages ───────────────────────────────────────────────────────────

// AutoStoppedMsg is sent from outside the program after the idle monitor
// stopped the timer.
type AutoStoppedMsg struct {
	Trigger string
	Err     error
}

type stateLoadedMsg struct {
	state trackerdto.StateOutput
	err   error
}

type startedMsg struct {
	out trackerdto.StartOutput
	err error
}

type stoppedMsg struct {
	out trackerdto.StopOutput
	err error
}

type projectAddedMsg struct {
	out trackerdto.AddProjectOutput
	err error
}

type taskAddedMsg struct {
	out trackerdto.AddTaskOutput
	err error
}

type exportedMsg struct {
	out trackerdto.ExportOutput
	err error
}

type tickMsg struct {
	id int
	at time.Time
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Focus   key.Binding
	Start   key.Binding
	Stop    key.Binding
	Export  key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Focus:   key.NewBinding(key.WithKeys("left", "right", "h", "l"), key.WithHelp("←/→", "projects/tasks")),
		Start:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start")),
		Stop:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop")),
		Export:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export csv")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Start, k.Stop, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Focus},
		{k.Start, k.Stop, k.Export},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns the running-timer readout, tab
// routing, the help overlay and the command palette. Every mutation goes
// through the tracker port.
type Model struct {
	tracker trackerPort

	selection selectionview.Model
	summary   summaryview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette

	active  trackerdto.ActiveTimerOutput
	running bool
	elapsed string
	tickID  int
	status  string
	width   int
	height  int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(tracker trackerPort) Model {
	return Model{
		tracker:   tracker,
		selection: selectionview.New(),
		summary:   summaryview.New(),
		activeTab: tabTimer,
		keys:      defaultKeys(),
		help:      help.New(),
		palette:   components.NewPalette(),
		elapsed:   timefmt.Clock(0),
		status:    "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return m.loadStateCmd()
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Timer and tracker results must land even while the palette is open.
	switch msg := msg.(type) {
	case tickMsg:
		if !m.running || msg.id != m.tickID {
			return m, nil
		}
		m.elapsed = timefmt.Clock(msg.at.Sub(m.active.StartedAt))
		return m, tickCmd(m.tickID)
	case AutoStoppedMsg:
		if msg.Err != nil {
			m.status = "auto-stop failed: " + msg.Err.Error()
			return m, nil
		}
		if m.running {
			m.status = "auto-stopped (" + msg.Trigger + ")"
		}
		return m, m.loadStateCmd()
	case stateLoadedMsg:
		return m.applyState(msg)
	}

	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case startedMsg:
		if msg.err != nil {
			m.status = errorStatus("start", msg.err)
			return m, nil
		}
		m.status = "started " + msg.out.Active.Project + " / " + msg.out.Active.Task
		if prev := msg.out.Previous; prev != nil {
			m.status += fmt.Sprintf(" (logged %s on %s)", timefmt.Clock(prev.Duration), prev.Project)
		}
		return m, m.loadStateCmd()

	case stoppedMsg:
		if msg.err != nil {
			m.status = errorStatus("stop", msg.err)
			return m, nil
		}
		if !msg.out.Stopped {
			m.status = "no timer running"
			return m, nil
		}
		m.status = fmt.Sprintf("stopped, logged %s", timefmt.Clock(msg.out.Session.Duration))
		return m, m.loadStateCmd()

	case projectAddedMsg:
		if msg.err != nil {
			m.status = errorStatus("add project", msg.err)
			return m, nil
		}
		if msg.out.Added {
			m.status = "project added: " + msg.out.Name
		} else {
			m.status = "project updated: " + msg.out.Name
		}
		return m, m.loadStateCmd()

	case taskAddedMsg:
		if msg.err != nil {
			m.status = errorStatus("add task", msg.err)
			return m, nil
		}
		if msg.out.Added {
			m.status = "task added: " + msg.out.Name
		}
		return m, m.loadStateCmd()

	case exportedMsg:
		if msg.err != nil {
			m.status = errorStatus("export", msg.err)
		} else {
			m.status = fmt.Sprintf("exported %d sessions to %s", msg.out.Rows, msg.out.Path)
		}
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to the list filter so typing is not swallowed by bindings.
		if m.activeTab == tabTimer && m.selection.Filtering() {
			break
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case msg.String() == "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil
		case key.Matches(msg, m.keys.Palette):
			return m, m.palette.Open()
		case key.Matches(msg, m.keys.Start):
			return m, m.startCmd(m.selection.SelectedProject(), m.selection.SelectedTask())
		case key.Matches(msg, m.keys.Stop):
			return m, m.stopCmd()
		case key.Matches(msg, m.keys.Export):
			return m, m.exportCmd("")
		case m.activeTab == tabTimer && key.Matches(msg, m.keys.Focus):
			m.selection.ToggleFocus()
			return m, nil
		}
	}

	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabTimer:
		m.selection, tabCmd = m.selection.Update(msg)
	case tabSummary:
		m.summary, tabCmd = m.summary.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

func (m Model) applyState(msg stateLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.status = errorStatus("load", msg.err)
		return m, nil
	}
	state := msg.state
	cmds := []tea.Cmd{
		m.selection.SetProjects(state.Projects),
		m.selection.SetTasks(state.Tasks),
	}
	m.summary.SetSummary(state.Summary)

	wasRunning := m.running
	m.running = state.Running
	m.active = state.Active
	if state.Running {
		m.selection.Select(state.Active.Project, state.Active.Task)
		m.elapsed = timefmt.Clock(state.Elapsed)
		if !wasRunning {
			m.tickID++
			cmds = append(cmds, tickCmd(m.tickID))
		}
	} else {
		m.elapsed = timefmt.Clock(0)
	}
	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	readout := m.renderReadout()
	statusBar := m.renderStatusBar()

	contentH := m.height - lipgloss.Height(tabBar) - lipgloss.Height(readout) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.activeTab == tabSummary:
		content = m.summary.View()
	default:
		content = m.selection.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, readout, content, statusBar)
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "tasktrack  " + strings.Join(parts, sep)
	return theme.Bar.Width(m.width).Render(bar)
}

func (m Model) renderReadout() string {
	clock := theme.Clock.Render(m.elapsed)
	label := theme.Muted.Render("stopped")
	if m.running {
		clock = theme.ClockRunning.Render(m.elapsed)
		label = theme.Title.Render(m.active.Project) + theme.Muted.Render(" / ") + m.active.Task
	}
	return lipgloss.NewStyle().Width(m.width).Padding(1, 2).Render(clock + "  " + label)
}

func (m Model) renderStatusBar() string {
	left := m.status
	if strings.HasPrefix(left, alertPrefix) {
		left = theme.Alert.Render(left)
	}
	if m.running {
		left = theme.Hot.Render("● "+m.active.Project) + "  " + left
	}
	right := theme.Muted.Render("?:help  s:start  x:stop  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return theme.Bar.Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	switch parts[0] {
	case "project:add":
		if len(parts) < 2 {
			m.status = "usage: project:add <name> [-- runtime [boxes]]"
			return m, nil
		}
		name, runtime, boxes, err := parseProjectArgs(strings.TrimPrefix(strings.TrimSpace(input), parts[0]))
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		return m, m.addProjectCmd(name, runtime, boxes)

	case "task:add":
		name := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))
		return m, m.addTaskCmd(name)

	case "start":
		return m, m.startCmd(m.selection.SelectedProject(), m.selection.SelectedTask())

	case "stop":
		return m, m.stopCmd()

	case "export":
		path := ""
		if len(parts) >= 2 {
			path = parts[1]
		}
		return m, m.exportCmd(path)

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// parseProjectArgs reads "<name> [-- runtime [boxes]]" from the raw text after
// the command. Only words after a standalone "--" are meta, so names keep
// their digits and inner spacing.
func parseProjectArgs(raw string) (string, int, int, error) {
	name, meta := raw, ""
	if i := strings.LastIndex(raw, " --"); i >= 0 && (i+3 == len(raw) || raw[i+3] == ' ') {
		name, meta = raw[:i], raw[i+3:]
	}
	fields := strings.Fields(meta)
	if len(fields) > 2 {
		return "", 0, 0, errors.New("usage: project:add <name> [-- runtime [boxes]]")
	}
	var nums [2]int
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return "", 0, 0, fmt.Errorf("invalid number %q", f)
		}
		nums[i] = n
	}
	if nums[0] < 0 || nums[1] < 0 {
		return "", 0, 0, errors.New("runtime and boxes must not be negative")
	}
	return strings.TrimSpace(name), nums[0], nums[1], nil
}

const alertPrefix = "! "

// errorStatus renders validation errors as an alert and anything else as a
// failed operation.
func errorStatus(op string, err error) string {
	if apperrors.IsValidation(err) {
		return alertPrefix + err.Error()
	}
	return op + " failed: " + err.Error()
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) propagateSize() {
	used := 1 + 3 + 1
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - used}
	m.selection, _ = m.selection.Update(sz)
	m.summary, _ = m.summary.Update(sz)
}

// ─── async commands ───────────────────────────────────────────────────────────

func tickCmd(id int) tea.Cmd {
	return tea.Tick(RefreshInterval, func(t time.Time) tea.Msg { return tickMsg{id: id, at: t} })
}

func (m Model) loadStateCmd() tea.Cmd {
	return func() tea.Msg {
		state, err := m.tracker.Initialize(context.Background())
		return stateLoadedMsg{state: state, err: err}
	}
}

func (m Model) startCmd(project, task string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.tracker.Start(context.Background(), project, task)
		return startedMsg{out: out, err: err}
	}
}

func (m Model) stopCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.tracker.Stop(context.Background())
		return stoppedMsg{out: out, err: err}
	}
}

func (m Model) addProjectCmd(name string, runtime, boxes int) tea.Cmd {
	return func() tea.Msg {
		out, err := m.tracker.AddProject(context.Background(), name, runtime, boxes)
		return projectAddedMsg{out: out, err: err}
	}
}

func (m Model) addTaskCmd(name string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.tracker.AddTask(context.Background(), name)
		return taskAddedMsg{out: out, err: err}
	}
}

func (m Model) exportCmd(path string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.tracker.Export(context.Background(), path)
		return exportedMsg{out: out, err: err}
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
