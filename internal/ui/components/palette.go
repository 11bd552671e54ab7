package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tasktrack/internal/ui/theme"
)

// PaletteSubmitMsg is emitted when the user confirms a command.
type PaletteSubmitMsg struct{ Input string }

// PaletteCancelMsg is emitted when the user presses esc.
type PaletteCancelMsg struct{}

var (
	paletteStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Peach).
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(0, 1)

	hintStyle = lipgloss.NewStyle().Foreground(theme.Subtext0)
)

// Command describes one palette entry; Usage is shown after the name.
type Command struct {
	Name  string
	Usage string
}

func (c Command) String() string {
	if c.Usage == "" {
		return c.Name
	}
	return c.Name + " " + c.Usage
}

// Commands must stay in sync with the switch in app/model.go executePalette.
var Commands = []Command{
	{Name: "project:add", Usage: "<name> [-- runtime [boxes]]"},
	{Name: "task:add", Usage: "<name>"},
	{Name: "start"},
	{Name: "stop"},
	{Name: "export", Usage: "[path]"},
}

// Palette is a command-palette overlay backed by bubbles/textinput. Tab
// completes the command name of the first match.
type Palette struct {
	input   textinput.Model
	visible bool
	width   int
}

func NewPalette() Palette {
	ti := textinput.New()
	ti.Placeholder = "type a command…"
	ti.CharLimit = 256
	return Palette{input: ti}
}

func (p Palette) Visible() bool { return p.visible }

// Open shows the palette, clears the input, and returns the focus command.
func (p *Palette) Open() tea.Cmd {
	p.visible = true
	p.input.SetValue("")
	return p.input.Focus()
}

func (p *Palette) SetWidth(w int) { p.width = w }

// Matches returns the commands whose name starts with the first word of
// input, or every command when input is blank.
func Matches(input string) []Command {
	fields := strings.Fields(strings.ToLower(input))
	if len(fields) == 0 {
		return Commands
	}
	word := fields[0]
	exact := len(fields) > 1 || strings.HasSuffix(input, " ")
	var out []Command
	for _, c := range Commands {
		if c.Name == word || (!exact && strings.HasPrefix(c.Name, word)) {
			out = append(out, c)
		}
	}
	return out
}

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			p.visible = false
			p.input.Blur()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "enter":
			val := strings.TrimSpace(p.input.Value())
			p.visible = false
			p.input.Blur()
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: val} }
		case "tab":
			if matches := Matches(p.input.Value()); len(matches) > 0 && !strings.Contains(strings.TrimSpace(p.input.Value()), " ") {
				p.input.SetValue(matches[0].Name + " ")
				p.input.CursorEnd()
			}
			return p, nil
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Command Palette") + "\n")
	sb.WriteString(": " + p.input.View() + "\n")
	if matches := Matches(p.input.Value()); len(matches) > 0 {
		sb.WriteString("\n")
		for _, c := range matches {
			sb.WriteString(hintStyle.Render("  "+c.String()) + "\n")
		}
	}

	w := p.width
	if w < 20 {
		w = 64
	}
	return paletteStyle.Width(w - 2).Render(sb.String())
}
