package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func names(cmds []Command) []string {
	out := make([]string, len(cmds))
	for i, c := range cmds {
		out[i] = c.Name
	}
	return out
}

func TestMatches(t *testing.T) {
	t.Parallel()

	cases := map[string][]string{
		"":              {"project:add", "task:add", "start", "stop", "export"},
		"st":            {"start", "stop"},
		"st ":           nil,
		"stop":          {"stop"},
		"project:add X": {"project:add"},
		"nope":          nil,
	}
	for input, want := range cases {
		got := names(Matches(input))
		if len(got) != len(want) {
			t.Fatalf("Matches(%q) = %v, want %v", input, got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("Matches(%q) = %v, want %v", input, got, want)
			}
		}
	}
}

func TestTabCompletesCommandName(t *testing.T) {
	t.Parallel()

	p := NewPalette()
	p.Open()
	p.input.SetValue("pro")
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyTab})
	if got := p.input.Value(); got != "project:add " {
		t.Fatalf("unexpected completion %q", got)
	}
}

func TestEnterSubmitsTrimmedInput(t *testing.T) {
	t.Parallel()

	p := NewPalette()
	p.Open()
	p.input.SetValue("  export out.csv ")
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if p.Visible() {
		t.Fatalf("palette should close on enter")
	}
	msg, ok := cmd().(PaletteSubmitMsg)
	if !ok || msg.Input != "export out.csv" {
		t.Fatalf("unexpected submit %#v", cmd())
	}
}
