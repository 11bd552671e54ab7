package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tasktrack/internal/modules/tracker/domain"
	trackerout "tasktrack/internal/modules/tracker/port/out"
	"tasktrack/internal/platform/clock"
	"tasktrack/internal/platform/markdown"
	"tasktrack/internal/platform/timefmt"
)

const summaryBlock = "summary"

// MarkdownSummaryNote keeps the recent-projects summary inside a managed
// block of a markdown note so hand-written text around it survives rewrites.
type MarkdownSummaryNote struct {
	clock clock.Clock
}

func NewMarkdownSummaryNote(clock clock.Clock) trackerout.SummaryNoteWriter {
	return &MarkdownSummaryNote{clock: clock}
}

func (w *MarkdownSummaryNote) WriteSummaryNote(_ context.Context, path string, summaries []domain.ProjectSummary) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("summary note path is required")
	}
	note := markdown.Note{Meta: map[string]any{}, Body: "# Recent projects\n"}
	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		note, err = markdown.Parse(string(existing))
		if err != nil {
			return "", fmt.Errorf("parse summary note: %w", err)
		}
	case !os.IsNotExist(err):
		return "", fmt.Errorf("read summary note: %w", err)
	}
	note.Meta["generated_at"] = timefmt.ISO(w.clock.Now().UnixMilli())
	note.Meta["projects"] = len(summaries)
	note.ReplaceBlock(summaryBlock, RenderSummaryMarkdown(summaries))

	content, err := note.Render()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create summary note dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write summary note: %w", err)
	}
	return path, nil
}

// RenderSummaryMarkdown renders one section per project with a task table.
func RenderSummaryMarkdown(summaries []domain.ProjectSummary) string {
	if len(summaries) == 0 {
		return "_No sessions recorded yet._"
	}
	var b strings.Builder
	for i, s := range summaries {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "## %s\n\nRuntime: %dm, Boxes: %d\n\n", s.Project, s.Meta.Runtime, s.Meta.Boxes)
		rows := make([][]string, 0, len(s.Tasks)+1)
		for _, task := range s.Tasks {
			rows = append(rows, []string{task.Task, timefmt.Hours(task.Duration)})
		}
		rows = append(rows, []string{"**Total**", timefmt.Hours(s.Total)})
		b.WriteString(markdown.Table([]string{"Task", "Hours"}, rows))
		if s.Last > 0 {
			b.WriteString("\nLast session ended " + timefmt.ISO(s.Last) + "\n")
		}
	}
	return b.String()
}
