package out_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	trackerout "tasktrack/internal/modules/tracker/adapter/out"
	"tasktrack/internal/modules/tracker/domain"
	"tasktrack/internal/platform/clock"
)

func TestSummaryNotePreservesHandWrittenText(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "summary.md")
	initial := "---\nowner: me\n---\n# Weekly\n\nnotes stay here\n"
	if err := os.WriteFile(path, []byte(initial), 0o644); err != nil {
		t.Fatalf("seed note: %v", err)
	}
	clk := clock.Func(func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) })
	writer := trackerout.NewMarkdownSummaryNote(clk)
	summaries := []domain.ProjectSummary{{
		Project: "A",
		Meta:    domain.ProjectMeta{Runtime: 10, Boxes: 2},
		Last:    3_600_000,
		Tasks:   []domain.TaskTotal{{Task: "t1", Duration: time.Hour}},
		Total:   time.Hour,
	}}

	for range 2 {
		if _, err := writer.WriteSummaryNote(context.Background(), path, summaries); err != nil {
			t.Fatalf("write note: %v", err)
		}
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read note: %v", err)
	}
	note := string(raw)
	for _, want := range []string{"owner: me", "notes stay here", "## A", "Runtime: 10m, Boxes: 2", "| t1 | 1.00 |", "| **Total** | 1.00 |", "generated_at:", "2026-03-01T09:00:00.000Z"} {
		if !strings.Contains(note, want) {
			t.Fatalf("note missing %q:\n%s", want, note)
		}
	}
	if strings.Count(note, "## A") != 1 {
		t.Fatalf("expected managed block to be replaced, got:\n%s", note)
	}
}

func TestRenderSummaryMarkdownEmpty(t *testing.T) {
	t.Parallel()
	if got := trackerout.RenderSummaryMarkdown(nil); !strings.Contains(got, "No sessions") {
		t.Fatalf("unexpected empty rendering %q", got)
	}
}
