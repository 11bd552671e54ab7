package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"tasktrack/internal/modules/tracker/domain"
)

func TestLedgerKeepsInsertionOrderThroughJSON(t *testing.T) {
	t.Parallel()
	ledger := domain.NewLedger()
	ledger.Append("zeta", "write", domain.Session{Start: 0, End: 10})
	ledger.Append("alpha", "read", domain.Session{Start: 10, End: 20})
	ledger.Append("zeta", "review", domain.Session{Start: 20, End: 30})
	ledger.Append("zeta", "write", domain.Session{Start: 30, End: 40})

	raw, err := json.Marshal(ledger)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"zeta":{"write":[{"start":0,"end":10},{"start":30,"end":40}],"review":[{"start":20,"end":30}]},"alpha":{"read":[{"start":10,"end":20}]}}`
	if string(raw) != want {
		t.Fatalf("unexpected json:\n got %s\nwant %s", raw, want)
	}

	decoded := domain.NewLedger()
	if err := json.Unmarshal(raw, decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	var visited []string
	decoded.Each(func(project, task string, s domain.Session) {
		visited = append(visited, project+"/"+task)
	})
	expected := []string{"zeta/write", "zeta/write", "zeta/review", "alpha/read"}
	if len(visited) != len(expected) {
		t.Fatalf("unexpected visit order %v", visited)
	}
	for i := range expected {
		if visited[i] != expected[i] {
			t.Fatalf("unexpected visit order %v", visited)
		}
	}
}

func TestLedgerDecodesNull(t *testing.T) {
	t.Parallel()
	ledger := domain.NewLedger()
	if err := json.Unmarshal([]byte("null"), ledger); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if ledger.Len() != 0 || len(ledger.Projects()) != 0 {
		t.Fatalf("expected empty ledger")
	}
}

func TestLastEndIsZeroWithoutSessions(t *testing.T) {
	t.Parallel()
	ledger := domain.NewLedger()
	if got := ledger.LastEnd("missing"); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	ledger.Append("p", "t", domain.Session{Start: 5, End: 90})
	ledger.Append("p", "u", domain.Session{Start: 1, End: 40})
	if got := ledger.LastEnd("p"); got != 90 {
		t.Fatalf("expected 90, got %d", got)
	}
}

func TestActiveTimerCloseClampsBackwardClock(t *testing.T) {
	t.Parallel()
	timer := domain.ActiveTimer{Project: "p", Task: "t", StartTime: 1000}
	if s := timer.Close(400); s.End != 1000 || s.Validate() != nil {
		t.Fatalf("expected zero-length session, got %+v", s)
	}
	if s := timer.Close(4600); s.Duration() != 3600*time.Millisecond {
		t.Fatalf("unexpected duration %v", s.Duration())
	}
}

func TestTimerSessionElapsedHasNoUpperBound(t *testing.T) {
	t.Parallel()
	handle := domain.ActiveTimer{StartTime: 0}.Handle()
	now := time.UnixMilli(0).Add(50 * time.Hour)
	if got := domain.FormatElapsed(handle.Elapsed(now)); got != "50:00:00" {
		t.Fatalf("unexpected elapsed %s", got)
	}
	if got := handle.Elapsed(time.UnixMilli(-5000)); got != 0 {
		t.Fatalf("expected clamp at zero, got %v", got)
	}
}
