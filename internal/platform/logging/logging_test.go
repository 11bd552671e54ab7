package logging_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"tasktrack/internal/platform/logging"
)

func TestNewJSONFormatterTagsComponent(t *testing.T) {
	t.Parallel()
	buf := &bytes.Buffer{}
	logger, err := logging.New("debug", "json", buf)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logging.Component(logger, "tracker").WithField("project", "A").Debug("session committed")

	payload := map[string]any{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &payload); err != nil {
		t.Fatalf("decode log line: %v (%s)", err, buf.String())
	}
	if payload["component"] != "tracker" || payload["project"] != "A" {
		t.Fatalf("missing fields in log line: %v", payload)
	}
}

func TestNewRejectsUnknownLevelAndFormat(t *testing.T) {
	t.Parallel()
	if _, err := logging.New("chatty", "text", &bytes.Buffer{}); err == nil {
		t.Fatalf("expected level error")
	}
	if _, err := logging.New("info", "xml", &bytes.Buffer{}); err == nil || !strings.Contains(err.Error(), "xml") {
		t.Fatalf("expected format error, got %v", err)
	}
}

func TestLevelFiltersDebug(t *testing.T) {
	t.Parallel()
	buf := &bytes.Buffer{}
	logger, err := logging.New("info", "text", buf)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logging.Component(logger, "idle").Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug line should be filtered at info level: %s", buf.String())
	}
}
