package out

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	trackerout "tasktrack/internal/modules/tracker/port/out"
	"tasktrack/internal/platform/timefmt"
)

// StdoutPath makes the export go to the writer's stdout instead of a file.
const StdoutPath = "-"

var exportHeader = []string{"Project", "Runtime(min)", "Boxes", "Task", "Start", "End", "Duration(h)"}

type CSVExportWriter struct {
	defaultPath string
	stdout      io.Writer
}

func NewCSVExportWriter(defaultPath string, stdout io.Writer) trackerout.ExportWriter {
	if stdout == nil {
		stdout = os.Stdout
	}
	return &CSVExportWriter{defaultPath: defaultPath, stdout: stdout}
}

func (w *CSVExportWriter) WriteExport(_ context.Context, path string, rows []trackerout.ExportRow) (string, error) {
	if path == "" {
		path = w.defaultPath
	}
	if path == StdoutPath {
		return StdoutPath, writeCSV(w.stdout, rows)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	if err := writeCSV(file, rows); err != nil {
		_ = file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close export file: %w", err)
	}
	return path, nil
}

func writeCSV(dst io.Writer, rows []trackerout.ExportRow) error {
	writer := csv.NewWriter(dst)
	if err := writer.Write(exportHeader); err != nil {
		return fmt.Errorf("write export header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.Project,
			strconv.Itoa(row.Meta.Runtime),
			strconv.Itoa(row.Meta.Boxes),
			row.Task,
			timefmt.ISO(row.Session.Start),
			timefmt.ISO(row.Session.End),
			timefmt.Hours(row.Session.Duration()),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write export row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush export: %w", err)
	}
	return nil
}
