package log

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tidwall/gjson"

	"github.com/MattiaPT/displayer/pkg/types"
)

func TestLogger_WritesTextEntriesToFile(t *testing.T) {
	// Console mode writes readable lines for Info, Error and Skip.
	var console bytes.Buffer
	logPath := filepath.Join(t.TempDir(), "logs", "app.log")
	logger, err := newLogger(&console, logPath, false)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	logger.Info("hello")
	logger.Error("failed op", errors.New("boom"))
	logger.Skip(types.SkipRecord{Path: "/photos/a.jpg", Kind: types.FailureMissingGeoTag, Reason: "GPSLatitude absent"})

	if err := logger.Close(); err != nil {
		t.Fatalf("failed to close logger: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	text := string(data)

	for _, want := range []string{"INFO\thello", "ERROR\tfailed op", "boom", "WARN\tskipped", "/photos/a.jpg", "missing_geo_tag"} {
		if !strings.Contains(text, want) {
			t.Fatalf("missing %q in log file: %s", want, text)
		}
	}

	// The console sink receives the same records.
	if !strings.Contains(console.String(), "hello") {
		t.Fatalf("missing console output: %s", console.String())
	}
}

func TestLogger_JSONModeWritesJSONLine(t *testing.T) {
	// JSON mode writes one JSON object per line to the file sink.
	logPath := filepath.Join(t.TempDir(), "logs", "app.jsonl")
	logger, err := newLogger(&bytes.Buffer{}, logPath, true)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	logger.Skip(types.SkipRecord{Path: "/photos/b.png", Kind: types.FailureTimestampFormat, Reason: "bad layout"})
	if err := logger.Close(); err != nil {
		t.Fatalf("failed to close logger: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read json log file: %v", err)
	}

	line := strings.TrimSpace(string(data))
	if !gjson.Valid(line) {
		t.Fatalf("expected a single json line, got %s", line)
	}
	rec := gjson.Parse(line)
	if rec.Get("message").String() != "skipped" {
		t.Fatalf("unexpected message: %s", line)
	}
	if rec.Get("level").String() != "warn" {
		t.Fatalf("unexpected level: %s", line)
	}
	if rec.Get("kind").String() != "timestamp_format_error" || rec.Get("path").String() != "/photos/b.png" {
		t.Fatalf("unexpected fields: %s", line)
	}
}

func TestLogger_WithoutFileSink(t *testing.T) {
	// An empty log path logs to the console only.
	var console bytes.Buffer
	logger, err := newLogger(&console, "", false)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Close()

	logger.Warn("console only")
	if !strings.Contains(console.String(), "console only") {
		t.Fatalf("missing console output: %s", console.String())
	}
}

func TestLogger_SummaryAndProgress_WriteToConsole(t *testing.T) {
	// Summary and Progress output goes to the console writer.
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "", false)
	if err != nil {
		t.Fatal(err)
	}

	logger.Summary(types.ScanSummary{
		Root:       "/photos",
		Candidates: 3,
		Assets:     2,
		Skipped:    1,
		SkippedByKind: map[types.FailureKind]int{
			types.FailureMissingGeoTag: 1,
		},
		FirstCaptureTime: time.Date(2023, 2, 5, 14, 30, 0, 0, time.UTC),
		LastCaptureTime:  time.Date(2023, 2, 6, 8, 0, 0, 0, time.UTC),
		Duration:         2 * time.Second,
	})
	logger.Progress(1, 2, "a.jpg")

	out := buf.String()
	for _, want := range []string{"displayer summary", "Assets:         2", "missing_geo_tag:", "2023-02-05T14:30:00", "[1/2] a.jpg"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in console output: %s", want, out)
		}
	}
}

func TestLogger_CloseWithNilFile(t *testing.T) {
	// A logger without file handle closes cleanly.
	logger := &Logger{}
	if err := logger.Close(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := Nop().Close(); err != nil {
		t.Fatalf("expected nil error from nop logger, got %v", err)
	}
}
