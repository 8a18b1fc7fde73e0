package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/MattiaPT/displayer/pkg/types"
)

// Logger writes structured records to stderr and, optionally, to a log
// file. The human-readable run summary and the progress line go to the
// console writer only.
type Logger struct {
	mu      sync.Mutex
	zl      *zap.Logger
	console io.Writer
	file    *os.File
}

// New builds a logger. An empty logFilePath disables the file sink; logJSON
// selects the JSON encoder for the file sink.
func New(logFilePath string, logJSON bool) (*Logger, error) {
	return newLogger(os.Stderr, logFilePath, logJSON)
}

// NewConsole builds a logger that writes only to w.
func NewConsole(w io.Writer) *Logger {
	l, _ := newLogger(w, "", false)
	return l
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zl: zap.NewNop(), console: io.Discard}
}

func newLogger(console io.Writer, logFilePath string, logJSON bool) (*Logger, error) {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.MessageKey = "message"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	consoleCfg := encCfg
	consoleCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.AddSync(console), zapcore.InfoLevel),
	}

	l := &Logger{console: console}

	if logFilePath != "" {
		if err := os.MkdirAll(filepath.Dir(logFilePath), 0755); err != nil {
			return nil, err
		}

		file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
		l.file = file

		var enc zapcore.Encoder
		if logJSON {
			enc = zapcore.NewJSONEncoder(encCfg)
		} else {
			enc = zapcore.NewConsoleEncoder(consoleCfg)
		}
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(file), zapcore.InfoLevel))
	}

	l.zl = zap.New(zapcore.NewTee(cores...))
	return l, nil
}

// Zap exposes the underlying structured logger.
func (l *Logger) Zap() *zap.Logger {
	return l.zl
}

func (l *Logger) Close() error {
	if l.zl != nil {
		_ = l.zl.Sync()
	}
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

func (l *Logger) Info(msg string, fields ...zap.Field) {
	l.zl.Info(msg, fields...)
}

func (l *Logger) Warn(msg string, fields ...zap.Field) {
	l.zl.Warn(msg, fields...)
}

func (l *Logger) Error(msg string, err error) {
	l.zl.Error(msg, zap.Error(err))
}

// Skip records a file or directory that was left out of the dataset.
func (l *Logger) Skip(rec types.SkipRecord) {
	l.zl.Warn("skipped",
		zap.String("path", rec.Path),
		zap.String("kind", string(rec.Kind)),
		zap.String("reason", rec.Reason),
	)
}

// Summary logs the run statistics and prints a readable block to the
// console.
func (l *Logger) Summary(summary types.ScanSummary) {
	kinds := make([]string, 0, len(summary.SkippedByKind))
	for k := range summary.SkippedByKind {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)

	l.zl.Info("scan complete",
		zap.String("root", summary.Root),
		zap.Int("candidates", summary.Candidates),
		zap.Int("assets", summary.Assets),
		zap.Int("skipped", summary.Skipped),
		zap.Int("directory_warnings", summary.DirectoryWarnings),
		zap.Duration("duration", summary.Duration),
	)

	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, "\n=== displayer summary ===")
	fmt.Fprintf(l.console, "Root:           %s\n", summary.Root)
	fmt.Fprintf(l.console, "Candidates:     %d\n", summary.Candidates)
	fmt.Fprintf(l.console, "Assets:         %d\n", summary.Assets)
	fmt.Fprintf(l.console, "Skipped:        %d\n", summary.Skipped)
	for _, k := range kinds {
		fmt.Fprintf(l.console, "  %-24s%d\n", k+":", summary.SkippedByKind[types.FailureKind(k)])
	}
	if summary.DirectoryWarnings > 0 {
		fmt.Fprintf(l.console, "Dir warnings:   %d\n", summary.DirectoryWarnings)
	}
	if summary.Assets > 0 {
		fmt.Fprintf(l.console, "First capture:  %s\n", summary.FirstCaptureTime.Format(types.CaptureTimeLayout))
		fmt.Fprintf(l.console, "Last capture:   %s\n", summary.LastCaptureTime.Format(types.CaptureTimeLayout))
	}
	fmt.Fprintf(l.console, "Duration:       %s\n", summary.Duration.Round(time.Millisecond))
	fmt.Fprintln(l.console, "=========================")
}

func (l *Logger) Progress(current, total int, filename string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.console, "\r[%d/%d] %s", current, total, filename)
}
