// Package logging provides file-based logging for ramifi.
// Entries go to a global log file (<dataDir>/logs/ramifi.log) and, when they
// concern one issue, to that issue's log file (<dataDir>/logs/issue-N.log).
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/coyuki/ramifi/internal/domain"
)

// Ensure Logger implements domain.Logger interface.
var _ domain.Logger = (*Logger)(nil)

// Logger writes formatted entries to the data directory's log files.
// Fields are ordered to minimize memory padding.
type Logger struct {
	clock      domain.Clock
	mirror     io.Writer // optional copy of every entry (e.g. stderr with --verbose)
	globalFile *os.File
	issueFiles map[int]*os.File
	dataDir    string
	mu         sync.Mutex
	level      slog.Level
}

// Option configures a Logger.
type Option func(*Logger)

// WithClock sets the clock used for timestamps.
func WithClock(clock domain.Clock) Option {
	return func(l *Logger) { l.clock = clock }
}

// WithMirror copies every written entry to w.
func WithMirror(w io.Writer) Option {
	return func(l *Logger) { l.mirror = w }
}

// New creates a Logger writing under dataDir.
// If dataDir is empty, file output is disabled; a mirror still receives entries.
func New(dataDir string, level slog.Level, opts ...Option) *Logger {
	l := &Logger{
		clock:      domain.RealClock{},
		dataDir:    dataDir,
		level:      level,
		issueFiles: make(map[int]*os.File),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ParseLevel parses a log level name. Unknown names yield info and false.
func ParseLevel(levelStr string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// Close closes all open log files.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var lastErr error
	if l.globalFile != nil {
		if err := l.globalFile.Close(); err != nil {
			lastErr = err
		}
		l.globalFile = nil
	}
	for id, f := range l.issueFiles {
		if err := f.Close(); err != nil {
			lastErr = err
		}
		delete(l.issueFiles, id)
	}
	return lastErr
}

// Info logs an info message.
func (l *Logger) Info(issueID int, category, msg string) {
	l.log(slog.LevelInfo, issueID, category, msg)
}

// Debug logs a debug message.
func (l *Logger) Debug(issueID int, category, msg string) {
	l.log(slog.LevelDebug, issueID, category, msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(issueID int, category, msg string) {
	l.log(slog.LevelWarn, issueID, category, msg)
}

// Error logs an error message.
func (l *Logger) Error(issueID int, category, msg string) {
	l.log(slog.LevelError, issueID, category, msg)
}

// log writes one entry to the global log and, for issueID > 0, to the issue log.
func (l *Logger) log(level slog.Level, issueID int, category, msg string) {
	if level < l.level {
		return
	}
	entry := formatLog(l.clock.Now(), level, issueID, category, msg)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.mirror != nil {
		_, _ = io.WriteString(l.mirror, entry)
	}
	if l.dataDir == "" {
		return
	}
	if gf, err := l.globalFileLocked(); err == nil {
		_, _ = io.WriteString(gf, entry)
	}
	if issueID > 0 {
		if f, err := l.issueFileLocked(issueID); err == nil {
			_, _ = io.WriteString(f, entry)
		}
	}
}

func (l *Logger) globalFileLocked() (*os.File, error) {
	if l.globalFile != nil {
		return l.globalFile, nil
	}
	f, err := openLogFile(domain.GlobalLogPath(l.dataDir))
	if err != nil {
		return nil, fmt.Errorf("open global log file: %w", err)
	}
	l.globalFile = f
	return f, nil
}

func (l *Logger) issueFileLocked(issueID int) (*os.File, error) {
	if f, ok := l.issueFiles[issueID]; ok {
		return f, nil
	}
	f, err := openLogFile(domain.IssueLogPath(l.dataDir, issueID))
	if err != nil {
		return nil, fmt.Errorf("open issue log file: %w", err)
	}
	l.issueFiles[issueID] = f
	return f, nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640) //nolint:gosec // Log file readable by owner and group
}

// formatLog formats one entry.
// Format: [2025-12-30 09:32:51] [INFO] [issue-1] [category] message
func formatLog(t time.Time, level slog.Level, issueID int, category, msg string) string {
	scope := "global"
	if issueID > 0 {
		scope = fmt.Sprintf("issue-%d", issueID)
	}
	return fmt.Sprintf("[%s] [%s] [%s] [%s] %s\n",
		t.Format("2006-01-02 15:04:05"),
		levelToString(level),
		scope,
		category,
		msg,
	)
}

func levelToString(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return "DEBUG"
	case slog.LevelWarn:
		return "WARN"
	case slog.LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}
