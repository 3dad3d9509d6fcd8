// Package log provides structured file logging for thinker.
// The terminal belongs to the TUI, so entries go to a file opened through
// tea.LogToFile and only when --debug or THINKER_DEBUG is set.
package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Category groups related log messages.
type Category string

const (
	CatClock   Category = "clock"   // Playback and elapsed clock transitions
	CatPause   Category = "pause"   // Pause injector triggers and expiries
	CatView    Category = "view"    // Hover, expand, resize
	CatEngine  Category = "engine"  // Driver and headless runs
	CatUpdate  Category = "update"  // Self-update checks
	CatStartup Category = "startup" // CLI wiring
)

// EnvDebug enables logging when set to a non-empty value.
const EnvDebug = "THINKER_DEBUG"

// DefaultPath is used when logging is enabled without an explicit path.
const DefaultPath = "thinker-debug.log"

// Logger writes leveled, categorized entries to a writer.
type Logger struct {
	mu       sync.Mutex
	writer   io.Writer
	enabled  bool
	minLevel Level
	now      func() time.Time
}

var (
	defaultMu     sync.RWMutex
	defaultLogger *Logger
)

// Enabled reports whether debug logging was requested by flag or env.
func Enabled(flag bool) bool {
	return flag || os.Getenv(EnvDebug) != ""
}

// Init opens path with tea.LogToFile and installs it as the global logger.
// Returns a cleanup function that closes the file.
func Init(path string) (func(), error) {
	if path == "" {
		path = DefaultPath
	}
	f, err := tea.LogToFile(path, "thinker")
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}

	SetDefault(New(f))

	return func() {
		SetDefault(nil)
		_ = f.Close()
	}, nil
}

// New returns an enabled logger writing to w at debug level.
func New(w io.Writer) *Logger {
	return &Logger{
		writer:   w,
		enabled:  true,
		minLevel: LevelDebug,
		now:      time.Now,
	}
}

// SetDefault replaces the global logger. nil disables logging.
func SetDefault(l *Logger) {
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}

// Debug logs at debug level.
func Debug(cat Category, msg string, fields ...any) {
	logDefault(LevelDebug, cat, msg, fields...)
}

// Info logs at info level.
func Info(cat Category, msg string, fields ...any) {
	logDefault(LevelInfo, cat, msg, fields...)
}

// Warn logs at warning level.
func Warn(cat Category, msg string, fields ...any) {
	logDefault(LevelWarn, cat, msg, fields...)
}

// ErrorErr logs an error with the error value.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	if err != nil {
		fields = append(fields, "error", err.Error())
	} else {
		fields = append(fields, "error", "<nil>")
	}
	logDefault(LevelError, cat, msg, fields...)
}

func logDefault(level Level, cat Category, msg string, fields ...any) {
	defaultMu.RLock()
	l := defaultLogger
	defaultMu.RUnlock()
	if l != nil {
		l.Log(level, cat, msg, fields...)
	}
}

// Log writes one entry:
//
//	2026-10-16T10:45:00 [DEBUG] [clock] tick cursor=12 phase=running
func (l *Logger) Log(level Level, cat Category, msg string, fields ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.enabled || level < l.minLevel || l.writer == nil {
		return
	}

	entry := fmt.Sprintf("%s [%s] [%s] %s", l.now().Format("2006-01-02T15:04:05"), level, cat, msg)
	for i := 0; i+1 < len(fields); i += 2 {
		entry += fmt.Sprintf(" %v=%v", fields[i], fields[i+1])
	}
	if len(fields)%2 != 0 {
		entry += fmt.Sprintf(" %v=<missing>", fields[len(fields)-1])
	}
	entry += "\n"

	_, _ = io.WriteString(l.writer, entry)
}
