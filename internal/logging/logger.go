// Package logging provides structured, colorful logging for the ledger daemon
// and CLI, keeping output from the audit engine, the HTTP API, sinks, and
// third-party libraries in a single consistent format.
//
// LOGGING FEATURES:
//   - Color-coded levels: DEBUG (purple), INFO (blue), WARN (yellow), ERROR (red), SUCCESS (green)
//   - Unix stream split: INFO/SUCCESS to stdout, WARN/ERROR/DEBUG to stderr
//   - Log file mode: every level to one file when --log-file is given
//   - Library integration: io.Writer adapters for gin and the standard logger
//
// Used by every package in the module through the printf-style helpers
// (Info, Warn, Error, Debug, Success).
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	stdlog "log"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	// mu guards logger replacement. Reads take the logger pointers under
	// the read lock so SetOutput can swap them while workers are logging.
	mu sync.RWMutex

	// Logger for INFO/SUCCESS messages (stdout by default)
	stdoutLogger = newLogger(os.Stdout)

	// Logger for WARN/ERROR/DEBUG messages (stderr by default)
	stderrLogger = newLogger(os.Stderr)

	// Track if logging has been explicitly configured by CLI tools
	cliConfigured = false

	// Destination of INFO/SUCCESS lines, consulted by Success
	stdoutDest io.Writer = os.Stdout
)

// newLogger builds a charmbracelet logger writing to w with RFC3339
// timestamps and the ledger level colors.
func newLogger(w io.Writer) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
	l.SetStyles(levelStyles())
	return l
}

// levelStyles returns the color scheme for each level. Colors are chosen to
// stay readable on both light and dark terminals.
func levelStyles() *log.Styles {
	styles := log.DefaultStyles()

	styles.Levels[log.DebugLevel] = lipgloss.NewStyle().
		SetString("DEBUG").
		Foreground(lipgloss.Color("#7F6DFF"))

	styles.Levels[log.InfoLevel] = lipgloss.NewStyle().
		SetString("INFO").
		Foreground(lipgloss.Color("#42E7FF"))

	styles.Levels[log.WarnLevel] = lipgloss.NewStyle().
		SetString("WARN").
		Foreground(lipgloss.Color("#FFE763"))

	styles.Levels[log.ErrorLevel] = lipgloss.NewStyle().
		SetString("ERROR").
		Foreground(lipgloss.Color("#FF4473"))

	return styles
}

func loggers() (*log.Logger, *log.Logger) {
	mu.RLock()
	defer mu.RUnlock()
	return stdoutLogger, stderrLogger
}

// Info logs informational messages such as lifecycle events and delivered
// submissions. Goes to stdout (or the log file).
func Info(format string, v ...any) {
	out, _ := loggers()
	out.Info(fmt.Sprintf(format, v...))
}

// Warn logs non-fatal problems such as oversized transactions.
// Goes to stderr (or the log file).
func Warn(format string, v ...any) {
	_, errOut := loggers()
	errOut.Warn(fmt.Sprintf(format, v...))
}

// Error logs failures such as rejected submissions.
// Goes to stderr (or the log file).
func Error(format string, v ...any) {
	_, errOut := loggers()
	errOut.Error(fmt.Sprintf(format, v...))
}

// Debug logs detailed tracing such as per-drain packing results.
// Goes to stderr (or the log file).
func Debug(format string, v ...any) {
	_, errOut := loggers()
	errOut.Debug(fmt.Sprintf(format, v...))
}

// Success logs a completed operation in green. It is an INFO-level message
// with a SUCCESS label, so it is filtered exactly like Info.
func Success(format string, v ...any) {
	mu.RLock()
	level := stdoutLogger.GetLevel()
	dest := stdoutDest
	mu.RUnlock()

	if level > log.InfoLevel {
		return
	}

	styles := levelStyles()
	styles.Levels[log.InfoLevel] = lipgloss.NewStyle().
		SetString("SUCCESS").
		Foreground(lipgloss.Color("#60F281"))

	l := log.NewWithOptions(dest, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
	l.SetStyles(styles)
	l.Info(fmt.Sprintf(format, v...))
}

// ParseLevel maps DEBUG/INFO/WARN/ERROR to a charmbracelet level. Unknown
// strings map to INFO.
func ParseLevel(level string) log.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return log.DebugLevel
	case "WARN":
		return log.WarnLevel
	case "ERROR":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// SetLevel sets the minimum level on both loggers. Accepts DEBUG, INFO,
// WARN or ERROR; anything else selects INFO.
func SetLevel(level string) {
	l := ParseLevel(level)

	mu.RLock()
	defer mu.RUnlock()
	stdoutLogger.SetLevel(l)
	stderrLogger.SetLevel(l)
}

// SetOutput redirects every level to w, overriding the stdout/stderr split.
// The current level is preserved. Passing nil suppresses all output.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	if w == nil {
		stdoutLogger.SetLevel(log.FatalLevel + 1)
		stderrLogger.SetLevel(log.FatalLevel + 1)
		return
	}

	level := stdoutLogger.GetLevel()
	stdoutLogger = newLogger(w)
	stderrLogger = newLogger(w)
	stdoutLogger.SetLevel(level)
	stderrLogger.SetLevel(level)
	stdoutDest = w
}

// SuppressOutput hides everything below ERROR. Used by ledgerctl so that
// command output is not interleaved with client logs.
func SuppressOutput() {
	mu.Lock()
	defer mu.Unlock()

	stdoutLogger.SetLevel(log.ErrorLevel)
	stderrLogger.SetLevel(log.ErrorLevel)
	cliConfigured = true
}

// RestoreOutput returns to the stdout/stderr split at INFO level.
func RestoreOutput() {
	mu.Lock()
	defer mu.Unlock()

	stdoutLogger = newLogger(os.Stdout)
	stderrLogger = newLogger(os.Stderr)
	stdoutLogger.SetLevel(log.InfoLevel)
	stderrLogger.SetLevel(log.InfoLevel)
	stdoutDest = os.Stdout
	cliConfigured = true
}

// IsConfiguredByCLI returns true if logging has been explicitly configured by CLI tools.
func IsConfiguredByCLI() bool {
	mu.RLock()
	defer mu.RUnlock()
	return cliConfigured
}

// LevelWriter forwards each written line to a fixed level with an optional
// prefix. Used to route gin's request and error writers into the unified
// format.
type LevelWriter struct {
	level  string
	prefix string
}

// NewLevelWriter creates a writer that logs each line at level with prefix.
// Valid levels: DEBUG, INFO, WARN, ERROR
func NewLevelWriter(level, prefix string) io.Writer {
	return &LevelWriter{level: strings.ToUpper(level), prefix: prefix}
}

// Write implements io.Writer. Blank lines are dropped.
func (w *LevelWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(string(p), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		msg := line
		if w.prefix != "" {
			msg = w.prefix + ": " + line
		}
		switch w.level {
		case "DEBUG":
			Debug("%s", msg)
		case "WARN":
			Warn("%s", msg)
		case "ERROR":
			Error("%s", msg)
		default:
			Info("%s", msg)
		}
	}
	return len(p), nil
}

// RedirectStandardLog redirects Go's standard library logger to w so that
// dependencies logging through it (net/http server errors) share the
// unified format. Passing nil discards standard log output.
func RedirectStandardLog(w io.Writer) {
	if w == nil {
		stdlog.SetOutput(io.Discard)
		return
	}
	stdlog.SetFlags(0)
	stdlog.SetOutput(w)
}
