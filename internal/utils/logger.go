package utils

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	chlog "github.com/charmbracelet/log"
)

// Logger is the application-wide structured logger.
var Logger *chlog.Logger

// TraceLevel sits below debug and is used for raw broker results.
const TraceLevel = chlog.DebugLevel - 4

const (
	traceLevel = "trace"
	debugLevel = "debug"
	infoLevel  = "info"
	warnLevel  = "warn"
	errorLevel = "error"
)

// LogLevelEnv names the environment variable read by InitLogger.
const LogLevelEnv = "KAFKAMAN_LOG_LEVEL"

// InitLogger initializes the global logger with level from KAFKAMAN_LOG_LEVEL.
// Valid levels: trace, debug, info, warn, error. Logs go to stderr so command
// output on stdout stays clean.
func InitLogger() {
	if Logger != nil {
		return
	}
	Logger = newLogger(os.Stderr)
	if lvl, ok := parseLevel(os.Getenv(LogLevelEnv)); ok {
		Logger.SetLevel(lvl)
	}
}

func newLogger(w io.Writer) *chlog.Logger {
	l := chlog.New(w)
	l.SetTimeFormat("2006-01-02 15:04:05.000")
	l.SetReportTimestamp(true)
	styles := chlog.DefaultStyles()
	styles.Levels[TraceLevel] = lipgloss.NewStyle().
		SetString("TRACE").
		Bold(true).
		MaxWidth(4).
		Foreground(lipgloss.Color("245"))
	l.SetStyles(styles)
	l.SetLevel(chlog.InfoLevel)
	return l
}

func parseLevel(s string) (chlog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case traceLevel:
		return TraceLevel, true
	case debugLevel:
		return chlog.DebugLevel, true
	case infoLevel:
		return chlog.InfoLevel, true
	case warnLevel:
		return chlog.WarnLevel, true
	case errorLevel:
		return chlog.ErrorLevel, true
	}
	return chlog.InfoLevel, false
}

// SetLogLevel allows changing level at runtime. Unknown names are ignored and
// reported as false.
func SetLogLevel(level string) bool {
	if Logger == nil {
		InitLogger()
	}
	lvl, ok := parseLevel(level)
	if ok {
		Logger.SetLevel(lvl)
	}
	return ok
}

// Trace logs at TraceLevel.
func Trace(msg string, keyvals ...any) {
	if Logger == nil {
		InitLogger()
	}
	Logger.Log(TraceLevel, msg, keyvals...)
}

// Slog exposes the global logger as a *slog.Logger for libraries that log
// through log/slog.
func Slog() *slog.Logger {
	if Logger == nil {
		InitLogger()
	}
	return slog.New(Logger)
}
