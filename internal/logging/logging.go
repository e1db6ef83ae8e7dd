package logging

import (
	"io"
	"log"
	"os"
	"strings"
)

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
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

var current = LevelInfo

// InitFromEnv sets the log level based on LOG_LEVEL (debug|info|warn|error).
func InitFromEnv() {
	current = ParseLevel(os.Getenv("LOG_LEVEL"))
}

// ParseLevel maps a level name to a Level. Unknown names mean info.
func ParseLevel(raw string) Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "error":
		return LevelError
	case "warn", "warning":
		return LevelWarn
	case "debug":
		return LevelDebug
	default:
		return LevelInfo
	}
}

func SetLevel(l Level) { current = l }

// Enabled reports whether lines at l are printed.
func Enabled(l Level) bool { return l >= current }

// SetOutput redirects log lines. The tools point it at stderr so stdout only
// carries results.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

// logf tags everything but info lines with the level.
func logf(l Level, format string, args []interface{}) {
	if l != LevelError && !Enabled(l) {
		return
	}
	if l != LevelInfo {
		format = strings.ToUpper(l.String()) + " " + format
	}
	log.Printf(format, args...)
}

func Debugf(format string, args ...interface{}) { logf(LevelDebug, format, args) }
func Infof(format string, args ...interface{})  { logf(LevelInfo, format, args) }
func Warnf(format string, args ...interface{})  { logf(LevelWarn, format, args) }

// Errorf always prints, whatever the level.
func Errorf(format string, args ...interface{}) { logf(LevelError, format, args) }

func Fatalf(format string, args ...interface{}) {
	log.Fatalf("FATAL "+format, args...)
}
