package logger

import (
	"io"

	"github.com/ideamans/go-l10n"
	"github.com/kataras/golog"

	"github.com/user/vaencoder/pkg/ports"
)

// GologLogger adapts a golog.Logger to ports.Logger. Lines carry golog's
// timestamp and level; components become child prefixes.
type GologLogger struct {
	log *golog.Logger
}

// NewGolog creates a golog-backed logger writing to w.
func NewGolog(level ports.LogLevel, w io.Writer) *GologLogger {
	l := golog.New()
	l.SetOutput(w)
	l.SetLevel(gologLevel(level))
	return &GologLogger{log: l}
}

func gologLevel(level ports.LogLevel) string {
	switch level {
	case ports.LevelDebug:
		return "debug"
	case ports.LevelInfo:
		return "info"
	case ports.LevelWarn:
		return "warn"
	case ports.LevelError:
		return "error"
	default:
		return "disable"
	}
}

func (l *GologLogger) Debug(msg string, args ...interface{}) {
	l.log.Debug(l10n.F(msg, args...))
}

func (l *GologLogger) Info(msg string, args ...interface{}) {
	l.log.Info(l10n.F(msg, args...))
}

func (l *GologLogger) Warn(msg string, args ...interface{}) {
	l.log.Warn(l10n.F(msg, args...))
}

func (l *GologLogger) Error(msg string, args ...interface{}) {
	l.log.Error(l10n.F(msg, args...))
}

// WithComponent returns a child logger prefixed with [component].
func (l *GologLogger) WithComponent(component string) ports.Logger {
	return &GologLogger{log: l.log.Child("[" + component + "]")}
}

var _ ports.Logger = (*GologLogger)(nil)
