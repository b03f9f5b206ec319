package binding

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the write-only diagnostic sink handed to scripts.
type Logger struct {
	l *zap.Logger
}

func NewLogger(l *zap.Logger) *Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return &Logger{l: l.Named("script")}
}

func (l *Logger) Debug(msg string, args ...any) { l.log(zapcore.DebugLevel, msg, args) }
func (l *Logger) Info(msg string, args ...any)  { l.log(zapcore.InfoLevel, msg, args) }
func (l *Logger) Warn(msg string, args ...any)  { l.log(zapcore.WarnLevel, msg, args) }
func (l *Logger) Error(msg string, args ...any) { l.log(zapcore.ErrorLevel, msg, args) }

func (l *Logger) log(lvl zapcore.Level, msg string, args []any) {
	ce := l.l.Check(lvl, msg)
	if ce == nil {
		return
	}
	if len(args) == 0 {
		ce.Write()
		return
	}
	fields := make([]string, len(args))
	for i, a := range args {
		fields[i] = fmt.Sprint(a)
	}
	ce.Write(zap.Strings("args", fields))
}
