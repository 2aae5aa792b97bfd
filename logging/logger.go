package logging

import (
	"context"

	"go.uber.org/zap"
)

// Logger is the leveled, named logger used across rtml. The method set mirrors zap's
// SugaredLogger so either can be handed to code that only prints.
type Logger interface {
	Debug(args ...interface{})
	Debugf(template string, args ...interface{})
	Debugw(msg string, keysAndValues ...interface{})
	// CDebug, CDebugf and CDebugw also log when `ctx` was passed through EnableDebugMode,
	// regardless of the logger's level.
	CDebug(ctx context.Context, args ...interface{})
	CDebugf(ctx context.Context, template string, args ...interface{})
	CDebugw(ctx context.Context, msg string, keysAndValues ...interface{})

	Info(args ...interface{})
	Infof(template string, args ...interface{})
	Infow(msg string, keysAndValues ...interface{})

	Warn(args ...interface{})
	Warnf(template string, args ...interface{})
	Warnw(msg string, keysAndValues ...interface{})

	Error(args ...interface{})
	Errorf(template string, args ...interface{})
	Errorw(msg string, keysAndValues ...interface{})

	// Name is the dotted name of this logger, e.g. "rtml.gesture".
	Name() string
	SetLevel(level Level)
	GetLevel() Level
	// Sublogger returns a logger named "<name>.<subname>" that writes to the same appenders.
	Sublogger(subname string) Logger
	AddAppender(appender Appender)
	// AsZap returns a zap logger that writes through this logger's appenders.
	AsZap() *zap.SugaredLogger
	Sync() error
}
