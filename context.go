package streamtail

import (
	"context"
	"log/slog"
)

type loggerContextKey struct{}

// LoggerWithContext adds the given logger to the returned Context. Poll uses
// it to hand each RecordHandler the tailer's logger, already tagged with the
// stream name and session id.
func LoggerWithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey{}, logger)
}

// LoggerFromContext retrieves a logger from the passed in Context or returns the default slog.Logger.
// Record handlers call it to log alongside the tailer.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(loggerContextKey{}).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}
