package streamtail

import (
	"context"
	"log/slog"
	"testing"

	"github.com/shoenig/test/must"
)

func TestLoggerWithContext(t *testing.T) {
	logger := slog.Default()
	ctx := context.Background()
	ctx2 := LoggerWithContext(ctx, logger)
	value := ctx2.Value(loggerContextKey{})
	must.NotNil(t, value)
	lgr, ok := value.(*slog.Logger)
	must.True(t, ok)
	must.EqOp(t, logger, lgr)
}

func TestLoggerFromContext_Default(t *testing.T) {
	ctx := context.Background()
	logger := LoggerFromContext(ctx)
	must.EqOp(t, slog.Default(), logger)
}

func TestLoggerFromContext_Exists(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default().With("test", true)
	ctx = context.WithValue(ctx, loggerContextKey{}, logger)
	lgr := LoggerFromContext(ctx)
	must.NotEqOp(t, slog.Default(), lgr)
	must.EqOp(t, logger, lgr)
}
