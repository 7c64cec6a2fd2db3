package helpers

import (
	"context"
	"log/slog"
	"testing"

	"github.com/GregMSThompson/ledger-engine/pkg/logger"
)

// TestCtx returns t's context carrying a logger that discards everything
// but still reports debug as enabled, so debug-only branches run in tests.
func TestCtx(t testing.TB) context.Context {
	t.Helper()
	log := slog.New(logger.NewTestHandler(slog.LevelDebug))
	return logger.ToContext(t.Context(), log)
}
