package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestFromContextOr_ReturnsStoredLogger(t *testing.T) {
	stored := zap.NewNop()
	fallback := zap.NewNop()
	ctx := ContextWithLogger(context.Background(), stored)

	if got := FromContextOr(ctx, fallback); got != stored {
		t.Error("expected the logger stored in the context")
	}
}

func TestFromContextOr_FallsBack(t *testing.T) {
	fallback := zap.NewNop()

	if got := FromContextOr(context.Background(), fallback); got != fallback {
		t.Error("expected the fallback logger for a bare context")
	}
}
