package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContext(t *testing.T) {
	t.Run("stores and retrieves logger", func(t *testing.T) {
		logger := zap.NewNop()
		ctx := WithContext(context.Background(), logger)

		retrieved := FromContext(ctx)
		assert.Same(t, logger, retrieved)
	})

	t.Run("returns noop logger when not set", func(t *testing.T) {
		retrieved := FromContext(context.Background())
		require.NotNil(t, retrieved)
	})
}

func TestWithRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	ctx, enriched := WithRequestID(context.Background(), logger, "req-123")

	assert.Equal(t, "req-123", GetRequestID(ctx))

	enriched.Info("test message")
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "req-123", entry.ContextMap()["request_id"])
}

func TestWithUserID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	ctx, enriched := WithUserID(context.Background(), logger, 42)

	assert.Equal(t, uint(42), GetUserID(ctx))

	enriched.Info("test message")
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, uint64(42), entry.ContextMap()["user_id"])
}

func TestGetRequestID(t *testing.T) {
	t.Run("returns empty string when not set", func(t *testing.T) {
		assert.Equal(t, "", GetRequestID(context.Background()))
	})
}

func TestGetUserID(t *testing.T) {
	t.Run("returns zero when not set", func(t *testing.T) {
		assert.Equal(t, uint(0), GetUserID(context.Background()))
	})
}
