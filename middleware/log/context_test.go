package logger

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTraceIDContext(t *testing.T) {
	t.Run("keeps provided id", func(t *testing.T) {
		ctx := WithTraceID(context.Background(), "trace-1")
		assert.Equal(t, "trace-1", GetTraceID(ctx))
	})

	t.Run("generates uuid when empty", func(t *testing.T) {
		ctx := WithTraceID(context.Background(), "")
		_, err := uuid.Parse(GetTraceID(ctx))
		require.NoError(t, err)
	})

	t.Run("preserves other values", func(t *testing.T) {
		type key string
		ctx := context.WithValue(context.Background(), key("k"), "v")
		ctx = WithTraceID(ctx, "trace-2")

		assert.Equal(t, "trace-2", GetTraceID(ctx))
		assert.Equal(t, "v", ctx.Value(key("k")))
	})
}

func TestGetTraceID(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))
	assert.Empty(t, GetTraceID(context.WithValue(context.Background(), TraceIDKey, 42)))
}

func TestNewTraceIDIsUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for range 100 {
		id := NewTraceID()
		_, dup := seen[id]
		require.False(t, dup)
		seen[id] = struct{}{}
	}
}
