package audit

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry(t *testing.T) {
	t.Run("marshals details to JSON", func(t *testing.T) {
		entry, err := NewEntry("CREATE_SALES_ORDER", "sales_order", 7, 9, map[string]any{
			"so_number": "SO/2025/JUL/20/1",
		})
		require.NoError(t, err)

		var details map[string]string
		require.NoError(t, json.Unmarshal(entry.Details, &details))
		assert.Equal(t, "SO/2025/JUL/20/1", details["so_number"])
		assert.False(t, entry.Timestamp.IsZero())
	})

	t.Run("nil details stay empty", func(t *testing.T) {
		entry, err := NewEntry("DELETE_SALES_ORDER", "sales_order", 7, 9, nil)
		require.NoError(t, err)
		assert.Nil(t, entry.Details)
	})

	t.Run("requires action and entity type", func(t *testing.T) {
		_, err := NewEntry("", "sales_order", 7, 9, nil)
		require.Error(t, err)
		_, err = NewEntry("CREATE_SALES_ORDER", "", 7, 9, nil)
		require.Error(t, err)
	})

	t.Run("attaches the request id", func(t *testing.T) {
		entry, err := NewEntry("RESERVE_STOCK", "sales_order", 7, 9, nil)
		require.NoError(t, err)
		entry = entry.WithRequestID("req-123")
		assert.Equal(t, "req-123", entry.RequestID)
	})

	t.Run("timestamp follows the caller's clock", func(t *testing.T) {
		entry, err := NewEntry("RESERVE_STOCK", "sales_order", 7, 9, nil)
		require.NoError(t, err)
		at := time.Date(2025, 7, 20, 10, 0, 0, 0, time.UTC)
		entry = entry.WithTimestamp(at)
		assert.True(t, entry.Timestamp.Equal(at))
	})
}
