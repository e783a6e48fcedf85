package persistence

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestSupportsRowLocks(t *testing.T) {
	pg, _ := newMockGorm(t)
	assert.True(t, supportsRowLocks(pg))

	lite, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	assert.False(t, supportsRowLocks(lite))
}

func TestIsDuplicateKey(t *testing.T) {
	assert.True(t, isDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, isDuplicateKey(errors.New(`pq: duplicate key value violates unique constraint "x"`)))
	assert.True(t, isDuplicateKey(errors.New("UNIQUE constraint failed: sales_orders.so_number")))
	assert.False(t, isDuplicateKey(errors.New("record not found")))
}
