package persistence

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// supportsRowLocks reports whether the dialect understands SELECT ... FOR
// UPDATE. sqlite (used in tests) does not; its single-writer model covers
// the same ground.
func supportsRowLocks(db *gorm.DB) bool {
	return db.Dialector.Name() == "postgres"
}

// isDuplicateKey recognizes unique-index violations across dialects.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "duplicate key") ||
		strings.Contains(message, "unique constraint")
}
