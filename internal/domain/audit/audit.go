package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/yarnlot/backend/internal/domain/shared"
)

// Entry is one row of the audit log. Every successful coordinator operation
// writes exactly one entry; rolled-back operations write none.
type Entry struct {
	ID         uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Action     string          `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityType string          `gorm:"type:varchar(50);not null;index:idx_audit_entity,priority:1" json:"entity_type"`
	EntityID   uint            `gorm:"not null;index:idx_audit_entity,priority:2" json:"entity_id"`
	UserID     uint            `gorm:"not null;index" json:"user_id"`
	Timestamp  time.Time       `gorm:"not null" json:"timestamp"`
	RequestID  string          `gorm:"type:varchar(40)" json:"request_id"`
	Details    json.RawMessage `gorm:"type:jsonb" json:"details"`
}

// TableName returns the table name for GORM
func (Entry) TableName() string {
	return "audit_log"
}

// NewEntry creates an audit entry; details is marshalled to JSON.
func NewEntry(action, entityType string, entityID, userID uint, details any) (*Entry, error) {
	if action == "" || entityType == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Audit action and entity type are required")
	}
	var raw json.RawMessage
	if details != nil {
		b, err := json.Marshal(details)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Audit details are not serializable")
		}
		raw = b
	}
	return &Entry{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		UserID:     userID,
		Timestamp:  time.Now(),
		Details:    raw,
	}, nil
}

// WithRequestID attaches the request correlation id.
func (e *Entry) WithRequestID(requestID string) *Entry {
	e.RequestID = requestID
	return e
}

// WithTimestamp overrides the entry timestamp, keeping the audit trail on the
// same clock as the transactions written alongside it.
func (e *Entry) WithTimestamp(t time.Time) *Entry {
	e.Timestamp = t
	return e
}

// Repository is the append-only audit store.
type Repository interface {
	Append(ctx context.Context, entry *Entry) error
	FindByEntity(ctx context.Context, entityType string, entityID uint) ([]Entry, error)
}
