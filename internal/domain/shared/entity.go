package shared

import "time"

// BaseModel provides the common persisted fields for all entities. Keys are
// integer autoincrement, matching the normative schema.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuditedModel extends BaseModel with the operator columns carried by
// documents and lots.
type AuditedModel struct {
	BaseModel
	CreatedBy uint `json:"created_by"`
	UpdatedBy uint `json:"updated_by"`
}

// Touch updates the UpdatedAt/UpdatedBy pair after a mutation.
func (m *AuditedModel) Touch(userID uint) {
	m.UpdatedAt = time.Now()
	m.UpdatedBy = userID
}
