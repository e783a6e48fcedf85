package persistence

import (
	"context"

	"github.com/yarnlot/backend/internal/domain/audit"
	"gorm.io/gorm"
)

// GormAuditRepository implements the append-only audit log.
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GormAuditRepository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Append inserts an audit entry. There is no update or delete path.
func (r *GormAuditRepository) Append(ctx context.Context, entry *audit.Entry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindByEntity returns the audit trail of one entity in creation order.
func (r *GormAuditRepository) FindByEntity(ctx context.Context, entityType string, entityID uint) ([]audit.Entry, error) {
	var entries []audit.Entry
	if err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Ensure GormAuditRepository implements Repository
var _ audit.Repository = (*GormAuditRepository)(nil)
