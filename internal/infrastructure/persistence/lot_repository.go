package persistence

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/yarnlot/backend/internal/domain/inventory"
	"github.com/yarnlot/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLotRepository implements inventory.LotRepository using GORM. Counter
// mutations are single conditional UPDATE statements; the predicate turns a
// lost update into a clean failure instead of silent corruption.
type GormLotRepository struct {
	db *gorm.DB
}

// NewGormLotRepository creates a new GormLotRepository
func NewGormLotRepository(db *gorm.DB) *GormLotRepository {
	return &GormLotRepository{db: db}
}

// Create inserts a new lot. A lot number collision surfaces as DUPLICATE_NUMBER.
func (r *GormLotRepository) Create(ctx context.Context, lot *inventory.Lot) error {
	if err := r.db.WithContext(ctx).Create(lot).Error; err != nil {
		if isDuplicateKey(err) {
			return shared.ErrDuplicateNumber
		}
		return err
	}
	return nil
}

// FindByID fetches a lot without locking
func (r *GormLotRepository) FindByID(ctx context.Context, id uint) (*inventory.Lot, error) {
	var lot inventory.Lot
	if err := r.db.WithContext(ctx).First(&lot, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &lot, nil
}

// FindByIDForUpdate fetches a lot holding its row lock for the enclosing
// transaction. The locking clause is skipped on sqlite, which serializes
// writers at the database level anyway.
func (r *GormLotRepository) FindByIDForUpdate(ctx context.Context, id uint) (*inventory.Lot, error) {
	query := r.db.WithContext(ctx)
	if supportsRowLocks(r.db) {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var lot inventory.Lot
	if err := query.First(&lot, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &lot, nil
}

// FindAvailable returns lots with available stock for a product in FIFO
// order: created_at ascending, ties broken by ascending id.
func (r *GormLotRepository) FindAvailable(ctx context.Context, productID uint, locationID *uint) ([]inventory.Lot, error) {
	query := r.db.WithContext(ctx).
		Where("product_id = ? AND available_quantity > 0", productID)
	if locationID != nil {
		query = query.Where("location_id = ?", *locationID)
	}

	var lots []inventory.Lot
	if err := query.Order("created_at ASC, id ASC").Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

// Reserve moves quantity from available to committed under the predicate
// available_quantity >= quantity. Zero rows affected means another
// transaction won the race; the fresh counters are read back for the error.
func (r *GormLotRepository) Reserve(ctx context.Context, lotID uint, quantity decimal.Decimal, userID uint) error {
	result := r.db.WithContext(ctx).Model(&inventory.Lot{}).
		Where("id = ? AND available_quantity >= ?", lotID, quantity).
		Updates(map[string]interface{}{
			"available_quantity": gorm.Expr("available_quantity - ?", quantity),
			"committed_quantity": gorm.Expr("committed_quantity + ?", quantity),
			"updated_by":         userID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.insufficientStock(ctx, lotID, quantity)
	}
	return nil
}

// Release moves quantity from committed back to available under the
// predicate committed_quantity >= quantity.
func (r *GormLotRepository) Release(ctx context.Context, lotID uint, quantity decimal.Decimal, userID uint) error {
	result := r.db.WithContext(ctx).Model(&inventory.Lot{}).
		Where("id = ? AND committed_quantity >= ?", lotID, quantity).
		Updates(map[string]interface{}{
			"available_quantity": gorm.Expr("available_quantity + ?", quantity),
			"committed_quantity": gorm.Expr("committed_quantity - ?", quantity),
			"updated_by":         userID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("INVALID_STATE", "Release exceeds committed quantity")
	}
	return nil
}

// Deduct removes quantity from available permanently under the predicate
// available_quantity >= quantity.
func (r *GormLotRepository) Deduct(ctx context.Context, lotID uint, quantity decimal.Decimal, userID uint) error {
	result := r.db.WithContext(ctx).Model(&inventory.Lot{}).
		Where("id = ? AND available_quantity >= ?", lotID, quantity).
		Updates(map[string]interface{}{
			"available_quantity": gorm.Expr("available_quantity - ?", quantity),
			"updated_by":         userID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.insufficientStock(ctx, lotID, quantity)
	}
	return nil
}

func (r *GormLotRepository) insufficientStock(ctx context.Context, lotID uint, required decimal.Decimal) error {
	lot, err := r.FindByID(ctx, lotID)
	if err != nil {
		return err
	}
	return shared.NewInsufficientStockError(lot.ProductID, lot.AvailableQuantity, required)
}

// ListStock returns lot-level stock rows. Exhausted lots are filtered out
// unless they still carry committed stock.
func (r *GormLotRepository) ListStock(ctx context.Context, locationID, productID *uint) ([]inventory.StockRow, error) {
	query := r.db.WithContext(ctx).Model(&inventory.Lot{}).
		Select("id AS lot_id, lot_number, product_id, category_id, location_id, available_quantity AS available, committed_quantity AS committed").
		Where("available_quantity > 0 OR committed_quantity > 0")
	if locationID != nil {
		query = query.Where("location_id = ?", *locationID)
	}
	if productID != nil {
		query = query.Where("product_id = ?", *productID)
	}

	var rows []inventory.StockRow
	if err := query.Order("created_at ASC, id ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListStockByCategory returns per-(category, product) stock aggregates.
func (r *GormLotRepository) ListStockByCategory(ctx context.Context, locationID *uint) ([]inventory.CategoryStockRow, error) {
	query := r.db.WithContext(ctx).Model(&inventory.Lot{}).
		Select("category_id, product_id, SUM(available_quantity) AS available, SUM(committed_quantity) AS committed").
		Group("category_id, product_id")
	if locationID != nil {
		query = query.Where("location_id = ?", *locationID)
	}

	var rows []inventory.CategoryStockRow
	if err := query.Order("category_id ASC, product_id ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Ensure GormLotRepository implements LotRepository
var _ inventory.LotRepository = (*GormLotRepository)(nil)
