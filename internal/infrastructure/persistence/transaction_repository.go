package persistence

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/yarnlot/backend/internal/domain/inventory"
	"gorm.io/gorm"
)

// GormTransactionRepository implements the append-only transaction log.
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// Append inserts a transaction record. There is no update or delete path.
func (r *GormTransactionRepository) Append(ctx context.Context, txn *inventory.Transaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

// FindByLot returns all transactions for a lot in creation order.
func (r *GormTransactionRepository) FindByLot(ctx context.Context, lotID uint) ([]inventory.Transaction, error) {
	var txns []inventory.Transaction
	if err := r.db.WithContext(ctx).
		Where("lot_id = ?", lotID).
		Order("id ASC").
		Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

// OutstandingReservations nets RESERVE against UNRESERVE per lot for a sales
// order and returns lots with a positive remainder, joined with the lot for
// product and location, ordered by the first RESERVE transaction id.
func (r *GormTransactionRepository) OutstandingReservations(ctx context.Context, salesOrderID uint) ([]inventory.ReservedLot, error) {
	var rows []struct {
		LotID      uint
		LotNumber  string
		ProductID  uint
		LocationID uint
		Quantity   decimal.Decimal
	}

	err := r.db.WithContext(ctx).Raw(`
		SELECT t.lot_id,
		       l.lot_number,
		       l.product_id,
		       l.location_id,
		       SUM(CASE WHEN t.reservation_type = ? THEN t.quantity ELSE -t.quantity END) AS quantity,
		       MIN(t.id) AS first_txn_id
		FROM inventory_transactions t
		JOIN inventory_lots l ON l.id = t.lot_id
		WHERE t.reference_type = ?
		  AND t.reference_id = ?
		  AND t.reservation_type IN (?, ?)
		GROUP BY t.lot_id, l.lot_number, l.product_id, l.location_id
		HAVING SUM(CASE WHEN t.reservation_type = ? THEN t.quantity ELSE -t.quantity END) > 0
		ORDER BY first_txn_id ASC`,
		inventory.ReservationTypeReserve,
		inventory.ReferenceTypeSalesOrder,
		salesOrderID,
		inventory.ReservationTypeReserve,
		inventory.ReservationTypeUnreserve,
		inventory.ReservationTypeReserve,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	reserved := make([]inventory.ReservedLot, 0, len(rows))
	for _, row := range rows {
		reserved = append(reserved, inventory.ReservedLot{
			LotID:      row.LotID,
			LotNumber:  row.LotNumber,
			ProductID:  row.ProductID,
			LocationID: row.LocationID,
			Quantity:   row.Quantity,
		})
	}
	return reserved, nil
}

// Ensure GormTransactionRepository implements TransactionRepository
var _ inventory.TransactionRepository = (*GormTransactionRepository)(nil)
