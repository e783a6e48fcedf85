package inventory

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yarnlot/backend/internal/domain/shared"
)

// LotStock is the allocator's view of one eligible lot.
type LotStock struct {
	LotID      uint
	LotNumber  string
	LocationID uint
	Available  decimal.Decimal
	CreatedAt  time.Time
}

// Allocation is one slice of an allocation plan: take Quantity from the lot.
type Allocation struct {
	LotID      uint            `json:"lot_id"`
	LotNumber  string          `json:"lot_number"`
	LocationID uint            `json:"location_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// AllocateFIFO walks the eligible lots oldest first and greedily takes from
// each until the required quantity is covered. Ties on creation time break by
// ascending lot id. Returns InsufficientStockError carrying the total
// available when the lots cannot cover the requirement.
func AllocateFIFO(productID uint, required decimal.Decimal, lots []LotStock) ([]Allocation, error) {
	if required.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Required quantity must be positive")
	}

	sorted := make([]LotStock, len(lots))
	copy(sorted, lots)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}
		return sorted[i].LotID < sorted[j].LotID
	})

	totalAvailable := decimal.Zero
	for _, lot := range sorted {
		totalAvailable = totalAvailable.Add(lot.Available)
	}
	if totalAvailable.LessThan(required) {
		return nil, shared.NewInsufficientStockError(productID, totalAvailable, required)
	}

	remaining := required
	allocations := make([]Allocation, 0, len(sorted))
	for _, lot := range sorted {
		if remaining.IsZero() {
			break
		}
		if lot.Available.LessThanOrEqual(decimal.Zero) {
			continue
		}
		take := decimal.Min(remaining, lot.Available)
		allocations = append(allocations, Allocation{
			LotID:      lot.LotID,
			LotNumber:  lot.LotNumber,
			LocationID: lot.LocationID,
			Quantity:   take,
		})
		remaining = remaining.Sub(take)
	}

	return allocations, nil
}
