package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yarnlot/backend/internal/domain/audit"
	"github.com/yarnlot/backend/internal/domain/inventory"
	"github.com/yarnlot/backend/internal/domain/shared"
	"github.com/yarnlot/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// Audit actions written by the coordinator.
const (
	ActionInbound             = "INBOUND"
	ActionCreateGoodsReceipt  = "CREATE_GOODS_RECEIPT"
	ActionCreateSalesOrder    = "CREATE_SALES_ORDER"
	ActionReserveStock        = "RESERVE_STOCK"
	ActionUnreserveStock      = "UNRESERVE_STOCK"
	ActionCancelSalesOrder    = "CANCEL_SALES_ORDER"
	ActionDeleteSalesOrder    = "DELETE_SALES_ORDER"
	ActionCreateSalesChallan  = "CREATE_SALES_CHALLAN"
	ActionConvertSalesOrder   = "CONVERT_SALES_ORDER"
	ActionCreatePurchaseOrder = "CREATE_PURCHASE_ORDER"
	ActionUpdatePurchaseOrder = "UPDATE_PURCHASE_ORDER"
)

// ErrTimeout is surfaced when the per-operation deadline expires; the
// enclosing transaction is rolled back.
var ErrTimeout = shared.NewDomainError("TIMEOUT", "Operation deadline exceeded")

// Coordinator is the transactional facade over the inventory ledger. Each
// operation runs in one database transaction, preserves the conservation
// invariants, and writes one audit entry on success (two for conversion:
// one for the order, one for the spawned challan).
type Coordinator struct {
	scope       TransactionScope
	logger      *zap.Logger
	now         func() time.Time
	isTransient func(error) bool
	maxAttempts int
	retryBase   time.Duration
	opTimeout   time.Duration
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Coordinator) { c.logger = logger }
}

// WithClock overrides the coordinator clock (identifier dates, transaction dates).
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// WithTransientClassifier sets the predicate deciding whether a persistence
// error is a connection fault worth retrying on a fresh connection.
func WithTransientClassifier(isTransient func(error) bool) Option {
	return func(c *Coordinator) { c.isTransient = isTransient }
}

// WithRetry bounds the retry loop for transient faults and number collisions.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(c *Coordinator) {
		if maxAttempts > 0 {
			c.maxAttempts = maxAttempts
		}
		if baseDelay > 0 {
			c.retryBase = baseDelay
		}
	}
}

// WithOperationTimeout sets the per-operation deadline.
func WithOperationTimeout(timeout time.Duration) Option {
	return func(c *Coordinator) { c.opTimeout = timeout }
}

// NewCoordinator creates a Coordinator over the given transaction scope.
func NewCoordinator(scope TransactionScope, opts ...Option) *Coordinator {
	c := &Coordinator{
		scope:       scope,
		logger:      zap.NewNop(),
		now:         time.Now,
		maxAttempts: 3,
		retryBase:   100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// retryable reports whether the whole operation should be re-executed:
// identifier collisions remint, connection faults get a fresh connection.
// Everything else is surfaced immediately.
func (c *Coordinator) retryable(err error) bool {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) && domainErr.Code == "DUPLICATE_NUMBER" {
		return true
	}
	return c.isTransient != nil && c.isTransient(err)
}

// run executes fn inside one transaction under the per-operation deadline,
// retrying the whole transaction with exponential backoff when retryable.
func (c *Coordinator) run(ctx context.Context, operation string, fn func(ctx context.Context, repos Repositories) error) error {
	if c.opTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opTimeout)
		defer cancel()
	}

	delay := c.retryBase
	for attempt := 1; ; attempt++ {
		err := c.scope.Execute(ctx, func(repos Repositories) error {
			return fn(ctx, repos)
		})
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			c.logger.Warn("operation deadline exceeded",
				zap.String("operation", operation), zap.Error(err))
			return ErrTimeout
		}
		if attempt >= c.maxAttempts || !c.retryable(err) {
			return err
		}
		c.logger.Warn("retrying operation",
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.Error(err))
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ErrTimeout
		}
		delay *= 2
	}
}

// writeAudit appends one audit entry inside the current transaction.
func (c *Coordinator) writeAudit(ctx context.Context, repos Repositories, action, entityType string, entityID, userID uint, details any) error {
	entry, err := audit.NewEntry(action, entityType, entityID, userID, details)
	if err != nil {
		return err
	}
	entry.WithTimestamp(c.now())
	if requestID := RequestIDFromContext(ctx); requestID != "" {
		entry.WithRequestID(requestID)
	}
	return repos.Audit().Append(ctx, entry)
}

// Inbound materializes a lot from an existing GRN item: mints a lot number,
// creates the lot with the full quantity available, appends the INBOUND
// transaction, and links the lot back onto the GRN item. It never fails on
// stock grounds.
func (c *Coordinator) Inbound(ctx context.Context, req InboundRequest) (*InboundResult, error) {
	var result *InboundResult
	err := c.run(ctx, "inbound", func(ctx context.Context, repos Repositories) error {
		item := &trade.GoodsReceiptItem{ProductID: req.ProductID, CategoryID: req.CategoryID, WeightKg: req.QuantityKg}
		item.ID = req.GRNItemID
		lot, err := c.inboundItem(ctx, repos, item, req.LocationID, req.SupplierID, "", req.UserID)
		if err != nil {
			return err
		}
		result = &InboundResult{LotID: lot.ID, LotNumber: lot.LotNumber, Available: lot.AvailableQuantity}
		return c.writeAudit(ctx, repos, ActionInbound, "inventory_lot", lot.ID, req.UserID, map[string]any{
			"lot_number":  lot.LotNumber,
			"grn_item_id": req.GRNItemID,
			"quantity_kg": req.QuantityKg,
		})
	})
	if err != nil {
		return nil, err
	}
	c.logger.Info("inbound completed",
		zap.Uint("lot_id", result.LotID),
		zap.String("lot_number", result.LotNumber),
		zap.String("quantity", result.Available.String()))
	return result, nil
}

// inboundItem is the inbound primitive shared by Inbound and
// CreateGoodsReceipt. It must run inside the caller's transaction.
func (c *Coordinator) inboundItem(ctx context.Context, repos Repositories, item *trade.GoodsReceiptItem,
	locationID, supplierID uint, grnNumber string, userID uint) (*inventory.Lot, error) {

	lotNumber, err := trade.Mint(ctx, repos.Numbers(), trade.PrefixLot, c.now())
	if err != nil {
		return nil, err
	}
	lot, err := inventory.NewLot(lotNumber, item.ProductID, item.CategoryID, locationID, supplierID, item.ID, item.WeightKg, userID)
	if err != nil {
		return nil, err
	}
	if err := repos.Lots().Create(ctx, lot); err != nil {
		return nil, err
	}

	description := fmt.Sprintf("Goods receipt into lot %s", lotNumber)
	if grnNumber != "" {
		description = fmt.Sprintf("Goods receipt %s into lot %s", grnNumber, lotNumber)
	}
	txn, err := inventory.NewInboundTransaction(lot.ID, item.WeightKg, locationID, item.ID, item.WeightKg, userID)
	if err != nil {
		return nil, err
	}
	txn.WithDescription(description).WithTransactionDate(c.now())
	if err := repos.Transactions().Append(ctx, txn); err != nil {
		return nil, err
	}

	if err := repos.GoodsReceipts().LinkLot(ctx, item.ID, lot.ID); err != nil {
		return nil, err
	}
	return lot, nil
}

// CreateGoodsReceipt creates a GRN header with its items and spawns one lot
// per item via the inbound primitive, all in one transaction.
func (c *Coordinator) CreateGoodsReceipt(ctx context.Context, req CreateGoodsReceiptRequest) (*GoodsReceiptResult, error) {
	var result *GoodsReceiptResult
	err := c.run(ctx, "create_goods_receipt", func(ctx context.Context, repos Repositories) error {
		grnNumber, err := trade.Mint(ctx, repos.Numbers(), trade.PrefixGoodsReceipt, c.now())
		if err != nil {
			return err
		}

		items := make([]trade.GoodsReceiptItem, 0, len(req.Items))
		for _, line := range req.Items {
			item, err := trade.NewGoodsReceiptItem(line.ProductID, line.CategoryID, line.QuantityBags, line.WeightKg)
			if err != nil {
				return err
			}
			items = append(items, *item)
		}
		receipt, err := trade.NewGoodsReceipt(grnNumber, req.SupplierID, req.LocationID, items, req.UserID)
		if err != nil {
			return err
		}
		if err := repos.GoodsReceipts().Create(ctx, receipt); err != nil {
			return err
		}

		lots := make([]InboundResult, 0, len(receipt.Items))
		for i := range receipt.Items {
			lot, err := c.inboundItem(ctx, repos, &receipt.Items[i], req.LocationID, req.SupplierID, grnNumber, req.UserID)
			if err != nil {
				return err
			}
			lots = append(lots, InboundResult{LotID: lot.ID, LotNumber: lot.LotNumber, Available: lot.AvailableQuantity})
		}

		result = &GoodsReceiptResult{GRNID: receipt.ID, GRNNumber: receipt.GRNNumber, Lots: lots}
		return c.writeAudit(ctx, repos, ActionCreateGoodsReceipt, "goods_receipt", receipt.ID, req.UserID, map[string]any{
			"grn_number": receipt.GRNNumber,
			"items":      len(receipt.Items),
			"lots":       lots,
		})
	})
	if err != nil {
		return nil, err
	}
	c.logger.Info("goods receipt created",
		zap.Uint("grn_id", result.GRNID),
		zap.String("grn_number", result.GRNNumber),
		zap.Int("lots", len(result.Lots)))
	return result, nil
}

// CreateSalesOrder creates an order and reserves its stock FIFO. All line
// items reserve together or the whole creation rolls back; the returned
// error lists every failing product with its shortfall.
func (c *Coordinator) CreateSalesOrder(ctx context.Context, req CreateSalesOrderRequest) (*SalesOrderResult, error) {
	var result *SalesOrderResult
	err := c.run(ctx, "create_sales_order", func(ctx context.Context, repos Repositories) error {
		soNumber, err := trade.Mint(ctx, repos.Numbers(), trade.PrefixSalesOrder, c.now())
		if err != nil {
			return err
		}

		items := make([]trade.SalesOrderItem, 0, len(req.Items))
		for _, line := range req.Items {
			item, err := trade.NewSalesOrderItem(line.ProductID, line.QuantityBags, line.WeightKg)
			if err != nil {
				return err
			}
			items = append(items, *item)
		}
		order, err := trade.NewSalesOrder(soNumber, req.CustomerID, items, req.UserID)
		if err != nil {
			return err
		}
		if err := repos.SalesOrders().Create(ctx, order); err != nil {
			return err
		}

		reserved, err := c.reserveItems(ctx, repos, order.ID, order.SONumber, req.Items, req.LocationID, req.UserID)
		if err != nil {
			return err
		}

		result = &SalesOrderResult{
			SOID:          order.ID,
			SONumber:      order.SONumber,
			ReservedTotal: reserved.ReservedTotal,
			Items:         reserved.Items,
		}
		return c.writeAudit(ctx, repos, ActionCreateSalesOrder, "sales_order", order.ID, req.UserID, map[string]any{
			"so_number":      order.SONumber,
			"reserved_total": reserved.ReservedTotal,
			"items":          reserved.Items,
		})
	})
	if err != nil {
		return nil, err
	}
	c.logger.Info("sales order created",
		zap.Uint("so_id", result.SOID),
		zap.String("so_number", result.SONumber),
		zap.String("reserved_total", result.ReservedTotal.String()))
	return result, nil
}

// Reserve reserves stock for an already-persisted sales order, typically to
// re-reserve after an Unreserve. The order must be live and in the New state,
// and must not already hold a reservation: the net reserved quantity of an
// order is its required quantity, never a multiple of it.
func (c *Coordinator) Reserve(ctx context.Context, req ReserveRequest) (*ReserveResult, error) {
	var result *ReserveResult
	err := c.run(ctx, "reserve", func(ctx context.Context, repos Repositories) error {
		order, err := repos.SalesOrders().FindByIDForUpdate(ctx, req.SalesOrderID)
		if err != nil {
			return err
		}
		if err := order.EnsureReservable(); err != nil {
			return err
		}
		outstanding, err := repos.Transactions().OutstandingReservations(ctx, order.ID)
		if err != nil {
			return err
		}
		if len(outstanding) > 0 {
			return shared.NewLifecycleViolationError("sales_order", order.Status.String(), "reserve",
				fmt.Sprintf("Sales order %s already holds an outstanding reservation", order.SONumber))
		}
		reserved, err := c.reserveItems(ctx, repos, order.ID, order.SONumber, req.Items, req.LocationID, req.UserID)
		if err != nil {
			return err
		}
		result = reserved
		return c.writeAudit(ctx, repos, ActionReserveStock, "sales_order", order.ID, req.UserID, map[string]any{
			"so_number":      order.SONumber,
			"reserved_total": reserved.ReservedTotal,
			"items":          reserved.Items,
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// reserveItems plans the FIFO allocation for every line first, so a
// multi-line failure reports all shortfalls, then applies the plan under row
// locks with the conditional available >= quantity predicate.
func (c *Coordinator) reserveItems(ctx context.Context, repos Repositories, soID uint, soNumber string,
	items []OrderItemRequest, locationID *uint, userID uint) (*ReserveResult, error) {

	type linePlan struct {
		productID   uint
		allocations []inventory.Allocation
	}

	plans := make([]linePlan, 0, len(items))
	shortfalls := make([]shared.InsufficientStockError, 0)
	consumed := make(map[uint]decimal.Decimal)

	for _, line := range items {
		lots, err := repos.Lots().FindAvailable(ctx, line.ProductID, locationID)
		if err != nil {
			return nil, err
		}
		stock := make([]inventory.LotStock, 0, len(lots))
		for _, lot := range lots {
			available := lot.AvailableQuantity.Sub(consumed[lot.ID])
			if available.LessThanOrEqual(decimal.Zero) {
				continue
			}
			stock = append(stock, inventory.LotStock{
				LotID:      lot.ID,
				LotNumber:  lot.LotNumber,
				LocationID: lot.LocationID,
				Available:  available,
				CreatedAt:  lot.CreatedAt,
			})
		}

		allocations, err := inventory.AllocateFIFO(line.ProductID, line.WeightKg, stock)
		if err != nil {
			var insufficient *shared.InsufficientStockError
			if errors.As(err, &insufficient) {
				shortfalls = append(shortfalls, *insufficient)
				continue
			}
			return nil, err
		}
		for _, alloc := range allocations {
			consumed[alloc.LotID] = consumed[alloc.LotID].Add(alloc.Quantity)
		}
		plans = append(plans, linePlan{productID: line.ProductID, allocations: allocations})
	}

	if len(shortfalls) > 0 {
		return nil, &shared.StockShortfallError{Shortfalls: shortfalls}
	}

	total := decimal.Zero
	result := &ReserveResult{Items: make([]ItemAllocations, 0, len(plans))}
	for _, plan := range plans {
		for _, alloc := range plan.allocations {
			lot, err := repos.Lots().FindByIDForUpdate(ctx, alloc.LotID)
			if err != nil {
				return nil, err
			}
			if err := repos.Lots().Reserve(ctx, lot.ID, alloc.Quantity, userID); err != nil {
				return nil, err
			}
			balance := lot.AvailableQuantity.Sub(alloc.Quantity)
			txn, err := inventory.NewReserveTransaction(lot.ID, alloc.Quantity, lot.LocationID, soID, balance, userID)
			if err != nil {
				return nil, err
			}
			txn.WithDescription(fmt.Sprintf("Reserved for sales order %s", soNumber)).WithTransactionDate(c.now())
			if err := repos.Transactions().Append(ctx, txn); err != nil {
				return nil, err
			}
			total = total.Add(alloc.Quantity)
		}
		result.Items = append(result.Items, ItemAllocations{ProductID: plan.productID, Allocations: plan.allocations})
	}
	result.ReservedTotal = total
	return result, nil
}

// releaseReservations credits committed back to available on the given lots
// and appends the matching UNRESERVE transactions.
func (c *Coordinator) releaseReservations(ctx context.Context, repos Repositories, soID uint, soNumber string,
	reserved []inventory.ReservedLot, userID uint) (decimal.Decimal, error) {

	total := decimal.Zero
	for _, row := range reserved {
		lot, err := repos.Lots().FindByIDForUpdate(ctx, row.LotID)
		if err != nil {
			return decimal.Zero, err
		}
		if err := repos.Lots().Release(ctx, row.LotID, row.Quantity, userID); err != nil {
			return decimal.Zero, err
		}
		balance := lot.AvailableQuantity.Add(row.Quantity)
		txn, err := inventory.NewUnreserveTransaction(row.LotID, row.Quantity, row.LocationID, soID, balance, userID)
		if err != nil {
			return decimal.Zero, err
		}
		txn.WithDescription(fmt.Sprintf("Released reservation of sales order %s", soNumber)).WithTransactionDate(c.now())
		if err := repos.Transactions().Append(ctx, txn); err != nil {
			return decimal.Zero, err
		}
		total = total.Add(row.Quantity)
	}
	return total, nil
}

// Unreserve returns the outstanding reserved quantity of a sales order to
// available stock. A second unreserve finds no un-offset RESERVE rows and
// reports NOTHING_TO_RELEASE without touching any lot.
func (c *Coordinator) Unreserve(ctx context.Context, soID, userID uint) (*UnreserveResult, error) {
	var result *UnreserveResult
	err := c.run(ctx, "unreserve", func(ctx context.Context, repos Repositories) error {
		order, err := repos.SalesOrders().FindByIDForUpdate(ctx, soID)
		if err != nil {
			return err
		}
		reserved, err := repos.Transactions().OutstandingReservations(ctx, soID)
		if err != nil {
			return err
		}
		if len(reserved) == 0 {
			return shared.ErrNothingToRelease
		}
		total, err := c.releaseReservations(ctx, repos, soID, order.SONumber, reserved, userID)
		if err != nil {
			return err
		}
		result = &UnreserveResult{ReleasedTotal: total}
		return c.writeAudit(ctx, repos, ActionUnreserveStock, "sales_order", soID, userID, map[string]any{
			"so_number":      order.SONumber,
			"released_total": total,
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CancelSalesOrder moves a New order to Cancelled and releases its
// reservation in the same transaction.
func (c *Coordinator) CancelSalesOrder(ctx context.Context, soID, userID uint) (*UnreserveResult, error) {
	var result *UnreserveResult
	err := c.run(ctx, "cancel_sales_order", func(ctx context.Context, repos Repositories) error {
		order, err := repos.SalesOrders().FindByIDForUpdate(ctx, soID)
		if err != nil {
			return err
		}
		if err := order.Cancel(userID); err != nil {
			return err
		}
		if err := repos.SalesOrders().Save(ctx, order); err != nil {
			return err
		}

		reserved, err := repos.Transactions().OutstandingReservations(ctx, soID)
		if err != nil {
			return err
		}
		total, err := c.releaseReservations(ctx, repos, soID, order.SONumber, reserved, userID)
		if err != nil {
			return err
		}
		result = &UnreserveResult{ReleasedTotal: total}
		return c.writeAudit(ctx, repos, ActionCancelSalesOrder, "sales_order", soID, userID, map[string]any{
			"so_number":      order.SONumber,
			"released_total": total,
		})
	})
	if err != nil {
		return nil, err
	}
	c.logger.Info("sales order cancelled",
		zap.Uint("so_id", soID),
		zap.String("released_total", result.ReleasedTotal.String()))
	return result, nil
}

// DeleteSalesOrder soft-deletes an order. Any outstanding reservation is
// released in the same transaction; the document number stays burned.
func (c *Coordinator) DeleteSalesOrder(ctx context.Context, soID, userID uint) error {
	return c.run(ctx, "delete_sales_order", func(ctx context.Context, repos Repositories) error {
		order, err := repos.SalesOrders().FindByIDForUpdate(ctx, soID)
		if err != nil {
			return err
		}
		if order.IsDeleted {
			return shared.ErrNotFound
		}
		if err := order.SoftDelete(userID); err != nil {
			return err
		}
		if err := repos.SalesOrders().Save(ctx, order); err != nil {
			return err
		}

		reserved, err := repos.Transactions().OutstandingReservations(ctx, soID)
		if err != nil {
			return err
		}
		released, err := c.releaseReservations(ctx, repos, soID, order.SONumber, reserved, userID)
		if err != nil {
			return err
		}
		return c.writeAudit(ctx, repos, ActionDeleteSalesOrder, "sales_order", soID, userID, map[string]any{
			"so_number":      order.SONumber,
			"released_total": released,
		})
	})
}

// UpdateSalesOrderStatus applies a requested status transition. Cancellation
// triggers Unreserve; Delivered is reachable only through conversion. Legacy
// states from the earlier schema are rejected as invalid input.
func (c *Coordinator) UpdateSalesOrderStatus(ctx context.Context, soID uint, status trade.SalesOrderStatus, userID uint) (*UnreserveResult, error) {
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown sales order status %q", status))
	}
	switch status {
	case trade.SalesOrderStatusCancelled:
		return c.CancelSalesOrder(ctx, soID, userID)
	case trade.SalesOrderStatusDelivered:
		return nil, shared.NewLifecycleViolationError("sales_order", "", "deliver",
			"Sales orders are delivered by converting them to a challan")
	default:
		return nil, shared.NewLifecycleViolationError("sales_order", "", "update_status",
			fmt.Sprintf("Sales orders cannot be moved back to status %q", status))
	}
}

// CreateSalesChallan dispatches stock directly from a location: one FIFO
// allocation per line, one OUTBOUND transaction per consumed lot, the whole
// challan in one transaction.
func (c *Coordinator) CreateSalesChallan(ctx context.Context, req CreateSalesChallanRequest) (*SalesChallanResult, error) {
	var result *SalesChallanResult
	err := c.run(ctx, "create_sales_challan", func(ctx context.Context, repos Repositories) error {
		scNumber, err := trade.Mint(ctx, repos.Numbers(), trade.PrefixSalesChallan, c.now())
		if err != nil {
			return err
		}

		items := make([]trade.SalesChallanItem, 0, len(req.Items))
		for _, line := range req.Items {
			item, err := trade.NewSalesChallanItem(line.ProductID, line.QuantityBags, line.WeightKg)
			if err != nil {
				return err
			}
			items = append(items, *item)
		}
		challan, err := trade.NewSalesChallan(scNumber, req.CustomerID, req.LocationID, items, req.UserID)
		if err != nil {
			return err
		}
		if err := repos.SalesChallans().Create(ctx, challan); err != nil {
			return err
		}

		allocations, err := c.dispatchItems(ctx, repos, challan, req.LocationID, req.UserID)
		if err != nil {
			return err
		}

		result = &SalesChallanResult{SCID: challan.ID, SCNumber: challan.SCNumber, Allocations: allocations}
		return c.writeAudit(ctx, repos, ActionCreateSalesChallan, "sales_challan", challan.ID, req.UserID, map[string]any{
			"sc_number":   challan.SCNumber,
			"allocations": allocations,
		})
	})
	if err != nil {
		return nil, err
	}
	c.logger.Info("sales challan created",
		zap.Uint("sc_id", result.SCID),
		zap.String("sc_number", result.SCNumber))
	return result, nil
}

// dispatchItems plans location-bound FIFO allocations for every challan item
// then deducts available stock under row locks, appending one OUTBOUND
// transaction per consumed lot and linking the first onto the item.
func (c *Coordinator) dispatchItems(ctx context.Context, repos Repositories, challan *trade.SalesChallan,
	locationID uint, userID uint) ([]ItemAllocations, error) {

	type itemPlan struct {
		item        *trade.SalesChallanItem
		allocations []inventory.Allocation
	}

	plans := make([]itemPlan, 0, len(challan.Items))
	shortfalls := make([]shared.InsufficientStockError, 0)
	consumed := make(map[uint]decimal.Decimal)

	for i := range challan.Items {
		item := &challan.Items[i]
		lots, err := repos.Lots().FindAvailable(ctx, item.ProductID, &locationID)
		if err != nil {
			return nil, err
		}
		stock := make([]inventory.LotStock, 0, len(lots))
		for _, lot := range lots {
			available := lot.AvailableQuantity.Sub(consumed[lot.ID])
			if available.LessThanOrEqual(decimal.Zero) {
				continue
			}
			stock = append(stock, inventory.LotStock{
				LotID:      lot.ID,
				LotNumber:  lot.LotNumber,
				LocationID: lot.LocationID,
				Available:  available,
				CreatedAt:  lot.CreatedAt,
			})
		}

		allocations, err := inventory.AllocateFIFO(item.ProductID, item.WeightKg, stock)
		if err != nil {
			var insufficient *shared.InsufficientStockError
			if errors.As(err, &insufficient) {
				shortfalls = append(shortfalls, *insufficient)
				continue
			}
			return nil, err
		}
		for _, alloc := range allocations {
			consumed[alloc.LotID] = consumed[alloc.LotID].Add(alloc.Quantity)
		}
		plans = append(plans, itemPlan{item: item, allocations: allocations})
	}

	if len(shortfalls) > 0 {
		return nil, &shared.StockShortfallError{Shortfalls: shortfalls}
	}

	results := make([]ItemAllocations, 0, len(plans))
	for _, plan := range plans {
		var firstTxnID *uint
		for _, alloc := range plan.allocations {
			txn, err := c.outboundFromLot(ctx, repos, alloc.LotID, alloc.Quantity, plan.item.ID, challan.SCNumber, userID)
			if err != nil {
				return nil, err
			}
			if firstTxnID == nil {
				id := txn.ID
				firstTxnID = &id
			}
		}
		plan.item.InventoryTransactionID = firstTxnID
		if err := repos.SalesChallans().SaveItem(ctx, plan.item); err != nil {
			return nil, err
		}
		results = append(results, ItemAllocations{ProductID: plan.item.ProductID, Allocations: plan.allocations})
	}
	return results, nil
}

// outboundFromLot deducts quantity from one lot under its row lock and
// appends the OUTBOUND transaction referencing the challan item.
func (c *Coordinator) outboundFromLot(ctx context.Context, repos Repositories, lotID uint, quantity decimal.Decimal,
	challanItemID uint, scNumber string, userID uint) (*inventory.Transaction, error) {

	lot, err := repos.Lots().FindByIDForUpdate(ctx, lotID)
	if err != nil {
		return nil, err
	}
	if err := repos.Lots().Deduct(ctx, lot.ID, quantity, userID); err != nil {
		return nil, err
	}
	balance := lot.AvailableQuantity.Sub(quantity)
	txn, err := inventory.NewOutboundTransaction(lot.ID, quantity, lot.LocationID, challanItemID, balance, userID)
	if err != nil {
		return nil, err
	}
	txn.WithDescription(fmt.Sprintf("Dispatched on challan %s", scNumber)).WithTransactionDate(c.now())
	if err := repos.Transactions().Append(ctx, txn); err != nil {
		return nil, err
	}
	return txn, nil
}

// ConvertSalesOrder turns a New order into a challan: unreserve then
// outbound on the very lots the order had reserved, atomically. The dispatch
// location per line is the first reserved lot's location for that product.
func (c *Coordinator) ConvertSalesOrder(ctx context.Context, soID, userID uint) (*ConversionResult, error) {
	var result *ConversionResult
	err := c.run(ctx, "convert_sales_order", func(ctx context.Context, repos Repositories) error {
		order, err := repos.SalesOrders().FindByIDForUpdate(ctx, soID)
		if err != nil {
			return err
		}
		if err := order.EnsureConvertible(); err != nil {
			return err
		}

		reserved, err := repos.Transactions().OutstandingReservations(ctx, soID)
		if err != nil {
			return err
		}
		if len(reserved) == 0 {
			return shared.NewLifecycleViolationError("sales_order", order.Status.String(), "convert",
				fmt.Sprintf("Sales order %s has no outstanding reservation to dispatch", order.SONumber))
		}

		// Reserved rows arrive ordered by first RESERVE transaction, so the
		// first row per product fixes that line's dispatch location.
		perProduct := make(map[uint][]inventory.ReservedLot)
		for _, row := range reserved {
			perProduct[row.ProductID] = append(perProduct[row.ProductID], row)
		}

		if _, err := c.releaseReservations(ctx, repos, soID, order.SONumber, reserved, userID); err != nil {
			return err
		}

		scNumber, err := trade.Mint(ctx, repos.Numbers(), trade.PrefixSalesChallan, c.now())
		if err != nil {
			return err
		}
		challan, err := trade.NewChallanFromOrder(scNumber, order, reserved[0].LocationID, userID)
		if err != nil {
			return err
		}
		if err := repos.SalesChallans().Create(ctx, challan); err != nil {
			return err
		}

		for i := range challan.Items {
			item := &challan.Items[i]
			rows := perProduct[item.ProductID]
			if len(rows) == 0 {
				return shared.NewLifecycleViolationError("sales_order", order.Status.String(), "convert",
					fmt.Sprintf("Sales order %s has no reservation for product %d", order.SONumber, item.ProductID))
			}
			remaining := item.WeightKg
			var firstTxnID *uint
			for _, row := range rows {
				if remaining.LessThanOrEqual(decimal.Zero) {
					break
				}
				take := decimal.Min(remaining, row.Quantity)
				txn, err := c.outboundFromLot(ctx, repos, row.LotID, take, item.ID, challan.SCNumber, userID)
				if err != nil {
					return err
				}
				if firstTxnID == nil {
					id := txn.ID
					firstTxnID = &id
				}
				remaining = remaining.Sub(take)
			}
			if remaining.GreaterThan(decimal.Zero) {
				return shared.NewInsufficientStockError(item.ProductID, item.WeightKg.Sub(remaining), item.WeightKg)
			}
			item.InventoryTransactionID = firstTxnID
			if err := repos.SalesChallans().SaveItem(ctx, item); err != nil {
				return err
			}
		}

		if err := order.MarkConverted(userID); err != nil {
			return err
		}
		if err := repos.SalesOrders().Save(ctx, order); err != nil {
			return err
		}

		if err := c.writeAudit(ctx, repos, ActionConvertSalesOrder, "sales_order", order.ID, userID, map[string]any{
			"so_number": order.SONumber,
			"sc_number": challan.SCNumber,
		}); err != nil {
			return err
		}
		if err := c.writeAudit(ctx, repos, ActionCreateSalesChallan, "sales_challan", challan.ID, userID, map[string]any{
			"sc_number": challan.SCNumber,
			"source_so": order.SONumber,
		}); err != nil {
			return err
		}

		result = &ConversionResult{SCID: challan.ID, SCNumber: challan.SCNumber}
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.logger.Info("sales order converted",
		zap.Uint("so_id", soID),
		zap.Uint("sc_id", result.SCID),
		zap.String("sc_number", result.SCNumber))
	return result, nil
}

// CreatePurchaseOrder creates a purchase order. Purchase orders do not touch
// stock; the lifecycle table guards later edits.
func (c *Coordinator) CreatePurchaseOrder(ctx context.Context, req CreatePurchaseOrderRequest) (*PurchaseOrderResult, error) {
	var result *PurchaseOrderResult
	err := c.run(ctx, "create_purchase_order", func(ctx context.Context, repos Repositories) error {
		poNumber, err := trade.Mint(ctx, repos.Numbers(), trade.PrefixPurchaseOrder, c.now())
		if err != nil {
			return err
		}
		items := make([]trade.PurchaseOrderItem, 0, len(req.Items))
		for _, line := range req.Items {
			items = append(items, trade.PurchaseOrderItem{
				ProductID:    line.ProductID,
				QuantityBags: line.QuantityBags,
				WeightKg:     line.WeightKg,
			})
		}
		order, err := trade.NewPurchaseOrder(poNumber, req.SupplierID, items, req.UserID)
		if err != nil {
			return err
		}
		if err := repos.PurchaseOrders().Create(ctx, order); err != nil {
			return err
		}
		result = &PurchaseOrderResult{POID: order.ID, PONumber: order.PONumber}
		return c.writeAudit(ctx, repos, ActionCreatePurchaseOrder, "purchase_order", order.ID, req.UserID, map[string]any{
			"po_number": order.PONumber,
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ApplyPurchaseOrderAction runs one lifecycle action against a purchase
// order under the fixed allowed-action table.
func (c *Coordinator) ApplyPurchaseOrderAction(ctx context.Context, poID uint, action trade.PurchaseOrderAction, userID uint) error {
	return c.run(ctx, "apply_purchase_order_action", func(ctx context.Context, repos Repositories) error {
		order, err := repos.PurchaseOrders().FindByIDForUpdate(ctx, poID)
		if err != nil {
			return err
		}
		switch action {
		case trade.ActionCancel:
			err = order.Cancel(userID)
		case trade.ActionMarkReceived:
			err = order.MarkReceived(userID)
		case trade.ActionConvertToGRN:
			err = order.MarkConvertedToGRN(userID)
		default:
			err = order.Authorize(action)
		}
		if err != nil {
			return err
		}
		if err := repos.PurchaseOrders().Save(ctx, order); err != nil {
			return err
		}
		return c.writeAudit(ctx, repos, ActionUpdatePurchaseOrder, "purchase_order", order.ID, userID, map[string]any{
			"po_number": order.PONumber,
			"action":    string(action),
			"status":    order.Status.String(),
		})
	})
}
