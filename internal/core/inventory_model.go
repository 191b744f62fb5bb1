package core

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

// StockLevel is one row of the stock listing.
type StockLevel struct {
	ItemID         int
	ItemName       string
	Category       string
	UnitOfMeasure  string
	QuantityOnHand int64
	ReorderLevel   int64
	Location       string
	LastUpdated    time.Time
}

// LowStockItem is a stock level at or below its reorder level, with the
// suggested reorder quantity 2 × reorder level − quantity on hand.
type LowStockItem struct {
	ItemID           int
	ItemName         string
	QuantityOnHand   int64
	ReorderLevel     int64
	SuggestedReorder int64
}

// InventoryService manages per-item stock levels.
// Receipts and shipments are TX-scoped so order state transitions and stock
// changes commit atomically; the order services own the transaction.
type InventoryService interface {
	GetStockLevels(ctx context.Context) ([]StockLevel, error)
	GetStockLevel(ctx context.Context, itemID int) (*StockLevel, error)
	// LowStockReport returns items whose quantity on hand is at or below the
	// reorder level, ordered by the shortfall.
	LowStockReport(ctx context.Context) ([]LowStockItem, error)
	// AdjustStock sets quantity on hand to an absolute value. Manual
	// correction only; receipts and shipments use the TX-scoped operations.
	AdjustStock(ctx context.Context, itemID int, newQuantity int64) error

	// ReceiveStockTx adds accepted units to quantity on hand within the
	// caller's transaction. Rejected units never touch inventory.
	ReceiveStockTx(ctx context.Context, tx pgx.Tx, itemID int, qty int64) error
	// ShipStockTx deducts stock within the caller's transaction. The row is
	// locked before the level check, so concurrent shipments cannot both pass
	// it; a shortfall returns InsufficientStockError with inventory unchanged.
	ShipStockTx(ctx context.Context, tx pgx.Tx, itemID int, qty int64) error
}
