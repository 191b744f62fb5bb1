package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Purchase order lifecycle states. Receipts move an order from Pending through
// Partially Received to Completed; there are no other transitions.
const (
	POStatusPending           = "Pending"
	POStatusPartiallyReceived = "Partially Received"
	POStatusCompleted         = "Completed"
)

// PurchaseOrder is a purchase order header with its lines.
type PurchaseOrder struct {
	PONumber         int
	SupplierID       int
	SupplierName     string
	OrderDate        string // YYYY-MM-DD
	ExpectedDelivery *string
	Status           string
	Subtotal         decimal.Decimal
	TotalGST         decimal.Decimal
	TotalAmount      decimal.Decimal
	CreatedAt        time.Time
	Lines            []PurchaseOrderLine
}

// PurchaseOrderLine is a single line on a purchase order.
type PurchaseOrderLine struct {
	POItemID   int
	PONumber   int
	ItemID     int
	ItemName   string
	Quantity   int64
	Rate       decimal.Decimal
	GSTPercent decimal.Decimal
	GSTAmount  decimal.Decimal
	TotalPrice decimal.Decimal
}

// PurchaseOrderLineInput holds the fields required to create a purchase order
// line. Rate, when nil, defaults to the item's purchase rate; the GST rate
// always comes from the item master.
type PurchaseOrderLineInput struct {
	ItemID   int
	Quantity int64
	Rate     *decimal.Decimal
}

// GoodsReceipt records one supplier delivery of one item against a purchase
// order. Received splits into accepted and rejected; only accepted units
// enter inventory.
type GoodsReceipt struct {
	ReceiptID        int
	PONumber         int
	ItemID           int
	ItemName         string
	SupplierID       int
	InvoiceNumber    string
	ReceivedQuantity int64
	AcceptedQuantity int64
	RejectedQuantity int64
	ReceiptDate      string // YYYY-MM-DD
	Notes            string
	CreatedAt        time.Time
}

// GoodsReceiptInput holds the fields required to record a goods receipt.
type GoodsReceiptInput struct {
	PONumber         int
	ItemID           int
	InvoiceNumber    string
	ReceivedQuantity int64
	AcceptedQuantity int64
	RejectedQuantity int64
	ReceiptDate      time.Time
	Notes            string
}

// PurchaseOrderService provides purchase order lifecycle operations.
type PurchaseOrderService interface {
	// CreatePurchaseOrder creates a Pending purchase order with computed
	// line and order totals.
	CreatePurchaseOrder(ctx context.Context, supplierID int, orderDate time.Time,
		expectedDelivery *time.Time, lines []PurchaseOrderLineInput) (*PurchaseOrder, error)

	// RecordGoodsReceipt records a delivery against an order line, adds the
	// accepted units to inventory, and recomputes the order status, all in
	// one transaction. It is idempotent per (po_number, item_id,
	// invoice_number): recording the same delivery again returns the
	// existing receipt and changes nothing.
	RecordGoodsReceipt(ctx context.Context, input GoodsReceiptInput) (*GoodsReceipt, error)

	// DeletePurchaseOrder removes the order and its lines, refusing with a
	// ReferentialIntegrityError while any goods receipt references it.
	DeletePurchaseOrder(ctx context.Context, poNumber int) error

	// GetPurchaseOrder returns an order by number, including all lines.
	GetPurchaseOrder(ctx context.Context, poNumber int) (*PurchaseOrder, error)

	// ListPurchaseOrders returns orders, optionally filtered by status.
	// An empty status returns all orders.
	ListPurchaseOrders(ctx context.Context, status string) ([]PurchaseOrder, error)

	// ListGoodsReceipts returns receipts for an order, newest first.
	// poNumber 0 returns receipts across all orders.
	ListGoodsReceipts(ctx context.Context, poNumber int) ([]GoodsReceipt, error)
}
