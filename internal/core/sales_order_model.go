package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Sales order lifecycle states. Creation ships stock immediately, so an order
// is Completed from birth and moves to Invoiced when its invoice is generated.
const (
	SOStatusCompleted = "Completed"
	SOStatusInvoiced  = "Invoiced"
)

// Invoice payment states.
const (
	InvoiceStatusUnpaid = "Unpaid"
	InvoiceStatusPaid   = "Paid"
)

// SalesOrder is a sales order header with its lines.
type SalesOrder struct {
	SONumber     int
	CustomerID   int
	CustomerName string
	OrderDate    string // YYYY-MM-DD
	DeliveryDate *string
	Status       string
	Subtotal     decimal.Decimal
	TotalGST     decimal.Decimal
	TotalAmount  decimal.Decimal
	CreatedAt    time.Time
	Lines        []SalesOrderLine
}

// SalesOrderLine is a single line on a sales order.
type SalesOrderLine struct {
	SOItemID   int
	SONumber   int
	ItemID     int
	ItemName   string
	Quantity   int64
	Rate       decimal.Decimal
	GSTPercent decimal.Decimal
	GSTAmount  decimal.Decimal
	TotalPrice decimal.Decimal
}

// SalesOrderLineInput holds the fields required to create a sales order line.
// Rate, when nil, defaults to the item's selling rate; the GST rate always
// comes from the item master.
type SalesOrderLineInput struct {
	ItemID   int
	Quantity int64
	Rate     *decimal.Decimal
}

// Invoice bills a completed sales order. Amounts are copied from the order,
// never recomputed.
type Invoice struct {
	InvoiceID    int
	SONumber     int
	CustomerID   int
	CustomerName string
	InvoiceDate  string // YYYY-MM-DD
	DueDate      string // YYYY-MM-DD
	Subtotal     decimal.Decimal
	TotalGST     decimal.Decimal
	TotalAmount  decimal.Decimal
	Status       string
	CreatedAt    time.Time
}

// SalesOrderService provides sales order and invoice lifecycle operations.
type SalesOrderService interface {
	// CreateSalesOrder creates an order and ships its stock in one
	// transaction. A shortfall on any line rolls back the whole order with
	// an InsufficientStockError. On success the order is Completed.
	CreateSalesOrder(ctx context.Context, customerID int, orderDate time.Time,
		deliveryDate *time.Time, lines []SalesOrderLineInput) (*SalesOrder, error)

	// GenerateInvoice bills a Completed order, copying its amounts. Due date
	// is the invoice date plus 30 days. A second invoice for the same order
	// returns a DuplicateInvoiceError carrying the existing invoice id. The
	// order transitions to Invoiced.
	GenerateInvoice(ctx context.Context, soNumber int, invoiceDate time.Time) (*Invoice, error)

	// MarkInvoicePaid transitions Unpaid → Paid. Marking a paid invoice
	// again is a no-op. There are no partial payments.
	MarkInvoicePaid(ctx context.Context, invoiceID int) error

	// DeleteSalesOrder removes the order and its lines and returns the
	// shipped stock to inventory, refusing with a ReferentialIntegrityError
	// while an invoice references the order.
	DeleteSalesOrder(ctx context.Context, soNumber int) error

	GetSalesOrder(ctx context.Context, soNumber int) (*SalesOrder, error)
	// ListSalesOrders returns orders, optionally filtered by status.
	ListSalesOrders(ctx context.Context, status string) ([]SalesOrder, error)
	GetInvoice(ctx context.Context, invoiceID int) (*Invoice, error)
	ListInvoices(ctx context.Context, status string) ([]Invoice, error)
}
