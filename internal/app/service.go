package app

import (
	"context"

	"tradeledger/internal/core"
)

// ApplicationService is the single interface all UI adapters (CLI, Web) call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println, no ANSI codes, and no display logic of any kind.
type ApplicationService interface {
	// ── Company ──

	// CompanyExists reports whether the company profile has been set up.
	CompanyExists(ctx context.Context) (bool, error)
	GetCompanyDetails(ctx context.Context) (*core.CompanyDetails, error)
	SaveCompanyDetails(ctx context.Context, req SaveCompanyRequest) error

	// ── Item master ──

	CreateItem(ctx context.Context, req ItemRequest) (*ItemResult, error)
	UpdateItem(ctx context.Context, itemID int, req ItemRequest) (*ItemResult, error)
	DeleteItem(ctx context.Context, itemID int) error
	GetItem(ctx context.Context, itemID int) (*ItemResult, error)
	ListItems(ctx context.Context) (*ItemListResult, error)

	// ── Partners ──

	CreateSupplier(ctx context.Context, req SupplierRequest) (*SupplierResult, error)
	UpdateSupplier(ctx context.Context, supplierID int, req SupplierRequest) (*SupplierResult, error)
	DeleteSupplier(ctx context.Context, supplierID int) error
	GetSupplier(ctx context.Context, supplierID int) (*SupplierResult, error)
	ListSuppliers(ctx context.Context) (*SupplierListResult, error)

	CreateCustomer(ctx context.Context, req CustomerRequest) (*CustomerResult, error)
	UpdateCustomer(ctx context.Context, customerID int, req CustomerRequest) (*CustomerResult, error)
	DeleteCustomer(ctx context.Context, customerID int) error
	GetCustomer(ctx context.Context, customerID int) (*CustomerResult, error)
	ListCustomers(ctx context.Context) (*CustomerListResult, error)

	// ── Inventory ──

	GetStockLevels(ctx context.Context) (*StockResult, error)
	GetStockLevel(ctx context.Context, itemID int) (*core.StockLevel, error)
	LowStockReport(ctx context.Context) (*LowStockResult, error)
	AdjustStock(ctx context.Context, itemID int, newQuantity int64) error

	// ── Purchasing ──

	// CreatePurchaseOrder creates a Pending purchase order.
	CreatePurchaseOrder(ctx context.Context, req CreatePurchaseOrderRequest) (*PurchaseOrderResult, error)
	GetPurchaseOrder(ctx context.Context, poNumber int) (*PurchaseOrderResult, error)
	ListPurchaseOrders(ctx context.Context, status string) (*PurchaseOrderListResult, error)
	DeletePurchaseOrder(ctx context.Context, poNumber int) error
	// RecordGoodsReceipt records a supplier delivery and moves the order
	// through Partially Received to Completed.
	RecordGoodsReceipt(ctx context.Context, req GoodsReceiptRequest) (*GoodsReceiptResult, error)
	ListGoodsReceipts(ctx context.Context, poNumber int) (*GoodsReceiptListResult, error)

	// ── Sales ──

	// CreateSalesOrder creates an order and ships its stock immediately.
	CreateSalesOrder(ctx context.Context, req CreateSalesOrderRequest) (*SalesOrderResult, error)
	GetSalesOrder(ctx context.Context, soNumber int) (*SalesOrderResult, error)
	ListSalesOrders(ctx context.Context, status string) (*SalesOrderListResult, error)
	DeleteSalesOrder(ctx context.Context, soNumber int) error
	GenerateInvoice(ctx context.Context, soNumber int, invoiceDate string) (*InvoiceResult, error)
	MarkInvoicePaid(ctx context.Context, invoiceID int) error
	GetInvoice(ctx context.Context, invoiceID int) (*InvoiceResult, error)
	ListInvoices(ctx context.Context, status string) (*InvoiceListResult, error)

	// ── Dashboard ──

	GetDashboard(ctx context.Context) (*core.DashboardSummary, error)
}
