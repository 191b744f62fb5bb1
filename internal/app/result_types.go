package app

import "tradeledger/internal/core"

// ItemResult is returned by item operations.
type ItemResult struct {
	Item *core.Item
}

// ItemListResult is returned by ListItems.
type ItemListResult struct {
	Items []core.Item
}

// SupplierResult is returned by supplier operations.
type SupplierResult struct {
	Supplier *core.Supplier
}

// SupplierListResult is returned by ListSuppliers.
type SupplierListResult struct {
	Suppliers []core.Supplier
}

// CustomerResult is returned by customer operations.
type CustomerResult struct {
	Customer *core.Customer
}

// CustomerListResult is returned by ListCustomers.
type CustomerListResult struct {
	Customers []core.Customer
}

// StockResult is returned by GetStockLevels.
type StockResult struct {
	Levels []core.StockLevel
}

// LowStockResult is returned by LowStockReport.
type LowStockResult struct {
	Items []core.LowStockItem
}

// PurchaseOrderResult is returned by purchase order operations.
type PurchaseOrderResult struct {
	Order *core.PurchaseOrder
}

// PurchaseOrderListResult is returned by ListPurchaseOrders.
type PurchaseOrderListResult struct {
	Orders []core.PurchaseOrder
}

// GoodsReceiptResult is returned by RecordGoodsReceipt.
type GoodsReceiptResult struct {
	Receipt *core.GoodsReceipt
	Order   *core.PurchaseOrder
}

// GoodsReceiptListResult is returned by ListGoodsReceipts.
type GoodsReceiptListResult struct {
	Receipts []core.GoodsReceipt
}

// SalesOrderResult is returned by sales order operations.
type SalesOrderResult struct {
	Order *core.SalesOrder
}

// SalesOrderListResult is returned by ListSalesOrders.
type SalesOrderListResult struct {
	Orders []core.SalesOrder
}

// InvoiceResult is returned by invoice operations.
type InvoiceResult struct {
	Invoice *core.Invoice
}

// InvoiceListResult is returned by ListInvoices.
type InvoiceListResult struct {
	Invoices []core.Invoice
}
