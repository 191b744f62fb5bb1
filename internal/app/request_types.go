package app

import "github.com/shopspring/decimal"

// SaveCompanyRequest is the input for saving the company profile.
type SaveCompanyRequest struct {
	CompanyName        string
	LegalName          string
	GSTIN              string
	PAN                string
	AddressLine1       string
	AddressLine2       string
	City               string
	State              string
	Pincode            string
	Country            string
	Phone              string
	Email              string
	Website            string
	FinancialYearStart string
}

// ItemRequest is the input for creating or updating an item.
type ItemRequest struct {
	Name               string
	Description        string
	Category           string
	UnitOfMeasure      string
	PurchaseRate       decimal.Decimal
	PurchaseGSTPercent decimal.Decimal
	SellingRate        decimal.Decimal
	SellingGSTPercent  decimal.Decimal
	HSNCode            string
	OpeningStock       int64
	ReorderLevel       int64
	Location           string
}

// SupplierRequest is the input for creating or updating a supplier.
type SupplierRequest struct {
	Name          string
	ContactPerson string
	Phone         string
	Email         string
	Address       string
	GSTIN         string
	PaymentTerms  string
}

// CustomerRequest is the input for creating or updating a customer.
type CustomerRequest struct {
	Name          string
	ContactPerson string
	Phone         string
	Email         string
	Address       string
	GSTIN         string
	CreditLimit   decimal.Decimal
	PaymentTerms  string
}

// CreatePurchaseOrderRequest is the input for creating a purchase order.
type CreatePurchaseOrderRequest struct {
	SupplierID       int
	OrderDate        string // YYYY-MM-DD; empty means today
	ExpectedDelivery string // YYYY-MM-DD; optional
	Lines            []OrderLineRequest
}

// CreateSalesOrderRequest is the input for creating a sales order.
type CreateSalesOrderRequest struct {
	CustomerID   int
	OrderDate    string // YYYY-MM-DD; empty means today
	DeliveryDate string // YYYY-MM-DD; optional
	Lines        []OrderLineRequest
}

// OrderLineRequest is a single line within an order request.
// A nil Rate means "use the item's default rate".
type OrderLineRequest struct {
	ItemID   int
	Quantity int64
	Rate     *decimal.Decimal
}

// GoodsReceiptRequest is the input for recording a supplier delivery.
type GoodsReceiptRequest struct {
	PONumber         int
	ItemID           int
	InvoiceNumber    string
	ReceivedQuantity int64
	AcceptedQuantity int64
	RejectedQuantity int64
	ReceiptDate      string // YYYY-MM-DD; empty means today
	Notes            string
}
