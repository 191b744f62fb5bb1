package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Item is a product in the item master. Rates are tax-exclusive; the matching
// price fields are tax-inclusive and derived as rate × (1 + gst/100) when the
// item is saved. All order-line arithmetic starts from the rate.
type Item struct {
	ID                 int
	Name               string
	Description        string
	Category           string
	UnitOfMeasure      string
	PurchaseRate       decimal.Decimal
	PurchaseGSTPercent decimal.Decimal
	PurchasePrice      decimal.Decimal
	SellingRate        decimal.Decimal
	SellingGSTPercent  decimal.Decimal
	SellingPrice       decimal.Decimal
	HSNCode            string
	CreatedAt          time.Time
}

// ItemInput holds the fields required to create or update an item.
type ItemInput struct {
	Name               string
	Description        string
	Category           string
	UnitOfMeasure      string
	PurchaseRate       decimal.Decimal
	PurchaseGSTPercent decimal.Decimal
	SellingRate        decimal.Decimal
	SellingGSTPercent  decimal.Decimal
	HSNCode            string
	// Inventory fields, applied to the item's inventory record on create.
	OpeningStock int64
	ReorderLevel int64
	Location     string
}

// Supplier is a vendor in the supplier master.
type Supplier struct {
	ID            int
	Name          string
	ContactPerson string
	Phone         string
	Email         string
	Address       string
	GSTIN         string
	PaymentTerms  string
	CreatedAt     time.Time
}

// SupplierInput holds the fields required to create or update a supplier.
type SupplierInput struct {
	Name          string
	ContactPerson string
	Phone         string
	Email         string
	Address       string
	GSTIN         string
	PaymentTerms  string
}

// Customer is a buyer in the customer master. CreditLimit is advisory only;
// nothing enforces it.
type Customer struct {
	ID            int
	Name          string
	ContactPerson string
	Phone         string
	Email         string
	Address       string
	GSTIN         string
	CreditLimit   decimal.Decimal
	PaymentTerms  string
	CreatedAt     time.Time
}

// CustomerInput holds the fields required to create or update a customer.
type CustomerInput struct {
	Name          string
	ContactPerson string
	Phone         string
	Email         string
	Address       string
	GSTIN         string
	CreditLimit   decimal.Decimal
	PaymentTerms  string
}

// ItemService manages the item master and its 1:1 inventory records.
type ItemService interface {
	// CreateItem inserts the item and its inventory record in one transaction.
	CreateItem(ctx context.Context, input ItemInput) (*Item, error)
	// UpdateItem replaces the item's master-data fields and re-derives the
	// tax-inclusive prices. Inventory quantity is not touched; use
	// InventoryService.AdjustStock for corrections.
	UpdateItem(ctx context.Context, itemID int, input ItemInput) (*Item, error)
	// DeleteItem removes the item and its inventory record, refusing with a
	// ReferentialIntegrityError while any order line or receipt references it.
	DeleteItem(ctx context.Context, itemID int) error
	GetItem(ctx context.Context, itemID int) (*Item, error)
	ListItems(ctx context.Context) ([]Item, error)
}

// SupplierService manages the supplier master.
type SupplierService interface {
	CreateSupplier(ctx context.Context, input SupplierInput) (*Supplier, error)
	UpdateSupplier(ctx context.Context, supplierID int, input SupplierInput) (*Supplier, error)
	// DeleteSupplier refuses with a ReferentialIntegrityError while any
	// purchase order or goods receipt references the supplier.
	DeleteSupplier(ctx context.Context, supplierID int) error
	GetSupplier(ctx context.Context, supplierID int) (*Supplier, error)
	ListSuppliers(ctx context.Context) ([]Supplier, error)
}

// CustomerService manages the customer master.
type CustomerService interface {
	CreateCustomer(ctx context.Context, input CustomerInput) (*Customer, error)
	UpdateCustomer(ctx context.Context, customerID int, input CustomerInput) (*Customer, error)
	// DeleteCustomer refuses with a ReferentialIntegrityError while any
	// sales order or invoice references the customer.
	DeleteCustomer(ctx context.Context, customerID int) error
	GetCustomer(ctx context.Context, customerID int) (*Customer, error)
	ListCustomers(ctx context.Context) ([]Customer, error)
}
