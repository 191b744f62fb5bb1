package app

import (
	"context"
	"fmt"
	"time"

	"tradeledger/internal/core"
)

type appService struct {
	companyService   core.CompanyService
	itemService      core.ItemService
	supplierService  core.SupplierService
	customerService  core.CustomerService
	inventoryService core.InventoryService
	purchaseService  core.PurchaseOrderService
	salesService     core.SalesOrderService
	dashboardService core.DashboardService
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	companyService core.CompanyService,
	itemService core.ItemService,
	supplierService core.SupplierService,
	customerService core.CustomerService,
	inventoryService core.InventoryService,
	purchaseService core.PurchaseOrderService,
	salesService core.SalesOrderService,
	dashboardService core.DashboardService,
) ApplicationService {
	return &appService{
		companyService:   companyService,
		itemService:      itemService,
		supplierService:  supplierService,
		customerService:  customerService,
		inventoryService: inventoryService,
		purchaseService:  purchaseService,
		salesService:     salesService,
		dashboardService: dashboardService,
	}
}

// parseDate parses a YYYY-MM-DD request date; empty means today.
func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Now(), nil
	}
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, &core.ValidationError{
			Field:  field,
			Reason: fmt.Sprintf("must be YYYY-MM-DD, got %q", value),
		}
	}
	return d, nil
}

// parseOptionalDate parses a YYYY-MM-DD request date; empty means unset.
func parseOptionalDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	d, err := parseDate(field, value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ── Company ──────────────────────────────────────────────────────────────────

func (s *appService) CompanyExists(ctx context.Context) (bool, error) {
	return s.companyService.CompanyExists(ctx)
}

func (s *appService) GetCompanyDetails(ctx context.Context) (*core.CompanyDetails, error) {
	return s.companyService.GetCompanyDetails(ctx)
}

func (s *appService) SaveCompanyDetails(ctx context.Context, req SaveCompanyRequest) error {
	return s.companyService.SaveCompanyDetails(ctx, core.CompanyDetails{
		CompanyName:        req.CompanyName,
		LegalName:          req.LegalName,
		GSTIN:              req.GSTIN,
		PAN:                req.PAN,
		AddressLine1:       req.AddressLine1,
		AddressLine2:       req.AddressLine2,
		City:               req.City,
		State:              req.State,
		Pincode:            req.Pincode,
		Country:            req.Country,
		Phone:              req.Phone,
		Email:              req.Email,
		Website:            req.Website,
		FinancialYearStart: req.FinancialYearStart,
	})
}

// ── Item master ──────────────────────────────────────────────────────────────

func itemInput(req ItemRequest) core.ItemInput {
	return core.ItemInput{
		Name:               req.Name,
		Description:        req.Description,
		Category:           req.Category,
		UnitOfMeasure:      req.UnitOfMeasure,
		PurchaseRate:       req.PurchaseRate,
		PurchaseGSTPercent: req.PurchaseGSTPercent,
		SellingRate:        req.SellingRate,
		SellingGSTPercent:  req.SellingGSTPercent,
		HSNCode:            req.HSNCode,
		OpeningStock:       req.OpeningStock,
		ReorderLevel:       req.ReorderLevel,
		Location:           req.Location,
	}
}

func (s *appService) CreateItem(ctx context.Context, req ItemRequest) (*ItemResult, error) {
	item, err := s.itemService.CreateItem(ctx, itemInput(req))
	if err != nil {
		return nil, err
	}
	return &ItemResult{Item: item}, nil
}

func (s *appService) UpdateItem(ctx context.Context, itemID int, req ItemRequest) (*ItemResult, error) {
	item, err := s.itemService.UpdateItem(ctx, itemID, itemInput(req))
	if err != nil {
		return nil, err
	}
	return &ItemResult{Item: item}, nil
}

func (s *appService) DeleteItem(ctx context.Context, itemID int) error {
	return s.itemService.DeleteItem(ctx, itemID)
}

func (s *appService) GetItem(ctx context.Context, itemID int) (*ItemResult, error) {
	item, err := s.itemService.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return &ItemResult{Item: item}, nil
}

func (s *appService) ListItems(ctx context.Context) (*ItemListResult, error) {
	items, err := s.itemService.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	return &ItemListResult{Items: items}, nil
}

// ── Partners ─────────────────────────────────────────────────────────────────

func supplierInput(req SupplierRequest) core.SupplierInput {
	return core.SupplierInput{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		GSTIN:         req.GSTIN,
		PaymentTerms:  req.PaymentTerms,
	}
}

func (s *appService) CreateSupplier(ctx context.Context, req SupplierRequest) (*SupplierResult, error) {
	supplier, err := s.supplierService.CreateSupplier(ctx, supplierInput(req))
	if err != nil {
		return nil, err
	}
	return &SupplierResult{Supplier: supplier}, nil
}

func (s *appService) UpdateSupplier(ctx context.Context, supplierID int, req SupplierRequest) (*SupplierResult, error) {
	supplier, err := s.supplierService.UpdateSupplier(ctx, supplierID, supplierInput(req))
	if err != nil {
		return nil, err
	}
	return &SupplierResult{Supplier: supplier}, nil
}

func (s *appService) DeleteSupplier(ctx context.Context, supplierID int) error {
	return s.supplierService.DeleteSupplier(ctx, supplierID)
}

func (s *appService) GetSupplier(ctx context.Context, supplierID int) (*SupplierResult, error) {
	supplier, err := s.supplierService.GetSupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	return &SupplierResult{Supplier: supplier}, nil
}

func (s *appService) ListSuppliers(ctx context.Context) (*SupplierListResult, error) {
	suppliers, err := s.supplierService.ListSuppliers(ctx)
	if err != nil {
		return nil, err
	}
	return &SupplierListResult{Suppliers: suppliers}, nil
}

func customerInput(req CustomerRequest) core.CustomerInput {
	return core.CustomerInput{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		GSTIN:         req.GSTIN,
		CreditLimit:   req.CreditLimit,
		PaymentTerms:  req.PaymentTerms,
	}
}

func (s *appService) CreateCustomer(ctx context.Context, req CustomerRequest) (*CustomerResult, error) {
	customer, err := s.customerService.CreateCustomer(ctx, customerInput(req))
	if err != nil {
		return nil, err
	}
	return &CustomerResult{Customer: customer}, nil
}

func (s *appService) UpdateCustomer(ctx context.Context, customerID int, req CustomerRequest) (*CustomerResult, error) {
	customer, err := s.customerService.UpdateCustomer(ctx, customerID, customerInput(req))
	if err != nil {
		return nil, err
	}
	return &CustomerResult{Customer: customer}, nil
}

func (s *appService) DeleteCustomer(ctx context.Context, customerID int) error {
	return s.customerService.DeleteCustomer(ctx, customerID)
}

func (s *appService) GetCustomer(ctx context.Context, customerID int) (*CustomerResult, error) {
	customer, err := s.customerService.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return &CustomerResult{Customer: customer}, nil
}

func (s *appService) ListCustomers(ctx context.Context) (*CustomerListResult, error) {
	customers, err := s.customerService.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}
	return &CustomerListResult{Customers: customers}, nil
}

// ── Inventory ────────────────────────────────────────────────────────────────

func (s *appService) GetStockLevels(ctx context.Context) (*StockResult, error) {
	levels, err := s.inventoryService.GetStockLevels(ctx)
	if err != nil {
		return nil, err
	}
	return &StockResult{Levels: levels}, nil
}

func (s *appService) GetStockLevel(ctx context.Context, itemID int) (*core.StockLevel, error) {
	return s.inventoryService.GetStockLevel(ctx, itemID)
}

func (s *appService) LowStockReport(ctx context.Context) (*LowStockResult, error) {
	items, err := s.inventoryService.LowStockReport(ctx)
	if err != nil {
		return nil, err
	}
	return &LowStockResult{Items: items}, nil
}

func (s *appService) AdjustStock(ctx context.Context, itemID int, newQuantity int64) error {
	return s.inventoryService.AdjustStock(ctx, itemID, newQuantity)
}

// ── Purchasing ───────────────────────────────────────────────────────────────

func orderLines(reqLines []OrderLineRequest) []core.PurchaseOrderLineInput {
	lines := make([]core.PurchaseOrderLineInput, len(reqLines))
	for i, l := range reqLines {
		lines[i] = core.PurchaseOrderLineInput{ItemID: l.ItemID, Quantity: l.Quantity, Rate: l.Rate}
	}
	return lines
}

func (s *appService) CreatePurchaseOrder(ctx context.Context, req CreatePurchaseOrderRequest) (*PurchaseOrderResult, error) {
	orderDate, err := parseDate("order_date", req.OrderDate)
	if err != nil {
		return nil, err
	}
	expected, err := parseOptionalDate("expected_delivery", req.ExpectedDelivery)
	if err != nil {
		return nil, err
	}

	order, err := s.purchaseService.CreatePurchaseOrder(ctx, req.SupplierID, orderDate, expected, orderLines(req.Lines))
	if err != nil {
		return nil, err
	}
	return &PurchaseOrderResult{Order: order}, nil
}

func (s *appService) GetPurchaseOrder(ctx context.Context, poNumber int) (*PurchaseOrderResult, error) {
	order, err := s.purchaseService.GetPurchaseOrder(ctx, poNumber)
	if err != nil {
		return nil, err
	}
	return &PurchaseOrderResult{Order: order}, nil
}

func (s *appService) ListPurchaseOrders(ctx context.Context, status string) (*PurchaseOrderListResult, error) {
	orders, err := s.purchaseService.ListPurchaseOrders(ctx, status)
	if err != nil {
		return nil, err
	}
	return &PurchaseOrderListResult{Orders: orders}, nil
}

func (s *appService) DeletePurchaseOrder(ctx context.Context, poNumber int) error {
	return s.purchaseService.DeletePurchaseOrder(ctx, poNumber)
}

func (s *appService) RecordGoodsReceipt(ctx context.Context, req GoodsReceiptRequest) (*GoodsReceiptResult, error) {
	receiptDate, err := parseDate("receipt_date", req.ReceiptDate)
	if err != nil {
		return nil, err
	}

	receipt, err := s.purchaseService.RecordGoodsReceipt(ctx, core.GoodsReceiptInput{
		PONumber:         req.PONumber,
		ItemID:           req.ItemID,
		InvoiceNumber:    req.InvoiceNumber,
		ReceivedQuantity: req.ReceivedQuantity,
		AcceptedQuantity: req.AcceptedQuantity,
		RejectedQuantity: req.RejectedQuantity,
		ReceiptDate:      receiptDate,
		Notes:            req.Notes,
	})
	if err != nil {
		return nil, err
	}

	order, err := s.purchaseService.GetPurchaseOrder(ctx, req.PONumber)
	if err != nil {
		return nil, err
	}
	return &GoodsReceiptResult{Receipt: receipt, Order: order}, nil
}

func (s *appService) ListGoodsReceipts(ctx context.Context, poNumber int) (*GoodsReceiptListResult, error) {
	receipts, err := s.purchaseService.ListGoodsReceipts(ctx, poNumber)
	if err != nil {
		return nil, err
	}
	return &GoodsReceiptListResult{Receipts: receipts}, nil
}

// ── Sales ────────────────────────────────────────────────────────────────────

func (s *appService) CreateSalesOrder(ctx context.Context, req CreateSalesOrderRequest) (*SalesOrderResult, error) {
	orderDate, err := parseDate("order_date", req.OrderDate)
	if err != nil {
		return nil, err
	}
	delivery, err := parseOptionalDate("delivery_date", req.DeliveryDate)
	if err != nil {
		return nil, err
	}

	lines := make([]core.SalesOrderLineInput, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = core.SalesOrderLineInput{ItemID: l.ItemID, Quantity: l.Quantity, Rate: l.Rate}
	}

	order, err := s.salesService.CreateSalesOrder(ctx, req.CustomerID, orderDate, delivery, lines)
	if err != nil {
		return nil, err
	}
	return &SalesOrderResult{Order: order}, nil
}

func (s *appService) GetSalesOrder(ctx context.Context, soNumber int) (*SalesOrderResult, error) {
	order, err := s.salesService.GetSalesOrder(ctx, soNumber)
	if err != nil {
		return nil, err
	}
	return &SalesOrderResult{Order: order}, nil
}

func (s *appService) ListSalesOrders(ctx context.Context, status string) (*SalesOrderListResult, error) {
	orders, err := s.salesService.ListSalesOrders(ctx, status)
	if err != nil {
		return nil, err
	}
	return &SalesOrderListResult{Orders: orders}, nil
}

func (s *appService) DeleteSalesOrder(ctx context.Context, soNumber int) error {
	return s.salesService.DeleteSalesOrder(ctx, soNumber)
}

func (s *appService) GenerateInvoice(ctx context.Context, soNumber int, invoiceDate string) (*InvoiceResult, error) {
	date, err := parseDate("invoice_date", invoiceDate)
	if err != nil {
		return nil, err
	}
	invoice, err := s.salesService.GenerateInvoice(ctx, soNumber, date)
	if err != nil {
		return nil, err
	}
	return &InvoiceResult{Invoice: invoice}, nil
}

func (s *appService) MarkInvoicePaid(ctx context.Context, invoiceID int) error {
	return s.salesService.MarkInvoicePaid(ctx, invoiceID)
}

func (s *appService) GetInvoice(ctx context.Context, invoiceID int) (*InvoiceResult, error) {
	invoice, err := s.salesService.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return &InvoiceResult{Invoice: invoice}, nil
}

func (s *appService) ListInvoices(ctx context.Context, status string) (*InvoiceListResult, error) {
	invoices, err := s.salesService.ListInvoices(ctx, status)
	if err != nil {
		return nil, err
	}
	return &InvoiceListResult{Invoices: invoices}, nil
}

// ── Dashboard ────────────────────────────────────────────────────────────────

func (s *appService) GetDashboard(ctx context.Context) (*core.DashboardSummary, error) {
	return s.dashboardService.GetSummary(ctx)
}
