package core_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"tradeledger/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func testDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func setupTestDB(t *testing.T) *pgxpool.Pool {
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	// Set TEST_DATABASE_URL in your .env or environment to run integration tests.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE goods_receipts, purchase_order_items, purchase_orders,
		               invoices, sales_order_items, sales_orders,
		               inventory, items, suppliers, customers, company_details
		RESTART IDENTITY CASCADE;
	`)
	if err != nil {
		t.Fatalf("Failed to clean test database: %v", err)
	}

	return pool
}

func createTestItem(t *testing.T, pool *pgxpool.Pool, name string, openingStock int64) *core.Item {
	t.Helper()
	item, err := core.NewItemService(pool).CreateItem(context.Background(), core.ItemInput{
		Name:               name,
		Category:           "Electronics",
		UnitOfMeasure:      "Nos",
		PurchaseRate:       dec("100"),
		PurchaseGSTPercent: dec("18"),
		SellingRate:        dec("150"),
		SellingGSTPercent:  dec("18"),
		HSNCode:            "8517",
		OpeningStock:       openingStock,
		ReorderLevel:       10,
		Location:           "Main Store",
	})
	if err != nil {
		t.Fatalf("createTestItem(%s): %v", name, err)
	}
	return item
}

func createTestSupplier(t *testing.T, pool *pgxpool.Pool, name string) *core.Supplier {
	t.Helper()
	sp, err := core.NewSupplierService(pool).CreateSupplier(context.Background(), core.SupplierInput{
		Name:         name,
		Phone:        "9876543210",
		GSTIN:        "27AAAAA0000A1Z5",
		PaymentTerms: "Net 30",
	})
	if err != nil {
		t.Fatalf("createTestSupplier(%s): %v", name, err)
	}
	return sp
}

func createTestCustomer(t *testing.T, pool *pgxpool.Pool, name string) *core.Customer {
	t.Helper()
	c, err := core.NewCustomerService(pool).CreateCustomer(context.Background(), core.CustomerInput{
		Name:        name,
		Phone:       "9123456780",
		GSTIN:       "29BBBBB1111B2Z6",
		CreditLimit: dec("50000"),
	})
	if err != nil {
		t.Fatalf("createTestCustomer(%s): %v", name, err)
	}
	return c
}

func TestItemService_CreateDerivesPricesAndInventory(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	item := createTestItem(t, pool, "Router", 25)

	// 100 × 1.18 and 150 × 1.18
	if !item.PurchasePrice.Equal(dec("118")) {
		t.Errorf("purchase price = %s, want 118", item.PurchasePrice)
	}
	if !item.SellingPrice.Equal(dec("177")) {
		t.Errorf("selling price = %s, want 177", item.SellingPrice)
	}

	level, err := core.NewInventoryService(pool).GetStockLevel(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetStockLevel: %v", err)
	}
	if level.QuantityOnHand != 25 {
		t.Errorf("opening stock = %d, want 25", level.QuantityOnHand)
	}
	if level.ReorderLevel != 10 {
		t.Errorf("reorder level = %d, want 10", level.ReorderLevel)
	}
}

func TestItemService_UpdateRederivesPrices(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	item := createTestItem(t, pool, "Switch", 0)

	svc := core.NewItemService(pool)
	updated, err := svc.UpdateItem(ctx, item.ID, core.ItemInput{
		Name:               "Switch 8-port",
		PurchaseRate:       dec("200"),
		PurchaseGSTPercent: dec("12"),
		SellingRate:        dec("260"),
		SellingGSTPercent:  dec("12"),
		ReorderLevel:       5,
	})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if !updated.PurchasePrice.Equal(dec("224")) {
		t.Errorf("purchase price = %s, want 224", updated.PurchasePrice)
	}
	if !updated.SellingPrice.Equal(dec("291.2")) {
		t.Errorf("selling price = %s, want 291.2", updated.SellingPrice)
	}
}

func TestItemService_DeleteGuardedByOrderLines(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	item := createTestItem(t, pool, "Cable", 0)
	supplier := createTestSupplier(t, pool, "Acme Traders")

	inv := core.NewInventoryService(pool)
	poSvc := core.NewPurchaseOrderService(pool, inv)
	po, err := poSvc.CreatePurchaseOrder(ctx, supplier.ID, testDate(t, "2024-04-01"), nil,
		[]core.PurchaseOrderLineInput{{ItemID: item.ID, Quantity: 10}})
	if err != nil {
		t.Fatalf("CreatePurchaseOrder: %v", err)
	}

	svc := core.NewItemService(pool)
	err = svc.DeleteItem(ctx, item.ID)
	var refErr *core.ReferentialIntegrityError
	if !errors.As(err, &refErr) {
		t.Fatalf("expected ReferentialIntegrityError, got %v", err)
	}
	if refErr.References["purchase_order_items"] != 1 {
		t.Errorf("references = %v, want 1 purchase_order_items", refErr.References)
	}

	// Removing the order frees the item.
	if err := poSvc.DeletePurchaseOrder(ctx, po.PONumber); err != nil {
		t.Fatalf("DeletePurchaseOrder: %v", err)
	}
	if err := svc.DeleteItem(ctx, item.ID); err != nil {
		t.Fatalf("DeleteItem after order removal: %v", err)
	}
	if _, err := svc.GetItem(ctx, item.ID); err == nil {
		t.Errorf("item still present after delete")
	}
}

func TestSupplierService_DeleteGuard(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	item := createTestItem(t, pool, "Cable", 0)
	supplier := createTestSupplier(t, pool, "Acme Traders")

	inv := core.NewInventoryService(pool)
	poSvc := core.NewPurchaseOrderService(pool, inv)
	if _, err := poSvc.CreatePurchaseOrder(ctx, supplier.ID, testDate(t, "2024-04-01"), nil,
		[]core.PurchaseOrderLineInput{{ItemID: item.ID, Quantity: 4}}); err != nil {
		t.Fatalf("CreatePurchaseOrder: %v", err)
	}

	err := core.NewSupplierService(pool).DeleteSupplier(ctx, supplier.ID)
	var refErr *core.ReferentialIntegrityError
	if !errors.As(err, &refErr) {
		t.Fatalf("expected ReferentialIntegrityError, got %v", err)
	}
	if refErr.References["purchase_orders"] != 1 {
		t.Errorf("references = %v, want 1 purchase_orders", refErr.References)
	}
}

func TestCustomerService_CRUD(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	svc := core.NewCustomerService(pool)
	customer := createTestCustomer(t, pool, "Retail Mart")

	updated, err := svc.UpdateCustomer(ctx, customer.ID, core.CustomerInput{
		Name:        "Retail Mart Pvt Ltd",
		CreditLimit: dec("75000"),
	})
	if err != nil {
		t.Fatalf("UpdateCustomer: %v", err)
	}
	if updated.Name != "Retail Mart Pvt Ltd" {
		t.Errorf("name = %q after update", updated.Name)
	}
	if !updated.CreditLimit.Equal(dec("75000")) {
		t.Errorf("credit limit = %s, want 75000", updated.CreditLimit)
	}

	if err := svc.DeleteCustomer(ctx, customer.ID); err != nil {
		t.Fatalf("DeleteCustomer: %v", err)
	}
	var nfErr *core.NotFoundError
	if _, err := svc.GetCustomer(ctx, customer.ID); !errors.As(err, &nfErr) {
		t.Errorf("expected NotFoundError after delete, got %v", err)
	}
}

func TestCompanyService_SingletonUpsert(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	svc := core.NewCompanyService(pool)

	exists, err := svc.CompanyExists(ctx)
	if err != nil {
		t.Fatalf("CompanyExists: %v", err)
	}
	if exists {
		t.Fatalf("company details present in a clean database")
	}

	if err := svc.SaveCompanyDetails(ctx, core.CompanyDetails{
		CompanyName: "Sharma Electronics",
		GSTIN:       "27AAAAA0000A1Z5",
		City:        "Pune",
		State:       "Maharashtra",
	}); err != nil {
		t.Fatalf("SaveCompanyDetails (insert): %v", err)
	}

	// Second save updates the same row.
	if err := svc.SaveCompanyDetails(ctx, core.CompanyDetails{
		CompanyName: "Sharma Electronics Pvt Ltd",
		GSTIN:       "27AAAAA0000A1Z5",
		City:        "Pune",
		State:       "Maharashtra",
	}); err != nil {
		t.Fatalf("SaveCompanyDetails (update): %v", err)
	}

	details, err := svc.GetCompanyDetails(ctx)
	if err != nil {
		t.Fatalf("GetCompanyDetails: %v", err)
	}
	if details.CompanyName != "Sharma Electronics Pvt Ltd" {
		t.Errorf("company name = %q, want updated value", details.CompanyName)
	}
	if details.Country != "India" {
		t.Errorf("country = %q, want default India", details.Country)
	}
}
