package core_test

import (
	"context"
	"errors"
	"testing"

	"tradeledger/internal/core"
)

func TestSalesOrder_CreateShipsStock(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	item := createTestItem(t, pool, "Router", 20)
	customer := createTestCustomer(t, pool, "Retail Mart")
	inv := core.NewInventoryService(pool)
	svc := core.NewSalesOrderService(pool, inv)

	// Selling rate 150 @ 18%, qty 4: 600 + 108 = 708.
	so, err := svc.CreateSalesOrder(ctx, customer.ID, testDate(t, "2024-05-01"), nil,
		[]core.SalesOrderLineInput{{ItemID: item.ID, Quantity: 4}})
	if err != nil {
		t.Fatalf("CreateSalesOrder: %v", err)
	}

	if so.Status != core.SOStatusCompleted {
		t.Errorf("status = %q, want Completed", so.Status)
	}
	if !so.Subtotal.Equal(dec("600")) {
		t.Errorf("subtotal = %s, want 600", so.Subtotal)
	}
	if !so.TotalGST.Equal(dec("108")) {
		t.Errorf("total GST = %s, want 108", so.TotalGST)
	}
	if !so.TotalAmount.Equal(dec("708")) {
		t.Errorf("total = %s, want 708", so.TotalAmount)
	}

	level, err := inv.GetStockLevel(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetStockLevel: %v", err)
	}
	if level.QuantityOnHand != 16 {
		t.Errorf("stock = %d after sale, want 16", level.QuantityOnHand)
	}
}

func TestSalesOrder_InsufficientStockRollsBackWholeOrder(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	plenty := createTestItem(t, pool, "Router", 50)
	scarce := createTestItem(t, pool, "Switch", 2)
	customer := createTestCustomer(t, pool, "Retail Mart")
	inv := core.NewInventoryService(pool)
	svc := core.NewSalesOrderService(pool, inv)

	_, err := svc.CreateSalesOrder(ctx, customer.ID, testDate(t, "2024-05-01"), nil,
		[]core.SalesOrderLineInput{
			{ItemID: plenty.ID, Quantity: 10},
			{ItemID: scarce.ID, Quantity: 5},
		})
	var stockErr *core.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if stockErr.ItemID != scarce.ID {
		t.Errorf("failing item = %d, want %d", stockErr.ItemID, scarce.ID)
	}

	// The first line's decrement must have rolled back too.
	level, err := inv.GetStockLevel(ctx, plenty.ID)
	if err != nil {
		t.Fatalf("GetStockLevel: %v", err)
	}
	if level.QuantityOnHand != 50 {
		t.Errorf("stock = %d after rollback, want 50", level.QuantityOnHand)
	}

	orders, err := svc.ListSalesOrders(ctx, "")
	if err != nil {
		t.Fatalf("ListSalesOrders: %v", err)
	}
	if len(orders) != 0 {
		t.Errorf("orders = %d after rollback, want 0", len(orders))
	}
}

func TestSalesOrder_GenerateInvoice(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	item := createTestItem(t, pool, "Router", 20)
	customer := createTestCustomer(t, pool, "Retail Mart")
	svc := core.NewSalesOrderService(pool, core.NewInventoryService(pool))

	so, err := svc.CreateSalesOrder(ctx, customer.ID, testDate(t, "2024-05-01"), nil,
		[]core.SalesOrderLineInput{{ItemID: item.ID, Quantity: 2}})
	if err != nil {
		t.Fatalf("CreateSalesOrder: %v", err)
	}

	invc, err := svc.GenerateInvoice(ctx, so.SONumber, testDate(t, "2024-05-03"))
	if err != nil {
		t.Fatalf("GenerateInvoice: %v", err)
	}

	// Amounts are copied from the order, never recomputed.
	if !invc.TotalAmount.Equal(so.TotalAmount) {
		t.Errorf("invoice total = %s, want order total %s", invc.TotalAmount, so.TotalAmount)
	}
	if invc.DueDate != "2024-06-02" {
		t.Errorf("due date = %s, want 2024-06-02 (invoice date + 30 days)", invc.DueDate)
	}
	if invc.Status != core.InvoiceStatusUnpaid {
		t.Errorf("status = %q, want Unpaid", invc.Status)
	}

	got, err := svc.GetSalesOrder(ctx, so.SONumber)
	if err != nil {
		t.Fatalf("GetSalesOrder: %v", err)
	}
	if got.Status != core.SOStatusInvoiced {
		t.Errorf("order status = %q after invoicing, want Invoiced", got.Status)
	}

	// Second invoice for the same order is refused with the existing id.
	_, err = svc.GenerateInvoice(ctx, so.SONumber, testDate(t, "2024-05-04"))
	var dupErr *core.DuplicateInvoiceError
	if !errors.As(err, &dupErr) {
		t.Fatalf("expected DuplicateInvoiceError, got %v", err)
	}
	if dupErr.InvoiceID != invc.InvoiceID {
		t.Errorf("duplicate error carries invoice %d, want %d", dupErr.InvoiceID, invc.InvoiceID)
	}
}

func TestSalesOrder_MarkInvoicePaidIsIdempotent(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	item := createTestItem(t, pool, "Router", 20)
	customer := createTestCustomer(t, pool, "Retail Mart")
	svc := core.NewSalesOrderService(pool, core.NewInventoryService(pool))

	so, err := svc.CreateSalesOrder(ctx, customer.ID, testDate(t, "2024-05-01"), nil,
		[]core.SalesOrderLineInput{{ItemID: item.ID, Quantity: 1}})
	if err != nil {
		t.Fatalf("CreateSalesOrder: %v", err)
	}
	invc, err := svc.GenerateInvoice(ctx, so.SONumber, testDate(t, "2024-05-03"))
	if err != nil {
		t.Fatalf("GenerateInvoice: %v", err)
	}

	if err := svc.MarkInvoicePaid(ctx, invc.InvoiceID); err != nil {
		t.Fatalf("MarkInvoicePaid: %v", err)
	}
	// Paying twice is a no-op, not an error.
	if err := svc.MarkInvoicePaid(ctx, invc.InvoiceID); err != nil {
		t.Fatalf("MarkInvoicePaid (repeat): %v", err)
	}

	got, err := svc.GetInvoice(ctx, invc.InvoiceID)
	if err != nil {
		t.Fatalf("GetInvoice: %v", err)
	}
	if got.Status != core.InvoiceStatusPaid {
		t.Errorf("status = %q, want Paid", got.Status)
	}

	var nfErr *core.NotFoundError
	if err := svc.MarkInvoicePaid(ctx, 9999); !errors.As(err, &nfErr) {
		t.Errorf("expected NotFoundError for unknown invoice, got %v", err)
	}
}

func TestSalesOrder_DeleteRestoresStock(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	item := createTestItem(t, pool, "Router", 20)
	customer := createTestCustomer(t, pool, "Retail Mart")
	inv := core.NewInventoryService(pool)
	svc := core.NewSalesOrderService(pool, inv)

	so, err := svc.CreateSalesOrder(ctx, customer.ID, testDate(t, "2024-05-01"), nil,
		[]core.SalesOrderLineInput{{ItemID: item.ID, Quantity: 6}})
	if err != nil {
		t.Fatalf("CreateSalesOrder: %v", err)
	}

	if err := svc.DeleteSalesOrder(ctx, so.SONumber); err != nil {
		t.Fatalf("DeleteSalesOrder: %v", err)
	}

	level, err := inv.GetStockLevel(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetStockLevel: %v", err)
	}
	if level.QuantityOnHand != 20 {
		t.Errorf("stock = %d after delete, want 20 restored", level.QuantityOnHand)
	}
}

func TestSalesOrder_DeleteGuardedByInvoice(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	item := createTestItem(t, pool, "Router", 20)
	customer := createTestCustomer(t, pool, "Retail Mart")
	svc := core.NewSalesOrderService(pool, core.NewInventoryService(pool))

	so, err := svc.CreateSalesOrder(ctx, customer.ID, testDate(t, "2024-05-01"), nil,
		[]core.SalesOrderLineInput{{ItemID: item.ID, Quantity: 2}})
	if err != nil {
		t.Fatalf("CreateSalesOrder: %v", err)
	}
	if _, err := svc.GenerateInvoice(ctx, so.SONumber, testDate(t, "2024-05-03")); err != nil {
		t.Fatalf("GenerateInvoice: %v", err)
	}

	err = svc.DeleteSalesOrder(ctx, so.SONumber)
	var refErr *core.ReferentialIntegrityError
	if !errors.As(err, &refErr) {
		t.Fatalf("expected ReferentialIntegrityError, got %v", err)
	}
	if refErr.References["invoices"] != 1 {
		t.Errorf("references = %v, want 1 invoices", refErr.References)
	}
}
