package core_test

import (
	"context"
	"testing"

	"tradeledger/internal/core"
)

func TestDashboard_Summary(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	router := createTestItem(t, pool, "Router", 20)
	createTestItem(t, pool, "Switch", 3) // below reorder level 10
	supplier := createTestSupplier(t, pool, "Acme Traders")
	customer := createTestCustomer(t, pool, "Retail Mart")

	inv := core.NewInventoryService(pool)
	poSvc := core.NewPurchaseOrderService(pool, inv)
	soSvc := core.NewSalesOrderService(pool, inv)

	// Purchase: 5 × 100 @ 18% = 500 + 90 GST.
	if _, err := poSvc.CreatePurchaseOrder(ctx, supplier.ID, testDate(t, "2024-04-01"), nil,
		[]core.PurchaseOrderLineInput{{ItemID: router.ID, Quantity: 5}}); err != nil {
		t.Fatalf("CreatePurchaseOrder: %v", err)
	}

	// Sale: 4 × 150 @ 18% = 600 + 108 GST, then invoice it.
	so, err := soSvc.CreateSalesOrder(ctx, customer.ID, testDate(t, "2024-05-01"), nil,
		[]core.SalesOrderLineInput{{ItemID: router.ID, Quantity: 4}})
	if err != nil {
		t.Fatalf("CreateSalesOrder: %v", err)
	}
	if _, err := soSvc.GenerateInvoice(ctx, so.SONumber, testDate(t, "2024-05-02")); err != nil {
		t.Fatalf("GenerateInvoice: %v", err)
	}

	sum, err := core.NewDashboardService(pool).GetSummary(ctx)
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}

	if sum.ItemCount != 2 {
		t.Errorf("item count = %d, want 2", sum.ItemCount)
	}
	if sum.LowStockCount != 1 {
		t.Errorf("low stock count = %d, want 1", sum.LowStockCount)
	}
	// 20 − 4 sold + 3
	if sum.TotalUnitsHeld != 19 {
		t.Errorf("total units = %d, want 19", sum.TotalUnitsHeld)
	}
	if sum.PurchaseOrderCount != 1 || sum.PendingPOCount != 1 {
		t.Errorf("PO counts = %d/%d, want 1/1", sum.PurchaseOrderCount, sum.PendingPOCount)
	}
	if !sum.TotalPurchaseValue.Equal(dec("590")) {
		t.Errorf("purchase value = %s, want 590", sum.TotalPurchaseValue)
	}
	if sum.SalesOrderCount != 1 || sum.PendingSOCount != 0 {
		t.Errorf("SO counts = %d/%d, want 1/0", sum.SalesOrderCount, sum.PendingSOCount)
	}
	if !sum.TotalSalesValue.Equal(dec("708")) {
		t.Errorf("sales value = %s, want 708", sum.TotalSalesValue)
	}
	if sum.InvoiceCount != 1 || sum.UnpaidInvoiceCount != 1 {
		t.Errorf("invoice counts = %d/%d, want 1/1", sum.InvoiceCount, sum.UnpaidInvoiceCount)
	}
	if !sum.UnpaidInvoiceValue.Equal(dec("708")) {
		t.Errorf("unpaid value = %s, want 708", sum.UnpaidInvoiceValue)
	}

	// Output 108 − input 90 = 18 net liability.
	if !sum.GST.OutputGST.Equal(dec("108")) {
		t.Errorf("output GST = %s, want 108", sum.GST.OutputGST)
	}
	if !sum.GST.InputGST.Equal(dec("90")) {
		t.Errorf("input GST = %s, want 90", sum.GST.InputGST)
	}
	if !sum.GST.NetLiability.Equal(dec("18")) {
		t.Errorf("net liability = %s, want 18", sum.GST.NetLiability)
	}
}
