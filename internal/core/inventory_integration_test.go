package core_test

import (
	"context"
	"errors"
	"testing"

	"tradeledger/internal/core"
)

func TestInventory_AdjustStock(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	item := createTestItem(t, pool, "Router", 12)
	inv := core.NewInventoryService(pool)

	if err := inv.AdjustStock(ctx, item.ID, 7); err != nil {
		t.Fatalf("AdjustStock: %v", err)
	}
	level, err := inv.GetStockLevel(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetStockLevel: %v", err)
	}
	if level.QuantityOnHand != 7 {
		t.Errorf("quantity = %d, want 7", level.QuantityOnHand)
	}

	var verr *core.ValidationError
	if err := inv.AdjustStock(ctx, item.ID, -1); !errors.As(err, &verr) {
		t.Errorf("expected ValidationError for negative adjustment, got %v", err)
	}

	var nfErr *core.NotFoundError
	if err := inv.AdjustStock(ctx, 9999, 5); !errors.As(err, &nfErr) {
		t.Errorf("expected NotFoundError for unknown item, got %v", err)
	}
}

func TestInventory_ShipStockTxGuardsNegativeStock(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	item := createTestItem(t, pool, "Router", 3)
	inv := core.NewInventoryService(pool)

	tx, err := pool.Begin(ctx)
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}
	defer tx.Rollback(ctx)

	err = inv.ShipStockTx(ctx, tx, item.ID, 5)
	var stockErr *core.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if stockErr.Available != 3 || stockErr.Requested != 5 {
		t.Errorf("error fields = %+v, want available 3 requested 5", stockErr)
	}
	tx.Rollback(ctx)

	// Inventory untouched after the refused shipment.
	level, err := inv.GetStockLevel(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetStockLevel: %v", err)
	}
	if level.QuantityOnHand != 3 {
		t.Errorf("quantity = %d after refused shipment, want 3", level.QuantityOnHand)
	}
}

func TestInventory_LowStockReport(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	// Reorder level is 10 in the test fixture.
	low := createTestItem(t, pool, "Router", 4)
	createTestItem(t, pool, "Switch", 40)
	atLevel := createTestItem(t, pool, "Cable", 10)

	report, err := core.NewInventoryService(pool).LowStockReport(ctx)
	if err != nil {
		t.Fatalf("LowStockReport: %v", err)
	}
	if len(report) != 2 {
		t.Fatalf("report rows = %d, want 2 (below and at reorder level)", len(report))
	}

	// Largest shortfall first.
	if report[0].ItemID != low.ID {
		t.Errorf("first row item = %d, want %d", report[0].ItemID, low.ID)
	}
	// 2 × 10 − 4
	if report[0].SuggestedReorder != 16 {
		t.Errorf("suggested reorder = %d, want 16", report[0].SuggestedReorder)
	}
	if report[1].ItemID != atLevel.ID {
		t.Errorf("second row item = %d, want %d", report[1].ItemID, atLevel.ID)
	}
	if report[1].SuggestedReorder != 10 {
		t.Errorf("suggested reorder at level = %d, want 10", report[1].SuggestedReorder)
	}
}

func TestInventory_GetStockLevels(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	createTestItem(t, pool, "Router", 5)
	createTestItem(t, pool, "Cable", 8)

	levels, err := core.NewInventoryService(pool).GetStockLevels(ctx)
	if err != nil {
		t.Fatalf("GetStockLevels: %v", err)
	}
	if len(levels) != 2 {
		t.Fatalf("levels = %d, want 2", len(levels))
	}
	// Ordered by item name.
	if levels[0].ItemName != "Cable" || levels[1].ItemName != "Router" {
		t.Errorf("unexpected order: %q, %q", levels[0].ItemName, levels[1].ItemName)
	}
}
