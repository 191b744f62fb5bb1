package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type inventoryService struct {
	pool *pgxpool.Pool
}

func NewInventoryService(pool *pgxpool.Pool) InventoryService {
	return &inventoryService{pool: pool}
}

// ── Standalone operations ─────────────────────────────────────────────────────

func (s *inventoryService) GetStockLevels(ctx context.Context) ([]StockLevel, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT i.item_id, it.name, it.category, it.unit_of_measure,
		       i.quantity_on_hand, i.reorder_level, i.location, i.last_updated
		FROM inventory i
		JOIN items it ON it.item_id = i.item_id
		ORDER BY it.name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock levels: %w", err)
	}
	defer rows.Close()

	var levels []StockLevel
	for rows.Next() {
		var sl StockLevel
		if err := rows.Scan(
			&sl.ItemID, &sl.ItemName, &sl.Category, &sl.UnitOfMeasure,
			&sl.QuantityOnHand, &sl.ReorderLevel, &sl.Location, &sl.LastUpdated,
		); err != nil {
			return nil, fmt.Errorf("failed to scan stock level: %w", err)
		}
		levels = append(levels, sl)
	}
	return levels, rows.Err()
}

func (s *inventoryService) GetStockLevel(ctx context.Context, itemID int) (*StockLevel, error) {
	var sl StockLevel
	err := s.pool.QueryRow(ctx, `
		SELECT i.item_id, it.name, it.category, it.unit_of_measure,
		       i.quantity_on_hand, i.reorder_level, i.location, i.last_updated
		FROM inventory i
		JOIN items it ON it.item_id = i.item_id
		WHERE i.item_id = $1
	`, itemID).Scan(
		&sl.ItemID, &sl.ItemName, &sl.Category, &sl.UnitOfMeasure,
		&sl.QuantityOnHand, &sl.ReorderLevel, &sl.Location, &sl.LastUpdated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "item", ID: itemID}
		}
		return nil, fmt.Errorf("failed to fetch stock level for item %d: %w", itemID, err)
	}
	return &sl, nil
}

func (s *inventoryService) LowStockReport(ctx context.Context) ([]LowStockItem, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT i.item_id, it.name, i.quantity_on_hand, i.reorder_level
		FROM inventory i
		JOIN items it ON it.item_id = i.item_id
		WHERE i.quantity_on_hand <= i.reorder_level
		ORDER BY i.reorder_level - i.quantity_on_hand DESC, it.name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query low stock report: %w", err)
	}
	defer rows.Close()

	var report []LowStockItem
	for rows.Next() {
		var li LowStockItem
		if err := rows.Scan(&li.ItemID, &li.ItemName, &li.QuantityOnHand, &li.ReorderLevel); err != nil {
			return nil, fmt.Errorf("failed to scan low stock row: %w", err)
		}
		li.SuggestedReorder = 2*li.ReorderLevel - li.QuantityOnHand
		report = append(report, li)
	}
	return report, rows.Err()
}

// AdjustStock sets quantity on hand to an absolute value.
func (s *inventoryService) AdjustStock(ctx context.Context, itemID int, newQuantity int64) error {
	if newQuantity < 0 {
		return &ValidationError{
			Field:  "quantity_on_hand",
			Reason: fmt.Sprintf("must not be negative, got %d", newQuantity),
		}
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE inventory
		SET quantity_on_hand = $1, last_updated = NOW()
		WHERE item_id = $2
	`, newQuantity, itemID)
	if err != nil {
		return fmt.Errorf("failed to adjust stock for item %d: %w", itemID, err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Entity: "item", ID: itemID}
	}
	return nil
}

// ── TX-scoped operations ──────────────────────────────────────────────────────

func (s *inventoryService) ReceiveStockTx(ctx context.Context, tx pgx.Tx, itemID int, qty int64) error {
	if qty < 0 {
		return &ValidationError{
			Field:  "quantity",
			Reason: fmt.Sprintf("receive quantity must not be negative, got %d", qty),
		}
	}
	if qty == 0 {
		return nil
	}

	var onHand int64
	err := tx.QueryRow(ctx,
		"SELECT quantity_on_hand FROM inventory WHERE item_id = $1 FOR UPDATE",
		itemID,
	).Scan(&onHand)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &NotFoundError{Entity: "item", ID: itemID}
		}
		return fmt.Errorf("failed to lock inventory for item %d: %w", itemID, err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE inventory
		SET quantity_on_hand = quantity_on_hand + $1, last_updated = NOW()
		WHERE item_id = $2
	`, qty, itemID); err != nil {
		return fmt.Errorf("failed to receive stock for item %d: %w", itemID, err)
	}
	return nil
}

func (s *inventoryService) ShipStockTx(ctx context.Context, tx pgx.Tx, itemID int, qty int64) error {
	if qty <= 0 {
		return &ValidationError{
			Field:  "quantity",
			Reason: fmt.Sprintf("ship quantity must be positive, got %d", qty),
		}
	}

	// Lock before the level check so a concurrent shipment cannot pass the
	// same check against stale stock.
	var onHand int64
	err := tx.QueryRow(ctx,
		"SELECT quantity_on_hand FROM inventory WHERE item_id = $1 FOR UPDATE",
		itemID,
	).Scan(&onHand)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &NotFoundError{Entity: "item", ID: itemID}
		}
		return fmt.Errorf("failed to lock inventory for item %d: %w", itemID, err)
	}

	if onHand < qty {
		return &InsufficientStockError{ItemID: itemID, Available: onHand, Requested: qty}
	}

	if _, err := tx.Exec(ctx, `
		UPDATE inventory
		SET quantity_on_hand = quantity_on_hand - $1, last_updated = NOW()
		WHERE item_id = $2
	`, qty, itemID); err != nil {
		return fmt.Errorf("failed to ship stock for item %d: %w", itemID, err)
	}
	return nil
}
