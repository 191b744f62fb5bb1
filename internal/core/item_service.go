package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type itemService struct {
	pool *pgxpool.Pool
}

// NewItemService constructs an ItemService backed by PostgreSQL.
func NewItemService(pool *pgxpool.Pool) ItemService {
	return &itemService{pool: pool}
}

// taxInclusivePrice derives the display price from a tax-exclusive rate.
func taxInclusivePrice(rate, gstPercent decimal.Decimal) decimal.Decimal {
	return rate.Add(rate.Mul(gstPercent).Div(oneHundred))
}

func validateItemInput(input ItemInput) error {
	if input.Name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if input.PurchaseRate.IsNegative() || input.SellingRate.IsNegative() {
		return &ValidationError{Field: "rate", Reason: "must not be negative"}
	}
	if input.PurchaseGSTPercent.IsNegative() || input.SellingGSTPercent.IsNegative() {
		return &ValidationError{Field: "gst_percent", Reason: "must not be negative"}
	}
	if input.OpeningStock < 0 {
		return &ValidationError{Field: "opening_stock", Reason: "must not be negative"}
	}
	if input.ReorderLevel < 0 {
		return &ValidationError{Field: "reorder_level", Reason: "must not be negative"}
	}
	return nil
}

// CreateItem inserts the item and its inventory record in one transaction.
func (s *itemService) CreateItem(ctx context.Context, input ItemInput) (*Item, error) {
	if err := validateItemInput(input); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	purchasePrice := taxInclusivePrice(input.PurchaseRate, input.PurchaseGSTPercent)
	sellingPrice := taxInclusivePrice(input.SellingRate, input.SellingGSTPercent)

	var itemID int
	if err := tx.QueryRow(ctx, `
		INSERT INTO items (name, description, category, unit_of_measure,
		                   purchase_rate, purchase_gst_percent, purchase_price,
		                   selling_rate, selling_gst_percent, selling_price, hsn_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING item_id`,
		input.Name, input.Description, input.Category, input.UnitOfMeasure,
		input.PurchaseRate.Round(2), input.PurchaseGSTPercent, purchasePrice.Round(2),
		input.SellingRate.Round(2), input.SellingGSTPercent, sellingPrice.Round(2),
		input.HSNCode,
	).Scan(&itemID); err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO inventory (item_id, quantity_on_hand, reorder_level, location, last_updated)
		VALUES ($1, $2, $3, $4, NOW())`,
		itemID, input.OpeningStock, input.ReorderLevel, input.Location,
	); err != nil {
		return nil, fmt.Errorf("insert inventory record for item %d: %w", itemID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit item: %w", err)
	}
	return s.GetItem(ctx, itemID)
}

// UpdateItem replaces the item's master-data fields and re-derives prices.
func (s *itemService) UpdateItem(ctx context.Context, itemID int, input ItemInput) (*Item, error) {
	if err := validateItemInput(input); err != nil {
		return nil, err
	}

	purchasePrice := taxInclusivePrice(input.PurchaseRate, input.PurchaseGSTPercent)
	sellingPrice := taxInclusivePrice(input.SellingRate, input.SellingGSTPercent)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE items
		SET name = $1, description = $2, category = $3, unit_of_measure = $4,
		    purchase_rate = $5, purchase_gst_percent = $6, purchase_price = $7,
		    selling_rate = $8, selling_gst_percent = $9, selling_price = $10,
		    hsn_code = $11
		WHERE item_id = $12`,
		input.Name, input.Description, input.Category, input.UnitOfMeasure,
		input.PurchaseRate.Round(2), input.PurchaseGSTPercent, purchasePrice.Round(2),
		input.SellingRate.Round(2), input.SellingGSTPercent, sellingPrice.Round(2),
		input.HSNCode, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("update item %d: %w", itemID, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, &NotFoundError{Entity: "item", ID: itemID}
	}

	if _, err := tx.Exec(ctx, `
		UPDATE inventory
		SET reorder_level = $1, location = $2, last_updated = NOW()
		WHERE item_id = $3`,
		input.ReorderLevel, input.Location, itemID,
	); err != nil {
		return nil, fmt.Errorf("update inventory record for item %d: %w", itemID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit item update: %w", err)
	}
	return s.GetItem(ctx, itemID)
}

// DeleteItem removes the item and its inventory record. Order lines and
// receipts keep their history, so a referenced item cannot be deleted.
func (s *itemService) DeleteItem(ctx context.Context, itemID int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM items WHERE item_id = $1)", itemID,
	).Scan(&exists); err != nil {
		return fmt.Errorf("check item %d: %w", itemID, err)
	}
	if !exists {
		return &NotFoundError{Entity: "item", ID: itemID}
	}

	var poLines, soLines, receipts int
	if err := tx.QueryRow(ctx, `
		SELECT (SELECT COUNT(*) FROM purchase_order_items WHERE item_id = $1),
		       (SELECT COUNT(*) FROM sales_order_items    WHERE item_id = $1),
		       (SELECT COUNT(*) FROM goods_receipts       WHERE item_id = $1)`,
		itemID,
	).Scan(&poLines, &soLines, &receipts); err != nil {
		return fmt.Errorf("count references to item %d: %w", itemID, err)
	}
	if poLines+soLines+receipts > 0 {
		refs := map[string]int{}
		if poLines > 0 {
			refs["purchase_order_items"] = poLines
		}
		if soLines > 0 {
			refs["sales_order_items"] = soLines
		}
		if receipts > 0 {
			refs["goods_receipts"] = receipts
		}
		return &ReferentialIntegrityError{Entity: "item", ID: itemID, References: refs}
	}

	if _, err := tx.Exec(ctx, "DELETE FROM inventory WHERE item_id = $1", itemID); err != nil {
		return fmt.Errorf("delete inventory record for item %d: %w", itemID, err)
	}
	if _, err := tx.Exec(ctx, "DELETE FROM items WHERE item_id = $1", itemID); err != nil {
		return fmt.Errorf("delete item %d: %w", itemID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit item delete: %w", err)
	}
	return nil
}

func (s *itemService) GetItem(ctx context.Context, itemID int) (*Item, error) {
	var it Item
	err := s.pool.QueryRow(ctx, `
		SELECT item_id, name, description, category, unit_of_measure,
		       purchase_rate, purchase_gst_percent, purchase_price,
		       selling_rate, selling_gst_percent, selling_price,
		       hsn_code, created_at
		FROM items
		WHERE item_id = $1`,
		itemID,
	).Scan(
		&it.ID, &it.Name, &it.Description, &it.Category, &it.UnitOfMeasure,
		&it.PurchaseRate, &it.PurchaseGSTPercent, &it.PurchasePrice,
		&it.SellingRate, &it.SellingGSTPercent, &it.SellingPrice,
		&it.HSNCode, &it.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "item", ID: itemID}
		}
		return nil, fmt.Errorf("get item %d: %w", itemID, err)
	}
	return &it, nil
}

func (s *itemService) ListItems(ctx context.Context) ([]Item, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT item_id, name, description, category, unit_of_measure,
		       purchase_rate, purchase_gst_percent, purchase_price,
		       selling_rate, selling_gst_percent, selling_price,
		       hsn_code, created_at
		FROM items
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(
			&it.ID, &it.Name, &it.Description, &it.Category, &it.UnitOfMeasure,
			&it.PurchaseRate, &it.PurchaseGSTPercent, &it.PurchasePrice,
			&it.SellingRate, &it.SellingGSTPercent, &it.SellingPrice,
			&it.HSNCode, &it.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
