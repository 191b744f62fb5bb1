package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type purchaseOrderService struct {
	pool *pgxpool.Pool
	inv  InventoryService
}

// NewPurchaseOrderService constructs a PurchaseOrderService backed by PostgreSQL.
func NewPurchaseOrderService(pool *pgxpool.Pool, inv InventoryService) PurchaseOrderService {
	return &purchaseOrderService{pool: pool, inv: inv}
}

// CreatePurchaseOrder creates a Pending purchase order with computed line totals.
func (s *purchaseOrderService) CreatePurchaseOrder(ctx context.Context, supplierID int, orderDate time.Time,
	expectedDelivery *time.Time, lines []PurchaseOrderLineInput) (*PurchaseOrder, error) {

	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var supplierExists bool
	if err := tx.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM suppliers WHERE supplier_id = $1)", supplierID,
	).Scan(&supplierExists); err != nil {
		return nil, fmt.Errorf("validate supplier: %w", err)
	}
	if !supplierExists {
		return nil, &NotFoundError{Entity: "supplier", ID: supplierID}
	}

	// Resolve each line against the item master. The caller may override the
	// rate; the GST rate always comes from the item.
	inputs := make([]OrderLineInput, 0, len(lines))
	for i, in := range lines {
		var rate, gstPercent decimal.Decimal
		err := tx.QueryRow(ctx,
			"SELECT purchase_rate, purchase_gst_percent FROM items WHERE item_id = $1",
			in.ItemID,
		).Scan(&rate, &gstPercent)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, &NotFoundError{Entity: "item", ID: in.ItemID}
			}
			return nil, fmt.Errorf("line %d: resolve item %d: %w", i+1, in.ItemID, err)
		}
		if in.Rate != nil {
			rate = *in.Rate
		}
		inputs = append(inputs, OrderLineInput{
			ItemID:     in.ItemID,
			Quantity:   in.Quantity,
			Rate:       rate,
			GSTPercent: gstPercent,
		})
	}

	totals, err := ComputeOrderTotals(inputs)
	if err != nil {
		return nil, err
	}

	var expected *string
	if expectedDelivery != nil {
		d := expectedDelivery.Format("2006-01-02")
		expected = &d
	}

	var poNumber int
	if err := tx.QueryRow(ctx, `
		INSERT INTO purchase_orders (supplier_id, order_date, expected_delivery, status, subtotal, total_gst, total_amount)
		VALUES ($1, $2, $3, 'Pending', $4, $5, $6)
		RETURNING po_number`,
		supplierID, orderDate.Format("2006-01-02"), expected,
		totals.Subtotal.Round(2), totals.TotalGST.Round(2), totals.Total.Round(2),
	).Scan(&poNumber); err != nil {
		return nil, fmt.Errorf("insert purchase order: %w", err)
	}

	for i, lt := range totals.Lines {
		if _, err := tx.Exec(ctx, `
			INSERT INTO purchase_order_items (po_number, item_id, quantity, rate, gst_percent, gst_amount, total_price)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			poNumber, lt.ItemID, lt.Quantity, lt.Rate.Round(2), lt.GSTPercent,
			lt.GSTAmount.Round(2), lt.Total.Round(2),
		); err != nil {
			return nil, fmt.Errorf("insert PO line %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit purchase order: %w", err)
	}
	return s.GetPurchaseOrder(ctx, poNumber)
}

// RecordGoodsReceipt records a supplier delivery against a purchase order line.
// Receipt insert, inventory update, and status recompute commit together.
func (s *purchaseOrderService) RecordGoodsReceipt(ctx context.Context, input GoodsReceiptInput) (*GoodsReceipt, error) {
	if input.InvoiceNumber == "" {
		return nil, &ValidationError{Field: "invoice_number", Reason: "must not be empty"}
	}
	if input.ReceivedQuantity <= 0 {
		return nil, &ValidationError{
			Field:  "received_quantity",
			Reason: fmt.Sprintf("must be positive, got %d", input.ReceivedQuantity),
		}
	}
	if input.AcceptedQuantity < 0 || input.RejectedQuantity < 0 {
		return nil, &ValidationError{Field: "quantity", Reason: "accepted and rejected must not be negative"}
	}
	if input.ReceivedQuantity != input.AcceptedQuantity+input.RejectedQuantity {
		return nil, &ValidationError{
			Field: "received_quantity",
			Reason: fmt.Sprintf("received %d must equal accepted %d + rejected %d",
				input.ReceivedQuantity, input.AcceptedQuantity, input.RejectedQuantity),
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock the order header so concurrent receipts against the same order
	// serialize through the status recompute.
	var supplierID int
	if err := tx.QueryRow(ctx,
		"SELECT supplier_id FROM purchase_orders WHERE po_number = $1 FOR UPDATE",
		input.PONumber,
	).Scan(&supplierID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "purchase order", ID: input.PONumber}
		}
		return nil, fmt.Errorf("lock purchase order %d: %w", input.PONumber, err)
	}

	var orderedQty int64
	if err := tx.QueryRow(ctx,
		"SELECT quantity FROM purchase_order_items WHERE po_number = $1 AND item_id = $2",
		input.PONumber, input.ItemID,
	).Scan(&orderedQty); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ValidationError{
				Field:  "item_id",
				Reason: fmt.Sprintf("item %d is not on purchase order %d", input.ItemID, input.PONumber),
			}
		}
		return nil, fmt.Errorf("fetch PO line for item %d: %w", input.ItemID, err)
	}

	// Deliveries under the same invoice number are excluded from the cumulative
	// sum: a replay must fall through to the idempotent insert below and return
	// the existing receipt, even when the line is already fully received.
	var alreadyReceived int64
	if err := tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(received_quantity), 0)
		FROM goods_receipts
		WHERE po_number = $1 AND item_id = $2 AND invoice_number <> $3`,
		input.PONumber, input.ItemID, input.InvoiceNumber,
	).Scan(&alreadyReceived); err != nil {
		return nil, fmt.Errorf("check received quantity for item %d: %w", input.ItemID, err)
	}
	if alreadyReceived+input.ReceivedQuantity > orderedQty {
		return nil, &ValidationError{
			Field: "received_quantity",
			Reason: fmt.Sprintf("would receive %d but only %d ordered (already received %d)",
				alreadyReceived+input.ReceivedQuantity, orderedQty, alreadyReceived),
		}
	}

	// Idempotency: the unique (po_number, item_id, invoice_number) index turns
	// a replayed delivery into a no-op insert.
	var receiptID int
	err = tx.QueryRow(ctx, `
		INSERT INTO goods_receipts (po_number, item_id, supplier_id, invoice_number,
		                            received_quantity, accepted_quantity, rejected_quantity,
		                            receipt_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (po_number, item_id, invoice_number) DO NOTHING
		RETURNING receipt_id`,
		input.PONumber, input.ItemID, supplierID, input.InvoiceNumber,
		input.ReceivedQuantity, input.AcceptedQuantity, input.RejectedQuantity,
		input.ReceiptDate.Format("2006-01-02"), input.Notes,
	).Scan(&receiptID)
	if errors.Is(err, pgx.ErrNoRows) {
		// Duplicate delivery: return the existing receipt untouched.
		var existingID int
		if err := tx.QueryRow(ctx, `
			SELECT receipt_id FROM goods_receipts
			WHERE po_number = $1 AND item_id = $2 AND invoice_number = $3`,
			input.PONumber, input.ItemID, input.InvoiceNumber,
		).Scan(&existingID); err != nil {
			return nil, fmt.Errorf("fetch existing receipt: %w", err)
		}
		return s.getReceipt(ctx, existingID)
	}
	if err != nil {
		return nil, fmt.Errorf("insert goods receipt: %w", err)
	}

	// Only accepted units enter inventory.
	if err := s.inv.ReceiveStockTx(ctx, tx, input.ItemID, input.AcceptedQuantity); err != nil {
		return nil, err
	}

	if err := s.recomputeStatusTx(ctx, tx, input.PONumber); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit goods receipt: %w", err)
	}
	return s.getReceipt(ctx, receiptID)
}

// recomputeStatusTx derives the order status from cumulative received
// quantities per line. A fully rejected delivery still counts toward closing
// its line: received, not accepted, drives completion.
func (s *purchaseOrderService) recomputeStatusTx(ctx context.Context, tx pgx.Tx, poNumber int) error {
	rows, err := tx.Query(ctx, `
		SELECT pol.quantity, COALESCE(SUM(gr.received_quantity), 0)
		FROM purchase_order_items pol
		LEFT JOIN goods_receipts gr
		       ON gr.po_number = pol.po_number AND gr.item_id = pol.item_id
		WHERE pol.po_number = $1
		GROUP BY pol.po_item_id, pol.quantity`,
		poNumber,
	)
	if err != nil {
		return fmt.Errorf("fetch receipt totals for PO %d: %w", poNumber, err)
	}
	defer rows.Close()

	allComplete := true
	anyReceived := false
	for rows.Next() {
		var ordered, received int64
		if err := rows.Scan(&ordered, &received); err != nil {
			return fmt.Errorf("scan receipt total: %w", err)
		}
		if received > 0 {
			anyReceived = true
		}
		if received < ordered {
			allComplete = false
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate receipt totals: %w", err)
	}

	status := POStatusPending
	switch {
	case allComplete:
		status = POStatusCompleted
	case anyReceived:
		status = POStatusPartiallyReceived
	}

	if _, err := tx.Exec(ctx,
		"UPDATE purchase_orders SET status = $1 WHERE po_number = $2",
		status, poNumber,
	); err != nil {
		return fmt.Errorf("update PO %d status: %w", poNumber, err)
	}
	return nil
}

// DeletePurchaseOrder removes the order and its lines atomically.
func (s *purchaseOrderService) DeletePurchaseOrder(ctx context.Context, poNumber int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM purchase_orders WHERE po_number = $1)", poNumber,
	).Scan(&exists); err != nil {
		return fmt.Errorf("check purchase order %d: %w", poNumber, err)
	}
	if !exists {
		return &NotFoundError{Entity: "purchase order", ID: poNumber}
	}

	var receipts int
	if err := tx.QueryRow(ctx,
		"SELECT COUNT(*) FROM goods_receipts WHERE po_number = $1", poNumber,
	).Scan(&receipts); err != nil {
		return fmt.Errorf("count receipts for PO %d: %w", poNumber, err)
	}
	if receipts > 0 {
		return &ReferentialIntegrityError{
			Entity:     "purchase order",
			ID:         poNumber,
			References: map[string]int{"goods_receipts": receipts},
		}
	}

	if _, err := tx.Exec(ctx, "DELETE FROM purchase_order_items WHERE po_number = $1", poNumber); err != nil {
		return fmt.Errorf("delete PO lines for %d: %w", poNumber, err)
	}
	if _, err := tx.Exec(ctx, "DELETE FROM purchase_orders WHERE po_number = $1", poNumber); err != nil {
		return fmt.Errorf("delete purchase order %d: %w", poNumber, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit PO delete: %w", err)
	}
	return nil
}

// GetPurchaseOrder returns an order by number, including all lines.
func (s *purchaseOrderService) GetPurchaseOrder(ctx context.Context, poNumber int) (*PurchaseOrder, error) {
	po := &PurchaseOrder{}
	if err := s.pool.QueryRow(ctx, `
		SELECT po.po_number, po.supplier_id, sp.name,
		       po.order_date::text, po.expected_delivery::text, po.status,
		       po.subtotal, po.total_gst, po.total_amount, po.created_at
		FROM purchase_orders po
		JOIN suppliers sp ON sp.supplier_id = po.supplier_id
		WHERE po.po_number = $1`,
		poNumber,
	).Scan(
		&po.PONumber, &po.SupplierID, &po.SupplierName,
		&po.OrderDate, &po.ExpectedDelivery, &po.Status,
		&po.Subtotal, &po.TotalGST, &po.TotalAmount, &po.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "purchase order", ID: poNumber}
		}
		return nil, fmt.Errorf("get purchase order %d: %w", poNumber, err)
	}

	lines, err := s.fetchLines(ctx, poNumber)
	if err != nil {
		return nil, err
	}
	po.Lines = lines
	return po, nil
}

// ListPurchaseOrders returns orders, optionally filtered by status.
func (s *purchaseOrderService) ListPurchaseOrders(ctx context.Context, status string) ([]PurchaseOrder, error) {
	query := `
		SELECT po.po_number, po.supplier_id, sp.name,
		       po.order_date::text, po.expected_delivery::text, po.status,
		       po.subtotal, po.total_gst, po.total_amount, po.created_at
		FROM purchase_orders po
		JOIN suppliers sp ON sp.supplier_id = po.supplier_id`
	args := []any{}

	if status != "" {
		query += " WHERE po.status = $1"
		args = append(args, status)
	}
	query += " ORDER BY po.po_number DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()

	var orders []PurchaseOrder
	for rows.Next() {
		var po PurchaseOrder
		if err := rows.Scan(
			&po.PONumber, &po.SupplierID, &po.SupplierName,
			&po.OrderDate, &po.ExpectedDelivery, &po.Status,
			&po.Subtotal, &po.TotalGST, &po.TotalAmount, &po.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		orders = append(orders, po)
	}
	return orders, rows.Err()
}

// ListGoodsReceipts returns receipts newest first; poNumber 0 returns all.
func (s *purchaseOrderService) ListGoodsReceipts(ctx context.Context, poNumber int) ([]GoodsReceipt, error) {
	query := `
		SELECT gr.receipt_id, gr.po_number, gr.item_id, it.name, gr.supplier_id,
		       gr.invoice_number, gr.received_quantity, gr.accepted_quantity,
		       gr.rejected_quantity, gr.receipt_date::text, gr.notes, gr.created_at
		FROM goods_receipts gr
		JOIN items it ON it.item_id = gr.item_id`
	args := []any{}

	if poNumber != 0 {
		query += " WHERE gr.po_number = $1"
		args = append(args, poNumber)
	}
	query += " ORDER BY gr.receipt_id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list goods receipts: %w", err)
	}
	defer rows.Close()

	var receipts []GoodsReceipt
	for rows.Next() {
		var gr GoodsReceipt
		if err := rows.Scan(
			&gr.ReceiptID, &gr.PONumber, &gr.ItemID, &gr.ItemName, &gr.SupplierID,
			&gr.InvoiceNumber, &gr.ReceivedQuantity, &gr.AcceptedQuantity,
			&gr.RejectedQuantity, &gr.ReceiptDate, &gr.Notes, &gr.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan goods receipt: %w", err)
		}
		receipts = append(receipts, gr)
	}
	return receipts, rows.Err()
}

func (s *purchaseOrderService) getReceipt(ctx context.Context, receiptID int) (*GoodsReceipt, error) {
	var gr GoodsReceipt
	err := s.pool.QueryRow(ctx, `
		SELECT gr.receipt_id, gr.po_number, gr.item_id, it.name, gr.supplier_id,
		       gr.invoice_number, gr.received_quantity, gr.accepted_quantity,
		       gr.rejected_quantity, gr.receipt_date::text, gr.notes, gr.created_at
		FROM goods_receipts gr
		JOIN items it ON it.item_id = gr.item_id
		WHERE gr.receipt_id = $1`,
		receiptID,
	).Scan(
		&gr.ReceiptID, &gr.PONumber, &gr.ItemID, &gr.ItemName, &gr.SupplierID,
		&gr.InvoiceNumber, &gr.ReceivedQuantity, &gr.AcceptedQuantity,
		&gr.RejectedQuantity, &gr.ReceiptDate, &gr.Notes, &gr.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "goods receipt", ID: receiptID}
		}
		return nil, fmt.Errorf("get goods receipt %d: %w", receiptID, err)
	}
	return &gr, nil
}

func (s *purchaseOrderService) fetchLines(ctx context.Context, poNumber int) ([]PurchaseOrderLine, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT pol.po_item_id, pol.po_number, pol.item_id, it.name,
		       pol.quantity, pol.rate, pol.gst_percent, pol.gst_amount, pol.total_price
		FROM purchase_order_items pol
		JOIN items it ON it.item_id = pol.item_id
		WHERE pol.po_number = $1
		ORDER BY pol.po_item_id`,
		poNumber,
	)
	if err != nil {
		return nil, fmt.Errorf("fetch PO lines for order %d: %w", poNumber, err)
	}
	defer rows.Close()

	var lines []PurchaseOrderLine
	for rows.Next() {
		var l PurchaseOrderLine
		if err := rows.Scan(
			&l.POItemID, &l.PONumber, &l.ItemID, &l.ItemName,
			&l.Quantity, &l.Rate, &l.GSTPercent, &l.GSTAmount, &l.TotalPrice,
		); err != nil {
			return nil, fmt.Errorf("scan PO line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
