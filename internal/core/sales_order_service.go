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

type salesOrderService struct {
	pool *pgxpool.Pool
	inv  InventoryService
}

// NewSalesOrderService constructs a SalesOrderService backed by PostgreSQL.
func NewSalesOrderService(pool *pgxpool.Pool, inv InventoryService) SalesOrderService {
	return &salesOrderService{pool: pool, inv: inv}
}

// CreateSalesOrder creates an order and ships its stock in one transaction.
func (s *salesOrderService) CreateSalesOrder(ctx context.Context, customerID int, orderDate time.Time,
	deliveryDate *time.Time, lines []SalesOrderLineInput) (*SalesOrder, error) {

	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var customerExists bool
	if err := tx.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM customers WHERE customer_id = $1)", customerID,
	).Scan(&customerExists); err != nil {
		return nil, fmt.Errorf("validate customer: %w", err)
	}
	if !customerExists {
		return nil, &NotFoundError{Entity: "customer", ID: customerID}
	}

	inputs := make([]OrderLineInput, 0, len(lines))
	for i, in := range lines {
		var rate, gstPercent decimal.Decimal
		err := tx.QueryRow(ctx,
			"SELECT selling_rate, selling_gst_percent FROM items WHERE item_id = $1",
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

	var delivery *string
	if deliveryDate != nil {
		d := deliveryDate.Format("2006-01-02")
		delivery = &d
	}

	var soNumber int
	if err := tx.QueryRow(ctx, `
		INSERT INTO sales_orders (customer_id, order_date, delivery_date, status, subtotal, total_gst, total_amount)
		VALUES ($1, $2, $3, 'Completed', $4, $5, $6)
		RETURNING so_number`,
		customerID, orderDate.Format("2006-01-02"), delivery,
		totals.Subtotal.Round(2), totals.TotalGST.Round(2), totals.Total.Round(2),
	).Scan(&soNumber); err != nil {
		return nil, fmt.Errorf("insert sales order: %w", err)
	}

	for i, lt := range totals.Lines {
		if _, err := tx.Exec(ctx, `
			INSERT INTO sales_order_items (so_number, item_id, quantity, rate, gst_percent, gst_amount, total_price)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			soNumber, lt.ItemID, lt.Quantity, lt.Rate.Round(2), lt.GSTPercent,
			lt.GSTAmount.Round(2), lt.Total.Round(2),
		); err != nil {
			return nil, fmt.Errorf("insert SO line %d: %w", i+1, err)
		}

		// Ship within the same transaction: a shortfall on any line rolls
		// back the header and every earlier decrement.
		if err := s.inv.ShipStockTx(ctx, tx, lt.ItemID, lt.Quantity); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit sales order: %w", err)
	}
	return s.GetSalesOrder(ctx, soNumber)
}

// GenerateInvoice bills a Completed sales order.
func (s *salesOrderService) GenerateInvoice(ctx context.Context, soNumber int, invoiceDate time.Time) (*Invoice, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var customerID int
	var status string
	var subtotal, totalGST, totalAmount decimal.Decimal
	if err := tx.QueryRow(ctx, `
		SELECT customer_id, status, subtotal, total_gst, total_amount
		FROM sales_orders
		WHERE so_number = $1
		FOR UPDATE`,
		soNumber,
	).Scan(&customerID, &status, &subtotal, &totalGST, &totalAmount); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "sales order", ID: soNumber}
		}
		return nil, fmt.Errorf("lock sales order %d: %w", soNumber, err)
	}

	var existingID int
	err = tx.QueryRow(ctx,
		"SELECT invoice_id FROM invoices WHERE so_number = $1", soNumber,
	).Scan(&existingID)
	if err == nil {
		return nil, &DuplicateInvoiceError{SONumber: soNumber, InvoiceID: existingID}
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check existing invoice for SO %d: %w", soNumber, err)
	}

	if status != SOStatusCompleted {
		return nil, &ValidationError{
			Field:  "status",
			Reason: fmt.Sprintf("sales order %d cannot be invoiced: status is %s (must be %s)", soNumber, status, SOStatusCompleted),
		}
	}

	dueDate := invoiceDate.AddDate(0, 0, 30)

	var invoiceID int
	if err := tx.QueryRow(ctx, `
		INSERT INTO invoices (so_number, customer_id, invoice_date, due_date,
		                      subtotal, total_gst, total_amount, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'Unpaid')
		RETURNING invoice_id`,
		soNumber, customerID, invoiceDate.Format("2006-01-02"), dueDate.Format("2006-01-02"),
		subtotal, totalGST, totalAmount,
	).Scan(&invoiceID); err != nil {
		return nil, fmt.Errorf("insert invoice for SO %d: %w", soNumber, err)
	}

	if _, err := tx.Exec(ctx,
		"UPDATE sales_orders SET status = $1 WHERE so_number = $2",
		SOStatusInvoiced, soNumber,
	); err != nil {
		return nil, fmt.Errorf("update SO %d status: %w", soNumber, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit invoice: %w", err)
	}
	return s.GetInvoice(ctx, invoiceID)
}

// MarkInvoicePaid transitions Unpaid → Paid; paid invoices are left alone.
func (s *salesOrderService) MarkInvoicePaid(ctx context.Context, invoiceID int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var status string
	if err := tx.QueryRow(ctx,
		"SELECT status FROM invoices WHERE invoice_id = $1 FOR UPDATE",
		invoiceID,
	).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &NotFoundError{Entity: "invoice", ID: invoiceID}
		}
		return fmt.Errorf("lock invoice %d: %w", invoiceID, err)
	}

	// Idempotent: already paid is a no-op.
	if status == InvoiceStatusPaid {
		return nil
	}

	if _, err := tx.Exec(ctx,
		"UPDATE invoices SET status = $1 WHERE invoice_id = $2",
		InvoiceStatusPaid, invoiceID,
	); err != nil {
		return fmt.Errorf("mark invoice %d paid: %w", invoiceID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit invoice payment: %w", err)
	}
	return nil
}

// DeleteSalesOrder removes the order and returns its shipped stock.
func (s *salesOrderService) DeleteSalesOrder(ctx context.Context, soNumber int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM sales_orders WHERE so_number = $1)", soNumber,
	).Scan(&exists); err != nil {
		return fmt.Errorf("check sales order %d: %w", soNumber, err)
	}
	if !exists {
		return &NotFoundError{Entity: "sales order", ID: soNumber}
	}

	var invoices int
	if err := tx.QueryRow(ctx,
		"SELECT COUNT(*) FROM invoices WHERE so_number = $1", soNumber,
	).Scan(&invoices); err != nil {
		return fmt.Errorf("count invoices for SO %d: %w", soNumber, err)
	}
	if invoices > 0 {
		return &ReferentialIntegrityError{
			Entity:     "sales order",
			ID:         soNumber,
			References: map[string]int{"invoices": invoices},
		}
	}

	// Creation shipped this stock, so deletion puts it back.
	rows, err := tx.Query(ctx,
		"SELECT item_id, quantity FROM sales_order_items WHERE so_number = $1", soNumber)
	if err != nil {
		return fmt.Errorf("fetch SO lines for %d: %w", soNumber, err)
	}
	type restoreLine struct {
		itemID int
		qty    int64
	}
	var restores []restoreLine
	for rows.Next() {
		var r restoreLine
		if err := rows.Scan(&r.itemID, &r.qty); err != nil {
			rows.Close()
			return fmt.Errorf("scan SO line: %w", err)
		}
		restores = append(restores, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate SO lines: %w", err)
	}

	for _, r := range restores {
		if err := s.inv.ReceiveStockTx(ctx, tx, r.itemID, r.qty); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, "DELETE FROM sales_order_items WHERE so_number = $1", soNumber); err != nil {
		return fmt.Errorf("delete SO lines for %d: %w", soNumber, err)
	}
	if _, err := tx.Exec(ctx, "DELETE FROM sales_orders WHERE so_number = $1", soNumber); err != nil {
		return fmt.Errorf("delete sales order %d: %w", soNumber, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit SO delete: %w", err)
	}
	return nil
}

func (s *salesOrderService) GetSalesOrder(ctx context.Context, soNumber int) (*SalesOrder, error) {
	so := &SalesOrder{}
	if err := s.pool.QueryRow(ctx, `
		SELECT so.so_number, so.customer_id, c.name,
		       so.order_date::text, so.delivery_date::text, so.status,
		       so.subtotal, so.total_gst, so.total_amount, so.created_at
		FROM sales_orders so
		JOIN customers c ON c.customer_id = so.customer_id
		WHERE so.so_number = $1`,
		soNumber,
	).Scan(
		&so.SONumber, &so.CustomerID, &so.CustomerName,
		&so.OrderDate, &so.DeliveryDate, &so.Status,
		&so.Subtotal, &so.TotalGST, &so.TotalAmount, &so.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "sales order", ID: soNumber}
		}
		return nil, fmt.Errorf("get sales order %d: %w", soNumber, err)
	}

	lines, err := s.fetchLines(ctx, soNumber)
	if err != nil {
		return nil, err
	}
	so.Lines = lines
	return so, nil
}

func (s *salesOrderService) ListSalesOrders(ctx context.Context, status string) ([]SalesOrder, error) {
	query := `
		SELECT so.so_number, so.customer_id, c.name,
		       so.order_date::text, so.delivery_date::text, so.status,
		       so.subtotal, so.total_gst, so.total_amount, so.created_at
		FROM sales_orders so
		JOIN customers c ON c.customer_id = so.customer_id`
	args := []any{}

	if status != "" {
		query += " WHERE so.status = $1"
		args = append(args, status)
	}
	query += " ORDER BY so.so_number DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales orders: %w", err)
	}
	defer rows.Close()

	var orders []SalesOrder
	for rows.Next() {
		var so SalesOrder
		if err := rows.Scan(
			&so.SONumber, &so.CustomerID, &so.CustomerName,
			&so.OrderDate, &so.DeliveryDate, &so.Status,
			&so.Subtotal, &so.TotalGST, &so.TotalAmount, &so.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sales order: %w", err)
		}
		orders = append(orders, so)
	}
	return orders, rows.Err()
}

func (s *salesOrderService) GetInvoice(ctx context.Context, invoiceID int) (*Invoice, error) {
	var inv Invoice
	err := s.pool.QueryRow(ctx, `
		SELECT i.invoice_id, i.so_number, i.customer_id, c.name,
		       i.invoice_date::text, i.due_date::text,
		       i.subtotal, i.total_gst, i.total_amount, i.status, i.created_at
		FROM invoices i
		JOIN customers c ON c.customer_id = i.customer_id
		WHERE i.invoice_id = $1`,
		invoiceID,
	).Scan(
		&inv.InvoiceID, &inv.SONumber, &inv.CustomerID, &inv.CustomerName,
		&inv.InvoiceDate, &inv.DueDate,
		&inv.Subtotal, &inv.TotalGST, &inv.TotalAmount, &inv.Status, &inv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "invoice", ID: invoiceID}
		}
		return nil, fmt.Errorf("get invoice %d: %w", invoiceID, err)
	}
	return &inv, nil
}

func (s *salesOrderService) ListInvoices(ctx context.Context, status string) ([]Invoice, error) {
	query := `
		SELECT i.invoice_id, i.so_number, i.customer_id, c.name,
		       i.invoice_date::text, i.due_date::text,
		       i.subtotal, i.total_gst, i.total_amount, i.status, i.created_at
		FROM invoices i
		JOIN customers c ON c.customer_id = i.customer_id`
	args := []any{}

	if status != "" {
		query += " WHERE i.status = $1"
		args = append(args, status)
	}
	query += " ORDER BY i.invoice_id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []Invoice
	for rows.Next() {
		var inv Invoice
		if err := rows.Scan(
			&inv.InvoiceID, &inv.SONumber, &inv.CustomerID, &inv.CustomerName,
			&inv.InvoiceDate, &inv.DueDate,
			&inv.Subtotal, &inv.TotalGST, &inv.TotalAmount, &inv.Status, &inv.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func (s *salesOrderService) fetchLines(ctx context.Context, soNumber int) ([]SalesOrderLine, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT sol.so_item_id, sol.so_number, sol.item_id, it.name,
		       sol.quantity, sol.rate, sol.gst_percent, sol.gst_amount, sol.total_price
		FROM sales_order_items sol
		JOIN items it ON it.item_id = sol.item_id
		WHERE sol.so_number = $1
		ORDER BY sol.so_item_id`,
		soNumber,
	)
	if err != nil {
		return nil, fmt.Errorf("fetch SO lines for order %d: %w", soNumber, err)
	}
	defer rows.Close()

	var lines []SalesOrderLine
	for rows.Next() {
		var l SalesOrderLine
		if err := rows.Scan(
			&l.SOItemID, &l.SONumber, &l.ItemID, &l.ItemName,
			&l.Quantity, &l.Rate, &l.GSTPercent, &l.GSTAmount, &l.TotalPrice,
		); err != nil {
			return nil, fmt.Errorf("scan SO line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
