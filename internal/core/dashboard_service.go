package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// DashboardSummary is the read-side snapshot shown on the home screen.
// Every call scans the live tables; nothing is cached.
type DashboardSummary struct {
	ItemCount      int
	LowStockCount  int
	TotalUnitsHeld int64

	PurchaseOrderCount int
	PendingPOCount     int
	TotalPurchaseValue decimal.Decimal
	SupplierCount      int

	SalesOrderCount int
	PendingSOCount  int
	TotalSalesValue decimal.Decimal
	CustomerCount   int

	InvoiceCount       int
	UnpaidInvoiceCount int
	UnpaidInvoiceValue decimal.Decimal

	GST GSTSummary
}

// GSTSummary is the tax position: output GST collected on sales, input GST
// paid on purchases, and the net liability (output − input; negative means a
// credit).
type GSTSummary struct {
	OutputGST    decimal.Decimal
	InputGST     decimal.Decimal
	NetLiability decimal.Decimal
}

// DashboardService aggregates counts and totals across all modules.
type DashboardService interface {
	GetSummary(ctx context.Context) (*DashboardSummary, error)
}

type dashboardService struct {
	pool *pgxpool.Pool
}

// NewDashboardService constructs a DashboardService backed by PostgreSQL.
func NewDashboardService(pool *pgxpool.Pool) DashboardService {
	return &dashboardService{pool: pool}
}

func (s *dashboardService) GetSummary(ctx context.Context) (*DashboardSummary, error) {
	sum := &DashboardSummary{}

	if err := s.pool.QueryRow(ctx, `
		SELECT (SELECT COUNT(*) FROM items),
		       (SELECT COUNT(*) FROM inventory WHERE quantity_on_hand <= reorder_level),
		       (SELECT COALESCE(SUM(quantity_on_hand), 0) FROM inventory),
		       (SELECT COUNT(*) FROM suppliers),
		       (SELECT COUNT(*) FROM customers)`,
	).Scan(
		&sum.ItemCount, &sum.LowStockCount, &sum.TotalUnitsHeld,
		&sum.SupplierCount, &sum.CustomerCount,
	); err != nil {
		return nil, fmt.Errorf("dashboard: inventory and master counts: %w", err)
	}

	if err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'Pending'),
		       COALESCE(SUM(total_amount), 0)
		FROM purchase_orders`,
	).Scan(&sum.PurchaseOrderCount, &sum.PendingPOCount, &sum.TotalPurchaseValue); err != nil {
		return nil, fmt.Errorf("dashboard: purchase totals: %w", err)
	}

	if err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status NOT IN ('Completed', 'Invoiced')),
		       COALESCE(SUM(total_amount), 0)
		FROM sales_orders`,
	).Scan(&sum.SalesOrderCount, &sum.PendingSOCount, &sum.TotalSalesValue); err != nil {
		return nil, fmt.Errorf("dashboard: sales totals: %w", err)
	}

	if err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'Unpaid'),
		       COALESCE(SUM(total_amount) FILTER (WHERE status = 'Unpaid'), 0)
		FROM invoices`,
	).Scan(&sum.InvoiceCount, &sum.UnpaidInvoiceCount, &sum.UnpaidInvoiceValue); err != nil {
		return nil, fmt.Errorf("dashboard: invoice totals: %w", err)
	}

	if err := s.pool.QueryRow(ctx, `
		SELECT (SELECT COALESCE(SUM(total_gst), 0) FROM sales_orders),
		       (SELECT COALESCE(SUM(total_gst), 0) FROM purchase_orders)`,
	).Scan(&sum.GST.OutputGST, &sum.GST.InputGST); err != nil {
		return nil, fmt.Errorf("dashboard: gst summary: %w", err)
	}
	sum.GST.NetLiability = sum.GST.OutputGST.Sub(sum.GST.InputGST)

	return sum, nil
}
