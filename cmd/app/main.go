package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"tradeledger/internal/app"
	"tradeledger/internal/config"
	"tradeledger/internal/core"
	"tradeledger/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.Postgres)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	inventoryService := core.NewInventoryService(pool)
	svc := app.NewAppService(
		core.NewCompanyService(pool),
		core.NewItemService(pool),
		core.NewSupplierService(pool),
		core.NewCustomerService(pool),
		inventoryService,
		core.NewPurchaseOrderService(pool, inventoryService),
		core.NewSalesOrderService(pool, inventoryService),
		core.NewDashboardService(pool),
	)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "setup":
		runSetup(ctx, svc)
	case "dashboard":
		runDashboard(ctx, svc)
	case "lowstock":
		runLowStock(ctx, svc)
	case "status":
		runStatus(ctx, svc)
	default:
		log.Fatalf("Unknown command: %s", os.Args[1])
	}
}

func usage() {
	fmt.Println("Usage: app <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  setup      Interactive company profile wizard")
	fmt.Println("  dashboard  Business summary with GST position")
	fmt.Println("  lowstock   Items at or below their reorder level")
	fmt.Println("  status     Open purchase orders and unpaid invoices")
}

// runSetup walks through the company profile fields on stdin and saves them.
func runSetup(ctx context.Context, svc app.ApplicationService) {
	exists, err := svc.CompanyExists(ctx)
	if err != nil {
		log.Fatalf("Failed to check company profile: %v", err)
	}
	if exists {
		fmt.Println("A company profile already exists; new answers will overwrite it.")
	}

	reader := bufio.NewReader(os.Stdin)
	prompt := func(label string) string {
		fmt.Printf("%s: ", label)
		line, _ := reader.ReadString('\n')
		return strings.TrimSpace(line)
	}

	req := app.SaveCompanyRequest{
		CompanyName:        prompt("Company name"),
		LegalName:          prompt("Legal name (optional)"),
		GSTIN:              prompt("GSTIN"),
		PAN:                prompt("PAN"),
		AddressLine1:       prompt("Address line 1"),
		AddressLine2:       prompt("Address line 2 (optional)"),
		City:               prompt("City"),
		State:              prompt("State"),
		Pincode:            prompt("Pincode"),
		Country:            prompt("Country (default India)"),
		Phone:              prompt("Phone"),
		Email:              prompt("Email"),
		Website:            prompt("Website (optional)"),
		FinancialYearStart: prompt("Financial year start (YYYY-MM-DD)"),
	}

	if err := svc.SaveCompanyDetails(ctx, req); err != nil {
		log.Fatalf("Failed to save company profile: %v", err)
	}
	fmt.Println("Company profile saved.")
}

func runDashboard(ctx context.Context, svc app.ApplicationService) {
	sum, err := svc.GetDashboard(ctx)
	if err != nil {
		log.Fatalf("Failed to load dashboard: %v", err)
	}

	fmt.Println("=== Dashboard ===")
	fmt.Printf("Items:            %d (%d low on stock, %d units held)\n",
		sum.ItemCount, sum.LowStockCount, sum.TotalUnitsHeld)
	fmt.Printf("Purchase orders:  %d (%d pending), value %s\n",
		sum.PurchaseOrderCount, sum.PendingPOCount, sum.TotalPurchaseValue.StringFixed(2))
	fmt.Printf("Sales orders:     %d (%d pending), value %s\n",
		sum.SalesOrderCount, sum.PendingSOCount, sum.TotalSalesValue.StringFixed(2))
	fmt.Printf("Suppliers:        %d    Customers: %d\n", sum.SupplierCount, sum.CustomerCount)
	fmt.Printf("Invoices:         %d (%d unpaid, %s outstanding)\n",
		sum.InvoiceCount, sum.UnpaidInvoiceCount, sum.UnpaidInvoiceValue.StringFixed(2))
	fmt.Println()
	fmt.Println("--- GST position ---")
	fmt.Printf("Output GST (sales):     %s\n", sum.GST.OutputGST.StringFixed(2))
	fmt.Printf("Input GST (purchases):  %s\n", sum.GST.InputGST.StringFixed(2))
	fmt.Printf("Net liability:          %s\n", sum.GST.NetLiability.StringFixed(2))
}

func runLowStock(ctx context.Context, svc app.ApplicationService) {
	result, err := svc.LowStockReport(ctx)
	if err != nil {
		log.Fatalf("Failed to load low-stock report: %v", err)
	}
	if len(result.Items) == 0 {
		fmt.Println("No items at or below their reorder level.")
		return
	}

	fmt.Printf("%-6s %-30s %10s %10s %10s\n", "ID", "Item", "On hand", "Reorder", "Suggested")
	for _, item := range result.Items {
		fmt.Printf("%-6d %-30s %10d %10d %10d\n",
			item.ItemID, item.ItemName, item.QuantityOnHand, item.ReorderLevel, item.SuggestedReorder)
	}
}

func runStatus(ctx context.Context, svc app.ApplicationService) {
	pending, err := svc.ListPurchaseOrders(ctx, core.POStatusPending)
	if err != nil {
		log.Fatalf("Failed to list purchase orders: %v", err)
	}
	partial, err := svc.ListPurchaseOrders(ctx, core.POStatusPartiallyReceived)
	if err != nil {
		log.Fatalf("Failed to list purchase orders: %v", err)
	}

	fmt.Println("=== Open purchase orders ===")
	open := append(pending.Orders, partial.Orders...)
	if len(open) == 0 {
		fmt.Println("None.")
	}
	for _, po := range open {
		fmt.Printf("PO-%d  %-25s %-20s %12s  %s\n",
			po.PONumber, po.SupplierName, po.Status, po.TotalAmount.StringFixed(2), po.OrderDate)
	}

	invoices, err := svc.ListInvoices(ctx, core.InvoiceStatusUnpaid)
	if err != nil {
		log.Fatalf("Failed to list invoices: %v", err)
	}

	fmt.Println()
	fmt.Println("=== Unpaid invoices ===")
	if len(invoices.Invoices) == 0 {
		fmt.Println("None.")
	}
	for _, inv := range invoices.Invoices {
		fmt.Printf("INV-%-6d %-25s %12s  due %s\n",
			inv.InvoiceID, inv.CustomerName, inv.TotalAmount.StringFixed(2), inv.DueDate)
	}
}
