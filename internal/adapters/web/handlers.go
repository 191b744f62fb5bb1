package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"tradeledger/internal/app"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc    app.ApplicationService
	log    *zap.Logger
	router chi.Router
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, log *zap.Logger, allowedOrigins string) http.Handler {
	h := &Handler{svc: svc, log: log}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(log))
	r.Use(Recoverer(log))
	r.Use(CORS(allowedOrigins))

	// ── Health ────────────────────────────────────────────────────────────────
	r.Get("/api/health", h.health)

	// All endpoints take small JSON bodies; 1 MB is generous.
	r.Group(func(r chi.Router) {
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		// ── Company profile ───────────────────────────────────────────────────
		r.Get("/api/company", h.getCompany)
		r.Put("/api/company", h.saveCompany)

		// ── Item master ───────────────────────────────────────────────────────
		r.Get("/api/items", h.listItems)
		r.Post("/api/items", h.createItem)
		r.Get("/api/items/{id}", h.getItem)
		r.Put("/api/items/{id}", h.updateItem)
		r.Delete("/api/items/{id}", h.deleteItem)

		// ── Partners ──────────────────────────────────────────────────────────
		r.Get("/api/suppliers", h.listSuppliers)
		r.Post("/api/suppliers", h.createSupplier)
		r.Get("/api/suppliers/{id}", h.getSupplier)
		r.Put("/api/suppliers/{id}", h.updateSupplier)
		r.Delete("/api/suppliers/{id}", h.deleteSupplier)

		r.Get("/api/customers", h.listCustomers)
		r.Post("/api/customers", h.createCustomer)
		r.Get("/api/customers/{id}", h.getCustomer)
		r.Put("/api/customers/{id}", h.updateCustomer)
		r.Delete("/api/customers/{id}", h.deleteCustomer)

		// ── Inventory ─────────────────────────────────────────────────────────
		r.Get("/api/stock", h.stockLevels)
		r.Get("/api/stock/low", h.lowStockReport)
		r.Get("/api/stock/{id}", h.stockLevel)
		r.Put("/api/stock/{id}", h.adjustStock)

		// ── Purchasing ────────────────────────────────────────────────────────
		r.Get("/api/purchase-orders", h.listPurchaseOrders)
		r.Post("/api/purchase-orders", h.createPurchaseOrder)
		r.Get("/api/purchase-orders/{poNumber}", h.getPurchaseOrder)
		r.Delete("/api/purchase-orders/{poNumber}", h.deletePurchaseOrder)
		r.Post("/api/purchase-orders/{poNumber}/receipts", h.recordGoodsReceipt)
		r.Get("/api/purchase-orders/{poNumber}/receipts", h.listReceiptsForOrder)
		r.Get("/api/goods-receipts", h.listGoodsReceipts)

		// ── Sales ─────────────────────────────────────────────────────────────
		r.Get("/api/sales-orders", h.listSalesOrders)
		r.Post("/api/sales-orders", h.createSalesOrder)
		r.Get("/api/sales-orders/{soNumber}", h.getSalesOrder)
		r.Delete("/api/sales-orders/{soNumber}", h.deleteSalesOrder)
		r.Post("/api/sales-orders/{soNumber}/invoice", h.generateInvoice)

		r.Get("/api/invoices", h.listInvoices)
		r.Get("/api/invoices/{id}", h.getInvoice)
		r.Post("/api/invoices/{id}/pay", h.markInvoicePaid)

		// ── Dashboard ─────────────────────────────────────────────────────────
		r.Get("/api/dashboard", h.dashboard)
	})

	h.router = r
	return r
}

// health returns service status and whether the company profile is set up.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	configured, err := h.svc.CompanyExists(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	type response struct {
		Status     string `json:"status"`
		Configured bool   `json:"configured"`
	}

	writeJSON(w, http.StatusOK, response{Status: "ok", Configured: configured})
}

// dashboard handles GET /api/dashboard.
func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.GetDashboard(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// urlInt parses the named URL parameter as a positive integer.
func urlInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || n <= 0 {
		writeError(w, r, "invalid "+name, "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return n, true
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
