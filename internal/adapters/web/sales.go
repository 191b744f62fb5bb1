package web

import (
	"encoding/json"
	"net/http"

	"tradeledger/internal/app"
)

// listSalesOrders handles GET /api/sales-orders?status=Invoiced.
func (h *Handler) listSalesOrders(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListSalesOrders(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Orders)
}

// createSalesOrder handles POST /api/sales-orders.
// Body: { customer_id, order_date?, delivery_date?, lines: [{item_id, quantity, rate?}] }
// Stock for every line is shipped as part of order creation; a shortfall on any
// line rejects the whole order.
func (h *Handler) createSalesOrder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CustomerID   int             `json:"customer_id"`
		OrderDate    string          `json:"order_date"`
		DeliveryDate string          `json:"delivery_date"`
		Lines        []orderLineBody `json:"lines"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	lines, ok := orderLineRequests(w, r, body.Lines)
	if !ok {
		return
	}

	result, err := h.svc.CreateSalesOrder(r.Context(), app.CreateSalesOrderRequest{
		CustomerID:   body.CustomerID,
		OrderDate:    body.OrderDate,
		DeliveryDate: body.DeliveryDate,
		Lines:        lines,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result.Order)
}

// getSalesOrder handles GET /api/sales-orders/{soNumber}.
func (h *Handler) getSalesOrder(w http.ResponseWriter, r *http.Request) {
	soNumber, ok := urlInt(w, r, "soNumber")
	if !ok {
		return
	}
	result, err := h.svc.GetSalesOrder(r.Context(), soNumber)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Order)
}

// deleteSalesOrder handles DELETE /api/sales-orders/{soNumber}.
func (h *Handler) deleteSalesOrder(w http.ResponseWriter, r *http.Request) {
	soNumber, ok := urlInt(w, r, "soNumber")
	if !ok {
		return
	}
	if err := h.svc.DeleteSalesOrder(r.Context(), soNumber); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// generateInvoice handles POST /api/sales-orders/{soNumber}/invoice.
// Body: { invoice_date? } — empty means today.
func (h *Handler) generateInvoice(w http.ResponseWriter, r *http.Request) {
	soNumber, ok := urlInt(w, r, "soNumber")
	if !ok {
		return
	}

	var body struct {
		InvoiceDate string `json:"invoice_date"`
	}
	// Best-effort decode; an empty body means "invoice today".
	_ = json.NewDecoder(r.Body).Decode(&body)

	result, err := h.svc.GenerateInvoice(r.Context(), soNumber, body.InvoiceDate)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result.Invoice)
}

// listInvoices handles GET /api/invoices?status=Unpaid.
func (h *Handler) listInvoices(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListInvoices(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Invoices)
}

// getInvoice handles GET /api/invoices/{id}.
func (h *Handler) getInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := urlInt(w, r, "id")
	if !ok {
		return
	}
	result, err := h.svc.GetInvoice(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Invoice)
}

// markInvoicePaid handles POST /api/invoices/{id}/pay. Paying an already-paid
// invoice is a no-op and still returns the invoice.
func (h *Handler) markInvoicePaid(w http.ResponseWriter, r *http.Request) {
	id, ok := urlInt(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.MarkInvoicePaid(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	result, err := h.svc.GetInvoice(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Invoice)
}
