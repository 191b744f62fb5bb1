package web

import (
	"fmt"
	"net/http"

	"tradeledger/internal/app"

	"github.com/shopspring/decimal"
)

type orderLineBody struct {
	ItemID   int    `json:"item_id"`
	Quantity int64  `json:"quantity"`
	Rate     string `json:"rate"` // optional; empty means the item's default rate
}

// orderLineRequests converts JSON order lines, parsing the optional rate override.
func orderLineRequests(w http.ResponseWriter, r *http.Request, bodyLines []orderLineBody) ([]app.OrderLineRequest, bool) {
	lines := make([]app.OrderLineRequest, 0, len(bodyLines))
	for i, l := range bodyLines {
		line := app.OrderLineRequest{ItemID: l.ItemID, Quantity: l.Quantity}
		if l.Rate != "" {
			rate, err := decimal.NewFromString(l.Rate)
			if err != nil {
				writeError(w, r, fmt.Sprintf("line %d: invalid rate", i+1), "BAD_REQUEST", http.StatusBadRequest)
				return nil, false
			}
			line.Rate = &rate
		}
		lines = append(lines, line)
	}
	return lines, true
}

// listPurchaseOrders handles GET /api/purchase-orders?status=Pending.
func (h *Handler) listPurchaseOrders(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListPurchaseOrders(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Orders)
}

// createPurchaseOrder handles POST /api/purchase-orders.
// Body: { supplier_id, order_date?, expected_delivery?, lines: [{item_id, quantity, rate?}] }
func (h *Handler) createPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SupplierID       int             `json:"supplier_id"`
		OrderDate        string          `json:"order_date"`
		ExpectedDelivery string          `json:"expected_delivery"`
		Lines            []orderLineBody `json:"lines"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	lines, ok := orderLineRequests(w, r, body.Lines)
	if !ok {
		return
	}

	result, err := h.svc.CreatePurchaseOrder(r.Context(), app.CreatePurchaseOrderRequest{
		SupplierID:       body.SupplierID,
		OrderDate:        body.OrderDate,
		ExpectedDelivery: body.ExpectedDelivery,
		Lines:            lines,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result.Order)
}

// getPurchaseOrder handles GET /api/purchase-orders/{poNumber}.
func (h *Handler) getPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	poNumber, ok := urlInt(w, r, "poNumber")
	if !ok {
		return
	}
	result, err := h.svc.GetPurchaseOrder(r.Context(), poNumber)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Order)
}

// deletePurchaseOrder handles DELETE /api/purchase-orders/{poNumber}.
func (h *Handler) deletePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	poNumber, ok := urlInt(w, r, "poNumber")
	if !ok {
		return
	}
	if err := h.svc.DeletePurchaseOrder(r.Context(), poNumber); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// recordGoodsReceipt handles POST /api/purchase-orders/{poNumber}/receipts.
// Body: { item_id, invoice_number, received_quantity, accepted_quantity, rejected_quantity, receipt_date?, notes? }
func (h *Handler) recordGoodsReceipt(w http.ResponseWriter, r *http.Request) {
	poNumber, ok := urlInt(w, r, "poNumber")
	if !ok {
		return
	}

	var body struct {
		ItemID           int    `json:"item_id"`
		InvoiceNumber    string `json:"invoice_number"`
		ReceivedQuantity int64  `json:"received_quantity"`
		AcceptedQuantity int64  `json:"accepted_quantity"`
		RejectedQuantity int64  `json:"rejected_quantity"`
		ReceiptDate      string `json:"receipt_date"`
		Notes            string `json:"notes"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	result, err := h.svc.RecordGoodsReceipt(r.Context(), app.GoodsReceiptRequest{
		PONumber:         poNumber,
		ItemID:           body.ItemID,
		InvoiceNumber:    body.InvoiceNumber,
		ReceivedQuantity: body.ReceivedQuantity,
		AcceptedQuantity: body.AcceptedQuantity,
		RejectedQuantity: body.RejectedQuantity,
		ReceiptDate:      body.ReceiptDate,
		Notes:            body.Notes,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	type response struct {
		Receipt any `json:"receipt"`
		Order   any `json:"order"`
	}
	writeJSON(w, http.StatusCreated, response{Receipt: result.Receipt, Order: result.Order})
}

// listReceiptsForOrder handles GET /api/purchase-orders/{poNumber}/receipts.
func (h *Handler) listReceiptsForOrder(w http.ResponseWriter, r *http.Request) {
	poNumber, ok := urlInt(w, r, "poNumber")
	if !ok {
		return
	}
	result, err := h.svc.ListGoodsReceipts(r.Context(), poNumber)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Receipts)
}

// listGoodsReceipts handles GET /api/goods-receipts — receipts across all orders.
func (h *Handler) listGoodsReceipts(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListGoodsReceipts(r.Context(), 0)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Receipts)
}
