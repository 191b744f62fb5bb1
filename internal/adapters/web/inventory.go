package web

import "net/http"

// stockLevels handles GET /api/stock.
func (h *Handler) stockLevels(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetStockLevels(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Levels)
}

// lowStockReport handles GET /api/stock/low.
func (h *Handler) lowStockReport(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.LowStockReport(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Items)
}

// stockLevel handles GET /api/stock/{id}.
func (h *Handler) stockLevel(w http.ResponseWriter, r *http.Request) {
	id, ok := urlInt(w, r, "id")
	if !ok {
		return
	}
	level, err := h.svc.GetStockLevel(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, level)
}

// adjustStock handles PUT /api/stock/{id}.
// Body: { quantity } is the new absolute on-hand quantity after a physical count.
func (h *Handler) adjustStock(w http.ResponseWriter, r *http.Request) {
	id, ok := urlInt(w, r, "id")
	if !ok {
		return
	}

	var body struct {
		Quantity int64 `json:"quantity"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	if err := h.svc.AdjustStock(r.Context(), id, body.Quantity); err != nil {
		writeDomainError(w, r, err)
		return
	}

	level, err := h.svc.GetStockLevel(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, level)
}
