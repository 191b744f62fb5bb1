package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"tradeledger/internal/core"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with the given status. The Content-Type
// header must be set before the status is written.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDomainError maps the typed business errors onto HTTP statuses:
// validation problems are 400, missing records 404, and conflicts with
// existing state (stock shortfalls, in-use records, duplicate invoices) 409.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr *core.ValidationError
		notFoundErr   *core.NotFoundError
		stockErr      *core.InsufficientStockError
		refErr        *core.ReferentialIntegrityError
		dupErr        *core.DuplicateInvoiceError
	)
	switch {
	case errors.Is(err, core.ErrEmptyOrder), errors.As(err, &validationErr):
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
	case errors.As(err, &notFoundErr):
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
	case errors.As(err, &stockErr):
		writeError(w, r, err.Error(), "INSUFFICIENT_STOCK", http.StatusConflict)
	case errors.As(err, &refErr):
		writeError(w, r, err.Error(), "RECORD_IN_USE", http.StatusConflict)
	case errors.As(err, &dupErr):
		writeError(w, r, err.Error(), "DUPLICATE_INVOICE", http.StatusConflict)
	default:
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}
