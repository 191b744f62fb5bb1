package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"tradeledger/internal/core"
)

func TestWriteDomainError_StatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", &core.ValidationError{Field: "quantity", Reason: "must be positive"}, http.StatusBadRequest, "BAD_REQUEST"},
		{"empty order", core.ErrEmptyOrder, http.StatusBadRequest, "BAD_REQUEST"},
		{"wrapped validation", fmt.Errorf("create order: %w", &core.ValidationError{Field: "rate", Reason: "negative"}), http.StatusBadRequest, "BAD_REQUEST"},
		{"not found", &core.NotFoundError{Entity: "item", ID: 42}, http.StatusNotFound, "NOT_FOUND"},
		{"insufficient stock", &core.InsufficientStockError{ItemID: 1, Available: 2, Requested: 5}, http.StatusConflict, "INSUFFICIENT_STOCK"},
		{"in use", &core.ReferentialIntegrityError{Entity: "supplier", ID: 3, References: map[string]int{"purchase_orders": 1}}, http.StatusConflict, "RECORD_IN_USE"},
		{"duplicate invoice", &core.DuplicateInvoiceError{SONumber: 7, InvoiceID: 9}, http.StatusConflict, "DUPLICATE_INVOICE"},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/items", nil)

			writeDomainError(rec, req, tc.err)

			if rec.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			var body errorResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Code != tc.wantCode {
				t.Errorf("code = %q, want %q", body.Code, tc.wantCode)
			}
			if body.Error == "" {
				t.Error("error message is empty")
			}
		})
	}
}

func TestWriteJSON_SetsContentTypeBeforeStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusCreated, map[string]string{"status": "ok"})

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", got)
	}
}

func TestRequestID_GeneratesAndEchoes(t *testing.T) {
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requestIDFromContext(r.Context()) == "" {
			t.Error("request ID missing from context")
		}
		w.WriteHeader(http.StatusOK)
	}))

	// No header supplied: a UUID is generated.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header not set")
	}

	// A safe caller-supplied ID is kept.
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "client-abc-123")
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "client-abc-123" {
		t.Errorf("X-Request-ID = %q, want client-abc-123", got)
	}

	// An unsafe ID is replaced.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "bad id with spaces")
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got == "bad id with spaces" || got == "" {
		t.Errorf("unsafe X-Request-ID was not replaced, got %q", got)
	}
}
