package core_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"tradeledger/internal/core"
)

func TestTypedErrors_MatchWithErrorsAs(t *testing.T) {
	wrapped := fmt.Errorf("creating order: %w", &core.InsufficientStockError{
		ItemID: 7, Available: 2, Requested: 5,
	})

	var stockErr *core.InsufficientStockError
	if !errors.As(wrapped, &stockErr) {
		t.Fatalf("errors.As failed to match wrapped InsufficientStockError")
	}
	if stockErr.Available != 2 || stockErr.Requested != 5 {
		t.Errorf("unexpected fields: %+v", stockErr)
	}
}

func TestReferentialIntegrityError_ListsReferences(t *testing.T) {
	err := &core.ReferentialIntegrityError{
		Entity: "item",
		ID:     3,
		References: map[string]int{
			"purchase_order_items": 2,
			"goods_receipts":       1,
		},
	}
	msg := err.Error()
	if !strings.Contains(msg, "2 purchase_order_items") || !strings.Contains(msg, "1 goods_receipts") {
		t.Errorf("message does not list references: %q", msg)
	}
}
