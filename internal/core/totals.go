package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// OrderLineInput is one order line before totals are computed. Rate is the
// tax-exclusive unit rate; GSTPercent is the GST rate applied to the line.
type OrderLineInput struct {
	ItemID     int
	Quantity   int64
	Rate       decimal.Decimal
	GSTPercent decimal.Decimal
}

// LineTotal is an order line with its computed amounts at full precision.
type LineTotal struct {
	ItemID     int
	Quantity   int64
	Rate       decimal.Decimal
	GSTPercent decimal.Decimal
	Subtotal   decimal.Decimal // rate × quantity
	GSTAmount  decimal.Decimal // subtotal × gst / 100
	Total      decimal.Decimal // subtotal + gst amount
}

// OrderTotals aggregates the line amounts for an order.
type OrderTotals struct {
	Lines    []LineTotal
	Subtotal decimal.Decimal
	TotalGST decimal.Decimal
	Total    decimal.Decimal
}

var oneHundred = decimal.NewFromInt(100)

// ComputeOrderTotals computes per-line and order-level amounts for a set of
// order lines. All arithmetic is exact; callers round to 2 decimal places only
// when persisting or displaying, never between steps.
func ComputeOrderTotals(lines []OrderLineInput) (*OrderTotals, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	totals := &OrderTotals{Lines: make([]LineTotal, 0, len(lines))}
	for i, in := range lines {
		if in.Quantity <= 0 {
			return nil, &ValidationError{
				Field:  "quantity",
				Reason: fmt.Sprintf("line %d: must be positive, got %d", i+1, in.Quantity),
			}
		}
		if in.Rate.IsNegative() {
			return nil, &ValidationError{
				Field:  "rate",
				Reason: fmt.Sprintf("line %d: must not be negative, got %s", i+1, in.Rate),
			}
		}
		if in.GSTPercent.IsNegative() {
			return nil, &ValidationError{
				Field:  "gst_percent",
				Reason: fmt.Sprintf("line %d: must not be negative, got %s", i+1, in.GSTPercent),
			}
		}

		subtotal := in.Rate.Mul(decimal.NewFromInt(in.Quantity))
		gstAmount := subtotal.Mul(in.GSTPercent).Div(oneHundred)
		lt := LineTotal{
			ItemID:     in.ItemID,
			Quantity:   in.Quantity,
			Rate:       in.Rate,
			GSTPercent: in.GSTPercent,
			Subtotal:   subtotal,
			GSTAmount:  gstAmount,
			Total:      subtotal.Add(gstAmount),
		}
		totals.Lines = append(totals.Lines, lt)
		totals.Subtotal = totals.Subtotal.Add(lt.Subtotal)
		totals.TotalGST = totals.TotalGST.Add(lt.GSTAmount)
		totals.Total = totals.Total.Add(lt.Total)
	}
	return totals, nil
}
