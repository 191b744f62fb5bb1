package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrEmptyOrder is returned when an order is created with no lines.
var ErrEmptyOrder = errors.New("order must contain at least one line")

// ValidationError reports input that violates a domain rule before any write happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports a reference to an entity that does not exist.
type NotFoundError struct {
	Entity string
	ID     int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// InsufficientStockError is returned when a shipment would drive
// quantity on hand below zero. Inventory is left untouched.
type InsufficientStockError struct {
	ItemID    int
	Available int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %d: %d on hand, %d requested",
		e.ItemID, e.Available, e.Requested)
}

// ReferentialIntegrityError is returned when a delete is refused because other
// records still reference the entity. References maps a referencing table to
// its row count, so callers can tell the user exactly what is in the way.
type ReferentialIntegrityError struct {
	Entity     string
	ID         int
	References map[string]int
}

func (e *ReferentialIntegrityError) Error() string {
	parts := make([]string, 0, len(e.References))
	for table := range e.References {
		parts = append(parts, fmt.Sprintf("%d %s", e.References[table], table))
	}
	sort.Strings(parts)
	return fmt.Sprintf("%s %d cannot be deleted: referenced by %s",
		e.Entity, e.ID, strings.Join(parts, ", "))
}

// DuplicateInvoiceError is returned when an invoice already exists for a sales
// order. InvoiceID identifies the existing invoice.
type DuplicateInvoiceError struct {
	SONumber  int
	InvoiceID int
}

func (e *DuplicateInvoiceError) Error() string {
	return fmt.Sprintf("sales order %d already has invoice %d", e.SONumber, e.InvoiceID)
}
