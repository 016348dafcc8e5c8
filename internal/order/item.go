// Package order implements the draft composition engine: an
// insertion-ordered registry of selected line items kept in lockstep
// with a submittable form-slot list, plus the settlement summary
// recomputed after every mutation.
package order

import "github.com/google/uuid"

// ItemKey identifies a selection. VariantID is uuid.Nil for products
// sold without variants. Keys are unique within a draft; adding an
// existing key merges quantities instead of duplicating a row.
type ItemKey struct {
	ProductID uuid.UUID
	VariantID uuid.UUID
}

// HasVariant reports whether the key addresses a specific variant.
func (k ItemKey) HasVariant() bool {
	return k.VariantID != uuid.Nil
}

// Display carries the presentation-only fields of a selection.
type Display struct {
	Name         string
	SKU          string
	VariantLabel string
}

// LineItem is one selected (product, optional variant) row. Slot is the
// form-slot index assigned on first admission; it stays stable for the
// life of the item and is never reassigned within a draft.
type LineItem struct {
	Key          ItemKey
	Name         string
	SKU          string
	VariantLabel string
	UnitPrice    int64
	Quantity     int32
	Slot         int
}

// Subtotal is the line total in whole pesos.
func (li LineItem) Subtotal() int64 {
	return li.UnitPrice * int64(li.Quantity)
}
