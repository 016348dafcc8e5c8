package order

import (
	"net/url"
	"sync"

	"github.com/google/uuid"

	"github.com/sportline-pos/api/internal/enum"
)

// FormPrefix is the field-name namespace for submission slots.
const FormPrefix = "items"

// Draft is one in-progress order composition. It owns the line-item
// registry (the single source of truth); the form set is a one-way
// derivation updated on every mutation, and the summary is recomputed
// synchronously before any mutation returns.
//
// A reservation draft derives the paid amount from total and deposit on
// every recompute; a sale draft keeps paid user-editable.
type Draft struct {
	ID   uuid.UUID
	Kind string

	mu    sync.Mutex
	keys  []ItemKey
	items map[ItemKey]*LineItem
	forms *FormSet

	discountPercent int64
	deposit         int64
	paid            int64

	summary  Summary
	onChange func(Summary)
}

// NewDraft opens an empty draft of the given kind.
func NewDraft(kind string) *Draft {
	d := &Draft{
		ID:    uuid.New(),
		Kind:  kind,
		items: make(map[ItemKey]*LineItem),
		forms: NewFormSet(FormPrefix),
	}
	d.summary = Compute(nil, 0, 0, 0, d.derivePaid())
	return d
}

func (d *Draft) derivePaid() bool {
	return d.Kind == enum.DraftKindReservation
}

// SetObserver registers a callback invoked with the new summary after
// every recompute. Used to push live updates to the composing terminal.
func (d *Draft) SetObserver(fn func(Summary)) {
	d.mu.Lock()
	d.onChange = fn
	d.mu.Unlock()
}

// Add admits a selection. The stock check runs first: a failure leaves
// the registry, the form set and the summary untouched. An existing key
// merges quantities (the check covers the merged total); a new key is
// written to the next form slot.
func (d *Draft) Add(key ItemKey, display Display, unitPrice int64, quantity int32, available *int32) (LineItem, error) {
	if quantity < 1 {
		quantity = 1
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if existing, ok := d.items[key]; ok {
		merged := existing.Quantity + quantity
		if err := CheckStock(merged, available); err != nil {
			return LineItem{}, err
		}
		existing.Quantity = merged
		d.forms.UpdateSlotQuantity(existing.Slot, merged)
		d.recompute()
		return *existing, nil
	}

	if err := CheckStock(quantity, available); err != nil {
		return LineItem{}, err
	}

	idx := d.forms.NextIndex()
	if err := d.forms.WriteSlot(idx, key.ProductID, key.VariantID, quantity, unitPrice); err != nil {
		d.forms.Release()
		return LineItem{}, err
	}

	item := &LineItem{
		Key:          key,
		Name:         display.Name,
		SKU:          display.SKU,
		VariantLabel: display.VariantLabel,
		UnitPrice:    unitPrice,
		Quantity:     quantity,
		Slot:         idx,
	}
	d.items[key] = item
	d.keys = append(d.keys, key)
	d.recompute()
	return *item, nil
}

// SetQuantity updates an item's quantity, clamped to >= 1. Absent keys
// are a no-op.
func (d *Draft) SetQuantity(key ItemKey, quantity int32) {
	if quantity < 1 {
		quantity = 1
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	item, ok := d.items[key]
	if !ok {
		return
	}
	item.Quantity = quantity
	d.forms.UpdateSlotQuantity(item.Slot, quantity)
	d.recompute()
}

// Remove deletes a selection, detaches its slot and decrements the slot
// count. Surviving slots keep their indices.
func (d *Draft) Remove(key ItemKey) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	item, ok := d.items[key]
	if !ok {
		return false
	}
	delete(d.items, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
	d.forms.Detach(item.Slot)
	d.forms.Release()
	d.recompute()
	return true
}

// SetDiscountPercent sets the flat discount (0-100) and recomputes.
func (d *Draft) SetDiscountPercent(p int64) {
	d.mu.Lock()
	d.discountPercent = p
	d.recompute()
	d.mu.Unlock()
}

// SetDeposit sets the deposit amount and recomputes.
func (d *Draft) SetDeposit(amount int64) {
	d.mu.Lock()
	d.deposit = amount
	d.recompute()
	d.mu.Unlock()
}

// SetPaid sets the paid amount on sale drafts. On reservation drafts
// the recompute derives paid again, preempting the edit.
func (d *Draft) SetPaid(amount int64) {
	d.mu.Lock()
	d.paid = amount
	d.recompute()
	d.mu.Unlock()
}

// Items returns the line items in insertion order.
func (d *Draft) Items() []LineItem {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.itemsLocked()
}

func (d *Draft) itemsLocked() []LineItem {
	out := make([]LineItem, 0, len(d.keys))
	for _, k := range d.keys {
		out = append(out, *d.items[k])
	}
	return out
}

// Summary returns the settlement summary as of the last mutation.
func (d *Draft) Summary() Summary {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.summary
}

// TotalForms exposes the active slot count.
func (d *Draft) TotalForms() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.forms.TotalForms()
}

// FormValues renders the submittable field namespace for the draft.
func (d *Draft) FormValues() url.Values {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.forms.Values()
}

// Slot returns the submission slot mirroring the given index.
func (d *Draft) Slot(index int) (Slot, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.forms.Slot(index)
}

// recompute refreshes the summary and notifies the observer. Callers
// hold d.mu. On reservation drafts the derived paid amount is pushed
// back into the input.
func (d *Draft) recompute() {
	d.summary = Compute(d.itemsLocked(), d.discountPercent, d.deposit, d.paid, d.derivePaid())
	if d.derivePaid() {
		d.paid = d.summary.Paid
	}
	if d.onChange != nil {
		d.onChange(d.summary)
	}
}
