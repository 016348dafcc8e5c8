package order

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Placeholder substituted with the slot index when a submission slot is
// instantiated from the template.
const IndexPlaceholder = "__prefix__"

// ErrMissingTemplate means the slot template lacks the index
// placeholder, so no submission record can be instantiated from it.
var ErrMissingTemplate = errors.New("slot template missing index placeholder")

// Slot is the externally-submittable mirror of one line item, addressed
// by a stable 0-based index. Slots are derived from the registry and
// never edited directly.
type Slot struct {
	Index     int
	ProductID uuid.UUID
	VariantID uuid.UUID // uuid.Nil when no variant
	Quantity  int32
	UnitPrice int64
}

// FormSet maintains the submission slots and the TOTAL_FORMS counter.
// Index allocation is monotonic: removal decrements the counter but
// never frees an index for reuse within the draft, so surviving slots
// keep their addresses.
type FormSet struct {
	prefix   string
	template string
	next     int // monotonic allocator, never decremented
	total    int // logically active slots (TOTAL_FORMS)
	slots    map[int]*Slot
}

// NewFormSet builds a form set whose per-slot field namespace is
// "<prefix>-<index>" (template "<prefix>-__prefix__").
func NewFormSet(prefix string) *FormSet {
	return &FormSet{
		prefix:   prefix,
		template: prefix + "-" + IndexPlaceholder,
		slots:    make(map[int]*Slot),
	}
}

// NewFormSetTemplate builds a form set from an explicit slot template.
// The template must contain IndexPlaceholder; WriteSlot fails otherwise.
func NewFormSetTemplate(prefix, template string) *FormSet {
	return &FormSet{
		prefix:   prefix,
		template: template,
		slots:    make(map[int]*Slot),
	}
}

// NextIndex allocates the next slot index and increments the slot
// count. Allocation is monotonic: releases lower the count but never
// hand an index back, so an index identifies one admission forever.
func (f *FormSet) NextIndex() int {
	i := f.next
	f.next++
	f.total++
	return i
}

// Release decrements the slot count on removal, floored at 0. It
// intentionally does not free the removed index.
func (f *FormSet) Release() {
	if f.total > 0 {
		f.total--
	}
}

// TotalForms is the number of logically active slots.
func (f *FormSet) TotalForms() int {
	return f.total
}

// WriteSlot instantiates one submission record at index. The template
// is checked before anything is stored, so a failure leaves no partial
// state.
func (f *FormSet) WriteSlot(index int, productID, variantID uuid.UUID, quantity int32, unitPrice int64) error {
	if !strings.Contains(f.template, IndexPlaceholder) {
		return ErrMissingTemplate
	}
	f.slots[index] = &Slot{
		Index:     index,
		ProductID: productID,
		VariantID: variantID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	}
	return nil
}

// UpdateSlotQuantity mutates a slot's quantity in place. Unknown
// indices are ignored.
func (f *FormSet) UpdateSlotQuantity(index int, quantity int32) {
	if s, ok := f.slots[index]; ok {
		s.Quantity = quantity
	}
}

// Detach drops the slot record for a removed item. The index itself is
// not renumbered or reused; pair with Release to keep the counter
// consistent.
func (f *FormSet) Detach(index int) {
	delete(f.slots, index)
}

// Slot returns the slot at index, if it is still attached.
func (f *FormSet) Slot(index int) (Slot, bool) {
	s, ok := f.slots[index]
	if !ok {
		return Slot{}, false
	}
	return *s, true
}

// Values renders every attached slot into its submittable field
// namespace plus the "<prefix>-TOTAL_FORMS" counter.
func (f *FormSet) Values() url.Values {
	v := url.Values{}
	v.Set(f.prefix+"-TOTAL_FORMS", strconv.Itoa(f.total))
	for _, s := range f.slots {
		base := strings.ReplaceAll(f.template, IndexPlaceholder, strconv.Itoa(s.Index))
		v.Set(base+"-product", s.ProductID.String())
		if s.VariantID != uuid.Nil {
			v.Set(base+"-variant", s.VariantID.String())
		} else {
			v.Set(base+"-variant", "")
		}
		v.Set(base+"-quantity", strconv.FormatInt(int64(s.Quantity), 10))
		v.Set(base+"-unit_price", strconv.FormatInt(s.UnitPrice, 10))
	}
	return v
}
