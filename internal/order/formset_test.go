package order

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestFormSetIndexAllocation(t *testing.T) {
	f := NewFormSet("items")

	if i := f.NextIndex(); i != 0 {
		t.Errorf("first index = %d, want 0", i)
	}
	if i := f.NextIndex(); i != 1 {
		t.Errorf("second index = %d, want 1", i)
	}
	f.Release()
	if f.TotalForms() != 1 {
		t.Errorf("TotalForms = %d after release, want 1", f.TotalForms())
	}
	// Allocation stays monotonic: index 1 is gone for good.
	if i := f.NextIndex(); i != 2 {
		t.Errorf("index after release = %d, want 2 (never reused)", i)
	}
	if f.TotalForms() != 2 {
		t.Errorf("TotalForms = %d, want 2", f.TotalForms())
	}

	f2 := NewFormSet("items")
	f2.Release()
	if f2.TotalForms() != 0 {
		t.Errorf("TotalForms = %d, want floor at 0", f2.TotalForms())
	}
}

func TestFormSetWriteAndUpdateSlot(t *testing.T) {
	f := NewFormSet("items")
	product, variant := uuid.New(), uuid.New()

	idx := f.NextIndex()
	if err := f.WriteSlot(idx, product, variant, 2, 60000); err != nil {
		t.Fatalf("WriteSlot: %v", err)
	}

	f.UpdateSlotQuantity(idx, 5)
	s, ok := f.Slot(idx)
	if !ok {
		t.Fatal("slot missing")
	}
	if s.Quantity != 5 || s.ProductID != product || s.VariantID != variant || s.UnitPrice != 60000 {
		t.Errorf("slot = %+v", s)
	}

	// Updates to unknown indices are ignored.
	f.UpdateSlotQuantity(99, 1)
}

func TestFormSetValues(t *testing.T) {
	f := NewFormSet("items")
	product := uuid.New()

	idx := f.NextIndex()
	if err := f.WriteSlot(idx, product, uuid.Nil, 3, 45000); err != nil {
		t.Fatal(err)
	}

	v := f.Values()
	if got := v.Get("items-TOTAL_FORMS"); got != "1" {
		t.Errorf("TOTAL_FORMS = %q, want \"1\"", got)
	}
	if got := v.Get("items-0-product"); got != product.String() {
		t.Errorf("items-0-product = %q", got)
	}
	if got := v.Get("items-0-variant"); got != "" {
		t.Errorf("items-0-variant = %q, want empty for no variant", got)
	}
	if got := v.Get("items-0-quantity"); got != "3" {
		t.Errorf("items-0-quantity = %q, want \"3\"", got)
	}
	if got := v.Get("items-0-unit_price"); got != "45000" {
		t.Errorf("items-0-unit_price = %q, want \"45000\"", got)
	}
}

func TestFormSetMissingTemplate(t *testing.T) {
	f := NewFormSetTemplate("items", "items-broken")

	idx := f.NextIndex()
	err := f.WriteSlot(idx, uuid.New(), uuid.Nil, 1, 1000)
	if !errors.Is(err, ErrMissingTemplate) {
		t.Fatalf("err = %v, want ErrMissingTemplate", err)
	}
	if _, ok := f.Slot(idx); ok {
		t.Error("failed write must not leave a partial slot")
	}
}

func TestFormSetDetachKeepsOtherSlots(t *testing.T) {
	f := NewFormSet("items")
	a, b := uuid.New(), uuid.New()

	i0 := f.NextIndex()
	_ = f.WriteSlot(i0, a, uuid.Nil, 1, 100)
	i1 := f.NextIndex()
	_ = f.WriteSlot(i1, b, uuid.Nil, 1, 200)

	f.Detach(i0)
	f.Release()

	if _, ok := f.Slot(i0); ok {
		t.Error("detached slot still present")
	}
	if s, ok := f.Slot(i1); !ok || s.Index != 1 {
		t.Errorf("surviving slot = %+v ok=%v, want index 1 untouched", s, ok)
	}
	if v := f.Values(); v.Get("items-TOTAL_FORMS") != "1" {
		t.Errorf("TOTAL_FORMS = %q, want \"1\"", v.Get("items-TOTAL_FORMS"))
	}
}
