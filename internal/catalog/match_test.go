package catalog

import (
	"testing"

	"github.com/google/uuid"
)

func testMatcher() (*Matcher, map[string]Entry) {
	camisetaID := uuid.New()
	entries := map[string]Entry{
		"balon":      {ProductID: uuid.New(), Name: "Balon Futbol Profesional", SKU: "BF-01"},
		"camiseta":   {ProductID: camisetaID, Name: "Camiseta Seleccion", SKU: "CM-10"},
		"camiseta-s": {ProductID: camisetaID, VariantID: uuid.New(), Name: "Camiseta Seleccion", SKU: "CM-10", Label: "Talla S"},
		"camiseta-m": {ProductID: camisetaID, VariantID: uuid.New(), Name: "Camiseta Seleccion", SKU: "CM-10", Label: "Talla M"},
		"camiseta-l": {ProductID: camisetaID, VariantID: uuid.New(), Name: "Camiseta Seleccion", SKU: "CM-10", Label: "Talla L"},
	}
	list := []Entry{
		entries["balon"],
		entries["camiseta"],
		entries["camiseta-s"],
		entries["camiseta-m"],
		entries["camiseta-l"],
	}
	return New(list), entries
}

func TestMatch_VariantQualifierWins(t *testing.T) {
	m, entries := testMatcher()

	result := m.Match("camiseta talla m")
	if result.Status != Matched {
		t.Fatalf("status = %s, want Matched", result.Status)
	}
	if result.Entry.VariantID != entries["camiseta-m"].VariantID {
		t.Errorf("matched %q, want Talla M", result.Entry.Label)
	}
	if result.Quantity != 1 {
		t.Errorf("quantity = %d, want 1", result.Quantity)
	}
}

func TestMatch_PlainProductWithoutQualifier(t *testing.T) {
	m, entries := testMatcher()

	// Variant entries need a label hit; a bare product name resolves
	// to the plain entry.
	result := m.Match("camiseta seleccion")
	if result.Status != Matched {
		t.Fatalf("status = %s, want Matched", result.Status)
	}
	if result.Entry.ProductID != entries["camiseta"].ProductID || result.Entry.VariantID != uuid.Nil {
		t.Errorf("matched %+v, want plain camiseta", result.Entry)
	}
}

func TestMatch_AmbiguousQualifier(t *testing.T) {
	m, _ := testMatcher()

	// "talla" alone hits all three variant labels equally.
	result := m.Match("camiseta talla")
	if result.Status != Ambiguous {
		t.Fatalf("status = %s, want Ambiguous", result.Status)
	}
	if len(result.Candidates) != 3 {
		t.Errorf("candidates = %d, want 3", len(result.Candidates))
	}
}

func TestMatch_Unmatched(t *testing.T) {
	m, _ := testMatcher()

	result := m.Match("guantes de arquero")
	if result.Status != Unmatched {
		t.Errorf("status = %s, want Unmatched", result.Status)
	}
}

func TestMatch_SKUTokens(t *testing.T) {
	m, entries := testMatcher()

	result := m.Match("bf-01")
	if result.Status != Matched {
		t.Fatalf("status = %s, want Matched", result.Status)
	}
	if result.Entry.ProductID != entries["balon"].ProductID {
		t.Errorf("matched %q, want balon", result.Entry.Name)
	}
}

func TestMatch_QuantityExtraction(t *testing.T) {
	m, entries := testMatcher()

	result := m.Match("camiseta talla l x3")
	if result.Status != Matched {
		t.Fatalf("status = %s, want Matched", result.Status)
	}
	if result.Entry.VariantID != entries["camiseta-l"].VariantID {
		t.Errorf("matched %q, want Talla L", result.Entry.Label)
	}
	if result.Quantity != 3 {
		t.Errorf("quantity = %d, want 3", result.Quantity)
	}
}

func TestParseQty(t *testing.T) {
	tests := []struct {
		tok  string
		want int32
		ok   bool
	}{
		{"x2", 2, true},
		{"2un", 2, true},
		{"3pcs", 3, true},
		{"x0", 0, false},
		{"10", 0, false}, // bare numbers stay in the description
		{"cm", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseQty(tt.tok)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("parseQty(%q) = %d, %v; want %d, %v", tt.tok, got, ok, tt.want, tt.ok)
		}
	}
}
