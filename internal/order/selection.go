package order

import "github.com/google/uuid"

// SelectionItem is one line item as posted to the session store.
type SelectionItem struct {
	ProductID    uuid.UUID  `json:"product_id"`
	VariantID    *uuid.UUID `json:"variant_id"`
	Qty          int32      `json:"qty"`
	UnitPrice    int64      `json:"unit_price"`
	ProductName  string     `json:"product_name"`
	SKU          string     `json:"sku"`
	VariantLabel string     `json:"variant_label"`
}

// Selection is the serializable snapshot of a draft's registry, saved
// to the session-scoped store before any page-changing navigation.
type Selection struct {
	Items   []SelectionItem `json:"items"`
	Deposit int64           `json:"deposit"`
}

// Selection snapshots the registry in insertion order.
func (d *Draft) Selection() Selection {
	d.mu.Lock()
	defer d.mu.Unlock()

	sel := Selection{
		Items:   make([]SelectionItem, 0, len(d.keys)),
		Deposit: d.deposit,
	}
	for _, li := range d.itemsLocked() {
		item := SelectionItem{
			ProductID:    li.Key.ProductID,
			Qty:          li.Quantity,
			UnitPrice:    li.UnitPrice,
			ProductName:  li.Name,
			SKU:          li.SKU,
			VariantLabel: li.VariantLabel,
		}
		if li.Key.HasVariant() {
			vid := li.Key.VariantID
			item.VariantID = &vid
		}
		sel.Items = append(sel.Items, item)
	}
	return sel
}
