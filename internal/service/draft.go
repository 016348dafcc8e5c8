package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/sportline-pos/api/internal/database"
	"github.com/sportline-pos/api/internal/enum"
	"github.com/sportline-pos/api/internal/money"
	"github.com/sportline-pos/api/internal/order"
)

// Errors returned by the draft service.
var (
	ErrDraftNotFound    = errors.New("draft not found")
	ErrInvalidDraftKind = errors.New("invalid draft kind")
	ErrInvalidProductID = errors.New("invalid product_id")
	ErrInvalidVariantID = errors.New("invalid variant_id")
	ErrInvalidQuantity  = errors.New("quantity must be > 0")
	ErrProductNotFound  = errors.New("product not found")
	ErrVariantNotFound  = errors.New("variant not found")
	ErrVariantMismatch  = errors.New("variant does not belong to product")
)

// CatalogStore defines the DB methods needed to resolve a selection.
// Satisfied by *database.Queries; narrow interface for testability.
type CatalogStore interface {
	GetProductForDraft(ctx context.Context, id uuid.UUID) (database.Product, error)
	GetVariantForDraft(ctx context.Context, id uuid.UUID) (database.ProductVariant, error)
}

// DraftService resolves catalog identities and prices, then drives the
// composition engine. The engine owns all draft state; this layer only
// translates between wire ids and engine keys.
type DraftService struct {
	store  CatalogStore
	drafts *order.Manager
}

func NewDraftService(store CatalogStore, drafts *order.Manager) *DraftService {
	return &DraftService{store: store, drafts: drafts}
}

// Open starts a new composition draft.
func (s *DraftService) Open(kind string) (*order.Draft, error) {
	switch kind {
	case enum.DraftKindSale, enum.DraftKindReservation:
	default:
		return nil, ErrInvalidDraftKind
	}
	return s.drafts.Open(kind), nil
}

// Get looks up an open draft.
func (s *DraftService) Get(id uuid.UUID) (*order.Draft, error) {
	d, ok := s.drafts.Get(id)
	if !ok {
		return nil, ErrDraftNotFound
	}
	return d, nil
}

// Close discards a draft.
func (s *DraftService) Close(id uuid.UUID) {
	s.drafts.Close(id)
}

// AddItem resolves the product (and variant, when given), then admits
// the selection through the stock guard. The variant's own price and
// stock take over when a variant is chosen.
func (s *DraftService) AddItem(ctx context.Context, draftID uuid.UUID, productID, variantID string, quantity int32) (order.LineItem, error) {
	if quantity <= 0 {
		return order.LineItem{}, ErrInvalidQuantity
	}

	d, err := s.Get(draftID)
	if err != nil {
		return order.LineItem{}, err
	}

	pid, err := uuid.Parse(productID)
	if err != nil {
		return order.LineItem{}, ErrInvalidProductID
	}
	product, err := s.store.GetProductForDraft(ctx, pid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return order.LineItem{}, ErrProductNotFound
		}
		return order.LineItem{}, fmt.Errorf("get product: %w", err)
	}

	key := order.ItemKey{ProductID: pid}
	display := order.Display{Name: product.Name, SKU: product.SKU}
	unitPrice := numericToPesos(product.Price)
	available := int4Ptr(product.Stock)

	if variantID != "" {
		vid, err := uuid.Parse(variantID)
		if err != nil {
			return order.LineItem{}, ErrInvalidVariantID
		}
		variant, err := s.store.GetVariantForDraft(ctx, vid)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return order.LineItem{}, ErrVariantNotFound
			}
			return order.LineItem{}, fmt.Errorf("get variant: %w", err)
		}
		if variant.ProductID != pid {
			return order.LineItem{}, ErrVariantMismatch
		}
		key.VariantID = vid
		display.VariantLabel = variant.Label
		unitPrice = numericToPesos(variant.Price)
		available = int4Ptr(variant.Stock)
	}

	return d.Add(key, display, unitPrice, quantity, available)
}

// SetQuantity edits a line item's quantity (clamped to >= 1 by the
// engine; absent identities are a no-op).
func (s *DraftService) SetQuantity(draftID uuid.UUID, productID, variantID string, quantity int32) error {
	d, err := s.Get(draftID)
	if err != nil {
		return err
	}
	key, err := parseKey(productID, variantID)
	if err != nil {
		return err
	}
	d.SetQuantity(key, quantity)
	return nil
}

// RemoveItem removes a selection from the draft.
func (s *DraftService) RemoveItem(draftID uuid.UUID, productID, variantID string) error {
	d, err := s.Get(draftID)
	if err != nil {
		return err
	}
	key, err := parseKey(productID, variantID)
	if err != nil {
		return err
	}
	d.Remove(key)
	return nil
}

// SettlementInput carries the raw textual settlement fields. Nil means
// leave the current value; anything unparseable degrades to 0 through
// the money codec rather than failing.
type SettlementInput struct {
	DiscountPercent *string
	Deposit         *string
	Paid            *string
}

// SetSettlement applies settlement edits and recomputes.
func (s *DraftService) SetSettlement(draftID uuid.UUID, in SettlementInput) error {
	d, err := s.Get(draftID)
	if err != nil {
		return err
	}
	if in.DiscountPercent != nil {
		d.SetDiscountPercent(money.ParsePercent(*in.DiscountPercent))
	}
	if in.Deposit != nil {
		d.SetDeposit(money.Parse(*in.Deposit))
	}
	if in.Paid != nil {
		d.SetPaid(money.Parse(*in.Paid))
	}
	return nil
}

// Checkout runs the submission gate. It never mutates the draft.
func (s *DraftService) Checkout(draftID uuid.UUID, in order.CheckoutInput) error {
	d, err := s.Get(draftID)
	if err != nil {
		return err
	}
	return d.ValidateSubmission(in)
}

// --- Helpers ---

func parseKey(productID, variantID string) (order.ItemKey, error) {
	pid, err := uuid.Parse(productID)
	if err != nil {
		return order.ItemKey{}, ErrInvalidProductID
	}
	key := order.ItemKey{ProductID: pid}
	if variantID != "" {
		vid, err := uuid.Parse(variantID)
		if err != nil {
			return order.ItemKey{}, ErrInvalidVariantID
		}
		key.VariantID = vid
	}
	return key, nil
}

// numericToPesos converts a DB numeric price to whole pesos.
func numericToPesos(n pgtype.Numeric) int64 {
	if !n.Valid {
		return 0
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return 0
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return 0
	}
	return d.Round(0).IntPart()
}

func int4Ptr(n pgtype.Int4) *int32 {
	if !n.Valid {
		return nil
	}
	v := n.Int32
	return &v
}
