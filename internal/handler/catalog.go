package handler

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/sportline-pos/api/internal/catalog"
	"github.com/sportline-pos/api/internal/database"
	"github.com/sportline-pos/api/internal/enum"
)

const (
	catalogPageSize = 20

	// Quick-entry matching scores the whole active catalog; the cap
	// keeps a runaway catalog from blowing up the request.
	matchCatalogLimit = 500
)

// CatalogStore defines the database methods needed by catalog handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type CatalogStore interface {
	SearchProducts(ctx context.Context, arg database.SearchProductsParams) ([]database.Product, error)
	CountProducts(ctx context.Context, arg database.CountProductsParams) (int64, error)
	ListVariantsByProduct(ctx context.Context, productID uuid.UUID) ([]database.ProductVariant, error)
}

// CatalogHandler serves the product picker backing the composition screen.
type CatalogHandler struct {
	store CatalogStore
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(store CatalogStore) *CatalogHandler {
	return &CatalogHandler{store: store}
}

// RegisterRoutes registers catalog endpoints on the given Chi router.
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/catalog/products", h.List)
	r.Get("/catalog/match", h.Match)
}

// --- Response types ---

type catalogVariantResponse struct {
	ID        uuid.UUID `json:"id"`
	Label     string    `json:"label"`
	UnitPrice int64     `json:"unit_price"`
	Stock     *int32    `json:"stock,omitempty"`
}

type catalogProductResponse struct {
	ID        uuid.UUID                `json:"id"`
	Name      string                   `json:"name"`
	SKU       string                   `json:"sku"`
	UnitPrice int64                    `json:"unit_price"`
	Stock     *int32                   `json:"stock,omitempty"`
	ImageURL  *string                  `json:"image_url,omitempty"`
	Variants  []catalogVariantResponse `json:"variants,omitempty"`
}

type catalogPageResponse struct {
	Products []catalogProductResponse `json:"products"`
	Page     int                      `json:"page"`
	NumPages int                      `json:"num_pages"`
	Total    int64                    `json:"total"`
}

// --- Handlers ---

// List returns a page of active products matching the search filters.
// Query params: q (name or SKU), category, filter (all|simple|variants),
// in_stock, page.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page := 1
	if raw := q.Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page = n
		}
	}

	categoryID := pgtype.UUID{}
	if raw := q.Get("category"); raw != "" {
		cid, err := uuid.Parse(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid category"})
			return
		}
		categoryID = pgtype.UUID{Bytes: cid, Valid: true}
	}

	inStock := q.Get("in_stock") == "true"

	filter := q.Get("filter")
	switch filter {
	case "", enum.ProductFilterAll, enum.ProductFilterSimple, enum.ProductFilterVariants:
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid filter"})
		return
	}

	total, err := h.store.CountProducts(r.Context(), database.CountProductsParams{
		Term:        q.Get("q"),
		CategoryID:  categoryID,
		InStockOnly: inStock,
		Filter:      filter,
	})
	if err != nil {
		log.Printf("ERROR: count products: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	numPages := int((total + catalogPageSize - 1) / catalogPageSize)
	if numPages < 1 {
		numPages = 1
	}
	if page > numPages {
		page = numPages
	}

	products, err := h.store.SearchProducts(r.Context(), database.SearchProductsParams{
		Term:        q.Get("q"),
		CategoryID:  categoryID,
		InStockOnly: inStock,
		Filter:      filter,
		Limit:       catalogPageSize,
		Offset:      int32((page - 1) * catalogPageSize),
	})
	if err != nil {
		log.Printf("ERROR: search products: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := catalogPageResponse{
		Products: make([]catalogProductResponse, 0, len(products)),
		Page:     page,
		NumPages: numPages,
		Total:    total,
	}

	for _, p := range products {
		variants, err := h.store.ListVariantsByProduct(r.Context(), p.ID)
		if err != nil {
			log.Printf("ERROR: list variants for product %s: %v", p.ID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		resp.Products = append(resp.Products, toCatalogProductResponse(p, variants))
	}

	writeJSON(w, http.StatusOK, resp)
}

// matchEntryResponse is one resolved (or candidate) quick-entry hit.
type matchEntryResponse struct {
	ProductID    uuid.UUID  `json:"product_id"`
	VariantID    *uuid.UUID `json:"variant_id,omitempty"`
	Name         string     `json:"name"`
	SKU          string     `json:"sku"`
	VariantLabel string     `json:"variant_label,omitempty"`
}

type matchResponse struct {
	Status     string               `json:"status"`
	Entry      *matchEntryResponse  `json:"entry,omitempty"`
	Candidates []matchEntryResponse `json:"candidates,omitempty"`
	Quantity   int32                `json:"quantity"`
}

// Match resolves free-typed seller input to a catalog entry, so the
// terminal can add "camiseta talla m x2" without touching the picker.
func (h *CatalogHandler) Match(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if term == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "q is required"})
		return
	}

	products, err := h.store.SearchProducts(r.Context(), database.SearchProductsParams{
		Limit: matchCatalogLimit,
	})
	if err != nil {
		log.Printf("ERROR: load catalog for match: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	var entries []catalog.Entry
	for _, p := range products {
		entries = append(entries, catalog.Entry{
			ProductID: p.ID,
			Name:      p.Name,
			SKU:       p.SKU,
		})
		variants, err := h.store.ListVariantsByProduct(r.Context(), p.ID)
		if err != nil {
			log.Printf("ERROR: list variants for product %s: %v", p.ID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		for _, v := range variants {
			entries = append(entries, catalog.Entry{
				ProductID: p.ID,
				VariantID: v.ID,
				Name:      p.Name,
				SKU:       p.SKU,
				Label:     v.Label,
			})
		}
	}

	result := catalog.New(entries).Match(term)

	resp := matchResponse{
		Status:   result.Status.String(),
		Quantity: result.Quantity,
	}
	if result.Entry != nil {
		e := toMatchEntryResponse(*result.Entry)
		resp.Entry = &e
	}
	for _, c := range result.Candidates {
		resp.Candidates = append(resp.Candidates, toMatchEntryResponse(c))
	}

	writeJSON(w, http.StatusOK, resp)
}

// --- Helpers ---

func toMatchEntryResponse(e catalog.Entry) matchEntryResponse {
	resp := matchEntryResponse{
		ProductID:    e.ProductID,
		Name:         e.Name,
		SKU:          e.SKU,
		VariantLabel: e.Label,
	}
	if e.VariantID != uuid.Nil {
		vid := e.VariantID
		resp.VariantID = &vid
	}
	return resp
}

func toCatalogProductResponse(p database.Product, variants []database.ProductVariant) catalogProductResponse {
	resp := catalogProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		SKU:       p.SKU,
		UnitPrice: numericToPesos(p.Price),
		Stock:     int4Ptr(p.Stock),
	}
	if p.ImageURL.Valid {
		resp.ImageURL = &p.ImageURL.String
	}
	for _, v := range variants {
		resp.Variants = append(resp.Variants, catalogVariantResponse{
			ID:        v.ID,
			Label:     v.Label,
			UnitPrice: numericToPesos(v.Price),
			Stock:     int4Ptr(v.Stock),
		})
	}
	return resp
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
