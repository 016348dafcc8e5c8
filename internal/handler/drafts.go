package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sportline-pos/api/internal/database"
	"github.com/sportline-pos/api/internal/order"
	"github.com/sportline-pos/api/internal/service"
	"github.com/sportline-pos/api/internal/ws"
)

// SelectionStore defines the database methods needed for draft
// selection snapshots. Satisfied by *database.Queries.
type SelectionStore interface {
	UpsertDraftSelection(ctx context.Context, arg database.UpsertDraftSelectionParams) (bool, error)
	GetDraftSelection(ctx context.Context, draftID uuid.UUID) (database.DraftSelection, error)
}

// DraftHandler handles order composition endpoints.
type DraftHandler struct {
	svc        *service.DraftService
	selections SelectionStore
	hub        *ws.Hub
}

// NewDraftHandler creates a new DraftHandler.
func NewDraftHandler(svc *service.DraftService, selections SelectionStore, hub *ws.Hub) *DraftHandler {
	return &DraftHandler{svc: svc, selections: selections, hub: hub}
}

// RegisterRoutes registers draft endpoints on the given Chi router.
func (h *DraftHandler) RegisterRoutes(r chi.Router) {
	r.Post("/drafts", h.Create)
	r.Get("/drafts/{did}", h.Get)
	r.Delete("/drafts/{did}", h.Delete)
	r.Post("/drafts/{did}/items", h.AddItem)
	r.Patch("/drafts/{did}/items", h.UpdateItem)
	r.Delete("/drafts/{did}/items", h.RemoveItem)
	r.Patch("/drafts/{did}/settlement", h.Settlement)
	r.Post("/drafts/{did}/checkout", h.Checkout)
	r.Put("/drafts/{did}/selection", h.SaveSelection)
	r.Get("/drafts/{did}/selection", h.GetSelection)
}

// --- Request / Response types ---

type createDraftRequest struct {
	Kind string `json:"kind"`
}

type itemRequest struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`
	Quantity  int32  `json:"quantity"`
}

type settlementRequest struct {
	DiscountPercent *string `json:"discount_percent"`
	Deposit         *string `json:"deposit"`
	Paid            *string `json:"paid"`
}

type checkoutRequest struct {
	PaymentMethod   string `json:"payment_method"`
	PaymentProvider string `json:"payment_provider"`
}

type saveSelectionRequest struct {
	Items   json.RawMessage `json:"items"`
	Deposit int64           `json:"deposit"`
	Seq     int64           `json:"seq"`
}

type draftResponse struct {
	ID         uuid.UUID           `json:"id"`
	Kind       string              `json:"kind"`
	Items      []lineItemResponse  `json:"items"`
	Summary    summaryResponse     `json:"summary"`
	TotalForms int                 `json:"total_forms"`
	Form       map[string][]string `json:"form,omitempty"`
}

func (h *DraftHandler) toDraftResponse(d *order.Draft, withForm bool) draftResponse {
	items := d.Items()
	resp := draftResponse{
		ID:         d.ID,
		Kind:       d.Kind,
		Items:      make([]lineItemResponse, len(items)),
		Summary:    toSummaryResponse(d.Summary()),
		TotalForms: d.TotalForms(),
	}
	for i, li := range items {
		resp.Items[i] = toLineItemResponse(li)
	}
	if withForm {
		resp.Form = d.FormValues()
	}
	return resp
}

// --- Handlers ---

// Create opens a new draft and attaches the live summary feed.
func (h *DraftHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	d, err := h.svc.Open(req.Kind)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if h.hub != nil {
		draftID := d.ID
		d.SetObserver(func(s order.Summary) {
			h.hub.BroadcastSummary(draftID, toSummaryResponse(s))
		})
	}

	writeJSON(w, http.StatusCreated, h.toDraftResponse(d, false))
}

// Get returns the full draft view including the submission form mirror.
func (h *DraftHandler) Get(w http.ResponseWriter, r *http.Request) {
	d, ok := h.draft(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.toDraftResponse(d, true))
}

// Delete discards a draft.
func (h *DraftHandler) Delete(w http.ResponseWriter, r *http.Request) {
	draftID, err := uuid.Parse(chi.URLParam(r, "did"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid draft ID"})
		return
	}
	h.svc.Close(draftID)
	w.WriteHeader(http.StatusNoContent)
}

// AddItem admits a product (or variant) selection into the draft.
func (h *DraftHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	d, ok := h.draft(w, r)
	if !ok {
		return
	}

	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	li, err := h.svc.AddItem(r.Context(), d.ID, req.ProductID, req.VariantID, req.Quantity)
	if err != nil {
		h.writeDraftError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"item":    toLineItemResponse(li),
		"summary": toSummaryResponse(d.Summary()),
	})
}

// UpdateItem edits a line item's quantity.
func (h *DraftHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	d, ok := h.draft(w, r)
	if !ok {
		return
	}

	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := h.svc.SetQuantity(d.ID, req.ProductID, req.VariantID, req.Quantity); err != nil {
		h.writeDraftError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"summary": toSummaryResponse(d.Summary()),
	})
}

// RemoveItem deletes a selection from the draft.
func (h *DraftHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	d, ok := h.draft(w, r)
	if !ok {
		return
	}

	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := h.svc.RemoveItem(d.ID, req.ProductID, req.VariantID); err != nil {
		h.writeDraftError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"summary": toSummaryResponse(d.Summary()),
	})
}

// Settlement applies discount, deposit and paid edits.
func (h *DraftHandler) Settlement(w http.ResponseWriter, r *http.Request) {
	d, ok := h.draft(w, r)
	if !ok {
		return
	}

	var req settlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := h.svc.SetSettlement(d.ID, service.SettlementInput{
		DiscountPercent: req.DiscountPercent,
		Deposit:         req.Deposit,
		Paid:            req.Paid,
	}); err != nil {
		h.writeDraftError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"summary": toSummaryResponse(d.Summary()),
	})
}

// Checkout runs the submission gate without mutating the draft.
func (h *DraftHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	d, ok := h.draft(w, r)
	if !ok {
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := h.svc.Checkout(d.ID, order.CheckoutInput{
		PaymentMethod:   req.PaymentMethod,
		PaymentProvider: req.PaymentProvider,
	}); err != nil {
		h.writeDraftError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":   true,
		"form": d.FormValues(),
	})
}

// SaveSelection persists a selection snapshot for session continuity.
// Stale sequence numbers are dropped, not failed, so overlapping saves
// from the same terminal resolve to the newest snapshot.
func (h *DraftHandler) SaveSelection(w http.ResponseWriter, r *http.Request) {
	draftID, err := uuid.Parse(chi.URLParam(r, "did"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid draft ID"})
		return
	}

	if r.Header.Get("X-CSRF-Token") == "" {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "missing CSRF token"})
		return
	}

	var req saveSelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"items":   req.Items,
		"deposit": req.Deposit,
	})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid selection payload"})
		return
	}

	applied, err := h.selections.UpsertDraftSelection(r.Context(), database.UpsertDraftSelectionParams{
		DraftID: draftID,
		Payload: payload,
		Seq:     req.Seq,
	})
	if err != nil {
		log.Printf("ERROR: save selection for draft %s: %v", draftID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": applied})
}

// GetSelection returns the stored selection snapshot.
func (h *DraftHandler) GetSelection(w http.ResponseWriter, r *http.Request) {
	draftID, err := uuid.Parse(chi.URLParam(r, "did"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid draft ID"})
		return
	}

	sel, err := h.selections.GetDraftSelection(r.Context(), draftID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no selection stored"})
			return
		}
		log.Printf("ERROR: get selection for draft %s: %v", draftID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"draft_id":   sel.DraftID,
		"payload":    json.RawMessage(sel.Payload),
		"seq":        sel.Seq,
		"updated_at": sel.UpdatedAt,
	})
}

// --- Helpers ---

// draft resolves the {did} URL param to an open draft, writing the
// error response itself when it cannot.
func (h *DraftHandler) draft(w http.ResponseWriter, r *http.Request) (*order.Draft, bool) {
	draftID, err := uuid.Parse(chi.URLParam(r, "did"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid draft ID"})
		return nil, false
	}
	d, err := h.svc.Get(draftID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "draft not found"})
		return nil, false
	}
	return d, true
}

func (h *DraftHandler) writeDraftError(w http.ResponseWriter, err error) {
	var stockErr *order.StockError
	switch {
	case errors.As(err, &stockErr):
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"error":     stockErr.Error(),
			"requested": stockErr.Requested,
			"available": stockErr.Available,
		})
	case errors.Is(err, service.ErrDraftNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrProductNotFound), errors.Is(err, service.ErrVariantNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case isValidationError(err):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case isCheckoutError(err):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	default:
		log.Printf("ERROR: draft operation: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, service.ErrInvalidProductID) ||
		errors.Is(err, service.ErrInvalidVariantID) ||
		errors.Is(err, service.ErrInvalidQuantity) ||
		errors.Is(err, service.ErrInvalidDraftKind) ||
		errors.Is(err, service.ErrVariantMismatch)
}

func isCheckoutError(err error) bool {
	return errors.Is(err, order.ErrNoItems) ||
		errors.Is(err, order.ErrNegativeRemaining) ||
		errors.Is(err, order.ErrProviderRequired) ||
		errors.Is(err, order.ErrUnknownProvider)
}
