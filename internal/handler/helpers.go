package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/sportline-pos/api/internal/money"
	"github.com/sportline-pos/api/internal/order"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}

// --- Shared response types ---

type lineItemResponse struct {
	ProductID    uuid.UUID  `json:"product_id"`
	VariantID    *uuid.UUID `json:"variant_id,omitempty"`
	Name         string     `json:"name"`
	SKU          string     `json:"sku"`
	VariantLabel string     `json:"variant_label,omitempty"`
	UnitPrice    int64      `json:"unit_price"`
	Quantity     int32      `json:"quantity"`
	Subtotal     int64      `json:"subtotal"`
	Slot         int        `json:"slot"`
}

func toLineItemResponse(li order.LineItem) lineItemResponse {
	resp := lineItemResponse{
		ProductID:    li.Key.ProductID,
		Name:         li.Name,
		SKU:          li.SKU,
		VariantLabel: li.VariantLabel,
		UnitPrice:    li.UnitPrice,
		Quantity:     li.Quantity,
		Subtotal:     li.Subtotal(),
		Slot:         li.Slot,
	}
	if li.Key.HasVariant() {
		vid := li.Key.VariantID
		resp.VariantID = &vid
	}
	return resp
}

type summaryResponse struct {
	Subtotal         int64  `json:"subtotal"`
	DiscountPercent  int64  `json:"discount_percent"`
	DiscountAmount   int64  `json:"discount_amount"`
	Deposit          int64  `json:"deposit"`
	Total            int64  `json:"total"`
	TotalDisplay     string `json:"total_display"`
	Paid             int64  `json:"paid"`
	Remaining        int64  `json:"remaining"`
	RemainingDisplay string `json:"remaining_display"`
	MinDeposit       int64  `json:"min_deposit"`
	Validity         string `json:"validity"`
	Message          string `json:"message,omitempty"`
	DueDate          string `json:"due_date,omitempty"`
}

func toSummaryResponse(s order.Summary) summaryResponse {
	resp := summaryResponse{
		Subtotal:         s.Subtotal,
		DiscountPercent:  s.DiscountPercent,
		DiscountAmount:   s.DiscountAmount,
		Deposit:          s.Deposit,
		Total:            s.Total,
		TotalDisplay:     money.Format(s.Total),
		Paid:             s.Paid,
		Remaining:        s.Remaining,
		RemainingDisplay: money.Format(s.Remaining),
		MinDeposit:       s.MinDeposit,
		Validity:         s.Validity,
		Message:          s.Message,
	}
	if due, ok := s.DueDate(time.Now()); ok {
		resp.DueDate = due.Format("2006-01-02")
	}
	return resp
}
