package cart

import (
	"fmt"

	"github.com/freshmart/grocery-backend/internal/product"
)

// Status is the closed set of cart states. Transitions are validated so a
// cart can only move forward.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
)

// legacy label still sent by older dashboard builds.
const legacyStatusPayed = "payed"

// ParseStatus maps a wire label onto the closed enumeration. An empty label
// defaults to confirmed, which is what a plain checkout means.
func ParseStatus(label string) (Status, error) {
	switch label {
	case "":
		return StatusConfirmed, nil
	case string(StatusDraft):
		return StatusDraft, nil
	case string(StatusConfirmed):
		return StatusConfirmed, nil
	case string(StatusCompleted), legacyStatusPayed:
		return StatusCompleted, nil
	}
	return "", fmt.Errorf("unknown cart status %q", label)
}

// CanTransition reports whether moving from s to next is a legal step:
// draft→confirmed via reconciliation, confirmed→completed via payment.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusDraft:
		return next == StatusConfirmed
	case StatusConfirmed:
		return next == StatusCompleted
	}
	return false
}

// Line is one persisted {product, quantity} pair.
type Line struct {
	ProductID int `json:"product"`
	Quantity  int `json:"quantity"`
}

// Cart is the durable record of a checkout attempt. Items are stored as a
// jsonb document column; Value is the server-computed total at confirmation
// time. Products is populated on reads that enrich lines with product detail.
type Cart struct {
	ID        int               `json:"cartId"`
	UserID    int               `json:"userId"`
	Items     []Line            `json:"items"`
	Status    Status            `json:"status"`
	Value     float64           `json:"value"`
	CreatedAt string            `json:"createdAt,omitempty"`
	UpdatedAt string            `json:"updatedAt,omitempty"`
	Products  []product.Product `json:"products,omitempty"`
}
