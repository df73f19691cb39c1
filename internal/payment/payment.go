package payment

import "github.com/freshmart/grocery-backend/internal/cart"

// Payment is the immutable record attaching payment-instrument details to a
// confirmed cart. Wire field names follow the dashboard contract; the card
// number is stored as an opaque string with no format validation.
type Payment struct {
	ID         int     `json:"paymentId"`
	CartID     int     `json:"cart"`
	Amount     float64 `json:"payment"`
	CardHolder string  `json:"card_holder"`
	CardNumber string  `json:"card_number"`
	ExpDate    string  `json:"exp_date"`
	CreatedAt  string  `json:"createdAt,omitempty"`

	// CartDetail is filled in on reads so the dashboard can show the cart
	// behind a payment without a second request.
	CartDetail *cart.Cart `json:"cartDetail,omitempty"`
}
