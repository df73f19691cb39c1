package product

// Product represents an inventory item and maps to the `public.products` table.
// Qty is the quantity on hand and is the single source of truth for
// availability; cart actions never decrement it.
type Product struct {
	ID             int     `json:"productId"`
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	Description    string  `json:"description"`
	Category       string  `json:"category"`
	Qty            int     `json:"qty"`
	DateOfPurchase string  `json:"dateOfPurchase,omitempty"`
	ExpiryDate     string  `json:"expiryDate"`
	ImgURL         string  `json:"imgUrl,omitempty"`
	CreatedAt      string  `json:"createdAt,omitempty"`
	UpdatedAt      string  `json:"updatedAt,omitempty"`
}

// CategoryCount is one row of the count-by-category aggregate used by the
// admin dashboard.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}
