package domain

// CartItem is one line of the cart ledger. At most one line exists per
// product; adding an already-present product increments Quantity instead.
type CartItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Brand     string  `json:"brand"`
	Category  string  `json:"category"`
	Quantity  int     `json:"quantity"`
}
