package domain

import "time"

// Cart is the single shopping cart of a user. Items hold at most one line per product.
type Cart struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem is embedded in Cart and references a product by id.
type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// ResolvedLine is a cart or order line joined with the product it references.
// Product is nil when the reference dangles (the product was deleted).
type ResolvedLine struct {
	Product  *Product
	Quantity int
	// Price is the snapshot unit price for order lines; zero for cart lines.
	Price float64
}

// Present reports whether the referenced product still exists.
func (l ResolvedLine) Present() bool {
	return l.Product != nil
}

// CartView is a cart whose lines were resolved against live products.
type CartView struct {
	Cart  Cart
	Lines []ResolvedLine
}

// ItemIndex returns the position of productID in items or -1.
func ItemIndex(items []CartItem, productID string) int {
	for i, item := range items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}
