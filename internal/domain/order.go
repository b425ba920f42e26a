package domain

import "time"

const (
	OrderStatusPending = "pending"
	OrderStatusPaid    = "paid"

	PaymentStatusCompleted = "completed"
)

type Order struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user"`
	Items       []OrderItem `json:"items"`
	TotalAmount float64     `json:"total_amount"`
	Status      string      `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// OrderItem snapshots the unit price at purchase time; later product price
// changes do not affect it.
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// OrderView is an order whose lines were resolved against live products.
type OrderView struct {
	Order Order
	Lines []ResolvedLine
}

type Payment struct {
	ID            string    `json:"id"`
	OrderID       string    `json:"order"`
	Amount        float64   `json:"amount"`
	PaymentMethod string    `json:"payment_method"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}
