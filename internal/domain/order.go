package domain

import "time"

// PaymentMethod is how the customer settles the order at the counter.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
	PaymentUPI  PaymentMethod = "upi"
)

// Valid reports whether the payment method is one the backend accepts.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentUPI:
		return true
	}
	return false
}

// OrderItem is one line of the order payload sent to the backend.
type OrderItem struct {
	ProductID         int64             `json:"product_id"`
	VariantID         *int64            `json:"variant_id"`
	ProductName       string            `json:"product_name"`
	VariantAttributes map[string]string `json:"variant_attributes,omitempty"`
	SKU               *string           `json:"sku"`
	Quantity          int               `json:"quantity" validate:"gte=1"`
	UnitPrice         Money             `json:"unit_price"`
	Total             Money             `json:"total"`
}

// OrderRequest is the order creation payload for POST /api/orders.
// Monetary fields render rounded to two decimal places (see Money).
type OrderRequest struct {
	CustomerName   string        `json:"customer_name" validate:"required"`
	CustomerPhone  *string       `json:"customer_phone"`
	Items          []OrderItem   `json:"items" validate:"required,min=1,dive"`
	Subtotal       Money         `json:"subtotal"`
	Tax            Money         `json:"tax"`
	Discount       Money         `json:"discount"`
	Total          Money         `json:"total"`
	PaymentMethod  PaymentMethod `json:"payment_method" validate:"required,oneof=cash card upi"`
	ReceivedAmount *Money        `json:"received_amount"`
	Notes          *string       `json:"notes"`
}

// Order is the backend's view of a created order.
type Order struct {
	ID          int64     `json:"id"`
	OrderNumber string    `json:"order_number"`
	Status      string    `json:"status"`
	Total       Money     `json:"total"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}
