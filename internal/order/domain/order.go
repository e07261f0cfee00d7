package domain

import "time"

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

const (
	PaymentCOD  = "cod"
	PaymentBank = "bank"
)

// Customer is the contact and delivery detail block collected at
// checkout.
type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
}

type Order struct {
	ID            string    `json:"id"`
	Reference     string    `json:"reference"`
	UserID        string    `json:"userId,omitempty"`
	Customer      Customer  `json:"customer"`
	PaymentMethod string    `json:"paymentMethod"`
	Status        string    `json:"status"`
	TotalAmount   int64     `json:"totalAmount"`
	Items         []Item    `json:"items"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Item is a snapshot of one cart line at the moment the order was
// placed; later catalog edits do not touch it.
type Item struct {
	ID           string `json:"id"`
	OrderID      string `json:"orderId"`
	ProductID    string `json:"productId"`
	Title        string `json:"title"`
	SelectedSize string `json:"selectedSize,omitempty"`
	UnitPrice    int64  `json:"unitPrice"`
	Quantity     int64  `json:"quantity"`
	LineTotal    int64  `json:"lineTotal"`
}

type CreateOrderRequest struct {
	UserID        string
	Customer      Customer
	PaymentMethod string
	Items         []ItemRequest
}

type ItemRequest struct {
	ProductID    string
	Title        string
	SelectedSize string
	UnitPrice    int64
	Quantity     int64
}

type OrderResponse struct {
	ID          string    `json:"id"`
	Reference   string    `json:"reference"`
	Status      string    `json:"status"`
	TotalAmount int64     `json:"totalAmount"`
	CreatedAt   time.Time `json:"createdAt"`
}
