package app

import (
	"context"

	"github.com/deezprints/deezprints/internal/checkout/domain"
)

// Cart is the slice of the cart service checkout needs: read the
// current lines and clear them once an order is safely stored.
type Cart interface {
	Lines() []CartLine
	Clear()
}

type CartLine struct {
	ProductID    string
	SelectedSize string
	Quantity     int64
}

// CatalogReader resolves live product data so quotes always price
// against the catalog, not whatever the cart captured earlier.
type CatalogReader interface {
	GetProduct(ctx context.Context, productID string) (Product, error)
}

type Product struct {
	ID    string
	Title string
	Price int64
}

type OrderWriter interface {
	CreateOrder(ctx context.Context, req OrderRequest) (OrderConfirmation, error)
}

type OrderRequest struct {
	UserID        string
	Customer      domain.Customer
	PaymentMethod string
	Lines         []domain.QuoteLine
}

type OrderConfirmation struct {
	ID        string `json:"id"`
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Total     int64  `json:"total"`
}

// Notifier sends the order confirmation email. Delivery failures must
// not fail the order.
type Notifier interface {
	OrderConfirmation(ctx context.Context, customer domain.Customer, paymentMethod string, conf OrderConfirmation, lines []domain.QuoteLine) error
}
