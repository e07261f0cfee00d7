package app

import (
	"context"

	"github.com/deezprints/deezprints/internal/order/domain"
)

type OrderRepo interface {
	CreateOrderTx(ctx context.Context, order domain.Order) (domain.Order, error)
	Get(ctx context.Context, id string) (domain.Order, error)
	List(ctx context.Context, limit int) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id, status string) error
}
