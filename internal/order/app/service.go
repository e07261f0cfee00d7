package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/deezprints/deezprints/internal/order/domain"
	"github.com/oklog/ulid/v2"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("order not found")
	ErrUnknownStatus = errors.New("unknown order status")
)

var validStatuses = map[string]bool{
	domain.StatusPending:   true,
	domain.StatusConfirmed: true,
	domain.StatusShipped:   true,
	domain.StatusDelivered: true,
	domain.StatusCancelled: true,
}

type Service struct {
	repo OrderRepo
}

func NewService(repo OrderRepo) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (domain.OrderResponse, error) {
	if strings.TrimSpace(req.Customer.Email) == "" || strings.TrimSpace(req.Customer.Name) == "" {
		return domain.OrderResponse{}, fmt.Errorf("%w: customer name and email are required", ErrInvalidInput)
	}
	if req.PaymentMethod != domain.PaymentCOD && req.PaymentMethod != domain.PaymentBank {
		return domain.OrderResponse{}, fmt.Errorf("%w: unsupported payment method %q", ErrInvalidInput, req.PaymentMethod)
	}
	if len(req.Items) == 0 {
		return domain.OrderResponse{}, fmt.Errorf("%w: order has no items", ErrInvalidInput)
	}

	items := make([]domain.Item, 0, len(req.Items))
	var total int64

	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return domain.OrderResponse{}, fmt.Errorf("%w: item %d: quantity must be positive, got %d", ErrInvalidInput, i, item.Quantity)
		}
		if item.UnitPrice < 0 {
			return domain.OrderResponse{}, fmt.Errorf("%w: item %d: unit price cannot be negative, got %d", ErrInvalidInput, i, item.UnitPrice)
		}

		lineTotal := item.UnitPrice * item.Quantity
		items = append(items, domain.Item{
			ProductID:    item.ProductID,
			Title:        item.Title,
			SelectedSize: item.SelectedSize,
			UnitPrice:    item.UnitPrice,
			Quantity:     item.Quantity,
			LineTotal:    lineTotal,
		})
		total += lineTotal
	}

	order := domain.Order{
		Reference:     ulid.Make().String(),
		UserID:        req.UserID,
		Customer:      req.Customer,
		PaymentMethod: req.PaymentMethod,
		Status:        domain.StatusPending,
		TotalAmount:   total,
		Items:         items,
	}

	created, err := s.repo.CreateOrderTx(ctx, order)
	if err != nil {
		return domain.OrderResponse{}, err
	}

	return domain.OrderResponse{
		ID:          created.ID,
		Reference:   created.Reference,
		Status:      created.Status,
		TotalAmount: created.TotalAmount,
		CreatedAt:   created.CreatedAt,
	}, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Order{}, ErrInvalidInput
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) ListOrders(ctx context.Context, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.repo.List(ctx, limit)
}

func (s *Service) UpdateStatus(ctx context.Context, id, status string) error {
	if !validStatuses[status] {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}
	return s.repo.UpdateStatus(ctx, id, status)
}
