package adapter

import (
	"context"

	checkoutapp "github.com/deezprints/deezprints/internal/checkout/app"
	orderapp "github.com/deezprints/deezprints/internal/order/app"
	orderdomain "github.com/deezprints/deezprints/internal/order/domain"
)

type OrderServiceWriter struct {
	svc *orderapp.Service
}

func NewOrderServiceWriter(svc *orderapp.Service) *OrderServiceWriter {
	return &OrderServiceWriter{svc: svc}
}

func (w *OrderServiceWriter) CreateOrder(ctx context.Context, req checkoutapp.OrderRequest) (checkoutapp.OrderConfirmation, error) {
	items := make([]orderdomain.ItemRequest, 0, len(req.Lines))
	for _, line := range req.Lines {
		items = append(items, orderdomain.ItemRequest{
			ProductID:    line.ProductID,
			Title:        line.Title,
			SelectedSize: line.SelectedSize,
			UnitPrice:    line.UnitPrice,
			Quantity:     line.Quantity,
		})
	}

	resp, err := w.svc.CreateOrder(ctx, orderdomain.CreateOrderRequest{
		UserID: req.UserID,
		Customer: orderdomain.Customer{
			Name:    req.Customer.Name,
			Email:   req.Customer.Email,
			Phone:   req.Customer.Phone,
			Address: req.Customer.Address,
			City:    req.Customer.City,
		},
		PaymentMethod: req.PaymentMethod,
		Items:         items,
	})
	if err != nil {
		return checkoutapp.OrderConfirmation{}, err
	}

	return checkoutapp.OrderConfirmation{
		ID:        resp.ID,
		Reference: resp.Reference,
		Status:    resp.Status,
		Total:     resp.TotalAmount,
	}, nil
}
