package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/deezprints/deezprints/internal/checkout/domain"
	"golang.org/x/sync/errgroup"
)

var (
	ErrEmptyCart    = errors.New("cart is empty")
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	cart    Cart
	catalog CatalogReader
	orders  OrderWriter
	notify  Notifier
	log     *slog.Logger

	maxConcurrent int
}

func NewService(cart Cart, catalog CatalogReader, orders OrderWriter, notify Notifier, log *slog.Logger, maxConcurrent int) *Service {
	if maxConcurrent <= 0 {
		maxConcurrent = 10
	}
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		cart:          cart,
		catalog:       catalog,
		orders:        orders,
		notify:        notify,
		log:           log,
		maxConcurrent: maxConcurrent,
	}
}

// Quote prices the current cart against the live catalog. Each line is
// resolved concurrently; any missing product fails the whole quote.
func (s *Service) Quote(ctx context.Context) (domain.Quote, error) {
	items := s.cart.Lines()
	if len(items) == 0 {
		return domain.Quote{}, ErrEmptyCart
	}

	lines := make([]domain.QuoteLine, len(items))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for idx := range items {
		idx := idx
		g.Go(func() error {
			it := items[idx]
			if it.Quantity <= 0 {
				return fmt.Errorf("quantity must be greater than zero: %d", it.Quantity)
			}

			product, err := s.catalog.GetProduct(ctx, it.ProductID)
			if err != nil {
				return fmt.Errorf("failed to get product %s: %w", it.ProductID, err)
			}

			lines[idx] = domain.QuoteLine{
				ProductID:    product.ID,
				Title:        product.Title,
				SelectedSize: it.SelectedSize,
				Quantity:     it.Quantity,
				UnitPrice:    product.Price,
				LineTotal:    product.Price * it.Quantity,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return domain.Quote{}, err
	}

	var total int64
	for _, line := range lines {
		total += line.LineTotal
	}

	return domain.Quote{Lines: lines, Total: total}, nil
}

type PlaceOrderRequest struct {
	UserID        string
	Customer      domain.Customer
	PaymentMethod string
}

// PlaceOrder quotes the cart, persists the order, kicks off the
// confirmation email, and only then clears the cart. The cart survives
// a failed order so the shopper can retry.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (OrderConfirmation, error) {
	if strings.TrimSpace(req.Customer.Name) == "" || strings.TrimSpace(req.Customer.Email) == "" {
		return OrderConfirmation{}, fmt.Errorf("%w: customer name and email are required", ErrInvalidInput)
	}

	quote, err := s.Quote(ctx)
	if err != nil {
		return OrderConfirmation{}, err
	}

	conf, err := s.orders.CreateOrder(ctx, OrderRequest{
		UserID:        req.UserID,
		Customer:      req.Customer,
		PaymentMethod: req.PaymentMethod,
		Lines:         quote.Lines,
	})
	if err != nil {
		return OrderConfirmation{}, fmt.Errorf("failed to create order: %w", err)
	}

	go func() {
		ctx := context.WithoutCancel(ctx)
		if err := s.notify.OrderConfirmation(ctx, req.Customer, req.PaymentMethod, conf, quote.Lines); err != nil {
			s.log.Error("order confirmation email failed", "order", conf.Reference, "error", err)
		}
	}()

	s.cart.Clear()

	return conf, nil
}
