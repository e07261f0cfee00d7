package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/deezprints/deezprints/internal/checkout/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCart struct {
	mu      sync.Mutex
	lines   []CartLine
	cleared bool
}

func (c *fakeCart) Lines() []CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]CartLine(nil), c.lines...)
}

func (c *fakeCart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleared = true
	c.lines = nil
}

type fakeCatalog struct {
	products map[string]Product
	err      error
}

func (f *fakeCatalog) GetProduct(_ context.Context, id string) (Product, error) {
	if f.err != nil {
		return Product{}, f.err
	}
	p, ok := f.products[id]
	if !ok {
		return Product{}, errors.New("product not found")
	}
	return p, nil
}

type fakeOrders struct {
	mu   sync.Mutex
	last OrderRequest
	conf OrderConfirmation
	err  error
}

func (f *fakeOrders) CreateOrder(_ context.Context, req OrderRequest) (OrderConfirmation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = req
	if f.err != nil {
		return OrderConfirmation{}, f.err
	}
	return f.conf, nil
}

type fakeNotifier struct {
	sent chan string
	err  error
}

func (f *fakeNotifier) OrderConfirmation(_ context.Context, customer domain.Customer, _ string, _ OrderConfirmation, _ []domain.QuoteLine) error {
	if f.sent != nil {
		f.sent <- customer.Email
	}
	return f.err
}

func newTestService(cart *fakeCart, catalog *fakeCatalog, orders *fakeOrders, notify *fakeNotifier) *Service {
	return NewService(cart, catalog, orders, notify, nil, 4)
}

func TestQuotePricesAgainstCatalog(t *testing.T) {
	cart := &fakeCart{lines: []CartLine{
		{ProductID: "tee-1", SelectedSize: "M", Quantity: 2},
		{ProductID: "print-9", Quantity: 1},
	}}
	catalog := &fakeCatalog{products: map[string]Product{
		"tee-1":   {ID: "tee-1", Title: "Skyline Tee", Price: 2500},
		"print-9": {ID: "print-9", Title: "Harbor Print", Price: 1800},
	}}

	svc := newTestService(cart, catalog, &fakeOrders{}, &fakeNotifier{})

	quote, err := svc.Quote(context.Background())
	require.NoError(t, err)
	require.Len(t, quote.Lines, 2)

	assert.Equal(t, int64(5000), quote.Lines[0].LineTotal)
	assert.Equal(t, "M", quote.Lines[0].SelectedSize)
	assert.Equal(t, "Skyline Tee", quote.Lines[0].Title)
	assert.Equal(t, int64(6800), quote.Total)
}

func TestQuoteEmptyCart(t *testing.T) {
	svc := newTestService(&fakeCart{}, &fakeCatalog{}, &fakeOrders{}, &fakeNotifier{})

	_, err := svc.Quote(context.Background())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestQuoteFailsWhenProductMissing(t *testing.T) {
	cart := &fakeCart{lines: []CartLine{{ProductID: "gone", Quantity: 1}}}
	svc := newTestService(cart, &fakeCatalog{products: map[string]Product{}}, &fakeOrders{}, &fakeNotifier{})

	_, err := svc.Quote(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gone")
}

func TestPlaceOrderClearsCartAndNotifies(t *testing.T) {
	cart := &fakeCart{lines: []CartLine{{ProductID: "tee-1", SelectedSize: "L", Quantity: 3}}}
	catalog := &fakeCatalog{products: map[string]Product{
		"tee-1": {ID: "tee-1", Title: "Skyline Tee", Price: 2500},
	}}
	orders := &fakeOrders{conf: OrderConfirmation{ID: "o-1", Reference: "REF1", Status: "pending", Total: 7500}}
	notify := &fakeNotifier{sent: make(chan string, 1)}

	svc := newTestService(cart, catalog, orders, notify)

	conf, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		Customer:      domain.Customer{Name: "Ana", Email: "ana@example.com"},
		PaymentMethod: "cod",
	})
	require.NoError(t, err)
	assert.Equal(t, "REF1", conf.Reference)

	assert.True(t, cart.cleared, "cart should be cleared after a successful order")
	assert.Equal(t, int64(3), orders.last.Lines[0].Quantity)

	select {
	case email := <-notify.sent:
		assert.Equal(t, "ana@example.com", email)
	case <-time.After(time.Second):
		t.Fatal("confirmation email was never dispatched")
	}
}

func TestPlaceOrderKeepsCartOnFailure(t *testing.T) {
	cart := &fakeCart{lines: []CartLine{{ProductID: "tee-1", Quantity: 1}}}
	catalog := &fakeCatalog{products: map[string]Product{
		"tee-1": {ID: "tee-1", Title: "Skyline Tee", Price: 2500},
	}}
	orders := &fakeOrders{err: errors.New("db down")}

	svc := newTestService(cart, catalog, orders, &fakeNotifier{})

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		Customer:      domain.Customer{Name: "Ana", Email: "ana@example.com"},
		PaymentMethod: "cod",
	})
	require.Error(t, err)
	assert.False(t, cart.cleared, "cart must survive a failed order")
}

func TestPlaceOrderValidatesCustomer(t *testing.T) {
	svc := newTestService(&fakeCart{}, &fakeCatalog{}, &fakeOrders{}, &fakeNotifier{})

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		Customer: domain.Customer{Name: "Ana"},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPlaceOrderSucceedsWhenEmailFails(t *testing.T) {
	cart := &fakeCart{lines: []CartLine{{ProductID: "tee-1", Quantity: 1}}}
	catalog := &fakeCatalog{products: map[string]Product{
		"tee-1": {ID: "tee-1", Title: "Skyline Tee", Price: 2500},
	}}
	orders := &fakeOrders{conf: OrderConfirmation{Reference: "REF2"}}
	notify := &fakeNotifier{sent: make(chan string, 1), err: errors.New("sendgrid down")}

	svc := newTestService(cart, catalog, orders, notify)

	conf, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		Customer:      domain.Customer{Name: "Ana", Email: "ana@example.com"},
		PaymentMethod: "bank",
	})
	require.NoError(t, err)
	assert.Equal(t, "REF2", conf.Reference)
	assert.True(t, cart.cleared)
	<-notify.sent
}
