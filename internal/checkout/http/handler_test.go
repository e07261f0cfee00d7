package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	carthttp "github.com/deezprints/deezprints/internal/cart/http"
	"github.com/deezprints/deezprints/internal/cart/infra/localstore"
	"github.com/deezprints/deezprints/internal/checkout/app"
	"github.com/deezprints/deezprints/internal/checkout/domain"
	"github.com/go-chi/chi/v5"
)

type fakeCatalog struct {
	products map[string]app.Product
}

func (f *fakeCatalog) GetProduct(_ context.Context, id string) (app.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return app.Product{}, app.ErrInvalidInput
	}
	return p, nil
}

type fakeOrders struct {
	mu   sync.Mutex
	last app.OrderRequest
}

func (f *fakeOrders) CreateOrder(_ context.Context, req app.OrderRequest) (app.OrderConfirmation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = req

	var total int64
	for _, line := range req.Lines {
		total += line.LineTotal
	}
	return app.OrderConfirmation{ID: "o-1", Reference: "REF1", Status: "pending", Total: total}, nil
}

type fakeNotifier struct{}

func (fakeNotifier) OrderConfirmation(context.Context, domain.Customer, string, app.OrderConfirmation, []domain.QuoteLine) error {
	return nil
}

func newTestServer(t *testing.T, orders *fakeOrders) *httptest.Server {
	t.Helper()

	db, err := localstore.Open(filepath.Join(t.TempDir(), "guest.db"))
	if err != nil {
		t.Fatalf("open local store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	sessions := carthttp.NewSessions(db, nil, 10*time.Millisecond, 0, slog.Default())
	t.Cleanup(sessions.Close)
	cartHandler := carthttp.NewHandler(sessions)

	catalog := &fakeCatalog{products: map[string]app.Product{
		"sku1": {ID: "sku1", Title: "Tee", Price: 1000},
	}}

	checkout := NewHandler(cartHandler.Resolve, catalog, orders, fakeNotifier{}, slog.Default())

	r := chi.NewRouter()
	r.Mount("/cart", cartHandler.Routes())
	r.Mount("/checkout", checkout.Routes())

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

type client struct {
	t      *testing.T
	srv    *httptest.Server
	cookie *http.Cookie
}

func (c *client) do(method, path string, body any, wantStatus int, out any) {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			c.t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, c.srv.URL+path, &buf)
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		c.t.Fatalf("%s %s: status %d, want %d", method, path, resp.StatusCode, wantStatus)
	}
	for _, ck := range resp.Cookies() {
		if ck.Name == "dp_session" {
			c.cookie = ck
		}
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			c.t.Fatalf("decode response: %v", err)
		}
	}
}

func TestCheckoutFlow(t *testing.T) {
	orders := &fakeOrders{}
	srv := newTestServer(t, orders)
	c := &client{t: t, srv: srv}

	add := map[string]any{
		"product":  map[string]any{"id": "sku1", "title": "Tee", "price": 999, "category": "t-shirts", "rating": 5},
		"size":     "M",
		"quantity": 2,
	}
	c.do(http.MethodPost, "/cart/items", add, http.StatusOK, nil)

	// Quotes come from the live catalog, not the price the cart saw.
	var quote domain.Quote
	c.do(http.MethodGet, "/checkout/quote", nil, http.StatusOK, &quote)
	if quote.Total != 2000 {
		t.Fatalf("quote total = %d, want 2000", quote.Total)
	}
	if len(quote.Lines) != 1 || quote.Lines[0].SelectedSize != "M" {
		t.Fatalf("quote lines: %+v", quote.Lines)
	}

	place := map[string]any{
		"customer": map[string]any{
			"name":  "Ana",
			"email": "ana@example.com",
			"phone": "0300-0000000",
		},
		"paymentMethod": "cod",
	}
	var conf app.OrderConfirmation
	c.do(http.MethodPost, "/checkout/orders", place, http.StatusCreated, &conf)
	if conf.Reference != "REF1" || conf.Total != 2000 {
		t.Fatalf("confirmation: %+v", conf)
	}
	if orders.last.Customer.Name != "Ana" {
		t.Fatalf("order request customer: %+v", orders.last.Customer)
	}

	// The cart is cleared once the order lands.
	var cart struct {
		CartCount int64 `json:"cartCount"`
	}
	c.do(http.MethodGet, "/cart/", nil, http.StatusOK, &cart)
	if cart.CartCount != 0 {
		t.Fatalf("cart count after order = %d, want 0", cart.CartCount)
	}
}

func TestQuoteEmptyCartConflicts(t *testing.T) {
	srv := newTestServer(t, &fakeOrders{})
	c := &client{t: t, srv: srv}

	c.do(http.MethodGet, "/checkout/quote", nil, http.StatusConflict, nil)
}

func TestPlaceOrderRejectsMissingCustomer(t *testing.T) {
	srv := newTestServer(t, &fakeOrders{})
	c := &client{t: t, srv: srv}

	add := map[string]any{
		"product":  map[string]any{"id": "sku1", "title": "Tee", "price": 1000, "category": "t-shirts", "rating": 5},
		"quantity": 1,
	}
	c.do(http.MethodPost, "/cart/items", add, http.StatusOK, nil)
	c.do(http.MethodPost, "/checkout/orders", map[string]any{"paymentMethod": "cod"}, http.StatusBadRequest, nil)
}
