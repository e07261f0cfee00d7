package http

import (
	"errors"
	"log/slog"
	"net/http"

	cartapp "github.com/deezprints/deezprints/internal/cart/app"
	catalogapp "github.com/deezprints/deezprints/internal/catalog/app"
	"github.com/deezprints/deezprints/internal/checkout/app"
	"github.com/deezprints/deezprints/internal/checkout/domain"
	"github.com/deezprints/deezprints/internal/checkout/infra/adapter"
	"github.com/deezprints/deezprints/internal/identity"
	orderapp "github.com/deezprints/deezprints/internal/order/app"
	"github.com/deezprints/deezprints/pkg/httpapi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// CartResolver hands back the cart bound to the request's session.
type CartResolver func(w http.ResponseWriter, r *http.Request) *cartapp.Service

type Handler struct {
	resolve CartResolver
	catalog app.CatalogReader
	orders  app.OrderWriter
	notify  app.Notifier
	log     *slog.Logger
}

func NewHandler(resolve CartResolver, catalog app.CatalogReader, orders app.OrderWriter, notify app.Notifier, log *slog.Logger) *Handler {
	return &Handler{
		resolve: resolve,
		catalog: catalog,
		orders:  orders,
		notify:  notify,
		log:     log,
	}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/quote", h.quote)
	r.Post("/orders", h.placeOrder)
	return r
}

func (h *Handler) service(w http.ResponseWriter, r *http.Request) *app.Service {
	cart := adapter.NewSessionCart(h.resolve(w, r))
	return app.NewService(cart, h.catalog, h.orders, h.notify, h.log, 0)
}

func (h *Handler) quote(w http.ResponseWriter, r *http.Request) {
	quote, err := h.service(w, r).Quote(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	render.JSON(w, r, quote)
}

type placeOrderRequest struct {
	Customer      domain.Customer `json:"customer"`
	PaymentMethod string          `json:"paymentMethod"`
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		httpapi.Error(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := ""
	if claims, ok := identity.ClaimsFrom(r.Context()); ok {
		userID = claims.Subject
	}

	conf, err := h.service(w, r).PlaceOrder(r.Context(), app.PlaceOrderRequest{
		UserID:        userID,
		Customer:      req.Customer,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, conf)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, app.ErrEmptyCart):
		httpapi.Error(w, r, http.StatusConflict, "cart is empty")
	case errors.Is(err, app.ErrInvalidInput), errors.Is(err, orderapp.ErrInvalidInput):
		httpapi.Error(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, catalogapp.ErrNotFound):
		// A line in the cart points at a product the catalog no
		// longer has.
		httpapi.Error(w, r, http.StatusUnprocessableEntity, err.Error())
	default:
		h.log.Error("checkout failed", "error", err)
		httpapi.Error(w, r, http.StatusInternalServerError, "checkout failed")
	}
}
