package http

import (
	"net/http"
	"time"

	"github.com/deezprints/deezprints/internal/cart/app"
	"github.com/deezprints/deezprints/internal/cart/domain"
	"github.com/deezprints/deezprints/internal/identity"
	"github.com/deezprints/deezprints/pkg/httpapi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
)

const sessionCookie = "dp_session"

type Handler struct {
	sessions *Sessions
}

func NewHandler(sessions *Sessions) *Handler {
	return &Handler{sessions: sessions}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.getCart)
	r.Delete("/", h.clearCart)
	r.Post("/items", h.addItem)
	r.Patch("/items/{productID}", h.setQuantity)
	r.Delete("/items/{productID}", h.removeItem)
	r.Post("/open", h.setOpen)
	return r
}

type cartView struct {
	Items     []domain.LineItem `json:"items"`
	CartTotal int64             `json:"cartTotal"`
	CartCount int64             `json:"cartCount"`
	CartOpen  bool              `json:"cartOpen"`
}

func view(svc *app.Service) cartView {
	items := svc.Items()
	if items == nil {
		items = []domain.LineItem{}
	}
	return cartView{
		Items:     items,
		CartTotal: svc.Total(),
		CartCount: svc.Count(),
		CartOpen:  svc.Open(),
	}
}

// cart resolves the session's cart service, minting a session cookie
// for first-time visitors.
func (h *Handler) cart(w http.ResponseWriter, r *http.Request) *app.Service {
	sessionID := ""
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		sessionID = c.Value
	} else {
		sessionID = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    sessionID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Expires:  time.Now().Add(180 * 24 * time.Hour),
		})
	}

	userID := ""
	if claims, ok := identity.ClaimsFrom(r.Context()); ok {
		userID = claims.Subject
	}

	return h.sessions.Cart(r.Context(), sessionID, userID)
}

// Resolve exposes the session cart to other HTTP surfaces, checkout in
// particular, so they share the same cookie and registry.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) *app.Service {
	return h.cart(w, r)
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, view(h.cart(w, r)))
}

type addItemRequest struct {
	Product  domain.Product `json:"product"`
	Size     string         `json:"size"`
	Quantity int64          `json:"quantity"`
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		httpapi.Error(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Product.ID == "" {
		httpapi.Error(w, r, http.StatusBadRequest, "product id is required")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	svc := h.cart(w, r)
	svc.AddItem(req.Product, req.Size, req.Quantity)
	render.JSON(w, r, view(svc))
}

type setQuantityRequest struct {
	Size     string `json:"size"`
	Quantity int64  `json:"quantity"`
}

func (h *Handler) setQuantity(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	var req setQuantityRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		httpapi.Error(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	svc := h.cart(w, r)
	svc.SetQuantity(productID, req.Size, req.Quantity)
	render.JSON(w, r, view(svc))
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	size := r.URL.Query().Get("size")

	svc := h.cart(w, r)
	svc.RemoveItem(productID, size)
	render.JSON(w, r, view(svc))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	svc := h.cart(w, r)
	svc.Clear()
	render.JSON(w, r, view(svc))
}

type setOpenRequest struct {
	Open bool `json:"open"`
}

func (h *Handler) setOpen(w http.ResponseWriter, r *http.Request) {
	var req setOpenRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		httpapi.Error(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	svc := h.cart(w, r)
	svc.SetOpen(req.Open)
	render.JSON(w, r, view(svc))
}
