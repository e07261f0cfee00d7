package admin

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/deezprints/deezprints/internal/identity"
	orderapp "github.com/deezprints/deezprints/internal/order/app"
	"github.com/deezprints/deezprints/pkg/httpapi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

const tokenTTL = 12 * time.Hour

// Handler serves the admin dashboard API: password login plus order
// management.
type Handler struct {
	password string
	verifier *identity.Verifier
	orders   *orderapp.Service
	log      *slog.Logger
}

func NewHandler(password string, verifier *identity.Verifier, orders *orderapp.Service, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		password: password,
		verifier: verifier,
		orders:   orders,
		log:      log,
	}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/login", h.login)

	r.Group(func(r chi.Router) {
		r.Use(h.verifier.RequireAdmin)
		r.Get("/orders", h.listOrders)
		r.Get("/orders/{orderID}", h.getOrder)
		r.Patch("/orders/{orderID}/status", h.updateStatus)
	})
	return r
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		httpapi.Error(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.password)) != 1 {
		h.log.Warn("admin login rejected", "remote", r.RemoteAddr)
		httpapi.Error(w, r, http.StatusUnauthorized, "invalid password")
		return
	}

	token, err := h.verifier.Sign("admin", identity.RoleAdmin, tokenTTL)
	if err != nil {
		h.log.Error("failed to sign admin token", "error", err)
		httpapi.Error(w, r, http.StatusInternalServerError, "login failed")
		return
	}

	render.JSON(w, r, loginResponse{Token: token})
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httpapi.Error(w, r, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	orders, err := h.orders.ListOrders(r.Context(), limit)
	if err != nil {
		h.log.Error("failed to list orders", "error", err)
		httpapi.Error(w, r, http.StatusInternalServerError, "failed to list orders")
		return
	}
	render.JSON(w, r, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.GetOrder(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	render.JSON(w, r, order)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		httpapi.Error(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.orders.UpdateStatus(r.Context(), chi.URLParam(r, "orderID"), req.Status); err != nil {
		h.writeError(w, r, err)
		return
	}
	render.NoContent(w, r)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, orderapp.ErrNotFound):
		httpapi.Error(w, r, http.StatusNotFound, "order not found")
	case errors.Is(err, orderapp.ErrInvalidInput), errors.Is(err, orderapp.ErrUnknownStatus):
		httpapi.Error(w, r, http.StatusBadRequest, err.Error())
	default:
		h.log.Error("admin order request failed", "error", err)
		httpapi.Error(w, r, http.StatusInternalServerError, "internal error")
	}
}
