package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/deezprints/deezprints/internal/catalog/app"
	"github.com/deezprints/deezprints/internal/catalog/domain"
	"github.com/deezprints/deezprints/pkg/httpapi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type Handler struct {
	svc *app.Service
}

func NewHandler(svc *app.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes is the public, read-only catalog surface.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	return r
}

// AdminRoutes is the product-management surface; the caller mounts it
// behind the admin middleware.
func (h *Handler) AdminRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.create)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	return r
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := domain.Filter{
		Category: r.URL.Query().Get("category"),
		Artist:   r.URL.Query().Get("artist"),
		Query:    r.URL.Query().Get("q"),
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil {
			httpapi.Error(w, r, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = n
	}

	products, err := h.svc.ListProducts(r.Context(), filter)
	if err != nil {
		httpapi.Error(w, r, http.StatusInternalServerError, "failed to list products")
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	render.JSON(w, r, products)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	product, err := h.svc.GetProduct(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, app.ErrNotFound):
		httpapi.Error(w, r, http.StatusNotFound, "product not found")
	case errors.Is(err, app.ErrInvalidInput):
		httpapi.Error(w, r, http.StatusBadRequest, "invalid product id")
	case err != nil:
		httpapi.Error(w, r, http.StatusInternalServerError, "failed to get product")
	default:
		render.JSON(w, r, product)
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var p domain.Product
	if err := render.DecodeJSON(r.Body, &p); err != nil {
		httpapi.Error(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.svc.CreateProduct(r.Context(), p)
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		httpapi.Error(w, r, http.StatusBadRequest, "invalid product")
	case err != nil:
		httpapi.Error(w, r, http.StatusInternalServerError, "failed to create product")
	default:
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, created)
	}
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var p domain.Product
	if err := render.DecodeJSON(r.Body, &p); err != nil {
		httpapi.Error(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	p.ID = chi.URLParam(r, "id")

	updated, err := h.svc.UpdateProduct(r.Context(), p)
	switch {
	case errors.Is(err, app.ErrNotFound):
		httpapi.Error(w, r, http.StatusNotFound, "product not found")
	case errors.Is(err, app.ErrInvalidInput):
		httpapi.Error(w, r, http.StatusBadRequest, "invalid product")
	case err != nil:
		httpapi.Error(w, r, http.StatusInternalServerError, "failed to update product")
	default:
		render.JSON(w, r, updated)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	err := h.svc.DeleteProduct(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, app.ErrNotFound):
		httpapi.Error(w, r, http.StatusNotFound, "product not found")
	case err != nil:
		httpapi.Error(w, r, http.StatusInternalServerError, "failed to delete product")
	default:
		render.NoContent(w, r)
	}
}
