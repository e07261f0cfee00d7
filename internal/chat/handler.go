package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	catalogdomain "github.com/deezprints/deezprints/internal/catalog/domain"
	"github.com/deezprints/deezprints/pkg/httpapi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// CatalogLister provides the products injected into the assistant's
// system prompt.
type CatalogLister interface {
	ListProducts(ctx context.Context, filter catalogdomain.Filter) ([]catalogdomain.Product, error)
}

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Handler relays chat completions to an OpenAI-compatible backend,
// prepending a system prompt built from the live catalog.
type Handler struct {
	cfg     Config
	catalog CatalogLister
	client  *http.Client
	log     *slog.Logger
}

func NewHandler(cfg Config, catalog CatalogLister, log *slog.Logger) *Handler {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com"
	}
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		cfg:     cfg,
		catalog: catalog,
		client:  &http.Client{Timeout: 5 * time.Minute},
		log:     log,
	}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.completion)
	return r
}

type message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type completionRequest struct {
	Messages []message `json:"messages"`
	Stream   bool      `json:"stream"`
}

type upstreamRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
	Stream   bool      `json:"stream"`
}

type flushWriter struct {
	w http.ResponseWriter
	f http.Flusher
}

func (fw *flushWriter) Write(p []byte) (int, error) {
	n, err := fw.w.Write(p)
	if fw.f != nil {
		fw.f.Flush()
	}
	return n, err
}

func (h *Handler) completion(w http.ResponseWriter, r *http.Request) {
	if h.cfg.APIKey == "" {
		httpapi.Error(w, r, http.StatusInternalServerError, "chat backend is not configured")
		return
	}

	var req completionRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		httpapi.Error(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Messages) == 0 {
		httpapi.Error(w, r, http.StatusBadRequest, "messages are required")
		return
	}

	prompt, err := h.systemPrompt(r.Context())
	if err != nil {
		h.log.Error("failed to build system prompt", "error", err)
		httpapi.Error(w, r, http.StatusInternalServerError, "unable to process request")
		return
	}

	upstream := upstreamRequest{
		Model:    h.cfg.Model,
		Messages: append([]message{{Role: "system", Content: prompt}}, req.Messages...),
		Stream:   req.Stream,
	}

	body, err := json.Marshal(upstream)
	if err != nil {
		httpapi.Error(w, r, http.StatusInternalServerError, "unable to process request")
		return
	}

	proxyReq, err := http.NewRequestWithContext(r.Context(), http.MethodPost, h.cfg.BaseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		httpapi.Error(w, r, http.StatusInternalServerError, "unable to process request")
		return
	}
	proxyReq.Header.Set("Authorization", "Bearer "+h.cfg.APIKey)
	proxyReq.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(proxyReq)
	if err != nil {
		httpapi.Error(w, r, http.StatusBadGateway, "failed to reach chat backend")
		return
	}
	defer resp.Body.Close()

	if req.Stream {
		flusher, _ := w.(http.Flusher)
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.WriteHeader(resp.StatusCode)

		if _, err := io.Copy(&flushWriter{w: w, f: flusher}, resp.Body); err != nil {
			h.log.Error("chat stream interrupted", "error", err)
		}
		return
	}

	w.Header().Set("Content-Type", resp.Header.Get("Content-Type"))
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		h.log.Error("chat response copy failed", "error", err)
	}
}

func (h *Handler) systemPrompt(ctx context.Context) (string, error) {
	products, err := h.catalog.ListProducts(ctx, catalogdomain.Filter{Limit: 200})
	if err != nil {
		return "", err
	}

	catalogJSON, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`You are a helpful, friendly, and knowledgeable AI shopping assistant for "Deez Prints", a premium e-commerce store in Pakistan.
You have access to the following product catalog:
%s

Your Goal:
- Turning visitors into actual customers.
- Assist customers in finding products.
- Answer questions about product details (price, materials, etc.).
- Maintain a fun, "Deez Prints" specific vibe (energetic, streetwear-focused, helpful).
- If asked about prices, always mention PKR.
- If a user asks for a specific product, recommend it from the list if available.
- If a user asks for specific artists, filter the products and suggest them.
- Do not make up products. Only use the provided list.
- If you don't know something, say you'll check with the team or ask them to contact support.
- Keep responses concise and easy to read on a chat interface.

Store Policies (General Info):
- Shipping: We ship nationwide in Pakistan.
- Returns: Easy returns within 7 days for defective items.
- Payment: Bank Transfer available.`, catalogJSON), nil
}
