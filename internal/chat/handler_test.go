package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	catalogdomain "github.com/deezprints/deezprints/internal/catalog/domain"
)

type staticCatalog struct {
	products []catalogdomain.Product
}

func (s *staticCatalog) ListProducts(context.Context, catalogdomain.Filter) ([]catalogdomain.Product, error) {
	return s.products, nil
}

func newTestHandler(t *testing.T, upstream http.HandlerFunc) *httptest.Server {
	t.Helper()

	backend := httptest.NewServer(upstream)
	t.Cleanup(backend.Close)

	catalog := &staticCatalog{products: []catalogdomain.Product{
		{ID: "sku1", Title: "Skyline Tee", Price: 2500, Category: "t-shirts", Artist: "Seedhe Maut"},
	}}

	h := NewHandler(Config{APIKey: "test-key", BaseURL: backend.URL, Model: "gpt-4o-mini"}, catalog, nil)
	srv := httptest.NewServer(h.Routes())
	t.Cleanup(srv.Close)
	return srv
}

func TestCompletionInjectsCatalogPrompt(t *testing.T) {
	var got upstreamRequest
	srv := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("authorization header = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode upstream request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"hi"}}]}`)
	})

	body := `{"messages":[{"role":"user","content":"any tees?"}]}`
	resp, err := http.Post(srv.URL+"/", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", got.Model)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" {
		t.Fatalf("upstream messages: %+v", got.Messages)
	}
	prompt, _ := got.Messages[0].Content.(string)
	if !strings.Contains(prompt, "Skyline Tee") {
		t.Error("system prompt does not mention the catalog")
	}
}

func TestCompletionStreamsPassthrough(t *testing.T) {
	srv := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, "data: {\"delta\":\"h\"}\n\ndata: [DONE]\n\n")
	})

	body := `{"messages":[{"role":"user","content":"hi"}],"stream":true}`
	resp, err := http.Post(srv.URL+"/", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("content type = %q", ct)
	}
	out, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(out), "[DONE]") {
		t.Errorf("stream body = %q", out)
	}
}

func TestCompletionRejectsEmptyMessages(t *testing.T) {
	srv := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream should not be called")
	})

	resp, err := http.Post(srv.URL+"/", "application/json", bytes.NewBufferString(`{}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}
