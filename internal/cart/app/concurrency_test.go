package app

import (
	"context"
	"testing"

	"github.com/deezprints/deezprints/internal/cart/domain"
	"golang.org/x/sync/errgroup"
)

// Mutations from concurrent callers must each apply to the latest
// state, never to a stale snapshot.
func TestConcurrentAddsAllLand(t *testing.T) {
	svc := NewService(Config{Local: &fakeLocal{}, Identity: newFakeIdentity("")})
	svc.Start(context.Background())
	defer svc.Close()

	product := domain.Product{ID: "sku1", Title: "sku1", Price: 1000, Category: "t-shirts", Rating: 5}

	const n = 100
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			svc.AddItem(product, "M", 1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent AddItem failed: %v", err)
	}

	items := svc.Items()
	if len(items) != 1 {
		t.Fatalf("expected a single merged line, got %d", len(items))
	}
	if items[0].Quantity != n {
		t.Fatalf("expected quantity %d, got %d", n, items[0].Quantity)
	}
	if svc.Total() != n*1000 {
		t.Fatalf("expected total %d, got %d", n*1000, svc.Total())
	}
}
