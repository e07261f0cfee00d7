package localstore

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/deezprints/deezprints/internal/cart/domain"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "guest.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := setupTestDB(t).ForProfile("profile-1")

	items := []domain.LineItem{
		{
			Product: domain.Product{
				ID:       "kanye-yeezus-shirt",
				Title:    "KANYE WEST YEEZUS T-SHIRT",
				Price:    3200,
				Category: "t-shirts",
				Rating:   5,
			},
			Quantity:     2,
			SelectedSize: "M",
		},
		{
			Product: domain.Product{
				ID:       "kanye-west-hoodie",
				Title:    "KANYE WEST HOODIE",
				Price:    5500,
				Category: "hoodies",
				Rating:   5,
				Colors:   []string{"Black", "White"},
			},
			Quantity: 1,
		},
	}

	if err := store.Save(items); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !reflect.DeepEqual(got, items) {
		t.Fatalf("round trip mismatch:\ngot  %+v\nwant %+v", got, items)
	}
}

func TestLoadMissingProfileIsEmpty(t *testing.T) {
	store := setupTestDB(t).ForProfile("never-seen")

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no items, got %+v", got)
	}
}

func TestLoadCorruptBlobReturnsError(t *testing.T) {
	db := setupTestDB(t)
	store := db.ForProfile("profile-1")

	_, err := db.db.Exec(
		`INSERT INTO kv (profile_id, key, value) VALUES (?, ?, ?)`,
		"profile-1", cartKey, "{not json",
	)
	if err != nil {
		t.Fatalf("seed corrupt blob: %v", err)
	}

	if _, err := store.Load(); err == nil {
		t.Fatal("expected an error for a corrupt blob")
	}
}

func TestSaveOverwrites(t *testing.T) {
	store := setupTestDB(t).ForProfile("profile-1")

	first := []domain.LineItem{{Product: domain.Product{ID: "a", Price: 100}, Quantity: 1}}
	second := []domain.LineItem{{Product: domain.Product{ID: "b", Price: 200}, Quantity: 3}}

	if err := store.Save(first); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if err := store.Save(second); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !reflect.DeepEqual(got, second) {
		t.Fatalf("expected the last write, got %+v", got)
	}
}

func TestProfilesAreIsolated(t *testing.T) {
	db := setupTestDB(t)
	a := db.ForProfile("profile-a")
	b := db.ForProfile("profile-b")

	if err := a.Save([]domain.LineItem{{Product: domain.Product{ID: "a", Price: 100}, Quantity: 1}}); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	got, err := b.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("profile b sees profile a's cart: %+v", got)
	}
}
