package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/deezprints/deezprints/internal/cart/app"
	"github.com/deezprints/deezprints/internal/cart/domain"
	"github.com/jmoiron/sqlx"
)

// CartRepo stores one cart document per user: the full line-item list
// as JSONB plus a last-modified timestamp. Save replaces the whole
// document; the last writer wins.
type CartRepo struct {
	db *sqlx.DB
}

func NewCartRepo(db *sqlx.DB) *CartRepo {
	return &CartRepo{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS carts (
	user_id    TEXT PRIMARY KEY,
	items      JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);`

func (r *CartRepo) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate carts: %w", err)
	}
	return nil
}

func (r *CartRepo) Load(ctx context.Context, userID string) ([]domain.LineItem, error) {
	var raw []byte
	err := r.db.QueryRowxContext(ctx,
		`SELECT items FROM carts WHERE user_id = $1`, userID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, app.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load cart %s: %w", userID, err)
	}

	var items []domain.LineItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode cart %s: %w", userID, err)
	}
	return items, nil
}

func (r *CartRepo) Save(ctx context.Context, userID string, items []domain.LineItem) error {
	if items == nil {
		items = []domain.LineItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart %s: %w", userID, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO carts (user_id, items, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id)
		DO UPDATE SET items = EXCLUDED.items, updated_at = EXCLUDED.updated_at`,
		userID, raw, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save cart %s: %w", userID, err)
	}
	return nil
}
