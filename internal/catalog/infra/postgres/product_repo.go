package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/deezprints/deezprints/internal/catalog/app"
	"github.com/deezprints/deezprints/internal/catalog/domain"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type ProductRepo struct {
	db *sqlx.DB
}

func NewProductRepo(db *sqlx.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	price       BIGINT NOT NULL,
	image       TEXT NOT NULL DEFAULT '',
	category    TEXT NOT NULL,
	subcategory TEXT NOT NULL DEFAULT '',
	artist      TEXT NOT NULL DEFAULT '',
	rating      INT NOT NULL DEFAULT 0,
	colors      TEXT[] NOT NULL DEFAULT '{}',
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);`

func (r *ProductRepo) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate products: %w", err)
	}
	return nil
}

type productRow struct {
	ID          string         `db:"id"`
	Title       string         `db:"title"`
	Price       int64          `db:"price"`
	Image       string         `db:"image"`
	Category    string         `db:"category"`
	Subcategory string         `db:"subcategory"`
	Artist      string         `db:"artist"`
	Rating      int            `db:"rating"`
	Colors      pq.StringArray `db:"colors"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (row productRow) toDomain() domain.Product {
	return domain.Product{
		ID:          row.ID,
		Title:       row.Title,
		Price:       row.Price,
		Image:       row.Image,
		Category:    row.Category,
		Subcategory: row.Subcategory,
		Artist:      row.Artist,
		Rating:      row.Rating,
		Colors:      []string(row.Colors),
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func (r *ProductRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (id, title, price, image, category, subcategory, artist, rating, colors, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID, p.Title, p.Price, p.Image, p.Category, p.Subcategory, p.Artist, p.Rating,
		pq.StringArray(p.Colors), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return domain.Product{}, fmt.Errorf("create product %s: %w", p.ID, err)
	}
	return p, nil
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	var row productRow
	err := r.db.GetContext(ctx, &row, `SELECT * FROM products WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("get product %s: %w", id, err)
	}
	return row.toDomain(), nil
}

func (r *ProductRepo) List(ctx context.Context, filter domain.Filter) ([]domain.Product, error) {
	query := `SELECT * FROM products WHERE 1=1`
	args := []any{}

	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.Artist != "" {
		args = append(args, filter.Artist)
		query += fmt.Sprintf(" AND artist = $%d", len(args))
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		query += fmt.Sprintf(" AND title ILIKE $%d", len(args))
	}

	args = append(args, filter.Limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.toDomain())
	}
	return products, nil
}

func (r *ProductRepo) Update(ctx context.Context, p domain.Product) (domain.Product, error) {
	p.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET title = $2, price = $3, image = $4, category = $5, subcategory = $6,
		    artist = $7, rating = $8, colors = $9, updated_at = $10
		WHERE id = $1`,
		p.ID, p.Title, p.Price, p.Image, p.Category, p.Subcategory, p.Artist, p.Rating,
		pq.StringArray(p.Colors), p.UpdatedAt,
	)
	if err != nil {
		return domain.Product{}, fmt.Errorf("update product %s: %w", p.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Product{}, app.ErrNotFound
	}
	return p, nil
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return app.ErrNotFound
	}
	return nil
}
