package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/deezprints/deezprints/internal/order/app"
	"github.com/deezprints/deezprints/internal/order/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type OrderRepo struct {
	db *sqlx.DB
}

func NewOrderRepo(db *sqlx.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS orders (
	id             UUID PRIMARY KEY,
	reference      TEXT NOT NULL UNIQUE,
	user_id        TEXT NOT NULL DEFAULT '',
	customer_name  TEXT NOT NULL,
	customer_email TEXT NOT NULL,
	customer_phone TEXT NOT NULL DEFAULT '',
	address        TEXT NOT NULL DEFAULT '',
	city           TEXT NOT NULL DEFAULT '',
	payment_method TEXT NOT NULL,
	status         TEXT NOT NULL,
	total_amount   BIGINT NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL,
	updated_at     TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS order_items (
	id            UUID PRIMARY KEY,
	order_id      UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	product_id    TEXT NOT NULL,
	title         TEXT NOT NULL,
	selected_size TEXT NOT NULL DEFAULT '',
	unit_price    BIGINT NOT NULL,
	quantity      BIGINT NOT NULL,
	line_total    BIGINT NOT NULL
);`

func (r *OrderRepo) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate orders: %w", err)
	}
	return nil
}

func (r *OrderRepo) execTX(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx err: %w; rollback err: %v", err, rbErr)
		}
		return err
	}

	return tx.Commit()
}

func (r *OrderRepo) CreateOrderTx(ctx context.Context, order domain.Order) (domain.Order, error) {
	now := time.Now().UTC()
	order.ID = uuid.NewString()
	order.Status = domain.StatusPending
	order.CreatedAt = now
	order.UpdatedAt = now

	err := r.execTX(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO orders (id, reference, user_id, customer_name, customer_email, customer_phone,
			                    address, city, payment_method, status, total_amount, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			order.ID, order.Reference, order.UserID,
			order.Customer.Name, order.Customer.Email, order.Customer.Phone,
			order.Customer.Address, order.Customer.City,
			order.PaymentMethod, order.Status, order.TotalAmount,
			order.CreatedAt, order.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		for i := range order.Items {
			item := &order.Items[i]
			if item.LineTotal != item.UnitPrice*item.Quantity {
				return fmt.Errorf("item %d: line total mismatch", i)
			}
			item.ID = uuid.NewString()
			item.OrderID = order.ID

			_, err := tx.ExecContext(ctx, `
				INSERT INTO order_items (id, order_id, product_id, title, selected_size, unit_price, quantity, line_total)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				item.ID, item.OrderID, item.ProductID, item.Title, item.SelectedSize,
				item.UnitPrice, item.Quantity, item.LineTotal,
			)
			if err != nil {
				return fmt.Errorf("insert item %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

type orderRow struct {
	ID            string    `db:"id"`
	Reference     string    `db:"reference"`
	UserID        string    `db:"user_id"`
	CustomerName  string    `db:"customer_name"`
	CustomerEmail string    `db:"customer_email"`
	CustomerPhone string    `db:"customer_phone"`
	Address       string    `db:"address"`
	City          string    `db:"city"`
	PaymentMethod string    `db:"payment_method"`
	Status        string    `db:"status"`
	TotalAmount   int64     `db:"total_amount"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (row orderRow) toDomain() domain.Order {
	return domain.Order{
		ID:        row.ID,
		Reference: row.Reference,
		UserID:    row.UserID,
		Customer: domain.Customer{
			Name:    row.CustomerName,
			Email:   row.CustomerEmail,
			Phone:   row.CustomerPhone,
			Address: row.Address,
			City:    row.City,
		},
		PaymentMethod: row.PaymentMethod,
		Status:        row.Status,
		TotalAmount:   row.TotalAmount,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

type itemRow struct {
	ID           string `db:"id"`
	OrderID      string `db:"order_id"`
	ProductID    string `db:"product_id"`
	Title        string `db:"title"`
	SelectedSize string `db:"selected_size"`
	UnitPrice    int64  `db:"unit_price"`
	Quantity     int64  `db:"quantity"`
	LineTotal    int64  `db:"line_total"`
}

func (r *OrderRepo) Get(ctx context.Context, id string) (domain.Order, error) {
	var row orderRow
	err := r.db.GetContext(ctx, &row, `SELECT * FROM orders WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("get order %s: %w", id, err)
	}

	order := row.toDomain()
	order.Items, err = r.items(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

func (r *OrderRepo) items(ctx context.Context, orderID string) ([]domain.Item, error) {
	var rows []itemRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM order_items WHERE order_id = $1`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list items for order %s: %w", orderID, err)
	}

	items := make([]domain.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, domain.Item(row))
	}
	return items, nil
}

func (r *OrderRepo) List(ctx context.Context, limit int) ([]domain.Order, error) {
	var rows []orderRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM orders ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	orders := make([]domain.Order, 0, len(rows))
	for _, row := range rows {
		order := row.toDomain()
		order.Items, err = r.items(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("update order %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return app.ErrNotFound
	}
	return nil
}
