package localstore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/deezprints/deezprints/internal/cart/domain"
	_ "modernc.org/sqlite"
)

// cartKey is the single logical key the serialized cart lives under
// within one profile.
const cartKey = "cart"

// DB wraps the SQLite file shared by all guest profiles on this host.
type DB struct {
	db *sql.DB
}

func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open guest cart store: %w", err)
	}

	stmt := `
	CREATE TABLE IF NOT EXISTS kv (
		profile_id TEXT NOT NULL,
		key        TEXT NOT NULL,
		value      TEXT NOT NULL,
		PRIMARY KEY (profile_id, key)
	);`
	if _, err := db.Exec(stmt); err != nil {
		db.Close()
		return nil, fmt.Errorf("create kv table: %w", err)
	}

	return &DB{db: db}, nil
}

func (d *DB) Close() error { return d.db.Close() }

// Store is the guest cart persistence for one profile: a synchronous
// read/overwrite of one JSON blob under a fixed key.
type Store struct {
	db        *DB
	profileID string
}

func (d *DB) ForProfile(profileID string) *Store {
	return &Store{db: d, profileID: profileID}
}

func (s *Store) Load() ([]domain.LineItem, error) {
	var value string
	err := s.db.db.QueryRow(
		`SELECT value FROM kv WHERE profile_id = ? AND key = ?`,
		s.profileID, cartKey,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load guest cart: %w", err)
	}

	var items []domain.LineItem
	if err := json.Unmarshal([]byte(value), &items); err != nil {
		return nil, fmt.Errorf("decode guest cart: %w", err)
	}
	return items, nil
}

func (s *Store) Save(items []domain.LineItem) error {
	if items == nil {
		items = []domain.LineItem{}
	}
	value, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode guest cart: %w", err)
	}

	_, err = s.db.db.Exec(`
		INSERT INTO kv (profile_id, key, value) VALUES (?, ?, ?)
		ON CONFLICT (profile_id, key) DO UPDATE SET value = excluded.value`,
		s.profileID, cartKey, string(value),
	)
	if err != nil {
		return fmt.Errorf("save guest cart: %w", err)
	}
	return nil
}
