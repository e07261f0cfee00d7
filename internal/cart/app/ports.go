package app

import (
	"context"
	"errors"

	"github.com/deezprints/deezprints/internal/cart/domain"
)

// ErrNotFound is returned by RemoteStore.Load when no cart document
// exists for the user. It is not a failure: the shopper simply has no
// saved cart yet.
var ErrNotFound = errors.New("cart not found")

// LocalStore persists the guest cart. Reads and writes are synchronous
// and cheap; every mutation overwrites the stored blob.
type LocalStore interface {
	Load() ([]domain.LineItem, error)
	Save(items []domain.LineItem) error
}

// RemoteStore persists the cart of an authenticated shopper, keyed by
// user id and shared across devices.
type RemoteStore interface {
	Load(ctx context.Context, userID string) ([]domain.LineItem, error)
	Save(ctx context.Context, userID string, items []domain.LineItem) error
}

type EventType string

const (
	EventSignedIn       EventType = "signed_in"
	EventSignedOut      EventType = "signed_out"
	EventTokenRefreshed EventType = "token_refreshed"
)

type Event struct {
	Type   EventType
	UserID string
}

// Session is the current identity. An empty UserID means guest.
type Session struct {
	UserID string
}

// Identity supplies the current session and a stream of identity
// transitions. The cart only reacts to identity changes; a token
// refresh for the same user leaves it untouched.
type Identity interface {
	Current(ctx context.Context) (Session, error)
	Events() <-chan Event
}
