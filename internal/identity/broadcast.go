package identity

import (
	"context"
	"sync"

	"github.com/deezprints/deezprints/internal/cart/app"
)

// Broadcast tracks the identity of one shopper session and feeds the
// cart its transition events. SetUser publishes signed_in/signed_out
// when the identity actually changes and token_refreshed when it does
// not.
type Broadcast struct {
	mu     sync.Mutex
	userID string
	events chan app.Event
}

func NewBroadcast(userID string) *Broadcast {
	return &Broadcast{
		userID: userID,
		events: make(chan app.Event, 8),
	}
}

func (b *Broadcast) Current(ctx context.Context) (app.Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return app.Session{UserID: b.userID}, nil
}

func (b *Broadcast) Events() <-chan app.Event {
	return b.events
}

func (b *Broadcast) UserID() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.userID
}

func (b *Broadcast) SetUser(userID string) {
	b.mu.Lock()
	changed := userID != b.userID
	b.userID = userID
	b.mu.Unlock()

	var ev app.Event
	switch {
	case changed && userID != "":
		ev = app.Event{Type: app.EventSignedIn, UserID: userID}
	case changed:
		ev = app.Event{Type: app.EventSignedOut}
	default:
		if userID == "" {
			return
		}
		ev = app.Event{Type: app.EventTokenRefreshed, UserID: userID}
	}

	// Drop rather than block if the watcher is behind; the next
	// request publishes the state again.
	select {
	case b.events <- ev:
	default:
	}
}
