package http

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/deezprints/deezprints/internal/cart/app"
	"github.com/deezprints/deezprints/internal/cart/infra/localstore"
	"github.com/deezprints/deezprints/internal/identity"
)

const defaultSessionTTL = 30 * time.Minute

// Sessions owns one cart Service per shopper session. Each cart is
// wired to the session's guest profile in the local store, the shared
// remote store, and a per-session identity broadcast that replays the
// request's auth state into the cart's identity event stream.
//
// Sessions idle past the TTL are evicted and their carts closed; the
// in-memory state is rebuilt from the backing store on the next
// request carrying the same cookie.
type Sessions struct {
	local    *localstore.DB
	remote   app.RemoteStore
	debounce time.Duration
	ttl      time.Duration
	log      *slog.Logger

	mu       sync.Mutex
	sessions map[string]*session

	stopOnce sync.Once
	stop     chan struct{}
}

type session struct {
	svc      *app.Service
	ident    *identity.Broadcast
	lastSeen time.Time
}

func NewSessions(local *localstore.DB, remote app.RemoteStore, debounce, ttl time.Duration, log *slog.Logger) *Sessions {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	s := &Sessions{
		local:    local,
		remote:   remote,
		debounce: debounce,
		ttl:      ttl,
		log:      log,
		sessions: make(map[string]*session),
		stop:     make(chan struct{}),
	}
	go s.janitor()
	return s
}

// Cart returns the session's cart, creating and loading it on first
// use. When the request's identity differs from the cart's, the change
// is published so the cart reloads from the right backing store.
func (s *Sessions) Cart(ctx context.Context, sessionID, userID string) *app.Service {
	now := time.Now()

	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		ident := identity.NewBroadcast(userID)
		svc := app.NewService(app.Config{
			Local:        s.local.ForProfile(sessionID),
			Remote:       s.remote,
			Identity:     ident,
			SaveDebounce: s.debounce,
			Logger:       s.log,
		})
		sess = &session{svc: svc, ident: ident, lastSeen: now}
		s.sessions[sessionID] = sess
		s.mu.Unlock()

		// The cart outlives the request that created it.
		svc.Start(context.WithoutCancel(ctx))
		return svc
	}
	sess.lastSeen = now
	s.mu.Unlock()

	if sess.ident.UserID() != userID {
		sess.ident.SetUser(userID)
	}
	return sess.svc
}

// Len reports how many session carts are live.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Sessions) janitor() {
	interval := s.ttl / 4
	if interval < time.Millisecond {
		interval = time.Millisecond
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-t.C:
			s.evictExpired(time.Now())
		}
	}
}

func (s *Sessions) evictExpired(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.ttl {
			sess.svc.Close()
			delete(s.sessions, id)
		}
	}
}

// Close stops the janitor and tears down every session cart,
// abandoning pending saves.
func (s *Sessions) Close() {
	s.stopOnce.Do(func() { close(s.stop) })

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		sess.svc.Close()
	}
	s.sessions = make(map[string]*session)
}
