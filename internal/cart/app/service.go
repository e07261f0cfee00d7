package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/deezprints/deezprints/internal/cart/domain"
)

const defaultSaveDebounce = time.Second

// Config wires a cart Service to its collaborators. Local and Identity
// are required; Remote may be nil when authenticated persistence is
// not configured, in which case signed-in carts live in memory only.
type Config struct {
	Local    LocalStore
	Remote   RemoteStore
	Identity Identity

	// SaveDebounce is how long after the last mutation the remote
	// write fires. Defaults to one second.
	SaveDebounce time.Duration

	Logger *slog.Logger
}

// Service owns the canonical in-memory cart state for one shopper
// session. Mutations apply to memory first and persist as a detached
// effect: guest carts are written through to the local store on every
// mutation, authenticated carts are written to the remote store after
// a debounce window. Persistence failures are logged and never block
// the shopper.
type Service struct {
	local    LocalStore
	remote   RemoteStore
	identity Identity
	saver    *debouncer
	log      *slog.Logger

	mu     sync.Mutex
	cart   domain.Cart
	open   bool
	userID string

	stopOnce sync.Once
	stop     chan struct{}
}

func NewService(cfg Config) *Service {
	if cfg.SaveDebounce <= 0 {
		cfg.SaveDebounce = defaultSaveDebounce
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	s := &Service{
		local:    cfg.Local,
		remote:   cfg.Remote,
		identity: cfg.Identity,
		log:      cfg.Logger,
		stop:     make(chan struct{}),
	}
	s.saver = newDebouncer(cfg.SaveDebounce, s.remoteSave)
	return s
}

// Start loads the cart for the current identity and begins watching
// for identity transitions. Identity lookup failure degrades to guest.
func (s *Service) Start(ctx context.Context) {
	sess := Session{}
	if s.identity != nil {
		var err error
		sess, err = s.identity.Current(ctx)
		if err != nil {
			s.log.Warn("identity lookup failed, continuing as guest", slog.Any("err", err))
			sess = Session{}
		}
	}

	if sess.UserID != "" {
		s.adoptUser(ctx, sess.UserID)
	} else {
		s.adoptGuest()
	}

	if s.identity != nil {
		go s.watch(ctx)
	}
}

// Close abandons any pending remote save and stops the identity
// watcher. The in-memory cart is left as is.
func (s *Service) Close() {
	s.stopOnce.Do(func() {
		s.saver.CancelPending()
		close(s.stop)
	})
}

// AddItem merges into an existing line with the same (id, size) key or
// appends a new one, and opens the cart so the UI presents it.
func (s *Service) AddItem(p domain.Product, size string, qty int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.Add(p, size, qty)
	s.open = true
	s.persistLocked()
}

// RemoveItem deletes the line with the given (id, size) key. Removal
// is keyed the same way as add/merge, so removing one sized variant
// leaves the others alone. Unknown keys are a no-op.
func (s *Service) RemoveItem(productID, size string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.Remove(productID, size)
	s.persistLocked()
}

// SetQuantity sets the quantity of the line with the given key. A
// quantity below one removes the line.
func (s *Service) SetQuantity(productID, size string, qty int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.SetQuantity(productID, size, qty)
	s.persistLocked()
}

// Clear empties the cart unconditionally. Checkout calls this once the
// order write has succeeded.
func (s *Service) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.Clear()
	s.persistLocked()
}

func (s *Service) Items() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Lines()
}

func (s *Service) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Total()
}

func (s *Service) Count() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Count()
}

func (s *Service) Open() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

func (s *Service) SetOpen(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = open
}

// UserID reports the identity the cart was loaded under; empty means
// guest.
func (s *Service) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

// persistLocked schedules the persistence side effect for the state
// currently in memory. Callers hold s.mu.
func (s *Service) persistLocked() {
	items := s.cart.Lines()

	if s.userID == "" {
		if s.local == nil {
			return
		}
		if err := s.local.Save(items); err != nil {
			s.log.Error("guest cart save failed", slog.Any("err", err))
		}
		return
	}

	if s.remote == nil {
		return
	}
	s.saver.Schedule(s.userID, items)
}

func (s *Service) remoteSave(userID string, items []domain.LineItem) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.remote.Save(ctx, userID, items); err != nil {
		s.log.Error("remote cart save failed",
			slog.String("user_id", userID),
			slog.Any("err", err),
		)
	}
}

func (s *Service) watch(ctx context.Context) {
	events := s.identity.Events()
	if events == nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			s.saver.CancelPending()
			return
		case <-s.stop:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			s.handleEvent(ctx, ev)
		}
	}
}

func (s *Service) handleEvent(ctx context.Context, ev Event) {
	current := s.UserID()

	switch ev.Type {
	case EventSignedIn:
		// A sign-in without a user id is malformed; adopting it
		// would key remote state by the empty string.
		if ev.UserID == "" || ev.UserID == current {
			return
		}
		s.adoptUser(ctx, ev.UserID)
	case EventSignedOut:
		if current == "" {
			return
		}
		s.adoptGuest()
	case EventTokenRefreshed:
		// A refresh that changes the identity is a sign-in in
		// disguise; an unchanged identity needs no reload.
		if ev.UserID != current && ev.UserID != "" {
			s.adoptUser(ctx, ev.UserID)
		}
	}
}

// adoptUser discards the in-memory cart and reloads it from the remote
// store for the given identity. The guest cart is not merged in.
func (s *Service) adoptUser(ctx context.Context, userID string) {
	s.saver.CancelPending()

	items := s.loadRemote(ctx, userID)

	s.mu.Lock()
	s.userID = userID
	s.cart = domain.NewCart(items)
	s.mu.Unlock()
}

// adoptGuest discards the in-memory cart and reloads whatever cart the
// browser profile held before sign-in, if any.
func (s *Service) adoptGuest() {
	s.saver.CancelPending()

	var items []domain.LineItem
	if s.local != nil {
		var err error
		items, err = s.local.Load()
		if err != nil {
			s.log.Warn("guest cart load failed, starting empty", slog.Any("err", err))
			items = nil
		}
	}

	s.mu.Lock()
	s.userID = ""
	s.cart = domain.NewCart(items)
	s.mu.Unlock()
}

func (s *Service) loadRemote(ctx context.Context, userID string) []domain.LineItem {
	if s.remote == nil {
		return nil
	}

	items, err := s.remote.Load(ctx, userID)
	switch {
	case err == nil:
		return items
	case errors.Is(err, ErrNotFound):
		return nil
	default:
		s.log.Error("remote cart load failed, starting empty",
			slog.String("user_id", userID),
			slog.Any("err", err),
		)
		return nil
	}
}
