package app

import (
	"sync"
	"time"

	"github.com/deezprints/deezprints/internal/cart/domain"
)

// debouncer coalesces bursts of cart mutations into one remote write.
// Each Schedule restarts the timer; only the state passed to the last
// call before the timer fires is written.
type debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	save  func(userID string, items []domain.LineItem)
}

func newDebouncer(delay time.Duration, save func(userID string, items []domain.LineItem)) *debouncer {
	return &debouncer{delay: delay, save: save}
}

func (d *debouncer) Schedule(userID string, items []domain.LineItem) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.save(userID, items)
	})
}

func (d *debouncer) CancelPending() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
