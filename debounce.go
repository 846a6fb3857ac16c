package dashbin

import (
	"sync"
	"time"
)

// DefaultRefreshDelay is how long suggestion recomputation is deferred after
// an input byte, coalescing bursts of output (paste, fast typing) into a
// single re-parse.
const DefaultRefreshDelay = 40 * time.Millisecond

// Debouncer is a single-slot pending timer: scheduling a new call supersedes
// any previously scheduled call that has not fired yet. There is never more
// than one refresh in flight.
type Debouncer struct {
	mu    sync.Mutex
	timer *time.Timer
	delay time.Duration
}

// NewDebouncer creates a debouncer with the given delay.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultRefreshDelay
	}
	return &Debouncer{delay: delay}
}

// Schedule arms the slot with fn, cancelling any unfired previous call.
func (d *Debouncer) Schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels the pending call, if any.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Flush runs fn immediately, cancelling any pending call first.
func (d *Debouncer) Flush(fn func()) {
	d.Stop()
	fn()
}
