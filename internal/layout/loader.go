package layout

import (
	"sync"
	"time"
)

// DefaultLoadingDelay is how long the loading indicator stays up after a
// sidebar selection.
const DefaultLoadingDelay = 1200 * time.Millisecond

// Loader is a fixed-delay loading flag. Starting it again before the delay
// elapses cancels the pending clear and restarts the countdown.
type Loader struct {
	mu       sync.Mutex
	delay    time.Duration
	timer    *time.Timer
	loading  bool
	gen      uint64
	lastUsed time.Time
	now      func() time.Time
}

// NewLoader builds a Loader. Non-positive delays fall back to DefaultLoadingDelay.
func NewLoader(delay time.Duration) *Loader {
	if delay <= 0 {
		delay = DefaultLoadingDelay
	}
	return &Loader{delay: delay, now: time.Now, lastUsed: time.Now()}
}

// Start raises the flag and schedules it to clear after the delay.
func (l *Loader) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cancelLocked()
	l.loading = true
	l.lastUsed = l.now()
	gen := l.gen
	l.timer = time.AfterFunc(l.delay, func() { l.finish(gen) })
}

// Stop cancels any pending countdown and clears the flag immediately.
func (l *Loader) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cancelLocked()
	l.loading = false
}

// Loading reports whether the indicator is currently raised.
func (l *Loader) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// Delay returns the configured countdown.
func (l *Loader) Delay() time.Duration {
	return l.delay
}

func (l *Loader) idleSince() (time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastUsed, l.loading
}

// cancelLocked bumps the generation so a callback that already fired but
// has not yet taken the lock becomes a no-op.
func (l *Loader) cancelLocked() {
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
	l.gen++
}

func (l *Loader) finish(gen uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		return
	}
	l.loading = false
	l.timer = nil
}
