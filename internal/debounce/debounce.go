// Package debounce coalesces bursts of text input into a single commit after
// an idle window. Each search field owns one Debouncer; non-text filter
// controls bypass it and commit immediately.
package debounce

import (
	"sync"
	"time"
)

// Debouncer delays committing a value until input has been quiet for the
// configured interval. Seeding the initial value never fires a commit, so
// restoring a view from existing filters cannot cause a spurious refetch.
type Debouncer struct {
	interval time.Duration
	commit   func(string)

	mu    sync.Mutex
	timer *time.Timer
	value string
}

// New creates a debouncer that calls commit with the latest value once input
// has been idle for interval. commit runs on the timer goroutine.
func New(interval time.Duration, commit func(string)) *Debouncer {
	return &Debouncer{interval: interval, commit: commit}
}

// Seed initializes the tracked value without arming the timer.
func (d *Debouncer) Seed(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.value = value
}

// Input records a keystroke's resulting value and restarts the idle timer.
func (d *Debouncer) Input(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.value = value
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.fire)
}

// Flush commits the current value immediately, cancelling any pending timer.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	value := d.value
	d.mu.Unlock()
	d.commit(value)
}

// Cancel drops any pending commit without firing it.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	d.timer = nil
	value := d.value
	d.mu.Unlock()
	d.commit(value)
}
