// Package search keeps a listing URL's query parameters in step with a
// free-text search box, debouncing keystrokes into replace navigations.
package search

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet period before a search term is applied.
const DefaultDelay = 1000 * time.Millisecond

// Timer is the part of *time.Timer the debouncer needs.
type Timer interface {
	Stop() bool
}

// AfterFunc arms f to run once after d. time.AfterFunc satisfies it.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Debouncer runs only the last call made within delay of each other.
// It is idle until Call arms a timer, and pending until that timer
// fires or Flush runs it.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	after   AfterFunc
	timer   Timer
	pending func()
	gen     uint64
	running sync.WaitGroup
}

// NewDebouncer creates an idle debouncer. A nil after uses time.AfterFunc.
func NewDebouncer(delay time.Duration, after AfterFunc) *Debouncer {
	if after == nil {
		after = realAfterFunc
	}
	return &Debouncer{delay: delay, after: after}
}

// Call cancels any pending call and schedules fn after the delay.
func (d *Debouncer) Call(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending = fn
	d.timer = d.after(d.delay, func() { d.fire(gen) })
}

// fire runs the pending call if it was armed by generation gen. A timer
// that lost the race with Stop finds a newer generation and does nothing.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.pending == nil {
		d.mu.Unlock()
		return
	}
	fn := d.take()
	d.running.Add(1)
	d.mu.Unlock()
	defer d.running.Done()
	fn()
}

// take resets to idle and returns the pending call. d.mu must be held.
func (d *Debouncer) take() func() {
	fn := d.pending
	d.pending = nil
	d.timer = nil
	d.gen++
	return fn
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Flush runs the pending call now, if any, and reports whether it did.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	if d.pending == nil {
		d.mu.Unlock()
		return false
	}
	d.timer.Stop()
	fn := d.take()
	d.running.Add(1)
	d.mu.Unlock()
	defer d.running.Done()
	fn()
	return true
}

// Wait blocks until calls that already started have returned. Together
// with Flush it drains the debouncer.
func (d *Debouncer) Wait() {
	d.running.Wait()
}
