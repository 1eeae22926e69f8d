// Package observe abstracts host-page change notifications behind a
// subscribe/unsubscribe interface and schedules the reaction engine's
// "attach controls if missing" pass behind a debounce plus a fixed
// interval sweep.
package observe

import (
	"sync"
	"time"
)

// Default scheduling constants. Changing them is allowed; behavior at the
// defaults is part of the contract.
const (
	DefaultDebounce = 100 * time.Millisecond
	DefaultSweep    = time.Second
)

// Notifier delivers coarse "document subtree changed" notifications. There
// is no diff payload; subscribers rescan on their own.
type Notifier interface {
	Subscribe(fn func()) (unsubscribe func())
}

// Hub is an in-process Notifier. Host adapters push into it; tests drive
// it synthetically.
type Hub struct {
	mu   sync.Mutex
	subs map[int]func()
	next int
}

// NewHub returns an empty notification hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[int]func())}
}

// Subscribe registers fn and returns its unsubscribe function.
func (h *Hub) Subscribe(fn func()) func() {
	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = fn
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}
}

// Notify fans a change notification out to every subscriber.
func (h *Hub) Notify() {
	h.mu.Lock()
	fns := make([]func(), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Debouncer coalesces notification storms behind a short delay and
// independently fires on a fixed-interval sweep as a backstop against
// missed notifications. Both timers feed the same idempotent callback;
// they are deliberately not unified.
type Debouncer struct {
	delay time.Duration
	sweep time.Duration
	fn    func()

	mu     sync.Mutex
	timer  *time.Timer
	ticker *time.Ticker
	stop   chan struct{}
	done   sync.WaitGroup
}

// NewDebouncer builds a stopped debouncer around fn. Zero durations fall
// back to the defaults.
func NewDebouncer(delay, sweep time.Duration, fn func()) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	if sweep <= 0 {
		sweep = DefaultSweep
	}
	return &Debouncer{delay: delay, sweep: sweep, fn: fn}
}

// Start launches the interval sweep. Calling Start twice is a no-op.
func (d *Debouncer) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ticker != nil {
		return
	}
	d.ticker = time.NewTicker(d.sweep)
	d.stop = make(chan struct{})
	d.done.Add(1)
	go d.sweepLoop(d.ticker, d.stop)
}

func (d *Debouncer) sweepLoop(ticker *time.Ticker, stop chan struct{}) {
	defer d.done.Done()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			d.fn()
		}
	}
}

// Trigger schedules a debounced run, replacing any pending one.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fn)
}

// Stop cancels the pending debounce and the sweep ticker.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.ticker != nil {
		d.ticker.Stop()
		close(d.stop)
		d.ticker = nil
	}
	d.mu.Unlock()
	d.done.Wait()
}
