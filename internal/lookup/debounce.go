package lookup

import (
	"context"
	"sync"
	"time"

	"staking-lens/internal/domain"
)

// DefaultDebounceDelay is the quiet window applied to submitted
// addresses before a lookup fires.
const DefaultDebounceDelay = 500 * time.Millisecond

// Outcome is one debounced lookup result.
type Outcome struct {
	Wallet string
	Result *domain.WalletTimeline
	Err    error
}

// LookupFunc is the function a Debouncer drives; usually
// (*Service).Lookup.
type LookupFunc func(ctx context.Context, wallet string) (*domain.WalletTimeline, error)

// Debouncer coalesces a stream of submitted addresses: only the last
// address seen within the quiet window is looked up, and submitting a
// new address cancels any lookup still in flight, aborting its fetch
// rather than merely discarding the result.
type Debouncer struct {
	delay  time.Duration
	lookup LookupFunc

	mu       sync.Mutex
	timer    *time.Timer
	inflight context.CancelFunc
	closed   bool

	sendMu  sync.Mutex
	results chan Outcome
}

// NewDebouncer creates a debouncer around the given lookup function.
func NewDebouncer(lookup LookupFunc, delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounceDelay
	}
	return &Debouncer{
		delay:   delay,
		lookup:  lookup,
		results: make(chan Outcome, 1),
	}
}

// Submit registers an address. The lookup fires after the quiet window
// elapses without another Submit; earlier pending addresses are dropped.
func (d *Debouncer) Submit(wallet string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.fire(wallet)
	})
}

// fire starts the lookup for wallet, cancelling any lookup in flight.
func (d *Debouncer) fire(wallet string) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	if d.inflight != nil {
		d.inflight()
	}
	ctx, cancel := context.WithCancel(context.Background())
	d.inflight = cancel
	d.mu.Unlock()

	go func() {
		result, err := d.lookup(ctx, wallet)
		if ctx.Err() != nil {
			// Superseded or closed; the result must never surface.
			return
		}
		d.deliver(Outcome{Wallet: wallet, Result: result, Err: err})
	}()
}

// deliver replaces any unread stale outcome with the fresh one.
func (d *Debouncer) deliver(out Outcome) {
	d.sendMu.Lock()
	defer d.sendMu.Unlock()

	select {
	case <-d.results:
	default:
	}
	d.results <- out
}

// Results returns the channel outcomes are delivered on. Only the most
// recent unread outcome is retained.
func (d *Debouncer) Results() <-chan Outcome {
	return d.results
}

// Close cancels the pending timer and any in-flight lookup. The
// results channel is left open; no further outcomes are delivered.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
	}
	if d.inflight != nil {
		d.inflight()
	}
}
