package state

import (
	"context"
	"sync/atomic"
	"time"
)

// DefaultDebounce is the delay used for search suggestions.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer delays an action until input has been stable for a fixed interval.
//
// Each input change calls [Debouncer.Mark]; after [Debouncer.Delay] the caller checks [Debouncer.Settled] with its
// tag and acts only if no newer input arrived.
type Debouncer struct {
	delay time.Duration
	seq   atomic.Uint64
}

// NewDebouncer creates a debouncer. A non-positive delay uses [DefaultDebounce].
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay}
}

// Mark records an input change and returns its tag.
func (d *Debouncer) Mark() uint64 {
	return d.seq.Add(1)
}

// Settled reports whether tag is still the latest input.
func (d *Debouncer) Settled(tag uint64) bool {
	return d.seq.Load() == tag
}

// Delay returns the debounce interval.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Wait blocks for the debounce interval and reports whether tag settled. It returns false if ctx ends first.
func (d *Debouncer) Wait(ctx context.Context, tag uint64) bool {
	timer := time.NewTimer(d.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return d.Settled(tag)
	}
}
