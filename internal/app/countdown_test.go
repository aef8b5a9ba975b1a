package app

import (
	"testing"
	"time"
)

// manualTicker hands the countdown a fresh hand-driven channel on every
// Start, mirroring how time.NewTicker issues a new ticker per call.
type manualTicker struct {
	channels chan chan time.Time
}

func newManualTicker() *manualTicker {
	return &manualTicker{channels: make(chan chan time.Time, 4)}
}

func (m *manualTicker) factory(time.Duration) (<-chan time.Time, func()) {
	ch := make(chan time.Time)
	m.channels <- ch
	return ch, func() {}
}

func (m *manualTicker) current(t *testing.T) chan time.Time {
	t.Helper()
	select {
	case ch := <-m.channels:
		return ch
	case <-time.After(2 * time.Second):
		t.Fatalf("no ticker issued")
		return nil
	}
}

func TestCountdownExpiresExactlyOnce(t *testing.T) {
	mt := newManualTicker()
	c := newCountdownWithTicker(mt.factory)

	tickSeen := make(chan int, 16)
	expireSeen := make(chan struct{}, 2)
	c.Start(10, CountdownCallbacks{
		OnTick:   func(remaining int) { tickSeen <- remaining },
		OnExpire: func() { expireSeen <- struct{}{} },
	})
	ticks := mt.current(t)

	for i := 0; i < 10; i++ {
		ticks <- time.Time{}
		remaining := waitInt(t, tickSeen)
		if want := 10 - (i + 1); remaining != want {
			t.Fatalf("tick %d: expected remaining %d, got %d", i+1, want, remaining)
		}
	}

	select {
	case <-expireSeen:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected expiry after 10 ticks")
	}
	if !c.Expired() {
		t.Fatalf("expected expired state")
	}
	if c.Remaining() != 0 {
		t.Fatalf("expected remaining 0 at expiry, got %d", c.Remaining())
	}

	// Ticks after expiry must not move the clock or re-signal expiry.
	if _, _, _, ok := c.advance(1); ok {
		t.Fatalf("expected advance to refuse after expiry")
	}
	if c.Remaining() != 0 {
		t.Fatalf("expected remaining to stay 0, got %d", c.Remaining())
	}
	select {
	case <-expireSeen:
		t.Fatalf("expire fired more than once")
	default:
	}
}

func TestCountdownCancelStopsCallbacks(t *testing.T) {
	mt := newManualTicker()
	c := newCountdownWithTicker(mt.factory)

	tickSeen := make(chan int, 16)
	expireSeen := make(chan struct{}, 1)
	c.Start(5, CountdownCallbacks{
		OnTick:   func(remaining int) { tickSeen <- remaining },
		OnExpire: func() { expireSeen <- struct{}{} },
	})
	ticks := mt.current(t)

	ticks <- time.Time{}
	if remaining := waitInt(t, tickSeen); remaining != 4 {
		t.Fatalf("expected remaining 4, got %d", remaining)
	}

	c.Cancel()
	if c.Running() {
		t.Fatalf("expected cancelled countdown to stop running")
	}
	if _, _, _, ok := c.advance(1); ok {
		t.Fatalf("expected no tick processing after cancel")
	}
	select {
	case <-expireSeen:
		t.Fatalf("expire fired after cancel")
	case remaining := <-tickSeen:
		t.Fatalf("stale tick %d delivered after cancel", remaining)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCountdownWarningThresholdsFireOnce(t *testing.T) {
	mt := newManualTicker()
	c := newCountdownWithTicker(mt.factory)

	tickSeen := make(chan int, 128)
	warnSeen := make(chan int, 8)
	c.Start(65, CountdownCallbacks{
		OnTick:    func(remaining int) { tickSeen <- remaining },
		OnWarning: func(remaining int) { warnSeen <- remaining },
	})
	ticks := mt.current(t)

	// 600s and 300s thresholds exceed the 65s duration, so only the 60s
	// final warning is armed.
	for i := 0; i < 10; i++ {
		ticks <- time.Time{}
		waitInt(t, tickSeen)
	}

	if warned := waitInt(t, warnSeen); warned != 60 {
		t.Fatalf("expected warning at 60s, got %d", warned)
	}
	select {
	case warned := <-warnSeen:
		t.Fatalf("unexpected second warning at %d", warned)
	default:
	}
}

func TestCountdownRestartAfterCancel(t *testing.T) {
	mt := newManualTicker()
	c := newCountdownWithTicker(mt.factory)

	c.Start(5, CountdownCallbacks{})
	_ = mt.current(t)
	c.Cancel()

	tickSeen := make(chan int, 16)
	c.Start(3, CountdownCallbacks{
		OnTick: func(remaining int) { tickSeen <- remaining },
	})
	ticks := mt.current(t)
	if !c.Running() {
		t.Fatalf("expected restarted countdown running")
	}

	ticks <- time.Time{}
	if remaining := waitInt(t, tickSeen); remaining != 2 {
		t.Fatalf("expected fresh countdown from 3, got remaining %d", remaining)
	}
}

func waitInt(t *testing.T, ch <-chan int) int {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for callback")
		return 0
	}
}
