package app

import (
	"sync"
	"time"
)

// finalWarningSeconds are the fixed one-shot warning thresholds; thresholds
// at or above the configured duration are skipped at start.
var finalWarningSeconds = []int{600, 300, 60}

type countdownState int

const (
	countdownIdle countdownState = iota
	countdownRunning
	countdownExpired
	countdownCancelled
)

// CountdownCallbacks are invoked from the countdown's tick goroutine.
// OnExpire fires exactly once; no tick follows it.
type CountdownCallbacks struct {
	OnTick    func(remaining int)
	OnWarning func(remaining int)
	OnExpire  func()
}

// tickerFactory abstracts time.Ticker so tests can drive ticks by hand,
// mirroring the clock-injection used elsewhere.
type tickerFactory func(d time.Duration) (<-chan time.Time, func())

// Countdown is a one-second-resolution countdown with one-shot warning
// thresholds and idempotent expiry. Cancel guarantees that no callback
// delivery begins afterwards; in-flight deliveries are fenced by the owning
// session's submitted-state check.
type Countdown struct {
	mu        sync.Mutex
	state     countdownState
	gen       int
	total     int
	remaining int
	pending   map[int]struct{}
	stop      chan struct{}
	newTicker tickerFactory
}

func NewCountdown() *Countdown {
	return &Countdown{
		newTicker: func(d time.Duration) (<-chan time.Time, func()) {
			t := time.NewTicker(d)
			return t.C, t.Stop
		},
	}
}

// newCountdownWithTicker is test-only, for deterministic ticks.
func newCountdownWithTicker(factory tickerFactory) *Countdown {
	return &Countdown{newTicker: factory}
}

// Start begins (or restarts) the countdown. A running countdown is cancelled
// first, so restart after Cancel or expiry reinitializes cleanly.
func (c *Countdown) Start(durationSeconds int, cb CountdownCallbacks) {
	c.mu.Lock()
	if c.state == countdownRunning {
		c.cancelLocked()
	}
	c.state = countdownRunning
	c.gen++
	gen := c.gen
	c.total = durationSeconds
	c.remaining = durationSeconds
	c.pending = make(map[int]struct{}, len(finalWarningSeconds))
	for _, threshold := range finalWarningSeconds {
		if threshold < durationSeconds {
			c.pending[threshold] = struct{}{}
		}
	}
	c.stop = make(chan struct{})
	stop := c.stop
	tick, cleanup := c.newTicker(time.Second)
	c.mu.Unlock()

	go c.run(gen, stop, tick, cleanup, cb)
}

func (c *Countdown) run(gen int, stop chan struct{}, tick <-chan time.Time, cleanup func(), cb CountdownCallbacks) {
	defer cleanup()
	for {
		select {
		case <-stop:
			return
		case <-tick:
			remaining, warn, expired, ok := c.advance(gen)
			if !ok {
				return
			}
			if cb.OnTick != nil {
				cb.OnTick(remaining)
			}
			if warn && cb.OnWarning != nil {
				cb.OnWarning(remaining)
			}
			if expired {
				if cb.OnExpire != nil {
					cb.OnExpire()
				}
				return
			}
		}
	}
}

// advance applies one tick under the lock. It reports ok=false once the
// countdown is no longer running or was restarted under a newer generation,
// so a cancelled timer delivers no stale ticks and expiry signals at most
// once.
func (c *Countdown) advance(gen int) (remaining int, warn, expired, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != countdownRunning || gen != c.gen {
		return 0, false, false, false
	}
	c.remaining--
	if c.remaining < 0 {
		c.remaining = 0
		return 0, false, false, false
	}
	remaining = c.remaining
	if _, pending := c.pending[remaining]; pending {
		delete(c.pending, remaining)
		warn = true
	}
	if remaining == 0 {
		c.state = countdownExpired
		expired = true
	}
	return remaining, warn, expired, true
}

// Cancel stops a running countdown. Cancelling an idle, expired or already
// cancelled countdown is a no-op.
func (c *Countdown) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked()
}

func (c *Countdown) cancelLocked() {
	if c.state != countdownRunning {
		return
	}
	c.state = countdownCancelled
	close(c.stop)
}

// Remaining returns the seconds left on the clock.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Running reports whether the countdown is ticking.
func (c *Countdown) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == countdownRunning
}

// Expired reports whether the countdown reached zero.
func (c *Countdown) Expired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == countdownExpired
}
