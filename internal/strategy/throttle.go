package strategy

import (
	"sync"
	"time"
)

// Throttle enforces a per (signalType, symbol) daily trigger budget.
//
// It is a gate, not a cooldown timer: it counts successful rule
// evaluations regardless of wall-clock spacing. Counters reset lazily on
// the first call after the local calendar date advances. The clock is
// injectable so day rollover is testable without real waits.
type Throttle struct {
	mu        sync.Mutex
	max       int
	counts    map[string]int
	lastReset time.Time
	now       func() time.Time
}

// NewThrottle creates a throttle allowing max triggers per signal type per
// symbol per day. A nil now defaults to time.Now.
func NewThrottle(max int, now func() time.Time) *Throttle {
	if now == nil {
		now = time.Now
	}
	return &Throttle{
		max:    max,
		counts: make(map[string]int),
		now:    now,
	}
}

// CheckAndConsume reports whether the (signalType, symbol) budget still has
// room and, if so, consumes one trigger. Exhausted budgets return false
// without mutation.
func (t *Throttle) CheckAndConsume(signalType, symbol string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.resetIfNewDay()

	key := signalType + "|" + symbol
	if t.counts[key] >= t.max {
		return false
	}
	t.counts[key]++
	return true
}

// resetIfNewDay clears all counters on the first access after the local
// calendar date advances. Caller holds the lock.
func (t *Throttle) resetIfNewDay() {
	today := t.now()
	y1, m1, d1 := t.lastReset.Date()
	y2, m2, d2 := today.Date()
	if y1 == y2 && m1 == m2 && d1 == d2 {
		return
	}
	t.counts = make(map[string]int)
	t.lastReset = today
}
