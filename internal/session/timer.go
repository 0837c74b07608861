package session

import (
	"fmt"
	"time"
)

// TickInterval is the cadence at which the owning view calls Tick.
const TickInterval = time.Second

// ExpiryGrace is the delay between expiry and forced completion, so the
// view can show the time-up notice.
const ExpiryGrace = time.Second

// TickEvent reports what a tick did.
type TickEvent int

// Tick outcomes.
const (
	// TickIgnored means the timer is stopped and nothing changed.
	TickIgnored TickEvent = iota
	// TickAdvanced means elapsed grew by one second.
	TickAdvanced
	// TickExpired means elapsed reached the limit on this tick. It is
	// returned exactly once; the timer is stopped afterwards.
	TickExpired
)

// Timer counts elapsed seconds. It holds no goroutine or ticker; the owner
// drives it by calling Tick once per TickInterval and stops driving it when
// Stopped reports true.
type Timer struct {
	elapsed int
	limit   int
	expired bool
	stopped bool
}

// NewTimer returns a timer starting at zero. A limit of zero or less never
// expires.
func NewTimer(limitSeconds int) *Timer {
	if limitSeconds < 0 {
		limitSeconds = 0
	}
	return &Timer{limit: limitSeconds}
}

// Tick advances the timer by one second unless it is stopped.
func (t *Timer) Tick() TickEvent {
	if t.stopped {
		return TickIgnored
	}
	t.elapsed++
	if t.limit > 0 && !t.expired && t.elapsed >= t.limit {
		t.expired = true
		t.stopped = true
		return TickExpired
	}
	return TickAdvanced
}

// Stop halts the timer permanently.
func (t *Timer) Stop() {
	t.stopped = true
}

// Stopped reports whether further ticks are ignored.
func (t *Timer) Stopped() bool {
	return t.stopped
}

// Elapsed returns the elapsed seconds.
func (t *Timer) Elapsed() int {
	return t.elapsed
}

// Limit returns the limit in seconds, or zero when unlimited.
func (t *Timer) Limit() int {
	return t.limit
}

// Remaining returns the seconds left before expiry, never negative. It is
// zero for an unlimited timer.
func (t *Timer) Remaining() int {
	if t.limit <= 0 {
		return 0
	}
	left := t.limit - t.elapsed
	if left < 0 {
		return 0
	}
	return left
}

// Expired reports whether the limit has been reached.
func (t *Timer) Expired() bool {
	return t.expired
}

// FormatClock renders seconds as m:ss.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// FormatDuration renders seconds as "Xm Ys".
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}
