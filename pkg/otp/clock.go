package otp

import (
	"sync"
	"time"
)

// Clock is a wall clock with a signed correction offset. The offset lets the
// user compensate for a device clock that the host OS keeps wrong; every TOTP
// read goes through Now so the correction applies uniformly.
//
// Clock is safe for concurrent use.
type Clock struct {
	mu     sync.RWMutex
	offset time.Duration
	now    func() time.Time
}

// ClockOption configures a Clock during construction.
type ClockOption func(*Clock)

// WithNowFunc replaces the time source, primarily for tests that need a
// fixed or scripted clock. Nil funcs are ignored.
func WithNowFunc(now func() time.Time) ClockOption {
	return func(c *Clock) {
		if now != nil {
			c.now = now
		}
	}
}

// WithOffset sets the initial correction offset.
func WithOffset(offset time.Duration) ClockOption {
	return func(c *Clock) {
		c.offset = offset
	}
}

// NewClock creates a clock backed by time.Now.
func NewClock(opts ...ClockOption) *Clock {
	c := &Clock{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Now returns the current corrected time.
func (c *Clock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now().Add(c.offset)
}

// NowMillis returns the current corrected time as Unix milliseconds.
func (c *Clock) NowMillis() int64 {
	return c.Now().UnixMilli()
}

// Offset returns the active correction offset.
func (c *Clock) Offset() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.offset
}

// SetOffset replaces the correction offset.
func (c *Clock) SetOffset(offset time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offset = offset
}
