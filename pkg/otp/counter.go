package otp

import "time"

// Counter maps instants to TOTP step indices for a fixed time step.
// The zero value is not useful; construct with NewCounter.
type Counter struct {
	step time.Duration
}

// NewCounter creates a counter with the given time step. Non-positive steps
// fall back to the RFC 6238 default of 30 seconds.
func NewCounter(step time.Duration) Counter {
	if step <= 0 {
		step = DefaultPeriod * time.Second
	}
	return Counter{step: step}
}

// TimeStep returns the counter's time step.
func (c Counter) TimeStep() time.Duration {
	return c.step
}

// ValueAt returns the step index containing t: floor(millis / step).
func (c Counter) ValueAt(t time.Time) uint64 {
	return uint64(floorDiv(t.UnixMilli(), c.step.Milliseconds()))
}

// UntilNext returns how long after t the step index changes next.
func (c Counter) UntilNext(t time.Time) time.Duration {
	stepMillis := c.step.Milliseconds()
	remainder := floorMod(t.UnixMilli(), stepMillis)
	return time.Duration(stepMillis-remainder) * time.Millisecond
}

// floorDiv is integer division rounding toward negative infinity, so step
// indices stay monotonic across the Unix epoch.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	m := a % b
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}
