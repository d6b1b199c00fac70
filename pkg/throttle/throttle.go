package throttle

import (
	"sync"
	"time"
)

const (
	// DefaultMinInterval is the minimum wall-clock time between two HOTP
	// generations for one account.
	DefaultMinInterval = 5 * time.Second
	// DefaultDisplayTimeout is how long a generated code stays visible.
	DefaultDisplayTimeout = 2 * time.Minute
)

// State is a position in the per-account visibility state machine.
type State string

const (
	StateIdle           State = "idle"
	StateCooling        State = "cooling"
	StateVisible        State = "visible"
	StateCoolingVisible State = "cooling_visible"
)

// event triggers state transitions.
type event string

const (
	eventGenerate        event = "generate"
	eventCooldownElapsed event = "cooldown_elapsed"
	eventDisplayExpired  event = "display_expired"
)

// entry is the per-account machine state. generatedAt retains the monotonic
// clock reading of the originating time.Time, which is what makes the
// deltas jump-proof.
type entry struct {
	state       State
	code        string
	generatedAt time.Time
}

// guard decides whether a transition may fire at the given instant.
type guard func(c *Controller, e *entry, now time.Time) bool

// transition is one edge of the state machine. The first transition whose
// guard passes wins, which gives the coalescing edge priority over the
// plain one.
type transition struct {
	from  State
	event event
	to    State
	guard guard
}

func cooldownElapsed(c *Controller, e *entry, now time.Time) bool {
	return now.Sub(e.generatedAt) >= c.minInterval
}

func displayExpired(c *Controller, e *entry, now time.Time) bool {
	return now.Sub(e.generatedAt) >= c.displayTimeout
}

func stillCooling(c *Controller, e *entry, now time.Time) bool {
	return !cooldownElapsed(c, e, now)
}

var transitions = []transition{
	{StateIdle, eventGenerate, StateCoolingVisible, nil},
	// A visible code may be regenerated once the cooldown has passed.
	{StateVisible, eventGenerate, StateCoolingVisible, nil},
	{StateCoolingVisible, eventCooldownElapsed, StateVisible, cooldownElapsed},
	{StateCoolingVisible, eventDisplayExpired, StateCooling, func(c *Controller, e *entry, now time.Time) bool {
		return displayExpired(c, e, now) && stillCooling(c, e, now)
	}},
	// Display timeout longer than the cooldown is the normal configuration,
	// but if both have elapsed the two expiries coalesce straight to Idle.
	{StateCoolingVisible, eventDisplayExpired, StateIdle, func(c *Controller, e *entry, now time.Time) bool {
		return displayExpired(c, e, now) && cooldownElapsed(c, e, now)
	}},
	{StateCooling, eventCooldownElapsed, StateIdle, cooldownElapsed},
	{StateVisible, eventDisplayExpired, StateIdle, displayExpired},
}

// Controller gates HOTP generation per account. It is safe for concurrent
// use.
type Controller struct {
	mu             sync.Mutex
	minInterval    time.Duration
	displayTimeout time.Duration
	entries        map[string]*entry
}

// Option configures a Controller.
type Option func(*Controller)

// WithMinInterval overrides the cooldown between generations.
func WithMinInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.minInterval = d
		}
	}
}

// WithDisplayTimeout overrides how long a code stays visible.
func WithDisplayTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.displayTimeout = d
		}
	}
}

// NewController creates a controller with the standard 5-second cooldown and
// 2-minute display timeout.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		minInterval:    DefaultMinInterval,
		displayTimeout: DefaultDisplayTimeout,
		entries:        make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// fireLocked applies the first matching transition for the event, reporting
// whether any fired.
func (c *Controller) fireLocked(e *entry, ev event, now time.Time) bool {
	for _, t := range transitions {
		if t.from != e.state || t.event != ev {
			continue
		}
		if t.guard != nil && !t.guard(c, e, now) {
			continue
		}
		e.state = t.to
		return true
	}
	return false
}

// advanceLocked drives the time-based events to a fixpoint for one entry.
func (c *Controller) advanceLocked(e *entry, now time.Time) {
	for {
		fired := c.fireLocked(e, eventCooldownElapsed, now) ||
			c.fireLocked(e, eventDisplayExpired, now)
		if !fired {
			break
		}
		// The code is cleared exactly when visibility ends. The armed code
		// always equals the displayed one here because a second generation
		// is rejected until the machine has left the cooling states.
		if e.state == StateIdle || e.state == StateCooling {
			e.code = ""
		}
	}
}

// Allowed reports whether a generate event would currently be accepted for
// the account.
func (c *Controller) Allowed(name string, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[name]
	if !ok {
		return true
	}
	c.advanceLocked(e, now)
	return e.state == StateIdle || e.state == StateVisible
}

// NoteGenerated records a successful generation: the account enters
// CoolingVisible with the given code. It returns false, without touching
// the state, when the account is still cooling.
func (c *Controller) NoteGenerated(name, code string, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[name]
	if !ok {
		e = &entry{state: StateIdle}
		c.entries[name] = e
	}
	c.advanceLocked(e, now)

	if !c.fireLocked(e, eventGenerate, now) {
		return false
	}
	e.code = code
	e.generatedAt = now
	return true
}

// Snapshot reports the account's current visibility state. The entry is
// advanced first, so hosts that never call Tick still observe correct
// state.
func (c *Controller) Snapshot(name string, now time.Time) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[name]
	if !ok {
		return Snapshot{State: StateIdle, Allowed: true}
	}
	c.advanceLocked(e, now)

	s := Snapshot{
		State:   e.state,
		Code:    e.code,
		Allowed: e.state == StateIdle || e.state == StateVisible,
	}
	if e.state == StateCooling || e.state == StateCoolingVisible {
		s.CooldownRemaining = c.minInterval - now.Sub(e.generatedAt)
	}
	if e.state == StateVisible || e.state == StateCoolingVisible {
		s.VisibleRemaining = c.displayTimeout - now.Sub(e.generatedAt)
	}
	return s
}

// Snapshot is the externally visible state of one account's gate. An empty
// Code means the host should show its placeholder.
type Snapshot struct {
	State             State
	Code              string
	Allowed           bool
	CooldownRemaining time.Duration
	VisibleRemaining  time.Duration
}

// Tick advances every account's machine to the given instant.
func (c *Controller) Tick(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		c.advanceLocked(e, now)
	}
}

// Forget drops one account's state, typically after the account is deleted.
func (c *Controller) Forget(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, name)
}

// Reset drops all per-account state. Nothing scheduled before the reset has
// any effect afterwards; the owner calls this on shutdown or when the
// account list is replaced wholesale.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
}
