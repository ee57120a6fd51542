// Package notify keeps short-lived user notifications. Each notification
// fades in after a short delay, stays for a fixed lifetime, fades out and is
// removed. Notifications are independent of each other and unbounded in
// number.
package notify

import (
	"sync"
	"time"
)

// Kind distinguishes success from error notifications.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Phase is where a notification is in its lifecycle.
type Phase int

const (
	// PhaseEntering: inserted, entrance transition not started yet.
	PhaseEntering Phase = iota
	PhaseVisible
	// PhaseLeaving: exit transition running.
	PhaseLeaving
	PhaseRemoved
)

func (p Phase) String() string {
	switch p {
	case PhaseEntering:
		return "entering"
	case PhaseVisible:
		return "visible"
	case PhaseLeaving:
		return "leaving"
	default:
		return "removed"
	}
}

// Timing controls the lifecycle durations.
type Timing struct {
	EnterDelay   time.Duration
	Lifetime     time.Duration
	ExitDuration time.Duration
}

// DefaultTiming matches the page the notifications were designed for: slide
// in after 100ms, start leaving 5s after insertion, gone 300ms later.
func DefaultTiming() Timing {
	return Timing{
		EnterDelay:   100 * time.Millisecond,
		Lifetime:     5 * time.Second,
		ExitDuration: 300 * time.Millisecond,
	}
}

// PhaseAt reports the phase of a notification created at created, observed at
// now.
func (t Timing) PhaseAt(created, now time.Time) Phase {
	elapsed := now.Sub(created)
	switch {
	case elapsed < t.EnterDelay:
		return PhaseEntering
	case elapsed < t.Lifetime:
		return PhaseVisible
	case elapsed < t.Lifetime+t.ExitDuration:
		return PhaseLeaving
	default:
		return PhaseRemoved
	}
}

// Notification is a snapshot of one message and its phase.
type Notification struct {
	ID      uint64
	Kind    Kind
	Message string
	Created time.Time
	Phase   Phase
}

// Center holds active notifications. It is safe for concurrent use.
type Center struct {
	mu       sync.Mutex
	timing   Timing
	now      func() time.Time
	sanitize func(string) string
	nextID   uint64
	items    []Notification
	onPush   func(Notification)
}

// Option configures a Center.
type Option func(*Center)

// WithTiming overrides the lifecycle durations.
func WithTiming(timing Timing) Option {
	return func(c *Center) {
		c.timing = timing
	}
}

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Center) {
		if now != nil {
			c.now = now
		}
	}
}

// WithSanitizer replaces the message cleaner. Passing nil keeps messages as
// given.
func WithSanitizer(fn func(string) string) Option {
	return func(c *Center) {
		c.sanitize = fn
	}
}

// WithPushHook registers a callback invoked after every Notify, outside the
// lock. Front ends use it to schedule redraws.
func WithPushHook(fn func(Notification)) Option {
	return func(c *Center) {
		c.onPush = fn
	}
}

// NewCenter constructs a Center with default timing and the plain-text
// sanitizer.
func NewCenter(options ...Option) *Center {
	c := &Center{
		timing:   DefaultTiming(),
		now:      time.Now,
		sanitize: PlainText,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Timing returns the lifecycle durations in use.
func (c *Center) Timing() Timing {
	return c.timing
}

// Notify adds a notification and returns it.
func (c *Center) Notify(kind Kind, message string) Notification {
	if c.sanitize != nil {
		message = c.sanitize(message)
	}

	c.mu.Lock()
	c.nextID++
	n := Notification{
		ID:      c.nextID,
		Kind:    kind,
		Message: message,
		Created: c.now(),
		Phase:   PhaseEntering,
	}
	c.items = append(c.items, n)
	hook := c.onPush
	c.mu.Unlock()

	if hook != nil {
		hook(n)
	}
	return n
}

// Advance recomputes phases at the current time and drops removed
// notifications. It reports whether anything changed.
func (c *Center) Advance() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	changed := false
	kept := c.items[:0]
	for _, n := range c.items {
		phase := c.timing.PhaseAt(n.Created, now)
		if phase != n.Phase {
			changed = true
			n.Phase = phase
		}
		if phase == PhaseRemoved {
			continue
		}
		kept = append(kept, n)
	}
	for i := len(kept); i < len(c.items); i++ {
		c.items[i] = Notification{}
	}
	c.items = kept
	return changed
}

// Active returns every notification not yet removed, oldest first, as of the
// last Advance.
func (c *Center) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Notification(nil), c.items...)
}

// Len reports the number of active notifications.
func (c *Center) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// NextDeadline returns the earliest upcoming phase change.
func (c *Center) NextDeadline() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var (
		next  time.Time
		found bool
	)
	for _, n := range c.items {
		var at time.Time
		switch n.Phase {
		case PhaseEntering:
			at = n.Created.Add(c.timing.EnterDelay)
		case PhaseVisible:
			at = n.Created.Add(c.timing.Lifetime)
		case PhaseLeaving:
			at = n.Created.Add(c.timing.Lifetime + c.timing.ExitDuration)
		default:
			continue
		}
		if !found || at.Before(next) {
			next = at
			found = true
		}
	}
	return next, found
}
