// Package clock provides the time source injected into planning code.
// Only cmd/ wires the real clock; everything below takes a Clock.
package clock

import "time"

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// Real returns the system time in a fixed location.
type Real struct {
	Location *time.Location
}

// Now returns time.Now in the configured location (UTC when unset).
func (c Real) Now() time.Time {
	if c.Location == nil {
		return time.Now().UTC()
	}
	return time.Now().In(c.Location)
}

// Fixed always returns the same instant.
type Fixed struct {
	T time.Time
}

// Now returns the fixed time.
func (c Fixed) Now() time.Time {
	return c.T
}

// Func adapts a function to Clock.
type Func func() time.Time

// Now calls f.
func (f Func) Now() time.Time {
	return f()
}

// Today returns midnight UTC of the calendar date c.Now() falls on in its own location.
func Today(c Clock) time.Time {
	now := c.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
