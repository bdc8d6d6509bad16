// Package countdown measures the time left before a deadline and classifies
// how urgent it is.
package countdown

import (
	"time"

	"github.com/p-n-ai/pai-planner/internal/platform/clock"
)

const (
	msPerSecond = int64(time.Second / time.Millisecond)
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
	msPerDay    = 24 * msPerHour
)

// TimeRemaining is a non-negative duration split into calendar-style parts.
// Total is the raw duration in milliseconds.
type TimeRemaining struct {
	Days    int64 `json:"days"`
	Hours   int64 `json:"hours"`
	Minutes int64 `json:"minutes"`
	Seconds int64 `json:"seconds"`
	Total   int64 `json:"total"`
}

// Remaining returns target - now, or all zeros once target has been reached.
func Remaining(target, now time.Time) TimeRemaining {
	total := millisBetween(now, target)
	if total <= 0 {
		return TimeRemaining{}
	}
	return TimeRemaining{
		Days:    total / msPerDay,
		Hours:   total % msPerDay / msPerHour,
		Minutes: total % msPerHour / msPerMinute,
		Seconds: total % msPerMinute / msPerSecond,
		Total:   total,
	}
}

// millisBetween returns to - from in whole milliseconds, truncated toward zero.
// Unlike time.Time.Sub it does not saturate for spans beyond ~292 years.
func millisBetween(from, to time.Time) int64 {
	sec := to.Unix() - from.Unix()
	nsec := int64(to.Nanosecond() - from.Nanosecond())
	switch {
	case sec > 0 && nsec < 0:
		sec--
		nsec += int64(time.Second)
	case sec < 0 && nsec > 0:
		sec++
		nsec -= int64(time.Second)
	}
	return sec*msPerSecond + nsec/int64(time.Millisecond)
}

// FractionalDays returns Total expressed in days.
func (r TimeRemaining) FractionalDays() float64 {
	return float64(r.Total) / float64(msPerDay)
}

// Status is a countdown snapshot.
type Status struct {
	TimeRemaining
	Tier Tier `json:"tier"`
}

// Evaluate measures the time to target and classifies it.
func Evaluate(target, now time.Time) Status {
	r := Remaining(target, now)
	return Status{TimeRemaining: r, Tier: Classify(r.FractionalDays(), r.Total)}
}

// Deadline returns the instant a calendar date begins in loc.
func Deadline(date time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
}

// Classifier evaluates calendar-date deadlines against an injected clock.
type Classifier struct {
	clock clock.Clock
}

// NewClassifier creates a classifier reading the current time from c.
func NewClassifier(c clock.Clock) *Classifier {
	if c == nil {
		c = clock.Real{}
	}
	return &Classifier{clock: c}
}

// Status evaluates the deadline at the start of date, in the clock's location.
func (c *Classifier) Status(date time.Time) Status {
	now := c.clock.Now()
	return Evaluate(Deadline(date, now.Location()), now)
}
