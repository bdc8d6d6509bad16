package planner

import (
	"fmt"
	"time"
)

// InvalidDateError reports a date that is not a YYYY-MM-DD calendar date.
type InvalidDateError struct {
	Field string
	Value string
	Err   error
}

func (e *InvalidDateError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid date %q: want YYYY-MM-DD", e.Value)
	}
	return fmt.Sprintf("invalid %s %q: want YYYY-MM-DD", e.Field, e.Value)
}

func (e *InvalidDateError) Unwrap() error {
	return e.Err
}

// InvalidTopicError reports a topic the engine refuses to schedule.
type InvalidTopicError struct {
	ID     string
	Reason string
}

func (e *InvalidTopicError) Error() string {
	return fmt.Sprintf("invalid topic %q: %s", e.ID, e.Reason)
}

// ParseDate parses a YYYY-MM-DD calendar date to midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return parseField("", s)
}

func parseField(field, value string) (time.Time, error) {
	d, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, &InvalidDateError{Field: field, Value: value, Err: err}
	}
	return d, nil
}

func validateTopics(topics []Topic) error {
	seen := make(map[string]struct{}, len(topics))
	for _, t := range topics {
		if t.ID == "" {
			return &InvalidTopicError{Reason: "id is required"}
		}
		if _, dup := seen[t.ID]; dup {
			return &InvalidTopicError{ID: t.ID, Reason: "duplicate id"}
		}
		seen[t.ID] = struct{}{}

		if t.DifficultyWeight < minWeight || t.DifficultyWeight > maxWeight {
			return &InvalidTopicError{ID: t.ID, Reason: fmt.Sprintf("difficulty_weight %d out of range %d-%d", t.DifficultyWeight, minWeight, maxWeight)}
		}
		if t.ExamImportance < minWeight || t.ExamImportance > maxWeight {
			return &InvalidTopicError{ID: t.ID, Reason: fmt.Sprintf("exam_importance %d out of range %d-%d", t.ExamImportance, minWeight, maxWeight)}
		}
	}
	return nil
}
