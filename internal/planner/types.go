// Package planner turns a weighted list of study topics and an exam date into a
// day-by-day study plan.
package planner

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the wire format of every calendar date the planner reads or writes.
const DateLayout = time.DateOnly

const (
	minWeight = 1
	maxWeight = 5
)

// Topic is a unit of study material. The engine reads and reorders topics but
// never mutates them.
type Topic struct {
	ID               string `json:"id"`
	DifficultyWeight int    `json:"difficulty_weight"`
	ExamImportance   int    `json:"exam_importance"`
}

// score is the sort key: difficulty x importance.
func (t Topic) score() int {
	return t.DifficultyWeight * t.ExamImportance
}

// Allocation is one study day and the topic IDs scheduled on it, in priority order.
type Allocation struct {
	Date   time.Time
	Topics []string
}

type allocationJSON struct {
	Date   string   `json:"date"`
	Topics []string `json:"topics"`
}

// MarshalJSON writes the date as YYYY-MM-DD.
func (a Allocation) MarshalJSON() ([]byte, error) {
	topics := a.Topics
	if topics == nil {
		topics = []string{}
	}
	return json.Marshal(allocationJSON{Date: a.Date.Format(DateLayout), Topics: topics})
}

// UnmarshalJSON reads a YYYY-MM-DD date.
func (a *Allocation) UnmarshalJSON(data []byte) error {
	var raw allocationJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d, err := ParseDate(raw.Date)
	if err != nil {
		return fmt.Errorf("allocation: %w", err)
	}
	a.Date = d
	a.Topics = raw.Topics
	return nil
}

// Plan is the result of one engine invocation.
//
// AvailableDays is zero when the exam is on or before the start date and every
// topic has been placed on the start date.
type Plan struct {
	StartDate     time.Time
	ExamDate      time.Time
	AvailableDays int
	Allocations   []Allocation
}

type planJSON struct {
	StartDate     string       `json:"start_date"`
	ExamDate      string       `json:"exam_date"`
	AvailableDays int          `json:"available_days"`
	Allocations   []Allocation `json:"allocations"`
}

func (p Plan) MarshalJSON() ([]byte, error) {
	allocs := p.Allocations
	if allocs == nil {
		allocs = []Allocation{}
	}
	return json.Marshal(planJSON{
		StartDate:     p.StartDate.Format(DateLayout),
		ExamDate:      p.ExamDate.Format(DateLayout),
		AvailableDays: p.AvailableDays,
		Allocations:   allocs,
	})
}

func (p *Plan) UnmarshalJSON(data []byte) error {
	var raw planJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	start, err := parseField("start_date", raw.StartDate)
	if err != nil {
		return err
	}
	exam, err := parseField("exam_date", raw.ExamDate)
	if err != nil {
		return err
	}
	*p = Plan{
		StartDate:     start,
		ExamDate:      exam,
		AvailableDays: raw.AvailableDays,
		Allocations:   raw.Allocations,
	}
	return nil
}

// TopicIDs returns every scheduled topic ID in plan order.
func (p Plan) TopicIDs() []string {
	var ids []string
	for _, a := range p.Allocations {
		ids = append(ids, a.Topics...)
	}
	return ids
}
