package planner

import (
	"time"

	"github.com/p-n-ai/pai-planner/internal/platform/clock"
)

// Request is the raw engine input as received from a caller.
type Request struct {
	Topics    []Topic `json:"topics"`
	ExamDate  string  `json:"exam_date"`
	StartDate string  `json:"start_date,omitempty"` // empty means today
}

// Input is a Request after validation, with the start date resolved.
type Input struct {
	Topics    []Topic
	ExamDate  time.Time
	StartDate time.Time
}

// Engine validates requests and builds plans. The clock is only consulted to
// resolve an omitted start date.
type Engine struct {
	clock clock.Clock
}

// NewEngine creates an engine reading "today" from c.
func NewEngine(c clock.Clock) *Engine {
	if c == nil {
		c = clock.Real{}
	}
	return &Engine{clock: c}
}

// Validate parses the request dates and checks every topic.
func (e *Engine) Validate(req Request) (Input, error) {
	exam, err := parseField("exam_date", req.ExamDate)
	if err != nil {
		return Input{}, err
	}

	start := clock.Today(e.clock)
	if req.StartDate != "" {
		start, err = parseField("start_date", req.StartDate)
		if err != nil {
			return Input{}, err
		}
	}

	if err := validateTopics(req.Topics); err != nil {
		return Input{}, err
	}

	return Input{Topics: req.Topics, ExamDate: exam, StartDate: start}, nil
}

// Build allocates a validated input. It cannot fail.
func (e *Engine) Build(in Input) Plan {
	return Plan{
		StartDate:     dateOf(in.StartDate),
		ExamDate:      dateOf(in.ExamDate),
		AvailableDays: AvailableDays(in.ExamDate, in.StartDate),
		Allocations:   Allocate(in.Topics, in.ExamDate, in.StartDate),
	}
}

// Generate validates req and builds its plan.
func (e *Engine) Generate(req Request) (Plan, error) {
	in, err := e.Validate(req)
	if err != nil {
		return Plan{}, err
	}
	return e.Build(in), nil
}
