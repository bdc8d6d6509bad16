package progress

import (
	"time"

	"github.com/p-n-ai/pai-planner/internal/planner"
)

// DaySummary is the completion count for one planned day.
type DaySummary struct {
	Date  time.Time
	Total int
	Done  int
}

// Summary reports completion of a plan.
type Summary struct {
	Days  []DaySummary
	Total int
	Done  int
}

// Ratio returns the completed fraction, 0 for an empty plan.
func (s Summary) Ratio() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Done) / float64(s.Total)
}

// Summarize counts completed topics per planned day. Completions for topics not
// in the plan are ignored.
func Summarize(plan []planner.Allocation, done map[string]Completion) Summary {
	var s Summary
	for _, a := range plan {
		d := DaySummary{Date: a.Date, Total: len(a.Topics)}
		for _, id := range a.Topics {
			if _, ok := done[id]; ok {
				d.Done++
			}
		}
		s.Days = append(s.Days, d)
		s.Total += d.Total
		s.Done += d.Done
	}
	return s
}
