package progress_test

import (
	"testing"
	"time"

	"github.com/p-n-ai/pai-planner/internal/planner"
	"github.com/p-n-ai/pai-planner/internal/progress"
)

func TestSummarize(t *testing.T) {
	day1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	plan := []planner.Allocation{
		{Date: day1, Topics: []string{"t1", "t2"}},
		{Date: day1.AddDate(0, 0, 1), Topics: []string{"t3", "t4"}},
		{Date: day1.AddDate(0, 0, 2), Topics: []string{"t5"}},
	}
	done := map[string]progress.Completion{
		"t1":    {TopicID: "t1"},
		"t4":    {TopicID: "t4"},
		"other": {TopicID: "other"},
	}

	s := progress.Summarize(plan, done)

	if s.Total != 5 || s.Done != 2 {
		t.Errorf("Total/Done = %d/%d, want 5/2", s.Total, s.Done)
	}
	wantDone := []int{1, 1, 0}
	for i, d := range s.Days {
		if d.Done != wantDone[i] {
			t.Errorf("Days[%d].Done = %d, want %d", i, d.Done, wantDone[i])
		}
		if !d.Date.Equal(plan[i].Date) {
			t.Errorf("Days[%d].Date = %v, want %v", i, d.Date, plan[i].Date)
		}
	}
	if got := s.Ratio(); got != 0.4 {
		t.Errorf("Ratio() = %v, want 0.4", got)
	}
}

func TestSummarize_EmptyPlan(t *testing.T) {
	s := progress.Summarize(nil, map[string]progress.Completion{"x": {}})
	if s.Total != 0 || s.Ratio() != 0 {
		t.Errorf("Summarize(nil) = %+v, want zero", s)
	}
}
