package planner

import (
	"cmp"
	"slices"
	"time"
)

const secondsPerDay = 24 * 60 * 60

// Allocate distributes topics over the days from startDate up to and including
// examDate. Only the calendar date of each argument is used.
//
// Topics are ordered by score descending, ties keeping input order, then cut into
// buckets of ceil(n/days) and assigned to consecutive days. Trailing empty days
// are not emitted. When examDate is not after startDate every topic lands on
// startDate in input order. An empty topic list always yields an empty plan.
func Allocate(topics []Topic, examDate, startDate time.Time) []Allocation {
	allocs := []Allocation{}
	if len(topics) == 0 {
		return allocs
	}

	start := dateOf(startDate)
	days := AvailableDays(examDate, startDate)
	if days == 0 {
		ids := make([]string, len(topics))
		for i, t := range topics {
			ids[i] = t.ID
		}
		return append(allocs, Allocation{Date: start, Topics: ids})
	}

	sorted := slices.Clone(topics)
	slices.SortStableFunc(sorted, func(a, b Topic) int {
		return cmp.Compare(b.score(), a.score())
	})

	perDay := (len(sorted) + days - 1) / days
	next := 0
	for i := 0; i < days && next < len(sorted); i++ {
		end := min(next+perDay, len(sorted))
		ids := make([]string, 0, end-next)
		for _, t := range sorted[next:end] {
			ids = append(ids, t.ID)
		}
		allocs = append(allocs, Allocation{Date: start.AddDate(0, 0, i), Topics: ids})
		next = end
	}
	return allocs
}

// AvailableDays returns the number of study days between startDate and examDate,
// counting the exam day itself. It returns 0 when examDate is not after startDate.
func AvailableDays(examDate, startDate time.Time) int {
	exam, start := dateOf(examDate), dateOf(startDate)
	if !exam.After(start) {
		return 0
	}
	// Both are UTC midnights; time.Duration would saturate past ~292 years.
	diff := int((exam.Unix() - start.Unix()) / secondsPerDay)
	return max(1, diff)
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
