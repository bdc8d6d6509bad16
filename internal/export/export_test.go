package export_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/p-n-ai/pai-planner/internal/export"
	"github.com/p-n-ai/pai-planner/internal/planner"
	"github.com/p-n-ai/pai-planner/internal/progress"
)

func TestWriteXLSX(t *testing.T) {
	day := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	plan := planner.Plan{
		StartDate:     day,
		ExamDate:      day.AddDate(0, 0, 3),
		AvailableDays: 3,
		Allocations: []planner.Allocation{
			{Date: day, Topics: []string{"t1", "t2"}},
			{Date: day.AddDate(0, 0, 1), Topics: []string{"t3"}},
		},
	}
	names := map[string]string{"t1": "Variables", "t3": "Angles"}
	done := map[string]progress.Completion{"t2": {TopicID: "t2"}}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, plan, names, done); err != nil {
		t.Fatalf("WriteXLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(export.PlanSheet)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4 (header + 3 topics)", len(rows))
	}

	want := [][]string{
		{"Day", "Date", "Order", "Topic ID", "Topic", "Done"},
		{"1", "2025-01-01", "1", "t1", "Variables"},
		{"1", "2025-01-01", "2", "t2", "", "yes"},
		{"2", "2025-01-02", "1", "t3", "Angles"},
	}
	for i, w := range want {
		for j, cell := range w {
			if j >= len(rows[i]) || rows[i][j] != cell {
				t.Errorf("row %d = %v, want %v", i, rows[i], w)
				break
			}
		}
	}

	completed, err := f.GetCellValue(export.SummarySheet, "B5")
	if err != nil {
		t.Fatalf("GetCellValue() error = %v", err)
	}
	if completed != "1" {
		t.Errorf("Summary Completed = %q, want 1", completed)
	}
}

func TestWriteXLSX_EmptyPlan(t *testing.T) {
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, planner.Plan{}, nil, nil); err != nil {
		t.Fatalf("WriteXLSX() error = %v", err)
	}
	if buf.Len() == 0 {
		t.Error("WriteXLSX() wrote nothing")
	}
}
