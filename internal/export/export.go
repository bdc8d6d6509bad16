// Package export renders study plans as spreadsheets.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/p-n-ai/pai-planner/internal/planner"
	"github.com/p-n-ai/pai-planner/internal/progress"
)

const (
	PlanSheet    = "Plan"
	SummarySheet = "Summary"
)

// ContentType is the MIME type of WriteXLSX output.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var planHeader = []any{"Day", "Date", "Order", "Topic ID", "Topic", "Done"}

// WriteXLSX writes plan as a workbook with one row per scheduled topic. names maps
// topic IDs to display names; done marks completed topics. Both may be nil.
func WriteXLSX(w io.Writer, plan planner.Plan, names map[string]string, done map[string]progress.Completion) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", PlanSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writePlanSheet(f, plan, names, done); err != nil {
		return err
	}
	if err := writeSummarySheet(f, plan, done); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writePlanSheet(f *excelize.File, plan planner.Plan, names map[string]string, done map[string]progress.Completion) error {
	if err := f.SetSheetRow(PlanSheet, "A1", &planHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	if err := f.SetRowStyle(PlanSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	row := 2
	for day, a := range plan.Allocations {
		for order, id := range a.Topics {
			mark := ""
			if _, ok := done[id]; ok {
				mark = "yes"
			}
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return err
			}
			values := []any{day + 1, a.Date.Format(planner.DateLayout), order + 1, id, names[id], mark}
			if err := f.SetSheetRow(PlanSheet, cell, &values); err != nil {
				return fmt.Errorf("write row %d: %w", row, err)
			}
			row++
		}
	}

	if err := f.SetColWidth(PlanSheet, "B", "B", 12); err != nil {
		return err
	}
	if err := f.SetColWidth(PlanSheet, "E", "E", 40); err != nil {
		return err
	}
	return f.SetPanes(PlanSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func writeSummarySheet(f *excelize.File, plan planner.Plan, done map[string]progress.Completion) error {
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	s := progress.Summarize(plan.Allocations, done)
	rows := [][]any{
		{"Start date", plan.StartDate.Format(planner.DateLayout)},
		{"Exam date", plan.ExamDate.Format(planner.DateLayout)},
		{"Available days", plan.AvailableDays},
		{"Topics", s.Total},
		{"Completed", s.Done},
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &r); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	return nil
}
