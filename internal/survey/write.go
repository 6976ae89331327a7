package survey

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	resultsSheet = "Results"
	summarySheet = "Summary"
)

// WriteXLSX writes plant results and the per-disease summary to a workbook.
func WriteXLSX(path string, results []PlantResult, summary []DiseaseSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeSheet(f, resultsSheet, resultRows(results)); err != nil {
		return err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create %s sheet: %w", summarySheet, err)
	}
	if err := writeSheet(f, summarySheet, summaryRows(summary)); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func resultRows(results []PlantResult) [][]any {
	header := []any{"Plant", "Risk", "Risk level", "Top disease", "Top score (%)", "Top label"}
	if len(results) > 0 {
		for _, s := range results[0].Scores {
			header = append(header, s.RuleID+" "+s.Disease+" (%)")
		}
	}
	rows := [][]any{header}
	for _, p := range results {
		row := []any{p.Plant, round1(p.Risk.Score * 100), p.Risk.Level.Display()}
		if top, ok := p.Top(); ok {
			row = append(row, top.Disease, round1(top.Percent()), top.Label.Display())
		} else {
			row = append(row, "", 0.0, "")
		}
		for _, s := range p.Scores {
			row = append(row, round1(s.Percent()))
		}
		rows = append(rows, row)
	}
	return rows
}

func summaryRows(summary []DiseaseSummary) [][]any {
	rows := [][]any{{"Rule", "Disease", "Confirmed", "Suspected", "Mean (%)", "Median (%)", "Std dev (%)"}}
	for _, s := range summary {
		rows = append(rows, []any{
			s.RuleID, s.Disease, s.Confirmed, s.Suspected,
			round1(s.Mean * 100), round1(s.Median * 100), round1(s.StdDev * 100),
		})
	}
	return rows
}

func writeSheet(f *excelize.File, sheet string, rows [][]any) error {
	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", strings.ToLower(sheet), r+1, err)
		}
	}
	return nil
}

func round1(v float64) float64 {
	return float64(int64(v*10+0.5)) / 10
}
