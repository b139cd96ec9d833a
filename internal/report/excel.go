// Package report renders a contract analysis as a multi-sheet Excel
// workbook.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/contractiq/contractiq/internal/contract"
)

const (
	sheetOverview = "Overview"
	sheetClauses  = "All Clauses"
	sheetHighRisk = "High Risk"
	sheetMissing  = "Missing Critical"
)

// Workbook builds the export workbook for one analysis. The caller
// owns the returned file and should Close it after writing.
func Workbook(a *contract.Analysis) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := writeOverview(f, a); err != nil {
		return nil, err
	}
	if err := writeClauses(f, a); err != nil {
		return nil, err
	}
	if err := writeHighRisk(f, a); err != nil {
		return nil, err
	}
	if err := writeMissing(f, a); err != nil {
		return nil, err
	}

	// Replace the default sheet with Overview as the landing sheet.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}
	idx, err := f.GetSheetIndex(sheetOverview)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	return f, nil
}

func writeOverview(f *excelize.File, a *contract.Analysis) error {
	if _, err := f.NewSheet(sheetOverview); err != nil {
		return err
	}
	rows := [][]any{
		{"Field", "Value"},
		{"Document ID", a.DocID},
		{"Filename", a.Filename},
		{"Analysis Date", a.CreatedAt.Format("2006-01-02 15:04:05")},
		{"Number of Pages", a.NumPages},
		{"Overall Risk Score", fmt.Sprintf("%.2f/100", a.OverallScore)},
		{"Risk Level", string(a.OverallLevel)},
		{"High-Risk Clauses", a.Summary.HighCount},
		{"Medium-Risk Clauses", a.Summary.MediumCount},
		{"Low-Risk Clauses", a.Summary.LowCount},
		{"Missing Critical Clauses", a.Summary.MissingCriticalCount},
		{"Total Clauses Analyzed", len(a.Clauses)},
	}
	return writeRows(f, sheetOverview, rows)
}

func writeClauses(f *excelize.File, a *contract.Analysis) error {
	if _, err := f.NewSheet(sheetClauses); err != nil {
		return err
	}
	rows := [][]any{
		{"Clause Type", "Found", "Risk Score", "Risk Level", "Confidence", "Page", "Flag", "Extracted Text"},
	}
	for _, c := range a.Clauses {
		rows = append(rows, clauseRow(c))
	}
	return writeRows(f, sheetClauses, rows)
}

func writeHighRisk(f *excelize.File, a *contract.Analysis) error {
	if _, err := f.NewSheet(sheetHighRisk); err != nil {
		return err
	}
	rows := [][]any{
		{"Clause Type", "Found", "Risk Score", "Risk Level", "Confidence", "Page", "Flag", "Extracted Text"},
	}
	for _, c := range a.Clauses {
		if c.Risk.Level == contract.RiskHigh {
			rows = append(rows, clauseRow(c))
		}
	}
	return writeRows(f, sheetHighRisk, rows)
}

func writeMissing(f *excelize.File, a *contract.Analysis) error {
	if _, err := f.NewSheet(sheetMissing); err != nil {
		return err
	}
	rows := [][]any{
		{"Clause Type", "Risk Score", "Note"},
	}
	for _, c := range a.Clauses {
		if c.Risk.Flag == contract.FlagMissingCritical {
			rows = append(rows, []any{
				string(c.Extraction.ClauseType),
				c.Risk.Score,
				"Critical clause not found in contract",
			})
		}
	}
	return writeRows(f, sheetMissing, rows)
}

func clauseRow(c contract.ClauseResult) []any {
	text := c.Extraction.Text
	if len(text) > 500 {
		text = text[:500] + "..."
	}
	return []any{
		string(c.Extraction.ClauseType),
		c.Extraction.Found,
		c.Risk.Score,
		string(c.Risk.Level),
		c.Extraction.Confidence,
		c.Extraction.Page,
		string(c.Risk.Flag),
		text,
	}
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
