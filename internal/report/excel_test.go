package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/contractiq/contractiq/internal/contract"
	"github.com/contractiq/contractiq/internal/cuad"
	"github.com/contractiq/contractiq/internal/risk"
)

func sampleAnalysis() *contract.Analysis {
	results := risk.AssessAll(map[cuad.ClauseType]contract.ClauseExtraction{
		cuad.Indemnity: {
			ClauseType: cuad.Indemnity,
			Text:       "Vendor shall indemnify against any and all claims",
			Confidence: 0.81,
			Found:      true,
			Page:       3,
		},
		cuad.GoverningLaw: {
			ClauseType: cuad.GoverningLaw,
			Text:       "governed by the laws of Delaware",
			Confidence: 0.93,
			Found:      true,
			Page:       11,
		},
	})
	score, level := risk.OverallRisk(results)
	return &contract.Analysis{
		DocID:        "doc-42",
		Filename:     "msa.pdf",
		NumPages:     12,
		OverallScore: score,
		OverallLevel: level,
		Clauses:      results,
		Summary:      risk.Summarize(results),
		CreatedAt:    time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestWorkbook_Sheets(t *testing.T) {
	f, err := Workbook(sampleAnalysis())
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	require.ElementsMatch(t, []string{sheetOverview, sheetClauses, sheetHighRisk, sheetMissing}, sheets)
	require.NotContains(t, sheets, "Sheet1")
}

func TestWorkbook_OverviewValues(t *testing.T) {
	a := sampleAnalysis()
	f, err := Workbook(a)
	require.NoError(t, err)
	defer f.Close()

	docID, err := f.GetCellValue(sheetOverview, "B2")
	require.NoError(t, err)
	require.Equal(t, "doc-42", docID)

	filename, err := f.GetCellValue(sheetOverview, "B3")
	require.NoError(t, err)
	require.Equal(t, "msa.pdf", filename)
}

func TestWorkbook_AllClausesRowCount(t *testing.T) {
	f, err := Workbook(sampleAnalysis())
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetClauses)
	require.NoError(t, err)
	// Header plus one row per clause type.
	require.Len(t, rows, cuad.Count+1)
}

func TestWorkbook_HighRiskFiltered(t *testing.T) {
	a := sampleAnalysis()
	f, err := Workbook(a)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetHighRisk)
	require.NoError(t, err)
	require.Equal(t, a.Summary.HighCount+1, len(rows))
	for _, row := range rows[1:] {
		require.Equal(t, string(contract.RiskHigh), row[3])
	}
}

func TestWorkbook_MissingCriticalSheet(t *testing.T) {
	a := sampleAnalysis()
	f, err := Workbook(a)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetMissing)
	require.NoError(t, err)
	// Cap On Liability and Termination For Convenience are absent from
	// the sample; Governing Law was found.
	require.Equal(t, a.Summary.MissingCriticalCount+1, len(rows))
	require.Equal(t, 2, a.Summary.MissingCriticalCount)
}

func TestClauseRow_TruncatesLongText(t *testing.T) {
	long := make([]byte, 600)
	for i := range long {
		long[i] = 'x'
	}
	row := clauseRow(contract.ClauseResult{
		Extraction: contract.ClauseExtraction{
			ClauseType: cuad.Indemnity,
			Text:       string(long),
			Found:      true,
		},
	})
	text := row[len(row)-1].(string)
	require.Len(t, text, 503) // 500 chars plus ellipsis
}
