// Package contract holds the shared result types produced by the
// extraction and risk pipeline.
package contract

import (
	"time"

	"github.com/contractiq/contractiq/internal/cuad"
)

// PageRange maps a half-open character range [Start, End) of the
// document text to a 1-based page number.
type PageRange struct {
	Number int
	Start  int
	End    int
}

// Document is a parsed contract: cleaned flat text plus optional
// page-offset metadata for formats that have pages.
type Document struct {
	Text     string
	NumPages int
	Pages    []PageRange // ordered, non-overlapping; empty when pageless
}

// PageFor returns the 1-based page containing the character offset,
// or 0 when no page information is available.
func (d *Document) PageFor(offset int) int {
	for _, p := range d.Pages {
		if offset >= p.Start && offset < p.End {
			return p.Number
		}
	}
	return 0
}

// ClauseExtraction is the canonical extraction result for one clause
// type. Exactly one exists per clause type per document.
type ClauseExtraction struct {
	ClauseType cuad.ClauseType `json:"clause_type"`
	Text       string          `json:"extracted_text,omitempty"`
	Confidence float64         `json:"confidence"`
	Found      bool            `json:"found"`
	CharStart  int             `json:"char_start,omitempty"`
	CharEnd    int             `json:"char_end,omitempty"`
	Page       int             `json:"page_number,omitempty"`
}

// RiskLevel classifies a risk score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskNotFound RiskLevel = "NOT_FOUND"
)

// ReliabilityFlag marks an assessment that needs human attention.
type ReliabilityFlag string

const (
	FlagNone            ReliabilityFlag = ""
	FlagMissingCritical ReliabilityFlag = "MISSING_CRITICAL"
	FlagNeedsReview     ReliabilityFlag = "REQUIRES_HUMAN_VERIFICATION"
)

// RiskAssessment is the deterministic risk outcome for one clause type.
type RiskAssessment struct {
	ClauseType cuad.ClauseType `json:"clause_type"`
	Score      float64         `json:"risk_score"`
	Level      RiskLevel       `json:"risk_level"`
	Flag       ReliabilityFlag `json:"reliability_flag,omitempty"`
}

// ClauseResult pairs an extraction with its risk assessment for
// persistence and reporting.
type ClauseResult struct {
	Extraction ClauseExtraction `json:"extraction"`
	Risk       RiskAssessment   `json:"risk"`
}

// RiskSummary aggregates per-clause levels into contract-wide counts.
type RiskSummary struct {
	HighCount            int `json:"high_risk_count"`
	MediumCount          int `json:"medium_risk_count"`
	LowCount             int `json:"low_risk_count"`
	MissingCriticalCount int `json:"missing_critical_count"`
	FoundCount           int `json:"found_count"`
	TotalClauses         int `json:"total_clauses"`
}

// Analysis is the complete per-document result handed to persistence
// and reporting.
type Analysis struct {
	DocID        string         `json:"doc_id"`
	Filename     string         `json:"filename"`
	NumPages     int            `json:"num_pages"`
	OverallScore float64        `json:"overall_risk_score"`
	OverallLevel RiskLevel      `json:"risk_level"`
	Clauses      []ClauseResult `json:"clauses"`
	Summary      RiskSummary    `json:"summary"`
	CreatedAt    time.Time      `json:"timestamp"`
}
