package risk

import (
	"math"
	"strings"

	"github.com/contractiq/contractiq/internal/contract"
	"github.com/contractiq/contractiq/internal/cuad"
)

// Level thresholds shared by per-clause and contract-level scoring.
const (
	highThreshold   = 60
	mediumThreshold = 30
)

// Missing-clause constants.
const (
	missingCriticalScore = 85
)

// confidence below this on a high-risk clause requires human review.
const reviewConfidence = 0.6

// AssessClause scores one clause deterministically. The extraction
// confidence never scales the risk — a genuinely dangerous clause must
// not be discounted just because extraction was uncertain; it only
// gates the human-verification flag.
func AssessClause(ct cuad.ClauseType, extractedText string, confidence float64) contract.RiskAssessment {
	if strings.TrimSpace(extractedText) == "" {
		return assessMissing(ct)
	}

	final := round2(baseRisk(ct, extractedText) * Importance(ct))

	flag := contract.FlagNone
	if confidence < reviewConfidence && final >= highThreshold {
		flag = contract.FlagNeedsReview
	}

	return contract.RiskAssessment{
		ClauseType: ct,
		Score:      final,
		Level:      LevelFor(final),
		Flag:       flag,
	}
}

// assessMissing scores an absent clause: critical clauses missing from
// a contract are a high risk in themselves, everything else is simply
// not found.
func assessMissing(ct cuad.ClauseType) contract.RiskAssessment {
	if IsCritical(ct) {
		return contract.RiskAssessment{
			ClauseType: ct,
			Score:      missingCriticalScore,
			Level:      contract.RiskHigh,
			Flag:       contract.FlagMissingCritical,
		}
	}
	return contract.RiskAssessment{
		ClauseType: ct,
		Score:      0,
		Level:      contract.RiskNotFound,
		Flag:       contract.FlagNone,
	}
}

// AssessAll scores every extraction and pairs it with its assessment,
// preserving the fixed clause order.
func AssessAll(extractions map[cuad.ClauseType]contract.ClauseExtraction) []contract.ClauseResult {
	results := make([]contract.ClauseResult, 0, len(cuad.All))
	for _, ct := range cuad.All {
		ex, ok := extractions[ct]
		if !ok {
			ex = contract.ClauseExtraction{ClauseType: ct}
		}
		results = append(results, contract.ClauseResult{
			Extraction: ex,
			Risk:       AssessClause(ct, ex.Text, ex.Confidence),
		})
	}
	return results
}

// LevelFor classifies a score on the shared 60/30 thresholds.
func LevelFor(score float64) contract.RiskLevel {
	switch {
	case score >= highThreshold:
		return contract.RiskHigh
	case score >= mediumThreshold:
		return contract.RiskMedium
	default:
		return contract.RiskLow
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
