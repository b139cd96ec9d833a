package risk

import (
	"github.com/contractiq/contractiq/internal/contract"
)

// Roll-up penalty constants.
const (
	neutralScore           = 50 // when nothing was extracted at all
	missingCriticalPenalty = 10 // per missing critical clause
	multiHighPenalty       = 15 // when the contract has 3+ high-risk clauses
	multiHighCount         = 3
)

// OverallRisk rolls per-clause assessments into one contract score:
// an importance-weighted mean over everything that was assessed, plus
// penalties for missing critical clauses and for clusters of
// high-risk clauses, clamped to 100.
func OverallRisk(results []contract.ClauseResult) (float64, contract.RiskLevel) {
	var (
		weightedSum float64
		totalWeight float64
		highCount   int
		missing     int
	)
	for _, r := range results {
		if r.Risk.Flag == contract.FlagMissingCritical {
			missing++
		}
		if r.Risk.Level == contract.RiskNotFound {
			continue
		}
		w := Importance(r.Risk.ClauseType)
		weightedSum += r.Risk.Score * w
		totalWeight += w
		if r.Risk.Level == contract.RiskHigh {
			highCount++
		}
	}

	base := float64(neutralScore)
	if totalWeight > 0 {
		base = weightedSum / totalWeight
	}

	score := base + float64(missing*missingCriticalPenalty)
	if highCount >= multiHighCount {
		score += multiHighPenalty
	}

	score = round2(score)
	if score > 100 {
		score = 100
	}
	return score, LevelFor(score)
}

// Summarize counts levels and flags across the full assessment set.
func Summarize(results []contract.ClauseResult) contract.RiskSummary {
	var s contract.RiskSummary
	s.TotalClauses = len(results)
	for _, r := range results {
		switch r.Risk.Level {
		case contract.RiskHigh:
			s.HighCount++
		case contract.RiskMedium:
			s.MediumCount++
		case contract.RiskLow:
			s.LowCount++
		}
		if r.Risk.Flag == contract.FlagMissingCritical {
			s.MissingCriticalCount++
		}
		if r.Extraction.Found {
			s.FoundCount++
		}
	}
	return s
}
