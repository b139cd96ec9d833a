package qa

import (
	"sort"
	"strings"
)

// maxAggregatedAnswers caps the ranked short list per question.
const maxAggregatedAnswers = 3

// Aggregate merges candidates from every window of one question into a
// ranked, deduplicated short list. Overlapping windows emit duplicate
// spans; grouping is by exact normalized text, and within a group the
// candidate with the highest raw score survives (raw score rewards
// logit separation where the sigmoid saturates). Near-duplicates that
// differ by punctuation or a shifted boundary are deliberately not
// merged.
func Aggregate(spans []CandidateSpan) []CandidateSpan {
	if len(spans) == 0 {
		return nil
	}

	// Group by normalized text, preserving first-seen order so ranking
	// ties stay deterministic across runs.
	best := make(map[string]CandidateSpan, len(spans))
	var order []string
	for _, s := range spans {
		key := strings.ToLower(strings.TrimSpace(s.Text))
		cur, seen := best[key]
		if !seen {
			best[key] = s
			order = append(order, key)
			continue
		}
		if s.Score > cur.Score {
			best[key] = s
		}
	}

	out := make([]CandidateSpan, 0, len(order))
	for _, key := range order {
		out = append(out, best[key])
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Confidence > out[b].Confidence
	})

	if len(out) > maxAggregatedAnswers {
		out = out[:maxAggregatedAnswers]
	}
	return out
}
