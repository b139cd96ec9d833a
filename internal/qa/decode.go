package qa

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// maskedLogit replaces logits at non-context positions so the boundary
// search can never select them.
const maskedLogit = -10000

// DecodeConfig controls span decoding.
type DecodeConfig struct {
	NBest           int     // top start/end positions considered
	MaxAnswerLength int     // maximum span length in token positions
	NullThreshold   float64 // minimum score delta over the null answer
	MinAnswerChars  int     // minimum trimmed answer length
}

// DefaultDecodeConfig mirrors the settings the model was tuned with.
func DefaultDecodeConfig() DecodeConfig {
	return DecodeConfig{
		NBest:           5,
		MaxAnswerLength: 200,
		NullThreshold:   0.0,
		MinAnswerChars:  5,
	}
}

// DecodeWindow turns one window's logits into validated candidate
// spans. The leading position conventionally scores the "no answer"
// outcome; every kept span must beat it by more than the null
// threshold. Returns an error only for malformed inputs.
func DecodeWindow(w *Window, logits WindowLogits, text string, cfg DecodeConfig, pages PageLookup) ([]CandidateSpan, error) {
	n := len(w.Offsets)
	if n == 0 || len(w.Roles) != n {
		return nil, fmt.Errorf("window %v: inconsistent offsets/roles", w.Key())
	}
	if len(logits.Start) != n || len(logits.End) != n {
		return nil, fmt.Errorf("window %v: logit length %d/%d does not match window length %d",
			w.Key(), len(logits.Start), len(logits.End), n)
	}
	if cfg.NBest <= 0 {
		cfg.NBest = 5
	}

	// Null score comes from the raw logits before masking.
	nullScore := logits.Start[0] + logits.End[0]

	start := make([]float64, n)
	end := make([]float64, n)
	copy(start, logits.Start)
	copy(end, logits.End)
	for i, role := range w.Roles {
		if role != RoleContext {
			start[i] = maskedLogit
			end[i] = maskedLogit
		}
	}

	startIdx := topIndexes(start, cfg.NBest)
	endIdx := topIndexes(end, cfg.NBest)

	var spans []CandidateSpan
	for _, si := range startIdx {
		for _, ei := range endIdx {
			if ei < si {
				continue
			}
			if !w.Offsets[si].Valid || !w.Offsets[ei].Valid {
				continue
			}
			if ei-si+1 > cfg.MaxAnswerLength {
				continue
			}

			charStart := w.Offsets[si].Start
			charEnd := w.Offsets[ei].End
			if charStart < 0 || charEnd > len(text) || charStart >= charEnd {
				continue
			}
			answer := strings.TrimSpace(text[charStart:charEnd])
			if len(answer) < cfg.MinAnswerChars {
				continue
			}

			spanScore := start[si] + end[ei]
			delta := spanScore - nullScore
			if delta <= cfg.NullThreshold {
				continue
			}

			page := 0
			if pages != nil {
				page = pages(charStart)
			}
			spans = append(spans, CandidateSpan{
				Text:       answer,
				CharStart:  charStart,
				CharEnd:    charEnd,
				Page:       page,
				Score:      spanScore,
				Confidence: sigmoid(delta),
			})
		}
	}
	return spans, nil
}

// topIndexes returns the indexes of the k largest values, descending.
// Ties break toward the lower index for determinism.
func topIndexes(vals []float64, k int) []int {
	idx := make([]int, len(vals))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if vals[idx[a]] != vals[idx[b]] {
			return vals[idx[a]] > vals[idx[b]]
		}
		return idx[a] < idx[b]
	})
	if k > len(idx) {
		k = len(idx)
	}
	return idx[:k]
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
