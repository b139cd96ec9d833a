// Package scorer abstracts the question-answering model behind a pure
// batch-in, logits-out capability. The model itself runs out of
// process; nothing downstream depends on its representation.
package scorer

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// BatchInput is one scoring request: parallel [batch][seq] arrays of
// token ids and attention masks. All rows have the same length.
type BatchInput struct {
	TokenIDs      [][]int64 `json:"token_ids"`
	AttentionMask [][]int64 `json:"attention_mask"`
}

// BatchOutput carries start/end logits of shape [batch][seq], aligned
// row-for-row with the input.
type BatchOutput struct {
	StartLogits [][]float64 `json:"start_logits"`
	EndLogits   [][]float64 `json:"end_logits"`
}

// Scorer scores a batch of token windows.
type Scorer interface {
	ScoreBatch(ctx context.Context, in BatchInput) (BatchOutput, error)
}

// RetryableError indicates a transient scorer failure worth retrying.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable scorer error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *RetryableError
	return errors.As(err, &retryErr)
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}

const MaxRetries = 3

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Validate checks that an output is shaped consistently with its input.
func (o BatchOutput) Validate(in BatchInput) error {
	if len(o.StartLogits) != len(in.TokenIDs) || len(o.EndLogits) != len(in.TokenIDs) {
		return fmt.Errorf("logit batch size %d/%d does not match input %d",
			len(o.StartLogits), len(o.EndLogits), len(in.TokenIDs))
	}
	for i := range o.StartLogits {
		if len(o.StartLogits[i]) != len(in.TokenIDs[i]) || len(o.EndLogits[i]) != len(in.TokenIDs[i]) {
			return fmt.Errorf("logit row %d length %d/%d does not match window length %d",
				i, len(o.StartLogits[i]), len(o.EndLogits[i]), len(in.TokenIDs[i]))
		}
	}
	return nil
}
