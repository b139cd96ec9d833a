package scorer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testInput() BatchInput {
	return BatchInput{
		TokenIDs:      [][]int64{{101, 7, 102}, {101, 9, 102}},
		AttentionMask: [][]int64{{1, 1, 1}, {1, 1, 1}},
	}
}

func TestScoreBatch_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/score" {
			t.Errorf("expected path /v1/score, got %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("expected bearer auth, got %q", got)
		}

		var in BatchInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		out := BatchOutput{
			StartLogits: make([][]float64, len(in.TokenIDs)),
			EndLogits:   make([][]float64, len(in.TokenIDs)),
		}
		for i, row := range in.TokenIDs {
			out.StartLogits[i] = make([]float64, len(row))
			out.EndLogits[i] = make([]float64, len(row))
		}
		json.NewEncoder(w).Encode(out)
	}))
	defer ts.Close()

	c := NewHTTPClient(ts.URL, "secret")
	defer c.Close()

	out, err := c.ScoreBatch(context.Background(), testInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.StartLogits) != 2 || len(out.StartLogits[0]) != 3 {
		t.Errorf("unexpected output shape %dx%d", len(out.StartLogits), len(out.StartLogits[0]))
	}
}

func TestScoreBatch_RetryableStatuses(t *testing.T) {
	for _, status := range []int{http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway} {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		c := NewHTTPClient(ts.URL, "")
		_, err := c.ScoreBatch(context.Background(), testInput())
		if !IsRetryable(err) {
			t.Errorf("status %d: expected retryable error, got %v", status, err)
		}
		c.Close()
		ts.Close()
	}
}

func TestScoreBatch_ClientErrorNotRetryable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad batch", http.StatusBadRequest)
	}))
	defer ts.Close()

	c := NewHTTPClient(ts.URL, "")
	defer c.Close()

	_, err := c.ScoreBatch(context.Background(), testInput())
	if err == nil {
		t.Fatal("expected error")
	}
	if IsRetryable(err) {
		t.Errorf("expected 400 to be non-retryable, got %v", err)
	}
}

func TestScoreBatch_ModelErrorPayload(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"type":"oom","message":"batch too large"}}`))
	}))
	defer ts.Close()

	c := NewHTTPClient(ts.URL, "")
	defer c.Close()

	_, err := c.ScoreBatch(context.Background(), testInput())
	if err == nil || IsRetryable(err) {
		t.Errorf("expected non-retryable model error, got %v", err)
	}
}

func TestScoreBatch_ShapeMismatchRejected(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// One row instead of two.
		w.Write([]byte(`{"start_logits":[[0,0,0]],"end_logits":[[0,0,0]]}`))
	}))
	defer ts.Close()

	c := NewHTTPClient(ts.URL, "")
	defer c.Close()

	if _, err := c.ScoreBatch(context.Background(), testInput()); err == nil {
		t.Error("expected error for batch size mismatch")
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(&RetryableError{StatusCode: 503}) {
		t.Error("expected RetryableError to be retryable")
	}
	if IsRetryable(errors.New("plain")) {
		t.Error("expected plain error to be non-retryable")
	}
	if IsRetryable(nil) {
		t.Error("expected nil to be non-retryable")
	}
}

func TestBackoff_GrowsAndCaps(t *testing.T) {
	for attempt := 0; attempt < 10; attempt++ {
		d := Backoff(attempt)
		if d < time.Second {
			t.Errorf("attempt %d: backoff %v below base", attempt, d)
		}
		if d > 45*time.Second {
			t.Errorf("attempt %d: backoff %v above cap+jitter", attempt, d)
		}
	}
}

func TestBatchOutputValidate(t *testing.T) {
	in := testInput()
	good := BatchOutput{
		StartLogits: [][]float64{{0, 0, 0}, {0, 0, 0}},
		EndLogits:   [][]float64{{0, 0, 0}, {0, 0, 0}},
	}
	if err := good.Validate(in); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	raggedRow := BatchOutput{
		StartLogits: [][]float64{{0, 0}, {0, 0, 0}},
		EndLogits:   [][]float64{{0, 0, 0}, {0, 0, 0}},
	}
	if err := raggedRow.Validate(in); err == nil {
		t.Error("expected error for ragged row")
	}
}
