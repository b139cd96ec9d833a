package scorer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPClient talks to the model-server scoring endpoint.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPClient creates a scorer client for the given model server.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type scoreResponse struct {
	StartLogits [][]float64 `json:"start_logits"`
	EndLogits   [][]float64 `json:"end_logits"`
	Error       *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// ScoreBatch posts a batch of windows and returns aligned logits.
func (c *HTTPClient) ScoreBatch(ctx context.Context, in BatchInput) (BatchOutput, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return BatchOutput{}, fmt.Errorf("marshal batch: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/score", bytes.NewReader(body))
	if err != nil {
		return BatchOutput{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return BatchOutput{}, fmt.Errorf("score batch: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 64<<20))
	if err != nil {
		return BatchOutput{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return BatchOutput{}, &RetryableError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return BatchOutput{}, fmt.Errorf("scorer status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var apiResp scoreResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return BatchOutput{}, fmt.Errorf("decode response: %w", err)
	}
	if apiResp.Error != nil {
		return BatchOutput{}, fmt.Errorf("scorer error: %s: %s", apiResp.Error.Type, apiResp.Error.Message)
	}

	out := BatchOutput{StartLogits: apiResp.StartLogits, EndLogits: apiResp.EndLogits}
	if err := out.Validate(in); err != nil {
		return BatchOutput{}, fmt.Errorf("malformed scorer response: %w", err)
	}
	return out, nil
}

// Close releases resources.
func (c *HTTPClient) Close() {
	c.httpClient.CloseIdleConnections()
}
