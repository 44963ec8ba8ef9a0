package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPCapability calls an OpenAI-moderation-shaped endpoint:
// POST {url} with {"input": text} returning {"results": [{flagged, categories,
// category_scores}]}.
type HTTPCapability struct {
	url    string
	apiKey string
	model  string
	client *http.Client
}

func NewHTTPCapability(url, apiKey, model string, timeout time.Duration) *HTTPCapability {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPCapability{
		url:    strings.TrimSpace(url),
		apiKey: strings.TrimSpace(apiKey),
		model:  strings.TrimSpace(model),
		client: &http.Client{Timeout: timeout},
	}
}

type moderationRequest struct {
	Input string `json:"input"`
	Model string `json:"model,omitempty"`
}

type moderationResponse struct {
	Results []Result `json:"results"`
}

func (c *HTTPCapability) Moderate(ctx context.Context, text string) (Result, error) {
	payload, err := json.Marshal(moderationRequest{Input: text, Model: c.model})
	if err != nil {
		return Result{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return Result{}, fmt.Errorf("moderation http status %d: %s", res.StatusCode, string(body))
	}

	var decoded moderationResponse
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return Result{}, fmt.Errorf("decode response: %w", err)
	}
	if len(decoded.Results) == 0 {
		return Result{}, fmt.Errorf("moderation response carried no results")
	}
	return decoded.Results[0], nil
}
