// Package t5 talks to a self-hosted text2text inference server running a
// grammar-correction model (t5-base-grammar-correction or compatible).
package t5

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// taskPrefix is the instruction prefix the model was fine-tuned on.
const taskPrefix = "grammar: "

// Client is an implementation of the CorrectionEngine interface backed by an
// HTTP inference endpoint
type Client struct {
	endpoint   string
	apiKey     string
	numBeams   int
	minLength  int
	httpClient *http.Client
	logger     *zap.Logger
}

// generateRequest is the inference request payload
type generateRequest struct {
	Inputs     string         `json:"inputs"`
	Parameters generateParams `json:"parameters"`
}

// generateParams tunes generation for quality over latency: wide beam
// search, minimum one output token, no hard maximum.
type generateParams struct {
	NumBeams  int `json:"num_beams"`
	MinLength int `json:"min_length"`
}

// generateResponse is the inference response payload
type generateResponse []struct {
	GeneratedText string `json:"generated_text"`
}

// NewClient creates a new correction engine client
func NewClient(endpoint, apiKey string, numBeams, minLength int, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		numBeams:   numBeams,
		minLength:  minLength,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Generate produces a corrected version of the given text fragment
func (c *Client) Generate(ctx context.Context, text string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Inputs: taskPrefix + text,
		Parameters: generateParams{
			NumBeams:  c.numBeams,
			MinLength: c.minLength,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("inference server returned status %d: %s", resp.StatusCode, body)
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result) == 0 {
		return "", fmt.Errorf("empty response from inference server")
	}

	c.logger.Debug("Correction generated",
		zap.Int("input_length", len(text)),
		zap.Int("output_length", len(result[0].GeneratedText)))

	return result[0].GeneratedText, nil
}
