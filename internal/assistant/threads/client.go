// Package threads implements the assistant port against a
// thread/poll-for-messages shaped HTTP service.
package threads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"diagnostico-backend/internal/assistant"
	"diagnostico-backend/internal/shared/metrics"
	"diagnostico-backend/internal/shared/telemetry"
)

const defaultBaseDelay = 500 * time.Millisecond

// Client talks to the external assistant over HTTP: one run creation
// followed by a poll of the thread's messages. Transient failures are
// retried across endpoint-shape variants with linear backoff.
type Client struct {
	BaseURL     string
	APIKey      string
	Model       string
	HTTPClient  *http.Client
	MaxAttempts int
	BaseDelay   time.Duration
	Variants    []Variant
}

// New constructs a threads client with default retry settings.
func New(baseURL, apiKey, model string) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("ASSISTANT_BASE_URL is required")
	}
	return &Client{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		APIKey:      apiKey,
		Model:       model,
		HTTPClient:  &http.Client{Timeout: 60 * time.Second},
		MaxAttempts: 3,
		BaseDelay:   defaultBaseDelay,
		Variants:    DefaultVariants(),
	}, nil
}

type runRequest struct {
	Model string                    `json:"model"`
	Input assistant.DiagnosticInput `json:"input"`
}

type runResponse struct {
	ThreadID string `json:"thread_id"`
}

type messagesResponse struct {
	Data []struct {
		Role    string `json:"role"`
		Content []struct {
			Type string `json:"type"`
			Text struct {
				Value string `json:"value"`
			} `json:"text"`
		} `json:"content"`
	} `json:"data"`
}

// GenerateProposals issues one logical generation. The run is created
// once; message polling is retried for up to MaxAttempts total, each
// attempt using the next endpoint-shape variant, sleeping
// attempt*BaseDelay between attempts. 4xx responses and unparseable
// output are fatal and never retried.
func (c *Client) GenerateProposals(ctx context.Context, input assistant.DiagnosticInput) ([]assistant.Proposal, error) {
	attempts := c.MaxAttempts
	if attempts <= 0 {
		attempts = 3
	}
	delay := c.BaseDelay
	if delay <= 0 {
		delay = defaultBaseDelay
	}
	variants := c.Variants
	if len(variants) == 0 {
		variants = DefaultVariants()
	}

	var threadID string
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			metrics.IncAssistantRetries()
			wait := time.Duration(attempt-1) * delay
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if threadID == "" {
			id, err := c.createRun(ctx, input)
			if err != nil {
				if !assistant.IsRetriable(err) {
					return nil, err
				}
				lastErr = err
				continue
			}
			threadID = id
		}

		variant := variants[(attempt-1)%len(variants)]
		raw, err := c.fetchLatestMessage(ctx, threadID, variant)
		if err != nil {
			if !assistant.IsRetriable(err) {
				return nil, err
			}
			telemetry.Warn("assistant.poll_retry", map[string]any{
				"attempt": attempt,
				"variant": variant.Name,
				"error":   err.Error(),
			})
			lastErr = err
			continue
		}
		return assistant.ExtractProposals(raw)
	}
	return nil, &assistant.TransientError{Attempts: attempts, Err: lastErr}
}

func (c *Client) createRun(ctx context.Context, input assistant.DiagnosticInput) (string, error) {
	payload, err := json.Marshal(runRequest{Model: c.Model, Input: input})
	if err != nil {
		return "", err
	}
	body, err := c.do(ctx, http.MethodPost, c.BaseURL+"/assistant/runs", payload)
	if err != nil {
		return "", err
	}
	var parsed runResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &assistant.MalformedResponseError{Raw: string(body), Err: err}
	}
	if strings.TrimSpace(parsed.ThreadID) == "" {
		return "", &assistant.MalformedResponseError{Raw: string(body), Err: fmt.Errorf("missing thread_id")}
	}
	return parsed.ThreadID, nil
}

func (c *Client) fetchLatestMessage(ctx context.Context, threadID string, variant Variant) ([]byte, error) {
	url := variant.BuildURL(c.BaseURL, threadID)
	body, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	var parsed messagesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &assistant.MalformedResponseError{Raw: string(body), Err: err}
	}
	for _, msg := range parsed.Data {
		if msg.Role != "assistant" {
			continue
		}
		for _, content := range msg.Content {
			if content.Type == "text" && strings.TrimSpace(content.Text.Value) != "" {
				return []byte(content.Text.Value), nil
			}
		}
	}
	return nil, &assistant.MalformedResponseError{Raw: string(body), Err: fmt.Errorf("no assistant message in thread")}
}

// do performs one HTTP exchange mapping status codes onto the typed
// error kinds: 2xx ok, 4xx fatal RequestError, everything else (and
// network failures) retriable.
func (c *Client) do(ctx context.Context, method, url string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &assistant.TransientError{Attempts: 1, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &assistant.TransientError{Attempts: 1, Err: err}
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, &assistant.RequestError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	default:
		return nil, &assistant.TransientError{Attempts: 1, Err: fmt.Errorf("http status %d", resp.StatusCode)}
	}
}

var _ assistant.Client = (*Client)(nil)
