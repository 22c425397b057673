// Package chat implements the assistant port over one-shot chat
// completions using the OpenAI SDK.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"diagnostico-backend/internal/assistant"
)

const systemPrompt = `You are a business diagnostic analyst. Given company data, produce up to 3 improvement project proposals.
Respond with a single JSON object: {"propuestas":[{"nombre":"...","resumen":"...","descripcion":"..."}]}.`

type completionAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client generates proposals with a single chat completion call.
type Client struct {
	api   completionAPI
	model string
}

// New constructs a chat client.
func New(apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("ASSISTANT_API_KEY is required for chat provider")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("ASSISTANT_MODEL is required for chat provider")
	}
	return &Client{api: openai.NewClient(apiKey), model: model}, nil
}

// GenerateProposals sends one completion request and normalizes the
// output. API errors are mapped onto the gateway's typed kinds so the
// caller's handling is provider-independent.
func (c *Client) GenerateProposals(ctx context.Context, input assistant.DiagnosticInput) ([]assistant.Proposal, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt(input)},
		},
	})
	if err != nil {
		return nil, mapError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, &assistant.MalformedResponseError{Err: fmt.Errorf("completion missing choices")}
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return nil, &assistant.MalformedResponseError{Err: fmt.Errorf("completion empty content")}
	}
	return assistant.ExtractProposals([]byte(content))
}

func userPrompt(input assistant.DiagnosticInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Company: %s\nIndustry: %s\nObjective: %s\n", input.CompanyName, input.Industry, input.Objective)
	if len(input.Categories) > 0 {
		fmt.Fprintf(&b, "Categories: %s\n", strings.Join(input.Categories, ", "))
	}
	if len(input.Answers) > 0 {
		answers, _ := json.Marshal(input.Answers)
		fmt.Fprintf(&b, "Questionnaire answers: %s\n", answers)
	}
	return b.String()
}

func mapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode >= 400 && apiErr.HTTPStatusCode < 500 && apiErr.HTTPStatusCode != 429 {
			return &assistant.RequestError{Status: apiErr.HTTPStatusCode, Body: apiErr.Message}
		}
		return &assistant.TransientError{Attempts: 1, Err: err}
	}
	return &assistant.TransientError{Attempts: 1, Err: err}
}

var _ assistant.Client = (*Client)(nil)
