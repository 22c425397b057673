package chat

import (
	"context"
	"errors"
	"net/http"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"diagnostico-backend/internal/assistant"
)

type fakeCompletions struct {
	content string
	err     error
	lastReq openai.ChatCompletionRequest
}

func (f *fakeCompletions) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.content}},
		},
	}, nil
}

func TestGenerateProposalsParsesCompletion(t *testing.T) {
	fake := &fakeCompletions{content: `{"propuestas":[{"nombre":"N","resumen":"R"}]}`}
	client := &Client{api: fake, model: "gpt-4o-mini"}

	got, err := client.GenerateProposals(context.Background(), assistant.DiagnosticInput{
		CompanyName: "Acme",
		Industry:    "retail",
	})
	if err != nil {
		t.Fatalf("GenerateProposals: %v", err)
	}
	if len(got) != 1 || got[0].Name != "N" {
		t.Fatalf("unexpected proposals: %+v", got)
	}
	if fake.lastReq.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q", fake.lastReq.Model)
	}
	if fake.lastReq.ResponseFormat == nil || fake.lastReq.ResponseFormat.Type != openai.ChatCompletionResponseFormatTypeJSONObject {
		t.Error("expected JSON object response format")
	}
}

func TestGenerateProposalsMapsAPIErrors(t *testing.T) {
	cases := []struct {
		name      string
		status    int
		wantFatal bool
	}{
		{name: "bad request", status: http.StatusBadRequest, wantFatal: true},
		{name: "rate limited", status: http.StatusTooManyRequests, wantFatal: false},
		{name: "server error", status: http.StatusInternalServerError, wantFatal: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fake := &fakeCompletions{err: &openai.APIError{HTTPStatusCode: tc.status, Message: "boom"}}
			client := &Client{api: fake, model: "m"}

			_, err := client.GenerateProposals(context.Background(), assistant.DiagnosticInput{})
			if err == nil {
				t.Fatal("expected error")
			}
			var reqErr *assistant.RequestError
			if fatal := errors.As(err, &reqErr); fatal != tc.wantFatal {
				t.Fatalf("fatal = %v, want %v (err %v)", fatal, tc.wantFatal, err)
			}
			if !tc.wantFatal && !assistant.IsRetriable(err) {
				t.Fatalf("expected retriable error, got %v", err)
			}
		})
	}
}

func TestGenerateProposalsMalformedContent(t *testing.T) {
	fake := &fakeCompletions{content: "not json at all"}
	client := &Client{api: fake, model: "m"}

	_, err := client.GenerateProposals(context.Background(), assistant.DiagnosticInput{})
	var malformed *assistant.MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedResponseError, got %v", err)
	}
}
