package llmprovider

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

type fakeChatCompleter struct {
	req  openai.ChatCompletionRequest
	resp openai.ChatCompletionResponse
	err  error
}

func (f *fakeChatCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.req = req
	return f.resp, f.err
}

func TestOpenAIAdapter_GenerateContent(t *testing.T) {
	fake := &fakeChatCompleter{
		resp: openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: `{"ok":true}`}}},
			Usage:   openai.Usage{PromptTokens: 3, CompletionTokens: 2, TotalTokens: 5},
		},
	}
	a := &OpenAIAdapter{client: fake, name: "deepseek", model: "deepseek-chat"}

	resp, err := a.GenerateContent(context.Background(), &Request{
		SystemInstruction: "sys",
		Messages:          []Message{{Role: RoleUser, Content: "hi"}},
		JSONMode:          true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != `{"ok":true}` || resp.ProviderName != "deepseek" || resp.Usage.TotalTokens != 5 {
		t.Errorf("unexpected response %+v", resp)
	}
	if len(fake.req.Messages) != 2 || fake.req.Messages[0].Role != openai.ChatMessageRoleSystem {
		t.Errorf("system instruction not prepended: %+v", fake.req.Messages)
	}
	if fake.req.ResponseFormat == nil || fake.req.ResponseFormat.Type != openai.ChatCompletionResponseFormatTypeJSONObject {
		t.Error("expected JSON response format")
	}
}

func TestOpenAIAdapter_EmptyChoices(t *testing.T) {
	a := &OpenAIAdapter{client: &fakeChatCompleter{}, name: "openai", model: "m"}
	_, err := a.GenerateContent(context.Background(), &Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	if !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("expected ErrEmptyResponse, got %v", err)
	}
}
