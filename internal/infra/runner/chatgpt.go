package runner

import (
	"context"

	"github.com/1990jr/mindelo-lausanne-time-bridge/internal/domain/insight"
	"github.com/1990jr/mindelo-lausanne-time-bridge/internal/infra/llm/chatgpt"
)

type chatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

// ChatGPT adapts an OpenAI-compatible chat client. The prompt is sent as a
// single user message with JSON output requested.
type ChatGPT struct {
	client chatClient
}

// NewChatGPT constructs the adapter.
func NewChatGPT(client *chatgpt.Client) *ChatGPT {
	return &ChatGPT{client: client}
}

func (r *ChatGPT) Run(ctx context.Context, model string, in insight.RunInput) (any, error) {
	resp, err := r.client.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
		Model:          model,
		Temperature:    float32(in.Temperature),
		MaxTokens:      in.MaxTokens,
		ResponseFormat: &chatgpt.ResponseFormat{Type: "json_object"},
		Messages: []chatgpt.Message{
			{Role: "user", Content: in.Prompt},
		},
	})
	if err != nil {
		return nil, err
	}
	envelope := map[string]any{}
	if len(resp.Choices) > 0 {
		envelope["response"] = resp.Choices[0].Message.Content
	}
	if resp.Usage.TotalTokens > 0 || resp.Usage.PromptTokens > 0 {
		envelope["usage"] = usageEnvelope(resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	}
	return envelope, nil
}

var _ insight.Runner = (*ChatGPT)(nil)

// usageEnvelope mirrors the Workers AI usage object so the pipeline reads
// every provider's counts the same way.
func usageEnvelope(prompt, completion int) map[string]any {
	return map[string]any{
		"prompt_tokens":     prompt,
		"completion_tokens": completion,
		"total_tokens":      prompt + completion,
	}
}
