package runner

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/1990jr/mindelo-lausanne-time-bridge/internal/domain/insight"
	"github.com/1990jr/mindelo-lausanne-time-bridge/internal/infra/llm/chatgpt"
	"github.com/1990jr/mindelo-lausanne-time-bridge/internal/infra/llm/gemini"
	"github.com/1990jr/mindelo-lausanne-time-bridge/internal/infra/llm/workersai"
)

type stubWorkersAI struct {
	got    workersai.RunRequest
	model  string
	result json.RawMessage
	err    error
}

func (s *stubWorkersAI) Run(_ context.Context, model string, req workersai.RunRequest) (json.RawMessage, error) {
	s.model, s.got = model, req
	return s.result, s.err
}

type stubChat struct {
	got  chatgpt.ChatCompletionRequest
	resp chatgpt.ChatCompletionResponse
}

func (s *stubChat) CreateChatCompletion(_ context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error) {
	s.got = req
	return s.resp, nil
}

type stubGemini struct {
	got    gemini.Request
	err    error
	closed bool
}

func (s *stubGemini) Generate(_ context.Context, req gemini.Request) (gemini.Response, error) {
	s.got = req
	return gemini.Response{Text: `{"insight":"g"}`, PromptTokens: 40, CompletionTokens: 12}, s.err
}

func (s *stubGemini) Close() error {
	s.closed = true
	return nil
}

func TestWorkersAI_PassesEnvelopeThrough(t *testing.T) {
	stub := &stubWorkersAI{result: json.RawMessage(`{"response":"hello"}`)}
	r := &WorkersAI{client: stub}

	out, err := r.Run(context.Background(), "@cf/meta/llama-3.1-8b-instruct", insight.RunInput{Prompt: "p", MaxTokens: 900, Temperature: 0.6})
	require.NoError(t, err)
	require.Equal(t, "hello", insight.ExtractText(out))
	require.Equal(t, "@cf/meta/llama-3.1-8b-instruct", stub.model)
	require.Equal(t, workersai.RunRequest{Prompt: "p", MaxTokens: 900, Temperature: 0.6}, stub.got)

	stub.err = errors.New("boom")
	_, err = r.Run(context.Background(), "m", insight.RunInput{})
	require.Error(t, err)
}

func TestChatGPT_WrapsFirstChoice(t *testing.T) {
	stub := &stubChat{}
	stub.resp.Choices = append(stub.resp.Choices, struct {
		Message      chatgpt.Message `json:"message"`
		FinishReason string          `json:"finish_reason"`
	}{Message: chatgpt.Message{Role: "assistant", Content: "answer"}})
	r := &ChatGPT{client: stub}

	out, err := r.Run(context.Background(), "gpt-4o-mini", insight.RunInput{Prompt: "p", MaxTokens: 10, Temperature: 0.5})
	require.NoError(t, err)
	require.Equal(t, "answer", insight.ExtractText(out))
	require.Equal(t, "json_object", stub.got.ResponseFormat.Type)
	require.Len(t, stub.got.Messages, 1)
	require.Equal(t, 10, stub.got.MaxTokens)
}

func TestChatGPT_NoChoicesYieldsEmptyText(t *testing.T) {
	r := &ChatGPT{client: &stubChat{}}
	out, err := r.Run(context.Background(), "m", insight.RunInput{Prompt: "p"})
	require.NoError(t, err)
	require.Empty(t, insight.ExtractText(out))
}

func TestGemini_RequestsJSON(t *testing.T) {
	stub := &stubGemini{}
	r := &Gemini{client: stub}
	out, err := r.Run(context.Background(), "gemini-1.5-flash", insight.RunInput{Prompt: "p", MaxTokens: 900})
	require.NoError(t, err)
	require.Equal(t, `{"insight":"g"}`, insight.ExtractText(out))
	require.True(t, stub.got.JSON)
	require.Equal(t, "gemini-1.5-flash", stub.got.Model)
}

func TestChatGPT_ReportsProviderUsage(t *testing.T) {
	stub := &stubChat{}
	stub.resp.Choices = append(stub.resp.Choices, struct {
		Message      chatgpt.Message `json:"message"`
		FinishReason string          `json:"finish_reason"`
	}{Message: chatgpt.Message{Role: "assistant", Content: "answer"}})
	stub.resp.Usage = chatgpt.Usage{PromptTokens: 30, CompletionTokens: 5, TotalTokens: 35}
	r := &ChatGPT{client: stub}

	out, err := r.Run(context.Background(), "m", insight.RunInput{Prompt: "p"})
	require.NoError(t, err)
	usage, ok := insight.ExtractUsage(out)
	require.True(t, ok)
	require.Equal(t, 30, usage.PromptTokens)
	require.Equal(t, 5, usage.CompletionTokens)
	require.Equal(t, 35, usage.TotalTokens)
}

func TestGemini_ReportsUsageAndCloses(t *testing.T) {
	stub := &stubGemini{}
	r := &Gemini{client: stub}
	out, err := r.Run(context.Background(), "gemini-1.5-flash", insight.RunInput{Prompt: "p"})
	require.NoError(t, err)
	usage, ok := insight.ExtractUsage(out)
	require.True(t, ok)
	require.Equal(t, 52, usage.TotalTokens)

	require.NoError(t, r.Close())
	require.True(t, stub.closed)
}
