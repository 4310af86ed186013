package runner

import (
	"context"
	"io"

	"github.com/1990jr/mindelo-lausanne-time-bridge/internal/domain/insight"
	"github.com/1990jr/mindelo-lausanne-time-bridge/internal/infra/llm/gemini"
)

type geminiClient interface {
	Generate(ctx context.Context, req gemini.Request) (gemini.Response, error)
}

// Gemini adapts the Gemini SDK wrapper.
type Gemini struct {
	client geminiClient
}

// NewGemini constructs the adapter.
func NewGemini(client *gemini.Client) *Gemini {
	return &Gemini{client: client}
}

func (r *Gemini) Run(ctx context.Context, model string, in insight.RunInput) (any, error) {
	resp, err := r.client.Generate(ctx, gemini.Request{
		Model:       model,
		Prompt:      in.Prompt,
		MaxTokens:   in.MaxTokens,
		Temperature: in.Temperature,
		JSON:        true,
	})
	if err != nil {
		return nil, err
	}
	envelope := map[string]any{"response": resp.Text}
	if resp.PromptTokens > 0 || resp.CompletionTokens > 0 {
		envelope["usage"] = usageEnvelope(resp.PromptTokens, resp.CompletionTokens)
	}
	return envelope, nil
}

// Close releases the SDK connection.
func (r *Gemini) Close() error {
	if closer, ok := r.client.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

var _ insight.Runner = (*Gemini)(nil)
