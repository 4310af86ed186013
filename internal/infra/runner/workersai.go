package runner

import (
	"context"
	"encoding/json"

	"github.com/1990jr/mindelo-lausanne-time-bridge/internal/domain/insight"
	"github.com/1990jr/mindelo-lausanne-time-bridge/internal/infra/llm/workersai"
)

type workersAIClient interface {
	Run(ctx context.Context, model string, req workersai.RunRequest) (json.RawMessage, error)
}

// WorkersAI adapts the Workers AI client. The raw result object is passed
// through untouched; the pipeline extracts text from it.
type WorkersAI struct {
	client workersAIClient
}

// NewWorkersAI constructs the adapter.
func NewWorkersAI(client *workersai.Client) *WorkersAI {
	return &WorkersAI{client: client}
}

func (r *WorkersAI) Run(ctx context.Context, model string, in insight.RunInput) (any, error) {
	result, err := r.client.Run(ctx, model, workersai.RunRequest{
		Prompt:      in.Prompt,
		MaxTokens:   in.MaxTokens,
		Temperature: in.Temperature,
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

var _ insight.Runner = (*WorkersAI)(nil)
