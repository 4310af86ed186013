package insight

import (
	"context"
	"log/slog"
)

// RunInput carries the generation parameters for one model call.
type RunInput struct {
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

// Runner invokes a generative model. The returned envelope is backend specific
// and is read through ExtractText; nothing about it is trusted.
type Runner interface {
	Run(ctx context.Context, model string, in RunInput) (any, error)
}

// guardedRunner takes a budget slot right before every call and refuses the
// call when none is left.
type guardedRunner struct {
	inner  Runner
	ledger *BudgetLedger
	day    string
	limit  int
	logger *slog.Logger

	used int
}

func (g *guardedRunner) Run(ctx context.Context, model string, in RunInput) (any, error) {
	result, err := g.ledger.Consume(ctx, g.day, g.limit)
	if err != nil {
		// An unreadable ledger must not let calls through uncounted.
		g.logger.Warn("budget consume failed", "day", g.day, "error", err)
		return nil, ErrBudgetExhausted
	}
	g.used = result.Used
	if !result.OK {
		return nil, ErrBudgetExhausted
	}
	return g.inner.Run(ctx, model, in)
}
