package tokens

import (
	"log/slog"
	"math"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is close enough for the models we call to size prompts.
const DefaultEncoding = "cl100k_base"

// Estimator counts tokens with a BPE encoding. When the encoding cannot be
// loaded (it is fetched on first use) it falls back to a word heuristic.
type Estimator struct {
	enc *tiktoken.Tiktoken
}

// NewEstimator loads encoding. A load failure is logged and leaves the
// estimator in heuristic mode.
func NewEstimator(encoding string, logger *slog.Logger) *Estimator {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		logger.Warn("tiktoken encoding unavailable, using word heuristic", "encoding", encoding, "error", err)
		return &Estimator{}
	}
	return &Estimator{enc: enc}
}

// Count implements insight.TokenEstimator.
func (e *Estimator) Count(text string) int {
	if text == "" {
		return 0
	}
	if e != nil && e.enc != nil {
		return len(e.enc.Encode(text, nil, nil))
	}
	return approximate(text)
}

// approximate assumes roughly four tokens per three words.
func approximate(text string) int {
	words := len(strings.Fields(text))
	return int(math.Ceil(float64(words) * 4 / 3))
}
