package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Request is one text generation call.
type Request struct {
	Model       string
	Prompt      string
	MaxTokens   int
	Temperature float64
	JSON        bool
}

// Response carries the concatenated candidate text and token counts.
type Response struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
}

// Client wraps the Gemini SDK client.
type Client struct {
	client *genai.Client
}

// NewClient constructs a Gemini client using an API key.
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini api key cannot be empty")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Client{client: client}, nil
}

// Generate sends a single-turn prompt.
func (c *Client) Generate(ctx context.Context, req Request) (Response, error) {
	model := c.client.GenerativeModel(req.Model)
	model.SetTemperature(float32(req.Temperature))
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	if req.JSON {
		model.ResponseMIMEType = "application/json"
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return Response{}, fmt.Errorf("failed to generate content: %w", err)
	}

	var out Response
	var text strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				text.WriteString(string(t))
			}
		}
		break
	}
	out.Text = text.String()
	if resp.UsageMetadata != nil {
		out.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		out.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	return out, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.client.Close()
}
