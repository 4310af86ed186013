package workersai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.cloudflare.com/client/v4"

// RunRequest is the text-generation input accepted by Workers AI models.
type RunRequest struct {
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float64 `json:"temperature"`
}

// APIError is one entry of the Cloudflare error list.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// RunResponse is the Cloudflare REST envelope. Result keeps the model output
// undecoded because its shape varies per model.
type RunResponse struct {
	Success bool            `json:"success"`
	Errors  []APIError      `json:"errors"`
	Result  json.RawMessage `json:"result"`
}

// Client calls the Workers AI REST endpoint.
type Client struct {
	accountID  string
	apiToken   string
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a Workers AI client.
func NewClient(accountID, apiToken, baseURL string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, errors.New("workers ai account id cannot be empty")
	}
	if strings.TrimSpace(apiToken) == "" {
		return nil, errors.New("workers ai api token cannot be empty")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		accountID:  accountID,
		apiToken:   apiToken,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Run invokes model and returns the raw result object.
func (c *Client) Run(ctx context.Context, model string, req RunRequest) (json.RawMessage, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode workers ai request: %w", err)
	}
	endpoint := fmt.Sprintf("%s/accounts/%s/ai/run/%s", c.baseURL, c.accountID, strings.TrimPrefix(model, "/"))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build workers ai request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiToken)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request workers ai: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read workers ai response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("workers ai request failed: status=%d body=%s", resp.StatusCode, truncate(body, 4<<10))
	}
	var out RunResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode workers ai response: %w", err)
	}
	if !out.Success {
		if len(out.Errors) > 0 {
			return nil, fmt.Errorf("workers ai error %d: %s", out.Errors[0].Code, out.Errors[0].Message)
		}
		return nil, errors.New("workers ai reported failure")
	}
	return out.Result, nil
}

func truncate(body []byte, limit int) string {
	if len(body) > limit {
		body = body[:limit]
	}
	return string(body)
}
