package insight

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/1990jr/mindelo-lausanne-time-bridge/pkg/metrics"
)

var fencedBlock = regexp.MustCompile("(?is)```(?:json)?\\s*(.*?)```")

// ExtractText pulls free text out of a runner envelope. Known shapes, tried in
// order: a plain string, {"response": string}, {"result": [{"text": string}]}.
// Raw JSON bytes are decoded first. Anything else yields "".
func ExtractText(envelope any) string {
	switch v := envelope.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case json.RawMessage:
		return extractFromJSON(v)
	case []byte:
		return extractFromJSON(v)
	case map[string]any:
		if text, ok := v["response"].(string); ok {
			return strings.TrimSpace(text)
		}
		if results, ok := v["result"].([]any); ok && len(results) > 0 {
			if first, ok := results[0].(map[string]any); ok {
				if text, ok := first["text"].(string); ok {
					return strings.TrimSpace(text)
				}
			}
		}
	}
	return ""
}

func extractFromJSON(raw []byte) string {
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return ""
	}
	return ExtractText(decoded)
}

// ExtractStructuredPayload decodes the first JSON value found in text: the
// whole text, then a fenced code block, then the slice between the first '{'
// and the last '}'. It returns nil when every attempt fails.
func ExtractStructuredPayload(text string) any {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	if payload, ok := decodeJSON(trimmed); ok {
		return payload
	}
	if match := fencedBlock.FindStringSubmatch(trimmed); len(match) == 2 && strings.TrimSpace(match[1]) != "" {
		if payload, ok := decodeJSON(strings.TrimSpace(match[1])); ok {
			return payload
		}
	}
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start != -1 && end > start {
		if payload, ok := decodeJSON(trimmed[start : end+1]); ok {
			return payload
		}
	}
	return nil
}

func decodeJSON(text string) (any, bool) {
	var payload any
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, false
	}
	return payload, true
}

// ExtractUsage reads provider reported token counts from an envelope's
// "usage" object ({"prompt_tokens": n, "completion_tokens": n}).
func ExtractUsage(envelope any) (metrics.TokenUsage, bool) {
	switch v := envelope.(type) {
	case json.RawMessage:
		return usageFromJSON(v)
	case []byte:
		return usageFromJSON(v)
	case map[string]any:
		raw, ok := v["usage"].(map[string]any)
		if !ok {
			return metrics.TokenUsage{}, false
		}
		prompt, okPrompt := asCount(raw["prompt_tokens"])
		completion, okCompletion := asCount(raw["completion_tokens"])
		if !okPrompt && !okCompletion {
			return metrics.TokenUsage{}, false
		}
		return metrics.TokenUsage{
			PromptTokens:     prompt,
			CompletionTokens: completion,
			TotalTokens:      prompt + completion,
		}, true
	}
	return metrics.TokenUsage{}, false
}

func usageFromJSON(raw []byte) (metrics.TokenUsage, bool) {
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return metrics.TokenUsage{}, false
	}
	return ExtractUsage(decoded)
}

func asCount(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), n >= 0
	case int:
		return n, n >= 0
	}
	return 0, false
}
