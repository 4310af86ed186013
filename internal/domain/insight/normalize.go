package insight

import "strings"

// DefaultDisclaimer is used when a document carries no disclaimer of its own.
const DefaultDisclaimer = "AI-generated content may contain mistakes."

const maxReviewIssues = 8

// NormalizeDailyPayload validates untrusted decoded JSON and returns a trimmed
// DailyContent. The second result is false unless the insight and all 20 theme
// strings are present and non-empty; no partial document is ever returned.
func NormalizeDailyPayload(payload any) (DailyContent, bool) {
	root, ok := payload.(map[string]any)
	if !ok {
		return DailyContent{}, false
	}
	insight, ok := nonEmptyString(root["insight"])
	if !ok {
		return DailyContent{}, false
	}
	themes, _ := root["themes"].(map[string]any)
	weekday, ok := normalizeDayThemes(themes["weekday"])
	if !ok {
		return DailyContent{}, false
	}
	weekend, ok := normalizeDayThemes(themes["weekend"])
	if !ok {
		return DailyContent{}, false
	}

	disclaimer, ok := nonEmptyString(root["disclaimer"])
	if !ok {
		disclaimer = DefaultDisclaimer
	}
	facts, _ := root["facts"].(map[string]any)
	common, _ := nonEmptyString(facts["common"])
	mindelo, _ := nonEmptyString(facts["mindelo"])
	lausanne, _ := nonEmptyString(facts["lausanne"])

	return DailyContent{
		Insight:    insight,
		Disclaimer: disclaimer,
		Facts:      Facts{Common: common, Mindelo: mindelo, Lausanne: lausanne},
		Themes:     Themes{Weekday: weekday, Weekend: weekend},
	}, true
}

// NormalizeReviewPayload validates a reviewer answer. approved must be a JSON boolean.
func NormalizeReviewPayload(payload any) (ReviewVerdict, bool) {
	root, ok := payload.(map[string]any)
	if !ok {
		return ReviewVerdict{}, false
	}
	approved, ok := root["approved"].(bool)
	if !ok {
		return ReviewVerdict{}, false
	}
	issues := make([]string, 0)
	if raw, ok := root["issues"].([]any); ok {
		for _, item := range raw {
			if len(issues) == maxReviewIssues {
				break
			}
			if text, ok := nonEmptyString(item); ok {
				issues = append(issues, text)
			}
		}
	}
	reason, _ := nonEmptyString(root["reason"])
	return ReviewVerdict{Approved: approved, Issues: issues, Reason: reason}, true
}

func normalizeDayThemes(value any) (DayThemes, bool) {
	day, ok := value.(map[string]any)
	if !ok {
		return DayThemes{}, false
	}
	cv, ok := normalizeThemeSet(day["cv"])
	if !ok {
		return DayThemes{}, false
	}
	ch, ok := normalizeThemeSet(day["ch"])
	if !ok {
		return DayThemes{}, false
	}
	return DayThemes{CV: cv, CH: ch}, true
}

func normalizeThemeSet(value any) (ThemeSet, bool) {
	raw, ok := value.(map[string]any)
	if !ok {
		return ThemeSet{}, false
	}
	values := make([]string, len(PeriodKeys))
	for i, key := range PeriodKeys {
		text, ok := nonEmptyString(raw[key])
		if !ok {
			return ThemeSet{}, false
		}
		values[i] = text
	}
	return ThemeSet{
		Night:     values[0],
		Morning:   values[1],
		Midday:    values[2],
		Afternoon: values[3],
		Evening:   values[4],
	}, true
}

func nonEmptyString(value any) (string, bool) {
	text, ok := value.(string)
	if !ok {
		return "", false
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", false
	}
	return trimmed, true
}
