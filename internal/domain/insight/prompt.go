package insight

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const themeSchemaLine = `{ "night":"...","morning":"...","midday":"...","afternoon":"...","evening":"..." }`

func buildGeneratorPrompt(context json.RawMessage, lang string, facts DailyFacts) string {
	lines := []string{
		"You write one daily Mindelo-Lausanne insight.",
		fmt.Sprintf("Output language: %s.", NormalizeLanguage(lang)),
		"Return strict JSON only.",
		"You MUST use the fact strings exactly as provided, without rewriting:",
	}
	lines = append(lines, factLines(facts)...)
	lines = append(lines,
		"Schema:",
		"{",
		`  "insight": "2-4 concise sentences",`,
		fmt.Sprintf(`  "disclaimer": "%s",`, DefaultDisclaimer),
		`  "facts": { "common": "...", "mindelo": "...", "lausanne": "..." },`,
		`  "themes": {`,
		`    "weekday": {`,
		`      "cv": `+themeSchemaLine+`,`,
		`      "ch": `+themeSchemaLine,
		`    },`,
		`    "weekend": {`,
		`      "cv": `+themeSchemaLine+`,`,
		`      "ch": `+themeSchemaLine,
		`    }`,
		`  }`,
		"}",
		"Rules:",
		"- Weekdays: realistic routine, no work during night.",
		"- Weekends: no work references, Saturday morning can include groceries.",
		"- Sunday examples can mention beach in Mindelo and mountain/ski vibe in Lausanne.",
		"- Keep each theme line <= 95 characters.",
		"Context:",
		prettyContext(context),
	)
	return strings.Join(lines, "\n")
}

func buildReviewerPrompt(candidate DailyContent, lang string, facts DailyFacts) string {
	lines := []string{
		"You are the reviewer for fact-check and realism.",
		fmt.Sprintf("Language: %s.", NormalizeLanguage(lang)),
		"Return JSON only:",
		`{ "approved": true|false, "issues": ["..."], "reason": "..." }`,
		"Reject if ANY of these are true:",
		"- facts.common differs from provided common_fact",
		"- facts.mindelo differs from provided mindelo_fact",
		"- facts.lausanne differs from provided lausanne_fact",
		"- city themes are nonsensical or contradict weekday/weekend behavior",
		"- insight or themes are not written in the expected language",
		"- output is missing required fields",
	}
	lines = append(lines, factLines(facts)...)
	lines = append(lines, "Candidate JSON:", compactJSON(candidate))
	return strings.Join(lines, "\n")
}

func buildRevisionPrompt(candidate DailyContent, review ReviewVerdict, lang string, facts DailyFacts) string {
	lines := []string{
		"Revise this candidate JSON based on reviewer feedback.",
		fmt.Sprintf("Output language: %s.", NormalizeLanguage(lang)),
		"Return strict JSON only with the same schema.",
		"Keep facts exactly equal to provided fact strings.",
	}
	lines = append(lines, factLines(facts)...)
	lines = append(lines,
		"Candidate:",
		compactJSON(candidate),
		"Reviews:",
		compactJSON([]ReviewVerdict{review}),
	)
	return strings.Join(lines, "\n")
}

func factLines(facts DailyFacts) []string {
	return []string{
		"common_fact: " + facts.Common,
		"mindelo_fact: " + facts.Mindelo,
		"lausanne_fact: " + facts.Lausanne,
	}
}

func prettyContext(raw json.RawMessage) string {
	if len(bytes.TrimSpace(raw)) == 0 {
		return "{}"
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return "{}"
	}
	return out.String()
}

func compactJSON(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return "{}"
	}
	return string(data)
}
