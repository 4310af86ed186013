package insight

import (
	"math"
	"strings"
)

// IsGroundedInFacts reports whether the document copied all three facts byte for byte.
func IsGroundedInFacts(content DailyContent, facts DailyFacts) bool {
	return content.Facts.Common == facts.Common &&
		content.Facts.Mindelo == facts.Mindelo &&
		content.Facts.Lausanne == facts.Lausanne
}

// LanguageThreshold is the acceptance rule for one language.
type LanguageThreshold struct {
	MinInsightHits int
	MinThemeRatio  float64
}

// LanguagePolicy is a lexical heuristic, not a language classifier: it counts
// spaced function words in the insight and the theme strings.
type LanguagePolicy struct {
	Markers    map[string][]string
	Thresholds map[string]LanguageThreshold
	Default    LanguageThreshold
}

// DefaultLanguagePolicy returns the marker sets and thresholds used in production.
func DefaultLanguagePolicy() LanguagePolicy {
	return LanguagePolicy{
		Markers: map[string][]string{
			"en": {" the ", " and ", " with ", " in ", " today ", " both ", " city "},
			"fr": {" le ", " la ", " les ", " et ", " dans ", " aujourd", " avec "},
			"pt": {" o ", " a ", " os ", " as ", " e ", " em ", " hoje ", " com "},
		},
		Thresholds: map[string]LanguageThreshold{
			DefaultLanguage: {MinInsightHits: 2, MinThemeRatio: 0.4},
		},
		Default: LanguageThreshold{MinInsightHits: 1, MinThemeRatio: 0.3},
	}
}

// IsExpectedLanguage checks content against the default policy.
func IsExpectedLanguage(content DailyContent, lang string) bool {
	return DefaultLanguagePolicy().Accepts(content, lang)
}

// Accepts reports whether content looks written in lang.
func (p LanguagePolicy) Accepts(content DailyContent, lang string) bool {
	if strings.TrimSpace(content.Insight) == "" {
		return false
	}
	safeLang := NormalizeLanguage(lang)
	markers := p.Markers[safeLang]
	if len(markers) == 0 {
		return true
	}
	threshold, ok := p.Thresholds[safeLang]
	if !ok {
		threshold = p.Default
	}

	insightHits := countMarkerHits(content.Insight, markers)
	themeHits, themeChecks := 0, 0
	for _, text := range content.themeStrings() {
		if strings.TrimSpace(text) == "" {
			continue
		}
		themeChecks++
		if countMarkerHits(text, markers) > 0 {
			themeHits++
		}
	}

	required := int(math.Ceil(float64(themeChecks) * threshold.MinThemeRatio))
	return insightHits >= threshold.MinInsightHits && themeHits >= required
}

func countMarkerHits(text string, markers []string) int {
	padded := " " + strings.ToLower(text) + " "
	hits := 0
	for _, marker := range markers {
		if strings.Contains(padded, marker) {
			hits++
		}
	}
	return hits
}
