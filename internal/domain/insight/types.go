package insight

import (
	"encoding/json"
	"time"

	"github.com/1990jr/mindelo-lausanne-time-bridge/pkg/metrics"
)

// Mode reports which path produced a daily document.
type Mode string

const (
	// ModeGenerated is a model document that passed every gate.
	ModeGenerated Mode = "generated"
	// ModeGeneratedReviewed is a generated document the reviewer approved.
	ModeGeneratedReviewed Mode = "generated-reviewed"
	// ModeGeneratedRevised is a rejected document that was revised and re-validated.
	ModeGeneratedRevised Mode = "generated-revised"
	// ModeFallbackDailyLimit is served once the daily call budget is spent.
	ModeFallbackDailyLimit Mode = "fallback-daily-limit-reached"
	// ModeFallbackInvalid is served when the runner fails or returns an unusable payload.
	ModeFallbackInvalid Mode = "fallback-invalid-generator"
	// ModeFallbackGrounded is served when facts or language do not match.
	ModeFallbackGrounded Mode = "fallback-grounded"
	// ModeFallbackReviewRejected is served when a reviewed document could not be repaired.
	ModeFallbackReviewRejected Mode = "fallback-review-rejected"
)

// Period keys in display order.
const (
	PeriodNight     = "night"
	PeriodMorning   = "morning"
	PeriodMidday    = "midday"
	PeriodAfternoon = "afternoon"
	PeriodEvening   = "evening"
)

// PeriodKeys lists the five time-of-day buckets every ThemeSet must cover.
var PeriodKeys = []string{PeriodNight, PeriodMorning, PeriodMidday, PeriodAfternoon, PeriodEvening}

// DailyFacts is the fact triple picked for one day and language.
type DailyFacts struct {
	Lang     string `json:"lang"`
	Common   string `json:"common"`
	Mindelo  string `json:"mindelo"`
	Lausanne string `json:"lausanne"`
}

// Facts is the fact block embedded in a DailyContent document.
type Facts struct {
	Common   string `json:"common"`
	Mindelo  string `json:"mindelo"`
	Lausanne string `json:"lausanne"`
}

// ThemeSet maps each period of the day to a short sentence for one city.
type ThemeSet struct {
	Night     string `json:"night"`
	Morning   string `json:"morning"`
	Midday    string `json:"midday"`
	Afternoon string `json:"afternoon"`
	Evening   string `json:"evening"`
}

// Values returns the theme strings in PeriodKeys order.
func (t ThemeSet) Values() []string {
	return []string{t.Night, t.Morning, t.Midday, t.Afternoon, t.Evening}
}

// DayThemes holds the Mindelo (cv) and Lausanne (ch) themes for one day type.
type DayThemes struct {
	CV ThemeSet `json:"cv"`
	CH ThemeSet `json:"ch"`
}

// Themes groups weekday and weekend themes.
type Themes struct {
	Weekday DayThemes `json:"weekday"`
	Weekend DayThemes `json:"weekend"`
}

// DailyContent is the canonical generated document.
type DailyContent struct {
	Insight    string `json:"insight"`
	Disclaimer string `json:"disclaimer"`
	Facts      Facts  `json:"facts"`
	Themes     Themes `json:"themes"`
}

// themeStrings returns all 20 theme strings.
func (c DailyContent) themeStrings() []string {
	out := make([]string, 0, 20)
	for _, day := range []DayThemes{c.Themes.Weekday, c.Themes.Weekend} {
		out = append(out, day.CV.Values()...)
		out = append(out, day.CH.Values()...)
	}
	return out
}

// ReviewVerdict is the reviewer's structured answer.
type ReviewVerdict struct {
	Approved bool     `json:"approved"`
	Issues   []string `json:"issues"`
	Reason   string   `json:"reason"`
}

// BudgetRecord is the per-day model call counter.
type BudgetRecord struct {
	Used      int       `json:"used"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BudgetResult is returned by a consume attempt.
type BudgetResult struct {
	OK   bool
	Used int
}

// Request is the inbound insight request. Context carries the raw body for the prompt.
type Request struct {
	Lang    string
	Context json.RawMessage
}

// Response is the outward facing document: DailyContent plus metadata.
type Response struct {
	DailyContent
	Model            string              `json:"model"`
	Cached           bool                `json:"cached"`
	Day              string              `json:"day"`
	Mode             Mode                `json:"mode"`
	AICallsUsedToday int                 `json:"aiCallsUsedToday"`
	TokenUsage       *metrics.TokenUsage `json:"tokenUsage,omitempty"`
}

// BudgetStatus is the read-only view of today's ledger.
type BudgetStatus struct {
	Day       string `json:"day"`
	Used      int    `json:"used"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
}

// ArchiveEntry is one final document kept for history.
type ArchiveEntry struct {
	ID        int64        `json:"id"`
	Day       string       `json:"day"`
	Lang      string       `json:"lang"`
	Mode      Mode         `json:"mode"`
	Model     string       `json:"model"`
	Content   DailyContent `json:"content"`
	CreatedAt time.Time    `json:"createdAt"`
}
