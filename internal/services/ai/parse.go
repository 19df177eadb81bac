package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/resolvely/resolution-tracker/internal/models"
)

// parseTemperature keeps extraction output stable across runs
const parseTemperature = 0.3

// DefaultSuggestion is the example offered when the user's text lacks a
// measurable target
const DefaultSuggestion = "Run 3 times a week"

const parseSystemPrompt = `You are a resolution parser. Extract measurable goal structure from natural language.

Return ONLY valid JSON, no markdown, no extra text.

If the input has a clear measurable target (number + unit + frequency), return:
{"title": "activity name", "targetValue": number, "targetUnit": "times|minutes|pages|days|etc", "frequency": "daily|weekly|monthly"}

If the input is vague (e.g., "exercise more", "read more"), return:
{"needsClarification": true, "message": "friendly conversational message asking for a number", "suggestion": "optional example like 'Run 3 times a week'"}

Support variations: "3x/week", "three times weekly", "every day", "daily", "20 pages", "10 minutes".`

// ParsedResolution is the structured draft extracted from free-form text
type ParsedResolution struct {
	Title       string           `json:"title"`
	TargetValue float64          `json:"targetValue"`
	TargetUnit  string           `json:"targetUnit"`
	Frequency   models.Frequency `json:"frequency"`
}

// Clarification asks the user to restate a goal with a measurable number
type Clarification struct {
	NeedsClarification bool   `json:"needsClarification"`
	Message            string `json:"message"`
	Suggestion         string `json:"suggestion,omitempty"`
}

// ParseResult holds exactly one of Resolution or Clarification
type ParseResult struct {
	Resolution    *ParsedResolution
	Clarification *Clarification
}

// ParseService turns natural-language resolution text into a structured
// draft, or a clarification request when the text has no measurable target
type ParseService struct {
	provider Provider
}

// NewParseService creates a new parse service
func NewParseService(provider Provider) *ParseService {
	return &ParseService{provider: provider}
}

// Parse asks the model to extract a draft from text. A malformed or vague
// model response degrades to a clarification; only transport failures
// return an error.
func (s *ParseService) Parse(ctx context.Context, text string) (*ParseResult, error) {
	userPrompt := fmt.Sprintf("Parse this resolution: %q", text)
	content, err := s.provider.Chat(ctx, parseSystemPrompt, userPrompt, parseTemperature)
	if err != nil {
		return nil, fmt.Errorf("failed to parse resolution: %w", err)
	}
	return interpretParseResponse(content), nil
}

func interpretParseResponse(content string) *ParseResult {
	raw := ExtractJSON(content)

	var parsed struct {
		NeedsClarification bool    `json:"needsClarification"`
		Message            string  `json:"message"`
		Suggestion         string  `json:"suggestion"`
		Title              string  `json:"title"`
		TargetValue        float64 `json:"targetValue"`
		TargetUnit         string  `json:"targetUnit"`
		Frequency          string  `json:"frequency"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return &ParseResult{Clarification: &Clarification{
			NeedsClarification: true,
			Message:            "Couldn't parse that. Try something like: 'Run 3 times a week'",
			Suggestion:         DefaultSuggestion,
		}}
	}

	if parsed.NeedsClarification {
		message := parsed.Message
		if message == "" {
			message = "Add a number so you can track your progress."
		}
		return &ParseResult{Clarification: &Clarification{
			NeedsClarification: true,
			Message:            message,
			Suggestion:         parsed.Suggestion,
		}}
	}

	title := strings.TrimSpace(parsed.Title)
	targetUnit := strings.TrimSpace(parsed.TargetUnit)
	if targetUnit == "" {
		targetUnit = "times"
	}

	frequency := models.Frequency(strings.ToLower(parsed.Frequency))
	if frequency != models.FrequencyDaily && frequency != models.FrequencyMonthly {
		frequency = models.FrequencyWeekly
	}

	if title == "" || parsed.TargetValue < 1 {
		return &ParseResult{Clarification: &Clarification{
			NeedsClarification: true,
			Message:            "Add a number so you can celebrate wins—e.g., how many times, minutes, or pages?",
			Suggestion:         DefaultSuggestion,
		}}
	}

	return &ParseResult{Resolution: &ParsedResolution{
		Title:       title,
		TargetValue: parsed.TargetValue,
		TargetUnit:  targetUnit,
		Frequency:   frequency,
	}}
}
