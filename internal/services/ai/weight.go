package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/resolvely/resolution-tracker/internal/models"
)

const weightTemperature = 0.3

const weightSystemPrompt = `You score resolutions on three dimensions (1-10 each) and a combined score (0-100).

Return ONLY valid JSON, no markdown, no extra text:
{"measurability": number, "achievement": number, "importance": number, "combined": number}

- measurability: Can progress be tracked? (1-10)
- achievability: Is it realistic given typical constraints? (1-10)
- importance: How meaningful/specific does it seem? (1-10)
- combined: Weighted average, 0-100. Give measurability higher weight (e.g., 40% measurability, 30% achievability, 30% importance).`

// WeightService scores a resolution draft on measurability, achievability
// and importance. Malformed model output degrades to the neutral default;
// transport failures return the neutral default alongside the error so
// callers can decide whether to retry or accept it.
type WeightService struct {
	provider Provider
}

// NewWeightService creates a new weight service
func NewWeightService(provider Provider) *WeightService {
	return &WeightService{provider: provider}
}

// Score asks the model to weight a resolution draft
func (s *WeightService) Score(ctx context.Context, title string, targetValue float64, targetUnit string, frequency models.Frequency) (models.ResolutionWeight, error) {
	userPrompt := fmt.Sprintf("Score this resolution: %s - %v %s per %s", title, targetValue, targetUnit, frequency)
	content, err := s.provider.Chat(ctx, weightSystemPrompt, userPrompt, weightTemperature)
	if err != nil {
		return models.NeutralWeight(), fmt.Errorf("failed to score resolution: %w", err)
	}
	return interpretWeightResponse(content), nil
}

func interpretWeightResponse(content string) models.ResolutionWeight {
	raw := ExtractJSON(content)

	var parsed struct {
		Measurability *float64 `json:"measurability"`
		Achievement   *float64 `json:"achievement"`
		Achievability *float64 `json:"achievability"`
		Importance    *float64 `json:"importance"`
		Combined      *float64 `json:"combined"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return models.NeutralWeight()
	}

	// The prompt asks for "achievement" but some models answer with the
	// dimension's real name; accept either, preferring "achievement".
	achievability := parsed.Achievement
	if achievability == nil {
		achievability = parsed.Achievability
	}

	return models.ClampWeight(
		scoreOrDefault(parsed.Measurability, 5),
		scoreOrDefault(achievability, 5),
		scoreOrDefault(parsed.Importance, 5),
		scoreOrDefault(parsed.Combined, 50),
	)
}

// scoreOrDefault treats both a missing field and an explicit zero as
// unanswered
func scoreOrDefault(v *float64, def float64) float64 {
	if v == nil || *v == 0 {
		return def
	}
	return *v
}
