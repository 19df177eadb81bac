package models

import "math"

const (
	// MinDimensionScore is the lowest valid per-dimension score
	MinDimensionScore = 1
	// MaxDimensionScore is the highest valid per-dimension score
	MaxDimensionScore = 10
	// MaxCombinedScore is the highest valid combined score
	MaxCombinedScore = 100
)

// ResolutionWeight scores a resolution on three dimensions (1-10 each) plus
// a combined 0-100 score. Produced once when the resolution is created and
// never recomputed automatically.
type ResolutionWeight struct {
	Measurability int `json:"measurability"`
	Achievability int `json:"achievability"`
	Importance    int `json:"importance"`
	Combined      int `json:"combined"`
}

// NeutralWeight is the fallback used when scoring fails entirely
func NeutralWeight() ResolutionWeight {
	return ResolutionWeight{
		Measurability: 5,
		Achievability: 5,
		Importance:    5,
		Combined:      50,
	}
}

// ClampWeight forces each score into its valid range: dimensions into
// [1,10], combined into [0,100]. Fractional scores round to the nearest
// integer.
func ClampWeight(measurability, achievability, importance, combined float64) ResolutionWeight {
	return ResolutionWeight{
		Measurability: clampInt(measurability, MinDimensionScore, MaxDimensionScore),
		Achievability: clampInt(achievability, MinDimensionScore, MaxDimensionScore),
		Importance:    clampInt(importance, MinDimensionScore, MaxDimensionScore),
		Combined:      clampInt(combined, 0, MaxCombinedScore),
	}
}

func clampInt(v float64, min, max int) int {
	if v < float64(min) {
		return min
	}
	if v > float64(max) {
		return max
	}
	return int(math.Round(v))
}
