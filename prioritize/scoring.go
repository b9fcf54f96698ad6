// Package prioritize ranks recommended actions for a set of market events,
// either through Gemini or through a local template heuristic.
package prioritize

import "math"

// Weights of the priority formula. Difficulty and cost count inverted.
const (
	ImpactWeight     = 0.4
	RiskWeight       = 0.2
	RelevanceWeight  = 0.2
	DifficultyWeight = 0.1
	CostWeight       = 0.1
)

// Formula is the human readable scoring contract.
const Formula = "priority = round(clamp(impact*0.4 + risk*0.2 + relevance*0.2 + (100-difficulty)*0.1 + (100-cost)*0.1, 0, 100))"

// CalculatePriorityScore combines the five component scores into the
// 0-100 priority score.
func CalculatePriorityScore(impact, risk, relevance, difficulty, cost int) int {
	// each product is rounded on its own so the sum never depends on FMA
	score := float64(float64(impact)*ImpactWeight) +
		float64(float64(risk)*RiskWeight) +
		float64(float64(relevance)*RelevanceWeight) +
		float64(float64(100-difficulty)*DifficultyWeight) +
		float64(float64(100-cost)*CostWeight)
	return int(math.Round(clamp(score, 0, 100)))
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

// ScoringContract is served to clients that display the formula.
type ScoringContract struct {
	Formula string             `json:"formula"`
	Weights map[string]float64 `json:"weights"`
}

func Contract() ScoringContract {
	return ScoringContract{
		Formula: Formula,
		Weights: map[string]float64{
			"impact":     ImpactWeight,
			"risk":       RiskWeight,
			"relevance":  RelevanceWeight,
			"difficulty": DifficultyWeight,
			"cost":       CostWeight,
		},
	}
}
