package prioritize

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"opportunity-radar/models"
)

const defaultScore = 50

// ValidateActions converts untrusted model output into actions. Every field
// is checked on its own: scores are coerced and clamped into [0,100] with 50
// for missing, non-numeric or zero values, unknown action types become
// monitoring, and non-array lists become empty.
func ValidateActions(raw []json.RawMessage, now time.Time) []models.PrioritizedAction {
	actions := make([]models.PrioritizedAction, 0, len(raw))
	for i, elem := range raw {
		var obj map[string]any
		if err := json.Unmarshal(elem, &obj); err != nil {
			obj = map[string]any{}
		}
		actions = append(actions, validateAction(obj, i, now))
	}
	return actions
}

func validateAction(a map[string]any, index int, now time.Time) models.PrioritizedAction {
	id := stringOr(a["id"], "")
	if id == "" {
		id = fmt.Sprintf("gemini-action-%d-%d", now.UnixMilli(), index)
	}

	actionType, ok := models.ParseActionType(stringOr(a["actionType"], ""))
	if !ok {
		actionType = models.ActionMonitoring
	}

	return models.PrioritizedAction{
		ID:          id,
		Title:       stringOr(a["title"], "Untitled Action"),
		Explanation: stringOr(a["explanation"], ""),
		Scores: models.Scores{
			PriorityScore:   score(a["priorityScore"]),
			ImpactScore:     score(a["impactScore"]),
			RiskScore:       score(a["riskScore"]),
			RelevanceScore:  score(a["relevanceScore"]),
			DifficultyScore: score(a["difficultyScore"]),
			CostScore:       score(a["costScore"]),
		},
		RecommendedSteps: stringList(a["recommendedSteps"]),
		SourceEventIDs:   stringList(a["sourceEventIds"]),
		ActionType:       actionType,
	}
}

// stringOr returns v when it is a non-empty string or a number.
func stringOr(v any, fallback string) string {
	switch t := v.(type) {
	case string:
		if t != "" {
			return t
		}
	case float64:
		if t != 0 {
			return strconv.FormatFloat(t, 'f', -1, 64)
		}
	}
	return fallback
}

// score coerces a JSON value to a number the way a loose numeric cast
// would, then clamps it and rounds to an integer.
func score(v any) int {
	var n float64
	switch t := v.(type) {
	case float64:
		n = t
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			n = 0
		} else if parsed, err := strconv.ParseFloat(s, 64); err == nil {
			n = parsed
		} else {
			n = math.NaN()
		}
	case bool:
		if t {
			n = 1
		}
	default:
		n = math.NaN()
	}
	if math.IsNaN(n) || n == 0 {
		n = defaultScore
	}
	return int(math.Round(clamp(n, 0, 100)))
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
