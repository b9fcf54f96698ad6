package prioritize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opportunity-radar/models"
)

func validate(t *testing.T, text string) []models.PrioritizedAction {
	t.Helper()
	raw, err := ParseActionArray(text)
	require.NoError(t, err)
	return ValidateActions(raw, testNow)
}

func TestValidateActionsClampsAndDefaults(t *testing.T) {
	actions := validate(t, `[{
		"id": "a1",
		"title": "Ship the thing",
		"explanation": "Because.",
		"priorityScore": 140,
		"impactScore": -12,
		"riskScore": "35",
		"relevanceScore": "high",
		"costScore": null,
		"recommendedSteps": ["one", 2, "three"],
		"sourceEventIds": "news-1",
		"actionType": "partnership"
	}]`)
	require.Len(t, actions, 1)
	a := actions[0]

	assert.Equal(t, "a1", a.ID)
	assert.Equal(t, "Ship the thing", a.Title)
	assert.Equal(t, "Because.", a.Explanation)
	assert.Equal(t, 100, a.PriorityScore)
	assert.Equal(t, 0, a.ImpactScore)
	assert.Equal(t, 35, a.RiskScore)
	assert.Equal(t, 50, a.RelevanceScore, "non-numeric string")
	assert.Equal(t, 50, a.DifficultyScore, "missing")
	assert.Equal(t, 50, a.CostScore, "null")
	assert.Equal(t, []string{"one", "three"}, a.RecommendedSteps)
	assert.Equal(t, []string{}, a.SourceEventIDs)
	assert.Equal(t, models.ActionPartnership, a.ActionType)
}

func TestValidateActionsUnknownTypeAndEmptyObject(t *testing.T) {
	actions := validate(t, `[{"actionType": "moonshot", "priorityScore": 0}, 42, {}]`)
	require.Len(t, actions, 3)

	assert.Equal(t, models.ActionMonitoring, actions[0].ActionType)
	assert.Equal(t, 50, actions[0].PriorityScore, "zero is treated as missing")
	assert.Equal(t, "gemini-action-1717243200000-0", actions[0].ID)
	assert.Equal(t, "Untitled Action", actions[0].Title)

	assert.Equal(t, "gemini-action-1717243200000-1", actions[1].ID)
	assert.Equal(t, models.ActionMonitoring, actions[1].ActionType)
	assert.Equal(t, []string{}, actions[1].RecommendedSteps)

	for _, a := range actions {
		for _, s := range []int{a.PriorityScore, a.ImpactScore, a.RiskScore, a.RelevanceScore, a.DifficultyScore, a.CostScore} {
			assert.GreaterOrEqual(t, s, 0)
			assert.LessOrEqual(t, s, 100)
		}
	}
}

func TestValidateActionsRoundsFractions(t *testing.T) {
	actions := validate(t, `[{"impactScore": 72.5, "riskScore": 99.4, "costScore": true}]`)
	require.Len(t, actions, 1)
	assert.Equal(t, 73, actions[0].ImpactScore)
	assert.Equal(t, 99, actions[0].RiskScore)
	assert.Equal(t, 1, actions[0].CostScore)
}

func TestParseActionArrayRejectsNonArrays(t *testing.T) {
	_, err := ParseActionArray(`{"actions": []}`)
	assert.ErrorIs(t, err, ErrNotArray)

	_, err = ParseActionArray("```json\n[]\n```")
	assert.Error(t, err)

	raw, err := ParseActionArray(`[]`)
	require.NoError(t, err)
	assert.Empty(t, raw)
}
