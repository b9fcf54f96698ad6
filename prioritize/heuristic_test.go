package prioritize

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opportunity-radar/models"
	"opportunity-radar/random"
)

var testNow = time.UnixMilli(1717243200000)

func testEvent(id string, heat, relevance int, category models.Category, related ...models.RelatedEntity) models.GlobalEvent {
	return models.GlobalEvent{
		ID:                    id,
		Title:                 "Event " + id,
		Summary:               "Summary " + id,
		Category:              category,
		Heat:                  heat,
		RelevanceToUserDomain: relevance,
		Related:               related,
	}
}

func TestHeuristicFillsTemplateAndScores(t *testing.T) {
	// template 0 (integration), then midpoint draws for every score
	h := NewHeuristic(random.NewSequence(0.0, 0.5, 0.5, 0.5, 0.5), func() time.Time { return testNow })
	event := testEvent("news-1", 90, 80, models.CategoryTool,
		models.RelatedEntity{Name: "Reuters", Type: models.EntityOrganization},
		models.RelatedEntity{Name: "Kubernetes", Type: models.EntityTechnology},
	)

	actions, err := h.Prioritize(context.Background(), []models.GlobalEvent{event}, "cloud", 8)
	require.NoError(t, err)
	require.Len(t, actions, 1)

	a := actions[0]
	assert.Equal(t, fmt.Sprintf("action-news-1-%d", testNow.UnixMilli()), a.ID)
	assert.Equal(t, models.ActionIntegration, a.ActionType)
	assert.Equal(t, "Integrate Kubernetes into your product", a.Title)
	assert.Equal(t, "Based on Event news-1, integrating Kubernetes could significantly enhance your product capabilities and capture market demand.", a.Explanation)
	assert.Equal(t, "Review Kubernetes documentation and API specs", a.RecommendedSteps[0])
	assert.Len(t, a.RecommendedSteps, 4)
	assert.Equal(t, []string{"news-1"}, a.SourceEventIDs)

	assert.Equal(t, 82, a.ImpactScore)
	assert.Equal(t, 50, a.RiskScore)
	assert.Equal(t, 80, a.RelevanceScore)
	assert.Equal(t, 50, a.DifficultyScore)
	assert.Equal(t, 50, a.CostScore)
	assert.Equal(t, CalculatePriorityScore(82, 50, 80, 50, 50), a.PriorityScore)
	assert.Equal(t, 69, a.PriorityScore)
}

func TestHeuristicPlaceholderDefaults(t *testing.T) {
	event := testEvent("e", 50, 70, models.CategoryPain)
	cases := []struct {
		draw  float64
		title string
		step  string
	}{
		{0.0, "Integrate new technology into your product", "Review new technology documentation and API specs"},
		{1.0 / 7, "Attend Event e for networking", "Register for the event"},
		{2.0 / 7, "Add improved UX flow to address user pain points", "Conduct user interviews to validate need"},
		{3.0 / 7, "Partner with key player", "Research partnership opportunities"},
		{4.0 / 7, "Monitor regulatory changes in the region", "Set up regulatory news alerts"},
		{5.0 / 7, "Optimize user experience for better performance", "Audit current user experience metrics"},
		{6.0 / 7, "Expand to emerging market", "Research emerging market requirements"},
	}
	for _, tc := range cases {
		// nudge past float rounding at the bucket edge
		h := NewHeuristic(random.NewSequence(tc.draw+1e-9, 0.5), nil)
		actions, err := h.Prioritize(context.Background(), []models.GlobalEvent{event}, "d", 1)
		require.NoError(t, err)
		require.Len(t, actions, 1)
		assert.Equal(t, tc.title, actions[0].Title)
		assert.Equal(t, tc.step, actions[0].RecommendedSteps[0])
	}
}

func TestHeuristicLocationPlaceholders(t *testing.T) {
	event := testEvent("e", 50, 70, models.CategoryMarket,
		models.RelatedEntity{Name: "Brazil", Type: models.EntityLocation})

	h := NewHeuristic(random.NewSequence(6.0/7+1e-9, 0.5), nil)
	actions, err := h.Prioritize(context.Background(), []models.GlobalEvent{event}, "d", 1)
	require.NoError(t, err)
	assert.Equal(t, "Expand to Brazil market", actions[0].Title)
	assert.Equal(t, "Growing activity in Brazil indicates untapped opportunity. Early entry could establish market leadership.", actions[0].Explanation)
}

func TestHeuristicConsidersNPlusTwoEventsAndSorts(t *testing.T) {
	events := make([]models.GlobalEvent, 12)
	for i := range events {
		events[i] = testEvent(fmt.Sprintf("e%d", i), 10*i, 70, models.CategoryTrend)
	}
	seq := random.NewSequence(0.5)
	h := NewHeuristic(seq, nil)

	actions, err := h.Prioritize(context.Background(), events, "d", 3)
	require.NoError(t, err)
	require.Len(t, actions, 3)
	assert.Equal(t, 25, seq.Draws(), "five events, five draws each")

	// identical draws, so priority follows heat: e4 > e3 > e2
	assert.Equal(t, []string{"e4"}, actions[0].SourceEventIDs)
	assert.Equal(t, []string{"e3"}, actions[1].SourceEventIDs)
	assert.Equal(t, []string{"e2"}, actions[2].SourceEventIDs)
	for i := 1; i < len(actions); i++ {
		assert.GreaterOrEqual(t, actions[i-1].PriorityScore, actions[i].PriorityScore)
	}
}

func TestHeuristicFewerEventsThanRequested(t *testing.T) {
	h := NewHeuristic(random.NewSeeded(1), nil)
	actions, err := h.Prioritize(context.Background(), []models.GlobalEvent{testEvent("a", 80, 90, models.CategoryAPI)}, "d", 8)
	require.NoError(t, err)
	assert.Len(t, actions, 1)

	actions, err = h.Prioritize(context.Background(), nil, "d", 8)
	require.NoError(t, err)
	assert.Empty(t, actions)
}

func TestHeuristicScoreRanges(t *testing.T) {
	h := NewHeuristic(random.NewSeeded(99), nil)
	events := make([]models.GlobalEvent, 50)
	for i := range events {
		events[i] = testEvent(fmt.Sprintf("e%d", i), 65+i%35, 70+i%25, models.Categories()[i%6])
	}
	actions, err := h.Prioritize(context.Background(), events, "d", 48)
	require.NoError(t, err)
	for _, a := range actions {
		assert.LessOrEqual(t, a.ImpactScore, 100)
		assert.GreaterOrEqual(t, a.RiskScore, 20)
		assert.LessOrEqual(t, a.RiskScore, 80)
		assert.GreaterOrEqual(t, a.DifficultyScore, 25)
		assert.LessOrEqual(t, a.DifficultyScore, 75)
		assert.GreaterOrEqual(t, a.CostScore, 20)
		assert.LessOrEqual(t, a.CostScore, 80)
		_, ok := models.ParseActionType(string(a.ActionType))
		assert.True(t, ok)
	}
}

func TestFeatureAndAreaCoverEveryCategory(t *testing.T) {
	for _, c := range models.Categories() {
		assert.NotEqual(t, "new feature", FeatureFor(c), c)
		assert.NotEqual(t, "operations", AreaFor(c), c)
	}
}
