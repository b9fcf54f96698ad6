package prioritize

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"opportunity-radar/models"
	"opportunity-radar/random"
)

type actionTemplate struct {
	title       string
	explanation string
	actionType  models.ActionType
	steps       []string
}

// One archetype per action type.
var actionTemplates = []actionTemplate{
	{
		title:       "Integrate {technology} into your product",
		explanation: "Based on {eventTitle}, integrating {technology} could significantly enhance your product capabilities and capture market demand.",
		actionType:  models.ActionIntegration,
		steps: []string{
			"Review {technology} documentation and API specs",
			"Prototype integration in development environment",
			"Test with subset of users",
			"Plan phased rollout",
		},
	},
	{
		title:       "Attend {event} for networking",
		explanation: "The activity around {location} suggests key industry players are gathering. Attending could yield valuable partnerships.",
		actionType:  models.ActionEvent,
		steps: []string{
			"Register for the event",
			"Prepare pitch deck and demos",
			"Schedule meetings with target partners",
			"Follow up within 48 hours post-event",
		},
	},
	{
		title:       "Add {feature} to address user pain points",
		explanation: "User feedback from {location} reveals demand for {feature}. Addressing this could reduce churn and improve retention.",
		actionType:  models.ActionFeature,
		steps: []string{
			"Conduct user interviews to validate need",
			"Design solution with UX team",
			"Build MVP version",
			"A/B test with control group",
		},
	},
	{
		title:       "Partner with {organization}",
		explanation: "The competitive moves by {organization} present an opportunity for strategic partnership rather than competition.",
		actionType:  models.ActionPartnership,
		steps: []string{
			"Research partnership opportunities",
			"Prepare partnership proposal",
			"Reach out to key decision makers",
			"Negotiate terms and scope",
		},
	},
	{
		title:       "Monitor regulatory changes in {region}",
		explanation: "Recent developments in {region} indicate regulatory shifts. Proactive monitoring will ensure compliance and first-mover advantage.",
		actionType:  models.ActionMonitoring,
		steps: []string{
			"Set up regulatory news alerts",
			"Engage local legal counsel",
			"Document current compliance status",
			"Prepare contingency plans",
		},
	},
	{
		title:       "Optimize {area} for better performance",
		explanation: "Market data suggests {area} optimization could significantly improve user experience and operational efficiency.",
		actionType:  models.ActionOptimization,
		steps: []string{
			"Audit current {area} metrics",
			"Identify bottlenecks",
			"Implement improvements",
			"Measure and iterate",
		},
	},
	{
		title:       "Expand to {market} market",
		explanation: "Growing activity in {market} indicates untapped opportunity. Early entry could establish market leadership.",
		actionType:  models.ActionExpansion,
		steps: []string{
			"Research {market} market requirements",
			"Adapt product for local needs",
			"Establish local partnerships",
			"Launch pilot program",
		},
	},
}

// FeatureFor names the product feature an event category suggests.
func FeatureFor(c models.Category) string {
	switch c {
	case models.CategoryTrend:
		return "trend tracking dashboard"
	case models.CategoryTool:
		return "integrated tooling"
	case models.CategoryAPI:
		return "API connectivity"
	case models.CategoryCompetitor:
		return "competitive analysis"
	case models.CategoryPain:
		return "improved UX flow"
	case models.CategoryMarket:
		return "market analytics"
	}
	return "new feature"
}

// AreaFor names the operational area an event category points at.
func AreaFor(c models.Category) string {
	switch c {
	case models.CategoryTrend:
		return "trend analysis"
	case models.CategoryTool:
		return "tool integration"
	case models.CategoryAPI:
		return "API performance"
	case models.CategoryCompetitor:
		return "competitive positioning"
	case models.CategoryPain:
		return "user experience"
	case models.CategoryMarket:
		return "market response"
	}
	return "operations"
}

// Heuristic fills action templates from event data with randomized scores.
type Heuristic struct {
	rand random.Source
	now  func() time.Time
}

func NewHeuristic(rand random.Source, now func() time.Time) *Heuristic {
	if rand == nil {
		rand = random.New()
	}
	if now == nil {
		now = time.Now
	}
	return &Heuristic{rand: rand, now: now}
}

// Prioritize builds one action for each of the first n+2 events and keeps
// the n with the highest priority. It never fails.
func (h *Heuristic) Prioritize(_ context.Context, events []models.GlobalEvent, _ string, n int) ([]models.PrioritizedAction, error) {
	if n <= 0 {
		return []models.PrioritizedAction{}, nil
	}
	limit := min(len(events), n+2)
	actions := make([]models.PrioritizedAction, 0, limit)
	for _, event := range events[:limit] {
		actions = append(actions, h.actionFor(event))
	}
	sortByPriority(actions)
	if len(actions) > n {
		actions = actions[:n]
	}
	return actions, nil
}

func (h *Heuristic) actionFor(event models.GlobalEvent) models.PrioritizedAction {
	tpl := actionTemplates[h.rand.IntN(len(actionTemplates))]

	impact := int(math.Round(math.Min(100, float64(event.Heat)*0.8+h.rand.Float64()*20)))
	risk := int(math.Round(h.rand.Float64()*60 + 20))
	relevance := event.RelevanceToUserDomain
	difficulty := int(math.Round(h.rand.Float64()*50 + 25))
	cost := int(math.Round(h.rand.Float64()*60 + 20))

	technology, ok := event.FirstRelated(models.EntityTechnology)
	if !ok {
		technology = "new technology"
	}
	organization, ok := event.FirstRelated(models.EntityOrganization)
	if !ok {
		organization = "key player"
	}
	location, hasLocation := event.FirstRelated(models.EntityLocation)
	if !hasLocation {
		location = "the region"
	}
	market := location
	if !hasLocation {
		market = "emerging"
	}

	fill := strings.NewReplacer(
		"{technology}", technology,
		"{organization}", organization,
		"{location}", location,
		"{region}", location,
		"{market}", market,
		"{eventTitle}", event.Title,
		"{event}", event.Title,
		"{feature}", FeatureFor(event.Category),
		"{area}", AreaFor(event.Category),
	).Replace

	steps := make([]string, len(tpl.steps))
	for i, s := range tpl.steps {
		steps[i] = fill(s)
	}

	return models.PrioritizedAction{
		ID:          fmt.Sprintf("action-%s-%d", event.ID, h.now().UnixMilli()),
		Title:       fill(tpl.title),
		Explanation: fill(tpl.explanation),
		Scores: models.Scores{
			PriorityScore:   CalculatePriorityScore(impact, risk, relevance, difficulty, cost),
			ImpactScore:     impact,
			RiskScore:       risk,
			RelevanceScore:  relevance,
			DifficultyScore: difficulty,
			CostScore:       cost,
		},
		RecommendedSteps: steps,
		SourceEventIDs:   []string{event.ID},
		ActionType:       tpl.actionType,
	}
}

func sortByPriority(actions []models.PrioritizedAction) {
	sort.SliceStable(actions, func(i, j int) bool {
		return actions[i].PriorityScore > actions[j].PriorityScore
	})
}
