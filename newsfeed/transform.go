package newsfeed

import (
	"fmt"
	"math"
	"strings"
	"time"

	"opportunity-radar/models"
	"opportunity-radar/random"
)

type coordinates struct {
	Lat float64
	Lng float64
}

var continentCentroids = map[string]coordinates{
	"north america": {Lat: 39.8283, Lng: -98.5795},
	"south america": {Lat: -8.7832, Lng: -55.4915},
	"europe":        {Lat: 51.1657, Lng: 10.4515},
	"asia":          {Lat: 34.0479, Lng: 100.6197},
	"africa":        {Lat: -8.7832, Lng: 34.5085},
	"oceania":       {Lat: -25.2744, Lng: 133.7751},
	"australia":     {Lat: -25.2744, Lng: 133.7751},
}

// ContinentCoordinates returns the centroid for a continent name, or 0,0.
func ContinentCoordinates(continent string) (lat, lng float64) {
	c := continentCentroids[strings.ToLower(strings.TrimSpace(continent))]
	return c.Lat, c.Lng
}

// MapClassification maps a free-text classification onto a category.
// Keyword groups are checked in order; the first hit wins.
func MapClassification(classification string) models.Category {
	lower := strings.ToLower(classification)
	has := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(lower, w) {
				return true
			}
		}
		return false
	}

	switch {
	case has("technology", "tech"):
		return models.CategoryTool
	case has("market", "finance", "business"):
		return models.CategoryMarket
	case has("competition", "competitor"):
		return models.CategoryCompetitor
	case has("api", "developer"):
		return models.CategoryAPI
	case has("user", "feedback", "pain"):
		return models.CategoryPain
	}
	return models.CategoryTrend
}

// Transformer turns parsed items into map events. Heat, metrics, relevance
// and jitter are drawn from rand, so the output is not reproducible unless
// rand is.
type Transformer struct {
	rand random.Source
	now  func() time.Time
}

func NewTransformer(rand random.Source, now func() time.Time) *Transformer {
	if rand == nil {
		rand = random.New()
	}
	if now == nil {
		now = time.Now
	}
	return &Transformer{rand: rand, now: now}
}

func (t *Transformer) floorN(n float64) int {
	return int(math.Floor(t.rand.Float64() * n))
}

func (t *Transformer) ToEvents(items []Item, domain string) []models.GlobalEvent {
	events := make([]models.GlobalEvent, 0, len(items))
	seen := make(map[string]bool, len(items))
	for i, item := range items {
		e := t.toEvent(i, item, domain)
		// a citation key can collide with another item's index fallback
		if seen[e.ID] {
			e.ID = fmt.Sprintf("%s-%d", e.ID, i)
		}
		seen[e.ID] = true
		events = append(events, e)
	}
	return events
}

func (t *Transformer) toEvent(index int, item Item, domain string) models.GlobalEvent {
	baseLat, baseLng := ContinentCoordinates(item.Continent)
	lat := baseLat + (t.rand.Float64()-0.5)*15
	lng := baseLng + (t.rand.Float64()-0.5)*30

	base := 65
	switch item.Sentiment {
	case SentimentNegative:
		base = 85
	case SentimentPositive:
		base = 75
	}
	heat := base + t.floorN(15)

	metrics := models.HeatMetrics{
		News:        70 + t.floorN(30),
		Reddit:      t.floorN(60),
		Twitter:     t.floorN(60),
		GoogleTrend: t.floorN(70),
	}
	relevance := 70 + t.floorN(25)

	id := fmt.Sprintf("news-%d", index)
	if item.CitationKey != "" {
		id = "news-" + item.CitationKey
	}

	published := item.PublishedDate
	if published == "" {
		published = t.now().UTC().Format(time.RFC3339)
	}
	source := item.Source
	if source == "" {
		source = "Unknown Source"
	}
	level := models.ImpactMedium
	if item.Sentiment == SentimentNegative {
		level = models.ImpactHigh
	}
	voice := item.ReportingVoice
	if voice == "" {
		voice = "News"
	}
	region := item.Continent
	if region == "" {
		region = "Unknown region"
	}

	return models.GlobalEvent{
		ID:       id,
		Title:    item.Title,
		Summary:  item.Summary,
		Lat:      lat,
		Lng:      lng,
		Category: MapClassification(item.Classification),
		Heat:     heat,
		Metrics:  metrics,
		Timeline: []models.TimelineEvent{{
			Date:        published,
			Title:       "Published",
			Description: "Source: " + item.Source,
		}},
		Related: []models.RelatedEntity{{
			Name: source,
			Type: models.EntityOrganization,
		}},
		Impact: []models.ImpactAssessment{{
			Area:        "Market Relevance",
			Level:       level,
			Description: fmt.Sprintf("%s coverage from %s", voice, region),
		}},
		RelevanceToUserDomain: relevance,
		Domain:                domain,
	}
}
