package models

import "strings"

// Category is the closed set of market signal kinds shown on the radar.
type Category string

const (
	CategoryTrend      Category = "trend"
	CategoryTool       Category = "tool"
	CategoryAPI        Category = "api"
	CategoryCompetitor Category = "competitor"
	CategoryPain       Category = "pain"
	CategoryMarket     Category = "market"
)

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{
		CategoryTrend,
		CategoryTool,
		CategoryAPI,
		CategoryCompetitor,
		CategoryPain,
		CategoryMarket,
	}
}

// ParseCategory reports whether s names a known category.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case CategoryTrend, CategoryTool, CategoryAPI, CategoryCompetitor, CategoryPain, CategoryMarket:
		return c, true
	}
	return "", false
}

// Label returns the human readable name of the category.
func (c Category) Label() string {
	switch c {
	case CategoryTrend:
		return "New Trends"
	case CategoryTool:
		return "New Tools"
	case CategoryAPI:
		return "New APIs"
	case CategoryCompetitor:
		return "Competitor Moves"
	case CategoryPain:
		return "User Pain Points"
	case CategoryMarket:
		return "Market Shifts"
	}
	return string(c)
}

// Color returns the marker color of the category.
func (c Category) Color() string {
	switch c {
	case CategoryTrend:
		return "hsl(185, 100%, 50%)"
	case CategoryTool:
		return "hsl(270, 80%, 60%)"
	case CategoryAPI:
		return "hsl(220, 90%, 60%)"
	case CategoryCompetitor:
		return "hsl(35, 90%, 55%)"
	case CategoryPain:
		return "hsl(340, 80%, 60%)"
	case CategoryMarket:
		return "hsl(145, 70%, 50%)"
	}
	return "hsl(0, 0%, 60%)"
}

type EntityType string

const (
	EntityOrganization EntityType = "organization"
	EntityLocation     EntityType = "location"
	EntityPerson       EntityType = "person"
	EntityTechnology   EntityType = "technology"
)

type ImpactLevel string

const (
	ImpactLow    ImpactLevel = "low"
	ImpactMedium ImpactLevel = "medium"
	ImpactHigh   ImpactLevel = "high"
)

// HeatSource frames which metric the heat aggregate is read from. Display only.
type HeatSource string

const (
	HeatSourceNews     HeatSource = "news"
	HeatSourceSocial   HeatSource = "social"
	HeatSourceCombined HeatSource = "combined"
)

func ParseHeatSource(s string) (HeatSource, bool) {
	h := HeatSource(strings.ToLower(strings.TrimSpace(s)))
	switch h {
	case HeatSourceNews, HeatSourceSocial, HeatSourceCombined:
		return h, true
	}
	return "", false
}

// TimeRange is the window selected on the radar. Display only.
type TimeRange string

const (
	TimeRangeDay   TimeRange = "24h"
	TimeRangeWeek  TimeRange = "7d"
	TimeRangeMonth TimeRange = "30d"
)

func ParseTimeRange(s string) (TimeRange, bool) {
	r := TimeRange(strings.ToLower(strings.TrimSpace(s)))
	switch r {
	case TimeRangeDay, TimeRangeWeek, TimeRangeMonth:
		return r, true
	}
	return "", false
}

// Regions lists the region filter values in display order.
var Regions = []string{"global", "north-america", "europe", "asia", "middle-east"}

type HeatMetrics struct {
	News        int `json:"news"`
	Reddit      int `json:"reddit"`
	Twitter     int `json:"twitter"`
	GoogleTrend int `json:"googleTrend"`
}

type TimelineEvent struct {
	Date        string `json:"date"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type RelatedEntity struct {
	Name string     `json:"name"`
	Type EntityType `json:"type"`
}

type ImpactAssessment struct {
	Area        string      `json:"area"`
	Level       ImpactLevel `json:"level"`
	Description string      `json:"description"`
}

// GlobalEvent is one observed market signal placed on the map.
type GlobalEvent struct {
	ID                    string             `json:"id"`
	Title                 string             `json:"title"`
	Summary               string             `json:"summary"`
	Lat                   float64            `json:"lat"`
	Lng                   float64            `json:"lng"`
	Category              Category           `json:"category"`
	Heat                  int                `json:"heat"`
	Metrics               HeatMetrics        `json:"metrics"`
	Timeline              []TimelineEvent    `json:"timeline"`
	Related               []RelatedEntity    `json:"related"`
	Impact                []ImpactAssessment `json:"impact"`
	RelevanceToUserDomain int                `json:"relevanceToUserDomain"`
	Domain                string             `json:"domain"`
}

// FirstRelated returns the name of the first related entity of type t.
func (e GlobalEvent) FirstRelated(t EntityType) (string, bool) {
	for _, r := range e.Related {
		if r.Type == t {
			return r.Name, true
		}
	}
	return "", false
}
