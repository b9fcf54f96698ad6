package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory(" Tool ")
	assert.True(t, ok)
	assert.Equal(t, CategoryTool, c)

	_, ok = ParseCategory("weather")
	assert.False(t, ok)

	for _, c := range Categories() {
		assert.NotEqual(t, string(c), c.Label(), "label for %s", c)
		assert.NotEmpty(t, c.Color())
	}
}

func TestParseActionTypeIsExact(t *testing.T) {
	a, ok := ParseActionType("feature")
	assert.True(t, ok)
	assert.Equal(t, ActionFeature, a)

	_, ok = ParseActionType("Feature")
	assert.False(t, ok)
	assert.Len(t, ActionTypes(), 7)

	for _, a := range ActionTypes() {
		assert.NotEmpty(t, a.Label())
		assert.NotEmpty(t, a.Icon())
		assert.NotEmpty(t, a.Color())
	}
}

func TestParseTicketStatus(t *testing.T) {
	s, ok := ParseTicketStatus("in-progress")
	assert.True(t, ok)
	assert.Equal(t, StatusInProgress, s)
	assert.Equal(t, "In Progress", s.Label())

	_, ok = ParseTicketStatus("blocked")
	assert.False(t, ok)
	assert.Equal(t, []TicketStatus{StatusTodo, StatusInProgress, StatusDone}, TicketStatuses())
}

func TestFilterEnums(t *testing.T) {
	h, ok := ParseHeatSource("SOCIAL")
	assert.True(t, ok)
	assert.Equal(t, HeatSourceSocial, h)

	r, ok := ParseTimeRange("7d")
	assert.True(t, ok)
	assert.Equal(t, TimeRangeWeek, r)

	_, ok = ParseTimeRange("1y")
	assert.False(t, ok)
}

func TestFirstRelated(t *testing.T) {
	e := GlobalEvent{Related: []RelatedEntity{
		{Name: "Acme", Type: EntityOrganization},
		{Name: "Go", Type: EntityTechnology},
		{Name: "Initech", Type: EntityOrganization},
	}}

	name, ok := e.FirstRelated(EntityOrganization)
	assert.True(t, ok)
	assert.Equal(t, "Acme", name)

	_, ok = e.FirstRelated(EntityPerson)
	assert.False(t, ok)
}
