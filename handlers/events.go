package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"opportunity-radar/models"
	"opportunity-radar/newsfeed"
	"opportunity-radar/radar"
)

type SearchRequest struct {
	Query  string `json:"query"`
	Domain string `json:"domain"`
}

// Search fetches events for a query and makes them the current radar.
func (h *Handler) Search(c *gin.Context) {
	var request SearchRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.fail(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	domain := strings.TrimSpace(request.Domain)
	if domain == "" {
		domain = strings.TrimSpace(request.Query)
	}

	events, err := h.news.Search(c.Request.Context(), request.Query, domain)
	if err != nil {
		var statusErr *newsfeed.StatusError
		if errors.As(err, &statusErr) {
			h.fail(c, http.StatusBadGateway, statusErr.Error(), err)
			return
		}
		h.fail(c, http.StatusBadGateway, "News search failed: "+err.Error(), err)
		return
	}
	// a blank query leaves the current radar as it is
	if strings.TrimSpace(request.Query) != "" {
		h.session.ReplaceEvents(domain, events)
	}
	c.JSON(http.StatusOK, gin.H{"domain": domain, "events": events})
}

// GetEvents lists the current events narrowed by ?category=a,b&q=text.
func (h *Handler) GetEvents(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"domain": h.session.Domain(),
		"filter": filter,
		"events": h.session.Events(filter),
		"counts": h.session.CategoryCounts(),
	})
}

func (h *Handler) GetEvent(c *gin.Context) {
	event, ok := h.session.Event(c.Param("id"))
	if !ok {
		h.fail(c, http.StatusNotFound, "Event not found", nil)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *Handler) GetStats(c *gin.Context) {
	counts, err := h.tickets.Counts(c.Request.Context())
	if err != nil {
		h.fail(c, http.StatusInternalServerError, "Database error", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events":  h.session.Stats(),
		"tickets": counts,
	})
}

func (h *Handler) bindFilter(c *gin.Context) (radar.Filter, bool) {
	filter, err := radar.ParseFilter(joinQuery(c, "category"), c.Query("q"), c.Query("heatSource"), c.Query("timeRange"), c.Query("region"))
	if err != nil {
		h.fail(c, http.StatusBadRequest, err.Error(), nil)
		return radar.Filter{}, false
	}
	return filter, true
}

// categoryCount is one row of the dashboard category filter.
type categoryCount struct {
	Category models.Category
	Count    int
	Selected bool
}

func categoryCounts(counts map[models.Category]int, filter radar.Filter) []categoryCount {
	out := make([]categoryCount, 0, len(counts))
	for _, cat := range models.Categories() {
		selected := len(filter.Categories) == 0
		for _, f := range filter.Categories {
			if f == cat {
				selected = true
			}
		}
		out = append(out, categoryCount{Category: cat, Count: counts[cat], Selected: selected})
	}
	return out
}
