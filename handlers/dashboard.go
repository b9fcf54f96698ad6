package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"opportunity-radar/models"
	"opportunity-radar/prioritize"
	"opportunity-radar/radar"
)

type DashboardData struct {
	Domain         string
	Filter         radar.Filter
	Counts         []categoryCount
	Events         []models.GlobalEvent
	Stats          radar.Stats
	Source         prioritize.Source
	FallbackReason string
	Actions        []ActionView
	Board          []models.TicketColumn
}

// Dashboard renders the radar, the latest actions and the ticket board.
func (h *Handler) Dashboard(c *gin.Context) {
	filter, err := radar.ParseFilter(joinQuery(c, "category"), c.Query("q"), c.Query("heatSource"), c.Query("timeRange"), c.Query("region"))
	if err != nil {
		c.HTML(http.StatusBadRequest, "error.html", gin.H{"error": err.Error()})
		return
	}

	result, _ := h.session.Actions()
	actions, err := h.actionViews(c, result.Actions)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load actions")
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"error": "Database error"})
		return
	}
	board, err := h.tickets.Board(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load ticket board")
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"error": "Database error"})
		return
	}

	data := DashboardData{
		Domain:         h.session.Domain(),
		Filter:         filter,
		Counts:         categoryCounts(h.session.CategoryCounts(), filter),
		Events:         h.session.Events(filter),
		Stats:          h.session.Stats(),
		Source:         result.Source,
		FallbackReason: result.FallbackReason,
		Actions:        actions,
		Board:          board,
	}

	c.HTML(http.StatusOK, "dashboard.html", data)
}

// joinQuery accepts both ?category=a,b and repeated ?category= values.
func joinQuery(c *gin.Context, key string) string {
	return strings.Join(c.QueryArray(key), ",")
}
