package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"opportunity-radar/radar"
)

// EventReportPage renders the intelligence report of one event.
func (h *Handler) EventReportPage(c *gin.Context) {
	event, ok := h.session.Event(c.Param("id"))
	if !ok {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"error": "Event not found"})
		return
	}

	c.HTML(http.StatusOK, "report.html", gin.H{
		"Event":       event,
		"Domain":      h.session.Domain(),
		"GeneratedAt": h.now(),
	})
}

// EventsReportPage renders the summary table of the filtered events.
func (h *Handler) EventsReportPage(c *gin.Context) {
	filter, err := radar.ParseFilter(joinQuery(c, "category"), c.Query("q"), "", "", "")
	if err != nil {
		c.HTML(http.StatusBadRequest, "error.html", gin.H{"error": err.Error()})
		return
	}

	c.HTML(http.StatusOK, "events_report.html", gin.H{
		"Events":      h.session.Events(filter),
		"Domain":      h.session.Domain(),
		"GeneratedAt": h.now(),
	})
}
