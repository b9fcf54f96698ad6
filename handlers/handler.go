package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"opportunity-radar/logging"
	"opportunity-radar/models"
	"opportunity-radar/prioritize"
	"opportunity-radar/radar"
	"opportunity-radar/tickets"
)

// NewsSearcher turns a query into events; *newsfeed.Service implements it.
type NewsSearcher interface {
	Search(ctx context.Context, query, domain string) ([]models.GlobalEvent, error)
}

// Prioritizer ranks events; *prioritize.Engine implements it.
type Prioritizer interface {
	Prioritize(ctx context.Context, req prioritize.Request) prioritize.Result
}

// Handler serves the JSON API and the HTML pages.
type Handler struct {
	session *radar.Session
	tickets *tickets.Store
	news    NewsSearcher
	engine  Prioritizer
	logger  logging.Logger
	now     func() time.Time
}

type Deps struct {
	Session *radar.Session
	Tickets *tickets.Store
	News    NewsSearcher
	Engine  Prioritizer
	Logger  logging.Logger
	Now     func() time.Time
}

func New(d Deps) *Handler {
	if d.Logger == nil {
		d.Logger = logging.NewDiscard()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Session == nil {
		d.Session = radar.NewSession(d.Now)
	}
	return &Handler{
		session: d.Session,
		tickets: d.Tickets,
		news:    d.News,
		engine:  d.Engine,
		logger:  d.Logger,
		now:     d.Now,
	}
}

// Register mounts every route on r. r must have the page templates loaded.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/dashboard")
	})
	r.GET("/dashboard", h.Dashboard)
	r.GET("/events/report", h.EventsReportPage)
	r.GET("/events/:id/report", h.EventReportPage)

	api := r.Group("/api")
	{
		api.POST("/search", h.Search)
		api.GET("/events", h.GetEvents)
		api.GET("/events/:id", h.GetEvent)
		api.GET("/stats", h.GetStats)

		api.POST("/prioritize", h.Prioritize)
		api.GET("/actions", h.GetActions)
		api.POST("/actions/:id/ticket", h.ConvertAction)
		api.GET("/scoring", h.GetScoring)

		api.GET("/tickets", h.ListTickets)
		api.GET("/tickets/board", h.GetBoard)
		api.POST("/tickets", h.CreateTicket)
		api.GET("/tickets/:id", h.GetTicket)
		api.PATCH("/tickets/:id", h.UpdateTicket)
		api.DELETE("/tickets/:id", h.DeleteTicket)
		api.PUT("/tickets/:id/status", h.MoveTicket)
	}
}

// fail logs err against the request and answers with a JSON error.
func (h *Handler) fail(c *gin.Context, status int, msg string, err error) {
	entry := h.logger.WithFields(logging.Fields{
		"path":       c.Request.URL.Path,
		"request_id": c.GetString("request_id"),
	})
	if err != nil {
		entry = entry.WithError(err)
		_ = c.Error(err)
	}
	if status >= http.StatusInternalServerError {
		entry.Error(msg)
	} else {
		entry.Debug(msg)
	}
	c.JSON(status, gin.H{"error": msg})
}
