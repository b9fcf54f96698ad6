package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"opportunity-radar/models"
	"opportunity-radar/prioritize"
	"opportunity-radar/radar"
	"opportunity-radar/tickets"
)

type PrioritizeRequest struct {
	Domain     string   `json:"domain"`
	EventIDs   []string `json:"eventIds"`
	MaxActions int      `json:"maxActions"`
	// Category and Query narrow the current events when EventIDs is empty.
	Category string `json:"category"`
	Query    string `json:"q"`
}

// ActionView is an action with whether it was already turned into a ticket.
type ActionView struct {
	models.PrioritizedAction
	Converted bool `json:"converted"`
}

// Prioritize ranks the chosen events and stores the result as the current
// action list, unless a search replaced the events in the meantime. The engine never fails; a remote failure only changes the
// source of the result.
func (h *Handler) Prioritize(c *gin.Context) {
	var request PrioritizeRequest
	if err := c.ShouldBindJSON(&request); err != nil && !errors.Is(err, io.EOF) {
		h.fail(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	generation := h.session.Generation()
	var events []models.GlobalEvent
	if len(request.EventIDs) > 0 {
		events = h.session.EventsByID(request.EventIDs)
	} else {
		filter, err := radar.ParseFilter(request.Category, request.Query, "", "", "")
		if err != nil {
			h.fail(c, http.StatusBadRequest, err.Error(), nil)
			return
		}
		events = h.session.Events(filter)
	}

	domain := strings.TrimSpace(request.Domain)
	if domain == "" {
		domain = h.session.Domain()
	}

	result := h.engine.Prioritize(c.Request.Context(), prioritize.Request{
		Events:     events,
		Domain:     domain,
		MaxActions: request.MaxActions,
	})
	// a search that landed meanwhile owns the session now
	if !h.session.SetActionsFor(generation, result) {
		h.logger.WithField("domain", domain).Warn("Events replaced during prioritization, result not stored")
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) GetActions(c *gin.Context) {
	result, _ := h.session.Actions()
	views, err := h.actionViews(c, result.Actions)
	if err != nil {
		h.fail(c, http.StatusInternalServerError, "Database error", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"source":         result.Source,
		"fallbackReason": result.FallbackReason,
		"generatedAt":    result.GeneratedAt,
		"actions":        views,
	})
}

// ConvertAction turns an action of the current result into a todo ticket,
// at most once per action.
func (h *Handler) ConvertAction(c *gin.Context) {
	actionID := c.Param("id")
	action, ok := h.session.Action(actionID)
	if !ok {
		h.fail(c, http.StatusNotFound, "Action not found", nil)
		return
	}

	ticket, err := h.tickets.ConvertOnce(c.Request.Context(), action)
	if errors.Is(err, tickets.ErrAlreadyConverted) {
		h.fail(c, http.StatusConflict, "Ticket already exists for this action", nil)
		return
	}
	if err != nil {
		h.fail(c, http.StatusInternalServerError, "Failed to create ticket", err)
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

func (h *Handler) GetScoring(c *gin.Context) {
	c.JSON(http.StatusOK, prioritize.Contract())
}

func (h *Handler) actionViews(c *gin.Context, actions []models.PrioritizedAction) ([]ActionView, error) {
	views := make([]ActionView, 0, len(actions))
	for _, a := range actions {
		converted, err := h.tickets.HasSourceAction(c.Request.Context(), a.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, ActionView{PrioritizedAction: a, Converted: converted})
	}
	return views, nil
}
