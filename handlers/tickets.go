package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"opportunity-radar/models"
	"opportunity-radar/tickets"
)

type StatusRequest struct {
	Status models.TicketStatus `json:"status"`
}

func (h *Handler) ListTickets(c *gin.Context) {
	var (
		list []models.Ticket
		err  error
	)
	if status := c.Query("status"); status != "" {
		list, err = h.tickets.ListByStatus(c.Request.Context(), models.TicketStatus(status))
	} else {
		list, err = h.tickets.List(c.Request.Context())
	}
	if err != nil {
		h.ticketError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetBoard(c *gin.Context) {
	board, err := h.tickets.Board(c.Request.Context())
	if err != nil {
		h.ticketError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"columns": board, "tags": models.DefaultTags})
}

func (h *Handler) CreateTicket(c *gin.Context) {
	var request tickets.NewTicket
	if err := c.ShouldBindJSON(&request); err != nil {
		h.fail(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ticket, err := h.tickets.Create(c.Request.Context(), request)
	if err != nil {
		h.ticketError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

func (h *Handler) GetTicket(c *gin.Context) {
	ticket, found, err := h.tickets.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.ticketError(c, err)
		return
	}
	if !found {
		h.fail(c, http.StatusNotFound, "Ticket not found", nil)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *Handler) UpdateTicket(c *gin.Context) {
	var patch tickets.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.fail(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ticket, found, err := h.tickets.Update(c.Request.Context(), c.Param("id"), patch)
	h.ticketResult(c, ticket, found, err)
}

func (h *Handler) MoveTicket(c *gin.Context) {
	var request StatusRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.fail(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ticket, found, err := h.tickets.Move(c.Request.Context(), c.Param("id"), request.Status)
	h.ticketResult(c, ticket, found, err)
}

func (h *Handler) DeleteTicket(c *gin.Context) {
	deleted, err := h.tickets.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.ticketError(c, err)
		return
	}
	if !deleted {
		h.fail(c, http.StatusNotFound, "Ticket not found", nil)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ticketResult(c *gin.Context, ticket models.Ticket, found bool, err error) {
	if err != nil {
		h.ticketError(c, err)
		return
	}
	if !found {
		h.fail(c, http.StatusNotFound, "Ticket not found", nil)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

// ticketError maps validation failures to 400 and anything else to 500.
func (h *Handler) ticketError(c *gin.Context, err error) {
	if errors.Is(err, tickets.ErrInvalidStatus) ||
		errors.Is(err, tickets.ErrInvalidActionType) ||
		errors.Is(err, tickets.ErrInvalidDueDate) {
		h.fail(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	h.fail(c, http.StatusInternalServerError, "Database error", err)
}
