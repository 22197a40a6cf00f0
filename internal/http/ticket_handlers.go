package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"village/internal/domain"
	"village/internal/service"
)

type createTicketRequest struct {
	UserID      *int64 `json:"user_id" binding:"omitempty,gt=0"`
	UnitID      *int64 `json:"unit_id" binding:"omitempty,gt=0"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
}

type updateTicketRequest struct {
	Title       domain.Optional[string] `json:"title"`
	Description domain.Optional[string] `json:"description"`
	UnitID      domain.Optional[int64]  `json:"unit_id"`
	Status      domain.Optional[string] `json:"status"`
}

func (h *Handler) createTicket(c *gin.Context) {
	var req createTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	ticket, err := h.tickets.Create(c.Request.Context(), callerFrom(c), service.CreateTicketInput{
		UserID:      req.UserID,
		UnitID:      req.UnitID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ticketToResponse(*ticket))
}

func (h *Handler) listTickets(c *gin.Context) {
	tickets, err := h.tickets.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(tickets, ticketToResponse))
}

func (h *Handler) getTicket(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ticket, err := h.tickets.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticketToResponse(*ticket))
}

func (h *Handler) updateTicket(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req updateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	if req.Status.Set && !req.Status.Null {
		if err := validateVar("status", req.Status.Value, "ticket_status"); err != nil {
			h.writeError(c, err)
			return
		}
	}

	ticket, err := h.tickets.Update(c.Request.Context(), id, service.UpdateTicketInput{
		Title:       req.Title,
		Description: req.Description,
		UnitID:      req.UnitID,
		Status:      req.Status,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticketToResponse(*ticket))
}

func (h *Handler) deleteTicket(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.tickets.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
