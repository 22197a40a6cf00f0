package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"village/internal/service"
)

type createVisitorRequest struct {
	ResidentID  *int64  `json:"resident_id" binding:"omitempty,gt=0"`
	VisitorName string  `json:"visitor_name" binding:"required"`
	IDNumber    *string `json:"id_number"`
	Notes       string  `json:"notes"`
}

func (h *Handler) createVisitor(c *gin.Context) {
	var req createVisitorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	visitor, err := h.visitors.Create(c.Request.Context(), callerFrom(c), service.CreateVisitorInput{
		ResidentID:  req.ResidentID,
		VisitorName: req.VisitorName,
		IDNumber:    req.IDNumber,
		Notes:       req.Notes,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, visitorToResponse(*visitor))
}

func (h *Handler) listVisitors(c *gin.Context) {
	visitors, err := h.visitors.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(visitors, visitorToResponse))
}

func (h *Handler) getVisitor(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	visitor, err := h.visitors.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, visitorToResponse(*visitor))
}

func (h *Handler) deleteVisitor(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.visitors.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
