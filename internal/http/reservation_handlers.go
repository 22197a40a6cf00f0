package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"village/internal/domain"
	"village/internal/service"
)

type createReservationRequest struct {
	AmenityID int64     `json:"amenity_id" binding:"required,gt=0"`
	UserID    *int64    `json:"user_id" binding:"omitempty,gt=0"`
	StartAt   time.Time `json:"start_at" binding:"required"`
	EndAt     time.Time `json:"end_at" binding:"required,gtfield=StartAt"`
}

type availabilityQuery struct {
	AmenityID int64     `form:"amenity_id" binding:"required,gt=0"`
	StartAt   time.Time `form:"start_at" binding:"required"`
	EndAt     time.Time `form:"end_at" binding:"required"`
}

type updateReservationRequest struct {
	Status string `json:"status" binding:"required,reservation_status"`
}

func (h *Handler) createReservation(c *gin.Context) {
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	res, err := h.reservations.Create(c.Request.Context(), callerFrom(c), service.CreateReservationInput{
		AmenityID: req.AmenityID,
		UserID:    req.UserID,
		StartAt:   req.StartAt,
		EndAt:     req.EndAt,
	})
	if err != nil {
		if errors.Is(err, domain.ErrSlotUnavailable) {
			h.metrics.reservationOutcome("rejected")
		}
		h.writeError(c, err)
		return
	}
	h.metrics.reservationOutcome("accepted")
	c.JSON(http.StatusCreated, reservationToResponse(*res))
}

// checkAvailability answers whether a slot is free without booking it.
func (h *Handler) checkAvailability(c *gin.Context) {
	var q availabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.badRequest(c, err)
		return
	}
	if _, err := h.units.GetAmenity(c.Request.Context(), q.AmenityID); err != nil {
		h.writeError(c, err)
		return
	}

	err := h.reservations.Propose(c.Request.Context(), q.AmenityID, q.StartAt, q.EndAt)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"available": true})
	case errors.Is(err, domain.ErrSlotUnavailable):
		c.JSON(http.StatusOK, gin.H{"available": false, "reason": err.Error()})
	default:
		h.writeError(c, err)
	}
}

func (h *Handler) listReservations(c *gin.Context) {
	reservations, err := h.reservations.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(reservations, reservationToResponse))
}

func (h *Handler) getReservation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	res, err := h.reservations.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, reservationToResponse(*res))
}

func (h *Handler) updateReservation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req updateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	res, err := h.reservations.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, reservationToResponse(*res))
}

func (h *Handler) deleteReservation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.reservations.Delete(c.Request.Context(), callerFrom(c), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
