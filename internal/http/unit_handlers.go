package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"village/internal/domain"
	"village/internal/service"
)

type createUnitRequest struct {
	Code    string  `json:"code" binding:"required"`
	OwnerID *int64  `json:"owner_id" binding:"omitempty,gt=0"`
	AreaM2  float64 `json:"area_m2" binding:"gte=0"`
}

type updateUnitRequest struct {
	Code    domain.Optional[string]  `json:"code"`
	OwnerID domain.Optional[int64]   `json:"owner_id"`
	AreaM2  domain.Optional[float64] `json:"area_m2"`
}

type createAmenityRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *Handler) listUnits(c *gin.Context) {
	units, err := h.units.ListUnits(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(units, unitToResponse))
}

func (h *Handler) createUnit(c *gin.Context) {
	var req createUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	unit, err := h.units.CreateUnit(c.Request.Context(), service.CreateUnitInput{
		Code:    req.Code,
		OwnerID: req.OwnerID,
		AreaM2:  req.AreaM2,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, unitToResponse(*unit))
}

func (h *Handler) getUnit(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	unit, err := h.units.GetUnit(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, unitToResponse(*unit))
}

func (h *Handler) updateUnit(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req updateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	unit, err := h.units.UpdateUnit(c.Request.Context(), id, domain.UnitPatch{
		Code:    req.Code,
		OwnerID: req.OwnerID,
		AreaM2:  req.AreaM2,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, unitToResponse(*unit))
}

func (h *Handler) deleteUnit(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	detach, err := strconv.ParseBool(c.DefaultQuery("detach", "false"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid flag detach"})
		return
	}

	if err := h.units.DeleteUnit(c.Request.Context(), id, detach); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id, "detached": detach})
}

func (h *Handler) listAmenities(c *gin.Context) {
	amenities, err := h.units.ListAmenities(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(amenities, amenityToResponse))
}

func (h *Handler) createAmenity(c *gin.Context) {
	var req createAmenityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	amenity, err := h.units.CreateAmenity(c.Request.Context(), req.Name)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, amenityToResponse(*amenity))
}

func (h *Handler) getAmenity(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	amenity, err := h.units.GetAmenity(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, amenityToResponse(*amenity))
}

func (h *Handler) deleteAmenity(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.units.DeleteAmenity(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
