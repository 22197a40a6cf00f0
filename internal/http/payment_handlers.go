package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"village/internal/service"
)

type createPaymentRequest struct {
	UserID *int64  `json:"user_id" binding:"omitempty,gt=0"`
	UnitID *int64  `json:"unit_id" binding:"omitempty,gt=0"`
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Method string  `json:"method" binding:"omitempty,max=32"`
}

func (h *Handler) createPayment(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	payment, err := h.payments.Create(c.Request.Context(), callerFrom(c), service.CreatePaymentInput{
		UserID: req.UserID,
		UnitID: req.UnitID,
		Amount: req.Amount,
		Method: req.Method,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, paymentToResponse(*payment))
}

func (h *Handler) listPayments(c *gin.Context) {
	payments, err := h.payments.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(payments, paymentToResponse))
}

func (h *Handler) getPayment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	payment, err := h.payments.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, paymentToResponse(*payment))
}

func (h *Handler) paymentReceipt(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	url, err := h.payments.ReceiptURL(c.Request.Context(), callerFrom(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *Handler) listReceipts(c *gin.Context) {
	objects, err := h.payments.ListReceipts(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(objects, objectToResponse))
}

func (h *Handler) deletePayment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	warnings, err := h.payments.Delete(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := gin.H{"deleted": id}
	if len(warnings) > 0 {
		resp["warnings"] = warnings
	}
	c.JSON(http.StatusOK, resp)
}
