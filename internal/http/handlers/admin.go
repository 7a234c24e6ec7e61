package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type distributeRequest struct {
	Amount      int64  `json:"amount" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// DistributeGift handles POST /admin/gifts/distribute. The admin role gate
// lives in the route registration.
func (h *Handler) DistributeGift(c *gin.Context) {
	var req distributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount and description are required"})
		return
	}

	gift, err := h.Distribution.Distribute(c.Request.Context(), req.Amount, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"gift_id": gift.ID})
}
