package handlers

import (
	"net/http"

	"point-arena/internal/domain"

	"github.com/gin-gonic/gin"
)

// ListGifts handles GET /gifts?status=ready|opened (default ready).
func (h *Handler) ListGifts(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	status := domain.GiftStatusReady
	if raw := c.Query("status"); raw != "" {
		parsed, err := domain.ParseGiftStatus(raw)
		if err != nil {
			writeError(c, err)
			return
		}
		status = parsed
	}

	records, err := h.Gifts.ListByStatus(c.Request.Context(), user.ID, status)
	if err != nil {
		writeError(c, err)
		return
	}
	if records == nil {
		records = []*domain.GiftRecord{}
	}

	c.JSON(http.StatusOK, gin.H{"gifts": records})
}

// OpenGift handles POST /gifts/:id/open.
func (h *Handler) OpenGift(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	if err := h.Gifts.Open(c.Request.Context(), user.ID, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "opened"})
}
