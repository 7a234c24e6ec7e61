package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ClaimDraw handles POST /draw/daily.
func (h *Handler) ClaimDraw(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	awarded, err := h.Draws.ClaimDaily(c.Request.Context(), user.ID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"awarded": awarded})
}
