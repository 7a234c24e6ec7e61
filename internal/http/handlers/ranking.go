package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PointRanking handles GET /rankings/points.
func (h *Handler) PointRanking(c *gin.Context) {
	entries, err := h.Rankings.TopByPoints(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ranking": entries})
}

// DiffRanking handles GET /rankings/diffs, the recent-gain board.
func (h *Handler) DiffRanking(c *gin.Context) {
	entries, err := h.Rankings.TopByDiffs(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ranking": entries})
}
