package handlers

import (
	"net/http"
	"strconv"

	"point-arena/internal/domain"

	"github.com/gin-gonic/gin"
)

type enterMatchRequest struct {
	Move string `json:"move" binding:"required"`
}

// EnterMatch handles POST /matches.
func (h *Handler) EnterMatch(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req enterMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "move is required"})
		return
	}
	move, err := domain.ParseMove(req.Move)
	if err != nil {
		writeError(c, err)
		return
	}

	entry, err := h.Matches.Enter(c.Request.Context(), user.ID, move)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// ListMatches handles GET /matches.
func (h *Handler) ListMatches(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))

	entries, err := h.Matches.ListMine(c.Request.Context(), user.ID, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	if entries == nil {
		entries = []*domain.MatchEntry{}
	}

	c.JSON(http.StatusOK, gin.H{"matches": entries})
}
