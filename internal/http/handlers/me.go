package handlers

import (
	"net/http"

	"point-arena/internal/http/middleware"
	"point-arena/internal/service"

	"github.com/gin-gonic/gin"
)

// Me handles GET /me.
func (h *Handler) Me(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateMe handles PUT /me.
func (h *Handler) UpdateMe(c *gin.Context) {
	subject := c.GetString(middleware.CtxSubject)
	if subject == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	var input service.UpdateMeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed body"})
		return
	}

	user, err := h.Users.UpdateMe(c.Request.Context(), subject, input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
