package handlers

import (
	"errors"
	"net/http"

	"point-arena/internal/domain"
	"point-arena/internal/http/middleware"
	"point-arena/internal/service"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Users        *service.UserService
	Draws        *service.DrawService
	Matches      *service.MatchService
	Gifts        *service.GiftService
	Rankings     *service.RankingService
	Distribution *service.DistributionService
}

func NewHandler(
	users *service.UserService,
	draws *service.DrawService,
	matches *service.MatchService,
	gifts *service.GiftService,
	rankings *service.RankingService,
	distribution *service.DistributionService,
) *Handler {
	return &Handler{
		Users:        users,
		Draws:        draws,
		Matches:      matches,
		Gifts:        gifts,
		Rankings:     rankings,
		Distribution: distribution,
	}
}

// currentUser resolves the authenticated subject to its user row, creating
// a blank profile on first contact.
func (h *Handler) currentUser(c *gin.Context) (*domain.User, bool) {
	subject := c.GetString(middleware.CtxSubject)
	if subject == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return nil, false
	}

	user, err := h.Users.EnsureCreated(c.Request.Context(), subject)
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return user, true
}

// writeError maps the domain error taxonomy to HTTP statuses. Unrecognized
// and internal errors never leak their detail to the client.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
