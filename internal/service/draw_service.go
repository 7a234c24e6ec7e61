package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"point-arena/internal/domain"
	"point-arena/internal/logger"
	"point-arena/internal/repository"
)

// DrawService runs the daily-draw claim protocol. The balance change and
// the last_draw_at bump go through one conditional write, so two racing
// claims can never both land; the calendar-day check up front is a fast
// fail only and carries no correctness weight.
type DrawService struct {
	users UserStore
	draws DrawEventStore

	min, max int64 // award range [min, max)
	loc      *time.Location

	now     func() time.Time
	randN   func(n int64) int64
}

func NewDrawService(users UserStore, draws DrawEventStore, min, max int64, loc *time.Location) *DrawService {
	return &DrawService{
		users: users,
		draws: draws,
		min:   min,
		max:   max,
		loc:   loc,
		now:   time.Now,
		randN: rand.Int63n,
	}
}

// ClaimDaily awards a random number of points once per calendar day (in
// the configured zone) and returns the awarded amount.
func (s *DrawService) ClaimDaily(ctx context.Context, userID string) (int64, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, fmt.Errorf("%w: user %s", domain.ErrNotFound, userID)
		}
		return 0, fmt.Errorf("%w: load user: %v", domain.ErrInternal, err)
	}

	now := s.now()
	prior := user.LastDrawAt

	if prior != nil {
		if sameDay(now, *prior, s.loc) {
			drawClaims.WithLabelValues("rate_limited").Inc()
			return 0, fmt.Errorf("%w: daily draw already claimed", domain.ErrRateLimited)
		}
	} else {
		// Users predating the last_draw_at column have no token yet; their
		// eligibility falls back to the latest draw event.
		latest, err := s.draws.Latest(ctx, user.ID, domain.DrawKindDaily)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			// never drawn, eligible
		case err != nil:
			return 0, fmt.Errorf("%w: load latest draw: %v", domain.ErrInternal, err)
		case sameDay(now, latest.CreatedAt, s.loc):
			drawClaims.WithLabelValues("rate_limited").Inc()
			return 0, fmt.Errorf("%w: daily draw already claimed", domain.ErrRateLimited)
		}
	}

	award := s.min + s.randN(s.max-s.min)

	before := *user // pre-claim snapshot for compensation

	user.AddPoint(award)
	user.LastDrawAt = &now

	// The CAS: succeeds only if last_draw_at is still what we read above.
	if err := s.users.SaveConditional(ctx, user, prior); err != nil {
		if errors.Is(err, repository.ErrConditionFailed) {
			drawClaims.WithLabelValues("rate_limited").Inc()
			return 0, fmt.Errorf("%w: lost claim race", domain.ErrRateLimited)
		}
		return 0, fmt.Errorf("%w: conditional save: %v", domain.ErrInternal, err)
	}

	event := domain.NewDrawEvent(user.ID, domain.DrawKindDaily)
	if err := s.draws.Append(ctx, event); err != nil {
		logger.Warn("failed to append draw event, rolling back",
			"user_id", user.ID, "event_id", event.ID, "error", err)

		// Write the pre-claim snapshot back, conditioned on the token this
		// claim just installed so a newer legitimate claim is never clobbered.
		if rerr := s.users.SaveConditional(ctx, &before, &now); rerr != nil {
			logger.Error("draw compensation failed, stores are inconsistent",
				"user_id", user.ID, "append_error", err, "rollback_error", rerr)
			compensationFailures.WithLabelValues("draw").Inc()
			drawClaims.WithLabelValues("inconsistent").Inc()
			return 0, fmt.Errorf("%w: draw claim for %s", domain.ErrInconsistent, user.ID)
		}

		logger.Warn("draw rollback completed", "user_id", user.ID)
		drawClaims.WithLabelValues("error").Inc()
		return 0, fmt.Errorf("%w: append draw event: %v", domain.ErrInternal, err)
	}

	drawClaims.WithLabelValues("ok").Inc()
	return award, nil
}

func sameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
