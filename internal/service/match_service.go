package service

import (
	"context"
	"errors"
	"fmt"

	"point-arena/internal/domain"
	"point-arena/internal/logger"
	"point-arena/internal/repository"
)

// MatchService handles match entry and listing. The stake is debited the
// moment the entry is created; resolution later pays winners through the
// gift ledger.
type MatchService struct {
	users   UserStore
	matches MatchStore
	stake   int64
}

func NewMatchService(users UserStore, matches MatchStore, stake int64) *MatchService {
	return &MatchService{users: users, matches: matches, stake: stake}
}

// Enter wagers the fixed stake on a move. One pending entry per user at a
// time.
func (s *MatchService) Enter(ctx context.Context, userID string, move domain.Move) (*domain.MatchEntry, error) {
	pending, err := s.matches.ListByUserAndStatus(ctx, userID, domain.MatchStatusPending)
	if err != nil {
		return nil, fmt.Errorf("%w: list pending entries: %v", domain.ErrInternal, err)
	}
	if len(pending) > 0 {
		return nil, fmt.Errorf("%w: a pending match entry already exists", domain.ErrBadRequest)
	}

	if _, err := s.users.AdjustPoint(ctx, userID, -s.stake); err != nil {
		switch {
		case errors.Is(err, repository.ErrInsufficientFunds):
			return nil, fmt.Errorf("%w: not enough points for the stake", domain.ErrBadRequest)
		case errors.Is(err, domain.ErrNotFound):
			return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, userID)
		default:
			return nil, fmt.Errorf("%w: debit stake: %v", domain.ErrInternal, err)
		}
	}

	entry := domain.NewMatchEntry(userID, move, s.stake)
	if err := s.matches.Create(ctx, entry); err != nil {
		// refund the stake; a failed refund is real inconsistency
		if _, rerr := s.users.AdjustPoint(ctx, userID, s.stake); rerr != nil {
			logger.Error("stake refund failed, stores are inconsistent",
				"user_id", userID, "create_error", err, "refund_error", rerr)
			compensationFailures.WithLabelValues("match_enter").Inc()
			return nil, fmt.Errorf("%w: match entry for %s", domain.ErrInconsistent, userID)
		}
		return nil, fmt.Errorf("%w: create match entry: %v", domain.ErrInternal, err)
	}

	return entry, nil
}

// ListMine returns the user's recent entries, newest first.
func (s *MatchService) ListMine(ctx context.Context, userID string, limit int) ([]*domain.MatchEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	entries, err := s.matches.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: list match entries: %v", domain.ErrInternal, err)
	}
	return entries, nil
}
