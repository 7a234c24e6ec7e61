package service

import (
	"context"
	"errors"
	"fmt"

	"point-arena/internal/domain"
	"point-arena/internal/logger"
	"point-arena/internal/repository"
)

const rankingSize = 10

// RankingService reads the leaderboards the snapshot cycle maintains.
type RankingService struct {
	rankings RankingStore
	users    UserStore
}

func NewRankingService(rankings RankingStore, users UserStore) *RankingService {
	return &RankingService{rankings: rankings, users: users}
}

func (s *RankingService) TopByPoints(ctx context.Context) ([]domain.RankingEntry, error) {
	ranked, err := s.rankings.TopByPoints(ctx, rankingSize)
	if err != nil {
		return nil, fmt.Errorf("%w: read point ranking: %v", domain.ErrInternal, err)
	}
	return s.hydrate(ctx, ranked)
}

func (s *RankingService) TopByDiffs(ctx context.Context) ([]domain.RankingEntry, error) {
	ranked, err := s.rankings.TopByDiffs(ctx, rankingSize)
	if err != nil {
		return nil, fmt.Errorf("%w: read diff ranking: %v", domain.ErrInternal, err)
	}
	return s.hydrate(ctx, ranked)
}

func (s *RankingService) hydrate(ctx context.Context, ranked []repository.RankedID) ([]domain.RankingEntry, error) {
	entries := make([]domain.RankingEntry, 0, len(ranked))
	for _, r := range ranked {
		user, err := s.users.Get(ctx, r.UserID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// stale ranking member; skip rather than fail the board
				logger.Warn("ranking references missing user", "user_id", r.UserID)
				continue
			}
			return nil, fmt.Errorf("%w: load ranked user: %v", domain.ErrInternal, err)
		}
		entries = append(entries, domain.RankingEntry{
			Rank:  len(entries) + 1,
			User:  *user,
			Score: r.Score,
		})
	}
	return entries, nil
}
