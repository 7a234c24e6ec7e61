package service

import (
	"context"
	"fmt"

	"point-arena/internal/domain"
	"point-arena/internal/logger"
)

// DistributionService fans one gift out to every registered user. It goes
// through the same ledger contract as the match engine; only the admin
// route calls it.
type DistributionService struct {
	users UserStore
	gifts GiftStore
}

func NewDistributionService(users UserStore, gifts GiftStore) *DistributionService {
	return &DistributionService{users: users, gifts: gifts}
}

func (s *DistributionService) Distribute(ctx context.Context, amount int64, description string) (*domain.Gift, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrBadRequest)
	}

	ids, err := s.users.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list users: %v", domain.ErrInternal, err)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no users to distribute to", domain.ErrBadRequest)
	}

	logger.Warn("starting gift distribution", "recipients", len(ids), "amount", amount)

	gift := domain.NewGift(domain.PointPayload(amount), description)
	if err := s.gifts.CreateFor(ctx, gift, ids, gift.Status); err != nil {
		return nil, fmt.Errorf("%w: create distribution gift: %v", domain.ErrInternal, err)
	}

	return gift, nil
}
