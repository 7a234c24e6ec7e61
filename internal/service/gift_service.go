package service

import (
	"context"
	"errors"
	"fmt"

	"point-arena/internal/domain"
	"point-arena/internal/logger"
	"point-arena/internal/repository"
)

// GiftService is the reward ledger: gifts fan out to recipients, and each
// recipient redeems exactly once. Balance credit and status flip live in
// different stores, so a failed flip is compensated by reversing the
// credit.
type GiftService struct {
	gifts GiftStore
	users UserStore
}

func NewGiftService(gifts GiftStore, users UserStore) *GiftService {
	return &GiftService{gifts: gifts, users: users}
}

func (s *GiftService) ListByStatus(ctx context.Context, userID string, status domain.GiftStatus) ([]*domain.GiftRecord, error) {
	records, err := s.gifts.ListByUserAndStatus(ctx, userID, status)
	if err != nil {
		return nil, fmt.Errorf("%w: list gifts: %v", domain.ErrInternal, err)
	}
	return records, nil
}

// Open redeems one gift for one recipient: apply the payload to the
// balance, then flip the recipient status Ready -> Opened with a
// conditional write so a duplicate concurrent call cannot pay twice.
func (s *GiftService) Open(ctx context.Context, userID, giftID string) error {
	rec, err := s.gifts.FindByID(ctx, giftID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: gift %s", domain.ErrNotFound, giftID)
		}
		return fmt.Errorf("%w: load gift: %v", domain.ErrInternal, err)
	}

	if err := rec.Openable(); err != nil {
		giftOpens.WithLabelValues("already_opened").Inc()
		return err
	}

	if rec.Payload.Kind != domain.GiftPayloadPoint {
		return fmt.Errorf("%w: unsupported gift payload %q", domain.ErrInternal, rec.Payload.Kind)
	}
	amount := rec.Payload.Amount

	if _, err := s.users.AdjustPoint(ctx, userID, amount); err != nil {
		return fmt.Errorf("%w: credit gift payout: %v", domain.ErrInternal, err)
	}

	err = s.gifts.SetRecipientStatus(ctx, giftID, userID, domain.GiftStatusReady, domain.GiftStatusOpened)
	if err == nil {
		giftOpens.WithLabelValues("ok").Inc()
		return nil
	}

	// The credit landed but the flip did not: take the payout back.
	if _, rerr := s.users.AdjustPoint(ctx, userID, -amount); rerr != nil {
		logger.Error("gift compensation failed, stores are inconsistent",
			"gift_id", giftID, "user_id", userID, "flip_error", err, "rollback_error", rerr)
		compensationFailures.WithLabelValues("gift_open").Inc()
		giftOpens.WithLabelValues("inconsistent").Inc()
		return fmt.Errorf("%w: gift %s for %s", domain.ErrInconsistent, giftID, userID)
	}

	logger.Warn("gift payout rolled back", "gift_id", giftID, "user_id", userID, "error", err)

	if errors.Is(err, repository.ErrConditionFailed) {
		// someone else opened it between our read and the flip
		giftOpens.WithLabelValues("already_opened").Inc()
		return fmt.Errorf("%w: the gift cannot be opened", domain.ErrBadRequest)
	}
	giftOpens.WithLabelValues("error").Inc()
	return fmt.Errorf("%w: flip gift status: %v", domain.ErrInternal, err)
}
