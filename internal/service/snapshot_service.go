package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"point-arena/internal/domain"
	"point-arena/internal/logger"
)

// SnapshotService captures every user's balance each cycle so the ranking
// can order users by recent gain. Snapshots are derived data; the account
// store stays authoritative.
type SnapshotService struct {
	users    UserStore
	snaps    SnapshotStore
	rankings RankingStore

	debounce time.Duration
	now      func() time.Time
}

func NewSnapshotService(users UserStore, snaps SnapshotStore, rankings RankingStore, debounce time.Duration) *SnapshotService {
	return &SnapshotService{
		users:    users,
		snaps:    snaps,
		rankings: rankings,
		debounce: debounce,
		now:      time.Now,
	}
}

// RunCycle rolls every user's snapshot forward and refreshes the ranking
// scores. A missing snapshot is the expected first-cycle branch, not an
// error.
func (s *SnapshotService) RunCycle(ctx context.Context) error {
	ids, err := s.users.ListIDs(ctx)
	if err != nil {
		return fmt.Errorf("%w: list user ids: %v", domain.ErrInternal, err)
	}

	for _, id := range ids {
		snap, err := s.snaps.Get(ctx, id)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			user, err := s.users.Get(ctx, id)
			if err != nil {
				return fmt.Errorf("%w: load user %s: %v", domain.ErrInternal, id, err)
			}
			snap = domain.NewPointSnapshot(user.ID, user.Point)
		case err != nil:
			return fmt.Errorf("%w: load snapshot %s: %v", domain.ErrInternal, id, err)
		default:
			user, err := s.users.Get(ctx, id)
			if err != nil {
				return fmt.Errorf("%w: load user %s: %v", domain.ErrInternal, id, err)
			}
			snap.Update(user.Point)
		}

		if err := s.snaps.Put(ctx, snap); err != nil {
			return fmt.Errorf("%w: save snapshot %s: %v", domain.ErrInternal, id, err)
		}

		// ranking refresh is best-effort; the snapshot row already landed
		if err := s.rankings.UpdateScores(ctx, id, snap.Current, snap.Diff()); err != nil {
			logger.Warn("failed to update ranking scores", "user_id", id, "error", err)
		}
	}

	return nil
}

// MaybeRun runs a cycle unless the canary user (earliest created) was
// snapshotted less than the debounce window ago. One canary instead of a
// distributed lock: horizontally scaled processes may rarely double-run,
// which is fine for ranking freshness.
func (s *SnapshotService) MaybeRun(ctx context.Context) (bool, error) {
	canary, err := s.users.FindEarliest(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil // no users yet
		}
		return false, fmt.Errorf("%w: find canary user: %v", domain.ErrInternal, err)
	}

	snap, err := s.snaps.Get(ctx, canary.ID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		// never snapshotted at all; run the first cycle
	case err != nil:
		return false, fmt.Errorf("%w: load canary snapshot: %v", domain.ErrInternal, err)
	case s.now().Sub(snap.UpdatedAt) < s.debounce:
		return false, nil
	}

	if err := s.RunCycle(ctx); err != nil {
		return false, err
	}
	return true, nil
}
