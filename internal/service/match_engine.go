package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"point-arena/internal/domain"
	"point-arena/internal/logger"
)

// MatchEngine resolves pending match entries in periodic cycles: timed-out
// entries forfeit in their owner's favor, the rest are paired two at a time
// and fought. Pairs are independent: a failure on one pair never touches
// the others, and the cycle never brings the process down.
type MatchEngine struct {
	matches  MatchStore
	gifts    GiftStore
	users    UserStore
	notifier Notifier

	batchSize int
	timeout   time.Duration

	now     func() time.Time
	shuffle func(entries []*domain.MatchEntry)
}

func NewMatchEngine(matches MatchStore, gifts GiftStore, users UserStore, notifier Notifier, batchSize int, timeout time.Duration) *MatchEngine {
	return &MatchEngine{
		matches:   matches,
		gifts:     gifts,
		users:     users,
		notifier:  notifier,
		batchSize: batchSize,
		timeout:   timeout,
		now:       time.Now,
		shuffle: func(entries []*domain.MatchEntry) {
			rand.Shuffle(len(entries), func(i, j int) {
				entries[i], entries[j] = entries[j], entries[i]
			})
		},
	}
}

// Cycle scans one bounded batch of pending entries and processes it. Ties
// stay pending, so without the shuffle a deterministic scan order could
// starve the same pair forever.
func (e *MatchEngine) Cycle(ctx context.Context) error {
	entries, err := e.matches.ScanByStatus(ctx, domain.MatchStatusPending, e.batchSize)
	if err != nil {
		return fmt.Errorf("%w: scan pending entries: %v", domain.ErrInternal, err)
	}

	e.shuffle(entries)
	e.Process(ctx, entries)
	return nil
}

// Process forfeits timed-out entries and resolves the rest pairwise.
func (e *MatchEngine) Process(ctx context.Context, entries []*domain.MatchEntry) {
	now := e.now()

	remaining := make([]*domain.MatchEntry, 0, len(entries))
	for _, entry := range entries {
		if now.Sub(entry.CreatedAt) >= e.timeout {
			e.forfeit(ctx, entry)
			continue
		}
		remaining = append(remaining, entry)
	}

	for i := 0; i+1 < len(remaining); i += 2 {
		e.resolvePair(ctx, remaining[i], remaining[i+1])
	}
	// an odd entry at the end stays pending for the next cycle
}

func (e *MatchEngine) forfeit(ctx context.Context, entry *domain.MatchEntry) {
	entry.Status = domain.MatchStatusTimedOut
	if err := e.matches.Save(ctx, entry); err != nil {
		logger.Error("failed to mark entry timed out", "entry_id", entry.ID, "error", err)
		return
	}

	gift := domain.NewGift(
		domain.PointPayload(entry.Stake*2),
		"Reward for winning the match by forfeit",
	)
	if err := e.gifts.CreateFor(ctx, gift, []string{entry.UserID}, gift.Status); err != nil {
		logger.Error("failed to create forfeit gift",
			"entry_id", entry.ID, "user_id", entry.UserID, "error", err)
		return
	}

	matchesResolved.WithLabelValues("forfeit").Inc()
	e.notify(entry.UserID, map[string]any{
		"type":     "match_forfeit",
		"entry_id": entry.ID,
		"reward":   entry.Stake * 2,
	})
}

func (e *MatchEngine) resolvePair(ctx context.Context, first, second *domain.MatchEntry) {
	var winner, loser *domain.MatchEntry
	switch first.Move.Fight(second.Move) {
	case domain.OutcomeTie:
		// both stay pending and get re-paired next cycle
		return
	case domain.OutcomeWin:
		winner, loser = first, second
	case domain.OutcomeLose:
		winner, loser = second, first
	}

	winner.Status = domain.MatchStatusWon
	loser.Status = domain.MatchStatusLost

	winnerUser, err := e.users.Get(ctx, winner.UserID)
	if err != nil {
		logger.Error("failed to load winner", "user_id", winner.UserID, "error", err)
		return
	}
	loserUser, err := e.users.Get(ctx, loser.UserID)
	if err != nil {
		logger.Error("failed to load loser", "user_id", loser.UserID, "error", err)
		return
	}

	winner.SetOpponent(loserUser.ID, loserUser.DisplayName)
	loser.SetOpponent(winnerUser.ID, winnerUser.DisplayName)

	if err := e.matches.SaveBatch(ctx, []*domain.MatchEntry{winner, loser}); err != nil {
		logger.Error("failed to persist resolved pair",
			"winner_entry", winner.ID, "loser_entry", loser.ID, "error", err)
		return
	}

	// The winner takes both stakes as a gift; the loser already paid theirs
	// at entry, nothing more to collect.
	gift := domain.NewGift(
		domain.PointPayload(first.Stake+second.Stake),
		"Reward for winning the match",
	)
	gift.SetMatchEntries(winner.ID, loser.ID)

	if err := e.gifts.CreateFor(ctx, gift, []string{winner.UserID}, gift.Status); err != nil {
		// The pair is already resolved; the dangling entry ids on the gift
		// row are what lets reconciliation find this case.
		logger.Error("failed to create win gift",
			"winner_entry", winner.ID, "user_id", winner.UserID, "error", err)
		return
	}

	matchesResolved.WithLabelValues("win").Inc()
	e.notify(winner.UserID, map[string]any{
		"type":     "match_won",
		"entry_id": winner.ID,
		"opponent": winner.OpponentName,
		"reward":   first.Stake + second.Stake,
	})
	e.notify(loser.UserID, map[string]any{
		"type":     "match_lost",
		"entry_id": loser.ID,
		"opponent": loser.OpponentName,
	})
}

func (e *MatchEngine) notify(userID string, payload any) {
	if e.notifier != nil {
		e.notifier.Notify(userID, payload)
	}
}
