package service

import (
	"context"
	"time"

	"point-arena/internal/domain"
	"point-arena/internal/repository"
)

// Store contracts the services depend on. internal/repository holds the
// single Postgres/Redis implementations; tests plug in in-memory fakes.

type UserStore interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	GetBySubject(ctx context.Context, subject string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	Save(ctx context.Context, u *domain.User) error
	// SaveConditional is the compare-and-swap: the write applies only if the
	// stored last_draw_at still equals expected.
	SaveConditional(ctx context.Context, u *domain.User, expected *time.Time) error
	AdjustPoint(ctx context.Context, id string, delta int64) (int64, error)
	ListIDs(ctx context.Context) ([]string, error)
	FindEarliest(ctx context.Context) (*domain.User, error)
}

type DrawEventStore interface {
	Latest(ctx context.Context, userID string, kind domain.DrawKind) (*domain.DrawEvent, error)
	Append(ctx context.Context, e *domain.DrawEvent) error
}

type MatchStore interface {
	ListByUserAndStatus(ctx context.Context, userID string, status domain.MatchStatus) ([]*domain.MatchEntry, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*domain.MatchEntry, error)
	ScanByStatus(ctx context.Context, status domain.MatchStatus, limit int) ([]*domain.MatchEntry, error)
	Create(ctx context.Context, e *domain.MatchEntry) error
	Save(ctx context.Context, e *domain.MatchEntry) error
	SaveBatch(ctx context.Context, entries []*domain.MatchEntry) error
}

type GiftStore interface {
	CreateFor(ctx context.Context, g *domain.Gift, recipients []string, status domain.GiftStatus) error
	SetRecipientStatus(ctx context.Context, giftID, userID string, from, to domain.GiftStatus) error
	FindByID(ctx context.Context, giftID, userID string) (*domain.GiftRecord, error)
	ListByUserAndStatus(ctx context.Context, userID string, status domain.GiftStatus) ([]*domain.GiftRecord, error)
}

type SnapshotStore interface {
	Get(ctx context.Context, userID string) (*domain.PointSnapshot, error)
	Put(ctx context.Context, s *domain.PointSnapshot) error
}

type RankingStore interface {
	UpdateScores(ctx context.Context, userID string, points, diff int64) error
	TopByPoints(ctx context.Context, n int) ([]repository.RankedID, error)
	TopByDiffs(ctx context.Context, n int) ([]repository.RankedID, error)
}

// Notifier pushes best-effort events at connected users (websocket hub).
// Implementations must not block.
type Notifier interface {
	Notify(userID string, payload any)
}

var (
	_ UserStore      = (*repository.UserRepository)(nil)
	_ DrawEventStore = (*repository.DrawEventRepository)(nil)
	_ MatchStore     = (*repository.MatchRepository)(nil)
	_ GiftStore      = (*repository.GiftRepository)(nil)
	_ SnapshotStore  = (*repository.SnapshotRepository)(nil)
	_ RankingStore   = (*repository.RankingRepository)(nil)
)
