package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"point-arena/internal/domain"
	"point-arena/internal/repository"
)

// In-memory store fakes. Mutating methods copy values in and out the way a
// real store would, so service-side mutations never leak into stored state.

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*domain.User

	// optional failure hooks
	conditionalErrOn int // fail the nth SaveConditional call (1-based)
	conditionalCalls int
	adjustHook       func(id string, delta int64) error
}

func newFakeUserStore(users ...*domain.User) *fakeUserStore {
	m := make(map[string]*domain.User, len(users))
	for _, u := range users {
		cp := *u
		m[u.ID] = &cp
	}
	return &fakeUserStore{users: m}
}

func copyUser(u *domain.User) *domain.User {
	cp := *u
	if u.LastDrawAt != nil {
		t := *u.LastDrawAt
		cp.LastDrawAt = &t
	}
	return &cp
}

func (s *fakeUserStore) Get(_ context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyUser(u), nil
}

func (s *fakeUserStore) GetBySubject(_ context.Context, subject string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Subject == subject {
			return copyUser(u), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *fakeUserStore) Create(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = copyUser(u)
	return nil
}

func (s *fakeUserStore) Save(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	s.users[u.ID] = copyUser(u)
	return nil
}

func (s *fakeUserStore) SaveConditional(_ context.Context, u *domain.User, expected *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conditionalCalls++
	if s.conditionalErrOn > 0 && s.conditionalCalls == s.conditionalErrOn {
		return domain.ErrInternal
	}

	stored, ok := s.users[u.ID]
	if !ok {
		return repository.ErrConditionFailed
	}
	if !timesEqual(stored.LastDrawAt, expected) {
		return repository.ErrConditionFailed
	}
	s.users[u.ID] = copyUser(u)
	return nil
}

func timesEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func (s *fakeUserStore) AdjustPoint(_ context.Context, id string, delta int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.adjustHook != nil {
		if err := s.adjustHook(id, delta); err != nil {
			return 0, err
		}
	}

	u, ok := s.users[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	if u.Point+delta < 0 {
		return 0, repository.ErrInsufficientFunds
	}
	u.Point += delta
	return u.Point, nil
}

func (s *fakeUserStore) ListIDs(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]*domain.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })

	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids, nil
}

func (s *fakeUserStore) FindEarliest(_ context.Context) (*domain.User, error) {
	ids, _ := s.ListIDs(context.Background())
	if len(ids) == 0 {
		return nil, domain.ErrNotFound
	}
	return s.Get(context.Background(), ids[0])
}

func (s *fakeUserStore) point(id string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id].Point
}

type fakeDrawStore struct {
	mu        sync.Mutex
	events    []*domain.DrawEvent
	appendErr error
}

func (s *fakeDrawStore) Latest(_ context.Context, userID string, kind domain.DrawKind) (*domain.DrawEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.events) - 1; i >= 0; i-- {
		if s.events[i].UserID == userID && s.events[i].Kind == kind {
			return s.events[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *fakeDrawStore) Append(_ context.Context, e *domain.DrawEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.appendErr != nil {
		return s.appendErr
	}
	s.events = append(s.events, e)
	return nil
}

type fakeMatchStore struct {
	mu        sync.Mutex
	entries   map[string]*domain.MatchEntry
	saved     []*domain.MatchEntry // Save and SaveBatch, in call order
	createErr error
}

func newFakeMatchStore(entries ...*domain.MatchEntry) *fakeMatchStore {
	m := make(map[string]*domain.MatchEntry, len(entries))
	for _, e := range entries {
		cp := *e
		m[e.ID] = &cp
	}
	return &fakeMatchStore{entries: m}
}

func (s *fakeMatchStore) ListByUserAndStatus(_ context.Context, userID string, status domain.MatchStatus) ([]*domain.MatchEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.MatchEntry
	for _, e := range s.entries {
		if e.UserID == userID && e.Status == status {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *fakeMatchStore) ListByUser(_ context.Context, userID string, limit int) ([]*domain.MatchEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.MatchEntry
	for _, e := range s.entries {
		if e.UserID == userID && len(out) < limit {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *fakeMatchStore) ScanByStatus(_ context.Context, status domain.MatchStatus, limit int) ([]*domain.MatchEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.MatchEntry
	for _, e := range s.entries {
		if e.Status == status {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *fakeMatchStore) Create(_ context.Context, e *domain.MatchEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	cp := *e
	s.entries[e.ID] = &cp
	return nil
}

func (s *fakeMatchStore) Save(_ context.Context, e *domain.MatchEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[e.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *e
	s.entries[e.ID] = &cp
	s.saved = append(s.saved, &cp)
	return nil
}

func (s *fakeMatchStore) SaveBatch(_ context.Context, entries []*domain.MatchEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		cp := *e
		s.entries[e.ID] = &cp
		s.saved = append(s.saved, &cp)
	}
	return nil
}

func (s *fakeMatchStore) status(id string) domain.MatchStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[id].Status
}

type createdGift struct {
	gift       *domain.Gift
	recipients []string
}

type fakeGiftStore struct {
	mu      sync.Mutex
	created []createdGift
	// recipient status by gift id + user id
	statuses map[string]map[string]domain.GiftStatus

	createErrOn  int // fail the nth CreateFor call (1-based)
	createCalls  int
	setStatusErr error
}

func newFakeGiftStore() *fakeGiftStore {
	return &fakeGiftStore{statuses: make(map[string]map[string]domain.GiftStatus)}
}

func (s *fakeGiftStore) CreateFor(_ context.Context, g *domain.Gift, recipients []string, status domain.GiftStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.createCalls++
	if s.createErrOn > 0 && s.createCalls == s.createErrOn {
		return domain.ErrInternal
	}

	cp := *g
	s.created = append(s.created, createdGift{gift: &cp, recipients: append([]string(nil), recipients...)})
	byUser := make(map[string]domain.GiftStatus, len(recipients))
	for _, r := range recipients {
		byUser[r] = status
	}
	s.statuses[g.ID] = byUser
	return nil
}

func (s *fakeGiftStore) SetRecipientStatus(_ context.Context, giftID, userID string, from, to domain.GiftStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.setStatusErr != nil {
		return s.setStatusErr
	}

	byUser, ok := s.statuses[giftID]
	if !ok {
		return repository.ErrConditionFailed
	}
	if byUser[userID] != from {
		return repository.ErrConditionFailed
	}
	byUser[userID] = to
	return nil
}

func (s *fakeGiftStore) FindByID(_ context.Context, giftID, userID string) (*domain.GiftRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.created {
		if c.gift.ID != giftID {
			continue
		}
		status, ok := s.statuses[giftID][userID]
		if !ok {
			return nil, domain.ErrNotFound
		}
		return &domain.GiftRecord{Gift: *c.gift, UserID: userID, RecipientStatus: status}, nil
	}
	return nil, domain.ErrNotFound
}

func (s *fakeGiftStore) ListByUserAndStatus(_ context.Context, userID string, status domain.GiftStatus) ([]*domain.GiftRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.GiftRecord
	for _, c := range s.created {
		if st, ok := s.statuses[c.gift.ID][userID]; ok && st == status {
			out = append(out, &domain.GiftRecord{Gift: *c.gift, UserID: userID, RecipientStatus: st})
		}
	}
	return out, nil
}

type fakeSnapshotStore struct {
	mu    sync.Mutex
	snaps map[string]*domain.PointSnapshot
}

func newFakeSnapshotStore() *fakeSnapshotStore {
	return &fakeSnapshotStore{snaps: make(map[string]*domain.PointSnapshot)}
}

func (s *fakeSnapshotStore) Get(_ context.Context, userID string) (*domain.PointSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snaps[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *snap
	if snap.Previous != nil {
		p := *snap.Previous
		cp.Previous = &p
	}
	return &cp, nil
}

func (s *fakeSnapshotStore) Put(_ context.Context, snap *domain.PointSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *snap
	s.snaps[snap.UserID] = &cp
	return nil
}

type scoreUpdate struct {
	userID       string
	points, diff int64
}

type fakeRankingStore struct {
	mu      sync.Mutex
	updates []scoreUpdate
	points  map[string]int64
	diffs   map[string]int64
}

func newFakeRankingStore() *fakeRankingStore {
	return &fakeRankingStore{points: make(map[string]int64), diffs: make(map[string]int64)}
}

func (s *fakeRankingStore) UpdateScores(_ context.Context, userID string, points, diff int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, scoreUpdate{userID: userID, points: points, diff: diff})
	s.points[userID] = points
	s.diffs[userID] = diff
	return nil
}

func (s *fakeRankingStore) TopByPoints(_ context.Context, n int) ([]repository.RankedID, error) {
	return topOf(s, s.points, n), nil
}

func (s *fakeRankingStore) TopByDiffs(_ context.Context, n int) ([]repository.RankedID, error) {
	return topOf(s, s.diffs, n), nil
}

func topOf(s *fakeRankingStore, scores map[string]int64, n int) []repository.RankedID {
	s.mu.Lock()
	defer s.mu.Unlock()

	ranked := make([]repository.RankedID, 0, len(scores))
	for id, score := range scores {
		ranked = append(ranked, repository.RankedID{UserID: id, Score: score})
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

type notice struct {
	userID  string
	payload any
}

type fakeNotifier struct {
	mu      sync.Mutex
	notices []notice
}

func (n *fakeNotifier) Notify(userID string, payload any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice{userID: userID, payload: payload})
}
