package service

import (
	"context"
	"testing"
	"time"

	"point-arena/internal/domain"
)

func newTestEngine(matches *fakeMatchStore, gifts *fakeGiftStore, users *fakeUserStore, notifier *fakeNotifier, now time.Time) *MatchEngine {
	e := NewMatchEngine(matches, gifts, users, notifier, 100, 8*time.Hour)
	e.now = func() time.Time { return now }
	e.shuffle = func([]*domain.MatchEntry) {} // keep scan order for assertions
	return e
}

func entryAt(userID string, move domain.Move, stake int64, createdAt time.Time) *domain.MatchEntry {
	e := domain.NewMatchEntry(userID, move, stake)
	e.CreatedAt = createdAt
	return e
}

// Six pending entries: one stale enough to forfeit, then rock vs paper
// resolving, a scissors tie staying pending, and one odd entry left over.
// Exactly two rewards of 10 come out of it.
func TestCycleSixEntries(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	fresh := now.Add(-time.Hour)
	stale := now.Add(-9 * time.Hour)

	var ids []string
	var userList []*domain.User
	for _, name := range []string{"ann", "bob", "cho", "dai", "eve", "fay"} {
		u := domain.NewUser("sub-" + name)
		u.DisplayName = name
		ids = append(ids, u.ID)
		userList = append(userList, u)
	}
	users := newFakeUserStore(userList...)

	entries := []*domain.MatchEntry{
		entryAt(ids[0], domain.MoveScissors, 5, stale),
		entryAt(ids[1], domain.MoveRock, 5, fresh),
		entryAt(ids[2], domain.MovePaper, 5, fresh.Add(time.Minute)),
		entryAt(ids[3], domain.MoveScissors, 5, fresh.Add(2*time.Minute)),
		entryAt(ids[4], domain.MoveScissors, 5, fresh.Add(3*time.Minute)),
		entryAt(ids[5], domain.MoveScissors, 5, fresh.Add(4*time.Minute)),
	}
	matches := newFakeMatchStore(entries...)
	gifts := newFakeGiftStore()
	notifier := &fakeNotifier{}

	e := newTestEngine(matches, gifts, users, notifier, now)
	if err := e.Cycle(context.Background()); err != nil {
		t.Fatalf("Cycle: %v", err)
	}

	// the stale scissors entry forfeits in its owner's favor
	if got := matches.status(entries[0].ID); got != domain.MatchStatusTimedOut {
		t.Errorf("stale entry status = %q, want timeout", got)
	}
	// rock vs paper resolves
	if got := matches.status(entries[1].ID); got != domain.MatchStatusLost {
		t.Errorf("rock entry status = %q, want lost", got)
	}
	if got := matches.status(entries[2].ID); got != domain.MatchStatusWon {
		t.Errorf("paper entry status = %q, want won", got)
	}
	// the scissors tie and the odd entry wait for the next cycle
	for _, i := range []int{3, 4, 5} {
		if got := matches.status(entries[i].ID); got != domain.MatchStatusPending {
			t.Errorf("entry %d status = %q, want pending", i, got)
		}
	}

	if len(gifts.created) != 2 {
		t.Fatalf("gifts created = %d, want 2", len(gifts.created))
	}
	for _, c := range gifts.created {
		if c.gift.Payload.Amount != 10 {
			t.Errorf("gift amount = %d, want 10", c.gift.Payload.Amount)
		}
	}
	if got := gifts.created[0].recipients; len(got) != 1 || got[0] != ids[0] {
		t.Errorf("forfeit gift recipients = %v, want [%s]", got, ids[0])
	}
	if got := gifts.created[1].recipients; len(got) != 1 || got[0] != ids[2] {
		t.Errorf("win gift recipients = %v, want [%s]", got, ids[2])
	}
}

func TestCycleSetsOpponentNames(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	fresh := now.Add(-time.Hour)

	alice := domain.NewUser("sub-alice")
	alice.DisplayName = "Alice"
	bob := domain.NewUser("sub-bob")
	bob.DisplayName = "Bob"
	users := newFakeUserStore(alice, bob)

	win := entryAt(alice.ID, domain.MovePaper, 5, fresh)
	lose := entryAt(bob.ID, domain.MoveRock, 5, fresh.Add(time.Minute))
	matches := newFakeMatchStore(win, lose)
	notifier := &fakeNotifier{}

	e := newTestEngine(matches, newFakeGiftStore(), users, notifier, now)
	if err := e.Cycle(context.Background()); err != nil {
		t.Fatalf("Cycle: %v", err)
	}

	saved := map[string]*domain.MatchEntry{}
	for _, entry := range matches.saved {
		saved[entry.ID] = entry
	}
	if got := saved[win.ID].OpponentName; got != "Bob" {
		t.Errorf("winner opponent = %q, want Bob", got)
	}
	if got := saved[lose.ID].OpponentName; got != "Alice" {
		t.Errorf("loser opponent = %q, want Alice", got)
	}

	if len(notifier.notices) != 2 {
		t.Fatalf("notices = %d, want 2", len(notifier.notices))
	}
	if notifier.notices[0].userID != alice.ID || notifier.notices[1].userID != bob.ID {
		t.Errorf("notice recipients = %s, %s", notifier.notices[0].userID, notifier.notices[1].userID)
	}
}

func TestCyclePairFailureDoesNotStopOthers(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	fresh := now.Add(-time.Hour)

	var ids []string
	var userList []*domain.User
	for _, name := range []string{"a", "b", "c", "d"} {
		u := domain.NewUser("sub-" + name)
		u.DisplayName = name
		ids = append(ids, u.ID)
		userList = append(userList, u)
	}
	users := newFakeUserStore(userList...)

	entries := []*domain.MatchEntry{
		entryAt(ids[0], domain.MoveRock, 5, fresh),
		entryAt(ids[1], domain.MovePaper, 5, fresh.Add(time.Minute)),
		entryAt(ids[2], domain.MoveScissors, 5, fresh.Add(2*time.Minute)),
		entryAt(ids[3], domain.MovePaper, 5, fresh.Add(3*time.Minute)),
	}
	matches := newFakeMatchStore(entries...)
	gifts := newFakeGiftStore()
	gifts.createErrOn = 1 // first pair's gift fails

	e := newTestEngine(matches, gifts, users, &fakeNotifier{}, now)
	if err := e.Cycle(context.Background()); err != nil {
		t.Fatalf("Cycle: %v", err)
	}

	// the second pair still resolved and got its gift
	if got := matches.status(entries[2].ID); got != domain.MatchStatusWon {
		t.Errorf("second pair winner status = %q, want won", got)
	}
	if got := matches.status(entries[3].ID); got != domain.MatchStatusLost {
		t.Errorf("second pair loser status = %q, want lost", got)
	}
	if len(gifts.created) != 1 {
		t.Fatalf("gifts created = %d, want 1", len(gifts.created))
	}
	if got := gifts.created[0].recipients[0]; got != ids[2] {
		t.Errorf("gift recipient = %s, want %s", got, ids[2])
	}
}

func TestProcessForfeitPaysDoubleStake(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	user := domain.NewUser("sub-1")
	users := newFakeUserStore(user)
	entry := entryAt(user.ID, domain.MoveRock, 7, now.Add(-8*time.Hour))
	matches := newFakeMatchStore(entry)
	gifts := newFakeGiftStore()

	e := newTestEngine(matches, gifts, users, &fakeNotifier{}, now)
	e.Process(context.Background(), []*domain.MatchEntry{entry})

	if got := matches.status(entry.ID); got != domain.MatchStatusTimedOut {
		t.Errorf("status = %q, want timeout", got)
	}
	if len(gifts.created) != 1 {
		t.Fatalf("gifts created = %d, want 1", len(gifts.created))
	}
	if got := gifts.created[0].gift.Payload.Amount; got != 14 {
		t.Errorf("forfeit reward = %d, want twice the stake", got)
	}
}
