package domain

import (
	"fmt"
	"time"
)

type Move string

const (
	MoveRock     Move = "rock"
	MovePaper    Move = "paper"
	MoveScissors Move = "scissors"
)

func ParseMove(s string) (Move, error) {
	switch Move(s) {
	case MoveRock, MovePaper, MoveScissors:
		return Move(s), nil
	default:
		return "", fmt.Errorf("%w: unsupported move %q", ErrBadRequest, s)
	}
}

type Outcome int

const (
	OutcomeTie Outcome = iota
	OutcomeWin
	OutcomeLose
)

// Fight resolves m against other by the cyclic dominance rule:
// rock beats scissors, scissors beats paper, paper beats rock.
func (m Move) Fight(other Move) Outcome {
	if m == other {
		return OutcomeTie
	}
	switch m {
	case MoveRock:
		if other == MoveScissors {
			return OutcomeWin
		}
	case MovePaper:
		if other == MoveRock {
			return OutcomeWin
		}
	case MoveScissors:
		if other == MovePaper {
			return OutcomeWin
		}
	}
	return OutcomeLose
}

type MatchStatus string

const (
	MatchStatusPending  MatchStatus = "pending"
	MatchStatusWon      MatchStatus = "won"
	MatchStatusLost     MatchStatus = "lost"
	// MatchStatusTimedOut is the terminal bye state: the entry waited past
	// the timeout without an opponent and was forfeited in its owner's favor.
	MatchStatusTimedOut MatchStatus = "timeout"
)

func ParseMatchStatus(s string) (MatchStatus, error) {
	switch MatchStatus(s) {
	case MatchStatusPending, MatchStatusWon, MatchStatusLost, MatchStatusTimedOut:
		return MatchStatus(s), nil
	default:
		return "", fmt.Errorf("%w: unsupported match status %q", ErrBadRequest, s)
	}
}

// MatchEntry is one user's wager in the pairwise match pool. The stake is
// debited when the entry is created; the entry transitions out of pending
// exactly once and is immutable afterwards.
type MatchEntry struct {
	ID           string      `db:"id" json:"id"`
	UserID       string      `db:"user_id" json:"user_id"`
	Move         Move        `db:"move" json:"move"`
	Stake        int64       `db:"stake" json:"stake"`
	Status       MatchStatus `db:"status" json:"status"`
	OpponentID   string      `db:"opponent_id" json:"opponent_id,omitempty"`
	OpponentName string      `db:"opponent_name" json:"opponent_name,omitempty"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
}

func NewMatchEntry(userID string, move Move, stake int64) *MatchEntry {
	return &MatchEntry{
		ID:        NewID(),
		UserID:    userID,
		Move:      move,
		Stake:     stake,
		Status:    MatchStatusPending,
		CreatedAt: time.Now(),
	}
}

func (e *MatchEntry) SetOpponent(id, name string) {
	e.OpponentID = id
	e.OpponentName = name
}
