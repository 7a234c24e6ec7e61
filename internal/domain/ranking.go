package domain

// RankingEntry is one row of the point or point-diff leaderboard.
type RankingEntry struct {
	Rank  int   `json:"rank"`
	User  User  `json:"user"`
	Score int64 `json:"score"`
}
