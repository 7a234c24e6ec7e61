package repository

import (
	"context"

	redis "github.com/redis/go-redis/v9"
)

const (
	rankPointsKey = "rank:points"
	rankDiffsKey  = "rank:diffs"
)

// RankingRepository keeps the leaderboard in Redis sorted sets. The scores
// are fed by the snapshot cycle and are read-only everywhere else; the
// balance in Postgres stays authoritative.
type RankingRepository struct {
	rdb *redis.Client
}

func NewRankingRepository(rdb *redis.Client) *RankingRepository {
	return &RankingRepository{rdb: rdb}
}

// UpdateScores records a user's current balance and latest diff.
func (r *RankingRepository) UpdateScores(ctx context.Context, userID string, points, diff int64) error {
	if r.rdb == nil {
		return nil
	}

	pipe := r.rdb.Pipeline()
	pipe.ZAdd(ctx, rankPointsKey, redis.Z{Score: float64(points), Member: userID})
	pipe.ZAdd(ctx, rankDiffsKey, redis.Z{Score: float64(diff), Member: userID})
	_, err := pipe.Exec(ctx)
	return err
}

// RankedID is a leaderboard member with its score.
type RankedID struct {
	UserID string
	Score  int64
}

func (r *RankingRepository) TopByPoints(ctx context.Context, n int) ([]RankedID, error) {
	return r.top(ctx, rankPointsKey, n)
}

func (r *RankingRepository) TopByDiffs(ctx context.Context, n int) ([]RankedID, error) {
	return r.top(ctx, rankDiffsKey, n)
}

func (r *RankingRepository) top(ctx context.Context, key string, n int) ([]RankedID, error) {
	if r.rdb == nil {
		return nil, nil
	}

	zs, err := r.rdb.ZRevRangeWithScores(ctx, key, 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}

	ranked := make([]RankedID, 0, len(zs))
	for _, z := range zs {
		id, ok := z.Member.(string)
		if !ok {
			continue
		}
		ranked = append(ranked, RankedID{UserID: id, Score: int64(z.Score)})
	}
	return ranked, nil
}
