// Package cache keeps a Redis sorted set of user rating averages so the
// top-rated listing does not hit Mongo on every request.
package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const leaderboardKey = "leaderboard:rating"

// LeaderboardCache ranks users by their aggregate rating average using a
// Redis sorted set. Scores are rewritten whenever a rating is recomputed, so
// the set always mirrors the rating.average fields in Mongo.
type LeaderboardCache struct {
	client *redis.Client
}

// NewLeaderboardCache connects to Redis and verifies the connection.
func NewLeaderboardCache(ctx context.Context, addr, password string) (*LeaderboardCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %v", err)
	}

	return &LeaderboardCache{client: client}, nil
}

// SetUserRating stores the user's current rating average.
func (c *LeaderboardCache) SetUserRating(ctx context.Context, userID string, average float64) error {
	return c.client.ZAdd(ctx, leaderboardKey, redis.Z{Score: average, Member: userID}).Err()
}

// RemoveUser drops a user from the leaderboard (e.g. on deactivation).
func (c *LeaderboardCache) RemoveUser(ctx context.Context, userID string) error {
	return c.client.ZRem(ctx, leaderboardKey, userID).Err()
}

// TopRated returns up to limit user IDs ordered by rating, best first.
func (c *LeaderboardCache) TopRated(ctx context.Context, limit int64) ([]string, error) {
	ids, err := c.client.ZRevRange(ctx, leaderboardKey, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %v", err)
	}
	return ids, nil
}

// Close releases the underlying Redis connection.
func (c *LeaderboardCache) Close() error {
	return c.client.Close()
}
