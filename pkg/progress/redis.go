package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const (
	progressKeyPrefix = "achievements:progress:"
	playersIndexKey   = "achievements:players"

	// upsertMaxRetries bounds optimistic-concurrency retries before a
	// write surfaces ErrConflict.
	upsertMaxRetries = 5
)

// RedisStore implements Store using one Redis hash per player (field per
// achievement, JSON-encoded record) plus a set indexing all players with
// progress. Writes go through WATCH/MULTI so a racing writer forces a
// retry instead of a lost update.
type RedisStore struct {
	client *redis.Client
	cfg    RedisStoreConfig

	// beforeCommit runs between the watched read and the transactional
	// write of an upsert. Tests use it to interleave a racing writer.
	beforeCommit func()
}

type RedisStoreConfig struct{}

// NewRedisStore creates a new Redis-backed progress store.
func NewRedisStore(client *redis.Client, cfg RedisStoreConfig) *RedisStore {
	return &RedisStore{
		client: client,
		cfg:    cfg,
	}
}

func makeProgressKey(playerID string) string {
	return fmt.Sprintf("%s%s", progressKeyPrefix, playerID)
}

// Get retrieves a single progress record.
func (r *RedisStore) Get(ctx context.Context, playerID, achievementID string) (*PlayerAchievementProgress, error) {
	key := makeProgressKey(playerID)

	data, err := r.client.HGet(ctx, key, achievementID).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get progress for player %s: %w", playerID, err)
	}

	var record PlayerAchievementProgress
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal progress for player %s achievement %s: %w",
			playerID, achievementID, err)
	}

	return &record, nil
}

// GetAll retrieves every progress record for a player.
func (r *RedisStore) GetAll(ctx context.Context, playerID string) (map[string]*PlayerAchievementProgress, error) {
	key := makeProgressKey(playerID)

	data, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get progress for player %s: %w", playerID, err)
	}

	records := make(map[string]*PlayerAchievementProgress, len(data))
	for achievementID, encoded := range data {
		var record PlayerAchievementProgress
		if err := json.Unmarshal([]byte(encoded), &record); err != nil {
			logrus.Errorf("skipping corrupt progress record for player %s achievement %s: %v",
				playerID, achievementID, err)
			continue
		}
		records[achievementID] = &record
	}

	return records, nil
}

// Upsert writes a record under optimistic concurrency. The stored
// achieved flag is monotonic: an already-achieved record keeps its
// achieved state, full percentage and original DateEarned regardless of
// what the caller passes.
func (r *RedisStore) Upsert(ctx context.Context, record *PlayerAchievementProgress) error {
	key := makeProgressKey(record.PlayerID)

	attempt := func() error {
		return r.client.Watch(ctx, func(tx *redis.Tx) error {
			merged := *record

			existing, err := tx.HGet(ctx, key, record.AchievementID).Result()
			if err != nil && err != redis.Nil {
				return err
			}
			if err == nil {
				var current PlayerAchievementProgress
				if jsonErr := json.Unmarshal([]byte(existing), &current); jsonErr == nil && current.Achieved {
					merged.Achieved = true
					merged.PercentComplete = 100
					merged.DateEarned = current.DateEarned
				}
			}

			data, err := json.Marshal(&merged)
			if err != nil {
				return fmt.Errorf("failed to marshal progress: %w", err)
			}

			if r.beforeCommit != nil {
				r.beforeCommit()
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.HSet(ctx, key, record.AchievementID, data)
				pipe.SAdd(ctx, playersIndexKey, record.PlayerID)
				return nil
			})
			return err
		}, key)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(newUpsertBackOff(), upsertMaxRetries), ctx)

	err := backoff.Retry(func() error {
		err := attempt()
		if err == redis.TxFailedErr {
			logrus.Debugf("progress write race for player %s achievement %s, retrying",
				record.PlayerID, record.AchievementID)
			return err
		}
		if err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}, policy)

	if err == redis.TxFailedErr {
		return fmt.Errorf("player %s achievement %s: %w", record.PlayerID, record.AchievementID, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to upsert progress for player %s: %w", record.PlayerID, err)
	}
	return nil
}

func newUpsertBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 10 * time.Millisecond
	b.MaxInterval = 250 * time.Millisecond
	return b
}

// Players returns all players with at least one progress record.
func (r *RedisStore) Players(ctx context.Context) ([]string, error) {
	players, err := r.client.SMembers(ctx, playersIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return players, nil
}

// ResetAll clears all progress records for all players in a single
// transaction. The player index itself survives inside the transaction
// read, so the deletion covers exactly the indexed players.
func (r *RedisStore) ResetAll(ctx context.Context) error {
	players, err := r.Players(ctx)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	for _, playerID := range players {
		pipe.Del(ctx, makeProgressKey(playerID))
	}
	pipe.Del(ctx, playersIndexKey)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to reset progress: %w", err)
	}

	logrus.Warnf("cleared all achievement progress for %d players", len(players))
	return nil
}
