package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/RocketPartners/ping-pong-app-sub004/pkg/events"
)

const (
	statTrackerKeyPrefix = "achievements:player_stats:"

	counterFieldPrefix  = "c:"
	ratingFieldPrefix   = "r:"
	fieldBestWinStreak  = "best_win_streak"
	fieldBestLossStreak = "best_loss_streak"
)

// RedisStatTracker implements StatTracker using a Redis hash per player.
// Counters use HINCRBY; ratings and best streaks are absolute values.
type RedisStatTracker struct {
	client *redis.Client
	cfg    RedisStatTrackerConfig
}

type RedisStatTrackerConfig struct{}

// NewRedisStatTracker creates a new Redis-backed stat tracker.
func NewRedisStatTracker(client *redis.Client, cfg RedisStatTrackerConfig) *RedisStatTracker {
	return &RedisStatTracker{
		client: client,
		cfg:    cfg,
	}
}

func makeStatTrackerKey(playerID string) string {
	return fmt.Sprintf("%s%s", statTrackerKeyPrefix, playerID)
}

// Apply folds a domain event into the player's statistics. Callers must
// hold the player's evaluation lock; best-streak updates are read-compare-
// write and rely on that serialization.
func (r *RedisStatTracker) Apply(ctx context.Context, playerID string, event events.Event) error {
	key := makeStatTrackerKey(playerID)

	switch e := event.(type) {
	case *events.GameCompleted:
		return r.applyGameCompleted(ctx, key, playerID, e)

	case *events.RatingUpdated:
		if err := r.client.HSet(ctx, key, ratingFieldPrefix+e.GameType, e.NewRating).Err(); err != nil {
			return fmt.Errorf("failed to set rating for player %s: %w", playerID, err)
		}
		return nil

	case *events.StreakChanged:
		return r.applyStreakChanged(ctx, key, playerID, e)

	case *events.TournamentProgress:
		counter, ok := tournamentCounter(e.EventType)
		if !ok {
			logrus.Debugf("ignoring tournament event type %s for player %s", e.EventType, playerID)
			return nil
		}
		if err := r.client.HIncrBy(ctx, key, counterFieldPrefix+counter, 1).Err(); err != nil {
			return fmt.Errorf("failed to increment %s for player %s: %w", counter, playerID, err)
		}
		return nil

	case *events.EasterEggFound:
		// Egg events carry running totals, not deltas.
		err := r.client.HSet(ctx, key,
			counterFieldPrefix+CounterEasterEggsFound, e.TotalEggsFound,
			counterFieldPrefix+CounterEasterEggPoints, e.TotalPointsEarned,
		).Err()
		if err != nil {
			return fmt.Errorf("failed to set egg counters for player %s: %w", playerID, err)
		}
		return nil

	default:
		// Recalculation triggers carry no statistics.
		return nil
	}
}

func (r *RedisStatTracker) applyGameCompleted(ctx context.Context, key, playerID string, e *events.GameCompleted) error {
	fields := []string{counterFieldPrefix + CounterGamesPlayed}

	if contains(e.Winners, playerID) {
		fields = append(fields,
			counterFieldPrefix+CounterGamesWon,
			counterFieldPrefix+e.GameType+"_wins")
	}
	if contains(e.Losers, playerID) {
		fields = append(fields,
			counterFieldPrefix+CounterGamesLost,
			counterFieldPrefix+e.GameType+"_losses")
	}

	pipe := r.client.TxPipeline()
	for _, field := range fields {
		pipe.HIncrBy(ctx, key, field, 1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to increment game counters for player %s: %w", playerID, err)
	}
	return nil
}

func (r *RedisStatTracker) applyStreakChanged(ctx context.Context, key, playerID string, e *events.StreakChanged) error {
	current, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to read streaks for player %s: %w", playerID, err)
	}

	bestWin := parseIntField(current, fieldBestWinStreak)
	bestLoss := parseIntField(current, fieldBestLossStreak)

	if e.NewWinStreak > bestWin {
		bestWin = e.NewWinStreak
	}
	if e.NewLossStreak > bestLoss {
		bestLoss = e.NewLossStreak
	}

	err = r.client.HSet(ctx, key,
		fieldBestWinStreak, bestWin,
		fieldBestLossStreak, bestLoss,
	).Err()
	if err != nil {
		return fmt.Errorf("failed to set streaks for player %s: %w", playerID, err)
	}
	return nil
}

// GetSnapshot retrieves the player's statistics from Redis. A player with
// no recorded stats gets an empty snapshot, never an error.
func (r *RedisStatTracker) GetSnapshot(ctx context.Context, playerID string) (*PlayerSnapshot, error) {
	key := makeStatTrackerKey(playerID)

	data, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get stats for player %s: %w", playerID, err)
	}

	snapshot := NewPlayerSnapshot(playerID)
	for field, value := range data {
		n, err := strconv.Atoi(value)
		if err != nil {
			// Skip invalid entries
			continue
		}

		switch {
		case strings.HasPrefix(field, counterFieldPrefix):
			snapshot.Counters[strings.TrimPrefix(field, counterFieldPrefix)] = n
		case strings.HasPrefix(field, ratingFieldPrefix):
			snapshot.Ratings[strings.TrimPrefix(field, ratingFieldPrefix)] = n
		case field == fieldBestWinStreak:
			snapshot.BestWinStreak = n
		case field == fieldBestLossStreak:
			snapshot.BestLossStreak = n
		}
	}

	return snapshot, nil
}

// tournamentCounter maps a tournament event type to the counter it feeds.
func tournamentCounter(eventType string) (string, bool) {
	switch eventType {
	case events.TournamentPlayerRegistered:
		return CounterTournamentsEntered, true
	case events.TournamentRoundCompleted:
		return CounterTournamentRoundsCompleted, true
	case events.TournamentSemifinalReached:
		return CounterTournamentSemifinals, true
	case events.TournamentFinalReached:
		return CounterTournamentFinals, true
	case events.TournamentWon:
		return CounterTournamentWins, true
	default:
		return "", false
	}
}

func parseIntField(data map[string]string, field string) int {
	n, err := strconv.Atoi(data[field])
	if err != nil {
		return 0
	}
	return n
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
