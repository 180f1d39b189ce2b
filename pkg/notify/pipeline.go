package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/RocketPartners/ping-pong-app-sub004/pkg/catalog"
)

const notificationKeyPrefix = "achievements:notifications:"

// PipelineConfig tunes notification retention.
type PipelineConfig struct {
	// RetentionWindow drops notifications older than this on write and
	// hides them on read. Zero means the default.
	RetentionWindow time.Duration

	// MaxPerPlayer bounds the per-player notification list. Zero means
	// the default.
	MaxPerPlayer int

	// Thresholds for celebration level derivation. Zero value means
	// defaults.
	Thresholds Thresholds
}

func (c *PipelineConfig) applyDefaults() {
	if c.RetentionWindow <= 0 {
		c.RetentionWindow = 30 * 24 * time.Hour
	}
	if c.MaxPerPlayer <= 0 {
		c.MaxPerPlayer = 100
	}
	if c.Thresholds == (Thresholds{}) {
		c.Thresholds = DefaultThresholds()
	}
}

// Pipeline converts unlock transitions into player-visible notifications
// with deduplication and seen tracking. Backed by one Redis hash per
// player, field per achievement. Only the pipeline mutates its store.
type Pipeline struct {
	client *redis.Client
	rates  CompletionRateFunc
	cfg    PipelineConfig
}

// NewPipeline creates a new notification pipeline. rates may be nil; the
// celebration level then derives from category alone.
func NewPipeline(client *redis.Client, rates CompletionRateFunc, cfg PipelineConfig) *Pipeline {
	cfg.applyDefaults()
	return &Pipeline{
		client: client,
		rates:  rates,
		cfg:    cfg,
	}
}

func makeNotificationKey(playerID string) string {
	return fmt.Sprintf("%s%s", notificationKeyPrefix, playerID)
}

// LevelFor derives the celebration level for an achievement using the
// pipeline's analytics source and thresholds.
func (p *Pipeline) LevelFor(def catalog.AchievementDefinition) CelebrationLevel {
	return CelebrationLevelFor(def, p.rates, p.cfg.Thresholds)
}

// Enqueue appends an unlock notification. No-op if an unseen notification
// for the same (player, achievement) already exists, which makes retried
// unlock processing idempotent.
func (p *Pipeline) Enqueue(ctx context.Context, playerID, achievementID string, level CelebrationLevel) error {
	key := makeNotificationKey(playerID)

	existing, err := p.get(ctx, playerID, achievementID)
	if err != nil {
		return err
	}
	if existing != nil && !existing.Seen {
		logrus.Debugf("unseen notification already exists for player %s achievement %s, skipping",
			playerID, achievementID)
		return nil
	}

	notification := &AchievementNotification{
		ID:            uuid.NewString(),
		PlayerID:      playerID,
		AchievementID: achievementID,
		Level:         level,
		Timestamp:     time.Now(),
	}

	data, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	if err := p.client.HSet(ctx, key, achievementID, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue notification for player %s: %w", playerID, err)
	}
	p.client.Expire(ctx, key, p.cfg.RetentionWindow)

	if err := p.prune(ctx, playerID); err != nil {
		logrus.Warnf("failed to prune notifications for player %s: %v", playerID, err)
	}

	logrus.Infof("enqueued %s notification for player %s achievement %s", level, playerID, achievementID)
	return nil
}

// MarkSeen marks a single notification as seen/acknowledged.
func (p *Pipeline) MarkSeen(ctx context.Context, playerID, achievementID string) error {
	notification, err := p.get(ctx, playerID, achievementID)
	if err != nil {
		return err
	}
	if notification == nil {
		return fmt.Errorf("no notification for player %s achievement %s", playerID, achievementID)
	}
	if notification.Seen {
		return nil
	}

	notification.Seen = true
	return p.put(ctx, notification)
}

// MarkAllSeen marks every notification for a player as seen.
func (p *Pipeline) MarkAllSeen(ctx context.Context, playerID string) error {
	all, err := p.load(ctx, playerID)
	if err != nil {
		return err
	}

	for _, notification := range all {
		if notification.Seen {
			continue
		}
		notification.Seen = true
		if err := p.put(ctx, notification); err != nil {
			return err
		}
	}
	return nil
}

// Clear removes all notifications for a player.
func (p *Pipeline) Clear(ctx context.Context, playerID string) error {
	if err := p.client.Del(ctx, makeNotificationKey(playerID)).Err(); err != nil {
		return fmt.Errorf("failed to clear notifications for player %s: %w", playerID, err)
	}
	return nil
}

// Recent returns the player's notifications within the window, newest
// first. A zero window uses the configured retention window.
func (p *Pipeline) Recent(ctx context.Context, playerID string, window time.Duration) ([]*AchievementNotification, error) {
	if window <= 0 {
		window = p.cfg.RetentionWindow
	}
	cutoff := time.Now().Add(-window)

	all, err := p.load(ctx, playerID)
	if err != nil {
		return nil, err
	}

	recent := make([]*AchievementNotification, 0, len(all))
	for _, notification := range all {
		if notification.Timestamp.Before(cutoff) {
			continue
		}
		recent = append(recent, notification)
	}

	sort.Slice(recent, func(i, j int) bool {
		return recent[i].Timestamp.After(recent[j].Timestamp)
	})

	return recent, nil
}

// get returns one notification or nil if none exists.
func (p *Pipeline) get(ctx context.Context, playerID, achievementID string) (*AchievementNotification, error) {
	data, err := p.client.HGet(ctx, makeNotificationKey(playerID), achievementID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notification for player %s: %w", playerID, err)
	}

	var notification AchievementNotification
	if err := json.Unmarshal([]byte(data), &notification); err != nil {
		return nil, fmt.Errorf("failed to unmarshal notification for player %s: %w", playerID, err)
	}
	return &notification, nil
}

func (p *Pipeline) put(ctx context.Context, notification *AchievementNotification) error {
	data, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	key := makeNotificationKey(notification.PlayerID)
	if err := p.client.HSet(ctx, key, notification.AchievementID, data).Err(); err != nil {
		return fmt.Errorf("failed to store notification for player %s: %w", notification.PlayerID, err)
	}
	return nil
}

func (p *Pipeline) load(ctx context.Context, playerID string) ([]*AchievementNotification, error) {
	data, err := p.client.HGetAll(ctx, makeNotificationKey(playerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load notifications for player %s: %w", playerID, err)
	}

	notifications := make([]*AchievementNotification, 0, len(data))
	for achievementID, encoded := range data {
		var notification AchievementNotification
		if err := json.Unmarshal([]byte(encoded), &notification); err != nil {
			logrus.Errorf("skipping corrupt notification for player %s achievement %s: %v",
				playerID, achievementID, err)
			continue
		}
		notifications = append(notifications, &notification)
	}
	return notifications, nil
}

// prune drops expired notifications and trims the list to the per-player
// bound, removing oldest seen entries first.
func (p *Pipeline) prune(ctx context.Context, playerID string) error {
	all, err := p.load(ctx, playerID)
	if err != nil {
		return err
	}

	key := makeNotificationKey(playerID)
	cutoff := time.Now().Add(-p.cfg.RetentionWindow)

	kept := make([]*AchievementNotification, 0, len(all))
	var expired []string
	for _, notification := range all {
		if notification.Timestamp.Before(cutoff) {
			expired = append(expired, notification.AchievementID)
			continue
		}
		kept = append(kept, notification)
	}

	if len(kept) > p.cfg.MaxPerPlayer {
		// Seen entries go before unseen ones, oldest first within each
		// group, so an unacknowledged unlock outlives acknowledged ones.
		sort.Slice(kept, func(i, j int) bool {
			if kept[i].Seen != kept[j].Seen {
				return kept[i].Seen
			}
			return kept[i].Timestamp.Before(kept[j].Timestamp)
		})
		for _, notification := range kept[:len(kept)-p.cfg.MaxPerPlayer] {
			expired = append(expired, notification.AchievementID)
		}
	}

	if len(expired) > 0 {
		if err := p.client.HDel(ctx, key, expired...).Err(); err != nil {
			return fmt.Errorf("failed to prune notifications for player %s: %w", playerID, err)
		}
	}
	return nil
}
