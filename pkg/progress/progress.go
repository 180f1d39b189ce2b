package progress

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates no progress record exists for the requested
// (player, achievement) pair. Returned to the caller on direct lookups,
// never retried.
var ErrNotFound = errors.New("progress record not found")

// ErrConflict indicates an optimistic-concurrency write lost its race and
// exhausted its retry budget. The failure is scoped to the single record;
// callers continue with sibling records.
var ErrConflict = errors.New("progress record write conflict")

// PlayerAchievementProgress is the per-(player, achievement) ground truth
// for unlock state. Achieved is monotonic: once true it never reverts, and
// implies PercentComplete == 100 with DateEarned set.
type PlayerAchievementProgress struct {
	PlayerID        string     `json:"player_id"`
	AchievementID   string     `json:"achievement_id"`
	PercentComplete int        `json:"percent_complete"`
	Achieved        bool       `json:"achieved"`
	DateEarned      *time.Time `json:"date_earned,omitempty"`
	LastEvaluated   time.Time  `json:"last_evaluated"`
}

// NewProgress creates a zero-progress record for a player and achievement.
func NewProgress(playerID, achievementID string, now time.Time) *PlayerAchievementProgress {
	return &PlayerAchievementProgress{
		PlayerID:      playerID,
		AchievementID: achievementID,
		LastEvaluated: now,
	}
}

// Store is the only mutable ground truth for unlock state. Implementations
// must support atomic read-modify-write per record (or optimistic retry)
// so a player's event and an administrative recalculation cannot lose
// updates.
type Store interface {
	// Get returns the record for a (player, achievement) pair, or
	// ErrNotFound.
	Get(ctx context.Context, playerID, achievementID string) (*PlayerAchievementProgress, error)

	// GetAll returns every record for a player, keyed by achievement ID.
	// A player with no records yields an empty map.
	GetAll(ctx context.Context, playerID string) (map[string]*PlayerAchievementProgress, error)

	// Upsert writes a record, preserving the monotonic achieved invariant:
	// if the stored record is already achieved, the write keeps the
	// original achieved flag, percentage and DateEarned. Returns
	// ErrConflict after bounded retries on a write race.
	Upsert(ctx context.Context, record *PlayerAchievementProgress) error

	// Players returns the IDs of all players with at least one record.
	Players(ctx context.Context) ([]string, error)

	// ResetAll atomically clears all progress for all players. Destructive;
	// guarded upstream by a confirmation token.
	ResetAll(ctx context.Context) error
}
