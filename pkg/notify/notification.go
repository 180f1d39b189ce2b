package notify

import (
	"time"

	"github.com/RocketPartners/ping-pong-app-sub004/pkg/catalog"
)

// CelebrationLevel is the tiered notification intensity derived from an
// achievement's rarity and author-assigned category.
type CelebrationLevel string

const (
	LevelNormal  CelebrationLevel = "NORMAL"
	LevelSpecial CelebrationLevel = "SPECIAL"
	LevelEpic    CelebrationLevel = "EPIC"
)

// AchievementNotification is a player-visible unlock celebration. Created
// exactly once per (player, achievement) unlock transition; owned by the
// notification pipeline.
type AchievementNotification struct {
	ID            string           `json:"id"`
	PlayerID      string           `json:"player_id"`
	AchievementID string           `json:"achievement_id"`
	Level         CelebrationLevel `json:"level"`
	Timestamp     time.Time        `json:"timestamp"`
	Seen          bool             `json:"seen"`
}

// CompletionRateFunc returns the population completion rate for an
// achievement, with ok=false when no analytics snapshot exists yet.
type CompletionRateFunc func(achievementID string) (rate float64, ok bool)

// Thresholds tunes how rarity maps to celebration levels.
type Thresholds struct {
	// EpicRarityBelow: completion rates under this fraction are EPIC.
	EpicRarityBelow float64
	// SpecialRarityBelow: completion rates under this fraction are SPECIAL.
	SpecialRarityBelow float64
}

// DefaultThresholds returns the standard rarity cut-offs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		EpicRarityBelow:    0.05,
		SpecialRarityBelow: 0.20,
	}
}

// CelebrationLevelFor derives the celebration level for an unlock.
// LEGENDARY category or very rare completion is EPIC; HARD category or
// moderately rare completion is SPECIAL; everything else is NORMAL.
// Without an analytics snapshot only the category contributes.
func CelebrationLevelFor(def catalog.AchievementDefinition, rates CompletionRateFunc, t Thresholds) CelebrationLevel {
	rate, hasRate := 0.0, false
	if rates != nil {
		rate, hasRate = rates(def.ID)
	}

	if def.Category == catalog.CategoryLegendary || (hasRate && rate < t.EpicRarityBelow) {
		return LevelEpic
	}
	if def.Category == catalog.CategoryHard || (hasRate && rate < t.SpecialRarityBelow) {
		return LevelSpecial
	}
	return LevelNormal
}
