package analytics

import "time"

// Difficulty is the empirically calibrated difficulty label derived from
// population completion rates. Distinct from the author-assigned category.
type Difficulty string

const (
	DifficultyVeryEasy Difficulty = "VERY_EASY"
	DifficultyEasy     Difficulty = "EASY"
	DifficultyModerate Difficulty = "MODERATE"
	DifficultyHard     Difficulty = "HARD"
	DifficultyVeryHard Difficulty = "VERY_HARD"
)

// Trend describes how an achievement's unlock rate is moving across the
// two most recent trailing windows.
type Trend string

const (
	TrendIncreasing Trend = "INCREASING"
	TrendDecreasing Trend = "DECREASING"
	TrendStable     Trend = "STABLE"
)

// Snapshot is the population-level view of a single achievement.
// Snapshots are immutable; each recomputation produces a new snapshot
// that atomically replaces the prior one.
type Snapshot struct {
	AchievementID        string     `json:"achievement_id"`
	CompletionRate       float64    `json:"completion_rate"`
	EvaluatedPlayers     int        `json:"evaluated_players"`
	AchievedCount        int        `json:"achieved_count"`
	CalculatedDifficulty Difficulty `json:"calculated_difficulty"`
	Trend                Trend      `json:"trend"`
	ComputedAt           time.Time  `json:"computed_at"`
}

// Summary is the full analytics report across the catalog, in catalog
// load order for deterministic iteration.
type Summary struct {
	TotalAchievements int         `json:"total_achievements"`
	EvaluatedPlayers  int         `json:"evaluated_players"`
	Achievements      []*Snapshot `json:"achievements"`
	GeneratedAt       time.Time   `json:"generated_at"`
}

// difficultyFor buckets a completion rate into a difficulty label.
func difficultyFor(rate float64) Difficulty {
	switch {
	case rate >= 0.50:
		return DifficultyVeryEasy
	case rate >= 0.25:
		return DifficultyEasy
	case rate >= 0.10:
		return DifficultyModerate
	case rate >= 0.02:
		return DifficultyHard
	default:
		return DifficultyVeryHard
	}
}
