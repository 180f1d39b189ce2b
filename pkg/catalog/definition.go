package catalog

// Category is the author-assigned difficulty tier of an achievement.
// This is distinct from the empirically calculated difficulty produced
// by the analytics aggregator.
type Category string

const (
	CategoryEasy      Category = "EASY"
	CategoryMedium    Category = "MEDIUM"
	CategoryHard      Category = "HARD"
	CategoryLegendary Category = "LEGENDARY"
)

// IsValid returns true if the category is a known tier.
func (c Category) IsValid() bool {
	switch c {
	case CategoryEasy, CategoryMedium, CategoryHard, CategoryLegendary:
		return true
	default:
		return false
	}
}

// ConditionKind identifies how an achievement's condition is evaluated.
// The set of kinds is closed; each kind has a dedicated evaluator.
type ConditionKind string

const (
	// KindCountThreshold compares a player counter against a target
	// (e.g., "win 10 singles ranked games").
	KindCountThreshold ConditionKind = "count_threshold"

	// KindStreakThreshold compares the player's best streak ever against
	// a target. Best-streak semantics keep the achievement sticky even if
	// the current streak later resets.
	KindStreakThreshold ConditionKind = "streak_threshold"

	// KindRatingThreshold checks the player's current rating in a game
	// type against a target.
	KindRatingThreshold ConditionKind = "rating_threshold"

	// KindCompositeAll requires all referenced achievements to be
	// achieved. Progress is the average of the referenced percentages.
	KindCompositeAll ConditionKind = "composite_all"

	// KindCompositeAny requires any one referenced achievement to be
	// achieved. Progress is the maximum of the referenced percentages.
	KindCompositeAny ConditionKind = "composite_any"
)

// IsValid returns true if the condition kind is a known kind.
func (k ConditionKind) IsValid() bool {
	switch k {
	case KindCountThreshold, KindStreakThreshold, KindRatingThreshold,
		KindCompositeAll, KindCompositeAny:
		return true
	default:
		return false
	}
}

// Streak kinds accepted by KindStreakThreshold conditions.
const (
	StreakWin  = "win"
	StreakLoss = "loss"
)

// ConditionSpec is the tagged variant describing an achievement's unlock
// condition. Kind selects the variant; the remaining fields are
// kind-specific and validated against the kind's schema at load time.
type ConditionSpec struct {
	Kind ConditionKind `yaml:"kind" json:"kind"`

	// Counter is the player counter name for count_threshold conditions
	// (e.g., "singles_ranked_wins").
	Counter string `yaml:"counter,omitempty" json:"counter,omitempty"`

	// Streak is "win" or "loss" for streak_threshold conditions.
	Streak string `yaml:"streak,omitempty" json:"streak,omitempty"`

	// GameType is the rating pool for rating_threshold conditions
	// (e.g., "singles_ranked").
	GameType string `yaml:"game_type,omitempty" json:"game_type,omitempty"`

	// Target is the threshold value for the three threshold kinds.
	Target int `yaml:"target,omitempty" json:"target,omitempty"`

	// Of lists the referenced achievement IDs for composite kinds.
	Of []string `yaml:"of,omitempty" json:"of,omitempty"`
}

// References returns the achievement IDs this condition depends on.
// Only composite kinds reference other achievements.
func (s ConditionSpec) References() []string {
	switch s.Kind {
	case KindCompositeAll, KindCompositeAny:
		return s.Of
	default:
		return nil
	}
}

// AchievementDefinition describes a single achievement. Definitions are
// immutable once loaded; the catalog that owns them is replaced wholesale
// on reload, never mutated in place.
type AchievementDefinition struct {
	ID            string        `yaml:"id" json:"id"`
	Name          string        `yaml:"name" json:"name"`
	Category      Category      `yaml:"category" json:"category"`
	Points        int           `yaml:"points" json:"points"`
	Visible       bool          `yaml:"visible" json:"visible"`
	Condition     ConditionSpec `yaml:"condition" json:"condition"`
	Prerequisites []string      `yaml:"prerequisites,omitempty" json:"prerequisites,omitempty"`
}
