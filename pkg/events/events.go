package events

import "time"

// Event type identifiers.
const (
	TypeGameCompleted      = "game_completed"
	TypeRatingUpdated      = "rating_updated"
	TypeStreakChanged      = "streak_changed"
	TypeTournamentProgress = "tournament_progress"
	TypeEasterEggFound     = "easter_egg_found"
	TypeRecalculatePlayer  = "recalculate_player"
	TypeRecalculateAll     = "recalculate_all"
)

// Event is a normalized domain event consumed by the evaluation
// coordinator. Producers (game recording, rating service, tournament
// service, scheduled jobs) live outside this service; the coordinator
// dispatches on Type and evaluates each player in PlayerIDs
// independently.
type Event interface {
	// Type returns the event type identifier.
	Type() string

	// PlayerIDs returns the players affected by this event. An empty
	// slice means the event applies to every known player (admin
	// recalculation).
	PlayerIDs() []string
}

// GameCompleted is emitted when a game result is recorded.
type GameCompleted struct {
	GameType     string    `json:"game_type"`
	Winners      []string  `json:"winners"`
	Losers       []string  `json:"losers"`
	IsRatingGame bool      `json:"is_rating_game"`
	PlayedAt     time.Time `json:"played_at"`
}

func (e *GameCompleted) Type() string { return TypeGameCompleted }

func (e *GameCompleted) PlayerIDs() []string {
	ids := make([]string, 0, len(e.Winners)+len(e.Losers))
	ids = append(ids, e.Winners...)
	ids = append(ids, e.Losers...)
	return ids
}

// RatingUpdated is emitted after the rating service adjusts a player's
// rating. The engine consumes the new rating as an input; the rating
// formula itself is an external concern.
type RatingUpdated struct {
	PlayerID  string `json:"player_id"`
	GameType  string `json:"game_type"`
	OldRating int    `json:"old_rating"`
	NewRating int    `json:"new_rating"`
}

func (e *RatingUpdated) Type() string        { return TypeRatingUpdated }
func (e *RatingUpdated) PlayerIDs() []string { return []string{e.PlayerID} }

// StreakChanged is emitted when a player's win or loss streak changes.
type StreakChanged struct {
	PlayerID             string `json:"player_id"`
	NewWinStreak         int    `json:"new_win_streak"`
	NewLossStreak        int    `json:"new_loss_streak"`
	PreviousWinStreak    int    `json:"previous_win_streak"`
	PreviousLossStreak   int    `json:"previous_loss_streak"`
	IsNewWinStreakRecord bool   `json:"is_new_win_streak_record"`
}

func (e *StreakChanged) Type() string        { return TypeStreakChanged }
func (e *StreakChanged) PlayerIDs() []string { return []string{e.PlayerID} }

// Tournament progression event kinds.
const (
	TournamentPlayerRegistered = "PLAYER_REGISTERED"
	TournamentRoundCompleted   = "ROUND_COMPLETED"
	TournamentSemifinalReached = "SEMIFINAL_REACHED"
	TournamentFinalReached     = "FINAL_REACHED"
	TournamentWon              = "TOURNAMENT_WON"
)

// TournamentProgress is emitted as players advance through a tournament
// bracket. Bracket generation is external; the engine only counts
// milestones.
type TournamentProgress struct {
	TournamentID string   `json:"tournament_id"`
	EventType    string   `json:"event_type"`
	Players      []string `json:"players"`
	Round        int      `json:"round"`
}

func (e *TournamentProgress) Type() string        { return TypeTournamentProgress }
func (e *TournamentProgress) PlayerIDs() []string { return e.Players }

// EasterEggFound is emitted when a player discovers a hidden easter egg.
type EasterEggFound struct {
	PlayerID          string `json:"player_id"`
	PointsEarned      int    `json:"points_earned"`
	TotalEggsFound    int    `json:"total_eggs_found"`
	TotalPointsEarned int    `json:"total_points_earned"`
}

func (e *EasterEggFound) Type() string        { return TypeEasterEggFound }
func (e *EasterEggFound) PlayerIDs() []string { return []string{e.PlayerID} }

// RecalculatePlayer is an explicit admin trigger to re-evaluate every
// achievement for a single player.
type RecalculatePlayer struct {
	PlayerID string `json:"player_id"`
}

func (e *RecalculatePlayer) Type() string        { return TypeRecalculatePlayer }
func (e *RecalculatePlayer) PlayerIDs() []string { return []string{e.PlayerID} }

// RecalculateAll is an explicit admin trigger to re-evaluate every
// achievement for every known player. PlayerIDs is empty; the
// coordinator resolves the player set from the progress store.
type RecalculateAll struct{}

func (e *RecalculateAll) Type() string        { return TypeRecalculateAll }
func (e *RecalculateAll) PlayerIDs() []string { return nil }
