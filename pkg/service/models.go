package service

// Well-known player counter names. Count threshold conditions reference
// these by name; game-type specific counters are derived as
// "<game_type>_wins" / "<game_type>_losses".
const (
	CounterGamesPlayed               = "games_played"
	CounterGamesWon                  = "games_won"
	CounterGamesLost                 = "games_lost"
	CounterTournamentsEntered        = "tournaments_entered"
	CounterTournamentRoundsCompleted = "tournament_rounds_completed"
	CounterTournamentSemifinals      = "tournament_semifinals"
	CounterTournamentFinals          = "tournament_finals"
	CounterTournamentWins            = "tournament_wins"
	CounterEasterEggsFound           = "easter_eggs_found"
	CounterEasterEggPoints           = "easter_egg_points"
)

// PlayerSnapshot is the read-only view of a player's statistics consumed
// by condition evaluators. Absent data reads as zero: evaluators treat a
// missing counter or rating as no progress, never as an error.
type PlayerSnapshot struct {
	PlayerID       string         `json:"player_id"`
	Counters       map[string]int `json:"counters"`
	Ratings        map[string]int `json:"ratings"`
	BestWinStreak  int            `json:"best_win_streak"`
	BestLossStreak int            `json:"best_loss_streak"`
}

// NewPlayerSnapshot creates an empty snapshot for a player.
func NewPlayerSnapshot(playerID string) *PlayerSnapshot {
	return &PlayerSnapshot{
		PlayerID: playerID,
		Counters: make(map[string]int),
		Ratings:  make(map[string]int),
	}
}

// Counter returns the named counter, or zero if the player has no data
// for it.
func (s *PlayerSnapshot) Counter(name string) int {
	return s.Counters[name]
}

// Rating returns the player's rating for a game type and whether the
// player has ever been rated in it.
func (s *PlayerSnapshot) Rating(gameType string) (int, bool) {
	rating, ok := s.Ratings[gameType]
	return rating, ok
}

// BestStreak returns the best streak of the given kind ("win" or "loss").
func (s *PlayerSnapshot) BestStreak(kind string) int {
	if kind == "loss" {
		return s.BestLossStreak
	}
	return s.BestWinStreak
}
