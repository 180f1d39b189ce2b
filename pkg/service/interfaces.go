package service

import (
	"context"

	"github.com/RocketPartners/ping-pong-app-sub004/pkg/events"
)

// Service interfaces for external dependencies the engine consumes.
//
// You may not need to have interface and go with direct struct usage,
// but having interfaces allows easier mocking for unit tests.

// SnapshotProvider returns the current player snapshot (counters, ratings,
// best streaks) needed by condition evaluators. The snapshot is owned by
// player/game persistence; the engine only reads it.
type SnapshotProvider interface {
	GetSnapshot(ctx context.Context, playerID string) (*PlayerSnapshot, error)
}

// StatTracker folds incoming domain events into per-player statistics and
// serves them back as snapshots. The coordinator applies events inside the
// per-player critical section, so tracker writes for one player never race.
type StatTracker interface {
	SnapshotProvider

	// Apply updates the player's statistics from a domain event.
	Apply(ctx context.Context, playerID string, event events.Event) error
}
