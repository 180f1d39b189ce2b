package mock

import (
	"context"
	"sync"

	"github.com/RocketPartners/ping-pong-app-sub004/pkg/events"
	"github.com/RocketPartners/ping-pong-app-sub004/pkg/service"
)

// SnapshotProvider is a mock implementation of service.SnapshotProvider
// for testing. Snapshots are keyed by player ID; unknown players get an
// empty snapshot.
type SnapshotProvider struct {
	mu sync.Mutex

	// GetSnapshotFunc overrides GetSnapshot when set
	GetSnapshotFunc func(ctx context.Context, playerID string) (*service.PlayerSnapshot, error)

	// Snapshots holds per-player canned data
	Snapshots map[string]*service.PlayerSnapshot

	// DefaultError is returned by GetSnapshot when set
	DefaultError error

	// Call tracking
	GetSnapshotCalls []string
}

// NewSnapshotProvider creates a new mock SnapshotProvider.
func NewSnapshotProvider() *SnapshotProvider {
	return &SnapshotProvider{
		Snapshots: make(map[string]*service.PlayerSnapshot),
	}
}

// SetCounter sets a counter for a player, creating the snapshot if needed.
func (m *SnapshotProvider) SetCounter(playerID, counter string, value int) *SnapshotProvider {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.snapshot(playerID).Counters[counter] = value
	return m
}

// SetRating sets a rating for a player, creating the snapshot if needed.
func (m *SnapshotProvider) SetRating(playerID, gameType string, rating int) *SnapshotProvider {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.snapshot(playerID).Ratings[gameType] = rating
	return m
}

// SetBestStreaks sets the best streaks for a player.
func (m *SnapshotProvider) SetBestStreaks(playerID string, win, loss int) *SnapshotProvider {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.snapshot(playerID)
	s.BestWinStreak = win
	s.BestLossStreak = loss
	return m
}

func (m *SnapshotProvider) snapshot(playerID string) *service.PlayerSnapshot {
	s, ok := m.Snapshots[playerID]
	if !ok {
		s = service.NewPlayerSnapshot(playerID)
		m.Snapshots[playerID] = s
	}
	return s
}

// GetSnapshot implements service.SnapshotProvider.
func (m *SnapshotProvider) GetSnapshot(ctx context.Context, playerID string) (*service.PlayerSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetSnapshotCalls = append(m.GetSnapshotCalls, playerID)

	if m.GetSnapshotFunc != nil {
		return m.GetSnapshotFunc(ctx, playerID)
	}
	if m.DefaultError != nil {
		return nil, m.DefaultError
	}

	if s, ok := m.Snapshots[playerID]; ok {
		copied := service.NewPlayerSnapshot(playerID)
		for k, v := range s.Counters {
			copied.Counters[k] = v
		}
		for k, v := range s.Ratings {
			copied.Ratings[k] = v
		}
		copied.BestWinStreak = s.BestWinStreak
		copied.BestLossStreak = s.BestLossStreak
		return copied, nil
	}

	return service.NewPlayerSnapshot(playerID), nil
}

// StatTracker is a mock implementation of service.StatTracker. Apply is
// recorded but does not change snapshots; tests drive snapshot content
// directly through the embedded SnapshotProvider.
type StatTracker struct {
	*SnapshotProvider

	ApplyFunc  func(ctx context.Context, playerID string, event events.Event) error
	ApplyCalls []ApplyCall
}

// ApplyCall tracks parameters for Apply calls.
type ApplyCall struct {
	PlayerID string
	Event    events.Event
}

// NewStatTracker creates a new mock StatTracker.
func NewStatTracker() *StatTracker {
	return &StatTracker{
		SnapshotProvider: NewSnapshotProvider(),
	}
}

// Apply implements service.StatTracker.
func (m *StatTracker) Apply(ctx context.Context, playerID string, event events.Event) error {
	m.mu.Lock()
	m.ApplyCalls = append(m.ApplyCalls, ApplyCall{PlayerID: playerID, Event: event})
	m.mu.Unlock()

	if m.ApplyFunc != nil {
		return m.ApplyFunc(ctx, playerID, event)
	}
	return nil
}
