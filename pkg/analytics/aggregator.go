package analytics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/RocketPartners/ping-pong-app-sub004/pkg/catalog"
	"github.com/RocketPartners/ping-pong-app-sub004/pkg/progress"
)

// Scope selects which achievements a recalculation covers. The zero value
// means the whole catalog.
type Scope struct {
	// AchievementID limits the recalculation to a single achievement.
	AchievementID string

	// StalenessOlderThan limits the recalculation to achievements whose
	// snapshot is older than this duration (or missing).
	StalenessOlderThan time.Duration
}

// ScopeAll recalculates every achievement.
func ScopeAll() Scope { return Scope{} }

// ScopeAchievement recalculates a single achievement.
func ScopeAchievement(id string) Scope { return Scope{AchievementID: id} }

// ScopeStale recalculates achievements whose snapshot is older than d.
func ScopeStale(d time.Duration) Scope { return Scope{StalenessOlderThan: d} }

// Config tunes the aggregator.
type Config struct {
	// TrendWindow is the trailing window length used for trend
	// comparison. Zero means the default (7 days).
	TrendWindow time.Duration

	// MinSampleSize is the minimum evaluated-player count before an
	// achievement can be flagged as needing attention.
	MinSampleSize int

	// AttentionRateBelow flags achievements whose completion rate is
	// under this fraction as needing attention.
	AttentionRateBelow float64
}

func (c *Config) applyDefaults() {
	if c.TrendWindow <= 0 {
		c.TrendWindow = 7 * 24 * time.Hour
	}
	if c.MinSampleSize <= 0 {
		c.MinSampleSize = 10
	}
	if c.AttentionRateBelow <= 0 {
		c.AttentionRateBelow = 0.01
	}
}

// Aggregator recomputes population-level achievement analytics from the
// progress store. It runs off the hot evaluation path and tolerates
// reading a slightly stale view; exact linearizability is not required
// for reporting data.
type Aggregator struct {
	catalogFn func() *catalog.Catalog
	store     progress.Store
	cfg       Config

	mu        sync.RWMutex
	snapshots map[string]*Snapshot
	players   int
}

// NewAggregator creates an aggregator. catalogFn returns the currently
// installed catalog so analytics follow catalog reloads.
func NewAggregator(catalogFn func() *catalog.Catalog, store progress.Store, cfg Config) *Aggregator {
	cfg.applyDefaults()
	return &Aggregator{
		catalogFn: catalogFn,
		store:     store,
		cfg:       cfg,
		snapshots: make(map[string]*Snapshot),
	}
}

// Recalculate recomputes snapshots for every in-scope achievement by
// scanning the progress store once. Each new snapshot atomically replaces
// the prior one for its achievement.
func (a *Aggregator) Recalculate(ctx context.Context, scope Scope) error {
	cat := a.catalogFn()
	targets := a.inScope(cat, scope)
	if len(targets) == 0 {
		return nil
	}

	players, err := a.store.Players(ctx)
	if err != nil {
		return fmt.Errorf("failed to list players for analytics: %w", err)
	}

	now := time.Now()
	windowStart := now.Add(-a.cfg.TrendWindow)
	priorStart := now.Add(-2 * a.cfg.TrendWindow)

	type tally struct {
		achieved      int
		currentWindow int
		priorWindow   int
	}
	tallies := make(map[string]*tally, len(targets))
	for _, id := range targets {
		tallies[id] = &tally{}
	}

	for _, playerID := range players {
		if err := ctx.Err(); err != nil {
			return err
		}

		records, err := a.store.GetAll(ctx, playerID)
		if err != nil {
			logrus.Errorf("analytics: skipping player %s: %v", playerID, err)
			continue
		}

		for achievementID, record := range records {
			t, inScope := tallies[achievementID]
			if !inScope || !record.Achieved {
				continue
			}
			t.achieved++
			if record.DateEarned == nil {
				continue
			}
			switch {
			case record.DateEarned.After(windowStart):
				t.currentWindow++
			case record.DateEarned.After(priorStart):
				t.priorWindow++
			}
		}
	}

	fresh := make(map[string]*Snapshot, len(targets))
	for id, t := range tallies {
		rate := 0.0
		if len(players) > 0 {
			rate = float64(t.achieved) / float64(len(players))
		}
		fresh[id] = &Snapshot{
			AchievementID:        id,
			CompletionRate:       rate,
			EvaluatedPlayers:     len(players),
			AchievedCount:        t.achieved,
			CalculatedDifficulty: difficultyFor(rate),
			Trend:                trendFor(t.currentWindow, t.priorWindow),
			ComputedAt:           now,
		}
	}

	a.mu.Lock()
	for id, snapshot := range fresh {
		a.snapshots[id] = snapshot
	}
	a.players = len(players)
	a.mu.Unlock()

	logrus.Infof("recalculated analytics for %d achievements over %d players", len(fresh), len(players))
	return nil
}

// inScope resolves the scope to concrete achievement IDs in catalog order.
func (a *Aggregator) inScope(cat *catalog.Catalog, scope Scope) []string {
	if scope.AchievementID != "" {
		if _, ok := cat.Get(scope.AchievementID); !ok {
			return nil
		}
		return []string{scope.AchievementID}
	}

	var ids []string
	cutoff := time.Now().Add(-scope.StalenessOlderThan)

	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, def := range cat.All() {
		if scope.StalenessOlderThan > 0 {
			if existing, ok := a.snapshots[def.ID]; ok && existing.ComputedAt.After(cutoff) {
				continue
			}
		}
		ids = append(ids, def.ID)
	}
	return ids
}

// Snapshot returns the current snapshot for an achievement.
func (a *Aggregator) Snapshot(achievementID string) (*Snapshot, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	snapshot, ok := a.snapshots[achievementID]
	return snapshot, ok
}

// CompletionRate returns the completion rate for an achievement, with
// ok=false when no snapshot has been computed yet. Satisfies
// notify.CompletionRateFunc.
func (a *Aggregator) CompletionRate(achievementID string) (float64, bool) {
	snapshot, ok := a.Snapshot(achievementID)
	if !ok {
		return 0, false
	}
	return snapshot.CompletionRate, true
}

// Summary returns the full analytics report in catalog order.
// Achievements without a computed snapshot are omitted.
func (a *Aggregator) Summary() *Summary {
	cat := a.catalogFn()

	a.mu.RLock()
	defer a.mu.RUnlock()

	summary := &Summary{
		TotalAchievements: cat.Count(),
		EvaluatedPlayers:  a.players,
		GeneratedAt:       time.Now(),
	}
	for _, def := range cat.All() {
		if snapshot, ok := a.snapshots[def.ID]; ok {
			summary.Achievements = append(summary.Achievements, snapshot)
		}
	}
	return summary
}

// NeedingAttention returns achievements whose completion rate is near
// zero despite a minimum population sample. These are candidates for
// re-tuning, surfaced to operators.
func (a *Aggregator) NeedingAttention() []*Snapshot {
	cat := a.catalogFn()

	a.mu.RLock()
	defer a.mu.RUnlock()

	var out []*Snapshot
	for _, def := range cat.All() {
		snapshot, ok := a.snapshots[def.ID]
		if !ok {
			continue
		}
		if snapshot.EvaluatedPlayers >= a.cfg.MinSampleSize &&
			snapshot.CompletionRate < a.cfg.AttentionRateBelow {
			out = append(out, snapshot)
		}
	}
	return out
}

func trendFor(current, prior int) Trend {
	switch {
	case current > prior:
		return TrendIncreasing
	case current < prior:
		return TrendDecreasing
	default:
		return TrendStable
	}
}
