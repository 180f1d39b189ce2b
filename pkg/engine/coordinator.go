package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/RocketPartners/ping-pong-app-sub004/pkg/catalog"
	"github.com/RocketPartners/ping-pong-app-sub004/pkg/events"
	"github.com/RocketPartners/ping-pong-app-sub004/pkg/evaluate"
	"github.com/RocketPartners/ping-pong-app-sub004/pkg/metrics"
	"github.com/RocketPartners/ping-pong-app-sub004/pkg/notify"
	"github.com/RocketPartners/ping-pong-app-sub004/pkg/progress"
	"github.com/RocketPartners/ping-pong-app-sub004/pkg/service"
)

// ErrInvalidConfirmation is returned when a destructive operation is
// attempted without the exact confirmation token.
var ErrInvalidConfirmation = errors.New("invalid confirmation token")

// CatalogProvider returns the currently installed catalog and its derived
// dependency graph. Reloads swap in a new pair atomically; the
// coordinator re-reads the provider on every invocation so an in-flight
// evaluation keeps a consistent pair.
type CatalogProvider func() (*catalog.Catalog, *catalog.DependencyGraph)

// Config tunes the coordinator.
type Config struct {
	// ResetToken is the confirmation token required by ResetAll.
	ResetToken string

	// RecalcChunkSize bounds how many players a full recalculation
	// processes between context cancellation checks. Zero means the
	// default.
	RecalcChunkSize int
}

func (c *Config) applyDefaults() {
	if c.RecalcChunkSize <= 0 {
		c.RecalcChunkSize = 100
	}
}

// Unlock records a single false→true achieved transition.
type Unlock struct {
	PlayerID      string `json:"player_id"`
	AchievementID string `json:"achievement_id"`
}

// Outcome summarizes one event's processing across all affected players.
type Outcome struct {
	PlayersEvaluated      int      `json:"players_evaluated"`
	AchievementsEvaluated int      `json:"achievements_evaluated"`
	Unlocked              []Unlock `json:"unlocked,omitempty"`
	IsolatedFailures      int      `json:"isolated_failures"`
}

func (o *Outcome) merge(other *Outcome) {
	o.PlayersEvaluated += other.PlayersEvaluated
	o.AchievementsEvaluated += other.AchievementsEvaluated
	o.Unlocked = append(o.Unlocked, other.Unlocked...)
	o.IsolatedFailures += other.IsolatedFailures
}

// Coordinator consumes domain events, evaluates the candidate achievement
// set for each affected player inside a per-player critical section,
// persists progress deltas, cascades dependency unlocks within the same
// invocation, and feeds unlock transitions to the notification pipeline.
type Coordinator struct {
	catalogFn  CatalogProvider
	store      progress.Store
	evaluators *evaluate.Registry
	tracker    service.StatTracker
	notifier   *notify.Pipeline
	locks      *playerLocks
	cfg        Config
}

// NewCoordinator creates the evaluation coordinator. All collaborators
// are injected; the coordinator holds no global state.
func NewCoordinator(
	catalogFn CatalogProvider,
	store progress.Store,
	evaluators *evaluate.Registry,
	tracker service.StatTracker,
	notifier *notify.Pipeline,
	cfg Config,
) *Coordinator {
	cfg.applyDefaults()
	return &Coordinator{
		catalogFn:  catalogFn,
		store:      store,
		evaluators: evaluators,
		tracker:    tracker,
		notifier:   notifier,
		locks:      newPlayerLocks(),
		cfg:        cfg,
	}
}

// HandleEvent processes one domain event. Evaluation failures for a
// single achievement or player are isolated and reported in the outcome;
// HandleEvent only errors when the event itself cannot be processed.
func (c *Coordinator) HandleEvent(ctx context.Context, event events.Event) (*Outcome, error) {
	if event == nil {
		return nil, fmt.Errorf("event is nil")
	}

	metrics.EventsProcessedTotal.WithLabelValues(event.Type()).Inc()

	if event.Type() == events.TypeRecalculateAll {
		return c.EvaluateAllPlayers(ctx)
	}

	players := uniquePlayers(event.PlayerIDs())
	if len(players) == 0 {
		logrus.Debugf("event %s affects no players, skipping", event.Type())
		return &Outcome{}, nil
	}

	outcome := &Outcome{}
	if len(players) == 1 {
		playerOutcome := c.evaluatePlayer(ctx, players[0], event)
		outcome.merge(playerOutcome)
		return outcome, nil
	}

	// Different players are independent; evaluate them in parallel.
	var wg sync.WaitGroup
	var mu sync.Mutex
	for _, playerID := range players {
		wg.Add(1)
		go func(playerID string) {
			defer wg.Done()
			playerOutcome := c.evaluatePlayer(ctx, playerID, event)
			mu.Lock()
			outcome.merge(playerOutcome)
			mu.Unlock()
		}(playerID)
	}
	wg.Wait()

	return outcome, nil
}

// evaluatePlayer runs one full evaluation pass for a player under the
// player's lock: fold the event into tracked stats, load the snapshot and
// progress, evaluate candidates, cascade unlocks.
func (c *Coordinator) evaluatePlayer(ctx context.Context, playerID string, event events.Event) *Outcome {
	unlock := c.locks.Lock(playerID)
	defer unlock()

	timer := time.Now()
	defer func() {
		metrics.EvaluationDuration.Observe(time.Since(timer).Seconds())
	}()

	outcome := &Outcome{PlayersEvaluated: 1}

	if event != nil {
		if err := c.tracker.Apply(ctx, playerID, event); err != nil {
			// Stats are an input to evaluation; without them the pass
			// would read stale data, so skip this player entirely.
			logrus.Errorf("failed to apply event %s for player %s: %v", event.Type(), playerID, err)
			outcome.IsolatedFailures++
			return outcome
		}
	}

	snapshot, err := c.tracker.GetSnapshot(ctx, playerID)
	if err != nil {
		logrus.Errorf("failed to load snapshot for player %s: %v", playerID, err)
		outcome.IsolatedFailures++
		return outcome
	}

	records, err := c.store.GetAll(ctx, playerID)
	if err != nil {
		logrus.Errorf("failed to load progress for player %s: %v", playerID, err)
		outcome.IsolatedFailures++
		return outcome
	}

	cat, graph := c.catalogFn()

	var candidates []string
	if event != nil {
		candidates = candidateIDs(cat, event)
	} else {
		candidates = allIDs(cat)
	}

	c.evaluateSet(ctx, cat, graph, snapshot, records, candidates, outcome)
	return outcome
}

// evaluateSet evaluates candidates and cascades dependents of any unlock
// until the queue drains. Termination is guaranteed: dependents are only
// enqueued on a false→true transition and each achievement transitions at
// most once, bounded by the acyclic graph.
func (c *Coordinator) evaluateSet(
	ctx context.Context,
	cat *catalog.Catalog,
	graph *catalog.DependencyGraph,
	snapshot *service.PlayerSnapshot,
	records map[string]*progress.PlayerAchievementProgress,
	candidates []string,
	outcome *Outcome,
) {
	playerID := snapshot.PlayerID

	achieved := func(id string) bool {
		record, ok := records[id]
		return ok && record.Achieved
	}
	lookup := func(id string) (int, bool) {
		record, ok := records[id]
		if !ok {
			return 0, false
		}
		return record.PercentComplete, record.Achieved
	}

	queue := append([]string{}, candidates...)
	pending := make(map[string]bool, len(queue))
	for _, id := range queue {
		pending[id] = true
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		delete(pending, id)

		def, ok := cat.Get(id)
		if !ok {
			continue
		}

		record, ok := records[id]
		if ok && record.Achieved {
			// Monotonic achieved flag doubles as the dedup mechanism for
			// retried events.
			continue
		}

		if !graph.IsEligible(id, achieved) {
			continue
		}

		result, err := c.evaluators.Evaluate(snapshot, def.Condition, lookup)
		if err != nil {
			// One broken evaluator must not abort the rest of the batch.
			logrus.Errorf("evaluator failed for player %s achievement %s: %v", playerID, id, err)
			metrics.EvaluatorErrorsTotal.WithLabelValues(id).Inc()
			outcome.IsolatedFailures++
			continue
		}

		now := time.Now()
		if record == nil {
			record = progress.NewProgress(playerID, id, now)
		}

		unlocked := result.Achieved && !record.Achieved
		changed := unlocked || record.PercentComplete != result.PercentComplete

		record.PercentComplete = result.PercentComplete
		record.LastEvaluated = now
		if unlocked {
			record.Achieved = true
			record.PercentComplete = 100
			earned := now
			record.DateEarned = &earned
		}

		// Lazily created records persist on first evaluation even when
		// nothing changed, so analytics sees the player as evaluated.
		_, existed := records[id]
		if changed || !existed {
			if err := c.store.Upsert(ctx, record); err != nil {
				if errors.Is(err, progress.ErrConflict) {
					metrics.PersistenceConflictsTotal.Inc()
				}
				logrus.Errorf("failed to persist progress for player %s achievement %s: %v", playerID, id, err)
				outcome.IsolatedFailures++
				continue
			}
		}
		records[id] = record
		outcome.AchievementsEvaluated++

		if !unlocked {
			continue
		}

		logrus.Infof("player %s unlocked achievement %s (%s)", playerID, id, def.Category)
		metrics.UnlocksTotal.WithLabelValues(id).Inc()
		outcome.Unlocked = append(outcome.Unlocked, Unlock{PlayerID: playerID, AchievementID: id})

		// Notification delivery is best effort; a failure here must not
		// fail the unlock that triggered it.
		level := c.notifier.LevelFor(def)
		if err := c.notifier.Enqueue(ctx, playerID, id, level); err != nil {
			logrus.Errorf("failed to enqueue notification for player %s achievement %s: %v", playerID, id, err)
		} else {
			metrics.NotificationsEnqueuedTotal.WithLabelValues(string(level)).Inc()
		}

		// Cascade: dependents may have become eligible, or composites may
		// now be satisfied, within this same invocation. A dependent that
		// is already queued sees this unlock when dequeued.
		for _, dep := range graph.Dependents(id) {
			if pending[dep] {
				continue
			}
			pending[dep] = true
			queue = append(queue, dep)
		}
	}
}

// InitializePlayer seeds zero-progress records for every catalog entry
// for a new player. Existing records are left untouched.
func (c *Coordinator) InitializePlayer(ctx context.Context, playerID string) error {
	unlock := c.locks.Lock(playerID)
	defer unlock()

	cat, _ := c.catalogFn()

	existing, err := c.store.GetAll(ctx, playerID)
	if err != nil {
		return fmt.Errorf("failed to load progress for player %s: %w", playerID, err)
	}

	now := time.Now()
	seeded := 0
	for _, def := range cat.All() {
		if _, ok := existing[def.ID]; ok {
			continue
		}
		if err := c.store.Upsert(ctx, progress.NewProgress(playerID, def.ID, now)); err != nil {
			return fmt.Errorf("failed to seed progress for player %s: %w", playerID, err)
		}
		seeded++
	}

	logrus.Infof("initialized achievements for player %s (%d records seeded)", playerID, seeded)
	return nil
}

// EvaluatePlayer re-evaluates every achievement for one player (manual
// recalculation entry point).
func (c *Coordinator) EvaluatePlayer(ctx context.Context, playerID string) (*Outcome, error) {
	outcome := c.evaluatePlayer(ctx, playerID, &events.RecalculatePlayer{PlayerID: playerID})
	return outcome, nil
}

// EvaluateAllPlayers re-evaluates every achievement for every player with
// progress records. Work is chunked by player so the per-player lock is
// never held across players and cancellation takes effect between chunks.
func (c *Coordinator) EvaluateAllPlayers(ctx context.Context) (*Outcome, error) {
	players, err := c.store.Players(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}

	outcome := &Outcome{}
	for i, playerID := range players {
		if i%c.cfg.RecalcChunkSize == 0 {
			if err := ctx.Err(); err != nil {
				logrus.Warnf("full recalculation interrupted after %d/%d players", i, len(players))
				return outcome, err
			}
		}

		playerOutcome := c.evaluatePlayer(ctx, playerID, &events.RecalculatePlayer{PlayerID: playerID})
		outcome.merge(playerOutcome)
	}

	logrus.Infof("full recalculation complete: %d players, %d unlocks, %d isolated failures",
		outcome.PlayersEvaluated, len(outcome.Unlocked), outcome.IsolatedFailures)
	return outcome, nil
}

// ResetAll clears all progress for all players. Destructive: requires the
// exact configured confirmation token.
func (c *Coordinator) ResetAll(ctx context.Context, confirmationToken string) error {
	if c.cfg.ResetToken == "" || confirmationToken != c.cfg.ResetToken {
		return ErrInvalidConfirmation
	}

	logrus.Warn("resetting all achievement progress")
	return c.store.ResetAll(ctx)
}

// ProgressEntry pairs a progress record with its definition for API
// consumers.
type ProgressEntry struct {
	Definition catalog.AchievementDefinition       `json:"definition"`
	Progress   *progress.PlayerAchievementProgress `json:"progress"`
}

// GetProgress returns the player's progress joined with definitions, in
// catalog order. Achievements without a record yet are returned with zero
// progress.
func (c *Coordinator) GetProgress(ctx context.Context, playerID string) ([]ProgressEntry, error) {
	cat, _ := c.catalogFn()

	records, err := c.store.GetAll(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress for player %s: %w", playerID, err)
	}

	entries := make([]ProgressEntry, 0, cat.Count())
	for _, def := range cat.All() {
		record, ok := records[def.ID]
		if !ok {
			record = progress.NewProgress(playerID, def.ID, time.Time{})
		}
		entries = append(entries, ProgressEntry{Definition: def, Progress: record})
	}
	return entries, nil
}

func uniquePlayers(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	var out []string
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
