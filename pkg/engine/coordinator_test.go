package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"

	"github.com/RocketPartners/ping-pong-app-sub004/pkg/catalog"
	"github.com/RocketPartners/ping-pong-app-sub004/pkg/events"
	"github.com/RocketPartners/ping-pong-app-sub004/pkg/evaluate"
	"github.com/RocketPartners/ping-pong-app-sub004/pkg/notify"
	"github.com/RocketPartners/ping-pong-app-sub004/pkg/progress"
	"github.com/RocketPartners/ping-pong-app-sub004/pkg/service"
	"github.com/RocketPartners/ping-pong-app-sub004/pkg/service/mock"
)

// fakeStore is an in-memory progress store for testing. failUpsertOn
// simulates a persistence failure scoped to one achievement.
type fakeStore struct {
	records      map[string]map[string]*progress.PlayerAchievementProgress
	failUpsertOn string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		records: make(map[string]map[string]*progress.PlayerAchievementProgress),
	}
}

func (f *fakeStore) Get(ctx context.Context, playerID, achievementID string) (*progress.PlayerAchievementProgress, error) {
	if record, ok := f.records[playerID][achievementID]; ok {
		copied := *record
		return &copied, nil
	}
	return nil, progress.ErrNotFound
}

func (f *fakeStore) GetAll(ctx context.Context, playerID string) (map[string]*progress.PlayerAchievementProgress, error) {
	out := make(map[string]*progress.PlayerAchievementProgress, len(f.records[playerID]))
	for id, record := range f.records[playerID] {
		copied := *record
		out[id] = &copied
	}
	return out, nil
}

func (f *fakeStore) Upsert(ctx context.Context, record *progress.PlayerAchievementProgress) error {
	if record.AchievementID == f.failUpsertOn {
		return fmt.Errorf("achievement %s: %w", record.AchievementID, progress.ErrConflict)
	}

	player, ok := f.records[record.PlayerID]
	if !ok {
		player = make(map[string]*progress.PlayerAchievementProgress)
		f.records[record.PlayerID] = player
	}

	merged := *record
	if current, exists := player[record.AchievementID]; exists && current.Achieved {
		merged.Achieved = true
		merged.PercentComplete = 100
		merged.DateEarned = current.DateEarned
	}
	player[record.AchievementID] = &merged
	return nil
}

func (f *fakeStore) Players(ctx context.Context) ([]string, error) {
	players := make([]string, 0, len(f.records))
	for playerID := range f.records {
		players = append(players, playerID)
	}
	return players, nil
}

func (f *fakeStore) ResetAll(ctx context.Context) error {
	f.records = make(map[string]map[string]*progress.PlayerAchievementProgress)
	return nil
}

func testCatalogProvider(t *testing.T) CatalogProvider {
	t.Helper()

	cat, err := catalog.Load([]catalog.AchievementDefinition{
		{
			ID: "first-win", Name: "First Win", Category: catalog.CategoryEasy, Points: 5, Visible: true,
			Condition: catalog.ConditionSpec{
				Kind: catalog.KindCountThreshold, Counter: service.CounterGamesWon, Target: 1,
			},
		},
		{
			ID: "ten-wins", Name: "Ten Wins", Category: catalog.CategoryMedium, Points: 25, Visible: true,
			Condition: catalog.ConditionSpec{
				Kind: catalog.KindCountThreshold, Counter: service.CounterGamesWon, Target: 10,
			},
			Prerequisites: []string{"first-win"},
		},
		{
			ID: "collector", Name: "Collector", Category: catalog.CategoryHard, Points: 50, Visible: true,
			Condition: catalog.ConditionSpec{
				Kind: catalog.KindCompositeAll, Of: []string{"first-win", "ten-wins"},
			},
		},
		{
			ID: "hot-streak", Name: "Hot Streak", Category: catalog.CategoryMedium, Points: 20, Visible: true,
			Condition: catalog.ConditionSpec{
				Kind: catalog.KindStreakThreshold, Streak: catalog.StreakWin, Target: 5,
			},
		},
	})
	if err != nil {
		t.Fatalf("catalog.Load() error = %v", err)
	}

	graph := catalog.BuildGraph(cat)
	return func() (*catalog.Catalog, *catalog.DependencyGraph) { return cat, graph }
}

type testHarness struct {
	coordinator *Coordinator
	store       *fakeStore
	tracker     *mock.StatTracker
	notifier    *notify.Pipeline
}

func setupCoordinator(t *testing.T, cfg Config) *testHarness {
	t.Helper()

	store := newFakeStore()
	coordinator, tracker, notifier := newTestCoordinator(t, cfg, store)

	return &testHarness{
		coordinator: coordinator,
		store:       store,
		tracker:     tracker,
		notifier:    notifier,
	}
}

func newTestCoordinator(t *testing.T, cfg Config, store progress.Store) (*Coordinator, *mock.StatTracker, *notify.Pipeline) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	registry := evaluate.NewRegistry()
	if err := evaluate.RegisterBuiltins(registry); err != nil {
		t.Fatalf("RegisterBuiltins() error = %v", err)
	}

	tracker := mock.NewStatTracker()
	notifier := notify.NewPipeline(client, nil, notify.PipelineConfig{})

	return NewCoordinator(testCatalogProvider(t), store, registry, tracker, notifier, cfg), tracker, notifier
}

func winEvent(playerID string) *events.GameCompleted {
	return &events.GameCompleted{
		GameType: "singles_ranked",
		Winners:  []string{playerID},
	}
}

func unlockedIDs(outcome *Outcome) map[string]bool {
	ids := make(map[string]bool, len(outcome.Unlocked))
	for _, u := range outcome.Unlocked {
		ids[u.AchievementID] = true
	}
	return ids
}

func TestHandleEvent_UnlockAndNotify(t *testing.T) {
	h := setupCoordinator(t, Config{})
	ctx := context.Background()

	h.tracker.SetCounter("alice", service.CounterGamesWon, 1)

	outcome, err := h.coordinator.HandleEvent(ctx, winEvent("alice"))
	if err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}

	if !unlockedIDs(outcome)["first-win"] {
		t.Fatalf("Unlocked = %v, expected first-win", outcome.Unlocked)
	}

	record, err := h.store.Get(ctx, "alice", "first-win")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !record.Achieved || record.PercentComplete != 100 {
		t.Errorf("record = %+v, expected achieved at 100", record)
	}
	if record.DateEarned == nil {
		t.Error("DateEarned should be set on unlock")
	}

	notifications, err := h.notifier.Recent(ctx, "alice", time.Hour)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(notifications) != 1 || notifications[0].AchievementID != "first-win" {
		t.Errorf("notifications = %+v, expected one for first-win", notifications)
	}

	// Event was folded into stats before evaluation
	if len(h.tracker.ApplyCalls) != 1 || h.tracker.ApplyCalls[0].PlayerID != "alice" {
		t.Errorf("ApplyCalls = %+v", h.tracker.ApplyCalls)
	}
}

func TestHandleEvent_Idempotent(t *testing.T) {
	h := setupCoordinator(t, Config{})
	ctx := context.Background()

	h.tracker.SetCounter("alice", service.CounterGamesWon, 1)

	first, err := h.coordinator.HandleEvent(ctx, winEvent("alice"))
	if err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}
	if len(first.Unlocked) == 0 {
		t.Fatal("first event should unlock")
	}

	// Same event delivered again: achieved records are skipped, so no
	// second unlock and no duplicate notification.
	second, err := h.coordinator.HandleEvent(ctx, winEvent("alice"))
	if err != nil {
		t.Fatalf("HandleEvent() retry error = %v", err)
	}
	if len(second.Unlocked) != 0 {
		t.Errorf("retry Unlocked = %v, expected none", second.Unlocked)
	}

	notifications, _ := h.notifier.Recent(ctx, "alice", time.Hour)
	if len(notifications) != 1 {
		t.Errorf("notifications = %d, expected exactly 1", len(notifications))
	}
}

func TestHandleEvent_CascadeWithinOneEvent(t *testing.T) {
	h := setupCoordinator(t, Config{})
	ctx := context.Background()

	// 10 wins satisfies first-win, ten-wins (gated on first-win) and the
	// collector composite, all reachable within a single event.
	h.tracker.SetCounter("alice", service.CounterGamesWon, 10)

	outcome, err := h.coordinator.HandleEvent(ctx, winEvent("alice"))
	if err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}

	ids := unlockedIDs(outcome)
	for _, expected := range []string{"first-win", "ten-wins", "collector"} {
		if !ids[expected] {
			t.Errorf("cascade should unlock %s in the same pass, got %v", expected, outcome.Unlocked)
		}
	}
}

func TestHandleEvent_DependentQueuedOnce(t *testing.T) {
	ctx := context.Background()

	// Two of the bundle's references unlock in one pass; the bundle itself
	// stays locked. It must be evaluated once, not once per unlock.
	cat, err := catalog.Load([]catalog.AchievementDefinition{
		{
			ID: "quick-a", Name: "Quick A", Category: catalog.CategoryEasy, Points: 5, Visible: true,
			Condition: catalog.ConditionSpec{
				Kind: catalog.KindCountThreshold, Counter: service.CounterGamesWon, Target: 1,
			},
		},
		{
			ID: "quick-b", Name: "Quick B", Category: catalog.CategoryEasy, Points: 5, Visible: true,
			Condition: catalog.ConditionSpec{
				Kind: catalog.KindCountThreshold, Counter: service.CounterGamesPlayed, Target: 1,
			},
		},
		{
			ID: "slow-c", Name: "Slow C", Category: catalog.CategoryHard, Points: 50, Visible: true,
			Condition: catalog.ConditionSpec{
				Kind: catalog.KindCountThreshold, Counter: service.CounterGamesWon, Target: 1000,
			},
		},
		{
			ID: "bundle", Name: "Bundle", Category: catalog.CategoryHard, Points: 75, Visible: true,
			Condition: catalog.ConditionSpec{
				Kind: catalog.KindCompositeAll, Of: []string{"quick-a", "quick-b", "slow-c"},
			},
		},
	})
	if err != nil {
		t.Fatalf("catalog.Load() error = %v", err)
	}
	graph := catalog.BuildGraph(cat)

	store := newFakeStore()
	coordinator, tracker, _ := newTestCoordinator(t, Config{}, store)
	coordinator.catalogFn = func() (*catalog.Catalog, *catalog.DependencyGraph) { return cat, graph }

	tracker.SetCounter("alice", service.CounterGamesWon, 1)
	tracker.SetCounter("alice", service.CounterGamesPlayed, 1)

	outcome, err := coordinator.HandleEvent(ctx, winEvent("alice"))
	if err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}

	ids := unlockedIDs(outcome)
	if !ids["quick-a"] || !ids["quick-b"] || ids["bundle"] {
		t.Errorf("Unlocked = %v, expected quick-a and quick-b only", outcome.Unlocked)
	}

	// Four achievements in the candidate set, each evaluated exactly once.
	if outcome.AchievementsEvaluated != 4 {
		t.Errorf("AchievementsEvaluated = %d, expected 4", outcome.AchievementsEvaluated)
	}
}

// contendedStore flags any two store calls running at the same time.
type contendedStore struct {
	*fakeStore
	active   int32
	overlaps int32
}

func (s *contendedStore) enter() func() {
	if atomic.AddInt32(&s.active, 1) != 1 {
		atomic.StoreInt32(&s.overlaps, 1)
	}
	time.Sleep(time.Millisecond)
	return func() { atomic.AddInt32(&s.active, -1) }
}

func (s *contendedStore) GetAll(ctx context.Context, playerID string) (map[string]*progress.PlayerAchievementProgress, error) {
	defer s.enter()()
	return s.fakeStore.GetAll(ctx, playerID)
}

func (s *contendedStore) Upsert(ctx context.Context, record *progress.PlayerAchievementProgress) error {
	defer s.enter()()
	return s.fakeStore.Upsert(ctx, record)
}

func TestHandleEvent_SamePlayerSerialized(t *testing.T) {
	ctx := context.Background()

	store := &contendedStore{fakeStore: newFakeStore()}
	coordinator, tracker, notifier := newTestCoordinator(t, Config{}, store)
	tracker.SetCounter("alice", service.CounterGamesWon, 1)

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := coordinator.HandleEvent(ctx, winEvent("alice")); err != nil {
				t.Errorf("HandleEvent() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if atomic.LoadInt32(&store.overlaps) != 0 {
		t.Error("store calls for one player interleaved; evaluation must hold the player lock")
	}
	if n := len(coordinator.locks.locks); n != 0 {
		t.Errorf("locks map holds %d entries after the burst, expected 0", n)
	}

	// The burst is also idempotent: one unlock, one notification.
	notifications, err := notifier.Recent(ctx, "alice", time.Hour)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(notifications) != 1 {
		t.Errorf("notifications = %d, expected exactly 1", len(notifications))
	}
}

func TestHandleEvent_PrerequisiteGating(t *testing.T) {
	h := setupCoordinator(t, Config{})
	ctx := context.Background()

	h.tracker.SetCounter("alice", service.CounterGamesWon, 5)

	outcome, err := h.coordinator.HandleEvent(ctx, winEvent("alice"))
	if err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}

	ids := unlockedIDs(outcome)
	if !ids["first-win"] {
		t.Error("first-win should unlock at 5 wins")
	}
	if ids["ten-wins"] {
		t.Error("ten-wins should not unlock at 5 wins")
	}

	// ten-wins became eligible through the cascade and tracks partial
	// progress without unlocking.
	record, err := h.store.Get(ctx, "alice", "ten-wins")
	if err != nil {
		t.Fatalf("Get(ten-wins) error = %v", err)
	}
	if record.Achieved {
		t.Error("ten-wins must not be achieved")
	}
	if record.PercentComplete != 50 {
		t.Errorf("ten-wins percent = %d, expected 50", record.PercentComplete)
	}
}

func TestHandleEvent_IneligibleNotEvaluated(t *testing.T) {
	h := setupCoordinator(t, Config{})
	ctx := context.Background()

	// Zero wins: first-win stays locked, so ten-wins is never eligible
	// and gets no progress record from the candidate pass.
	h.tracker.SetCounter("alice", service.CounterGamesPlayed, 1)

	if _, err := h.coordinator.HandleEvent(ctx, winEvent("alice")); err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}

	if _, err := h.store.Get(ctx, "alice", "ten-wins"); !errors.Is(err, progress.ErrNotFound) {
		t.Errorf("Get(ten-wins) error = %v, expected ErrNotFound for gated achievement", err)
	}
}

func TestHandleEvent_MultiPlayer(t *testing.T) {
	h := setupCoordinator(t, Config{})
	ctx := context.Background()

	h.tracker.SetCounter("alice", service.CounterGamesWon, 1)
	h.tracker.SetCounter("bob", service.CounterGamesLost, 1)

	event := &events.GameCompleted{
		GameType: "singles_ranked",
		Winners:  []string{"alice"},
		Losers:   []string{"bob"},
	}

	outcome, err := h.coordinator.HandleEvent(ctx, event)
	if err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}

	if outcome.PlayersEvaluated != 2 {
		t.Errorf("PlayersEvaluated = %d, expected 2", outcome.PlayersEvaluated)
	}
	if !unlockedIDs(outcome)["first-win"] {
		t.Error("alice should unlock first-win")
	}

	// Loser gets evaluated too, just without unlocks.
	if _, err := h.store.Get(ctx, "bob", "first-win"); err != nil {
		t.Errorf("bob should have an evaluated record: %v", err)
	}
}

func TestHandleEvent_CandidateFiltering(t *testing.T) {
	h := setupCoordinator(t, Config{})
	ctx := context.Background()

	h.tracker.SetBestStreaks("alice", 5, 0)
	h.tracker.SetCounter("alice", service.CounterGamesWon, 1)

	// A streak event should evaluate streak and composite conditions but
	// not count thresholds.
	outcome, err := h.coordinator.HandleEvent(ctx, &events.StreakChanged{
		PlayerID: "alice", NewWinStreak: 5,
	})
	if err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}

	ids := unlockedIDs(outcome)
	if !ids["hot-streak"] {
		t.Error("hot-streak should unlock from a streak event")
	}
	if ids["first-win"] {
		t.Error("count thresholds are not candidates for streak events")
	}
}

func TestHandleEvent_IsolatedPersistenceFailure(t *testing.T) {
	h := setupCoordinator(t, Config{})
	ctx := context.Background()

	h.store.failUpsertOn = "first-win"
	h.tracker.SetCounter("alice", service.CounterGamesWon, 10)
	h.tracker.SetBestStreaks("alice", 5, 0)

	outcome, err := h.coordinator.HandleEvent(ctx, &events.RecalculatePlayer{PlayerID: "alice"})
	if err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}

	if outcome.IsolatedFailures == 0 {
		t.Error("failed persist should be counted as an isolated failure")
	}

	// Independent achievements still unlock despite the failure.
	if !unlockedIDs(outcome)["hot-streak"] {
		t.Errorf("hot-streak should survive a sibling's failure, got %v", outcome.Unlocked)
	}
}

func TestHandleEvent_NoPlayers(t *testing.T) {
	h := setupCoordinator(t, Config{})

	outcome, err := h.coordinator.HandleEvent(context.Background(), &events.GameCompleted{GameType: "singles_normal"})
	if err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}
	if outcome.PlayersEvaluated != 0 {
		t.Errorf("PlayersEvaluated = %d, expected 0", outcome.PlayersEvaluated)
	}
}

func TestInitializePlayer(t *testing.T) {
	h := setupCoordinator(t, Config{})
	ctx := context.Background()

	if err := h.coordinator.InitializePlayer(ctx, "alice"); err != nil {
		t.Fatalf("InitializePlayer() error = %v", err)
	}

	records, _ := h.store.GetAll(ctx, "alice")
	if len(records) != 4 {
		t.Fatalf("seeded %d records, expected 4", len(records))
	}
	for id, record := range records {
		if record.Achieved || record.PercentComplete != 0 {
			t.Errorf("seeded record %s = %+v, expected zero progress", id, record)
		}
	}

	// Re-initialization leaves existing records alone.
	records["first-win"].PercentComplete = 50
	if err := h.store.Upsert(ctx, records["first-win"]); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := h.coordinator.InitializePlayer(ctx, "alice"); err != nil {
		t.Fatalf("InitializePlayer() again error = %v", err)
	}
	after, _ := h.store.GetAll(ctx, "alice")
	if after["first-win"].PercentComplete != 50 {
		t.Error("re-initialization must not reset existing progress")
	}
}

func TestEvaluateAllPlayers(t *testing.T) {
	h := setupCoordinator(t, Config{RecalcChunkSize: 1})
	ctx := context.Background()

	for _, player := range []string{"alice", "bob"} {
		if err := h.coordinator.InitializePlayer(ctx, player); err != nil {
			t.Fatalf("InitializePlayer(%s) error = %v", player, err)
		}
	}
	h.tracker.SetCounter("alice", service.CounterGamesWon, 1)

	outcome, err := h.coordinator.EvaluateAllPlayers(ctx)
	if err != nil {
		t.Fatalf("EvaluateAllPlayers() error = %v", err)
	}

	if outcome.PlayersEvaluated != 2 {
		t.Errorf("PlayersEvaluated = %d, expected 2", outcome.PlayersEvaluated)
	}
	if !unlockedIDs(outcome)["first-win"] {
		t.Error("recalculation should unlock first-win for alice")
	}
}

func TestEvaluateAllPlayers_Interruptible(t *testing.T) {
	h := setupCoordinator(t, Config{RecalcChunkSize: 1})
	ctx := context.Background()

	for _, player := range []string{"alice", "bob"} {
		if err := h.coordinator.InitializePlayer(ctx, player); err != nil {
			t.Fatalf("InitializePlayer(%s) error = %v", player, err)
		}
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()

	if _, err := h.coordinator.EvaluateAllPlayers(cancelled); err == nil {
		t.Error("EvaluateAllPlayers() with cancelled context should return an error")
	}
}

func TestHandleEvent_RecalculateAll(t *testing.T) {
	h := setupCoordinator(t, Config{})
	ctx := context.Background()

	if err := h.coordinator.InitializePlayer(ctx, "alice"); err != nil {
		t.Fatalf("InitializePlayer() error = %v", err)
	}
	h.tracker.SetCounter("alice", service.CounterGamesWon, 1)

	outcome, err := h.coordinator.HandleEvent(ctx, &events.RecalculateAll{})
	if err != nil {
		t.Fatalf("HandleEvent(RecalculateAll) error = %v", err)
	}
	if !unlockedIDs(outcome)["first-win"] {
		t.Error("recalculate_all event should route to full recalculation")
	}
}

func TestResetAll_TokenGuard(t *testing.T) {
	h := setupCoordinator(t, Config{ResetToken: "RESET_ALL_ACHIEVEMENTS"})
	ctx := context.Background()

	if err := h.coordinator.InitializePlayer(ctx, "alice"); err != nil {
		t.Fatalf("InitializePlayer() error = %v", err)
	}

	for _, bad := range []string{"", "reset_all_achievements", "RESET"} {
		if err := h.coordinator.ResetAll(ctx, bad); !errors.Is(err, ErrInvalidConfirmation) {
			t.Errorf("ResetAll(%q) error = %v, expected ErrInvalidConfirmation", bad, err)
		}
	}

	players, _ := h.store.Players(ctx)
	if len(players) != 1 {
		t.Fatal("rejected reset must not clear progress")
	}

	if err := h.coordinator.ResetAll(ctx, "RESET_ALL_ACHIEVEMENTS"); err != nil {
		t.Fatalf("ResetAll() error = %v", err)
	}
	players, _ = h.store.Players(ctx)
	if len(players) != 0 {
		t.Error("confirmed reset should clear all progress")
	}
}

func TestResetAll_NoTokenConfigured(t *testing.T) {
	h := setupCoordinator(t, Config{})

	if err := h.coordinator.ResetAll(context.Background(), ""); !errors.Is(err, ErrInvalidConfirmation) {
		t.Errorf("ResetAll() error = %v, reset must be impossible without a configured token", err)
	}
}

func TestGetProgress(t *testing.T) {
	h := setupCoordinator(t, Config{})
	ctx := context.Background()

	h.tracker.SetCounter("alice", service.CounterGamesWon, 1)
	if _, err := h.coordinator.HandleEvent(ctx, winEvent("alice")); err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}

	entries, err := h.coordinator.GetProgress(ctx, "alice")
	if err != nil {
		t.Fatalf("GetProgress() error = %v", err)
	}

	if len(entries) != 4 {
		t.Fatalf("GetProgress() = %d entries, expected full catalog", len(entries))
	}

	// Catalog order, definitions joined with progress.
	if entries[0].Definition.ID != "first-win" || !entries[0].Progress.Achieved {
		t.Errorf("entries[0] = %+v", entries[0])
	}

	// Achievements never evaluated come back with zero progress.
	for _, entry := range entries {
		if entry.Definition.ID == "hot-streak" {
			if entry.Progress.Achieved || entry.Progress.PercentComplete != 0 {
				t.Errorf("hot-streak should be zero progress: %+v", entry.Progress)
			}
		}
	}
}
