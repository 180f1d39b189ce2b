package evaluate

import (
	"fmt"
	"sync"

	"github.com/RocketPartners/ping-pong-app-sub004/pkg/catalog"
	"github.com/RocketPartners/ping-pong-app-sub004/pkg/service"
)

// Result is the outcome of evaluating one condition against a player
// snapshot.
type Result struct {
	PercentComplete int
	Achieved        bool
}

// ProgressLookup returns the player's current progress for a referenced
// achievement. Composite evaluators use it to aggregate sub-percentages;
// threshold evaluators ignore it.
type ProgressLookup func(achievementID string) (percentComplete int, achieved bool)

// Func evaluates a condition spec against a player snapshot. Evaluators
// are pure: no I/O, no shared mutable state, safe for concurrent use.
// Missing player data yields zero progress, never an error.
type Func func(snapshot *service.PlayerSnapshot, spec catalog.ConditionSpec, lookup ProgressLookup) (Result, error)

// Registry manages evaluators by condition kind.
// It provides thread-safe registration and lookup.
type Registry struct {
	evaluators map[catalog.ConditionKind]Func
	mu         sync.RWMutex
}

// NewRegistry creates a new empty evaluator registry.
func NewRegistry() *Registry {
	return &Registry{
		evaluators: make(map[catalog.ConditionKind]Func),
	}
}

// Register adds an evaluator for a condition kind.
// Returns an error if the kind already has an evaluator.
func (r *Registry) Register(kind catalog.ConditionKind, fn Func) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.evaluators[kind]; exists {
		return fmt.Errorf("evaluator for kind %s already registered", kind)
	}

	r.evaluators[kind] = fn
	return nil
}

// Get returns the evaluator for a condition kind.
// Returns nil if no evaluator is registered.
func (r *Registry) Get(kind catalog.ConditionKind) Func {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.evaluators[kind]
}

// Evaluate dispatches to the registered evaluator for the spec's kind.
func (r *Registry) Evaluate(snapshot *service.PlayerSnapshot, spec catalog.ConditionSpec, lookup ProgressLookup) (Result, error) {
	fn := r.Get(spec.Kind)
	if fn == nil {
		return Result{}, fmt.Errorf("no evaluator registered for condition kind: %s", spec.Kind)
	}
	return fn(snapshot, spec, lookup)
}

// Count returns the number of registered evaluators.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.evaluators)
}
