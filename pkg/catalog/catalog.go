package catalog

import (
	"github.com/sirupsen/logrus"
)

// Catalog is the immutable-at-runtime registry of achievement definitions.
// Load is all-or-nothing: a catalog is only returned if every definition
// validates and the dependency relation is acyclic. Reloads build a fresh
// Catalog and swap the handle atomically; an installed Catalog is never
// mutated.
type Catalog struct {
	defs  []AchievementDefinition
	index map[string]int
}

// Load validates the given definitions and builds a catalog preserving
// their order. Returns a *ConfigError (or *CyclicDependencyError) if any
// definition fails validation.
func Load(defs []AchievementDefinition) (*Catalog, error) {
	index := make(map[string]int, len(defs))

	for i, def := range defs {
		if err := validateDefinition(def); err != nil {
			return nil, err
		}
		if _, exists := index[def.ID]; exists {
			return nil, NewConfigError("duplicate achievement ID: %s", def.ID)
		}
		index[def.ID] = i
	}

	// Referential integrity: prerequisites and composite references must
	// name loaded achievements and must not self-reference.
	for _, def := range defs {
		for _, ref := range append(def.Prerequisites, def.Condition.References()...) {
			if ref == def.ID {
				return nil, NewConfigError("achievement %s references itself", def.ID)
			}
			if _, exists := index[ref]; !exists {
				return nil, NewConfigError("achievement %s references unknown achievement: %s", def.ID, ref)
			}
		}
	}

	c := &Catalog{
		defs:  make([]AchievementDefinition, len(defs)),
		index: index,
	}
	copy(c.defs, defs)

	if cycle := findCycle(c); cycle != nil {
		return nil, &CyclicDependencyError{Cycle: cycle}
	}

	logrus.Infof("loaded achievement catalog with %d definitions", len(defs))
	return c, nil
}

// validateDefinition checks a single definition against its schema.
func validateDefinition(def AchievementDefinition) error {
	if def.ID == "" {
		return NewConfigError("achievement with empty ID found")
	}
	if def.Name == "" {
		return NewConfigError("achievement %s has empty name", def.ID)
	}
	if !def.Category.IsValid() {
		return NewConfigError("achievement %s has invalid category: %s", def.ID, def.Category)
	}
	if def.Points <= 0 {
		return NewConfigError("achievement %s has non-positive points: %d", def.ID, def.Points)
	}

	cond := def.Condition
	switch cond.Kind {
	case KindCountThreshold:
		if cond.Counter == "" {
			return NewConfigError("achievement %s: count_threshold requires a counter", def.ID)
		}
		if cond.Target < 1 {
			return NewConfigError("achievement %s: count_threshold target must be >= 1, got %d", def.ID, cond.Target)
		}
	case KindStreakThreshold:
		if cond.Streak != StreakWin && cond.Streak != StreakLoss {
			return NewConfigError("achievement %s: streak_threshold streak must be %q or %q, got %q",
				def.ID, StreakWin, StreakLoss, cond.Streak)
		}
		if cond.Target < 1 {
			return NewConfigError("achievement %s: streak_threshold target must be >= 1, got %d", def.ID, cond.Target)
		}
	case KindRatingThreshold:
		if cond.GameType == "" {
			return NewConfigError("achievement %s: rating_threshold requires a game_type", def.ID)
		}
		if cond.Target < 1 {
			return NewConfigError("achievement %s: rating_threshold target must be >= 1, got %d", def.ID, cond.Target)
		}
	case KindCompositeAll, KindCompositeAny:
		if len(cond.Of) == 0 {
			return NewConfigError("achievement %s: %s requires at least one referenced achievement", def.ID, cond.Kind)
		}
	default:
		return NewConfigError("achievement %s has unknown condition kind: %s", def.ID, cond.Kind)
	}

	return nil
}

// Get returns the definition for the given ID.
func (c *Catalog) Get(id string) (AchievementDefinition, bool) {
	i, ok := c.index[id]
	if !ok {
		return AchievementDefinition{}, false
	}
	return c.defs[i], true
}

// All returns all definitions in load order. The returned slice is a copy;
// callers may not mutate catalog state through it.
func (c *Catalog) All() []AchievementDefinition {
	out := make([]AchievementDefinition, len(c.defs))
	copy(out, c.defs)
	return out
}

// Count returns the number of definitions in the catalog.
func (c *Catalog) Count() int {
	return len(c.defs)
}

// dependencyEdges returns the IDs that id depends on, combining explicit
// prerequisites with composite condition references.
func (c *Catalog) dependencyEdges(id string) []string {
	def, ok := c.Get(id)
	if !ok {
		return nil
	}
	edges := make([]string, 0, len(def.Prerequisites))
	edges = append(edges, def.Prerequisites...)
	edges = append(edges, def.Condition.References()...)
	return edges
}

// findCycle runs a DFS over the dependency relation and returns the first
// cycle found as a path (first node repeated last), or nil if acyclic.
func findCycle(c *Catalog) []string {
	const (
		unvisited = 0
		inStack   = 1
		done      = 2
	)

	state := make(map[string]int, len(c.defs))
	var stack []string

	var visit func(id string) []string
	visit = func(id string) []string {
		state[id] = inStack
		stack = append(stack, id)

		for _, dep := range c.dependencyEdges(id) {
			switch state[dep] {
			case inStack:
				// Found a cycle; slice the stack from dep's position.
				for i, node := range stack {
					if node == dep {
						cycle := append([]string{}, stack[i:]...)
						return append(cycle, dep)
					}
				}
			case unvisited:
				if cycle := visit(dep); cycle != nil {
					return cycle
				}
			}
		}

		stack = stack[:len(stack)-1]
		state[id] = done
		return nil
	}

	for _, def := range c.defs {
		if state[def.ID] == unvisited {
			if cycle := visit(def.ID); cycle != nil {
				return cycle
			}
		}
	}

	return nil
}
