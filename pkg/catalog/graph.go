package catalog

import "sort"

// AchievedFunc reports whether the player has achieved the given
// achievement. The graph holds no player state; every query takes the
// player's progress as a parameter.
type AchievedFunc func(achievementID string) bool

// DependencyGraph is a derived, immutable structure over a loaded catalog.
// It answers which achievements become newly eligible when another
// achievement unlocks. Build it once per catalog; it is safe for
// concurrent use.
type DependencyGraph struct {
	catalog    *Catalog
	dependents map[string][]string
}

// BuildGraph derives the dependency graph from a loaded catalog. The
// catalog is already validated acyclic, so traversals over the graph are
// guaranteed to terminate.
func BuildGraph(c *Catalog) *DependencyGraph {
	dependents := make(map[string][]string)
	for _, def := range c.All() {
		for _, dep := range c.dependencyEdges(def.ID) {
			dependents[dep] = append(dependents[dep], def.ID)
		}
	}

	// Deterministic order for cascade traversal and tests.
	for id := range dependents {
		sort.Strings(dependents[id])
	}

	return &DependencyGraph{
		catalog:    c,
		dependents: dependents,
	}
}

// Dependents returns the achievements that list id as a prerequisite or
// reference it in a composite condition (reverse edges).
func (g *DependencyGraph) Dependents(id string) []string {
	deps := g.dependents[id]
	out := make([]string, len(deps))
	copy(out, deps)
	return out
}

// UnmetPrerequisites returns the prerequisites of id the player has not
// yet achieved. Composite condition references are not prerequisites;
// they gate progress inside the evaluator, not eligibility.
func (g *DependencyGraph) UnmetPrerequisites(id string, achieved AchievedFunc) []string {
	def, ok := g.catalog.Get(id)
	if !ok {
		return nil
	}

	var unmet []string
	for _, prereq := range def.Prerequisites {
		if !achieved(prereq) {
			unmet = append(unmet, prereq)
		}
	}
	return unmet
}

// IsEligible returns true if all prerequisites of id are achieved.
// Achievements with no prerequisites are always eligible.
func (g *DependencyGraph) IsEligible(id string, achieved AchievedFunc) bool {
	return len(g.UnmetPrerequisites(id, achieved)) == 0
}
