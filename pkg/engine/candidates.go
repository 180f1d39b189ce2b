package engine

import (
	"github.com/RocketPartners/ping-pong-app-sub004/pkg/catalog"
	"github.com/RocketPartners/ping-pong-app-sub004/pkg/events"
)

// candidateKinds maps an event type to the condition kinds whose outcome
// the event could plausibly change. This keeps a single event from
// scanning the whole catalog; composites are always candidates because
// they aggregate other achievements.
var candidateKinds = map[string][]catalog.ConditionKind{
	events.TypeGameCompleted: {
		catalog.KindCountThreshold, catalog.KindCompositeAll, catalog.KindCompositeAny,
	},
	events.TypeRatingUpdated: {
		catalog.KindRatingThreshold, catalog.KindCompositeAll, catalog.KindCompositeAny,
	},
	events.TypeStreakChanged: {
		catalog.KindStreakThreshold, catalog.KindCompositeAll, catalog.KindCompositeAny,
	},
	events.TypeTournamentProgress: {
		catalog.KindCountThreshold, catalog.KindCompositeAll, catalog.KindCompositeAny,
	},
	events.TypeEasterEggFound: {
		catalog.KindCountThreshold, catalog.KindCompositeAll, catalog.KindCompositeAny,
	},
}

// candidateIDs returns the achievements worth evaluating for an event, in
// catalog order. Recalculation triggers and unknown event types fall back
// to the full catalog.
func candidateIDs(cat *catalog.Catalog, event events.Event) []string {
	kinds, ok := candidateKinds[event.Type()]
	if !ok {
		return allIDs(cat)
	}

	kindSet := make(map[catalog.ConditionKind]bool, len(kinds))
	for _, kind := range kinds {
		kindSet[kind] = true
	}

	var ids []string
	for _, def := range cat.All() {
		if kindSet[def.Condition.Kind] {
			ids = append(ids, def.ID)
		}
	}
	return ids
}

func allIDs(cat *catalog.Catalog) []string {
	defs := cat.All()
	ids := make([]string, len(defs))
	for i, def := range defs {
		ids[i] = def.ID
	}
	return ids
}
