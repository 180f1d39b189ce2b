package bootstrap

import (
	"fmt"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/RocketPartners/ping-pong-app-sub004/pkg/catalog"
	"github.com/RocketPartners/ping-pong-app-sub004/pkg/evaluate"
)

type catalogPair struct {
	catalog *catalog.Catalog
	graph   *catalog.DependencyGraph
}

// CatalogHolder keeps the installed achievement catalog and its derived
// dependency graph behind an atomic pointer so reloads swap both as one
// unit. Readers that grab the pair at the start of an operation keep a
// consistent view even if a reload lands mid-flight.
type CatalogHolder struct {
	path       string
	evaluators *evaluate.Registry
	current    atomic.Pointer[catalogPair]
}

// InitCatalog loads the achievement catalog from path, builds the
// dependency graph, and verifies every condition kind in it has a
// registered evaluator. The load is all-or-nothing.
func InitCatalog(path string, evaluators *evaluate.Registry) (*CatalogHolder, error) {
	holder := &CatalogHolder{path: path, evaluators: evaluators}
	if err := holder.Reload(); err != nil {
		return nil, err
	}
	return holder, nil
}

// Reload re-reads the catalog file and swaps it in atomically. On any
// error the previously installed catalog stays in place.
func (h *CatalogHolder) Reload() error {
	cat, err := catalog.LoadFile(h.path)
	if err != nil {
		return fmt.Errorf("failed to load catalog from %s: %w", h.path, err)
	}

	if err := validateWiring(cat, h.evaluators); err != nil {
		return fmt.Errorf("catalog wiring check failed for %s: %w", h.path, err)
	}

	h.current.Store(&catalogPair{catalog: cat, graph: catalog.BuildGraph(cat)})
	logrus.Infof("installed achievement catalog from %s (%d achievements)", h.path, cat.Count())
	return nil
}

// Get returns the installed catalog and dependency graph. It satisfies
// engine.CatalogProvider.
func (h *CatalogHolder) Get() (*catalog.Catalog, *catalog.DependencyGraph) {
	pair := h.current.Load()
	return pair.catalog, pair.graph
}

// validateWiring rejects a catalog that references a condition kind no
// evaluator is registered for. Catching this at load time turns a
// per-event runtime error into a startup (or reload) failure.
func validateWiring(cat *catalog.Catalog, evaluators *evaluate.Registry) error {
	for _, def := range cat.All() {
		if err := checkKind(def.Condition, evaluators); err != nil {
			return fmt.Errorf("achievement %s: %w", def.ID, err)
		}
	}
	return nil
}

func checkKind(spec catalog.ConditionSpec, evaluators *evaluate.Registry) error {
	if evaluators.Get(spec.Kind) == nil {
		return fmt.Errorf("no evaluator registered for condition kind %q", spec.Kind)
	}
	return nil
}
