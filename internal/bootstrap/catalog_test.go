package bootstrap

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RocketPartners/ping-pong-app-sub004/pkg/catalog"
	"github.com/RocketPartners/ping-pong-app-sub004/pkg/evaluate"
	"github.com/RocketPartners/ping-pong-app-sub004/pkg/service"
)

const validCatalogYAML = `
achievements:
  - id: first-win
    name: First Win
    category: EASY
    points: 5
    visible: true
    condition:
      kind: count_threshold
      counter: games_won
      target: 1
  - id: ten-wins
    name: Ten Wins
    category: MEDIUM
    points: 25
    visible: true
    prerequisites:
      - first-win
    condition:
      kind: count_threshold
      counter: games_won
      target: 10
`

const brokenCatalogYAML = `
achievements:
  - id: orphan
    name: Orphan
    category: EASY
    points: 5
    visible: true
    prerequisites:
      - does-not-exist
    condition:
      kind: count_threshold
      counter: games_won
      target: 1
`

func writeCatalogFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "achievements.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write catalog file: %v", err)
	}
	return path
}

func fullRegistry(t *testing.T) *evaluate.Registry {
	t.Helper()

	registry := evaluate.NewRegistry()
	if err := evaluate.RegisterBuiltins(registry); err != nil {
		t.Fatalf("RegisterBuiltins() error = %v", err)
	}
	return registry
}

func TestInitCatalog(t *testing.T) {
	path := writeCatalogFile(t, validCatalogYAML)

	holder, err := InitCatalog(path, fullRegistry(t))
	if err != nil {
		t.Fatalf("InitCatalog() error = %v", err)
	}

	cat, graph := holder.Get()
	if cat.Count() != 2 {
		t.Errorf("Count() = %d, expected 2", cat.Count())
	}
	if graph == nil {
		t.Fatal("Get() returned a nil graph")
	}
	if deps := graph.Dependents("first-win"); len(deps) != 1 || deps[0] != "ten-wins" {
		t.Errorf("Dependents(first-win) = %v", deps)
	}
}

func TestInitCatalog_InvalidFile(t *testing.T) {
	path := writeCatalogFile(t, brokenCatalogYAML)

	if _, err := InitCatalog(path, fullRegistry(t)); err == nil {
		t.Fatal("InitCatalog() should reject a catalog with a dangling prerequisite")
	}
}

func TestInitCatalog_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")

	if _, err := InitCatalog(path, fullRegistry(t)); err == nil {
		t.Fatal("InitCatalog() should fail when the catalog file does not exist")
	}
}

func TestInitCatalog_UnwiredConditionKind(t *testing.T) {
	path := writeCatalogFile(t, validCatalogYAML)

	// Registry without the count_threshold evaluator: loading must fail at
	// startup rather than at the first event.
	registry := evaluate.NewRegistry()
	err := registry.Register(catalog.KindRatingThreshold, func(snapshot *service.PlayerSnapshot, spec catalog.ConditionSpec, lookup evaluate.ProgressLookup) (evaluate.Result, error) {
		return evaluate.Result{}, nil
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, err = InitCatalog(path, registry)
	if err == nil {
		t.Fatal("InitCatalog() should reject a condition kind with no evaluator")
	}
	if !strings.Contains(err.Error(), "count_threshold") {
		t.Errorf("error = %v, expected mention of the unwired kind", err)
	}
}

func TestReload_KeepsOldCatalogOnFailure(t *testing.T) {
	path := writeCatalogFile(t, validCatalogYAML)

	holder, err := InitCatalog(path, fullRegistry(t))
	if err != nil {
		t.Fatalf("InitCatalog() error = %v", err)
	}

	// Corrupt the file, then reload. The error must not disturb the
	// installed catalog.
	if err := os.WriteFile(path, []byte(brokenCatalogYAML), 0o600); err != nil {
		t.Fatalf("failed to overwrite catalog file: %v", err)
	}

	if err := holder.Reload(); err == nil {
		t.Fatal("Reload() should fail on an invalid catalog")
	}

	cat, _ := holder.Get()
	if cat.Count() != 2 {
		t.Errorf("Count() after failed reload = %d, expected the original 2", cat.Count())
	}
}

func TestReload_SwapsNewCatalog(t *testing.T) {
	path := writeCatalogFile(t, validCatalogYAML)

	holder, err := InitCatalog(path, fullRegistry(t))
	if err != nil {
		t.Fatalf("InitCatalog() error = %v", err)
	}

	extended := validCatalogYAML + `
  - id: hundred-wins
    name: Hundred Wins
    category: HARD
    points: 100
    visible: true
    prerequisites:
      - ten-wins
    condition:
      kind: count_threshold
      counter: games_won
      target: 100
`
	if err := os.WriteFile(path, []byte(extended), 0o600); err != nil {
		t.Fatalf("failed to overwrite catalog file: %v", err)
	}

	if err := holder.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	cat, _ := holder.Get()
	if cat.Count() != 3 {
		t.Errorf("Count() after reload = %d, expected 3", cat.Count())
	}
	if _, ok := cat.Get("hundred-wins"); !ok {
		t.Error("reloaded catalog should contain hundred-wins")
	}
}
