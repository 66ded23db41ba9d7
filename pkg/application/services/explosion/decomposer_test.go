package explosion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kentonium3/bake-tracker-sub012/pkg/domain/entities"
	"github.com/kentonium3/bake-tracker-sub012/pkg/domain/repositories"
	"github.com/kentonium3/bake-tracker-sub012/pkg/infrastructure/repositories/memory"
)

type bundleDef struct {
	id            entities.BundleID
	packagingOnly bool
	unitEdges     map[entities.FinishedUnitID]int64
	bundleEdges   map[entities.BundleID]int64
	packEdges     map[entities.PackagingItemID]int64
}

func seedBundles(t *testing.T, defs []bundleDef) *memory.Store {
	t.Helper()
	store := memory.NewStore()

	uow, err := store.Begin(context.Background())
	if err != nil {
		t.Fatalf("Failed to begin unit of work: %v", err)
	}
	defer uow.Rollback()

	now := time.Now()
	for _, def := range defs {
		var edges []entities.CompositionEdge
		for unitID, mult := range def.unitEdges {
			edge, err := entities.NewUnitEdge(unitID, decimal.NewFromInt(mult), now)
			if err != nil {
				t.Fatalf("Failed to build unit edge: %v", err)
			}
			edges = append(edges, *edge)
		}
		for bundleID, mult := range def.bundleEdges {
			edge, err := entities.NewBundleEdge(bundleID, decimal.NewFromInt(mult), now)
			if err != nil {
				t.Fatalf("Failed to build bundle edge: %v", err)
			}
			edges = append(edges, *edge)
		}
		for packID, mult := range def.packEdges {
			edge, err := entities.NewPackagingEdge(packID, decimal.NewFromInt(mult), now)
			if err != nil {
				t.Fatalf("Failed to build packaging edge: %v", err)
			}
			edges = append(edges, *edge)
		}

		bundle, err := entities.NewBundle(def.id, string(def.id), edges, def.packagingOnly, now)
		if err != nil {
			t.Fatalf("Failed to build bundle %s: %v", def.id, err)
		}
		if err := uow.Bundles().SaveBundle(bundle); err != nil {
			t.Fatalf("Failed to save bundle %s: %v", def.id, err)
		}
	}

	if err := uow.Commit(); err != nil {
		t.Fatalf("Failed to commit seed data: %v", err)
	}
	return store
}

func beginWork(t *testing.T, store *memory.Store) repositories.UnitOfWork {
	t.Helper()
	uow, err := store.Begin(context.Background())
	if err != nil {
		t.Fatalf("Failed to begin unit of work: %v", err)
	}
	return uow
}

func TestDecompose_NestedMultipliers(t *testing.T) {
	// 5 x A, A contains 2 x B, B contains 3 x X.
	store := seedBundles(t, []bundleDef{
		{id: "A", bundleEdges: map[entities.BundleID]int64{"B": 2}},
		{id: "B", unitEdges: map[entities.FinishedUnitID]int64{"X": 3}},
	})
	decomposer := NewDecomposer()

	uow := beginWork(t, store)
	defer uow.Rollback()

	result, err := decomposer.Decompose(uow, "A", decimal.NewFromInt(5))
	if err != nil {
		t.Fatalf("Decompose failed: %v", err)
	}

	if len(result.Units) != 1 {
		t.Fatalf("Expected 1 finished unit, got %d", len(result.Units))
	}
	if !result.Units["X"].Equal(decimal.NewFromInt(30)) {
		t.Errorf("Expected 30 x X, got %s", result.Units["X"])
	}
	if result.ContentFree {
		t.Error("Expected bundle with unit content not to be flagged content-free")
	}
}

func TestDecompose_SharedSubBundleAcrossBranches(t *testing.T) {
	// Both branches of GIFT reference TIN; legal because the repeats sit on
	// independent paths.
	store := seedBundles(t, []bundleDef{
		{id: "GIFT", bundleEdges: map[entities.BundleID]int64{"SWEET": 1, "SAVORY": 1}},
		{id: "SWEET", bundleEdges: map[entities.BundleID]int64{"TIN": 2}},
		{id: "SAVORY", bundleEdges: map[entities.BundleID]int64{"TIN": 1}},
		{id: "TIN", unitEdges: map[entities.FinishedUnitID]int64{"COOKIE": 6}},
	})
	decomposer := NewDecomposer()

	uow := beginWork(t, store)
	defer uow.Rollback()

	result, err := decomposer.Decompose(uow, "GIFT", decimal.NewFromInt(1))
	if err != nil {
		t.Fatalf("Decompose failed: %v", err)
	}
	if !result.Units["COOKIE"].Equal(decimal.NewFromInt(18)) {
		t.Errorf("Expected 18 cookies from both branches, got %s", result.Units["COOKIE"])
	}
}

func TestDecompose_SeparatesPackaging(t *testing.T) {
	store := seedBundles(t, []bundleDef{
		{
			id:        "BOXED",
			unitEdges: map[entities.FinishedUnitID]int64{"BROWNIE": 4},
			packEdges: map[entities.PackagingItemID]int64{"BOX": 1, "RIBBON": 2},
		},
	})
	decomposer := NewDecomposer()

	uow := beginWork(t, store)
	defer uow.Rollback()

	result, err := decomposer.Decompose(uow, "BOXED", decimal.NewFromInt(3))
	if err != nil {
		t.Fatalf("Decompose failed: %v", err)
	}

	if !result.Units["BROWNIE"].Equal(decimal.NewFromInt(12)) {
		t.Errorf("Expected 12 brownies, got %s", result.Units["BROWNIE"])
	}
	if !result.Packaging["BOX"].Equal(decimal.NewFromInt(3)) {
		t.Errorf("Expected 3 boxes, got %s", result.Packaging["BOX"])
	}
	if !result.Packaging["RIBBON"].Equal(decimal.NewFromInt(6)) {
		t.Errorf("Expected 6 ribbons, got %s", result.Packaging["RIBBON"])
	}
}

func TestDecompose_FlagsContentFreeBundle(t *testing.T) {
	store := seedBundles(t, []bundleDef{
		{id: "WRAP_STATION", packEdges: map[entities.PackagingItemID]int64{"TISSUE": 5}},
		{id: "RIBBON_KIT", packagingOnly: true, packEdges: map[entities.PackagingItemID]int64{"RIBBON": 1}},
	})
	decomposer := NewDecomposer()

	uow := beginWork(t, store)
	defer uow.Rollback()

	result, err := decomposer.Decompose(uow, "WRAP_STATION", decimal.NewFromInt(1))
	if err != nil {
		t.Fatalf("Decompose failed: %v", err)
	}
	if !result.ContentFree {
		t.Error("Expected production bundle without base units to be flagged content-free")
	}

	declared, err := decomposer.Decompose(uow, "RIBBON_KIT", decimal.NewFromInt(1))
	if err != nil {
		t.Fatalf("Decompose failed: %v", err)
	}
	if declared.ContentFree {
		t.Error("Expected packaging-only bundle not to be flagged")
	}
}

func TestDecompose_DetectsCycle(t *testing.T) {
	store := seedBundles(t, []bundleDef{
		{id: "A", bundleEdges: map[entities.BundleID]int64{"B": 1}},
		{id: "B", bundleEdges: map[entities.BundleID]int64{"A": 1}},
	})
	decomposer := NewDecomposer()

	uow := beginWork(t, store)
	defer uow.Rollback()

	_, err := decomposer.Decompose(uow, "A", decimal.NewFromInt(1))
	if err == nil {
		t.Fatal("Expected cycle A -> B -> A to fail")
	}
	var structural *entities.StructuralError
	if !errors.As(err, &structural) {
		t.Errorf("Expected StructuralError, got %T: %v", err, err)
	}
}

func TestDecompose_RefusesExcessiveNesting(t *testing.T) {
	store := seedBundles(t, []bundleDef{
		{id: "L1", bundleEdges: map[entities.BundleID]int64{"L2": 1}},
		{id: "L2", bundleEdges: map[entities.BundleID]int64{"L3": 1}},
		{id: "L3", bundleEdges: map[entities.BundleID]int64{"L4": 1}},
		{id: "L4", unitEdges: map[entities.FinishedUnitID]int64{"COOKIE": 1}},
	})
	decomposer := NewDecomposer()

	uow := beginWork(t, store)
	defer uow.Rollback()

	_, err := decomposer.Decompose(uow, "L1", decimal.NewFromInt(1))
	if err == nil {
		t.Fatal("Expected nesting past the depth cap to fail")
	}
	var structural *entities.StructuralError
	if !errors.As(err, &structural) {
		t.Errorf("Expected StructuralError, got %T: %v", err, err)
	}

	// Exactly at the cap is fine.
	atCap, err := decomposer.Decompose(uow, "L2", decimal.NewFromInt(1))
	if err != nil {
		t.Fatalf("Expected nesting at the cap to succeed: %v", err)
	}
	if !atCap.Units["COOKIE"].Equal(decimal.NewFromInt(1)) {
		t.Errorf("Expected 1 cookie, got %s", atCap.Units["COOKIE"])
	}
}

func TestDecompose_Idempotent(t *testing.T) {
	store := seedBundles(t, []bundleDef{
		{id: "A", bundleEdges: map[entities.BundleID]int64{"B": 2}},
		{id: "B", unitEdges: map[entities.FinishedUnitID]int64{"X": 3}},
	})
	decomposer := NewDecomposer()

	uow := beginWork(t, store)
	defer uow.Rollback()

	first, err := decomposer.Decompose(uow, "A", decimal.NewFromInt(5))
	if err != nil {
		t.Fatalf("Decompose failed: %v", err)
	}
	second, err := decomposer.Decompose(uow, "A", decimal.NewFromInt(5))
	if err != nil {
		t.Fatalf("Repeat decompose failed: %v", err)
	}
	if !first.Units["X"].Equal(second.Units["X"]) {
		t.Errorf("Expected identical results, got %s then %s", first.Units["X"], second.Units["X"])
	}
}

func TestDecompose_RejectsNonPositiveQuantity(t *testing.T) {
	store := seedBundles(t, []bundleDef{
		{id: "A", unitEdges: map[entities.FinishedUnitID]int64{"X": 1}},
	})
	decomposer := NewDecomposer()

	uow := beginWork(t, store)
	defer uow.Rollback()

	if _, err := decomposer.Decompose(uow, "A", decimal.Zero); err == nil {
		t.Error("Expected error for zero quantity")
	}
}
