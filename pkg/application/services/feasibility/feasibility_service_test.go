package feasibility

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kentonium3/bake-tracker-sub012/pkg/application/services/explosion"
	"github.com/kentonium3/bake-tracker-sub012/pkg/domain/entities"
	"github.com/kentonium3/bake-tracker-sub012/pkg/domain/repositories"
	"github.com/kentonium3/bake-tracker-sub012/pkg/infrastructure/repositories/memory"
)

// fixture: HOLIDAY event needs 10 x GIFT_BOX, each holding 2 cookies and
// 1 brownie. Cookies bake 12 per batch, brownies 8 per batch.
func seedAssemblyScenario(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore()

	uow, err := store.Begin(context.Background())
	if err != nil {
		t.Fatalf("Failed to begin unit of work: %v", err)
	}
	defer uow.Rollback()

	now := time.Now()
	line := entities.RecipeLine{IngredientID: "FLOUR", Quantity: decimal.NewFromInt(1), Unit: "kg"}

	for _, r := range []struct {
		recipeID entities.RecipeID
		unitID   entities.FinishedUnitID
		perBatch int64
	}{
		{"R-COOKIE", "COOKIE", 12},
		{"R-BROWNIE", "BROWNIE", 8},
	} {
		recipe, err := entities.NewRecipe(r.recipeID, string(r.recipeID), []entities.RecipeLine{line}, []entities.YieldOption{{ItemsPerBatch: r.perBatch}}, now)
		if err != nil {
			t.Fatalf("Failed to build recipe: %v", err)
		}
		if err := uow.Recipes().SaveRecipe(recipe); err != nil {
			t.Fatalf("Failed to save recipe: %v", err)
		}
		unit, err := entities.NewFinishedUnit(r.unitID, string(r.unitID), r.recipeID, entities.DiscreteCount, r.perBatch, decimal.Zero, now)
		if err != nil {
			t.Fatalf("Failed to build finished unit: %v", err)
		}
		if err := uow.Recipes().SaveFinishedUnit(unit); err != nil {
			t.Fatalf("Failed to save finished unit: %v", err)
		}
	}

	cookieEdge, err := entities.NewUnitEdge("COOKIE", decimal.NewFromInt(2), now)
	if err != nil {
		t.Fatalf("Failed to build edge: %v", err)
	}
	brownieEdge, err := entities.NewUnitEdge("BROWNIE", decimal.NewFromInt(1), now)
	if err != nil {
		t.Fatalf("Failed to build edge: %v", err)
	}
	box, err := entities.NewBundle("GIFT_BOX", "Gift Box", []entities.CompositionEdge{*cookieEdge, *brownieEdge}, false, now)
	if err != nil {
		t.Fatalf("Failed to build bundle: %v", err)
	}
	if err := uow.Bundles().SaveBundle(box); err != nil {
		t.Fatalf("Failed to save bundle: %v", err)
	}

	event, err := entities.NewEvent("HOLIDAY", "Holiday Market", now)
	if err != nil {
		t.Fatalf("Failed to build event: %v", err)
	}
	if err := uow.Events().SaveEvent(event); err != nil {
		t.Fatalf("Failed to save event: %v", err)
	}
	req, err := entities.NewBundleRequirement("REQ-1", "HOLIDAY", "GIFT_BOX", decimal.NewFromInt(10), now)
	if err != nil {
		t.Fatalf("Failed to build requirement: %v", err)
	}
	if err := uow.Events().SaveRequirement(req); err != nil {
		t.Fatalf("Failed to save requirement: %v", err)
	}

	if err := uow.Commit(); err != nil {
		t.Fatalf("Failed to commit seed data: %v", err)
	}
	return store
}

func recordBatches(t *testing.T, store *memory.Store, recipeID entities.RecipeID, batches int64) {
	t.Helper()
	uow, err := store.Begin(context.Background())
	if err != nil {
		t.Fatalf("Failed to begin unit of work: %v", err)
	}
	defer uow.Rollback()

	decision, err := entities.NewBatchDecision("HOLIDAY", recipeID, batches, time.Now())
	if err != nil {
		t.Fatalf("Failed to build batch decision: %v", err)
	}
	if err := uow.Events().SaveBatchDecision(decision); err != nil {
		t.Fatalf("Failed to save batch decision: %v", err)
	}
	if err := uow.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
}

func begin(t *testing.T, store *memory.Store) repositories.UnitOfWork {
	t.Helper()
	uow, err := store.Begin(context.Background())
	if err != nil {
		t.Fatalf("Failed to begin unit of work: %v", err)
	}
	return uow
}

func TestCheck_FullyFeasible(t *testing.T) {
	store := seedAssemblyScenario(t)
	// 10 boxes need 20 cookies and 10 brownies: 2 cookie batches (24) and
	// 2 brownie batches (16) cover it.
	recordBatches(t, store, "R-COOKIE", 2)
	recordBatches(t, store, "R-BROWNIE", 2)

	service := NewService(explosion.NewDecomposer())
	uow := begin(t, store)
	defer uow.Rollback()

	result, err := service.Check(uow, "HOLIDAY")
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}

	if !result.OverallFeasible {
		t.Error("Expected the event to be fully assemblable")
	}
	if len(result.Bundles) != 1 {
		t.Fatalf("Expected 1 bundle result, got %d", len(result.Bundles))
	}
	bf := result.Bundles[0]
	if !bf.CanAssemble {
		t.Error("Expected the gift box to be assemblable")
	}
	if !bf.Achievable.Equal(decimal.NewFromInt(10)) {
		t.Errorf("Expected all 10 boxes achievable, got %s", bf.Achievable)
	}
	if !bf.Shortfall.IsZero() {
		t.Errorf("Expected zero shortfall, got %s", bf.Shortfall)
	}
}

func TestCheck_BottleneckComponentLimitsAssembly(t *testing.T) {
	store := seedAssemblyScenario(t)
	// Cookies are covered (2 x 12 = 24 >= 20) but only one brownie batch
	// was decided: 8 brownies for a need of 10. 8/10 of the boxes can be
	// assembled.
	recordBatches(t, store, "R-COOKIE", 2)
	recordBatches(t, store, "R-BROWNIE", 1)

	service := NewService(explosion.NewDecomposer())
	uow := begin(t, store)
	defer uow.Rollback()

	result, err := service.Check(uow, "HOLIDAY")
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}

	if result.OverallFeasible {
		t.Error("Expected the brownie shortage to make the event infeasible")
	}
	bf := result.Bundles[0]
	if !bf.Achievable.Equal(decimal.NewFromInt(8)) {
		t.Errorf("Expected 8 boxes achievable from the brownie bottleneck, got %s", bf.Achievable)
	}
	if !bf.Shortfall.Equal(decimal.NewFromInt(2)) {
		t.Errorf("Expected 2 boxes short, got %s", bf.Shortfall)
	}

	// Components are sorted by id: BROWNIE then COOKIE.
	if len(bf.Components) != 2 {
		t.Fatalf("Expected 2 components, got %d", len(bf.Components))
	}
	brownie := bf.Components[0]
	if brownie.FinishedUnitID != "BROWNIE" || brownie.Sufficient {
		t.Errorf("Expected brownies flagged insufficient, got %+v", brownie)
	}
	cookie := bf.Components[1]
	if cookie.FinishedUnitID != "COOKIE" || !cookie.Sufficient {
		t.Errorf("Expected cookies flagged sufficient, got %+v", cookie)
	}
}

func TestCheck_NoDecisionsMeansZeroAvailability(t *testing.T) {
	store := seedAssemblyScenario(t)

	service := NewService(explosion.NewDecomposer())
	uow := begin(t, store)
	defer uow.Rollback()

	result, err := service.Check(uow, "HOLIDAY")
	if err != nil {
		t.Fatalf("Expected missing decisions to be a shortfall, not an error: %v", err)
	}

	if result.OverallFeasible {
		t.Error("Expected no production to be infeasible")
	}
	bf := result.Bundles[0]
	if !bf.Achievable.IsZero() {
		t.Errorf("Expected zero boxes achievable, got %s", bf.Achievable)
	}
	for _, comp := range bf.Components {
		if !comp.Available.IsZero() {
			t.Errorf("Expected zero availability for %s, got %s", comp.FinishedUnitID, comp.Available)
		}
	}
}

func TestCheck_DirectUnitRequirement(t *testing.T) {
	store := seedAssemblyScenario(t)

	uow := begin(t, store)
	req, err := entities.NewUnitRequirement("REQ-2", "HOLIDAY", "COOKIE", decimal.NewFromInt(30), time.Now())
	if err != nil {
		t.Fatalf("Failed to build requirement: %v", err)
	}
	if err := uow.Events().SaveRequirement(req); err != nil {
		t.Fatalf("Failed to save requirement: %v", err)
	}
	if err := uow.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	recordBatches(t, store, "R-COOKIE", 5)
	recordBatches(t, store, "R-BROWNIE", 2)

	service := NewService(explosion.NewDecomposer())
	work := begin(t, store)
	defer work.Rollback()

	result, err := service.Check(work, "HOLIDAY")
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if len(result.Bundles) != 2 {
		t.Fatalf("Expected 2 requirement results, got %d", len(result.Bundles))
	}
	// 5 batches x 12 = 60 cookies; the box requirement takes 20, but the
	// direct requirement is checked against total production: 60 >= 30.
	if !result.OverallFeasible {
		t.Error("Expected both requirements satisfiable")
	}
}

func TestCheck_UnknownEvent(t *testing.T) {
	store := seedAssemblyScenario(t)
	service := NewService(explosion.NewDecomposer())

	uow := begin(t, store)
	defer uow.Rollback()

	if _, err := service.Check(uow, "NO_SUCH_EVENT"); err == nil {
		t.Error("Expected error for unknown event")
	}
}
