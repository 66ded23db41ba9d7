package planning

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/kentonium3/bake-tracker-sub012/pkg/application/dto"
	"github.com/kentonium3/bake-tracker-sub012/pkg/application/services/batching"
	"github.com/kentonium3/bake-tracker-sub012/pkg/application/services/consumption"
	"github.com/kentonium3/bake-tracker-sub012/pkg/application/services/explosion"
	"github.com/kentonium3/bake-tracker-sub012/pkg/application/services/feasibility"
	"github.com/kentonium3/bake-tracker-sub012/pkg/domain/entities"
	"github.com/kentonium3/bake-tracker-sub012/pkg/domain/repositories"
)

// Service orchestrates the planning pipeline: decomposition, batch
// calculation, ingredient aggregation, shopping gap analysis, and
// snapshot persistence. Every calculation runs inside one unit of work;
// a failure anywhere rolls the whole thing back.
type Service struct {
	store       repositories.Store
	converter   repositories.UnitConverter
	decomposer  *explosion.Decomposer
	calculator  *batching.Calculator
	aggregator  *batching.Aggregator
	gapAnalyzer *consumption.GapAnalyzer
	feasibility *feasibility.Service
	logger      *zap.Logger

	now func() time.Time
}

// NewService creates a planning service over a data store. The converter
// bridges recipe-line units to the unit inventory is stocked in before
// any gap analysis.
func NewService(store repositories.Store, converter repositories.UnitConverter, logger *zap.Logger) *Service {
	decomposer := explosion.NewDecomposer()
	return &Service{
		store:       store,
		converter:   converter,
		decomposer:  decomposer,
		calculator:  batching.NewCalculator(),
		aggregator:  batching.NewAggregator(),
		gapAnalyzer: consumption.NewGapAnalyzer(consumption.NewService()),
		feasibility: feasibility.NewService(decomposer),
		logger:      logger,
		now:         time.Now,
	}
}

// CalculatePlan computes and persists the full plan snapshot for an
// event, replacing any previous snapshot wholesale.
func (s *Service) CalculatePlan(ctx context.Context, eventID entities.EventID) (*entities.PlanSnapshot, error) {
	uow, err := s.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin unit of work: %w", err)
	}
	defer uow.Rollback()

	snapshot, err := s.calculate(uow, eventID)
	if err != nil {
		return nil, err
	}

	if err := uow.Plans().SaveSnapshot(snapshot); err != nil {
		return nil, fmt.Errorf("failed to persist plan snapshot: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit plan: %w", err)
	}

	s.logger.Info("plan calculated",
		zap.String("event_id", string(eventID)),
		zap.Int("recipe_batches", len(snapshot.RecipeBatches)),
		zap.Int("ingredients", len(snapshot.Ingredients)),
		zap.Int("warnings", len(snapshot.Warnings)),
	)

	return snapshot, nil
}

func (s *Service) calculate(uow repositories.UnitOfWork, eventID entities.EventID) (*entities.PlanSnapshot, error) {
	if _, err := uow.Events().GetEvent(eventID); err != nil {
		return nil, fmt.Errorf("failed to resolve event %s: %w", eventID, err)
	}

	requirements, err := uow.Events().GetRequirements(eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch requirements for %s: %w", eventID, err)
	}

	var warnings []string

	// Pass 1: explode every requirement down to finished-unit quantities
	unitNeeds := make(map[entities.FinishedUnitID]decimal.Decimal)
	for _, req := range requirements {
		if req.BundleID != "" {
			decomp, err := s.decomposer.Decompose(uow, req.BundleID, req.Quantity)
			if err != nil {
				return nil, err
			}
			if decomp.ContentFree {
				warnings = append(warnings, fmt.Sprintf("bundle %s decomposed to no production units", req.BundleID))
			}
			for unitID, qty := range decomp.Units {
				unitNeeds[unitID] = unitNeeds[unitID].Add(qty)
			}
			continue
		}
		unitNeeds[req.FinishedUnitID] = unitNeeds[req.FinishedUnitID].Add(req.Quantity)
	}

	// Pass 2: convert unit requirements into recipe batch counts
	unitIDs := make([]entities.FinishedUnitID, 0, len(unitNeeds))
	for id := range unitNeeds {
		unitIDs = append(unitIDs, id)
	}
	sort.Slice(unitIDs, func(i, j int) bool { return unitIDs[i] < unitIDs[j] })

	var batchPlans []entities.RecipeBatchPlan
	var calcs []*dto.BatchCalculation
	for _, unitID := range unitIDs {
		unit, err := uow.Recipes().GetFinishedUnit(unitID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve finished unit %s: %w", unitID, err)
		}
		recipe, err := uow.Recipes().GetRecipe(unit.RecipeID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve recipe %s: %w", unit.RecipeID, err)
		}

		calc, err := s.calculator.CalculateBatches(unit, recipe, unitNeeds[unitID])
		if err != nil {
			return nil, err
		}
		if calc.ThresholdExceeded {
			warnings = append(warnings, fmt.Sprintf("unit %s: waste %s%% exceeds threshold", unitID, calc.WastePercent.StringFixed(2)))
		}

		calcs = append(calcs, calc)
		batchPlans = append(batchPlans, entities.RecipeBatchPlan{
			RecipeID:          calc.RecipeID,
			FinishedUnitID:    calc.FinishedUnitID,
			UnitsNeeded:       calc.UnitsNeeded,
			Batches:           calc.Batches,
			YieldPerBatch:     calc.YieldPerBatch,
			TotalYield:        calc.TotalYield,
			WasteUnits:        calc.WasteUnits,
			WastePercent:      calc.WastePercent,
			ThresholdExceeded: calc.ThresholdExceeded,
		})
	}

	// Pass 3: aggregate ingredient needs across all batches
	needs, err := s.aggregator.Aggregate(uow, calcs)
	if err != nil {
		return nil, err
	}

	// Pass 4: shopping gaps against FIFO-available stock, dry run only
	gaps, err := s.shoppingGaps(uow, needs)
	if err != nil {
		return nil, err
	}

	return entities.NewPlanSnapshot(eventID, s.now(), batchPlans, needs, gaps, warnings)
}

// shoppingGaps converts each aggregated need into the unit the ingredient
// is stocked in, then probes FIFO availability.
func (s *Service) shoppingGaps(uow repositories.UnitOfWork, needs []entities.IngredientNeed) ([]entities.GapItem, error) {
	var gaps []entities.GapItem
	for _, need := range needs {
		ing, err := uow.Ingredients().GetIngredient(need.IngredientID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve ingredient %s: %w", need.IngredientID, err)
		}

		quantity, unit := need.Quantity, need.Unit
		if unit != ing.Unit {
			quantity, err = s.converter.Convert(quantity, unit, ing.Unit, need.IngredientID)
			if err != nil {
				return nil, fmt.Errorf("failed to convert %s to stock unit: %w", need.IngredientID, err)
			}
			unit = ing.Unit
		}

		gap, err := s.gapAnalyzer.Gap(uow, need.IngredientID, quantity, unit)
		if err != nil {
			return nil, err
		}
		gaps = append(gaps, *gap)
	}
	return gaps, nil
}

// GetShoppingList returns the purchase gaps for the event's current plan,
// re-probed against live inventory.
func (s *Service) GetShoppingList(ctx context.Context, eventID entities.EventID) ([]entities.GapItem, error) {
	uow, err := s.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin unit of work: %w", err)
	}
	defer uow.Rollback()

	snapshot, err := uow.Plans().GetSnapshot(eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load plan snapshot for %s: %w", eventID, err)
	}

	return s.shoppingGaps(uow, snapshot.Ingredients)
}

// CheckAssemblyFeasibility validates recorded batch decisions against the
// event's bundle requirements.
func (s *Service) CheckAssemblyFeasibility(ctx context.Context, eventID entities.EventID) (*dto.FeasibilityResult, error) {
	uow, err := s.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin unit of work: %w", err)
	}
	defer uow.Rollback()

	return s.feasibility.Check(uow, eventID)
}

// RecordBatchDecision commits a planner's (recipe, batches) decision for
// an event. Decisions are inputs to feasibility and are never recomputed.
func (s *Service) RecordBatchDecision(ctx context.Context, eventID entities.EventID, recipeID entities.RecipeID, batches int64) error {
	decision, err := entities.NewBatchDecision(eventID, recipeID, batches, s.now())
	if err != nil {
		return err
	}

	uow, err := s.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin unit of work: %w", err)
	}
	defer uow.Rollback()

	if _, err := uow.Events().GetEvent(eventID); err != nil {
		return fmt.Errorf("failed to resolve event %s: %w", eventID, err)
	}
	if _, err := uow.Recipes().GetRecipe(recipeID); err != nil {
		return fmt.Errorf("failed to resolve recipe %s: %w", recipeID, err)
	}

	if err := uow.Events().SaveBatchDecision(decision); err != nil {
		return fmt.Errorf("failed to save batch decision: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch decision: %w", err)
	}

	s.logger.Info("batch decision recorded",
		zap.String("event_id", string(eventID)),
		zap.String("recipe_id", string(recipeID)),
		zap.Int64("batches", batches),
	)

	return nil
}
