package feasibility

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/kentonium3/bake-tracker-sub012/pkg/application/dto"
	"github.com/kentonium3/bake-tracker-sub012/pkg/application/services/explosion"
	"github.com/kentonium3/bake-tracker-sub012/pkg/domain/entities"
	"github.com/kentonium3/bake-tracker-sub012/pkg/domain/repositories"
)

// Service validates whether recorded batch decisions yield enough
// finished units to assemble every requested bundle. Availability comes
// from planned production (batches * yield per batch), never from raw
// ingredient stock: this checks the plan, not the pantry.
type Service struct {
	decomposer *explosion.Decomposer
}

// NewService creates a new feasibility service
func NewService(decomposer *explosion.Decomposer) *Service {
	return &Service{decomposer: decomposer}
}

// Check runs the assembly feasibility analysis for an event. A finished
// unit with no batch decision simply has zero availability; that is a
// shortfall, not an error.
func (s *Service) Check(uow repositories.UnitOfWork, eventID entities.EventID) (*dto.FeasibilityResult, error) {
	if _, err := uow.Events().GetEvent(eventID); err != nil {
		return nil, fmt.Errorf("failed to resolve event %s: %w", eventID, err)
	}

	requirements, err := uow.Events().GetRequirements(eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch requirements for %s: %w", eventID, err)
	}

	decisions, err := uow.Events().GetBatchDecisions(eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch batch decisions for %s: %w", eventID, err)
	}
	batchesByRecipe := make(map[entities.RecipeID]int64)
	for _, d := range decisions {
		batchesByRecipe[d.RecipeID] += d.Batches
	}

	result := &dto.FeasibilityResult{
		EventID:         eventID,
		OverallFeasible: true,
	}

	for _, req := range requirements {
		units := make(map[entities.FinishedUnitID]decimal.Decimal)
		var bundleID entities.BundleID

		if req.BundleID != "" {
			bundleID = req.BundleID
			decomp, err := s.decomposer.Decompose(uow, req.BundleID, req.Quantity)
			if err != nil {
				return nil, err
			}
			units = decomp.Units
		} else {
			units[req.FinishedUnitID] = req.Quantity
		}

		bf, err := s.checkBundle(uow, bundleID, req.Quantity, units, batchesByRecipe)
		if err != nil {
			return nil, err
		}

		result.Bundles = append(result.Bundles, *bf)
		if !bf.CanAssemble {
			result.OverallFeasible = false
		}
	}

	return result, nil
}

func (s *Service) checkBundle(
	uow repositories.UnitOfWork,
	bundleID entities.BundleID,
	needed decimal.Decimal,
	units map[entities.FinishedUnitID]decimal.Decimal,
	batchesByRecipe map[entities.RecipeID]int64,
) (*dto.BundleFeasibility, error) {
	bf := &dto.BundleFeasibility{
		BundleID: bundleID,
		Needed:   needed,
	}

	// The realizable bundle count is bounded by the scarcest component.
	bottleneck := decimal.NewFromInt(1)

	unitIDs := make([]entities.FinishedUnitID, 0, len(units))
	for id := range units {
		unitIDs = append(unitIDs, id)
	}
	sort.Slice(unitIDs, func(i, j int) bool { return unitIDs[i] < unitIDs[j] })

	for _, unitID := range unitIDs {
		unitNeeded := units[unitID]

		unit, err := uow.Recipes().GetFinishedUnit(unitID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve finished unit %s: %w", unitID, err)
		}

		available := decimal.Zero
		if batches, ok := batchesByRecipe[unit.RecipeID]; ok {
			available = decimal.NewFromInt(batches * yieldPerBatch(unit))
		}

		sufficient := available.GreaterThanOrEqual(unitNeeded)
		bf.Components = append(bf.Components, dto.ComponentFeasibility{
			FinishedUnitID: unitID,
			Needed:         unitNeeded,
			Available:      available,
			Sufficient:     sufficient,
		})

		if unitNeeded.IsPositive() {
			ratio := available.Div(unitNeeded)
			if ratio.LessThan(bottleneck) {
				bottleneck = ratio
			}
		}
	}

	bf.Achievable = needed.Mul(bottleneck).Floor()
	bf.Shortfall = needed.Sub(bf.Achievable)
	bf.CanAssemble = bf.Shortfall.IsZero()

	return bf, nil
}

// yieldPerBatch mirrors the batch calculator's yield policy: a discrete
// count per batch, or 1 for portion-of-batch units.
func yieldPerBatch(unit *entities.FinishedUnit) int64 {
	if unit.YieldMode == entities.BatchPortion {
		return 1
	}
	return unit.ItemsPerBatch
}
