package batching

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/kentonium3/bake-tracker-sub012/pkg/application/dto"
	"github.com/kentonium3/bake-tracker-sub012/pkg/domain/entities"
	"github.com/kentonium3/bake-tracker-sub012/pkg/domain/repositories"
)

// Aggregator sums ingredient needs across every batch calculation in a
// plan. Unit conversion is a collaborator concern invoked before
// aggregation; two units meeting here for one ingredient is a hard error.
type Aggregator struct{}

// NewAggregator creates a new ingredient aggregator
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Aggregate sums line.Quantity * batches over every calculation, keyed by
// (ingredient, unit). BatchPortion units scale their lines by the share
// of batch output attributed to the planned unit. Results are sorted by
// ingredient id for deterministic output.
func (a *Aggregator) Aggregate(
	uow repositories.UnitOfWork,
	calcs []*dto.BatchCalculation,
) ([]entities.IngredientNeed, error) {
	needs := make(map[entities.IngredientID]*entities.IngredientNeed)

	for _, calc := range calcs {
		recipe, err := uow.Recipes().GetRecipe(calc.RecipeID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve recipe %s: %w", calc.RecipeID, err)
		}
		unit, err := uow.Recipes().GetFinishedUnit(calc.FinishedUnitID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve finished unit %s: %w", calc.FinishedUnitID, err)
		}

		scale := decimal.NewFromInt(calc.Batches)
		if unit.YieldMode == entities.BatchPortion && unit.BatchPercentage.LessThan(decimal.NewFromInt(1)) {
			// Only this unit's share of the batch output is being planned;
			// the rest of the batch belongs to other units of the recipe.
			scale = scale.Mul(unit.BatchPercentage)
		}

		for _, line := range recipe.Lines {
			contribution := line.Quantity.Mul(scale)

			existing, ok := needs[line.IngredientID]
			if !ok {
				needs[line.IngredientID] = &entities.IngredientNeed{
					IngredientID: line.IngredientID,
					Unit:         line.Unit,
					Quantity:     contribution,
				}
				continue
			}
			if existing.Unit != line.Unit {
				return nil, &entities.UnitMismatchError{
					IngredientID: line.IngredientID,
					UnitA:        existing.Unit,
					UnitB:        line.Unit,
				}
			}
			existing.Quantity = existing.Quantity.Add(contribution)
		}
	}

	result := make([]entities.IngredientNeed, 0, len(needs))
	for _, need := range needs {
		result = append(result, *need)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].IngredientID < result[j].IngredientID
	})

	return result, nil
}
