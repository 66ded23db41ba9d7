package consumption

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/kentonium3/bake-tracker-sub012/pkg/application/dto"
	"github.com/kentonium3/bake-tracker-sub012/pkg/domain/entities"
	"github.com/kentonium3/bake-tracker-sub012/pkg/domain/repositories"
)

// Service depletes inventory lots oldest-first. With dryRun set it runs
// the identical arithmetic over the same lot ordering without writing
// anything back, so a dry run and a real run always agree.
type Service struct{}

// NewService creates a new FIFO consumption service
func NewService() *Service {
	return &Service{}
}

// Consume depletes lots for an ingredient until quantityNeeded is covered
// or lots run out. Errors are raised only for illegal input: an unknown
// ingredient or a non-positive quantity. Running short of stock is a
// normal result with Satisfied=false and a positive Shortfall.
func (s *Service) Consume(
	uow repositories.UnitOfWork,
	ingredientID entities.IngredientID,
	quantityNeeded decimal.Decimal,
	dryRun bool,
) (*dto.ConsumptionResult, error) {
	if !quantityNeeded.IsPositive() {
		return nil, &entities.ValidationError{
			ID:     string(ingredientID),
			Field:  "quantity_needed",
			Reason: "quantity needed must be positive, got " + quantityNeeded.String(),
		}
	}

	if _, err := uow.Ingredients().GetIngredient(ingredientID); err != nil {
		return nil, fmt.Errorf("failed to resolve ingredient %s: %w", ingredientID, err)
	}

	lots, err := uow.Inventory().GetLots(ingredientID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch lots for %s: %w", ingredientID, err)
	}

	// The repository contract already orders lots FIFO; re-sort anyway so
	// depletion order never depends on a particular implementation.
	sort.Slice(lots, func(i, j int) bool {
		return lots[i].Before(lots[j])
	})

	result := &dto.ConsumptionResult{
		IngredientID: ingredientID,
		Requested:    quantityNeeded,
		Consumed:     decimal.Zero,
		Breakdown:    []dto.LotConsumption{},
		TotalCost:    decimal.Zero,
	}

	remaining := quantityNeeded
	for _, lot := range lots {
		if !remaining.IsPositive() {
			break
		}
		if !lot.Quantity.IsPositive() {
			continue
		}

		toConsume := lot.Quantity
		if toConsume.GreaterThan(remaining) {
			toConsume = remaining
		}

		remainingInLot := lot.Quantity.Sub(toConsume)
		cost := toConsume.Mul(lot.UnitCost)

		if !dryRun {
			if err := uow.Inventory().UpdateLotQuantity(lot.ID, remainingInLot); err != nil {
				return nil, fmt.Errorf("failed to deplete lot %s: %w", lot.ID, err)
			}
		}

		result.Breakdown = append(result.Breakdown, dto.LotConsumption{
			LotID:            lot.ID,
			QuantityConsumed: toConsume,
			RemainingInLot:   remainingInLot,
			Cost:             cost,
		})
		result.Consumed = result.Consumed.Add(toConsume)
		result.TotalCost = result.TotalCost.Add(cost)
		remaining = remaining.Sub(toConsume)
	}

	result.Shortfall = quantityNeeded.Sub(result.Consumed)
	result.Satisfied = result.Shortfall.IsZero()

	return result, nil
}
