package consumption

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/kentonium3/bake-tracker-sub012/pkg/domain/entities"
	"github.com/kentonium3/bake-tracker-sub012/pkg/domain/repositories"
)

// GapAnalyzer compares aggregated ingredient needs against the stock the
// FIFO engine could actually deliver
type GapAnalyzer struct {
	fifo *Service
}

// NewGapAnalyzer creates a new gap analyzer on top of a FIFO service
func NewGapAnalyzer(fifo *Service) *GapAnalyzer {
	return &GapAnalyzer{fifo: fifo}
}

// Gap computes the purchase gap for a single ingredient need. Available
// stock is measured with a dry-run consumption over the full inventory,
// so it is exactly what a real consumption would deliver.
func (g *GapAnalyzer) Gap(
	uow repositories.UnitOfWork,
	ingredientID entities.IngredientID,
	needed decimal.Decimal,
	unit string,
) (*entities.GapItem, error) {
	if !needed.IsPositive() {
		return nil, &entities.ValidationError{
			ID:     string(ingredientID),
			Field:  "needed",
			Reason: "needed quantity must be positive, got " + needed.String(),
		}
	}

	probe, err := g.fifo.Consume(uow, ingredientID, needed, true)
	if err != nil {
		return nil, fmt.Errorf("failed to probe stock for %s: %w", ingredientID, err)
	}

	// Consumed covers what the need would take; the rest of the lots still
	// count toward availability.
	available := probe.Consumed
	if probe.Satisfied {
		lots, err := uow.Inventory().GetLots(ingredientID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch lots for %s: %w", ingredientID, err)
		}
		available = decimal.Zero
		for _, lot := range lots {
			available = available.Add(lot.Quantity)
		}
	}

	toBuy := needed.Sub(available)
	if toBuy.IsNegative() {
		toBuy = decimal.Zero
	}

	return &entities.GapItem{
		IngredientID: ingredientID,
		Unit:         unit,
		Needed:       needed,
		Available:    available,
		ToBuy:        toBuy,
		Sufficient:   available.GreaterThanOrEqual(needed),
	}, nil
}
