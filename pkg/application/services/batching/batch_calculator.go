package batching

import (
	"github.com/shopspring/decimal"

	"github.com/kentonium3/bake-tracker-sub012/pkg/application/dto"
	"github.com/kentonium3/bake-tracker-sub012/pkg/domain/entities"
)

// WasteThresholdPercent is the acceptable waste ceiling when choosing
// among yield options. Exceeding it is a warning, never a failure.
var WasteThresholdPercent = decimal.NewFromInt(15)

var oneHundred = decimal.NewFromInt(100)

// Calculator converts finished-unit requirements into recipe batch
// counts. Rounding is always up: total yield never falls short of the
// requirement.
type Calculator struct{}

// NewCalculator creates a new batch calculator
func NewCalculator() *Calculator {
	return &Calculator{}
}

// CalculateBatches determines the batch count for unitsNeeded of a unit.
// DiscreteCount units pick the yield option with the least waste under
// the threshold (ties broken by fewest batches); BatchPortion units treat
// one batch as yield 1 and round the fractional requirement up.
func (c *Calculator) CalculateBatches(
	unit *entities.FinishedUnit,
	recipe *entities.Recipe,
	unitsNeeded decimal.Decimal,
) (*dto.BatchCalculation, error) {
	if unit == nil {
		return nil, &entities.ValidationError{Field: "unit", Reason: "finished unit is required"}
	}
	if recipe == nil {
		return nil, &entities.ValidationError{ID: string(unit.ID), Field: "recipe", Reason: "recipe is required"}
	}
	if !unitsNeeded.IsPositive() {
		return nil, &entities.ValidationError{
			ID:     string(unit.ID),
			Field:  "units_needed",
			Reason: "units needed must be positive, got " + unitsNeeded.String(),
		}
	}

	if unit.YieldMode == entities.BatchPortion {
		// The unit is a fractional share of a batch, not a count of whole
		// items, so a batch yields exactly 1.
		calc := computeOption(unit, recipe, unitsNeeded, 1)
		calc.ThresholdExceeded = calc.WastePercent.GreaterThan(WasteThresholdPercent)
		return calc, nil
	}

	var best, bestUnderThreshold *dto.BatchCalculation
	for _, yield := range candidateYields(unit, recipe) {
		calc := computeOption(unit, recipe, unitsNeeded, yield)

		if best == nil || lessWasteful(calc, best) {
			best = calc
		}
		if calc.WastePercent.LessThanOrEqual(WasteThresholdPercent) {
			if bestUnderThreshold == nil || lessWasteful(calc, bestUnderThreshold) {
				bestUnderThreshold = calc
			}
		}
	}

	if bestUnderThreshold != nil {
		return bestUnderThreshold, nil
	}
	best.ThresholdExceeded = true
	return best, nil
}

// candidateYields collects the unit's own items-per-batch plus every
// yield option the recipe offers, deduplicated.
func candidateYields(unit *entities.FinishedUnit, recipe *entities.Recipe) []int64 {
	seen := make(map[int64]bool)
	var yields []int64

	if unit.ItemsPerBatch > 0 {
		seen[unit.ItemsPerBatch] = true
		yields = append(yields, unit.ItemsPerBatch)
	}
	for _, opt := range recipe.YieldOptions {
		if opt.ItemsPerBatch > 0 && !seen[opt.ItemsPerBatch] {
			seen[opt.ItemsPerBatch] = true
			yields = append(yields, opt.ItemsPerBatch)
		}
	}

	return yields
}

func computeOption(unit *entities.FinishedUnit, recipe *entities.Recipe, unitsNeeded decimal.Decimal, yieldPerBatch int64) *dto.BatchCalculation {
	yield := decimal.NewFromInt(yieldPerBatch)
	batches := unitsNeeded.Div(yield).Ceil().IntPart()
	totalYield := decimal.NewFromInt(batches).Mul(yield)
	wasteUnits := totalYield.Sub(unitsNeeded)

	wastePercent := decimal.Zero
	if totalYield.IsPositive() {
		wastePercent = wasteUnits.Div(totalYield).Mul(oneHundred)
	}

	return &dto.BatchCalculation{
		RecipeID:       recipe.ID,
		FinishedUnitID: unit.ID,
		UnitsNeeded:    unitsNeeded,
		Batches:        batches,
		YieldPerBatch:  yieldPerBatch,
		TotalYield:     totalYield,
		WasteUnits:     wasteUnits,
		WastePercent:   wastePercent,
	}
}

// lessWasteful orders candidates by waste percent, then by fewer batches.
func lessWasteful(a, b *dto.BatchCalculation) bool {
	if a.WastePercent.Equal(b.WastePercent) {
		return a.Batches < b.Batches
	}
	return a.WastePercent.LessThan(b.WastePercent)
}
