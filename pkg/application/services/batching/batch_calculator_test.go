package batching

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kentonium3/bake-tracker-sub012/pkg/domain/entities"
)

func discreteUnit(t *testing.T, id entities.FinishedUnitID, recipeID entities.RecipeID, itemsPerBatch int64) *entities.FinishedUnit {
	t.Helper()
	unit, err := entities.NewFinishedUnit(id, string(id), recipeID, entities.DiscreteCount, itemsPerBatch, decimal.Zero, time.Now())
	if err != nil {
		t.Fatalf("Failed to build finished unit: %v", err)
	}
	return unit
}

func portionUnit(t *testing.T, id entities.FinishedUnitID, recipeID entities.RecipeID, share string) *entities.FinishedUnit {
	t.Helper()
	pct, err := decimal.NewFromString(share)
	if err != nil {
		t.Fatalf("Bad share %q: %v", share, err)
	}
	unit, err := entities.NewFinishedUnit(id, string(id), recipeID, entities.BatchPortion, 0, pct, time.Now())
	if err != nil {
		t.Fatalf("Failed to build finished unit: %v", err)
	}
	return unit
}

func recipeWithYields(t *testing.T, id entities.RecipeID, yields ...int64) *entities.Recipe {
	t.Helper()
	opts := make([]entities.YieldOption, 0, len(yields))
	for _, y := range yields {
		opts = append(opts, entities.YieldOption{ItemsPerBatch: y})
	}
	line := entities.RecipeLine{IngredientID: "FLOUR", Quantity: decimal.NewFromInt(1), Unit: "kg"}
	recipe, err := entities.NewRecipe(id, string(id), []entities.RecipeLine{line}, opts, time.Now())
	if err != nil {
		t.Fatalf("Failed to build recipe: %v", err)
	}
	return recipe
}

func TestCalculateBatches_RoundsUp(t *testing.T) {
	calculator := NewCalculator()
	unit := discreteUnit(t, "COOKIE", "R-COOKIE", 48)
	recipe := recipeWithYields(t, "R-COOKIE", 48)

	calc, err := calculator.CalculateBatches(unit, recipe, decimal.NewFromInt(49))
	if err != nil {
		t.Fatalf("CalculateBatches failed: %v", err)
	}

	if calc.Batches != 2 {
		t.Errorf("Expected 2 batches for 49 needed at 48 per batch, got %d", calc.Batches)
	}
	if !calc.TotalYield.Equal(decimal.NewFromInt(96)) {
		t.Errorf("Expected total yield 96, got %s", calc.TotalYield)
	}
	if !calc.WasteUnits.Equal(decimal.NewFromInt(47)) {
		t.Errorf("Expected 47 waste units, got %s", calc.WasteUnits)
	}
	// 47/96 is just under 49 percent.
	if calc.WastePercent.LessThan(decimal.NewFromInt(48)) || calc.WastePercent.GreaterThan(decimal.NewFromInt(49)) {
		t.Errorf("Expected waste percent near 48.96, got %s", calc.WastePercent)
	}
	if !calc.ThresholdExceeded {
		t.Error("Expected the only option at 48.96%% waste to be flagged over threshold")
	}
}

func TestCalculateBatches_ExactFitHasNoWaste(t *testing.T) {
	calculator := NewCalculator()
	unit := discreteUnit(t, "COOKIE", "R-COOKIE", 48)
	recipe := recipeWithYields(t, "R-COOKIE", 48)

	calc, err := calculator.CalculateBatches(unit, recipe, decimal.NewFromInt(96))
	if err != nil {
		t.Fatalf("CalculateBatches failed: %v", err)
	}
	if calc.Batches != 2 {
		t.Errorf("Expected 2 batches, got %d", calc.Batches)
	}
	if !calc.WasteUnits.IsZero() {
		t.Errorf("Expected zero waste, got %s", calc.WasteUnits)
	}
	if calc.ThresholdExceeded {
		t.Error("Expected exact fit not to be flagged")
	}
}

func TestCalculateBatches_PrefersYieldOptionUnderThreshold(t *testing.T) {
	calculator := NewCalculator()
	// Unit default is 48 per batch, but the recipe also offers 24.
	// Needing 24: at 48/batch waste is 50%; at 24/batch waste is 0%.
	unit := discreteUnit(t, "COOKIE", "R-COOKIE", 48)
	recipe := recipeWithYields(t, "R-COOKIE", 48, 24)

	calc, err := calculator.CalculateBatches(unit, recipe, decimal.NewFromInt(24))
	if err != nil {
		t.Fatalf("CalculateBatches failed: %v", err)
	}
	if calc.YieldPerBatch != 24 {
		t.Errorf("Expected the 24-per-batch option chosen, got %d", calc.YieldPerBatch)
	}
	if !calc.WasteUnits.IsZero() {
		t.Errorf("Expected zero waste, got %s", calc.WasteUnits)
	}
	if calc.ThresholdExceeded {
		t.Error("Expected chosen option not to be flagged")
	}
}

func TestCalculateBatches_TieBrokenByFewerBatches(t *testing.T) {
	calculator := NewCalculator()
	// Needing 48: both 48/batch (1 batch) and 24/batch (2 batches) give
	// zero waste; fewer batches wins.
	unit := discreteUnit(t, "COOKIE", "R-COOKIE", 24)
	recipe := recipeWithYields(t, "R-COOKIE", 24, 48)

	calc, err := calculator.CalculateBatches(unit, recipe, decimal.NewFromInt(48))
	if err != nil {
		t.Fatalf("CalculateBatches failed: %v", err)
	}
	if calc.YieldPerBatch != 48 {
		t.Errorf("Expected the 48-per-batch option on the zero-waste tie, got %d", calc.YieldPerBatch)
	}
	if calc.Batches != 1 {
		t.Errorf("Expected 1 batch, got %d", calc.Batches)
	}
}

func TestCalculateBatches_ThresholdMissIsNonFatal(t *testing.T) {
	calculator := NewCalculator()
	unit := discreteUnit(t, "CAKE", "R-CAKE", 10)
	recipe := recipeWithYields(t, "R-CAKE", 10)

	// Needing 6 of 10: 40 percent waste, over the ceiling.
	calc, err := calculator.CalculateBatches(unit, recipe, decimal.NewFromInt(6))
	if err != nil {
		t.Fatalf("Expected a result despite the threshold miss, got error: %v", err)
	}
	if !calc.ThresholdExceeded {
		t.Error("Expected the threshold miss to be flagged")
	}
	if calc.Batches != 1 {
		t.Errorf("Expected 1 batch, got %d", calc.Batches)
	}
}

func TestCalculateBatches_BatchPortionRoundsUp(t *testing.T) {
	calculator := NewCalculator()
	unit := portionUnit(t, "HALF_LOAF", "R-BREAD", "0.5")
	recipe := recipeWithYields(t, "R-BREAD", 1)

	// 5 half-loaf units: 2.5 batches of dough, rounded up to 3.
	calc, err := calculator.CalculateBatches(unit, recipe, decimal.NewFromFloat(2.5))
	if err != nil {
		t.Fatalf("CalculateBatches failed: %v", err)
	}
	if calc.Batches != 3 {
		t.Errorf("Expected 3 batches for a 2.5 batch requirement, got %d", calc.Batches)
	}
	if calc.YieldPerBatch != 1 {
		t.Errorf("Expected portion units to yield 1 per batch, got %d", calc.YieldPerBatch)
	}
	if !calc.WasteUnits.Equal(decimal.NewFromFloat(0.5)) {
		t.Errorf("Expected 0.5 batch of waste, got %s", calc.WasteUnits)
	}
}

func TestCalculateBatches_RejectsBadInput(t *testing.T) {
	calculator := NewCalculator()
	unit := discreteUnit(t, "COOKIE", "R-COOKIE", 48)
	recipe := recipeWithYields(t, "R-COOKIE", 48)

	if _, err := calculator.CalculateBatches(nil, recipe, decimal.NewFromInt(1)); err == nil {
		t.Error("Expected error for nil unit")
	}
	if _, err := calculator.CalculateBatches(unit, nil, decimal.NewFromInt(1)); err == nil {
		t.Error("Expected error for nil recipe")
	}
	if _, err := calculator.CalculateBatches(unit, recipe, decimal.Zero); err == nil {
		t.Error("Expected error for zero units needed")
	}
}
