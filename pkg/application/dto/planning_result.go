package dto

import (
	"github.com/shopspring/decimal"

	"github.com/kentonium3/bake-tracker-sub012/pkg/domain/entities"
)

// LotConsumption is one step of a FIFO depletion breakdown
type LotConsumption struct {
	LotID            entities.LotID
	QuantityConsumed decimal.Decimal
	RemainingInLot   decimal.Decimal
	Cost             decimal.Decimal
}

// ConsumptionResult is the structured outcome of a FIFO consumption.
// A shortfall is a normal result, not an error: Satisfied is false and
// Shortfall is positive when inventory ran out.
type ConsumptionResult struct {
	IngredientID entities.IngredientID
	Requested    decimal.Decimal
	Consumed     decimal.Decimal
	Breakdown    []LotConsumption
	Shortfall    decimal.Decimal
	Satisfied    bool
	TotalCost    decimal.Decimal
}

// Decomposition is the flattened output of bundle explosion: total
// finished-unit requirements, packaging counts kept to the side, and a
// flag for production bundles that netted no base units.
type Decomposition struct {
	Units       map[entities.FinishedUnitID]decimal.Decimal
	Packaging   map[entities.PackagingItemID]decimal.Decimal
	ContentFree bool
}

// BatchCalculation is the outcome of converting a unit requirement into
// recipe batches. ThresholdExceeded warns that no yield option stayed
// under the waste threshold; the calculation is still usable.
type BatchCalculation struct {
	RecipeID          entities.RecipeID
	FinishedUnitID    entities.FinishedUnitID
	UnitsNeeded       decimal.Decimal
	Batches           int64
	YieldPerBatch     int64
	TotalYield        decimal.Decimal
	WasteUnits        decimal.Decimal
	WastePercent      decimal.Decimal
	ThresholdExceeded bool
}

// ComponentFeasibility reports one finished unit inside a bundle check
type ComponentFeasibility struct {
	FinishedUnitID entities.FinishedUnitID
	Needed         decimal.Decimal
	Available      decimal.Decimal
	Sufficient     bool
}

// BundleFeasibility reports whether recorded production covers one
// requested bundle quantity, bounded by its bottleneck component
type BundleFeasibility struct {
	BundleID    entities.BundleID
	Needed      decimal.Decimal
	Achievable  decimal.Decimal
	Shortfall   decimal.Decimal
	CanAssemble bool
	Components  []ComponentFeasibility
}

// FeasibilityResult is the full assembly check for an event
type FeasibilityResult struct {
	EventID         entities.EventID
	OverallFeasible bool
	Bundles         []BundleFeasibility
}
