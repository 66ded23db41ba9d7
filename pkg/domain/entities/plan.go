package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecipeBatchPlan is the computed batch count for one finished unit in a
// plan, with its waste accounting.
type RecipeBatchPlan struct {
	RecipeID          RecipeID
	FinishedUnitID    FinishedUnitID
	UnitsNeeded       decimal.Decimal
	Batches           int64
	YieldPerBatch     int64
	TotalYield        decimal.Decimal
	WasteUnits        decimal.Decimal
	WastePercent      decimal.Decimal
	ThresholdExceeded bool
}

// IngredientNeed is an aggregated ingredient requirement across the plan.
type IngredientNeed struct {
	IngredientID IngredientID
	Unit         string
	Quantity     decimal.Decimal
}

// GapItem compares an aggregated need against FIFO-available stock.
// ToBuy is never negative.
type GapItem struct {
	IngredientID IngredientID
	Unit         string
	Needed       decimal.Decimal
	Available    decimal.Decimal
	ToBuy        decimal.Decimal
	Sufficient   bool
}

// PlanSnapshot is the persisted result of a plan calculation. It is
// created whole, replaced whole on recalculation, and never patched.
// Staleness is judged by comparing CalculatedAt against the live
// modification times of every contributing entity.
type PlanSnapshot struct {
	EventID       EventID
	CalculatedAt  time.Time
	RecipeBatches []RecipeBatchPlan
	Ingredients   []IngredientNeed
	ShoppingList  []GapItem
	Warnings      []string
}

// NewPlanSnapshot creates a validated PlanSnapshot
func NewPlanSnapshot(eventID EventID, calculatedAt time.Time, batches []RecipeBatchPlan, ingredients []IngredientNeed, shopping []GapItem, warnings []string) (*PlanSnapshot, error) {
	if eventID == "" {
		return nil, &ValidationError{Field: "event_id", Reason: "plan snapshot must reference an event"}
	}
	if calculatedAt.IsZero() {
		return nil, &ValidationError{ID: string(eventID), Field: "calculated_at", Reason: "calculation time is required"}
	}
	return &PlanSnapshot{
		EventID:       eventID,
		CalculatedAt:  calculatedAt,
		RecipeBatches: batches,
		Ingredients:   ingredients,
		ShoppingList:  shopping,
		Warnings:      warnings,
	}, nil
}
