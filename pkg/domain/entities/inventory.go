package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryLot represents a single acquisition of an ingredient. Lots are
// depleted oldest AcquiredAt first; Seq breaks ties between lots acquired
// on the same date so depletion order is deterministic. Quantity is
// decremented only by the FIFO consumption engine.
type InventoryLot struct {
	ID           LotID
	IngredientID IngredientID
	Quantity     decimal.Decimal
	Unit         string
	UnitCost     decimal.Decimal
	AcquiredAt   time.Time
	Seq          int64
}

// NewInventoryLot creates a validated InventoryLot
func NewInventoryLot(id LotID, ingredientID IngredientID, quantity decimal.Decimal, unit string, unitCost decimal.Decimal, acquiredAt time.Time) (*InventoryLot, error) {
	if id == "" {
		return nil, &ValidationError{Field: "id", Reason: "lot id cannot be empty"}
	}
	if ingredientID == "" {
		return nil, &ValidationError{ID: string(id), Field: "ingredient_id", Reason: "lot must reference an ingredient"}
	}
	if quantity.IsNegative() {
		return nil, &ValidationError{ID: string(id), Field: "quantity", Reason: "lot quantity cannot be negative, got " + quantity.String()}
	}
	if unit == "" {
		return nil, &ValidationError{ID: string(id), Field: "unit", Reason: "lot unit cannot be empty"}
	}
	if unitCost.IsNegative() {
		return nil, &ValidationError{ID: string(id), Field: "unit_cost", Reason: "unit cost cannot be negative, got " + unitCost.String()}
	}
	if acquiredAt.IsZero() {
		return nil, &ValidationError{ID: string(id), Field: "acquired_at", Reason: "acquisition date is required"}
	}

	return &InventoryLot{
		ID:           id,
		IngredientID: ingredientID,
		Quantity:     quantity,
		Unit:         unit,
		UnitCost:     unitCost,
		AcquiredAt:   acquiredAt,
	}, nil
}

// Before reports whether this lot precedes other in FIFO order.
func (l *InventoryLot) Before(other *InventoryLot) bool {
	if l.AcquiredAt.Equal(other.AcquiredAt) {
		return l.Seq < other.Seq
	}
	return l.AcquiredAt.Before(other.AcquiredAt)
}
