package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// YieldMode describes how a recipe batch's output maps to a finished unit
type YieldMode int

const (
	// DiscreteCount units come out of a batch as a fixed whole-item count
	DiscreteCount YieldMode = iota
	// BatchPortion units represent a fractional share of a batch's output
	BatchPortion
)

// String method for YieldMode enum
func (m YieldMode) String() string {
	switch m {
	case DiscreteCount:
		return "DiscreteCount"
	case BatchPortion:
		return "BatchPortion"
	default:
		return "Unknown"
	}
}

// FinishedUnit is a base production unit: the leaf of the bundle
// composition graph, backed by exactly one recipe.
type FinishedUnit struct {
	ID              FinishedUnitID
	Name            string
	RecipeID        RecipeID
	YieldMode       YieldMode
	ItemsPerBatch   int64           // DiscreteCount only
	BatchPercentage decimal.Decimal // BatchPortion only, share in (0,1]
	UpdatedAt       time.Time
}

// NewFinishedUnit creates a validated FinishedUnit
func NewFinishedUnit(id FinishedUnitID, name string, recipeID RecipeID, mode YieldMode, itemsPerBatch int64, batchPercentage decimal.Decimal, updatedAt time.Time) (*FinishedUnit, error) {
	if id == "" {
		return nil, &ValidationError{Field: "id", Reason: "finished unit id cannot be empty"}
	}
	if name == "" {
		return nil, &ValidationError{ID: string(id), Field: "name", Reason: "finished unit name cannot be empty"}
	}
	if recipeID == "" {
		return nil, &ValidationError{ID: string(id), Field: "recipe_id", Reason: "finished unit must reference a recipe"}
	}

	switch mode {
	case DiscreteCount:
		if itemsPerBatch <= 0 {
			return nil, &ValidationError{ID: string(id), Field: "items_per_batch", Reason: "items per batch must be positive for discrete count units"}
		}
	case BatchPortion:
		if !batchPercentage.IsPositive() || batchPercentage.GreaterThan(decimal.NewFromInt(1)) {
			return nil, &ValidationError{ID: string(id), Field: "batch_percentage", Reason: "batch percentage must be in (0,1], got " + batchPercentage.String()}
		}
	default:
		return nil, &ValidationError{ID: string(id), Field: "yield_mode", Reason: "unknown yield mode"}
	}

	return &FinishedUnit{
		ID:              id,
		Name:            name,
		RecipeID:        recipeID,
		YieldMode:       mode,
		ItemsPerBatch:   itemsPerBatch,
		BatchPercentage: batchPercentage,
		UpdatedAt:       updatedAt,
	}, nil
}
