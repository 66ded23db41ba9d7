package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecipeLine is a single base ingredient requirement of a recipe, per batch.
type RecipeLine struct {
	IngredientID IngredientID
	Quantity     decimal.Decimal
	Unit         string
}

// YieldOption is one of the batch sizes a recipe can be produced at.
type YieldOption struct {
	ItemsPerBatch int64
}

// Recipe represents a production recipe with its per-batch ingredient
// lines and one or more yield sizes.
type Recipe struct {
	ID           RecipeID
	Name         string
	Lines        []RecipeLine
	YieldOptions []YieldOption
	UpdatedAt    time.Time
}

// NewRecipe creates a validated Recipe
func NewRecipe(id RecipeID, name string, lines []RecipeLine, yields []YieldOption, updatedAt time.Time) (*Recipe, error) {
	if id == "" {
		return nil, &ValidationError{Field: "id", Reason: "recipe id cannot be empty"}
	}
	if name == "" {
		return nil, &ValidationError{ID: string(id), Field: "name", Reason: "recipe name cannot be empty"}
	}
	if len(yields) == 0 {
		return nil, &ValidationError{ID: string(id), Field: "yield_options", Reason: "recipe must offer at least one yield option"}
	}
	for _, y := range yields {
		if y.ItemsPerBatch <= 0 {
			return nil, &ValidationError{ID: string(id), Field: "yield_options", Reason: "yield per batch must be positive"}
		}
	}
	for _, line := range lines {
		if line.IngredientID == "" {
			return nil, &ValidationError{ID: string(id), Field: "lines", Reason: "recipe line must reference an ingredient"}
		}
		if !line.Quantity.IsPositive() {
			return nil, &ValidationError{ID: string(id), Field: "lines", Reason: "recipe line quantity must be positive, got " + line.Quantity.String()}
		}
		if line.Unit == "" {
			return nil, &ValidationError{ID: string(id), Field: "lines", Reason: "recipe line unit cannot be empty"}
		}
	}

	return &Recipe{
		ID:           id,
		Name:         name,
		Lines:        lines,
		YieldOptions: yields,
		UpdatedAt:    updatedAt,
	}, nil
}
