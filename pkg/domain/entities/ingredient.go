package entities

import "time"

// Typed identifiers for the catalog. Keeping them distinct string types
// stops a recipe id from silently standing in for an ingredient id.
type (
	IngredientID    string
	RecipeID        string
	FinishedUnitID  string
	BundleID        string
	PackagingItemID string
	EventID         string
	LotID           string
)

// Ingredient is a base purchasable material. Unit is the stocking unit
// every inventory lot of this ingredient is recorded in.
type Ingredient struct {
	ID        IngredientID
	Name      string
	Unit      string
	UpdatedAt time.Time
}

// NewIngredient creates a validated Ingredient
func NewIngredient(id IngredientID, name, unit string, updatedAt time.Time) (*Ingredient, error) {
	if id == "" {
		return nil, &ValidationError{Field: "id", Reason: "ingredient id cannot be empty"}
	}
	if name == "" {
		return nil, &ValidationError{ID: string(id), Field: "name", Reason: "ingredient name cannot be empty"}
	}
	if unit == "" {
		return nil, &ValidationError{ID: string(id), Field: "unit", Reason: "ingredient unit cannot be empty"}
	}

	return &Ingredient{
		ID:        id,
		Name:      name,
		Unit:      unit,
		UpdatedAt: updatedAt,
	}, nil
}
