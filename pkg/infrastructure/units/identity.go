package units

import (
	"github.com/shopspring/decimal"

	"github.com/kentonium3/bake-tracker-sub012/pkg/domain/entities"
	"github.com/kentonium3/bake-tracker-sub012/pkg/domain/repositories"
)

// IdentityConverter passes same-unit quantities through unchanged and
// refuses everything else. Real conversion tables are a collaborator
// concern; this is the safe default for scenarios stocked and baked in
// one unit system.
type IdentityConverter struct{}

// NewIdentityConverter creates the pass-through converter
func NewIdentityConverter() *IdentityConverter {
	return &IdentityConverter{}
}

// Verify interface compliance
var _ repositories.UnitConverter = (*IdentityConverter)(nil)

// Convert returns qty unchanged when fromUnit equals toUnit and fails
// with a UnitMismatchError otherwise.
func (c *IdentityConverter) Convert(qty decimal.Decimal, fromUnit, toUnit string, ingredientID entities.IngredientID) (decimal.Decimal, error) {
	if fromUnit == toUnit {
		return qty, nil
	}
	return decimal.Zero, &entities.UnitMismatchError{
		IngredientID: ingredientID,
		UnitA:        fromUnit,
		UnitB:        toUnit,
	}
}
