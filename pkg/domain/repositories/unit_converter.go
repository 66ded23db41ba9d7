package repositories

import (
	"github.com/shopspring/decimal"

	"github.com/kentonium3/bake-tracker-sub012/pkg/domain/entities"
)

// UnitConverter converts a quantity between units for an ingredient.
// Conversion is a collaborator concern: the planning core invokes it
// before aggregation and never coerces units itself.
type UnitConverter interface {
	Convert(qty decimal.Decimal, fromUnit, toUnit string, ingredientID entities.IngredientID) (decimal.Decimal, error)
}
