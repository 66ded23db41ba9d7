package repositories

import "github.com/kentonium3/bake-tracker-sub012/pkg/domain/entities"

// IngredientRepository provides access to ingredient master data
type IngredientRepository interface {
	GetIngredient(id entities.IngredientID) (*entities.Ingredient, error)
	GetAllIngredients() ([]*entities.Ingredient, error)
	SaveIngredient(ingredient *entities.Ingredient) error
}
