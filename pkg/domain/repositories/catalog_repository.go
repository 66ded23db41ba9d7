package repositories

import "github.com/kentonium3/bake-tracker-sub012/pkg/domain/entities"

// RecipeRepository provides access to recipes and the finished units
// produced from them
type RecipeRepository interface {
	GetRecipe(id entities.RecipeID) (*entities.Recipe, error)
	GetAllRecipes() ([]*entities.Recipe, error)
	SaveRecipe(recipe *entities.Recipe) error

	GetFinishedUnit(id entities.FinishedUnitID) (*entities.FinishedUnit, error)
	GetAllFinishedUnits() ([]*entities.FinishedUnit, error)
	SaveFinishedUnit(unit *entities.FinishedUnit) error
}

// BundleRepository provides access to bundles and their composition edges
type BundleRepository interface {
	GetBundle(id entities.BundleID) (*entities.Bundle, error)
	GetAllBundles() ([]*entities.Bundle, error)
	SaveBundle(bundle *entities.Bundle) error
}
