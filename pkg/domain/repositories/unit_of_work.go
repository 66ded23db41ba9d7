package repositories

import "context"

// UnitOfWork scopes a set of repository operations to one atomic
// transaction. All FIFO mutations and the snapshot replacement that
// depends on them happen through a single UnitOfWork: Commit makes them
// all visible, Rollback discards them all. Rollback after Commit is a
// no-op, so `defer uow.Rollback()` is safe on every path.
type UnitOfWork interface {
	Ingredients() IngredientRepository
	Inventory() InventoryRepository
	Recipes() RecipeRepository
	Bundles() BundleRepository
	Events() EventRepository
	Plans() PlanRepository

	Commit() error
	Rollback() error
}

// Store opens units of work against the underlying data store
type Store interface {
	Begin(ctx context.Context) (UnitOfWork, error)
}
