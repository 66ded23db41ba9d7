package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/kentonium3/bake-tracker-sub012/pkg/domain/repositories"
)

// Store is a sqlite-backed data store. Every unit of work maps onto one
// database transaction, so commit/rollback semantics come straight from
// sqlite and a failed plan calculation leaves no partial state.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the database at dbPath and bootstraps the
// schema.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// Verify interface compliance
var _ repositories.Store = (*Store)(nil)

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS ingredients (
        id TEXT PRIMARY KEY,
        name TEXT NOT NULL,
        unit TEXT NOT NULL,
        updated_at DATETIME NOT NULL
    );

    CREATE TABLE IF NOT EXISTS lots (
        seq INTEGER PRIMARY KEY AUTOINCREMENT,
        id TEXT NOT NULL UNIQUE,
        ingredient_id TEXT NOT NULL,
        quantity TEXT NOT NULL,
        unit TEXT NOT NULL,
        unit_cost TEXT NOT NULL,
        acquired_at DATETIME NOT NULL,
        FOREIGN KEY (ingredient_id) REFERENCES ingredients(id)
    );

    CREATE TABLE IF NOT EXISTS recipes (
        id TEXT PRIMARY KEY,
        name TEXT NOT NULL,
        updated_at DATETIME NOT NULL
    );

    CREATE TABLE IF NOT EXISTS recipe_lines (
        recipe_id TEXT NOT NULL,
        ingredient_id TEXT NOT NULL,
        quantity TEXT NOT NULL,
        unit TEXT NOT NULL,
        FOREIGN KEY (recipe_id) REFERENCES recipes(id) ON DELETE CASCADE
    );

    CREATE TABLE IF NOT EXISTS yield_options (
        recipe_id TEXT NOT NULL,
        items_per_batch INTEGER NOT NULL,
        FOREIGN KEY (recipe_id) REFERENCES recipes(id) ON DELETE CASCADE
    );

    CREATE TABLE IF NOT EXISTS finished_units (
        id TEXT PRIMARY KEY,
        name TEXT NOT NULL,
        recipe_id TEXT NOT NULL,
        yield_mode INTEGER NOT NULL,
        items_per_batch INTEGER NOT NULL,
        batch_percentage TEXT NOT NULL,
        updated_at DATETIME NOT NULL,
        FOREIGN KEY (recipe_id) REFERENCES recipes(id)
    );

    CREATE TABLE IF NOT EXISTS bundles (
        id TEXT PRIMARY KEY,
        name TEXT NOT NULL,
        packaging_only INTEGER NOT NULL,
        created_at DATETIME NOT NULL
    );

    CREATE TABLE IF NOT EXISTS composition_edges (
        bundle_id TEXT NOT NULL,
        kind INTEGER NOT NULL,
        child_id TEXT NOT NULL,
        multiplier TEXT NOT NULL,
        created_at DATETIME NOT NULL,
        FOREIGN KEY (bundle_id) REFERENCES bundles(id) ON DELETE CASCADE
    );

    CREATE TABLE IF NOT EXISTS events (
        id TEXT PRIMARY KEY,
        name TEXT NOT NULL,
        updated_at DATETIME NOT NULL
    );

    CREATE TABLE IF NOT EXISTS requirements (
        id TEXT PRIMARY KEY,
        event_id TEXT NOT NULL,
        bundle_id TEXT,
        finished_unit_id TEXT,
        quantity TEXT NOT NULL,
        updated_at DATETIME NOT NULL,
        FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE
    );

    CREATE TABLE IF NOT EXISTS batch_decisions (
        event_id TEXT NOT NULL,
        recipe_id TEXT NOT NULL,
        batches INTEGER NOT NULL,
        decided_at DATETIME NOT NULL,
        PRIMARY KEY (event_id, recipe_id)
    );

    CREATE TABLE IF NOT EXISTS plan_snapshots (
        event_id TEXT PRIMARY KEY,
        calculated_at DATETIME NOT NULL
    );

    CREATE TABLE IF NOT EXISTS plan_batches (
        event_id TEXT NOT NULL,
        recipe_id TEXT NOT NULL,
        finished_unit_id TEXT NOT NULL,
        units_needed TEXT NOT NULL,
        batches INTEGER NOT NULL,
        yield_per_batch INTEGER NOT NULL,
        total_yield TEXT NOT NULL,
        waste_units TEXT NOT NULL,
        waste_percent TEXT NOT NULL,
        threshold_exceeded INTEGER NOT NULL,
        FOREIGN KEY (event_id) REFERENCES plan_snapshots(event_id) ON DELETE CASCADE
    );

    CREATE TABLE IF NOT EXISTS plan_ingredients (
        event_id TEXT NOT NULL,
        ingredient_id TEXT NOT NULL,
        unit TEXT NOT NULL,
        quantity TEXT NOT NULL,
        FOREIGN KEY (event_id) REFERENCES plan_snapshots(event_id) ON DELETE CASCADE
    );

    CREATE TABLE IF NOT EXISTS plan_gaps (
        event_id TEXT NOT NULL,
        ingredient_id TEXT NOT NULL,
        unit TEXT NOT NULL,
        needed TEXT NOT NULL,
        available TEXT NOT NULL,
        to_buy TEXT NOT NULL,
        sufficient INTEGER NOT NULL,
        FOREIGN KEY (event_id) REFERENCES plan_snapshots(event_id) ON DELETE CASCADE
    );

    CREATE TABLE IF NOT EXISTS plan_warnings (
        event_id TEXT NOT NULL,
        warning TEXT NOT NULL,
        FOREIGN KEY (event_id) REFERENCES plan_snapshots(event_id) ON DELETE CASCADE
    );

    CREATE INDEX IF NOT EXISTS idx_lots_ingredient ON lots(ingredient_id);
    CREATE INDEX IF NOT EXISTS idx_requirements_event ON requirements(event_id);
    CREATE INDEX IF NOT EXISTS idx_edges_bundle ON composition_edges(bundle_id);
    `

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Begin opens a unit of work backed by a database transaction
func (s *Store) Begin(ctx context.Context) (repositories.UnitOfWork, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &unitOfWork{tx: tx}, nil
}

type unitOfWork struct {
	tx   *sql.Tx
	done bool
}

// Verify interface compliance
var _ repositories.UnitOfWork = (*unitOfWork)(nil)

func (u *unitOfWork) Ingredients() repositories.IngredientRepository { return &ingredientRepo{u.tx} }
func (u *unitOfWork) Inventory() repositories.InventoryRepository    { return &inventoryRepo{u.tx} }
func (u *unitOfWork) Recipes() repositories.RecipeRepository         { return &recipeRepo{u.tx} }
func (u *unitOfWork) Bundles() repositories.BundleRepository         { return &bundleRepo{u.tx} }
func (u *unitOfWork) Events() repositories.EventRepository           { return &eventRepo{u.tx} }
func (u *unitOfWork) Plans() repositories.PlanRepository             { return &planRepo{u.tx} }

func (u *unitOfWork) Commit() error {
	if u.done {
		return nil
	}
	u.done = true
	return u.tx.Commit()
}

func (u *unitOfWork) Rollback() error {
	if u.done {
		return nil
	}
	u.done = true
	return u.tx.Rollback()
}
