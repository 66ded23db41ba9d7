package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kentonium3/bake-tracker-sub012/pkg/domain/entities"
)

type ingredientRepo struct{ tx *sql.Tx }

func (r *ingredientRepo) GetIngredient(id entities.IngredientID) (*entities.Ingredient, error) {
	row := r.tx.QueryRow(`SELECT id, name, unit, updated_at FROM ingredients WHERE id = ?`, string(id))

	var ing entities.Ingredient
	if err := row.Scan(&ing.ID, &ing.Name, &ing.Unit, &ing.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &entities.NotFoundError{Kind: "ingredient", ID: string(id)}
		}
		return nil, fmt.Errorf("failed to load ingredient %s: %w", id, err)
	}
	return &ing, nil
}

func (r *ingredientRepo) GetAllIngredients() ([]*entities.Ingredient, error) {
	rows, err := r.tx.Query(`SELECT id, name, unit, updated_at FROM ingredients ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	defer rows.Close()

	var out []*entities.Ingredient
	for rows.Next() {
		var ing entities.Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.Unit, &ing.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &ing)
	}
	return out, rows.Err()
}

func (r *ingredientRepo) SaveIngredient(ingredient *entities.Ingredient) error {
	_, err := r.tx.Exec(`
        INSERT INTO ingredients (id, name, unit, updated_at) VALUES (?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET name = excluded.name, unit = excluded.unit, updated_at = excluded.updated_at
    `, string(ingredient.ID), ingredient.Name, ingredient.Unit, ingredient.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save ingredient %s: %w", ingredient.ID, err)
	}
	return nil
}

type recipeRepo struct{ tx *sql.Tx }

func (r *recipeRepo) GetRecipe(id entities.RecipeID) (*entities.Recipe, error) {
	row := r.tx.QueryRow(`SELECT id, name, updated_at FROM recipes WHERE id = ?`, string(id))

	var recipe entities.Recipe
	if err := row.Scan(&recipe.ID, &recipe.Name, &recipe.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &entities.NotFoundError{Kind: "recipe", ID: string(id)}
		}
		return nil, fmt.Errorf("failed to load recipe %s: %w", id, err)
	}

	lines, err := r.tx.Query(`SELECT ingredient_id, quantity, unit FROM recipe_lines WHERE recipe_id = ?`, string(id))
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe lines for %s: %w", id, err)
	}
	defer lines.Close()
	for lines.Next() {
		var line entities.RecipeLine
		var qty string
		if err := lines.Scan(&line.IngredientID, &qty, &line.Unit); err != nil {
			return nil, err
		}
		if line.Quantity, err = decimal.NewFromString(qty); err != nil {
			return nil, fmt.Errorf("bad quantity for recipe %s: %w", id, err)
		}
		recipe.Lines = append(recipe.Lines, line)
	}
	if err := lines.Err(); err != nil {
		return nil, err
	}

	yields, err := r.tx.Query(`SELECT items_per_batch FROM yield_options WHERE recipe_id = ?`, string(id))
	if err != nil {
		return nil, fmt.Errorf("failed to load yield options for %s: %w", id, err)
	}
	defer yields.Close()
	for yields.Next() {
		var opt entities.YieldOption
		if err := yields.Scan(&opt.ItemsPerBatch); err != nil {
			return nil, err
		}
		recipe.YieldOptions = append(recipe.YieldOptions, opt)
	}
	return &recipe, yields.Err()
}

func (r *recipeRepo) GetAllRecipes() ([]*entities.Recipe, error) {
	rows, err := r.tx.Query(`SELECT id FROM recipes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	var ids []entities.RecipeID
	for rows.Next() {
		var id entities.RecipeID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]*entities.Recipe, 0, len(ids))
	for _, id := range ids {
		recipe, err := r.GetRecipe(id)
		if err != nil {
			return nil, err
		}
		out = append(out, recipe)
	}
	return out, nil
}

func (r *recipeRepo) SaveRecipe(recipe *entities.Recipe) error {
	_, err := r.tx.Exec(`
        INSERT INTO recipes (id, name, updated_at) VALUES (?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET name = excluded.name, updated_at = excluded.updated_at
    `, string(recipe.ID), recipe.Name, recipe.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save recipe %s: %w", recipe.ID, err)
	}

	if _, err := r.tx.Exec(`DELETE FROM recipe_lines WHERE recipe_id = ?`, string(recipe.ID)); err != nil {
		return err
	}
	for _, line := range recipe.Lines {
		if _, err := r.tx.Exec(`INSERT INTO recipe_lines (recipe_id, ingredient_id, quantity, unit) VALUES (?, ?, ?, ?)`,
			string(recipe.ID), string(line.IngredientID), line.Quantity.String(), line.Unit); err != nil {
			return fmt.Errorf("failed to save line for recipe %s: %w", recipe.ID, err)
		}
	}

	if _, err := r.tx.Exec(`DELETE FROM yield_options WHERE recipe_id = ?`, string(recipe.ID)); err != nil {
		return err
	}
	for _, opt := range recipe.YieldOptions {
		if _, err := r.tx.Exec(`INSERT INTO yield_options (recipe_id, items_per_batch) VALUES (?, ?)`,
			string(recipe.ID), opt.ItemsPerBatch); err != nil {
			return fmt.Errorf("failed to save yield option for recipe %s: %w", recipe.ID, err)
		}
	}
	return nil
}

func (r *recipeRepo) GetFinishedUnit(id entities.FinishedUnitID) (*entities.FinishedUnit, error) {
	row := r.tx.QueryRow(`
        SELECT id, name, recipe_id, yield_mode, items_per_batch, batch_percentage, updated_at
        FROM finished_units WHERE id = ?`, string(id))
	return scanFinishedUnit(row, id)
}

func (r *recipeRepo) GetAllFinishedUnits() ([]*entities.FinishedUnit, error) {
	rows, err := r.tx.Query(`
        SELECT id, name, recipe_id, yield_mode, items_per_batch, batch_percentage, updated_at
        FROM finished_units ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list finished units: %w", err)
	}
	defer rows.Close()

	var out []*entities.FinishedUnit
	for rows.Next() {
		unit, err := scanFinishedUnit(rows, "")
		if err != nil {
			return nil, err
		}
		out = append(out, unit)
	}
	return out, rows.Err()
}

func (r *recipeRepo) SaveFinishedUnit(unit *entities.FinishedUnit) error {
	_, err := r.tx.Exec(`
        INSERT INTO finished_units (id, name, recipe_id, yield_mode, items_per_batch, batch_percentage, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            name = excluded.name, recipe_id = excluded.recipe_id, yield_mode = excluded.yield_mode,
            items_per_batch = excluded.items_per_batch, batch_percentage = excluded.batch_percentage,
            updated_at = excluded.updated_at
    `, string(unit.ID), unit.Name, string(unit.RecipeID), int(unit.YieldMode), unit.ItemsPerBatch, unit.BatchPercentage.String(), unit.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save finished unit %s: %w", unit.ID, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFinishedUnit(row scanner, id entities.FinishedUnitID) (*entities.FinishedUnit, error) {
	var unit entities.FinishedUnit
	var mode int
	var pct string
	err := row.Scan(&unit.ID, &unit.Name, &unit.RecipeID, &mode, &unit.ItemsPerBatch, &pct, &unit.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &entities.NotFoundError{Kind: "finished unit", ID: string(id)}
		}
		return nil, fmt.Errorf("failed to load finished unit: %w", err)
	}
	unit.YieldMode = entities.YieldMode(mode)
	if unit.BatchPercentage, err = decimal.NewFromString(pct); err != nil {
		return nil, fmt.Errorf("bad batch percentage for unit %s: %w", unit.ID, err)
	}
	return &unit, nil
}

type bundleRepo struct{ tx *sql.Tx }

func (r *bundleRepo) GetBundle(id entities.BundleID) (*entities.Bundle, error) {
	row := r.tx.QueryRow(`SELECT id, name, packaging_only, created_at FROM bundles WHERE id = ?`, string(id))

	var bundle entities.Bundle
	if err := row.Scan(&bundle.ID, &bundle.Name, &bundle.PackagingOnly, &bundle.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &entities.NotFoundError{Kind: "bundle", ID: string(id)}
		}
		return nil, fmt.Errorf("failed to load bundle %s: %w", id, err)
	}

	rows, err := r.tx.Query(`SELECT kind, child_id, multiplier, created_at FROM composition_edges WHERE bundle_id = ?`, string(id))
	if err != nil {
		return nil, fmt.Errorf("failed to load edges for bundle %s: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind int
		var childID, multiplier string
		var createdAt time.Time
		if err := rows.Scan(&kind, &childID, &multiplier, &createdAt); err != nil {
			return nil, err
		}
		mult, err := decimal.NewFromString(multiplier)
		if err != nil {
			return nil, fmt.Errorf("bad multiplier for bundle %s: %w", id, err)
		}

		edge := entities.CompositionEdge{Kind: entities.EdgeKind(kind), Multiplier: mult, CreatedAt: createdAt}
		switch edge.Kind {
		case entities.EdgeFinishedUnit:
			edge.FinishedUnitID = entities.FinishedUnitID(childID)
		case entities.EdgeBundle:
			edge.BundleID = entities.BundleID(childID)
		case entities.EdgePackaging:
			edge.PackagingID = entities.PackagingItemID(childID)
		}
		// Rows bypass the edge constructors, so re-validate the variant.
		if err := edge.Validate(); err != nil {
			return nil, err
		}
		bundle.Edges = append(bundle.Edges, edge)
	}
	return &bundle, rows.Err()
}

func (r *bundleRepo) GetAllBundles() ([]*entities.Bundle, error) {
	rows, err := r.tx.Query(`SELECT id FROM bundles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list bundles: %w", err)
	}
	defer rows.Close()

	var ids []entities.BundleID
	for rows.Next() {
		var id entities.BundleID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]*entities.Bundle, 0, len(ids))
	for _, id := range ids {
		bundle, err := r.GetBundle(id)
		if err != nil {
			return nil, err
		}
		out = append(out, bundle)
	}
	return out, nil
}

func (r *bundleRepo) SaveBundle(bundle *entities.Bundle) error {
	_, err := r.tx.Exec(`
        INSERT INTO bundles (id, name, packaging_only, created_at) VALUES (?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET name = excluded.name, packaging_only = excluded.packaging_only, created_at = excluded.created_at
    `, string(bundle.ID), bundle.Name, bundle.PackagingOnly, bundle.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save bundle %s: %w", bundle.ID, err)
	}

	if _, err := r.tx.Exec(`DELETE FROM composition_edges WHERE bundle_id = ?`, string(bundle.ID)); err != nil {
		return err
	}
	for i := range bundle.Edges {
		edge := &bundle.Edges[i]
		if err := edge.Validate(); err != nil {
			return err
		}
		var childID string
		switch edge.Kind {
		case entities.EdgeFinishedUnit:
			childID = string(edge.FinishedUnitID)
		case entities.EdgeBundle:
			childID = string(edge.BundleID)
		case entities.EdgePackaging:
			childID = string(edge.PackagingID)
		}
		if _, err := r.tx.Exec(`INSERT INTO composition_edges (bundle_id, kind, child_id, multiplier, created_at) VALUES (?, ?, ?, ?, ?)`,
			string(bundle.ID), int(edge.Kind), childID, edge.Multiplier.String(), edge.CreatedAt); err != nil {
			return fmt.Errorf("failed to save edge for bundle %s: %w", bundle.ID, err)
		}
	}
	return nil
}
