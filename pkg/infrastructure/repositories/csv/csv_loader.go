package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kentonium3/bake-tracker-sub012/pkg/domain/entities"
	"github.com/kentonium3/bake-tracker-sub012/pkg/domain/repositories"
)

// Loader reads a planning scenario from a directory of CSV files and
// loads it into a store through one unit of work.
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadScenario loads every scenario file present in dir. Files are
// optional; a missing file simply contributes nothing. The whole load is
// one transaction.
func (l *Loader) LoadScenario(ctx context.Context, dir string, store repositories.Store) error {
	uow, err := store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin scenario load: %w", err)
	}
	defer uow.Rollback()

	steps := []struct {
		file string
		load func(records [][]string, uow repositories.UnitOfWork) error
	}{
		{"ingredients.csv", l.loadIngredients},
		{"lots.csv", l.loadLots},
		{"recipes.csv", l.loadRecipes},
		{"recipe_lines.csv", l.loadRecipeLines},
		{"finished_units.csv", l.loadFinishedUnits},
		{"bundles.csv", l.loadBundles},
		{"composition.csv", l.loadComposition},
		{"events.csv", l.loadEvents},
		{"requirements.csv", l.loadRequirements},
	}

	for _, step := range steps {
		path := filepath.Join(dir, step.file)
		records, err := readCSV(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}
		if err := step.load(records, uow); err != nil {
			return fmt.Errorf("%s: %w", step.file, err)
		}
	}

	return uow.Commit()
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return records, nil
}

func validateHeader(header, expected []string) error {
	if len(header) != len(expected) {
		return fmt.Errorf("header mismatch: expected %v, got %v", expected, header)
	}
	for i, col := range expected {
		if strings.TrimSpace(header[i]) != col {
			return fmt.Errorf("header mismatch: expected %v, got %v", expected, header)
		}
	}
	return nil
}

func dataRows(records [][]string, expected []string) ([][]string, error) {
	if len(records) == 0 {
		return nil, nil
	}
	if err := validateHeader(records[0], expected); err != nil {
		return nil, err
	}
	for i, row := range records[1:] {
		if len(row) != len(expected) {
			return nil, fmt.Errorf("row %d: expected %d columns, got %d", i+2, len(expected), len(row))
		}
	}
	return records[1:], nil
}

func (l *Loader) loadIngredients(records [][]string, uow repositories.UnitOfWork) error {
	rows, err := dataRows(records, []string{"id", "name", "unit"})
	if err != nil {
		return err
	}
	for i, row := range rows {
		ing, err := entities.NewIngredient(entities.IngredientID(row[0]), row[1], row[2], time.Now())
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		if err := uow.Ingredients().SaveIngredient(ing); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) loadLots(records [][]string, uow repositories.UnitOfWork) error {
	rows, err := dataRows(records, []string{"id", "ingredient_id", "quantity", "unit", "unit_cost", "acquired_at"})
	if err != nil {
		return err
	}
	for i, row := range rows {
		qty, err := decimal.NewFromString(row[2])
		if err != nil {
			return fmt.Errorf("row %d: bad quantity: %w", i+2, err)
		}
		cost, err := decimal.NewFromString(row[4])
		if err != nil {
			return fmt.Errorf("row %d: bad unit cost: %w", i+2, err)
		}
		acquired, err := time.Parse("2006-01-02", row[5])
		if err != nil {
			return fmt.Errorf("row %d: bad acquisition date: %w", i+2, err)
		}
		lot, err := entities.NewInventoryLot(entities.LotID(row[0]), entities.IngredientID(row[1]), qty, row[3], cost, acquired)
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		if err := uow.Inventory().SaveLot(lot); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) loadRecipes(records [][]string, uow repositories.UnitOfWork) error {
	rows, err := dataRows(records, []string{"id", "name", "yield_options"})
	if err != nil {
		return err
	}
	for i, row := range rows {
		var yields []entities.YieldOption
		for _, part := range strings.Split(row[2], "|") {
			items, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return fmt.Errorf("row %d: bad yield option %q: %w", i+2, part, err)
			}
			yields = append(yields, entities.YieldOption{ItemsPerBatch: items})
		}
		recipe, err := entities.NewRecipe(entities.RecipeID(row[0]), row[1], nil, yields, time.Now())
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		if err := uow.Recipes().SaveRecipe(recipe); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) loadRecipeLines(records [][]string, uow repositories.UnitOfWork) error {
	rows, err := dataRows(records, []string{"recipe_id", "ingredient_id", "quantity", "unit"})
	if err != nil {
		return err
	}
	for i, row := range rows {
		recipe, err := uow.Recipes().GetRecipe(entities.RecipeID(row[0]))
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		qty, err := decimal.NewFromString(row[2])
		if err != nil {
			return fmt.Errorf("row %d: bad quantity: %w", i+2, err)
		}
		recipe.Lines = append(recipe.Lines, entities.RecipeLine{
			IngredientID: entities.IngredientID(row[1]),
			Quantity:     qty,
			Unit:         row[3],
		})
		if err := uow.Recipes().SaveRecipe(recipe); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) loadFinishedUnits(records [][]string, uow repositories.UnitOfWork) error {
	rows, err := dataRows(records, []string{"id", "name", "recipe_id", "yield_mode", "items_per_batch", "batch_percentage"})
	if err != nil {
		return err
	}
	for i, row := range rows {
		mode, err := parseYieldMode(row[3])
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		items := int64(0)
		if row[4] != "" {
			if items, err = strconv.ParseInt(row[4], 10, 64); err != nil {
				return fmt.Errorf("row %d: bad items per batch: %w", i+2, err)
			}
		}
		pct := decimal.Zero
		if row[5] != "" {
			if pct, err = decimal.NewFromString(row[5]); err != nil {
				return fmt.Errorf("row %d: bad batch percentage: %w", i+2, err)
			}
		}
		unit, err := entities.NewFinishedUnit(entities.FinishedUnitID(row[0]), row[1], entities.RecipeID(row[2]), mode, items, pct, time.Now())
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		if err := uow.Recipes().SaveFinishedUnit(unit); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) loadBundles(records [][]string, uow repositories.UnitOfWork) error {
	rows, err := dataRows(records, []string{"id", "name", "packaging_only"})
	if err != nil {
		return err
	}
	for i, row := range rows {
		packagingOnly, err := strconv.ParseBool(row[2])
		if err != nil {
			return fmt.Errorf("row %d: bad packaging_only: %w", i+2, err)
		}
		bundle, err := entities.NewBundle(entities.BundleID(row[0]), row[1], nil, packagingOnly, time.Now())
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		if err := uow.Bundles().SaveBundle(bundle); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) loadComposition(records [][]string, uow repositories.UnitOfWork) error {
	rows, err := dataRows(records, []string{"bundle_id", "kind", "child_id", "multiplier"})
	if err != nil {
		return err
	}
	for i, row := range rows {
		bundle, err := uow.Bundles().GetBundle(entities.BundleID(row[0]))
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		mult, err := decimal.NewFromString(row[3])
		if err != nil {
			return fmt.Errorf("row %d: bad multiplier: %w", i+2, err)
		}

		var edge *entities.CompositionEdge
		switch strings.ToLower(row[1]) {
		case "unit":
			edge, err = entities.NewUnitEdge(entities.FinishedUnitID(row[2]), mult, time.Now())
		case "bundle":
			edge, err = entities.NewBundleEdge(entities.BundleID(row[2]), mult, time.Now())
		case "packaging":
			edge, err = entities.NewPackagingEdge(entities.PackagingItemID(row[2]), mult, time.Now())
		default:
			err = fmt.Errorf("unknown edge kind %q", row[1])
		}
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}

		bundle.Edges = append(bundle.Edges, *edge)
		if err := uow.Bundles().SaveBundle(bundle); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) loadEvents(records [][]string, uow repositories.UnitOfWork) error {
	rows, err := dataRows(records, []string{"id", "name"})
	if err != nil {
		return err
	}
	for i, row := range rows {
		event, err := entities.NewEvent(entities.EventID(row[0]), row[1], time.Now())
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		if err := uow.Events().SaveEvent(event); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) loadRequirements(records [][]string, uow repositories.UnitOfWork) error {
	rows, err := dataRows(records, []string{"id", "event_id", "bundle_id", "finished_unit_id", "quantity"})
	if err != nil {
		return err
	}
	for i, row := range rows {
		qty, err := decimal.NewFromString(row[4])
		if err != nil {
			return fmt.Errorf("row %d: bad quantity: %w", i+2, err)
		}

		var req *entities.EventRequirement
		switch {
		case row[2] != "" && row[3] != "":
			return fmt.Errorf("row %d: requirement cannot target both a bundle and a unit", i+2)
		case row[2] != "":
			req, err = entities.NewBundleRequirement(row[0], entities.EventID(row[1]), entities.BundleID(row[2]), qty, time.Now())
		case row[3] != "":
			req, err = entities.NewUnitRequirement(row[0], entities.EventID(row[1]), entities.FinishedUnitID(row[3]), qty, time.Now())
		default:
			return fmt.Errorf("row %d: requirement must target a bundle or a unit", i+2)
		}
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		if err := uow.Events().SaveRequirement(req); err != nil {
			return err
		}
	}
	return nil
}

func parseYieldMode(s string) (entities.YieldMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "discrete_count", "discrete":
		return entities.DiscreteCount, nil
	case "batch_portion", "portion":
		return entities.BatchPortion, nil
	default:
		return 0, fmt.Errorf("unknown yield mode %q", s)
	}
}
