package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kentonium3/bake-tracker-sub012/pkg/domain/entities"
)

type eventRepo struct{ tx *sql.Tx }

func (r *eventRepo) GetEvent(id entities.EventID) (*entities.Event, error) {
	row := r.tx.QueryRow(`SELECT id, name, updated_at FROM events WHERE id = ?`, string(id))

	var event entities.Event
	if err := row.Scan(&event.ID, &event.Name, &event.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &entities.NotFoundError{Kind: "event", ID: string(id)}
		}
		return nil, fmt.Errorf("failed to load event %s: %w", id, err)
	}
	return &event, nil
}

func (r *eventRepo) SaveEvent(event *entities.Event) error {
	_, err := r.tx.Exec(`
        INSERT INTO events (id, name, updated_at) VALUES (?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET name = excluded.name, updated_at = excluded.updated_at
    `, string(event.ID), event.Name, event.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save event %s: %w", event.ID, err)
	}
	return nil
}

func (r *eventRepo) GetRequirements(eventID entities.EventID) ([]*entities.EventRequirement, error) {
	rows, err := r.tx.Query(`
        SELECT id, event_id, COALESCE(bundle_id, ''), COALESCE(finished_unit_id, ''), quantity, updated_at
        FROM requirements WHERE event_id = ? ORDER BY id`, string(eventID))
	if err != nil {
		return nil, fmt.Errorf("failed to load requirements for %s: %w", eventID, err)
	}
	defer rows.Close()

	var out []*entities.EventRequirement
	for rows.Next() {
		var req entities.EventRequirement
		var qty string
		if err := rows.Scan(&req.ID, &req.EventID, &req.BundleID, &req.FinishedUnitID, &qty, &req.UpdatedAt); err != nil {
			return nil, err
		}
		if req.Quantity, err = decimal.NewFromString(qty); err != nil {
			return nil, fmt.Errorf("bad quantity for requirement %s: %w", req.ID, err)
		}
		out = append(out, &req)
	}
	return out, rows.Err()
}

func (r *eventRepo) SaveRequirement(req *entities.EventRequirement) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	_, err := r.tx.Exec(`
        INSERT INTO requirements (id, event_id, bundle_id, finished_unit_id, quantity, updated_at)
        VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            bundle_id = excluded.bundle_id, finished_unit_id = excluded.finished_unit_id,
            quantity = excluded.quantity, updated_at = excluded.updated_at
    `, req.ID, string(req.EventID), nullable(string(req.BundleID)), nullable(string(req.FinishedUnitID)), req.Quantity.String(), req.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save requirement %s: %w", req.ID, err)
	}
	return nil
}

func (r *eventRepo) GetBatchDecisions(eventID entities.EventID) ([]*entities.BatchDecision, error) {
	rows, err := r.tx.Query(`
        SELECT event_id, recipe_id, batches, decided_at
        FROM batch_decisions WHERE event_id = ? ORDER BY recipe_id`, string(eventID))
	if err != nil {
		return nil, fmt.Errorf("failed to load batch decisions for %s: %w", eventID, err)
	}
	defer rows.Close()

	var out []*entities.BatchDecision
	for rows.Next() {
		var d entities.BatchDecision
		if err := rows.Scan(&d.EventID, &d.RecipeID, &d.Batches, &d.DecidedAt); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

func (r *eventRepo) SaveBatchDecision(decision *entities.BatchDecision) error {
	_, err := r.tx.Exec(`
        INSERT INTO batch_decisions (event_id, recipe_id, batches, decided_at) VALUES (?, ?, ?, ?)
        ON CONFLICT(event_id, recipe_id) DO UPDATE SET batches = excluded.batches, decided_at = excluded.decided_at
    `, string(decision.EventID), string(decision.RecipeID), decision.Batches, decision.DecidedAt)
	if err != nil {
		return fmt.Errorf("failed to save batch decision for %s/%s: %w", decision.EventID, decision.RecipeID, err)
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

type planRepo struct{ tx *sql.Tx }

func (r *planRepo) GetSnapshot(eventID entities.EventID) (*entities.PlanSnapshot, error) {
	row := r.tx.QueryRow(`SELECT event_id, calculated_at FROM plan_snapshots WHERE event_id = ?`, string(eventID))

	var snapshot entities.PlanSnapshot
	if err := row.Scan(&snapshot.EventID, &snapshot.CalculatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &entities.NotFoundError{Kind: "plan snapshot", ID: string(eventID)}
		}
		return nil, fmt.Errorf("failed to load plan snapshot for %s: %w", eventID, err)
	}

	batches, err := r.tx.Query(`
        SELECT recipe_id, finished_unit_id, units_needed, batches, yield_per_batch, total_yield, waste_units, waste_percent, threshold_exceeded
        FROM plan_batches WHERE event_id = ? ORDER BY finished_unit_id`, string(eventID))
	if err != nil {
		return nil, err
	}
	defer batches.Close()
	for batches.Next() {
		var p entities.RecipeBatchPlan
		var needed, total, waste, pct string
		if err := batches.Scan(&p.RecipeID, &p.FinishedUnitID, &needed, &p.Batches, &p.YieldPerBatch, &total, &waste, &pct, &p.ThresholdExceeded); err != nil {
			return nil, err
		}
		if p.UnitsNeeded, err = decimal.NewFromString(needed); err != nil {
			return nil, err
		}
		if p.TotalYield, err = decimal.NewFromString(total); err != nil {
			return nil, err
		}
		if p.WasteUnits, err = decimal.NewFromString(waste); err != nil {
			return nil, err
		}
		if p.WastePercent, err = decimal.NewFromString(pct); err != nil {
			return nil, err
		}
		snapshot.RecipeBatches = append(snapshot.RecipeBatches, p)
	}
	if err := batches.Err(); err != nil {
		return nil, err
	}

	needs, err := r.tx.Query(`SELECT ingredient_id, unit, quantity FROM plan_ingredients WHERE event_id = ? ORDER BY ingredient_id`, string(eventID))
	if err != nil {
		return nil, err
	}
	defer needs.Close()
	for needs.Next() {
		var n entities.IngredientNeed
		var qty string
		if err := needs.Scan(&n.IngredientID, &n.Unit, &qty); err != nil {
			return nil, err
		}
		if n.Quantity, err = decimal.NewFromString(qty); err != nil {
			return nil, err
		}
		snapshot.Ingredients = append(snapshot.Ingredients, n)
	}
	if err := needs.Err(); err != nil {
		return nil, err
	}

	gaps, err := r.tx.Query(`SELECT ingredient_id, unit, needed, available, to_buy, sufficient FROM plan_gaps WHERE event_id = ? ORDER BY ingredient_id`, string(eventID))
	if err != nil {
		return nil, err
	}
	defer gaps.Close()
	for gaps.Next() {
		var g entities.GapItem
		var needed, available, toBuy string
		if err := gaps.Scan(&g.IngredientID, &g.Unit, &needed, &available, &toBuy, &g.Sufficient); err != nil {
			return nil, err
		}
		if g.Needed, err = decimal.NewFromString(needed); err != nil {
			return nil, err
		}
		if g.Available, err = decimal.NewFromString(available); err != nil {
			return nil, err
		}
		if g.ToBuy, err = decimal.NewFromString(toBuy); err != nil {
			return nil, err
		}
		snapshot.ShoppingList = append(snapshot.ShoppingList, g)
	}
	if err := gaps.Err(); err != nil {
		return nil, err
	}

	warnings, err := r.tx.Query(`SELECT warning FROM plan_warnings WHERE event_id = ?`, string(eventID))
	if err != nil {
		return nil, err
	}
	defer warnings.Close()
	for warnings.Next() {
		var w string
		if err := warnings.Scan(&w); err != nil {
			return nil, err
		}
		snapshot.Warnings = append(snapshot.Warnings, w)
	}
	return &snapshot, warnings.Err()
}

// SaveSnapshot replaces the event's snapshot wholesale: old rows are
// deleted and the new snapshot inserted inside the surrounding
// transaction.
func (r *planRepo) SaveSnapshot(snapshot *entities.PlanSnapshot) error {
	for _, table := range []string{"plan_warnings", "plan_gaps", "plan_ingredients", "plan_batches", "plan_snapshots"} {
		if _, err := r.tx.Exec(`DELETE FROM `+table+` WHERE event_id = ?`, string(snapshot.EventID)); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if _, err := r.tx.Exec(`INSERT INTO plan_snapshots (event_id, calculated_at) VALUES (?, ?)`,
		string(snapshot.EventID), snapshot.CalculatedAt); err != nil {
		return fmt.Errorf("failed to save plan snapshot: %w", err)
	}

	for _, p := range snapshot.RecipeBatches {
		if _, err := r.tx.Exec(`
            INSERT INTO plan_batches (event_id, recipe_id, finished_unit_id, units_needed, batches, yield_per_batch, total_yield, waste_units, waste_percent, threshold_exceeded)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			string(snapshot.EventID), string(p.RecipeID), string(p.FinishedUnitID), p.UnitsNeeded.String(),
			p.Batches, p.YieldPerBatch, p.TotalYield.String(), p.WasteUnits.String(), p.WastePercent.String(), p.ThresholdExceeded); err != nil {
			return fmt.Errorf("failed to save plan batch: %w", err)
		}
	}
	for _, n := range snapshot.Ingredients {
		if _, err := r.tx.Exec(`INSERT INTO plan_ingredients (event_id, ingredient_id, unit, quantity) VALUES (?, ?, ?, ?)`,
			string(snapshot.EventID), string(n.IngredientID), n.Unit, n.Quantity.String()); err != nil {
			return fmt.Errorf("failed to save plan ingredient: %w", err)
		}
	}
	for _, g := range snapshot.ShoppingList {
		if _, err := r.tx.Exec(`
            INSERT INTO plan_gaps (event_id, ingredient_id, unit, needed, available, to_buy, sufficient)
            VALUES (?, ?, ?, ?, ?, ?, ?)`,
			string(snapshot.EventID), string(g.IngredientID), g.Unit, g.Needed.String(), g.Available.String(), g.ToBuy.String(), g.Sufficient); err != nil {
			return fmt.Errorf("failed to save plan gap: %w", err)
		}
	}
	for _, w := range snapshot.Warnings {
		if _, err := r.tx.Exec(`INSERT INTO plan_warnings (event_id, warning) VALUES (?, ?)`,
			string(snapshot.EventID), w); err != nil {
			return fmt.Errorf("failed to save plan warning: %w", err)
		}
	}
	return nil
}
