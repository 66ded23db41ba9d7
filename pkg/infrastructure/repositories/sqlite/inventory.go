package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kentonium3/bake-tracker-sub012/pkg/domain/entities"
)

type inventoryRepo struct{ tx *sql.Tx }

// GetLots returns lots with remaining quantity in FIFO order. The rowid
// seq column is the deterministic tie-breaker for lots acquired the same
// day.
func (r *inventoryRepo) GetLots(ingredientID entities.IngredientID) ([]*entities.InventoryLot, error) {
	rows, err := r.tx.Query(`
        SELECT seq, id, ingredient_id, quantity, unit, unit_cost, acquired_at
        FROM lots
        WHERE ingredient_id = ? AND CAST(quantity AS REAL) > 0
        ORDER BY acquired_at ASC, seq ASC`, string(ingredientID))
	if err != nil {
		return nil, fmt.Errorf("failed to load lots for %s: %w", ingredientID, err)
	}
	defer rows.Close()
	return scanLots(rows)
}

func (r *inventoryRepo) GetAllLots() ([]*entities.InventoryLot, error) {
	rows, err := r.tx.Query(`
        SELECT seq, id, ingredient_id, quantity, unit, unit_cost, acquired_at
        FROM lots ORDER BY acquired_at ASC, seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to load lots: %w", err)
	}
	defer rows.Close()
	return scanLots(rows)
}

func scanLots(rows *sql.Rows) ([]*entities.InventoryLot, error) {
	var out []*entities.InventoryLot
	for rows.Next() {
		var lot entities.InventoryLot
		var qty, cost string
		if err := rows.Scan(&lot.Seq, &lot.ID, &lot.IngredientID, &qty, &lot.Unit, &cost, &lot.AcquiredAt); err != nil {
			return nil, err
		}
		var err error
		if lot.Quantity, err = decimal.NewFromString(qty); err != nil {
			return nil, fmt.Errorf("bad quantity for lot %s: %w", lot.ID, err)
		}
		if lot.UnitCost, err = decimal.NewFromString(cost); err != nil {
			return nil, fmt.Errorf("bad unit cost for lot %s: %w", lot.ID, err)
		}
		out = append(out, &lot)
	}
	return out, rows.Err()
}

func (r *inventoryRepo) SaveLot(lot *entities.InventoryLot) error {
	if lot.ID == "" {
		lot.ID = entities.LotID(uuid.NewString())
	}
	_, err := r.tx.Exec(`
        INSERT INTO lots (id, ingredient_id, quantity, unit, unit_cost, acquired_at)
        VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            quantity = excluded.quantity, unit = excluded.unit,
            unit_cost = excluded.unit_cost, acquired_at = excluded.acquired_at
    `, string(lot.ID), string(lot.IngredientID), lot.Quantity.String(), lot.Unit, lot.UnitCost.String(), lot.AcquiredAt)
	if err != nil {
		return fmt.Errorf("failed to save lot %s: %w", lot.ID, err)
	}
	return nil
}

func (r *inventoryRepo) UpdateLotQuantity(lotID entities.LotID, quantity decimal.Decimal) error {
	res, err := r.tx.Exec(`UPDATE lots SET quantity = ? WHERE id = ?`, quantity.String(), string(lotID))
	if err != nil {
		return fmt.Errorf("failed to update lot %s: %w", lotID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &entities.NotFoundError{Kind: "lot", ID: string(lotID)}
	}
	return nil
}
