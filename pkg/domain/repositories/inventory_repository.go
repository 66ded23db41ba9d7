package repositories

import (
	"github.com/shopspring/decimal"

	"github.com/kentonium3/bake-tracker-sub012/pkg/domain/entities"
)

// InventoryRepository provides access to inventory lots. GetLots returns
// lots with remaining quantity, already in FIFO order (acquisition date
// ascending, insertion sequence breaking ties).
type InventoryRepository interface {
	GetLots(ingredientID entities.IngredientID) ([]*entities.InventoryLot, error)
	GetAllLots() ([]*entities.InventoryLot, error)
	SaveLot(lot *entities.InventoryLot) error
	// UpdateLotQuantity sets the remaining quantity of a lot. Only the
	// FIFO consumption engine calls this.
	UpdateLotQuantity(lotID entities.LotID, quantity decimal.Decimal) error
}
