package entities

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNewInventoryLot_Validation(t *testing.T) {
	acquired := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name         string
		id           LotID
		ingredientID IngredientID
		quantity     decimal.Decimal
		unit         string
		unitCost     decimal.Decimal
		acquiredAt   time.Time
		expectError  bool
	}{
		{"valid lot", "LOT-1", "SUGAR", decimal.NewFromInt(5), "kg", decimal.NewFromFloat(1.00), acquired, false},
		{"zero quantity allowed", "LOT-2", "SUGAR", decimal.Zero, "kg", decimal.Zero, acquired, false},
		{"empty id", "", "SUGAR", decimal.NewFromInt(5), "kg", decimal.Zero, acquired, true},
		{"missing ingredient", "LOT-3", "", decimal.NewFromInt(5), "kg", decimal.Zero, acquired, true},
		{"negative quantity", "LOT-4", "SUGAR", decimal.NewFromInt(-1), "kg", decimal.Zero, acquired, true},
		{"empty unit", "LOT-5", "SUGAR", decimal.NewFromInt(5), "", decimal.Zero, acquired, true},
		{"negative cost", "LOT-6", "SUGAR", decimal.NewFromInt(5), "kg", decimal.NewFromInt(-1), acquired, true},
		{"zero acquisition date", "LOT-7", "SUGAR", decimal.NewFromInt(5), "kg", decimal.Zero, time.Time{}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			lot, err := NewInventoryLot(tc.id, tc.ingredientID, tc.quantity, tc.unit, tc.unitCost, tc.acquiredAt)
			if tc.expectError {
				if err == nil {
					t.Fatalf("Expected error for %s, but got none", tc.name)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected lot creation to succeed: %v", err)
			}
			if lot.ID != tc.id {
				t.Errorf("Expected id %s, got %s", tc.id, lot.ID)
			}
		})
	}
}

func TestInventoryLot_Before(t *testing.T) {
	jan := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	older := &InventoryLot{ID: "A", AcquiredAt: jan, Seq: 10}
	newer := &InventoryLot{ID: "B", AcquiredAt: feb, Seq: 1}

	if !older.Before(newer) {
		t.Error("Expected lot acquired in January to precede lot acquired in February")
	}
	if newer.Before(older) {
		t.Error("Expected lot acquired in February not to precede January lot")
	}

	// Same acquisition date: insertion sequence decides.
	first := &InventoryLot{ID: "C", AcquiredAt: jan, Seq: 1}
	second := &InventoryLot{ID: "D", AcquiredAt: jan, Seq: 2}
	if !first.Before(second) {
		t.Error("Expected lower sequence to precede on equal acquisition dates")
	}
	if second.Before(first) {
		t.Error("Expected higher sequence not to precede on equal acquisition dates")
	}
}
