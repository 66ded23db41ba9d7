package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event is a planning horizon: a sale, order, or occasion bundles are
// assembled for.
type Event struct {
	ID        EventID
	Name      string
	UpdatedAt time.Time
}

// NewEvent creates a validated Event
func NewEvent(id EventID, name string, updatedAt time.Time) (*Event, error) {
	if id == "" {
		return nil, &ValidationError{Field: "id", Reason: "event id cannot be empty"}
	}
	if name == "" {
		return nil, &ValidationError{ID: string(id), Field: "name", Reason: "event name cannot be empty"}
	}
	return &Event{ID: id, Name: name, UpdatedAt: updatedAt}, nil
}

// EventRequirement is a target quantity of a bundle or a finished unit
// for an event. Exactly one of BundleID / FinishedUnitID is set.
type EventRequirement struct {
	ID             string
	EventID        EventID
	BundleID       BundleID
	FinishedUnitID FinishedUnitID
	Quantity       decimal.Decimal
	UpdatedAt      time.Time
}

// NewBundleRequirement creates a requirement targeting a bundle
func NewBundleRequirement(id string, eventID EventID, bundleID BundleID, quantity decimal.Decimal, updatedAt time.Time) (*EventRequirement, error) {
	if eventID == "" {
		return nil, &ValidationError{ID: id, Field: "event_id", Reason: "requirement must reference an event"}
	}
	if bundleID == "" {
		return nil, &ValidationError{ID: id, Field: "bundle_id", Reason: "requirement must reference a bundle"}
	}
	if !quantity.IsPositive() {
		return nil, &ValidationError{ID: id, Field: "quantity", Reason: "requirement quantity must be positive, got " + quantity.String()}
	}
	return &EventRequirement{ID: id, EventID: eventID, BundleID: bundleID, Quantity: quantity, UpdatedAt: updatedAt}, nil
}

// NewUnitRequirement creates a requirement targeting a finished unit directly
func NewUnitRequirement(id string, eventID EventID, unitID FinishedUnitID, quantity decimal.Decimal, updatedAt time.Time) (*EventRequirement, error) {
	if eventID == "" {
		return nil, &ValidationError{ID: id, Field: "event_id", Reason: "requirement must reference an event"}
	}
	if unitID == "" {
		return nil, &ValidationError{ID: id, Field: "finished_unit_id", Reason: "requirement must reference a finished unit"}
	}
	if !quantity.IsPositive() {
		return nil, &ValidationError{ID: id, Field: "quantity", Reason: "requirement quantity must be positive, got " + quantity.String()}
	}
	return &EventRequirement{ID: id, EventID: eventID, FinishedUnitID: unitID, Quantity: quantity, UpdatedAt: updatedAt}, nil
}

// BatchDecision is a planner-committed (recipe, batches) pair. Feasibility
// checks consume these as recorded; they are never silently recomputed.
type BatchDecision struct {
	EventID   EventID
	RecipeID  RecipeID
	Batches   int64
	DecidedAt time.Time
}

// NewBatchDecision creates a validated BatchDecision
func NewBatchDecision(eventID EventID, recipeID RecipeID, batches int64, decidedAt time.Time) (*BatchDecision, error) {
	if eventID == "" {
		return nil, &ValidationError{Field: "event_id", Reason: "batch decision must reference an event"}
	}
	if recipeID == "" {
		return nil, &ValidationError{ID: string(eventID), Field: "recipe_id", Reason: "batch decision must reference a recipe"}
	}
	if batches < 0 {
		return nil, &ValidationError{ID: string(recipeID), Field: "batches", Reason: "batches cannot be negative"}
	}
	return &BatchDecision{EventID: eventID, RecipeID: recipeID, Batches: batches, DecidedAt: decidedAt}, nil
}
