package entities

import "fmt"

// ValidationError reports malformed input on an entity or operation
type ValidationError struct {
	ID     string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("validation failed on %s for %s: %s", e.Field, e.ID, e.Reason)
}

// NotFoundError reports a reference to an entity that does not exist
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// StructuralError reports an invalid composition graph: cycles, nesting
// past the depth cap, or edges that reference no child.
type StructuralError struct {
	ID     string
	Reason string
}

func (e *StructuralError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("invalid composition: %s", e.Reason)
	}
	return fmt.Sprintf("invalid composition at %s: %s", e.ID, e.Reason)
}

// UnitMismatchError reports an attempt to combine or convert quantities
// recorded in incompatible units for the same ingredient.
type UnitMismatchError struct {
	IngredientID IngredientID
	UnitA        string
	UnitB        string
}

func (e *UnitMismatchError) Error() string {
	return fmt.Sprintf("unit mismatch for ingredient %s: %s vs %s", e.IngredientID, e.UnitA, e.UnitB)
}
