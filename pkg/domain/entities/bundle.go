package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// EdgeKind discriminates the child of a CompositionEdge
type EdgeKind int

const (
	EdgeFinishedUnit EdgeKind = iota
	EdgeBundle
	EdgePackaging
)

// String method for EdgeKind enum
func (k EdgeKind) String() string {
	switch k {
	case EdgeFinishedUnit:
		return "FinishedUnit"
	case EdgeBundle:
		return "Bundle"
	case EdgePackaging:
		return "Packaging"
	default:
		return "Unknown"
	}
}

// CompositionEdge links a parent bundle to exactly one child: a finished
// unit, a nested bundle, or a packaging item. The three constructors are
// the only way to build one, so an edge with zero or multiple children
// cannot be represented; data decoded from storage must pass Validate.
type CompositionEdge struct {
	Kind           EdgeKind
	FinishedUnitID FinishedUnitID
	BundleID       BundleID
	PackagingID    PackagingItemID
	Multiplier     decimal.Decimal
	CreatedAt      time.Time
}

// NewUnitEdge creates an edge to a finished unit
func NewUnitEdge(unitID FinishedUnitID, multiplier decimal.Decimal, createdAt time.Time) (*CompositionEdge, error) {
	if unitID == "" {
		return nil, &StructuralError{Reason: "unit edge must reference a finished unit"}
	}
	if !multiplier.IsPositive() {
		return nil, &StructuralError{ID: string(unitID), Reason: "edge multiplier must be positive, got " + multiplier.String()}
	}
	return &CompositionEdge{Kind: EdgeFinishedUnit, FinishedUnitID: unitID, Multiplier: multiplier, CreatedAt: createdAt}, nil
}

// NewBundleEdge creates an edge to a nested bundle
func NewBundleEdge(bundleID BundleID, multiplier decimal.Decimal, createdAt time.Time) (*CompositionEdge, error) {
	if bundleID == "" {
		return nil, &StructuralError{Reason: "bundle edge must reference a bundle"}
	}
	if !multiplier.IsPositive() {
		return nil, &StructuralError{ID: string(bundleID), Reason: "edge multiplier must be positive, got " + multiplier.String()}
	}
	return &CompositionEdge{Kind: EdgeBundle, BundleID: bundleID, Multiplier: multiplier, CreatedAt: createdAt}, nil
}

// NewPackagingEdge creates an edge to a packaging item
func NewPackagingEdge(packagingID PackagingItemID, multiplier decimal.Decimal, createdAt time.Time) (*CompositionEdge, error) {
	if packagingID == "" {
		return nil, &StructuralError{Reason: "packaging edge must reference a packaging item"}
	}
	if !multiplier.IsPositive() {
		return nil, &StructuralError{ID: string(packagingID), Reason: "edge multiplier must be positive, got " + multiplier.String()}
	}
	return &CompositionEdge{Kind: EdgePackaging, PackagingID: packagingID, Multiplier: multiplier, CreatedAt: createdAt}, nil
}

// Validate checks that exactly one child reference is populated and that
// it agrees with Kind. Needed for edges rehydrated from storage.
func (e *CompositionEdge) Validate() error {
	populated := 0
	if e.FinishedUnitID != "" {
		populated++
	}
	if e.BundleID != "" {
		populated++
	}
	if e.PackagingID != "" {
		populated++
	}
	if populated != 1 {
		return &StructuralError{ID: e.childID(), Reason: "composition edge must reference exactly one child"}
	}
	switch e.Kind {
	case EdgeFinishedUnit:
		if e.FinishedUnitID == "" {
			return &StructuralError{ID: e.childID(), Reason: "unit edge missing finished unit reference"}
		}
	case EdgeBundle:
		if e.BundleID == "" {
			return &StructuralError{ID: e.childID(), Reason: "bundle edge missing bundle reference"}
		}
	case EdgePackaging:
		if e.PackagingID == "" {
			return &StructuralError{ID: e.childID(), Reason: "packaging edge missing packaging reference"}
		}
	default:
		return &StructuralError{ID: e.childID(), Reason: "unknown edge kind"}
	}
	if !e.Multiplier.IsPositive() {
		return &StructuralError{ID: e.childID(), Reason: "edge multiplier must be positive, got " + e.Multiplier.String()}
	}
	return nil
}

func (e *CompositionEdge) childID() string {
	switch {
	case e.FinishedUnitID != "":
		return string(e.FinishedUnitID)
	case e.BundleID != "":
		return string(e.BundleID)
	case e.PackagingID != "":
		return string(e.PackagingID)
	default:
		return ""
	}
}

// Bundle is a composite offering: a set of composition edges to finished
// units, nested bundles, and packaging items. A bundle with no production
// content is legal only when PackagingOnly is set.
type Bundle struct {
	ID            BundleID
	Name          string
	Edges         []CompositionEdge
	PackagingOnly bool
	CreatedAt     time.Time
}

// NewBundle creates a validated Bundle
func NewBundle(id BundleID, name string, edges []CompositionEdge, packagingOnly bool, createdAt time.Time) (*Bundle, error) {
	if id == "" {
		return nil, &ValidationError{Field: "id", Reason: "bundle id cannot be empty"}
	}
	if name == "" {
		return nil, &ValidationError{ID: string(id), Field: "name", Reason: "bundle name cannot be empty"}
	}
	for i := range edges {
		if err := edges[i].Validate(); err != nil {
			return nil, err
		}
	}

	return &Bundle{
		ID:            id,
		Name:          name,
		Edges:         edges,
		PackagingOnly: packagingOnly,
		CreatedAt:     createdAt,
	}, nil
}
