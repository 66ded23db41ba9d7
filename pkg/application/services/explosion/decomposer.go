package explosion

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/kentonium3/bake-tracker-sub012/pkg/application/dto"
	"github.com/kentonium3/bake-tracker-sub012/pkg/domain/entities"
	"github.com/kentonium3/bake-tracker-sub012/pkg/domain/repositories"
	"github.com/kentonium3/bake-tracker-sub012/pkg/domain/services"
)

// Decomposer recursively expands a bundle requirement into flat
// finished-unit quantities. Decomposition is read-only and idempotent:
// the same inputs always produce the same map.
type Decomposer struct{}

// NewDecomposer creates a new bundle decomposer
func NewDecomposer() *Decomposer {
	return &Decomposer{}
}

// Decompose explodes quantity * bundle into finished-unit requirements.
// Nested bundles recurse with a per-path visited set; the same bundle may
// appear on independent branches but revisiting one along a single path
// is a cycle. Nesting past services.MaxNestingDepth is refused.
func (d *Decomposer) Decompose(
	uow repositories.UnitOfWork,
	bundleID entities.BundleID,
	quantity decimal.Decimal,
) (*dto.Decomposition, error) {
	if !quantity.IsPositive() {
		return nil, &entities.ValidationError{
			ID:     string(bundleID),
			Field:  "quantity",
			Reason: "decomposition quantity must be positive, got " + quantity.String(),
		}
	}

	result := &dto.Decomposition{
		Units:     make(map[entities.FinishedUnitID]decimal.Decimal),
		Packaging: make(map[entities.PackagingItemID]decimal.Decimal),
	}

	root, err := uow.Bundles().GetBundle(bundleID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve bundle %s: %w", bundleID, err)
	}

	if err := d.walk(uow, root, quantity, map[entities.BundleID]bool{}, 0, result); err != nil {
		return nil, err
	}

	if len(result.Units) == 0 && !root.PackagingOnly {
		// A production bundle that nets no base units is suspicious but
		// legal; the caller decides whether to surface it.
		result.ContentFree = true
	}

	return result, nil
}

func (d *Decomposer) walk(
	uow repositories.UnitOfWork,
	bundle *entities.Bundle,
	quantity decimal.Decimal,
	pathVisited map[entities.BundleID]bool,
	depth int,
	result *dto.Decomposition,
) error {
	for i := range bundle.Edges {
		edge := &bundle.Edges[i]
		if err := edge.Validate(); err != nil {
			return err
		}

		childQty := quantity.Mul(edge.Multiplier)

		switch edge.Kind {
		case entities.EdgeFinishedUnit:
			result.Units[edge.FinishedUnitID] = result.Units[edge.FinishedUnitID].Add(childQty)

		case entities.EdgePackaging:
			result.Packaging[edge.PackagingID] = result.Packaging[edge.PackagingID].Add(childQty)

		case entities.EdgeBundle:
			if pathVisited[edge.BundleID] {
				return &entities.StructuralError{
					ID:     string(edge.BundleID),
					Reason: fmt.Sprintf("cycle detected: bundle %s already on path from %s", edge.BundleID, bundle.ID),
				}
			}
			// depth counts bundle levels above this one; the child would
			// sit at level depth+2.
			if depth+2 > services.MaxNestingDepth {
				return &entities.StructuralError{
					ID:     string(edge.BundleID),
					Reason: fmt.Sprintf("nesting depth exceeds %d", services.MaxNestingDepth),
				}
			}

			child, err := uow.Bundles().GetBundle(edge.BundleID)
			if err != nil {
				return fmt.Errorf("failed to resolve nested bundle %s: %w", edge.BundleID, err)
			}

			// Visited set is per path, not global: mark on the way down,
			// unmark on the way back up so sibling branches may reuse the
			// same bundle.
			pathVisited[bundle.ID] = true
			if err := d.walk(uow, child, childQty, pathVisited, depth+1, result); err != nil {
				return err
			}
			delete(pathVisited, bundle.ID)
		}
	}

	return nil
}
