package planning

import (
	"context"
	"fmt"

	"github.com/kentonium3/bake-tracker-sub012/pkg/domain/entities"
	"github.com/kentonium3/bake-tracker-sub012/pkg/domain/repositories"
)

// IsPlanStale reports whether any input of the event's plan snapshot
// changed after the snapshot was calculated, with a concrete reason for
// the first stale cause found. Checks run in a fixed order — event,
// requirement rows, referenced recipes, bundles and their composition
// edges — and short-circuit on the first hit. A stale plan is a normal
// result; the snapshot itself is left untouched.
func (s *Service) IsPlanStale(ctx context.Context, eventID entities.EventID) (bool, string, error) {
	uow, err := s.store.Begin(ctx)
	if err != nil {
		return false, "", fmt.Errorf("failed to begin unit of work: %w", err)
	}
	defer uow.Rollback()

	snapshot, err := uow.Plans().GetSnapshot(eventID)
	if err != nil {
		return false, "", fmt.Errorf("failed to load plan snapshot for %s: %w", eventID, err)
	}
	calculatedAt := snapshot.CalculatedAt

	event, err := uow.Events().GetEvent(eventID)
	if err != nil {
		return false, "", fmt.Errorf("failed to resolve event %s: %w", eventID, err)
	}
	if event.UpdatedAt.After(calculatedAt) {
		return true, fmt.Sprintf("event modified: %s", eventID), nil
	}

	requirements, err := uow.Events().GetRequirements(eventID)
	if err != nil {
		return false, "", fmt.Errorf("failed to fetch requirements for %s: %w", eventID, err)
	}
	for _, req := range requirements {
		if req.UpdatedAt.After(calculatedAt) {
			return true, fmt.Sprintf("requirement modified: %s", req.ID), nil
		}
	}

	for _, plan := range snapshot.RecipeBatches {
		recipe, err := uow.Recipes().GetRecipe(plan.RecipeID)
		if err != nil {
			return false, "", fmt.Errorf("failed to resolve recipe %s: %w", plan.RecipeID, err)
		}
		if recipe.UpdatedAt.After(calculatedAt) {
			return true, fmt.Sprintf("recipe modified: %s", recipe.ID), nil
		}
	}

	checked := make(map[entities.BundleID]bool)
	for _, req := range requirements {
		if req.BundleID == "" || checked[req.BundleID] {
			continue
		}
		stale, reason, err := s.bundleStaleSince(uow, req.BundleID, snapshot, checked)
		if err != nil {
			return false, "", err
		}
		if stale {
			return true, reason, nil
		}
	}

	return false, "", nil
}

// bundleStaleSince walks a bundle and its nested bundles, comparing
// bundle and edge creation times against the snapshot's calculation time.
func (s *Service) bundleStaleSince(
	uow repositories.UnitOfWork,
	bundleID entities.BundleID,
	snapshot *entities.PlanSnapshot,
	checked map[entities.BundleID]bool,
) (bool, string, error) {
	if checked[bundleID] {
		return false, "", nil
	}
	checked[bundleID] = true

	bundle, err := uow.Bundles().GetBundle(bundleID)
	if err != nil {
		return false, "", fmt.Errorf("failed to resolve bundle %s: %w", bundleID, err)
	}

	if bundle.CreatedAt.After(snapshot.CalculatedAt) {
		return true, fmt.Sprintf("bundle modified: %s", bundleID), nil
	}
	for i := range bundle.Edges {
		edge := &bundle.Edges[i]
		if edge.CreatedAt.After(snapshot.CalculatedAt) {
			return true, fmt.Sprintf("bundle composition changed: %s", bundleID), nil
		}
		if edge.Kind == entities.EdgeBundle {
			stale, reason, err := s.bundleStaleSince(uow, edge.BundleID, snapshot, checked)
			if err != nil || stale {
				return stale, reason, err
			}
		}
	}

	return false, "", nil
}
