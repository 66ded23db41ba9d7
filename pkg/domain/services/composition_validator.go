package services

import (
	"fmt"

	"github.com/kentonium3/bake-tracker-sub012/pkg/domain/entities"
)

// MaxNestingDepth is the hard cap on bundle nesting. Decomposition
// refuses to recurse past it even when the graph is acyclic.
const MaxNestingDepth = 3

// CompositionValidator provides validation for bundle graph integrity
type CompositionValidator struct{}

// NewCompositionValidator creates a new composition validator
func NewCompositionValidator() *CompositionValidator {
	return &CompositionValidator{}
}

// ValidationResult contains the results of composition validation
type ValidationResult struct {
	HasCycles    bool
	CyclePaths   [][]entities.BundleID
	TooDeep      []entities.BundleID
	EmptyBundles []entities.BundleID
	Errors       []string
}

// ValidateGraph checks a set of bundles for cycles, nesting beyond the
// depth cap, and production bundles with no composition content.
func (v *CompositionValidator) ValidateGraph(bundles []*entities.Bundle) *ValidationResult {
	result := &ValidationResult{
		CyclePaths:   make([][]entities.BundleID, 0),
		TooDeep:      make([]entities.BundleID, 0),
		EmptyBundles: make([]entities.BundleID, 0),
		Errors:       make([]string, 0),
	}

	adjacency := buildAdjacencyMap(bundles)

	cycles := detectCycles(adjacency)
	result.HasCycles = len(cycles) > 0
	result.CyclePaths = cycles

	for _, cycle := range cycles {
		result.Errors = append(result.Errors, fmt.Sprintf("bundle cycle detected: %v", cycle))
	}

	// Depth check only makes sense on an acyclic graph
	if !result.HasCycles {
		for _, bundle := range bundles {
			if depthBelow(bundle.ID, adjacency, make(map[entities.BundleID]int)) > MaxNestingDepth {
				result.TooDeep = append(result.TooDeep, bundle.ID)
				result.Errors = append(result.Errors, fmt.Sprintf("bundle %s nests deeper than %d levels", bundle.ID, MaxNestingDepth))
			}
		}
	}

	for _, bundle := range bundles {
		if len(bundle.Edges) == 0 && !bundle.PackagingOnly {
			result.EmptyBundles = append(result.EmptyBundles, bundle.ID)
			result.Errors = append(result.Errors, fmt.Sprintf("bundle %s has no composition content and is not packaging-only", bundle.ID))
		}
	}

	return result
}

// buildAdjacencyMap creates a map of parent -> child bundle relationships.
// Finished-unit and packaging edges are leaves and do not appear.
func buildAdjacencyMap(bundles []*entities.Bundle) map[entities.BundleID][]entities.BundleID {
	adjacency := make(map[entities.BundleID][]entities.BundleID)

	for _, bundle := range bundles {
		children := adjacency[bundle.ID]
		for _, edge := range bundle.Edges {
			if edge.Kind != entities.EdgeBundle {
				continue
			}
			found := false
			for _, child := range children {
				if child == edge.BundleID {
					found = true
					break
				}
			}
			if !found {
				children = append(children, edge.BundleID)
			}
		}
		adjacency[bundle.ID] = children
	}

	return adjacency
}

// detectCycles uses DFS to find cycles in the bundle graph
func detectCycles(adjacency map[entities.BundleID][]entities.BundleID) [][]entities.BundleID {
	visited := make(map[entities.BundleID]bool)
	recursionStack := make(map[entities.BundleID]bool)
	cycles := make([][]entities.BundleID, 0)

	for parent := range adjacency {
		if !visited[parent] {
			path := make([]entities.BundleID, 0)
			dfsDetectCycle(parent, adjacency, visited, recursionStack, path, &cycles)
		}
	}

	return cycles
}

// dfsDetectCycle performs depth-first search to detect cycles
func dfsDetectCycle(
	current entities.BundleID,
	adjacency map[entities.BundleID][]entities.BundleID,
	visited map[entities.BundleID]bool,
	recursionStack map[entities.BundleID]bool,
	path []entities.BundleID,
	cycles *[][]entities.BundleID,
) {
	visited[current] = true
	recursionStack[current] = true
	path = append(path, current)

	for _, child := range adjacency[current] {
		if !visited[child] {
			dfsDetectCycle(child, adjacency, visited, recursionStack, path, cycles)
		} else if recursionStack[child] {
			// Found a cycle - extract the cycle path
			cycleStart := -1
			for i, id := range path {
				if id == child {
					cycleStart = i
					break
				}
			}

			if cycleStart != -1 {
				cycle := make([]entities.BundleID, 0)
				cycle = append(cycle, path[cycleStart:]...)
				cycle = append(cycle, child) // Close the cycle
				*cycles = append(*cycles, cycle)
			}
		}
	}

	recursionStack[current] = false
}

// depthBelow returns the number of bundle levels reachable from id,
// counting id itself as level 1.
func depthBelow(id entities.BundleID, adjacency map[entities.BundleID][]entities.BundleID, memo map[entities.BundleID]int) int {
	if d, ok := memo[id]; ok {
		return d
	}
	depth := 1
	for _, child := range adjacency[id] {
		if d := depthBelow(child, adjacency, memo) + 1; d > depth {
			depth = d
		}
	}
	memo[id] = depth
	return depth
}
