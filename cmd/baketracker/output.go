package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/kentonium3/bake-tracker-sub012/pkg/application/dto"
	"github.com/kentonium3/bake-tracker-sub012/pkg/domain/entities"
)

func printSnapshot(w io.Writer, snapshot *entities.PlanSnapshot) {
	fmt.Fprintf(w, "Plan for event %s (calculated %s)\n\n", snapshot.EventID, snapshot.CalculatedAt.Format("2006-01-02 15:04:05"))

	fmt.Fprintln(w, "Recipe Batches:")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "UNIT\tRECIPE\tNEEDED\tBATCHES\tYIELD/BATCH\tTOTAL YIELD\tWASTE\tWASTE %")
	for _, p := range snapshot.RecipeBatches {
		marker := ""
		if p.ThresholdExceeded {
			marker = " !"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\t%s\t%s%%%s\n",
			p.FinishedUnitID, p.RecipeID, p.UnitsNeeded, p.Batches, p.YieldPerBatch,
			p.TotalYield, p.WasteUnits, p.WastePercent.StringFixed(2), marker)
	}
	tw.Flush()

	fmt.Fprintln(w, "\nAggregated Ingredients:")
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INGREDIENT\tQUANTITY\tUNIT")
	for _, n := range snapshot.Ingredients {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", n.IngredientID, n.Quantity, n.Unit)
	}
	tw.Flush()

	fmt.Fprintln(w)
	printShoppingList(w, snapshot.ShoppingList)

	if len(snapshot.Warnings) > 0 {
		fmt.Fprintln(w, "\nWarnings:")
		for _, warning := range snapshot.Warnings {
			fmt.Fprintf(w, "  - %s\n", warning)
		}
	}
}

func printShoppingList(w io.Writer, gaps []entities.GapItem) {
	fmt.Fprintln(w, "Shopping List:")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INGREDIENT\tNEEDED\tAVAILABLE\tTO BUY\tUNIT")
	for _, g := range gaps {
		if g.Sufficient {
			fmt.Fprintf(tw, "%s\t%s\t%s\t-\t%s\n", g.IngredientID, g.Needed, g.Available, g.Unit)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", g.IngredientID, g.Needed, g.Available, g.ToBuy, g.Unit)
	}
	tw.Flush()
}

func printFeasibility(w io.Writer, result *dto.FeasibilityResult) {
	status := "FEASIBLE"
	if !result.OverallFeasible {
		status = "NOT FEASIBLE"
	}
	fmt.Fprintf(w, "Assembly check for event %s: %s\n\n", result.EventID, status)

	for _, b := range result.Bundles {
		name := string(b.BundleID)
		if name == "" {
			name = "(direct unit requirement)"
		}
		fmt.Fprintf(w, "Bundle %s: need %s, can assemble %s (short %s)\n", name, b.Needed, b.Achievable, b.Shortfall)

		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "  COMPONENT\tNEEDED\tAVAILABLE\tOK")
		for _, c := range b.Components {
			ok := "yes"
			if !c.Sufficient {
				ok = "NO"
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", c.FinishedUnitID, c.Needed, c.Available, ok)
		}
		tw.Flush()
	}
}

func printStaleness(w io.Writer, stale bool, reason string) {
	if stale {
		fmt.Fprintf(w, "Plan is STALE: %s\n", reason)
		return
	}
	fmt.Fprintln(w, "Plan is fresh")
}
