package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"lg/life-dashboard-go-api/internal/cost"
	"lg/life-dashboard-go-api/internal/dates"
)

func newCostsCmd(env *Env) *cobra.Command {
	var start, end, sortBy string
	var desc bool

	cmd := &cobra.Command{
		Use:   "costs",
		Short: "Show per-food cost and macros over a window",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := env.App.CostOptions.ResolveWindow(start, end, dates.Key(env.now()))
			if err != nil {
				return err
			}
			column, err := cost.ParseColumn(sortBy)
			if err != nil {
				return err
			}
			report, err := env.App.Costs(cmd.Context(), env.userID, w, column, desc)
			if err != nil {
				return err
			}

			p := env.printer()
			out := cmd.OutOrStdout()
			if len(report.Rows) == 0 {
				fmt.Fprintf(out, "No food logged between %s and %s.\n", w.From, w.To)
				return nil
			}

			rows := make([][]string, 0, len(report.Rows))
			for _, r := range report.Rows {
				qty := fmt.Sprintf("%.0f g", r.Quantity)
				if r.IsUnitFood {
					qty = fmt.Sprintf("%g", r.Quantity)
				}
				rows = append(rows, []string{
					r.Name,
					qty,
					formatMoney(r.Cost, report.Currency),
					fmt.Sprintf("%d", r.Occurrences),
					fmt.Sprintf("%.0f", r.Macros.Calories),
					fmt.Sprintf("%.1f", r.Macros.Protein),
				})
			}
			fmt.Fprint(out, p.table([]string{"FOOD", "QTY", "COST", "TIMES", "KCAL", "PROTEIN"}, rows))

			total := report.TotalCost
			fmt.Fprintf(out, "\n%s to %s: %s", w.From, w.To, formatMoney(&total, report.Currency))
			if report.UnknownCostFoods > 0 {
				fmt.Fprint(out, p.render(styleDim, fmt.Sprintf(" (%d foods without a price)", report.UnknownCostFoods)))
			}
			fmt.Fprintln(out)
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "First day YYYY-MM-DD (default: window before end)")
	cmd.Flags().StringVar(&end, "end", "", "Last day YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&sortBy, "sort", string(cost.ColumnName), "Sort column")
	cmd.Flags().BoolVar(&desc, "desc", false, "Sort descending")
	return cmd
}
