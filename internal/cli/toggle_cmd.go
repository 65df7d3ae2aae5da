package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"lg/life-dashboard-go-api/internal/activity"
	"lg/life-dashboard-go-api/internal/dates"
)

func newToggleCmd(env *Env) *cobra.Command {
	var pending bool

	cmd := &cobra.Command{
		Use:   "toggle <YYYY-MM-DD> <activity>",
		Short: "Mark an activity completed (or pending with --pending)",
		Long: `Mark an activity completed or pending on a date.

Activities use the dashboard names: meal-6pm (or just 6pm), gym-workout (or gym),
finance and water. Completing a meal with no food planned in that slot adds a
placeholder food to the plan.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := args[0]
			if !dates.Valid(date) {
				return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
			}
			t, err := activity.Parse(args[1])
			if err != nil {
				return err
			}
			err = env.App.Toggle(cmd.Context(), env.userID, date, t, !pending)
			if err != nil && !errors.Is(err, activity.ErrPlaceholderPlan) {
				return fmt.Errorf("saving %s: %w", t, err)
			}

			p := env.printer()
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", date, p.mark(!pending, t.String()))
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), p.render(styleWarn, "placeholder meal plan not created: "+err.Error()))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&pending, "pending", false, "Mark as not completed")
	return cmd
}
