package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"lg/life-dashboard-go-api/internal/activity"
	"lg/life-dashboard-go-api/internal/stats"
)

func newStatsCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:       "stats <food|gym|finance|water>",
		Short:     "Show progress and streaks for a module",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"food", "gym", "finance", "water"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := activity.ParseKind(args[0])
			if err != nil {
				return err
			}
			s, failed, err := env.App.ModuleStats(cmd.Context(), env.userID, kind, env.now())
			if err != nil {
				return err
			}

			p := env.printer()
			out := cmd.OutOrStdout()
			fmt.Fprint(out, p.warnUnavailable(failed))
			fmt.Fprint(out, p.table([]string{"METRIC", "VALUE"}, [][]string{
				{"today", fmt.Sprintf("%d%%", s.TodayProgress)},
				{"this month", fmt.Sprintf("%d/%d (%d%%)", s.MonthlyCompleted, s.MonthlyTotal, s.MonthlyPercentage)},
				{"current streak", fmt.Sprintf("%d days", s.CurrentStreak)},
				{"longest streak", fmt.Sprintf("%d days", s.LongestStreak)},
			}))
			fmt.Fprintln(out, p.render(styleDim, fmt.Sprintf("last %d days", stats.WindowDays)))
			return nil
		},
	}
}
