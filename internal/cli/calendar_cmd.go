package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"lg/life-dashboard-go-api/internal/calendar"
	"lg/life-dashboard-go-api/internal/dates"
)

func newCalendarCmd(env *Env) *cobra.Command {
	var year, month int

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show the reconciled events of a month",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := env.now()
			if year == 0 {
				year = now.Year()
			}
			if month == 0 {
				month = int(now.Month())
			}
			if year < 1 || year > 9999 || month < 1 || month > 12 {
				return fmt.Errorf("invalid year/month %d/%d", year, month)
			}

			days, failed, err := env.App.Month(cmd.Context(), env.userID, year, time.Month(month), now)
			if err != nil {
				return err
			}

			p := env.printer()
			out := cmd.OutOrStdout()
			fmt.Fprint(out, p.warnUnavailable(failed))

			var rows [][]string
			for _, d := range days {
				if !d.IsCurrentMonth || len(d.Events) == 0 {
					continue
				}
				date := d.Date
				if d.IsToday {
					date += " *"
				}
				rows = append(rows, []string{date, formatEvents(p, d.Events)})
			}
			if len(rows) == 0 {
				fmt.Fprintf(out, "Nothing scheduled in %04d-%02d.\n", year, month)
				return nil
			}
			fmt.Fprint(out, p.table([]string{"DATE", "EVENTS"}, rows))
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Year (default: current)")
	cmd.Flags().IntVar(&month, "month", 0, "Month 1-12 (default: current)")
	return cmd
}

func newDayCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "day <YYYY-MM-DD>",
		Short: "Show one day in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !dates.Valid(args[0]) {
				return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", args[0])
			}
			day, failed, err := env.App.Day(cmd.Context(), env.userID, args[0], env.now())
			if err != nil {
				return err
			}

			p := env.printer()
			out := cmd.OutOrStdout()
			fmt.Fprint(out, p.warnUnavailable(failed))
			fmt.Fprintln(out, day.Date)
			if len(day.Events) == 0 {
				fmt.Fprintln(out, "  nothing scheduled")
			}
			for _, e := range day.Events {
				fmt.Fprintf(out, "  %s\n", p.mark(e.Completed, e.Title))
				if e.Workout != nil {
					for _, ex := range e.Workout.Exercises {
						fmt.Fprintf(out, "      %s %dx%d @ %gkg\n", ex.Name, ex.Sets, ex.Reps, ex.Kg)
					}
				}
			}
			if f := day.ModuleData.Food; f != nil {
				fmt.Fprintf(out, "  meals %d/%d", f.CompletedMeals, f.TotalMeals)
				if f.HasPlan {
					fmt.Fprintf(out, ", %.0f kcal planned", f.Macros.Calories)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}

func formatEvents(p printer, events []calendar.CalendarEvent) string {
	parts := make([]string, 0, len(events))
	for _, e := range events {
		parts = append(parts, p.mark(e.Completed, e.Title))
	}
	return strings.Join(parts, "  ")
}
