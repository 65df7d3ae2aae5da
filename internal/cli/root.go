// Package cli implements the lifedash command line: calendar, stats, costs
// and toggles against the same store the API server uses.
package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"lg/life-dashboard-go-api/internal/app"
	"lg/life-dashboard-go-api/internal/store"
)

// Env is what every command runs against.
type Env struct {
	App *app.App
	Now func() time.Time
	// Plain disables colors, e.g. when stdout is not a terminal.
	Plain bool

	userID int
}

// NewRootCmd creates the top-level "lifedash" command and registers all
// subcommands against env.
func NewRootCmd(env *Env) *cobra.Command {
	var username string

	root := &cobra.Command{
		Use:           "lifedash",
		Short:         "Life dashboard calendar, stats and food costs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				return errors.New("--user is required")
			}
			u, err := env.App.Store.UserByUsername(cmd.Context(), username)
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("no user %q", username)
			}
			if err != nil {
				return fmt.Errorf("looking up user: %w", err)
			}
			env.userID = u.ID
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&username, "user", "u", "", "Username to act as")

	root.AddCommand(
		newCalendarCmd(env),
		newDayCmd(env),
		newStatsCmd(env),
		newCostsCmd(env),
		newToggleCmd(env),
	)
	return root
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context, env *Env, args []string) error {
	root := NewRootCmd(env)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (e *Env) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Env) printer() printer {
	return printer{plain: e.Plain}
}
