// Command lifedash prints the reconciled calendar, module stats and food
// costs from the terminal, and toggles activities.
// Usage: go run ./cmd/lifedash --user lyle calendar
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"

	"lg/life-dashboard-go-api/internal/app"
	"lg/life-dashboard-go-api/internal/cli"
	"lg/life-dashboard-go-api/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	log.SetPrefix("lifedash: ")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	st, err := app.OpenStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening %s store: %w", cfg.StoreDriver, err)
	}
	defer st.Close()

	env := &cli.Env{
		App:   app.New(st, cfg),
		Plain: !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()),
	}
	return cli.Execute(ctx, env, os.Args[1:])
}
