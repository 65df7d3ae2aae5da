// Package app wires the store and the calendar, stats and cost components
// together. The HTTP server and the lifedash CLI both build one App.
package app

import (
	"context"
	"fmt"
	"log"
	"slices"
	"time"

	"lg/life-dashboard-go-api/internal/activity"
	"lg/life-dashboard-go-api/internal/calendar"
	"lg/life-dashboard-go-api/internal/config"
	"lg/life-dashboard-go-api/internal/cost"
	"lg/life-dashboard-go-api/internal/dates"
	"lg/life-dashboard-go-api/internal/nutrition"
	"lg/life-dashboard-go-api/internal/stats"
	"lg/life-dashboard-go-api/internal/store"
	"lg/life-dashboard-go-api/internal/store/postgres"
	"lg/life-dashboard-go-api/internal/store/sqlite"
)

// OpenStore opens the store selected by cfg.StoreDriver.
func OpenStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		st, err := postgres.Open(ctx, cfg.DBURL)
		if err != nil {
			return nil, err
		}
		return st, nil
	case config.DriverSQLite:
		st, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return st, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// App holds the long-lived components shared by every request.
type App struct {
	Store       store.Store
	Reconciler  *calendar.Reconciler
	Aggregator  *calendar.Aggregator
	Loader      *calendar.MonthLoader
	Completions *activity.Registry
	CostOptions cost.Options
}

// New builds an App over st.
func New(st store.Store, cfg *config.Config) *App {
	reconciler := calendar.NewReconciler(len(cfg.MealSlots))
	placeholder := cfg.Placeholder
	return &App{
		Store:      st,
		Reconciler: reconciler,
		Aggregator: calendar.NewAggregator(reconciler, 0),
		Loader:     calendar.NewMonthLoader(st),
		Completions: activity.NewRegistry(func(userID int) *activity.CompletionStore {
			return activity.NewCompletionStore(userID, st, st, activity.WithPlaceholderFood(placeholder))
		}),
		CostOptions: cfg.Cost,
	}
}

// load fetches sources for [from, to] and merges the user's in-memory
// completions. A fresh history snapshot replaces the in-memory records for the
// range; when history could not be read the in-memory records are used as is.
func (a *App) load(ctx context.Context, userID int, from, to string) (calendar.MonthSources, []string, error) {
	src, failed, err := a.Loader.Load(ctx, userID, from, to)
	if err != nil {
		return calendar.MonthSources{}, nil, err
	}
	completions := a.Completions.For(userID)
	if !slices.Contains(failed, calendar.SourceHistory) {
		completions.Reconcile(from, to, src.History)
	}
	src.History = completions.Records(from, to)
	return src, failed, nil
}

// Month returns the reconciled 42-day grid for year/month along with the
// names of any sources that could not be read.
func (a *App) Month(ctx context.Context, userID int, year int, month time.Month, now time.Time) ([]calendar.CalendarDay, []string, error) {
	from, to := dates.GridRange(year, month, now.Location())
	src, failed, err := a.load(ctx, userID, from, to)
	if err != nil {
		return nil, nil, err
	}
	return a.Aggregator.Month(year, month, now, src), failed, nil
}

// Day returns the reconciled state of a single date.
func (a *App) Day(ctx context.Context, userID int, date string, now time.Time) (calendar.CalendarDay, []string, error) {
	src, failed, err := a.load(ctx, userID, date, date)
	if err != nil {
		return calendar.CalendarDay{}, nil, err
	}
	days, err := a.Aggregator.Days(date, date, dates.Key(now), src)
	if err != nil {
		return calendar.CalendarDay{}, nil, err
	}
	return days[0], failed, nil
}

// ModuleStats computes progress and streaks for one module over the trailing
// window ending on now's date.
func (a *App) ModuleStats(ctx context.Context, userID int, kind activity.Kind, now time.Time) (stats.ModuleStats, []string, error) {
	today := dates.Key(now)
	from, to, err := dates.Window(today, stats.WindowDays)
	if err != nil {
		return stats.ModuleStats{}, nil, err
	}
	src, failed, err := a.load(ctx, userID, from, to)
	if err != nil {
		return stats.ModuleStats{}, nil, err
	}
	days, err := a.Aggregator.Days(from, to, today, src)
	if err != nil {
		return stats.ModuleStats{}, nil, err
	}
	return stats.Compute(stats.WindowFromDays(kind, days), today), failed, nil
}

// Toggle marks an activity completed or pending. Memoized grids are dropped
// so the next read reflects the change.
func (a *App) Toggle(ctx context.Context, userID int, date string, t activity.Type, completed bool) error {
	err := a.Completions.For(userID).Toggle(ctx, date, t, completed)
	a.Aggregator.Invalidate()
	return err
}

// Costs builds the cost report for w, sorted by column.
func (a *App) Costs(ctx context.Context, userID int, w cost.Window, column cost.Column, descending bool) (cost.Report, error) {
	plans, err := a.Store.ListMealPlans(ctx, userID, w.From, w.To)
	if err != nil {
		return cost.Report{}, fmt.Errorf("loading meal plans: %w", err)
	}
	foods, err := a.Store.ListFoods(ctx, userID)
	if err != nil {
		log.Printf("[App.Costs] food catalog unavailable for user %d: %v", userID, err)
		foods = nil
	}
	report := cost.Aggregate(cost.RecordsFromPlans(plans), nutrition.NewCatalog(foods), w)
	cost.SortRows(report.Rows, column, descending)
	report.Currency = a.CostOptions.Currency
	return report, nil
}
