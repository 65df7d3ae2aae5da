package calendar

import (
	"log"
	"sync"
	"time"

	"github.com/mitchellh/hashstructure/v2"

	"lg/life-dashboard-go-api/internal/dates"
	"lg/life-dashboard-go-api/internal/models"
	"lg/life-dashboard-go-api/internal/nutrition"
)

// defaultCacheSize bounds the number of memoized grids per Aggregator.
const defaultCacheSize = 64

// MonthSources holds every source document overlapping a date range.
type MonthSources struct {
	Plans     []models.MealPlan
	Scheduled []models.ScheduledActivities
	Workouts  []models.ScheduledWorkout
	History   []models.ActivityRecord
	Foods     []models.Food
}

// gridKey is what a memoized grid depends on.
type gridKey struct {
	Year    int
	Month   time.Month
	Today   string
	Sources MonthSources
}

// Aggregator builds month grids and memoizes them by a structural hash of the
// inputs, so an unchanged month is not reconciled twice. Any change to any
// source produces a new key and a full rebuild.
type Aggregator struct {
	reconciler *Reconciler

	mu    sync.Mutex
	cache map[uint64][]CalendarDay
	order []uint64
	limit int
}

// NewAggregator returns an Aggregator that keeps at most cacheSize grids.
func NewAggregator(r *Reconciler, cacheSize int) *Aggregator {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	return &Aggregator{
		reconciler: r,
		cache:      map[uint64][]CalendarDay{},
		limit:      cacheSize,
	}
}

// Month returns the 42-day grid for year/month starting on the Sunday on or
// before the 1st. The grid is laid out in now's location and IsToday compares
// calendar dates with now.
func (a *Aggregator) Month(year int, month time.Month, now time.Time, src MonthSources) []CalendarDay {
	today := dates.Key(now)
	key, err := hashstructure.Hash(gridKey{Year: year, Month: month, Today: today, Sources: src}, hashstructure.FormatV2, nil)
	if err != nil {
		log.Printf("[Aggregator.Month] hash error, building uncached: %v", err)
		return a.build(year, month, now, src)
	}

	a.mu.Lock()
	cached, ok := a.cache[key]
	a.mu.Unlock()
	if ok {
		return cloneDays(cached)
	}

	days := a.build(year, month, now, src)

	a.mu.Lock()
	if _, exists := a.cache[key]; !exists {
		a.cache[key] = days
		a.order = append(a.order, key)
		if len(a.order) > a.limit {
			delete(a.cache, a.order[0])
			a.order = a.order[1:]
		}
	}
	a.mu.Unlock()
	return cloneDays(days)
}

func (a *Aggregator) build(year int, month time.Month, now time.Time, src MonthSources) []CalendarDay {
	start := dates.GridStart(year, month, now.Location())
	today := dates.Key(now)
	idx := indexSources(src)

	days := make([]CalendarDay, 0, dates.GridCells)
	for i := 0; i < dates.GridCells; i++ {
		d := start.AddDate(0, 0, i)
		key := dates.Key(d)
		day := a.reconciler.Reconcile(key, idx.forDate(key))
		day.IsCurrentMonth = d.Month() == month
		day.IsToday = key == today
		days = append(days, day)
	}
	return days
}

// Days reconciles every date in the inclusive range. It is not memoized.
func (a *Aggregator) Days(from, to, today string, src MonthSources) ([]CalendarDay, error) {
	idx := indexSources(src)
	var days []CalendarDay
	for key := from; key <= to; {
		day := a.reconciler.Reconcile(key, idx.forDate(key))
		day.IsToday = key == today
		days = append(days, day)

		next, err := dates.AddDays(key, 1)
		if err != nil {
			return nil, err
		}
		key = next
	}
	return days, nil
}

// Invalidate drops every memoized grid.
func (a *Aggregator) Invalidate() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cache = map[uint64][]CalendarDay{}
	a.order = nil
}

type sourceIndex struct {
	plans     map[string]*models.MealPlan
	scheduled map[string]*models.ScheduledActivities
	workouts  map[string][]models.ScheduledWorkout
	history   map[string][]models.ActivityRecord
	catalog   nutrition.Catalog
}

func indexSources(src MonthSources) sourceIndex {
	idx := sourceIndex{
		plans:     map[string]*models.MealPlan{},
		scheduled: map[string]*models.ScheduledActivities{},
		workouts:  map[string][]models.ScheduledWorkout{},
		history:   map[string][]models.ActivityRecord{},
		catalog:   nutrition.NewCatalog(src.Foods),
	}
	// The store keeps one plan and one schedule per date; if duplicates slip
	// through, the newest plan and the first schedule are used.
	for i := range src.Plans {
		p := &src.Plans[i]
		if prev, ok := idx.plans[p.Date]; !ok || p.UpdatedAt.After(prev.UpdatedAt) {
			idx.plans[p.Date] = p
		}
	}
	for i := range src.Scheduled {
		s := &src.Scheduled[i]
		if _, ok := idx.scheduled[s.Date]; !ok {
			idx.scheduled[s.Date] = s
		}
	}
	for _, w := range src.Workouts {
		idx.workouts[w.ScheduledDate] = append(idx.workouts[w.ScheduledDate], w)
	}
	for _, h := range src.History {
		idx.history[h.Date] = append(idx.history[h.Date], h)
	}
	return idx
}

func (idx sourceIndex) forDate(date string) Sources {
	return Sources{
		Plan:      idx.plans[date],
		Scheduled: idx.scheduled[date],
		Workouts:  idx.workouts[date],
		History:   idx.history[date],
		Catalog:   idx.catalog,
	}
}

func cloneDays(in []CalendarDay) []CalendarDay {
	out := make([]CalendarDay, len(in))
	for i, d := range in {
		out[i] = d.clone()
	}
	return out
}

func (d CalendarDay) clone() CalendarDay {
	c := d
	c.Events = make([]CalendarEvent, len(d.Events))
	for i, e := range d.Events {
		if e.Workout != nil {
			w := *e.Workout
			w.Exercises = append([]models.Exercise(nil), e.Workout.Exercises...)
			e.Workout = &w
		}
		c.Events[i] = e
	}
	c.ScheduledTasks = append([]string{}, d.ScheduledTasks...)
	if d.ModuleData.Food != nil {
		f := *d.ModuleData.Food
		c.ModuleData.Food = &f
	}
	if d.ModuleData.Gym != nil {
		g := *d.ModuleData.Gym
		c.ModuleData.Gym = &g
	}
	if d.ModuleData.Finance != nil {
		f := *d.ModuleData.Finance
		c.ModuleData.Finance = &f
	}
	if d.ModuleData.Water != nil {
		w := *d.ModuleData.Water
		c.ModuleData.Water = &w
	}
	return c
}
