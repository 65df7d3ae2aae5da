package activity

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"lg/life-dashboard-go-api/internal/dates"
	"lg/life-dashboard-go-api/internal/models"
)

// HistoryWriter persists activity history with upsert semantics keyed by
// (userID, date, activityType).
type HistoryWriter interface {
	UpsertActivity(ctx context.Context, rec models.ActivityRecord) (models.ActivityRecord, error)
}

// PlanStore is the slice of the meal plan store the placeholder side effect needs.
type PlanStore interface {
	CreateMealPlanIfAbsent(ctx context.Context, plan models.MealPlan) (bool, error)
}

// ErrPlaceholderPlan marks a toggle whose history write succeeded but whose
// placeholder meal plan could not be created.
var ErrPlaceholderPlan = errors.New("placeholder meal plan not created")

// CompletionStore owns one user's in-memory activity history and is the only
// writer of activity records. Toggles are applied optimistically before the
// write is sent; a failed write is returned to the caller and the optimistic
// entry stays in place until the next Reconcile.
type CompletionStore struct {
	userID      int
	history     HistoryWriter
	plans       PlanStore
	placeholder models.SelectedFood
	now         func() time.Time

	mu      sync.Mutex
	records []models.ActivityRecord
}

// CompletionOption configures a CompletionStore.
type CompletionOption func(*CompletionStore)

// WithPlaceholderFood sets the food used when a meal is completed on a day
// without a meal plan.
func WithPlaceholderFood(food models.SelectedFood) CompletionOption {
	return func(s *CompletionStore) { s.placeholder = food }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) CompletionOption {
	return func(s *CompletionStore) { s.now = now }
}

// DefaultPlaceholderFood is the single entry of an auto-created meal plan.
var DefaultPlaceholderFood = models.SelectedFood{Name: "Quick meal", Amount: 1}

// NewCompletionStore builds a store for one user.
func NewCompletionStore(userID int, history HistoryWriter, plans PlanStore, opts ...CompletionOption) *CompletionStore {
	s := &CompletionStore{
		userID:      userID,
		history:     history,
		plans:       plans,
		placeholder: DefaultPlaceholderFood,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Toggle marks an activity completed or pending on a date. The in-memory list
// is updated before the upsert is sent. The upsert runs detached from ctx's
// cancellation so a write still lands after the requester has gone away.
//
// Completing a meal on a day with no meal plan also creates a minimal plan
// holding the placeholder food in that slot.
func (s *CompletionStore) Toggle(ctx context.Context, date string, t Type, completed bool) error {
	if !dates.Valid(date) {
		return fmt.Errorf("invalid date %q", date)
	}
	rec := models.ActivityRecord{
		UserID:       s.userID,
		Date:         date,
		ActivityType: t.String(),
		Completed:    completed,
		UpdatedAt:    s.now(),
	}
	s.apply(rec)

	writeCtx := context.WithoutCancel(ctx)
	if _, err := s.history.UpsertActivity(writeCtx, rec); err != nil {
		return fmt.Errorf("persist %s on %s: %w", rec.ActivityType, date, err)
	}

	if t.IsMeal() && completed && s.plans != nil {
		if err := s.ensurePlan(writeCtx, date, t.Slot); err != nil {
			return fmt.Errorf("%w for %s: %w", ErrPlaceholderPlan, date, err)
		}
	}
	return nil
}

// ensurePlan inserts the placeholder plan only when the day has none, so a
// plan saved concurrently is never replaced.
func (s *CompletionStore) ensurePlan(ctx context.Context, date, slot string) error {
	plan := models.MealPlan{
		UserID: s.userID,
		Date:   date,
		Timeslots: map[string]models.Timeslot{
			slot: {SelectedFoods: []models.SelectedFood{s.placeholder}},
		},
		UpdatedAt: s.now(),
	}
	_, err := s.plans.CreateMealPlanIfAbsent(ctx, plan)
	return err
}

// apply replaces or inserts rec by its (date, activityType) key.
func (s *CompletionStore) apply(rec models.ActivityRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].Date == rec.Date && s.records[i].ActivityType == rec.ActivityType {
			s.records[i] = rec
			return
		}
	}
	s.records = append(s.records, rec)
}

// Reconcile replaces every in-memory record dated inside [from, to] with the
// authoritative snapshot. Records outside the range are left untouched.
func (s *CompletionStore) Reconcile(from, to string, snapshot []models.ActivityRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.records[:0:0]
	for _, r := range s.records {
		if !dates.InRange(r.Date, from, to) {
			kept = append(kept, r)
		}
	}
	for _, r := range snapshot {
		if dates.InRange(r.Date, from, to) {
			kept = append(kept, r)
		}
	}
	s.records = kept
}

// Records returns a copy of the records dated inside [from, to], ordered by
// date then activity type.
func (s *CompletionStore) Records(from, to string) []models.ActivityRecord {
	s.mu.Lock()
	out := make([]models.ActivityRecord, 0, len(s.records))
	for _, r := range s.records {
		if dates.InRange(r.Date, from, to) {
			out = append(out, r)
		}
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].ActivityType < out[j].ActivityType
	})
	return out
}

// ActivityMap returns activity type -> completed for one date.
func (s *CompletionStore) ActivityMap(date string) map[Type]bool {
	return BuildActivityMap(date, s.Records(date, date))
}

// Registry hands out one CompletionStore per user.
type Registry struct {
	mu     sync.Mutex
	stores map[int]*CompletionStore
	build  func(userID int) *CompletionStore
}

// NewRegistry creates a registry that builds stores on first use.
func NewRegistry(build func(userID int) *CompletionStore) *Registry {
	return &Registry{stores: make(map[int]*CompletionStore), build: build}
}

// For returns the store for userID, creating it if needed.
func (r *Registry) For(userID int) *CompletionStore {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stores[userID]
	if !ok {
		s = r.build(userID)
		r.stores[userID] = s
	}
	return s
}
