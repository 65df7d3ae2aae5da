// Package sqlite implements store.Store on a local SQLite file using sqlx and
// the pure-Go modernc driver. It backs local mode and the test suites.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"lg/life-dashboard-go-api/internal/models"
	"lg/life-dashboard-go-api/internal/store"
)

// Store implements store.Store on SQLite.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

var _ store.Store = (*Store)(nil)

// Open opens (or creates) the database at path, enables WAL mode and foreign
// keys, and applies pending migrations.
func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// One writer at a time; also keeps ":memory:" databases on a single connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() {
	s.db.Close()
}

func (s *Store) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'")
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}
	if tableCount > 0 {
		if err := s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version"); err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

/* ─── Foods ──────────────────────────────────────────────────────────── */

func (s *Store) ListFoods(ctx context.Context, userID int) ([]models.Food, error) {
	var rows []store.FoodRow
	if err := s.db.SelectContext(ctx, &rows,
		"SELECT * FROM foods WHERE user_id = ? ORDER BY name", userID); err != nil {
		return nil, fmt.Errorf("listing foods: %w", err)
	}
	out := make([]models.Food, 0, len(rows))
	for _, r := range rows {
		f, err := r.Model()
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// UpsertFood inserts a food or replaces the one with the same name.
func (s *Store) UpsertFood(ctx context.Context, food models.Food) (models.Food, error) {
	if food.ID == "" {
		food.ID = uuid.New().String()
	}
	row, err := store.NewFoodRow(food)
	if err != nil {
		return models.Food{}, fmt.Errorf("encoding food: %w", err)
	}
	var saved store.FoodRow
	err = s.db.GetContext(ctx, &saved, `
		INSERT INTO foods (id, user_id, name, nutrition, is_unit_food, cost)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, name) DO UPDATE SET
			nutrition = excluded.nutrition,
			is_unit_food = excluded.is_unit_food,
			cost = excluded.cost
		RETURNING *`,
		row.ID, row.UserID, row.Name, row.Nutrition, row.IsUnitFood, row.Cost)
	if err != nil {
		return models.Food{}, fmt.Errorf("upserting food %q: %w", food.Name, err)
	}
	return saved.Model()
}

func (s *Store) DeleteFood(ctx context.Context, userID int, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM foods WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("deleting food %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

/* ─── Meal plans ─────────────────────────────────────────────────────── */

func (s *Store) ListMealPlans(ctx context.Context, userID int, from, to string) ([]models.MealPlan, error) {
	var rows []store.MealPlanRow
	if err := s.db.SelectContext(ctx, &rows,
		"SELECT * FROM meal_plans WHERE user_id = ? AND date >= ? AND date <= ? ORDER BY date",
		userID, from, to); err != nil {
		return nil, fmt.Errorf("listing meal plans: %w", err)
	}
	out := make([]models.MealPlan, 0, len(rows))
	for _, r := range rows {
		p, err := r.Model()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Store) GetMealPlan(ctx context.Context, userID int, date string) (models.MealPlan, error) {
	var row store.MealPlanRow
	if err := s.db.GetContext(ctx, &row,
		"SELECT * FROM meal_plans WHERE user_id = ? AND date = ?", userID, date); err != nil {
		return models.MealPlan{}, notFound(err)
	}
	return row.Model()
}

// SaveMealPlan replaces the plan for (user, date).
func (s *Store) SaveMealPlan(ctx context.Context, plan models.MealPlan) (models.MealPlan, error) {
	plan.UpdatedAt = s.now().UTC()
	row, err := store.NewMealPlanRow(plan)
	if err != nil {
		return models.MealPlan{}, fmt.Errorf("encoding meal plan: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO meal_plans (user_id, date, timeslots, total_macros, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, date) DO UPDATE SET
			timeslots = excluded.timeslots,
			total_macros = excluded.total_macros,
			updated_at = excluded.updated_at`,
		row.UserID, row.Date, row.Timeslots, row.TotalMacros, row.UpdatedAt)
	if err != nil {
		return models.MealPlan{}, fmt.Errorf("saving meal plan %s: %w", plan.Date, err)
	}
	if plan.Timeslots == nil {
		plan.Timeslots = map[string]models.Timeslot{}
	}
	return plan, nil
}

func (s *Store) CreateMealPlanIfAbsent(ctx context.Context, plan models.MealPlan) (bool, error) {
	plan.UpdatedAt = s.now().UTC()
	row, err := store.NewMealPlanRow(plan)
	if err != nil {
		return false, fmt.Errorf("encoding meal plan: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO meal_plans (user_id, date, timeslots, total_macros, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, date) DO NOTHING`,
		row.UserID, row.Date, row.Timeslots, row.TotalMacros, row.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("creating meal plan %s: %w", plan.Date, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("creating meal plan %s: %w", plan.Date, err)
	}
	return n > 0, nil
}

/* ─── Scheduled activities ───────────────────────────────────────────── */

func (s *Store) ListScheduledActivities(ctx context.Context, userID int, from, to string) ([]models.ScheduledActivities, error) {
	var rows []store.ScheduledActivitiesRow
	if err := s.db.SelectContext(ctx, &rows,
		"SELECT * FROM scheduled_activities WHERE user_id = ? AND date >= ? AND date <= ? ORDER BY date",
		userID, from, to); err != nil {
		return nil, fmt.Errorf("listing scheduled activities: %w", err)
	}
	out := make([]models.ScheduledActivities, 0, len(rows))
	for _, r := range rows {
		doc, err := r.Model()
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func (s *Store) SaveScheduledActivities(ctx context.Context, doc models.ScheduledActivities) (models.ScheduledActivities, error) {
	row, err := store.NewScheduledActivitiesRow(doc)
	if err != nil {
		return models.ScheduledActivities{}, fmt.Errorf("encoding tasks: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO scheduled_activities (user_id, date, tasks) VALUES (?, ?, ?)
		ON CONFLICT (user_id, date) DO UPDATE SET tasks = excluded.tasks`,
		row.UserID, row.Date, row.Tasks)
	if err != nil {
		return models.ScheduledActivities{}, fmt.Errorf("saving scheduled activities %s: %w", doc.Date, err)
	}
	return row.Model()
}

/* ─── Scheduled workouts ─────────────────────────────────────────────── */

func (s *Store) ListScheduledWorkouts(ctx context.Context, userID int, from, to string) ([]models.ScheduledWorkout, error) {
	var rows []store.WorkoutRow
	if err := s.db.SelectContext(ctx, &rows,
		"SELECT * FROM scheduled_workouts WHERE user_id = ? AND scheduled_date >= ? AND scheduled_date <= ? ORDER BY scheduled_date, name",
		userID, from, to); err != nil {
		return nil, fmt.Errorf("listing workouts: %w", err)
	}
	out := make([]models.ScheduledWorkout, 0, len(rows))
	for _, r := range rows {
		w, err := r.Model()
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}

func (s *Store) CreateScheduledWorkout(ctx context.Context, w models.ScheduledWorkout) (models.ScheduledWorkout, error) {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	if w.Status == "" {
		w.Status = models.WorkoutScheduled
	}
	row, err := store.NewWorkoutRow(w)
	if err != nil {
		return models.ScheduledWorkout{}, fmt.Errorf("encoding workout: %w", err)
	}
	_, err = s.db.NamedExecContext(ctx, `
		INSERT INTO scheduled_workouts (id, user_id, scheduled_date, name, workout_type, exercises, status, estimated_duration, notes)
		VALUES (:id, :user_id, :scheduled_date, :name, :workout_type, :exercises, :status, :estimated_duration, :notes)`,
		row)
	if err != nil {
		return models.ScheduledWorkout{}, fmt.Errorf("creating workout: %w", err)
	}
	return row.Model()
}

func (s *Store) UpdateWorkoutStatus(ctx context.Context, userID int, id string, status models.WorkoutStatus) (models.ScheduledWorkout, error) {
	var row store.WorkoutRow
	err := s.db.GetContext(ctx, &row,
		"UPDATE scheduled_workouts SET status = ? WHERE id = ? AND user_id = ? RETURNING *",
		string(status), id, userID)
	if err != nil {
		return models.ScheduledWorkout{}, notFound(err)
	}
	return row.Model()
}

func (s *Store) DeleteScheduledWorkout(ctx context.Context, userID int, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM scheduled_workouts WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("deleting workout %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

/* ─── Activity history ───────────────────────────────────────────────── */

func (s *Store) ListActivityHistory(ctx context.Context, userID int, from, to string) ([]models.ActivityRecord, error) {
	var rows []store.ActivityRow
	if err := s.db.SelectContext(ctx, &rows,
		"SELECT * FROM activity_history WHERE user_id = ? AND date >= ? AND date <= ? ORDER BY date, activity_type",
		userID, from, to); err != nil {
		return nil, fmt.Errorf("listing activity history: %w", err)
	}
	out := make([]models.ActivityRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Model())
	}
	return out, nil
}

// UpsertActivity writes the record keyed by (user, date, activity type). The
// last write wins.
func (s *Store) UpsertActivity(ctx context.Context, rec models.ActivityRecord) (models.ActivityRecord, error) {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = s.now()
	}
	rec.UpdatedAt = rec.UpdatedAt.UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO activity_history (user_id, date, activity_type, completed, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, date, activity_type) DO UPDATE SET
			completed = excluded.completed,
			updated_at = excluded.updated_at`,
		rec.UserID, rec.Date, rec.ActivityType, rec.Completed, rec.UpdatedAt)
	if err != nil {
		return models.ActivityRecord{}, fmt.Errorf("upserting %s on %s: %w", rec.ActivityType, rec.Date, err)
	}
	return rec, nil
}

/* ─── Users and settings ─────────────────────────────────────────────── */

func (s *Store) UserByUsername(ctx context.Context, username string) (models.User, error) {
	var row store.UserRow
	if err := s.db.GetContext(ctx, &row, "SELECT * FROM users WHERE username = ?", username); err != nil {
		return models.User{}, notFound(err)
	}
	return row.Model(), nil
}

func (s *Store) UserIDByToken(ctx context.Context, token string) (int, error) {
	var id int
	if err := s.db.GetContext(ctx, &id, "SELECT id FROM users WHERE auth_token = ?", token); err != nil {
		return 0, notFound(err)
	}
	return id, nil
}

// CreateUser inserts the user and its default nutrition settings in one
// transaction.
func (s *Store) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.User{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var row store.UserRow
	err = tx.GetContext(ctx, &row,
		"INSERT INTO users (username, email, password, auth_token) VALUES (?, ?, ?, ?) RETURNING *",
		u.Username, u.Email, u.Password, u.AuthToken)
	if err != nil {
		return models.User{}, fmt.Errorf("creating user %q: %w", u.Username, err)
	}
	def := models.DefaultNutritionSettings(row.ID)
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO nutrition_settings (user_id, calorie_budget, protein_target_g, carbs_target_g, fat_target_g)
		 VALUES (?, ?, ?, ?, ?)`,
		def.UserID, def.CalorieBudget, def.ProteinTargetG, def.CarbsTargetG, def.FatTargetG); err != nil {
		return models.User{}, fmt.Errorf("creating nutrition settings: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return models.User{}, err
	}
	return row.Model(), nil
}

func (s *Store) GetNutritionSettings(ctx context.Context, userID int) (models.NutritionSettings, error) {
	var row store.NutritionSettingsRow
	if err := s.db.GetContext(ctx, &row, "SELECT * FROM nutrition_settings WHERE user_id = ?", userID); err != nil {
		return models.NutritionSettings{}, notFound(err)
	}
	return row.Model(), nil
}

func (s *Store) SaveNutritionSettings(ctx context.Context, settings models.NutritionSettings) (models.NutritionSettings, error) {
	row := store.NewNutritionSettingsRow(settings)
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO nutrition_settings (
			user_id, calorie_budget, protein_target_g, carbs_target_g, fat_target_g,
			sex, date_of_birth, height_cm, weight_kg, activity_level,
			target_weight_kg, target_date, budget_auto, setup_complete
		) VALUES (
			:user_id, :calorie_budget, :protein_target_g, :carbs_target_g, :fat_target_g,
			:sex, :date_of_birth, :height_cm, :weight_kg, :activity_level,
			:target_weight_kg, :target_date, :budget_auto, :setup_complete
		)
		ON CONFLICT (user_id) DO UPDATE SET
			calorie_budget = excluded.calorie_budget,
			protein_target_g = excluded.protein_target_g,
			carbs_target_g = excluded.carbs_target_g,
			fat_target_g = excluded.fat_target_g,
			sex = excluded.sex,
			date_of_birth = excluded.date_of_birth,
			height_cm = excluded.height_cm,
			weight_kg = excluded.weight_kg,
			activity_level = excluded.activity_level,
			target_weight_kg = excluded.target_weight_kg,
			target_date = excluded.target_date,
			budget_auto = excluded.budget_auto,
			setup_complete = excluded.setup_complete`,
		row)
	if err != nil {
		return models.NutritionSettings{}, fmt.Errorf("saving nutrition settings: %w", err)
	}
	return s.GetNutritionSettings(ctx, settings.UserID)
}
