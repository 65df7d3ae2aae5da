// Package postgres implements store.Store on PostgreSQL through a pgx pool.
// Dates are DATE columns read back as "YYYY-MM-DD" strings via TO_CHAR, and
// document fields are jsonb read back as strings.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lg/life-dashboard-go-api/internal/models"
	"lg/life-dashboard-go-api/internal/store"
)

// Store implements store.Store on a pgx pool.
type Store struct {
	pool *pgxpool.Pool
}

var _ store.Store = (*Store)(nil)

// Open creates a connection pool. A pool (not a single conn) survives the
// hosted database closing idle connections.
func Open(ctx context.Context, url string) (*Store, error) {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parsing DB URL: %w", err)
	}
	// Simple protocol avoids "cached plan must not change result type" errors
	// from server-side prepared statement caches after schema changes.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

/* ─── Query helpers ──────────────────────────────────────────────────── */

// queryOne runs a query and scans the first row into T using RowToStructByName.
// pgx.ErrNoRows becomes store.ErrNotFound.
func queryOne[T any](ctx context.Context, pool *pgxpool.Pool, sql string, args pgx.NamedArgs) (T, error) {
	rows, err := pool.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryOne] Query error: %v", err)
		var zero T
		return zero, err
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if errors.Is(err, pgx.ErrNoRows) {
		return result, store.ErrNotFound
	}
	if err != nil {
		log.Printf("[queryOne] Scan error: %v", err)
	}
	return result, err
}

// queryMany runs a query and scans all rows into []T using RowToStructByName.
func queryMany[T any](ctx context.Context, pool *pgxpool.Pool, sql string, args pgx.NamedArgs) ([]T, error) {
	rows, err := pool.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryMany] Query error: %v", err)
		return nil, err
	}
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		log.Printf("[queryMany] Scan error: %v", err)
	}
	return results, err
}

// toModels converts scanned rows with a fallible Model method.
func toModels[R interface{ Model() (M, error) }, M any](rows []R) ([]M, error) {
	out := make([]M, 0, len(rows))
	for _, r := range rows {
		m, err := r.Model()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func execAffecting(ctx context.Context, pool *pgxpool.Pool, sql string, args pgx.NamedArgs) error {
	tag, err := pool.Exec(ctx, sql, args)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

const (
	foodColumns = `id, user_id, name, nutrition::text AS nutrition, is_unit_food, cost::text AS cost`

	mealPlanColumns = `user_id, TO_CHAR(date, 'YYYY-MM-DD') AS date,
		timeslots::text AS timeslots, total_macros::text AS total_macros, updated_at`

	scheduledColumns = `user_id, TO_CHAR(date, 'YYYY-MM-DD') AS date, tasks::text AS tasks`

	workoutColumns = `id, user_id, TO_CHAR(scheduled_date, 'YYYY-MM-DD') AS scheduled_date, name,
		workout_type, exercises::text AS exercises, status, estimated_duration, notes`

	activityColumns = `user_id, TO_CHAR(date, 'YYYY-MM-DD') AS date, activity_type, completed, updated_at`

	settingsColumns = `user_id, calorie_budget, protein_target_g, carbs_target_g, fat_target_g,
		sex, TO_CHAR(date_of_birth, 'YYYY-MM-DD') AS date_of_birth,
		height_cm::float8 AS height_cm, weight_kg::float8 AS weight_kg, activity_level,
		target_weight_kg::float8 AS target_weight_kg, TO_CHAR(target_date, 'YYYY-MM-DD') AS target_date,
		budget_auto, setup_complete`
)

/* ─── Foods ──────────────────────────────────────────────────────────── */

func (s *Store) ListFoods(ctx context.Context, userID int) ([]models.Food, error) {
	rows, err := queryMany[store.FoodRow](ctx, s.pool,
		`SELECT `+foodColumns+` FROM foods WHERE user_id = @userID ORDER BY name`,
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		return nil, fmt.Errorf("listing foods: %w", err)
	}
	return toModels[store.FoodRow, models.Food](rows)
}

func (s *Store) UpsertFood(ctx context.Context, food models.Food) (models.Food, error) {
	if food.ID == "" {
		food.ID = uuid.New().String()
	}
	row, err := store.NewFoodRow(food)
	if err != nil {
		return models.Food{}, fmt.Errorf("encoding food: %w", err)
	}
	saved, err := queryOne[store.FoodRow](ctx, s.pool,
		`INSERT INTO foods (id, user_id, name, nutrition, is_unit_food, cost)
		 VALUES (@id, @userID, @name, @nutrition::jsonb, @isUnitFood, @cost::jsonb)
		 ON CONFLICT (user_id, name) DO UPDATE SET
		   nutrition = EXCLUDED.nutrition,
		   is_unit_food = EXCLUDED.is_unit_food,
		   cost = EXCLUDED.cost
		 RETURNING `+foodColumns,
		pgx.NamedArgs{
			"id":         row.ID,
			"userID":     row.UserID,
			"name":       row.Name,
			"nutrition":  row.Nutrition,
			"isUnitFood": row.IsUnitFood,
			"cost":       row.Cost,
		})
	if err != nil {
		return models.Food{}, fmt.Errorf("upserting food %q: %w", food.Name, err)
	}
	return saved.Model()
}

func (s *Store) DeleteFood(ctx context.Context, userID int, id string) error {
	return execAffecting(ctx, s.pool,
		`DELETE FROM foods WHERE id = @id AND user_id = @userID`,
		pgx.NamedArgs{"id": id, "userID": userID})
}

/* ─── Meal plans ─────────────────────────────────────────────────────── */

func (s *Store) ListMealPlans(ctx context.Context, userID int, from, to string) ([]models.MealPlan, error) {
	rows, err := queryMany[store.MealPlanRow](ctx, s.pool,
		`SELECT `+mealPlanColumns+` FROM meal_plans
		 WHERE user_id = @userID AND date >= @from AND date <= @to
		 ORDER BY date`,
		pgx.NamedArgs{"userID": userID, "from": from, "to": to})
	if err != nil {
		return nil, fmt.Errorf("listing meal plans: %w", err)
	}
	return toModels[store.MealPlanRow, models.MealPlan](rows)
}

func (s *Store) GetMealPlan(ctx context.Context, userID int, date string) (models.MealPlan, error) {
	row, err := queryOne[store.MealPlanRow](ctx, s.pool,
		`SELECT `+mealPlanColumns+` FROM meal_plans WHERE user_id = @userID AND date = @date`,
		pgx.NamedArgs{"userID": userID, "date": date})
	if err != nil {
		return models.MealPlan{}, err
	}
	return row.Model()
}

func (s *Store) SaveMealPlan(ctx context.Context, plan models.MealPlan) (models.MealPlan, error) {
	row, err := store.NewMealPlanRow(plan)
	if err != nil {
		return models.MealPlan{}, fmt.Errorf("encoding meal plan: %w", err)
	}
	saved, err := queryOne[store.MealPlanRow](ctx, s.pool,
		`INSERT INTO meal_plans (user_id, date, timeslots, total_macros, updated_at)
		 VALUES (@userID, @date, @timeslots::jsonb, @totals::jsonb, NOW())
		 ON CONFLICT (user_id, date) DO UPDATE SET
		   timeslots = EXCLUDED.timeslots,
		   total_macros = EXCLUDED.total_macros,
		   updated_at = NOW()
		 RETURNING `+mealPlanColumns,
		pgx.NamedArgs{
			"userID":    row.UserID,
			"date":      row.Date,
			"timeslots": row.Timeslots,
			"totals":    row.TotalMacros,
		})
	if err != nil {
		return models.MealPlan{}, fmt.Errorf("saving meal plan %s: %w", plan.Date, err)
	}
	return saved.Model()
}

func (s *Store) CreateMealPlanIfAbsent(ctx context.Context, plan models.MealPlan) (bool, error) {
	row, err := store.NewMealPlanRow(plan)
	if err != nil {
		return false, fmt.Errorf("encoding meal plan: %w", err)
	}
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO meal_plans (user_id, date, timeslots, total_macros, updated_at)
		 VALUES (@userID, @date, @timeslots::jsonb, @totals::jsonb, NOW())
		 ON CONFLICT (user_id, date) DO NOTHING`,
		pgx.NamedArgs{
			"userID":    row.UserID,
			"date":      row.Date,
			"timeslots": row.Timeslots,
			"totals":    row.TotalMacros,
		})
	if err != nil {
		return false, fmt.Errorf("creating meal plan %s: %w", plan.Date, err)
	}
	return tag.RowsAffected() > 0, nil
}

/* ─── Scheduled activities ───────────────────────────────────────────── */

func (s *Store) ListScheduledActivities(ctx context.Context, userID int, from, to string) ([]models.ScheduledActivities, error) {
	rows, err := queryMany[store.ScheduledActivitiesRow](ctx, s.pool,
		`SELECT `+scheduledColumns+` FROM scheduled_activities
		 WHERE user_id = @userID AND date >= @from AND date <= @to
		 ORDER BY date`,
		pgx.NamedArgs{"userID": userID, "from": from, "to": to})
	if err != nil {
		return nil, fmt.Errorf("listing scheduled activities: %w", err)
	}
	return toModels[store.ScheduledActivitiesRow, models.ScheduledActivities](rows)
}

func (s *Store) SaveScheduledActivities(ctx context.Context, doc models.ScheduledActivities) (models.ScheduledActivities, error) {
	row, err := store.NewScheduledActivitiesRow(doc)
	if err != nil {
		return models.ScheduledActivities{}, fmt.Errorf("encoding tasks: %w", err)
	}
	saved, err := queryOne[store.ScheduledActivitiesRow](ctx, s.pool,
		`INSERT INTO scheduled_activities (user_id, date, tasks)
		 VALUES (@userID, @date, @tasks::jsonb)
		 ON CONFLICT (user_id, date) DO UPDATE SET tasks = EXCLUDED.tasks
		 RETURNING `+scheduledColumns,
		pgx.NamedArgs{"userID": row.UserID, "date": row.Date, "tasks": row.Tasks})
	if err != nil {
		return models.ScheduledActivities{}, fmt.Errorf("saving scheduled activities %s: %w", doc.Date, err)
	}
	return saved.Model()
}

/* ─── Scheduled workouts ─────────────────────────────────────────────── */

func (s *Store) ListScheduledWorkouts(ctx context.Context, userID int, from, to string) ([]models.ScheduledWorkout, error) {
	rows, err := queryMany[store.WorkoutRow](ctx, s.pool,
		`SELECT `+workoutColumns+` FROM scheduled_workouts
		 WHERE user_id = @userID AND scheduled_date >= @from AND scheduled_date <= @to
		 ORDER BY scheduled_date, name`,
		pgx.NamedArgs{"userID": userID, "from": from, "to": to})
	if err != nil {
		return nil, fmt.Errorf("listing workouts: %w", err)
	}
	return toModels[store.WorkoutRow, models.ScheduledWorkout](rows)
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
	saved, err := queryOne[store.WorkoutRow](ctx, s.pool,
		`INSERT INTO scheduled_workouts
		   (id, user_id, scheduled_date, name, workout_type, exercises, status, estimated_duration, notes)
		 VALUES
		   (@id, @userID, @date, @name, @workoutType, @exercises::jsonb, @status, @duration, @notes)
		 RETURNING `+workoutColumns,
		pgx.NamedArgs{
			"id":          row.ID,
			"userID":      row.UserID,
			"date":        row.ScheduledDate,
			"name":        row.Name,
			"workoutType": row.WorkoutType,
			"exercises":   row.Exercises,
			"status":      row.Status,
			"duration":    row.EstimatedDuration,
			"notes":       row.Notes,
		})
	if err != nil {
		return models.ScheduledWorkout{}, fmt.Errorf("creating workout: %w", err)
	}
	return saved.Model()
}

func (s *Store) UpdateWorkoutStatus(ctx context.Context, userID int, id string, status models.WorkoutStatus) (models.ScheduledWorkout, error) {
	row, err := queryOne[store.WorkoutRow](ctx, s.pool,
		`UPDATE scheduled_workouts SET status = @status
		 WHERE id = @id AND user_id = @userID
		 RETURNING `+workoutColumns,
		pgx.NamedArgs{"status": string(status), "id": id, "userID": userID})
	if err != nil {
		return models.ScheduledWorkout{}, err
	}
	return row.Model()
}

func (s *Store) DeleteScheduledWorkout(ctx context.Context, userID int, id string) error {
	return execAffecting(ctx, s.pool,
		`DELETE FROM scheduled_workouts WHERE id = @id AND user_id = @userID`,
		pgx.NamedArgs{"id": id, "userID": userID})
}

/* ─── Activity history ───────────────────────────────────────────────── */

func (s *Store) ListActivityHistory(ctx context.Context, userID int, from, to string) ([]models.ActivityRecord, error) {
	rows, err := queryMany[store.ActivityRow](ctx, s.pool,
		`SELECT `+activityColumns+` FROM activity_history
		 WHERE user_id = @userID AND date >= @from AND date <= @to
		 ORDER BY date, activity_type`,
		pgx.NamedArgs{"userID": userID, "from": from, "to": to})
	if err != nil {
		return nil, fmt.Errorf("listing activity history: %w", err)
	}
	out := make([]models.ActivityRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Model())
	}
	return out, nil
}

func (s *Store) UpsertActivity(ctx context.Context, rec models.ActivityRecord) (models.ActivityRecord, error) {
	args := pgx.NamedArgs{
		"userID":       rec.UserID,
		"date":         rec.Date,
		"activityType": rec.ActivityType,
		"completed":    rec.Completed,
		"updatedAt":    nil,
	}
	if !rec.UpdatedAt.IsZero() {
		args["updatedAt"] = rec.UpdatedAt
	}
	row, err := queryOne[store.ActivityRow](ctx, s.pool,
		`INSERT INTO activity_history (user_id, date, activity_type, completed, updated_at)
		 VALUES (@userID, @date, @activityType, @completed, COALESCE(@updatedAt::timestamptz, NOW()))
		 ON CONFLICT (user_id, date, activity_type) DO UPDATE SET
		   completed = EXCLUDED.completed,
		   updated_at = EXCLUDED.updated_at
		 RETURNING `+activityColumns,
		args)
	if err != nil {
		return models.ActivityRecord{}, fmt.Errorf("upserting %s on %s: %w", rec.ActivityType, rec.Date, err)
	}
	return row.Model(), nil
}

/* ─── Users and settings ─────────────────────────────────────────────── */

func (s *Store) UserByUsername(ctx context.Context, username string) (models.User, error) {
	row, err := queryOne[store.UserRow](ctx, s.pool,
		`SELECT id, username, email, auth_token, password, created_at FROM users WHERE username = @username`,
		pgx.NamedArgs{"username": username})
	if err != nil {
		return models.User{}, err
	}
	return row.Model(), nil
}

func (s *Store) UserIDByToken(ctx context.Context, token string) (int, error) {
	var id int
	err := s.pool.QueryRow(ctx, `SELECT id FROM users WHERE auth_token = @token`,
		pgx.NamedArgs{"token": token}).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, store.ErrNotFound
	}
	return id, err
}

// CreateUser inserts the user and its default nutrition settings in one
// transaction.
func (s *Store) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx,
		`INSERT INTO users (username, email, password, auth_token)
		 VALUES (@username, @email, @password, @token)
		 RETURNING id, username, email, auth_token, password, created_at`,
		pgx.NamedArgs{"username": u.Username, "email": u.Email, "password": u.Password, "token": u.AuthToken})
	if err != nil {
		return models.User{}, fmt.Errorf("creating user %q: %w", u.Username, err)
	}
	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[store.UserRow])
	if err != nil {
		return models.User{}, fmt.Errorf("creating user %q: %w", u.Username, err)
	}

	def := models.DefaultNutritionSettings(row.ID)
	if _, err := tx.Exec(ctx,
		`INSERT INTO nutrition_settings (user_id, calorie_budget, protein_target_g, carbs_target_g, fat_target_g)
		 VALUES (@userID, @budget, @protein, @carbs, @fat)`,
		pgx.NamedArgs{
			"userID":  def.UserID,
			"budget":  def.CalorieBudget,
			"protein": def.ProteinTargetG,
			"carbs":   def.CarbsTargetG,
			"fat":     def.FatTargetG,
		}); err != nil {
		return models.User{}, fmt.Errorf("creating nutrition settings: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return models.User{}, err
	}
	return row.Model(), nil
}

func (s *Store) GetNutritionSettings(ctx context.Context, userID int) (models.NutritionSettings, error) {
	row, err := queryOne[store.NutritionSettingsRow](ctx, s.pool,
		`SELECT `+settingsColumns+` FROM nutrition_settings WHERE user_id = @userID`,
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		return models.NutritionSettings{}, err
	}
	return row.Model(), nil
}

func (s *Store) SaveNutritionSettings(ctx context.Context, settings models.NutritionSettings) (models.NutritionSettings, error) {
	r := store.NewNutritionSettingsRow(settings)
	row, err := queryOne[store.NutritionSettingsRow](ctx, s.pool,
		`INSERT INTO nutrition_settings (
		   user_id, calorie_budget, protein_target_g, carbs_target_g, fat_target_g,
		   sex, date_of_birth, height_cm, weight_kg, activity_level,
		   target_weight_kg, target_date, budget_auto, setup_complete
		 ) VALUES (
		   @userID, @budget, @protein, @carbs, @fat,
		   @sex, @dob::date, @height, @weight, @activity,
		   @targetWeight, @targetDate::date, @budgetAuto, @setupComplete
		 )
		 ON CONFLICT (user_id) DO UPDATE SET
		   calorie_budget = EXCLUDED.calorie_budget,
		   protein_target_g = EXCLUDED.protein_target_g,
		   carbs_target_g = EXCLUDED.carbs_target_g,
		   fat_target_g = EXCLUDED.fat_target_g,
		   sex = EXCLUDED.sex,
		   date_of_birth = EXCLUDED.date_of_birth,
		   height_cm = EXCLUDED.height_cm,
		   weight_kg = EXCLUDED.weight_kg,
		   activity_level = EXCLUDED.activity_level,
		   target_weight_kg = EXCLUDED.target_weight_kg,
		   target_date = EXCLUDED.target_date,
		   budget_auto = EXCLUDED.budget_auto,
		   setup_complete = EXCLUDED.setup_complete
		 RETURNING `+settingsColumns,
		pgx.NamedArgs{
			"userID":        r.UserID,
			"budget":        r.CalorieBudget,
			"protein":       r.ProteinTargetG,
			"carbs":         r.CarbsTargetG,
			"fat":           r.FatTargetG,
			"sex":           r.Sex,
			"dob":           r.DateOfBirth,
			"height":        r.HeightCM,
			"weight":        r.WeightKG,
			"activity":      r.ActivityLevel,
			"targetWeight":  r.TargetWeightKG,
			"targetDate":    r.TargetDate,
			"budgetAuto":    r.BudgetAuto,
			"setupComplete": r.SetupComplete,
		})
	if err != nil {
		return models.NutritionSettings{}, fmt.Errorf("saving nutrition settings: %w", err)
	}
	return row.Model(), nil
}
