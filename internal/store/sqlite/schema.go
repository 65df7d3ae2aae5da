package sqlite

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations. Versions are
// sequential starting from 1; each one records itself in schema_version.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	username   TEXT NOT NULL UNIQUE,
	email      TEXT NOT NULL DEFAULT '',
	password   TEXT NOT NULL,
	auth_token TEXT NOT NULL UNIQUE,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS nutrition_settings (
	user_id          INTEGER PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
	calorie_budget   INTEGER NOT NULL DEFAULT 2000,
	protein_target_g INTEGER NOT NULL DEFAULT 150,
	carbs_target_g   INTEGER NOT NULL DEFAULT 200,
	fat_target_g     INTEGER NOT NULL DEFAULT 65,
	sex              TEXT,
	date_of_birth    TEXT,
	height_cm        REAL,
	weight_kg        REAL,
	activity_level   TEXT,
	target_weight_kg REAL,
	target_date      TEXT,
	budget_auto      INTEGER NOT NULL DEFAULT 0,
	setup_complete   INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS foods (
	id           TEXT PRIMARY KEY,
	user_id      INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	name         TEXT NOT NULL,
	nutrition    TEXT NOT NULL DEFAULT '{}',
	is_unit_food INTEGER NOT NULL DEFAULT 0,
	cost         TEXT,
	UNIQUE (user_id, name)
);

CREATE TABLE IF NOT EXISTS meal_plans (
	user_id      INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	date         TEXT NOT NULL,
	timeslots    TEXT NOT NULL DEFAULT '{}',
	total_macros TEXT NOT NULL DEFAULT '{}',
	updated_at   DATETIME NOT NULL,
	PRIMARY KEY (user_id, date)
);

CREATE TABLE IF NOT EXISTS scheduled_activities (
	user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	date    TEXT NOT NULL,
	tasks   TEXT NOT NULL DEFAULT '[]',
	PRIMARY KEY (user_id, date)
);

CREATE TABLE IF NOT EXISTS scheduled_workouts (
	id                 TEXT PRIMARY KEY,
	user_id            INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	scheduled_date     TEXT NOT NULL,
	name               TEXT NOT NULL,
	workout_type       TEXT NOT NULL DEFAULT '',
	exercises          TEXT NOT NULL DEFAULT '[]',
	status             TEXT NOT NULL DEFAULT 'scheduled',
	estimated_duration INTEGER NOT NULL DEFAULT 0,
	notes              TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS activity_history (
	user_id       INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	date          TEXT NOT NULL,
	activity_type TEXT NOT NULL,
	completed     INTEGER NOT NULL DEFAULT 0,
	updated_at    DATETIME NOT NULL,
	PRIMARY KEY (user_id, date, activity_type)
);

CREATE INDEX IF NOT EXISTS idx_scheduled_workouts_user_date ON scheduled_workouts(user_id, scheduled_date);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
