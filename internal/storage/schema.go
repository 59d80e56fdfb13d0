// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Tables for users, training, nutrition, daily records, sync queue, and metadata.
package storage

// initSchema creates or updates the database schema. Idempotent.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		units TEXT NOT NULL DEFAULT 'metric',
		calorie_target INTEGER NOT NULL DEFAULT 2000,
		step_target INTEGER NOT NULL DEFAULT 10000,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS workout_logs (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		notes TEXT,
		duration_minutes INTEGER,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS exercise_logs (
		id TEXT PRIMARY KEY,
		workout_log_id TEXT NOT NULL REFERENCES workout_logs(id) ON DELETE CASCADE,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		order_index INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS set_logs (
		id TEXT PRIMARY KEY,
		exercise_log_id TEXT NOT NULL REFERENCES exercise_logs(id) ON DELETE CASCADE,
		user_id TEXT NOT NULL,
		order_index INTEGER NOT NULL DEFAULT 0,
		reps INTEGER NOT NULL,
		weight REAL NOT NULL,
		rpe REAL,
		completed INTEGER NOT NULL DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS daily_nutrition (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		date TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE(user_id, date)
	);

	CREATE TABLE IF NOT EXISTS meals (
		id TEXT PRIMARY KEY,
		nutrition_id TEXT NOT NULL REFERENCES daily_nutrition(id) ON DELETE CASCADE,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		calories REAL NOT NULL DEFAULT 0,
		protein REAL NOT NULL DEFAULT 0,
		carbs REAL NOT NULL DEFAULT 0,
		fat REAL NOT NULL DEFAULT 0,
		preset_id TEXT,
		serving_multiplier REAL NOT NULL DEFAULT 1,
		order_index INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS food_presets (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		calories REAL NOT NULL DEFAULT 0,
		protein REAL NOT NULL DEFAULT 0,
		carbs REAL NOT NULL DEFAULT 0,
		fat REAL NOT NULL DEFAULT 0,
		serving_unit TEXT NOT NULL DEFAULT 'serving',
		last_used_at TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS daily_steps (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		date TEXT NOT NULL,
		steps INTEGER NOT NULL DEFAULT 0,
		source TEXT NOT NULL DEFAULT 'manual',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE(user_id, date)
	);

	CREATE TABLE IF NOT EXISTS daily_weights (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		date TEXT NOT NULL,
		weight REAL NOT NULL,
		source TEXT NOT NULL DEFAULT 'manual',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE(user_id, date)
	);

	CREATE TABLE IF NOT EXISTS personal_records (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		exercise_name TEXT NOT NULL,
		weight REAL NOT NULL,
		reps INTEGER NOT NULL,
		workout_log_id TEXT,
		achieved_on TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE(user_id, exercise_name)
	);

	CREATE TABLE IF NOT EXISTS workout_templates (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		notes TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS exercise_templates (
		id TEXT PRIMARY KEY,
		template_id TEXT NOT NULL REFERENCES workout_templates(id) ON DELETE CASCADE,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		order_index INTEGER NOT NULL DEFAULT 0,
		target_sets INTEGER NOT NULL DEFAULT 3,
		target_reps INTEGER NOT NULL DEFAULT 10,
		target_weight REAL NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS custom_exercises (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		muscle_group TEXT NOT NULL DEFAULT '',
		equipment TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE(user_id, name)
	);

	CREATE TABLE IF NOT EXISTS achievements (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		key TEXT NOT NULL,
		current REAL NOT NULL DEFAULT 0,
		target REAL NOT NULL,
		unlocked INTEGER NOT NULL DEFAULT 0,
		unlocked_at TEXT,
		updated_at TEXT NOT NULL,
		UNIQUE(user_id, key)
	);

	CREATE TABLE IF NOT EXISTS sync_queue (
		id TEXT PRIMARY KEY,
		table_name TEXT NOT NULL,
		record_id TEXT NOT NULL,
		operation TEXT NOT NULL,
		payload TEXT NOT NULL,
		created_at TEXT NOT NULL,
		processed_at TEXT,
		last_error TEXT
	);

	CREATE TABLE IF NOT EXISTS sync_metadata (
		table_name TEXT PRIMARY KEY,
		last_pulled_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS app_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_workout_logs_user_date ON workout_logs(user_id, date);
	CREATE INDEX IF NOT EXISTS idx_exercise_logs_workout ON exercise_logs(workout_log_id);
	CREATE INDEX IF NOT EXISTS idx_exercise_logs_user_name ON exercise_logs(user_id, name);
	CREATE INDEX IF NOT EXISTS idx_set_logs_exercise ON set_logs(exercise_log_id);
	CREATE INDEX IF NOT EXISTS idx_meals_nutrition ON meals(nutrition_id);
	CREATE INDEX IF NOT EXISTS idx_food_presets_user_name ON food_presets(user_id, name);
	CREATE INDEX IF NOT EXISTS idx_food_presets_last_used ON food_presets(user_id, last_used_at DESC);
	CREATE INDEX IF NOT EXISTS idx_personal_records_user_name ON personal_records(user_id, exercise_name);
	CREATE INDEX IF NOT EXISTS idx_workout_templates_user_name ON workout_templates(user_id, name);
	CREATE INDEX IF NOT EXISTS idx_exercise_templates_template ON exercise_templates(template_id);
	CREATE INDEX IF NOT EXISTS idx_custom_exercises_user_name ON custom_exercises(user_id, name);
	CREATE INDEX IF NOT EXISTS idx_achievements_user_key ON achievements(user_id, key);
	CREATE INDEX IF NOT EXISTS idx_sync_queue_pending ON sync_queue(processed_at, created_at);
	CREATE INDEX IF NOT EXISTS idx_sync_queue_record ON sync_queue(table_name, record_id);
	`

	_, err := d.db.Exec(schema)
	return err
}
