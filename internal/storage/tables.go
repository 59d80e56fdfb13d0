// ABOUTME: Table registry: sync participation, user scoping, key columns, FK relations.
// ABOUTME: Shared by the document-store cascades, the sync service, and the migration service.
package storage

// Table names.
const (
	TableUsers             = "users"
	TableWorkoutLogs       = "workout_logs"
	TableExerciseLogs      = "exercise_logs"
	TableSetLogs           = "set_logs"
	TableDailyNutrition    = "daily_nutrition"
	TableMeals             = "meals"
	TableFoodPresets       = "food_presets"
	TableDailySteps        = "daily_steps"
	TableDailyWeights      = "daily_weights"
	TablePersonalRecords   = "personal_records"
	TableWorkoutTemplates  = "workout_templates"
	TableExerciseTemplates = "exercise_templates"
	TableCustomExercises   = "custom_exercises"
	TableAchievements      = "achievements"
	TableSyncQueue         = "sync_queue"
	TableSyncMetadata      = "sync_metadata"
	TableAppMeta           = "app_meta"
)

// AllTables lists every table the schema creates.
var AllTables = []string{
	TableUsers, TableWorkoutLogs, TableExerciseLogs, TableSetLogs,
	TableDailyNutrition, TableMeals, TableFoodPresets,
	TableDailySteps, TableDailyWeights, TablePersonalRecords,
	TableWorkoutTemplates, TableExerciseTemplates,
	TableCustomExercises, TableAchievements,
	TableSyncQueue, TableSyncMetadata, TableAppMeta,
}

// SyncTables lists tables replicated to the remote backend, parents before
// children so pulls can satisfy foreign keys in one pass.
var SyncTables = []string{
	TableUsers,
	TableWorkoutLogs, TableExerciseLogs, TableSetLogs,
	TableDailyNutrition, TableMeals, TableFoodPresets,
	TableDailySteps, TableDailyWeights, TablePersonalRecords,
	TableWorkoutTemplates, TableExerciseTemplates,
	TableCustomExercises, TableAchievements,
}

// UserScopedTables lists tables carrying a user_id ownership column.
var UserScopedTables = []string{
	TableWorkoutLogs, TableExerciseLogs, TableSetLogs,
	TableDailyNutrition, TableMeals, TableFoodPresets,
	TableDailySteps, TableDailyWeights, TablePersonalRecords,
	TableWorkoutTemplates, TableExerciseTemplates,
	TableCustomExercises, TableAchievements,
}

// Relation is a parent-child foreign key. The document-store backend uses
// these to implement cascade deletes explicitly; SQLite declares them.
type Relation struct {
	Parent     string
	Child      string
	ForeignKey string // column on the child referencing Parent's primary key
}

// Relations lists every FK relationship with ON DELETE CASCADE semantics.
var Relations = []Relation{
	{Parent: TableWorkoutLogs, Child: TableExerciseLogs, ForeignKey: "workout_log_id"},
	{Parent: TableExerciseLogs, Child: TableSetLogs, ForeignKey: "exercise_log_id"},
	{Parent: TableDailyNutrition, Child: TableMeals, ForeignKey: "nutrition_id"},
	{Parent: TableWorkoutTemplates, Child: TableExerciseTemplates, ForeignKey: "template_id"},
}

// PrimaryKey returns the primary key column of a table.
func PrimaryKey(table string) string {
	switch table {
	case TableSyncMetadata:
		return "table_name"
	case TableAppMeta:
		return "key"
	default:
		return "id"
	}
}
