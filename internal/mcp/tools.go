// ABOUTME: MCP tool implementations for the fitness store.
// ABOUTME: Logging tools for workouts, meals, and daily records, plus progress queries.
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/fittrack/internal/models"
)

func (s *Server) registerTools() {
	// log_workout
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_workout",
		Description: "Log a workout with exercises and sets",
	}, s.handleLogWorkout)

	// list_workouts
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_workouts",
		Description: "List recent workouts, newest first",
	}, s.handleListWorkouts)

	// log_meal
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_meal",
		Description: "Log a meal with its macros for a date",
	}, s.handleLogMeal)

	// log_weight
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_weight",
		Description: "Record body weight for a date",
	}, s.handleLogWeight)

	// log_steps
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_steps",
		Description: "Record a step count for a date",
	}, s.handleLogSteps)

	// get_personal_records
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_personal_records",
		Description: "Get all personal records, one per exercise",
	}, s.handleGetPersonalRecords)

	// get_progress_summary
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_progress_summary",
		Description: "Get workout counts, streaks, volume, and recent weight",
	}, s.handleGetProgressSummary)

	// search_exercises
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "search_exercises",
		Description: "Search the exercise catalog, custom exercises included",
	}, s.handleSearchExercises)
}

// Tool input/output types

// Required fields carry no omitempty in their json tag; the SDK derives the
// schema's required list from that.
type setInput struct {
	Reps   int     `json:"reps" jsonschema:"Repetitions performed"`
	Weight float64 `json:"weight" jsonschema:"Weight lifted"`
	RPE    float64 `json:"rpe,omitempty" jsonschema:"Rate of perceived exertion (1-10)"`
}

type exerciseInput struct {
	Name string     `json:"name" jsonschema:"Exercise name"`
	Sets []setInput `json:"sets" jsonschema:"Sets performed"`
}

type logWorkoutInput struct {
	Name            string          `json:"name" jsonschema:"Workout name"`
	Date            string          `json:"date,omitempty" jsonschema:"Date (YYYY-MM-DD) defaulting to today"`
	DurationMinutes int             `json:"duration_minutes,omitempty" jsonschema:"Duration in minutes"`
	Notes           string          `json:"notes,omitempty" jsonschema:"Workout notes"`
	Exercises       []exerciseInput `json:"exercises" jsonschema:"Exercises performed"`
}

type logWorkoutOutput struct {
	ID         string   `json:"id"`
	Volume     float64  `json:"volume"`
	NewRecords []string `json:"new_records,omitempty"`
	Message    string   `json:"message"`
}

type listWorkoutsInput struct {
	Limit  int `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
	Offset int `json:"offset,omitempty" jsonschema:"Results to skip"`
}

type logMealInput struct {
	Name     string  `json:"name" jsonschema:"Meal name"`
	Date     string  `json:"date,omitempty" jsonschema:"Date (YYYY-MM-DD) defaulting to today"`
	Calories float64 `json:"calories" jsonschema:"Calories"`
	Protein  float64 `json:"protein,omitempty" jsonschema:"Protein grams"`
	Carbs    float64 `json:"carbs,omitempty" jsonschema:"Carb grams"`
	Fat      float64 `json:"fat,omitempty" jsonschema:"Fat grams"`
}

type logWeightInput struct {
	Weight float64 `json:"weight" jsonschema:"Body weight"`
	Date   string  `json:"date,omitempty" jsonschema:"Date (YYYY-MM-DD) defaulting to today"`
}

type logStepsInput struct {
	Steps int    `json:"steps" jsonschema:"Step count"`
	Date  string `json:"date,omitempty" jsonschema:"Date (YYYY-MM-DD) defaulting to today"`
}

type searchExercisesInput struct {
	Query string `json:"query" jsonschema:"Name fragment to search for"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type progressSummary struct {
	TotalWorkouts  int      `json:"total_workouts"`
	CurrentStreak  int      `json:"current_streak"`
	LongestStreak  int      `json:"longest_streak"`
	RecordCount    int      `json:"record_count"`
	LatestWeight   *float64 `json:"latest_weight,omitempty"`
	LatestWeightOn string   `json:"latest_weight_on,omitempty"`
}

// Tool handlers

func (s *Server) handleLogWorkout(ctx context.Context, req *mcp.CallToolRequest, input logWorkoutInput) (*mcp.CallToolResult, logWorkoutOutput, error) {
	if len(input.Exercises) == 0 {
		return nil, logWorkoutOutput{}, fmt.Errorf("workout needs at least one exercise")
	}

	date := input.Date
	if date == "" {
		date = models.Today()
	}

	w := models.NewWorkoutLog(s.userID, date, input.Name)
	if input.DurationMinutes > 0 {
		w.WithDuration(input.DurationMinutes)
	}
	if input.Notes != "" {
		w.WithNotes(input.Notes)
	}
	for _, ei := range input.Exercises {
		e := w.AddExercise(ei.Name)
		for _, si := range ei.Sets {
			set := e.AddSet(si.Reps, si.Weight)
			if si.RPE > 0 {
				set.WithRPE(si.RPE)
			}
		}
	}

	records, err := s.store.SaveWorkout(ctx, w)
	if err != nil {
		return nil, logWorkoutOutput{}, fmt.Errorf("failed to save workout: %w", err)
	}
	s.store.RecomputeAchievements(ctx, s.userID)

	var recordNames []string
	for _, r := range records {
		recordNames = append(recordNames, fmt.Sprintf("%s %.1fx%d", r.ExerciseName, r.Weight, r.Reps))
	}

	return nil, logWorkoutOutput{
		ID:         w.ID.String()[:8],
		Volume:     w.TotalVolume(),
		NewRecords: recordNames,
		Message:    fmt.Sprintf("Logged %s on %s (ID: %s)", input.Name, date, w.ID.String()[:8]),
	}, nil
}

func (s *Server) handleListWorkouts(ctx context.Context, req *mcp.CallToolRequest, input listWorkoutsInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	page := s.store.ListWorkouts(ctx, s.userID, input.Limit, input.Offset)
	if len(page.Workouts) == 0 {
		return nil, map[string]interface{}{"message": "No workouts found."}, nil
	}

	return nil, map[string]interface{}{
		"workouts": page.Workouts,
		"total":    page.Total,
		"has_more": page.HasMore,
	}, nil
}

func (s *Server) handleLogMeal(ctx context.Context, req *mcp.CallToolRequest, input logMealInput) (*mcp.CallToolResult, simpleOutput, error) {
	date := input.Date
	if date == "" {
		date = models.Today()
	}

	n, err := s.store.GetNutrition(ctx, s.userID, date)
	if err != nil {
		n = models.NewDailyNutrition(s.userID, date)
	}
	n.AddMeal(input.Name, input.Calories, input.Protein, input.Carbs, input.Fat)

	if err := s.store.SaveNutrition(ctx, n); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to save meal: %w", err)
	}

	cals, _, _, _ := n.Totals()
	return nil, simpleOutput{
		Message: fmt.Sprintf("Logged %s (%.0f kcal). Day total: %.0f kcal", input.Name, input.Calories, cals),
	}, nil
}

func (s *Server) handleLogWeight(ctx context.Context, req *mcp.CallToolRequest, input logWeightInput) (*mcp.CallToolResult, simpleOutput, error) {
	date := input.Date
	if date == "" {
		date = models.Today()
	}

	d := models.NewDailyWeight(s.userID, date, input.Weight)
	if err := s.store.SaveWeight(ctx, d); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to save weight: %w", err)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Recorded weight %.1f for %s", input.Weight, date),
	}, nil
}

func (s *Server) handleLogSteps(ctx context.Context, req *mcp.CallToolRequest, input logStepsInput) (*mcp.CallToolResult, simpleOutput, error) {
	date := input.Date
	if date == "" {
		date = models.Today()
	}

	s.store.SaveSteps(ctx, models.NewDailySteps(s.userID, date, input.Steps))
	return nil, simpleOutput{
		Message: fmt.Sprintf("Recorded %d steps for %s", input.Steps, date),
	}, nil
}

func (s *Server) handleGetPersonalRecords(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, any, error) {
	records := s.store.GetPersonalRecords(ctx, s.userID)
	if len(records) == 0 {
		return nil, map[string]interface{}{"message": "No personal records yet."}, nil
	}
	return nil, records, nil
}

func (s *Server) handleGetProgressSummary(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, progressSummary, error) {
	dates := s.store.WorkoutDates(ctx, s.userID)
	page := s.store.ListWorkouts(ctx, s.userID, 1, 0)

	out := progressSummary{
		TotalWorkouts: page.Total,
		CurrentStreak: models.CurrentStreak(dates, models.Today()),
		LongestStreak: models.LongestStreak(dates),
		RecordCount:   len(s.store.GetPersonalRecords(ctx, s.userID)),
	}

	if w, err := s.store.LatestWeight(ctx, s.userID); err == nil {
		out.LatestWeight = &w.Weight
		out.LatestWeightOn = w.Date
	}

	return nil, out, nil
}

func (s *Server) handleSearchExercises(ctx context.Context, req *mcp.CallToolRequest, input searchExercisesInput) (*mcp.CallToolResult, any, error) {
	results := s.catalog.Search(ctx, s.userID, input.Query)
	if len(results) == 0 {
		return nil, map[string]interface{}{"message": "No matching exercises."}, nil
	}
	return nil, results, nil
}
