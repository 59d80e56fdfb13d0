// ABOUTME: MCP resource implementations for the fitness store.
// ABOUTME: Provides fittrack://today and fittrack://summary resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/fittrack/internal/models"
)

func (s *Server) registerResources() {
	// fittrack://today - everything logged today
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "fittrack://today",
		Name:        "Today's Fitness Data",
		Description: "Workouts, meals, steps, and weight logged today",
		MIMEType:    "application/json",
	}, s.handleTodayResource)

	// fittrack://summary - dashboard with streaks, records, and recent workouts
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "fittrack://summary",
		Name:        "Fitness Summary Dashboard",
		Description: "Streaks, personal records, achievements, and recent workouts",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)
}

// Resource handlers

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	today := models.Today()

	result := map[string]interface{}{
		"date":     today,
		"workouts": s.store.GetWorkoutsInRange(ctx, s.userID, today, today),
	}

	if n, err := s.store.GetNutrition(ctx, s.userID, today); err == nil {
		cals, protein, carbs, fat := n.Totals()
		result["nutrition"] = map[string]interface{}{
			"meals":    n.Meals,
			"calories": cals,
			"protein":  protein,
			"carbs":    carbs,
			"fat":      fat,
		}
	}
	if steps, err := s.store.GetSteps(ctx, s.userID, today); err == nil {
		result["steps"] = steps.Count
	}
	if w, err := s.store.GetWeight(ctx, s.userID, today); err == nil {
		result["weight"] = w.Weight
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      "fittrack://today",
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

func (s *Server) handleSummaryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	dates := s.store.WorkoutDates(ctx, s.userID)
	page := s.store.ListWorkouts(ctx, s.userID, 10, 0)

	var unlocked []models.Achievement
	for _, a := range s.store.ListAchievements(ctx, s.userID) {
		if a.Unlocked {
			unlocked = append(unlocked, a)
		}
	}

	result := map[string]interface{}{
		"generated_at":     time.Now().Format(time.RFC3339),
		"total_workouts":   page.Total,
		"current_streak":   models.CurrentStreak(dates, models.Today()),
		"longest_streak":   models.LongestStreak(dates),
		"personal_records": s.store.GetPersonalRecords(ctx, s.userID),
		"achievements":     unlocked,
		"recent_workouts":  page.Workouts,
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      "fittrack://summary",
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
