// ABOUTME: DailyNutrition, Meal, and FoodPreset models for food tracking.
// ABOUTME: One nutrition record per user per calendar date; meals may reference presets.
package models

import (
	"time"

	"github.com/google/uuid"
)

// DailyNutrition is the single nutrition record for a user and date.
type DailyNutrition struct {
	ID        uuid.UUID
	UserID    string
	Date      string // YYYY-MM-DD
	CreatedAt time.Time
	UpdatedAt time.Time
	Meals     []Meal
}

// NewDailyNutrition creates the nutrition record for a date.
func NewDailyNutrition(userID, date string) *DailyNutrition {
	now := time.Now().UTC()
	return &DailyNutrition{
		ID:        uuid.New(),
		UserID:    userID,
		Date:      date,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddMeal appends a meal with the next order index.
func (n *DailyNutrition) AddMeal(name string, calories, protein, carbs, fat float64) *Meal {
	m := Meal{
		ID:                uuid.New(),
		NutritionID:       n.ID,
		UserID:            n.UserID,
		Name:              name,
		Calories:          calories,
		Protein:           protein,
		Carbs:             carbs,
		Fat:               fat,
		OrderIndex:        len(n.Meals),
		ServingMultiplier: 1,
		CreatedAt:         time.Now().UTC(),
	}
	n.Meals = append(n.Meals, m)
	return &n.Meals[len(n.Meals)-1]
}

// Totals returns the macro totals across all meals of the day.
func (n *DailyNutrition) Totals() (calories, protein, carbs, fat float64) {
	for _, m := range n.Meals {
		calories += m.Calories
		protein += m.Protein
		carbs += m.Carbs
		fat += m.Fat
	}
	return
}

// Meal is one eaten meal with its macro breakdown.
type Meal struct {
	ID                uuid.UUID
	NutritionID       uuid.UUID
	UserID            string
	Name              string
	Calories          float64
	Protein           float64
	Carbs             float64
	Fat               float64
	PresetID          *uuid.UUID
	ServingMultiplier float64
	OrderIndex        int
	CreatedAt         time.Time
}

// FromPreset links the meal to a preset and scales its macros by multiplier.
func (m *Meal) FromPreset(p *FoodPreset, multiplier float64) *Meal {
	m.PresetID = &p.ID
	m.ServingMultiplier = multiplier
	m.Name = p.Name
	m.Calories = p.Calories * multiplier
	m.Protein = p.Protein * multiplier
	m.Carbs = p.Carbs * multiplier
	m.Fat = p.Fat * multiplier
	return m
}

// FoodPreset is a reusable food/serving definition.
type FoodPreset struct {
	ID         uuid.UUID
	UserID     string
	Name       string
	Calories   float64
	Protein    float64
	Carbs      float64
	Fat        float64
	ServingUnit string
	LastUsedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewFoodPreset creates a preset with per-serving macros.
func NewFoodPreset(userID, name string, calories, protein, carbs, fat float64) *FoodPreset {
	now := time.Now().UTC()
	return &FoodPreset{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        name,
		Calories:    calories,
		Protein:     protein,
		Carbs:       carbs,
		Fat:         fat,
		ServingUnit: "serving",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
