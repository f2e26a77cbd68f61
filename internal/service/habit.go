package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/somnus-app/backend/internal/models"
	"github.com/somnus-app/backend/internal/repository"
)

// defaultHabits is the seed catalogue provisioned once per user on first
// access: five behaviors to build and four to avoid.
var defaultHabits = []models.Habit{
	{
		ID:          "habit-read",
		Name:        "Read ≥15 minutes",
		Kind:        models.HabitHealthy,
		Description: "Wind down with a book before bed.",
		DefaultOn:   true,
	},
	{
		ID:          "habit-meditate",
		Name:        "Meditate ≥10 minutes",
		Kind:        models.HabitHealthy,
		Description: "Reduce stress with a short mindfulness session.",
		DefaultOn:   true,
	},
	{
		ID:          "habit-no-screens",
		Name:        "No screens last hour",
		Kind:        models.HabitHealthy,
		Description: "Avoid blue light right before bed.",
		DefaultOn:   true,
	},
	{
		ID:          "habit-consistent-bedtime",
		Name:        "Bedtime between 22:30-23:30",
		Kind:        models.HabitHealthy,
		Description: "Aim for a consistent bedtime window.",
		DefaultOn:   true,
	},
	{
		ID:          "habit-no-alcohol",
		Name:        "No alcohol tonight",
		Kind:        models.HabitHealthy,
		Description: "Skip alcohol to improve recovery.",
		DefaultOn:   true,
	},
	{
		ID:          "habit-no-caffeine",
		Name:        "No caffeine after 14:00",
		Kind:        models.HabitUnhealthy,
		Description: "Late caffeine often delays sleep.",
		DefaultOn:   true,
	},
	{
		ID:          "habit-heavy-meal",
		Name:        "Large meal <3h before bed",
		Kind:        models.HabitUnhealthy,
		Description: "Heavy meals close to bedtime can disrupt sleep.",
		DefaultOn:   true,
	},
	{
		ID:          "habit-late-screens",
		Name:        "Screens in last hour",
		Kind:        models.HabitUnhealthy,
		Description: "Track if screens crept back in.",
		DefaultOn:   true,
	},
	{
		ID:          "habit-late-bedtime",
		Name:        "Bedtime after midnight",
		Kind:        models.HabitUnhealthy,
		Description: "Notice when bedtime slips later.",
		DefaultOn:   true,
	},
}

type habitService struct {
	habitRepo repository.HabitRepository
	now       func() time.Time
}

// NewHabitService creates a new habit service
func NewHabitService(habitRepo repository.HabitRepository) HabitService {
	return &habitService{
		habitRepo: habitRepo,
		now:       time.Now,
	}
}

// ensureDefaults provisions the seed catalogue for users who have none.
func (s *habitService) ensureDefaults(ctx context.Context, userID string) error {
	habits, err := s.habitRepo.ListHabits(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list habits: %w", err)
	}
	if len(habits) > 0 {
		return nil
	}

	seeded := make([]models.Habit, len(defaultHabits))
	copy(seeded, defaultHabits)
	if err := s.habitRepo.SetHabits(ctx, userID, seeded); err != nil {
		return fmt.Errorf("failed to seed default habits: %w", err)
	}
	return nil
}

func (s *habitService) GetHabits(ctx context.Context, userID, targetDate string) ([]models.HabitStatus, error) {
	if err := s.ensureDefaults(ctx, userID); err != nil {
		return nil, err
	}
	if targetDate == "" {
		targetDate = s.now().Format(models.DateFormat)
	}

	habits, err := s.habitRepo.ListHabits(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}

	statuses := make([]models.HabitStatus, 0, len(habits))
	for _, habit := range habits {
		status, err := s.statusFor(ctx, userID, habit, targetDate)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func (s *habitService) statusFor(ctx context.Context, userID string, habit models.Habit, targetDate string) (models.HabitStatus, error) {
	status := models.HabitStatus{
		ID:          habit.ID,
		Name:        habit.Name,
		Kind:        habit.Kind,
		Description: habit.Description,
		Icon:        habit.Icon,
		DefaultOn:   habit.DefaultOn,
		Value:       models.BoolValue(false),
	}

	checkin, err := s.habitRepo.GetCheckin(ctx, userID, targetDate, habit.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return status, nil
		}
		return status, fmt.Errorf("failed to get check-in: %w", err)
	}

	status.Value = checkin.Value
	ts := checkin.Timestamp.Format(time.RFC3339)
	status.LastCheckIn = &ts
	return status, nil
}

func (s *habitService) CheckIn(ctx context.Context, userID string, req *models.CheckinRequest) (*models.HabitStatus, error) {
	if err := s.ensureDefaults(ctx, userID); err != nil {
		return nil, err
	}

	targetDate := req.LocalDate
	if targetDate == "" {
		targetDate = s.now().Format(models.DateFormat)
	}

	checkin := models.HabitCheckin{
		UserID:    userID,
		HabitID:   req.HabitID,
		LocalDate: targetDate,
		Value:     req.Value,
		Timestamp: s.now().UTC(),
	}
	if err := s.habitRepo.RecordCheckin(ctx, checkin); err != nil {
		return nil, fmt.Errorf("failed to record check-in: %w", err)
	}

	habit, err := s.resolveHabit(ctx, userID, req.HabitID)
	if err != nil {
		return nil, err
	}

	ts := checkin.Timestamp.Format(time.RFC3339)
	return &models.HabitStatus{
		ID:          habit.ID,
		Name:        habit.Name,
		Kind:        habit.Kind,
		Description: habit.Description,
		Icon:        habit.Icon,
		DefaultOn:   habit.DefaultOn,
		Value:       checkin.Value,
		LastCheckIn: &ts,
	}, nil
}

// resolveHabit finds the habit in the catalogue, auto-registering
// unknown IDs as a minimal healthy habit so a check-in never blocks on a
// registration race. TODO: revisit once clients stop sending
// free-form habit IDs; this can mask client-side ID mismatches.
func (s *habitService) resolveHabit(ctx context.Context, userID, habitID string) (models.Habit, error) {
	habits, err := s.habitRepo.ListHabits(ctx, userID)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to list habits: %w", err)
	}
	for _, habit := range habits {
		if habit.ID == habitID {
			return habit, nil
		}
	}

	habit := models.Habit{
		ID:        habitID,
		Name:      habitID,
		Kind:      models.HabitHealthy,
		DefaultOn: true,
	}
	habits = append(habits, habit)
	if err := s.habitRepo.SetHabits(ctx, userID, habits); err != nil {
		return models.Habit{}, fmt.Errorf("failed to register habit: %w", err)
	}
	return habit, nil
}

func (s *habitService) Snapshot(ctx context.Context, userID, targetDate string) (models.HabitSnapshot, error) {
	statuses, err := s.GetHabits(ctx, userID, targetDate)
	if err != nil {
		return models.HabitSnapshot{}, err
	}
	return buildSnapshot(statuses), nil
}

// buildSnapshot counts completion per polarity. A positive habit counts
// when its value is truthy; a negative habit counts as completed (the
// behavior was avoided) when its value is falsy or absent.
func buildSnapshot(statuses []models.HabitStatus) models.HabitSnapshot {
	var snapshot models.HabitSnapshot
	for _, status := range statuses {
		switch status.Kind {
		case models.HabitUnhealthy:
			snapshot.NegativeTotal++
			if !status.Value.Performed() {
				snapshot.NegativeCompleted++
			}
		default:
			snapshot.PositiveTotal++
			if status.Value.Performed() {
				snapshot.PositiveCompleted++
			}
		}
	}
	return snapshot
}
