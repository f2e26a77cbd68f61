package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/somnus-app/backend/internal/clockmath"
	"github.com/somnus-app/backend/internal/models"
)

const (
	// minHistoryNights gates the whole report: with fewer sessions the
	// result is an empty set with an explanatory status, not an error.
	minHistoryNights = 7
	// minBucketSize is the per-habit evidence floor: both the with and
	// without buckets need this many scored nights or the habit is
	// silently dropped.
	minBucketSize = 3
)

func (s *sleepService) Correlations(ctx context.Context, userID string) (*models.CorrelationReport, error) {
	sessions, err := s.sleepRepo.ListSessions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sleep sessions: %w", err)
	}
	checkins, err := s.habitRepo.ListCheckins(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list check-ins: %w", err)
	}
	habits, err := s.habitRepo.ListHabits(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}

	return correlate(sessions, checkins, habits), nil
}

// correlate pairs each logged habit against sleep-score outcomes. For
// every scored night, the night lands in the habit's "with" bucket when
// a truthy check-in exists for that date, and in "without" otherwise —
// absence of a check-in means the habit was not performed, regardless of
// polarity. This reports correlation, not causation: no significance
// testing happens beyond the fixed bucket-size floor.
func correlate(sessions []models.SleepSession, checkins []models.HabitCheckin, habits []models.Habit) *models.CorrelationReport {
	if len(sessions) < minHistoryNights {
		return &models.CorrelationReport{
			Status:  fmt.Sprintf("Not enough sleep history to correlate habits; need at least %d nights, have %d.", minHistoryNights, len(sessions)),
			Results: []models.CorrelationRow{},
		}
	}

	// date -> habit -> value
	byDate := make(map[string]map[string]models.CheckinValue)
	candidateSet := make(map[string]bool)
	for _, checkin := range checkins {
		day := byDate[checkin.LocalDate]
		if day == nil {
			day = make(map[string]models.CheckinValue)
			byDate[checkin.LocalDate] = day
		}
		day[checkin.HabitID] = checkin.Value
		candidateSet[checkin.HabitID] = true
	}

	// Only habits that were ever logged produce a row. Candidates are
	// walked in sorted ID order so the stable effect-size sort below
	// yields a deterministic tie order.
	candidates := make([]string, 0, len(candidateSet))
	for habitID := range candidateSet {
		candidates = append(candidates, habitID)
	}
	sort.Strings(candidates)

	habitsByID := make(map[string]models.Habit, len(habits))
	for _, habit := range habits {
		habitsByID[habit.ID] = habit
	}

	results := []models.CorrelationRow{}
	for _, habitID := range candidates {
		var with, without []float64
		for _, session := range sessions {
			if session.SleepScore == nil {
				continue
			}
			score := float64(*session.SleepScore)
			value, ok := byDate[session.LocalDate][habitID]
			if ok && value.Performed() {
				with = append(with, score)
			} else {
				without = append(without, score)
			}
		}

		if len(with) < minBucketSize || len(without) < minBucketSize {
			continue
		}

		avgWith := round1(clockmath.Mean(with))
		avgWithout := round1(clockmath.Mean(without))

		row := models.CorrelationRow{
			HabitID:    habitID,
			HabitName:  habitID,
			HabitKind:  models.HabitHealthy,
			AvgWith:    avgWith,
			AvgWithout: avgWithout,
			Difference: round1(avgWith - avgWithout),
			NWith:      len(with),
			NWithout:   len(without),
		}
		if habit, ok := habitsByID[habitID]; ok {
			row.HabitName = habit.Name
			row.HabitKind = habit.Kind
		}
		results = append(results, row)
	}

	// Biggest-impact habits first, regardless of direction. Ties keep
	// the candidate order; no secondary key is defined.
	sort.SliceStable(results, func(i, j int) bool {
		return math.Abs(results[i].Difference) > math.Abs(results[j].Difference)
	})

	return &models.CorrelationReport{
		Status:  "ok",
		Results: results,
	}
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
