package service

import (
	"context"
	"fmt"
	"time"

	"github.com/somnus-app/backend/internal/clockmath"
	"github.com/somnus-app/backend/internal/models"
	"github.com/somnus-app/backend/internal/repository"
)

// trailingWindow is the number of most-recent sessions feeding the
// rolling aggregate.
const trailingWindow = 7

// timelineWindows maps a requested range to the number of most-recent
// sessions it covers.
var timelineWindows = map[string]int{
	"week":  7,
	"month": 30,
	"year":  365,
}

type sleepService struct {
	sleepRepo repository.SleepRepository
	habitRepo repository.HabitRepository
	habits    HabitService
	now       func() time.Time
}

// NewSleepService creates a new sleep analytics service
func NewSleepService(sleepRepo repository.SleepRepository, habitRepo repository.HabitRepository, habits HabitService) SleepService {
	return &sleepService{
		sleepRepo: sleepRepo,
		habitRepo: habitRepo,
		habits:    habits,
		now:       time.Now,
	}
}

func (s *sleepService) Summary(ctx context.Context, user *models.User) (*models.SleepSummary, error) {
	sessions, err := s.sleepRepo.ListSessions(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sleep sessions: %w", err)
	}

	summary := &models.SleepSummary{
		User: models.SummaryUser{
			Email:           user.Email,
			GarminConnected: user.GarminConnected,
		},
	}

	// The habit snapshot follows the most recent night when history
	// exists; with no history it reflects today.
	snapshotDate := s.now().Format(models.DateFormat)

	if len(sessions) > 0 {
		last := sessions[0]
		summary.LastNight = &models.LastNight{
			Date:            last.LocalDate,
			DurationMinutes: last.DurationMinutes,
			SleepScore:      last.SleepScore,
			Bedtime:         last.Bedtime,
			WakeTime:        last.WakeTime,
			Stages:          last.StageMinutes,
		}

		trailing := sessions
		if len(trailing) > trailingWindow {
			trailing = trailing[:trailingWindow]
		}
		stats, err := buildTrailing(trailing)
		if err != nil {
			return nil, err
		}
		summary.Trailing = stats
		snapshotDate = last.LocalDate
	}

	snapshot, err := s.habits.Snapshot(ctx, user.ID, snapshotDate)
	if err != nil {
		return nil, fmt.Errorf("failed to build habit snapshot: %w", err)
	}
	summary.Habits = snapshot

	return summary, nil
}

// buildTrailing aggregates an already-capped trailing window of
// sessions: mean duration, mean of the non-nil scores (nil when none),
// the wrapped-mean sleep midpoint, and bedtime consistency.
//
// The midpoint averages (bedtime + duration/2) mod 1440 per night rather
// than a true angular mean. For windows whose bedtimes straddle
// midnight the result can be biased toward midday; the figure is kept
// bit-compatible with the historical arithmetic on purpose.
func buildTrailing(trailing []models.SleepSession) (*models.TrailingStats, error) {
	durations := make([]float64, 0, len(trailing))
	midpoints := make([]float64, 0, len(trailing))
	bedtimes := make([]float64, 0, len(trailing))
	var scores []float64

	for _, session := range trailing {
		durations = append(durations, float64(session.DurationMinutes))

		bedtime, err := clockmath.ToMinutes(session.Bedtime)
		if err != nil {
			return nil, fmt.Errorf("session %s: %w", session.LocalDate, err)
		}
		bedtimes = append(bedtimes, float64(bedtime))
		midpoints = append(midpoints, clockmath.WrapMinutes(float64(bedtime)+float64(session.DurationMinutes)/2))

		if session.SleepScore != nil {
			scores = append(scores, float64(*session.SleepScore))
		}
	}

	stats := &models.TrailingStats{
		AvgDurationMinutes: clockmath.Mean(durations),
		Midpoint:           clockmath.ToClock(int(clockmath.Mean(midpoints))),
		ConsistencyMinutes: int(clockmath.PStdev(bedtimes)),
	}
	if len(scores) > 0 {
		avg := clockmath.Mean(scores)
		stats.AvgScore = &avg
	}
	return stats, nil
}

func (s *sleepService) RecordManualEntry(ctx context.Context, userID string, req *models.ManualSleepRequest) (*models.SleepSession, error) {
	if _, err := time.Parse(models.DateFormat, req.LocalDate); err != nil {
		return nil, fmt.Errorf("invalid local_date %q: %w", req.LocalDate, err)
	}
	// Reject malformed clock strings at the boundary so the summary
	// builder never has to suppress them later.
	if _, err := clockmath.ToMinutes(req.Bedtime); err != nil {
		return nil, fmt.Errorf("bedtime: %w", err)
	}
	if _, err := clockmath.ToMinutes(req.WakeTime); err != nil {
		return nil, fmt.Errorf("wake_time: %w", err)
	}

	session := models.SleepSession{
		UserID:          userID,
		LocalDate:       req.LocalDate,
		DurationMinutes: req.DurationMinutes,
		SleepScore:      req.SleepScore,
		Bedtime:         req.Bedtime,
		WakeTime:        req.WakeTime,
		StageMinutes:    req.StageMinutes,
	}
	if err := s.sleepRepo.UpsertSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to upsert sleep session: %w", err)
	}
	return &session, nil
}

func (s *sleepService) Timeline(ctx context.Context, userID, timeRange string) ([]models.SleepSession, error) {
	window, ok := timelineWindows[timeRange]
	if !ok {
		return nil, fmt.Errorf("invalid range %q: must be week, month, or year", timeRange)
	}

	sessions, err := s.sleepRepo.ListSessions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sleep sessions: %w", err)
	}

	return projectTimeline(sessions, window), nil
}

// projectTimeline slices the most-recent-first history to the window and
// reverses it to chronological order for left-to-right chart rendering.
// Dates without a session are simply absent; no gap filling.
func projectTimeline(sessions []models.SleepSession, window int) []models.SleepSession {
	if len(sessions) > window {
		sessions = sessions[:window]
	}
	out := make([]models.SleepSession, len(sessions))
	for i, session := range sessions {
		out[len(sessions)-1-i] = session
	}
	return out
}
