package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/somnus-app/backend/internal/clockmath"
	"github.com/somnus-app/backend/internal/models"
	"github.com/somnus-app/backend/internal/repository"
)

// importColumns is the expected CSV header, in order.
var importColumns = []string{
	"type", "date", "sleep_score", "duration_minutes",
	"bedtime", "wake_time", "habit_id", "habit_name", "value",
}

type importService struct {
	sleepRepo repository.SleepRepository
	habits    HabitService
}

// NewImportService creates a new bulk import service
func NewImportService(sleepRepo repository.SleepRepository, habits HabitService) ImportService {
	return &importService{
		sleepRepo: sleepRepo,
		habits:    habits,
	}
}

// ImportCSV routes type=sleep rows into manual sleep entries and
// type=habit rows into check-ins. Malformed rows are skipped and
// collected into a bounded error list; a bad row never aborts the rest
// of the file.
func (s *importService) ImportCSV(ctx context.Context, userID string, r io.Reader) (*models.ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if err := validateHeader(header); err != nil {
		return nil, err
	}

	result := &models.ImportResult{}
	line := 1
	for {
		line++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Skipped++
			result.AddError(fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		if len(record) < len(importColumns) {
			result.Skipped++
			result.AddError(fmt.Sprintf("line %d: expected %d columns, got %d", line, len(importColumns), len(record)))
			continue
		}

		if err := s.importRow(ctx, userID, record); err != nil {
			result.Skipped++
			result.AddError(fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		switch strings.ToLower(strings.TrimSpace(record[0])) {
		case "sleep":
			result.SleepImported++
		case "habit":
			result.HabitsImported++
		}
	}

	return result, nil
}

func validateHeader(header []string) error {
	if len(header) < len(importColumns) {
		return fmt.Errorf("invalid CSV header: expected columns %s", strings.Join(importColumns, ","))
	}
	for i, want := range importColumns {
		if strings.ToLower(strings.TrimSpace(header[i])) != want {
			return fmt.Errorf("invalid CSV header: column %d is %q, want %q", i+1, header[i], want)
		}
	}
	return nil
}

func (s *importService) importRow(ctx context.Context, userID string, record []string) error {
	rowType := strings.ToLower(strings.TrimSpace(record[0]))
	date := strings.TrimSpace(record[1])
	if _, err := time.Parse(models.DateFormat, date); err != nil {
		return fmt.Errorf("invalid date %q", date)
	}

	switch rowType {
	case "sleep":
		return s.importSleepRow(ctx, userID, date, record)
	case "habit":
		return s.importHabitRow(ctx, userID, date, record)
	default:
		return fmt.Errorf("unknown row type %q", record[0])
	}
}

func (s *importService) importSleepRow(ctx context.Context, userID, date string, record []string) error {
	duration, err := strconv.Atoi(strings.TrimSpace(record[3]))
	if err != nil || duration < 0 {
		return fmt.Errorf("invalid duration_minutes %q", record[3])
	}

	var score *int
	if raw := strings.TrimSpace(record[2]); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid sleep_score %q", raw)
		}
		score = &parsed
	}

	bedtime := strings.TrimSpace(record[4])
	wake := strings.TrimSpace(record[5])
	if _, err := clockmath.ToMinutes(bedtime); err != nil {
		return fmt.Errorf("invalid bedtime %q", bedtime)
	}
	if _, err := clockmath.ToMinutes(wake); err != nil {
		return fmt.Errorf("invalid wake_time %q", wake)
	}

	return s.sleepRepo.UpsertSession(ctx, models.SleepSession{
		UserID:          userID,
		LocalDate:       date,
		DurationMinutes: duration,
		SleepScore:      score,
		Bedtime:         bedtime,
		WakeTime:        wake,
	})
}

func (s *importService) importHabitRow(ctx context.Context, userID, date string, record []string) error {
	habitID := strings.TrimSpace(record[6])
	if habitID == "" {
		return fmt.Errorf("habit row missing habit_id")
	}

	value, err := parseCheckinValue(strings.TrimSpace(record[8]))
	if err != nil {
		return err
	}

	_, err = s.habits.CheckIn(ctx, userID, &models.CheckinRequest{
		HabitID:   habitID,
		Value:     value,
		LocalDate: date,
	})
	return err
}

// parseCheckinValue accepts true/false or a non-negative integer count.
func parseCheckinValue(raw string) (models.CheckinValue, error) {
	switch strings.ToLower(raw) {
	case "true", "yes", "1":
		return models.BoolValue(true), nil
	case "false", "no", "0", "":
		return models.BoolValue(false), nil
	}
	count, err := strconv.Atoi(raw)
	if err != nil || count < 0 {
		return models.CheckinValue{}, fmt.Errorf("invalid value %q", raw)
	}
	return models.CountValue(count), nil
}
