package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/somnus-app/backend/internal/models"
	"github.com/somnus-app/backend/internal/repository"
)

const importHeader = "type,date,sleep_score,duration_minutes,bedtime,wake_time,habit_id,habit_name,value\n"

func newTestImportService(t *testing.T) (ImportService, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	habits := NewHabitService(store).(*habitService)
	habits.now = func() time.Time { return testNow }
	return NewImportService(store, habits), store
}

func TestImportCSVMixedRows(t *testing.T) {
	svc, store := newTestImportService(t)
	ctx := context.Background()

	csv := importHeader +
		"sleep,2026-08-25,82,430,23:10,06:20,,,\n" +
		"sleep,2026-08-26,,415,23:30,06:25,,,\n" + // score optional
		"habit,2026-08-25,,,,,habit-read,Read,true\n" +
		"habit,2026-08-26,,,,,habit-no-caffeine,Caffeine,2\n" +
		"sleep,not-a-date,80,430,23:00,06:00,,,\n" + // bad date
		"sleep,2026-08-27,80,many,23:00,06:00,,,\n" + // bad duration
		"sleep,2026-08-27,80,430,late,06:00,,,\n" + // bad bedtime
		"habit,2026-08-27,,,,,,,true\n" + // missing habit_id
		"nap,2026-08-27,,,,,,,\n" // unknown type

	result, err := svc.ImportCSV(ctx, "user-1", strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ImportCSV() error = %v", err)
	}

	if result.SleepImported != 2 {
		t.Errorf("SleepImported = %d, want 2", result.SleepImported)
	}
	if result.HabitsImported != 2 {
		t.Errorf("HabitsImported = %d, want 2", result.HabitsImported)
	}
	if result.Skipped != 5 {
		t.Errorf("Skipped = %d, want 5", result.Skipped)
	}
	if len(result.Errors) != 5 {
		t.Errorf("len(Errors) = %d, want 5", len(result.Errors))
	}

	sessions, err := store.ListSessions(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("len(sessions) = %d, want 2", len(sessions))
	}
	if sessions[0].LocalDate != "2026-08-26" || sessions[0].SleepScore != nil {
		t.Errorf("sessions[0] = %+v, want 2026-08-26 without score", sessions[0])
	}

	checkin, err := store.GetCheckin(ctx, "user-1", "2026-08-26", "habit-no-caffeine")
	if err != nil {
		t.Fatalf("GetCheckin() error = %v", err)
	}
	if checkin.Value.Kind != models.ValueCount || checkin.Value.Count != 2 {
		t.Errorf("checkin.Value = %+v, want count 2", checkin.Value)
	}
}

func TestImportCSVErrorCap(t *testing.T) {
	svc, _ := newTestImportService(t)

	var sb strings.Builder
	sb.WriteString(importHeader)
	for i := 0; i < 15; i++ {
		fmt.Fprintf(&sb, "sleep,bad-date-%d,80,430,23:00,06:00,,,\n", i)
	}

	result, err := svc.ImportCSV(context.Background(), "user-1", strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("ImportCSV() error = %v", err)
	}
	if result.Skipped != 15 {
		t.Errorf("Skipped = %d, want 15", result.Skipped)
	}
	if len(result.Errors) != models.MaxImportErrors {
		t.Errorf("len(Errors) = %d, want cap of %d", len(result.Errors), models.MaxImportErrors)
	}
}

func TestImportCSVRejectsBadHeader(t *testing.T) {
	svc, _ := newTestImportService(t)

	tests := []struct {
		name string
		csv  string
	}{
		{name: "wrong columns", csv: "kind,when,score\nsleep,2026-08-25,80\n"},
		{name: "empty input", csv: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.ImportCSV(context.Background(), "user-1", strings.NewReader(tt.csv)); err == nil {
				t.Error("ImportCSV() error = nil, want header rejection")
			}
		})
	}
}

func TestParseCheckinValue(t *testing.T) {
	tests := []struct {
		raw       string
		wantKind  models.CheckinValueKind
		performed bool
		wantErr   bool
	}{
		{raw: "true", wantKind: models.ValueBool, performed: true},
		{raw: "YES", wantKind: models.ValueBool, performed: true},
		{raw: "false", wantKind: models.ValueBool, performed: false},
		{raw: "", wantKind: models.ValueBool, performed: false},
		{raw: "0", wantKind: models.ValueBool, performed: false},
		{raw: "3", wantKind: models.ValueCount, performed: true},
		{raw: "-2", wantErr: true},
		{raw: "maybe", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			value, err := parseCheckinValue(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseCheckinValue(%q) error = nil, want error", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseCheckinValue(%q) error = %v", tt.raw, err)
			}
			if value.Kind != tt.wantKind || value.Performed() != tt.performed {
				t.Errorf("parseCheckinValue(%q) = %+v, want kind %v performed %v", tt.raw, value, tt.wantKind, tt.performed)
			}
		})
	}
}
