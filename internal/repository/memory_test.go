package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/somnus-app/backend/internal/models"
)

func TestMemoryStore_UpsertSessionReplacesByDate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	first := models.SleepSession{UserID: "u1", LocalDate: "2026-08-01", DurationMinutes: 400, Bedtime: "23:00", WakeTime: "06:40"}
	if err := store.UpsertSession(ctx, first); err != nil {
		t.Fatalf("UpsertSession: %v", err)
	}

	replacement := first
	replacement.DurationMinutes = 455
	if err := store.UpsertSession(ctx, replacement); err != nil {
		t.Fatalf("UpsertSession: %v", err)
	}

	sessions, err := store.ListSessions(ctx, "u1")
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("len(sessions) = %d, want 1", len(sessions))
	}
	if sessions[0].DurationMinutes != 455 {
		t.Errorf("DurationMinutes = %d, want 455 (later write should supersede)", sessions[0].DurationMinutes)
	}
}

func TestMemoryStore_SessionsOrderedMostRecentFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	dates := []string{"2026-08-03", "2026-08-01", "2026-08-05", "2026-08-02"}
	for _, d := range dates {
		if err := store.UpsertSession(ctx, models.SleepSession{UserID: "u1", LocalDate: d}); err != nil {
			t.Fatalf("UpsertSession(%s): %v", d, err)
		}
	}

	sessions, err := store.ListSessions(ctx, "u1")
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	want := []string{"2026-08-05", "2026-08-03", "2026-08-02", "2026-08-01"}
	for i, d := range want {
		if sessions[i].LocalDate != d {
			t.Errorf("sessions[%d].LocalDate = %s, want %s", i, sessions[i].LocalDate, d)
		}
	}
}

func TestMemoryStore_PerUserIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.UpsertSession(ctx, models.SleepSession{UserID: "u1", LocalDate: "2026-08-01"}); err != nil {
		t.Fatalf("UpsertSession: %v", err)
	}
	if err := store.RecordCheckin(ctx, models.HabitCheckin{
		UserID: "u1", HabitID: "habit-read", LocalDate: "2026-08-01",
		Value: models.BoolValue(true), Timestamp: time.Now(),
	}); err != nil {
		t.Fatalf("RecordCheckin: %v", err)
	}

	sessions, _ := store.ListSessions(ctx, "u2")
	if len(sessions) != 0 {
		t.Errorf("u2 sees %d of u1's sessions", len(sessions))
	}
	checkins, _ := store.ListCheckins(ctx, "u2")
	if len(checkins) != 0 {
		t.Errorf("u2 sees %d of u1's check-ins", len(checkins))
	}
}

func TestMemoryStore_CheckinOverwrite(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	first := models.HabitCheckin{
		UserID: "u1", HabitID: "habit-read", LocalDate: "2026-08-01",
		Value: models.BoolValue(true), Timestamp: time.Date(2026, 8, 1, 21, 0, 0, 0, time.UTC),
	}
	if err := store.RecordCheckin(ctx, first); err != nil {
		t.Fatalf("RecordCheckin: %v", err)
	}

	second := first
	second.Value = models.BoolValue(false)
	second.Timestamp = first.Timestamp.Add(time.Hour)
	if err := store.RecordCheckin(ctx, second); err != nil {
		t.Fatalf("RecordCheckin: %v", err)
	}

	got, err := store.GetCheckin(ctx, "u1", "2026-08-01", "habit-read")
	if err != nil {
		t.Fatalf("GetCheckin: %v", err)
	}
	if got.Value.Performed() {
		t.Errorf("Value = performed, want overwritten to false")
	}
	if !got.Timestamp.Equal(second.Timestamp) {
		t.Errorf("Timestamp = %v, want %v", got.Timestamp, second.Timestamp)
	}
}

func TestMemoryStore_LookupMisses(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, err := store.GetByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID error = %v, want ErrNotFound", err)
	}
	if _, err := store.Resolve(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve error = %v, want ErrNotFound", err)
	}
	if _, err := store.GetCheckin(ctx, "u1", "2026-08-01", "habit-read"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetCheckin error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_GetByEmailCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Upsert(ctx, &models.User{ID: "u1", Email: "Night@Owl.example"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	user, err := store.GetByEmail(ctx, "night@owl.example")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if user.ID != "u1" {
		t.Errorf("user.ID = %s, want u1", user.ID)
	}
}
