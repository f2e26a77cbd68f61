// Package repository defines the data-access contracts for the somnus
// backend. Every method is scoped to a single user; implementations must
// never alias one user's collections into another's, and concurrent
// writes to a user's collections are serialized (last writer wins, per
// the upsert-by-date semantics on sessions and check-ins).
package repository

import (
	"context"

	"github.com/somnus-app/backend/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	Upsert(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// TokenRepository maps opaque session tokens to user IDs.
type TokenRepository interface {
	Store(ctx context.Context, token, userID string) error
	Resolve(ctx context.Context, token string) (string, error)
}

// SleepRepository defines the interface for sleep session data access.
// ListSessions returns sessions ordered most-recent-first.
type SleepRepository interface {
	ListSessions(ctx context.Context, userID string) ([]models.SleepSession, error)
	UpsertSession(ctx context.Context, session models.SleepSession) error
	OverwriteSessions(ctx context.Context, userID string, sessions []models.SleepSession) error
}

// HabitRepository defines the interface for habit catalogue and check-in
// data access. Check-in history is unordered.
type HabitRepository interface {
	ListHabits(ctx context.Context, userID string) ([]models.Habit, error)
	SetHabits(ctx context.Context, userID string, habits []models.Habit) error
	RecordCheckin(ctx context.Context, checkin models.HabitCheckin) error
	GetCheckin(ctx context.Context, userID, localDate, habitID string) (*models.HabitCheckin, error)
	ListCheckins(ctx context.Context, userID string) ([]models.HabitCheckin, error)
}

// ErrNotFound is returned by lookups that miss. Callers that treat a
// miss as a default case (e.g. no check-in recorded) check for it with
// errors.Is.
var ErrNotFound = Error("not found")

// Error is a trivial constant-friendly error type.
type Error string

func (e Error) Error() string { return string(e) }
