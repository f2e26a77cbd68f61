package service

import (
	"context"
	"io"

	"github.com/somnus-app/backend/internal/models"
	"github.com/somnus-app/backend/pkg/garmin"
)

// AuthService defines the interface for authentication business logic
type AuthService interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
}

// HabitService defines the interface for habit catalogue business logic
type HabitService interface {
	// GetHabits returns the user's catalogue joined with check-in state
	// for the target date, provisioning defaults on first access.
	GetHabits(ctx context.Context, userID, targetDate string) ([]models.HabitStatus, error)
	CheckIn(ctx context.Context, userID string, req *models.CheckinRequest) (*models.HabitStatus, error)
	// Snapshot classifies the catalogue into positive/negative groups
	// and counts completion for one date.
	Snapshot(ctx context.Context, userID, targetDate string) (models.HabitSnapshot, error)
}

// SleepService defines the interface for the sleep analytics engine
type SleepService interface {
	Summary(ctx context.Context, user *models.User) (*models.SleepSummary, error)
	RecordManualEntry(ctx context.Context, userID string, req *models.ManualSleepRequest) (*models.SleepSession, error)
	Timeline(ctx context.Context, userID, timeRange string) ([]models.SleepSession, error)
	Correlations(ctx context.Context, userID string) (*models.CorrelationReport, error)
}

// SyncService defines the interface for the wearable-sync collaborator
type SyncService interface {
	Connect(ctx context.Context, user *models.User, req *models.GarminConnectRequest) (*models.SyncResult, error)
	Pull(ctx context.Context, user *models.User) (*models.SyncResult, error)
}

// ImportService defines the interface for bulk CSV import
type ImportService interface {
	ImportCSV(ctx context.Context, userID string, r io.Reader) (*models.ImportResult, error)
}

// GarminClient is the slice of the Garmin Connect client the sync
// service depends on; the HTTP implementation lives in pkg/garmin.
type GarminClient interface {
	Login(ctx context.Context, email, password string) (string, error)
	ResumeLogin(ctx context.Context, mfaContext, code string) (string, error)
	FetchSleep(ctx context.Context, sessionToken, date string) (*garmin.Sleep, error)
}
