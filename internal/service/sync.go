package service

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/somnus-app/backend/internal/logger"
	"github.com/somnus-app/backend/internal/models"
	"github.com/somnus-app/backend/internal/repository"
	"github.com/somnus-app/backend/pkg/garmin"
)

// sample dataset bundled for demo mode; loaded when sync falls back.
//
//go:embed data/sample_garmin_sleep.json
var sampleSleepData []byte

// syncDays is how far back a connect/pull reaches.
const syncDays = 30

// mfaSession is a pending MFA challenge awaiting its verification code.
type mfaSession struct {
	userID     string
	email      string
	mfaContext string
	createdAt  time.Time
}

type syncService struct {
	client     GarminClient
	userRepo   repository.UserRepository
	sleepRepo  repository.SleepRepository
	sleepSvc   SleepService
	sampleMode bool
	now        func() time.Time

	mu            sync.Mutex
	mfaSessions   map[string]mfaSession
	sessionTokens map[string]string // userID -> Garmin session token
}

// NewSyncService creates a new wearable-sync service. When sampleMode is
// enabled, authentication and connectivity failures fall back to the
// bundled sample dataset; the result says so explicitly rather than
// hiding the substitution.
func NewSyncService(client GarminClient, userRepo repository.UserRepository, sleepRepo repository.SleepRepository, sleepSvc SleepService, sampleMode bool) SyncService {
	return &syncService{
		client:        client,
		userRepo:      userRepo,
		sleepRepo:     sleepRepo,
		sleepSvc:      sleepSvc,
		sampleMode:    sampleMode,
		now:           time.Now,
		mfaSessions:   make(map[string]mfaSession),
		sessionTokens: make(map[string]string),
	}
}

func (s *syncService) Connect(ctx context.Context, user *models.User, req *models.GarminConnectRequest) (*models.SyncResult, error) {
	if req.MFAToken != "" {
		return s.completeMFA(ctx, user, req)
	}

	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("email and password are required to connect")
	}

	token, err := s.client.Login(ctx, req.Email, req.Password)
	if err != nil {
		if gerr, ok := garmin.AsError(err); ok && gerr.Kind == garmin.KindMFARequired {
			return s.startMFA(user, req.Email, gerr.MFAToken), nil
		}
		return s.fallbackOrFail(ctx, user, err)
	}

	return s.finishConnect(ctx, user, token, "Garmin account connected successfully.")
}

// startMFA parks the challenge under a fresh opaque token for the client
// to redeem with its verification code.
func (s *syncService) startMFA(user *models.User, email, mfaContext string) *models.SyncResult {
	token := uuid.NewString()

	s.mu.Lock()
	s.mfaSessions[token] = mfaSession{
		userID:     user.ID,
		email:      email,
		mfaContext: mfaContext,
		createdAt:  s.now(),
	}
	s.mu.Unlock()

	return &models.SyncResult{
		Connected:   false,
		MFARequired: true,
		MFAToken:    token,
		Message:     "Multi-factor authentication required. Please supply the verification code.",
	}
}

func (s *syncService) completeMFA(ctx context.Context, user *models.User, req *models.GarminConnectRequest) (*models.SyncResult, error) {
	if req.MFACode == "" {
		return nil, fmt.Errorf("mfa_code is required to complete verification")
	}

	s.mu.Lock()
	session, ok := s.mfaSessions[req.MFAToken]
	delete(s.mfaSessions, req.MFAToken)
	s.mu.Unlock()

	if !ok || session.userID != user.ID {
		return nil, fmt.Errorf("invalid or expired MFA session")
	}

	token, err := s.client.ResumeLogin(ctx, session.mfaContext, req.MFACode)
	if err != nil {
		return nil, fmt.Errorf("failed to complete MFA: %w", err)
	}

	return s.finishConnect(ctx, user, token, "Garmin account connected after MFA verification.")
}

func (s *syncService) finishConnect(ctx context.Context, user *models.User, token, message string) (*models.SyncResult, error) {
	s.mu.Lock()
	s.sessionTokens[user.ID] = token
	s.mu.Unlock()

	user.GarminConnected = true
	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if err := s.syncRecent(ctx, user, token); err != nil {
		return s.fallbackOrFail(ctx, user, err)
	}

	return s.resultWithSummary(ctx, user, &models.SyncResult{
		Connected: true,
		Message:   message,
	})
}

func (s *syncService) Pull(ctx context.Context, user *models.User) (*models.SyncResult, error) {
	s.mu.Lock()
	token, ok := s.sessionTokens[user.ID]
	s.mu.Unlock()

	if !ok {
		return s.fallbackOrFail(ctx, user, &garmin.Error{Kind: garmin.KindTokenInvalid, Detail: "no stored session token"})
	}

	if err := s.syncRecent(ctx, user, token); err != nil {
		return s.fallbackOrFail(ctx, user, err)
	}

	return s.resultWithSummary(ctx, user, &models.SyncResult{
		Connected: true,
		Message:   "Pulled latest sleep data from Garmin.",
	})
}

// syncRecent fetches the last syncDays nights and overwrites the user's
// session history with whatever Garmin reported. Days without data are
// skipped, not gap-filled.
func (s *syncService) syncRecent(ctx context.Context, user *models.User, token string) error {
	today := s.now()
	sessions := make([]models.SleepSession, 0, syncDays)

	for offset := 0; offset < syncDays; offset++ {
		date := today.AddDate(0, 0, -offset).Format(models.DateFormat)
		sleep, err := s.client.FetchSleep(ctx, token, date)
		if err != nil {
			return err
		}
		if sleep == nil {
			continue
		}
		sessions = append(sessions, models.SleepSession{
			UserID:          user.ID,
			LocalDate:       sleep.CalendarDate,
			DurationMinutes: sleep.DurationMinutes,
			SleepScore:      sleep.SleepScore,
			Bedtime:         sleep.Bedtime,
			WakeTime:        sleep.WakeTime,
			StageMinutes:    sleep.StageMinutes,
		})
	}

	if len(sessions) == 0 {
		return nil
	}
	return s.sleepRepo.OverwriteSessions(ctx, user.ID, sessions)
}

// fallbackOrFail applies the caller-visible fallback policy: in sample
// mode, auth failures, connectivity failures, and stale tokens load the
// bundled dataset and the result message says so; otherwise the tagged
// error propagates to the handler.
func (s *syncService) fallbackOrFail(ctx context.Context, user *models.User, cause error) (*models.SyncResult, error) {
	gerr, ok := garmin.AsError(cause)
	if !ok || !s.sampleMode {
		return nil, cause
	}

	logger.Ctx(ctx).Warn("garmin sync failed, loading sample dataset",
		logger.String("kind", string(gerr.Kind)),
		logger.Err(cause),
	)

	if err := s.loadSample(ctx, user); err != nil {
		return nil, err
	}

	var message string
	switch gerr.Kind {
	case garmin.KindAuthFailed:
		message = "Garmin login failed; loaded bundled sample dataset for demo mode."
	case garmin.KindTokenInvalid:
		message = "Garmin session expired; loaded bundled sample dataset for demo mode."
	default:
		message = "Garmin service unreachable; loaded bundled sample dataset for demo mode."
	}

	user.GarminConnected = true
	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return s.resultWithSummary(ctx, user, &models.SyncResult{
		Connected:  true,
		UsedSample: true,
		Message:    message,
	})
}

type samplePayload struct {
	SleepSessions []struct {
		Date            string         `json:"date"`
		DurationMinutes int            `json:"duration_minutes"`
		SleepScore      *int           `json:"sleep_score"`
		Bedtime         string         `json:"bedtime"`
		WakeTime        string         `json:"wake_time"`
		StageMinutes    map[string]int `json:"stage_minutes"`
	} `json:"sleep_sessions"`
}

func (s *syncService) loadSample(ctx context.Context, user *models.User) error {
	var payload samplePayload
	if err := json.Unmarshal(sampleSleepData, &payload); err != nil {
		return fmt.Errorf("failed to parse bundled sample data: %w", err)
	}

	sessions := make([]models.SleepSession, 0, len(payload.SleepSessions))
	for _, item := range payload.SleepSessions {
		bedtime := item.Bedtime
		if bedtime == "" {
			bedtime = "22:30"
		}
		wake := item.WakeTime
		if wake == "" {
			wake = "06:30"
		}
		sessions = append(sessions, models.SleepSession{
			UserID:          user.ID,
			LocalDate:       item.Date,
			DurationMinutes: item.DurationMinutes,
			SleepScore:      item.SleepScore,
			Bedtime:         bedtime,
			WakeTime:        wake,
			StageMinutes:    item.StageMinutes,
		})
	}

	return s.sleepRepo.OverwriteSessions(ctx, user.ID, sessions)
}

func (s *syncService) resultWithSummary(ctx context.Context, user *models.User, result *models.SyncResult) (*models.SyncResult, error) {
	summary, err := s.sleepSvc.Summary(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to build summary: %w", err)
	}
	result.Summary = summary
	return result, nil
}
