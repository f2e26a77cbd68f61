package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/somnus-app/backend/internal/models"
	"github.com/somnus-app/backend/internal/repository"
	"github.com/somnus-app/backend/pkg/garmin"
)

// mockGarminClient is a scriptable GarminClient for testing
type mockGarminClient struct {
	loginFn  func(ctx context.Context, email, password string) (string, error)
	resumeFn func(ctx context.Context, mfaContext, code string) (string, error)
	fetchFn  func(ctx context.Context, sessionToken, date string) (*garmin.Sleep, error)

	loginCalls  int
	resumeCalls int
	fetchCalls  int
}

func (m *mockGarminClient) Login(ctx context.Context, email, password string) (string, error) {
	m.loginCalls++
	return m.loginFn(ctx, email, password)
}

func (m *mockGarminClient) ResumeLogin(ctx context.Context, mfaContext, code string) (string, error) {
	m.resumeCalls++
	return m.resumeFn(ctx, mfaContext, code)
}

func (m *mockGarminClient) FetchSleep(ctx context.Context, sessionToken, date string) (*garmin.Sleep, error) {
	m.fetchCalls++
	if m.fetchFn != nil {
		return m.fetchFn(ctx, sessionToken, date)
	}
	return nil, nil
}

// newTestSyncService wires a sync service over a fresh store with a
// fixed clock.
func newTestSyncService(t *testing.T, client GarminClient, sampleMode bool) (*syncService, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	habits := NewHabitService(store).(*habitService)
	habits.now = func() time.Time { return testNow }
	sleepSvc := NewSleepService(store, store, habits).(*sleepService)
	sleepSvc.now = func() time.Time { return testNow }
	svc := NewSyncService(client, store, store, sleepSvc, sampleMode).(*syncService)
	svc.now = func() time.Time { return testNow }
	return svc, store
}

func syncTestUser(t *testing.T, store *repository.MemoryStore) *models.User {
	t.Helper()
	user := &models.User{ID: "user-1", Email: "test@example.com"}
	if err := store.Upsert(context.Background(), user); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	return user
}

func TestConnectSuccess(t *testing.T) {
	client := &mockGarminClient{
		loginFn: func(ctx context.Context, email, password string) (string, error) {
			return "session-token", nil
		},
		fetchFn: func(ctx context.Context, sessionToken, date string) (*garmin.Sleep, error) {
			if sessionToken != "session-token" {
				t.Errorf("FetchSleep token = %q, want session-token", sessionToken)
			}
			// Data exists only for the two most recent days.
			if date != "2026-08-28" && date != "2026-08-27" {
				return nil, nil
			}
			return &garmin.Sleep{
				CalendarDate:    date,
				DurationMinutes: 440,
				SleepScore:      intPtr(81),
				Bedtime:         "23:10",
				WakeTime:        "06:30",
			}, nil
		},
	}
	svc, store := newTestSyncService(t, client, false)
	user := syncTestUser(t, store)

	result, err := svc.Connect(context.Background(), user, &models.GarminConnectRequest{
		Email:    "garmin@example.com",
		Password: "secret",
	})
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	if !result.Connected || result.UsedSample || result.MFARequired {
		t.Errorf("result = %+v, want connected without sample or MFA", result)
	}
	if result.Summary == nil {
		t.Fatal("Summary = nil, want embedded summary")
	}
	if client.fetchCalls != syncDays {
		t.Errorf("fetchCalls = %d, want %d", client.fetchCalls, syncDays)
	}

	sessions, err := store.ListSessions(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if len(sessions) != 2 {
		t.Errorf("len(sessions) = %d, want 2 (days without data skipped)", len(sessions))
	}

	stored, err := store.GetByID(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if !stored.GarminConnected {
		t.Error("user.GarminConnected = false after successful connect")
	}
}

func TestConnectAuthFailureFallsBackToSample(t *testing.T) {
	client := &mockGarminClient{
		loginFn: func(ctx context.Context, email, password string) (string, error) {
			return "", &garmin.Error{Kind: garmin.KindAuthFailed, Detail: "credentials rejected"}
		},
	}
	svc, store := newTestSyncService(t, client, true)
	user := syncTestUser(t, store)

	result, err := svc.Connect(context.Background(), user, &models.GarminConnectRequest{
		Email:    "garmin@example.com",
		Password: "wrong",
	})
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	if !result.Connected || !result.UsedSample {
		t.Errorf("result = %+v, want connected via sample data", result)
	}
	if !strings.Contains(result.Message, "sample") {
		t.Errorf("Message = %q, want mention of the sample dataset", result.Message)
	}
	if !strings.Contains(result.Message, "login failed") {
		t.Errorf("Message = %q, want auth-specific wording", result.Message)
	}

	sessions, err := store.ListSessions(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if len(sessions) == 0 {
		t.Error("no sessions loaded from bundled sample data")
	}
	if result.Summary == nil || result.Summary.LastNight == nil {
		t.Error("Summary missing after sample load")
	}
}

func TestConnectAuthFailurePropagatesWithoutSampleMode(t *testing.T) {
	client := &mockGarminClient{
		loginFn: func(ctx context.Context, email, password string) (string, error) {
			return "", &garmin.Error{Kind: garmin.KindAuthFailed, Detail: "credentials rejected"}
		},
	}
	svc, store := newTestSyncService(t, client, false)
	user := syncTestUser(t, store)

	_, err := svc.Connect(context.Background(), user, &models.GarminConnectRequest{
		Email:    "garmin@example.com",
		Password: "wrong",
	})
	if !garmin.IsKind(err, garmin.KindAuthFailed) {
		t.Fatalf("Connect() error = %v, want tagged auth failure", err)
	}

	sessions, _ := store.ListSessions(context.Background(), "user-1")
	if len(sessions) != 0 {
		t.Errorf("len(sessions) = %d, want 0 when sync fails hard", len(sessions))
	}
}

func TestConnectMFAFlow(t *testing.T) {
	client := &mockGarminClient{
		loginFn: func(ctx context.Context, email, password string) (string, error) {
			return "", &garmin.Error{Kind: garmin.KindMFARequired, MFAToken: "garmin-mfa-ctx"}
		},
		resumeFn: func(ctx context.Context, mfaContext, code string) (string, error) {
			if mfaContext != "garmin-mfa-ctx" {
				t.Errorf("ResumeLogin context = %q, want garmin-mfa-ctx", mfaContext)
			}
			if code != "123456" {
				t.Errorf("ResumeLogin code = %q, want 123456", code)
			}
			return "session-token", nil
		},
	}
	svc, store := newTestSyncService(t, client, false)
	user := syncTestUser(t, store)
	ctx := context.Background()

	challenge, err := svc.Connect(ctx, user, &models.GarminConnectRequest{
		Email:    "garmin@example.com",
		Password: "secret",
	})
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if challenge.Connected || !challenge.MFARequired || challenge.MFAToken == "" {
		t.Fatalf("challenge = %+v, want pending MFA with token", challenge)
	}
	// The opaque challenge token never leaks the Garmin context.
	if challenge.MFAToken == "garmin-mfa-ctx" {
		t.Error("MFAToken echoes the upstream MFA context")
	}

	result, err := svc.Connect(ctx, user, &models.GarminConnectRequest{
		MFAToken: challenge.MFAToken,
		MFACode:  "123456",
	})
	if err != nil {
		t.Fatalf("Connect() with MFA error = %v", err)
	}
	if !result.Connected {
		t.Errorf("result = %+v, want connected after MFA", result)
	}
	if client.resumeCalls != 1 {
		t.Errorf("resumeCalls = %d, want 1", client.resumeCalls)
	}

	// The challenge token is single-use.
	if _, err := svc.Connect(ctx, user, &models.GarminConnectRequest{
		MFAToken: challenge.MFAToken,
		MFACode:  "123456",
	}); err == nil {
		t.Error("replayed MFA token accepted, want error")
	}
}

func TestPullWithoutSessionFallsBack(t *testing.T) {
	client := &mockGarminClient{}
	svc, store := newTestSyncService(t, client, true)
	user := syncTestUser(t, store)

	result, err := svc.Pull(context.Background(), user)
	if err != nil {
		t.Fatalf("Pull() error = %v", err)
	}
	if !result.UsedSample {
		t.Errorf("result = %+v, want sample fallback for missing session", result)
	}
	if !strings.Contains(result.Message, "expired") {
		t.Errorf("Message = %q, want session-expiry wording", result.Message)
	}
}

func TestPullReusesStoredSession(t *testing.T) {
	client := &mockGarminClient{
		loginFn: func(ctx context.Context, email, password string) (string, error) {
			return "session-token", nil
		},
		fetchFn: func(ctx context.Context, sessionToken, date string) (*garmin.Sleep, error) {
			if date != "2026-08-28" {
				return nil, nil
			}
			return &garmin.Sleep{CalendarDate: date, DurationMinutes: 400, Bedtime: "23:00", WakeTime: "06:00"}, nil
		},
	}
	svc, store := newTestSyncService(t, client, false)
	user := syncTestUser(t, store)
	ctx := context.Background()

	if _, err := svc.Connect(ctx, user, &models.GarminConnectRequest{Email: "g@example.com", Password: "pw"}); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	result, err := svc.Pull(ctx, user)
	if err != nil {
		t.Fatalf("Pull() error = %v", err)
	}
	if !result.Connected || result.UsedSample {
		t.Errorf("result = %+v, want live pull", result)
	}
	if client.loginCalls != 1 {
		t.Errorf("loginCalls = %d, want 1 (pull reuses the stored session)", client.loginCalls)
	}
}
