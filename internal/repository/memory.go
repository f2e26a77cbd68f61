package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/somnus-app/backend/internal/models"
)

// checkinKey identifies one check-in: (user, date, habit).
type checkinKey struct {
	userID    string
	localDate string
	habitID   string
}

// MemoryStore is an in-memory implementation of all repository
// interfaces, partitioned per user and guarded by a single RWMutex so a
// reader always observes a consistent snapshot of a user's collections.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[string]*models.User
	tokens   map[string]string
	habits   map[string][]models.Habit
	checkins map[checkinKey]models.HabitCheckin
	sessions map[string][]models.SleepSession
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]*models.User),
		tokens:   make(map[string]string),
		habits:   make(map[string][]models.Habit),
		checkins: make(map[checkinKey]models.HabitCheckin),
		sessions: make(map[string][]models.SleepSession),
	}
}

var (
	_ UserRepository  = (*MemoryStore)(nil)
	_ TokenRepository = (*MemoryStore)(nil)
	_ SleepRepository = (*MemoryStore)(nil)
	_ HabitRepository = (*MemoryStore)(nil)
)

func (s *MemoryStore) Upsert(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *MemoryStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *MemoryStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lowered := strings.ToLower(email)
	for _, user := range s.users {
		if strings.ToLower(user.Email) == lowered {
			copied := *user
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) Store(ctx context.Context, token, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = userID
	return nil
}

func (s *MemoryStore) Resolve(ctx context.Context, token string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.tokens[token]
	if !ok {
		return "", ErrNotFound
	}
	return userID, nil
}

func (s *MemoryStore) ListHabits(ctx context.Context, userID string) ([]models.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	habits := s.habits[userID]
	out := make([]models.Habit, len(habits))
	copy(out, habits)
	return out, nil
}

func (s *MemoryStore) SetHabits(ctx context.Context, userID string, habits []models.Habit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	owned := make([]models.Habit, len(habits))
	copy(owned, habits)
	s.habits[userID] = owned
	return nil
}

func (s *MemoryStore) RecordCheckin(ctx context.Context, checkin models.HabitCheckin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := checkinKey{userID: checkin.UserID, localDate: checkin.LocalDate, habitID: checkin.HabitID}
	s.checkins[key] = checkin
	return nil
}

func (s *MemoryStore) GetCheckin(ctx context.Context, userID, localDate, habitID string) (*models.HabitCheckin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	checkin, ok := s.checkins[checkinKey{userID: userID, localDate: localDate, habitID: habitID}]
	if !ok {
		return nil, ErrNotFound
	}
	return &checkin, nil
}

func (s *MemoryStore) ListCheckins(ctx context.Context, userID string) ([]models.HabitCheckin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.HabitCheckin
	for key, checkin := range s.checkins {
		if key.userID == userID {
			out = append(out, checkin)
		}
	}
	return out, nil
}

func (s *MemoryStore) ListSessions(ctx context.Context, userID string) ([]models.SleepSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sessions := s.sessions[userID]
	out := make([]models.SleepSession, len(sessions))
	copy(out, sessions)
	return out, nil
}

func (s *MemoryStore) UpsertSession(ctx context.Context, session models.SleepSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing := s.sessions[session.UserID]
	// A later write for the same date supersedes the earlier session.
	kept := existing[:0]
	for _, sess := range existing {
		if sess.LocalDate != session.LocalDate {
			kept = append(kept, sess)
		}
	}
	kept = append(kept, session)
	sortSessionsDesc(kept)
	s.sessions[session.UserID] = kept
	return nil
}

func (s *MemoryStore) OverwriteSessions(ctx context.Context, userID string, sessions []models.SleepSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	owned := make([]models.SleepSession, len(sessions))
	copy(owned, sessions)
	sortSessionsDesc(owned)
	s.sessions[userID] = owned
	return nil
}

// sortSessionsDesc orders sessions most-recent-first. ISO dates sort
// lexicographically, so plain string comparison is enough.
func sortSessionsDesc(sessions []models.SleepSession) {
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].LocalDate > sessions[j].LocalDate
	})
}
