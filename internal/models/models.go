package models

import "time"

// DateFormat is the layout for local calendar dates ("2006-01-02").
// Sleep sessions and habit check-ins are keyed by local date, not by
// instant, so dates travel as plain strings.
const DateFormat = "2006-01-02"

// User represents a user in the system
type User struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Timezone        string    `json:"timezone"`
	GarminConnected bool      `json:"garmin_connected"`
	CreatedAt       time.Time `json:"created_at"`
}

// HabitKind classifies a habit as a behavior to build or one to avoid.
type HabitKind string

const (
	HabitHealthy   HabitKind = "healthy"
	HabitUnhealthy HabitKind = "unhealthy"
)

// Habit represents a trackable behavior in a user's catalogue.
type Habit struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Kind        HabitKind `json:"type"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	DefaultOn   bool      `json:"default_on"`
}

// HabitCheckin is one user's response for one habit on one date. At most
// one check-in exists per (user, habit, date); re-checking overwrites
// value and timestamp.
type HabitCheckin struct {
	UserID    string       `json:"user_id"`
	HabitID   string       `json:"habit_id"`
	LocalDate string       `json:"local_date"`
	Value     CheckinValue `json:"value"`
	Timestamp time.Time    `json:"timestamp"`
}

// SleepSession is one night's record for a user. At most one session
// exists per (user, date); a later write for the same date replaces the
// earlier one.
type SleepSession struct {
	UserID          string         `json:"user_id"`
	LocalDate       string         `json:"local_date"`
	DurationMinutes int            `json:"duration_minutes"`
	SleepScore      *int           `json:"sleep_score,omitempty"`
	Bedtime         string         `json:"bedtime"`
	WakeTime        string         `json:"wake_time"`
	StageMinutes    map[string]int `json:"stage_minutes,omitempty"`
}

// LoginRequest represents the login request
type LoginRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// LoginResponse represents the authentication response
type LoginResponse struct {
	AccessToken     string `json:"access_token"`
	UserID          string `json:"user_id"`
	Email           string `json:"email"`
	GarminConnected bool   `json:"garmin_connected"`
}

// CheckinRequest represents the request to record a habit check-in
type CheckinRequest struct {
	HabitID   string       `json:"habit_id" binding:"required"`
	Value     CheckinValue `json:"value"`
	LocalDate string       `json:"local_date,omitempty"`
}

// ManualSleepRequest represents a manually entered night
type ManualSleepRequest struct {
	LocalDate       string         `json:"local_date" binding:"required"`
	DurationMinutes int            `json:"duration_minutes" binding:"min=0"`
	SleepScore      *int           `json:"sleep_score"`
	Bedtime         string         `json:"bedtime" binding:"required"`
	WakeTime        string         `json:"wake_time" binding:"required"`
	StageMinutes    map[string]int `json:"stage_minutes"`
}

// GarminConnectRequest carries credentials or an MFA continuation for the
// wearable-sync collaborator.
type GarminConnectRequest struct {
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
	MFACode  string `json:"mfa_code,omitempty"`
	MFAToken string `json:"mfa_token,omitempty"`
}
