package models

// SummaryUser is the user block echoed on every summary response.
type SummaryUser struct {
	Email           string `json:"email"`
	GarminConnected bool   `json:"garmin_connected"`
}

// LastNight echoes the most recent session verbatim.
type LastNight struct {
	Date            string         `json:"date"`
	DurationMinutes int            `json:"duration_minutes"`
	SleepScore      *int           `json:"sleep_score"`
	Bedtime         string         `json:"bedtime"`
	WakeTime        string         `json:"wake_time"`
	Stages          map[string]int `json:"stages"`
}

// TrailingStats aggregates the most recent <=7 sessions. Midpoint is the
// wrapped mean of per-night sleep midpoints; ConsistencyMinutes is the
// population standard deviation of bedtimes (lower = more regular).
type TrailingStats struct {
	AvgDurationMinutes float64  `json:"avg_duration_minutes"`
	AvgScore           *float64 `json:"avg_score"`
	Midpoint           string   `json:"midpoint"`
	ConsistencyMinutes int      `json:"consistency_minutes"`
}

// HabitSnapshot counts completion per habit polarity for one date.
// A negative habit counts as completed when it was avoided, i.e. its
// check-in is absent or falsy.
type HabitSnapshot struct {
	PositiveCompleted int `json:"positive_completed"`
	PositiveTotal     int `json:"positive_total"`
	NegativeCompleted int `json:"negative_completed"`
	NegativeTotal     int `json:"negative_total"`
}

// SleepSummary is the rolling summary view: most recent night, trailing
// aggregate, and the habit snapshot for the relevant date.
type SleepSummary struct {
	User      SummaryUser    `json:"user"`
	LastNight *LastNight     `json:"last_night"`
	Trailing  *TrailingStats `json:"trailing_7d"`
	Habits    HabitSnapshot  `json:"habits"`
}

// HabitStatus is one catalogue entry joined with its check-in state for
// a target date.
type HabitStatus struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Kind        HabitKind    `json:"type"`
	Description string       `json:"description,omitempty"`
	Icon        string       `json:"icon,omitempty"`
	DefaultOn   bool         `json:"default_on"`
	Value       CheckinValue `json:"value"`
	LastCheckIn *string      `json:"last_check_in"`
}

// CorrelationRow pairs one habit against sleep-score outcomes.
// Difference is positive when the habit correlates with better sleep.
type CorrelationRow struct {
	HabitID    string    `json:"habit_id"`
	HabitName  string    `json:"habit_name"`
	HabitKind  HabitKind `json:"habit_type"`
	AvgWith    float64   `json:"avg_with"`
	AvgWithout float64   `json:"avg_without"`
	Difference float64   `json:"difference"`
	NWith      int       `json:"n_with"`
	NWithout   int       `json:"n_without"`
}

// CorrelationReport is the ranked correlation result set. Status carries
// a human-readable explanation when history is too short to correlate;
// that case is expected, not an error.
type CorrelationReport struct {
	Status  string           `json:"status"`
	Results []CorrelationRow `json:"results"`
}

// SyncResult reports the outcome of a wearable connect/pull, including
// whether the bundled sample dataset was substituted and whether an MFA
// challenge is pending.
type SyncResult struct {
	Connected   bool          `json:"connected"`
	MFARequired bool          `json:"mfa_required"`
	MFAToken    string        `json:"mfa_token,omitempty"`
	UsedSample  bool          `json:"used_sample"`
	Message     string        `json:"message"`
	Summary     *SleepSummary `json:"summary,omitempty"`
}

// ImportResult reports counts from a bulk CSV import. Errors holds a
// capped sample of row-level failures; the import never aborts on a bad
// row.
type ImportResult struct {
	SleepImported  int      `json:"sleep_imported"`
	HabitsImported int      `json:"habits_imported"`
	Skipped        int      `json:"skipped"`
	Errors         []string `json:"errors,omitempty"`
}

// MaxImportErrors caps the error sample on an ImportResult.
const MaxImportErrors = 10

// AddError records a row-level failure, keeping at most MaxImportErrors
// messages. Failures past the cap are still reflected in Skipped.
func (r *ImportResult) AddError(msg string) {
	if len(r.Errors) < MaxImportErrors {
		r.Errors = append(r.Errors, msg)
	}
}
