// Package garmin is a minimal HTTP client for the Garmin Connect sleep
// API: credential login, the MFA challenge/resume cycle, and per-day
// sleep fetches against a short-lived session token. The backend treats
// it as an opaque source of sleep sessions; retry and fallback policy
// live in the sync service, not here.
package garmin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the Garmin Connect REST surface.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a new Garmin client
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Sleep is one night as reported by Garmin.
type Sleep struct {
	CalendarDate    string         `json:"calendar_date"`
	DurationMinutes int            `json:"duration_minutes"`
	SleepScore      *int           `json:"sleep_score"`
	Bedtime         string         `json:"bedtime"`
	WakeTime        string         `json:"wake_time"`
	StageMinutes    map[string]int `json:"stage_minutes"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	SessionToken string `json:"session_token"`
	MFAContext   string `json:"mfa_context"`
}

type mfaRequest struct {
	MFAContext string `json:"mfa_context"`
	Code       string `json:"code"`
}

// Login exchanges credentials for a session token. When the account has
// multi-factor authentication enabled the returned error has kind
// KindMFARequired and carries the context token for ResumeLogin.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body, err := c.post(ctx, "/auth/signin", loginRequest{Email: email, Password: password})
	if err != nil {
		return "", err
	}

	var resp loginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &Error{Kind: KindUnreachable, Detail: "malformed signin response", cause: err}
	}

	if resp.MFAContext != "" {
		return "", &Error{Kind: KindMFARequired, MFAToken: resp.MFAContext, Detail: "verification code required"}
	}
	if resp.SessionToken == "" {
		return "", &Error{Kind: KindAuthFailed, Detail: "signin returned no session token"}
	}
	return resp.SessionToken, nil
}

// ResumeLogin completes an MFA challenge started by Login.
func (c *Client) ResumeLogin(ctx context.Context, mfaContext, code string) (string, error) {
	body, err := c.post(ctx, "/auth/mfa", mfaRequest{MFAContext: mfaContext, Code: code})
	if err != nil {
		return "", err
	}

	var resp loginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &Error{Kind: KindUnreachable, Detail: "malformed mfa response", cause: err}
	}
	if resp.SessionToken == "" {
		return "", &Error{Kind: KindAuthFailed, Detail: "mfa verification rejected"}
	}
	return resp.SessionToken, nil
}

// FetchSleep returns the sleep record for one calendar date, or nil when
// Garmin has no data for that day.
func (c *Client) FetchSleep(ctx context.Context, sessionToken, date string) (*Sleep, error) {
	url := fmt.Sprintf("%s/wellness/sleep/daily/%s", c.BaseURL, date)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{Kind: KindUnreachable, Detail: "building request", cause: err}
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", sessionToken))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindUnreachable, Detail: "sleep fetch failed", cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindUnreachable, Detail: "reading sleep response", cause: err}
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &Error{Kind: KindTokenInvalid, Detail: fmt.Sprintf("sleep fetch rejected (status %d)", resp.StatusCode)}
	case resp.StatusCode >= 400:
		return nil, &Error{Kind: KindUnreachable, Detail: fmt.Sprintf("sleep fetch failed (status %d): %s", resp.StatusCode, string(body))}
	}

	var sleep Sleep
	if err := json.Unmarshal(body, &sleep); err != nil {
		return nil, &Error{Kind: KindUnreachable, Detail: "malformed sleep response", cause: err}
	}
	return &sleep, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, &Error{Kind: KindUnreachable, Detail: "encoding request", cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, &Error{Kind: KindUnreachable, Detail: "building request", cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindUnreachable, Detail: "request failed", cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindUnreachable, Detail: "reading response", cause: err}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &Error{Kind: KindAuthFailed, Detail: "credentials rejected"}
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &Error{Kind: KindAuthFailed, Detail: "too many signin attempts"}
	case resp.StatusCode >= 400:
		return nil, &Error{Kind: KindUnreachable, Detail: fmt.Sprintf("request failed (status %d): %s", resp.StatusCode, string(body))}
	}

	return body, nil
}
