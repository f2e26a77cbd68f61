package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/somnus-app/backend/internal/apierror"
	"github.com/somnus-app/backend/internal/clockmath"
	"github.com/somnus-app/backend/internal/logger"
	"github.com/somnus-app/backend/internal/models"
	"github.com/somnus-app/backend/internal/service"
)

// SleepHandler handles sleep summary, manual entry, timeline, and
// correlation endpoints
type SleepHandler struct {
	sleepService service.SleepService
	authService  service.AuthService
}

// NewSleepHandler creates a new sleep handler
func NewSleepHandler(sleepService service.SleepService, authService service.AuthService) *SleepHandler {
	return &SleepHandler{
		sleepService: sleepService,
		authService:  authService,
	}
}

// Summary handles GET /api/v1/me/summary: last night, the trailing 7
// aggregate, and the habit snapshot in one dashboard payload.
func (h *SleepHandler) Summary(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		logger.Ctx(c.Request.Context()).Error("failed to load user", logger.Err(err))
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewInternalError(requestID))
		return
	}

	summary, err := h.sleepService.Summary(c.Request.Context(), user)
	if err != nil {
		requestID := apierror.GetRequestID(c)
		if errors.Is(err, clockmath.ErrMalformedClock) {
			// A stored session carries an unparseable bedtime. Surface
			// the data problem instead of silently defaulting it.
			apierror.WriteProblem(c, apierror.NewMalformedClockError(requestID, "bedtime", err.Error()))
			return
		}
		logger.Ctx(c.Request.Context()).Error("failed to build summary", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(requestID))
		return
	}

	c.JSON(http.StatusOK, summary)
}

// RecordManualEntry handles POST /api/v1/me/sleep. Writing the same
// date twice replaces the first entry.
func (h *SleepHandler) RecordManualEntry(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.ManualSleepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewValidationError(requestID, []apierror.FieldError{
			{Field: "body", Message: "local_date, bedtime, and wake_time are required; duration_minutes must be non-negative", Code: "invalid_body"},
		}))
		return
	}

	requestID := apierror.GetRequestID(c)
	if !validDate(req.LocalDate) {
		apierror.WriteProblem(c, apierror.NewValidationError(requestID, []apierror.FieldError{
			{Field: "local_date", Message: "must be formatted as YYYY-MM-DD", Code: "invalid_date"},
		}))
		return
	}
	if _, err := clockmath.ToMinutes(req.Bedtime); err != nil {
		apierror.WriteProblem(c, apierror.NewMalformedClockError(requestID, "bedtime", req.Bedtime))
		return
	}
	if _, err := clockmath.ToMinutes(req.WakeTime); err != nil {
		apierror.WriteProblem(c, apierror.NewMalformedClockError(requestID, "wake_time", req.WakeTime))
		return
	}

	session, err := h.sleepService.RecordManualEntry(c.Request.Context(), userID, &req)
	if err != nil {
		logger.Ctx(c.Request.Context()).Error("failed to record sleep entry", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(requestID))
		return
	}

	c.JSON(http.StatusCreated, session)
}

// Timeline handles GET /api/v1/me/sleep/timeline?range=week|month|year,
// returning sessions in chronological order for chart rendering.
func (h *SleepHandler) Timeline(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	timeRange := c.DefaultQuery("range", "week")
	switch timeRange {
	case "week", "month", "year":
	default:
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewValidationError(requestID, []apierror.FieldError{
			{Field: "range", Message: "must be one of week, month, year", Code: "invalid_range"},
		}))
		return
	}

	sessions, err := h.sleepService.Timeline(c.Request.Context(), userID, timeRange)
	if err != nil {
		logger.Ctx(c.Request.Context()).Error("failed to build timeline", logger.Err(err))
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewInternalError(requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"range":    timeRange,
		"sessions": sessions,
	})
}

// Correlations handles GET /api/v1/me/sleep/correlations. With fewer
// than seven nights of history the report explains why it is empty
// rather than ranking noise.
func (h *SleepHandler) Correlations(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	report, err := h.sleepService.Correlations(c.Request.Context(), userID)
	if err != nil {
		logger.Ctx(c.Request.Context()).Error("failed to compute correlations", logger.Err(err))
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewInternalError(requestID))
		return
	}

	c.JSON(http.StatusOK, report)
}
