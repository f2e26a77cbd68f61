package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/somnus-app/backend/internal/apierror"
	"github.com/somnus-app/backend/internal/logger"
	"github.com/somnus-app/backend/internal/models"
	"github.com/somnus-app/backend/internal/service"
)

// HabitsHandler handles habit catalogue and check-in endpoints
type HabitsHandler struct {
	habitService service.HabitService
}

// NewHabitsHandler creates a new habits handler
func NewHabitsHandler(habitService service.HabitService) *HabitsHandler {
	return &HabitsHandler{habitService: habitService}
}

// GetHabits handles GET /api/v1/me/habits. The optional ?date= query
// selects which day's check-in state is joined in; it defaults to today.
func (h *HabitsHandler) GetHabits(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	targetDate := c.Query("date")
	if targetDate != "" {
		if !validDate(targetDate) {
			requestID := apierror.GetRequestID(c)
			apierror.WriteProblem(c, apierror.NewValidationError(requestID, []apierror.FieldError{
				{Field: "date", Message: "must be formatted as YYYY-MM-DD", Code: "invalid_date"},
			}))
			return
		}
	}

	habits, err := h.habitService.GetHabits(c.Request.Context(), userID, targetDate)
	if err != nil {
		logger.Ctx(c.Request.Context()).Error("failed to get habits", logger.Err(err))
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewInternalError(requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{"habits": habits})
}

// CheckIn handles POST /api/v1/me/habits/checkin. Re-checking the same
// habit for the same date overwrites the earlier value.
func (h *HabitsHandler) CheckIn(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.CheckinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewValidationError(requestID, []apierror.FieldError{
			{Field: "habit_id", Message: "habit_id is required and value must be a boolean or a count", Code: "invalid_checkin"},
		}))
		return
	}
	if req.LocalDate != "" && !validDate(req.LocalDate) {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewValidationError(requestID, []apierror.FieldError{
			{Field: "local_date", Message: "must be formatted as YYYY-MM-DD", Code: "invalid_date"},
		}))
		return
	}

	status, err := h.habitService.CheckIn(c.Request.Context(), userID, &req)
	if err != nil {
		logger.Ctx(c.Request.Context()).Error("failed to record check-in",
			logger.String("habit_id", req.HabitID),
			logger.Err(err),
		)
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewInternalError(requestID))
		return
	}

	c.JSON(http.StatusOK, status)
}

// validDate reports whether s parses as a local calendar date.
func validDate(s string) bool {
	_, err := time.Parse(models.DateFormat, s)
	return err == nil
}
