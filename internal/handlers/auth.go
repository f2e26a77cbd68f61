package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/somnus-app/backend/internal/apierror"
	"github.com/somnus-app/backend/internal/logger"
	"github.com/somnus-app/backend/internal/models"
	"github.com/somnus-app/backend/internal/service"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles POST /api/v1/auth/login. An unknown email creates the
// account on the spot; either way the response carries a fresh bearer
// token.
func (h *AuthHandler) Login(c *gin.Context) {
	log := logger.Ctx(c.Request.Context())

	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewValidationError(requestID, []apierror.FieldError{
			{Field: "email", Message: "must be a valid email address", Code: "invalid_email"},
		}))
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		log.Error("login failed", logger.Err(err))
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewInternalError(requestID))
		return
	}

	log.Info("user logged in", logger.String("user_id", resp.UserID))
	c.JSON(http.StatusOK, resp)
}
