package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/somnus-app/backend/internal/apierror"
	"github.com/somnus-app/backend/internal/logger"
	"github.com/somnus-app/backend/internal/models"
	"github.com/somnus-app/backend/internal/service"
	"github.com/somnus-app/backend/pkg/garmin"
)

// SyncHandler handles wearable connect and pull endpoints
type SyncHandler struct {
	syncService service.SyncService
	authService service.AuthService
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(syncService service.SyncService, authService service.AuthService) *SyncHandler {
	return &SyncHandler{
		syncService: syncService,
		authService: authService,
	}
}

// Connect handles POST /api/v1/me/garmin/connect. The request carries
// either credentials or an mfa_token/mfa_code pair continuing an earlier
// challenge; an MFA challenge comes back as a 200 with mfa_required set.
func (h *SyncHandler) Connect(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.GarminConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID,
			"Request body must be valid JSON",
			"Please check your request and try again"))
		return
	}

	requestID := apierror.GetRequestID(c)
	if req.MFAToken == "" && (req.Email == "" || req.Password == "") {
		apierror.WriteProblem(c, apierror.NewValidationError(requestID, []apierror.FieldError{
			{Field: "email", Message: "email and password are required unless continuing an MFA challenge", Code: "missing_credentials"},
		}))
		return
	}

	user, err := h.authService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		logger.Ctx(c.Request.Context()).Error("failed to load user", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(requestID))
		return
	}

	result, err := h.syncService.Connect(c.Request.Context(), user, &req)
	if err != nil {
		h.writeSyncError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Pull handles POST /api/v1/me/garmin/pull, refreshing the last 30
// nights from the stored Garmin session.
func (h *SyncHandler) Pull(c *gin.Context) {
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

	result, err := h.syncService.Pull(c.Request.Context(), user)
	if err != nil {
		h.writeSyncError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// writeSyncError maps tagged Garmin errors onto problem responses. The
// error kind drives the detail so a client can distinguish bad
// credentials from a dead upstream.
func (h *SyncHandler) writeSyncError(c *gin.Context, err error) {
	log := logger.Ctx(c.Request.Context())
	requestID := apierror.GetRequestID(c)

	gerr, ok := garmin.AsError(err)
	if !ok {
		log.Error("garmin sync failed", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(requestID))
		return
	}

	log.Warn("garmin sync rejected", logger.String("kind", string(gerr.Kind)), logger.Err(err))

	switch gerr.Kind {
	case garmin.KindAuthFailed:
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID,
			"Garmin rejected the provided credentials",
			"Garmin login failed. Please check your email and password."))
	case garmin.KindTokenInvalid:
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID,
			"The stored Garmin session is no longer valid",
			"Your Garmin session has expired. Please reconnect your account."))
	default:
		apierror.WriteProblem(c, apierror.NewSyncFailedError(requestID,
			"The Garmin service could not be reached"))
	}
}
