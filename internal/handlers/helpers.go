package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/somnus-app/backend/internal/apierror"
)

// currentUserID pulls the authenticated user ID set by the auth
// middleware; writes a 401 problem and returns false when missing.
func currentUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewUnauthorizedError(requestID))
		return "", false
	}
	id, ok := userID.(string)
	if !ok || id == "" {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewUnauthorizedError(requestID))
		return "", false
	}
	return id, true
}
