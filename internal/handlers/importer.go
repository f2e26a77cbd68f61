package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/somnus-app/backend/internal/apierror"
	"github.com/somnus-app/backend/internal/logger"
	"github.com/somnus-app/backend/internal/service"
)

// maxImportBytes caps uploaded CSV size at 5 MiB.
const maxImportBytes = 5 << 20

// ImportHandler handles bulk CSV import
type ImportHandler struct {
	importService service.ImportService
}

// NewImportHandler creates a new import handler
func NewImportHandler(importService service.ImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// Import handles POST /api/v1/me/import. The CSV arrives either as a
// multipart "file" field or as the raw request body; malformed rows are
// skipped and reported, not fatal.
func (h *ImportHandler) Import(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	requestID := apierror.GetRequestID(c)

	reader := http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes)
	if file, err := c.FormFile("file"); err == nil {
		opened, err := file.Open()
		if err != nil {
			apierror.WriteProblem(c, apierror.NewBadRequestError(requestID,
				"Uploaded file could not be read",
				"Please re-upload the CSV file"))
			return
		}
		defer opened.Close()
		reader = opened
	}

	result, err := h.importService.ImportCSV(c.Request.Context(), userID, reader)
	if err != nil {
		logger.Ctx(c.Request.Context()).Warn("csv import rejected", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID,
			err.Error(),
			"The CSV file could not be processed. Check the header row."))
		return
	}

	c.JSON(http.StatusOK, result)
}
