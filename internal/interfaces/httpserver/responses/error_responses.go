package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"imagevault/image-api/internal/utils/platformerrors"
)

// ErrorResponse represents an error response with platform error details
type ErrorResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Code      string `json:"code,omitempty"` // UUID from PlatformError
	RequestID string `json:"request_id,omitempty"`
}

// HandleError maps domain errors onto HTTP responses via the error taxonomy:
// validation 400, storage 500, partial failure 207, not found 404.
func HandleError(reqCtx *gin.Context, err error, message string) {
	var domainErr *platformerrors.PlatformError
	if errors.As(err, &domainErr) {
		statusCode := platformerrors.ErrorTypeToHTTPStatus(domainErr.GetErrorType())

		errorMessage := domainErr.Message
		if errorMessage == "" {
			errorMessage = message
		}

		reqCtx.AbortWithStatusJSON(statusCode, ErrorResponse{
			Status:    "error",
			Message:   errorMessage,
			Code:      domainErr.GetUUID(),
			RequestID: domainErr.GetRequestID(),
		})
		return
	}
	// Non-platform errors
	reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		Status:  "error",
		Message: message,
	})
}
