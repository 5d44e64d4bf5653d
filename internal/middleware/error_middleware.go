package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/signupdesk/internal/app/models/dto"
	"github.com/yigit/signupdesk/internal/pkg/apperrors"
	"github.com/yigit/signupdesk/internal/pkg/logger"
)

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	HandleAPIErrorWithMessage(c, "", err)
}

// HandleAPIErrorWithMessage is HandleAPIError with a top level message such as
// "Error registering instructor". The raw error is logged, never returned.
func HandleAPIErrorWithMessage(c *gin.Context, message string, err error) {
	status, detail := errorDetailFor(err)

	event := logger.Error()
	if status < http.StatusInternalServerError {
		event = logger.Warn()
	}
	event.Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Int("status", status).
		Str("code", string(detail.Code)).
		Msg("Request failed")

	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail).WithMessage(message))
}

func errorDetailFor(err error) (int, *dto.ErrorDetail) {
	switch {
	case errors.Is(err, apperrors.ErrValidationFailed):
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed")
		var custom *apperrors.CustomError
		if errors.As(err, &custom) {
			detail.Message = custom.Error()
			detail.WithField(custom.Field)
		}
		return http.StatusBadRequest, detail
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeMalformedRequest, "Malformed request body")
	case errors.Is(err, apperrors.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge, dto.NewErrorDetail(dto.ErrorCodePayloadTooLarge, "Upload exceeds the maximum allowed size")
	case errors.Is(err, apperrors.ErrUploadFailed):
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeUploadFailed, "Failed to store uploaded file")
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Resource not found").
			WithSeverity(dto.ErrorSeverityWarning)
	case errors.Is(err, apperrors.ErrDatabase):
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "Database error").
			WithSeverity(dto.ErrorSeverityCritical)
	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	}
}
