package middleware

import (
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/signupdesk/internal/pkg/apperrors"
	"github.com/yigit/signupdesk/internal/pkg/filestorage"
)

// uploadedFileKey holds the stored name of the upload in the gin context
const uploadedFileKey = "uploadedFile"

// multipartMemory is the part of a form kept in memory, the rest spills to temp files
const multipartMemory = 8 << 20

// UploadMiddleware stores the file sent in field before the next handler runs.
// Requests that are not multipart pass through untouched. failureMessage is the
// top level message of error responses.
func UploadMiddleware(storage filestorage.FileStorage, field string, maxBytes int64, failureMessage string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(uploadedFileKey, "")

		mediaType, _, err := mime.ParseMediaType(c.GetHeader("Content-Type"))
		if err != nil || mediaType != "multipart/form-data" {
			c.Next()
			return
		}

		if c.Request.ContentLength > maxBytes {
			HandleAPIErrorWithMessage(c, failureMessage,
				fmt.Errorf("%w: content length %d over %d", apperrors.ErrPayloadTooLarge, c.Request.ContentLength, maxBytes))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)

		if err := c.Request.ParseMultipartForm(min(maxBytes, multipartMemory)); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				HandleAPIErrorWithMessage(c, failureMessage, fmt.Errorf("%w: %w", apperrors.ErrPayloadTooLarge, err))
				return
			}
			HandleAPIErrorWithMessage(c, failureMessage, fmt.Errorf("%w: %w", apperrors.ErrBadRequest, err))
			return
		}

		files := c.Request.MultipartForm.File[field]
		if len(files) == 0 {
			c.Next()
			return
		}

		name, err := storage.Save(c.Request.Context(), files[0])
		if err != nil {
			HandleAPIErrorWithMessage(c, failureMessage, fmt.Errorf("%w: %w", apperrors.ErrUploadFailed, err))
			return
		}

		c.Set(uploadedFileKey, name)
		c.Next()
	}
}

// UploadedFile returns the stored name of the upload, "" when none was sent
func UploadedFile(c *gin.Context) string {
	return c.GetString(uploadedFileKey)
}
