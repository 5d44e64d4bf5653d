package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/signupdesk/internal/app/models"
	"github.com/yigit/signupdesk/internal/app/models/dto"
	"github.com/yigit/signupdesk/internal/app/repositories"
	"github.com/yigit/signupdesk/internal/app/services"
	"github.com/yigit/signupdesk/internal/middleware"
	"github.com/yigit/signupdesk/internal/pkg/apperrors"
	"github.com/yigit/signupdesk/internal/pkg/logger"
)

// Binder reads the request into a record referencing photo
type Binder[P any] func(ctx *gin.Context, photo string) (P, error)

// Bind decodes the body (form, multipart or JSON, by content type) into Q and converts it
func Bind[Q dto.RecordConverter[R], R any](ctx *gin.Context, photo string) (*R, error) {
	var req Q
	if err := ctx.ShouldBind(&req); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrBadRequest, err)
	}
	return req.ToRecord(photo)
}

// SignupController serves the signup and list endpoints of one role
type SignupController[R any, P repositories.RecordPtr[R]] struct {
	role    models.Role
	service services.SignupService[R, P]
	bind    Binder[P]
}

// NewSignupController creates a new SignupController
func NewSignupController[R any, P repositories.RecordPtr[R]](role models.Role, service services.SignupService[R, P], bind Binder[P]) *SignupController[R, P] {
	return &SignupController[R, P]{
		role:    role,
		service: service,
		bind:    bind,
	}
}

// Role returns the role served by the controller
func (c *SignupController[R, P]) Role() models.Role {
	return c.role
}

// Register stores a signup submission
// @Summary Register a signup
// @Description Accepts the signup form with an optional photo file
// @Accept multipart/form-data,application/x-www-form-urlencoded,json
// @Produce json
// @Success 201 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse "Uncoercible field or malformed body"
// @Failure 413 {object} dto.ErrorResponse "Upload too large"
// @Failure 500 {object} dto.ErrorResponse "Upload or database failure"
func (c *SignupController[R, P]) Register(ctx *gin.Context) {
	photo := middleware.UploadedFile(ctx)

	record, err := c.bind(ctx, photo)
	if err != nil {
		c.service.DiscardPhoto(photo)
		middleware.HandleAPIErrorWithMessage(ctx, c.role.SignupFailure, err)
		return
	}

	if err := c.service.Register(ctx.Request.Context(), record, photo); err != nil {
		middleware.HandleAPIErrorWithMessage(ctx, c.role.SignupFailure, err)
		return
	}

	logger.Info().Str("role", c.role.Name).Str("id", record.DocumentID()).Str("photo", photo).Msg("Signup registered")
	ctx.JSON(http.StatusCreated, dto.SuccessResponse{Message: c.role.SignupSuccess})
}

// List returns every record of the role
// @Summary List signups
// @Produce json
// @Success 200 {array} object
// @Failure 500 {object} dto.ErrorResponse
func (c *SignupController[R, P]) List(ctx *gin.Context) {
	records, err := c.service.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIErrorWithMessage(ctx, c.role.ListFailure, err)
		return
	}

	ctx.JSON(http.StatusOK, records)
}
