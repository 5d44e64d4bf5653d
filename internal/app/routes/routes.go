package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/yigit/signupdesk/internal/app/controllers"
	"github.com/yigit/signupdesk/internal/app/models"
	"github.com/yigit/signupdesk/internal/middleware"
	"github.com/yigit/signupdesk/internal/pkg/apperrors"
)

// SignupHandlers is implemented by every SignupController instantiation
type SignupHandlers interface {
	Role() models.Role
	Register(ctx *gin.Context)
	List(ctx *gin.Context)
}

// SignupEndpoint pairs a role's controller with the upload middleware guarding its signup route
type SignupEndpoint struct {
	Controller SignupHandlers
	Upload     gin.HandlerFunc
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	signups []SignupEndpoint,
	healthController *controllers.HealthController,
	fileController *controllers.FileController,
) {
	api := router.Group("/api")
	{
		for _, s := range signups {
			role := s.Controller.Role()
			api.POST(role.SignupPath, s.Upload, s.Controller.Register)
			api.GET(role.ListPath, s.Controller.List)
		}
		api.GET("/health", healthController.Health)
	}

	router.GET("/ping", healthController.Ping)

	// Uploaded photos. At the root they can only be matched once every other route missed.
	if fileController.PublicPath() == "/" {
		router.NoRoute(fileController.ServeFile)
		return
	}

	files := router.Group(fileController.PublicPath())
	{
		files.GET("/:filename", fileController.ServeFile)
		files.HEAD("/:filename", fileController.ServeFile)
	}
	router.NoRoute(func(c *gin.Context) {
		middleware.HandleAPIError(c, fmt.Errorf("%w: %s %s", apperrors.ErrResourceNotFound, c.Request.Method, c.Request.URL.Path))
	})
}
