package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yigit/signupdesk/internal/middleware"
	"github.com/yigit/signupdesk/internal/pkg/apperrors"
	"github.com/yigit/signupdesk/internal/pkg/filestorage"
)

// FileController serves uploaded photos under a public path
type FileController struct {
	storage    filestorage.FileStorage
	publicPath string
}

// NewFileController creates a new FileController. publicPath is the URL prefix, "/" for the root.
func NewFileController(storage filestorage.FileStorage, publicPath string) *FileController {
	return &FileController{
		storage:    storage,
		publicPath: "/" + strings.Trim(publicPath, "/"),
	}
}

// PublicPath returns the normalised URL prefix
func (f *FileController) PublicPath() string {
	return f.publicPath
}

// ServeFile streams the photo named by the last path segment
func (f *FileController) ServeFile(ctx *gin.Context) {
	if ctx.Request.Method != http.MethodGet && ctx.Request.Method != http.MethodHead {
		middleware.HandleAPIError(ctx, fmt.Errorf("%w: %s %s", apperrors.ErrResourceNotFound, ctx.Request.Method, ctx.Request.URL.Path))
		return
	}

	name := ctx.Param("filename")
	if name == "" {
		name = strings.TrimPrefix(ctx.Request.URL.Path, f.publicPath)
		name = strings.TrimPrefix(name, "/")
	}

	file, err := f.storage.Open(ctx.Request.Context(), name)
	if err != nil {
		if errors.Is(err, filestorage.ErrFileNotFound) || errors.Is(err, filestorage.ErrInvalidFileName) {
			err = fmt.Errorf("%w: %s", apperrors.ErrResourceNotFound, err)
		}
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer file.Close()

	if file.ContentType != "" {
		ctx.Header("Content-Type", file.ContentType)
	}
	http.ServeContent(ctx.Writer, ctx.Request, file.Name, file.ModTime, file)
}
