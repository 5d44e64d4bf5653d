package filestorage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/yigit/signupdesk/internal/pkg/logger"
)

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string // directory holding the uploads, served as-is
	namer    Namer
	now      func() time.Time
}

// NewLocalStorage creates the upload directory if needed and returns a LocalStorage rooted there.
func NewLocalStorage(basePath string, namer Namer) (*LocalStorage, error) {
	if namer == nil {
		namer = UniqueNamer
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		namer:    namer,
		now:      time.Now,
	}, nil
}

// BasePath returns the upload directory
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

// Save copies the upload into a temp file next to its destination and renames it into place.
func (ls *LocalStorage) Save(ctx context.Context, fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader == nil {
		return "", nil
	}

	src, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	name := ls.namer(fileHeader.Filename, ls.now())
	if err := ValidateName(name); err != nil {
		return "", fmt.Errorf("generated name %q: %w", name, err)
	}
	dstPath := filepath.Join(ls.basePath, name)

	tmp, err := os.CreateTemp(ls.basePath, tempPrefix+"*")
	if err != nil {
		logger.Error().Err(err).Str("dir", ls.basePath).Msg("Failed to create temp file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := io.Copy(tmp, &ctxReader{ctx: ctx, r: src}); err != nil {
		_ = tmp.Close()
		cleanup()
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		return "", fmt.Errorf("failed to save file content: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", fmt.Errorf("failed to flush file content: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		cleanup()
		return "", fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := os.Rename(tmpPath, dstPath); err != nil {
		cleanup()
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to move file into place")
		return "", fmt.Errorf("failed to store file: %w", err)
	}

	logger.Info().Str("filename", fileHeader.Filename).Str("saved_as", name).Int64("size", fileHeader.Size).Msg("File saved successfully")
	return name, nil
}

// Open returns the stored file with the given name
func (ls *LocalStorage) Open(_ context.Context, name string) (*StoredFile, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(ls.basePath, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to stat %s: %w", name, err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, ErrFileNotFound
	}

	return &StoredFile{
		ReadSeekCloser: f,
		Name:           name,
		Size:           info.Size(),
		ModTime:        info.ModTime(),
	}, nil
}

// Delete removes a stored file. Missing files count as deleted.
func (ls *LocalStorage) Delete(_ context.Context, name string) error {
	if name == "" {
		return nil
	}
	if err := ValidateName(name); err != nil {
		return err
	}

	physicalPath := filepath.Join(ls.basePath, name)
	if err := os.Remove(physicalPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted successfully")
	return nil
}

// ctxReader stops a copy once the request context is done
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
