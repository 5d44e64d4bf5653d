package filestorage

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"
)

var (
	// ErrFileNotFound is returned by Open when no stored file carries the name
	ErrFileNotFound = errors.New("file not found")
	// ErrInvalidFileName is returned for names that could escape the storage root
	ErrInvalidFileName = errors.New("invalid file name")
)

// tempPrefix marks in-flight local writes; such names are never served
const tempPrefix = ".upload-"

// StoredFile is an opened stored file, ready to be streamed back to a client
type StoredFile struct {
	io.ReadSeekCloser
	Name        string
	Size        int64
	ModTime     time.Time
	ContentType string // empty when the backend does not know it
}

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// Save writes the upload under a generated name and returns that name.
	// On error nothing is left behind.
	Save(ctx context.Context, fileHeader *multipart.FileHeader) (string, error)

	// Open returns the stored file with the given name
	Open(ctx context.Context, name string) (*StoredFile, error)

	// Delete removes a stored file; missing files are not an error
	Delete(ctx context.Context, name string) error
}

// ValidateName rejects anything that is not a plain, visible file name
func ValidateName(name string) error {
	if name == "" || strings.HasPrefix(name, ".") || strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return ErrInvalidFileName
	}
	return nil
}
