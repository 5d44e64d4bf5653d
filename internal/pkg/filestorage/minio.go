package filestorage

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yigit/signupdesk/internal/pkg/logger"
)

// MinioConfig describes the bucket photos are stored in
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinioStorage keeps uploads as objects in an S3 compatible bucket, keyed by generated name.
type MinioStorage struct {
	client *minio.Client
	bucket string
	namer  Namer
	now    func() time.Time
}

// normaliseEndpoint accepts "host:port" or "http(s)://host:port"
func normaliseEndpoint(raw string, useSSL bool) (endpoint string, secure bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false, fmt.Errorf("empty endpoint")
	}

	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", false, err
		}
		if u.Host == "" {
			return "", false, fmt.Errorf("invalid endpoint")
		}
		if u.Path != "" && u.Path != "/" {
			return "", false, fmt.Errorf("endpoint must not contain a path")
		}
		return u.Host, u.Scheme == "https", nil
	}

	return raw, useSSL, nil
}

// NewMinioStorage connects to the endpoint and checks that the bucket exists.
func NewMinioStorage(ctx context.Context, cfg MinioConfig, namer Namer) (*MinioStorage, error) {
	if namer == nil {
		namer = UniqueNamer
	}

	endpoint, secure, err := normaliseEndpoint(cfg.Endpoint, cfg.UseSSL)
	if err != nil {
		return nil, fmt.Errorf("invalid minio endpoint: %w", err)
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		return nil, fmt.Errorf("minio bucket does not exist: %s", cfg.Bucket)
	}
	logger.Info().Str("endpoint", endpoint).Str("bucket", cfg.Bucket).Msg("MinIO storage ready")

	return &MinioStorage{
		client: client,
		bucket: cfg.Bucket,
		namer:  namer,
		now:    time.Now,
	}, nil
}

// Save streams the upload into the bucket. PutObject either stores the whole object or nothing.
func (ms *MinioStorage) Save(ctx context.Context, fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader == nil {
		return "", nil
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	name := ms.namer(fileHeader.Filename, ms.now())
	if err := ValidateName(name); err != nil {
		return "", fmt.Errorf("generated name %q: %w", name, err)
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if _, err := ms.client.PutObject(ctx, ms.bucket, name, src, fileHeader.Size,
		minio.PutObjectOptions{ContentType: contentType}); err != nil {
		logger.Error().Err(err).Str("object", name).Msg("Failed to upload object")
		return "", fmt.Errorf("failed to store object: %w", err)
	}

	logger.Info().Str("filename", fileHeader.Filename).Str("saved_as", name).Str("bucket", ms.bucket).Msg("File saved successfully")
	return name, nil
}

// Open fetches the object metadata and returns a seekable reader over it
func (ms *MinioStorage) Open(ctx context.Context, name string) (*StoredFile, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	obj, err := ms.client.GetObject(ctx, ms.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", name, err)
	}

	info, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to stat object %s: %w", name, err)
	}

	return &StoredFile{
		ReadSeekCloser: obj,
		Name:           name,
		Size:           info.Size,
		ModTime:        info.LastModified,
		ContentType:    info.ContentType,
	}, nil
}

// Delete removes the object; S3 treats missing keys as already deleted
func (ms *MinioStorage) Delete(ctx context.Context, name string) error {
	if name == "" {
		return nil
	}
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := ms.client.RemoveObject(ctx, ms.bucket, name, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", name, err)
	}
	return nil
}
