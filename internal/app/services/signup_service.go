package services

import (
	"context"

	"github.com/yigit/signupdesk/internal/app/repositories"
	"github.com/yigit/signupdesk/internal/pkg/filestorage"
	"github.com/yigit/signupdesk/internal/pkg/logger"
)

// SignupService defines the operations available for one signup kind
type SignupService[R any, P repositories.RecordPtr[R]] interface {
	// Register stores record. photo is the stored upload referenced by record, "" if none;
	// it is removed again when the record cannot be stored.
	Register(ctx context.Context, record P, photo string) error
	List(ctx context.Context) ([]R, error)
	// DiscardPhoto removes an upload whose signup was rejected
	DiscardPhoto(photo string)
}

// signupRepository is the part of SignupRepository the service needs
type signupRepository[R any, P repositories.RecordPtr[R]] interface {
	Create(ctx context.Context, record P) error
	FindAll(ctx context.Context) ([]R, error)
}

type signupServiceImpl[R any, P repositories.RecordPtr[R]] struct {
	repo    signupRepository[R, P]
	storage filestorage.FileStorage
}

// NewSignupService creates a new signup service instance
func NewSignupService[R any, P repositories.RecordPtr[R]](repo signupRepository[R, P], storage filestorage.FileStorage) SignupService[R, P] {
	return &signupServiceImpl[R, P]{
		repo:    repo,
		storage: storage,
	}
}

func (s *signupServiceImpl[R, P]) Register(ctx context.Context, record P, photo string) error {
	if err := s.repo.Create(ctx, record); err != nil {
		s.DiscardPhoto(photo)
		return err
	}
	return nil
}

func (s *signupServiceImpl[R, P]) List(ctx context.Context) ([]R, error) {
	return s.repo.FindAll(ctx)
}

// DiscardPhoto runs detached from the request so a cancelled client still gets its upload removed
func (s *signupServiceImpl[R, P]) DiscardPhoto(photo string) {
	if photo == "" || s.storage == nil {
		return
	}
	if err := s.storage.Delete(context.Background(), photo); err != nil {
		logger.Warn().Err(err).Str("photo", photo).Msg("Failed to remove photo of rejected signup")
	}
}
