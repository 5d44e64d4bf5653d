package repositories

import (
	"context"
	"time"

	"github.com/yigit/signupdesk/internal/app/models"
	"github.com/yigit/signupdesk/internal/db"
	"github.com/yigit/signupdesk/internal/pkg/apperrors"
	"github.com/yigit/signupdesk/internal/pkg/dberrors"
	"github.com/yigit/signupdesk/internal/pkg/logger"
)

// RecordPtr is a pointer to a signup record type
type RecordPtr[R any] interface {
	*R
	models.Record
}

// SignupRepository stores one kind of signup record in its namespace
type SignupRepository[R any, P RecordPtr[R]] struct {
	store db.DocumentStore
	ns    db.Namespace
	now   func() time.Time
}

// NewSignupRepository creates a repository bound to ns
func NewSignupRepository[R any, P RecordPtr[R]](store db.DocumentStore, ns db.Namespace) *SignupRepository[R, P] {
	return &SignupRepository[R, P]{
		store: store,
		ns:    ns,
		now:   time.Now,
	}
}

// Namespace returns where the records live
func (r *SignupRepository[R, P]) Namespace() db.Namespace {
	return r.ns
}

// idAttempts bounds how often Create draws a new id after a duplicate key
const idAttempts = 3

// Create assigns an id and creation time and inserts the record
func (r *SignupRepository[R, P]) Create(ctx context.Context, record P) error {
	createdAt := r.now().UTC().Truncate(time.Millisecond)

	var err error
	for attempt := 1; attempt <= idAttempts; attempt++ {
		record.AssignIdentity(r.store.NewID(), createdAt)

		err = r.store.InsertOne(ctx, r.ns, record)
		if err == nil {
			return nil
		}
		if !dberrors.IsDuplicateKey(err) {
			break
		}
		logger.Warn().Str("namespace", r.ns.String()).Str("id", record.DocumentID()).Int("attempt", attempt).Msg("Duplicate id, retrying")
	}

	logger.Error().Err(err).Str("namespace", r.ns.String()).Msg("Error inserting signup record")
	return apperrors.WrapDatabase("insert "+r.ns.String(), err)
}

// FindAll returns every record in insertion order, never nil
func (r *SignupRepository[R, P]) FindAll(ctx context.Context) ([]R, error) {
	records := make([]R, 0)
	if err := r.store.FindAll(ctx, r.ns, &records); err != nil {
		logger.Error().Err(err).Str("namespace", r.ns.String()).Msg("Error listing signup records")
		return nil, apperrors.WrapDatabase("find "+r.ns.String(), err)
	}
	if records == nil {
		records = make([]R, 0)
	}
	return records, nil
}
