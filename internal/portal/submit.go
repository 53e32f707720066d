package portal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/digitalseva/portal/internal/model"
)

// FileUpload is one uploaded file, decoupled from the HTTP multipart types so
// the workflow can be exercised directly.
type FileUpload struct {
	Filename    string
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// Submissions runs the application submission workflow: validate the document
// set, stage every file to the blob store, then commit the application and
// document rows in a single transaction. A failed commit schedules cleanup of
// the staged objects, so no pending application ever carries a partial
// document set.
type Submissions struct {
	services ServiceStore
	apps     ApplicationStore
	blobs    BlobStore
	cleaner  Cleaner
	log      zerolog.Logger
}

// NewSubmissions constructs the workflow.
func NewSubmissions(services ServiceStore, apps ApplicationStore, blobs BlobStore, cleaner Cleaner, log zerolog.Logger) *Submissions {
	return &Submissions{services: services, apps: apps, blobs: blobs, cleaner: cleaner, log: log}
}

// Submit files one application for userID against serviceID. files is keyed
// by required-document label.
func (s *Submissions) Submit(ctx context.Context, userID, serviceID string, files map[string]FileUpload) (*model.Application, error) {
	svc, err := s.services.ByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	var missing []string
	for _, label := range svc.RequiredDocuments {
		if _, ok := files[label]; !ok {
			missing = append(missing, label)
		}
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Missing: missing}
	}

	appID := uuid.NewString()
	var (
		docs   []model.Document
		staged []string
	)
	for _, label := range svc.RequiredDocuments {
		f := files[label]
		key := objectKey(userID, appID, label, f.Filename)
		if err := s.stage(ctx, key, f); err != nil {
			s.scheduleCleanup(ctx, staged)
			return nil, fmt.Errorf("upload %q: %w", label, err)
		}
		staged = append(staged, key)
		docs = append(docs, model.Document{
			ID:        uuid.NewString(),
			Label:     label,
			FileURL:   s.blobs.PublicURL(key),
			ObjectKey: key,
		})
	}

	app := &model.Application{ID: appID, UserID: userID, ServiceID: svc.ID}
	if err := s.apps.CreateWithDocuments(ctx, app, docs); err != nil {
		s.scheduleCleanup(ctx, staged)
		return nil, err
	}
	return app, nil
}

// ListMine returns the caller's applications.
func (s *Submissions) ListMine(ctx context.Context, userID string) ([]model.ApplicationSummary, error) {
	return s.apps.ListByUser(ctx, userID)
}

// Detail returns the caller's application with documents, refusing to expose
// someone else's.
func (s *Submissions) Detail(ctx context.Context, userID, appID string) (*model.ApplicationDetail, error) {
	d, err := s.apps.DetailByID(ctx, appID)
	if err != nil {
		return nil, err
	}
	if d.UserID != userID {
		return nil, ErrNotFound
	}
	return d, nil
}

// Delete hard-deletes the caller's application; rows cascade and blobs are
// removed by the cleanup worker.
func (s *Submissions) Delete(ctx context.Context, userID, appID string) error {
	keys, err := s.apps.Delete(ctx, appID, userID)
	if err != nil {
		return err
	}
	s.scheduleCleanup(ctx, keys)
	return nil
}

func (s *Submissions) stage(ctx context.Context, key string, f FileUpload) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return s.blobs.Upload(ctx, key, rc, f.Size, contentType)
}

func (s *Submissions) scheduleCleanup(ctx context.Context, keys []string) {
	if len(keys) == 0 {
		return
	}
	if err := s.cleaner.EnqueueCleanup(ctx, keys); err != nil {
		s.log.Error().Err(err).Strs("keys", keys).Msg("enqueue blob cleanup")
	}
}

// objectKey builds {userID}/{applicationID}/{label}.{ext}, keeping the
// original file's extension.
func objectKey(userID, appID, label, filename string) string {
	return userID + "/" + appID + "/" + label + path.Ext(filename)
}

// IsNotFound reports whether err means the requested record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
