// Package portal implements the citizen and admin workflows: registration and
// login, the service catalog, application submission with document upload,
// admin review, and public tracking. Persistence and the identity provider sit
// behind small interfaces so the workflows can be exercised without live
// collaborators.
package portal

import (
	"context"
	"io"

	"github.com/digitalseva/portal/internal/model"
)

// UserStore persists profiles keyed by identity-provider id.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	Upsert(ctx context.Context, u *model.User) error
	ByID(ctx context.Context, id string) (*model.User, error)
	UpdateProfile(ctx context.Context, id, name, phone string) error
	UpdateRole(ctx context.Context, id string, role model.Role) error
	List(ctx context.Context) ([]model.User, error)
}

// ServiceStore persists the catalog.
type ServiceStore interface {
	List(ctx context.Context) ([]model.Service, error)
	ByID(ctx context.Context, id string) (*model.Service, error)
	Create(ctx context.Context, s *model.Service) error
	Update(ctx context.Context, s *model.Service) error
	Delete(ctx context.Context, id string) error
}

// ApplicationStore persists applications and their document rows.
type ApplicationStore interface {
	CreateWithDocuments(ctx context.Context, app *model.Application, docs []model.Document) error
	ListByUser(ctx context.Context, userID string) ([]model.ApplicationSummary, error)
	ListAll(ctx context.Context) ([]model.ApplicationSummary, error)
	DetailByID(ctx context.Context, id string) (*model.ApplicationDetail, error)
	ByCode(ctx context.Context, code string) (*model.ApplicationSummary, error)
	UpdateReview(ctx context.Context, id string, status model.Status, remarks string) error
	Delete(ctx context.Context, id, userID string) ([]string, error)
}

// BlobStore uploads document files and derives their public URLs.
type BlobStore interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	PublicURL(key string) string
}

// Cleaner schedules removal of blob objects that lost their rows.
type Cleaner interface {
	EnqueueCleanup(ctx context.Context, keys []string) error
}
