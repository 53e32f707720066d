package portal

import (
	"context"
	"fmt"

	"github.com/digitalseva/portal/internal/model"
)

// Admin runs the back-office workflows: review queue, status/remarks updates,
// and role management.
type Admin struct {
	apps  ApplicationStore
	users UserStore
}

// NewAdmin constructs the workflow.
func NewAdmin(apps ApplicationStore, users UserStore) *Admin {
	return &Admin{apps: apps, users: users}
}

// Applications returns every application with applicant and service names.
func (a *Admin) Applications(ctx context.Context) ([]model.ApplicationSummary, error) {
	return a.apps.ListAll(ctx)
}

// Application returns one application expanded with owner, service, and
// documents.
func (a *Admin) Application(ctx context.Context, id string) (*model.ApplicationDetail, error) {
	return a.apps.DetailByID(ctx, id)
}

// UpdateReview sets status and remarks. Any of the four statuses may follow
// any other; the last write wins.
func (a *Admin) UpdateReview(ctx context.Context, id string, status model.Status, remarks string) error {
	if !model.ValidStatus(status) {
		return &ValidationError{Message: fmt.Sprintf("unknown status %q", status)}
	}
	return a.apps.UpdateReview(ctx, id, status, remarks)
}

// Users lists every profile.
func (a *Admin) Users(ctx context.Context) ([]model.User, error) {
	return a.users.List(ctx)
}

// SetRole changes a user's role. This is the supported way to grant or revoke
// admin access after bootstrap.
func (a *Admin) SetRole(ctx context.Context, userID string, role model.Role) error {
	if role != model.RoleCustomer && role != model.RoleAdmin {
		return &ValidationError{Message: fmt.Sprintf("unknown role %q", role)}
	}
	return a.users.UpdateRole(ctx, userID, role)
}
