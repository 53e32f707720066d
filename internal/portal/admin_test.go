package portal

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitalseva/portal/internal/model"
)

func TestUpdateReviewLastWriteWins(t *testing.T) {
	ctx := context.Background()
	f := newSubmitFixture(t)
	admin := NewAdmin(f.apps, f.users)

	app, err := f.subs.Submit(ctx, "uid-1", f.service.ID, map[string]FileUpload{
		"Aadhaar": upload("aadhaar.pdf", "a"),
		"Photo":   upload("photo.jpg", "p"),
	})
	require.NoError(t, err)

	require.NoError(t, admin.UpdateReview(ctx, app.ID, model.StatusProcessing, "Under verification"))
	require.NoError(t, admin.UpdateReview(ctx, app.ID, model.StatusCompleted, "Approved"))

	got, err := admin.Application(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, got.Status)
	assert.Equal(t, "Approved", got.Remarks)
	assert.Equal(t, "Asha", got.User.Name)
	assert.Equal(t, "PAN Card", got.Service.Name)
	assert.Len(t, got.Documents, 2)
}

func TestUpdateReviewRejectsUnknownStatus(t *testing.T) {
	f := newSubmitFixture(t)
	admin := NewAdmin(f.apps, f.users)
	err := admin.UpdateReview(context.Background(), "whatever", model.Status("approved"), "")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestUpdateReviewUnknownApplication(t *testing.T) {
	f := newSubmitFixture(t)
	admin := NewAdmin(f.apps, f.users)
	err := admin.UpdateReview(context.Background(), "app-missing", model.StatusRejected, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetRole(t *testing.T) {
	ctx := context.Background()
	f := newSubmitFixture(t)
	admin := NewAdmin(f.apps, f.users)

	require.NoError(t, admin.SetRole(ctx, "uid-1", model.RoleAdmin))
	u, err := f.users.ByID(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, u.Role)

	var verr *ValidationError
	assert.ErrorAs(t, admin.SetRole(ctx, "uid-1", model.Role("owner")), &verr)
	assert.ErrorIs(t, admin.SetRole(ctx, "uid-404", model.RoleAdmin), ErrNotFound)
}

func TestTracker(t *testing.T) {
	ctx := context.Background()
	f := newSubmitFixture(t)
	tracker := NewTracker(f.apps)

	app, err := f.subs.Submit(ctx, "uid-1", f.service.ID, map[string]FileUpload{
		"Aadhaar": {Filename: "a.pdf", Size: 1, Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader([]byte("a"))), nil
		}},
		"Photo": upload("photo.jpg", "p"),
	})
	require.NoError(t, err)

	got, err := tracker.Track(ctx, "  "+app.Code+" ")
	require.NoError(t, err)
	assert.Equal(t, "PAN Card", got.ServiceName)
	assert.Equal(t, model.StatusPending, got.Status)

	_, err = tracker.Track(ctx, "DSC-000000")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = tracker.Track(ctx, "   ")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}
