package portal

import (
	"bytes"
	"context"
	"errors"
	"io"
	"regexp"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitalseva/portal/internal/model"
)

type submitFixture struct {
	subs     *Submissions
	users    *MemoryUsers
	services *MemoryServices
	apps     *MemoryApplications
	blobs    *MemoryBlobs
	cleaner  *MemoryCleaner
	service  *model.Service
}

func newSubmitFixture(t *testing.T) *submitFixture {
	t.Helper()
	users := NewMemoryUsers()
	services := NewMemoryServices()
	apps := NewMemoryApplications(users, services)
	blobs := NewMemoryBlobs()
	cleaner := NewMemoryCleaner()
	require.NoError(t, users.Create(context.Background(), &model.User{ID: "uid-1", Name: "Asha", Email: "asha@example.com"}))
	svc := &model.Service{Name: "PAN Card", RequiredDocuments: []string{"Aadhaar", "Photo"}}
	require.NoError(t, services.Create(context.Background(), svc))
	return &submitFixture{
		subs:     NewSubmissions(services, apps, blobs, cleaner, zerolog.Nop()),
		users:    users,
		services: services,
		apps:     apps,
		blobs:    blobs,
		cleaner:  cleaner,
		service:  svc,
	}
}

func upload(name string, content string) FileUpload {
	return FileUpload{
		Filename:    name,
		Size:        int64(len(content)),
		ContentType: "application/pdf",
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader([]byte(content))), nil
		},
	}
}

func TestSubmitCreatesApplicationAndDocuments(t *testing.T) {
	ctx := context.Background()
	f := newSubmitFixture(t)

	app, err := f.subs.Submit(ctx, "uid-1", f.service.ID, map[string]FileUpload{
		"Aadhaar": upload("aadhaar.pdf", "aadhaar bytes"),
		"Photo":   upload("photo.jpg", "photo bytes"),
	})
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^DSC-\d{6}$`), app.Code)
	assert.Equal(t, model.StatusPending, app.Status)

	detail, err := f.subs.Detail(ctx, "uid-1", app.ID)
	require.NoError(t, err)
	require.Len(t, detail.Documents, len(f.service.RequiredDocuments))
	// Documents follow catalog order and keep the uploaded extension.
	assert.Equal(t, "Aadhaar", detail.Documents[0].Label)
	assert.Equal(t, "uid-1/"+app.ID+"/Aadhaar.pdf", detail.Documents[0].ObjectKey)
	assert.Equal(t, "https://blobs.test/documents/uid-1/"+app.ID+"/Photo.jpg", detail.Documents[1].FileURL)
	assert.Equal(t, 2, f.blobs.Len())
}

func TestSubmitMissingDocuments(t *testing.T) {
	ctx := context.Background()
	f := newSubmitFixture(t)

	_, err := f.subs.Submit(ctx, "uid-1", f.service.ID, map[string]FileUpload{
		"Photo": upload("photo.jpg", "photo bytes"),
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"Aadhaar"}, verr.Missing)
	assert.Equal(t, 0, f.blobs.Len())

	apps, err := f.subs.ListMine(ctx, "uid-1")
	require.NoError(t, err)
	assert.Empty(t, apps)
}

func TestSubmitUnknownService(t *testing.T) {
	f := newSubmitFixture(t)
	_, err := f.subs.Submit(context.Background(), "uid-1", "svc-missing", nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitUploadFailureLeavesNoRows(t *testing.T) {
	ctx := context.Background()
	f := newSubmitFixture(t)
	f.blobs.FailKey = "Photo"

	_, err := f.subs.Submit(ctx, "uid-1", f.service.ID, map[string]FileUpload{
		"Aadhaar": upload("aadhaar.pdf", "aadhaar bytes"),
		"Photo":   upload("photo.jpg", "photo bytes"),
	})
	require.Error(t, err)

	apps, err := f.subs.ListMine(ctx, "uid-1")
	require.NoError(t, err)
	assert.Empty(t, apps)
	// The already-staged Aadhaar object is scheduled for cleanup.
	assert.Contains(t, f.cleaner.Keys()[0], "Aadhaar.pdf")
}

func TestSubmitCommitFailureSchedulesCleanup(t *testing.T) {
	ctx := context.Background()
	f := newSubmitFixture(t)
	f.apps.FailCreate = errors.New("db down")

	_, err := f.subs.Submit(ctx, "uid-1", f.service.ID, map[string]FileUpload{
		"Aadhaar": upload("aadhaar.pdf", "aadhaar bytes"),
		"Photo":   upload("photo.jpg", "photo bytes"),
	})
	require.Error(t, err)
	assert.Len(t, f.cleaner.Keys(), 2)
}

func TestDetailHidesOtherUsersApplications(t *testing.T) {
	ctx := context.Background()
	f := newSubmitFixture(t)
	app, err := f.subs.Submit(ctx, "uid-1", f.service.ID, map[string]FileUpload{
		"Aadhaar": upload("aadhaar.pdf", "a"),
		"Photo":   upload("photo.jpg", "p"),
	})
	require.NoError(t, err)

	_, err = f.subs.Detail(ctx, "uid-2", app.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteApplicationSchedulesBlobCleanup(t *testing.T) {
	ctx := context.Background()
	f := newSubmitFixture(t)
	app, err := f.subs.Submit(ctx, "uid-1", f.service.ID, map[string]FileUpload{
		"Aadhaar": upload("aadhaar.pdf", "a"),
		"Photo":   upload("photo.jpg", "p"),
	})
	require.NoError(t, err)

	// Another user cannot delete it.
	assert.ErrorIs(t, f.subs.Delete(ctx, "uid-2", app.ID), ErrNotFound)

	require.NoError(t, f.subs.Delete(ctx, "uid-1", app.ID))
	apps, err := f.subs.ListMine(ctx, "uid-1")
	require.NoError(t, err)
	assert.Empty(t, apps)
	assert.Len(t, f.cleaner.Keys(), 2)
}
