package portal

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitalseva/portal/internal/identity"
	"github.com/digitalseva/portal/internal/model"
)

func newAuthFixture(adminEmails ...string) (*Auth, *FakeProvider, *MemoryUsers) {
	provider := NewFakeProvider()
	users := NewMemoryUsers()
	return NewAuth(provider, users, adminEmails, zerolog.Nop()), provider, users
}

func TestRegisterCreatesCustomerProfile(t *testing.T) {
	ctx := context.Background()
	auth, _, users := newAuthFixture()

	res, err := auth.Register(ctx, "Asha", "asha@example.com", "9999999999", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)

	u, err := users.ByID(ctx, res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleCustomer, u.Role)
	assert.Equal(t, "Asha", u.Name)
	assert.Equal(t, "asha@example.com", u.Email)
	assert.Equal(t, "9999999999", u.Phone)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	auth, _, _ := newAuthFixture()

	_, err := auth.Register(ctx, "Asha", "asha@example.com", "", "secret1")
	require.NoError(t, err)
	_, err = auth.Register(ctx, "Asha Again", "asha@example.com", "", "secret2")
	assert.ErrorIs(t, err, identity.ErrDuplicateEmail)
}

func TestRegisterRejectsEmptyFields(t *testing.T) {
	auth, _, _ := newAuthFixture()
	_, err := auth.Register(context.Background(), " ", "a@b.c", "", "pw")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestLoginBadCredentials(t *testing.T) {
	ctx := context.Background()
	auth, _, _ := newAuthFixture()
	_, err := auth.Register(ctx, "Asha", "asha@example.com", "", "secret1")
	require.NoError(t, err)

	_, err = auth.Login(ctx, "asha@example.com", "wrong")
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
}

func TestLoginAllowListedEmailForcesAdmin(t *testing.T) {
	ctx := context.Background()
	auth, _, users := newAuthFixture("boss@example.com")

	res, err := auth.Register(ctx, "Boss", "boss@example.com", "", "secret1")
	require.NoError(t, err)
	require.Equal(t, model.RoleCustomer, res.User.Role)

	res, err = auth.Login(ctx, "boss@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, res.User.Role)

	// The promotion must be persisted, not just reflected in the result.
	u, err := users.ByID(ctx, res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, u.Role)
	assert.Equal(t, "Boss", u.Name)
}

func TestLoginAllowListIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	auth, _, _ := newAuthFixture("Boss@Example.com")

	_, err := auth.Register(ctx, "Boss", "boss@example.com", "", "secret1")
	require.NoError(t, err)
	res, err := auth.Login(ctx, "boss@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, res.User.Role)
}

func TestLoginCreatesMissingProfile(t *testing.T) {
	ctx := context.Background()
	provider := NewFakeProvider()
	users := NewMemoryUsers()
	auth := NewAuth(provider, users, nil, zerolog.Nop())

	// Account exists at the provider but was never synced to the profile
	// table (created out-of-band).
	sess, err := provider.SignUp(ctx, "lone@example.com", "pw")
	require.NoError(t, err)

	res, err := auth.Login(ctx, "lone@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, res.User.ID)
	assert.Equal(t, model.RoleCustomer, res.User.Role)
	assert.Equal(t, "lone", res.User.Name)

	_, err = users.ByID(ctx, sess.UserID)
	assert.NoError(t, err)
}

func TestLogoutRevokesProviderSession(t *testing.T) {
	ctx := context.Background()
	auth, provider, _ := newAuthFixture()
	res, err := auth.Register(ctx, "Asha", "asha@example.com", "", "secret1")
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, res.Token))
	assert.Contains(t, provider.Revoked, res.Token)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	auth, _, users := newAuthFixture()
	res, err := auth.Register(ctx, "Asha", "asha@example.com", "9999999999", "secret1")
	require.NoError(t, err)

	require.NoError(t, auth.UpdateProfile(ctx, res.User.ID, "Asha K", "8888888888"))
	u, err := users.ByID(ctx, res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha K", u.Name)
	assert.Equal(t, "8888888888", u.Phone)

	err = auth.UpdateProfile(ctx, res.User.ID, " ", "")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}
