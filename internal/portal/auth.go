package portal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/digitalseva/portal/internal/identity"
	"github.com/digitalseva/portal/internal/model"
)

// Auth runs registration, login, and logout against the identity provider and
// keeps the profile table in sync.
type Auth struct {
	provider    identity.Provider
	users       UserStore
	adminEmails []string
	log         zerolog.Logger
}

// NewAuth constructs the workflow. adminEmails is the allow-list whose logins
// are promoted to the admin role.
func NewAuth(provider identity.Provider, users UserStore, adminEmails []string, log zerolog.Logger) *Auth {
	return &Auth{provider: provider, users: users, adminEmails: adminEmails, log: log}
}

// LoginResult carries the synced profile plus the provider session token the
// web layer stores in the session cookie.
type LoginResult struct {
	User  *model.User
	Token string
}

// Register creates a provider account and the matching customer profile.
func (a *Auth) Register(ctx context.Context, name, email, phone, password string) (*LoginResult, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return nil, &ValidationError{Message: "name, email, and password are required"}
	}
	sess, err := a.provider.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		ID:    sess.UserID,
		Name:  name,
		Email: email,
		Phone: strings.TrimSpace(phone),
		Role:  model.RoleCustomer,
	}
	if err := a.users.Create(ctx, u); err != nil {
		// The provider account exists but the profile insert failed; the next
		// login will recreate the profile row.
		a.log.Error().Err(err).Str("user", sess.UserID).Msg("profile insert after signup")
		return nil, err
	}
	return &LoginResult{User: u, Token: sess.Token}, nil
}

// Login authenticates and loads the profile. Allow-listed emails are upserted
// with the admin role no matter what is stored; an authenticated identity with
// no profile row gets a fresh customer profile.
func (a *Auth) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	sess, err := a.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	u, err := a.users.ByID(ctx, sess.UserID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if a.isAdminEmail(email) {
		promoted := &model.User{ID: sess.UserID, Email: email, Role: model.RoleAdmin, Name: "Admin User"}
		if u != nil {
			promoted.Name = u.Name
			promoted.Phone = u.Phone
			promoted.CreatedAt = u.CreatedAt
		}
		if u == nil || u.Role != model.RoleAdmin {
			if err := a.users.Upsert(ctx, promoted); err != nil {
				return nil, err
			}
		}
		u = promoted
	} else if u == nil {
		u = &model.User{
			ID:    sess.UserID,
			Name:  localPart(email),
			Email: email,
			Role:  model.RoleCustomer,
		}
		if err := a.users.Create(ctx, u); err != nil {
			return nil, err
		}
	}
	return &LoginResult{User: u, Token: sess.Token}, nil
}

// Logout ends the provider session.
func (a *Auth) Logout(ctx context.Context, token string) error {
	if err := a.provider.SignOut(ctx, token); err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	return nil
}

// Profile returns the caller's profile.
func (a *Auth) Profile(ctx context.Context, userID string) (*model.User, error) {
	return a.users.ByID(ctx, userID)
}

// UpdateProfile lets the owning user change name and phone.
func (a *Auth) UpdateProfile(ctx context.Context, userID, name, phone string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &ValidationError{Message: "name is required"}
	}
	return a.users.UpdateProfile(ctx, userID, name, strings.TrimSpace(phone))
}

func (a *Auth) isAdminEmail(email string) bool {
	for _, e := range a.adminEmails {
		if strings.EqualFold(strings.TrimSpace(e), email) {
			return true
		}
	}
	return false
}

func localPart(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}
