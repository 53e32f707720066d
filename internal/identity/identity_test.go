package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/signup", func(w http.ResponseWriter, r *http.Request) {
		var body struct{ Email, Password string }
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body.Email == "taken@example.com" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_ = json.NewEncoder(w).Encode(map[string]string{"msg": "User already registered"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-123",
			"user":         map[string]string{"id": "uid-123", "email": body.Email},
		})
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		var body struct{ Email, Password string }
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body.Password != "secret1" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error_description": "Invalid login credentials"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-456",
			"user":         map[string]string{"id": "uid-123", "email": body.Email},
		})
	})
	mux.HandleFunc("/logout", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-456", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	})
	return httptest.NewServer(mux)
}

func TestClientSignUp(t *testing.T) {
	srv := newAuthServer(t)
	defer srv.Close()
	client, err := NewClient(Config{BaseURL: srv.URL, APIKey: "anon"})
	require.NoError(t, err)

	sess, err := client.SignUp(context.Background(), "asha@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "uid-123", sess.UserID)
	assert.Equal(t, "tok-123", sess.Token)

	_, err = client.SignUp(context.Background(), "taken@example.com", "secret1")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestClientSignIn(t *testing.T) {
	srv := newAuthServer(t)
	defer srv.Close()
	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	sess, err := client.SignIn(context.Background(), "asha@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "tok-456", sess.Token)

	_, err = client.SignIn(context.Background(), "asha@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestClientSignOut(t *testing.T) {
	srv := newAuthServer(t)
	defer srv.Close()
	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)
	assert.NoError(t, client.SignOut(context.Background(), "tok-456"))
}

func TestClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}

func signToken(t *testing.T, secret, sub string, exp time.Time) string {
	t.Helper()
	claims := Claims{
		Email: "asha@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestVerifier(t *testing.T) {
	v := NewVerifier("shared-secret")

	claims, err := v.Verify(signToken(t, "shared-secret", "uid-123", time.Now().Add(time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, "uid-123", claims.Subject)
	assert.Equal(t, "asha@example.com", claims.Email)

	_, err = v.Verify(signToken(t, "other-secret", "uid-123", time.Now().Add(time.Hour)))
	assert.Error(t, err)

	_, err = v.Verify(signToken(t, "shared-secret", "uid-123", time.Now().Add(-time.Hour)))
	assert.Error(t, err)

	_, err = v.Verify("not-a-token")
	assert.Error(t, err)
}
