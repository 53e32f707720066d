package web

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/digitalseva/portal/internal/identity"
	"github.com/digitalseva/portal/internal/model"
)

const (
	cookieSession = "session"
	cookieRole    = "role"
	cookieLang    = "lang"
)

// TokenVerifier identifies the caller behind a session cookie. Satisfied by
// identity.Verifier.
type TokenVerifier interface {
	Verify(token string) (*identity.Claims, error)
}

// guard is the request-level gate evaluated before any page renders. It
// trusts the session and role cookies; it does not re-verify the token or
// re-fetch the role, so a revoked session is only caught once the marker is
// cleared or an action needing the verified identity runs.
func (s *Server) guard() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		session, _ := c.Cookie(cookieSession)
		role, _ := c.Cookie(cookieRole)

		protected := strings.HasPrefix(path, "/dashboard") || strings.HasPrefix(path, "/admin")
		if session == "" && protected {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		if session != "" && strings.HasPrefix(path, "/admin") && role != string(model.RoleAdmin) {
			c.Redirect(http.StatusFound, "/dashboard")
			c.Abort()
			return
		}
		if session != "" && c.Request.Method == http.MethodGet && (path == "/login" || path == "/register") {
			if role == string(model.RoleAdmin) {
				c.Redirect(http.StatusFound, "/admin/dashboard")
			} else {
				c.Redirect(http.StatusFound, "/dashboard")
			}
			c.Abort()
			return
		}
		c.Next()
	}
}

// requireUser resolves the verified identity behind the session cookie and
// stores the subject on the context. An invalid or expired token clears the
// session markers and sends the caller back to login.
func (s *Server) requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieSession)
		if err != nil || token == "" {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		claims, err := s.verifier.Verify(token)
		if err != nil {
			s.clearSession(c)
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Set(ctxUserID, claims.Subject)
		c.Set(ctxToken, token)
		c.Next()
	}
}

// requireAdminRole re-derives the caller's role from the users table before a
// mutating admin action, so a stale role cookie cannot authorize writes.
func (s *Server) requireAdminRole() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := s.auth.Profile(c.Request.Context(), c.GetString(ctxUserID))
		if err != nil || u.Role != model.RoleAdmin {
			c.Redirect(http.StatusFound, "/dashboard")
			c.Abort()
			return
		}
		c.Next()
	}
}

const (
	ctxUserID = "userID"
	ctxToken  = "sessionToken"
)

func (s *Server) setSession(c *gin.Context, token string, role model.Role) {
	maxAge := int(s.cfg.SessionTTL.Seconds())
	c.SetCookie(cookieSession, token, maxAge, "/", "", false, true)
	c.SetCookie(cookieRole, string(role), maxAge, "/", "", false, false)
}

func (s *Server) clearSession(c *gin.Context) {
	c.SetCookie(cookieSession, "", -1, "/", "", false, true)
	c.SetCookie(cookieRole, "", -1, "/", "", false, false)
}
