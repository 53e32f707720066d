// Package web serves the portal's pages: public tracking, citizen dashboard,
// and the admin area, all behind the cookie route guard.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/digitalseva/portal/internal/config"
	"github.com/digitalseva/portal/internal/portal"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Server wires the workflows into a gin engine.
type Server struct {
	cfg      *config.Config
	auth     *portal.Auth
	catalog  *portal.Catalog
	subs     *portal.Submissions
	admin    *portal.Admin
	tracker  *portal.Tracker
	verifier TokenVerifier
	log      zerolog.Logger
	engine   *gin.Engine
}

// New constructs the Server and registers all routes.
func New(cfg *config.Config, auth *portal.Auth, catalog *portal.Catalog, subs *portal.Submissions,
	admin *portal.Admin, tracker *portal.Tracker, verifier TokenVerifier, log zerolog.Logger) (*Server, error) {
	s := &Server{
		cfg:      cfg,
		auth:     auth,
		catalog:  catalog,
		subs:     subs,
		admin:    admin,
		tracker:  tracker,
		verifier: verifier,
		log:      log,
	}
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"upper": upperStatus,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(s.requestLogger(), gin.Recovery())
	engine.SetHTMLTemplate(tmpl)
	staticRoot, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}
	engine.StaticFS("/static", http.FS(staticRoot))
	s.engine = engine
	s.routes()
	return s, nil
}

// Handler exposes the engine, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts the HTTP server and blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.cfg.Address, Handler: s.engine}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	s.log.Info().Str("address", s.cfg.Address).Msg("portal listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) routes() {
	e := s.engine
	e.Use(s.guard())

	e.GET("/", s.handleHome)
	e.GET("/track", s.handleTrack)
	e.GET("/lang/:code", s.handleLang)

	e.GET("/login", s.handleLoginPage)
	e.POST("/login", s.handleLogin)
	e.GET("/register", s.handleRegisterPage)
	e.POST("/register", s.handleRegister)
	e.POST("/logout", s.handleLogout)

	dash := e.Group("/dashboard", s.requireUser())
	dash.GET("", s.handleDashboard)
	dash.GET("/apply", s.handleApplyPage)
	dash.POST("/apply", s.handleApply)
	dash.GET("/applications/:id", s.handleApplicationDetail)
	dash.POST("/applications/:id/delete", s.handleApplicationDelete)
	dash.GET("/profile", s.handleProfilePage)
	dash.POST("/profile", s.handleProfileUpdate)

	admin := e.Group("/admin", s.requireUser())
	admin.GET("/dashboard", s.handleAdminDashboard)
	admin.GET("/applications/:id", s.handleAdminApplication)
	admin.POST("/applications/:id", s.requireAdminRole(), s.handleAdminReview)
	admin.GET("/services", s.handleAdminServices)
	admin.POST("/services", s.requireAdminRole(), s.handleAdminServiceSave)
	admin.POST("/services/:id/delete", s.requireAdminRole(), s.handleAdminServiceDelete)
	admin.GET("/users", s.handleAdminUsers)
	admin.POST("/users/:id/role", s.requireAdminRole(), s.handleAdminSetRole)
}

// pageData assembles the fields every template expects; extra merges
// page-specific values on top.
func (s *Server) pageData(c *gin.Context, extra gin.H) gin.H {
	lang, _ := c.Cookie(cookieLang)
	if lang != langKannada {
		lang = langEnglish
	}
	session, _ := c.Cookie(cookieSession)
	role, _ := c.Cookie(cookieRole)
	// Optional keys templates render into value attributes default to empty
	// strings so a page without them never shows "<no value>".
	data := gin.H{
		"Lang":     lang,
		"T":        stringsFor(lang),
		"LoggedIn": session != "",
		"IsAdmin":  role == "admin",
		"Error":    "",
		"Code":     "",
		"Name":     "",
		"Email":    "",
		"Phone":    "",
	}
	for k, v := range extra {
		data[k] = v
	}
	return data
}

// renderError re-renders a page with the inline error panel filled in. All
// workflow failures surface this way; nothing is retried.
func (s *Server) renderError(c *gin.Context, page string, err error, extra gin.H) {
	s.log.Error().Err(err).Str("page", page).Msg("workflow error")
	if extra == nil {
		extra = gin.H{}
	}
	extra["Error"] = userMessage(err)
	c.HTML(http.StatusOK, page, s.pageData(c, extra))
}

// userMessage maps workflow errors onto the text shown in the error panel.
// Unexpected upstream failures surface the collaborator's raw message.
func userMessage(err error) string {
	var verr *portal.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Error()
	case portal.IsNotFound(err):
		return "Application not found. Please check the ID."
	default:
		return err.Error()
	}
}

func upperStatus(v any) string {
	s := fmt.Sprint(v)
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch >= 'a' && ch <= 'z' {
			ch -= 'a' - 'A'
		}
		out[i] = ch
	}
	return string(out)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}
