package web

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/digitalseva/portal/internal/model"
	"github.com/digitalseva/portal/internal/portal"
)

func (s *Server) handleDashboard(c *gin.Context) {
	s.renderDashboard(c, nil)
}

// renderDashboard shows the application list with counters; cause, when set,
// fills the error panel on top of it.
func (s *Server) renderDashboard(c *gin.Context, cause error) {
	apps, err := s.subs.ListMine(c.Request.Context(), c.GetString(ctxUserID))
	if err != nil {
		if cause == nil {
			cause = err
		}
		apps = nil
	}
	var inProgress, completed int
	for _, a := range apps {
		switch a.Status {
		case model.StatusPending, model.StatusProcessing:
			inProgress++
		case model.StatusCompleted:
			completed++
		}
	}
	data := gin.H{
		"Applications": apps,
		"Total":        len(apps),
		"InProgress":   inProgress,
		"Completed":    completed,
	}
	if cause != nil {
		s.log.Error().Err(cause).Msg("dashboard")
		data["Error"] = userMessage(cause)
	}
	c.HTML(http.StatusOK, "dashboard.html", s.pageData(c, data))
}

// handleApplyPage renders step one (pick a service) or, with ?service=ID, step
// two (upload the required documents).
func (s *Server) handleApplyPage(c *gin.Context) {
	if id := c.Query("service"); id != "" {
		svc, err := s.catalog.Get(c.Request.Context(), id)
		if err != nil {
			s.renderApplyStepOne(c, err)
			return
		}
		c.HTML(http.StatusOK, "apply.html", s.pageData(c, gin.H{"Service": svc}))
		return
	}
	s.renderApplyStepOne(c, nil)
}

func (s *Server) renderApplyStepOne(c *gin.Context, cause error) {
	services, err := s.catalog.List(c.Request.Context())
	if err != nil && cause == nil {
		cause = err
	}
	data := gin.H{"Services": services}
	if cause != nil {
		s.log.Error().Err(cause).Msg("apply")
		data["Error"] = userMessage(cause)
	}
	c.HTML(http.StatusOK, "apply.html", s.pageData(c, data))
}

func (s *Server) handleApply(c *gin.Context) {
	ctx := c.Request.Context()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadSize)

	serviceID := c.PostForm("service_id")
	svc, err := s.catalog.Get(ctx, serviceID)
	if err != nil {
		s.renderApplyStepOne(c, err)
		return
	}

	files := make(map[string]portal.FileUpload, len(svc.RequiredDocuments))
	for _, label := range svc.RequiredDocuments {
		fh, err := c.FormFile(documentField(label))
		if err != nil {
			continue // missing labels are reported by the workflow
		}
		header := fh
		files[label] = portal.FileUpload{
			Filename:    header.Filename,
			Size:        header.Size,
			ContentType: header.Header.Get("Content-Type"),
			Open: func() (io.ReadCloser, error) {
				return header.Open()
			},
		}
	}

	app, err := s.subs.Submit(ctx, c.GetString(ctxUserID), serviceID, files)
	if err != nil {
		s.renderError(c, "apply.html", err, gin.H{"Service": svc})
		return
	}
	c.Redirect(http.StatusFound, "/dashboard/applications/"+app.ID)
}

// documentField is the multipart field name for one required-document label.
func documentField(label string) string {
	return "document__" + label
}

func (s *Server) handleApplicationDetail(c *gin.Context) {
	detail, err := s.subs.Detail(c.Request.Context(), c.GetString(ctxUserID), c.Param("id"))
	if err != nil {
		s.renderDashboard(c, err)
		return
	}
	c.HTML(http.StatusOK, "application_detail.html", s.pageData(c, gin.H{"App": detail}))
}

func (s *Server) handleApplicationDelete(c *gin.Context) {
	if err := s.subs.Delete(c.Request.Context(), c.GetString(ctxUserID), c.Param("id")); err != nil {
		s.renderDashboard(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/dashboard")
}

func (s *Server) handleProfilePage(c *gin.Context) {
	u, err := s.auth.Profile(c.Request.Context(), c.GetString(ctxUserID))
	if err != nil {
		s.renderError(c, "profile.html", err, gin.H{"User": &model.User{}})
		return
	}
	c.HTML(http.StatusOK, "profile.html", s.pageData(c, gin.H{"User": u}))
}

func (s *Server) handleProfileUpdate(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.GetString(ctxUserID)
	if err := s.auth.UpdateProfile(ctx, userID, c.PostForm("name"), c.PostForm("phone")); err != nil {
		u, perr := s.auth.Profile(ctx, userID)
		if perr != nil {
			u = &model.User{ID: userID}
		}
		s.renderError(c, "profile.html", err, gin.H{"User": u})
		return
	}
	c.Redirect(http.StatusFound, "/dashboard/profile")
}
