package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/digitalseva/portal/internal/model"
)

func (s *Server) handleAdminDashboard(c *gin.Context) {
	s.renderAdminDashboard(c, nil)
}

func (s *Server) renderAdminDashboard(c *gin.Context, cause error) {
	apps, err := s.admin.Applications(c.Request.Context())
	if err != nil {
		if cause == nil {
			cause = err
		}
		apps = nil
	}
	counts := map[model.Status]int{}
	for _, a := range apps {
		counts[a.Status]++
	}
	data := gin.H{
		"Applications": apps,
		"Total":        len(apps),
		"Pending":      counts[model.StatusPending],
		"Processing":   counts[model.StatusProcessing],
		"Completed":    counts[model.StatusCompleted],
		"Rejected":     counts[model.StatusRejected],
	}
	if cause != nil {
		s.log.Error().Err(cause).Msg("admin dashboard")
		data["Error"] = userMessage(cause)
	}
	c.HTML(http.StatusOK, "admin_dashboard.html", s.pageData(c, data))
}

func (s *Server) handleAdminApplication(c *gin.Context) {
	detail, err := s.admin.Application(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.renderAdminDashboard(c, err)
		return
	}
	c.HTML(http.StatusOK, "admin_application.html", s.pageData(c, gin.H{
		"App":      detail,
		"Statuses": []model.Status{model.StatusPending, model.StatusProcessing, model.StatusCompleted, model.StatusRejected},
	}))
}

func (s *Server) handleAdminReview(c *gin.Context) {
	id := c.Param("id")
	status := model.Status(c.PostForm("status"))
	remarks := c.PostForm("remarks")
	if err := s.admin.UpdateReview(c.Request.Context(), id, status, remarks); err != nil {
		s.renderAdminDashboard(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/admin/applications/"+id)
}

func (s *Server) handleAdminServices(c *gin.Context) {
	if id := c.Query("edit"); id != "" {
		svc, err := s.catalog.Get(c.Request.Context(), id)
		if err != nil {
			s.renderAdminServices(c, err, nil)
			return
		}
		s.renderAdminServices(c, nil, svc)
		return
	}
	s.renderAdminServices(c, nil, nil)
}

func (s *Server) renderAdminServices(c *gin.Context, cause error, editing *model.Service) {
	services, err := s.catalog.List(c.Request.Context())
	if err != nil && cause == nil {
		cause = err
	}
	data := gin.H{"Services": services}
	if editing != nil {
		data["Editing"] = editing
	}
	if cause != nil {
		s.log.Error().Err(cause).Msg("admin services")
		data["Error"] = userMessage(cause)
	}
	c.HTML(http.StatusOK, "admin_services.html", s.pageData(c, data))
}

// handleAdminServiceSave creates a service, or updates one when the form
// carries an id.
func (s *Server) handleAdminServiceSave(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.PostForm("id")
	name := c.PostForm("name")
	description := c.PostForm("description")
	labels := c.PostForm("required_documents")

	var err error
	if id == "" {
		_, err = s.catalog.Create(ctx, name, description, labels)
	} else {
		err = s.catalog.Update(ctx, id, name, description, labels)
	}
	if err != nil {
		s.renderAdminServices(c, err, nil)
		return
	}
	c.Redirect(http.StatusFound, "/admin/services")
}

func (s *Server) handleAdminServiceDelete(c *gin.Context) {
	if err := s.catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.renderAdminServices(c, err, nil)
		return
	}
	c.Redirect(http.StatusFound, "/admin/services")
}

func (s *Server) handleAdminUsers(c *gin.Context) {
	s.renderAdminUsers(c, nil)
}

func (s *Server) renderAdminUsers(c *gin.Context, cause error) {
	users, err := s.admin.Users(c.Request.Context())
	if err != nil && cause == nil {
		cause = err
	}
	data := gin.H{"Users": users}
	if cause != nil {
		s.log.Error().Err(cause).Msg("admin users")
		data["Error"] = userMessage(cause)
	}
	c.HTML(http.StatusOK, "admin_users.html", s.pageData(c, data))
}

func (s *Server) handleAdminSetRole(c *gin.Context) {
	if err := s.admin.SetRole(c.Request.Context(), c.Param("id"), model.Role(c.PostForm("role"))); err != nil {
		s.renderAdminUsers(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/admin/users")
}
