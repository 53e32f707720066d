package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/digitalseva/portal/internal/identity"
	"github.com/digitalseva/portal/internal/model"
)

func (s *Server) handleLoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", s.pageData(c, nil))
}

func (s *Server) handleLogin(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	res, err := s.auth.Login(c.Request.Context(), email, password)
	if err != nil {
		s.clearSession(c)
		msg := userMessage(err)
		if errors.Is(err, identity.ErrInvalidCredentials) {
			msg = "Invalid email or password."
		}
		c.HTML(http.StatusOK, "login.html", s.pageData(c, gin.H{"Error": msg, "Email": email}))
		return
	}
	s.setSession(c, res.Token, res.User.Role)
	if res.User.Role == model.RoleAdmin {
		c.Redirect(http.StatusFound, "/admin/dashboard")
		return
	}
	c.Redirect(http.StatusFound, "/dashboard")
}

func (s *Server) handleRegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", s.pageData(c, nil))
}

func (s *Server) handleRegister(c *gin.Context) {
	name := c.PostForm("name")
	email := c.PostForm("email")
	phone := c.PostForm("phone")
	password := c.PostForm("password")

	res, err := s.auth.Register(c.Request.Context(), name, email, phone, password)
	if err != nil {
		msg := userMessage(err)
		if errors.Is(err, identity.ErrDuplicateEmail) {
			msg = "This email is already registered. Please log in instead."
		}
		c.HTML(http.StatusOK, "register.html", s.pageData(c, gin.H{
			"Error": msg, "Name": name, "Email": email, "Phone": phone,
		}))
		return
	}
	s.setSession(c, res.Token, res.User.Role)
	c.Redirect(http.StatusFound, "/dashboard")
}

func (s *Server) handleLogout(c *gin.Context) {
	if token, err := c.Cookie(cookieSession); err == nil && token != "" {
		if err := s.auth.Logout(c.Request.Context(), token); err != nil {
			// The cookies are cleared either way; the provider session just
			// outlives the browser one.
			s.log.Warn().Err(err).Msg("provider logout")
		}
	}
	s.clearSession(c)
	c.Redirect(http.StatusFound, "/")
}
