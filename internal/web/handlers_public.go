package web

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleHome(c *gin.Context) {
	services, err := s.catalog.List(c.Request.Context())
	data := gin.H{"Services": services}
	if err != nil {
		s.log.Error().Err(err).Msg("home")
		data["Error"] = userMessage(err)
	}
	c.HTML(http.StatusOK, "home.html", s.pageData(c, data))
}

// handleTrack serves both the empty form and the result: the code arrives as a
// query parameter so a tracking link can be shared.
func (s *Server) handleTrack(c *gin.Context) {
	code := strings.TrimSpace(c.Query("code"))
	if code == "" {
		c.HTML(http.StatusOK, "track.html", s.pageData(c, nil))
		return
	}
	app, err := s.tracker.Track(c.Request.Context(), code)
	if err != nil {
		s.renderError(c, "track.html", err, gin.H{"Code": code})
		return
	}
	c.HTML(http.StatusOK, "track.html", s.pageData(c, gin.H{"Code": code, "Result": app}))
}

// handleLang stores the language choice and bounces back to the referring
// page. Unknown codes fall back to English.
func (s *Server) handleLang(c *gin.Context) {
	lang := c.Param("code")
	if lang != langKannada {
		lang = langEnglish
	}
	c.SetCookie(cookieLang, lang, int(s.cfg.LangTTL.Seconds()), "/", "", false, false)

	back := c.Request.Referer()
	if back == "" {
		back = "/"
	}
	c.Redirect(http.StatusFound, back)
}
