package handlers

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/folio-dev/folio/internal/editor"
	"github.com/folio-dev/folio/internal/middleware"
	"github.com/folio-dev/folio/internal/services"
	"github.com/gin-gonic/gin"
)

type imagePreview struct {
	Preview string
	URL     string
}

// TemplateFuncs are the helpers the page templates use
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"join":          editor.JoinList,
		"techTarget":    services.TargetTechImage,
		"projectTarget": services.TargetProjectImage,
		"preview": func(id, url string) imagePreview {
			return imagePreview{Preview: id, URL: url}
		},
	}
}

// render fills in what the layout needs (theme, current path, signed-in
// email) and renders name
func render(c *gin.Context, status int, name, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	data["Theme"] = middleware.GetTheme(c)
	data["Path"] = c.Request.URL.Path
	if _, ok := data["Email"]; !ok {
		data["Email"] = ""
		if session, err := middleware.GetSession(c); err == nil {
			data["Email"] = session.Email
		}
	}
	c.HTML(status, name, data)
}

// seeOther answers a form post with a redirect so a reload does not resubmit it
func seeOther(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}

// localPath keeps redirects on this site
func localPath(p, fallback string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return fallback
	}
	return p
}
