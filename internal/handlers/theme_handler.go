package handlers

import (
	"github.com/folio-dev/folio/internal/middleware"
	"github.com/folio-dev/folio/internal/models"
	"github.com/gin-gonic/gin"
)

type ThemeHandler struct {
	cookieDomain string
	cookieSecure bool
}

func NewThemeHandler(cookieDomain string, cookieSecure bool) *ThemeHandler {
	return &ThemeHandler{cookieDomain: cookieDomain, cookieSecure: cookieSecure}
}

// Toggle handles POST /theme. An explicit "theme" value wins over toggling.
func (h *ThemeHandler) Toggle(c *gin.Context) {
	next := middleware.GetTheme(c).Toggle()
	if v := c.PostForm("theme"); v != "" {
		next = models.ParseTheme(v)
	}

	middleware.SetThemeCookie(c, next, h.cookieDomain, h.cookieSecure)
	seeOther(c, localPath(c.PostForm("return"), "/"))
}
