package middleware

import (
	"net/http"

	"github.com/folio-dev/folio/internal/models"
	"github.com/gin-gonic/gin"
)

const (
	ThemeCookieName = "folio_theme"
	ThemeContextKey = "folio_theme"

	themeCookieMaxAge = 365 * 24 * 3600
)

// ThemeMiddleware reads the theme preference once per request and puts it
// in context for every template to use
func ThemeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, _ := c.Cookie(ThemeCookieName)
		c.Set(ThemeContextKey, models.ParseTheme(value))
		c.Next()
	}
}

// GetTheme returns the theme of the current request, light by default
func GetTheme(c *gin.Context) models.Theme {
	if v, ok := c.Get(ThemeContextKey); ok {
		if theme, ok := v.(models.Theme); ok {
			return theme
		}
	}
	return models.ThemeLight
}

// SetThemeCookie persists the theme preference
func SetThemeCookie(c *gin.Context, theme models.Theme, domain string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ThemeCookieName, string(theme), themeCookieMaxAge, "/", domain, secure, true)
	c.Set(ThemeContextKey, theme)
}
