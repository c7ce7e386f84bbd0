package handlers

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/folio-dev/folio/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThemeHandler_Toggle(t *testing.T) {
	r := newTestEngine(t)
	r.POST("/theme", NewThemeHandler("", false).Toggle)

	w := postForm(r, "/theme", url.Values{"return": {"/sections/skills"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/sections/skills", w.Header().Get("Location"))

	var theme *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.ThemeCookieName {
			theme = c
		}
	}
	require.NotNil(t, theme)
	assert.Equal(t, "dark", theme.Value)

	w = postForm(r, "/theme", url.Values{"return": {"/"}}, &http.Cookie{Name: middleware.ThemeCookieName, Value: "dark"})
	assert.Contains(t, w.Header().Get("Set-Cookie"), middleware.ThemeCookieName+"=light")
}

func TestThemeHandler_StaysOnSite(t *testing.T) {
	r := newTestEngine(t)
	r.POST("/theme", NewThemeHandler("", false).Toggle)

	for _, ret := range []string{"//evil.example.com", "https://evil.example.com", ""} {
		w := postForm(r, "/theme", url.Values{"return": {ret}})
		assert.Equal(t, "/", w.Header().Get("Location"), ret)
	}
}
