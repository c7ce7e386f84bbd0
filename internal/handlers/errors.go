package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// attachError attaches err to the gin context so the observability middleware
// can include the reason in the request log. c.Error() returns *gin.Error (not
// the error interface), so we suppress errcheck here intentionally.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondError sends an error JSON response and attaches the error to the gin context
// so the observability middleware can include the reason in the request log.
func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message})
}

// respondErrorWithDetails sends an error response with an additional details field.
func respondErrorWithDetails(c *gin.Context, status int, message string, details any, err error) { //nolint:unparam
	attachError(c, err)
	c.JSON(status, gin.H{"error": message, "details": details})
}

// renderError shows the HTML error page
func renderError(c *gin.Context, status int, title, message string, err error) {
	attachError(c, err)
	render(c, status, "error.html", title, gin.H{"Message": message})
}

func notFound(c *gin.Context) {
	renderError(c, http.StatusNotFound, "Not found", "This page does not exist.", nil)
}

// NotFound renders the 404 page for unmatched routes
func NotFound(c *gin.Context) {
	notFound(c)
}
