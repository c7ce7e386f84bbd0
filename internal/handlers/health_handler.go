package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	backendState func() string
	activeDrafts func() int
}

// NewHealthHandler reports liveness, the state of the breaker in front
// of the portfolio API and how many dashboard sessions hold drafts
func NewHealthHandler(backendState func() string, activeDrafts func() int) *HealthHandler {
	return &HealthHandler{
		backendState: backendState,
		activeDrafts: activeDrafts,
	}
}

func (h *HealthHandler) Healthcheck(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")

	// An open breaker still serves cached sections, so the app stays healthy
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"backend": h.backendState(),
		"drafts":  h.activeDrafts(),
	})
}
