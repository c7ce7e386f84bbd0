package handlers

import (
	"net/http"

	"github.com/folio-dev/folio/internal/models"
	"github.com/folio-dev/folio/internal/services"
	apperrors "github.com/folio-dev/folio/pkg/errors"
	"github.com/gin-gonic/gin"
)

// PublicHandler serves the read-only portfolio
type PublicHandler struct {
	service          services.PublicServiceInterface
	contactEnabled   bool
	recaptchaSiteKey string
}

func NewPublicHandler(service services.PublicServiceInterface, contactEnabled bool, recaptchaSiteKey string) *PublicHandler {
	return &PublicHandler{
		service:          service,
		contactEnabled:   contactEnabled,
		recaptchaSiteKey: recaptchaSiteKey,
	}
}

// Index handles GET /
func (h *PublicHandler) Index(c *gin.Context) {
	page := h.service.Page(c.Request.Context())

	contactStatus := c.Query("contact")
	if contactStatus != "sent" && contactStatus != "failed" {
		contactStatus = ""
	}

	title := ""
	if page.Home != nil {
		title = page.Home.Name
	}

	render(c, http.StatusOK, "public.html", title, gin.H{
		"Page":             page,
		"ContactEnabled":   h.contactEnabled,
		"ContactStatus":    contactStatus,
		"ContactError":     contactReasons[c.Query("reason")],
		"RecaptchaSiteKey": h.recaptchaSiteKey,
	})
}

// Section handles GET /sections/:name. A section that cannot be fetched
// renders empty.
func (h *PublicHandler) Section(c *gin.Context) {
	section, err := models.ParseSection(c.Param("name"))
	if err != nil {
		notFound(c)
		return
	}

	data, err := h.service.Section(c.Request.Context(), section)
	attachError(c, err)

	render(c, http.StatusOK, "section.html", section.Title(), gin.H{
		"Section": section,
		"Data":    data,
	})
}

// SectionJSON handles GET /api/public/sections/:name
func (h *PublicHandler) SectionJSON(c *gin.Context) {
	section, err := models.ParseSection(c.Param("name"))
	if err != nil {
		respondError(c, http.StatusNotFound, "Unknown section", err)
		return
	}

	data, err := h.service.Section(c.Request.Context(), section)
	switch {
	case apperrors.Is(err, apperrors.ErrNotFound):
		respondError(c, http.StatusNotFound, "Unknown section", err)
		return
	case apperrors.Is(err, apperrors.ErrUnavailable):
		respondError(c, http.StatusBadGateway, "Section is temporarily unavailable", err)
		return
	case err != nil:
		respondError(c, http.StatusInternalServerError, "Internal server error", err)
		return
	}

	c.Header("Cache-Control", "public, max-age=60")
	c.JSON(http.StatusOK, data)
}
