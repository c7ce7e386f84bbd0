package handlers

import (
	"net/http"
	"net/url"

	"github.com/folio-dev/folio/internal/models"
	"github.com/folio-dev/folio/internal/services"
	"github.com/gin-gonic/gin"
)

// contactReasons are the failure notices the public page can show, keyed
// by the code carried in the redirect
var contactReasons = map[string]string{
	"invalid":     "Please fill in your name, a valid email and a message.",
	"captcha":     "Captcha verification failed",
	"unavailable": "Contact form is not available",
	"error":       "Your message could not be sent.",
}

func contactReasonCode(message string) string {
	for code, text := range contactReasons {
		if text == message {
			return code
		}
	}
	return "error"
}

type ContactHandler struct {
	service services.ContactServiceInterface
}

func NewContactHandler(service services.ContactServiceInterface) *ContactHandler {
	return &ContactHandler{service: service}
}

// Submit handles POST /api/contact
func (h *ContactHandler) Submit(c *gin.Context) {
	var req models.ContactMessage
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request", ParseValidationErrors(err), err)
		return
	}
	req.RecaptchaToken = c.GetHeader("X-Recaptcha-Token")

	resp, err := h.service.SubmitContactForm(c.Request.Context(), &req)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error", err)
		return
	}

	if !resp.Success {
		c.JSON(http.StatusBadRequest, resp)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SubmitForm handles POST /contact from the public page
func (h *ContactHandler) SubmitForm(c *gin.Context) {
	var req models.ContactMessage
	if err := c.ShouldBind(&req); err != nil {
		attachError(c, err)
		seeOther(c, contactResult("failed", "invalid"))
		return
	}

	resp, err := h.service.SubmitContactForm(c.Request.Context(), &req)
	if err != nil {
		attachError(c, err)
		seeOther(c, contactResult("failed", "error"))
		return
	}
	if !resp.Success {
		seeOther(c, contactResult("failed", contactReasonCode(resp.Error)))
		return
	}

	seeOther(c, contactResult("sent", ""))
}

func contactResult(status, reason string) string {
	q := url.Values{"contact": {status}}
	if reason != "" {
		q.Set("reason", reason)
	}
	return "/?" + q.Encode() + "#contact"
}
