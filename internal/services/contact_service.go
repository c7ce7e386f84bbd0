package services

import (
	"context"
	"time"

	"github.com/folio-dev/folio/config"
	"github.com/folio-dev/folio/internal/models"
	"github.com/folio-dev/folio/pkg/httpclient"
	"github.com/folio-dev/folio/pkg/logger"
	"github.com/folio-dev/folio/pkg/metrics"
	"github.com/folio-dev/folio/pkg/recaptcha"
	"github.com/folio-dev/folio/pkg/trigger"
	"go.uber.org/zap"
)

// ContactEvent is the webhook event name of a contact form submission
const ContactEvent = "contact.submitted"

// ContactPayload is posted to the contact webhook
type ContactPayload struct {
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Message     string    `json:"message"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// ContactService forwards public contact form messages to the owner's webhook
type ContactService struct {
	config            *config.Config
	httpClient        httpclient.Client
	recaptchaVerifier *recaptcha.Verifier
}

// NewContactService creates a new contact service instance
func NewContactService(cfg *config.Config, httpClient httpclient.Client, verifier *recaptcha.Verifier) *ContactService {
	if verifier == nil {
		verifier = recaptcha.NewVerifier(cfg.Contact.RecaptchaSecretKey, httpClient)
	}
	return &ContactService{
		config:            cfg,
		httpClient:        httpClient,
		recaptchaVerifier: verifier,
	}
}

func (s *ContactService) SubmitContactForm(ctx context.Context, req *models.ContactMessage) (*models.ContactResponse, error) {
	if err := s.recaptchaVerifier.Verify(ctx, req.RecaptchaToken); err != nil {
		metrics.ContactFormSubmissions.WithLabelValues("captcha_failed").Inc()
		logger.Warn("ReCAPTCHA verification failed", zap.Error(err))
		return &models.ContactResponse{
			Success: false,
			Error:   "Captcha verification failed",
		}, nil
	}

	if s.config.Contact.WebhookURL == "" {
		metrics.ContactFormSubmissions.WithLabelValues("not_configured").Inc()
		logger.Warn("Contact webhook is not configured, dropping message")
		return &models.ContactResponse{
			Success: false,
			Error:   "Contact form is not available",
		}, nil
	}

	// Non-blocking
	trigger.PostJSONAsync(s.config.Contact.WebhookURL, ContactEvent, ContactPayload{
		Name:        req.Name,
		Email:       req.Email,
		Message:     req.Message,
		SubmittedAt: time.Now().UTC(),
	}, s.httpClient)

	metrics.ContactFormSubmissions.WithLabelValues("success").Inc()
	return &models.ContactResponse{Success: true}, nil
}
