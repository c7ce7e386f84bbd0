package services

import (
	"context"

	"github.com/folio-dev/folio/config"
	"github.com/folio-dev/folio/internal/apiclient"
	"github.com/folio-dev/folio/internal/models"
	"github.com/folio-dev/folio/pkg/jwt"
	"github.com/folio-dev/folio/pkg/logger"
	"github.com/folio-dev/folio/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	loginFailedMessage    = "Login failed"
	registerFailedMessage = "Registration failed"
)

// AuthError carries the text shown on the login or register page
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }

func (e *AuthError) Unwrap() error { return e.Err }

// Session is a fresh dashboard session
type Session struct {
	ID     string
	Token  string
	Email  string
	Cookie string
}

// AuthService logs the owner in against the portfolio API and wraps the
// returned bearer token in a signed session cookie
type AuthService struct {
	api          AuthAPI
	tokenManager *jwt.TokenManager
	config       *config.Config
}

func NewAuthService(api AuthAPI, tokenManager *jwt.TokenManager, cfg *config.Config) *AuthService {
	return &AuthService{
		api:          api,
		tokenManager: tokenManager,
		config:       cfg,
	}
}

// Login exchanges credentials for a bearer token. Failures carry the API's
// error text when it sent one.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*Session, error) {
	token, err := s.api.Login(ctx, *req)
	if err != nil {
		metrics.Logins.WithLabelValues("login", "error").Inc()
		logger.Warn("Login failed", zap.Error(err))
		return nil, &AuthError{Message: apiclient.Message(err, loginFailedMessage), Err: err}
	}

	sid := uuid.NewString()
	cookie, err := s.tokenManager.Issue(sid, token, req.Email)
	if err != nil {
		metrics.Logins.WithLabelValues("login", "error").Inc()
		logger.Error("Failed to issue session", zap.Error(err))
		return nil, &AuthError{Message: loginFailedMessage, Err: err}
	}

	metrics.Logins.WithLabelValues("login", "success").Inc()
	logger.Info("Owner logged in", zap.String("session_id", sid))

	return &Session{ID: sid, Token: token, Email: req.Email, Cookie: cookie}, nil
}

// Register creates an account. The owner logs in afterwards.
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) error {
	_, err := s.api.Register(ctx, *req)
	if err != nil {
		metrics.Logins.WithLabelValues("register", "error").Inc()
		logger.Warn("Registration failed", zap.Error(err))
		return &AuthError{Message: apiclient.Message(err, registerFailedMessage), Err: err}
	}

	metrics.Logins.WithLabelValues("register", "success").Inc()
	return nil
}

// ParseSession decodes a session cookie
func (s *AuthService) ParseSession(cookie string) (*jwt.SessionClaims, error) {
	return s.tokenManager.Parse(cookie)
}

// GetSessionTTL returns the cookie lifetime in seconds
func (s *AuthService) GetSessionTTL() int {
	return int(s.tokenManager.CookieLifetime().Seconds())
}

func (s *AuthService) GetCookieDomain() string {
	return s.config.Session.CookieDomain
}

func (s *AuthService) GetCookieSecure() bool {
	return s.config.Session.CookieSecure
}
