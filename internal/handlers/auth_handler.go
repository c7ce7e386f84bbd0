package handlers

import (
	"errors"
	"net/http"

	"github.com/folio-dev/folio/internal/middleware"
	"github.com/folio-dev/folio/internal/models"
	"github.com/folio-dev/folio/internal/services"
	"github.com/folio-dev/folio/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	loginFieldsMessage    = "Please enter your email and password"
	registerFieldsMessage = "Please check the highlighted fields"
	registeredNotice      = "Account created. You can log in now."
)

// AuthHandler handles login, registration and logout
type AuthHandler struct {
	service   services.AuthServiceInterface
	dashboard services.DashboardServiceInterface
}

func NewAuthHandler(service services.AuthServiceInterface, dashboard services.DashboardServiceInterface) *AuthHandler {
	return &AuthHandler{
		service:   service,
		dashboard: dashboard,
	}
}

// LoginPage handles GET /login
func (h *AuthHandler) LoginPage(c *gin.Context) {
	data := gin.H{}
	if c.Query("registered") == "1" {
		data["Notice"] = registeredNotice
	}
	render(c, http.StatusOK, "login.html", "Log in", data)
}

// Login handles POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		attachError(c, err)
		render(c, http.StatusBadRequest, "login.html", "Log in", gin.H{
			"Error":     loginFieldsMessage,
			"Fields":    ParseValidationErrors(err),
			"FormEmail": req.Email,
		})
		return
	}

	session, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		attachError(c, err)
		render(c, http.StatusUnauthorized, "login.html", "Log in", gin.H{
			"Error":     authMessage(err, "Login failed"),
			"FormEmail": req.Email,
		})
		return
	}

	middleware.SetSessionCookie(c, session.Cookie, h.service.GetSessionTTL(), h.service.GetCookieDomain(), h.service.GetCookieSecure())
	seeOther(c, "/dashboard")
}

// RegisterPage handles GET /register
func (h *AuthHandler) RegisterPage(c *gin.Context) {
	render(c, http.StatusOK, "register.html", "Register", nil)
}

// Register handles POST /register
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		attachError(c, err)
		render(c, http.StatusBadRequest, "register.html", "Register", gin.H{
			"Error":     registerFieldsMessage,
			"Fields":    ParseValidationErrors(err),
			"FormName":  req.Name,
			"FormEmail": req.Email,
		})
		return
	}

	if err := h.service.Register(c.Request.Context(), &req); err != nil {
		attachError(c, err)
		render(c, http.StatusBadRequest, "register.html", "Register", gin.H{
			"Error":     authMessage(err, "Registration failed"),
			"FormName":  req.Name,
			"FormEmail": req.Email,
		})
		return
	}

	seeOther(c, "/login?registered=1")
}

// Logout handles POST /logout. Drafts of the session are dropped with the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil && cookie != "" {
		if claims, err := h.service.ParseSession(cookie); err == nil {
			h.dashboard.Discard(claims.SessionID)
			logger.Info("Owner logged out", zap.String("session_id", claims.SessionID))
		}
	}

	middleware.ClearSessionCookie(c, h.service.GetCookieDomain(), h.service.GetCookieSecure())
	seeOther(c, middleware.LoginPath)
}

func authMessage(err error, fallback string) string {
	var authErr *services.AuthError
	if errors.As(err, &authErr) && authErr.Message != "" {
		return authErr.Message
	}
	return fallback
}
