package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/folio-dev/folio/internal/auth"
	"github.com/folio-dev/folio/pkg/jwt"
	"github.com/gin-gonic/gin"
)

const (
	// SessionCookieName is the name of the dashboard session cookie
	SessionCookieName = "folio_session"

	// SessionContextKey is the key used to store the session in context
	SessionContextKey = "folio_session"

	// LoginPath is where unauthenticated visitors are sent
	LoginPath = "/login"
)

var (
	ErrSessionNotFound = errors.New("session not found in context")
	ErrInvalidSession  = errors.New("invalid session type")
)

// SessionParser decodes a session cookie
type SessionParser interface {
	ParseSession(cookie string) (*jwt.SessionClaims, error)
}

// Session is the dashboard session of the current request
type Session struct {
	ID    string
	Token string
	Email string
}

// DashboardSessionMiddleware guards the dashboard. Without a readable session
// cookie the request is answered with a bare redirect to the login page and
// no handler runs.
func DashboardSessionMiddleware(parser SessionParser, cookieDomain string, cookieSecure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var session *Session

		if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
			claims, err := parser.ParseSession(cookie)
			if err != nil {
				_ = c.Error(fmt.Errorf("invalid session cookie: %w", err)) //nolint:errcheck
				clearSessionCookie(c, cookieDomain, cookieSecure)
			} else {
				session = &Session{
					ID:    claims.SessionID,
					Token: claims.BearerToken,
					Email: claims.Email,
				}
			}
		}

		gate := auth.NewGate(auth.TokenFunc(func() string {
			if session == nil {
				return ""
			}
			return session.Token
		}))
		if !gate.Authorized() {
			c.Header("Location", LoginPath)
			c.AbortWithStatus(http.StatusFound)
			return
		}

		c.Set(SessionContextKey, session)
		c.Next()
	}
}

// GetSession extracts the session from context
func GetSession(c *gin.Context) (*Session, error) {
	val, exists := c.Get(SessionContextKey)
	if !exists {
		return nil, ErrSessionNotFound
	}

	session, ok := val.(*Session)
	if !ok || session == nil {
		return nil, ErrInvalidSession
	}

	return session, nil
}

// SetSessionCookie sets the dashboard session cookie
func SetSessionCookie(c *gin.Context, token string, ttlSeconds int, domain string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, ttlSeconds, "/", domain, secure, true)
}

// ClearSessionCookie clears the dashboard session cookie
func ClearSessionCookie(c *gin.Context, domain string, secure bool) {
	clearSessionCookie(c, domain, secure)
}

func clearSessionCookie(c *gin.Context, domain string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", domain, secure, true)
}
