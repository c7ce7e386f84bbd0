package jwt

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrInvalidClaim = errors.New("invalid token claims")
)

// SessionClaims is the signed envelope stored in the session cookie.
// BearerToken is the opaque token issued by the portfolio API; it is never
// inspected here. There is no expiry claim: the cookie lifetime bounds the session
// and the API decides whether the bearer token is still good.
type SessionClaims struct {
	SessionID   string `json:"sid"`
	BearerToken string `json:"tok"`
	Email       string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies session envelopes
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenManager creates a new TokenManager
func NewTokenManager(secret string, issuer string, ttlHours int) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    time.Duration(ttlHours) * time.Hour,
	}
}

// Issue signs a session envelope
func (tm *TokenManager) Issue(sessionID, bearerToken, email string) (string, error) {
	if bearerToken == "" {
		return "", fmt.Errorf("%w: empty bearer token", ErrInvalidClaim)
	}

	claims := SessionClaims{
		SessionID:   sessionID,
		BearerToken: bearerToken,
		Email:       email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
			Issuer:   tm.issuer,
			Subject:  sessionID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(tm.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Parse verifies a session envelope and returns its claims
func (tm *TokenManager) Parse(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return tm.secret, nil
	}, jwt.WithIssuer(tm.issuer))

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.BearerToken == "" || claims.SessionID == "" {
		return nil, ErrInvalidClaim
	}

	return claims, nil
}

// CookieLifetime returns how long the session cookie is kept by the browser
func (tm *TokenManager) CookieLifetime() time.Duration {
	return tm.ttl
}

// TimingSafeCompare performs a timing-safe comparison of two strings
func TimingSafeCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
