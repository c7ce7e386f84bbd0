package middleware

import (
	"github.com/gin-gonic/gin"
)

// contentSecurityPolicy allows the embedded stylesheet, images from anywhere
// the owner uploads them, and the reCAPTCHA widget
const contentSecurityPolicy = "default-src 'self'; " +
	"img-src 'self' data: blob: https:; " +
	"style-src 'self' 'unsafe-inline'; " +
	"script-src 'self' https://www.google.com/recaptcha/ https://www.gstatic.com/recaptcha/; " +
	"frame-src https://www.google.com/recaptcha/; " +
	"form-action 'self'; frame-ancestors 'none'"

// SecurityHeadersMiddleware adds security headers to all HTTP responses
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Permissions-Policy", "camera=(), microphone=(), geolocation=(), interest-cohort=()")
		c.Header("Content-Security-Policy", contentSecurityPolicy)

		c.Next()
	}
}

// NoStoreMiddleware keeps private pages (dashboard, login) out of caches
func NoStoreMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store, no-cache, must-revalidate, private")
		c.Header("Pragma", "no-cache")
		c.Next()
	}
}
