// Package middleware provides HTTP middleware for the review service.
package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/GunarsK-portfolio/review-service/internal/policy"
	"github.com/gin-gonic/gin"
)

// CSRFConfig holds configuration for CSRF protection middleware.
type CSRFConfig struct {
	// AllowedOrigins should match the CORS allowed origins.
	AllowedOrigins []string
}

// CSRF returns middleware that validates Origin/Referer headers on unsafe
// requests authenticated by cookie. Bearer and anonymous requests pass, since
// browsers never attach an Authorization header on their own.
//
// It must run after Authenticate.
func CSRF(config CSRFConfig) gin.HandlerFunc {
	allowedSet := make(map[string]bool)
	for _, origin := range config.AllowedOrigins {
		allowedSet[normalizeOrigin(origin)] = true
	}

	return func(c *gin.Context) {
		if !CookieAuthenticated(c) || policy.IsSafeMethod(c.Request.Method) {
			c.Next()
			return
		}

		if origin := c.GetHeader("Origin"); origin != "" {
			if !allowedSet[normalizeOrigin(origin)] {
				abortForbidden(c, "CSRF validation failed: invalid origin")
				return
			}
			c.Next()
			return
		}

		if referer := c.GetHeader("Referer"); referer != "" {
			if !allowedSet[normalizeOrigin(extractOrigin(referer))] {
				abortForbidden(c, "CSRF validation failed: invalid referer")
				return
			}
			c.Next()
			return
		}

		abortForbidden(c, "CSRF validation failed: missing origin")
	}
}

func normalizeOrigin(origin string) string {
	return strings.TrimSuffix(strings.ToLower(origin), "/")
}

// extractOrigin returns scheme://host[:port] of rawURL.
func extractOrigin(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return ""
	}
	return parsed.Scheme + "://" + parsed.Host
}

func abortForbidden(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": message})
}
