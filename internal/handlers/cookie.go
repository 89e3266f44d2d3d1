package handlers

import (
	"net/http"
	"time"

	"github.com/GunarsK-portfolio/review-service/internal/middleware"
	"github.com/gin-gonic/gin"
)

// CookieConfig holds the attributes of the access token cookie.
type CookieConfig struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
	Path     string
}

// CookieHelper manages the access token cookie.
type CookieHelper struct {
	config CookieConfig
}

// NewCookieHelper creates a new cookie helper with the given configuration.
func NewCookieHelper(config CookieConfig) *CookieHelper {
	if config.Path == "" {
		config.Path = "/"
	}
	return &CookieHelper{config: config}
}

// SetAccessToken stores token in an HTTP-only cookie living as long as the token.
func (h *CookieHelper) SetAccessToken(c *gin.Context, token string, expiry time.Duration) {
	h.setCookie(c, middleware.AccessTokenCookie, token, int(expiry.Seconds()))
}

// ClearAccessToken removes the access token cookie.
func (h *CookieHelper) ClearAccessToken(c *gin.Context) {
	h.setCookie(c, middleware.AccessTokenCookie, "", -1)
}

func (h *CookieHelper) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(h.config.SameSite)
	c.SetCookie(
		name,
		value,
		maxAge,
		h.config.Path,
		h.config.Domain,
		h.config.Secure,
		true, // httpOnly
	)
}
