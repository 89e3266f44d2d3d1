// Package handlers contains HTTP request handlers for the review service.
package handlers

import (
	"errors"
	"net/http"

	"github.com/GunarsK-portfolio/review-service/internal/metrics"
	"github.com/GunarsK-portfolio/review-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"
)

// AuthHandler handles signup and token exchange.
type AuthHandler struct {
	authService service.AuthService
	jwtService  service.JWTService
	cookies     *CookieHelper
	metrics     *metrics.Metrics
	log         hclog.Logger
}

// NewAuthHandler creates a new AuthHandler instance. cookies may be nil, in
// which case tokens are only returned in the response body.
func NewAuthHandler(
	authService service.AuthService,
	jwtService service.JWTService,
	cookies *CookieHelper,
	m *metrics.Metrics,
	log hclog.Logger,
) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		jwtService:  jwtService,
		cookies:     cookies,
		metrics:     m,
		log:         log,
	}
}

// SignupRequest represents the signup request payload.
type SignupRequest struct {
	Username string `json:"username" binding:"required,max=150,username"`
	Email    string `json:"email" binding:"required,email,max=254"`
}

// TokenRequest represents the token exchange request payload.
type TokenRequest struct {
	Username         string `json:"username" binding:"required,max=150"`
	ConfirmationCode string `json:"confirmation_code" binding:"required"`
}

// Signup godoc
// @Summary Register and request a confirmation code
// @Description Create the user if needed and email a fresh confirmation code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Username and email"
// @Success 200 {object} service.SignupResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/signup/ [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.RecordAuthEvent(metrics.EventSignupFailed)
		respondBindError(c, err)
		return
	}

	response, err := h.authService.Signup(c.Request.Context(), req.Username, req.Email)
	if err != nil {
		h.metrics.RecordAuthEvent(metrics.EventSignupFailed)
		if errors.Is(err, service.ErrMailDelivery) {
			h.log.Error("confirmation code not delivered", "username", req.Username, "error", err)
			RespondError(c, http.StatusInternalServerError, service.ErrMailDelivery.Error())
			return
		}
		respondServiceError(c, h.log, err)
		return
	}

	h.metrics.RecordAuthEvent(metrics.EventSignup)
	h.log.Info("confirmation code issued", "username", response.Username)
	c.JSON(http.StatusOK, response)
}

// Token godoc
// @Summary Exchange a confirmation code for an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body TokenRequest true "Username and confirmation code"
// @Success 201 {object} service.TokenResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /auth/token/ [post]
func (h *AuthHandler) Token(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.RecordAuthEvent(metrics.EventTokenFailed)
		respondBindError(c, err)
		return
	}

	response, err := h.authService.ObtainToken(c.Request.Context(), req.Username, req.ConfirmationCode)
	if err != nil {
		h.metrics.RecordAuthEvent(metrics.EventTokenFailed)
		switch {
		case errors.Is(err, service.ErrInvalidCode):
			c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
				Error:  "validation failed",
				Fields: map[string][]string{"confirmation_code": {err.Error()}},
			})
		case errors.Is(err, service.ErrUserNotFound):
			RespondError(c, http.StatusNotFound, err.Error())
		default:
			respondServiceError(c, h.log, err)
		}
		return
	}

	if h.cookies != nil {
		h.cookies.SetAccessToken(c, response.Token, h.jwtService.GetAccessExpiry())
	}

	h.metrics.RecordAuthEvent(metrics.EventToken)
	c.JSON(http.StatusCreated, response)
}

// Logout godoc
// @Summary Clear the access token cookie
// @Tags auth
// @Success 204
// @Router /auth/logout/ [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if h.cookies != nil {
		h.cookies.ClearAccessToken(c)
	}
	c.Status(http.StatusNoContent)
}

// RateLimited counts a request rejected by the auth rate limiter.
func (h *AuthHandler) RateLimited(c *gin.Context) {
	h.metrics.RecordAuthEvent(metrics.EventRateLimited)
	h.log.Warn("auth rate limit exceeded", "client_ip", c.ClientIP(), "path", c.FullPath())
}
