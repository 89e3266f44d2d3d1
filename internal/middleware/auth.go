package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/GunarsK-portfolio/review-service/internal/models"
	"github.com/GunarsK-portfolio/review-service/internal/policy"
	"github.com/GunarsK-portfolio/review-service/internal/repository"
	"github.com/GunarsK-portfolio/review-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm"
)

// Context keys set by Authenticate.
const (
	userKey       = "auth_user"
	cookieAuthKey = "auth_cookie"
)

// AccessTokenCookie is the cookie carrying the access token when cookie
// delivery is enabled.
const AccessTokenCookie = "access_token"

// AuthConfig configures Authenticate.
type AuthConfig struct {
	JWTService service.JWTService
	Users      repository.UserRepository
	// CookieAuth also accepts the token from AccessTokenCookie when no
	// Authorization header is present.
	CookieAuth bool
	Logger     hclog.Logger
}

// Authenticate resolves the acting user from a bearer token or, when
// enabled, the access token cookie. Requests without credentials continue
// anonymously; invalid credentials are rejected with 401.
func Authenticate(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, fromCookie, err := extractToken(c, cfg.CookieAuth)
		if err != nil {
			abortUnauthorized(c, err.Error())
			return
		}
		if token == "" {
			c.Next()
			return
		}

		claims, err := cfg.JWTService.ValidateToken(token)
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		user, err := cfg.Users.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				abortUnauthorized(c, "user not found")
				return
			}
			cfg.Logger.Error("failed to load token user", "user_id", claims.UserID, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		SetUser(c, user, fromCookie)
		c.Next()
	}
}

// SetUser records the acting user on the request context.
func SetUser(c *gin.Context, user *models.User, fromCookie bool) {
	c.Set(userKey, user)
	c.Set(cookieAuthKey, fromCookie)
}

// CurrentUser returns the authenticated user, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	value, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := value.(*models.User)
	return user
}

// CurrentActor returns the policy view of the requesting user.
func CurrentActor(c *gin.Context) policy.Actor {
	return policy.ActorFromUser(CurrentUser(c))
}

// CookieAuthenticated reports whether the request was authenticated by cookie.
func CookieAuthenticated(c *gin.Context) bool {
	return c.GetBool(cookieAuthKey)
}

var errMalformedHeader = errors.New("authorization header must be Bearer <token>")

func extractToken(c *gin.Context, allowCookie bool) (string, bool, error) {
	header := c.GetHeader("Authorization")
	if header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			return "", false, errMalformedHeader
		}
		return token, false, nil
	}

	if allowCookie {
		if token, err := c.Cookie(AccessTokenCookie); err == nil && token != "" {
			return token, true, nil
		}
	}
	return "", false, nil
}

func abortUnauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", `Bearer realm="api"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
}
