// Package routes defines HTTP routes for the review service.
package routes

import (
	"time"

	"github.com/GunarsK-portfolio/review-service/internal/handlers"
	"github.com/GunarsK-portfolio/review-service/internal/metrics"
	"github.com/GunarsK-portfolio/review-service/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"
	"github.com/redis/go-redis/v9"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Auth    *handlers.AuthHandler
	Catalog *handlers.CatalogHandler
	Reviews *handlers.ReviewHandler
	Users   *handlers.UserHandler
	Health  *handlers.HealthHandler
}

// Options carries the cross-cutting pieces of the router.
type Options struct {
	Auth           middleware.AuthConfig
	AllowedOrigins []string
	// Redis enables auth endpoint rate limiting when set.
	Redis             *redis.Client
	RateLimitRequests int
	RateLimitWindow   time.Duration
	Metrics           *metrics.Metrics
	Logger            hclog.Logger
}

// Setup configures all HTTP routes for the application.
func Setup(router *gin.Engine, h Handlers, opts Options) {
	router.Use(
		gin.Recovery(),
		middleware.RequestLogger(opts.Logger.Named("http")),
		opts.Metrics.Middleware(),
		middleware.CORS(opts.AllowedOrigins),
	)

	router.GET("/health", h.Health.Check)
	router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))

	v1 := router.Group("/v1")
	v1.Use(middleware.Authenticate(opts.Auth))
	if opts.Auth.CookieAuth {
		v1.Use(middleware.CSRF(middleware.CSRFConfig{AllowedOrigins: opts.AllowedOrigins}))
	}

	auth := v1.Group("/auth")
	if opts.Redis != nil {
		auth.Use(middleware.RateLimit(middleware.RateLimitConfig{
			Client:    opts.Redis,
			Scope:     "auth",
			Requests:  opts.RateLimitRequests,
			Window:    opts.RateLimitWindow,
			Logger:    opts.Logger.Named("ratelimit"),
			OnLimited: h.Auth.RateLimited,
		}))
	}
	{
		auth.POST("/signup/", h.Auth.Signup)
		auth.POST("/token/", h.Auth.Token)
		if opts.Auth.CookieAuth {
			auth.POST("/logout/", h.Auth.Logout)
		}
	}

	users := v1.Group("/users")
	{
		users.GET("/", h.Users.ListUsers)
		users.POST("/", h.Users.CreateUser)
		// /users/me/ is dispatched inside these handlers.
		users.GET("/:username/", h.Users.GetUser)
		users.PATCH("/:username/", h.Users.UpdateUser)
		users.DELETE("/:username/", h.Users.DeleteUser)
	}

	categories := v1.Group("/categories")
	{
		categories.GET("/", h.Catalog.ListCategories)
		categories.POST("/", h.Catalog.CreateCategory)
		categories.DELETE("/:slug/", h.Catalog.DeleteCategory)
	}

	genres := v1.Group("/genres")
	{
		genres.GET("/", h.Catalog.ListGenres)
		genres.POST("/", h.Catalog.CreateGenre)
		genres.DELETE("/:slug/", h.Catalog.DeleteGenre)
	}

	titles := v1.Group("/titles")
	{
		titles.GET("/", h.Catalog.ListTitles)
		titles.POST("/", h.Catalog.CreateTitle)
		titles.GET("/:title_id/", h.Catalog.GetTitle)
		titles.PATCH("/:title_id/", h.Catalog.UpdateTitle)
		titles.DELETE("/:title_id/", h.Catalog.DeleteTitle)

		reviews := titles.Group("/:title_id/reviews")
		reviews.GET("/", h.Reviews.ListReviews)
		reviews.POST("/", h.Reviews.CreateReview)
		reviews.GET("/:review_id/", h.Reviews.GetReview)
		reviews.PATCH("/:review_id/", h.Reviews.UpdateReview)
		reviews.DELETE("/:review_id/", h.Reviews.DeleteReview)

		comments := reviews.Group("/:review_id/comments")
		comments.GET("/", h.Reviews.ListComments)
		comments.POST("/", h.Reviews.CreateComment)
		comments.GET("/:comment_id/", h.Reviews.GetComment)
		comments.PATCH("/:comment_id/", h.Reviews.UpdateComment)
		comments.DELETE("/:comment_id/", h.Reviews.DeleteComment)
	}
}
