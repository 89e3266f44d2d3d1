// Package main is the entry point for the review service.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GunarsK-portfolio/review-service/internal/config"
	"github.com/GunarsK-portfolio/review-service/internal/database"
	"github.com/GunarsK-portfolio/review-service/internal/handlers"
	"github.com/GunarsK-portfolio/review-service/internal/mail"
	"github.com/GunarsK-portfolio/review-service/internal/metrics"
	"github.com/GunarsK-portfolio/review-service/internal/middleware"
	"github.com/GunarsK-portfolio/review-service/internal/repository"
	"github.com/GunarsK-portfolio/review-service/internal/routes"
	"github.com/GunarsK-portfolio/review-service/internal/service"
	"github.com/GunarsK-portfolio/review-service/internal/validation"
	"github.com/GunarsK-portfolio/review-service/pkg/logger"
	"github.com/GunarsK-portfolio/review-service/pkg/redis"
	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"
	goredis "github.com/redis/go-redis/v9"
)

const shutdownTimeout = 10 * time.Second

// @title Review Service API
// @version 1.0
// @description Reviews, ratings and comments for titles grouped by category and genre
// @host localhost:8080
// @BasePath /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "review service: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{
		Name:  "review-service",
		Level: cfg.LogLevel,
		JSON:  cfg.IsProduction(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warn("failed to close database", "error", err)
		}
	}()
	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	// Initialize Redis (rate limiting only)
	var redisClient *goredis.Client
	if cfg.RedisEnabled() {
		redisClient, err = redis.NewClient(ctx, cfg)
		if err != nil {
			return err
		}
		defer redisClient.Close()
	}

	if err := validation.Init(); err != nil {
		return err
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	titleRepo := repository.NewTitleRepository(db)

	// Initialize services
	jwtService, err := service.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry)
	if err != nil {
		return err
	}
	authService := service.NewAuthService(userRepo, jwtService, newMailer(cfg, log))
	userService := service.NewUserService(userRepo)
	catalogService := service.NewCatalogService(
		repository.NewCategoryRepository(db),
		repository.NewGenreRepository(db),
		titleRepo,
	)
	reviewService := service.NewReviewService(
		titleRepo,
		repository.NewReviewRepository(db),
		repository.NewCommentRepository(db),
	)

	if cfg.OperatorUsername != "" {
		operator, err := userService.EnsureOperator(ctx, cfg.OperatorUsername, cfg.OperatorEmail)
		if err != nil {
			return fmt.Errorf("failed to ensure operator account: %w", err)
		}
		log.Info("operator account ready", "username", operator.Username)
	}

	// Initialize handlers
	m := metrics.New("review_service")
	var cookies *handlers.CookieHelper
	if cfg.CookieAuth {
		cookies = handlers.NewCookieHelper(handlers.CookieConfig{
			Domain:   cfg.CookieDomain,
			Secure:   cfg.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		})
	}
	handlerLog := log.Named("handlers")

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	routes.Setup(router, routes.Handlers{
		Auth:    handlers.NewAuthHandler(authService, jwtService, cookies, m, handlerLog),
		Catalog: handlers.NewCatalogHandler(catalogService, cfg.PageSize, handlerLog),
		Reviews: handlers.NewReviewHandler(reviewService, cfg.PageSize, handlerLog),
		Users:   handlers.NewUserHandler(userService, cfg.PageSize, handlerLog),
		Health:  handlers.NewHealthHandler(db, redisClient),
	}, routes.Options{
		Auth: middleware.AuthConfig{
			JWTService: jwtService,
			Users:      userRepo,
			CookieAuth: cfg.CookieAuth,
			Logger:     log.Named("auth"),
		},
		AllowedOrigins:    cfg.AllowedOrigins,
		Redis:             redisClient,
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   cfg.RateLimitWindow,
		Metrics:           m,
		Logger:            log,
	})

	// Start server
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting review service", "port", cfg.Port, "db_driver", cfg.DBDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newMailer(cfg *config.Config, log hclog.Logger) mail.Sender {
	if !cfg.SMTPEnabled() {
		log.Warn("SMTP_HOST not set, confirmation codes will be logged instead of sent")
		return mail.NewLogSender(log)
	}
	return mail.NewSMTPSender(mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	}, log)
}
