package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	_ "github.com/securitylessons/backend/docs"
	"github.com/securitylessons/backend/internal/auth"
	"github.com/securitylessons/backend/internal/config"
	"github.com/securitylessons/backend/internal/database"
	"github.com/securitylessons/backend/internal/handlers"
	"github.com/securitylessons/backend/internal/logger"
	"github.com/securitylessons/backend/internal/middleware"
	"github.com/securitylessons/backend/internal/passwords"
	"github.com/securitylessons/backend/internal/repositories"
	"github.com/securitylessons/backend/internal/services"
	"github.com/securitylessons/backend/internal/storage"
	"github.com/securitylessons/backend/internal/tokenstore"
	"github.com/spf13/afero"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// @title Security Lessons API
// @version 1.0
// @description Intentionally vulnerable training backend: IDOR lessons, force browsing portals,
// @description password hashing and JWT handling. Every lesson can be switched to its fixed behavior.

// @contact.name API Support

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(logger.Options{Level: cfg.Logging.Level, File: cfg.Logging.File}); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting security lessons server",
		zap.String("mode", cfg.Lesson.Mode),
		zap.Bool("debug", cfg.Lesson.Debug),
		zap.String("password_hasher", cfg.Lesson.PasswordHasher),
	)
	if !cfg.Lesson.Fixed() {
		logger.Logger.Warn("Lessons run in vulnerable mode, never expose this server to an untrusted network")
	}
	if cfg.JWT.Secret == "" {
		logger.Logger.Warn("JWT_SECRET is empty, login and refresh will fail")
	}

	// Connect to database
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := database.RunMigrations(db, database.MigrationsPath()); err != nil {
		logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Connect to Redis
	redisClient, err := tokenstore.NewClient(context.Background(), cfg.RedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Logger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()
	store := tokenstore.NewRedisStore(redisClient)

	// Initialize password hasher and file storage
	hasher, err := passwords.NewHasher(cfg.Lesson.PasswordHasher)
	if err != nil {
		logger.Logger.Fatal("Failed to initialize password hasher", zap.Error(err))
	}
	media, err := storage.NewLocalStorage(cfg.Storage.MediaRoot)
	if err != nil {
		logger.Logger.Fatal("Failed to initialize media storage", zap.Error(err))
	}
	staticFs := afero.NewReadOnlyFs(afero.NewBasePathFs(afero.NewOsFs(), cfg.Storage.StaticRoot))

	// Initialize JWT token service
	tokenGenerator := auth.NewTokenGenerator(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	tokenService := auth.NewTokenService(tokenGenerator, store, logger.Logger)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db, logger.Logger)
	resourceRepo := repositories.NewResourceRepository(db, logger.Logger)
	attachmentRepo := repositories.NewAttachmentRepository(db, logger.Logger)

	// Initialize services
	authService := services.NewAuthService(userRepo, tokenService, hasher, cfg.Lesson.Fixed(), logger.Logger)
	resourceService := services.NewResourceService(resourceRepo, cfg.Lesson.Fixed(), logger.Logger)
	portalService := services.NewPortalService(resourceRepo, attachmentRepo, userRepo, media, store, services.PortalOptions{
		Fixed:     cfg.Lesson.Fixed(),
		Debug:     cfg.Lesson.Debug,
		SecretKey: cfg.Lesson.SecretKey,
	}, logger.Logger)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(map[string]handlers.HealthCheck{
		"database": db.PingContext,
		"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
	}, cfg.Lesson.Mode, logger.Logger)
	authHandler := handlers.NewAuthHandler(authService, tokenService, cfg.Server.LoginRateLimit, logger.Logger)
	idorHandler := handlers.NewIDORHandler(resourceService, logger.Logger)
	portalHandler := handlers.NewPortalHandler(portalService, logger.Logger)
	staticHandler := handlers.NewStaticHandler(staticFs, cfg.Lesson.Fixed(), logger.Logger)

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middleware.RequestID)
	// the principal is resolved first so that request logs carry the user id
	r.Use(middleware.OptionalAuth(tokenService))
	r.Use(middleware.Logger(logger.Logger))
	r.Use(middleware.Recovery(logger.Logger, cfg.Lesson.Debug))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(100, time.Minute))
	r.Use(middleware.RequestSizeLimit(middleware.DefaultMaxRequestSize))

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	// Register routes
	healthHandler.RegisterRoutes(r)
	authHandler.RegisterRoutes(r)
	idorHandler.RegisterRoutes(r)
	portalHandler.RegisterRoutes(r)
	staticHandler.RegisterRoutes(r)

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}
