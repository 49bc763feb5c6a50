package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/maxari-shop/service-returns/internal/auth"
	"github.com/maxari-shop/service-returns/internal/clients/shopify"
	"github.com/maxari-shop/service-returns/internal/config"
	"github.com/maxari-shop/service-returns/internal/eligibility"
	"github.com/maxari-shop/service-returns/internal/events"
	"github.com/maxari-shop/service-returns/internal/handlers"
	"github.com/maxari-shop/service-returns/internal/logger"
	"github.com/maxari-shop/service-returns/internal/middleware"
	"github.com/maxari-shop/service-returns/internal/models"
	"github.com/maxari-shop/service-returns/internal/repository"
	"github.com/maxari-shop/service-returns/internal/routes"
	"github.com/maxari-shop/service-returns/internal/services"
	"github.com/maxari-shop/service-returns/internal/storage"
)

func main() {
	// Load .env file in development
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.New(cfg.App.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	// Initialize Sentry for error tracking
	sentryEnabled := cfg.Sentry.DSN != ""
	if sentryEnabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			Environment:      cfg.Sentry.Environment,
			Release:          cfg.Sentry.Release,
			TracesSampleRate: 0.1,
		}); err != nil {
			zapLogger.Warn("Failed to initialize Sentry", zap.Error(err))
			sentryEnabled = false
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	if err := db.AutoMigrate(&models.Return{}, &models.User{}, &models.ShopConfig{}); err != nil {
		zapLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize repositories
	returnRepo := repository.NewReturnRepository(db)
	userRepo := repository.NewUserRepository(db)
	configRepo := repository.NewConfigRepository(db)

	// Connect to Redis (optional - config cache only)
	var redisClient *redis.Client
	rc := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rc.Ping(context.Background()).Err(); err != nil {
		zapLogger.Warn("Redis unavailable, config cache disabled", zap.Error(err))
	} else {
		redisClient = rc
	}

	// Connect to NATS (optional - only if configured)
	var natsConn *nats.Conn
	if cfg.NATS.URL != "" {
		natsConn, err = nats.Connect(cfg.NATS.URL)
		if err != nil {
			zapLogger.Warn("Failed to connect to NATS, events disabled", zap.Error(err))
		} else {
			zapLogger.Info("Connected to NATS", zap.String("url", cfg.NATS.URL))
			defer natsConn.Close()
		}
	}
	eventPublisher := events.NewPublisher(natsConn, zapLogger)

	// Initialize services
	configService := services.NewConfigService(configRepo, redisClient, 5*time.Minute, zapLogger)

	shopifyDomain, shopifyToken := cfg.Shopify.Domain, cfg.Shopify.AccessToken
	if shopCfg, err := configService.Get(context.Background()); err == nil && shopCfg.ShopifyDomain != "" {
		shopifyDomain, shopifyToken = shopCfg.ShopifyDomain, shopCfg.ShopifyAccessToken
	}

	platformClient, err := shopify.NewClient(&shopify.ClientConfig{
		Domain:      shopifyDomain,
		AccessToken: shopifyToken,
		Logger:      zapLogger,
	})
	if err != nil {
		zapLogger.Fatal("Failed to initialize Shopify client", zap.Error(err))
	}

	cutoffDate, err := cfg.Returns.ParseCutoffDate()
	if err != nil {
		zapLogger.Fatal("Invalid return cutoff date", zap.Error(err))
	}

	resolutionService := services.NewOrderResolutionService(platformClient, services.ResolutionConfig{
		StrictGivenName: cfg.Returns.StrictNameMatch,
		Policy: eligibility.Policy{
			WindowDays:     cfg.Returns.WindowDays,
			LastWarningDay: cfg.Returns.LastWarningDay,
		},
		CutoffDate: cutoffDate,
	}, zapLogger)

	artifactStore, err := storage.NewArtifactStore(cfg.Returns.ArtifactDir, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to initialize artifact store", zap.Error(err))
	}

	returnService := services.NewReturnService(returnRepo, artifactStore, eventPublisher, cfg.App.BaseURL, zapLogger)

	// Initialize JWT manager for admin auth
	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, 24*time.Hour)
	authService := services.NewAuthService(userRepo, jwtManager, zapLogger)

	// Initialize handlers
	searchHandler := handlers.NewSearchHandler(resolutionService, configService, zapLogger)
	returnHandler := handlers.NewReturnHandler(returnService, zapLogger)
	configHandler := handlers.NewConfigHandler(configService, zapLogger)
	authHandler := handlers.NewAuthHandler(authService, zapLogger)

	// Set Gin mode
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	router := gin.New()

	// Apply global middleware
	if sentryEnabled {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(zapLogger))

	// CORS - use environment-based configuration
	allowedOrigins := getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:3001")
	router.Use(middleware.CORSWithOrigins(allowedOrigins))

	// Security headers
	router.Use(middleware.SecurityHeaders())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "returns",
			"time":    time.Now().UTC(),
		})
	})

	// Setup routes using the routes package
	routes.SetupRoutes(router, &routes.RouteConfig{
		SearchHandler: searchHandler,
		ReturnHandler: returnHandler,
		ConfigHandler: configHandler,
		AuthHandler:   authHandler,
		JWTManager:    jwtManager,
	})

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		zapLogger.Info("Returns service starting on port " + cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
