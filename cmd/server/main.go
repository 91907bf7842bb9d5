package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	activityapp "github.com/foresy/backend/internal/application/activity"
	missionapp "github.com/foresy/backend/internal/application/mission"
	"github.com/foresy/backend/internal/domain/activity"
	"github.com/foresy/backend/internal/infrastructure/auth"
	"github.com/foresy/backend/internal/infrastructure/config"
	"github.com/foresy/backend/internal/infrastructure/logger"
	"github.com/foresy/backend/internal/infrastructure/persistence"
	"github.com/foresy/backend/internal/infrastructure/ratelimit"
	"github.com/foresy/backend/internal/interfaces/http/handler"
	"github.com/foresy/backend/internal/interfaces/http/middleware"
	"github.com/foresy/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Foresy Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Repository factory: services open the transaction, repositories bind to it
	repos := func(tx *gorm.DB) activityapp.Repositories {
		return activityapp.Repositories{
			Reports:  persistence.NewGormReportRepository(tx),
			Entries:  persistence.NewGormEntryRepository(tx),
			Links:    persistence.NewGormReportMissionLinkRepository(tx),
			Missions: persistence.NewGormMissionRepository(tx),
		}
	}

	// Entry validation policy from config
	policy := activity.NewPolicy(activity.PolicyConfig{
		MaxQuantity:          decimal.NewFromInt(int64(cfg.Activity.MaxQuantity)),
		MaxUnitPrice:         cfg.Activity.MaxUnitPrice,
		MaxLineTotal:         cfg.Activity.MaxLineTotal,
		MaxDescriptionLength: cfg.Activity.MaxDescriptionLength,
		DateWindow:           time.Duration(cfg.Activity.DateWindowDays) * 24 * time.Hour,
	})

	// Initialize application services
	entryService := activityapp.NewEntryService(db.DB, repos, policy, log)
	reportService := activityapp.NewReportService(db.DB, repos, policy, log)
	missionService := missionapp.NewService(persistence.NewGormMissionRepository(db.DB), log)

	// Initialize JWT service
	jwtService := auth.NewJWTService(cfg.JWT)

	// Initialize handlers
	reportHandler := handler.NewReportHandler(reportService)
	entryHandler := handler.NewEntryHandler(entryService)
	missionHandler := handler.NewMissionHandler(missionService)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. JWT - Authenticate requests
	// 8. RateLimit - Apply per-user rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/health",
			"/api/v1/ping",
			"/api/v1/system/info",
		},
	}
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Rate limiting keyed by authenticated user (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		limiter, err := buildRateLimiter(cfg, log)
		if err != nil {
			log.Fatal("Failed to initialize rate limiter", zap.Error(err))
		}
		if closer, ok := limiter.(io.Closer); ok {
			defer func() {
				if err := closer.Close(); err != nil {
					log.Error("Error closing rate limiter", zap.Error(err))
				}
			}()
		}
		engine.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.String("backend", cfg.HTTP.RateLimitBackend),
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", systemHandler.Health)

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Activity report domain
	reportRoutes := router.NewDomainGroup("reports", "/reports")
	reportRoutes.POST("", reportHandler.Create)
	reportRoutes.GET("", reportHandler.List)
	reportRoutes.GET("/:id", reportHandler.GetByID)
	reportRoutes.POST("/:id/submit", reportHandler.Submit)
	reportRoutes.POST("/:id/lock", reportHandler.Lock)
	reportRoutes.POST("/:id/entries", entryHandler.Create)
	reportRoutes.GET("/:id/entries", entryHandler.List)

	// Entry mutations addressed by entry id
	entryRoutes := router.NewDomainGroup("entries", "/entries")
	entryRoutes.PUT("/:id", entryHandler.Update)
	entryRoutes.DELETE("/:id", entryHandler.Destroy)

	// Mission domain
	missionRoutes := router.NewDomainGroup("missions", "/missions")
	missionRoutes.POST("", missionHandler.Create)
	missionRoutes.GET("", missionHandler.List)
	missionRoutes.GET("/:id", missionHandler.GetByID)
	missionRoutes.PUT("/:id", missionHandler.Update)
	missionRoutes.POST("/:id/transition", missionHandler.Transition)
	missionRoutes.DELETE("/:id", missionHandler.Delete)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/health", systemHandler.Health)

	r.Register(reportRoutes).
		Register(entryRoutes).
		Register(missionRoutes).
		Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// buildRateLimiter selects the limiter backend from config
func buildRateLimiter(cfg *config.Config, log *zap.Logger) (ratelimit.Limiter, error) {
	if cfg.HTTP.RateLimitBackend == "redis" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, err
		}
		log.Info("Redis rate limiter connected", zap.String("addr", cfg.Redis.Addr()))
		return ratelimit.NewRedisLimiter(client, cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow), nil
	}
	return ratelimit.NewMemoryLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow), nil
}
