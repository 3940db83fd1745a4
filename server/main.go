package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"fieldbook/api/routes"
	"fieldbook/docs"
	"fieldbook/internal/bookings"
	"fieldbook/internal/notifications"
	"fieldbook/internal/shared/config"
	"fieldbook/internal/shared/database"
	"fieldbook/internal/shared/middleware"
	"fieldbook/internal/uploads"
	"fieldbook/pkg/cache"
	"fieldbook/pkg/logger"
	"fieldbook/pkg/metrics"
	"fieldbook/pkg/ratelimit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// @title						Fieldbook API
// @version					1.0
// @description				Futsal field booking: catalog, availability, bookings and payment verification.
// @BasePath					/api/v1
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	appLogger := logger.New()
	if envErr != nil {
		if cfg.IsProduction() || os.Getenv("DOCKER_CONTAINER") == "true" {
			appLogger.Info("Production environment: using container environment variables")
		} else {
			appLogger.Info("No .env file found, using system environment variables")
		}
	} else {
		appLogger.Info("Development environment: loaded .env file")
	}

	db, err := database.InitDB(cfg, appLogger)
	if err != nil {
		appLogger.WithError(err).Error("Failed to initialize database")
		os.Exit(1)
	}
	defer db.Close()

	storage, err := uploads.New(cfg, appLogger)
	if err != nil {
		appLogger.WithError(err).Error("Failed to initialize upload storage")
		os.Exit(1)
	}

	cacheService := cache.NewNoop()
	if db.GetRedisClient() != nil {
		cacheService = cache.NewService(db.GetRedisClient(), appLogger)
	}

	var appMetrics *metrics.Metrics
	if cfg.Metrics.Enabled {
		appMetrics = metrics.New()
	}

	notificationService, err := notifications.New(cfg, appMetrics, appLogger)
	if err != nil {
		appLogger.WithError(err).Error("Failed to initialize Kafka notifications, falling back to direct delivery")
		notificationService = notifications.NewDirect(
			notifications.NewSender(cfg.Email, appLogger),
			notifications.DefaultRetryPolicy(),
			appMetrics,
			appLogger,
		)
	}

	bgCtx, bgCancel := context.WithCancel(context.Background())
	defer bgCancel()
	notificationService.Start(bgCtx)
	defer func() {
		appLogger.Info("Stopping notification service...")
		if err := notificationService.Stop(); err != nil {
			appLogger.WithError(err).Error("Error stopping notification service")
		}
	}()

	jobs := bookings.NewJobProcessor(bookings.NewRepository(db.GetPostgreSQL()), cacheService, nil, appLogger)
	jobs.Start(bgCtx)
	defer jobs.Stop()

	var rateLimiter *ratelimit.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = ratelimit.NewRateLimiter(db.GetRedisClient(), &ratelimit.Config{
			Enabled:                 cfg.RateLimit.Enabled,
			WindowDuration:          cfg.RateLimit.WindowDuration,
			DefaultRequests:         cfg.RateLimit.DefaultRequests,
			PublicRequests:          cfg.RateLimit.PublicRequests,
			AuthRequests:            cfg.RateLimit.AuthRequests,
			BookingRequests:         cfg.RateLimit.BookingRequests,
			BookingCriticalRequests: cfg.RateLimit.BookingCriticalRequests,
			AdminRequests:           cfg.RateLimit.AdminRequests,
			AnalyticsRequests:       cfg.RateLimit.AnalyticsRequests,
			UserRequests:            cfg.RateLimit.UserRequests,
			HealthRequests:          cfg.RateLimit.HealthRequests,
			WhitelistedIPs:          cfg.RateLimit.WhitelistedIPs,
		})
		appLogger.Info("Rate limiter initialized",
			"window", cfg.RateLimit.WindowDuration,
			"default_requests", cfg.RateLimit.DefaultRequests,
			"redis", db.GetRedisClient() != nil,
		)
	} else {
		appLogger.Info("Rate limiting disabled")
	}

	router := setupRouter(routes.Deps{
		Config:   cfg,
		DB:       db,
		Log:      appLogger,
		Cache:    cacheService,
		Storage:  storage,
		Metrics:  appMetrics,
		Notifier: notificationService,
	}, rateLimiter)

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("Server running",
			"address", cfg.GetServerAddress(),
			"health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port),
			"swagger", fmt.Sprintf("http://localhost:%s/swagger/index.html", cfg.Port),
			"version", Version,
			"build_time", BuildTime,
			"commit", GitCommit,
			"timezone", cfg.Location.String(),
			"kafka", cfg.Kafka.Enabled,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Error("Server failed")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.WithError(err).Error("Forced shutdown")
	}

	appLogger.Info("Server exited gracefully")
}

func setupRouter(deps routes.Deps, rateLimiter *ratelimit.RateLimiter) *gin.Engine {
	cfg := deps.Config
	engine := gin.New()

	engine.Use(middleware.RequestLogger(deps.Log), gin.Recovery())
	if deps.Metrics != nil {
		engine.Use(deps.Metrics.Middleware())
	}

	engine.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-RateLimit-*"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if rateLimiter != nil {
		engine.Use(ratelimit.Middleware(rateLimiter, deps.Log))
	}

	// multipart bodies above this are spooled to disk by gin
	engine.MaxMultipartMemory = cfg.Upload.MaxSize

	engine.Static(uploads.PublicPrefix, cfg.Upload.Path)

	if deps.Metrics != nil {
		engine.GET(cfg.Metrics.Path, deps.Metrics.Handler())
	}

	docs.SwaggerInfo.BasePath = cfg.GetAPIBasePath()
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.NewRouter(deps).SetupRoutes(engine)
	return engine
}
