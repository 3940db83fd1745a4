// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"fieldbook/internal/admins"
	"fieldbook/internal/analytics"
	"fieldbook/internal/auth"
	"fieldbook/internal/bookings"
	"fieldbook/internal/customers"
	"fieldbook/internal/fields"
	"fieldbook/internal/mobilefields"
	"fieldbook/internal/roles"
	"fieldbook/internal/shared/config"
	"fieldbook/internal/shared/database"
	"fieldbook/internal/uploads"
	"fieldbook/internal/venues"
	"fieldbook/pkg/cache"
	"fieldbook/pkg/logger"
	"fieldbook/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	log      *logger.Logger
	cache    cache.Service
	storage  uploads.Storage
	metrics  *metrics.Metrics
	notifier bookings.Notifier

	// shared between feature modules
	tokens       *auth.Tokens
	roleService  roles.Service
	venueService venues.Service
	fieldService fields.Service
	customerRepo customers.Repository
}

// Deps are the process-wide services built in main
type Deps struct {
	Config   *config.Config
	DB       *database.DB
	Log      *logger.Logger
	Cache    cache.Service
	Storage  uploads.Storage
	Metrics  *metrics.Metrics
	Notifier bookings.Notifier
}

// NewRouter creates a new router instance
func NewRouter(deps Deps) *Router {
	cacheService := deps.Cache
	if cacheService == nil {
		cacheService = cache.NewNoop()
	}

	return &Router{
		config:   deps.Config,
		db:       deps.DB,
		log:      deps.Log,
		cache:    cacheService,
		storage:  deps.Storage,
		metrics:  deps.Metrics,
		notifier: deps.Notifier,
		tokens:   auth.NewTokens(deps.Config.JWT),
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		// order matters: later modules look up services built by earlier ones
		r.setupAuthRoutes(api)
		r.setupRoleRoutes(api)
		r.setupVenueRoutes(api)
		r.setupAdminRoutes(api)
		r.setupFieldRoutes(api)
		r.setupBookingRoutes(api)
		r.setupAnalyticsRoutes(api)
		r.setupMobileRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "fieldbook-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "fieldbook-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timezone":    r.config.Timezone,
			"redis":       r.db.GetRedisClient() != nil,
			"timestamp":   time.Now(),
		})
	})
}

// setupAuthRoutes configures customer authentication routes
func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	r.customerRepo = customers.NewRepository(r.db.GetPostgreSQL())
	authService := auth.NewService(r.customerRepo, r.tokens, r.log)
	authController := auth.NewController(authService, r.log)

	auth.NewRouter(authController, r.config, r.log).SetupRoutes(rg)
}

func (r *Router) setupRoleRoutes(rg *gin.RouterGroup) {
	r.roleService = roles.NewService(roles.NewRepository(r.db.GetPostgreSQL()), r.log)
	roles.SetupRoleRoutes(rg, roles.NewController(r.roleService, r.log), r.config, r.log)
}

func (r *Router) setupVenueRoutes(rg *gin.RouterGroup) {
	r.venueService = venues.NewService(venues.NewRepository(r.db.GetPostgreSQL()), r.cache, r.log)
	venues.SetupVenueRoutes(rg, venues.NewController(r.venueService, r.log), r.config, r.log)
}

func (r *Router) setupAdminRoutes(rg *gin.RouterGroup) {
	adminService := admins.NewService(
		admins.NewRepository(r.db.GetPostgreSQL()),
		r.roleService,
		r.venueService,
		r.tokens,
		r.log,
	)
	admins.SetupAdminAuthRoutes(rg, admins.NewController(adminService, r.log), r.config, r.log)
}

func (r *Router) setupFieldRoutes(rg *gin.RouterGroup) {
	r.fieldService = fields.NewService(
		fields.NewRepository(r.db.GetPostgreSQL()),
		r.venueService,
		r.cache,
		r.storage,
		r.log,
	)
	fields.SetupFieldRoutes(rg, fields.NewController(r.fieldService, r.log), r.config, r.log)
}

// setupBookingRoutes wires both the customer and the admin side of bookings
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	deps := bookings.Deps{
		Repo:      bookings.NewRepository(r.db.GetPostgreSQL()),
		Customers: r.customerRepo,
		Fields:    r.fieldService,
		Storage:   r.storage,
		Cache:     r.cache,
		Metrics:   r.metrics,
		Location:  r.config.Location,
		Log:       r.log,
	}

	bookingService := bookings.NewService(deps)
	bookings.SetupBookingRoutes(rg, bookings.NewController(bookingService, r.log), r.config, r.log)

	adminService := bookings.NewAdminService(deps, r.notifier)
	bookings.SetupAdminBookingRoutes(rg, bookings.NewAdminController(adminService, r.log), r.config, r.log)
}

func (r *Router) setupAnalyticsRoutes(rg *gin.RouterGroup) {
	service := analytics.NewService(
		analytics.NewRepository(r.db.GetPostgreSQL()),
		r.cache,
		r.config.Location,
		r.log,
	)
	analytics.SetupAnalyticsRoutes(rg, analytics.NewController(service, r.log), r.config, r.log)
}

func (r *Router) setupMobileRoutes(rg *gin.RouterGroup) {
	service := mobilefields.NewService(
		mobilefields.NewRepository(r.db.GetPostgreSQL()),
		r.config.Location,
		r.log,
	)
	mobilefields.SetupMobileFieldRoutes(rg, mobilefields.NewController(service, r.log))
}
