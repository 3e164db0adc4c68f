package routes

import (
	"net/http"
	"time"

	"tourly/internal/booking"
	"tourly/internal/catalog"
	"tourly/internal/notifications"
	"tourly/internal/payment"
	"tourly/internal/pricing"
	"tourly/internal/shared/config"
	"tourly/internal/shared/database"
	"tourly/pkg/cache"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *database.DB
	publisher booking.EventPublisher
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, publisher booking.EventPublisher) *Router {
	if publisher == nil {
		publisher = notifications.NewNoopPublisher()
	}
	return &Router{
		config:    cfg,
		db:        db,
		publisher: publisher,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		catalogService := r.setupCatalogRoutes(api)
		r.setupBookingRoutes(api, catalogService)
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
				"service":   "tourly-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "tourly-backend",
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
			"timestamp":   time.Now(),
		})
	})
}

// setupCatalogRoutes configures the read-only tour catalog routes
func (r *Router) setupCatalogRoutes(rg *gin.RouterGroup) catalog.Service {
	catalogRepo := catalog.NewRepository(r.db.GetPostgreSQL())
	cacheService := cache.NewService(r.db.GetRedis())
	catalogService := catalog.NewService(catalogRepo, cacheService)
	catalogController := catalog.NewController(catalogService)

	catalog.SetupCatalogRoutes(rg, catalogController)
	return catalogService
}

// setupBookingRoutes configures the booking session and payment routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup, catalogService catalog.Service) {
	store := booking.NewRedisStore(r.db.GetRedis(), r.config.Redis.SessionTTL, r.config.Redis.PayableTTL)
	records := booking.NewRepository(r.db.GetPostgreSQL())
	finalizer := booking.NewFinalizer(records, r.publisher)

	cardProtocol := payment.NewCardProtocol(payment.NewSimulatedCardGateway(), r.config.Payment.CardAuthDelay)
	walletProtocol := payment.NewWalletProtocol(payment.NewSimulatedWalletGateway(r.config.Payment.WalletValidity))
	dispatcher := payment.NewDispatcher(cardProtocol, walletProtocol)

	bookingService := booking.NewService(
		store,
		records,
		finalizer,
		dispatcher,
		catalog.NewBookingAdapter(catalogService),
		r.publisher,
		pricing.DefaultTariff(),
		booking.Config{
			Currency:       r.config.Payment.Currency,
			OrderRefPrefix: r.config.Payment.OrderRefPrefix,
		},
	)
	bookingController := booking.NewController(bookingService, r.config)

	booking.SetupBookingRoutes(rg, bookingController, r.config)
}
