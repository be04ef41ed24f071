// Package http wires the HTTP surface: handlers, middleware and routes.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	deliveryUC "github.com/adbeam/adbeam/internal/application/delivery/usecases"
	overlayUC "github.com/adbeam/adbeam/internal/application/overlay/usecases"
	"github.com/adbeam/adbeam/internal/infrastructure/auth"
	"github.com/adbeam/adbeam/internal/infrastructure/config"
	"github.com/adbeam/adbeam/internal/infrastructure/metrics"
	"github.com/adbeam/adbeam/internal/infrastructure/ratelimit"
	"github.com/adbeam/adbeam/internal/infrastructure/repository"
	"github.com/adbeam/adbeam/internal/infrastructure/services"
	"github.com/adbeam/adbeam/internal/infrastructure/tasks"
	"github.com/adbeam/adbeam/internal/interfaces/http/handlers"
	"github.com/adbeam/adbeam/internal/interfaces/http/middleware"
	"github.com/adbeam/adbeam/internal/interfaces/http/routes"
	"github.com/adbeam/adbeam/internal/shared/logger"
)

// Router holds the engine and the wired handlers.
type Router struct {
	engine *gin.Engine
	cfg    *config.Config
	logger logger.Interface

	overlayHub   *services.OverlayHub
	dashboardHub *services.DashboardHub
	recorder     *metrics.PrometheusRecorder

	eventHandler      *handlers.EventHandler
	overlayHandler    *handlers.OverlayHandler
	deliveryHandler   *handlers.DeliveryHandler
	credentialHandler *handlers.CredentialHandler
	dashboardHandler  *handlers.DashboardHandler
	authMiddleware    *middleware.AuthMiddleware
}

// NewRouter wires repositories, use cases and handlers onto a fresh engine.
func NewRouter(
	db *gorm.DB,
	redisClient *redis.Client,
	executor *tasks.Executor,
	cfg *config.Config,
	log logger.Interface,
) *Router {
	engine := gin.New()

	sessionRepo := repository.NewSessionRepository(db)
	eventRepo := repository.NewEventRepository(db)
	credentialRepo := repository.NewCredentialRepository(db)
	channelRepo := repository.NewChannelRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	flightRepo := repository.NewFlightRepository(db)
	creativeRepo := repository.NewCreativeRepository(db)

	overlayHub := services.NewOverlayHub(log)
	dashboardHub := services.NewDashboardHub(log, nil)
	recorder := metrics.NewPrometheusRecorder()
	limiter := ratelimit.NewRedisEventLimiter(redisClient, cfg.Overlay.IngestPerMinute)

	validateUC := overlayUC.NewValidateCredentialUseCase(credentialRepo)
	registryUC := overlayUC.NewSessionRegistryUseCase(sessionRepo, eventRepo, log)
	systemEventUC := overlayUC.NewRecordSystemEventUseCase(eventRepo, log)
	ingestUC := overlayUC.NewIngestEventUseCase(
		validateUC, registryUC, eventRepo, recorder, dashboardHub, executor, log,
	)
	rotateUC := overlayUC.NewRotateCredentialUseCase(
		channelRepo, credentialRepo, cfg.Overlay.BaseURL, log,
	)
	triggerUC := deliveryUC.NewTriggerDeliveryUseCase(
		channelRepo, assignmentRepo, flightRepo, creativeRepo,
		sessionRepo, eventRepo, systemEventUC,
		overlayHub, dashboardHub, recorder, executor, log,
	)

	overlayHandler := handlers.NewOverlayHandler(
		overlayHub, validateUC, registryUC, systemEventUC, dashboardHub, executor,
		cfg.Server.AllowedOrigins, log,
	)
	overlayHub.SetOnSocketClosed(overlayHandler.HandleSocketClosed)

	jwtService := auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes)

	return &Router{
		engine:            engine,
		cfg:               cfg,
		logger:            log,
		overlayHub:        overlayHub,
		dashboardHub:      dashboardHub,
		recorder:          recorder,
		eventHandler:      handlers.NewEventHandler(ingestUC, limiter, log),
		overlayHandler:    overlayHandler,
		deliveryHandler:   handlers.NewDeliveryHandler(triggerUC, log),
		credentialHandler: handlers.NewCredentialHandler(rotateUC, log),
		dashboardHandler:  handlers.NewDashboardHandler(dashboardHub, log),
		authMiddleware:    middleware.NewAuthMiddleware(jwtService, log),
	}
}

// SetupRoutes configures middleware and all HTTP routes.
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.Logger(r.logger))
	r.engine.Use(middleware.Recovery(r.logger))
	r.engine.Use(middleware.CORS(r.cfg.Server.AllowedOrigins))

	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.engine.GET("/metrics", gin.WrapH(r.recorder.Handler()))

	routes.SetupOverlayRoutes(r.engine, &routes.OverlayRouteConfig{
		EventHandler:   r.eventHandler,
		OverlayHandler: r.overlayHandler,
	})

	routes.SetupOperatorRoutes(r.engine, &routes.OperatorRouteConfig{
		DeliveryHandler:   r.deliveryHandler,
		CredentialHandler: r.credentialHandler,
		DashboardHandler:  r.dashboardHandler,
		AuthMiddleware:    r.authMiddleware,
	})
}

// GetEngine returns the underlying Gin engine.
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// Shutdown stops the hubs so no handler writes to a closing server.
func (r *Router) Shutdown() {
	r.dashboardHub.Shutdown()
}
