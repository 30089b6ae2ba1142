// Package http wires the gin engine: middleware, session resolution, and
// the complaint, tracking, and preview routes.
package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	appintake "github.com/SlnkoEnergy/Client-O-M/internal/application/intake"
	"github.com/SlnkoEnergy/Client-O-M/internal/application/preview"
	apptracking "github.com/SlnkoEnergy/Client-O-M/internal/application/tracking"
	"github.com/SlnkoEnergy/Client-O-M/internal/infrastructure/capture"
	"github.com/SlnkoEnergy/Client-O-M/internal/infrastructure/config"
	"github.com/SlnkoEnergy/Client-O-M/internal/infrastructure/omsapi"
	"github.com/SlnkoEnergy/Client-O-M/internal/infrastructure/sessions"
	intakehandler "github.com/SlnkoEnergy/Client-O-M/internal/interfaces/http/handlers/intake"
	previewhandler "github.com/SlnkoEnergy/Client-O-M/internal/interfaces/http/handlers/preview"
	trackinghandler "github.com/SlnkoEnergy/Client-O-M/internal/interfaces/http/handlers/tracking"
	"github.com/SlnkoEnergy/Client-O-M/internal/interfaces/http/middleware"
	"github.com/SlnkoEnergy/Client-O-M/internal/shared/logger"
	"github.com/SlnkoEnergy/Client-O-M/internal/shared/services/markdown"
)

// Router represents the HTTP router configuration
type Router struct {
	engine          *gin.Engine
	sessionManager  *sessions.Manager
	intakeHandler   *intakehandler.Handler
	trackingHandler *trackinghandler.Handler
	previewHandler  *previewhandler.Handler
	rateLimiter     *middleware.RateLimiter
	cfg             *config.Config
}

// NewRouter creates a new HTTP router with all dependencies
func NewRouter(cfg *config.Config, redisClient *redis.Client, log logger.Interface) *Router {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	backend := omsapi.NewClient(cfg.Upstream, log.Named("omsapi"))
	device := capture.NewBrowserDevice(log.Named("capture"))
	renderer := markdown.NewService()

	factory := func() (*appintake.Controller, *apptracking.Controller) {
		intakeCtl := appintake.NewController(
			backend, backend, backend, device,
			preview.NewRegistry(), log.Named("intake"),
		)
		trackingCtl := apptracking.NewController(backend, renderer, log.Named("tracking"))
		return intakeCtl, trackingCtl
	}
	sessionManager := sessions.NewManager(
		factory,
		cfg.Session.TTL(),
		cfg.Session.SweepInterval(),
		log.Named("sessions"),
	)

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled && redisClient != nil {
		rateLimiter = middleware.NewRateLimiter(redisClient, cfg.RateLimit.RequestsPerMinute, time.Minute)
	}

	return &Router{
		engine:          engine,
		sessionManager:  sessionManager,
		intakeHandler:   intakehandler.NewHandler(log.Named("intake_handler")),
		trackingHandler: trackinghandler.NewHandler(log.Named("tracking_handler")),
		previewHandler:  previewhandler.NewHandler(),
		rateLimiter:     rateLimiter,
		cfg:             cfg,
	}
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes(log logger.Interface) {
	r.engine.Use(middleware.Logger(log))
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.CORS(r.cfg.Server.AllowedOrigins))

	r.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	limit := func() gin.HandlerFunc {
		if r.rateLimiter != nil {
			return r.rateLimiter.Limit()
		}
		return func(c *gin.Context) { c.Next() }
	}()
	session := middleware.Session(r.sessionManager, int(r.cfg.Session.TTL().Seconds()))

	complaint := r.engine.Group("/api/complaint")
	complaint.Use(session)
	{
		complaint.POST("/lookup", limit, r.intakeHandler.Lookup)
		complaint.POST("/project", limit, r.intakeHandler.SelectProject)
		complaint.POST("/equipment", r.intakeHandler.SelectEquipment)
		complaint.POST("/fault", r.intakeHandler.SetFault)
		complaint.POST("/attachments", limit, r.intakeHandler.AddAttachments)
		complaint.DELETE("/attachments/:index", r.intakeHandler.RemoveAttachment)
		complaint.POST("/recording/start", r.intakeHandler.StartRecording)
		complaint.POST("/recording/chunk", r.intakeHandler.AppendChunk)
		complaint.POST("/recording/stop", r.intakeHandler.StopRecording)
		complaint.DELETE("/voice/:index", r.intakeHandler.RemoveVoiceClip)
		complaint.POST("/submit", limit, r.intakeHandler.Submit)
		complaint.POST("/reset", r.intakeHandler.Reset)
		complaint.GET("/state", r.intakeHandler.State)
	}

	tracking := r.engine.Group("/api/tracking")
	tracking.Use(session)
	{
		tracking.POST("/search", limit, r.trackingHandler.Search)
		tracking.POST("/select", r.trackingHandler.Select)
		tracking.POST("/attachments/toggle", r.trackingHandler.ToggleAttachments)
		tracking.POST("/clear", r.trackingHandler.Clear)
		tracking.GET("/state", r.trackingHandler.State)
	}

	r.engine.GET("/preview/:token", session, r.previewHandler.Serve)
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// Sessions returns the session manager for lifecycle control.
func (r *Router) Sessions() *sessions.Manager {
	return r.sessionManager
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
