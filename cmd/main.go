package main

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/tdaniel1925/easemail-saas-sub000/internal/handler"
	"github.com/tdaniel1925/easemail-saas-sub000/internal/middleware"
	"github.com/tdaniel1925/easemail-saas-sub000/internal/provider"
	"github.com/tdaniel1925/easemail-saas-sub000/internal/store"
	"github.com/tdaniel1925/easemail-saas-sub000/internal/sync"
	"github.com/tdaniel1925/easemail-saas-sub000/internal/tenant"
	"github.com/tdaniel1925/easemail-saas-sub000/pkg/config"
	"github.com/tdaniel1925/easemail-saas-sub000/pkg/database"
	"github.com/tdaniel1925/easemail-saas-sub000/pkg/jwtutil"
	"github.com/tdaniel1925/easemail-saas-sub000/pkg/logger"
	"github.com/tdaniel1925/easemail-saas-sub000/prometheus"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load("sync-service")
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	if err := logger.InitLogger(cfg); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	log.Info("Starting calendar sync service...", zap.String("environment", cfg.Server.Env))

	// Initialize database
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer database.Close(db)
	log.Info("Database connection established")

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(cfg)
	log.Info("Prometheus metrics initialized")

	// Wire the sync engine
	st := store.New(db)
	providerClient := provider.NewHTTPClient(&cfg.Provider, &http.Client{Timeout: cfg.Provider.Timeout})
	tenants := tenant.NewResolver(st.Tenants)
	syncService := sync.NewService(st, providerClient, tenants, cfg.Sync)
	h := handler.New(syncService, st)

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(middleware.MetricsMiddleware)

	// Public routes - no authentication required
	e.GET("/health", h.Health)
	e.GET("/metrics", h.Metrics)

	// API routes - all require authentication
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)

	// Sync triggers
	api.POST("/tenants/:tenant/sync/initial", h.TriggerInitialSync)

	calendars := api.Group("/tenants/:tenant/calendars")
	calendars.POST("/sync", h.TriggerCalendarSync)
	calendars.POST("/:calendarId/events/sync", h.TriggerEventSync)
	calendars.GET("", h.ListCalendars)

	events := api.Group("/tenants/:tenant/events")
	events.GET("", h.ListEvents)
	events.GET("/upcoming", h.ListUpcomingEvents)
	events.GET("/:id", h.GetEvent)
	events.POST("", h.CreateEvent)
	events.PUT("/:id", h.UpdateEvent)
	events.DELETE("/:id", h.DeleteEvent)

	folders := api.Group("/tenants/:tenant/folders")
	folders.POST("/sync", h.TriggerFolderSync)
	folders.GET("", h.ListFolders)
	folders.POST("", h.CreateFolder)
	folders.PUT("/:id", h.UpdateFolder)
	folders.DELETE("/:id", h.DeleteFolder)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
