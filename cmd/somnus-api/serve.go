package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/somnus-app/backend/internal/config"
	"github.com/somnus-app/backend/internal/handlers"
	"github.com/somnus-app/backend/internal/logger"
	"github.com/somnus-app/backend/internal/middleware"
	"github.com/somnus-app/backend/internal/repository"
	"github.com/somnus-app/backend/internal/service"
	"github.com/somnus-app/backend/pkg/garmin"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long:  `Start the HTTP API server and listen for requests.`,
	RunE:  runServe,
}

var (
	port string
)

func init() {
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Override port from flag if provided
	if port != "" {
		cfg.Server.Port = port
	}

	// Initialize structured logging
	log := logger.NewSlogLogger(logger.Config{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
	})
	logger.SetDefault(log)

	log.Info("starting somnus API server",
		logger.String("env", cfg.Server.Env),
		logger.Bool("garmin_sample_mode", cfg.Garmin.SampleMode),
	)

	// Initialize storage. The in-memory store keeps all state for the
	// lifetime of the process; every repository view shares it.
	store := repository.NewMemoryStore()

	// Initialize Garmin client
	garminClient := garmin.NewClient(cfg.Garmin.BaseURL)

	// Initialize services
	authService := service.NewAuthService(store, store)
	habitService := service.NewHabitService(store)
	sleepService := service.NewSleepService(store, store, habitService)
	syncService := service.NewSyncService(garminClient, store, store, sleepService, cfg.Garmin.SampleMode)
	importService := service.NewImportService(store, habitService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	habitsHandler := handlers.NewHabitsHandler(habitService)
	sleepHandler := handlers.NewSleepHandler(sleepService, authService)
	syncHandler := handlers.NewSyncHandler(syncService, authService)
	importHandler := handlers.NewImportHandler(importService)

	// Set Gin mode based on environment
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())

	// Middleware
	router.Use(middleware.CORS())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.RateLimit())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
			"env":    cfg.Server.Env,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Auth routes
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimitAuth())
		{
			auth.POST("/login", authHandler.Login)
		}

		// Protected routes
		me := v1.Group("/me")
		me.Use(middleware.Auth(store))
		{
			me.GET("/summary", sleepHandler.Summary)

			me.GET("/habits", habitsHandler.GetHabits)
			me.POST("/habits/checkin", habitsHandler.CheckIn)

			me.POST("/sleep", sleepHandler.RecordManualEntry)
			me.GET("/sleep/timeline", sleepHandler.Timeline)
			me.GET("/sleep/correlations", sleepHandler.Correlations)

			me.POST("/garmin/connect", syncHandler.Connect)
			me.POST("/garmin/pull", syncHandler.Pull)

			me.POST("/import", importHandler.Import)
		}
	}

	log.Info("server listening", logger.String("port", cfg.Server.Port))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
