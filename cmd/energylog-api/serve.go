package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/JonnyWalker81/energylog/backend/internal/analytics"
	"github.com/JonnyWalker81/energylog/backend/internal/config"
	"github.com/JonnyWalker81/energylog/backend/internal/handlers"
	"github.com/JonnyWalker81/energylog/backend/internal/logger"
	"github.com/JonnyWalker81/energylog/backend/internal/metrics"
	"github.com/JonnyWalker81/energylog/backend/internal/middleware"
	"github.com/JonnyWalker81/energylog/backend/internal/repository"
	"github.com/JonnyWalker81/energylog/backend/internal/service"
	"github.com/JonnyWalker81/energylog/backend/pkg/supabase"
)

const shutdownTimeout = 15 * time.Second

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

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync(log)

	loc, err := cfg.Analytics.Location()
	if err != nil {
		return err
	}

	log.Info("starting energylog API server",
		logger.String("env", cfg.Server.Env),
		logger.String("supabase_url", cfg.Supabase.URL),
		logger.String("timezone", loc.String()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize Supabase client
	supabaseClient := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.ServiceKey)

	// Initialize repositories
	energyRepo := repository.NewEnergyLogRepository(supabaseClient)
	sleepRepo := repository.NewSleepRepository(supabaseClient)
	consumptionRepo := repository.NewConsumptionRepository(supabaseClient)
	withdrawalRepo := repository.NewWithdrawalRepository(supabaseClient)
	idempotencyRepo := repository.NewIdempotencyRepository(supabaseClient)

	recorder := metrics.Default()
	analyzer := analytics.NewAnalyzer(
		analytics.WithLocation(loc),
		analytics.WithWindows(cfg.Analytics.WeeklyDays, cfg.Analytics.MonthlyDays),
		analytics.WithLogger(log),
		analytics.WithObserver(recorder),
	)

	// Initialize services
	insightService := service.NewInsightService(energyRepo, sleepRepo, consumptionRepo, withdrawalRepo, analyzer, recorder)
	energyLogService := service.NewEnergyLogService(energyRepo, insightService, nil)

	// Initialize handlers
	energyLogHandler := handlers.NewEnergyLogHandler(energyLogService)
	insightsHandler := handlers.NewInsightsHandler(insightService)

	// Set Gin mode based on environment
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(log))
	router.Use(middleware.SecurityHeaders(cfg.Server.IsProduction()))
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"env":    cfg.Server.Env,
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, "api")

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(middleware.RateLimit(limiter))
	v1.Use(middleware.Auth(supabaseClient))
	{
		v1.GET("/energy-logs", energyLogHandler.GetEnergyLogs)
		v1.POST("/energy-logs", middleware.Idempotency(idempotencyRepo), energyLogHandler.LogEnergy)

		v1.GET("/insights", insightsHandler.GetInsights)
		v1.GET("/insights/discoveries", insightsHandler.GetDiscoveries)
		v1.GET("/insights/history", insightsHandler.GetHistory)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", logger.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func newLogger(cfg *config.Config) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:   logger.ParseLevel(cfg.Logging.Level),
		Format:  cfg.Logging.Format,
		Backend: cfg.Logging.Backend,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.SetDefault(log)
	return log, nil
}
