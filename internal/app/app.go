package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kavya1280/JK-Insights/internal/analytics"
	"github.com/kavya1280/JK-Insights/internal/auth"
	"github.com/kavya1280/JK-Insights/internal/config"
	apierrors "github.com/kavya1280/JK-Insights/internal/errors"
	"github.com/kavya1280/JK-Insights/internal/files"
	"github.com/kavya1280/JK-Insights/internal/infrastructure"
	"github.com/kavya1280/JK-Insights/internal/insights"
	customMiddleware "github.com/kavya1280/JK-Insights/internal/middleware"
	"github.com/kavya1280/JK-Insights/internal/operations"
	"github.com/kavya1280/JK-Insights/internal/services"
	handlers "github.com/kavya1280/JK-Insights/internal/transport/http"
	"github.com/kavya1280/JK-Insights/internal/validation"
	ws "github.com/kavya1280/JK-Insights/internal/websocket"
)

const AppName = "JK Insights"

// Version is set at build time with -ldflags
var Version = "dev"

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics
	ErrorHandler  *apierrors.ErrorHandler
	WebSocketHub  *ws.Hub
	JobQueue      *operations.JobQueue
	Watcher       *files.Watcher
	Services      *ServiceContainer

	cancel context.CancelFunc
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Users      *services.UserService
	Uploads    *services.UploadService
	Generation *services.GenerationService
	Insights   *services.InsightService
	Analytics  *services.AnalyticsService
	Health     *services.HealthService
}

// NewApplication wires every component. A nil cfg is loaded from the
// environment.
func NewApplication(cfg *config.Config) (*Application, error) {
	if cfg == nil {
		loaded, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded
	}

	paths, err := config.ResolvePaths(cfg.Paths)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", Version),
		slog.String("data_dir", paths.DataDir),
		slog.String("output_dir", paths.OutputDir))

	if cfg.Observability.ServiceVersion == "" {
		cfg.Observability.ServiceVersion = Version
	}
	registry := prometheus.NewRegistry()
	providers, err := infrastructure.InitializeOTel(cfg.Observability, registry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	metrics, err := infrastructure.CreateBusinessMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	a := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: providers,
		Metrics:       metrics,
		ErrorHandler:  handlers.NewErrorHandler(logger, cfg.Logging.Level == "debug"),
	}

	if err := a.initializeServices(registry); err != nil {
		_ = providers.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	a.setupRouter()
	a.createServer()
	return a, nil
}

// InsightOptions turns the configured thresholds into detector options
func InsightOptions(cfg config.InsightsConfig) (insights.Options, error) {
	opts := insights.DefaultOptions()
	opts.BulkThreshold = cfg.BulkThreshold
	opts.LowValueAmount = cfg.LowValueAmount
	opts.LowValueFrequency = cfg.LowValueFrequency
	opts.RareThresholdPct = cfg.RareThresholdPct
	if cfg.HolidayFile != "" {
		holidays, err := insights.LoadHolidays(cfg.HolidayFile)
		if err != nil {
			return insights.Options{}, fmt.Errorf("failed to load holidays: %w", err)
		}
		opts.Holidays = holidays
	}
	return opts, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices(registry *prometheus.Registry) error {
	wsMetrics, err := ws.NewOTelMetrics(a.OTelProviders.Meter)
	if err != nil {
		return fmt.Errorf("failed to create websocket metrics: %w", err)
	}
	a.WebSocketHub = ws.NewHub(a.Logger, wsMetrics)

	opts, err := InsightOptions(a.Config.Insights)
	if err != nil {
		return err
	}
	runner := operations.NewRunner(operations.RunnerConfig{
		DataDir:   a.Paths.DataDir,
		OutputDir: a.Paths.OutputDir,
		Options:   opts,
		Workers:   a.Config.Insights.Workers,
		Metrics:   operations.NewInsightMetrics(registry),
		Tracer:    a.OTelProviders.Tracer,
		Logger:    a.Logger,
	})
	a.JobQueue = operations.NewJobQueue(operations.JobQueueConfig{
		Workers:     a.Config.Insights.QueueWorkers,
		Timeout:     a.Config.Insights.JobTimeout,
		Store:       operations.NewMemoryJobStore(),
		Runner:      runner,
		Broadcaster: a.WebSocketHub,
		Metrics:     a.Metrics,
		Logger:      a.Logger,
	})

	watcher, err := files.NewWatcher(a.Paths.DataDir, a.WebSocketHub, files.DefaultDebounce, a.Logger)
	if err != nil {
		return err
	}
	a.Watcher = watcher

	users, err := auth.Open(auth.StoreConfig{
		Path:            a.Paths.UsersFile,
		BcryptCost:      a.Config.Auth.BcryptCost,
		Seed:            a.Config.Auth.SeedDefaultUsers,
		DefaultPassword: a.Config.Auth.DefaultPassword,
	}, a.Logger)
	if err != nil {
		watcher.Stop()
		return fmt.Errorf("failed to open user store: %w", err)
	}

	a.Services = &ServiceContainer{
		Users:      services.NewUserService(users, a.Metrics, a.Logger),
		Uploads:    services.NewUploadService(files.NewManager(a.Paths, a.Metrics, a.Logger), a.Logger),
		Generation: services.NewGenerationService(a.JobQueue, a.Logger),
		Insights:   services.NewInsightService(a.Paths, a.Logger),
		Analytics:  services.NewAnalyticsService(analytics.NewWorkspace(a.Paths.AnalyticsDir, a.Logger), a.Logger),
		Health:     services.NewHealthService(Version, a.Paths, a.WebSocketHub, a.JobQueue, a.Logger),
	}
	return nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics, a.Logger).Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(a.ErrorHandler.Recoverer)
	r.Use(customMiddleware.SecurityHeaders)
	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
			Logger:         a.Logger,
		}))
	}
	if rl := a.Config.Security.RateLimit; rl.Enabled {
		r.Use(customMiddleware.NewRateLimiter(rl.RPS, rl.Burst, a.Logger).Handler)
	}

	health := handlers.NewHealthHandler(a.Services.Health)
	r.Get("/healthz", health.Liveness)
	r.Get("/readyz", health.Readiness)
	r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)

	wsHandler := ws.NewHandler(a.WebSocketHub, a.Config.WebSocket, a.Config.Security.AllowedOrigins, a.Logger)
	r.With(customMiddleware.WebSocketTraceMiddleware(a.Logger)).Get("/ws", wsHandler.ServeHTTP)

	a.setupAPIRoutes(r)

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)
	a.Router = r
}

func (a *Application) setupAPIRoutes(r chi.Router) {
	v := validation.New()
	maxMB := a.Config.Server.MaxUploadMB

	users := handlers.NewUsersHandler(a.Services.Users, v, a.ErrorHandler, a.Logger)
	uploads := handlers.NewUploadHandler(a.Services.Uploads, maxMB, a.ErrorHandler, a.Logger)
	generate := handlers.NewGenerateHandler(a.Services.Generation, v, a.ErrorHandler, a.Logger)
	insightsHandler := handlers.NewInsightsHandler(a.Services.Insights, a.ErrorHandler, a.Logger)
	analyticsHandler := handlers.NewAnalyticsHandler(a.Services.Analytics, maxMB, v, a.ErrorHandler, a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		// JSON bodies
		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.ContentTypeValidator(a.ErrorHandler, "application/json"))
			r.Use(customMiddleware.NewJSONBody(a.Logger, a.ErrorHandler, 1<<20).Handler)

			r.Post("/auth/login", users.Login)
			r.Mount("/users", users.Routes())
			r.Post("/generate", generate.Generate)
			r.Mount("/jobs", generate.JobRoutes())
			r.Post("/analytics/load", analyticsHandler.Load)
			r.Post("/analytics/dashboard", analyticsHandler.Dashboard)
			r.Post("/analytics/table", analyticsHandler.Table)
		})

		// multipart uploads
		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.MaxBytes(maxMB << 20))
			r.Post("/upload", uploads.Upload)
			r.Post("/analytics/upload", analyticsHandler.Upload)
		})

		r.Get("/uploads", uploads.List)
		r.Get("/insights", insightsHandler.Catalog)
		r.Get("/analytics/files", analyticsHandler.Files)
		r.Get("/analytics/filter-options", analyticsHandler.FilterOptions)
		r.Route("/insight/{id}", func(r chi.Router) {
			r.Use(customMiddleware.Compress(5))
			r.Get("/data", insightsHandler.Data)
			r.Get("/download", insightsHandler.Download)
		})
	})
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         a.Config.Address(),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// StartBackground starts the hub, the job queue and the data directory
// watcher. They run until Stop.
func (a *Application) StartBackground(ctx context.Context) {
	ctx, a.cancel = context.WithCancel(ctx)
	a.WebSocketHub.Start()
	a.JobQueue.Start(ctx)
	if err := a.Watcher.Start(ctx); err != nil {
		// uploads still work without live notifications
		a.Logger.WarnContext(ctx, "data directory watcher unavailable", slog.String("error", err.Error()))
	}
}

// Start starts the background services and the HTTP listener. cancel is
// called if the listener fails.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.StartBackground(ctx)

	a.Logger.InfoContext(ctx, "Starting HTTP server",
		slog.String("address", a.Server.Addr),
		slog.String("version", Version))
	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}

	a.Watcher.Stop()
	if err := a.JobQueue.Stop(a.Config.Server.ShutdownTimeout); err != nil {
		a.Logger.ErrorContext(ctx, "Failed to stop job queue gracefully", slog.String("error", err.Error()))
	}
	a.WebSocketHub.Stop()
	if a.cancel != nil {
		a.cancel()
	}

	if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
		a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return errors.Join(errs...)
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case sig := <-sigChan:
		a.Logger.InfoContext(ctx, "Received signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout+5*time.Second)
	defer stopCancel()
	return a.Stop(stopCtx)
}
