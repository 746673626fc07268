package app

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"b3dash/internal/config"
	"b3dash/internal/dataprocessing"
	apierrors "b3dash/internal/errors"
	"b3dash/internal/exporter"
	"b3dash/internal/infrastructure"
	customMiddleware "b3dash/internal/middleware"
	"b3dash/internal/services"
	handlers "b3dash/internal/transport/http"
	ws "b3dash/internal/websocket"
	"b3dash/pkg/contracts/domain"
)

const (
	Version = "1.0.0"
	AppName = "b3dash - B3 Trade Dashboard"
)

// BuildTime is set at compile time
var BuildTime = time.Now().Format(time.RFC3339)

// Application represents the main application container
type Application struct {
	Config           *config.Config
	Router           *chi.Mux
	Server           *http.Server
	Logger           *slog.Logger
	Metrics          *infrastructure.Metrics
	Dataset          *domain.Dataset
	WebSocketHub     *ws.Hub
	DashboardService *services.DashboardService
	HealthService    *services.HealthService
	StaticFS         fs.FS
}

// NewApplication creates a new application instance. The dataset is loaded
// before anything is wired up: a load failure means the process must not
// start serving, since every downstream computation depends on a valid table.
func NewApplication(staticFS fs.FS) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", Version),
		slog.String("data_file", cfg.Paths.DataFile))

	metrics := infrastructure.NewMetrics()

	parser := dataprocessing.NewParser(logger, metrics)
	dataset, err := parser.ParseFile(context.Background(), cfg.Paths.DataFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	app := &Application{
		Config:   cfg,
		Logger:   logger,
		Metrics:  metrics,
		Dataset:  dataset,
		StaticFS: staticFS,
	}

	app.initializeServices()
	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() {
	a.WebSocketHub = ws.NewHub(a.Logger)
	a.DashboardService = services.NewDashboardService(a.Dataset, a.Logger, a.Metrics)
	a.HealthService = services.NewHealthService(Version, BuildTime, a.Dataset, a.Logger)
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// Minimal middleware that won't interfere with the WebSocket upgrade.
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	errorHandler := apierrors.NewErrorHandler(a.Logger, false)

	// WebSocket route stays outside the full middleware group.
	wsHandler := handlers.NewWSHandler(a.DashboardService, a.WebSocketHub, a.Config.WebSocket, a.Logger, errorHandler)
	r.HandleFunc("/ws", wsHandler.Handle)

	// Everything else runs through the full chain.
	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.Logger))
		r.Use(customMiddleware.SecurityHeaders)
		r.Use(customMiddleware.Compress(5))

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
				AllowedOrigins: a.Config.Security.AllowedOrigins,
				Logger:         a.Logger,
			}))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		a.setupAPIRoutes(r, errorHandler)

		if a.StaticFS != nil {
			r.Get("/*", handlers.ServeDashboard(a.StaticFS))
		}
	})

	// Prometheus endpoint outside the group to keep scrapes cheap.
	r.Handle("/metrics", a.Metrics.Handler())

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router, errorHandler *apierrors.ErrorHandler) {
	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/ready", healthHandler.ReadinessCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)
		r.Get("/version", healthHandler.Version)

		dashboardHandler := handlers.NewDashboardHandler(a.DashboardService, a.WebSocketHub, a.Logger, errorHandler)
		r.Mount("/", dashboardHandler.Routes())

		dataHandler := handlers.NewDataHandler(a.DashboardService, exporter.NewExcelExporter(a.Logger), a.Logger, errorHandler)
		r.Mount("/data", dataHandler.Routes())
	})
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Run starts the HTTP server and blocks until shutdown
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.Info("HTTP server listening",
			slog.Int("port", a.Config.Server.Port))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.Logger.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
		defer cancel()

		if err := a.Server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	err := g.Wait()
	infrastructure.CloseLogFile()
	return err
}
