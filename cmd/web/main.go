package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/middleware"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/server"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/source"
	"sales-dashboard/internal/ui/templates"
)

const (
	renderTimeout = 10 * time.Second
	cacheMaxAge   = "public, max-age=300"
)

// dashboardPage serves the static page shell; data arrives over SSE.
func dashboardPage(page templates.PageData) http.HandlerFunc {
	component := templates.Dashboard(page)
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
		defer cancel()

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", cacheMaxAge)
		if err := component.Render(ctx, w); err != nil {
			http.Error(w, "render error", http.StatusInternalServerError)
		}
	}
}

// newHandler wires the sales source, the dashboard service, the routes and
// the middleware chain.
func newHandler(cfg *config.Config, logger *slog.Logger) (http.Handler, *services.Dashboard) {
	client := source.NewClient(source.Options{
		BaseURL:     cfg.Source.BaseURL,
		RegionParam: cfg.Source.RegionParam,
		YearParam:   cfg.Source.YearParam,
		Timeout:     cfg.Source.Timeout,
	}, logger)

	dashboard := services.NewDashboard(client, services.DashboardOptions{
		Currency:      cfg.Dashboard.Currency,
		DefaultCenter: models.MapCenter{Lat: cfg.Dashboard.CenterLat, Lon: cfg.Dashboard.CenterLon},
	}, logger)

	templateHandlers := &server.TemplateHandlers{
		Dashboard: dashboardPage(templates.NewPageData(cfg.Dashboard.MinYear, cfg.Dashboard.MaxYear)),
	}
	srv := server.NewServer(dashboard, cfg.Dashboard, logger, templateHandlers)

	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)

	return middlewareChain(srv), dashboard
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"source", cfg.Source.BaseURL,
		"addr", cfg.Address(),
	)

	handler, dashboard := newHandler(cfg, logger)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)

	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		logger.InfoContext(ctx, "dashboard stopped", "stats", dashboard.Stats())
		return nil
	})

	logger.Info("starting graceful server")
	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
