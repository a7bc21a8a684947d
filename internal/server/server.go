package server

import (
	"log/slog"
	"net/http"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/handlers"
)

type Server struct {
	mux         *http.ServeMux
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
}

type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

func NewServer(dashboard handlers.Renderer, cfg config.DashboardConfig, logger *slog.Logger, templateHandlers *TemplateHandlers) *Server {
	s := &Server{
		mux:         http.NewServeMux(),
		logger:      logger,
		apiHandlers: handlers.NewAPIHandlers(dashboard, cfg, logger),
		sseHandlers: handlers.NewSSEHandlers(dashboard, cfg, logger),
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	// Dashboard routes
	s.mux.HandleFunc("GET /{$}", templateHandlers.Dashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	// REST API endpoints
	s.mux.HandleFunc("GET /api/report", s.apiHandlers.HandleReport)
	s.mux.HandleFunc("GET /api/revenue/locations", s.apiHandlers.HandleLocations)
	s.mux.HandleFunc("GET /api/revenue/monthly", s.apiHandlers.HandleMonthly)
	s.mux.HandleFunc("GET /api/revenue/categories", s.apiHandlers.HandleCategories)
	s.mux.HandleFunc("GET /api/sellers", s.apiHandlers.HandleSellers)
	s.mux.HandleFunc("GET /api/sales", s.apiHandlers.HandleSales)
	s.mux.HandleFunc("GET /api/sales/export", s.apiHandlers.HandleExport)

	// Datastar SSE endpoint
	s.mux.HandleFunc("GET /sse/dashboard", s.sseHandlers.HandleDashboard)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
