package handlers

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/export"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
)

const (
	version      = "1.0.0"
	exportName   = "vendas.xlsx"
	noStore      = "no-store"
	cacheControl = "Cache-Control"
)

type APIHandlers struct {
	dashboard Renderer
	cfg       config.DashboardConfig
	logger    *slog.Logger
}

func NewAPIHandlers(dashboard Renderer, cfg config.DashboardConfig, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		dashboard: dashboard,
		cfg:       cfg,
		logger:    logger,
	}
}

// report parses the query and renders it. On failure the error response has
// already been written and ok is false.
func (h *APIHandlers) report(w http.ResponseWriter, r *http.Request) (*models.Report, bool) {
	sel, err := parseSelection(r.URL.Query(), h.cfg)
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}

	report, err := h.dashboard.Render(r.Context(), sel)
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	return report, true
}

func (h *APIHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
}

func (h *APIHandlers) write(w http.ResponseWriter, data any) {
	errors.WriteSuccessWithHeaders(w, data, map[string]string{cacheControl: noStore})
}

func (h *APIHandlers) HandleReport(w http.ResponseWriter, r *http.Request) {
	if report, ok := h.report(w, r); ok {
		h.write(w, report)
	}
}

func (h *APIHandlers) HandleLocations(w http.ResponseWriter, r *http.Request) {
	if report, ok := h.report(w, r); ok {
		h.write(w, report.ByLocation)
	}
}

func (h *APIHandlers) HandleMonthly(w http.ResponseWriter, r *http.Request) {
	if report, ok := h.report(w, r); ok {
		h.write(w, report.ByMonth)
	}
}

func (h *APIHandlers) HandleCategories(w http.ResponseWriter, r *http.Request) {
	if report, ok := h.report(w, r); ok {
		h.write(w, report.ByCategory)
	}
}

// HandleSellers returns the per-seller summary and both top-N rankings.
func (h *APIHandlers) HandleSellers(w http.ResponseWriter, r *http.Request) {
	report, ok := h.report(w, r)
	if !ok {
		return
	}
	h.write(w, map[string]any{
		"top":         report.Selection.Top,
		"sellers":     report.Sellers,
		"top_revenue": report.TopSellersRevenue,
		"top_sales":   report.TopSellersSales,
	})
}

func (h *APIHandlers) HandleSales(w http.ResponseWriter, r *http.Request) {
	if report, ok := h.report(w, r); ok {
		h.write(w, report.Sales)
	}
}

// HandleExport streams the filtered raw table as an XLSX workbook.
func (h *APIHandlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	report, ok := h.report(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteSalesXLSX(&buf, report.Sales); err != nil {
		h.fail(w, r, errors.InternalWrap(err, "Failed to build spreadsheet"))
		return
	}

	w.Header().Set("Content-Type", export.ContentTypeXLSX)
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportName+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set(cacheControl, noStore)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "export write interrupted", "error", err)
	}
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   version,
	})
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.dashboard.Stats())
}
