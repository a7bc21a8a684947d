package handlers

import (
	"bytes"
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/starfederation/datastar-go/datastar"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
)

const genericFailure = "Não foi possível carregar os dados de vendas."

type SSEHandlers struct {
	dashboard Renderer
	cfg       config.DashboardConfig
	logger    *slog.Logger
}

func NewSSEHandlers(dashboard Renderer, cfg config.DashboardConfig, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		dashboard: dashboard,
		cfg:       cfg,
		logger:    logger,
	}
}

// flexInt accepts both numbers and numeric strings, since bound inputs may
// send either.
type flexInt int

func (n *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.Atoi(string(b))
	if err != nil {
		f, ferr := strconv.ParseFloat(string(b), 64)
		if ferr != nil {
			return err
		}
		v = int(f)
	}
	*n = flexInt(v)
	return nil
}

// sidebarSignals is the client state sent with every dashboard request.
type sidebarSignals struct {
	Region   string   `json:"region"`
	AllYears bool     `json:"allYears"`
	Year     flexInt  `json:"year"`
	Sellers  []string `json:"sellers"`
	Top      flexInt  `json:"top"`
}

func (s sidebarSignals) selection(cfg config.DashboardConfig) (models.Selection, error) {
	sel := models.Selection{
		Region:  s.Region,
		Sellers: s.Sellers,
		Top:     int(s.Top),
	}
	if !s.AllYears {
		sel.Year = int(s.Year)
		if err := checkYear(sel.Year, cfg); err != nil {
			return sel, err
		}
	}
	return sel.Normalize(), nil
}

// HandleDashboard renders the report for the sidebar state and patches every
// panel of the page plus the chart data signal.
func (h *SSEHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var signals sidebarSignals
	readErr := datastar.ReadSignals(r, &signals)

	sse := datastar.NewSSE(w, r)

	if readErr != nil {
		h.patchError(ctx, sse, errors.ValidationWrap(readErr, "Invalid dashboard state"))
		return
	}

	sel, err := signals.selection(h.cfg)
	if err != nil {
		h.patchError(ctx, sse, err)
		return
	}

	report, err := h.dashboard.Render(ctx, sel)
	if err != nil {
		if stderrors.Is(err, context.Canceled) {
			return
		}
		h.patchError(ctx, sse, err)
		return
	}

	fragments, err := dashboardFragments(report)
	if err != nil {
		h.patchError(ctx, sse, errors.InternalWrap(err, "Failed to render dashboard"))
		return
	}
	for _, html := range fragments {
		if err := sse.PatchElements(html); err != nil {
			h.logger.DebugContext(ctx, "dashboard stream closed", "error", err)
			return
		}
	}

	if err := sse.MarshalAndPatchSignals(map[string]any{
		"charts": buildCharts(report),
		"top":    report.Selection.Top,
	}); err != nil {
		h.logger.DebugContext(ctx, "dashboard stream closed", "error", err)
	}
}

// patchError shows the failure in the page error banner and logs it.
func (h *SSEHandlers) patchError(ctx context.Context, sse *datastar.ServerSentEventGenerator, err error) {
	message := genericFailure
	level := slog.LevelError

	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		switch appErr.Code {
		case errors.CodeValidation:
			message = appErr.Message
			level = slog.LevelWarn
		case errors.CodeUpstream, errors.CodeUpstreamFormat:
			message = "Fonte de dados indisponível: " + appErr.Message
		}
	}

	h.logger.Log(ctx, level, "dashboard render failed", "error", err)

	html, renderErr := errorFragment(message)
	if renderErr != nil {
		h.logger.ErrorContext(ctx, "render error banner", "error", renderErr)
		return
	}
	if patchErr := sse.PatchElements(html); patchErr != nil {
		h.logger.DebugContext(ctx, "dashboard stream closed", "error", patchErr)
	}
}
