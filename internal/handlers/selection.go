package handlers

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
)

// Renderer produces dashboard reports. *services.Dashboard satisfies it.
type Renderer interface {
	Render(ctx context.Context, sel models.Selection) (*models.Report, error)
	Stats() map[string]any
}

// parseSelection reads region, year, sellers and top from API query parameters.
func parseSelection(q url.Values, cfg config.DashboardConfig) (models.Selection, error) {
	sel := models.Selection{Region: q.Get("region")}

	if raw := strings.TrimSpace(q.Get("year")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return sel, errors.ValidationWrap(err, "year must be a number")
		}
		sel.Year = year
	}
	if err := checkYear(sel.Year, cfg); err != nil {
		return sel, err
	}

	for _, v := range q["sellers"] {
		sel.Sellers = append(sel.Sellers, strings.Split(v, ",")...)
	}

	if raw := strings.TrimSpace(q.Get("top")); raw != "" {
		top, err := strconv.Atoi(raw)
		if err != nil {
			return sel, errors.ValidationWrap(err, "top must be a number")
		}
		if top < models.MinTop || top > models.MaxTop {
			return sel, errors.Validation(fmt.Sprintf("top must be between %d and %d", models.MinTop, models.MaxTop))
		}
		sel.Top = top
	}

	return sel.Normalize(), nil
}

// checkYear accepts zero (every period) or a year inside the configured range.
func checkYear(year int, cfg config.DashboardConfig) error {
	if year == 0 || (year >= cfg.MinYear && year <= cfg.MaxYear) {
		return nil
	}
	return errors.Validation(fmt.Sprintf("year must be between %d and %d", cfg.MinYear, cfg.MaxYear))
}
