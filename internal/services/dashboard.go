package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"sales-dashboard/internal/format"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/source"
)

// Fetcher loads the sales rows matching the server-side filters.
type Fetcher interface {
	Fetch(ctx context.Context, q source.Query) ([]models.Sale, error)
}

type DashboardOptions struct {
	Currency      string
	DefaultCenter models.MapCenter
}

// Dashboard runs the fetch, filter and aggregate pipeline. Every call starts
// from a fresh fetch; only monitoring counters survive between calls.
type Dashboard struct {
	fetcher Fetcher
	opts    DashboardOptions
	logger  *slog.Logger

	renders     atomic.Int64
	failures    atomic.Int64
	lastRecords atomic.Int64
	lastRender  atomic.Int64
}

func NewDashboard(fetcher Fetcher, opts DashboardOptions, logger *slog.Logger) *Dashboard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dashboard{
		fetcher: fetcher,
		opts:    opts,
		logger:  logger,
	}
}

func (d *Dashboard) Render(ctx context.Context, sel models.Selection) (*models.Report, error) {
	ctx, span := observability.StartSpan(ctx, "dashboard.render")
	defer func() {
		span.Finish()
		d.logger.DebugContext(ctx, "render finished", "span", span)
	}()

	sel = sel.Normalize()
	span.SetTag("region", sel.Region)
	span.SetTag("year", fmt.Sprint(sel.Year))

	d.renders.Add(1)
	sales, err := d.fetch(ctx, sel)
	if err != nil {
		d.failures.Add(1)
		span.SetError(err)
		return nil, err
	}
	d.lastRecords.Store(int64(len(sales)))
	d.lastRender.Store(time.Now().Unix())

	report := &models.Report{
		Selection:     sel,
		SellerOptions: Sellers(sales),
	}
	filtered := FilterBySellers(sales, sel.Sellers)
	if filtered == nil {
		filtered = []models.Sale{}
	}
	report.Sales = filtered

	if err := d.aggregate(ctx, filtered, report); err != nil {
		d.failures.Add(1)
		span.SetError(err)
		return nil, err
	}
	return report, nil
}

func (d *Dashboard) fetch(ctx context.Context, sel models.Selection) ([]models.Sale, error) {
	ctx, span := observability.StartSpan(ctx, "dashboard.fetch")
	defer span.Finish()

	sales, err := d.fetcher.Fetch(ctx, source.Query{Region: sel.Region, Year: sel.Year})
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("fetch sales: %w", err)
	}
	return sales, nil
}

// aggregate fills the derived tables of report. The groupings are
// independent so they run side by side; each step owns its fields.
func (d *Dashboard) aggregate(ctx context.Context, sales []models.Sale, report *models.Report) error {
	ctx, span := observability.StartSpan(ctx, "dashboard.aggregate")
	defer span.Finish()

	g, ctx := errgroup.WithContext(ctx)
	step := func(fn func()) {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			fn()
			return nil
		})
	}

	step(func() {
		report.ByLocation = RevenueByLocation(sales)
		center, ok := MapCenter(report.ByLocation)
		if !ok {
			center = d.opts.DefaultCenter
		}
		report.MapCenter = center
	})
	step(func() {
		report.ByMonth = RevenueByMonth(sales)
	})
	step(func() {
		report.ByCategory = RevenueByCategory(sales)
	})
	step(func() {
		report.Sellers = SellerSummary(sales)
		report.TopSellersRevenue = TopSellers(report.Sellers, models.RankByRevenue, report.Selection.Top)
		report.TopSellersSales = TopSellers(report.Sellers, models.RankBySales, report.Selection.Top)
	})
	step(func() {
		total := TotalRevenue(sales).InexactFloat64()
		report.Metrics = models.Metrics{
			Revenue:      format.Number(total, d.opts.Currency),
			SalesCount:   format.Count(len(sales)),
			TotalRevenue: total,
			TotalSales:   len(sales),
		}
	})

	if err := g.Wait(); err != nil {
		span.SetError(err)
		return fmt.Errorf("aggregate sales: %w", err)
	}
	return nil
}

// Stats reports monitoring counters for the admin endpoint.
func (d *Dashboard) Stats() map[string]any {
	var last any
	if ts := d.lastRender.Load(); ts > 0 {
		last = time.Unix(ts, 0).UTC()
	}
	return map[string]any{
		"renders":      d.renders.Load(),
		"failures":     d.failures.Load(),
		"last_records": d.lastRecords.Load(),
		"last_render":  last,
	}
}
