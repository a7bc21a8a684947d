package handlers

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/source"
)

type stubFetcher struct {
	mu    sync.Mutex
	sales []models.Sale
	err   error
	last  source.Query
	calls int
}

func (f *stubFetcher) Fetch(ctx context.Context, q source.Query) ([]models.Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = q
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.Sale(nil), f.sales...), nil
}

var testDashboardConfig = config.DashboardConfig{
	Currency:  "R$",
	MinYear:   2020,
	MaxYear:   2023,
	CenterLat: -14.235,
	CenterLon: -51.9253,
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError + 4}))
}

func newTestDashboard(f services.Fetcher) *services.Dashboard {
	return services.NewDashboard(f, services.DashboardOptions{
		Currency:      testDashboardConfig.Currency,
		DefaultCenter: models.MapCenter{Lat: testDashboardConfig.CenterLat, Lon: testDashboardConfig.CenterLon},
	}, quietLogger())
}

func testSale(category, location, seller, price string, date time.Time, lat, lon float64) models.Sale {
	return models.Sale{
		Product:      category + " item",
		Category:     category,
		Price:        decimal.RequireFromString(price),
		Freight:      decimal.RequireFromString("5.5"),
		Date:         date,
		Seller:       seller,
		Location:     location,
		Rating:       5,
		PaymentType:  "boleto",
		Installments: 1,
		Lat:          lat,
		Lon:          lon,
	}
}

func testSales() []models.Sale {
	return []models.Sale{
		testSale("Books", "SP", "A", "100", time.Date(2022, 12, 5, 0, 0, 0, 0, time.UTC), -22.19, -48.79),
		testSale("Books", "SP", "B", "50", time.Date(2023, 2, 10, 0, 0, 0, 0, time.UTC), -22.19, -48.79),
		testSale("Toys", "RJ", "A", "200", time.Date(2023, 1, 20, 0, 0, 0, 0, time.UTC), -22.25, -42.66),
	}
}
