package services

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"sales-dashboard/internal/geo"
	"sales-dashboard/internal/models"
)

// FilterBySellers keeps the rows whose seller is in sellers, preserving order.
// An empty set means no restriction and returns sales unchanged.
func FilterBySellers(sales []models.Sale, sellers []string) []models.Sale {
	if len(sellers) == 0 {
		return sales
	}

	wanted := make(map[string]struct{}, len(sellers))
	for _, s := range sellers {
		wanted[s] = struct{}{}
	}

	result := make([]models.Sale, 0, len(sales))
	for _, sale := range sales {
		if _, ok := wanted[sale.Seller]; ok {
			result = append(result, sale)
		}
	}
	return result
}

// Sellers returns the distinct seller names, sorted.
func Sellers(sales []models.Sale) []string {
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, sale := range sales {
		if _, ok := seen[sale.Seller]; ok {
			continue
		}
		seen[sale.Seller] = struct{}{}
		names = append(names, sale.Seller)
	}
	slices.Sort(names)
	return names
}

func TotalRevenue(sales []models.Sale) decimal.Decimal {
	total := decimal.Zero
	for _, sale := range sales {
		total = total.Add(sale.Price)
	}
	return total
}

type locationGroup struct {
	lat, lon float64
	bucket
}

type bucket struct {
	revenue decimal.Decimal
	sales   int
}

func (b *bucket) add(price decimal.Decimal) {
	b.revenue = b.revenue.Add(price)
	b.sales++
}

// RevenueByLocation sums prices per purchase location. Coordinates come from
// the first row seen for each location.
func RevenueByLocation(sales []models.Sale) []models.LocationRevenue {
	groups := make(map[string]*locationGroup)
	for _, sale := range sales {
		g := groups[sale.Location]
		if g == nil {
			g = &locationGroup{lat: sale.Lat, lon: sale.Lon}
			groups[sale.Location] = g
		}
		g.add(sale.Price)
	}

	result := make([]models.LocationRevenue, 0, len(groups))
	for location, g := range groups {
		result = append(result, models.LocationRevenue{
			Location: location,
			Lat:      g.lat,
			Lon:      g.lon,
			Revenue:  g.revenue.InexactFloat64(),
			Sales:    g.sales,
		})
	}
	slices.SortFunc(result, func(a, b models.LocationRevenue) int {
		return byRevenueDesc(a.Revenue, b.Revenue, a.Location, b.Location)
	})
	return result
}

// RevenueByMonth buckets sales by calendar month and returns the buckets in
// chronological order. Months without sales are not emitted.
func RevenueByMonth(sales []models.Sale) []models.MonthlyRevenue {
	groups := make(map[time.Time]*bucket)
	for _, sale := range sales {
		period := monthStart(sale.Date)
		b := groups[period]
		if b == nil {
			b = &bucket{}
			groups[period] = b
		}
		b.add(sale.Price)
	}

	result := make([]models.MonthlyRevenue, 0, len(groups))
	for period, b := range groups {
		result = append(result, models.MonthlyRevenue{
			Period:  period,
			Year:    period.Year(),
			Month:   int(period.Month()),
			Revenue: b.revenue.InexactFloat64(),
			Sales:   b.sales,
		})
	}
	slices.SortFunc(result, func(a, b models.MonthlyRevenue) int {
		return a.Period.Compare(b.Period)
	})
	return result
}

func RevenueByCategory(sales []models.Sale) []models.CategoryRevenue {
	groups := make(map[string]*bucket)
	for _, sale := range sales {
		b := groups[sale.Category]
		if b == nil {
			b = &bucket{}
			groups[sale.Category] = b
		}
		b.add(sale.Price)
	}

	result := make([]models.CategoryRevenue, 0, len(groups))
	for category, b := range groups {
		result = append(result, models.CategoryRevenue{
			Category: category,
			Revenue:  b.revenue.InexactFloat64(),
			Sales:    b.sales,
		})
	}
	slices.SortFunc(result, func(a, b models.CategoryRevenue) int {
		return byRevenueDesc(a.Revenue, b.Revenue, a.Category, b.Category)
	})
	return result
}

// SellerSummary computes revenue and number of sales per seller in one pass.
// Rows are ordered by name; use TopSellers to rank them.
func SellerSummary(sales []models.Sale) []models.SellerStats {
	groups := make(map[string]*bucket)
	for _, sale := range sales {
		g := groups[sale.Seller]
		if g == nil {
			g = &bucket{}
			groups[sale.Seller] = g
		}
		g.add(sale.Price)
	}

	result := make([]models.SellerStats, 0, len(groups))
	for seller, g := range groups {
		result = append(result, models.SellerStats{
			Seller:  seller,
			Revenue: g.revenue.InexactFloat64(),
			Sales:   g.sales,
		})
	}
	slices.SortFunc(result, func(a, b models.SellerStats) int {
		return cmp.Compare(a.Seller, b.Seller)
	})
	return result
}

// TopSellers returns the n best sellers by the given metric, highest first.
// The input slice is not modified.
func TopSellers(stats []models.SellerStats, rank models.Rank, n int) []models.SellerStats {
	ranked := slices.Clone(stats)
	if ranked == nil {
		ranked = []models.SellerStats{}
	}
	slices.SortFunc(ranked, func(a, b models.SellerStats) int {
		if rank == models.RankBySales {
			if c := cmp.Compare(b.Sales, a.Sales); c != 0 {
				return c
			}
			return cmp.Compare(a.Seller, b.Seller)
		}
		return byRevenueDesc(a.Revenue, b.Revenue, a.Seller, b.Seller)
	})

	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// MapCenter averages the location coordinates; ok is false for no locations.
func MapCenter(locations []models.LocationRevenue) (models.MapCenter, bool) {
	points := make([]geo.Point, 0, len(locations))
	for _, l := range locations {
		points = append(points, geo.Point{Lat: l.Lat, Lon: l.Lon})
	}
	c, ok := geo.Center(points)
	return models.MapCenter{Lat: c.Lat, Lon: c.Lon}, ok
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func byRevenueDesc(ra, rb float64, na, nb string) int {
	if c := cmp.Compare(rb, ra); c != 0 {
		return c
	}
	return cmp.Compare(na, nb)
}
