package handlers

import (
	"cmp"
	"slices"
	"strconv"

	"sales-dashboard/internal/models"
)

// topLocations is the number of bars in the location charts.
const topLocations = 5

type barSeries struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

type lineSeries struct {
	Name   string    `json:"name"`
	Months []int     `json:"months"`
	Values []float64 `json:"values"`
}

type geoSeries struct {
	Lat       []float64 `json:"lat"`
	Lon       []float64 `json:"lon"`
	Text      []string  `json:"text"`
	Revenue   []float64 `json:"revenue"`
	Sales     []float64 `json:"sales"`
	CenterLat float64   `json:"centerLat"`
	CenterLon float64   `json:"centerLon"`
}

// chartData is the `charts` signal drawn by the page with Plotly.
type chartData struct {
	Map                 geoSeries    `json:"map"`
	TopLocationsRevenue barSeries    `json:"topLocationsRevenue"`
	TopLocationsSales   barSeries    `json:"topLocationsSales"`
	MonthlyRevenue      []lineSeries `json:"monthlyRevenue"`
	MonthlySales        []lineSeries `json:"monthlySales"`
	Categories          barSeries    `json:"categories"`
	SellersRevenue      barSeries    `json:"sellersRevenue"`
	SellersSales        barSeries    `json:"sellersSales"`
}

func buildCharts(report *models.Report) chartData {
	c := chartData{
		Map: geoSeries{
			Lat:       make([]float64, 0, len(report.ByLocation)),
			Lon:       make([]float64, 0, len(report.ByLocation)),
			Text:      make([]string, 0, len(report.ByLocation)),
			Revenue:   make([]float64, 0, len(report.ByLocation)),
			Sales:     make([]float64, 0, len(report.ByLocation)),
			CenterLat: report.MapCenter.Lat,
			CenterLon: report.MapCenter.Lon,
		},
		TopLocationsRevenue: newBarSeries(),
		TopLocationsSales:   newBarSeries(),
		Categories:          newBarSeries(),
		SellersRevenue:      newBarSeries(),
		SellersSales:        newBarSeries(),
	}

	for _, l := range report.ByLocation {
		c.Map.Lat = append(c.Map.Lat, l.Lat)
		c.Map.Lon = append(c.Map.Lon, l.Lon)
		c.Map.Text = append(c.Map.Text, l.Location)
		c.Map.Revenue = append(c.Map.Revenue, l.Revenue)
		c.Map.Sales = append(c.Map.Sales, float64(l.Sales))
	}

	for i, l := range report.ByLocation {
		if i == topLocations {
			break
		}
		c.TopLocationsRevenue.add(l.Location, l.Revenue)
	}

	bySales := slices.Clone(report.ByLocation)
	slices.SortFunc(bySales, func(a, b models.LocationRevenue) int {
		if n := cmp.Compare(b.Sales, a.Sales); n != 0 {
			return n
		}
		return cmp.Compare(a.Location, b.Location)
	})
	for i, l := range bySales {
		if i == topLocations {
			break
		}
		c.TopLocationsSales.add(l.Location, float64(l.Sales))
	}

	c.MonthlyRevenue, c.MonthlySales = monthlyLines(report.ByMonth)

	for _, cat := range report.ByCategory {
		c.Categories.add(cat.Category, cat.Revenue)
	}
	for _, s := range report.TopSellersRevenue {
		c.SellersRevenue.add(s.Seller, s.Revenue)
	}
	for _, s := range report.TopSellersSales {
		c.SellersSales.add(s.Seller, float64(s.Sales))
	}
	return c
}

func newBarSeries() barSeries {
	return barSeries{Labels: []string{}, Values: []float64{}}
}

func (b *barSeries) add(label string, value float64) {
	b.Labels = append(b.Labels, label)
	b.Values = append(b.Values, value)
}

// monthlyLines splits the chronological buckets into one line per year, with
// the month number on the x axis.
func monthlyLines(months []models.MonthlyRevenue) (revenue, sales []lineSeries) {
	revenue = []lineSeries{}
	sales = []lineSeries{}
	for _, m := range months {
		name := strconv.Itoa(m.Year)
		if len(revenue) == 0 || revenue[len(revenue)-1].Name != name {
			revenue = append(revenue, lineSeries{Name: name})
			sales = append(sales, lineSeries{Name: name})
		}
		r, s := &revenue[len(revenue)-1], &sales[len(sales)-1]
		r.Months = append(r.Months, m.Month)
		r.Values = append(r.Values, m.Revenue)
		s.Months = append(s.Months, m.Month)
		s.Values = append(s.Values, float64(m.Sales))
	}
	return revenue, sales
}
