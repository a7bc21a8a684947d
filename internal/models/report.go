package models

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
)

const (
	// WholeCountry is the region choice that disables the region filter.
	WholeCountry = "Brasil"

	MinTop     = 2
	MaxTop     = 10
	DefaultTop = 5
)

// Regions lists the sidebar choices in display order.
var Regions = []string{WholeCountry, "Centro-Oeste", "Nordeste", "Norte", "Sudeste", "Sul"}

// Selection is the filter state of a single dashboard interaction.
// Year zero means every period.
type Selection struct {
	Region  string   `json:"region"`
	Year    int      `json:"year"`
	Sellers []string `json:"sellers"`
	Top     int      `json:"top"`
}

// Normalize returns a copy with the whole-country region cleared, blank seller
// names dropped and Top clamped to [MinTop, MaxTop].
func (s Selection) Normalize() Selection {
	out := Selection{
		Region: strings.TrimSpace(s.Region),
		Year:   s.Year,
		Top:    ClampTop(s.Top),
	}
	if strings.EqualFold(out.Region, WholeCountry) {
		out.Region = ""
	}
	for _, name := range s.Sellers {
		name = strings.TrimSpace(name)
		if name != "" && !slices.Contains(out.Sellers, name) {
			out.Sellers = append(out.Sellers, name)
		}
	}
	return out
}

// Query encodes the selection with the parameter names the JSON API accepts.
func (s Selection) Query() url.Values {
	q := url.Values{}
	if s.Region != "" {
		q.Set("region", s.Region)
	}
	if s.Year != 0 {
		q.Set("year", strconv.Itoa(s.Year))
	}
	for _, name := range s.Sellers {
		q.Add("sellers", name)
	}
	if s.Top != 0 {
		q.Set("top", strconv.Itoa(s.Top))
	}
	return q
}

func ClampTop(n int) int {
	switch {
	case n == 0:
		return DefaultTop
	case n < MinTop:
		return MinTop
	case n > MaxTop:
		return MaxTop
	default:
		return n
	}
}

// Metrics holds the headline numbers shown on every tab.
type Metrics struct {
	Revenue      string  `json:"revenue"`
	SalesCount   string  `json:"sales_count"`
	TotalRevenue float64 `json:"total_revenue"`
	TotalSales   int     `json:"total_sales"`
}

type MapCenter struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Report is everything one render pass hands to the presentation layer.
type Report struct {
	Selection         Selection         `json:"selection"`
	Metrics           Metrics           `json:"metrics"`
	ByLocation        []LocationRevenue `json:"by_location"`
	ByMonth           []MonthlyRevenue  `json:"by_month"`
	ByCategory        []CategoryRevenue `json:"by_category"`
	Sellers           []SellerStats     `json:"sellers"`
	TopSellersRevenue []SellerStats     `json:"top_sellers_revenue"`
	TopSellersSales   []SellerStats     `json:"top_sellers_sales"`
	MapCenter         MapCenter         `json:"map_center"`
	SellerOptions     []string          `json:"seller_options"`
	Sales             []Sale            `json:"sales"`
}
