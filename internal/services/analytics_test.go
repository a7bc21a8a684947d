package services

import (
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"sales-dashboard/internal/models"
)

func sale(category, location string, lat, lon float64, date time.Time, price, seller string) models.Sale {
	return models.Sale{
		Category: category,
		Location: location,
		Lat:      lat,
		Lon:      lon,
		Date:     date,
		Price:    decimal.RequireFromString(price),
		Seller:   seller,
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// three rows used throughout: Books/SP/A, Books/SP/B, Toys/RJ/A
func scenarioSales() []models.Sale {
	return []models.Sale{
		sale("Books", "SP", 1, 2, day(2023, 1, 5), "100", "A"),
		sale("Books", "SP", 1, 2, day(2023, 2, 10), "50", "B"),
		sale("Toys", "RJ", 3, 4, day(2023, 1, 20), "200", "A"),
	}
}

func manySellers() []models.Sale {
	var sales []models.Sale
	// seller S<i> sells i+1 items of 10*(8-i), so revenue and count rank differently
	for i := range 8 {
		for j := 0; j <= i; j++ {
			price := fmt.Sprintf("%d", 10*(8-i)*(i+1))
			if j > 0 {
				price = "0"
			}
			sales = append(sales, sale("Cat", "SP", 0, 0, day(2022, time.Month(j%12+1), 1), price, fmt.Sprintf("S%d", i)))
		}
	}
	return sales
}

func TestFilterBySellers(t *testing.T) {
	sales := scenarioSales()

	t.Run("empty set keeps everything", func(t *testing.T) {
		got := FilterBySellers(sales, nil)
		if len(got) != len(sales) {
			t.Fatalf("got %d rows, want %d", len(got), len(sales))
		}
		for i := range sales {
			if got[i].Seller != sales[i].Seller || !got[i].Price.Equal(sales[i].Price) {
				t.Errorf("row %d changed: %+v", i, got[i])
			}
		}
	})

	tests := []struct {
		name    string
		sellers []string
		want    int
	}{
		{"single seller", []string{"A"}, 2},
		{"both sellers", []string{"A", "B"}, 3},
		{"unknown seller", []string{"Z"}, 0},
		{"known and unknown", []string{"B", "Z"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterBySellers(sales, tt.sellers)
			if len(got) != tt.want {
				t.Errorf("got %d rows, want %d", len(got), tt.want)
			}
			for _, s := range got {
				if !slices.Contains(tt.sellers, s.Seller) {
					t.Errorf("row with seller %q should have been dropped", s.Seller)
				}
			}
			// nothing in the set is dropped
			kept := 0
			for _, s := range sales {
				if slices.Contains(tt.sellers, s.Seller) {
					kept++
				}
			}
			if kept != len(got) {
				t.Errorf("kept %d rows, %d match the set", len(got), kept)
			}
		})
	}
}

func TestSellers(t *testing.T) {
	got := Sellers(append(scenarioSales(), sale("X", "MG", 0, 0, day(2021, 3, 1), "1", "0-first")))
	want := []string{"0-first", "A", "B"}
	if !slices.Equal(got, want) {
		t.Errorf("Sellers() = %v, want %v", got, want)
	}
}

func TestRevenueByLocation(t *testing.T) {
	sales := scenarioSales()
	result := RevenueByLocation(sales)

	if len(result) != 2 {
		t.Fatalf("got %d locations, want 2", len(result))
	}
	if result[0].Location != "RJ" || result[0].Revenue != 200 {
		t.Errorf("first = %+v, want RJ 200", result[0])
	}
	if result[1].Location != "SP" || result[1].Revenue != 150 {
		t.Errorf("second = %+v, want SP 150", result[1])
	}
	if result[1].Lat != 1 || result[1].Lon != 2 {
		t.Errorf("SP coordinates = (%v, %v), want (1, 2)", result[1].Lat, result[1].Lon)
	}
}

func TestRevenueByLocation_ConservesTotal(t *testing.T) {
	sales := manySellers()
	sales = append(sales,
		sale("A", "RS", 0, 0, day(2020, 5, 5), "0.1", "x"),
		sale("A", "RS", 0, 0, day(2020, 5, 6), "0.2", "x"),
		sale("A", "BA", 0, 0, day(2020, 5, 7), "1999.99", "x"),
	)

	result := RevenueByLocation(sales)

	var sum decimal.Decimal
	for _, r := range result {
		sum = sum.Add(decimal.NewFromFloat(r.Revenue))
	}
	if !sum.Equal(TotalRevenue(sales)) {
		t.Errorf("sum of table = %s, total = %s", sum, TotalRevenue(sales))
	}

	for i := 1; i < len(result); i++ {
		if result[i].Revenue > result[i-1].Revenue {
			t.Errorf("not sorted descending at %d: %v > %v", i, result[i].Revenue, result[i-1].Revenue)
		}
	}
}

func TestRevenueByMonth(t *testing.T) {
	sales := []models.Sale{
		sale("A", "SP", 0, 0, day(2023, 1, 15), "999.99", "x"),
		sale("A", "SP", 0, 0, day(2023, 1, 16), "29.99", "x"),
		sale("A", "SP", 0, 0, day(2022, 12, 31), "10", "x"),
		sale("A", "SP", 0, 0, day(2023, 4, 1), "199.99", "x"),
	}

	result := RevenueByMonth(sales)

	want := []struct {
		year, month int
		revenue     float64
	}{
		{2022, 12, 10},
		{2023, 1, 1029.98},
		{2023, 4, 199.99},
	}
	if len(result) != len(want) {
		t.Fatalf("got %d buckets, want %d: %+v", len(result), len(want), result)
	}
	for i, w := range want {
		r := result[i]
		if r.Year != w.year || r.Month != w.month || r.Revenue != w.revenue {
			t.Errorf("bucket %d = %+v, want %d-%02d %.2f", i, r, w.year, w.month, w.revenue)
		}
		if r.Period.Day() != 1 || r.Period.Year() != r.Year || int(r.Period.Month()) != r.Month {
			t.Errorf("bucket %d period %v does not match year/month", i, r.Period)
		}
	}
}

func TestRevenueByCategory(t *testing.T) {
	result := RevenueByCategory(scenarioSales())

	want := []models.CategoryRevenue{{Category: "Toys", Revenue: 200, Sales: 1}, {Category: "Books", Revenue: 150, Sales: 2}}
	if !slices.Equal(result, want) {
		t.Errorf("RevenueByCategory() = %+v, want %+v", result, want)
	}
}

func TestRevenueByCategory_TiesByName(t *testing.T) {
	sales := []models.Sale{
		sale("b", "", 0, 0, day(2021, 1, 1), "10", ""),
		sale("a", "", 0, 0, day(2021, 1, 1), "10", ""),
		sale("c", "", 0, 0, day(2021, 1, 1), "20", ""),
	}
	result := RevenueByCategory(sales)
	got := []string{result[0].Category, result[1].Category, result[2].Category}
	if !slices.Equal(got, []string{"c", "a", "b"}) {
		t.Errorf("order = %v, want [c a b]", got)
	}
}

func TestSellerSummary(t *testing.T) {
	result := SellerSummary(scenarioSales())

	want := []models.SellerStats{
		{Seller: "A", Revenue: 300, Sales: 2},
		{Seller: "B", Revenue: 50, Sales: 1},
	}
	if !slices.Equal(result, want) {
		t.Errorf("SellerSummary() = %+v, want %+v", result, want)
	}
}

func TestSellerSummary_CountsRows(t *testing.T) {
	sales := manySellers()
	counts := make(map[string]int)
	for _, s := range sales {
		counts[s.Seller]++
	}

	for _, row := range SellerSummary(sales) {
		if row.Sales != counts[row.Seller] {
			t.Errorf("%s: count = %d, want %d", row.Seller, row.Sales, counts[row.Seller])
		}
	}
}

func TestTopSellers(t *testing.T) {
	stats := SellerSummary(manySellers())
	if len(stats) != 8 {
		t.Fatalf("got %d sellers, want 8", len(stats))
	}

	t.Run("by revenue", func(t *testing.T) {
		top := TopSellers(stats, models.RankByRevenue, 5)
		if len(top) != 5 {
			t.Fatalf("got %d rows, want 5", len(top))
		}

		all := slices.Clone(stats)
		slices.SortFunc(all, func(a, b models.SellerStats) int {
			switch {
			case a.Revenue > b.Revenue:
				return -1
			case a.Revenue < b.Revenue:
				return 1
			}
			return 0
		})
		for i := range top {
			if top[i].Revenue != all[i].Revenue {
				t.Errorf("rank %d revenue = %v, want %v", i, top[i].Revenue, all[i].Revenue)
			}
			if i > 0 && top[i].Revenue > top[i-1].Revenue {
				t.Errorf("not descending at %d", i)
			}
		}
	})

	t.Run("by sales count", func(t *testing.T) {
		top := TopSellers(stats, models.RankBySales, 3)
		got := []string{top[0].Seller, top[1].Seller, top[2].Seller}
		if !slices.Equal(got, []string{"S7", "S6", "S5"}) {
			t.Errorf("top by count = %v, want [S7 S6 S5]", got)
		}
	})

	t.Run("does not reorder input", func(t *testing.T) {
		before := slices.Clone(stats)
		_ = TopSellers(stats, models.RankByRevenue, 2)
		if !slices.Equal(before, stats) {
			t.Error("TopSellers() modified its input")
		}
	})

	t.Run("n larger than table", func(t *testing.T) {
		if got := TopSellers(stats, models.RankByRevenue, 10); len(got) != 8 {
			t.Errorf("got %d rows, want 8", len(got))
		}
	})
}

func TestTotalRevenue_ExactDecimal(t *testing.T) {
	sales := []models.Sale{
		sale("", "", 0, 0, day(2021, 1, 1), "0.1", ""),
		sale("", "", 0, 0, day(2021, 1, 1), "0.2", ""),
	}
	if got := TotalRevenue(sales); !got.Equal(decimal.RequireFromString("0.3")) {
		t.Errorf("TotalRevenue() = %s, want 0.3", got)
	}
}

func TestMapCenter(t *testing.T) {
	center, ok := MapCenter([]models.LocationRevenue{{Lat: -10, Lon: -50}, {Lat: -10, Lon: -50}})
	if !ok {
		t.Fatal("MapCenter() reported no centre")
	}
	if diff := center.Lat + 10; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Lat = %v, want -10", center.Lat)
	}

	if _, ok := MapCenter(nil); ok {
		t.Error("MapCenter(nil) should report false")
	}
}

func TestAggregations_EmptyData(t *testing.T) {
	// empty input yields empty tables, not nil
	if r := RevenueByLocation(nil); r == nil || len(r) != 0 {
		t.Errorf("RevenueByLocation(nil) = %v", r)
	}
	if r := RevenueByMonth(nil); r == nil || len(r) != 0 {
		t.Errorf("RevenueByMonth(nil) = %v", r)
	}
	if r := RevenueByCategory(nil); r == nil || len(r) != 0 {
		t.Errorf("RevenueByCategory(nil) = %v", r)
	}
	if r := SellerSummary(nil); r == nil || len(r) != 0 {
		t.Errorf("SellerSummary(nil) = %v", r)
	}
	if r := TopSellers(nil, models.RankBySales, 5); r == nil || len(r) != 0 {
		t.Errorf("TopSellers(nil) = %v", r)
	}
	if r := Sellers(nil); r == nil || len(r) != 0 {
		t.Errorf("Sellers(nil) = %v", r)
	}
	if !TotalRevenue(nil).IsZero() {
		t.Error("TotalRevenue(nil) should be zero")
	}
}

func BenchmarkRevenueByLocation(b *testing.B) {
	sales := make([]models.Sale, 10_000)
	for i := range sales {
		sales[i] = sale("Cat", fmt.Sprintf("L%d", i%27), 0, 0, day(2022, time.Month(i%12+1), 1), "19.90", "S")
	}

	b.ResetTimer()
	for b.Loop() {
		_ = RevenueByLocation(sales)
	}
}

func BenchmarkSellerSummary(b *testing.B) {
	sales := make([]models.Sale, 10_000)
	for i := range sales {
		sales[i] = sale("Cat", "SP", 0, 0, day(2022, 1, 1), "19.90", fmt.Sprintf("S%d", i%50))
	}

	b.ResetTimer()
	for b.Loop() {
		_ = SellerSummary(sales)
	}
}
