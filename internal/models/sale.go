package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is one row of the upstream dataset after normalization.
type Sale struct {
	Product      string          `json:"product"`
	Category     string          `json:"category"`
	Price        decimal.Decimal `json:"price"`
	Freight      decimal.Decimal `json:"freight"`
	Date         time.Time       `json:"date"`
	Seller       string          `json:"seller"`
	Location     string          `json:"location"`
	Rating       int             `json:"rating"`
	PaymentType  string          `json:"payment_type"`
	Installments int             `json:"installments"`
	Lat          float64         `json:"lat"`
	Lon          float64         `json:"lon"`
}

type LocationRevenue struct {
	Location string  `json:"location"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Revenue  float64 `json:"revenue"`
	Sales    int     `json:"sales"`
}

type MonthlyRevenue struct {
	Period  time.Time `json:"period"`
	Year    int       `json:"year"`
	Month   int       `json:"month"`
	Revenue float64   `json:"revenue"`
	Sales   int       `json:"sales"`
}

type CategoryRevenue struct {
	Category string  `json:"category"`
	Revenue  float64 `json:"revenue"`
	Sales    int     `json:"sales"`
}

type SellerStats struct {
	Seller  string  `json:"seller"`
	Revenue float64 `json:"revenue"`
	Sales   int     `json:"sales"`
}

// Rank selects the metric used to order seller rows.
type Rank int

const (
	RankByRevenue Rank = iota
	RankBySales
)
