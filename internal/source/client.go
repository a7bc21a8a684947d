package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
)

const (
	// upstream dates are DD/MM/YYYY
	dateLayout   = "2/1/2006"
	snippetLimit = 512
)

// Query carries the server-side filters. An empty region or a zero year
// leaves that filter off.
type Query struct {
	Region string
	Year   int
}

type Options struct {
	BaseURL     string
	RegionParam string
	YearParam   string
	Timeout     time.Duration
}

// Client fetches sale records from the remote products endpoint.
type Client struct {
	http        *http.Client
	baseURL     string
	regionParam string
	yearParam   string
	logger      *slog.Logger
}

func NewClient(opts Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	regionParam := opts.RegionParam
	if regionParam == "" {
		regionParam = "regiao"
	}
	yearParam := opts.YearParam
	if yearParam == "" {
		yearParam = "ano"
	}
	return &Client{
		http:        &http.Client{Timeout: opts.Timeout},
		baseURL:     opts.BaseURL,
		regionParam: regionParam,
		yearParam:   yearParam,
		logger:      logger,
	}
}

// record mirrors one object of the upstream JSON array.
type record struct {
	Product      string          `json:"Produto"`
	Category     string          `json:"Categoria do Produto"`
	Price        decimal.Decimal `json:"Preço"`
	Freight      decimal.Decimal `json:"Frete"`
	Date         string          `json:"Data da Compra"`
	Seller       string          `json:"Vendedor"`
	Location     string          `json:"Local da compra"`
	Rating       int             `json:"Avaliação da compra"`
	PaymentType  string          `json:"Tipo de pagamento"`
	Installments int             `json:"Quantidade de parcelas"`
	Lat          float64         `json:"lat"`
	Lon          float64         `json:"lon"`
}

// URL builds the request URL for q. Both parameters are always sent.
func (c *Client) URL(q Query) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	year := ""
	if q.Year != 0 {
		year = strconv.Itoa(q.Year)
	}
	params := u.Query()
	params.Set(c.regionParam, strings.ToLower(q.Region))
	params.Set(c.yearParam, year)
	u.RawQuery = params.Encode()
	return u.String(), nil
}

// Fetch performs one GET and returns the decoded rows. There are no retries.
func (c *Client) Fetch(ctx context.Context, q Query) ([]models.Sale, error) {
	target, err := c.URL(q)
	if err != nil {
		return nil, errors.InternalWrap(err, "invalid sales source url")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errors.InternalWrap(err, "build sales request")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Upstream(err, "sales source unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Upstream(err, "read sales response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		appErr := errors.Upstream(fmt.Errorf("status %d", resp.StatusCode), "sales source returned an error")
		appErr.Details = fmt.Sprintf("status=%d body=%q", resp.StatusCode, snippet(body))
		return nil, appErr
	}

	sales, err := Decode(body)
	if err != nil {
		appErr := errors.UpstreamFormat(err, "malformed sales payload")
		appErr.Details = fmt.Sprintf("body=%q", snippet(body))
		return nil, appErr
	}

	c.logger.InfoContext(ctx, "sales fetched",
		"url", target,
		"records", len(sales),
		"duration", time.Since(start),
	)
	return sales, nil
}

// Decode parses an upstream payload: a JSON array of sale objects.
func Decode(body []byte) ([]models.Sale, error) {
	var records []record
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if records == nil {
		return nil, fmt.Errorf("decode json: payload is not an array")
	}

	sales := make([]models.Sale, 0, len(records))
	for i, rec := range records {
		sale, err := rec.normalize()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		sales = append(sales, sale)
	}
	return sales, nil
}

func (r record) normalize() (models.Sale, error) {
	date, err := time.Parse(dateLayout, strings.TrimSpace(r.Date))
	if err != nil {
		return models.Sale{}, fmt.Errorf("parse purchase date %q: %w", r.Date, err)
	}

	return models.Sale{
		Product:      r.Product,
		Category:     r.Category,
		Price:        r.Price,
		Freight:      r.Freight,
		Date:         date,
		Seller:       r.Seller,
		Location:     r.Location,
		Rating:       r.Rating,
		PaymentType:  r.PaymentType,
		Installments: r.Installments,
		Lat:          r.Lat,
		Lon:          r.Lon,
	}, nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > snippetLimit {
		s = s[:snippetLimit]
	}
	return s
}
