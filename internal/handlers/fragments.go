package handlers

import (
	"html/template"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"sales-dashboard/internal/export"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/ui/templates"
)

const maxTableRows = 1000

var fragmentFuncs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"date":  func(t time.Time) string { return t.Format("02/01/2006") },
	"selected": func(name string, chosen []string) bool {
		return slices.Contains(chosen, name)
	},
}

var metricTemplate = template.Must(template.New("metric").Parse(
	`<div id="{{.ID}}" class="metric"><span class="metric-label">{{.Label}}</span><span class="metric-value">{{.Value}}</span></div>`))

var titleTemplate = template.Must(template.New("title").Parse(`<h3 id="{{.ID}}">{{.Text}}</h3>`))

var errorTemplate = template.Must(template.New("error").Parse(
	`<div id="{{.ID}}">{{if .Message}}<div class="error" role="alert">{{.Message}}</div>{{end}}</div>`))

var sellerOptionsTemplate = template.Must(template.New("sellers").Funcs(fragmentFuncs).Parse(
	`<select id="{{.ID}}" multiple data-bind:sellers>{{range .Options}}<option value="{{.}}"{{if selected . $.Chosen}} selected{{end}}>{{.}}</option>{{end}}</select>`))

var salesTableTemplate = template.Must(template.New("salesTable").Funcs(fragmentFuncs).Parse(`
<div id="{{.ID}}">
<p>Exibindo {{len .Rows}} de {{.Total}} registros. <a href="{{.Export}}" download>Baixar XLSX</a></p>
<table>
<thead><tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr>
<td>{{.Product}}</td>
<td>{{.Category}}</td>
<td>{{money .Price}}</td>
<td>{{money .Freight}}</td>
<td>{{date .Date}}</td>
<td>{{.Seller}}</td>
<td>{{.Location}}</td>
<td>{{.Rating}}</td>
<td>{{.PaymentType}}</td>
<td>{{.Installments}}</td>
<td>{{.Lat}}</td>
<td>{{.Lon}}</td>
</tr>{{end}}
</tbody>
</table>
</div>`))

type fragment struct {
	ID      string
	Label   string
	Value   string
	Text    string
	Message string
}

type sellerOptionsData struct {
	ID      string
	Options []string
	Chosen  []string
}

type salesTableData struct {
	ID     string
	Header []string
	Rows   []models.Sale
	Total  int
	Export template.URL
}

func execute(t *template.Template, data any) (string, error) {
	var buf strings.Builder
	err := t.Execute(&buf, data)
	return buf.String(), err
}

// dashboardFragments renders every element the stream patches for a report,
// in the order they are sent.
func dashboardFragments(report *models.Report) ([]string, error) {
	var out []string
	add := func(t *template.Template, data any) error {
		html, err := execute(t, data)
		if err != nil {
			return err
		}
		out = append(out, html)
		return nil
	}

	if err := add(errorTemplate, fragment{ID: templates.ErrorID}); err != nil {
		return nil, err
	}
	for _, tab := range templates.Tabs {
		if err := add(metricTemplate, fragment{
			ID: templates.RevenueMetricID(tab.Key), Label: "Receita", Value: report.Metrics.Revenue,
		}); err != nil {
			return nil, err
		}
		if err := add(metricTemplate, fragment{
			ID: templates.CountMetricID(tab.Key), Label: "Quantidade de vendas", Value: report.Metrics.SalesCount,
		}); err != nil {
			return nil, err
		}
	}

	top := report.Selection.Top
	if err := add(titleTemplate, fragment{
		ID: templates.SellersRevenueID, Text: "Top " + strconv.Itoa(top) + " vendedores (receita)",
	}); err != nil {
		return nil, err
	}
	if err := add(titleTemplate, fragment{
		ID: templates.SellersSalesID, Text: "Top " + strconv.Itoa(top) + " vendedores (quantidade de vendas)",
	}); err != nil {
		return nil, err
	}

	if err := add(sellerOptionsTemplate, sellerOptionsData{
		ID: templates.SellerOptionsID, Options: report.SellerOptions, Chosen: report.Selection.Sellers,
	}); err != nil {
		return nil, err
	}

	rows := report.Sales
	if len(rows) > maxTableRows {
		rows = rows[:maxTableRows]
	}
	if err := add(salesTableTemplate, salesTableData{
		ID:     templates.SalesTableID,
		Header: export.Header,
		Rows:   rows,
		Total:  len(report.Sales),
		Export: exportURL(report.Selection),
	}); err != nil {
		return nil, err
	}

	return out, nil
}

func errorFragment(message string) (string, error) {
	return execute(errorTemplate, fragment{ID: templates.ErrorID, Message: message})
}

// exportURL links the XLSX download for the same selection. The encoded query
// is already URL-safe.
func exportURL(sel models.Selection) template.URL {
	u := "/api/sales/export"
	if q := sel.Query().Encode(); q != "" {
		u += "?" + q
	}
	return template.URL(u)
}
