package templates

import (
	"context"
	"encoding/json"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"sales-dashboard/internal/models"
)

const (
	datastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"
	plotlyScript   = "https://cdn.plot.ly/plotly-2.35.2.min.js"

	// Title is shown in the browser tab and the page header.
	Title = "DASHBOARD DE VENDAS 🛒"
)

// Element ids patched by the dashboard stream.
const (
	ErrorID          = "dashboard-error"
	SellerOptionsID  = "seller-options"
	SalesTableID     = "sales-table"
	SellersRevenueID = "sellers-revenue-title"
	SellersSalesID   = "sellers-sales-title"
)

// Tab describes one of the three dashboard tabs.
type Tab struct {
	Key   string
	Label string
}

var Tabs = []Tab{
	{Key: "receita", Label: "Receita"},
	{Key: "quantidade", Label: "Quantidade de vendas"},
	{Key: "vendedores", Label: "Vendedores"},
}

// RevenueMetricID and CountMetricID name the metric elements of a tab.
func RevenueMetricID(tab string) string { return tab + "-revenue-metric" }
func CountMetricID(tab string) string   { return tab + "-count-metric" }

// PageData carries the static choices rendered into the sidebar.
type PageData struct {
	Regions []string
	MinYear int
	MaxYear int
}

func NewPageData(minYear, maxYear int) PageData {
	return PageData{Regions: models.Regions, MinYear: minYear, MaxYear: maxYear}
}

// initialSignals mirrors the sidebar state read back by the stream handler.
type initialSignals struct {
	Region   string          `json:"region"`
	AllYears bool            `json:"allYears"`
	Year     int             `json:"year"`
	Sellers  []string        `json:"sellers"`
	Top      int             `json:"top"`
	Tab      string          `json:"tab"`
	Charts   json.RawMessage `json:"charts"`
}

// Dashboard renders the full page. Every panel starts empty and is filled by
// the first /sse/dashboard round trip.
func Dashboard(p PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		signals, err := json.Marshal(initialSignals{
			Region:   models.WholeCountry,
			AllYears: true,
			Year:     p.MinYear,
			Sellers:  []string{},
			Top:      models.DefaultTop,
			Tab:      Tabs[0].Key,
			Charts:   json.RawMessage("{}"),
		})
		if err != nil {
			return err
		}

		out := &printer{w: w}
		out.print(`<!DOCTYPE html><html lang="pt-BR"><head><meta charset="utf-8">`,
			`<meta name="viewport" content="width=device-width, initial-scale=1">`,
			`<title>`, templ.EscapeString(Title), `</title>`,
			`<script type="module" src="`, datastarScript, `"></script>`,
			`<script src="`, plotlyScript, `"></script>`,
			`<style>`, stylesheet, `</style>`,
			`<script>`, chartsScript, `</script>`,
			`</head>`)
		out.print(`<body data-signals="`, templ.EscapeString(string(signals)), `">`)

		sidebar(out, p)

		out.print(`<main class="content" data-init="@get('/sse/dashboard')">`,
			`<h1>`, templ.EscapeString(Title), `</h1>`,
			`<div id="`, ErrorID, `"></div>`,
			`<div data-effect="renderCharts($charts)" hidden></div>`)

		out.print(`<nav class="tabs">`)
		for _, t := range Tabs {
			out.print(`<button type="button" data-class:active="$tab == '`, t.Key, `'" data-on:click="$tab = '`, t.Key, `'">`,
				templ.EscapeString(t.Label), `</button>`)
		}
		out.print(`</nav>`)

		revenueTab(out)
		volumeTab(out)
		sellersTab(out)

		out.print(`<section class="raw"><h2>Dados brutos</h2><div id="`, SalesTableID, `"></div></section>`,
			`</main></body></html>`)
		return out.err
	})
}

func sidebar(out *printer, p PageData) {
	out.print(`<aside class="sidebar" data-on:change="@get('/sse/dashboard')">`,
		`<h2>Filtros</h2>`,
		`<label>Região<select data-bind:region>`)
	for _, r := range p.Regions {
		out.print(`<option value="`, templ.EscapeString(r), `">`, templ.EscapeString(r), `</option>`)
	}
	out.print(`</select></label>`,
		`<label class="inline"><input type="checkbox" data-bind:all-years> Dados de todo o período</label>`,
		`<label data-show="!$allYears">Ano <span data-text="$year"></span>`,
		`<input type="range" min="`, strconv.Itoa(p.MinYear), `" max="`, strconv.Itoa(p.MaxYear), `" step="1" data-bind:year></label>`,
		`<label>Vendedores<select id="`, SellerOptionsID, `" multiple data-bind:sellers></select></label>`,
		`</aside>`)
}

func tabStart(out *printer, key string) {
	out.print(`<section class="tab" data-show="$tab == '`, key, `'"><div class="columns">`)
}

func metricSlot(out *printer, id string) {
	out.print(`<div id="`, id, `" class="metric"></div>`)
}

func chartSlot(out *printer, id string) {
	out.print(`<div id="`, id, `" class="chart"></div>`)
}

func revenueTab(out *printer) {
	const key = "receita"
	tabStart(out, key)
	out.print(`<div class="column">`)
	metricSlot(out, RevenueMetricID(key))
	chartSlot(out, "chart-map")
	chartSlot(out, "chart-top-locations")
	out.print(`</div><div class="column">`)
	metricSlot(out, CountMetricID(key))
	chartSlot(out, "chart-monthly-revenue")
	chartSlot(out, "chart-categories")
	out.print(`</div></div></section>`)
}

func volumeTab(out *printer) {
	const key = "quantidade"
	tabStart(out, key)
	out.print(`<div class="column">`)
	metricSlot(out, RevenueMetricID(key))
	chartSlot(out, "chart-map-sales")
	chartSlot(out, "chart-top-locations-sales")
	out.print(`</div><div class="column">`)
	metricSlot(out, CountMetricID(key))
	chartSlot(out, "chart-monthly-sales")
	out.print(`</div></div></section>`)
}

func sellersTab(out *printer) {
	const key = "vendedores"
	tabStart(out, key)
	out.print(`<div class="column wide"><label>Quantidade de vendedores `,
		`<input type="number" min="`, strconv.Itoa(models.MinTop), `" max="`, strconv.Itoa(models.MaxTop),
		`" data-bind:top data-on:change="@get('/sse/dashboard')"></label></div>`)
	out.print(`<div class="column">`)
	metricSlot(out, RevenueMetricID(key))
	out.print(`<h3 id="`, SellersRevenueID, `"></h3>`)
	chartSlot(out, "chart-sellers-revenue")
	out.print(`</div><div class="column">`)
	metricSlot(out, CountMetricID(key))
	out.print(`<h3 id="`, SellersSalesID, `"></h3>`)
	chartSlot(out, "chart-sellers-sales")
	out.print(`</div></div></section>`)
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) print(parts ...string) {
	for _, s := range parts {
		if p.err != nil {
			return
		}
		_, p.err = io.WriteString(p.w, s)
	}
}

const stylesheet = `
body{margin:0;font-family:system-ui,sans-serif;display:flex;min-height:100vh;background:#fafafa}
.sidebar{width:260px;padding:1rem;background:#f0f2f6;display:flex;flex-direction:column;gap:1rem}
.sidebar label{display:flex;flex-direction:column;gap:.25rem}
.sidebar label.inline{flex-direction:row;align-items:center}
.content{flex:1;padding:1rem 2rem;min-width:0}
.tabs{display:flex;gap:.5rem;border-bottom:1px solid #ddd;margin-bottom:1rem}
.tabs button{border:0;background:none;padding:.5rem 1rem;cursor:pointer}
.tabs button.active{border-bottom:2px solid #ff4b4b;font-weight:600}
.columns{display:flex;flex-wrap:wrap;gap:1rem}
.column{flex:1;min-width:320px}
.column.wide{flex-basis:100%}
.metric{padding:.5rem 0}
.metric-label{display:block;color:#555;font-size:.9rem}
.metric-value{font-size:1.8rem}
.chart{min-height:360px}
.error{background:#fde2e2;color:#8a1c1c;padding:.75rem;border-radius:4px}
table{border-collapse:collapse;width:100%;font-size:.85rem}
th,td{border-bottom:1px solid #e5e5e5;padding:.25rem .5rem;text-align:left}
`

const chartsScript = `
function barChart(id, series, title, horizontal) {
  if (!series || !series.labels) return;
  var trace = horizontal
    ? {type: 'bar', orientation: 'h', x: series.values, y: series.labels}
    : {type: 'bar', x: series.labels, y: series.values};
  var layout = {title: title, margin: {t: 40}};
  if (horizontal) layout.yaxis = {autorange: 'reversed'};
  Plotly.react(id, [trace], layout, {responsive: true});
}
function lineChart(id, lines, title) {
  if (!lines) return;
  var traces = lines.map(function (l) {
    return {type: 'scatter', mode: 'lines+markers', name: l.name, x: l.months, y: l.values};
  });
  Plotly.react(id, traces, {title: title, margin: {t: 40}, xaxis: {dtick: 1, range: [0.5, 12.5]}}, {responsive: true});
}
function geoChart(id, geo, field, title) {
  if (!geo || !geo.lat) return;
  var values = geo[field] || [];
  var max = Math.max.apply(null, values.concat([1]));
  var trace = {
    type: 'scattergeo', lat: geo.lat, lon: geo.lon, text: geo.text,
    marker: {size: values.map(function (v) { return 6 + 34 * Math.sqrt(v / max); })},
    hovertext: values.map(function (v, i) { return geo.text[i] + ': ' + v.toFixed(2); })
  };
  var layout = {
    title: title, margin: {t: 40, l: 0, r: 0, b: 0},
    geo: {scope: 'south america', center: {lat: geo.centerLat, lon: geo.centerLon}, projection: {scale: 2}}
  };
  Plotly.react(id, [trace], layout, {responsive: true});
}
function renderCharts(c) {
  if (!c || !c.map || typeof Plotly === 'undefined') return;
  geoChart('chart-map', c.map, 'revenue', 'Mapa de receita');
  barChart('chart-top-locations', c.topLocationsRevenue, 'Top estados (receita)');
  lineChart('chart-monthly-revenue', c.monthlyRevenue, 'Receita mensal');
  barChart('chart-categories', c.categories, 'Receita por categoria');
  geoChart('chart-map-sales', c.map, 'sales', 'Mapa de vendas');
  barChart('chart-top-locations-sales', c.topLocationsSales, 'Top estados (vendas)');
  lineChart('chart-monthly-sales', c.monthlySales, 'Quantidade de vendas mensal');
  barChart('chart-sellers-revenue', c.sellersRevenue, '', true);
  barChart('chart-sellers-sales', c.sellersSales, '', true);
}
`
