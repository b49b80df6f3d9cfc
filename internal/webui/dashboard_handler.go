package webui

import (
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"sort"
	"strconv"

	"talhoes.dashboard.org/internal/charts"
	"talhoes.dashboard.org/internal/colormap"
	"talhoes.dashboard.org/internal/dataset"
	"talhoes.dashboard.org/internal/logging"
	"talhoes.dashboard.org/internal/models"
	"talhoes.dashboard.org/internal/report"
	"talhoes.dashboard.org/internal/utils"
	"talhoes.dashboard.org/parceldb"
)

const (
	pageTitle     = "Dashboard - Dados Florestais"
	tablePageSize = 50
)

type tab struct {
	Key   string
	Label string
}

var (
	tabs = []tab{
		{"intro", "Introdução"},
		{"overview", "Visão Geral"},
		{"map", "Mapa"},
		{"stats", "Análise Estatística"},
		{"report", "Relatório"},
		{"table", "Tabela"},
	}
	statsViews = []tab{
		{"distribution", "Distribuição"},
		{"farms", "Comparação por Fazenda"},
		{"parcels", "Indicadores por Talhão"},
	}
	tableColumns = []tab{
		{"id", "Talhão"},
		{"farm", "Fazenda"},
		{"species", "Espécie"},
		{"age", "Idade"},
		{"productivity", "Produtividade (m³/ha/ano)"},
		{"volume", "Volume (m³)"},
		{"area", "Área (ha)"},
		{"survival_rate", "Taxa de Sobrevivência (%)"},
		{"operational_yield", "Rendimento Operacional (ha/dia)"},
		{"cost", "Custo por Talhão (R$)"},
	}
)

type link struct {
	Label  string
	URL    string
	Active bool
}

type option struct {
	Value    string
	Label    string
	Selected bool
}

type chartRef struct {
	Title string
	URL   string
}

type boxTable struct {
	Label string
	Rows  []dataset.BoxStat
}

type tableColumn struct {
	Label  string
	URL    string
	Active bool
	Desc   bool
}

type tableData struct {
	Columns []tableColumn
	Rows    []models.Parcel
	Total   int
	Page    int
	Pages   int
	PrevURL string
	NextURL string
}

type dashboardPage struct {
	Title   string
	Tab     string
	Tabs    []link
	SubTabs []link
	Errors  []string

	Farms    []option
	Colors   []option
	AgeMin   int
	AgeMax   int
	AgeLower int
	AgeUpper int

	Parcels int
	Empty   bool

	Cards      []report.Card
	Charts     []chartRef
	BoxTables  []boxTable
	Rankings   []report.Ranking
	Legend     []colormap.LegendEntry
	MapURL     string
	GeoJSONURL string
	ExportURL  string
	Table      *tableData
}

// pageState is the query string of the page being rendered: the sidebar
// filter plus the active tab and statistics view.
type pageState struct {
	params utils.FilterParams
	tab    string
	sub    string
}

func (s pageState) url(overrides url.Values) string {
	v := s.params.Encode()
	v.Set("tab", s.tab)
	if s.tab == "stats" {
		v.Set("sub", s.sub)
	}
	for key, values := range overrides {
		v[key] = values
	}
	return "/?" + v.Encode()
}

func (s pageState) apiURL(path string) string {
	return path + "?" + s.params.Encode().Encode()
}

func pick(value string, choices []tab) string {
	for _, c := range choices {
		if c.Key == value {
			return value
		}
	}
	return choices[0].Key
}

func (webUI *WebUI) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	ds := webUI.Manager.Dataset()
	query := r.URL.Query()

	params, fieldErrors := utils.ParseFilter(query, ds)
	state := pageState{
		params: params,
		tab:    pick(query.Get("tab"), tabs),
		sub:    pick(query.Get("sub"), statsViews),
	}

	page := &dashboardPage{
		Title:  pageTitle,
		Tab:    state.tab,
		AgeMin: params.Filter.AgeMin,
		AgeMax: params.Filter.AgeMax,
	}
	page.AgeLower, page.AgeUpper = ds.AgeBounds()

	status := http.StatusOK
	if len(fieldErrors) > 0 {
		status = http.StatusBadRequest
		keys := make([]string, 0, len(fieldErrors))
		for k := range fieldErrors {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			for _, msg := range fieldErrors[k] {
				page.Errors = append(page.Errors, k+": "+msg)
			}
		}
	}

	for _, t := range tabs {
		page.Tabs = append(page.Tabs, link{Label: t.Label, URL: state.url(url.Values{"tab": {t.Key}}), Active: t.Key == state.tab})
	}
	for _, farm := range ds.Farms() {
		page.Farms = append(page.Farms, option{
			Value:    farm,
			Label:    webUI.Catalog.Alias(farm),
			Selected: slices.Contains(params.Filter.Farms, farm),
		})
	}
	for _, ind := range models.ColorIndicators() {
		page.Colors = append(page.Colors, option{Value: string(ind), Label: ind.Label(), Selected: ind == params.Color})
	}

	view := webUI.Manager.View(params.Filter)
	page.Parcels = view.Len()
	page.Empty = view.Empty()

	switch state.tab {
	case "overview":
		page.Cards = report.Cards(view)
		page.Charts = overviewCharts(state)
	case "map":
		page.Legend = colormap.Legend(webUI.Catalog)
		page.MapURL = state.apiURL("/api/v1/map.json")
		page.GeoJSONURL = state.apiURL("/api/v1/parcels.geojson")
	case "stats":
		for _, s := range statsViews {
			page.SubTabs = append(page.SubTabs, link{Label: s.Label, URL: state.url(url.Values{"sub": {s.Key}}), Active: s.Key == state.sub})
		}
		page.Charts, page.BoxTables = statsCharts(state, view)
	case "report":
		page.Rankings = report.Rankings(view)
	case "table":
		table, err := webUI.table(r, state, query)
		if err != nil {
			logging.LogError(logging.FromContext(r.Context()), "table query failed", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		page.Table = table
		page.ExportURL = state.apiURL("/api/v1/export.xlsx")
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := webUI.templates.ExecuteTemplate(w, "dashboard.html", page); err != nil {
		logging.LogError(logging.FromContext(r.Context()), "failed to render dashboard", err)
	}
}

func chart(state pageState, title string, spec charts.Spec) chartRef {
	return chartRef{Title: title, URL: state.apiURL("/api/v1/charts/" + spec.Name() + ".svg")}
}

func overviewCharts(state pageState) []chartRef {
	return []chartRef{
		chart(state, "Distribuição da Área por Fazenda", charts.Spec{Kind: charts.KindAreaByFarm}),
		chart(state, "Quantidade Total de Talhões por Fazenda", charts.Spec{Kind: charts.KindCountByFarm}),
		chart(state, "Distribuição da Idade dos Talhões", charts.Spec{Kind: charts.KindHistogram, Indicator: models.Age}),
		chart(state, "Produtividade por Fazenda (m³/ha/ano)", charts.Spec{Kind: charts.KindBoxPlot, Indicator: models.Productivity}),
	}
}

var comparedIndicators = []models.Indicator{models.SurvivalRate, models.OperationalYield, models.Cost}

func statsCharts(state pageState, view *dataset.View) ([]chartRef, []boxTable) {
	var refs []chartRef
	var tables []boxTable

	switch state.sub {
	case "distribution":
		for _, ind := range comparedIndicators {
			refs = append(refs, chart(state, "Distribuição: "+ind.Label(), charts.Spec{Kind: charts.KindHistogram, Indicator: ind}))
		}
	case "farms":
		for _, ind := range comparedIndicators {
			refs = append(refs, chart(state, ind.Label()+" por Fazenda", charts.Spec{Kind: charts.KindBoxPlot, Indicator: ind}))
			tables = append(tables, boxTable{Label: ind.Label(), Rows: view.BoxStats(ind)})
		}
	case "parcels":
		for _, ind := range models.Indicators() {
			refs = append(refs, chart(state, ind.Label(), charts.Spec{Kind: charts.KindByParcel, Indicator: ind}))
		}
	}
	return refs, tables
}

// table reads one page of the raw table from the parcel database. Unknown
// sort columns fall back to load order.
func (webUI *WebUI) table(r *http.Request, state pageState, query url.Values) (*tableData, error) {
	sortBy := query.Get("sort")
	if !slices.Contains(parceldb.SortColumns(), sortBy) {
		sortBy = ""
	}
	desc, _ := strconv.ParseBool(query.Get("desc"))
	page, err := strconv.Atoi(query.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	f := state.params.Filter
	result, err := webUI.Manager.DB.QueryTable(r.Context(), parceldb.TableQuery{
		Farms:  f.Farms,
		AgeMin: f.AgeMin,
		AgeMax: f.AgeMax,
		SortBy: sortBy,
		Desc:   desc,
		Limit:  tablePageSize,
		Offset: (page - 1) * tablePageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("error querying table: %w", err)
	}

	sorting := url.Values{}
	if sortBy != "" {
		sorting.Set("sort", sortBy)
		sorting.Set("desc", strconv.FormatBool(desc))
	}
	withPage := func(n int) string {
		v := url.Values{"page": {strconv.Itoa(n)}}
		for k, vals := range sorting {
			v[k] = vals
		}
		return state.url(v)
	}

	data := &tableData{
		Rows:  result.Rows,
		Total: result.Total,
		Page:  page,
		Pages: (result.Total + tablePageSize - 1) / tablePageSize,
	}
	if page > 1 {
		data.PrevURL = withPage(page - 1)
	}
	if page < data.Pages {
		data.NextURL = withPage(page + 1)
	}

	for _, c := range tableColumns {
		active := c.Key == sortBy
		// clicking the active column flips the direction
		nextDesc := active && !desc
		data.Columns = append(data.Columns, tableColumn{
			Label:  c.Label,
			URL:    state.url(url.Values{"sort": {c.Key}, "desc": {strconv.FormatBool(nextDesc)}}),
			Active: active,
			Desc:   active && desc,
		})
	}
	return data, nil
}
