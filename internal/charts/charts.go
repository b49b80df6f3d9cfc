// Package charts renders the dashboard charts as SVG.
package charts

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"talhoes.dashboard.org/internal/catalog"
	"talhoes.dashboard.org/internal/dataset"
	"talhoes.dashboard.org/internal/models"
)

var (
	ErrNoData       = errors.New("no data to chart")
	ErrUnknownChart = errors.New("unknown chart")
)

const (
	defaultWidth  = 720
	defaultHeight = 400

	barWidth   = 24
	barSpacing = 12

	// box plot geometry in x-axis units, one unit per farm
	boxHalfWidth = 0.25
	capHalfWidth = 0.1

	// parcel counts are drawn on a fixed 14–20 axis unless the data leaves it
	countAxisMin = 14
	countAxisMax = 20
)

type Kind string

const (
	KindAreaByFarm  Kind = "area-by-farm"
	KindCountByFarm Kind = "count-by-farm"
	KindHistogram   Kind = "histogram"
	KindByParcel    Kind = "parcels"
	KindBoxPlot     Kind = "box"
)

// Spec identifies one chart. Indicator is set for per-indicator kinds.
type Spec struct {
	Kind      Kind
	Indicator models.Indicator
}

func (s Spec) Name() string {
	if s.Indicator == "" {
		return string(s.Kind)
	}
	return string(s.Kind) + "-" + string(s.Indicator)
}

// ParseSpec accepts "area-by-farm", "count-by-farm" and "<kind>-<indicator>"
// for histogram, parcels and box.
func ParseSpec(name string) (Spec, error) {
	switch Kind(name) {
	case KindAreaByFarm, KindCountByFarm:
		return Spec{Kind: Kind(name)}, nil
	}

	for _, k := range []Kind{KindHistogram, KindByParcel, KindBoxPlot} {
		rest, ok := strings.CutPrefix(name, string(k)+"-")
		if !ok {
			continue
		}
		ind, err := models.ParseIndicator(rest)
		if err != nil {
			return Spec{}, fmt.Errorf("%w: %s", ErrUnknownChart, name)
		}
		return Spec{Kind: k, Indicator: ind}, nil
	}
	return Spec{}, fmt.Errorf("%w: %s", ErrUnknownChart, name)
}

// HistogramBins is 8 for age and 15 for every other indicator.
func HistogramBins(ind models.Indicator) int {
	if ind == models.Age {
		return 8
	}
	return 15
}

// Render writes the SVG for spec computed over v.
func Render(w io.Writer, spec Spec, v *dataset.View, c catalog.Catalog) error {
	if v.Empty() {
		return ErrNoData
	}

	switch spec.Kind {
	case KindAreaByFarm:
		return renderPie(w, "Área por Fazenda (ha)", v.AreaByFarm(), c)
	case KindCountByFarm:
		return renderCountBars(w, v.CountByFarm(), c)
	case KindHistogram:
		return renderHistogram(w, spec.Indicator, v.Histogram(spec.Indicator, HistogramBins(spec.Indicator)))
	case KindByParcel:
		return renderByParcel(w, spec.Indicator, v.ByParcel(spec.Indicator), c)
	case KindBoxPlot:
		return renderBoxPlot(w, spec.Indicator, v.BoxStats(spec.Indicator), c)
	}
	return fmt.Errorf("%w: %s", ErrUnknownChart, spec.Name())
}

func hexColor(s string) drawing.Color {
	if !strings.HasPrefix(s, "#") {
		return drawing.ColorBlack
	}
	return drawing.ColorFromHex(strings.TrimPrefix(s, "#"))
}

func farmStyle(c catalog.Catalog, farm string) chart.Style {
	col := hexColor(c.Border(farm))
	return chart.Style{FillColor: col, StrokeColor: col}
}

func renderPie(w io.Writer, title string, values []dataset.FarmValue, c catalog.Catalog) error {
	pie := chart.PieChart{
		Title:  title,
		Width:  defaultHeight,
		Height: defaultHeight,
	}
	for _, fv := range values {
		pie.Values = append(pie.Values, chart.Value{
			Value: fv.Value,
			Label: fmt.Sprintf("%s (%.1f ha)", c.Alias(fv.Farm), fv.Value),
			Style: farmStyle(c, fv.Farm),
		})
	}
	return pie.Render(chart.SVG, w)
}

// countRange widens the fixed count axis just enough to show every bar.
func countRange(values []float64) *chart.ContinuousRange {
	lo, hi := float64(countAxisMin), float64(countAxisMax)
	for _, v := range values {
		if v < lo {
			lo = math.Max(0, math.Floor(v)-1)
		}
		if v > hi {
			hi = math.Ceil(v) + 1
		}
	}
	return &chart.ContinuousRange{Min: lo, Max: hi}
}

// valueRange starts at zero for non-negative data and pads the top.
func valueRange(values []float64) *chart.ContinuousRange {
	lo, hi := 0.0, 0.0
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	hi += (hi - lo) * 0.05
	if hi == lo {
		hi = lo + 1
	}
	return &chart.ContinuousRange{Min: lo, Max: hi}
}

func barChart(title, axis string, bars []chart.Value, yRange *chart.ContinuousRange) chart.BarChart {
	width := len(bars)*(barWidth+barSpacing) + 160
	if width < defaultWidth {
		width = defaultWidth
	}
	return chart.BarChart{
		Title:      title,
		Width:      width,
		Height:     defaultHeight,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		YAxis:      chart.YAxis{Name: axis, Range: yRange},
		Bars:       bars,
	}
}

func renderCountBars(w io.Writer, values []dataset.FarmValue, c catalog.Catalog) error {
	bars := make([]chart.Value, 0, len(values))
	raw := make([]float64, 0, len(values))
	for _, fv := range values {
		bars = append(bars, chart.Value{Value: fv.Value, Label: c.Alias(fv.Farm), Style: farmStyle(c, fv.Farm)})
		raw = append(raw, fv.Value)
	}
	bc := barChart("Quantidade de Talhões por Fazenda", "Talhões", bars, countRange(raw))
	return bc.Render(chart.SVG, w)
}

func renderHistogram(w io.Writer, ind models.Indicator, bins []dataset.Bin) error {
	if len(bins) == 0 {
		return ErrNoData
	}
	bars := make([]chart.Value, 0, len(bins))
	raw := make([]float64, 0, len(bins))
	fill := hexColor("#2e7d32")
	for _, b := range bins {
		bars = append(bars, chart.Value{
			Value: float64(b.Count),
			Label: fmt.Sprintf("%.1f", b.Lower),
			Style: chart.Style{FillColor: fill, StrokeColor: fill},
		})
		raw = append(raw, float64(b.Count))
	}
	bc := barChart("Distribuição: "+ind.Label(), "Frequência", bars, valueRange(raw))
	return bc.Render(chart.SVG, w)
}

func renderByParcel(w io.Writer, ind models.Indicator, series []dataset.ParcelValue, c catalog.Catalog) error {
	bars := make([]chart.Value, 0, len(series))
	raw := make([]float64, 0, len(series))
	for _, pv := range series {
		bars = append(bars, chart.Value{Value: pv.Value, Label: pv.ID, Style: farmStyle(c, pv.Farm)})
		raw = append(raw, pv.Value)
	}
	bc := barChart(ind.Label()+" por Talhão", ind.Label(), bars, valueRange(raw))
	return bc.Render(chart.SVG, w)
}

// renderBoxPlot draws one box per farm: Q1 to Q3 with the median, whiskers
// out to min and max.
func renderBoxPlot(w io.Writer, ind models.Indicator, stats []dataset.BoxStat, c catalog.Catalog) error {
	if len(stats) == 0 {
		return ErrNoData
	}

	var series []chart.Series
	ticks := []chart.Tick{{Value: 0}}
	lo, hi := math.Inf(1), math.Inf(-1)

	for i, s := range stats {
		x := float64(i + 1)
		style := chart.Style{StrokeColor: hexColor(c.Border(s.Farm)), StrokeWidth: 2}
		line := func(xs, ys []float64) {
			series = append(series, chart.ContinuousSeries{Style: style, XValues: xs, YValues: ys})
		}

		left, right := x-boxHalfWidth, x+boxHalfWidth
		line([]float64{left, right, right, left, left}, []float64{s.Q1, s.Q1, s.Q3, s.Q3, s.Q1})
		line([]float64{left, right}, []float64{s.Median, s.Median})
		line([]float64{x, x}, []float64{s.Q3, s.Max})
		line([]float64{x, x}, []float64{s.Min, s.Q1})
		line([]float64{x - capHalfWidth, x + capHalfWidth}, []float64{s.Max, s.Max})
		line([]float64{x - capHalfWidth, x + capHalfWidth}, []float64{s.Min, s.Min})

		ticks = append(ticks, chart.Tick{Value: x, Label: c.Alias(s.Farm)})
		lo = math.Min(lo, s.Min)
		hi = math.Max(hi, s.Max)
	}
	ticks = append(ticks, chart.Tick{Value: float64(len(stats) + 1)})

	pad := (hi - lo) * 0.1
	if pad == 0 {
		pad = 1
	}

	graph := chart.Chart{
		Title:      ind.Label() + " por Fazenda",
		Width:      defaultWidth,
		Height:     defaultHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: float64(len(stats) + 1)},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:  ind.Label(),
			Range: &chart.ContinuousRange{Min: lo - pad, Max: hi + pad},
		},
		Series: series,
	}
	return graph.Render(chart.SVG, w)
}
