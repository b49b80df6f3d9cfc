package dataset

import (
	"cmp"
	"math"
	"slices"
	"sort"

	"github.com/twpayne/go-geom"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"talhoes.dashboard.org/internal/geo"
	"talhoes.dashboard.org/internal/models"
)

const (
	ReportTopN = 5

	singleFarmZoom = 14
	multiFarmZoom  = 13
)

// View is a read-only filtered subset of a Dataset. Every aggregation
// tolerates an empty view.
type View struct {
	Filter  Filter
	parcels []models.Parcel
	dataset *Dataset
}

func (v *View) Parcels() []models.Parcel { return v.parcels }
func (v *View) Len() int                 { return len(v.parcels) }
func (v *View) Empty() bool              { return len(v.parcels) == 0 }

// Values extracts ind from every parcel in view order.
func (v *View) Values(ind models.Indicator) []float64 {
	out := make([]float64, len(v.parcels))
	for i, p := range v.parcels {
		out[i] = ind.Value(p)
	}
	return out
}

func (v *View) TotalArea() float64 {
	areas := make([]float64, len(v.parcels))
	for i, p := range v.parcels {
		areas[i] = p.Area
	}
	return floats.Sum(areas)
}

// Mean is ok == false on an empty view.
func (v *View) Mean(ind models.Indicator) (float64, bool) {
	if v.Empty() {
		return 0, false
	}
	return stat.Mean(v.Values(ind), nil), true
}

// MinMax is ok == false on an empty view.
func (v *View) MinMax(ind models.Indicator) (min, max float64, ok bool) {
	if v.Empty() {
		return 0, 0, false
	}
	values := v.Values(ind)
	return floats.Min(values), floats.Max(values), true
}

// farmsPresent lists farms that have at least one parcel in the view, in
// dataset order.
func (v *View) farmsPresent() []string {
	var farms []string
	for _, farm := range v.dataset.farms {
		if slices.ContainsFunc(v.parcels, func(p models.Parcel) bool { return p.Farm == farm }) {
			farms = append(farms, farm)
		}
	}
	return farms
}

type FarmValue struct {
	Farm  string  `json:"farm"`
	Value float64 `json:"value"`
}

func (v *View) byFarm(agg func(farm string) float64) []FarmValue {
	farms := v.farmsPresent()
	out := make([]FarmValue, 0, len(farms))
	for _, farm := range farms {
		out = append(out, FarmValue{Farm: farm, Value: agg(farm)})
	}
	return out
}

func (v *View) CountByFarm() []FarmValue {
	return v.byFarm(func(farm string) float64 {
		var n float64
		for _, p := range v.parcels {
			if p.Farm == farm {
				n++
			}
		}
		return n
	})
}

func (v *View) AreaByFarm() []FarmValue {
	return v.byFarm(func(farm string) float64 {
		var sum float64
		for _, p := range v.parcels {
			if p.Farm == farm {
				sum += p.Area
			}
		}
		return sum
	})
}

type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Histogram splits the value span of ind into equal-width bins. The last bin
// is closed on the right. An empty view has no bins.
func (v *View) Histogram(ind models.Indicator, bins int) []Bin {
	if v.Empty() || bins < 1 {
		return nil
	}

	values := v.Values(ind)
	sort.Float64s(values)

	lo, hi := values[0], values[len(values)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	dividers := floats.Span(make([]float64, bins+1), lo, hi)
	edges := slices.Clone(dividers)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, values, nil)

	out := make([]Bin, bins)
	for i := range out {
		out[i] = Bin{Lower: edges[i], Upper: edges[i+1], Count: int(counts[i])}
	}
	return out
}

type BoxStat struct {
	Farm   string  `json:"farm"`
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
}

// BoxStats summarises ind per farm with linearly interpolated quartiles.
func (v *View) BoxStats(ind models.Indicator) []BoxStat {
	var out []BoxStat
	for _, farm := range v.farmsPresent() {
		var values []float64
		for _, p := range v.parcels {
			if p.Farm == farm {
				values = append(values, ind.Value(p))
			}
		}
		sort.Float64s(values)

		out = append(out, BoxStat{
			Farm:   farm,
			Count:  len(values),
			Min:    values[0],
			Q1:     stat.Quantile(0.25, stat.LinInterp, values, nil),
			Median: stat.Quantile(0.5, stat.LinInterp, values, nil),
			Q3:     stat.Quantile(0.75, stat.LinInterp, values, nil),
			Max:    values[len(values)-1],
			Mean:   stat.Mean(values, nil),
		})
	}
	return out
}

type ParcelValue struct {
	Label string  `json:"label"`
	Farm  string  `json:"farm"`
	ID    string  `json:"id"`
	Value float64 `json:"value"`
}

// ByParcel averages ind per (farm, parcel id) and sorts ascending by value.
func (v *View) ByParcel(ind models.Indicator) []ParcelValue {
	type key struct{ farm, id string }
	sums := make(map[key]float64)
	counts := make(map[key]int)
	var order []key

	for _, p := range v.parcels {
		k := key{p.Farm, p.ID}
		if _, ok := counts[k]; !ok {
			order = append(order, k)
		}
		sums[k] += ind.Value(p)
		counts[k]++
	}

	out := make([]ParcelValue, 0, len(order))
	for _, k := range order {
		out = append(out, ParcelValue{
			Label: k.farm + " - " + k.id,
			Farm:  k.farm,
			ID:    k.id,
			Value: sums[k] / float64(counts[k]),
		})
	}
	slices.SortStableFunc(out, func(a, b ParcelValue) int { return cmp.Compare(a.Value, b.Value) })
	return out
}

type RankedParcel struct {
	Rank  int     `json:"rank"`
	ID    string  `json:"id"`
	Farm  string  `json:"farm"`
	Value float64 `json:"value"`
}

// TopN ranks the view by ind in the indicator's direction and keeps the
// first n. Ties keep view order; ranks start at 1.
func (v *View) TopN(ind models.Indicator, n int) []RankedParcel {
	sorted := slices.Clone(v.parcels)
	slices.SortStableFunc(sorted, func(a, b models.Parcel) int {
		c := cmp.Compare(ind.Value(a), ind.Value(b))
		if ind.Ascending() {
			return c
		}
		return -c
	})

	if n > len(sorted) {
		n = len(sorted)
	}
	if n < 0 {
		n = 0
	}

	out := make([]RankedParcel, n)
	for i := 0; i < n; i++ {
		out[i] = RankedParcel{Rank: i + 1, ID: sorted[i].ID, Farm: sorted[i].Farm, Value: ind.Value(sorted[i])}
	}
	return out
}

// MapView centres the map on the mean parcel centroid. ok is false on an
// empty view.
func (v *View) MapView() (models.MapView, bool) {
	if v.Empty() {
		return models.MapView{}, false
	}

	var lons, lats []float64
	bounds := geom.NewBounds(geom.XY)
	for _, p := range v.parcels {
		lon, lat, err := geo.Centroid(p.Geometry)
		if err != nil {
			continue
		}
		lons = append(lons, lon)
		lats = append(lats, lat)
		bounds.Extend(p.Geometry)
	}
	if len(lons) == 0 {
		return models.MapView{}, false
	}

	// Zoom follows the farms actually present, not the farms selected.
	zoom := multiFarmZoom
	if len(v.farmsPresent()) == 1 {
		zoom = singleFarmZoom
	}
	return models.MapView{
		Center: models.CoordinatePoint{Lat: stat.Mean(lats, nil), Lon: stat.Mean(lons, nil)},
		Bounds: models.Bounds{
			SouthWest: models.CoordinatePoint{Lat: bounds.Min(1), Lon: bounds.Min(0)},
			NorthEast: models.CoordinatePoint{Lat: bounds.Max(1), Lon: bounds.Max(0)},
		},
		Zoom: zoom,
	}, true
}
