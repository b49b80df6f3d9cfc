// Package dataset holds the immutable parcel set and the pure filter and
// aggregation functions computed over it.
package dataset

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"talhoes.dashboard.org/internal/models"
)

// ErrUnknownIndicator is returned for indicator names outside models.Indicators.
var ErrUnknownIndicator = models.ErrUnknownIndicator

// Dataset is built once per load and never mutated; share it by pointer.
type Dataset struct {
	parcels []models.Parcel
	farms   []string
	ageMin  int
	ageMax  int
}

func New(parcels []models.Parcel) *Dataset {
	d := &Dataset{parcels: parcels}

	seen := make(map[string]bool)
	for i, p := range parcels {
		if !seen[p.Farm] {
			seen[p.Farm] = true
			d.farms = append(d.farms, p.Farm)
		}
		if i == 0 || p.Age < d.ageMin {
			d.ageMin = p.Age
		}
		if i == 0 || p.Age > d.ageMax {
			d.ageMax = p.Age
		}
	}
	return d
}

// Parcels returns the backing slice. Callers must not modify it.
func (d *Dataset) Parcels() []models.Parcel { return d.parcels }

func (d *Dataset) Len() int { return len(d.parcels) }

// Farms lists farm labels in order of first appearance.
func (d *Dataset) Farms() []string { return slices.Clone(d.farms) }

func (d *Dataset) HasFarm(farm string) bool { return slices.Contains(d.farms, farm) }

// AgeBounds is the inclusive age range present in the data.
func (d *Dataset) AgeBounds() (min, max int) { return d.ageMin, d.ageMax }

// DefaultFilter selects every parcel.
func (d *Dataset) DefaultFilter() Filter {
	return Filter{Farms: d.Farms(), AgeMin: d.ageMin, AgeMax: d.ageMax}
}

// Apply returns the view of parcels matching f.
func (d *Dataset) Apply(f Filter) *View {
	v := &View{Filter: f.normalized(), dataset: d}
	for _, p := range d.parcels {
		if v.Filter.Matches(p) {
			v.parcels = append(v.parcels, p)
		}
	}
	return v
}

// Filter is a farm subset AND an inclusive age range. An empty farm list
// selects nothing.
type Filter struct {
	Farms  []string
	AgeMin int
	AgeMax int
}

func (f Filter) normalized() Filter {
	farms := slices.Clone(f.Farms)
	slices.Sort(farms)
	f.Farms = slices.Compact(farms)
	return f
}

func (f Filter) Matches(p models.Parcel) bool {
	return p.Age >= f.AgeMin && p.Age <= f.AgeMax && slices.Contains(f.Farms, p.Farm)
}

// Key is a canonical representation: equal filters have equal keys
// regardless of farm order or duplicates.
func (f Filter) Key() string {
	n := f.normalized()
	var b strings.Builder
	b.WriteString(strconv.Itoa(n.AgeMin))
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(n.AgeMax))
	for _, farm := range n.Farms {
		b.WriteByte('|')
		b.WriteString(strconv.Quote(farm))
	}
	return b.String()
}

func (f Filter) String() string {
	return fmt.Sprintf("farms=%v age=[%d,%d]", f.Farms, f.AgeMin, f.AgeMax)
}

// Model is the filter echo carried by API responses.
func (f Filter) Model(color models.Indicator) models.FilterModel {
	farms := f.Farms
	if farms == nil {
		farms = []string{}
	}
	return models.FilterModel{Farms: farms, AgeMin: f.AgeMin, AgeMax: f.AgeMax, Color: string(color)}
}
