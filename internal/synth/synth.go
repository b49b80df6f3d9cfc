// Package synth derives the synthetic per-parcel attributes. The generator is
// a pure function of record order, seed and variant.
package synth

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"talhoes.dashboard.org/internal/catalog"
	"talhoes.dashboard.org/internal/geo"
	"talhoes.dashboard.org/internal/models"
)

const DefaultSeed = 42

// Variant selects the productivity range.
type Variant string

const (
	VariantStandard  Variant = "standard"  // productivity in [15, 35)
	VariantAlternate Variant = "alternate" // productivity in [12, 35)
)

// ParseVariant maps a flag value to a Variant. The empty string is the standard variant.
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case "", VariantStandard:
		return VariantStandard, nil
	case VariantAlternate:
		return VariantAlternate, nil
	}
	return "", fmt.Errorf("unknown variant %q", s)
}

func (v Variant) productivityMin() float64 {
	if v == VariantAlternate {
		return 12
	}
	return 15
}

type Options struct {
	Seed    uint64
	Variant Variant
	Catalog catalog.Catalog
}

// DefaultOptions is seed 42, standard variant, default farm catalogue.
func DefaultOptions() Options {
	return Options{Seed: DefaultSeed, Variant: VariantStandard, Catalog: catalog.Default()}
}

func newSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed)
}

// Synthesize builds one Parcel per feature. Columns are drawn one at a time
// over all records, in this order: age, productivity, volume noise; then the
// stream is re-seeded and survival rate, operational yield and cost noise are
// drawn. Changing that order changes every value.
func Synthesize(features []geo.Feature, opts Options) ([]models.Parcel, error) {
	n := len(features)
	parcels := make([]models.Parcel, n)

	for i, f := range features {
		area, err := geo.AreaHectares(f.Geometry)
		if err != nil {
			return nil, fmt.Errorf("parcel %s/%s: %w", f.Farm, f.ID, err)
		}
		parcels[i] = models.Parcel{
			ID:       f.ID,
			Farm:     f.Farm,
			Species:  opts.Catalog.Species(f.Farm),
			Area:     area,
			Geometry: f.Geometry,
		}
	}

	src := newSource(opts.Seed)
	rng := rand.New(src)

	for i := range parcels {
		parcels[i].Age = rng.IntN(9) + 1
	}

	productivity := distuv.Uniform{Min: opts.Variant.productivityMin(), Max: 35, Src: src}
	for i := range parcels {
		parcels[i].Productivity = productivity.Rand()
	}

	noise := distuv.Normal{Mu: 0, Sigma: 10, Src: src}
	for i := range parcels {
		parcels[i].Volume = float64(parcels[i].Age)*parcels[i].Productivity + noise.Rand()
	}

	src = newSource(opts.Seed)

	survival := distuv.Uniform{Min: 85, Max: 95, Src: src}
	for i := range parcels {
		parcels[i].SurvivalRate = survival.Rand()
	}

	yield := distuv.Uniform{Min: 5, Max: 10, Src: src}
	for i := range parcels {
		parcels[i].OperationalYield = yield.Rand()
	}

	costNoise := distuv.Normal{Mu: 0, Sigma: 150, Src: src}
	for i := range parcels {
		parcels[i].Cost = 1200 + costNoise.Rand() - parcels[i].Productivity*10
	}

	return parcels, nil
}
