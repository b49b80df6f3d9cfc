// Package colormap maps an indicator value onto the red → green → blue
// gradient used to fill parcels on the map.
package colormap

import (
	"fmt"
	"math"

	"talhoes.dashboard.org/internal/catalog"
)

const (
	MinColor = "#ff0000"
	MidColor = "#00ff00"
	MaxColor = "#0000ff"
)

// FromNorm renders a normalised position. norm is not clamped: values outside
// [0, 1] produce channels outside 0..255 and therefore malformed hex strings.
func FromNorm(norm float64) string {
	var r, g, b int
	if norm < 0.5 {
		r = int(255 * (1 - 2*norm))
		g = int(255 * (2 * norm))
		b = 0
	} else {
		n2 := 2 * (norm - 0.5)
		r = 0
		g = int(255 * (1 - n2))
		b = int(255 * n2)
	}
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// Color maps value within [min, max]. When min == max every value gets MinColor.
func Color(value, min, max float64) string {
	if min == max {
		return MinColor
	}
	return FromNorm((value - min) / (max - min))
}

// ColorClamped is Color with the normalised position clamped to [0, 1].
func ColorClamped(value, min, max float64) string {
	if min == max {
		return MinColor
	}
	norm := (value - min) / (max - min)
	if math.IsNaN(norm) {
		return MinColor
	}
	return FromNorm(math.Max(0, math.Min(1, norm)))
}

type LegendEntry struct {
	Label  string `json:"label"`
	Color  string `json:"color"`
	Border bool   `json:"border"`
}

// Legend lists the gradient endpoints followed by one border swatch per farm.
func Legend(c catalog.Catalog) []LegendEntry {
	entries := []LegendEntry{
		{Label: "Valor Máximo", Color: MaxColor},
		{Label: "Valor Mínimo", Color: MinColor},
	}
	for _, f := range c.Farms {
		entries = append(entries, LegendEntry{Label: c.Alias(f.Name), Color: c.Border(f.Name), Border: true})
	}
	return entries
}
