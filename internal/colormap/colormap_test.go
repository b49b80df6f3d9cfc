package colormap

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"talhoes.dashboard.org/internal/catalog"
)

func TestColor(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		min   float64
		max   float64
		want  string
	}{
		{"minimum is red", 0, 0, 10, "#ff0000"},
		{"midpoint is green", 5, 0, 10, "#00ff00"},
		{"maximum is blue", 10, 0, 10, "#0000ff"},
		{"quarter", 2.5, 0, 10, "#7f7f00"},
		{"three quarters", 7.5, 0, 10, "#007f7f"},
		{"offset range", 25, 15, 35, "#00ff00"},
		{"degenerate range", 3, 3, 3, "#ff0000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Color(tt.value, tt.min, tt.max))
		})
	}
}

func TestColorFormat(t *testing.T) {
	for v := 0.0; v <= 10; v += 0.37 {
		c := Color(v, 0, 10)
		assert.Regexp(t, `^#[0-9a-f]{6}$`, c)
	}
}

func TestColorOutOfRangeIsNotClamped(t *testing.T) {
	assert.NotEqual(t, MaxColor, Color(20, 0, 10))
	assert.NotRegexp(t, `^#[0-9a-f]{6}$`, Color(-10, 0, 10))
}

func TestColorClamped(t *testing.T) {
	assert.Equal(t, MaxColor, ColorClamped(20, 0, 10))
	assert.Equal(t, MinColor, ColorClamped(-10, 0, 10))
	assert.Equal(t, MidColor, ColorClamped(5, 0, 10))
	assert.Equal(t, MinColor, ColorClamped(1, 1, 1))
}

func TestLegend(t *testing.T) {
	legend := Legend(catalog.Default())

	assert.Equal(t, []LegendEntry{
		{Label: "Valor Máximo", Color: "#0000ff"},
		{Label: "Valor Mínimo", Color: "#ff0000"},
		{Label: "Fazenda Pontal", Color: "#FF8000", Border: true},
		{Label: "Fazenda Eldorado", Color: "#0055FF", Border: true},
	}, legend)
}
