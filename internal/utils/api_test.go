package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talhoes.dashboard.org/internal/dataset"
	"talhoes.dashboard.org/internal/models"
)

func testDataset() *dataset.Dataset {
	return dataset.New([]models.Parcel{
		{ID: "T01", Farm: "Fazenda 1", Age: 2},
		{ID: "T02", Farm: "Fazenda 2", Age: 8},
		{ID: "T03", Farm: "Fazenda 1", Age: 5},
	})
}

func TestParseFilter(t *testing.T) {
	ds := testDataset()

	tests := []struct {
		name      string
		query     string
		want      FilterParams
		errFields []string
	}{
		{
			name:  "defaults",
			query: "",
			want: FilterParams{
				Filter: dataset.Filter{Farms: []string{"Fazenda 1", "Fazenda 2"}, AgeMin: 2, AgeMax: 8},
				Color:  models.Productivity,
			},
		},
		{
			name:  "farm subset and ages",
			query: "farm=Fazenda+2&ageMin=3&ageMax=9&color=volume",
			want: FilterParams{
				Filter: dataset.Filter{Farms: []string{"Fazenda 2"}, AgeMin: 3, AgeMax: 9},
				Color:  models.Volume,
			},
		},
		{
			name:  "blank farm selects nothing",
			query: "farm=",
			want: FilterParams{
				Filter: dataset.Filter{Farms: []string{}, AgeMin: 2, AgeMax: 8},
				Color:  models.Productivity,
			},
		},
		{
			name:  "blank marker alongside farms is ignored",
			query: "farm=&farm=Fazenda+1&farm=Fazenda+1",
			want: FilterParams{
				Filter: dataset.Filter{Farms: []string{"Fazenda 1"}, AgeMin: 2, AgeMax: 8},
				Color:  models.Productivity,
			},
		},
		{
			name:  "markup stripped from farm",
			query: "farm=%3Cb%3EFazenda+2%3C%2Fb%3E+",
			want: FilterParams{
				Filter: dataset.Filter{Farms: []string{"Fazenda 2"}, AgeMin: 2, AgeMax: 8},
				Color:  models.Productivity,
			},
		},
		{
			name:      "unknown farm",
			query:     "farm=Fazenda+9",
			errFields: []string{FarmParam},
		},
		{
			name:      "bad ages",
			query:     "ageMin=abc&ageMax=-4",
			errFields: []string{AgeMinParam, AgeMaxParam},
		},
		{
			name:      "non colour indicator",
			query:     "color=cost",
			errFields: []string{ColorParam},
		},
		{
			name:      "unknown colour",
			query:     "color=height",
			errFields: []string{ColorParam},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			got, fieldErrors := ParseFilter(values, ds)
			if len(tt.errFields) > 0 {
				for _, f := range tt.errFields {
					assert.Contains(t, fieldErrors, f)
				}
				return
			}
			assert.Empty(t, fieldErrors)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterParamsEncodeRoundTrip(t *testing.T) {
	ds := testDataset()

	for _, p := range []FilterParams{
		{Filter: dataset.Filter{Farms: []string{"Fazenda 2"}, AgeMin: 3, AgeMax: 7}, Color: models.SurvivalRate},
		{Filter: dataset.Filter{Farms: []string{}, AgeMin: 2, AgeMax: 8}, Color: models.Productivity},
	} {
		got, fieldErrors := ParseFilter(p.Encode(), ds)
		assert.Empty(t, fieldErrors)
		assert.Equal(t, p, got)
	}
}

func TestParseIntParam(t *testing.T) {
	values := url.Values{"limit": {"25"}, "bad": {"x"}}

	n, errs := ParseIntParam(values, "limit", 10, nil)
	assert.Equal(t, 25, n)
	assert.Empty(t, errs)

	n, errs = ParseIntParam(values, "missing", 10, errs)
	assert.Equal(t, 10, n)
	assert.Empty(t, errs)

	n, errs = ParseIntParam(values, "bad", 10, errs)
	assert.Equal(t, 10, n)
	assert.Contains(t, errs, "bad")
}

func TestParseBoolParam(t *testing.T) {
	values := url.Values{"desc": {"true"}, "bad": {"maybe"}}

	b, errs := ParseBoolParam(values, "desc", nil)
	assert.True(t, b)
	assert.Empty(t, errs)

	_, errs = ParseBoolParam(values, "bad", errs)
	assert.Contains(t, errs, "bad")
}

func TestParseFloatParam(t *testing.T) {
	values := url.Values{"value": {"2.5"}, "bad": {"x"}}

	f, errs := ParseFloatParam(values, "value", nil)
	assert.Equal(t, 2.5, f)
	assert.Empty(t, errs)

	_, errs = ParseFloatParam(values, "bad", errs)
	assert.Contains(t, errs, "bad")

	for _, raw := range []string{"NaN", "Inf", "-Inf", "+inf"} {
		_, errs := ParseFloatParam(url.Values{"value": {raw}}, "value", nil)
		assert.Contains(t, errs, "value", raw)
	}
}
