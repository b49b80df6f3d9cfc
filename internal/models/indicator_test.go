package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIndicator(t *testing.T) {
	for _, ind := range Indicators() {
		t.Run(string(ind), func(t *testing.T) {
			parsed, err := ParseIndicator(string(ind))
			require.NoError(t, err)
			assert.Equal(t, ind, parsed)
			assert.NotEmpty(t, parsed.Label())
		})
	}

	_, err := ParseIndicator("height")
	assert.ErrorIs(t, err, ErrUnknownIndicator)
}

func TestIndicatorValue(t *testing.T) {
	p := Parcel{Age: 4, Productivity: 20, Volume: 81, SurvivalRate: 90, OperationalYield: 7, Cost: 1000}

	assert.Equal(t, 4.0, Age.Value(p))
	assert.Equal(t, 20.0, Productivity.Value(p))
	assert.Equal(t, 81.0, Volume.Value(p))
	assert.Equal(t, 90.0, SurvivalRate.Value(p))
	assert.Equal(t, 7.0, OperationalYield.Value(p))
	assert.Equal(t, 1000.0, Cost.Value(p))
}

func TestOnlyCostRanksAscending(t *testing.T) {
	for _, ind := range Indicators() {
		assert.Equal(t, ind == Cost, ind.Ascending(), string(ind))
	}
}
