package models

import "github.com/twpayne/go-geom"

// Parcel is a single mapped land unit (talhão) with its derived attributes.
// Parcels are built once per load and shared read-only afterwards.
type Parcel struct {
	ID               string  `json:"id"`
	Farm             string  `json:"farm"`
	Species          string  `json:"species"`
	Age              int     `json:"age"`
	Productivity     float64 `json:"productivity"`
	Volume           float64 `json:"volume"`
	Area             float64 `json:"area"`
	SurvivalRate     float64 `json:"survivalRate"`
	OperationalYield float64 `json:"operationalYield"`
	Cost             float64 `json:"cost"`

	// Geometry is kept in geographic coordinates (lon/lat).
	Geometry geom.T `json:"-"`
}

// Label is the "farm - parcel" caption used by per-parcel charts.
func (p Parcel) Label() string {
	return p.Farm + " - " + p.ID
}

// FilterModel echoes the filter a response was computed for.
type FilterModel struct {
	Farms  []string `json:"farms"`
	AgeMin int      `json:"ageMin"`
	AgeMax int      `json:"ageMax"`
	Color  string   `json:"color,omitempty"`
}
