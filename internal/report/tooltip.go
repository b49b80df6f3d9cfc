package report

import (
	"strconv"

	"talhoes.dashboard.org/internal/models"
)

// Field is one labelled line of a map tooltip.
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Tooltip lists what the map shows when hovering a parcel. The farm is shown
// by its label as loaded, not its alias.
func Tooltip(p models.Parcel) []Field {
	return []Field{
		{Label: "Talhão", Value: p.ID},
		{Label: "Fazenda", Value: p.Farm},
		{Label: "Área", Value: FormatArea(p.Area)},
		{Label: "Espécie", Value: p.Species},
		{Label: "Idade", Value: strconv.Itoa(p.Age) + " anos"},
		{Label: "Produtividade", Value: FormatProductivity(p.Productivity)},
		{Label: "Volume Total", Value: FormatVolume(p.Volume)},
	}
}
