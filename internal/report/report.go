// Package report turns a filtered view into the metric cards, the top-5
// rankings and the spreadsheet export shown by the dashboard.
package report

import (
	"talhoes.dashboard.org/internal/dataset"
	"talhoes.dashboard.org/internal/models"
)

// Card is one headline metric. Raw is nil when the metric is unavailable.
type Card struct {
	Key   string   `json:"key"`
	Label string   `json:"label"`
	Value string   `json:"value"`
	Raw   *float64 `json:"raw"`
}

func card(key, label string, v float64, ok bool, format func(float64) string) Card {
	if !ok {
		return Card{Key: key, Label: label, Value: Unavailable}
	}
	return Card{Key: key, Label: label, Value: format(v), Raw: &v}
}

// Cards returns the six operational indicators in display order.
func Cards(v *dataset.View) []Card {
	cards := []Card{card("total_area", "Área Total", v.TotalArea(), true, FormatArea)}

	m, ok := v.Mean(models.Volume)
	cards = append(cards, card("mean_volume", "Volume Médio", m, ok, FormatVolume))
	m, ok = v.Mean(models.Productivity)
	cards = append(cards, card("mean_productivity", "Produtividade Média", m, ok, FormatProductivity))
	m, ok = v.Mean(models.SurvivalRate)
	cards = append(cards, card("mean_survival_rate", "Taxa de Sobrevivência Média", m, ok, FormatPercent))
	m, ok = v.Mean(models.OperationalYield)
	cards = append(cards, card("mean_operational_yield", "Rendimento Operacional Médio", m, ok, FormatOperationalYield))
	m, ok = v.Mean(models.Cost)
	cards = append(cards, card("mean_cost", "Custo Médio por Talhão", m, ok, FormatCurrency))

	return cards
}

type Summary struct {
	Parcels     int                 `json:"parcels"`
	Cards       []Card              `json:"cards"`
	CountByFarm []dataset.FarmValue `json:"countByFarm"`
	AreaByFarm  []dataset.FarmValue `json:"areaByFarm"`
}

func Summarize(v *dataset.View) Summary {
	return Summary{
		Parcels:     v.Len(),
		Cards:       Cards(v),
		CountByFarm: v.CountByFarm(),
		AreaByFarm:  v.AreaByFarm(),
	}
}

// Ranking is one "Top 5 Talhões por ..." table.
type Ranking struct {
	Indicator models.Indicator       `json:"indicator"`
	Label     string                 `json:"label"`
	Ascending bool                   `json:"ascending"`
	Rows      []dataset.RankedParcel `json:"rows"`
}

// Rankings builds the top-5 tables for every reported indicator.
func Rankings(v *dataset.View) []Ranking {
	out := make([]Ranking, 0, len(models.ReportIndicators()))
	for _, ind := range models.ReportIndicators() {
		out = append(out, Ranking{
			Indicator: ind,
			Label:     ind.Label(),
			Ascending: ind.Ascending(),
			Rows:      v.TopN(ind, dataset.ReportTopN),
		})
	}
	return out
}
