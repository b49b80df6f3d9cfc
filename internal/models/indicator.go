package models

import (
	"errors"
	"fmt"
)

// ErrUnknownIndicator is returned when an indicator name is not recognised.
var ErrUnknownIndicator = errors.New("unknown indicator")

// Indicator names one of the per-parcel numeric attributes.
type Indicator string

const (
	Age              Indicator = "age"
	Productivity     Indicator = "productivity"
	Volume           Indicator = "volume"
	SurvivalRate     Indicator = "survival_rate"
	OperationalYield Indicator = "operational_yield"
	Cost             Indicator = "cost"
)

var indicatorLabels = map[Indicator]string{
	Age:              "Idade",
	Productivity:     "Produtividade (m³/ha/ano)",
	Volume:           "Volume (m³)",
	SurvivalRate:     "Taxa de Sobrevivência (%)",
	OperationalYield: "Rendimento Operacional (ha/dia)",
	Cost:             "Custo por Talhão (R$)",
}

// Indicators returns every indicator in display order.
func Indicators() []Indicator {
	return []Indicator{Age, Productivity, Volume, SurvivalRate, OperationalYield, Cost}
}

// ColorIndicators are the indicators the map can be coloured by.
func ColorIndicators() []Indicator {
	return []Indicator{Productivity, Volume, SurvivalRate, OperationalYield}
}

// ReportIndicators are the indicators ranked in the top-5 report, in report order.
func ReportIndicators() []Indicator {
	return []Indicator{SurvivalRate, Productivity, OperationalYield, Cost}
}

// ParseIndicator resolves an indicator by name.
func ParseIndicator(name string) (Indicator, error) {
	ind := Indicator(name)
	if _, ok := indicatorLabels[ind]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownIndicator, name)
	}
	return ind, nil
}

// Label is the human readable caption, units included.
func (i Indicator) Label() string {
	return indicatorLabels[i]
}

// Ascending reports whether lower values rank better. Only cost does.
func (i Indicator) Ascending() bool {
	return i == Cost
}

// Value extracts the indicator from a parcel.
func (i Indicator) Value(p Parcel) float64 {
	switch i {
	case Age:
		return float64(p.Age)
	case Productivity:
		return p.Productivity
	case Volume:
		return p.Volume
	case SurvivalRate:
		return p.SurvivalRate
	case OperationalYield:
		return p.OperationalYield
	case Cost:
		return p.Cost
	}
	return 0
}
