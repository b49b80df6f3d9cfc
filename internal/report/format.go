package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Unavailable is shown for metrics that cannot be computed, such as a mean
// over an empty selection.
const Unavailable = "—"

func FormatArea(ha float64) string { return fmt.Sprintf("%.2f ha", ha) }
func FormatVolume(m3 float64) string { return fmt.Sprintf("%.1f m³", m3) }
func FormatProductivity(v float64) string { return fmt.Sprintf("%.1f m³/ha/ano", v) }
func FormatPercent(v float64) string { return fmt.Sprintf("%.1f %%", v) }
func FormatOperationalYield(v float64) string { return fmt.Sprintf("%.1f ha/dia", v) }

// FormatCurrency renders whole reais with comma thousands separators, e.g. "R$ 1,234".
func FormatCurrency(v float64) string {
	return "R$ " + groupThousands(decimal.NewFromFloat(v).RoundBank(0).StringFixed(0))
}

func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return sign + b.String()
}
