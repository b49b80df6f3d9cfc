package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"talhoes.dashboard.org/internal/catalog"
	"talhoes.dashboard.org/internal/report"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2F5D2F")).MarginBottom(1)
	cardStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7A9A7A")).
			Padding(0, 1).
			Width(34)
	labelStyle = lipgloss.NewStyle().Faint(true)
	valueStyle = lipgloss.NewStyle().Bold(true)
)

func newSummaryCmd(opts *options) *cobra.Command {
	var filter filterFlags

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the operational indicators of the selected parcels",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, config, err := opts.loadManager(newLogger(opts.verbose), false)
			if err != nil {
				return err
			}
			defer manager.Shutdown()

			f, err := filter.resolve(cmd, manager.Dataset())
			if err != nil {
				return err
			}

			summary := report.Summarize(manager.View(f))
			_, err = io.WriteString(cmd.OutOrStdout(), renderSummary(summary, config.Synth.Catalog)+"\n")
			return err
		},
	}

	filter.bind(cmd)
	return cmd
}

// renderSummary lays the metric cards out three per row, followed by the
// per-farm counts and areas.
func renderSummary(s report.Summary, farms catalog.Catalog) string {
	var rows []string
	for i := 0; i < len(s.Cards); i += 3 {
		end := min(i+3, len(s.Cards))
		cards := make([]string, 0, 3)
		for _, c := range s.Cards[i:end] {
			cards = append(cards, cardStyle.Render(labelStyle.Render(c.Label)+"\n"+valueStyle.Render(c.Value)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}

	var farmLines []string
	for i, count := range s.CountByFarm {
		area := 0.0
		if i < len(s.AreaByFarm) {
			area = s.AreaByFarm[i].Value
		}
		farmLines = append(farmLines, fmt.Sprintf("%-20s %3.0f talhões  %s",
			farms.Alias(count.Farm), count.Value, report.FormatArea(area)))
	}
	if len(farmLines) == 0 {
		farmLines = append(farmLines, "Nenhum talhão selecionado.")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(fmt.Sprintf("Indicadores Operacionais (%d talhões)", s.Parcels)),
		lipgloss.JoinVertical(lipgloss.Left, rows...),
		"",
		strings.Join(farmLines, "\n"),
	)
}
