package ui

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"harmoniq/internal/domain"
)

var (
	detailTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	detailLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func detailLine(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "%s %s\n", detailLabel.Render(fmt.Sprintf("%-22s", label+":")), value)
}

// buildItemInfo renders an item and every extra field the backend sent
func buildItemInfo(item domain.Item, active bool, group string) string {
	var b strings.Builder
	b.WriteString(detailTitle.Render(item.Name))
	b.WriteString("\n\n")

	detailLine(&b, "Category", item.Category.Label())
	detailLine(&b, "ID", fmt.Sprintf("%d", item.ID))
	detailLine(&b, "Location", fmt.Sprintf("%.5f, %.5f", item.Latitude, item.Longitude))
	switch {
	case group == "":
		detailLine(&b, "Selected", "no group active")
	case active:
		detailLine(&b, "Selected", "yes, in "+group)
	default:
		detailLine(&b, "Selected", "no")
	}

	if len(item.Extra) > 0 {
		b.WriteString("\n")
		for _, k := range slices.Sorted(maps.Keys(item.Extra)) {
			detailLine(&b, k, strings.Trim(string(item.Extra[k]), `"`))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// buildScenarioInfo renders a scenario's parameters
func buildScenarioInfo(s domain.Scenario) string {
	var b strings.Builder
	b.WriteString(detailTitle.Render(s.Name))
	b.WriteString("\n\n")

	detailLine(&b, "ID", fmt.Sprintf("%d", s.ID))
	if s.Description != "" {
		detailLine(&b, "Description", s.Description)
	}
	detailLine(&b, "Start", s.Start)
	detailLine(&b, "End", s.End)
	detailLine(&b, "Time step", s.Step)
	detailLine(&b, "Social optimism", s.SocialOptimism.String())
	detailLine(&b, "Ecological optimism", s.EcologicalOptimism.String())
	return strings.TrimRight(b.String(), "\n")
}
