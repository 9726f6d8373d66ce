package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"harmoniq/internal/domain"
)

// CategoryRenderer handles rendering of category headers
type CategoryRenderer struct {
	styles *Styles
}

// NewCategoryRenderer creates a new category renderer
func NewCategoryRenderer(styles *Styles) *CategoryRenderer {
	return &CategoryRenderer{
		styles: styles,
	}
}

// RenderCategoryHeader renders "▼ Wind farms (2/5)": active over visible items
func (g *CategoryRenderer) RenderCategoryHeader(c domain.Category, isExpanded, isSelected bool,
	filterQuery string, activeCount, visibleCount, width int, loading bool, loadErr string) string {

	arrow := "▶"
	if isExpanded {
		arrow = "▼"
	}

	name := c.Label()
	if filterQuery != "" && strings.Contains(strings.ToLower(name), strings.ToLower(filterQuery)) {
		name = highlightMatch(name, filterQuery, g.styles.Highlight, lipgloss.NewStyle())
	}

	line := fmt.Sprintf("%s %s (%d/%d)", arrow, name, activeCount, visibleCount)
	switch {
	case loading:
		line += g.styles.StatusLoading.Render("  loading…")
	case loadErr != "":
		line += g.styles.StatusError.Render("  " + loadErr)
	}

	fullySelected := visibleCount > 0 && activeCount >= visibleCount

	var bgColor string
	switch {
	case isSelected && fullySelected:
		bgColor = "33" // Blue background for cursor on fully selected category
	case isSelected:
		bgColor = "238"
	case fullySelected:
		bgColor = "240"
	}

	if bgColor != "" {
		if width > 0 {
			if lineLen := lipgloss.Width(line); lineLen < width {
				line += strings.Repeat(" ", width-lineLen)
			}
		}
		return lipgloss.NewStyle().Background(lipgloss.Color(bgColor)).Render(line)
	}

	return lipgloss.NewStyle().Foreground(lipgloss.Color(CategoryColor(string(c)))).Bold(true).Render(line)
}

// highlightMatch highlights matching text within a string
func highlightMatch(text, query string, highlightStyle, normalStyle lipgloss.Style) string {
	lowerText := strings.ToLower(text)
	lowerQuery := strings.ToLower(query)

	index := strings.Index(lowerText, lowerQuery)
	if index == -1 {
		return normalStyle.Render(text)
	}

	before := text[:index]
	match := text[index : index+len(query)]
	after := text[index+len(query):]

	var result []string
	if before != "" {
		result = append(result, normalStyle.Render(before))
	}
	result = append(result, highlightStyle.Render(match))
	if after != "" {
		result = append(result, normalStyle.Render(after))
	}

	return strings.Join(result, "")
}
