package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"harmoniq/internal/domain"
)

// ItemRenderer handles rendering of item rows
type ItemRenderer struct {
	styles *Styles
}

// NewItemRenderer creates a new item renderer
func NewItemRenderer(styles *Styles) *ItemRenderer {
	return &ItemRenderer{
		styles: styles,
	}
}

// RenderItem renders "  [x] name  #id"
func (r *ItemRenderer) RenderItem(item domain.Item, isSelected, isActive, groupActive bool,
	filterQuery string, width int) string {

	bg := lipgloss.NewStyle()
	if isSelected {
		bg = bg.Background(lipgloss.Color("238"))
	}

	box := "[ ]"
	boxStyle := bg
	if isActive {
		box = "[x]"
		boxStyle = r.styles.Checked.Inherit(bg)
	}
	if !groupActive {
		// nothing can be toggled until a group is chosen
		boxStyle = boxStyle.Faint(true)
	}

	name := item.Name
	if name == "" {
		name = fmt.Sprintf("item %d", item.ID)
	}
	if filterQuery != "" && strings.Contains(strings.ToLower(name), strings.ToLower(filterQuery)) {
		name = highlightMatch(name, filterQuery, r.styles.Highlight.Inherit(bg), bg)
	} else {
		name = bg.Render(name)
	}

	id := r.styles.Dim.Inherit(bg).Render(fmt.Sprintf("  #%d", item.ID))

	line := bg.Render("  ") + boxStyle.Render(box) + bg.Render(" ") + name + id
	if isSelected && width > 0 {
		if lineLen := lipgloss.Width(line); lineLen < width {
			line += bg.Render(strings.Repeat(" ", width-lineLen))
		}
	}
	return line
}
