package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"harmoniq/internal/domain"
	"harmoniq/internal/ui/logic"
	"harmoniq/internal/ui/state"
)

// ChromeLines is the number of lines around the item list
const ChromeLines = 10

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width          int
	Height         int
	Rows           []logic.Row
	SelectedIndex  int
	ViewportOffset int
	ViewportHeight int
	Expanded       map[domain.Category]bool
	IsActive       func(c domain.Category, id int) bool

	Loading           bool
	LoadingCategories map[domain.Category]bool
	LoadErrors        map[domain.Category]string
	Busy              string // e.g. "switching group", "launching"

	GroupName    string
	ScenarioName string
	RunOpen      bool
	SyncState    string
	SyncFailed   bool

	FilterQuery   string
	StatusMessage string
	StatusLevel   state.StatusLevel

	InputMode     string // name of a non-normal mode
	Prompt        string
	TextInput     string
	ConfirmTarget string

	PickerTitle   string
	PickerOptions []state.PickerOption
	PickerIndex   int
	PickerActive  int // id of the active entry

	ShowInfo    bool
	InfoContent string

	HelpView string
}

// Renderer handles all view rendering
type Renderer struct {
	styles         *Styles
	itemRender     *ItemRenderer
	categoryRender *CategoryRenderer
	popupRender    *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:         styles,
		itemRender:     NewItemRenderer(styles),
		categoryRender: NewCategoryRenderer(styles),
		popupRender:    NewPopupRenderer(styles),
	}
}

var spinner = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Render produces the complete view
func (r *Renderer) Render(s ViewState) string {
	content := &strings.Builder{}

	termWidth := s.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	innerWidth := termWidth - 4 // main container padding

	content.WriteString(r.renderTitleLine(s, innerWidth))
	content.WriteString("\n")
	content.WriteString(r.renderContextLine(s))
	content.WriteString("\n\n")

	switch {
	case s.ConfirmTarget != "":
		content.WriteString(r.styles.Confirm.Render(fmt.Sprintf("Delete scenario '%s'? (y/n): ", s.ConfirmTarget)))
	case s.Prompt != "":
		content.WriteString(r.styles.Filter.Render(s.Prompt))
		content.WriteString(s.TextInput)
	}
	content.WriteString("\n\n")

	switch {
	case len(s.Rows) == 0 && s.Loading:
		content.WriteString(r.styles.Dim.Render("Loading infrastructures..."))
	case len(s.Rows) == 0 && s.FilterQuery != "":
		content.WriteString(r.styles.Dim.Render("Nothing matches the filter. Press esc to clear it."))
	case len(s.Rows) == 0:
		content.WriteString(r.styles.Dim.Render("No infrastructures. Press R to reload."))
	default:
		content.WriteString(r.renderList(s, innerWidth))
	}

	// push status and help to the bottom
	availableLines := s.Height - 2
	if availableLines <= 0 {
		availableLines = 22
	}
	currentLines := strings.Count(content.String(), "\n") + 1
	if pad := availableLines - currentLines - 2; pad > 0 {
		content.WriteString(strings.Repeat("\n", pad))
	}
	content.WriteString("\n")
	content.WriteString(r.renderStatus(s))
	content.WriteString("\n")
	content.WriteString(s.HelpView)

	mainStyle := r.styles.Main
	if s.Height > 0 {
		mainStyle = mainStyle.MaxHeight(s.Height)
	}
	finalContent := mainStyle.Render(content.String())

	if len(s.PickerOptions) > 0 || s.PickerTitle != "" {
		return r.popupRender.RenderPopupOverlay(finalContent, r.renderPicker(s), s.Height, s.Width, r.styles.PickerBox)
	}
	if s.ShowInfo && s.InfoContent != "" {
		return r.popupRender.RenderPopupOverlay(finalContent, s.InfoContent, s.Height, s.Width, r.styles.InfoBox)
	}
	return finalContent
}

func (r *Renderer) renderTitleLine(s ViewState, width int) string {
	logo := r.styles.Title.Render("harmoniq")

	var indicators []string
	if s.Loading || s.Busy != "" {
		frame := int(time.Now().UnixMilli()/80) % len(spinner)
		label := "Loading"
		if s.Busy != "" {
			label = s.Busy
		}
		indicators = append(indicators, r.styles.Dim.Render(fmt.Sprintf("%s %s", spinner[frame], label)))
	}
	if s.FilterQuery != "" {
		indicators = append(indicators, r.styles.Filter.Render(fmt.Sprintf("[Filter: %s]", s.FilterQuery)))
	}
	if len(indicators) == 0 {
		return logo
	}

	right := strings.Join(indicators, "  ")
	padding := width - lipgloss.Width(logo) - lipgloss.Width(right)
	if padding < 2 {
		padding = 2
	}
	return logo + strings.Repeat(" ", padding) + right
}

// renderContextLine shows the active group and scenario, the run gate and
// the sync state
func (r *Renderer) renderContextLine(s ViewState) string {
	label := r.styles.Label
	sep := r.styles.Dim.Render(" │ ")

	group := r.styles.StatusWarning.Render("none")
	if s.GroupName != "" {
		group = r.styles.Value.Render(s.GroupName)
	}
	scenario := r.styles.Dim.Render("none")
	if s.ScenarioName != "" {
		scenario = r.styles.Value.Render(s.ScenarioName)
	}
	run := r.styles.RunDisabled.Render("blocked")
	if s.RunOpen {
		run = r.styles.RunEnabled.Render("ready")
	}

	parts := []string{
		label.Render("Group ") + group,
		label.Render("Scenario ") + scenario,
		label.Render("Run ") + run,
	}
	if s.SyncState != "" {
		syncStyle := r.styles.StatusLoading
		switch {
		case s.SyncFailed:
			syncStyle = r.styles.StatusError
		case s.SyncState == "saved":
			syncStyle = r.styles.StatusSuccess
		}
		parts = append(parts, syncStyle.Render(s.SyncState))
	}
	return strings.Join(parts, sep)
}

func (r *Renderer) renderStatus(s ViewState) string {
	if s.StatusMessage == "" {
		return ""
	}
	switch s.StatusLevel {
	case state.StatusError:
		return r.styles.StatusError.Render(s.StatusMessage)
	case state.StatusWarning:
		return r.styles.StatusWarning.Render(s.StatusMessage)
	case state.StatusSuccess:
		return r.styles.StatusSuccess.Render(s.StatusMessage)
	}
	return r.styles.Status.Render(s.StatusMessage)
}

// renderList renders the rows inside the viewport with scroll indicators
func (r *Renderer) renderList(s ViewState, width int) string {
	total := len(s.Rows)
	height := s.ViewportHeight
	if height <= 0 {
		height = total
	}
	offset := s.ViewportOffset
	if offset > total {
		offset = 0
	}
	effective := logic.EffectiveHeight(offset, height, total)

	var lines []string
	if offset > 0 {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↑ %d more above ↑", offset)))
	}

	groupActive := s.GroupName != ""
	end := offset + effective
	if end > total {
		end = total
	}
	for i := offset; i < end; i++ {
		row := s.Rows[i]
		selected := i == s.SelectedIndex
		switch row.Kind {
		case logic.RowCategory:
			lines = append(lines, r.categoryRender.RenderCategoryHeader(
				row.Category, s.Expanded[row.Category], selected, s.FilterQuery,
				row.Active, row.Count, width,
				s.LoadingCategories[row.Category], s.LoadErrors[row.Category],
			))
		case logic.RowItem:
			active := s.IsActive != nil && s.IsActive(row.Category, row.Item.ID)
			lines = append(lines, r.itemRender.RenderItem(row.Item, selected, active, groupActive, s.FilterQuery, width))
		}
	}

	if below := total - end; below > 0 {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↓ %d more below ↓", below)))
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) renderPicker(s ViewState) string {
	var b strings.Builder
	b.WriteString(r.styles.Title.Render(s.PickerTitle))
	b.WriteString("\n")
	if len(s.PickerOptions) == 0 {
		b.WriteString(r.styles.Dim.Render("nothing to choose from"))
		return b.String()
	}
	for i, opt := range s.PickerOptions {
		cursor := "  "
		if i == s.PickerIndex {
			cursor = "› "
		}
		marker := "  "
		if opt.ID == s.PickerActive {
			marker = r.styles.Checked.Render("● ")
		}
		line := cursor + marker + opt.Label
		if i == s.PickerIndex {
			line = r.styles.Highlight.Render(cursor) + marker + r.styles.Highlight.Render(opt.Label)
		}
		b.WriteString("\n")
		b.WriteString(line)
	}
	b.WriteString("\n\n")
	b.WriteString(r.styles.Dim.Render("enter choose · esc cancel"))
	return b.String()
}
