package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"
)

// HelpRenderer builds the help page shown in the pager
type HelpRenderer struct {
	titleStyle   lipgloss.Style
	sectionStyle lipgloss.Style
	keyStyle     lipgloss.Style
	descStyle    lipgloss.Style
	noteStyle    lipgloss.Style
}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer() *HelpRenderer {
	return &HelpRenderer{
		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1),
		sectionStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")),
		keyStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		descStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		noteStyle: lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241")),
	}
}

type helpEntry struct {
	keys string
	desc string
}

// RenderHelpContent generates help content with colors for the pager
func (r *HelpRenderer) RenderHelpContent() string {
	sections := []struct {
		title   string
		entries []helpEntry
	}{
		{"Navigation", []helpEntry{
			{"↑/↓, j/k", "Move up/down"},
			{"←/→, h/l", "Collapse/expand category"},
			{"enter, z", "Toggle category"},
			{"PgUp/PgDn", "Page up/down"},
			{"Home/G", "Go to top/bottom"},
		}},
		{"Selection", []helpEntry{
			{"space", "Toggle item (on a header: select the visible category)"},
			{"a", "Select every visible item of the category"},
			{"x", "Deselect every visible item of the category"},
			{"/", "Filter items"},
			{"esc", "Clear filter"},
		}},
		{"Groups & Scenarios", []helpEntry{
			{"g", "Choose the active group"},
			{"N", "Create a group"},
			{"s", "Choose the active scenario"},
			{"n", "Create a scenario"},
			{"d", "Delete the active scenario"},
			{"r", "Run the simulation"},
		}},
		{"Other", []helpEntry{
			{"i", "Item or scenario details"},
			{"R", "Reload everything from the server"},
			{"L", "Add new items of the category under the cursor"},
			{"?", "This help"},
			{"q", "Quit"},
		}},
	}

	var help strings.Builder
	help.WriteString(r.titleStyle.Render("harmoniq help"))
	help.WriteString("\n")

	for _, s := range sections {
		help.WriteString(r.sectionStyle.Render(s.title))
		help.WriteString("\n")
		for _, e := range s.entries {
			help.WriteString(fmt.Sprintf("  %s  %s\n", r.keyStyle.Render(fmt.Sprintf("%-10s", e.keys)), r.descStyle.Render(e.desc)))
		}
		help.WriteString("\n")
	}

	help.WriteString(r.noteStyle.Render("  Filter examples: cape, hydro, is:selected, is:unselected, id:12"))
	help.WriteString("\n")
	help.WriteString(r.noteStyle.Render("  Changes are saved to the active group shortly after the last edit."))
	return help.String()
}

var errNoProgram = errors.New("program not set")

// PagerOps shows long content in the ov pager
type PagerOps struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewPagerOps creates a new pager operations instance
func NewPagerOps() *PagerOps {
	return &PagerOps{}
}

// SetProgram sets the program whose terminal the pager borrows
func (p *PagerOps) SetProgram(program *tea.Program) {
	p.program = program
}

// ShowInPager shows content using the ov pager
func (p *PagerOps) ShowInPager(content string) error {
	if p.program == nil {
		return errNoProgram
	}

	// Release terminal control to run ov
	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}

	defer func() {
		// ov needs a moment to give the terminal back
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return err
	}

	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
