package types

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the normal mode bindings. It doubles as the help.KeyMap for
// the footer.
type KeyMap struct {
	Up             key.Binding
	Down           key.Binding
	PageUp         key.Binding
	PageDown       key.Binding
	Home           key.Binding
	End            key.Binding
	Collapse       key.Binding
	Expand         key.Binding
	Fold           key.Binding
	Toggle         key.Binding
	SelectAll      key.Binding
	SelectNone     key.Binding
	Filter         key.Binding
	Groups         key.Binding
	Scenarios      key.Binding
	NewGroup       key.Binding
	NewScenario    key.Binding
	Delete         key.Binding
	Run            key.Binding
	Details        key.Binding
	Reload         key.Binding
	ReloadCategory key.Binding
	Help           key.Binding
	Quit           key.Binding
}

// DefaultKeyMap returns the default bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:             key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:           key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:         key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown:       key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
		Home:           key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "top")),
		End:            key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Collapse:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "collapse")),
		Expand:         key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "expand")),
		Fold:           key.NewBinding(key.WithKeys("enter", "z"), key.WithHelp("enter/z", "fold")),
		Toggle:         key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		SelectAll:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "all")),
		SelectNone:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "none")),
		Filter:         key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Groups:         key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "group")),
		Scenarios:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "scenario")),
		NewGroup:       key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "new group")),
		NewScenario:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new scenario")),
		Delete:         key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete scenario")),
		Run:            key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "run")),
		Details:        key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "details")),
		Reload:         key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reload")),
		ReloadCategory: key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "refresh category")),
		Help:           key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:           key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.SelectAll, k.SelectNone, k.Filter, k.Groups, k.Scenarios, k.Run, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End},
		{k.Collapse, k.Expand, k.Fold, k.Toggle, k.SelectAll, k.SelectNone, k.Filter},
		{k.Groups, k.NewGroup, k.Scenarios, k.NewScenario, k.Delete, k.Run},
		{k.Details, k.Reload, k.ReloadCategory, k.Help, k.Quit},
	}
}
