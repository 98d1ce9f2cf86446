package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap documents the normal-mode bindings for the footer and the help pager.
// Dispatch itself lives in the input modes.
type keyMap struct {
	Move      key.Binding
	Select    key.Binding
	Deselect  key.Binding
	Query     key.Binding
	Filter    key.Binding
	Types     key.Binding
	Reset     key.Binding
	Refresh   key.Binding
	Page      key.Binding
	History   key.Binding
	Pan       key.Binding
	Zoom      key.Binding
	Fit       key.Binding
	Panel     key.Binding
	Detail    key.Binding
	Help      key.Binding
	Quit      key.Binding
	compactUI bool
}

func newKeyMap(infinite bool) keyMap {
	page := key.NewBinding(key.WithKeys("n", "p"), key.WithHelp("n/p", "next/previous page"))
	if infinite {
		page = key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "load more"))
	}
	return keyMap{
		Move:     key.NewBinding(key.WithKeys("up", "down", "j", "k", "g", "G"), key.WithHelp("↑/↓ j/k", "move")),
		Select:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "select")),
		Deselect: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear selection")),
		Query:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Filter:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "topics/sdgs/tags")),
		Types:    key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7"), key.WithHelp("1-7", "toggle type")),
		Reset:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "reset filters")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "search again")),
		Page:     page,
		History:  key.NewBinding(key.WithKeys("[", "]", "alt+left", "alt+right"), key.WithHelp("[/]", "history back/forward")),
		Pan:      key.NewBinding(key.WithKeys("H", "J", "K", "L"), key.WithHelp("H/J/K/L", "pan map")),
		Zoom:     key.NewBinding(key.WithKeys("+", "-"), key.WithHelp("+/-", "zoom map")),
		Fit:      key.NewBinding(key.WithKeys("z", "Z"), key.WithHelp("z/Z", "fit/reset map")),
		Panel:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "list/map")),
		Detail:   key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "details")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp is shown in the footer
func (k keyMap) ShortHelp() []key.Binding {
	var short []key.Binding
	if k.compactUI {
		short = append(short, k.Panel)
	}
	return append(short, k.Query, k.Filter, k.Types, k.Page, k.Help, k.Quit)
}

// FullHelp is shown in the help pager
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Move, k.Select, k.Deselect, k.Detail},
		{k.Query, k.Filter, k.Types, k.Reset, k.Refresh},
		{k.Page, k.History},
		{k.Pan, k.Zoom, k.Fit, k.Panel},
		{k.Help, k.Quit},
	}
}
