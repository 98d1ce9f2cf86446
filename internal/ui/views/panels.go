package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Panel names one of the two result panels
type Panel int

const (
	PanelList Panel = iota
	PanelMap
)

func (p Panel) String() string {
	if p == PanelMap {
		return "map"
	}
	return "list"
}

// Panels lays out the list and map side by side, or one at a time on
// narrow terminals
type Panels struct {
	compactWidth int
	active       Panel
	styles       *Styles
}

// NewPanels creates a layout switching to a single panel below compactWidth columns
func NewPanels(compactWidth int, styles *Styles) *Panels {
	return &Panels{compactWidth: compactWidth, styles: styles}
}

// Compact reports whether width only fits one panel
func (p *Panels) Compact(width int) bool {
	return width < p.compactWidth
}

// Active returns the panel shown in compact mode
func (p *Panels) Active() Panel {
	return p.active
}

// Toggle switches the compact-mode panel
func (p *Panels) Toggle() {
	if p.active == PanelList {
		p.active = PanelMap
	} else {
		p.active = PanelList
	}
}

// Show selects the compact-mode panel
func (p *Panels) Show(panel Panel) {
	p.active = panel
}

// Widths splits the available width between list and map; a zero width
// means the panel is hidden
func (p *Panels) Widths(width int) (list, mapWidth int) {
	if p.Compact(width) {
		if p.active == PanelMap {
			return 0, width
		}
		return width, 0
	}
	list = width * 3 / 5
	return list, width - list
}

// Layout joins the rendered panels for the given total width
func (p *Panels) Layout(width int, list, mapView string) string {
	lw, mw := p.Widths(width)
	switch {
	case mw == 0:
		return lipgloss.NewStyle().Width(lw).Render(list)
	case lw == 0:
		return lipgloss.NewStyle().Width(mw).Render(mapView)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(lw).Render(list),
		p.styles.Panel.Render(mapView),
	)
}
