package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wechange-eg/cosinnus-core-sub001/internal/domain"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/eventbus"
)

// Tile is the rendered list entry of one result
type Tile struct {
	ID       string
	Result   domain.Result
	Hovered  bool
	Selected bool
	Renders  int // full renders of this tile

	content string
}

// Source yields results in display order
type Source interface {
	All() []domain.Result
}

// TileList keeps one tile per result in sync with the collection.
// Highlight-only updates flip tile flags without re-rendering.
type TileList struct {
	source Source
	styles *Styles
	icon   IconFunc
	width  int

	tiles map[string]*Tile
	subs  eventbus.Subscriptions

	renders int
}

// NewTileList creates a tile list subscribed to collection events
func NewTileList(bus eventbus.EventBus, source Source, styles *Styles, icon IconFunc) *TileList {
	if icon == nil {
		icon = DefaultIcon
	}
	tl := &TileList{
		source: source,
		styles: styles,
		icon:   icon,
		width:  60,
		tiles:  make(map[string]*Tile),
	}
	tl.subs.Add(bus.Subscribe(eventbus.EventResultAdded, tl.onAdded))
	tl.subs.Add(bus.Subscribe(eventbus.EventResultRemoved, tl.onRemoved))
	tl.subs.Add(bus.Subscribe(eventbus.EventResultUpdated, tl.onUpdated))
	tl.subs.Add(bus.Subscribe(eventbus.EventCollectionReset, tl.onReset))
	return tl
}

// Close releases the event subscriptions
func (tl *TileList) Close() {
	tl.subs.Close()
}

// Tile returns the tile of a result
func (tl *TileList) Tile(id string) (*Tile, bool) {
	t, ok := tl.tiles[id]
	return t, ok
}

// Len returns the number of tiles
func (tl *TileList) Len() int {
	return len(tl.tiles)
}

// Renders returns the total number of full tile renders
func (tl *TileList) Renders() int {
	return tl.renders
}

// SetWidth re-renders every tile when the width changes
func (tl *TileList) SetWidth(width int) {
	if width == tl.width || width <= 0 {
		return
	}
	tl.width = width
	for _, t := range tl.tiles {
		tl.render(t)
	}
}

func (tl *TileList) onAdded(e eventbus.DomainEvent) {
	ev := e.(domain.ResultAddedEvent)
	tl.add(ev.Result)
}

func (tl *TileList) onRemoved(e eventbus.DomainEvent) {
	ev := e.(domain.ResultRemovedEvent)
	delete(tl.tiles, ev.Result.ID)
}

func (tl *TileList) onUpdated(e eventbus.DomainEvent) {
	ev := e.(domain.ResultUpdatedEvent)
	t, ok := tl.tiles[ev.Result.ID]
	if !ok {
		return
	}
	if domain.OnlyHighlightChanged(ev.Changed) {
		t.Hovered = ev.Result.Hovered
		t.Selected = ev.Result.Selected
		t.Result.Hovered = ev.Result.Hovered
		t.Result.Selected = ev.Result.Selected
		return
	}
	t.Result = ev.Result
	t.Hovered = ev.Result.Hovered
	t.Selected = ev.Result.Selected
	tl.render(t)
}

func (tl *TileList) onReset(e eventbus.DomainEvent) {
	ev := e.(domain.CollectionResetEvent)
	keep := make(map[string]bool, len(ev.Current))
	for _, r := range ev.Current {
		keep[r.ID] = true
	}
	for id := range tl.tiles {
		if !keep[id] {
			delete(tl.tiles, id)
		}
	}
	for _, r := range ev.Current {
		tl.add(r)
	}
}

// add creates (or recreates) the tile of r
func (tl *TileList) add(r domain.Result) {
	delete(tl.tiles, r.ID)
	t := &Tile{ID: r.ID, Result: r, Hovered: r.Hovered, Selected: r.Selected}
	tl.tiles[r.ID] = t
	tl.render(t)
}

// render builds the tile body; highlight is applied at view time
func (tl *TileList) render(t *Tile) {
	r := t.Result
	accent := lipgloss.NewStyle().Foreground(lipgloss.Color(TypeColor(r.Type)))

	label := fmt.Sprintf("[%s]", TypeLabel(r.Type))
	title := truncate(r.Title, tl.width-lipgloss.Width(label)-6)

	var b strings.Builder
	b.WriteString(accent.Render(tl.icon(r.Type)))
	b.WriteString(" ")
	b.WriteString(title)
	b.WriteString(" ")
	b.WriteString(tl.styles.Dim.Render(label))
	if rest := tl.width - lipgloss.Width(title) - lipgloss.Width(label) - 7; r.Address != "" && rest > 8 {
		b.WriteString(tl.styles.Dim.Render(" · " + truncate(r.Address, rest)))
	}

	t.content = b.String()
	t.Renders++
	tl.renders++
}

// View renders up to limit tiles from offset in source order.
// cursor is the index of the keyboard cursor, -1 for none.
func (tl *TileList) View(offset, limit, cursor int) string {
	results := tl.source.All()
	if len(results) == 0 {
		return tl.styles.Dim.Render("No results")
	}

	var lines []string
	for i := offset; i < len(results) && len(lines) < limit; i++ {
		t, ok := tl.tiles[results[i].ID]
		if !ok {
			continue
		}
		lines = append(lines, tl.decorate(t, i == cursor))
	}
	return strings.Join(lines, "\n")
}

func (tl *TileList) decorate(t *Tile, atCursor bool) string {
	prefix := "  "
	if atCursor {
		prefix = "> "
	}
	content := t.content
	switch {
	case t.Selected:
		content = tl.styles.SelectionBg.Render(tl.styles.Highlight.Render("✓ ") + content)
	case t.Hovered:
		content = tl.styles.HoverBg.Render(content)
	}
	return prefix + content
}

func truncate(s string, width int) string {
	if width < 4 {
		width = 4
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
