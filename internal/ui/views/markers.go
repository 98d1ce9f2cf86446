package views

import (
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wechange-eg/cosinnus-core-sub001/internal/domain"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/eventbus"
)

// Marker is one map pin; results at an identical location share it
type Marker struct {
	Lat      float64
	Lon      float64
	IDs      []string
	Hovered  bool
	Selected bool
	Renders  int

	glyph string
}

// MarkerLayer keeps map markers in sync with the collection
type MarkerLayer struct {
	styles *Styles
	icon   IconFunc

	markers  []*Marker
	byResult map[string]*Marker
	results  map[string]domain.Result
	subs     eventbus.Subscriptions
}

// NewMarkerLayer creates a marker layer subscribed to collection events
func NewMarkerLayer(bus eventbus.EventBus, styles *Styles, icon IconFunc) *MarkerLayer {
	if icon == nil {
		icon = DefaultIcon
	}
	ml := &MarkerLayer{
		styles:   styles,
		icon:     icon,
		byResult: make(map[string]*Marker),
		results:  make(map[string]domain.Result),
	}
	ml.subs.Add(bus.Subscribe(eventbus.EventResultAdded, func(e eventbus.DomainEvent) {
		ml.add(e.(domain.ResultAddedEvent).Result)
	}))
	ml.subs.Add(bus.Subscribe(eventbus.EventResultRemoved, func(e eventbus.DomainEvent) {
		ml.remove(e.(domain.ResultRemovedEvent).Result.ID)
	}))
	ml.subs.Add(bus.Subscribe(eventbus.EventResultUpdated, ml.onUpdated))
	ml.subs.Add(bus.Subscribe(eventbus.EventCollectionReset, ml.onReset))
	return ml
}

// Close releases the event subscriptions
func (ml *MarkerLayer) Close() {
	ml.subs.Close()
}

// Markers returns the current markers
func (ml *MarkerLayer) Markers() []*Marker {
	return slices.Clone(ml.markers)
}

// MarkerOf returns the marker carrying a result
func (ml *MarkerLayer) MarkerOf(id string) (*Marker, bool) {
	m, ok := ml.byResult[id]
	return m, ok
}

func (ml *MarkerLayer) onUpdated(e eventbus.DomainEvent) {
	ev := e.(domain.ResultUpdatedEvent)
	if _, ok := ml.results[ev.Result.ID]; !ok {
		// a result may gain a location through an update
		if ev.Result.HasLocation() {
			ml.add(ev.Result)
		}
		return
	}
	if domain.OnlyHighlightChanged(ev.Changed) {
		ml.results[ev.Result.ID] = ev.Result
		ml.refreshHighlight(ml.byResult[ev.Result.ID])
		return
	}
	if slices.Contains(ev.Changed, domain.FieldLocation) {
		ml.remove(ev.Result.ID)
		ml.add(ev.Result)
		return
	}
	ml.results[ev.Result.ID] = ev.Result
	m := ml.byResult[ev.Result.ID]
	ml.refreshHighlight(m)
	ml.render(m)
}

func (ml *MarkerLayer) onReset(e eventbus.DomainEvent) {
	ev := e.(domain.CollectionResetEvent)
	keep := make(map[string]bool, len(ev.Current))
	for _, r := range ev.Current {
		keep[r.ID] = true
	}
	for id := range ml.results {
		if !keep[id] {
			ml.remove(id)
		}
	}
	for _, r := range ev.Current {
		ml.add(r)
	}
}

// add places r on the marker at its location, creating one if needed
func (ml *MarkerLayer) add(r domain.Result) {
	if _, exists := ml.results[r.ID]; exists {
		ml.remove(r.ID)
	}
	if !r.HasLocation() {
		return
	}
	ml.results[r.ID] = r

	var target *Marker
	for _, m := range ml.markers {
		if domain.LocEquals(ml.results[m.IDs[0]], r) {
			target = m
			break
		}
	}
	if target == nil {
		target = &Marker{Lat: *r.Lat, Lon: *r.Lon}
		ml.markers = append(ml.markers, target)
	}
	target.IDs = append(target.IDs, r.ID)
	ml.byResult[r.ID] = target
	ml.refreshHighlight(target)
	ml.render(target)
}

func (ml *MarkerLayer) remove(id string) {
	m, ok := ml.byResult[id]
	delete(ml.results, id)
	if !ok {
		return
	}
	delete(ml.byResult, id)
	if i := slices.Index(m.IDs, id); i >= 0 {
		m.IDs = slices.Delete(m.IDs, i, i+1)
	}
	if len(m.IDs) == 0 {
		if i := slices.Index(ml.markers, m); i >= 0 {
			ml.markers = slices.Delete(ml.markers, i, i+1)
		}
		return
	}
	ml.refreshHighlight(m)
	ml.render(m)
}

func (ml *MarkerLayer) refreshHighlight(m *Marker) {
	m.Hovered, m.Selected = false, false
	for _, id := range m.IDs {
		r := ml.results[id]
		m.Hovered = m.Hovered || r.Hovered
		m.Selected = m.Selected || r.Selected
	}
}

// render rebuilds the marker glyph: the type icon, or the member count
// when several results share the location
func (ml *MarkerLayer) render(m *Marker) {
	switch n := len(m.IDs); {
	case n == 1:
		m.glyph = ml.icon(ml.results[m.IDs[0]].Type)
	case n < 10:
		m.glyph = strconv.Itoa(n)
	default:
		m.glyph = "+"
	}
	m.Renders++
}

// Project maps a coordinate onto a width x height grid; ok is false outside bounds
func Project(b domain.Bounds, width, height int, lat, lon float64) (col, row int, ok bool) {
	if width < 1 || height < 1 || b.North <= b.South || b.East <= b.West || !b.Contains(lat, lon) {
		return 0, 0, false
	}
	col = int((lon - b.West) / (b.East - b.West) * float64(width-1))
	row = int((b.North - lat) / (b.North - b.South) * float64(height-1))
	return col, row, true
}

// At returns the marker drawn at a grid cell
func (ml *MarkerLayer) At(b domain.Bounds, width, height, col, row int) (*Marker, bool) {
	var found *Marker
	for _, m := range ml.markers {
		c, r, ok := Project(b, width, height, m.Lat, m.Lon)
		if ok && c == col && r == row {
			found = m
		}
	}
	return found, found != nil
}

// View draws the markers inside bounds as a width x height character plot
func (ml *MarkerLayer) View(b domain.Bounds, width, height int) string {
	if width < 1 || height < 1 {
		return ""
	}
	grid := make([][]string, height)
	for y := range grid {
		grid[y] = make([]string, width)
		for x := range grid[y] {
			grid[y][x] = " "
			if x%8 == 0 && y%4 == 0 {
				grid[y][x] = ml.styles.MapDot.Render("·")
			}
		}
	}

	// highlighted markers are drawn last so they stay on top
	ordered := slices.Clone(ml.markers)
	slices.SortStableFunc(ordered, func(a, b *Marker) int {
		return highlightRank(a) - highlightRank(b)
	})
	for _, m := range ordered {
		col, row, ok := Project(b, width, height, m.Lat, m.Lon)
		if !ok {
			continue
		}
		grid[row][col] = ml.style(m).Render(m.glyph)
	}

	lines := make([]string, height)
	for y, cells := range grid {
		lines[y] = strings.Join(cells, "")
	}
	return strings.Join(lines, "\n")
}

func (ml *MarkerLayer) style(m *Marker) lipgloss.Style {
	switch {
	case m.Selected:
		return ml.styles.Highlight.Inherit(ml.styles.SelectionBg)
	case m.Hovered:
		return ml.styles.Highlight
	default:
		if len(m.IDs) == 1 {
			return lipgloss.NewStyle().Foreground(lipgloss.Color(TypeColor(ml.results[m.IDs[0]].Type)))
		}
		return lipgloss.NewStyle().Bold(true)
	}
}

func highlightRank(m *Marker) int {
	switch {
	case m.Selected:
		return 2
	case m.Hovered:
		return 1
	default:
		return 0
	}
}
