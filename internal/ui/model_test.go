package ui

import (
	"context"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wechange-eg/cosinnus-core-sub001/internal/config"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/domain"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/router"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/search"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/searchapi"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/ui/coordinator"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/ui/views"
)

type stubSearcher struct {
	queries []string
}

func (s *stubSearcher) Search(_ context.Context, req searchapi.Request) (*searchapi.Response, error) {
	s.queries = append(s.queries, req.Params.Get(router.ParamQuery))
	lat, lon := 51.0, 10.0
	items := make([]domain.Result, 4)
	for i := range items {
		items[i] = domain.Result{
			ID:        fmt.Sprintf("wechange.events.e%d", i),
			Type:      domain.TypeEvents,
			Title:     fmt.Sprintf("Event %d", i),
			Relevance: float64(10 - i),
			Lat:       &lat,
			Lon:       &lon,
		}
	}
	return &searchapi.Response{Count: 4, Items: items}, nil
}

func immediate(_ time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	return func() tea.Msg { return fn(time.Time{}) }
}

func newTestModel(t *testing.T, width int) (*Model, *stubSearcher) {
	t.Helper()
	searcher := &stubSearcher{}
	coord := coordinator.NewCoordinator(coordinator.Options{
		Config:   config.DefaultConfig(),
		Searcher: searcher,
		Ticker:   immediate,
	})
	t.Cleanup(coord.Close)

	m := NewModel(coord, nil)
	m.Update(tea.WindowSizeMsg{Width: width, Height: 30})
	run(m, coord.Start())
	return m, searcher
}

// run executes cmd and feeds search messages back into the model; other
// messages are collected but not delivered
func run(m *Model, cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	var seen []tea.Msg
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			seen = append(seen, run(m, c)...)
		}
	default:
		seen = append(seen, msg)
		if search.Handles(msg) {
			_, next := m.Update(msg)
			seen = append(seen, run(m, next)...)
		}
	}
	return seen
}

func press(m *Model, keys ...tea.KeyMsg) []tea.Msg {
	var seen []tea.Msg
	for _, k := range keys {
		_, cmd := m.Update(k)
		seen = append(seen, run(m, cmd)...)
	}
	return seen
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTypingQuerySearchesLive(t *testing.T) {
	m, searcher := newTestModel(t, 150)
	require.Equal(t, []string{""}, searcher.queries)

	press(m, keyMsg("/"))
	assert.Contains(t, views.StripANSI(m.View()), "Search: ")

	press(m, keyMsg("b"), keyMsg("e"), keyMsg("r"))
	press(m, tea.KeyMsg{Type: tea.KeyLeft}, tea.KeyMsg{Type: tea.KeyRight})
	press(m, keyMsg("l"), keyMsg("i"), keyMsg("n"), tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, []string{"", "ber", "berl", "berli", "berlin"}, searcher.queries,
		"short prefixes and caret moves never search")
	assert.Equal(t, "berlin", m.coord.Search.RawQuery())

	view := views.StripANSI(m.View())
	assert.Contains(t, view, `q="berlin"`)
	assert.Contains(t, view, "Event 0")
	assert.Contains(t, m.coord.URL(), "q=berlin")
}

func TestEscRestoresQuery(t *testing.T) {
	m, searcher := newTestModel(t, 150)
	press(m, keyMsg("/"), keyMsg("b"), keyMsg("o"), keyMsg("n"), keyMsg("n"))
	require.Equal(t, "bonn", searcher.queries[len(searcher.queries)-1])

	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, m.coord.Search.State().Query)
	assert.Empty(t, searcher.queries[len(searcher.queries)-1])
}

func TestTypeToggleAndReset(t *testing.T) {
	m, _ := newTestModel(t, 150)

	press(m, keyMsg("2"))
	assert.False(t, m.coord.Search.State().Types[domain.TypeEvents])
	assert.Contains(t, views.StripANSI(m.View()), "hidden: Event")

	press(m, keyMsg("x"))
	assert.Contains(t, views.StripANSI(m.View()), "Reset all filters?")
	press(m, keyMsg("y"))
	assert.True(t, m.coord.Search.State().Types[domain.TypeEvents])
}

func TestKeyboardSelection(t *testing.T) {
	m, _ := newTestModel(t, 150)

	press(m, keyMsg("j"), keyMsg(" "))
	sel, ok := m.coord.Results.Selected()
	require.True(t, ok)
	assert.Equal(t, "wechange.events.e1", sel.ID)

	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.coord.Selection.HasSelection())
}

func TestMouseHoverAndClick(t *testing.T) {
	m, _ := newTestModel(t, 150)
	y := views.HeaderLines + 2

	m.Update(tea.MouseMsg{X: 4, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone})
	hovered, ok := m.coord.Results.Hovered()
	require.True(t, ok)
	assert.Equal(t, "wechange.events.e2", hovered.ID)

	m.Update(tea.MouseMsg{X: 4, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	sel, ok := m.coord.Results.Selected()
	require.True(t, ok)
	assert.Equal(t, "wechange.events.e2", sel.ID)
	assert.Equal(t, 2, m.coord.Navigation.GetCursor())

	marker, ok := m.coord.Markers.MarkerOf(sel.ID)
	require.True(t, ok)
	assert.True(t, marker.Selected, "the shared marker follows the selection")
}

func TestCompactPanels(t *testing.T) {
	m, _ := newTestModel(t, 80)

	view := views.StripANSI(m.View())
	assert.Contains(t, view, "Event 0")
	assert.Contains(t, view, "tab", "footer advertises the panel switch")

	press(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, views.PanelMap, m.coord.Panels.Active())
	assert.NotContains(t, views.StripANSI(m.View()), "Event 0")
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t, 150)
	msgs := press(m, keyMsg("q"))

	quit := false
	for _, msg := range msgs {
		if _, ok := msg.(tea.QuitMsg); ok {
			quit = true
		}
	}
	assert.True(t, quit)

	m.coord.Results.Clear()
	assert.Equal(t, 4, m.coord.Tiles.Len(), "views are released on quit")
}
