package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wechange-eg/cosinnus-core-sub001/internal/domain"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/ui/input/modes"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/ui/input/types"
)

type fakeContext struct {
	index    int
	total    int
	selected bool
	query    string
	filters  string
	infinite bool
}

func (c fakeContext) CurrentIndex() int    { return c.index }
func (c fakeContext) TotalItems() int      { return c.total }
func (c fakeContext) HasSelection() bool   { return c.selected }
func (c fakeContext) RawQuery() string     { return c.query }
func (c fakeContext) FilterText() string   { return c.filters }
func (c fakeContext) InfiniteScroll() bool { return c.infinite }
func (c fakeContext) CurrentResultID() string {
	if c.total == 0 {
		return ""
	}
	return "wechange.projects.x"
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func textUpdates(actions []types.Action) []string {
	var out []string
	for _, a := range actions {
		if u, ok := a.(types.UpdateTextAction); ok {
			out = append(out, u.Text)
		}
	}
	return out
}

func TestQueryModeEmitsEveryEdit(t *testing.T) {
	h := New()
	ctx := fakeContext{total: 3, query: "be"}

	actions, _ := h.HandleKey(runes("/"), ctx)
	assert.Empty(t, actions)
	require.Equal(t, types.ModeQuery, h.CurrentMode())
	require.NotNil(t, h.TextInput())
	assert.Equal(t, "be", h.TextInput().Value(), "query mode starts from the current text")

	var edits []string
	for _, r := range "rlin" {
		actions, _ = h.HandleKey(runes(string(r)), ctx)
		edits = append(edits, textUpdates(actions)...)
	}
	assert.Equal(t, []string{"ber", "berl", "berli", "berlin"}, edits)
}

func TestQueryModeIgnoresControlKeys(t *testing.T) {
	h := New()
	ctx := fakeContext{total: 3}
	h.HandleKey(runes("/"), ctx)
	h.HandleKey(runes("abc"), ctx)

	for _, key := range []tea.KeyType{tea.KeyLeft, tea.KeyRight, tea.KeyHome, tea.KeyEnd, tea.KeyCtrlA} {
		actions, _ := h.HandleKey(tea.KeyMsg{Type: key}, ctx)
		assert.Empty(t, textUpdates(actions), "key %v", key)
	}
	assert.Equal(t, types.ModeQuery, h.CurrentMode())
}

func TestQueryModeEscRestoresOriginal(t *testing.T) {
	h := New()
	ctx := fakeContext{total: 3, query: "berlin"}
	h.HandleKey(runes("/"), ctx)
	h.HandleKey(runes("x"), ctx)

	actions, _ := h.HandleKey(tea.KeyMsg{Type: tea.KeyEsc}, ctx)
	require.Len(t, actions, 1)
	cancel, ok := actions[0].(types.CancelTextAction)
	require.True(t, ok)
	assert.Equal(t, "berlin", cancel.Original)
	assert.Equal(t, types.ModeNormal, h.CurrentMode())
	assert.Nil(t, h.TextInput())
}

func TestFilterModeSubmitsOnEnter(t *testing.T) {
	h := New()
	ctx := fakeContext{}
	h.HandleKey(runes("f"), ctx)
	require.Equal(t, types.ModeFilter, h.CurrentMode())
	h.HandleKey(runes("topics:1,2"), ctx)

	actions, _ := h.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}, ctx)
	require.Len(t, actions, 1)
	assert.Equal(t, types.SubmitTextAction{Text: "topics:1,2", Mode: types.ModeFilter}, actions[0])
}

func TestNormalModeKeys(t *testing.T) {
	h := New()
	ctx := fakeContext{total: 5}

	tests := []struct {
		msg  tea.KeyMsg
		want types.Action
	}{
		{runes("j"), types.NavigateAction{Direction: "down"}},
		{tea.KeyMsg{Type: tea.KeyEnter}, types.SelectAction{Index: -1}},
		{tea.KeyMsg{Type: tea.KeyTab}, types.TogglePanelAction{}},
		{runes("1"), types.ToggleTypeAction{ResultType: domain.TypePeople}},
		{runes("n"), types.PageAction{Direction: "next"}},
		{runes("p"), types.PageAction{Direction: "prev"}},
		{runes("["), types.HistoryAction{Direction: "back"}},
		{runes("K"), types.PanMapAction{Direction: "north"}},
		{runes("+"), types.ZoomMapAction{Factor: 0.5}},
		{runes("q"), types.QuitAction{}},
	}
	for _, tt := range tests {
		actions, _ := h.HandleKey(tt.msg, ctx)
		require.Len(t, actions, 1, tt.msg.String())
		assert.Equal(t, tt.want, actions[0], tt.msg.String())
	}

	actions, _ := h.HandleKey(runes("p"), fakeContext{total: 5, infinite: true})
	assert.Empty(t, actions, "infinite scroll has no previous page")
}

func TestResetConfirm(t *testing.T) {
	h := New()
	ctx := fakeContext{}
	h.HandleKey(runes("x"), ctx)
	require.Equal(t, types.ModeResetConfirm, h.CurrentMode())

	actions, _ := h.HandleKey(runes("j"), ctx)
	assert.Empty(t, actions)
	assert.Equal(t, types.ModeResetConfirm, h.CurrentMode())

	actions, _ = h.HandleKey(runes("y"), ctx)
	assert.Equal(t, []types.Action{types.ResetFiltersAction{}}, actions)
	assert.Equal(t, types.ModeNormal, h.CurrentMode())
}

func TestParseFilters(t *testing.T) {
	f, err := modes.ParseFilters("topics:1,2 sdgs:[3] tags:4")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, f.Topics)
	assert.Equal(t, []int{3}, f.SDGs)
	assert.Equal(t, []int{4}, f.ManagedTags)
	assert.Equal(t, "topics:1,2 sdgs:3 tags:4", modes.FormatFilters(f))

	empty, err := modes.ParseFilters("  ")
	require.NoError(t, err)
	assert.Empty(t, modes.FormatFilters(empty))

	_, err = modes.ParseFilters("colour:1")
	assert.Error(t, err)
	_, err = modes.ParseFilters("topics:x")
	assert.Error(t, err)
}
