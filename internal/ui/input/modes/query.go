package modes

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/wechange-eg/cosinnus-core-sub001/internal/ui/input/types"
)

// QueryMode edits the free-text query; every edit is a live search
type QueryMode struct {
	TextInputMode
}

func NewQueryMode(ti *textinput.Model) *QueryMode {
	return &QueryMode{
		TextInputMode: NewTextInputMode(types.ModeQuery, "query", "Search: ", ti),
	}
}

func (m *QueryMode) Enter(ctx types.Context) []types.Action {
	m.Begin(ctx.RawQuery())
	return m.TextInputMode.Enter(ctx)
}
