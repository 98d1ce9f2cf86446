package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wechange-eg/cosinnus-core-sub001/internal/domain"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/ui/input/types"
)

type NormalMode struct{}

func NewNormalMode() *NormalMode {
	return &NormalMode{}
}

func (m *NormalMode) Name() string {
	return "normal"
}

func (m *NormalMode) Enter(ctx types.Context) []types.Action {
	return nil // No special actions on enter
}

func (m *NormalMode) Exit(ctx types.Context) []types.Action {
	return nil // No special actions on exit
}

func (m *NormalMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return []types.Action{types.QuitAction{Force: true}}, true

	case tea.KeyEsc:
		if ctx.HasSelection() {
			return []types.Action{types.DeselectAllAction{}}, true
		}
		return nil, false

	case tea.KeyUp:
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case tea.KeyDown:
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case tea.KeyPgUp:
		return []types.Action{types.NavigateAction{Direction: "pageup"}}, true

	case tea.KeyPgDown:
		return []types.Action{types.NavigateAction{Direction: "pagedown"}}, true

	case tea.KeyHome:
		return []types.Action{types.NavigateAction{Direction: "home"}}, true

	case tea.KeyEnd:
		return []types.Action{types.NavigateAction{Direction: "end"}}, true

	case tea.KeyEnter:
		if ctx.CurrentResultID() == "" {
			return nil, false
		}
		return []types.Action{types.SelectAction{Index: -1}}, true

	case tea.KeyTab:
		return []types.Action{types.TogglePanelAction{}}, true
	}

	// Handle string keys
	switch key := msg.String(); key {
	case "j":
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case "k":
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case "g":
		return []types.Action{types.NavigateAction{Direction: "home"}}, true

	case "G":
		return []types.Action{types.NavigateAction{Direction: "end"}}, true

	case " ":
		if ctx.CurrentResultID() == "" {
			return nil, false
		}
		return []types.Action{types.SelectAction{Index: -1}}, true

	case "/":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeQuery, Data: ctx.RawQuery()}}, true

	case "f":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeFilter, Data: ctx.FilterText()}}, true

	case "x":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeResetConfirm}}, true

	case "r":
		return []types.Action{types.RefreshAction{}}, true

	case "1", "2", "3", "4", "5", "6", "7":
		i := int(key[0] - '1')
		if i >= len(domain.FilterTypes) {
			return nil, false
		}
		return []types.Action{types.ToggleTypeAction{ResultType: domain.FilterTypes[i]}}, true

	case "n":
		return []types.Action{types.PageAction{Direction: "next"}}, true

	case "p":
		if ctx.InfiniteScroll() {
			return nil, false
		}
		return []types.Action{types.PageAction{Direction: "prev"}}, true

	case "[", "alt+left":
		return []types.Action{types.HistoryAction{Direction: "back"}}, true

	case "]", "alt+right":
		return []types.Action{types.HistoryAction{Direction: "forward"}}, true

	case "K", "shift+up":
		return []types.Action{types.PanMapAction{Direction: "north"}}, true

	case "J", "shift+down":
		return []types.Action{types.PanMapAction{Direction: "south"}}, true

	case "H", "shift+left":
		return []types.Action{types.PanMapAction{Direction: "west"}}, true

	case "L", "shift+right":
		return []types.Action{types.PanMapAction{Direction: "east"}}, true

	case "+", "=":
		return []types.Action{types.ZoomMapAction{Factor: 0.5}}, true

	case "-":
		return []types.Action{types.ZoomMapAction{Factor: 2}}, true

	case "z":
		return []types.Action{types.FitMapAction{}}, true

	case "Z":
		return []types.Action{types.ResetMapAction{}}, true

	case "i":
		if ctx.CurrentResultID() == "" {
			return nil, false
		}
		return []types.Action{types.ShowDetailAction{}}, true

	case "?":
		return []types.Action{types.ToggleHelpAction{}}, true

	case "q":
		return []types.Action{types.QuitAction{Force: false}}, true
	}

	return nil, false
}
