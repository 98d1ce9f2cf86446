package types

import "github.com/wechange-eg/cosinnus-core-sub001/internal/domain"

// Navigation actions
type NavigateAction struct {
	Direction string // "up", "down", "pageup", "pagedown", "home", "end"
}

func (a NavigateAction) Type() string { return "navigate" }

// Selection actions
type SelectAction struct {
	Index int // -1 for current
}

func (a SelectAction) Type() string { return "select" }

type DeselectAllAction struct{}

func (a DeselectAllAction) Type() string { return "deselect_all" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
	Data string // initial text for text modes
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
	Mode Mode
}

func (a UpdateTextAction) Type() string { return "update_text" }

type SubmitTextAction struct {
	Text string
	Mode Mode // Which mode submitted the text
}

func (a SubmitTextAction) Type() string { return "submit_text" }

type CancelTextAction struct {
	Mode     Mode
	Original string // text the mode was entered with
}

func (a CancelTextAction) Type() string { return "cancel_text" }

// Filter actions
type ToggleTypeAction struct {
	ResultType domain.ResultType
}

func (a ToggleTypeAction) Type() string { return "toggle_type" }

type ResetFiltersAction struct{}

func (a ResetFiltersAction) Type() string { return "reset_filters" }

type RefreshAction struct{}

func (a RefreshAction) Type() string { return "refresh" }

// Paging actions
type PageAction struct {
	Direction string // "next" or "prev"
}

func (a PageAction) Type() string { return "page" }

// History actions
type HistoryAction struct {
	Direction string // "back" or "forward"
}

func (a HistoryAction) Type() string { return "history" }

// Map actions
type PanMapAction struct {
	Direction string // "north", "south", "east", "west"
}

func (a PanMapAction) Type() string { return "pan_map" }

type ZoomMapAction struct {
	Factor float64 // < 1 zooms in
}

func (a ZoomMapAction) Type() string { return "zoom_map" }

type FitMapAction struct{}

func (a FitMapAction) Type() string { return "fit_map" }

type ResetMapAction struct{}

func (a ResetMapAction) Type() string { return "reset_map" }

// View actions
type TogglePanelAction struct{}

func (a TogglePanelAction) Type() string { return "toggle_panel" }

type ShowDetailAction struct{}

func (a ShowDetailAction) Type() string { return "show_detail" }

type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

type QuitAction struct {
	Force bool // true for Ctrl+C, false for 'q'
}

func (a QuitAction) Type() string { return "quit" }
