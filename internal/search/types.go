package search

import (
	"net/url"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wechange-eg/cosinnus-core-sub001/internal/searchapi"
)

// Phase is the coordinator's state machine position
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDebouncing
	PhaseSearching
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseDebouncing:
		return "debouncing"
	case PhaseSearching:
		return "searching"
	case PhaseError:
		return "error"
	default:
		return "idle"
	}
}

// ParsePhase is the inverse of Phase.String; unknown names are idle
func ParsePhase(s string) Phase {
	switch s {
	case "debouncing":
		return PhaseDebouncing
	case "searching":
		return PhaseSearching
	case "error":
		return PhaseError
	}
	return PhaseIdle
}

// ParameterContributor is implemented by every view that feeds the search query
type ParameterContributor interface {
	// APIParams are sent to the search endpoint
	APIParams() url.Values
	// URLParams are mirrored into the address bar
	URLParams() url.Values
}

// URLParameterApplier is implemented by contributors that restore their own
// state from a history entry
type URLParameterApplier interface {
	ApplyURLParams(params url.Values)
}

// URLSyncer writes search parameters into the history
type URLSyncer interface {
	Sync(params url.Values, filterGroup string)
	Replace(params url.Values, filterGroup string)
}

// Ticker schedules a message after a delay; tea.Tick in production
type Ticker func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd

// Settings tune the coordinator
type Settings struct {
	BaseDelay      time.Duration // debounce while idle
	ExtendedDelay  time.Duration // debounce while a request is in flight
	MinQueryLength int
	PageSize       int
	InfiniteScroll bool // pagination appends instead of replacing
}

// DefaultSettings returns the stock delays
func DefaultSettings() Settings {
	return Settings{
		BaseDelay:      400 * time.Millisecond,
		ExtendedDelay:  5000 * time.Millisecond,
		MinQueryLength: DefaultMinQueryLength,
		PageSize:       50,
	}
}

// debounceMsg fires when a debounce timer elapses
type debounceMsg struct {
	gen uint64
}

// responseMsg carries the outcome of one request back into the loop
type responseMsg struct {
	gen     uint64
	resp    *searchapi.Response
	err     error
	append  bool
	replace bool // sync with Replace, the request restored a history entry
}
