package search

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"slices"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wechange-eg/cosinnus-core-sub001/internal/domain"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/eventbus"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/results"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/router"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/searchapi"
)

// ParamLimit is the page size sent to the endpoint
const ParamLimit = router.ParamLimit

// Coordinator owns the search state and sequences requests.
//
// Every trigger goes through AttemptSearch, which (re)arms the debounce
// timer. Timers and requests carry generation tokens; a message whose token
// is not current is ignored, so at most one timer is effective and at most
// one request is in flight. All methods must be called from the bubbletea
// loop; only the request itself runs off-loop.
type Coordinator struct {
	bus        eventbus.EventBus
	collection *results.Collection
	searcher   searchapi.Searcher
	router     URLSyncer
	settings   Settings
	logger     *slog.Logger
	tick       Ticker
	ctx        context.Context

	state        domain.SearchState
	rawQuery     string
	phase        Phase
	contributors []ParameterContributor

	timerGen   uint64
	requestGen uint64
	cancel     context.CancelFunc

	appendNext bool // the next request fetches an infinite-scroll page
	replaceURL bool // the next request was restored from history

	count         int
	hasMore       bool
	lastTimestamp string
}

// Option configures a Coordinator
type Option func(*Coordinator)

// WithRouter enables full-page mode: successful searches are mirrored into the history
func WithRouter(r URLSyncer) Option {
	return func(c *Coordinator) { c.router = r }
}

// WithTicker replaces tea.Tick, used by tests
func WithTicker(t Ticker) Option {
	return func(c *Coordinator) { c.tick = t }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// WithContext sets the parent context of every request
func WithContext(ctx context.Context) Option {
	return func(c *Coordinator) { c.ctx = ctx }
}

// WithInitialState seeds the search state, e.g. from the start URL
func WithInitialState(s domain.SearchState) Option {
	return func(c *Coordinator) {
		c.state = s.Clone()
		c.rawQuery = s.Query
	}
}

// NewCoordinator creates a coordinator in the Idle phase
func NewCoordinator(bus eventbus.EventBus, collection *results.Collection, searcher searchapi.Searcher, settings Settings, opts ...Option) *Coordinator {
	c := &Coordinator{
		bus:        bus,
		collection: collection,
		searcher:   searcher,
		settings:   settings,
		logger:     slog.New(slog.DiscardHandler),
		tick:       tea.Tick,
		ctx:        context.Background(),
		state:      domain.DefaultSearchState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.settings.MinQueryLength <= 0 {
		c.settings.MinQueryLength = DefaultMinQueryLength
	}
	c.state.Query = EffectiveQuery(c.state.Query, c.settings.MinQueryLength)
	return c
}

// Register adds a view that contributes search parameters. Later
// contributors override keys of earlier ones.
func (c *Coordinator) Register(p ParameterContributor) {
	c.contributors = append(c.contributors, p)
}

// Phase returns the current state machine phase
func (c *Coordinator) Phase() Phase {
	return c.phase
}

// State returns a copy of the search state
func (c *Coordinator) State() domain.SearchState {
	return c.state.Clone()
}

// RawQuery returns the text as typed, before the minimum length rule
func (c *Coordinator) RawQuery() string {
	return c.rawQuery
}

// Count returns the total hit count of the last applied response
func (c *Coordinator) Count() int {
	return c.count
}

// HasMore reports whether the last response announced further pages
func (c *Coordinator) HasMore() bool {
	return c.hasMore
}

// Settings returns the coordinator settings
func (c *Coordinator) Settings() Settings {
	return c.settings
}

// Start issues the initial search
func (c *Coordinator) Start() tea.Cmd {
	return c.AttemptSearch()
}

// AttemptSearch records search intent and (re)arms the single debounce timer.
// While a request is in flight the extended delay is used.
func (c *Coordinator) AttemptSearch() tea.Cmd {
	c.state.WantsToSearch = true
	c.timerGen++
	gen := c.timerGen

	delay := c.settings.BaseDelay
	if c.state.Searching {
		delay = c.settings.ExtendedDelay
	} else {
		c.setPhase(PhaseDebouncing)
	}
	return c.tick(delay, func(time.Time) tea.Msg {
		return debounceMsg{gen: gen}
	})
}

// Update consumes the coordinator's own messages and returns follow-up commands
func (c *Coordinator) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case debounceMsg:
		if msg.gen != c.timerGen || !c.state.WantsToSearch {
			return nil
		}
		return c.issue()
	case responseMsg:
		return c.handleResponse(msg)
	}
	return nil
}

// Handles reports whether msg belongs to the coordinator
func Handles(msg tea.Msg) bool {
	switch msg.(type) {
	case debounceMsg, responseMsg:
		return true
	}
	return false
}

// SetQuery updates the typed text. A search is attempted only when the
// effective query changes.
func (c *Coordinator) SetQuery(text string) tea.Cmd {
	c.rawQuery = text
	q := EffectiveQuery(text, c.settings.MinQueryLength)
	if q == c.state.Query {
		return nil
	}
	c.state.Query = q
	c.resetPaging()
	return c.AttemptSearch()
}

// ToggleType flips one result type filter
func (c *Coordinator) ToggleType(t domain.ResultType) tea.Cmd {
	if c.state.Types == nil {
		c.state.Types = make(map[domain.ResultType]bool)
	}
	c.state.Types[t] = !c.state.Types[t]
	c.resetPaging()
	return c.AttemptSearch()
}

// SetTopics replaces the active topic ids
func (c *Coordinator) SetTopics(ids []int) tea.Cmd {
	c.state.Topics = normaliseIDs(ids)
	c.resetPaging()
	return c.AttemptSearch()
}

// ToggleTopic adds or removes one topic id
func (c *Coordinator) ToggleTopic(id int) tea.Cmd {
	return c.SetTopics(toggleID(c.state.Topics, id))
}

// SetSDGs replaces the active SDG ids
func (c *Coordinator) SetSDGs(ids []int) tea.Cmd {
	c.state.SDGs = normaliseIDs(ids)
	c.resetPaging()
	return c.AttemptSearch()
}

// ToggleSDG adds or removes one SDG id
func (c *Coordinator) ToggleSDG(id int) tea.Cmd {
	return c.SetSDGs(toggleID(c.state.SDGs, id))
}

// SetManagedTags replaces the active managed tag ids
func (c *Coordinator) SetManagedTags(ids []int) tea.Cmd {
	c.state.ManagedTags = normaliseIDs(ids)
	c.resetPaging()
	return c.AttemptSearch()
}

// SetIDFilters replaces topics, SDGs and managed tags in one search attempt
func (c *Coordinator) SetIDFilters(topics, sdgs, managedTags []int) tea.Cmd {
	c.state.Topics = normaliseIDs(topics)
	c.state.SDGs = normaliseIDs(sdgs)
	c.state.ManagedTags = normaliseIDs(managedTags)
	c.resetPaging()
	return c.AttemptSearch()
}

// Restart returns to the first page and searches again; contributors call it
// when their own parameters change
func (c *Coordinator) Restart() tea.Cmd {
	c.resetPaging()
	return c.AttemptSearch()
}

// ResetFilters returns every filter to its default and searches again
func (c *Coordinator) ResetFilters() tea.Cmd {
	group := c.state.FilterGroup
	next := domain.DefaultSearchState()
	next.FilterGroup = group
	next.Searching = c.state.Searching
	next.HadErrors = c.state.HadErrors
	c.state = next
	c.rawQuery = ""
	c.appendNext = false
	c.replaceURL = false
	return c.AttemptSearch()
}

// PageForward requests the next page. In infinite-scroll mode the page is
// appended to the collection, otherwise it replaces it.
func (c *Coordinator) PageForward() tea.Cmd {
	if !c.hasMore {
		return nil
	}
	if c.settings.InfiniteScroll {
		c.state.Offset = c.collection.Len()
		c.state.OffsetTimestamp = c.lastTimestamp
		c.appendNext = true
	} else {
		c.state.Offset += c.settings.PageSize
		c.appendNext = false
	}
	c.replaceURL = false
	return c.AttemptSearch()
}

// PageBackward requests the previous page; it always replaces the collection
func (c *Coordinator) PageBackward() tea.Cmd {
	if c.state.Offset == 0 {
		return nil
	}
	c.state.Offset = max(0, c.state.Offset-c.settings.PageSize)
	c.state.OffsetTimestamp = ""
	c.appendNext = false
	c.replaceURL = false
	return c.AttemptSearch()
}

// ApplyURLState restores state from a history entry. Contributors that
// implement URLParameterApplier restore their part from params. The search
// that follows replaces the entry instead of pushing a new one.
func (c *Coordinator) ApplyURLState(s domain.SearchState, params url.Values) tea.Cmd {
	next := s.Clone()
	next.Query = EffectiveQuery(next.Query, c.settings.MinQueryLength)
	next.Searching = c.state.Searching
	next.HadErrors = c.state.HadErrors
	c.state = next
	c.rawQuery = s.Query
	c.appendNext = false
	for _, p := range c.contributors {
		if a, ok := p.(URLParameterApplier); ok {
			a.ApplyURLParams(params)
		}
	}
	c.replaceURL = true
	return c.AttemptSearch()
}

// APIParams merges the filter parameters with every contributor's API parameters
func (c *Coordinator) APIParams() url.Values {
	params := router.EncodeState(c.state)
	if c.settings.PageSize > 0 {
		params.Set(ParamLimit, strconv.Itoa(c.settings.PageSize))
	}
	for _, p := range c.contributors {
		merge(params, p.APIParams())
	}
	return params
}

// URLParams merges the filter parameters with every contributor's URL parameters
func (c *Coordinator) URLParams() url.Values {
	params := router.EncodeState(c.state)
	for _, p := range c.contributors {
		merge(params, p.URLParams())
	}
	return params
}

// Close aborts any in-flight request
func (c *Coordinator) Close() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.timerGen++
}

// issue aborts the in-flight request and sends exactly one new one
func (c *Coordinator) issue() tea.Cmd {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
		c.logger.Debug("aborted in-flight search", "generation", c.requestGen)
	}

	c.requestGen++
	gen := c.requestGen
	ctx, cancel := context.WithCancel(c.ctx)
	c.cancel = cancel

	appendPage := c.appendNext
	c.appendNext = false
	replace := c.replaceURL
	c.replaceURL = false
	params := c.APIParams()
	req := searchapi.Request{Params: params, FilterGroup: c.state.FilterGroup}

	c.state.WantsToSearch = false
	c.state.Searching = true
	c.setPhase(PhaseSearching)
	c.bus.Publish(domain.SearchStartedEvent{Generation: gen, Params: params})
	c.logger.Debug("search issued", "generation", gen, "params", params.Encode())

	searcher := c.searcher
	return func() tea.Msg {
		resp, err := searcher.Search(ctx, req)
		return responseMsg{gen: gen, resp: resp, err: err, append: appendPage, replace: replace}
	}
}

func (c *Coordinator) handleResponse(msg responseMsg) tea.Cmd {
	if msg.gen != c.requestGen {
		c.logger.Debug("dropping stale search response", "generation", msg.gen, "current", c.requestGen)
		return nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.state.Searching = false

	switch {
	case errors.Is(msg.err, context.Canceled):
		// Aborted, never surfaced
		return c.settle()

	case msg.err != nil:
		c.state.HadErrors = true
		c.logger.Warn("search failed", "generation", msg.gen, "error", msg.err)
		c.setPhase(PhaseError)
		c.bus.Publish(domain.SearchErrorEvent{Generation: msg.gen, Err: msg.err})
		return c.settle()
	}

	if c.state.WantsToSearch {
		// Newer intent arrived while this request was running
		return c.settle()
	}

	resp := msg.resp
	if resp == nil {
		resp = &searchapi.Response{}
	}
	c.state.HadErrors = false
	if msg.append {
		c.collection.Append(resp.Items)
	} else {
		c.collection.Reset(resp.Items)
	}
	c.count = resp.Count
	c.hasMore = resp.HasMore
	c.lastTimestamp = resp.LastTimestamp

	c.setPhase(PhaseIdle)
	c.bus.Publish(domain.ResultsChangedEvent{
		Count:         resp.Count,
		Loaded:        c.collection.Len(),
		HasMore:       resp.HasMore,
		Appended:      msg.append,
		Generation:    msg.gen,
		LastTimestamp: resp.LastTimestamp,
	})

	if c.router != nil {
		params := c.URLParams()
		if msg.replace {
			c.router.Replace(params, c.state.FilterGroup)
		} else {
			c.router.Sync(params, c.state.FilterGroup)
		}
	}
	return nil
}

// settle leaves Searching. Pending intent does not issue at once: it re-arms
// the debounce timer with the base delay, so a user still typing gets one
// more quiet period before the restart. Otherwise the coordinator goes idle.
func (c *Coordinator) settle() tea.Cmd {
	if c.state.WantsToSearch {
		return c.AttemptSearch()
	}
	c.setPhase(PhaseIdle)
	return nil
}

// resetPaging returns to the first page after a user change; such a search
// is new history, never a replacement of a restored entry
func (c *Coordinator) resetPaging() {
	c.state.Offset = 0
	c.state.OffsetTimestamp = ""
	c.appendNext = false
	c.replaceURL = false
}

func (c *Coordinator) setPhase(p Phase) {
	if c.phase == p {
		return
	}
	c.phase = p
	c.bus.Publish(domain.StateChangedEvent{Phase: p.String(), State: c.state.Clone()})
}

func merge(dst, src url.Values) {
	for k, vs := range src {
		dst[k] = slices.Clone(vs)
	}
}

func normaliseIDs(ids []int) []int {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

func toggleID(ids []int, id int) []int {
	if i := slices.Index(ids, id); i >= 0 {
		return slices.Delete(slices.Clone(ids), i, i+1)
	}
	return append(slices.Clone(ids), id)
}
