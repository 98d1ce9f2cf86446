package coordinator

import (
	"log/slog"
	"net/url"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wechange-eg/cosinnus-core-sub001/internal/config"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/domain"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/eventbus"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/results"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/router"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/search"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/searchapi"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/ui/services/navigation"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/ui/services/selection"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/ui/services/viewport"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/ui/views"
)

// Options configure the view tree
type Options struct {
	Config   config.Config
	Searcher searchapi.Searcher
	Logger   *slog.Logger
	StartURL *url.URL      // initial history entry; nil starts at the search path
	Ticker   search.Ticker // nil uses tea.Tick
}

// Coordinator builds the view tree around one result collection and keeps
// the services that are not views themselves in step with it
type Coordinator struct {
	// Services
	Bus        eventbus.EventBus
	Results    *results.Collection
	Search     *search.Coordinator
	Router     *router.Router
	Viewport   *viewport.Service
	Selection  *selection.Service
	Navigation *navigation.Service

	// Views
	Styles    *views.Styles
	Tiles     *views.TileList
	Markers   *views.MarkerLayer
	Paginator *views.Paginator
	Panels    *views.Panels

	cfg    config.Config
	logger *slog.Logger
	subs   eventbus.Subscriptions

	phase   search.Phase
	lastErr error
	url     string
}

// NewCoordinator creates a coordinator with all services and views
func NewCoordinator(opts Options) *Coordinator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	cfg := opts.Config
	bus := eventbus.New(logger)
	coll := results.NewCollection(bus)

	start := opts.StartURL
	if start == nil {
		start = &url.URL{Path: cfg.Server.SearchPath}
	}
	r := router.New(bus, router.NewMemoryHistory(start), cfg.Server.SearchPath, logger)
	loc := r.Current()
	initial := loc.State
	if initial.FilterGroup == "" {
		initial.FilterGroup = cfg.Server.FilterGroup
	}

	searchOpts := []search.Option{
		search.WithRouter(r),
		search.WithLogger(logger.With("component", "search")),
		search.WithInitialState(initial),
	}
	if opts.Ticker != nil {
		searchOpts = append(searchOpts, search.WithTicker(opts.Ticker))
	}

	c := &Coordinator{
		Bus:      bus,
		Results:  coll,
		Router:   r,
		Viewport: viewport.NewService(bus, cfg.StartBounds()),
		Styles:   views.NewStyles(),
		cfg:      cfg,
		logger:   logger,
		url:      loc.URL,
	}
	c.Search = search.NewCoordinator(bus, coll, opts.Searcher, Settings(cfg), searchOpts...)
	c.Viewport.ApplyURLParams(loc.Params)
	c.Search.Register(c.Viewport)

	c.Selection = selection.NewService(coll, cfg.UI.HoverRate)
	c.Navigation = navigation.NewService(coll.Len)

	icon := cfg.Icon
	c.Tiles = views.NewTileList(bus, coll, c.Styles, icon)
	c.Markers = views.NewMarkerLayer(bus, c.Styles, icon)
	c.Paginator = views.NewPaginator(bus, c.Search, c.Styles, cfg.Search.InfiniteScroll)
	c.Panels = views.NewPanels(cfg.UI.CompactWidth, c.Styles)

	c.subscribeToEvents()
	return c
}

// Settings derives the search coordinator settings from the configuration
func Settings(cfg config.Config) search.Settings {
	return search.Settings{
		BaseDelay:      cfg.BaseDelay(),
		ExtendedDelay:  cfg.ExtendedDelay(),
		MinQueryLength: cfg.Search.MinQueryLength,
		PageSize:       cfg.Search.PageSize,
		InfiniteScroll: cfg.Search.InfiniteScroll,
	}
}

// subscribeToEvents keeps status and cursor in step with the collection
func (c *Coordinator) subscribeToEvents() {
	c.subs.Add(c.Bus.Subscribe(eventbus.EventResultsChanged, func(e eventbus.DomainEvent) {
		ev := e.(domain.ResultsChangedEvent)
		c.lastErr = nil
		if !ev.Appended {
			c.Navigation.Reset()
		}
	}))
	c.subs.Add(c.Bus.Subscribe(eventbus.EventResultRemoved, func(eventbus.DomainEvent) {
		c.Navigation.Clamp()
	}))
	c.subs.Add(c.Bus.Subscribe(eventbus.EventSearchError, func(e eventbus.DomainEvent) {
		c.lastErr = e.(domain.SearchErrorEvent).Err
	}))
	c.subs.Add(c.Bus.Subscribe(eventbus.EventStateChanged, func(e eventbus.DomainEvent) {
		c.phase = search.ParsePhase(e.(domain.StateChangedEvent).Phase)
	}))
	c.subs.Add(c.Bus.Subscribe(eventbus.EventURLChanged, func(e eventbus.DomainEvent) {
		c.url = e.(domain.URLChangedEvent).URL
	}))
}

// Config returns the configuration the tree was built from
func (c *Coordinator) Config() config.Config {
	return c.cfg
}

// Phase returns the last published search phase
func (c *Coordinator) Phase() search.Phase {
	return c.phase
}

// LastError returns the error of the latest failed search, cleared by the
// next successful one
func (c *Coordinator) LastError() error {
	return c.lastErr
}

// URL returns the current history entry
func (c *Coordinator) URL() string {
	return c.url
}

// Start issues the initial search
func (c *Coordinator) Start() tea.Cmd {
	return c.Search.Start()
}

// Update forwards coordinator messages to the search coordinator
func (c *Coordinator) Update(msg tea.Msg) tea.Cmd {
	return c.Search.Update(msg)
}

// PanMap moves the viewport and searches the new area
func (c *Coordinator) PanMap(dir viewport.Direction) tea.Cmd {
	if !c.Viewport.Pan(dir) {
		return nil
	}
	return c.Search.Restart()
}

// ZoomMap scales the viewport and searches the new area
func (c *Coordinator) ZoomMap(factor float64) tea.Cmd {
	if !c.Viewport.Zoom(factor) {
		return nil
	}
	return c.Search.Restart()
}

// FitMap moves the viewport around the loaded results
func (c *Coordinator) FitMap() tea.Cmd {
	if !c.Viewport.Fit(c.Results.All()) {
		return nil
	}
	return c.Search.Restart()
}

// ResetMap returns to the start viewport
func (c *Coordinator) ResetMap() tea.Cmd {
	if !c.Viewport.Reset() {
		return nil
	}
	return c.Search.Restart()
}

// Back restores the previous history entry
func (c *Coordinator) Back() tea.Cmd {
	loc, ok := c.Router.Back()
	if !ok {
		return nil
	}
	return c.Search.ApplyURLState(loc.State, loc.Params)
}

// Forward restores the next history entry
func (c *Coordinator) Forward() tea.Cmd {
	loc, ok := c.Router.Forward()
	if !ok {
		return nil
	}
	return c.Search.ApplyURLState(loc.State, loc.Params)
}

// ScrollCheck asks for the next page once the list end is visible
func (c *Coordinator) ScrollCheck() tea.Cmd {
	if !c.cfg.Search.InfiniteScroll || !c.Navigation.AtEnd() {
		return nil
	}
	return c.Paginator.ScrollEnd()
}

// Close aborts the in-flight request and releases every subscription
func (c *Coordinator) Close() {
	c.Search.Close()
	c.Tiles.Close()
	c.Markers.Close()
	c.Paginator.Close()
	c.subs.Close()
}
