package router

import (
	"log/slog"
	"net/url"
	"path"
	"strings"

	"github.com/wechange-eg/cosinnus-core-sub001/internal/domain"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/eventbus"
)

// Router mirrors search state into the history and back.
// The first Sync after start replaces the current entry, every later Sync
// pushes a new one. Replace never pushes.
type Router struct {
	bus      eventbus.EventBus
	history  History
	basePath string // e.g. "/map/"
	synced   bool
	logger   *slog.Logger
}

// Location is a decoded history entry
type Location struct {
	State  domain.SearchState
	Params url.Values // raw parameters, for contributors owning extra keys
	URL    string
	Errors []error
}

// New creates a router writing into history under basePath
func New(bus eventbus.EventBus, history History, basePath string, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if !strings.HasSuffix(basePath, "/") {
		basePath += "/"
	}
	return &Router{
		bus:      bus,
		history:  history,
		basePath: basePath,
		logger:   logger,
	}
}

// Sync writes params into the history: replace on the first call, push afterwards
func (r *Router) Sync(params url.Values, filterGroup string) {
	u := r.build(params, filterGroup)
	if !r.synced {
		r.synced = true
		r.history.Replace(u)
		r.publish(u, false)
		return
	}
	r.history.Push(u)
	r.publish(u, true)
}

// Replace rewrites the current entry without creating history
func (r *Router) Replace(params url.Values, filterGroup string) {
	u := r.build(params, filterGroup)
	r.synced = true
	r.history.Replace(u)
	r.publish(u, false)
}

// Current decodes the current entry
func (r *Router) Current() Location {
	return r.decode(r.history.Location())
}

// URL returns the current entry as a string
func (r *Router) URL() string {
	return r.history.Location().String()
}

// Back moves one entry back and decodes it
func (r *Router) Back() (Location, bool) {
	u, ok := r.history.Back()
	if !ok {
		return Location{}, false
	}
	r.publish(u, false)
	return r.decode(u), true
}

// Forward moves one entry forward and decodes it
func (r *Router) Forward() (Location, bool) {
	u, ok := r.history.Forward()
	if !ok {
		return Location{}, false
	}
	r.publish(u, false)
	return r.decode(u), true
}

func (r *Router) build(params url.Values, filterGroup string) *url.URL {
	p := r.basePath
	if filterGroup != "" {
		p = path.Join(r.basePath, filterGroup) + "/"
	}
	return &url.URL{Path: p, RawQuery: params.Encode()}
}

func (r *Router) decode(u *url.URL) Location {
	state, errs := DecodeState(u.Query())
	for _, err := range errs {
		r.logger.Warn("ignoring malformed url parameter", "error", err)
	}
	rest := strings.Trim(strings.TrimPrefix(u.Path, r.basePath), "/")
	if rest != "" {
		state.FilterGroup = rest
	}
	return Location{State: state, Params: u.Query(), URL: u.String(), Errors: errs}
}

func (r *Router) publish(u *url.URL, pushed bool) {
	if r.bus != nil {
		r.bus.Publish(domain.URLChangedEvent{URL: u.String(), Pushed: pushed})
	}
}
