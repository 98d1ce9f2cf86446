package views

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wechange-eg/cosinnus-core-sub001/internal/domain"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/eventbus"
)

// Pager moves the search window; implemented by the search coordinator
type Pager interface {
	PageForward() tea.Cmd
	PageBackward() tea.Cmd
}

// Paginator turns paging controls and scroll-end signals into page requests.
// A scroll-end signal is honoured at most once per render cycle.
type Paginator struct {
	pager    Pager
	styles   *Styles
	infinite bool

	latched bool
	count   int
	loaded  int
	hasMore bool
	subs    eventbus.Subscriptions
}

// NewPaginator creates a paginator that re-arms on every results change and
// on search errors
func NewPaginator(bus eventbus.EventBus, pager Pager, styles *Styles, infinite bool) *Paginator {
	p := &Paginator{pager: pager, styles: styles, infinite: infinite}
	p.subs.Add(bus.Subscribe(eventbus.EventResultsChanged, func(e eventbus.DomainEvent) {
		ev := e.(domain.ResultsChangedEvent)
		p.count, p.loaded, p.hasMore = ev.Count, ev.Loaded, ev.HasMore
		p.Rendered()
	}))
	// a failed page leaves the results unchanged; scrolling may retry
	p.subs.Add(bus.Subscribe(eventbus.EventSearchError, func(eventbus.DomainEvent) {
		p.Rendered()
	}))
	return p
}

// Close releases the event subscriptions
func (p *Paginator) Close() {
	p.subs.Close()
}

// Next requests the following page
func (p *Paginator) Next() tea.Cmd {
	return p.pager.PageForward()
}

// Prev requests the preceding page; infinite scroll has no way back
func (p *Paginator) Prev() tea.Cmd {
	if p.infinite {
		return nil
	}
	return p.pager.PageBackward()
}

// ScrollEnd reports that the list was scrolled to its end
func (p *Paginator) ScrollEnd() tea.Cmd {
	if p.latched || !p.hasMore {
		return nil
	}
	cmd := p.pager.PageForward()
	if cmd != nil {
		p.latched = true
	}
	return cmd
}

// Rendered re-arms the scroll-end latch
func (p *Paginator) Rendered() {
	p.latched = false
}

// Latched reports whether a scroll-end page request is outstanding
func (p *Paginator) Latched() bool {
	return p.latched
}

// HasMore reports whether further pages exist
func (p *Paginator) HasMore() bool {
	return p.hasMore
}

// View renders the paging summary
func (p *Paginator) View(offset int) string {
	if p.count == 0 {
		return ""
	}
	if p.infinite {
		s := fmt.Sprintf("%d of %d loaded", p.loaded, p.count)
		if p.hasMore {
			s += " · scroll for more"
		}
		return p.styles.Scroll.Render(s)
	}
	first := offset + 1
	last := offset + p.loaded
	s := fmt.Sprintf("%d-%d of %d", first, last, p.count)
	if offset > 0 {
		s = "← " + s
	}
	if p.hasMore {
		s += " →"
	}
	return p.styles.Scroll.Render("[ " + s + " ]")
}
