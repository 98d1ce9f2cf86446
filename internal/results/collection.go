package results

import (
	"sort"

	"github.com/wechange-eg/cosinnus-core-sub001/internal/domain"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/eventbus"
)

// Collection is the canonical, relevance-ordered set of search hits.
// Every view reads results from here and every mutation is broadcast on the
// bus, so hovered/selected are one truth shared by all views.
// It is owned by the UI loop and not safe for concurrent use.
type Collection struct {
	bus   eventbus.EventBus
	order []string // ids, relevance descending, stable
	byID  map[string]*domain.Result

	selected string
	hovered  string
}

// NewCollection creates an empty collection publishing on bus
func NewCollection(bus eventbus.EventBus) *Collection {
	return &Collection{
		bus:  bus,
		byID: make(map[string]*domain.Result),
	}
}

// Len returns the number of results
func (c *Collection) Len() int {
	return len(c.order)
}

// Get returns a copy of the result with the given id
func (c *Collection) Get(id string) (domain.Result, bool) {
	r, ok := c.byID[id]
	if !ok {
		return domain.Result{}, false
	}
	return *r, true
}

// Has reports whether id is present
func (c *Collection) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// All returns copies of every result in order
func (c *Collection) All() []domain.Result {
	out := make([]domain.Result, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.byID[id])
	}
	return out
}

// At returns the result at position i
func (c *Collection) At(i int) (domain.Result, bool) {
	if i < 0 || i >= len(c.order) {
		return domain.Result{}, false
	}
	return *c.byID[c.order[i]], true
}

// IndexOf returns the position of id or -1
func (c *Collection) IndexOf(id string) int {
	for i, oid := range c.order {
		if oid == id {
			return i
		}
	}
	return -1
}

// Selected returns the selected result, if any
func (c *Collection) Selected() (domain.Result, bool) {
	if c.selected == "" {
		return domain.Result{}, false
	}
	return c.Get(c.selected)
}

// Hovered returns the hovered result, if any
func (c *Collection) Hovered() (domain.Result, bool) {
	if c.hovered == "" {
		return domain.Result{}, false
	}
	return c.Get(c.hovered)
}

// Add inserts r at its relevance position. Adding an id that is already
// present removes the old entry first.
func (c *Collection) Add(r domain.Result) {
	if _, exists := c.byID[r.ID]; exists {
		c.Remove(r.ID)
	}
	// selection and hover only change through Select and Hover
	r.Selected = false
	r.Hovered = false
	c.insert(r)
	c.bus.Publish(domain.ResultAddedEvent{Result: *c.byID[r.ID], Index: c.IndexOf(r.ID)})
}

// Append adds a page of results behind the existing ones
func (c *Collection) Append(items []domain.Result) {
	for _, r := range items {
		c.Add(r)
	}
}

// Remove deletes the result with the given id. A selected result is
// deselected (and that update published) before it is removed.
func (c *Collection) Remove(id string) bool {
	r, ok := c.byID[id]
	if !ok {
		return false
	}
	if r.Selected {
		c.setFlag(id, func(r *domain.Result) { r.Selected = false })
		c.selected = ""
	}
	if c.hovered == id {
		c.hovered = ""
	}

	removed := *r
	delete(c.byID, id)
	c.order = deleteID(c.order, id)
	c.bus.Publish(domain.ResultRemovedEvent{Result: removed})
	return true
}

// Reset replaces the whole set: every old result is dropped, then every new
// one added. A selected result that survives keeps its selection; one that
// does not is deselected first.
func (c *Collection) Reset(items []domain.Result) {
	previous := c.All()

	incoming := make(map[string]bool, len(items))
	for _, r := range items {
		incoming[r.ID] = true
	}

	keepSelected := c.selected != "" && incoming[c.selected]
	if c.selected != "" && !keepSelected {
		c.setFlag(c.selected, func(r *domain.Result) { r.Selected = false })
		c.selected = ""
	}
	keptHover := c.hovered != "" && incoming[c.hovered]
	if !keptHover {
		c.hovered = ""
	}

	c.order = c.order[:0]
	c.byID = make(map[string]*domain.Result, len(items))
	for _, r := range items {
		r.Selected = keepSelected && r.ID == c.selected
		r.Hovered = keptHover && r.ID == c.hovered
		if _, dup := c.byID[r.ID]; dup {
			c.order = deleteID(c.order, r.ID)
		}
		c.insert(r)
	}

	c.bus.Publish(domain.CollectionResetEvent{Previous: previous, Current: c.All()})
}

// Clear removes every result
func (c *Collection) Clear() {
	c.Reset(nil)
}

// Update applies fn to the result with the given id and publishes the change.
// The id cannot be changed through Update.
func (c *Collection) Update(id string, fn func(r *domain.Result)) bool {
	r, ok := c.byID[id]
	if !ok {
		return false
	}
	before := r.Clone()
	next := r.Clone()
	fn(&next)
	next.ID = id
	// Highlight flags go through Select/Hover so the single-owner invariant holds
	next.Selected = before.Selected
	next.Hovered = before.Hovered
	if next.Relevance < 0 {
		next.Relevance = 0
	}

	changed := domain.ChangedFields(before, next)
	if len(changed) == 0 {
		return true
	}
	*r = next
	if before.Relevance != next.Relevance {
		c.order = deleteID(c.order, id)
		c.order = c.insertPosition(c.order, next)
	}
	c.bus.Publish(domain.ResultUpdatedEvent{Result: next, Changed: changed})
	return true
}

// Select marks id as the single selected result. Selecting the already
// selected result is a no-op; an unknown id only clears the selection.
func (c *Collection) Select(id string) {
	if id == c.selected {
		return
	}
	if c.selected != "" {
		prev := c.selected
		c.selected = ""
		c.setFlag(prev, func(r *domain.Result) { r.Selected = false })
	}
	if _, ok := c.byID[id]; !ok {
		return
	}
	c.selected = id
	c.setFlag(id, func(r *domain.Result) { r.Selected = true })
}

// Deselect clears the selection
func (c *Collection) Deselect() {
	c.Select("")
}

// Hover marks id as hovered, unhovering the previous one
func (c *Collection) Hover(id string) {
	if id == c.hovered {
		return
	}
	if c.hovered != "" {
		prev := c.hovered
		c.hovered = ""
		c.setFlag(prev, func(r *domain.Result) { r.Hovered = false })
	}
	if _, ok := c.byID[id]; !ok {
		return
	}
	c.hovered = id
	c.setFlag(id, func(r *domain.Result) { r.Hovered = true })
}

// Unhover clears the hover mark
func (c *Collection) Unhover() {
	c.Hover("")
}

// setFlag mutates a highlight flag and publishes the change
func (c *Collection) setFlag(id string, fn func(r *domain.Result)) {
	r, ok := c.byID[id]
	if !ok {
		return
	}
	before := *r
	fn(r)
	changed := domain.ChangedFields(before, *r)
	if len(changed) == 0 {
		return
	}
	c.bus.Publish(domain.ResultUpdatedEvent{Result: *r, Changed: changed})
}

func (c *Collection) insert(r domain.Result) {
	if r.Relevance < 0 {
		r.Relevance = 0
	}
	stored := r
	c.byID[r.ID] = &stored
	c.order = c.insertPosition(c.order, stored)
}

// insertPosition places r after every result with relevance >= its own
func (c *Collection) insertPosition(order []string, r domain.Result) []string {
	i := sort.Search(len(order), func(i int) bool {
		return c.byID[order[i]].Relevance < r.Relevance
	})
	order = append(order, "")
	copy(order[i+1:], order[i:])
	order[i] = r.ID
	return order
}

func deleteID(order []string, id string) []string {
	for i, oid := range order {
		if oid == id {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}
