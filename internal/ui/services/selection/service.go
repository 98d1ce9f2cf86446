package selection

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/wechange-eg/cosinnus-core-sub001/internal/domain"
)

// Collection is the part of the result collection the service drives
type Collection interface {
	Len() int
	At(i int) (domain.Result, bool)
	Selected() (domain.Result, bool)
	Select(id string)
	Deselect()
	Hover(id string)
}

// Service handles selection and hover logic. The collection enforces the
// single-selection invariant; the service maps list positions and mouse
// motion onto it and throttles hover updates.
type Service struct {
	state   *State
	coll    Collection
	limiter *rate.Limiter
}

// NewService creates a new selection service allowing hoverRate hover updates per second
func NewService(coll Collection, hoverRate int) *Service {
	if hoverRate < 1 {
		hoverRate = 1
	}
	return &Service{
		state:   &State{},
		coll:    coll,
		limiter: rate.NewLimiter(rate.Limit(hoverRate), 1),
	}
}

// Toggle selects the result at index, or deselects it when it is already selected
func (s *Service) Toggle(index int) {
	r, ok := s.coll.At(index)
	if !ok {
		return
	}
	if r.Selected {
		s.coll.Deselect()
		return
	}
	s.coll.Select(r.ID)
}

// Select selects a result by id
func (s *Service) Select(id string) {
	s.coll.Select(id)
}

// DeselectAll clears the selection
func (s *Service) DeselectAll() {
	s.coll.Deselect()
}

// GetSelected returns the selected result
func (s *Service) GetSelected() (domain.Result, bool) {
	return s.coll.Selected()
}

// HasSelection returns true if anything is selected
func (s *Service) HasSelection() bool {
	_, ok := s.coll.Selected()
	return ok
}

// HoverAt hovers the result at a list index
func (s *Service) HoverAt(index int, now time.Time) bool {
	r, ok := s.coll.At(index)
	if !ok {
		return s.Hover("", now)
	}
	return s.Hover(r.ID, now)
}

// Hover applies a hover when the rate allows it. A throttled hover is kept
// as pending and reported with false; Flush applies it later.
func (s *Service) Hover(id string, now time.Time) bool {
	if !s.limiter.AllowN(now, 1) {
		s.state.PendingHover = id
		s.state.HasPending = true
		return false
	}
	s.state.HasPending = false
	s.coll.Hover(id)
	return true
}

// Flush applies the pending hover if the rate allows it now
func (s *Service) Flush(now time.Time) bool {
	if !s.state.HasPending {
		return true
	}
	return s.Hover(s.state.PendingHover, now)
}

// Pending reports whether a throttled hover is waiting
func (s *Service) Pending() bool {
	return s.state.HasPending
}
