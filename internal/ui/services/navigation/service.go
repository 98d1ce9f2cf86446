package navigation

// Service moves the list cursor and keeps it inside the visible window
type Service struct {
	state   *State
	countFn func() int // number of list entries
}

// NewService creates a new navigation service over countFn entries
func NewService(countFn func() int) *Service {
	return &Service{
		state: &State{
			ViewportHeight: 20, // Default, will be updated
		},
		countFn: countFn,
	}
}

// GetCursor returns current cursor position
func (s *Service) GetCursor() int {
	return s.state.Cursor
}

// GetViewportOffset returns current viewport offset
func (s *Service) GetViewportOffset() int {
	return s.state.ViewportOffset
}

// GetViewportHeight returns current viewport height
func (s *Service) GetViewportHeight() int {
	return s.state.ViewportHeight
}

// SetViewportHeight updates the number of visible entries
func (s *Service) SetViewportHeight(height int) {
	s.state.ViewportHeight = max(height, 1)
	s.ensureVisible()
}

// Navigate handles navigation in a direction; it reports whether the cursor moved
func (s *Service) Navigate(direction Direction) bool {
	oldCursor := s.state.Cursor
	pageSize := max(s.state.ViewportHeight-1, 1)

	switch direction {
	case DirectionUp:
		s.state.Cursor = s.clampIndex(s.state.Cursor - 1)
	case DirectionDown:
		s.state.Cursor = s.clampIndex(s.state.Cursor + 1)
	case DirectionPageUp:
		s.state.Cursor = s.clampIndex(s.state.Cursor - pageSize)
	case DirectionPageDown:
		s.state.Cursor = s.clampIndex(s.state.Cursor + pageSize)
	case DirectionHome:
		s.state.Cursor = 0
	case DirectionEnd:
		s.state.Cursor = s.maxIndex()
	}
	s.ensureVisible()
	return oldCursor != s.state.Cursor
}

// MoveToIndex moves cursor to specific index
func (s *Service) MoveToIndex(index int) {
	s.state.Cursor = s.clampIndex(index)
	s.ensureVisible()
}

// Reset returns to the top of the list, used when the result set is replaced
func (s *Service) Reset() {
	s.state.Cursor = 0
	s.state.ViewportOffset = 0
}

// Clamp pulls the cursor back inside the list after it shrank
func (s *Service) Clamp() {
	s.state.Cursor = s.clampIndex(s.state.Cursor)
	s.ensureVisible()
}

// AtEnd reports whether the last entry is visible
func (s *Service) AtEnd() bool {
	count := s.count()
	return count > 0 && s.state.ViewportOffset+s.state.ViewportHeight >= count
}

func (s *Service) count() int {
	if s.countFn == nil {
		return 0
	}
	return s.countFn()
}

func (s *Service) maxIndex() int {
	return max(s.count()-1, 0)
}

func (s *Service) clampIndex(index int) int {
	if index < 0 {
		return 0
	}
	return min(index, s.maxIndex())
}

func (s *Service) ensureVisible() {
	if s.state.Cursor < s.state.ViewportOffset {
		s.state.ViewportOffset = s.state.Cursor
	} else if s.state.Cursor >= s.state.ViewportOffset+s.state.ViewportHeight {
		s.state.ViewportOffset = s.state.Cursor - s.state.ViewportHeight + 1
	}
	// keep the window full when the list shrank
	if maxOffset := max(s.count()-s.state.ViewportHeight, 0); s.state.ViewportOffset > maxOffset {
		s.state.ViewportOffset = maxOffset
	}
}
