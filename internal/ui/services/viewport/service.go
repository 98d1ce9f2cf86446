package viewport

import (
	"net/url"

	"github.com/wechange-eg/cosinnus-core-sub001/internal/domain"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/eventbus"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/router"
)

// Service owns the map viewport and contributes it to every search
type Service struct {
	bus    eventbus.EventBus
	bounds domain.Bounds
	start  domain.Bounds
}

// NewService creates a viewport service starting at bounds
func NewService(bus eventbus.EventBus, start domain.Bounds) *Service {
	return &Service{bus: bus, bounds: start, start: start}
}

// Bounds returns the current viewport
func (s *Service) Bounds() domain.Bounds {
	return s.bounds
}

// APIParams sends the viewport to the search endpoint
func (s *Service) APIParams() url.Values {
	return router.EncodeBounds(s.bounds)
}

// URLParams mirrors the viewport into the URL
func (s *Service) URLParams() url.Values {
	return router.EncodeBounds(s.bounds)
}

// ApplyURLParams restores the viewport from a history entry. Entries without
// (or with malformed) bounds return to the start viewport.
func (s *Service) ApplyURLParams(params url.Values) {
	b, err := router.DecodeBounds(params)
	if err != nil {
		b = s.start
	}
	s.set(b)
}

// Set moves the viewport; it reports whether anything changed
func (s *Service) Set(b domain.Bounds) bool {
	return s.set(clamp(b))
}

// Reset returns to the start viewport
func (s *Service) Reset() bool {
	return s.set(s.start)
}

// Pan moves the viewport by a quarter of its span
func (s *Service) Pan(dir Direction) bool {
	b := s.bounds
	dLat := (b.North - b.South) * panStep
	dLon := (b.East - b.West) * panStep
	switch dir {
	case DirectionNorth:
		dLat = min(dLat, maxLat-b.North)
		b.North += dLat
		b.South += dLat
	case DirectionSouth:
		dLat = min(dLat, b.South-minLat)
		b.North -= dLat
		b.South -= dLat
	case DirectionEast:
		dLon = min(dLon, maxLon-b.East)
		b.East += dLon
		b.West += dLon
	case DirectionWest:
		dLon = min(dLon, b.West-minLon)
		b.East -= dLon
		b.West -= dLon
	}
	return s.set(b)
}

// Zoom scales the viewport around its center; factor < 1 zooms in
func (s *Service) Zoom(factor float64) bool {
	if factor <= 0 {
		return false
	}
	b := s.bounds
	cLat := (b.North + b.South) / 2
	cLon := (b.East + b.West) / 2
	hLat := max((b.North-b.South)*factor/2, minSpan)
	hLon := max((b.East-b.West)*factor/2, minSpan)
	return s.set(clamp(domain.Bounds{
		South: cLat - hLat,
		North: cLat + hLat,
		West:  cLon - hLon,
		East:  cLon + hLon,
	}))
}

// Fit moves the viewport to enclose every located result, with a margin
func (s *Service) Fit(results []domain.Result) bool {
	var b domain.Bounds
	found := false
	for _, r := range results {
		if !r.HasLocation() {
			continue
		}
		if !found {
			b = domain.Bounds{South: *r.Lat, North: *r.Lat, West: *r.Lon, East: *r.Lon}
			found = true
			continue
		}
		b.South = min(b.South, *r.Lat)
		b.North = max(b.North, *r.Lat)
		b.West = min(b.West, *r.Lon)
		b.East = max(b.East, *r.Lon)
	}
	if !found {
		return false
	}
	mLat := max((b.North-b.South)*0.1, minSpan)
	mLon := max((b.East-b.West)*0.1, minSpan)
	b.South -= mLat
	b.North += mLat
	b.West -= mLon
	b.East += mLon
	return s.set(clamp(b))
}

func (s *Service) set(b domain.Bounds) bool {
	if b == s.bounds {
		return false
	}
	s.bounds = b
	if s.bus != nil {
		s.bus.Publish(domain.ViewportChangedEvent{Bounds: b})
	}
	return true
}

func clamp(b domain.Bounds) domain.Bounds {
	b.South = max(b.South, minLat)
	b.North = min(b.North, maxLat)
	b.West = max(b.West, minLon)
	b.East = min(b.East, maxLon)
	return b
}
