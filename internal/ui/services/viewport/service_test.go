package viewport

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wechange-eg/cosinnus-core-sub001/internal/domain"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/eventbus"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/router"
)

var germany = domain.Bounds{South: 47, West: 6, North: 55, East: 15}

func TestPanAndZoom(t *testing.T) {
	bus := eventbus.New(nil)
	var moves int
	bus.Subscribe(eventbus.EventViewportChanged, func(eventbus.DomainEvent) { moves++ })
	s := NewService(bus, germany)

	require.True(t, s.Pan(DirectionNorth))
	assert.Equal(t, 49.0, s.Bounds().South)
	assert.Equal(t, 57.0, s.Bounds().North)

	require.True(t, s.Zoom(0.5))
	b := s.Bounds()
	assert.InDelta(t, 4.0, b.North-b.South, 1e-9)
	assert.InDelta(t, 4.5, b.East-b.West, 1e-9)
	assert.InDelta(t, 53.0, (b.North+b.South)/2, 1e-9)

	assert.True(t, s.Reset())
	assert.False(t, s.Reset(), "no change, no event")
	assert.Equal(t, 3, moves)
}

func TestPanStopsAtProjectionEdge(t *testing.T) {
	s := NewService(nil, domain.Bounds{South: 80, West: 170, North: 85, East: 180})
	assert.False(t, s.Pan(DirectionNorth))
	assert.False(t, s.Pan(DirectionEast))
	assert.True(t, s.Pan(DirectionWest))
}

func TestParamsRoundTrip(t *testing.T) {
	s := NewService(nil, germany)
	s.Pan(DirectionEast)

	params := s.URLParams()
	assert.Equal(t, params, s.APIParams())

	other := NewService(nil, germany)
	other.ApplyURLParams(params)
	assert.Equal(t, s.Bounds(), other.Bounds())

	other.ApplyURLParams(url.Values{router.ParamSouth: {"x"}})
	assert.Equal(t, germany, other.Bounds(), "malformed bounds fall back to the start viewport")
}

func TestFit(t *testing.T) {
	lat1, lon1, lat2, lon2 := 50.0, 8.0, 52.0, 13.0
	s := NewService(nil, germany)

	require.True(t, s.Fit([]domain.Result{
		{ID: "a", Lat: &lat1, Lon: &lon1},
		{ID: "b", Lat: &lat2, Lon: &lon2},
		{ID: "c"},
	}))
	b := s.Bounds()
	assert.True(t, b.Contains(lat1, lon1))
	assert.True(t, b.Contains(lat2, lon2))
	assert.Less(t, b.North-b.South, 3.0)

	assert.False(t, s.Fit([]domain.Result{{ID: "c"}}))
}
