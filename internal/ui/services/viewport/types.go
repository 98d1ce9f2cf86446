package viewport

// Direction represents pan directions
type Direction string

const (
	DirectionNorth Direction = "north"
	DirectionSouth Direction = "south"
	DirectionEast  Direction = "east"
	DirectionWest  Direction = "west"
)

// panStep is the share of the visible span moved per pan
const panStep = 0.25

// limits of the projection
const (
	minLat  = -85.0
	maxLat  = 85.0
	minLon  = -180.0
	maxLon  = 180.0
	minSpan = 0.01
)
