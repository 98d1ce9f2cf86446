package router

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/wechange-eg/cosinnus-core-sub001/internal/domain"
)

// Viewport parameters, south-west and north-east corners
const (
	ParamSouth = "sw_lat"
	ParamWest  = "sw_lon"
	ParamNorth = "ne_lat"
	ParamEast  = "ne_lon"
)

var errNoBounds = errors.New("bounds parameters missing")

// EncodeBounds renders a viewport as its four parameters
func EncodeBounds(b domain.Bounds) url.Values {
	return url.Values{
		ParamSouth: {formatCoord(b.South)},
		ParamWest:  {formatCoord(b.West)},
		ParamNorth: {formatCoord(b.North)},
		ParamEast:  {formatCoord(b.East)},
	}
}

// DecodeBounds reads a viewport; all four parameters must be present and numeric
func DecodeBounds(v url.Values) (domain.Bounds, error) {
	keys := []string{ParamSouth, ParamWest, ParamNorth, ParamEast}
	var coords [4]float64
	for i, key := range keys {
		if !v.Has(key) {
			return domain.Bounds{}, errNoBounds
		}
		f, err := DecodeFloat(v.Get(key))
		if err != nil {
			return domain.Bounds{}, &domain.ValidationError{Field: key, Value: v.Get(key), Err: err}
		}
		coords[i] = f
	}
	b := domain.Bounds{South: coords[0], West: coords[1], North: coords[2], East: coords[3]}
	if b.South > b.North || b.West > b.East {
		return domain.Bounds{}, &domain.ValidationError{Field: ParamSouth, Value: v.Get(ParamSouth), Err: errors.New("inverted bounds")}
	}
	return b, nil
}

// HasBounds reports whether any viewport parameter is present
func HasBounds(v url.Values) bool {
	return v.Has(ParamSouth) || v.Has(ParamWest) || v.Has(ParamNorth) || v.Has(ParamEast)
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
