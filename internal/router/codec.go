package router

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/wechange-eg/cosinnus-core-sub001/internal/domain"
)

// Query parameter names shared by the URL and the search endpoint
const (
	ParamQuery           = "q"
	ParamTopics          = "topics"
	ParamSDGs            = "sdgs"
	ParamManagedTags     = "managed_tags"
	ParamOffset          = "offset"
	ParamOffsetTimestamp = "offset_timestamp"
	ParamLimit           = "limit" // endpoint only, never mirrored into the URL
)

// ListParams are always decoded into integer arrays
var ListParams = []string{ParamTopics, ParamSDGs, ParamManagedTags}

var errNotBool = errors.New("not a boolean")
var errNotInt = errors.New("not an integer")

// EncodeState renders the user-controlled part of a search state as URL parameters.
// Booleans become "true"/"false"; id lists become comma-joined integers.
func EncodeState(s domain.SearchState) url.Values {
	v := url.Values{}
	if s.Query != "" {
		v.Set(ParamQuery, s.Query)
	}
	for _, t := range domain.FilterTypes {
		v.Set(t.String(), strconv.FormatBool(s.Types[t]))
	}
	if len(s.Topics) > 0 {
		v.Set(ParamTopics, JoinInts(s.Topics))
	}
	if len(s.SDGs) > 0 {
		v.Set(ParamSDGs, JoinInts(s.SDGs))
	}
	if len(s.ManagedTags) > 0 {
		v.Set(ParamManagedTags, JoinInts(s.ManagedTags))
	}
	if s.Offset > 0 {
		v.Set(ParamOffset, strconv.Itoa(s.Offset))
	}
	if s.OffsetTimestamp != "" {
		v.Set(ParamOffsetTimestamp, s.OffsetTimestamp)
	}
	return v
}

// DecodeState parses URL parameters into a search state. A malformed field
// falls back to its default and is reported; the other fields are kept.
func DecodeState(v url.Values) (domain.SearchState, []error) {
	s := domain.DefaultSearchState()
	var errs []error

	if v.Has(ParamQuery) {
		s.Query = v.Get(ParamQuery)
	}

	for _, t := range domain.FilterTypes {
		key := t.String()
		if !v.Has(key) {
			continue
		}
		b, err := decodeBool(v.Get(key))
		if err != nil {
			errs = append(errs, &domain.ValidationError{Field: key, Value: v.Get(key), Err: err})
			continue
		}
		s.Types[t] = b
	}

	lists := map[string]*[]int{
		ParamTopics:      &s.Topics,
		ParamSDGs:        &s.SDGs,
		ParamManagedTags: &s.ManagedTags,
	}
	for _, key := range ListParams {
		dst := lists[key]
		*dst = []int{}
		if !v.Has(key) {
			continue
		}
		ids, err := DecodeIntList(v.Get(key))
		if err != nil {
			errs = append(errs, &domain.ValidationError{Field: key, Value: v.Get(key), Err: err})
			continue
		}
		*dst = ids
	}

	if v.Has(ParamOffset) {
		n, err := decodeInt(v.Get(ParamOffset))
		if err != nil || n < 0 {
			if err == nil {
				err = fmt.Errorf("negative offset")
			}
			errs = append(errs, &domain.ValidationError{Field: ParamOffset, Value: v.Get(ParamOffset), Err: err})
		} else {
			s.Offset = n
		}
	}
	if v.Has(ParamOffsetTimestamp) {
		s.OffsetTimestamp = v.Get(ParamOffsetTimestamp)
	}
	return s, errs
}

// DecodeValue returns the JSON value of raw when raw is valid JSON, raw itself otherwise
func DecodeValue(raw string) any {
	if raw != "" && gjson.Valid(raw) {
		return gjson.Parse(raw).Value()
	}
	return raw
}

// ParseQuery splits a query string into key/value pairs with JSON-decoded values
func ParseQuery(rawQuery string) (map[string]any, error) {
	v, err := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse query string: %w", err)
	}
	out := make(map[string]any, len(v))
	for key := range v {
		out[key] = DecodeValue(v.Get(key))
	}
	return out, nil
}

// DecodeIntList coerces "", "3", "3,4", "[3,4]" into an integer array
func DecodeIntList(raw string) ([]int, error) {
	out := []int{}
	switch val := DecodeValue(strings.TrimSpace(raw)).(type) {
	case float64:
		n, err := toInt(val)
		if err != nil {
			return []int{}, err
		}
		return append(out, n), nil
	case []any:
		for _, item := range val {
			f, ok := item.(float64)
			if !ok {
				return []int{}, errNotInt
			}
			n, err := toInt(f)
			if err != nil {
				return []int{}, err
			}
			out = append(out, n)
		}
		return out, nil
	case string:
		for _, part := range strings.Split(val, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			n, err := strconv.Atoi(part)
			if err != nil {
				return []int{}, errNotInt
			}
			out = append(out, n)
		}
		return out, nil
	case nil:
		return out, nil
	default:
		return []int{}, errNotInt
	}
}

// JoinInts renders ids as "1,2,3"
func JoinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

// DecodeFloat parses a JSON number parameter
func DecodeFloat(raw string) (float64, error) {
	f, ok := DecodeValue(raw).(float64)
	if !ok {
		return 0, fmt.Errorf("not a number")
	}
	return f, nil
}

func decodeBool(raw string) (bool, error) {
	b, ok := DecodeValue(raw).(bool)
	if !ok {
		return false, errNotBool
	}
	return b, nil
}

func decodeInt(raw string) (int, error) {
	f, ok := DecodeValue(raw).(float64)
	if !ok {
		return 0, errNotInt
	}
	return toInt(f)
}

// toInt accepts whole numbers that fit into an int
func toInt(f float64) (int, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, errNotInt
	}
	if f < math.MinInt || f >= -math.MinInt {
		return 0, errNotInt
	}
	return int(f), nil
}
