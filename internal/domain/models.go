package domain

import (
	"maps"
	"reflect"
	"slices"
	"strings"
)

// ResultType is the kind of a search hit
type ResultType int

// Result kinds known to the portal search
const (
	TypeError ResultType = iota
	TypeGroups
	TypeProjects
	TypeEvents
	TypePeople
	TypeIdeas
	TypeOrganizations
	TypeCloudfile
)

// FilterTypes lists the kinds a user can toggle as search filters, in display order
var FilterTypes = []ResultType{
	TypePeople,
	TypeEvents,
	TypeProjects,
	TypeGroups,
	TypeIdeas,
	TypeOrganizations,
	TypeCloudfile,
}

// String returns the wire name of the kind
func (t ResultType) String() string {
	switch t {
	case TypeGroups:
		return "groups"
	case TypeProjects:
		return "projects"
	case TypeEvents:
		return "events"
	case TypePeople:
		return "people"
	case TypeIdeas:
		return "ideas"
	case TypeOrganizations:
		return "organizations"
	case TypeCloudfile:
		return "cloudfile"
	default:
		return "error"
	}
}

// ParseResultType maps a wire name to a kind; unknown names map to TypeError
func ParseResultType(s string) ResultType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "groups":
		return TypeGroups
	case "projects":
		return TypeProjects
	case "events":
		return TypeEvents
	case "people":
		return TypePeople
	case "ideas":
		return TypeIdeas
	case "organizations":
		return TypeOrganizations
	case "cloudfile":
		return TypeCloudfile
	default:
		return TypeError
	}
}

// Result is one addressable search hit
type Result struct {
	ID          string // "<portal>.<type>.<slug>"
	Type        ResultType
	Lat         *float64
	Lon         *float64
	Relevance   float64
	Title       string
	URL         string
	Address     string
	Description string
	Fields      map[string]any // remaining backend fields, display only

	Hovered  bool
	Selected bool
}

// Portal returns the portal segment of the composite id
func (r Result) Portal() string {
	portal, _, _ := splitID(r.ID)
	return portal
}

// Slug returns the slug segment of the composite id
func (r Result) Slug() string {
	_, _, slug := splitID(r.ID)
	return slug
}

// HasLocation reports whether both coordinates are present
func (r Result) HasLocation() bool {
	return r.Lat != nil && r.Lon != nil
}

// LocEquals holds iff both results carry coordinates and both match exactly.
// A result without coordinates never equals any other result.
func LocEquals(a, b Result) bool {
	if !a.HasLocation() || !b.HasLocation() {
		return false
	}
	return *a.Lat == *b.Lat && *a.Lon == *b.Lon
}

// MakeID builds a composite result id
func MakeID(portal string, t ResultType, slug string) string {
	return portal + "." + t.String() + "." + slug
}

func splitID(id string) (portal, kind, slug string) {
	parts := strings.SplitN(id, ".", 3)
	switch len(parts) {
	case 3:
		return parts[0], parts[1], parts[2]
	case 2:
		return parts[0], parts[1], ""
	default:
		return "", "", id
	}
}

// Clone returns a copy that shares nothing mutable with r except Fields values
func (r Result) Clone() Result {
	c := r
	if r.Lat != nil {
		lat := *r.Lat
		c.Lat = &lat
	}
	if r.Lon != nil {
		lon := *r.Lon
		c.Lon = &lon
	}
	if r.Fields != nil {
		c.Fields = maps.Clone(r.Fields)
	}
	return c
}

// Field names reported by ChangedFields
const (
	FieldType        = "type"
	FieldLocation    = "location"
	FieldRelevance   = "relevance"
	FieldTitle       = "title"
	FieldURL         = "url"
	FieldAddress     = "address"
	FieldDescription = "description"
	FieldFields      = "fields"
	FieldHovered     = "hovered"
	FieldSelected    = "selected"
)

// ChangedFields lists which fields differ between two versions of a result
func ChangedFields(before, after Result) []string {
	var changed []string
	if before.Type != after.Type {
		changed = append(changed, FieldType)
	}
	if !sameCoord(before.Lat, after.Lat) || !sameCoord(before.Lon, after.Lon) {
		changed = append(changed, FieldLocation)
	}
	if before.Relevance != after.Relevance {
		changed = append(changed, FieldRelevance)
	}
	if before.Title != after.Title {
		changed = append(changed, FieldTitle)
	}
	if before.URL != after.URL {
		changed = append(changed, FieldURL)
	}
	if before.Address != after.Address {
		changed = append(changed, FieldAddress)
	}
	if before.Description != after.Description {
		changed = append(changed, FieldDescription)
	}
	if !reflect.DeepEqual(before.Fields, after.Fields) {
		changed = append(changed, FieldFields)
	}
	if before.Hovered != after.Hovered {
		changed = append(changed, FieldHovered)
	}
	if before.Selected != after.Selected {
		changed = append(changed, FieldSelected)
	}
	return changed
}

// OnlyHighlightChanged reports whether a change touched nothing but hovered/selected
func OnlyHighlightChanged(changed []string) bool {
	if len(changed) == 0 {
		return false
	}
	for _, f := range changed {
		if f != FieldHovered && f != FieldSelected {
			return false
		}
	}
	return true
}

func sameCoord(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Bounds is a map viewport in degrees
type Bounds struct {
	South float64
	West  float64
	North float64
	East  float64
}

// Contains reports whether a point lies inside the bounds
func (b Bounds) Contains(lat, lon float64) bool {
	return lat >= b.South && lat <= b.North && lon >= b.West && lon <= b.East
}

// IsZero reports whether the bounds were never set
func (b Bounds) IsZero() bool {
	return b == Bounds{}
}

// SearchState holds every user-controlled input of a search plus the coordinator flags
type SearchState struct {
	Query           string
	Types           map[ResultType]bool // per-type filter toggles
	Topics          []int
	SDGs            []int
	ManagedTags     []int
	Offset          int
	OffsetTimestamp string
	FilterGroup     string // optional path segment

	WantsToSearch bool
	Searching     bool
	HadErrors     bool
}

// DefaultSearchState returns a state with every type enabled and no filters
func DefaultSearchState() SearchState {
	types := make(map[ResultType]bool, len(FilterTypes))
	for _, t := range FilterTypes {
		types[t] = true
	}
	return SearchState{Types: types}
}

// Clone returns a deep copy of the state
func (s SearchState) Clone() SearchState {
	c := s
	c.Types = maps.Clone(s.Types)
	c.Topics = slices.Clone(s.Topics)
	c.SDGs = slices.Clone(s.SDGs)
	c.ManagedTags = slices.Clone(s.ManagedTags)
	return c
}

// Equivalent compares the user-controlled inputs of two states, ignoring flags
func (s SearchState) Equivalent(o SearchState) bool {
	if s.Query != o.Query || s.Offset != o.Offset ||
		s.OffsetTimestamp != o.OffsetTimestamp || s.FilterGroup != o.FilterGroup {
		return false
	}
	for _, t := range FilterTypes {
		if s.Types[t] != o.Types[t] {
			return false
		}
	}
	return intsEqual(s.Topics, o.Topics) && intsEqual(s.SDGs, o.SDGs) &&
		intsEqual(s.ManagedTags, o.ManagedTags)
}

func intsEqual(a, b []int) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return slices.Equal(a, b)
}
