package modes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/wechange-eg/cosinnus-core-sub001/internal/router"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/ui/input/types"
)

// FilterMode edits the id filters as "topics:1,2 sdgs:3 tags:4"; the
// filters are applied on Enter only
type FilterMode struct {
	TextInputMode
}

func NewFilterMode(ti *textinput.Model) *FilterMode {
	return &FilterMode{
		TextInputMode: NewTextInputMode(types.ModeFilter, "filter", "Filter: ", ti),
	}
}

func (m *FilterMode) Enter(ctx types.Context) []types.Action {
	m.Begin(ctx.FilterText())
	return m.TextInputMode.Enter(ctx)
}

// Filters is the parsed form of the filter text
type Filters struct {
	Topics      []int
	SDGs        []int
	ManagedTags []int
}

// ParseFilters reads "key:ids" terms; keys are topics, sdgs and tags
func ParseFilters(text string) (Filters, error) {
	var f Filters
	for _, term := range strings.Fields(text) {
		key, raw, ok := strings.Cut(term, ":")
		if !ok {
			return Filters{}, fmt.Errorf("filter %q: expected key:ids", term)
		}
		ids, err := router.DecodeIntList(raw)
		if err != nil {
			return Filters{}, fmt.Errorf("filter %q: %w", term, err)
		}
		switch strings.ToLower(key) {
		case "topics", "topic", "t":
			f.Topics = ids
		case "sdgs", "sdg", "s":
			f.SDGs = ids
		case "tags", "tag", "managed_tags":
			f.ManagedTags = ids
		default:
			return Filters{}, fmt.Errorf("filter %q: unknown key %q", term, key)
		}
	}
	return f, nil
}

// FormatFilters renders filters in the form ParseFilters reads
func FormatFilters(f Filters) string {
	var parts []string
	if len(f.Topics) > 0 {
		parts = append(parts, "topics:"+router.JoinInts(f.Topics))
	}
	if len(f.SDGs) > 0 {
		parts = append(parts, "sdgs:"+router.JoinInts(f.SDGs))
	}
	if len(f.ManagedTags) > 0 {
		parts = append(parts, "tags:"+router.JoinInts(f.ManagedTags))
	}
	return strings.Join(parts, " ")
}
