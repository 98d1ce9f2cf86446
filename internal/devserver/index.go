package devserver

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/wechange-eg/cosinnus-core-sub001/internal/domain"
)

//go:embed fixtures.json
var defaultFixtures []byte

// Fixture is one searchable record of the development endpoint
type Fixture struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Address     string   `json:"address"`
	URL         string   `json:"url"`
	Lat         *float64 `json:"lat"`
	Lon         *float64 `json:"lon"`
	Topics      []int    `json:"topics"`
	SDGs        []int    `json:"sdgs"`
	ManagedTags []int    `json:"managed_tags"`
	Group       string   `json:"group"`
	Timestamp   string   `json:"timestamp"`
}

// Result converts the fixture into a search hit
func (f Fixture) Result(relevance float64) domain.Result {
	r := domain.Result{
		ID:          f.ID,
		Type:        domain.ParseResultType(f.Type),
		Lat:         f.Lat,
		Lon:         f.Lon,
		Relevance:   relevance,
		Title:       f.Title,
		URL:         f.URL,
		Address:     f.Address,
		Description: f.Description,
		Fields: map[string]any{
			"topics":       slices.Clone(f.Topics),
			"sdgs":         slices.Clone(f.SDGs),
			"managed_tags": slices.Clone(f.ManagedTags),
			"timestamp":    f.Timestamp,
		},
	}
	if r.URL == "" {
		r.URL = "/" + strings.ReplaceAll(f.ID, ".", "/") + "/"
	}
	return r
}

// Hit is a fixture with its score
type Hit struct {
	Fixture
	Score float64
}

// Index is an in-memory full-text index over fixtures
type Index struct {
	fixtures map[string]Fixture
	order    []string
	bleve    bleve.Index
}

// LoadFixtures parses a JSON array of fixtures; nil data loads the built-in set
func LoadFixtures(data []byte) ([]Fixture, error) {
	if data == nil {
		data = defaultFixtures
	}
	var fixtures []Fixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	return fixtures, nil
}

// NewIndex indexes fixtures in a memory-only bleve index
func NewIndex(fixtures []Fixture) (*Index, error) {
	idx, err := bleve.NewMemOnly(createIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	ix := &Index{
		fixtures: make(map[string]Fixture, len(fixtures)),
		bleve:    idx,
	}
	batch := idx.NewBatch()
	for _, f := range fixtures {
		if f.ID == "" {
			return nil, fmt.Errorf("fixture %q has no id", f.Title)
		}
		if _, dup := ix.fixtures[f.ID]; dup {
			return nil, fmt.Errorf("duplicate fixture id %s", f.ID)
		}
		ix.fixtures[f.ID] = f
		ix.order = append(ix.order, f.ID)
		doc := map[string]any{
			"title":       f.Title,
			"description": f.Description,
			"address":     f.Address,
		}
		if err := batch.Index(f.ID, doc); err != nil {
			return nil, fmt.Errorf("failed to index %s: %w", f.ID, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		return nil, fmt.Errorf("failed to index fixtures: %w", err)
	}
	return ix, nil
}

func createIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()

	titleField := bleve.NewTextFieldMapping()
	titleField.Analyzer = "standard"
	docMapping.AddFieldMappingsAt("title", titleField)

	descriptionField := bleve.NewTextFieldMapping()
	descriptionField.Analyzer = "standard"
	docMapping.AddFieldMappingsAt("description", descriptionField)

	addressField := bleve.NewTextFieldMapping()
	addressField.Analyzer = "standard"
	docMapping.AddFieldMappingsAt("address", addressField)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// Len returns the number of fixtures
func (ix *Index) Len() int {
	return len(ix.order)
}

// Close releases the index
func (ix *Index) Close() error {
	return ix.bleve.Close()
}

// Match scores every fixture against text. Empty text matches all fixtures
// with score 1, in fixture order.
func (ix *Index) Match(text string) ([]Hit, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		hits := make([]Hit, 0, len(ix.order))
		for _, id := range ix.order {
			hits = append(hits, Hit{Fixture: ix.fixtures[id], Score: 1})
		}
		return hits, nil
	}

	var queries []query.Query
	match := bleve.NewMatchQuery(text)
	queries = append(queries, match)
	for _, term := range strings.Fields(strings.ToLower(text)) {
		prefix := bleve.NewPrefixQuery(term)
		prefix.SetField("title")
		queries = append(queries, prefix)
	}

	req := bleve.NewSearchRequest(bleve.NewDisjunctionQuery(queries...))
	req.Size = len(ix.order)
	res, err := ix.bleve.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		f, ok := ix.fixtures[h.ID]
		if !ok {
			continue
		}
		hits = append(hits, Hit{Fixture: f, Score: h.Score})
	}
	return hits, nil
}
