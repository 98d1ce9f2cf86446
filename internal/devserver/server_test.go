package devserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wechange-eg/cosinnus-core-sub001/internal/domain"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/router"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/searchapi"
)

func newTestServer(t *testing.T, opts Options) (*searchapi.Client, *httptest.Server) {
	t.Helper()
	srv, err := NewServer(opts)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return searchapi.NewClient(ts.URL, "/maps/search/", 5*time.Second), ts
}

func search(t *testing.T, c *searchapi.Client, params url.Values, group string) *searchapi.Response {
	t.Helper()
	resp, err := c.Search(context.Background(), searchapi.Request{Params: params, FilterGroup: group})
	require.NoError(t, err)
	return resp
}

func ids(items []domain.Result) []string {
	out := make([]string, len(items))
	for i, r := range items {
		out[i] = r.ID
	}
	return out
}

func TestSearchAllFixtures(t *testing.T) {
	c, _ := newTestServer(t, Options{})

	resp := search(t, c, router.EncodeState(domain.DefaultSearchState()), "")

	assert.Equal(t, 20, resp.Count)
	assert.Len(t, resp.Items, 20)
	assert.False(t, resp.HasMore)
	assert.Equal(t, "2024-05-02T10:00:00Z", resp.LastTimestamp)
}

func TestSearchQueryRanksMatches(t *testing.T) {
	c, _ := newTestServer(t, Options{})

	s := domain.DefaultSearchState()
	s.Query = "garden"
	resp := search(t, c, router.EncodeState(s), "")

	require.NotEmpty(t, resp.Items)
	for _, item := range resp.Items {
		assert.Greater(t, item.Relevance, 0.0)
	}
	for i := 1; i < len(resp.Items); i++ {
		assert.GreaterOrEqual(t, resp.Items[i-1].Relevance, resp.Items[i].Relevance)
	}
	assert.Contains(t, ids(resp.Items), "wechange.projects.urban-gardening-berlin")
	assert.NotContains(t, ids(resp.Items), "wechange.organizations.buergerenergie-hamburg")
}

func TestSearchFilters(t *testing.T) {
	c, _ := newTestServer(t, Options{})

	t.Run("types", func(t *testing.T) {
		s := domain.DefaultSearchState()
		for _, typ := range domain.FilterTypes {
			s.Types[typ] = typ == domain.TypePeople
		}
		resp := search(t, c, router.EncodeState(s), "")
		require.Len(t, resp.Items, 3)
		for _, item := range resp.Items {
			assert.Equal(t, domain.TypePeople, item.Type)
		}
	})

	t.Run("topics", func(t *testing.T) {
		s := domain.DefaultSearchState()
		s.Topics = []int{1}
		resp := search(t, c, router.EncodeState(s), "")
		assert.Equal(t, []string{"forum.projects.open-source-schools"}, ids(resp.Items))
	})

	t.Run("filter group", func(t *testing.T) {
		resp := search(t, c, router.EncodeState(domain.DefaultSearchState()), "munich")
		assert.Equal(t, 3, resp.Count)
	})

	t.Run("bounds", func(t *testing.T) {
		params := router.EncodeState(domain.DefaultSearchState())
		for k, v := range router.EncodeBounds(domain.Bounds{South: 52, West: 13, North: 53, East: 14}) {
			params[k] = v
		}
		resp := search(t, c, params, "")
		for _, item := range resp.Items {
			if item.HasLocation() {
				assert.InDelta(t, 52.5, *item.Lat, 0.5)
			}
		}
		assert.Contains(t, ids(resp.Items), "wechange.people.jonas-weber", "unlocated results are kept")
		assert.NotContains(t, ids(resp.Items), "wechange.projects.solar-roofs-hamburg")
	})
}

func TestSearchPagination(t *testing.T) {
	c, _ := newTestServer(t, Options{})

	params := router.EncodeState(domain.DefaultSearchState())
	params.Set(router.ParamLimit, "8")
	first := search(t, c, params, "")
	require.Len(t, first.Items, 8)
	assert.True(t, first.HasMore)

	params.Set(router.ParamOffset, "16")
	params.Set(router.ParamOffsetTimestamp, first.LastTimestamp)
	last := search(t, c, params, "")
	assert.Len(t, last.Items, 4)
	assert.False(t, last.HasMore)
	assert.NotContains(t, ids(last.Items), first.Items[0].ID)
}

func TestSearchRejectsMalformedParams(t *testing.T) {
	c, _ := newTestServer(t, Options{})

	_, err := c.Search(context.Background(), searchapi.Request{Params: url.Values{"topics": {"x"}}})
	var ne *domain.NetworkError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, http.StatusBadRequest, ne.Status)
}

func TestQuicksearch(t *testing.T) {
	_, ts := newTestServer(t, Options{})
	c := searchapi.NewClient(ts.URL, "/search/api/quicksearch/", 5*time.Second)

	resp := search(t, c, url.Values{"q": {"repair"}}, "")
	assert.NotEmpty(t, resp.Items)
	assert.LessOrEqual(t, len(resp.Items), quicksearchSize)

	empty := search(t, c, url.Values{}, "")
	assert.True(t, empty.Empty())
}

func TestLatencyHonoursCancellation(t *testing.T) {
	c, _ := newTestServer(t, Options{Latency: time.Minute})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	_, err := c.Search(ctx, searchapi.Request{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewIndexRejectsDuplicates(t *testing.T) {
	_, err := NewIndex([]Fixture{{ID: "a"}, {ID: "a"}})
	assert.Error(t, err)
}
