package searchapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wechange-eg/cosinnus-core-sub001/internal/domain"
)

const samplePayload = `{
  "data": {
    "count": 3,
    "has_more": true,
    "last_timestamp": "2024-05-01T10:00:00Z",
    "items": [
      {"id": "wechange.projects.garden", "type": "projects", "lat": 52.5, "lon": 13.4,
       "relevance": 2.5, "title": "Community Garden", "iconImageUrl": "/static/p.png"},
      {"id": "wechange.people.ada", "type": "people", "lat": null, "lon": null,
       "relevance": 1, "title": "Ada"},
      {"portal": "wechange", "slug": "doc", "type": "cloudfile", "lat": "48.1", "lon": "11.5",
       "title": "Minutes"}
    ]
  }
}`

func TestDecodeResponse(t *testing.T) {
	resp, err := DecodeResponse([]byte(samplePayload))
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Count)
	assert.True(t, resp.HasMore)
	assert.Equal(t, "2024-05-01T10:00:00Z", resp.LastTimestamp)
	require.Len(t, resp.Items, 3)

	garden := resp.Items[0]
	assert.Equal(t, domain.TypeProjects, garden.Type)
	require.True(t, garden.HasLocation())
	assert.Equal(t, 52.5, *garden.Lat)
	assert.Equal(t, 2.5, garden.Relevance)
	assert.Equal(t, "/static/p.png", garden.Fields["iconImageUrl"])
	assert.Equal(t, "wechange", garden.Portal())
	assert.Equal(t, "garden", garden.Slug())

	ada := resp.Items[1]
	assert.False(t, ada.HasLocation(), "null coordinates stay nil")

	doc := resp.Items[2]
	assert.Equal(t, "wechange.cloudfile.doc", doc.ID)
	require.True(t, doc.HasLocation())
	assert.Equal(t, 48.1, *doc.Lat)
}

func TestDecodeResponseEmptyIsSuccess(t *testing.T) {
	resp, err := DecodeResponse([]byte(`{"data": {"count": 0, "items": []}}`))
	require.NoError(t, err)
	assert.True(t, resp.Empty())
}

func TestEncodeDecodeKeepsDisplayBag(t *testing.T) {
	lat, lon := 1.0, 2.0
	in := Response{Count: 1, Items: []domain.Result{{
		ID: "p.events.fest", Type: domain.TypeEvents, Lat: &lat, Lon: &lon,
		Relevance: 3, Title: "Fest", Fields: map[string]any{"group_name": "Neighbours"},
	}}}

	body, err := EncodeResponse(in)
	require.NoError(t, err)
	out, err := DecodeResponse(body)
	require.NoError(t, err)

	require.Len(t, out.Items, 1)
	assert.Equal(t, "Neighbours", out.Items[0].Fields["group_name"])
	assert.True(t, domain.LocEquals(in.Items[0], out.Items[0]))
}

func TestClientSearch(t *testing.T) {
	var gotPath string
	var gotQuery url.Values
	var gotRequestID string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		gotRequestID = r.Header.Get(RequestIDHeader)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(samplePayload))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "/maps/search/", time.Second)
	params := url.Values{"q": {"garden"}, "projects": {"true"}, "topics": {"1,2"}}

	resp, err := c.Search(context.Background(), Request{Params: params, FilterGroup: "berlin"})
	require.NoError(t, err)

	assert.Equal(t, "/maps/search/berlin/", gotPath)
	assert.Equal(t, "garden", gotQuery.Get("q"))
	assert.Equal(t, "1,2", gotQuery.Get("topics"))
	assert.NotEmpty(t, gotRequestID)
	assert.Len(t, resp.Items, 3)
}

func TestClientServerErrorIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "/maps/search/", time.Second).Search(context.Background(), Request{})
	require.Error(t, err)
	assert.True(t, domain.IsNetworkError(err))

	var ne *domain.NetworkError
	require.True(t, errors.As(err, &ne))
	assert.Equal(t, http.StatusInternalServerError, ne.Status)
}

func TestClientCancelledIsNotNetworkError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := NewClient(srv.URL, "/maps/search/", 5*time.Second).Search(ctx, Request{})
		errCh <- err
	}()
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, domain.IsNetworkError(err))
	case <-time.After(2 * time.Second):
		t.Fatal("search did not return after cancel")
	}
}
