package tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"BoxOfficeETL/internal/config"
	"BoxOfficeETL/internal/failure"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/search/movie", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Query().Get("query") {
		case "Heat":
			_, _ = w.Write([]byte(`{"page":1,"results":[{"id":949,"title":"Heat"},{"id":11,"title":"Heat 2"}]}`))
		case "Garbled":
			_, _ = w.Write([]byte(`{"results": [`))
		default:
			_, _ = w.Write([]byte(`{"page":1,"results":[]}`))
		}
	})
	mux.HandleFunc("/movie/949", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"id": 949,
			"release_date": "1995-12-15",
			"runtime": 170,
			"revenue": 187436818,
			"genres": [{"id":28,"name":"Action"},{"id":80,"name":"Crime"},{"id":18,"name":"Drama"}]
		}`))
	})
	mux.HandleFunc("/movie/7", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": 7, "release_date": "", "runtime": null, "genres": []}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestSearchAndDetails(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	client := NewClient(config.EnricherConfig{BaseURL: server.URL, APIKey: "key"})
	ctx := context.Background()

	hits, err := client.SearchMovie(ctx, "Heat")
	require.NoError(t, err)
	require.Len(t, hits, 2)
	require.Equal(t, 949, hits[0].ID)

	details, err := client.MovieDetails(ctx, hits[0].ID)
	require.NoError(t, err)
	require.Equal(t, "1995-12-15", details.ReleaseDate)
	require.NotNil(t, details.Runtime)
	require.Equal(t, 170, *details.Runtime)
	require.NotNil(t, details.Revenue)
	require.Equal(t, 187436818.0, *details.Revenue)
	require.Equal(t, "Action, Crime, Drama", details.GenreList())
}

func TestSearchNoResults(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	client := NewClient(config.EnricherConfig{BaseURL: server.URL, APIKey: "key"})

	hits, err := client.SearchMovie(context.Background(), "Nothing Like This")
	require.NoError(t, err)
	require.Empty(t, hits)
}

func TestDetailsWithNulls(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	client := NewClient(config.EnricherConfig{BaseURL: server.URL, APIKey: "key"})

	details, err := client.MovieDetails(context.Background(), 7)
	require.NoError(t, err)
	require.Nil(t, details.Runtime)
	require.Nil(t, details.Revenue)
	require.Equal(t, "", details.GenreList())
}

func TestFailureKinds(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	ctx := context.Background()

	unauthorized := NewClient(config.EnricherConfig{BaseURL: server.URL, APIKey: "wrong"})
	_, err := unauthorized.SearchMovie(ctx, "Heat")
	require.True(t, failure.Is(err, failure.KindTransport), "got %v", err)

	client := NewClient(config.EnricherConfig{BaseURL: server.URL, APIKey: "key"})
	_, err = client.SearchMovie(ctx, "Garbled")
	require.True(t, failure.Is(err, failure.KindMalformedInput), "got %v", err)

	_, err = client.MovieDetails(ctx, 404)
	require.True(t, failure.Is(err, failure.KindTransport), "got %v", err)
}
