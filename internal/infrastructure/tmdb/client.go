package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"BoxOfficeETL/internal/config"
	"BoxOfficeETL/internal/domain"
	"BoxOfficeETL/internal/failure"
	"BoxOfficeETL/internal/ports"
)

const (
	searchPath  = "/search/movie"
	detailsPath = "/movie/{id}"
)

// Client implements ports.MovieLookup against The Movie Database v3 API.
type Client struct {
	apiKey string
	http   *resty.Client
}

var _ ports.MovieLookup = (*Client)(nil)

type searchResponse struct {
	Results []struct {
		ID int `json:"id"`
	} `json:"results"`
}

type detailsResponse struct {
	ReleaseDate string   `json:"release_date"`
	Runtime     *int     `json:"runtime"`
	Revenue     *float64 `json:"revenue"`
	Genres      []struct {
		Name string `json:"name"`
	} `json:"genres"`
}

// NewClient builds a client from configuration.
func NewClient(cfg config.EnricherConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	rc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Client{apiKey: cfg.APIKey, http: rc}
}

// SearchMovie runs a free-text title search and returns the candidates in API order.
func (c *Client) SearchMovie(ctx context.Context, title string) ([]domain.SearchHit, error) {
	req := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"api_key": c.apiKey,
			"query":   title,
		})

	var payload searchResponse
	if err := c.get(req, searchPath, "search movie", title, &payload); err != nil {
		return nil, err
	}

	hits := make([]domain.SearchHit, 0, len(payload.Results))
	for _, r := range payload.Results {
		hits = append(hits, domain.SearchHit{ID: r.ID})
	}
	return hits, nil
}

// MovieDetails fetches the attributes of a single movie.
func (c *Client) MovieDetails(ctx context.Context, id int) (domain.MovieDetails, error) {
	subject := strconv.Itoa(id)
	req := c.http.R().
		SetContext(ctx).
		SetPathParam("id", subject).
		SetQueryParam("api_key", c.apiKey)

	var payload detailsResponse
	if err := c.get(req, detailsPath, "movie details", subject, &payload); err != nil {
		return domain.MovieDetails{}, err
	}

	genres := make([]string, 0, len(payload.Genres))
	for _, g := range payload.Genres {
		genres = append(genres, g.Name)
	}

	return domain.MovieDetails{
		ReleaseDate: payload.ReleaseDate,
		Runtime:     payload.Runtime,
		Genres:      genres,
		Revenue:     payload.Revenue,
	}, nil
}

func (c *Client) get(req *resty.Request, path, op, subject string, v any) error {
	resp, err := req.Get(path)
	if err != nil {
		return failure.Transport(op, subject, err)
	}
	if !resp.IsSuccess() {
		return failure.Transport(op, subject, fmt.Errorf("metadata api returned %s", resp.Status()))
	}
	if err := json.Unmarshal(resp.Body(), v); err != nil {
		return failure.MalformedInput(op, subject, fmt.Errorf("decode response: %w", err))
	}
	return nil
}
