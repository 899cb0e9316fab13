// Package sdk is a typed Go client for the mflix REST API. Every call
// decodes the response envelope; failure envelopes surface as *APIError.
package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Client is the mflix SDK entry point.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// Option configures the Client.
type Option interface {
	apply(*Client)
}

type optionFunc func(*Client)

func (f optionFunc) apply(c *Client) { f(c) }

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpc *http.Client) Option {
	return optionFunc(func(c *Client) { c.httpc = httpc })
}

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *Client) { c.httpc.Timeout = d })
}

// New creates a client for the API at baseURL (e.g. "http://localhost:8080").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o.apply(c)
	}
	return c
}

// ListMovies returns one page of movies matching the query.
func (c *Client) ListMovies(ctx context.Context, q ListMoviesQuery) (MoviesPage, error) {
	var page MoviesPage
	err := c.do(ctx, http.MethodGet, "/api/v1/movies?"+q.encode(), nil, &page)
	return page, err
}

// GetMovie fetches one movie by id.
func (c *Client) GetMovie(ctx context.Context, id string) (Movie, error) {
	var m Movie
	err := c.do(ctx, http.MethodGet, "/api/v1/movies/"+url.PathEscape(id), nil, &m)
	return m, err
}

// CreateMovie inserts a movie and returns it with the assigned id.
func (c *Client) CreateMovie(ctx context.Context, m Movie) (Movie, error) {
	var created Movie
	err := c.do(ctx, http.MethodPost, "/api/v1/movies", m, &created)
	return created, err
}

// UpdateMovie applies a partial update to one movie.
func (c *Client) UpdateMovie(ctx context.Context, id string, patch map[string]any) (WriteCounts, error) {
	var counts WriteCounts
	err := c.do(ctx, http.MethodPut, "/api/v1/movies/"+url.PathEscape(id), patch, &counts)
	return counts, err
}

// DeleteMovie removes one movie by id.
func (c *Client) DeleteMovie(ctx context.Context, id string) (int64, error) {
	var resp struct {
		DeletedCount int64 `json:"deletedCount"`
	}
	err := c.do(ctx, http.MethodDelete, "/api/v1/movies/"+url.PathEscape(id), nil, &resp)
	return resp.DeletedCount, err
}

// UpdateMovies applies one patch to every movie named by ids.
func (c *Client) UpdateMovies(ctx context.Context, ids []string, patch map[string]any) (WriteCounts, error) {
	var counts WriteCounts
	body := map[string]any{"ids": ids, "update": patch}
	err := c.do(ctx, http.MethodPut, "/api/v1/movies", body, &counts)
	return counts, err
}

// DeleteMovies removes every movie matching the filter.
func (c *Client) DeleteMovies(ctx context.Context, filter map[string]any) (int64, error) {
	var resp struct {
		DeletedCount int64 `json:"deletedCount"`
	}
	err := c.do(ctx, http.MethodDelete, "/api/v1/movies", map[string]any{"filter": filter}, &resp)
	return resp.DeletedCount, err
}

// CreateMovies inserts several movies in one call.
func (c *Client) CreateMovies(ctx context.Context, movies []Movie) (InsertResult, error) {
	var result InsertResult
	err := c.do(ctx, http.MethodPost, "/api/v1/movies/batch", map[string]any{"movies": movies}, &result)
	return result, err
}

// RecentComments runs the movies-with-recent-comments report. movieID may be
// empty; limit <= 0 uses the server default.
func (c *Client) RecentComments(ctx context.Context, movieID string, limit int) ([]MovieComments, error) {
	q := url.Values{}
	if movieID != "" {
		q.Set("movieId", movieID)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var rows []MovieComments
	err := c.do(ctx, http.MethodGet, "/api/v1/movies/comments/recent?"+q.Encode(), nil, &rows)
	return rows, err
}

// YearStats runs the per-year statistics report.
func (c *Client) YearStats(ctx context.Context, startYear, endYear int) ([]YearStats, error) {
	q := url.Values{}
	if startYear > 0 {
		q.Set("startYear", strconv.Itoa(startYear))
	}
	if endYear > 0 {
		q.Set("endYear", strconv.Itoa(endYear))
	}

	var rows []YearStats
	err := c.do(ctx, http.MethodGet, "/api/v1/reports/years?"+q.Encode(), nil, &rows)
	return rows, err
}

// DirectorStats runs the per-director statistics report.
func (c *Client) DirectorStats(ctx context.Context, limit int) ([]DirectorStats, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var rows []DirectorStats
	err := c.do(ctx, http.MethodGet, "/api/v1/reports/directors?"+q.Encode(), nil, &rows)
	return rows, err
}

// CompoundSearch runs the compound full-text search.
func (c *Client) CompoundSearch(ctx context.Context, req CompoundSearchRequest) (SearchPage, error) {
	var page SearchPage
	err := c.do(ctx, http.MethodPost, "/api/v1/search/compound", req, &page)
	return page, err
}

// VectorSearch runs the similarity search for a free-text query.
func (c *Client) VectorSearch(ctx context.Context, query string, limit int) ([]VectorHit, error) {
	q := url.Values{}
	q.Set("q", query)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var resp struct {
		Results []VectorHit `json:"results"`
		Count   int         `json:"count"`
	}
	err := c.do(ctx, http.MethodGet, "/api/v1/search/vector?"+q.Encode(), nil, &resp)
	return resp.Results, err
}

// Health fetches the non-enveloped health report.
func (c *Client) Health(ctx context.Context) (HealthReport, error) {
	var report HealthReport

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return report, fmt.Errorf("sdk: build request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return report, fmt.Errorf("sdk: health request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return report, fmt.Errorf("sdk: decode health response: %w", err)
	}
	return report, nil
}

// do executes one API call and decodes the envelope data field into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("sdk: encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("sdk: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("sdk: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var env struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
		Error   *struct {
			Message string `json:"message"`
			Code    string `json:"code"`
			Details any    `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("sdk: decode envelope: %w", err)
	}

	if !env.Success {
		apiErr := &APIError{Status: resp.StatusCode}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
			apiErr.Details = env.Error.Details
		} else {
			apiErr.Message = env.Message
		}
		return apiErr
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("sdk: decode response data: %w", err)
	}
	return nil
}
