// Package storeclient talks to the marquee catalog API.
package storeclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vmunix/marquee/internal/movie"
)

const defaultTimeout = 30 * time.Second

// peopleBatch matches the server's per-request id cap.
const peopleBatch = 500

// Client is a catalog API client. It never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient = &http.Client{Timeout: d}
	}
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// errorBody is the API's error envelope.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (c *Client) do(ctx context.Context, op, method, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return &FetchError{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &FetchError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var eb errorBody
		msg := strings.TrimSpace(string(body))
		if json.Unmarshal(body, &eb) == nil && eb.Error != "" {
			msg = eb.Error
		}
		fe := &FetchError{Op: op, StatusCode: resp.StatusCode, Err: errors.New(msg)}
		if resp.StatusCode == http.StatusNotFound {
			fe.Err = fmt.Errorf("%w: %s", ErrNotFound, msg)
		}
		return fe
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return &FetchError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// VersionInfo returns the current data version and record count.
func (c *Client) VersionInfo(ctx context.Context) (movie.VersionInfo, error) {
	var info movie.VersionInfo
	if err := c.do(ctx, "fetch version", http.MethodGet, "/api/v1/movies/version", &info); err != nil {
		return movie.VersionInfo{}, err
	}
	return info, nil
}

// FetchVersionToken returns only the data version. It does not transfer the
// collection.
func (c *Client) FetchVersionToken(ctx context.Context) (string, error) {
	info, err := c.VersionInfo(ctx)
	if err != nil {
		return "", err
	}
	if info.DataVersion == "" {
		return "", &FetchError{Op: "fetch version", Err: errors.New("empty data version")}
	}
	return info.DataVersion, nil
}

// FetchCollection returns every movie together with the data version the
// server read in the same transaction.
func (c *Client) FetchCollection(ctx context.Context) (movie.Collection, error) {
	var resp ListResponse
	if err := c.do(ctx, "fetch collection", http.MethodGet, "/api/v1/movies", &resp); err != nil {
		return movie.Collection{}, err
	}
	if resp.DataVersion == "" {
		return movie.Collection{}, &FetchError{Op: "fetch collection", Err: errors.New("empty data version")}
	}
	if resp.Movies == nil {
		resp.Movies = []movie.Movie{}
	}
	return movie.Collection{Movies: resp.Movies, DataVersion: resp.DataVersion}, nil
}

// GetMovie returns one movie by catalog ID.
func (c *Client) GetMovie(ctx context.Context, id int64) (*movie.Detail, error) {
	var d movie.Detail
	if err := c.do(ctx, "get movie", http.MethodGet, fmt.Sprintf("/api/v1/movies/%d", id), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// GetMovieByTMDBID returns one movie by its TMDB ID.
func (c *Client) GetMovieByTMDBID(ctx context.Context, tmdbID int64) (*movie.Detail, error) {
	var d movie.Detail
	if err := c.do(ctx, "get movie", http.MethodGet, fmt.Sprintf("/api/v1/movies/tmdb/%d", tmdbID), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// GetPeople returns the people the server knows among ids. Unknown ids are
// left out. Large lookups are split into several requests.
func (c *Client) GetPeople(ctx context.Context, ids []int64) ([]movie.Person, error) {
	people := []movie.Person{}
	for start := 0; start < len(ids); start += peopleBatch {
		end := min(start+peopleBatch, len(ids))
		parts := make([]string, 0, end-start)
		for _, id := range ids[start:end] {
			parts = append(parts, strconv.FormatInt(id, 10))
		}
		q := url.Values{"ids": {strings.Join(parts, ",")}}

		var resp PeopleResponse
		if err := c.do(ctx, "get people", http.MethodGet, "/api/v1/people?"+q.Encode(), &resp); err != nil {
			return nil, err
		}
		people = append(people, resp.People...)
	}
	return people, nil
}

// Backfill asks the server to re-import one batch of catalog movies so their
// credits are filled in. A zero limit uses the server default.
func (c *Client) Backfill(ctx context.Context, offset, limit int) (*BackfillResult, error) {
	q := url.Values{"offset": {strconv.Itoa(offset)}}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var res BackfillResult
	if err := c.do(ctx, "backfill people", http.MethodPost, "/api/v1/people/backfill?"+q.Encode(), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// TriggerSync asks the server to run a TMDB import and waits for it.
func (c *Client) TriggerSync(ctx context.Context) (*SyncResult, error) {
	var res SyncResult
	if err := c.do(ctx, "trigger sync", http.MethodPost, "/api/v1/sync", &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Status returns server health and catalog counters.
func (c *Client) Status(ctx context.Context) (*StatusResponse, error) {
	var st StatusResponse
	if err := c.do(ctx, "status", http.MethodGet, "/api/v1/status", &st); err != nil {
		return nil, err
	}
	return &st, nil
}
