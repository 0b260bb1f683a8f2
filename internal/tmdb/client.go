package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultBaseURL    = "https://api.themoviedb.org"
	defaultCacheTTL   = 24 * time.Hour
	defaultMaxRetries = 3
	defaultBackoff    = time.Second
	maxRetryAfter     = time.Minute
)

// ErrNotFound is returned when a movie doesn't exist in TMDB.
var ErrNotFound = errors.New("movie not found")

// APIError is a non-success response from TMDB.
type APIError struct {
	StatusCode int
	Status     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("TMDB API error: %s", e.Status)
}

// temporary reports whether the request may succeed if retried.
func (e *APIError) temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Client is a TMDB API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      *ttlCache[int64, *Movie]
	maxRetries int
	backoff    time.Duration
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithCacheTTL sets the cache TTL. Zero disables the cache.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = newTTLCache[int64, *Movie](ttl, maxCachedMovies)
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRetry sets how many times a failed request is retried and the base
// delay, which doubles per attempt.
func WithRetry(maxRetries int, backoff time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.backoff = backoff
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new TMDB client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache:      newTTLCache[int64, *Movie](defaultCacheTTL, maxCachedMovies),
		maxRetries: defaultMaxRetries,
		backoff:    defaultBackoff,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetMovie fetches movie metadata by TMDB ID, including backdrop images and
// credits.
func (c *Client) GetMovie(ctx context.Context, tmdbID int64) (*Movie, error) {
	if movie, ok := c.cache.get(tmdbID); ok {
		return movie, nil
	}

	var movie Movie
	params := url.Values{"append_to_response": {"images,credits"}}
	if err := c.get(ctx, fmt.Sprintf("/3/movie/%d", tmdbID), params, &movie); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	c.cache.set(tmdbID, &movie)
	return &movie, nil
}

// PopularMovieIDs returns one page of the popular movies list.
func (c *Client) PopularMovieIDs(ctx context.Context, pageNum int) (*IDPage, error) {
	return c.listIDs(ctx, "/3/movie/popular", pageNum)
}

// TopRatedMovieIDs returns one page of the top rated movies list.
func (c *Client) TopRatedMovieIDs(ctx context.Context, pageNum int) (*IDPage, error) {
	return c.listIDs(ctx, "/3/movie/top_rated", pageNum)
}

func (c *Client) listIDs(ctx context.Context, path string, pageNum int) (*IDPage, error) {
	if pageNum < 1 {
		pageNum = 1
	}
	var p page
	if err := c.get(ctx, path, url.Values{"page": {strconv.Itoa(pageNum)}}, &p); err != nil {
		return nil, fmt.Errorf("list %s page %d: %w", path, pageNum, err)
	}
	ids := make([]int64, 0, len(p.Results))
	for _, r := range p.Results {
		ids = append(ids, r.ID)
	}
	return &IDPage{IDs: ids, Page: p.Page, TotalPages: p.TotalPages}, nil
}

// get performs a GET with retries. 429 waits for Retry-After when given,
// otherwise backs off exponentially; 5xx and transport errors back off
// exponentially; other 4xx fail at once.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	reqURL := c.baseURL + path + "?" + params.Encode()

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		wait, err := c.try(ctx, reqURL, out)
		if err == nil {
			return nil
		}
		lastErr = err

		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.temporary() {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if attempt == c.maxRetries {
			break
		}
		if wait < 0 {
			wait = c.backoff << attempt
		}
		c.logger.Debug("tmdb request failed, retrying", "path", path, "attempt", attempt+1, "wait", wait, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return fmt.Errorf("after %d attempts: %w", c.maxRetries+1, lastErr)
}

// try performs one request. wait is the server-requested delay before the
// next attempt, or -1 if none was given.
func (c *Client) try(ctx context.Context, reqURL string, out any) (wait time.Duration, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return -1, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return -1, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		wait = -1
		if resp.StatusCode == http.StatusTooManyRequests {
			if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs >= 0 {
				wait = min(time.Duration(secs)*time.Second, maxRetryAfter)
			}
		}
		return wait, &APIError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return -1, fmt.Errorf("decode response: %w", err)
	}
	return -1, nil
}
