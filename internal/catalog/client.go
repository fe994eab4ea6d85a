package catalog

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

	"github.com/rs/zerolog"
)

// Client defaults.
const (
	// DefaultBaseURL is where the catalog backend listens in a local setup.
	DefaultBaseURL = "http://localhost:8080"

	// DefaultTimeout bounds a single page request.
	DefaultTimeout = 10 * time.Second

	// ListPath is the paginated listing endpoint.
	ListPath = "/api/pokemons"

	// maxBodyBytes caps how much of a page response is read.
	maxBodyBytes = 8 << 20
)

// Client fetches record pages from a catalog backend.
// It is safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// NewClient creates a Client for the backend rooted at baseURL.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	u, err := ParseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ParseBaseURL validates a backend base URL. Only absolute http(s) URLs are accepted.
func ParseBaseURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidBaseURL)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: scheme must be http or https, got %q", ErrInvalidBaseURL, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidBaseURL)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	return u, nil
}

// BaseURL returns the backend base URL as a string.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// PageURL returns the listing URL for the given page.
func (c *Client) PageURL(page, size int) string {
	u := *c.baseURL
	u.Path += ListPath
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	u.RawQuery = q.Encode()
	return u.String()
}

// FetchPage requests one page of records.
//
// A nil error with an empty slice means the backend has no more data. Failures are
// returned as *FetchError wrapping ErrConnection, ErrBadStatus or ErrMalformed.
// Context cancellation is returned unclassified.
func (c *Client) FetchPage(ctx context.Context, page, size int) ([]Record, error) {
	log := zerolog.Ctx(ctx)
	target := c.PageURL(page, size)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("building page request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		log.Debug().Err(err).Str("url", target).Msg("page request failed")
		return nil, &FetchError{Page: page, Err: fmt.Errorf("%w: %w", ErrConnection, err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &FetchError{Page: page, Status: resp.StatusCode, Err: ErrBadStatus}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &FetchError{Page: page, Status: resp.StatusCode, Err: fmt.Errorf("%w: %w", ErrConnection, err)}
	}

	records, err := DecodePage(body)
	if err != nil {
		return nil, &FetchError{Page: page, Status: resp.StatusCode, Err: err}
	}

	log.Debug().
		Int("page", page).
		Int("size", size).
		Int("records", len(records)).
		Dur("elapsed", time.Since(start)).
		Msg("page fetched")
	return records, nil
}

// DecodePage decodes a page body. Anything other than a JSON array of records
// (including "null" and an empty body) is ErrMalformed.
func DecodePage(body []byte) ([]Record, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: body is not a JSON array", ErrMalformed)
	}

	var records []Record
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}
