package api

import (
	"bytes"
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

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL   = "http://localhost:8080"
	defaultUserAgent = "voicejournal/0.1"
	defaultTimeout   = 10 * time.Second
)

// ErrBreakerOpen is returned without contacting the server while the circuit breaker is open
var ErrBreakerOpen = errors.New("backend unavailable")

// StatusError reports a non-2xx response. The body is not inspected.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d (%s %s)", e.StatusCode, e.Method, e.Path)
}

// Client handles HTTP communication with the journal backend
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	limiter   *rate.Limiter
	breaker   *gobreaker.CircuitBreaker
	logger    *log.Logger
}

// Option customises a Client
type Option func(*Client)

// WithTimeout sets the per-request timeout of the underlying http.Client
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithRateLimit paces outgoing requests. A non-positive rate disables pacing.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithLogger sets the logger used for request and breaker events
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client for the journal API rooted at baseURL (e.g. http://localhost:8080)
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: defaultTimeout},
		userAgent: defaultUserAgent,
		limiter:   rate.NewLimiter(rate.Inf, 1),
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "journal-api",
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
		// Only transport failures and 5xx count against the backend
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var se *StatusError
			if errors.As(err, &se) {
				return se.StatusCode < 500
			}
			return false
		},
	})

	return c, nil
}

// BaseURL returns the normalised API root
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ListCategories retrieves all categories
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	body, err := c.do(ctx, http.MethodGet, &url.URL{Path: "/categories"}, nil)
	if err != nil {
		return nil, err
	}

	var categories []Category
	if err := json.Unmarshal(body, &categories); err != nil {
		return nil, fmt.Errorf("failed to parse categories: %w", err)
	}
	return categories, nil
}

// ListEntries retrieves one page of entries for a category.
// A non-positive pageSize requests the non-paginated listing.
func (c *Client) ListEntries(ctx context.Context, categoryID int64, page, pageSize int) ([]Entry, error) {
	rel := &url.URL{Path: "/journalentries/category/" + strconv.FormatInt(categoryID, 10)}
	if pageSize > 0 {
		values := url.Values{}
		values.Set("page", strconv.Itoa(page))
		values.Set("pageSize", strconv.Itoa(pageSize))
		rel.RawQuery = values.Encode()
	}

	body, err := c.do(ctx, http.MethodGet, rel, nil)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse entries: %w", err)
	}
	return entries, nil
}

// CreateEntry creates a new entry via POST /journalentries
func (c *Client) CreateEntry(ctx context.Context, in EntryInput) (Entry, error) {
	sent := in.NewEntry()
	body, err := c.do(ctx, http.MethodPost, &url.URL{Path: "/journalentries"}, sent)
	if err != nil {
		return Entry{}, err
	}
	return decodeEntryOr(body, sent)
}

// UpdateEntry replaces an entry via PUT /journalentries/{id}. The body is the
// prior entry with the input applied on top, so server fields survive the round trip.
func (c *Client) UpdateEntry(ctx context.Context, prior Entry, in EntryInput) (Entry, error) {
	if prior.ID == 0 {
		return Entry{}, fmt.Errorf("update entry: missing id")
	}
	sent := prior.With(in)
	rel := &url.URL{Path: "/journalentries/" + strconv.FormatInt(prior.ID, 10)}
	body, err := c.do(ctx, http.MethodPut, rel, sent)
	if err != nil {
		return Entry{}, err
	}
	return decodeEntryOr(body, sent)
}

// DeleteEntry removes an entry via DELETE /journalentries/{id}
func (c *Client) DeleteEntry(ctx context.Context, id int64) error {
	rel := &url.URL{Path: "/journalentries/" + strconv.FormatInt(id, 10)}
	_, err := c.do(ctx, http.MethodDelete, rel, nil)
	return err
}

// decodeEntryOr decodes the echoed entry, falling back to what was sent when
// the server answered without a usable body
func decodeEntryOr(body []byte, sent Entry) (Entry, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return sent, nil
	}
	var got Entry
	if err := json.Unmarshal(body, &got); err != nil {
		return Entry{}, fmt.Errorf("failed to parse entry: %w", err)
	}
	if got.ID == 0 && sent.ID != 0 {
		return sent, nil
	}
	return got, nil
}

func (c *Client) do(ctx context.Context, method string, rel *url.URL, payload any) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.roundTrip(ctx, method, rel, payload)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrBreakerOpen, err)
	}
	if err != nil {
		return nil, err
	}
	body, _ := out.([]byte)
	return body, nil
}

func (c *Client) roundTrip(ctx context.Context, method string, rel *url.URL, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed", "method", method, "path", rel.String(), "request_id", requestID, "err", err)
		return nil, fmt.Errorf("network error: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("request done",
		"method", method,
		"path", rel.String(),
		"status", resp.StatusCode,
		"request_id", requestID,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Method: method, Path: rel.Path, StatusCode: resp.StatusCode}
	}
	return body, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse base url %q: missing host", raw)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
