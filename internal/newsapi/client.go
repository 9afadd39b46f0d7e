// Package newsapi is the gateway to the /news listing endpoint of the trendly backend.
package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	// PageSize is fixed for every request.
	PageSize = 50

	// DefaultQuery is sent when the query is empty.
	DefaultQuery = "general"

	DefaultWindow = 7 * 24 * time.Hour

	dateLayout   = "2006-01-02"
	maxErrorBody = 64 << 10
)

// Params are the caller-controlled parts of a listing request.
type Params struct {
	Query    string
	SortBy   string
	Language string
	Page     int
}

type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	timeout time.Duration
	window  time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds every request, including reading the body.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRateLimit throttles outbound requests. perSecond <= 0 disables throttling.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithWindow sets how far back the from date reaches.
func WithWindow(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.window = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func withClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		timeout: 15 * time.Second,
		window:  DefaultWindow,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchPage performs exactly one GET {base}/news. It does not retry.
func (c *Client) FetchPage(ctx context.Context, p Params) (*Response, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	reqURL := c.baseURL + "/news?" + c.query(p).Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)

	c.logger.Debug("news request", "request_id", requestID, "url", reqURL)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(resp)
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if out.Status == "error" {
		return nil, &APIError{StatusCode: resp.StatusCode, Code: out.Code, Message: out.Message}
	}
	out.Articles = normalize(out.Articles)

	c.logger.Debug("news response",
		"request_id", requestID,
		"articles", len(out.Articles),
		"total_results", out.TotalResults,
	)
	return &out, nil
}

func (c *Client) query(p Params) url.Values {
	q := p.Query
	if strings.TrimSpace(q) == "" {
		q = DefaultQuery
	}
	page := p.Page
	if page < 1 {
		page = 1
	}
	from, to := DateRange(c.now(), c.window)

	v := url.Values{}
	v.Set("q", q)
	v.Set("sortBy", p.SortBy)
	v.Set("language", p.Language)
	v.Set("page", strconv.Itoa(page))
	v.Set("pageSize", strconv.Itoa(PageSize))
	v.Set("from", from)
	v.Set("to", to)
	return v
}

// DateRange returns the from/to dates (UTC, YYYY-MM-DD) ending at now.
func DateRange(now time.Time, window time.Duration) (from, to string) {
	now = now.UTC()
	return now.Add(-window).Format(dateLayout), now.Format(dateLayout)
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return apiErr
	}
	var payload Response
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Code = payload.Code
		apiErr.Message = payload.Message
	} else if msg := strings.TrimSpace(string(body)); msg != "" {
		apiErr.Message = truncate(msg, 200)
	}
	return apiErr
}
