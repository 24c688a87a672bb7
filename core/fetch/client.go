package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"tracker-comparer/core/metrics"
	"tracker-comparer/core/pool"

	"github.com/PuerkitoBio/goquery"
	"github.com/goccy/go-json"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/time/rate"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 32 << 20

// Request describes one outbound call.
type Request struct {
	// Method defaults to GET.
	Method string
	URL    string
	Header map[string]string
	// Form is sent url-encoded as the request body when set.
	Form url.Values
	// Anonymous omits the configured session cookie for the host.
	Anonymous bool
}

// Response is a fully read response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	// URL is the final URL after redirects.
	URL *url.URL
}

// StatusError is returned for 4xx and 5xx responses.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.StatusCode)
}

// Retryable reports whether the status is worth another attempt.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// IsStatus reports whether err is a StatusError with one of the given codes.
func IsStatus(err error, codes ...int) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	for _, code := range codes {
		if se.StatusCode == code {
			return true
		}
	}
	return false
}

// Client performs requests with retry, throttling and cookie injection.
type Client struct {
	http    *http.Client
	cfg     Config
	step    time.Duration
	cookies map[string]string
	logger  *zap.Logger
	metrics *metrics.Recorder
	pool    *pool.Pool

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics records every attempt.
func WithMetrics(m *metrics.Recorder) Option {
	return func(c *Client) { c.metrics = m }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithCookies sets session cookies keyed by host suffix.
func WithCookies(cookies map[string]string) Option {
	return func(c *Client) {
		for host, value := range cookies {
			c.cookies[host] = value
		}
	}
}

// WithBackoffStep overrides the configured backoff step.
func WithBackoffStep(d time.Duration) Option {
	return func(c *Client) { c.step = d }
}

// New creates a Client from the configuration.
func New(cfg Config, opts ...Option) *Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "tracker-comparer/1.0"
	}

	c := &Client{
		http:     &http.Client{Timeout: time.Duration(timeout) * time.Second},
		cfg:      cfg,
		step:     time.Duration(cfg.BackoffStepMS) * time.Millisecond,
		cookies:  make(map[string]string),
		logger:   zap.NewNop(),
		pool:     pool.New(cfg.Concurrency),
		limiters: make(map[string]*rate.Limiter),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Pool returns the worker pool sized by the configured concurrency.
func (c *Client) Pool() *pool.Pool {
	return c.pool
}

// Do performs the request, retrying transient failures.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if req.Method == "" {
		req.Method = http.MethodGet
	}
	u, err := url.Parse(req.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", req.URL, err)
	}

	var (
		resp    *Response
		attempt int
	)
	err = retry.Do(ctx, c.backoff(), func(ctx context.Context) error {
		attempt++
		r, err := c.once(ctx, req, u)
		if err == nil {
			c.metrics.ObserveAttempt(u.Host, "ok")
			resp = r
			return nil
		}
		if !retryable(ctx, err) {
			c.metrics.ObserveAttempt(u.Host, "failed")
			return err
		}
		c.metrics.ObserveAttempt(u.Host, "retry")
		c.logger.Debug("Request failed, retrying",
			zap.String("method", req.Method),
			zap.String("url", req.URL),
			zap.Int("attempt", attempt),
			zap.Error(err))
		return retry.RetryableError(err)
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Get is shorthand for a GET request.
func (c *Client) Get(ctx context.Context, rawURL string) (*Response, error) {
	return c.Do(ctx, Request{URL: rawURL})
}

// Text returns the response body as a string.
func (c *Client) Text(ctx context.Context, req Request) (string, error) {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return "", err
	}
	return string(resp.Body), nil
}

// JSON decodes the response body into v.
func (c *Client) JSON(ctx context.Context, req Request, v any) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body, v); err != nil {
		return fmt.Errorf("decode %s: %w", req.URL, err)
	}
	return nil
}

// Document parses the response body as HTML.
func (c *Client) Document(ctx context.Context, req Request) (*goquery.Document, error) {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	return ParseDocument(resp.Body, resp.URL)
}

// FinalURL issues a HEAD request and returns the URL after redirects.
func (c *Client) FinalURL(ctx context.Context, rawURL string) (*url.URL, error) {
	resp, err := c.Do(ctx, Request{Method: http.MethodHead, URL: rawURL})
	if err != nil {
		return nil, err
	}
	return resp.URL, nil
}

// ParseDocument parses raw HTML into a goquery document rooted at base.
func ParseDocument(body []byte, base *url.URL) (*goquery.Document, error) {
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	doc := goquery.NewDocumentFromNode(root)
	doc.Url = base
	return doc, nil
}

// AbsURL resolves href against the document URL. Unresolvable input is
// returned unchanged.
func AbsURL(doc *goquery.Document, href string) string {
	ref, err := url.Parse(href)
	if err != nil || doc == nil || doc.Url == nil {
		return href
	}
	return doc.Url.ResolveReference(ref).String()
}

func (c *Client) once(ctx context.Context, req Request, u *url.URL) (*Response, error) {
	if lim := c.limiter(u.Host); lim != nil {
		if err := lim.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var body io.Reader
	if req.Form != nil {
		body = strings.NewReader(req.Form.Encode())
	}

	hreq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		return nil, err
	}
	hreq.Header.Set("User-Agent", c.cfg.UserAgent)
	if req.Form != nil {
		hreq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for k, v := range req.Header {
		hreq.Header.Set(k, v)
	}
	if !req.Anonymous {
		if session := c.cookieFor(u.Hostname()); session != "" {
			if existing := hreq.Header.Get("Cookie"); existing != "" {
				hreq.Header.Set("Cookie", existing+"; "+session)
			} else {
				hreq.Header.Set("Cookie", session)
			}
		}
	}

	hres, err := c.http.Do(hreq)
	if err != nil {
		return nil, err
	}
	defer hres.Body.Close()

	data, err := io.ReadAll(io.LimitReader(hres.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", req.URL, err)
	}

	if hres.StatusCode >= 400 {
		return nil, &StatusError{Method: req.Method, URL: req.URL, StatusCode: hres.StatusCode}
	}

	return &Response{
		StatusCode: hres.StatusCode,
		Header:     hres.Header,
		Body:       data,
		URL:        hres.Request.URL,
	}, nil
}

// backoff waits step, 2*step, 3*step... and stops after MaxAttempts calls.
func (c *Client) backoff() retry.Backoff {
	var n int64
	linear := retry.BackoffFunc(func() (time.Duration, bool) {
		n++
		return time.Duration(n) * c.step, false
	})
	return retry.WithMaxRetries(uint64(c.cfg.MaxAttempts-1), linear)
}

func (c *Client) limiter(host string) *rate.Limiter {
	if c.cfg.RequestsPerSecond <= 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	lim, ok := c.limiters[host]
	if !ok {
		burst := c.cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		lim = rate.NewLimiter(rate.Limit(c.cfg.RequestsPerSecond), burst)
		c.limiters[host] = lim
	}
	return lim
}

func (c *Client) cookieFor(host string) string {
	for suffix, value := range c.cookies {
		if host == suffix || strings.HasSuffix(host, "."+suffix) {
			return value
		}
	}
	return ""
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Retryable()
	}
	return true
}
