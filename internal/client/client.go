// Package client is the data-access layer used by front-ends. Reads are
// answered from a local cache whenever the backend cannot be reached; writes
// always report their failures.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"ecowallet/internal/cache"
	"ecowallet/internal/core"
	"ecowallet/internal/metrics"
	"ecowallet/internal/store"
)

// Cache keys shared with every front-end.
const (
	KeyTransactions = "transactions"
	KeyShopping     = "shopping"
	KeyIncomePrefix = "income_"
)

// IncomeKey returns the cache key of a month's income.
func IncomeKey(month core.MonthID) string {
	return KeyIncomePrefix + string(month)
}

// UserSource names the person attributed to new records.
type UserSource interface {
	UserName() string
}

type Client struct {
	baseURL string
	http    *http.Client
	cache   cache.Cache[[]byte]
	logger  *slog.Logger
	metrics *metrics.Metrics
	cleaner store.PurchasedCleaner
	users   UserSource
	now     func() time.Time
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithCache(ch cache.Cache[[]byte]) Option {
	return func(c *Client) { c.cache = ch }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithPurchasedCleaner enables the direct-store path of ClearPurchased.
func WithPurchasedCleaner(pc store.PurchasedCleaner) Option {
	return func(c *Client) { c.cleaner = pc }
}

func WithUserSource(u UserSource) Option {
	return func(c *Client) { c.users = u }
}

// New creates a client for the API rooted at baseURL (e.g.
// http://localhost:3001/api). Without WithCache an in-memory cache is used.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cache == nil {
		c.cache = cache.NewMemory[[]byte]()
	}
	return c
}

// Cache exposes the local cache, e.g. for session logout.
func (c *Client) Cache() cache.Cache[[]byte] {
	return c.cache
}

func (c *Client) userName() string {
	if c.users != nil {
		if name := strings.TrimSpace(c.users.UserName()); name != "" {
			return name
		}
	}
	return core.DefaultUser
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
}

// do performs one request and returns the raw response body of a 2xx answer.
func (c *Client) do(ctx context.Context, method, endpoint string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", endpoint, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", endpoint, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{Method: method, Path: endpoint, StatusCode: resp.StatusCode}
		var eb struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &eb) == nil {
			se.Message = eb.Error
		}
		return nil, se
	}
	return data, nil
}

// send performs a write and decodes the response into out when out is non-nil.
func (c *Client) send(ctx context.Context, method, endpoint string, body, out any) error {
	data, err := c.do(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}
