package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

type fetchOptions struct {
	method string
	body   any
}

func (o *fetchOptions) isRead() bool {
	return o == nil || o.method == "" || o.method == http.MethodGet
}

// fetchWithFallback issues a request and, for reads, mirrors the raw body
// into the cache under cacheKey. When the request fails in any way the cached
// body is decoded instead; without one, reads get empty and writes get the
// error.
func fetchWithFallback[T any](ctx context.Context, c *Client, endpoint, cacheKey string, empty T, opts *fetchOptions) (T, error) {
	read := opts.isRead()
	method, body := http.MethodGet, any(nil)
	if !read {
		method, body = opts.method, opts.body
	}

	data, err := c.do(ctx, method, endpoint, body)
	if err == nil {
		var value T
		if err = json.Unmarshal(data, &value); err == nil {
			if read && cacheKey != "" {
				c.cache.Set(cacheKey, data)
			}
			return value, nil
		}
		err = fmt.Errorf("decode %s response: %w", endpoint, err)
	}

	c.logger.WarnContext(ctx, "API error, falling back to cache",
		"endpoint", endpoint,
		"cache_key", cacheKey,
		"error", err)

	if cacheKey != "" {
		if cached, ok := c.cache.Get(cacheKey); ok {
			var value T
			derr := json.Unmarshal(cached, &value)
			if derr == nil {
				c.metrics.CacheFallback(cacheKey, "cache")
				return value, nil
			}
			c.logger.WarnContext(ctx, "Discarding unreadable cache entry", "cache_key", cacheKey, "error", derr)
		}
	}

	if read {
		c.metrics.CacheFallback(cacheKey, "default")
		return empty, nil
	}
	var zero T
	return zero, err
}
