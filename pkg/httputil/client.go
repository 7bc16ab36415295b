package httputil

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/topoviz/pkg/cache"
	"github.com/matzehuels/topoviz/pkg/errors"
	"github.com/matzehuels/topoviz/pkg/observability"
)

// Client defaults.
const (
	DefaultTimeout  = 10 * time.Second
	DefaultAttempts = 3
	DefaultDelay    = 500 * time.Millisecond

	// maxBody caps response bodies; topologies are small.
	maxBody = 32 << 20
)

// ClientOptions configures a Client. Zero values select defaults.
type ClientOptions struct {
	HTTPClient *http.Client
	Timeout    time.Duration

	// Cache stores response bodies. Nil disables caching.
	Cache cache.Cache
	Keyer cache.Keyer
	TTL   time.Duration
	// Namespace separates cache entries of different backends.
	Namespace string

	Attempts int
	Delay    time.Duration

	Headers map[string]string
}

// Client performs cached, retried GET requests.
type Client struct {
	http      *http.Client
	cache     cache.Cache
	keyer     cache.Keyer
	ttl       time.Duration
	namespace string
	attempts  int
	delay     time.Duration
	headers   map[string]string
}

// NewClient creates a Client.
func NewClient(opts ClientOptions) *Client {
	if opts.HTTPClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		opts.HTTPClient = &http.Client{Timeout: timeout}
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewNullCache()
	}
	if opts.Keyer == nil {
		opts.Keyer = cache.NewDefaultKeyer()
	}
	if opts.Attempts <= 0 {
		opts.Attempts = DefaultAttempts
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	return &Client{
		http:      opts.HTTPClient,
		cache:     opts.Cache,
		keyer:     opts.Keyer,
		ttl:       opts.TTL,
		namespace: opts.Namespace,
		attempts:  opts.Attempts,
		delay:     opts.Delay,
		headers:   opts.Headers,
	}
}

// Get returns the body at url, from the cache when possible.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	key := c.keyer.HTTPKey(c.namespace, url)
	if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		return data, nil
	}

	var body []byte
	err := Retry(ctx, c.attempts, c.delay, func() error {
		var err error
		body, err = c.fetch(ctx, url)
		return err
	})
	if err != nil {
		return nil, err
	}
	_ = c.cache.Set(ctx, key, body, c.ttl)
	return body, nil
}

// GetJSON fetches url and decodes the JSON body into v.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	body, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", url)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "build request for %s", url)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, ctx.Err(), "GET %s", url)
		}
		return nil, &RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "GET %s", url)}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(url, resp.StatusCode); err != nil {
		return nil, err
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "read %s", url)}
	}
	return body, nil
}

func checkStatus(url string, code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "GET %s: status %d", url, code)
	case code == http.StatusTooManyRequests || code >= 500:
		return &RetryableError{Err: errors.New(errors.ErrCodeNetwork, "GET %s: status %d", url, code)}
	default:
		return errors.New(errors.ErrCodeNetwork, "GET %s: status %d", url, code)
	}
}
