// Package fetchcache provides an in-memory, time-boxed cache over outbound
// JSON API requests. Identical logical queries within the freshness window
// collapse to a single network call; everything else goes to the network.
//
// The cache has no capacity bound and no selective invalidation: entries
// are superseded by staleness-on-read or dropped wholesale by Clear. That
// matches its intended lifetime (one interactive process). Len is exposed
// so a capping wrapper could be layered on without an interface change.
package fetchcache

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"fedcredit/loanscope/internal/domain"
)

// DefaultTTL is the freshness window applied when none is configured.
const DefaultTTL = 5 * time.Minute

// Query describes one upstream request. Two queries with the same method,
// URL, and body are the same cache slot regardless of value identity.
type Query struct {
	Method string
	URL    string

	// Body is JSON-encoded for POST requests; nil means no body.
	Body any
}

// Key returns the deterministic cache key for q. The body is canonicalised
// through encoding/json (map keys are emitted sorted, struct fields in
// declaration order), so logically identical bodies share a key.
func Key(q Query) (string, error) {
	body, err := json.Marshal(q.Body)
	if err != nil {
		return "", fmt.Errorf("fetchcache: failed to encode body for key: %w", err)
	}

	h := sha256.New()
	io.WriteString(h, q.Method)
	io.WriteString(h, "\n")
	io.WriteString(h, q.URL)
	io.WriteString(h, "\n")
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil)), nil
}

type entry struct {
	value    json.RawMessage
	storedAt time.Time
}

// Cache is the call-and-cache primitive shared by all adapters. Construct
// one with New and pass it by reference; it is the only mutable process
// state in the fetch layer.
//
// There is no per-key locking: two concurrent calls for the same key both
// miss and both hit the network, and the later response overwrites the
// earlier entry. Responses are idempotent reads, so last-write-wins is
// acceptable. The mutex guards only the map itself.
type Cache struct {
	client *http.Client
	ttl    time.Duration

	mu      sync.Mutex
	entries map[string]entry
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL overrides the freshness window.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithHTTPClient overrides the HTTP client used for network calls.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Cache) {
		c.client = client
	}
}

// New returns an empty cache with the default TTL and http.Client.
func New(opts ...Option) *Cache {
	c := &Cache{
		client:  &http.Client{},
		ttl:     DefaultTTL,
		entries: make(map[string]entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do returns the response body for q, from cache when a fresh entry
// exists, otherwise from the network. Successful responses are stored;
// failures are returned as *domain.FetchError and never cached.
//
// A cache hit returns the stored slice itself. Callers decode it and must
// not mutate it.
func (c *Cache) Do(ctx context.Context, q Query) (json.RawMessage, error) {
	key, err := Key(q)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if e, ok := c.entries[key]; ok && time.Since(e.storedAt) < c.ttl {
		c.mu.Unlock()
		return e.value, nil
	}
	c.mu.Unlock()

	value, err := c.fetch(ctx, q)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = entry{value: value, storedAt: time.Now()}
	c.mu.Unlock()

	return value, nil
}

// Clear unconditionally drops all entries. The next call for any key goes
// to the network regardless of prior freshness.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// Len returns the number of live entries, stale ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) fetch(ctx context.Context, q Query) (json.RawMessage, error) {
	var reader io.Reader
	if q.Body != nil {
		data, err := json.Marshal(q.Body)
		if err != nil {
			return nil, fmt.Errorf("fetchcache: failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	method := q.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, q.URL, reader)
	if err != nil {
		return nil, fmt.Errorf("fetchcache: failed to build request: %w", err)
	}
	if q.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &domain.FetchError{URL: q.URL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.FetchError{URL: q.URL, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.FetchError{URL: q.URL, Err: err}
	}

	return body, nil
}
