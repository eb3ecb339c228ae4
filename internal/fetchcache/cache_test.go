package fetchcache

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"fedcredit/loanscope/internal/domain"
)

// newCountingServer returns a server that serves the given JSON body and
// counts how many requests it received.
func newCountingServer(t *testing.T, body any, status int) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(body); err != nil {
			t.Errorf("failed to encode test response: %v", err)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestDo_SecondCallIsCacheHit(t *testing.T) {
	srv, calls := newCountingServer(t, map[string]any{"results": []string{"a"}}, http.StatusOK)
	c := New()

	q := Query{Method: http.MethodGet, URL: srv.URL + "/agencies"}

	first, err := c.Do(context.Background(), q)
	if err != nil {
		t.Fatalf("first Do failed: %v", err)
	}
	second, err := c.Do(context.Background(), q)
	if err != nil {
		t.Fatalf("second Do failed: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected 1 network call, got %d", got)
	}
	// A hit returns the stored slice, not a copy.
	if &first[0] != &second[0] {
		t.Error("expected cache hit to return the stored body")
	}
}

func TestDo_ExpiredEntryRefetches(t *testing.T) {
	srv, calls := newCountingServer(t, map[string]any{"ok": true}, http.StatusOK)
	c := New(WithTTL(time.Hour))

	q := Query{Method: http.MethodGet, URL: srv.URL + "/agencies"}
	if _, err := c.Do(context.Background(), q); err != nil {
		t.Fatalf("Do failed: %v", err)
	}

	// Backdate the stored entry past the freshness window.
	key, err := Key(q)
	if err != nil {
		t.Fatalf("Key failed: %v", err)
	}
	c.mu.Lock()
	e := c.entries[key]
	e.storedAt = time.Now().Add(-2 * time.Hour)
	c.entries[key] = e
	c.mu.Unlock()

	if _, err := c.Do(context.Background(), q); err != nil {
		t.Fatalf("Do after expiry failed: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected 2 network calls, got %d", got)
	}
}

func TestDo_FailureIsNotCached(t *testing.T) {
	srv, calls := newCountingServer(t, map[string]any{"detail": "bad"}, http.StatusBadGateway)
	c := New()

	q := Query{Method: http.MethodGet, URL: srv.URL + "/agencies"}

	_, err := c.Do(context.Background(), q)
	var fetchErr *domain.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *domain.FetchError, got %v", err)
	}
	if fetchErr.Status != http.StatusBadGateway {
		t.Errorf("expected status 502, got %d", fetchErr.Status)
	}

	// An immediate repeat must retry the network.
	if _, err := c.Do(context.Background(), q); err == nil {
		t.Fatal("expected second Do to fail")
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected 2 network calls, got %d", got)
	}
	if c.Len() != 0 {
		t.Errorf("expected no entries after failures, got %d", c.Len())
	}
}

func TestDo_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // force a connection error

	c := New()
	_, err := c.Do(context.Background(), Query{Method: http.MethodGet, URL: srv.URL})

	var fetchErr *domain.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *domain.FetchError, got %v", err)
	}
	if fetchErr.Status != 0 {
		t.Errorf("expected zero status for transport error, got %d", fetchErr.Status)
	}
	if fetchErr.Unwrap() == nil {
		t.Error("expected wrapped transport error")
	}
}

func TestClear_ForcesRefetch(t *testing.T) {
	srv, calls := newCountingServer(t, map[string]any{"ok": true}, http.StatusOK)
	c := New()

	q := Query{Method: http.MethodGet, URL: srv.URL + "/agencies"}
	if _, err := c.Do(context.Background(), q); err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", c.Len())
	}

	c.Clear()
	if c.Len() != 0 {
		t.Fatalf("expected empty cache after Clear, got %d entries", c.Len())
	}

	if _, err := c.Do(context.Background(), q); err != nil {
		t.Fatalf("Do after Clear failed: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected 2 network calls, got %d", got)
	}
}

func TestKey_DeterministicAcrossValueIdentity(t *testing.T) {
	body1 := map[string]any{"filters": map[string]any{"codes": []string{"07", "08"}}, "limit": 100}
	body2 := map[string]any{"limit": 100, "filters": map[string]any{"codes": []string{"07", "08"}}}

	k1, err := Key(Query{Method: http.MethodPost, URL: "https://example.test/search", Body: body1})
	if err != nil {
		t.Fatalf("Key failed: %v", err)
	}
	k2, err := Key(Query{Method: http.MethodPost, URL: "https://example.test/search", Body: body2})
	if err != nil {
		t.Fatalf("Key failed: %v", err)
	}

	if k1 != k2 {
		t.Errorf("expected identical keys for identical logical queries, got %q and %q", k1, k2)
	}
}

func TestKey_DistinguishesBodies(t *testing.T) {
	base := Query{Method: http.MethodPost, URL: "https://example.test/search"}

	q1 := base
	q1.Body = map[string]any{"page": 1}
	q2 := base
	q2.Body = map[string]any{"page": 2}

	k1, _ := Key(q1)
	k2, _ := Key(q2)
	if k1 == k2 {
		t.Error("expected different keys for different bodies")
	}
}

func TestDo_DifferentQueriesDoNotCollide(t *testing.T) {
	srv, calls := newCountingServer(t, map[string]any{"ok": true}, http.StatusOK)
	c := New()

	if _, err := c.Do(context.Background(), Query{Method: http.MethodGet, URL: srv.URL + "/a"}); err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if _, err := c.Do(context.Background(), Query{Method: http.MethodGet, URL: srv.URL + "/b"}); err != nil {
		t.Fatalf("Do failed: %v", err)
	}

	if got := calls.Load(); got != 2 {
		t.Fatalf("expected 2 network calls, got %d", got)
	}
	if c.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", c.Len())
	}
}
