package standard

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// catalogueServer answers the typeahead endpoints the search client calls.
// failFirst makes the first n requests return status.
func catalogueServer(t *testing.T, failFirst int32, status int) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/unified-search", func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= failFirst {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Request-ID", "req-"+r.URL.Query().Get("q"))
		io.WriteString(w, `{"success":true,"count":1,"results":[{"_id":"sw-acme","_type":"software"}]}`)
	})
	mux.HandleFunc("/api/compare", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if atomic.AddInt32(&calls, 1) <= failFirst {
			w.WriteHeader(status)
			return
		}
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &calls
}

func readBody(t *testing.T, body io.ReadCloser) string {
	t.Helper()
	defer body.Close()
	b, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

func TestNewStandardHTTPClient_Defaults(t *testing.T) {
	client := NewStandardHTTPClient(10 * time.Second)

	if client.client.Timeout != 10*time.Second {
		t.Errorf("timeout = %v", client.client.Timeout)
	}
	if client.userAgent != "MarketplaceSearch/1.0" || client.maxRetries != 3 || client.limiter != nil {
		t.Errorf("unexpected defaults: ua=%q retries=%d limiter=%v", client.userAgent, client.maxRetries, client.limiter)
	}
}

func TestGet_UnifiedSearch(t *testing.T) {
	var ua, accept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua, accept = r.Header.Get("User-Agent"), r.Header.Get("Accept")
		if r.URL.Path != "/api/unified-search" || r.URL.Query().Get("category") != "crm" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("X-Request-ID", "abc")
		io.WriteString(w, `{"success":true,"count":0,"results":[]}`)
	}))
	defer server.Close()

	resp, err := NewStandardHTTPClient(time.Second).Get(context.Background(), server.URL+"/api/unified-search?q=crm&category=crm")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if resp.StatusCode() != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode())
	}
	if got := readBody(t, resp.Body()); !strings.Contains(got, `"count":0`) {
		t.Errorf("body = %s", got)
	}
	if resp.Header("X-Request-ID") != "abc" || resp.Header("X-Missing") != "" {
		t.Errorf("headers not exposed: %q", resp.Header("X-Request-ID"))
	}
	if ua != "MarketplaceSearch/1.0" || accept != "application/json" {
		t.Errorf("headers sent: ua=%q accept=%q", ua, accept)
	}
}

func TestPost_CompareSendsJSON(t *testing.T) {
	server, calls := catalogueServer(t, 0, 0)

	resp, err := NewStandardHTTPClient(time.Second).Post(context.Background(), server.URL+"/api/compare", strings.NewReader(`{"ids":["sw-acme","sw-pipe"]}`))
	if err != nil {
		t.Fatalf("Post returned error: %v", err)
	}
	if resp.StatusCode() != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode())
	}
	if got := readBody(t, resp.Body()); got != `{"ids":["sw-acme","sw-pipe"]}` {
		t.Errorf("echoed body = %s", got)
	}
	if got := atomic.LoadInt32(calls); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestRetries(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		failFirst  int32
		status     int
		retries    int
		wantStatus int
		wantCalls  int32
	}{
		{"search recovers after 503", "/api/unified-search?q=crm", 2, http.StatusServiceUnavailable, 3, http.StatusOK, 3},
		{"search recovers after 429", "/api/unified-search?q=crm", 1, http.StatusTooManyRequests, 3, http.StatusOK, 2},
		{"last 502 is returned when attempts run out", "/api/unified-search?q=crm", 5, http.StatusBadGateway, 2, http.StatusBadGateway, 2},
		{"compare body is replayed on retry", "/api/compare", 1, http.StatusInternalServerError, 2, http.StatusOK, 2},
		{"400 is not retried", "/api/unified-search?q=crm", 5, http.StatusBadRequest, 3, http.StatusBadRequest, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, calls := catalogueServer(t, tt.failFirst, tt.status)
			client := NewStandardHTTPClient(time.Second, WithMaxRetries(tt.retries))

			var err error
			var status int
			if strings.HasPrefix(tt.path, "/api/compare") {
				resp, postErr := client.Post(context.Background(), server.URL+tt.path, strings.NewReader(`{"ids":["sw-acme"]}`))
				err = postErr
				if resp != nil {
					status = resp.StatusCode()
					if status == http.StatusOK && readBody(t, resp.Body()) != `{"ids":["sw-acme"]}` {
						t.Error("retried request lost its body")
					}
				}
			} else {
				resp, getErr := client.Get(context.Background(), server.URL+tt.path)
				err = getErr
				if resp != nil {
					status = resp.StatusCode()
					resp.Body().Close()
				}
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			if got := atomic.LoadInt32(calls); got != tt.wantCalls {
				t.Errorf("calls = %d, want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestGet_ContextDeadline(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := NewStandardHTTPClient(5*time.Second).Get(ctx, server.URL+"/api/unified-search?q=slow")
	if err == nil {
		t.Fatal("expected deadline error")
	}
	if time.Since(start) > time.Second {
		t.Errorf("deadline not honoured, took %v", time.Since(start))
	}
}

func TestGet_UnreachableHost(t *testing.T) {
	_, err := NewStandardHTTPClient(time.Second, WithMaxRetries(1)).Get(context.Background(), "http://127.0.0.1:1/api/unified-search")
	if err == nil {
		t.Error("expected a transport error")
	}
}

func TestOptions(t *testing.T) {
	client := NewStandardHTTPClient(time.Second,
		WithUserAgent("catalog-cli/2"),
		WithMaxRetries(0),
		WithRateLimit(20, 1),
	)

	if client.userAgent != "catalog-cli/2" {
		t.Errorf("user agent = %q", client.userAgent)
	}
	if client.maxRetries != 1 {
		t.Errorf("retries below one should clamp to one, got %d", client.maxRetries)
	}
	if client.limiter == nil || client.limiter.Burst() != 1 {
		t.Error("rate limiter not configured")
	}
}

func TestRateLimitPacesSuggestRequests(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		io.WriteString(w, `{"items":[]}`)
	}))
	defer server.Close()

	client := NewStandardHTTPClient(time.Second, WithRateLimit(20, 1))
	start := time.Now()
	for _, prefix := range []string{"c", "cr", "crm"} {
		resp, err := client.Get(context.Background(), server.URL+"/api/search-intents?query="+prefix)
		if err != nil {
			t.Fatalf("Get returned error: %v", err)
		}
		resp.Body().Close()
	}

	// Burst 1 at 20/s spaces three requests at least ~100ms apart in total
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Errorf("requests not paced: %v", elapsed)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestRateLimitRespectsCancelledContext(t *testing.T) {
	client := NewStandardHTTPClient(time.Second, WithRateLimit(0.001, 1))
	server, _ := catalogueServer(t, 0, 0)

	resp, err := client.Get(context.Background(), server.URL+"/api/unified-search?q=a")
	if err != nil {
		t.Fatalf("first request should use the burst: %v", err)
	}
	resp.Body().Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := client.Get(ctx, server.URL+"/api/unified-search?q=b"); err == nil {
		t.Error("expected the limiter wait to fail on a cancelled context")
	}
}
