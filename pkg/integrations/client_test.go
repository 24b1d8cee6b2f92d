package integrations

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/matzehuels/stargazer/pkg/observability"
)

func TestNewClient(t *testing.T) {
	headers := map[string]string{"Authorization": "Bearer token"}
	client := NewClient("https://api.github.com/", 0, headers)

	if client == nil {
		t.Fatal("NewClient() returned nil")
	}
	if client.http == nil {
		t.Error("NewClient() http client is nil")
	}
	if client.http.Timeout != httpTimeout {
		t.Errorf("NewClient() timeout = %v, want %v", client.http.Timeout, httpTimeout)
	}
	if client.BaseURL() != "https://api.github.com" {
		t.Errorf("NewClient() base URL = %q, want trailing slash trimmed", client.BaseURL())
	}
	if client.headers["Authorization"] != "Bearer token" {
		t.Error("NewClient() headers not set correctly")
	}
}

func TestNewClientNilHeaders(t *testing.T) {
	client := NewClient("http://localhost", time.Second, nil)

	if client.headers != nil {
		t.Error("NewClient() should allow nil headers")
	}
	if client.http.Timeout != time.Second {
		t.Errorf("NewClient() timeout = %v, want 1s", client.http.Timeout)
	}
}

func TestClientGet(t *testing.T) {
	var gotPath, gotQuery, gotHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotHeader = r.Header.Get("X-Custom")
		w.Header().Set("Link", `<http://example.com?page=2>; rel="next"`)
		w.Write([]byte(`[{"login":"pabroux"}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, map[string]string{"X-Custom": "value"})

	resp, err := client.Get(context.Background(), "/users/pabroux/starred", url.Values{"per_page": {"100"}, "page": {"1"}})
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if !resp.OK() {
		t.Errorf("Get() status = %d, want 200", resp.StatusCode)
	}
	if string(resp.Body) != `[{"login":"pabroux"}]` {
		t.Errorf("Get() body = %q", resp.Body)
	}
	if !HasNext(resp.Header) {
		t.Error("Get() should expose response headers")
	}
	if gotPath != "/users/pabroux/starred" {
		t.Errorf("path = %q", gotPath)
	}
	if gotQuery != "page=1&per_page=100" {
		t.Errorf("query = %q", gotQuery)
	}
	if gotHeader != "value" {
		t.Errorf("X-Custom header = %q, want %q", gotHeader, "value")
	}
}

func TestClientGetNon200IsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Not Found"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, nil)
	resp, err := client.Get(context.Background(), "/repos/a/b/stargazers", nil)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if resp.OK() {
		t.Error("OK() should be false for 404")
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	if string(resp.Body) != `{"message":"Not Found"}` {
		t.Errorf("body = %q", resp.Body)
	}
}

func TestClientGetNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	serverURL := server.URL
	server.Close()

	client := NewClient(serverURL, time.Second, nil)
	_, err := client.Get(context.Background(), "/", nil)
	if err == nil {
		t.Fatal("expected error for closed server")
	}
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("error should wrap ErrNetwork, got %v", err)
	}
}

func TestClientGetEmitsHooks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	hooks := &recordingHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	client := NewClient(server.URL, time.Second, nil)
	if _, err := client.Get(context.Background(), "/users/x/starred", nil); err != nil {
		t.Fatalf("Get() error: %v", err)
	}

	if hooks.requests != 1 {
		t.Errorf("OnRequest called %d times, want 1", hooks.requests)
	}
	if hooks.status != http.StatusForbidden {
		t.Errorf("OnResponse status = %d, want 403", hooks.status)
	}
	if hooks.path != "/users/x/starred" {
		t.Errorf("OnResponse path = %q", hooks.path)
	}
}

type recordingHooks struct {
	observability.NoopHTTPHooks
	requests int
	status   int
	path     string
}

func (h *recordingHooks) OnRequest(context.Context, string, string, string) { h.requests++ }

func (h *recordingHooks) OnResponse(_ context.Context, _, _, path string, status int, _ time.Duration) {
	h.path = path
	h.status = status
}
