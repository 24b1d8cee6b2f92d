package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stargazer/pkg/auth"
	"github.com/matzehuels/stargazer/pkg/integrations/github"
	"github.com/matzehuels/stargazer/pkg/neighbours"
	"github.com/matzehuels/stargazer/pkg/users"
)

// fakeGitHub serves the two listing endpoints for pallets/flask.
func fakeGitHub(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/pallets/flask/stargazers":
			fmt.Fprint(w, `[{"login":"alice"},{"login":"bob"}]`)
		case "/users/alice/starred":
			fmt.Fprint(w, `[{"name":"one","owner":{"login":"X"}},{"name":"two","owner":{"login":"Y"}}]`)
		case "/users/bob/starred":
			fmt.Fprint(w, `[{"name":"two","owner":{"login":"Y"}}]`)
		case "/repos/ratelimited/repo/stargazers":
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"message":"API rate limit exceeded","documentation_url":"https://docs.github.com/rest"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"Not Found"}`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

type testEnv struct {
	server *Server
	guard  *auth.Guard
	store  *users.MemoryStore
	logs   *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	gh := fakeGitHub(t)
	client := github.NewClient(github.Options{BaseURL: gh.URL})
	resolver := neighbours.NewResolver(client, neighbours.Options{})

	store := users.NewMemoryStore()
	hash, err := auth.HashPassword("secret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	for _, u := range []*users.User{
		users.New("jd", "jd@stargazer.com", hash),
		{Username: "aurele", Email: "aurele@stargazer.com", Disabled: true, HashedPassword: hash},
	} {
		if err := store.Create(ctx, u); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	guard := auth.NewGuard([]byte("test-key"), "HS256", time.Hour)
	logs := &bytes.Buffer{}
	logger := log.NewWithOptions(logs, log.Options{Level: log.DebugLevel})
	return &testEnv{
		server: New(resolver, store, guard, logger),
		guard:  guard,
		store:  store,
		logs:   logs,
	}
}

func (e *testEnv) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) bearer(t *testing.T, username string) string {
	t.Helper()
	tok, err := e.guard.Issue(username)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return "Bearer " + tok.AccessToken
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"status":"healthy"}` {
		t.Errorf("body = %s", got)
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("missing request id header")
	}
}

func TestRequestID_Echoed(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "5f0c6a3e-3c1b-4d4e-9a53-2f4a3b1f3a10")

	rec := env.do(t, req)
	if got := rec.Header().Get(RequestIDHeader); got != "5f0c6a3e-3c1b-4d4e-9a53-2f4a3b1f3a10" {
		t.Errorf("request id = %q", got)
	}
}

func tokenRequest(form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, tokenRequest(url.Values{"username": {"jd"}, "password": {"secret"}}))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var tok auth.Token
	if err := json.Unmarshal(rec.Body.Bytes(), &tok); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if tok.TokenType != "bearer" {
		t.Errorf("token_type = %q", tok.TokenType)
	}
	if sub, err := env.guard.Parse(tok.AccessToken); err != nil || sub != "jd" {
		t.Errorf("Parse = %q, %v", sub, err)
	}
}

func TestToken_Errors(t *testing.T) {
	tests := []struct {
		name       string
		form       url.Values
		wantStatus int
		wantMsg    string
		wantFields int
	}{
		{"wrong password", url.Values{"username": {"jd"}, "password": {"nope"}}, 401, "Incorrect username or password", 0},
		{"unknown user", url.Values{"username": {"ghost"}, "password": {"secret"}}, 401, "Incorrect username or password", 0},
		{"missing password", url.Values{"username": {"jd"}}, 422, "Invalid input", 1},
		{"missing both", url.Values{}, 422, "Invalid input", 2},
		{"bad grant type", url.Values{"username": {"jd"}, "password": {"secret"}, "grant_type": {"client_credentials"}}, 422, "Invalid input", 1},
		{"password grant accepted", url.Values{"username": {"jd"}, "password": {"nope"}, "grant_type": {"password"}}, 401, "Incorrect username or password", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			rec := env.do(t, tokenRequest(tt.form))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body)
			}
			body := decodeError(t, rec)
			if body.Message != tt.wantMsg || body.Status != tt.wantStatus {
				t.Errorf("body = %+v", body)
			}
			if tt.wantStatus == 401 && rec.Header().Get("WWW-Authenticate") != "Bearer" {
				t.Error("missing WWW-Authenticate header")
			}
			if tt.wantFields > 0 {
				fields, ok := body.Detail.([]any)
				if !ok || len(fields) != tt.wantFields {
					t.Errorf("detail = %#v, want %d fields", body.Detail, tt.wantFields)
				}
			}
		})
	}
}

func starRequest(path, authz string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	return req
}

func TestStarNeighbours(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, starRequest("/repos/pallets/flask/starneighbours", env.bearer(t, "jd")))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	want := `[{"repo":"Y/two","stargazers":["alice","bob"]},{"repo":"X/one","stargazers":["alice"]}]`
	if got := strings.TrimSpace(rec.Body.String()); got != want {
		t.Errorf("body = %s\nwant   %s", got, want)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if logs := env.logs.String(); !strings.Contains(logs, "user=jd") || !strings.Contains(logs, "neighbours=2") {
		t.Errorf("resolution not logged with the authenticated user:\n%s", logs)
	}
}

func TestStarNeighbours_ClientGone(t *testing.T) {
	env := newTestEnv(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := starRequest("/repos/pallets/flask/starneighbours", env.bearer(t, "jd")).WithContext(ctx)

	rec := env.do(t, req)
	if rec.Body.Len() != 0 {
		t.Errorf("cancelled request answered with %d: %s", rec.Code, rec.Body)
	}
	if logs := env.logs.String(); strings.Contains(logs, "request failed") || !strings.Contains(logs, "client went away") {
		t.Errorf("unexpected logs:\n%s", logs)
	}
}

func TestStarNeighbours_GitHubError(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, starRequest("/repos/ratelimited/repo/starneighbours", env.bearer(t, "jd")))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var body struct {
		Message string `json:"message"`
		Status  int    `json:"status"`
		Detail  struct {
			GitHubAPIMessage map[string]any `json:"github_api_message"`
		} `json:"detail"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Message != "Bad Gateway for GitHub API" || body.Status != 502 {
		t.Errorf("envelope = %+v", body)
	}
	if body.Detail.GitHubAPIMessage["message"] != "API rate limit exceeded" {
		t.Errorf("github_api_message = %v", body.Detail.GitHubAPIMessage)
	}
	if body.Detail.GitHubAPIMessage["documentation_url"] != "https://docs.github.com/rest" {
		t.Errorf("upstream body not passed through verbatim: %v", body.Detail.GitHubAPIMessage)
	}
}

func TestStarNeighbours_Auth(t *testing.T) {
	env := newTestEnv(t)
	other := auth.NewGuard([]byte("other-key"), "HS256", time.Hour)
	otherTok, _ := other.Issue("jd")
	ghostTok, _ := env.guard.Issue("ghost")

	tests := []struct {
		name       string
		authz      string
		wantStatus int
		wantMsg    string
	}{
		{"missing header", "", 401, "Could not validate credentials"},
		{"wrong scheme", "Basic amQ6c2VjcmV0", 401, "Could not validate credentials"},
		{"garbage token", "Bearer abc.def.ghi", 401, "Could not validate credentials"},
		{"foreign key", "Bearer " + otherTok.AccessToken, 401, "Could not validate credentials"},
		{"unknown user", "Bearer " + ghostTok.AccessToken, 401, "Could not validate credentials"},
		{"disabled user", env.bearer(t, "aurele"), 403, "Inactive user"},
		{"lowercase scheme", "bearer " + mustIssue(t, env.guard, "jd"), 200, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, starRequest("/repos/pallets/flask/starneighbours", tt.authz))
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body)
			}
			if tt.wantStatus == 200 {
				return
			}
			body := decodeError(t, rec)
			if body.Message != tt.wantMsg || body.Status != tt.wantStatus || body.Detail != nil {
				t.Errorf("body = %+v", body)
			}
			if tt.wantStatus == 401 && rec.Header().Get("WWW-Authenticate") != "Bearer" {
				t.Error("missing WWW-Authenticate header")
			}
		})
	}
}

func mustIssue(t *testing.T, g *auth.Guard, username string) string {
	t.Helper()
	tok, err := g.Issue(username)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return tok.AccessToken
}

type unavailableStore struct{ users.Store }

func (unavailableStore) Get(context.Context, string) (*users.User, error) {
	return nil, fmt.Errorf("%w: connection refused", users.ErrUnavailable)
}

func TestDatabaseUnavailable(t *testing.T) {
	env := newTestEnv(t)
	srv := New(env.server.resolver, unavailableStore{}, env.guard, log.NewWithOptions(io.Discard, log.Options{}))

	for _, req := range []*http.Request{
		tokenRequest(url.Values{"username": {"jd"}, "password": {"secret"}}),
		starRequest("/repos/pallets/flask/starneighbours", env.bearer(t, "jd")),
	} {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("%s: status = %d", req.URL.Path, rec.Code)
			continue
		}
		if body := decodeError(t, rec); body.Message != "Database not available" {
			t.Errorf("%s: message = %q", req.URL.Path, body.Message)
		}
	}
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		method, path string
		wantStatus   int
		wantMsg      string
	}{
		{http.MethodGet, "/nope", 404, "Not Found"},
		{http.MethodPost, "/health", 405, "Method Not Allowed"},
		{http.MethodGet, "/token", 405, "Method Not Allowed"},
	}
	for _, tt := range tests {
		rec := env.do(t, httptest.NewRequest(tt.method, tt.path, nil))
		if rec.Code != tt.wantStatus {
			t.Errorf("%s %s: status = %d, want %d", tt.method, tt.path, rec.Code, tt.wantStatus)
			continue
		}
		if body := decodeError(t, rec); body.Message != tt.wantMsg {
			t.Errorf("%s %s: message = %q", tt.method, tt.path, body.Message)
		}
	}
}

func TestRecoverer(t *testing.T) {
	var logs bytes.Buffer
	h := requestID(log.NewWithOptions(&logs, log.Options{}))(recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := decodeError(t, rec); body.Message != "Internal Server Error" {
		t.Errorf("message = %q", body.Message)
	}
	if !strings.Contains(logs.String(), "boom") {
		t.Errorf("panic not logged: %s", logs.String())
	}
}
