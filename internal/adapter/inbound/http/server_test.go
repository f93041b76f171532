package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	followshttp "github.com/0xsj/overwatch-follows/internal/adapter/inbound/http"
	domainerror "github.com/0xsj/overwatch-follows/internal/domain/error"
	"github.com/0xsj/overwatch-follows/internal/domain/model"
	"github.com/0xsj/overwatch-follows/internal/port/inbound/query"
	"github.com/0xsj/overwatch-follows/internal/port/outbound/cache"
	"github.com/0xsj/overwatch-follows/internal/port/outbound/repository"
	"github.com/0xsj/overwatch-follows/tests/testutil"
	"github.com/0xsj/overwatch-follows/tests/testutil/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// fakeLookup answers lookups from a fixed table keyed by normalized handle.
type fakeLookup struct {
	mu      sync.Mutex
	results map[string]query.LookupFollowsResult
	errs    map[string]error
	queries []query.LookupFollows
}

func newFakeLookup() *fakeLookup {
	return &fakeLookup{
		results: make(map[string]query.LookupFollowsResult),
		errs:    make(map[string]error),
	}
}

func (f *fakeLookup) Handle(ctx context.Context, qry query.LookupFollows) (query.LookupFollowsResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, qry)

	handle, err := model.ParseHandle(qry.Handle)
	if err != nil {
		return query.LookupFollowsResult{}, err
	}
	if err := f.errs[handle.String()]; err != nil {
		return query.LookupFollowsResult{}, err
	}
	if res, ok := f.results[handle.String()]; ok {
		return res, nil
	}
	return query.LookupFollowsResult{}, fmt.Errorf("%w: %s", domainerror.ErrHandleResolutionFailed, handle)
}

func (f *fakeLookup) lastQuery() query.LookupFollows {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[len(f.queries)-1]
}

var testFollows = []model.FollowerRecord{
	{DID: "did:plc:f1", Handle: "alice.example", DisplayName: "Alice", Avatar: "https://cdn.example/alice.jpg", Description: "Writes about <b>birds</b>"},
	{DID: "did:plc:f2", Handle: "bob.example", DisplayName: "Bob"},
}

type testServer struct {
	handler  http.Handler
	lookup   *fakeLookup
	registry *prometheus.Registry
}

type serverOption func(*followshttp.HandlerConfig, *followshttp.ServerDeps, *followshttp.ServerConfig)

func withLimiter(l cache.RateLimiter) serverOption {
	return func(_ *followshttp.HandlerConfig, d *followshttp.ServerDeps, _ *followshttp.ServerConfig) {
		d.RateLimiter = l
	}
}

func withLookupRepo(r repository.LookupRepository) serverOption {
	return func(h *followshttp.HandlerConfig, _ *followshttp.ServerDeps, _ *followshttp.ServerConfig) {
		h.LookupRepo = r
	}
}

func withOrigins(origins ...string) serverOption {
	return func(_ *followshttp.HandlerConfig, _ *followshttp.ServerDeps, c *followshttp.ServerConfig) {
		c.AllowedOrigins = origins
	}
}

func newTestServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()

	lookup := newFakeLookup()
	lookup.results["coilysiren.me"] = query.LookupFollowsResult{
		Handle:      "coilysiren.me",
		DID:         "did:plc:abc123",
		PDSEndpoint: "https://pds.example",
		Follows:     testFollows,
	}
	lookup.results["empty.example"] = query.LookupFollowsResult{
		Handle:      "empty.example",
		DID:         "did:plc:empty",
		PDSEndpoint: "https://pds.example",
		Follows:     []model.FollowerRecord{},
	}

	registry := prometheus.NewRegistry()
	hcfg := followshttp.HandlerConfig{
		LookupFollowsHandler: lookup,
		Page: followshttp.PageContent{
			Title:         "Follows",
			ProfileHandle: "coilysiren.me",
			Intro:         "Accounts I follow on Bluesky.",
			Limit:         10,
		},
	}
	deps := followshttp.ServerDeps{Registry: registry, Logger: nopLogger{}}
	scfg := followshttp.ServerConfig{Host: "127.0.0.1", Port: 0}

	for _, opt := range opts {
		opt(&hcfg, &deps, &scfg)
	}
	deps.Handler = followshttp.NewHandler(hcfg)

	srv, err := followshttp.NewServer(scfg, deps)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}

	return &testServer{handler: srv.Handler(), lookup: lookup, registry: registry}
}

func (s *testServer) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

// --- Page ---

func TestPage_Home(t *testing.T) {
	s := newTestServer(t)

	rec := s.get(t, "/")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()

	for _, want := range []string{
		`<a href="https://bsky.app/profile/coilysiren.me">@coilysiren.me</a>`,
		"Accounts I follow on Bluesky.",
		`src="https://cdn.example/alice.jpg"`,
		`alt="Alice"`,
		`width="120" height="120"`,
		`<a href="https://bsky.app/profile/alice.example">`,
		"@alice.example",
		"@bob.example",
		"Writes about &lt;b&gt;birds&lt;/b&gt;",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}

	if strings.Index(body, "@alice.example") > strings.Index(body, "@bob.example") {
		t.Error("follows should render in remote order")
	}
	if q := s.lookup.lastQuery(); q.Handle != "coilysiren.me" || q.Limit != 10 {
		t.Errorf("lookup query = %+v", q)
	}
}

func TestPage_Profile(t *testing.T) {
	s := newTestServer(t)

	rec := s.get(t, "/profile/empty.example")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "@empty.example") {
		t.Error("header should name the profile")
	}
	if !strings.Contains(body, "Not following anyone yet.") {
		t.Error("expected empty-state message")
	}
	if strings.Contains(body, "Accounts I follow on Bluesky.") {
		t.Error("intro belongs to the home page only")
	}
}

func TestPage_Errors(t *testing.T) {
	tests := []struct {
		name       string
		handle     string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "authentication", handle: "auth.example", err: fmt.Errorf("%w: status 401", domainerror.ErrAuthenticationFailed), wantStatus: http.StatusBadGateway, wantCode: "authenticate"},
		{name: "resolution", handle: "nobody.example", wantStatus: http.StatusNotFound, wantCode: "resolve_handle"},
		{name: "endpoint discovery", handle: "nopds.example", err: domainerror.PDSEndpointNotFound("did:plc:x"), wantStatus: http.StatusBadGateway, wantCode: "discover_pds"},
		{name: "fetch", handle: "fetch.example", err: fmt.Errorf("%w: status 500", domainerror.ErrFollowsFetchFailed), wantStatus: http.StatusBadGateway, wantCode: "fetch_follows"},
		{name: "invalid handle", handle: "not_a_handle", wantStatus: http.StatusBadRequest, wantCode: "validate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			if tt.err != nil {
				s.lookup.errs[tt.handle] = tt.err
			}

			rec := s.get(t, "/profile/"+tt.handle)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			body := rec.Body.String()
			if !strings.Contains(body, "@"+tt.handle) {
				t.Error("failed page should still render its header")
			}
			if !strings.Contains(body, `data-error-code="`+tt.wantCode+`"`) {
				t.Errorf("body missing error code %q", tt.wantCode)
			}
			if strings.Contains(body, "status 401") || strings.Contains(body, "status 500") {
				t.Error("upstream details must not reach the page")
			}
		})
	}
}

// --- API ---

func TestAPI_GetFollows(t *testing.T) {
	s := newTestServer(t)

	rec := s.get(t, "/api/v1/follows/coilysiren.me?limit=25")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Ok          bool                   `json:"ok"`
		Handle      string                 `json:"handle"`
		DID         string                 `json:"did"`
		PDSEndpoint string                 `json:"pdsEndpoint"`
		Follows     []model.FollowerRecord `json:"follows"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Ok || resp.DID != "did:plc:abc123" || resp.PDSEndpoint != "https://pds.example" {
		t.Errorf("response = %+v", resp)
	}
	if len(resp.Follows) != 2 || resp.Follows[0] != testFollows[0] {
		t.Errorf("follows = %+v", resp.Follows)
	}
	if q := s.lookup.lastQuery(); q.Limit != 25 {
		t.Errorf("limit = %d, want 25", q.Limit)
	}
}

func TestAPI_GetFollows_EmptyListIsArray(t *testing.T) {
	s := newTestServer(t)

	rec := s.get(t, "/api/v1/follows/empty.example")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"follows":[]`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestAPI_GetFollows_InvalidLimit(t *testing.T) {
	s := newTestServer(t)

	for _, limit := range []string{"0", "-1", "ten"} {
		rec := s.get(t, "/api/v1/follows/coilysiren.me?limit="+limit)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("limit=%s: status = %d, want 400", limit, rec.Code)
		}
	}
	if len(s.lookup.queries) != 0 {
		t.Error("invalid limits must not start a lookup")
	}
}

func TestAPI_GetFollows_Error(t *testing.T) {
	s := newTestServer(t)
	s.lookup.errs["coilysiren.me"] = fmt.Errorf("%w: status 500", domainerror.ErrFollowsFetchFailed)

	rec := s.get(t, "/api/v1/follows/coilysiren.me")

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["ok"] != false {
		t.Errorf("ok = %v", resp["ok"])
	}
	if resp["error"] != domainerror.ErrFollowsFetchFailed.Error() {
		t.Errorf("error = %v", resp["error"])
	}
	if resp["step"] != "fetch_follows" {
		t.Errorf("step = %v", resp["step"])
	}
}

func TestAPI_ListLookups(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		s := newTestServer(t)
		if rec := s.get(t, "/api/v1/lookups"); rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("lists newest first", func(t *testing.T) {
		repo := mocks.NewLookupRepository()
		first := testutil.Fixtures.SucceededLookup()
		second := testutil.Fixtures.FailedLookup(domainerror.ErrAuthenticationFailed)
		repo.AddLookup(first)
		repo.AddLookup(second)
		s := newTestServer(t, withLookupRepo(repo))

		rec := s.get(t, "/api/v1/lookups?limit=10")

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var resp []map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(resp) != 2 {
			t.Fatalf("len = %d, want 2", len(resp))
		}
		if resp[0]["id"] != second.ID().String() || resp[0]["outcome"] != "failed" || resp[0]["failedStep"] != "authenticate" {
			t.Errorf("first entry = %v", resp[0])
		}
		if resp[1]["outcome"] != "succeeded" {
			t.Errorf("second entry = %v", resp[1])
		}
		if _, err := time.Parse(time.RFC3339, resp[1]["occurredAt"].(string)); err != nil {
			t.Errorf("occurredAt: %v", err)
		}
	})

	t.Run("invalid limit", func(t *testing.T) {
		s := newTestServer(t, withLookupRepo(mocks.NewLookupRepository()))
		if rec := s.get(t, "/api/v1/lookups?limit=101"); rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("repository error", func(t *testing.T) {
		repo := mocks.NewLookupRepository()
		repo.Errors.ListRecent = errors.New("database down")
		s := newTestServer(t, withLookupRepo(repo))

		rec := s.get(t, "/api/v1/lookups")
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", rec.Code)
		}
		if strings.Contains(rec.Body.String(), "database down") {
			t.Error("internal errors must not leak")
		}
	})
}

func TestAPI_CORS(t *testing.T) {
	s := newTestServer(t, withOrigins("https://coilysiren.me"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/follows/coilysiren.me", nil)
	req.Header.Set("Origin", "https://coilysiren.me")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://coilysiren.me" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

// --- Rate limiting ---

func TestRateLimit(t *testing.T) {
	limiter := mocks.NewRateLimiter(2, time.Minute)
	s := newTestServer(t, withLimiter(limiter))

	for i := 0; i < 2; i++ {
		if rec := s.get(t, "/api/v1/follows/coilysiren.me"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, rec.Code)
		}
	}

	rec := s.get(t, "/api/v1/follows/coilysiren.me")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Errorf("Retry-After = %q", rec.Header().Get("Retry-After"))
	}
	if len(s.lookup.queries) != 2 {
		t.Errorf("lookups = %d, rejected request must not run one", len(s.lookup.queries))
	}

	if rec := s.get(t, "/healthz"); rec.Code != http.StatusOK {
		t.Errorf("healthz should not be rate limited, got %d", rec.Code)
	}
}

func TestRateLimit_LimiterFailureLetsRequestsThrough(t *testing.T) {
	limiter := mocks.NewRateLimiter(1, time.Minute)
	limiter.Errors.Allow = errors.New("redis down")
	s := newTestServer(t, withLimiter(limiter))

	for i := 0; i < 3; i++ {
		if rec := s.get(t, "/"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, rec.Code)
		}
	}
}

// --- Health & metrics ---

func TestHealthz(t *testing.T) {
	s := newTestServer(t)

	rec := s.get(t, "/healthz")

	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("healthz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestMetrics(t *testing.T) {
	s := newTestServer(t)
	s.get(t, "/api/v1/follows/coilysiren.me")

	rec := s.get(t, "/metrics")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `http_requests_total{method="GET",path="/api/v1/follows/:handle",status="2xx"} 1`) {
		t.Errorf("metrics missing request counter:\n%s", rec.Body.String())
	}
}

func TestServerConfig_Validate(t *testing.T) {
	if err := (followshttp.ServerConfig{Port: 70000}).Validate(); err == nil {
		t.Error("expected error for out-of-range port")
	}
	if err := (followshttp.ServerConfig{Port: 8080}).Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}
