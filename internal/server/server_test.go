package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/resume-verifier/internal/assistant"
	"github.com/jonathan/resume-verifier/internal/config"
	"github.com/jonathan/resume-verifier/internal/db"
	"github.com/jonathan/resume-verifier/internal/ingestion"
	"github.com/jonathan/resume-verifier/internal/observability"
	"github.com/jonathan/resume-verifier/internal/risk"
	"github.com/jonathan/resume-verifier/internal/server/ratelimit"
	"github.com/jonathan/resume-verifier/internal/verification"
)

// newTestServer wires a server against the in-memory store: no auth, no
// language model, default rate limits. The verifier is real but tests only
// feed it resumes with nothing to verify, so it never touches the network.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	store := db.NewMemory()
	verifier := verification.NewVerifier(verification.Config{Timeout: time.Second}, nil)

	s := &Server{
		log:            zap.NewNop(),
		store:          store,
		engine:         risk.NewDefaultEngine(),
		parser:         ingestion.NewParser(nil),
		verifier:       verifier,
		assistant:      assistant.New(nil, verifier, nil),
		metrics:        observability.NewMetrics(),
		rateLimiter:    ratelimit.NewLimiter(nil),
		maxUploadBytes: config.DefaultMaxUploadBytes,
	}
	s.userService = NewUserService(store, testPasswordConfig())
	t.Cleanup(s.rateLimiter.Stop)
	return s
}

// newAuthedTestServer additionally enables JWT authentication.
func newAuthedTestServer(t *testing.T) *Server {
	t.Helper()

	s := newTestServer(t)
	s.jwtService = setupTestJWTService(t, 1)
	s.authHandler = NewAuthHandler(s.userService, s.jwtService)
	return s
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(t, s.routes(), http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "ok", resp["database"])
}

func TestHealthEndpoint_Unlimited(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(t, s.routes(), http.MethodGet, "/health", nil)

	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	assert.Empty(t, w.Header().Get("X-RateLimit-Remaining"))
}

func TestRoutes_Unmatched(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(t, s.routes(), http.MethodGet, "/nope", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORS_Preflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/analyze", nil)
	w := httptest.NewRecorder()
	s.routes().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "DELETE")
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	assert.Zero(t, w.Body.Len())
}

func TestCORS_HeadersOnNormalRequest(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(t, s.routes(), http.MethodGet, "/health", nil)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit_Headers(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(t, s.routes(), http.MethodGet, "/api/candidates", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1000", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "999", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
}

func TestRateLimit_Exceeded(t *testing.T) {
	s := newTestServer(t)
	s.rateLimiter = ratelimit.NewLimiter(&ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  2,
		DefaultWindow: time.Minute,
	})
	handler := s.routes()

	for i := 0; i < 2; i++ {
		w := doJSON(t, handler, http.MethodGet, "/api/candidates", nil)
		require.Equal(t, http.StatusOK, w.Code, "request %d should pass", i+1)
	}

	w := doJSON(t, handler, http.MethodGet, "/api/candidates", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "rate_limit_exceeded", resp["error"])
	assert.Equal(t, float64(2), resp["limit"])
	assert.NotEmpty(t, resp["reset_at"])
}

func TestAuthDisabled_ProtectedRoutesRunOpen(t *testing.T) {
	s := newTestServer(t)
	handler := s.routes()

	// Without JWT_SECRET the analyze route is reachable unauthenticated;
	// the request fails on the missing upload, not on credentials.
	w := doJSON(t, handler, http.MethodPost, "/api/analyze", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "resume")
}

func TestAuthDisabled_AuthEndpointsUnavailable(t *testing.T) {
	s := newTestServer(t)
	handler := s.routes()

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/auth/register"},
		{http.MethodPost, "/api/auth/login"},
		{http.MethodGet, "/api/users/me"},
		{http.MethodPut, "/api/users/me/password"},
	} {
		w := doJSON(t, handler, tc.method, tc.path, map[string]string{})
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, "%s %s", tc.method, tc.path)
		assert.Contains(t, w.Body.String(), "authentication is not configured")
	}
}

func TestAuthEnabled_RequiresToken(t *testing.T) {
	s := newAuthedTestServer(t)
	handler := s.routes()

	w := doJSON(t, handler, http.MethodPost, "/api/analyze", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "unauthorized")

	w = doJSON(t, handler, http.MethodDelete, "/api/candidates/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthEnabled_InvalidToken(t *testing.T) {
	s := newAuthedTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	w := httptest.NewRecorder()
	s.routes().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthFlow(t *testing.T) {
	s := newAuthedTestServer(t)
	handler := s.routes()

	w := doJSON(t, handler, http.MethodPost, "/api/auth/register", map[string]string{
		"name":     "Ada Lovelace",
		"email":    "ada@example.com",
		"password": "analytical-engine",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var registered struct {
		User  map[string]any `json:"user"`
		Token string         `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registered))
	require.NotEmpty(t, registered.Token)
	assert.Equal(t, "ada@example.com", registered.User["email"])

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+registered.Token)
	me := httptest.NewRecorder()
	handler.ServeHTTP(me, req)
	require.Equal(t, http.StatusOK, me.Code, me.Body.String())
	assert.Contains(t, me.Body.String(), "ada@example.com")

	body, err := json.Marshal(map[string]string{
		"current_password": "analytical-engine",
		"new_password":     "difference-engine",
	})
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodPut, "/api/users/me/password", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+registered.Token)
	changed := httptest.NewRecorder()
	handler.ServeHTTP(changed, req)
	require.Equal(t, http.StatusOK, changed.Code, changed.Body.String())

	w = doJSON(t, handler, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "ada@example.com",
		"password": "difference-engine",
	})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	handler := s.routes()

	// One scoreable request so the counters have something to show
	doJSON(t, handler, http.MethodGet, "/health", nil)

	w := doJSON(t, handler, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "resume_verifier_http_requests_total")
	assert.Contains(t, body, `route="/health"`)
}

func TestMetrics_PathParamsCollapseToPattern(t *testing.T) {
	s := newTestServer(t)
	handler := s.routes()

	first := uuid.NewString()
	doJSON(t, handler, http.MethodGet, "/api/candidates/"+first, nil)
	doJSON(t, handler, http.MethodGet, "/api/candidates/"+uuid.NewString(), nil)

	w := doJSON(t, handler, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `route="/api/candidates/{id}"`)
	assert.NotContains(t, body, first)
}

func TestStatusRecorder(t *testing.T) {
	rec := &statusRecorder{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}
	rec.WriteHeader(http.StatusTeapot)
	assert.Equal(t, http.StatusTeapot, rec.status)
}

func TestJSONResponse(t *testing.T) {
	s := newTestServer(t)
	w := httptest.NewRecorder()

	s.jsonResponse(w, http.StatusOK, map[string]string{"key": "value"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "value", resp["key"])
}

func TestErrorResponse(t *testing.T) {
	s := newTestServer(t)
	w := httptest.NewRecorder()

	s.errorResponse(w, http.StatusBadRequest, "test error")

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "test error", resp["error"])
}

func TestExtractClientID(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "10.1.2.3:9999"
	assert.Equal(t, "10.1.2.3", s.extractClientID(req))

	req.RemoteAddr = "unix-socket"
	assert.Equal(t, "unix-socket", s.extractClientID(req))
}

func TestRateLimit_PerClient(t *testing.T) {
	s := newTestServer(t)
	s.rateLimiter = ratelimit.NewLimiter(&ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
	})
	handler := s.routes()

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/candidates", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	require.Equal(t, http.StatusOK, send("10.0.0.1:1000"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:2000"))
	assert.Equal(t, http.StatusOK, send("10.0.0.2:1000"), "a different client has its own bucket")
}

func TestRequireAuth_PassThroughWithoutJWT(t *testing.T) {
	s := newTestServer(t)

	called := false
	h := s.requireAuth(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, "/anything", nil))

	assert.True(t, called)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestHealthEndpoint_ReportsStoreFailure(t *testing.T) {
	s := newTestServer(t)
	s.store = failingPingStore{Store: s.store, err: fmt.Errorf("connection refused")}

	w := doJSON(t, s.routes(), http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "unreachable", resp["database"])
}

// failingPingStore wraps a Store and fails health checks.
type failingPingStore struct {
	Store
	err error
}

func (f failingPingStore) Ping(context.Context) error { return f.err }
