// Package server provides the HTTP REST API for the resume verifier.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/resume-verifier/internal/assistant"
	"github.com/jonathan/resume-verifier/internal/config"
	"github.com/jonathan/resume-verifier/internal/db"
	"github.com/jonathan/resume-verifier/internal/ingestion"
	"github.com/jonathan/resume-verifier/internal/llm"
	"github.com/jonathan/resume-verifier/internal/observability"
	"github.com/jonathan/resume-verifier/internal/risk"
	"github.com/jonathan/resume-verifier/internal/server/middleware"
	"github.com/jonathan/resume-verifier/internal/server/ratelimit"
	"github.com/jonathan/resume-verifier/internal/verification"
)

// Server wires ingestion, verification, and scoring behind the REST API.
type Server struct {
	httpServer *http.Server
	log        *zap.Logger

	store       Store
	engine      *risk.Engine
	parser      *ingestion.Parser
	verifier    *verification.Verifier
	assistant   *assistant.Assistant
	metrics     *observability.Metrics
	rateLimiter *ratelimit.Limiter

	jwtService  *JWTService // nil when JWT_SECRET is unset; the API then runs open
	userService *UserService
	authHandler *AuthHandler

	llmClient      llm.Client // closed on shutdown; nil without an API key
	maxUploadBytes int64
}

// New creates a server from the loaded configuration. A missing DATABASE_URL
// selects the in-memory store, a missing JWT_SECRET disables authentication,
// and a missing GEMINI_API_KEY leaves the chat assistant in canned mode.
// Each degradation is logged; none is fatal.
func New(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var store Store
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		store = database
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory store; analyses are lost on restart")
		store = db.NewMemory()
	}

	engine, err := risk.NewEngine(cfg.RiskConfig())
	if err != nil {
		return nil, fmt.Errorf("invalid risk configuration: %w", err)
	}

	verifier := verification.NewVerifier(verification.Config{
		GitHubToken: cfg.GitHubToken,
		Timeout:     time.Duration(cfg.VerifyTimeout) * time.Second,
		CacheTTL:    time.Duration(cfg.CacheTTL) * time.Second,
		UseBrowser:  cfg.UseBrowser,
		Verbose:     cfg.Verbose,
	}, logger)

	s := &Server{
		log:            logger,
		store:          store,
		engine:         engine,
		parser:         ingestion.NewParser(cfg.SkillVocabulary),
		verifier:       verifier,
		metrics:        observability.NewMetrics(),
		rateLimiter:    ratelimit.NewLimiter(ratelimit.LoadConfig()),
		maxUploadBytes: cfg.MaxUploadBytes,
	}
	if s.maxUploadBytes <= 0 {
		s.maxUploadBytes = config.DefaultMaxUploadBytes
	}

	// The assistant still answers from stored analyses without a model
	if cfg.GeminiAPIKey != "" {
		client, err := llm.NewClient(context.Background(), nil, cfg.GeminiAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		s.llmClient = client
	} else {
		logger.Warn("GEMINI_API_KEY not set, chat assistant runs without a language model")
	}
	s.assistant = assistant.New(s.llmClient, verifier, logger)

	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	s.userService = NewUserService(store, passwordConfig)

	if os.Getenv("JWT_SECRET") == "" {
		logger.Warn("JWT_SECRET not set, API authentication disabled")
	} else {
		jwtConfig, err := config.NewJWTConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to create JWT config: %w", err)
		}
		s.jwtService = NewJWTService(jwtConfig)
		s.authHandler = NewAuthHandler(s.userService, s.jwtService)
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // analyze waits on external registries
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the mux and wraps it in the middleware chain.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/analyze", s.requireAuth(s.handleAnalyze))
	mux.HandleFunc("POST /api/score", s.handleScore)

	mux.HandleFunc("GET /api/candidates", s.handleListCandidates)
	mux.HandleFunc("GET /api/candidates/{id}", s.handleGetCandidate)
	mux.HandleFunc("DELETE /api/candidates/{id}", s.requireAuth(s.handleDeleteCandidate))
	mux.HandleFunc("GET /api/candidates/{id}/reports", s.handleListCandidateReports)
	mux.HandleFunc("GET /api/reports/{id}", s.handleGetReport)

	mux.HandleFunc("POST /api/chat", s.handleChat)

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("GET /api/users/me", s.requireAuth(s.handleMe))
	mux.HandleFunc("PUT /api/users/me/password", s.requireAuth(s.handleUpdatePassword))

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())

	return s.withCORS(s.withRateLimit(s.withLogging(s.withMetrics(mux))))
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	s.log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.rateLimiter.Stop()
	if s.llmClient != nil {
		if err := s.llmClient.Close(); err != nil {
			s.log.Warn("failed to close LLM client", zap.Error(err))
		}
	}
	s.store.Close()
	s.log.Info("server stopped")
	return nil
}

// requireAuth gates a handler behind Bearer authentication when a JWT
// service is configured. Without JWT_SECRET the API runs open.
func (s *Server) requireAuth(h http.HandlerFunc) http.HandlerFunc {
	if s.jwtService == nil {
		return h
	}
	return middleware.Auth(s.jwtService.AsTokenValidator())(h).ServeHTTP
}

// withCORS adds CORS headers and answers preflight requests.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit enforces per-client token bucket limits.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)
		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)

		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging logs one line per request.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", r.RemoteAddr),
		)
	})
}

// withMetrics records request counts and latency labeled by route pattern.
func (s *Server) withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		// The mux fills in r.Pattern; label by pattern, not raw path, so
		// /api/candidates/{id} stays one series
		route := r.Pattern
		if i := strings.IndexByte(route, ' '); i >= 0 {
			route = route[i+1:]
		}
		if route == "" {
			route = "unmatched"
		}
		s.metrics.RequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		s.metrics.RequestDurationSeconds.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// handleHealth reports liveness and database reachability.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]string{"status": "ok", "database": "ok"}
	if err := s.store.Ping(r.Context()); err != nil {
		health["database"] = "unreachable"
	}
	s.jsonResponse(w, http.StatusOK, health)
}

// handleRegister handles reviewer registration requests.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if s.authHandler == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "authentication is not configured")
		return
	}
	s.authHandler.Register(w, r)
}

// handleLogin handles reviewer login requests.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.authHandler == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "authentication is not configured")
		return
	}
	s.authHandler.Login(w, r)
}

// handleMe returns the authenticated reviewer's account.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	if s.authHandler == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "authentication is not configured")
		return
	}
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	s.authHandler.Me(w, r, userID)
}

// handleUpdatePassword handles password change requests.
func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	if s.authHandler == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "authentication is not configured")
		return
	}
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	s.authHandler.UpdatePassword(w, r, userID)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("failed to encode response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; X-Forwarded-For would only be
// safe to honor behind a trusted proxy.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds()) + 1 // round up, zero means retry now
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.log.Warn("rate limit exceeded",
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
		zap.Int("limit", info.Limit),
	)

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
