package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/parsing"
	"github.com/jonathan/resume-builder/internal/server/middleware"
	"github.com/jonathan/resume-builder/internal/server/ratelimit"
	"github.com/jonathan/resume-builder/internal/types"
)

// ResumeStore persists resumes. *db.DB implements it.
type ResumeStore interface {
	CreateResume(ctx context.Context, userID uuid.UUID, title string, resume *types.Resume) (*db.ResumeRecord, error)
	GetResume(ctx context.Context, id uuid.UUID) (*db.ResumeRecord, error)
	ListResumes(ctx context.Context, userID uuid.UUID) ([]db.ResumeRecord, error)
	SaveResume(ctx context.Context, id uuid.UUID, title string, resume *types.Resume) (*db.ResumeRecord, error)
	DeleteResume(ctx context.Context, id uuid.UUID) (bool, error)
}

// TemplateStore persists templates. *db.DB implements it.
type TemplateStore interface {
	CreateTemplate(ctx context.Context, t *db.TemplateRecord) (*db.TemplateRecord, error)
	GetTemplate(ctx context.Context, id uuid.UUID) (*db.TemplateRecord, error)
	ListTemplates(ctx context.Context, userID uuid.UUID) ([]db.TemplateRecord, error)
	UpdateTemplate(ctx context.Context, t *db.TemplateRecord) (*db.TemplateRecord, error)
	DeleteTemplate(ctx context.Context, id uuid.UUID) (bool, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	resumes     ResumeStore
	templates   TemplateStore
	parser      parsing.ResumeParser
	exporter    export.Exporter
	metrics     *observability.Metrics
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	pageSize    string
	onShutdown  []func()
}

// Options holds the server's collaborators. Parser and Exporter may be nil,
// in which case their routes answer 503.
type Options struct {
	Port        int
	Resumes     ResumeStore
	Templates   TemplateStore
	Parser      parsing.ResumeParser
	Exporter    export.Exporter
	Metrics     *observability.Metrics
	RateLimiter *ratelimit.Limiter
	JWT         *JWTService
	// PageSize is the CSS page size of rendered documents.
	PageSize string
	// OnShutdown runs after the listener has drained, in order.
	OnShutdown []func()
}

// New creates a new server instance
func New(opts Options) *Server {
	s := &Server{
		resumes:     opts.Resumes,
		templates:   opts.Templates,
		parser:      opts.Parser,
		exporter:    opts.Exporter,
		metrics:     opts.Metrics,
		rateLimiter: opts.RateLimiter,
		jwtService:  opts.JWT,
		pageSize:    opts.PageSize,
		onShutdown:  opts.OnShutdown,
	}
	if s.metrics == nil {
		s.metrics = observability.NewMetrics()
	}
	if s.rateLimiter == nil {
		s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())
	}

	auth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	protect := func(h http.HandlerFunc) http.Handler { return auth(h) }

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())

	// Resumes
	mux.Handle("POST /resumes", protect(s.handleCreateResume))
	mux.Handle("GET /resumes", protect(s.handleListResumes))
	mux.Handle("POST /resumes/parse", protect(s.handleParseResume))
	mux.Handle("GET /resumes/{id}", protect(s.handleGetResume))
	mux.Handle("PUT /resumes/{id}", protect(s.handleSaveResume))
	mux.Handle("PATCH /resumes/{id}/fields", protect(s.handleUpdateResumeField))
	mux.Handle("DELETE /resumes/{id}", protect(s.handleDeleteResume))

	// Templates
	mux.Handle("POST /templates", protect(s.handleCreateTemplate))
	mux.Handle("GET /templates", protect(s.handleListTemplates))
	mux.Handle("GET /templates/{id}", protect(s.handleGetTemplate))
	mux.Handle("PUT /templates/{id}", protect(s.handleUpdateTemplate))
	mux.Handle("DELETE /templates/{id}", protect(s.handleDeleteTemplate))

	// Rendering and export
	mux.Handle("POST /render", protect(s.handleRenderPreview))
	mux.Handle("GET /resumes/{id}/render", protect(s.handleRenderResume))
	mux.Handle("GET /resumes/{id}/export", protect(s.handleExportResume))

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", opts.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // PDF export can take a while
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the full middleware-wrapped router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-stop:
	case err := <-errCh:
		s.cleanup()
		return fmt.Errorf("server error: %w", err)
	}
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.cleanup()
	log.Println("Server stopped")
	return nil
}

func (s *Server) cleanup() {
	s.rateLimiter.Stop()
	for _, fn := range s.onShutdown {
		fn()
	}
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, Retry-After, X-RateLimit-Limit, X-RateLimit-Remaining, X-RateLimit-Reset")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging logs each request and counts it by matched route.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		// The mux records the matched pattern on r.
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		s.metrics.ObserveRequest(r.Method, route, rec.status)
		log.Printf("[%s] %s %d in %v", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// writeError maps err to a status and writes it. Validation failures carry
// their field list; server-side failures are logged and reported generically.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[%s] %s failed: %v", r.Method, r.URL.Path, err)
	}
	if fields := validationFields(err); status == http.StatusBadRequest && fields != nil {
		s.jsonResponse(w, status, map[string]any{
			"error":  publicMessage(status, err),
			"fields": fields,
		})
		return
	}
	s.errorResponse(w, status, publicMessage(status, err))
}

// extractClientID identifies the caller by remote IP.
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
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds())
		if seconds < 1 {
			seconds = 1
		}
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

// requestUser returns the authenticated caller. Routes behind AuthMiddleware
// always have one.
func requestUser(r *http.Request) (uuid.UUID, error) {
	return middleware.GetUserID(r)
}

// pathID parses the {name} path value as a UUID.
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	raw := r.PathValue(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, invalid(name, "must be a UUID")
	}
	return id, nil
}
