// Package api provides the RESTful HTTP API server for prompt-lab.
//
// SYSTEM ARCHITECTURE ROLE:
// This module implements the HTTP interface layer. Every endpoint converts the
// request into a parameter map and runs it through the CommandExecutor, so the
// API shares validation, error codes and behaviour with the CLI.
//
// KEY RESPONSIBILITIES:
// - Expose framework, render, intake, vibe, export and session operations
// - Apply the middleware stack (logging, CORS, content type, recovery, metrics)
// - Standardize responses with the APIResponse envelope
// - Serve prometheus metrics and the OpenAPI document
//
// INTEGRATION POINTS:
// - internal/commands/types.go: APIServer.executor runs every operation
// - internal/errors/handlers.go: HTTPErrorHandler maps AppError codes to statuses
// - internal/validation/middleware.go: ExtractRequestData merges query, path and body
// - internal/api/metrics.go: request counters, latency histogram, cache gauges
// - internal/api/openapi.go: /api/docs and /api/openapi.json
//
// ENDPOINT STRUCTURE:
// - /api/v1/frameworks: catalog listing, lookup and fuzzy search
// - /api/v1/render, /api/v1/classify, /api/v1/export: stateless prompt building
// - /api/v1/vibes, /api/v1/vibe: style snippet options and rendering
// - /api/v1/sessions: per-client prompt building state
// - /api/v1/health, /metrics: monitoring
package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ooti/prompt-lab/internal/commands"
	"github.com/ooti/prompt-lab/internal/errors"
	"github.com/ooti/prompt-lab/internal/service"
	"github.com/ooti/prompt-lab/internal/validation"
)

// APIServer serves the HTTP API
type APIServer struct {
	service      *service.Service
	executor     *commands.CommandExecutor
	errorHandler *errors.HTTPErrorHandler
	metrics      *Metrics
	logger       *slog.Logger
	port         int
	server       *http.Server
}

// NewAPIServer creates a new API server instance. A nil logger uses slog.Default().
func NewAPIServer(svc *service.Service, port int, logger *slog.Logger) *APIServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &APIServer{
		service:      svc,
		executor:     commands.NewCommandExecutor(svc),
		errorHandler: errors.NewHTTPErrorHandler(true),
		metrics:      NewMetrics(svc),
		logger:       logger,
		port:         port,
	}
}

// Handler builds the routed handler with middleware applied
func (s *APIServer) Handler() http.Handler {
	mux := http.NewServeMux()

	s.route(mux, "/api/v1/frameworks", s.handleFrameworks)
	s.route(mux, "/api/v1/frameworks/search", s.handleSearchFrameworks)
	s.route(mux, "/api/v1/frameworks/{id}", s.handleFrameworkWithID)
	s.route(mux, "/api/v1/render", s.handleRender)
	s.route(mux, "/api/v1/classify", s.handleClassify)
	s.route(mux, "/api/v1/vibes", s.handleVibes)
	s.route(mux, "/api/v1/vibe", s.handleVibe)
	s.route(mux, "/api/v1/export", s.handleExport)
	s.route(mux, "/api/v1/sessions", s.handleSessions)
	s.route(mux, "/api/v1/sessions/{id}", s.handleSessionWithID)
	s.route(mux, "/api/v1/sessions/{id}/fields", s.handleSessionFields)
	s.route(mux, "/api/v1/sessions/{id}/extras", s.handleSessionExtras)
	s.route(mux, "/api/v1/sessions/{id}/reset", s.handleSessionReset)
	s.route(mux, "/api/v1/sessions/{id}/intake", s.handleSessionIntake)
	s.route(mux, "/api/v1/sessions/{id}/output", s.handleSessionOutput)
	s.route(mux, "/api/v1/commands", s.handleCommands)
	s.route(mux, "/api/v1/health", s.handleHealth)

	s.route(mux, "/api/docs", s.handleOpenAPI)
	s.route(mux, "/api/openapi.json", s.handleOpenAPISpec)

	mux.Handle("/metrics", s.metrics.Handler())

	return mux
}

// Start serves HTTP requests until ctx is cancelled, then shuts down gracefully
func (s *APIServer) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("API server starting", "url", fmt.Sprintf("http://localhost:%d", s.port))
	s.logger.Info("OpenAPI documentation", "url", fmt.Sprintf("http://localhost:%d/api/docs", s.port))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("API server shutting down")
		return s.Stop(shutdownCtx)
	}
}

// Stop gracefully shuts down the server
func (s *APIServer) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *APIServer) route(mux *http.ServeMux, pattern string, handler http.HandlerFunc) {
	mux.HandleFunc(pattern, s.withMiddleware(pattern, handler))
}

// withMiddleware applies middleware to HTTP handlers
func (s *APIServer) withMiddleware(route string, handler http.HandlerFunc) http.HandlerFunc {
	return s.metricsMiddleware(route,
		s.loggingMiddleware(
			s.corsMiddleware(
				s.contentTypeMiddleware(
					s.errorMiddleware(handler),
				),
			),
		),
	)
}

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func recorder(w http.ResponseWriter) *statusRecorder {
	if rec, ok := w.(*statusRecorder); ok {
		return rec
	}
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

// metricsMiddleware records request counts and latency per route
func (s *APIServer) metricsMiddleware(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := recorder(w)
		start := time.Now()
		next(rec, r)
		s.metrics.Observe(r.Method, route, rec.status, time.Since(start))
	}
}

// loggingMiddleware logs HTTP requests
func (s *APIServer) loggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := recorder(w)
		start := time.Now()
		next(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"remote", r.RemoteAddr,
			"duration", time.Since(start),
		)
	}
}

// corsMiddleware handles CORS headers
func (s *APIServer) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// contentTypeMiddleware sets default content type
func (s *APIServer) contentTypeMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next(w, r)
	}
}

// errorMiddleware recovers panics into a 500 response
func (s *APIServer) errorMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.logger.Error("panic in handler", "path", r.URL.Path, "panic", err)
				s.writeError(w, errors.InternalError("Internal server error"))
			}
		}()
		next(w, r)
	}
}

// APIResponse represents a standardized API response
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Message   string      `json:"message,omitempty"`
	Error     interface{} `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// writeResponse writes a standardized JSON response
func (s *APIServer) writeResponse(w http.ResponseWriter, data interface{}, message string, statusCode int) {
	response := APIResponse{
		Success:   statusCode < 400,
		Data:      data,
		Message:   message,
		Timestamp: time.Now(),
	}

	w.WriteHeader(statusCode)

	jsonData, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		json.NewEncoder(w).Encode(response)
		return
	}

	w.Write(jsonData)
}

// writeError writes an error response using the error handler
func (s *APIServer) writeError(w http.ResponseWriter, err error) {
	s.errorHandler.WriteHTTPError(w, err)
}

func (s *APIServer) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, errors.MethodNotAllowedError(r.Method).WithDetails(r.URL.Path))
}

// execute runs a command and writes its result with successStatus, or the
// command's error
func (s *APIServer) execute(w http.ResponseWriter, r *http.Request, command string, params map[string]interface{}, successStatus int) {
	result, err := s.executor.Execute(r.Context(), command, params)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := result.Err(); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, result.Data, result.Message, successStatus)
}

// params extracts the request parameters, writing the error response on failure
func (s *APIServer) params(w http.ResponseWriter, r *http.Request, pathParams ...string) (map[string]interface{}, bool) {
	data, err := validation.ExtractRequestData(r, pathParams...)
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	return data, true
}

// handleFrameworks handles GET /api/v1/frameworks
func (s *APIServer) handleFrameworks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}
	params, ok := s.params(w, r)
	if !ok {
		return
	}
	s.execute(w, r, "list-frameworks", params, http.StatusOK)
}

// handleFrameworkWithID handles GET /api/v1/frameworks/{id}
func (s *APIServer) handleFrameworkWithID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}
	s.execute(w, r, "get-framework", map[string]interface{}{"id": r.PathValue("id")}, http.StatusOK)
}

// handleSearchFrameworks handles GET /api/v1/frameworks/search?q=
func (s *APIServer) handleSearchFrameworks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}
	query := r.URL.Query().Get("q")
	if query == "" {
		query = r.URL.Query().Get("query")
	}
	s.execute(w, r, "search-frameworks", map[string]interface{}{"query": query}, http.StatusOK)
}

// handleRender handles POST /api/v1/render
func (s *APIServer) handleRender(w http.ResponseWriter, r *http.Request) {
	s.handlePost(w, r, "render")
}

// handleClassify handles POST /api/v1/classify
func (s *APIServer) handleClassify(w http.ResponseWriter, r *http.Request) {
	s.handlePost(w, r, "classify")
}

// handleVibe handles POST /api/v1/vibe
func (s *APIServer) handleVibe(w http.ResponseWriter, r *http.Request) {
	s.handlePost(w, r, "vibe")
}

// handleExport handles POST /api/v1/export. Exports are built in memory
// unless the body sets "write".
func (s *APIServer) handleExport(w http.ResponseWriter, r *http.Request) {
	s.handlePost(w, r, "export")
}

func (s *APIServer) handlePost(w http.ResponseWriter, r *http.Request, command string) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, r)
		return
	}
	params, ok := s.params(w, r)
	if !ok {
		return
	}
	s.execute(w, r, command, params, http.StatusOK)
}

// handleVibes handles GET /api/v1/vibes
func (s *APIServer) handleVibes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}
	s.execute(w, r, "list-vibes", nil, http.StatusOK)
}

// handleSessions handles /api/v1/sessions
func (s *APIServer) handleSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.execute(w, r, "list-sessions", nil, http.StatusOK)
	case http.MethodPost:
		params, ok := s.params(w, r)
		if !ok {
			return
		}
		s.execute(w, r, "create-session", params, http.StatusCreated)
	default:
		s.methodNotAllowed(w, r)
	}
}

// handleSessionWithID handles /api/v1/sessions/{id}
func (s *APIServer) handleSessionWithID(w http.ResponseWriter, r *http.Request) {
	params := map[string]interface{}{"id": r.PathValue("id")}
	switch r.Method {
	case http.MethodGet:
		s.execute(w, r, "get-session", params, http.StatusOK)
	case http.MethodDelete:
		s.execute(w, r, "delete-session", params, http.StatusOK)
	default:
		s.methodNotAllowed(w, r)
	}
}

// handleSessionFields handles PUT /api/v1/sessions/{id}/fields
func (s *APIServer) handleSessionFields(w http.ResponseWriter, r *http.Request) {
	s.handleSessionUpdate(w, r, http.MethodPut, "set-session-fields")
}

// handleSessionExtras handles PUT /api/v1/sessions/{id}/extras
func (s *APIServer) handleSessionExtras(w http.ResponseWriter, r *http.Request) {
	s.handleSessionUpdate(w, r, http.MethodPut, "set-session-extras")
}

// handleSessionReset handles POST /api/v1/sessions/{id}/reset
func (s *APIServer) handleSessionReset(w http.ResponseWriter, r *http.Request) {
	s.handleSessionUpdate(w, r, http.MethodPost, "reset-session")
}

// handleSessionIntake handles POST /api/v1/sessions/{id}/intake
func (s *APIServer) handleSessionIntake(w http.ResponseWriter, r *http.Request) {
	s.handleSessionUpdate(w, r, http.MethodPost, "session-intake")
}

// handleSessionOutput handles GET /api/v1/sessions/{id}/output
func (s *APIServer) handleSessionOutput(w http.ResponseWriter, r *http.Request) {
	s.handleSessionUpdate(w, r, http.MethodGet, "session-output")
}

func (s *APIServer) handleSessionUpdate(w http.ResponseWriter, r *http.Request, method, command string) {
	if r.Method != method {
		s.methodNotAllowed(w, r)
		return
	}
	params, ok := s.params(w, r, "id")
	if !ok {
		return
	}
	s.execute(w, r, command, params, http.StatusOK)
}

// handleCommands handles GET /api/v1/commands
func (s *APIServer) handleCommands(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}
	s.execute(w, r, "list-commands", nil, http.StatusOK)
}

// handleHealth handles GET /api/v1/health
func (s *APIServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}
	s.execute(w, r, "health", nil, http.StatusOK)
}
