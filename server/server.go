// Package server exposes the answer pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/drp-labs/spokesbot/common/logger"
	"github.com/drp-labs/spokesbot/config"
	"github.com/drp-labs/spokesbot/orchestrator"
)

// Pipeline is the capability the server needs from the answer pipeline.
// Satisfied by the spokesbot client.
type Pipeline interface {
	Ready() bool
	Query(ctx context.Context, question string) string
	QueryVerbose(ctx context.Context, question string) *orchestrator.Trace
	Config() *config.Config
}

// Server serves the chat, diagnostics, health, and metrics endpoints.
type Server struct {
	client  Pipeline
	cfg     config.ServerConfig
	party   string
	limiter *rateLimiter
	router  chi.Router
}

type chatRequest struct {
	Question string `json:"question"`
}

type chatResponse struct {
	Answer string `json:"answer"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func New(client Pipeline) *Server {
	cfg := client.Config()
	s := &Server{
		client:  client,
		cfg:     cfg.Server,
		party:   cfg.Party.Name,
		limiter: newRateLimiter(cfg.Server.RateLimitPerMinute),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Post("/chat", s.handleChat)
	r.Post("/chat/debug", s.handleChatDebug)
	r.Get("/health", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	s.router = r
	return s
}

// Handler returns the HTTP handler, exposed for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks serving requests on the configured address.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	logger.Infof("server: listening on %s", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow(clientKey(r)) {
		writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please wait before asking again.")
		return
	}
	question, ok := s.readQuestion(w, r)
	if !ok {
		return
	}

	answer := s.client.Query(r.Context(), question)
	writeJSON(w, http.StatusOK, chatResponse{Answer: answer})
}

func (s *Server) handleChatDebug(w http.ResponseWriter, r *http.Request) {
	question, ok := s.readQuestion(w, r)
	if !ok {
		return
	}

	trace := s.client.QueryVerbose(r.Context(), question)
	writeJSON(w, http.StatusOK, trace)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	if !s.client.Ready() {
		status = "initializing"
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": status,
		"party":  s.party,
	})
}

// readQuestion validates the request body and returns the trimmed question.
// Oversize and empty questions are rejected here so they never reach the
// pipeline; a not-yet-ready index yields 503 rather than blocking.
func (s *Server) readQuestion(w http.ResponseWriter, r *http.Request) (string, bool) {
	if !s.client.Ready() {
		writeError(w, http.StatusServiceUnavailable, "Still initializing, please try again shortly.")
		return "", false
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return "", false
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		writeError(w, http.StatusBadRequest, "Question cannot be empty")
		return "", false
	}
	maxLen := s.cfg.MaxQuestionLength
	if maxLen <= 0 {
		maxLen = 1000
	}
	if len(req.Question) > maxLen {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Question is too long. Please keep it under %d characters.", maxLen))
		return "", false
	}
	return question, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Errorf("server: write response failed: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}
