package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/a3tai/schedify/internal/logging"
	"github.com/a3tai/schedify/internal/pdf"
)

// multipart framing allowance on top of the PDF size limit
const uploadOverhead = 1 << 20

// Config wires the HTTP layer to the extraction service
type Config struct {
	Service        *pdf.Service
	Logger         logrus.FieldLogger
	RequestTimeout time.Duration
	AllowedOrigins []string

	// MCP SSE transport; both are optional
	SSEHandler     http.Handler
	MessageHandler http.Handler
}

type Server struct {
	router  *chi.Mux
	service *pdf.Service
	logger  logrus.FieldLogger
	timeout time.Duration
	maxBody int64
}

func NewServer(cfg Config) (*Server, error) {
	if cfg.Service == nil {
		return nil, errors.New("service cannot be nil")
	}
	if cfg.RequestTimeout <= 0 {
		return nil, errors.New("request timeout must be positive")
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	s := &Server{
		router:  chi.NewRouter(),
		service: cfg.Service,
		logger:  logging.OrDiscard(cfg.Logger),
		timeout: cfg.RequestTimeout,
		maxBody: cfg.Service.MaxFileSize() + uploadOverhead,
	}

	s.setupRoutes(cfg)
	return s, nil
}

func (s *Server) setupRoutes(cfg Config) {
	s.router.Use(middleware.RequestID)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Disposition"},
	}))

	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(s.timeout))
		r.Post("/schedule", s.handleSchedule)
		r.Post("/schedule/text", s.handleScheduleText)
		r.Post("/schedule/xlsx", s.handleScheduleXLSX)
		r.Get("/schedule/schema", s.handleSchema)
	})

	// SSE streams are long lived and stay outside the request timeout
	if cfg.SSEHandler != nil {
		s.router.Handle("/sse", cfg.SSEHandler)
	}
	if cfg.MessageHandler != nil {
		s.router.Handle("/message", cfg.MessageHandler)
	}
}

func (s *Server) Router() http.Handler {
	return s.router
}

// requestLogger logs one line per request through logrus
func requestLogger(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				log.WithFields(logrus.Fields{
					"request_id": middleware.GetReqID(r.Context()),
					"method":     r.Method,
					"path":       r.URL.Path,
					"status":     ww.Status(),
					"bytes":      ww.BytesWritten(),
					"duration":   time.Since(start).String(),
				}).Info("http request")
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	payload := map[string]interface{}{
		"status": "ok",
		"cache":  s.service.CacheEnabled(),
	}
	if stats, ok := s.service.CacheStats(); ok {
		payload["cache_stats"] = stats
	}
	respondJSON(w, http.StatusOK, payload)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
