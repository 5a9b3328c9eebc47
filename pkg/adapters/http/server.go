// Package http exposes the blueprint service over a small JSON API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/blueprint"
	"github.com/aretw0/blueprint/internal/logging"
	"github.com/aretw0/blueprint/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Service is the part of blueprint.Service the API needs.
type Service interface {
	Generate(ctx context.Context, sessionID string, force bool) (*blueprint.Result, error)
	UpdatePreferences(ctx context.Context, sessionID, clientID string, prefs domain.Preferences) error
	Invalidate(ctx context.Context, sessionID string) error
	Templates() []string
	Template(templateType string) (domain.Template, error)
	CacheStats() blueprint.CacheStats
}

var _ Service = (*blueprint.Service)(nil)

// Server holds the handler dependencies.
type Server struct {
	Service Service
	Streams *StreamManager

	metrics http.Handler
	logger  *slog.Logger
}

// Option configures the handler.
type Option func(*Server)

// WithMetrics mounts h (usually promhttp.Handler) at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithStreams shares a StreamManager, typically one whose Hooks feed the service.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates the HTTP handler for the service.
func NewHandler(svc Service, opts ...Option) http.Handler {
	s := &Server{
		Service: svc,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Streams == nil {
		s.Streams = NewStreamManager(s.logger)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/stats", s.GetStats)
	r.Get("/templates", s.ListTemplates)
	r.Get("/templates/{templateType}", s.GetTemplate)

	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Post("/blueprint", s.GenerateBlueprint)
		r.Delete("/blueprint", s.InvalidateBlueprint)
		r.Put("/clients/{clientID}/preferences", s.UpdatePreferences)
		r.Get("/events", s.SubscribeEvents)
	})

	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// BlueprintResponse is the body of a successful generation.
type BlueprintResponse struct {
	Blueprint   *domain.Blueprint `json:"blueprint"`
	RunID       string            `json:"run_id,omitempty"`
	GeneratedAt time.Time         `json:"generated_at"`
	Cached      bool              `json:"cached"`
}

// TemplateSummary describes a template in the listing.
type TemplateSummary struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Blocks      int    `json:"blocks"`
	Exercises   int    `json:"exercises_per_client"`
}

// GenerateBlueprint handles POST /sessions/{sessionID}/blueprint[?force=true].
func (s *Server) GenerateBlueprint(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))

	res, err := s.Service.Generate(r.Context(), sessionID, force)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	cache := "MISS"
	if res.Cached {
		cache = "HIT"
	}
	w.Header().Set("X-Blueprint-Cache", cache)
	s.writeJSON(w, http.StatusOK, BlueprintResponse{
		Blueprint:   res.Blueprint,
		RunID:       res.RunID,
		GeneratedAt: res.GeneratedAt,
		Cached:      res.Cached,
	})
}

// InvalidateBlueprint handles DELETE /sessions/{sessionID}/blueprint.
func (s *Server) InvalidateBlueprint(w http.ResponseWriter, r *http.Request) {
	if err := s.Service.Invalidate(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdatePreferences handles PUT /sessions/{sessionID}/clients/{clientID}/preferences.
func (s *Server) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	prefs, err := domain.DecodePreferences(raw)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	err = s.Service.UpdatePreferences(r.Context(), chi.URLParam(r, "sessionID"), chi.URLParam(r, "clientID"), prefs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListTemplates handles GET /templates.
func (s *Server) ListTemplates(w http.ResponseWriter, r *http.Request) {
	var out []TemplateSummary
	for _, typ := range s.Service.Templates() {
		t, err := s.Service.Template(typ)
		if err != nil {
			continue
		}
		out = append(out, TemplateSummary{
			Type:        t.Type,
			Name:        t.Name,
			Description: t.Description,
			Blocks:      len(t.Blocks),
			Exercises:   t.TotalExercises(),
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

// GetTemplate handles GET /templates/{templateType}.
func (s *Server) GetTemplate(w http.ResponseWriter, r *http.Request) {
	t, err := s.Service.Template(chi.URLParam(r, "templateType"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, t)
}

// GetStats handles GET /stats.
func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Service.CacheStats())
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "blueprint-http",
		"version": strings.TrimSpace(blueprint.Version),
	})
}

type errorBody struct {
	Error string `json:"error"`
}

// StatusFor maps service errors to HTTP status codes.
func StatusFor(err error) int {
	var insufficient *domain.InsufficientDataError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrClientNotFound):
		return http.StatusNotFound
	case domain.IsValidation(err), errors.As(err, &insufficient), errors.Is(err, domain.ErrTemplateNotFound):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status >= 500 {
		s.logger.Error("Request failed", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "err", err)
	}
	s.writeJSON(w, status, errorBody{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "err", err)
	}
}
