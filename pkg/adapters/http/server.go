package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/tatami"
	"github.com/aretw0/tatami/internal/logging"
	"github.com/aretw0/tatami/internal/metrics"
	"github.com/aretw0/tatami/internal/validator"
	"github.com/aretw0/tatami/pkg/domain"
	"github.com/aretw0/tatami/pkg/export"
	"github.com/aretw0/tatami/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Service is what the HTTP API needs from the library.
type Service interface {
	ports.SequenceService
	ports.QuizService

	Watch(ctx context.Context) (<-chan domain.SequenceChange, error)
	Lint(ctx context.Context, id string) (*validator.Report, error)
	QuizState(ctx context.Context, sessionID string) (*domain.QuizState, error)

	ExportSequences(ctx context.Context) ([]export.File, error)
	ListCurricula(ctx context.Context) ([]*domain.Curriculum, error)
	ExportCurriculum(ctx context.Context, curriculumID string) ([]export.File, error)
}

var _ Service = (*tatami.Library)(nil)

// Server holds the handlers of the API.
type Server struct {
	Service Service
	Streams *StreamManager

	metrics *metrics.Registry
	logger  *slog.Logger
}

// Option configures the HTTP server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics records request metrics and serves them on /metrics.
func WithMetrics(reg *metrics.Registry) Option {
	return func(s *Server) {
		s.metrics = reg
	}
}

// NewHandler creates the HTTP handler for svc.
func NewHandler(svc Service, opts ...Option) http.Handler {
	s := &Server{
		Service: svc,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if s.metrics != nil {
		r.Use(s.recordMetrics)
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(openapiYAML)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})

	r.Route("/sequences", func(r chi.Router) {
		r.Get("/", s.ListSequences)
		r.Post("/", s.CreateSequence)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSequence)
			r.Put("/", s.SaveSequence)
			r.Delete("/", s.DeleteSequence)
			r.Post("/archive", s.ArchiveSequence)
			r.Get("/graph", s.GetSequenceGraph)
			r.Get("/lint", s.LintSequence)
		})
	})

	r.Route("/quizzes", func(r chi.Router) {
		r.Get("/", s.ListQuizzes)
		r.Post("/", s.StartQuiz)
		r.Route("/{session_id}", func(r chi.Router) {
			r.Get("/", s.GetQuiz)
			r.Delete("/", s.DeleteQuiz)
			r.Post("/choose", s.ChooseResponse)
			r.Post("/restart", s.RestartQuiz)
			r.Post("/end", s.EndQuiz)
		})
	})

	r.Get("/events", s.SubscribeEvents)
	r.Post("/tags/normalize", s.NormalizeTags)
	r.Get("/export/sequences/{kind}", s.ExportSequences)
	r.Get("/curricula", s.ListCurricula)
	r.Get("/curricula/{id}/export", s.ExportCurriculum)

	return enableCORS(r)
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

func (s *Server) recordMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.RecordHTTPRequest(r.Method, route, status, time.Since(start))
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Tatami API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if doc, err := GetSwagger(); err == nil && doc.Info != nil {
		apiVersion = doc.Info.Version
	}

	writeJSON(w, s.logger, http.StatusOK, map[string]string{
		"app":         "tatami-http",
		"version":     strings.TrimSpace(tatami.Version),
		"api_version": apiVersion,
	})
}
