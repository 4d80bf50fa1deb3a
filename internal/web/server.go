package web

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/vbonduro/foodlens/internal/photostore"
	"github.com/vbonduro/foodlens/internal/service"
)

// Pinger reports whether the report database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	service     *service.AnalysisService
	templates   fs.FS
	photoStore  photostore.PhotoStore
	db          Pinger
	router      chi.Router
	tmplFuncs   template.FuncMap
	corsOrigins []string
	logger      *slog.Logger
}

// Options carries the optional parts of a Server. A nil PhotoStore disables
// GET /photos and a nil DB makes /healthz report only liveness.
type Options struct {
	PhotoStore  photostore.PhotoStore
	DB          Pinger
	CORSOrigins []string
}

func NewServer(svc *service.AnalysisService, tmpl fs.FS, opts Options, logger *slog.Logger) *Server {
	s := &Server{
		service:     svc,
		templates:   tmpl,
		photoStore:  opts.PhotoStore,
		db:          opts.DB,
		router:      chi.NewRouter(),
		corsOrigins: opts.CORSOrigins,
		logger:      logger,
		tmplFuncs: template.FuncMap{
			"inc":           func(i int) int { return i + 1 },
			"templateTitle": templateTitle,
			"subjectLabel":  subjectLabel,
			"chartLabel":    chartLabel,
			"barWidth":      barWidth,
			"barColor":      barColor,
			"seriesNames":   seriesNames,
			"seriesValue":   seriesValue,
		},
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	r := s.router
	r.Use(func(next http.Handler) http.Handler { return requestLogger(s.logger, next) })
	r.Use(securityHeaders)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)

	r.Post("/analyze/quantities", s.handleAnalyzeQuantities)
	r.Post("/analyze/label-photo", s.handleLabelPhoto)
	r.Post("/analyze/food-photo", s.handleFoodPhoto)
	r.Post("/analyze/{template}", s.handleAnalyze)
	r.Post("/diet/targets", s.handleDietTargets)

	r.Get("/reports", s.handleListReports)
	r.Get("/reports/{id}", s.handleGetReport)
	r.Delete("/reports/{id}", s.handleDeleteReport)
	r.Get("/photos/{key}", s.handleGetPhoto)

	r.Route("/api", func(api chi.Router) {
		if len(s.corsOrigins) > 0 {
			api.Use(cors.Handler(cors.Options{
				AllowedOrigins: s.corsOrigins,
				AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
				AllowedHeaders: []string{"Accept", "Content-Type"},
				MaxAge:         300,
			}))
		}
		api.Post("/analyze/quantities", s.handleAPIQuantities)
		api.Post("/analyze/{template}", s.handleAPIAnalyze)
		api.Post("/diet/targets", s.handleAPIDietTargets)
		api.Get("/reports", s.handleAPIListReports)
		api.Get("/reports/{id}", s.handleAPIGetReport)
	})
}

// securityHeaders sets the browser hardening headers on every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy",
			"default-src 'self'; "+
				"script-src 'self' 'unsafe-inline' https://unpkg.com; "+
				"style-src 'self' 'unsafe-inline'; "+
				"img-src 'self' data: https:; "+
				"connect-src 'self'")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.PingContext(r.Context()); err != nil {
			s.logger.Error("health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"}, s.logger)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, s.logger)
}

// renderPage parses and executes a full-page template set with the given status.
func (s *Server) renderPage(w http.ResponseWriter, status int, data map[string]any, files ...string) error {
	tmpl, err := template.New("").Funcs(s.tmplFuncs).ParseFS(s.templates, files...)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}
	for _, key := range []string{"Title", "Warning", "Error", "ActiveNav"} {
		if _, ok := data[key]; !ok {
			data[key] = ""
		}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	return tmpl.ExecuteTemplate(w, "base", data)
}

// renderPartial parses and executes a single named partial template.
// The file must contain exactly one {{define "name"}}...{{end}} block.
func (s *Server) renderPartial(w http.ResponseWriter, file string, data any) error {
	tmpl, err := template.New("").Funcs(s.tmplFuncs).ParseFS(s.templates, file)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	basename := file
	if idx := strings.LastIndexByte(file, '/'); idx >= 0 {
		basename = file[idx+1:]
	}
	for _, t := range tmpl.Templates() {
		if n := t.Name(); n != "" && n != basename {
			return t.Execute(w, data)
		}
	}
	return tmpl.ExecuteTemplate(w, basename, data)
}
