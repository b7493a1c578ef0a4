// Package api exposes the converter over HTTP.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/ByLCY/text2pdf/config"
	"github.com/ByLCY/text2pdf/convert"
	"github.com/ByLCY/text2pdf/preset"
	"github.com/ByLCY/text2pdf/source"
)

// Server is the HTTP API server for text2pdf.
type Server struct {
	router    chi.Router
	converter *convert.Converter
	presets   *preset.Set
	log       *slog.Logger
	cfg       config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(conv *convert.Converter, presets *preset.Set, log *slog.Logger, cfg config.Config) *Server {
	if presets == nil {
		presets = preset.Default()
	}
	s := &Server{
		converter: conv,
		presets:   presets,
		log:       log,
		cfg:       cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Disposition", headerPageCount},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Use(httprate.Limit(
			s.cfg.RateLimit.Max,
			s.cfg.RateLimit.Window,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				jsonError(w, "Too many requests, please try again later.", http.StatusTooManyRequests)
			}),
		))

		r.Get("/health", s.handleHealth)
		r.Get("/templates", s.handleTemplates)
		r.Post("/convert", s.handleConvert)
		r.Post("/preview", s.handlePreview)
	})

	s.router = r
}

func (s *Server) sourceOptions() source.Options {
	return source.Options{StripMarkdown: s.cfg.StripMarkdown}
}
