package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// FaceController is the part of the face the HTTP side may touch
type FaceController interface {
	State() FaceState
	UpdateConfig(ctx context.Context, msg ConfigMessage) (FaceState, error)
	LastFrame() []byte
}

// Server is the configuration endpoint a phone-side settings page talks to
type Server struct {
	router    *chi.Mux
	server    *http.Server
	face      FaceController
	publicURL string
	log       zerolog.Logger
}

func NewServer(addr, publicURL string, face FaceController, log zerolog.Logger) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		face:      face,
		publicURL: publicURL,
		log:       log.With().Str("component", "server").Logger(),
	}
	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(10 * time.Second))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/config", s.handleConfigPage)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/themes", s.handleThemes)
		r.Get("/frame.png", s.handleFrame)
		r.Route("/config", func(r chi.Router) {
			r.Get("/", s.handleGetConfig)
			r.Post("/", s.handlePostConfig)
			r.Get("/qr.png", s.handleConfigQR)
		})
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	})
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": APP_VERSION,
	})
}

func (s *Server) handleThemes(w http.ResponseWriter, r *http.Request) {
	type themeJSON struct {
		Name    string  `json:"name"`
		Palette Palette `json:"palette"`
	}
	themes := AllThemes()
	out := make([]themeJSON, 0, len(themes))
	for _, t := range themes {
		out = append(out, themeJSON{Name: t.Name, Palette: t.Palette()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.face.State())
}

func (s *Server) handlePostConfig(w http.ResponseWriter, r *http.Request) {
	var msg ConfigMessage
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&msg); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	st, err := s.face.UpdateConfig(r.Context(), msg)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrStopped) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusServiceUnavailable
		}
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	data := s.face.LastFrame()
	if data == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("no frame rendered yet"))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(data); err != nil {
		s.log.Debug().Err(err).Msg("Failed to write frame")
	}
}

func (s *Server) handleConfigQR(w http.ResponseWriter, r *http.Request) {
	png, err := configQRCode(configPageURL(s.baseURL(r), s.face.State()), QR_SIZE)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if _, err := w.Write(png); err != nil {
		s.log.Debug().Err(err).Msg("Failed to write QR code")
	}
}

func (s *Server) handleConfigPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := renderConfigPage(w, s.face.State()); err != nil {
		s.log.Error().Err(err).Msg("Failed to render config page")
	}
}

// baseURL prefers the configured public URL, else the request's host
func (s *Server) baseURL(r *http.Request) string {
	if s.publicURL != "" {
		return s.publicURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
