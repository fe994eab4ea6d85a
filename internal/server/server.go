package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/rshade/pokedeck/internal/catalog"
)

// MaxPageSize caps the size query parameter.
const MaxPageSize = 1000

// Server is the catalog HTTP handler.
type Server struct {
	store  *Store
	logger zerolog.Logger
	router chi.Router
}

// New creates a Server backed by store.
func New(store *Store, logger zerolog.Logger) *Server {
	s := &Server{
		store:  store,
		logger: logger,
		router: chi.NewRouter(),
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Route("/api/pokemons", func(r chi.Router) {
		r.Get("/", s.handleListPage)
		r.Get("/{id}", s.handleGetRecord)
	})
	s.router.Get("/health", s.handleHealth)
}

// requestLogger logs one line per request through zerolog.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		s.logger.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("query", r.URL.RawQuery).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

// handleListPage serves one page. page and size are required integers.
func (s *Server) handleListPage(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	size, err := queryInt(r, "size")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if size > MaxPageSize {
		respondError(w, http.StatusBadRequest, "size must be <= "+strconv.Itoa(MaxPageSize))
		return
	}

	records, err := s.store.Page(page, size)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, records)
}

// handleGetRecord serves a single record by id.
func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	id := catalog.ID(chi.URLParam(r, "id"))

	rec, ok := s.store.Get(id)
	if !ok {
		respondError(w, http.StatusNotFound, "Pokemon with ID "+id.String()+" not found")
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"records":   s.store.Len(),
		"loaded_at": s.store.LoadedAt().UTC().Format(time.RFC3339),
	})
}

// --- Response helpers ---

var errMissingParam = errors.New("missing required query parameter")

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, errors.Join(errMissingParam, errors.New(name))
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(name + " must be an integer")
	}
	return v, nil
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
