// Package web exposes the flashcard store over a small JSON HTTP API.
package web

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/conorfennell/cardb/internal/importer"
	"github.com/conorfennell/cardb/internal/store"
	"github.com/conorfennell/cardb/internal/study"
)

// Importer loads decks on request. *importer.Importer satisfies it.
type Importer interface {
	ImportDir(ctx context.Context, dir string) (importer.Report, error)
	ImportGit(ctx context.Context, repoURL string) (importer.Report, error)
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	store    *store.Store
	importer Importer
	router   chi.Router
	validate *validator.Validate
	logger   *slog.Logger

	mu       sync.Mutex
	sessions map[uuid.UUID]*studySession
}

type studySession struct {
	collectionID uuid.UUID
	session      *study.Session
}

// NewServer creates and configures a new server. imp may be nil, in which case
// the import route answers 501.
func NewServer(s *store.Store, imp Importer, logger *slog.Logger) *Server {
	srv := &Server{
		store:    s,
		importer: imp,
		router:   chi.NewRouter(),
		validate: validator.New(),
		logger:   logger.With("component", "web"),
		sessions: make(map[uuid.UUID]*studySession),
	}
	srv.routes()
	s.Subscribe(srv.onStoreEvent)
	return srv
}

// onStoreEvent drops study sessions whose collection was deleted.
// Only CollectionDeleted takes s.mu; other events may arrive while it is held.
func (s *Server) onStoreEvent(e store.Event) {
	if e.Kind != store.CollectionDeleted {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ss := range s.sessions {
		if ss.collectionID == e.CollectionID {
			delete(s.sessions, id)
		}
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// routes sets up the routing for the server.
func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.requestLogger)

	s.router.Route("/collections", func(r chi.Router) {
		r.Get("/", s.handleListCollections())
		r.Post("/", s.handleAddCollections())
		r.Route("/{collectionID}", func(r chi.Router) {
			r.Patch("/", s.handleEditCollection())
			r.Delete("/", s.handleDeleteCollection())
			r.Get("/cards", s.handleListCards())
			r.Post("/cards", s.handleAddCards())
			r.Post("/cards/move", s.handleMoveCards())
			r.Post("/study", s.handleStartStudy())
		})
	})

	s.router.Route("/cards/{cardID}", func(r chi.Router) {
		r.Patch("/", s.handleEditCard())
		r.Delete("/", s.handleDeleteCard())
		r.Post("/done", s.handleToggleDone())
		r.Post("/defer", s.handleDeferCard())
	})

	s.router.Route("/study/{sessionID}", func(r chi.Router) {
		r.Get("/", s.handleGetStudy())
		r.Post("/advance", s.handleStudyAction(func(sess *study.Session) { sess.Advance() }))
		r.Post("/restart", s.handleStudyAction(func(sess *study.Session) { sess.Restart() }))
		r.Post("/delete", s.handleStudyAction(func(sess *study.Session) { sess.DeleteCurrent(s.store.DeleteCard) }))
	})

	s.router.Post("/import", s.handleImport())
}

// requestLogger logs one line per request once it completes.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
