package web

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/conorfennell/cardb/internal/domain"
	"github.com/conorfennell/cardb/internal/study"
)

type sessionView struct {
	ID           uuid.UUID    `json:"id"`
	CollectionID uuid.UUID    `json:"collectionId"`
	Progress     string       `json:"progress"`
	Remaining    int          `json:"remaining"`
	BackShown    bool         `json:"backShown"`
	Finished     bool         `json:"finished"`
	Card         *domain.Card `json:"card"`
}

func newSessionView(id uuid.UUID, ss *studySession) sessionView {
	v := sessionView{
		ID:           id,
		CollectionID: ss.collectionID,
		Progress:     ss.session.Progress(),
		Remaining:    ss.session.Len(),
		BackShown:    ss.session.BackShown(),
		Finished:     ss.session.Finished(),
	}
	if c, ok := ss.session.Current(); ok {
		v.Card = &c
	}
	return v
}

// handleStartStudy snapshots a collection's cards into a new session.
func (s *Server) handleStartStudy() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		collectionID, ok := s.lookupCollection(w, r)
		if !ok {
			return
		}
		ss := &studySession{
			collectionID: collectionID,
			session:      study.NewSession(s.store.Cards(collectionID)),
		}
		id := uuid.New()

		s.mu.Lock()
		s.sessions[id] = ss
		view := newSessionView(id, ss)
		s.mu.Unlock()

		s.logger.Info("Study session started", "session_id", id, "collection_id", collectionID, "cards", view.Remaining)
		s.writeJSON(w, http.StatusCreated, view)
	}
}

func (s *Server) handleGetStudy() http.HandlerFunc {
	return s.handleStudyAction(nil)
}

// handleStudyAction applies fn to the session named in the path and renders
// the result. Sessions live in memory and are not persisted.
func (s *Server) handleStudyAction(fn func(*study.Session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.idParam(w, r, "sessionID")
		if !ok {
			return
		}

		s.mu.Lock()
		ss, found := s.sessions[id]
		if !found {
			s.mu.Unlock()
			s.writeError(w, http.StatusNotFound, "study session not found")
			return
		}
		if fn != nil {
			fn(ss.session)
		}
		view := newSessionView(id, ss)
		s.mu.Unlock()

		s.writeJSON(w, http.StatusOK, view)
	}
}
