package web

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/conorfennell/cardb/internal/domain"
	"github.com/conorfennell/cardb/internal/store"
)

type collectionView struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	CardCount int       `json:"cardCount"`
}

type addCollectionsRequest struct {
	Titles []string `json:"titles" validate:"required,min=1"`
}

type editCollectionRequest struct {
	Title string `json:"title" validate:"required"`
}

type addCardsRequest struct {
	Pairs []domain.Pair `json:"pairs" validate:"required,min=1"`
}

type editCardRequest struct {
	Front string `json:"front" validate:"required"`
	Back  string `json:"back" validate:"required"`
}

type moveCardsRequest struct {
	From []int `json:"from" validate:"required,min=1,dive,min=0"`
	To   *int  `json:"to" validate:"required,min=0"`
}

func (s *Server) collectionView(c domain.Collection) collectionView {
	return collectionView{
		ID:        c.ID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		CardCount: s.store.CardCount(c.ID),
	}
}

// handleListCollections renders every collection in the requested order.
func (s *Server) handleListCollections() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := store.ParseSortOrder(r.URL.Query().Get("sort"))
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		cols := s.store.SortedCollections(order)
		views := make([]collectionView, 0, len(cols))
		for _, c := range cols {
			views = append(views, s.collectionView(c))
		}
		s.writeJSON(w, http.StatusOK, views)
	}
}

// handleAddCollections creates collections from a batch of titles. Blank
// titles are dropped by the store, so the response may be shorter than the
// request.
func (s *Server) handleAddCollections() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addCollectionsRequest
		if err := s.decode(r, &req); err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		created := s.store.AddCollections(req.Titles)
		views := make([]collectionView, 0, len(created))
		for _, c := range created {
			views = append(views, s.collectionView(c))
		}
		s.writeJSON(w, http.StatusCreated, views)
	}
}

// lookupCollection writes a 404 and returns false for unknown collections.
func (s *Server) lookupCollection(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := s.idParam(w, r, "collectionID")
	if !ok {
		return uuid.Nil, false
	}
	if _, found := s.store.Collection(id); !found {
		s.writeError(w, http.StatusNotFound, "collection not found")
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) lookupCard(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := s.idParam(w, r, "cardID")
	if !ok {
		return uuid.Nil, false
	}
	if _, found := s.store.Card(id); !found {
		s.writeError(w, http.StatusNotFound, "card not found")
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) handleEditCollection() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.lookupCollection(w, r)
		if !ok {
			return
		}
		var req editCollectionRequest
		if err := s.decode(r, &req); err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.store.EditCollectionTitle(id, req.Title)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleDeleteCollection() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.lookupCollection(w, r)
		if !ok {
			return
		}
		s.store.DeleteCollection(id)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleListCards() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.lookupCollection(w, r)
		if !ok {
			return
		}
		cards := s.store.Cards(id)
		if cards == nil {
			cards = []domain.Card{}
		}
		s.writeJSON(w, http.StatusOK, cards)
	}
}

// handleAddCards appends cards; pairs with a blank side are dropped by the
// store.
func (s *Server) handleAddCards() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.lookupCollection(w, r)
		if !ok {
			return
		}
		var req addCardsRequest
		if err := s.decode(r, &req); err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		created := s.store.AddCards(id, req.Pairs)
		if created == nil {
			created = []domain.Card{}
		}
		s.writeJSON(w, http.StatusCreated, created)
	}
}

func (s *Server) handleMoveCards() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.lookupCollection(w, r)
		if !ok {
			return
		}
		var req moveCardsRequest
		if err := s.decode(r, &req); err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.store.MoveCards(id, req.From, *req.To)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleEditCard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.lookupCard(w, r)
		if !ok {
			return
		}
		var req editCardRequest
		if err := s.decode(r, &req); err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.store.EditCard(id, req.Front, req.Back)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleDeleteCard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.lookupCard(w, r)
		if !ok {
			return
		}
		s.store.DeleteCard(id)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleToggleDone() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.lookupCard(w, r)
		if !ok {
			return
		}
		s.store.ToggleCardDone(id)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleDeferCard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.lookupCard(w, r)
		if !ok {
			return
		}
		s.store.DeferCard(id)
		w.WriteHeader(http.StatusNoContent)
	}
}
