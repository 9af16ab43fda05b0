package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"gitlab.com/tinyland/lab/eventreel/pkg/catalog"
	"gitlab.com/tinyland/lab/eventreel/pkg/gallery"
)

// Error messages returned to clients.
const (
	msgInvalidID     = "Invalid event ID"
	msgNotFound      = "Event not found"
	msgFetchEvents   = "Error fetching events"
	msgFetchEvent    = "Error fetching event"
	msgFetchPhotos   = "Error fetching photos"
	msgFetchFeatured = "Error fetching featured events"
	msgBadCategory   = "Invalid category"
)

type errorBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Message: msg})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cat, err := gallery.ParseCategory(q.Get("category"))
	if err != nil {
		writeError(w, http.StatusBadRequest, msgBadCategory)
		return
	}

	events, err := s.store.Events(r.Context(), gallery.Filter{Category: cat, Query: q.Get("search")})
	if err != nil {
		s.logger.Error("list events", "error", err)
		writeError(w, http.StatusInternalServerError, msgFetchEvents)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleFeatured(w http.ResponseWriter, r *http.Request) {
	events, err := s.store.Featured(r.Context())
	if err != nil {
		s.logger.Error("list featured", "error", err)
		writeError(w, http.StatusInternalServerError, msgFetchFeatured)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}
	ev, err := s.store.Event(r.Context(), id)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, msgNotFound)
	case err != nil:
		s.logger.Error("get event", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, msgFetchEvent)
	default:
		writeJSON(w, http.StatusOK, ev)
	}
}

func (s *Server) handlePhotos(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}
	photos, err := s.store.Photos(r.Context(), id)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, msgNotFound)
	case err != nil:
		s.logger.Error("get photos", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, msgFetchPhotos)
	default:
		writeJSON(w, http.StatusOK, photos)
	}
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.store.Categories(r.Context())
	if err != nil {
		s.logger.Error("list categories", "error", err)
		writeError(w, http.StatusInternalServerError, "Error fetching categories")
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

// eventID parses the {id} route variable, answering 400 itself on failure.
func eventID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, msgInvalidID)
		return 0, false
	}
	return id, true
}
