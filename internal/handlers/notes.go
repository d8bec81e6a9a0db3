package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"notecaster/internal/db"
	"notecaster/internal/middleware"
	"notecaster/internal/models"
)

type notePayload struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type noteResponse struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (h *Handlers) PostNote(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(middleware.UserContextKey).(*models.User)

	var payload notePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if strings.TrimSpace(payload.Title) == "" {
		writeError(w, http.StatusBadRequest, "Title is required")
		return
	}

	note, err := db.CreateNote(user.ID, payload.Title, payload.Content)
	if err != nil {
		log.Printf("Error creating note: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create note")
		return
	}

	writeJSON(w, http.StatusCreated, noteResponse{ID: note.ID, Title: note.Title, Content: note.Content})
}

func (h *Handlers) GetNote(w http.ResponseWriter, r *http.Request) {
	note, ok := h.loadOwnedNote(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, noteResponse{ID: note.ID, Title: note.Title, Content: note.Content})
}

// loadOwnedNote fetches the note from the URL and verifies it belongs to
// the authenticated user. It writes the error response itself.
func (h *Handlers) loadOwnedNote(w http.ResponseWriter, r *http.Request) (models.Note, bool) {
	user := r.Context().Value(middleware.UserContextKey).(*models.User)

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid note ID")
		return models.Note{}, false
	}

	note, err := db.GetNoteByID(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Note not found")
		return models.Note{}, false
	}
	if note.UserID != user.ID {
		writeError(w, http.StatusNotFound, "Note not found")
		return models.Note{}, false
	}
	return note, true
}
