package handlers

import (
	"log"
	"net/http"
	"path/filepath"

	"github.com/gorilla/mux"
	"notecaster/internal/db"
	"notecaster/internal/feed"
)

func (h *Handlers) GetRSSFeed(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	uuid := vars["uuid"]

	user, err := db.GetUserByFeedUUID(uuid)
	if err != nil {
		http.Error(w, "Feed not found", http.StatusNotFound)
		return
	}

	notes, err := db.GetCompletedPodcastNotesByUserID(user.ID)
	if err != nil {
		log.Printf("Error getting notes: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	rss, err := feed.GenerateRSS(user, notes, r)
	if err != nil {
		log.Printf("Error generating RSS: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml")
	w.Write([]byte(rss))
}

func (h *Handlers) ServeAudioFile(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	filename := vars["filename"]

	filePath := filepath.Join(h.audioStoragePath, "podcasts", filepath.Base(filename))
	http.ServeFile(w, r, filePath)
}
