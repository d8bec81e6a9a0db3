package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"notecaster/internal/config"
	"notecaster/internal/storage"
	"notecaster/internal/tts"
	"notecaster/pkg/tasks"
)

// Handlers bundles the dependencies of the HTTP API.
type Handlers struct {
	asynqClient      tasks.TaskEnqueuer
	registry         *tts.Registry
	store            storage.Storage
	audioStoragePath string
	queue            config.Queue
}

func New(asynqClient tasks.TaskEnqueuer, registry *tts.Registry, store storage.Storage, audioStoragePath string, queue config.Queue) *Handlers {
	return &Handlers{
		asynqClient:      asynqClient,
		registry:         registry,
		store:            store,
		audioStoragePath: audioStoragePath,
		queue:            queue,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
