package main

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"notecaster/internal/config"
	"notecaster/internal/db"
	"notecaster/internal/handlers"
	"notecaster/internal/middleware"
	"notecaster/internal/storage"
	"notecaster/internal/tts"
)

// CommitSHA is set at build time via ldflags
var CommitSHA = "unknown"

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	db.InitDB(cfg.DatabaseURL)

	client := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer client.Close()

	store := storage.NewDisk(cfg.AudioStoragePath, cfg.BaseURL)
	registry := tts.NewRegistryFromConfig(cfg.TTS, store)

	h := handlers.New(client, registry, store, cfg.AudioStoragePath, cfg.Queue)
	rl := middleware.NewRateLimiterMiddleware(rate.Limit(1), 5)

	r := mux.NewRouter()
	r.HandleFunc("/rss/{uuid}", h.GetRSSFeed).Methods(http.MethodGet)
	r.HandleFunc("/audio/{filename}", h.ServeAudioFile).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.AuthMiddleware)
	api.Use(rl.Middleware)
	api.HandleFunc("/notes", h.PostNote).Methods(http.MethodPost)
	api.HandleFunc("/notes/{id:[0-9]+}", h.GetNote).Methods(http.MethodGet)
	api.HandleFunc("/notes/{id:[0-9]+}/podcast", h.PostNotePodcast).Methods(http.MethodPost)
	api.HandleFunc("/notes/{id:[0-9]+}/podcast", h.GetNotePodcast).Methods(http.MethodGet)
	api.HandleFunc("/providers/{name}/voices", h.GetProviderVoices).Methods(http.MethodGet)

	log.Printf("Server starting on :%s (commit: %s)", cfg.Port, CommitSHA)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal(err)
	}
}
