package main

import (
	"log"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"notecaster/internal/config"
	"notecaster/internal/db"
	"notecaster/internal/podcast"
	"notecaster/internal/storage"
	"notecaster/internal/tts"
	"notecaster/internal/worker"
	"notecaster/pkg/tasks"
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

	store := storage.NewDisk(cfg.AudioStoragePath, cfg.BaseURL)
	registry := tts.NewRegistryFromConfig(cfg.TTS, store)
	generator := podcast.NewGenerator(registry, store)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		asynq.Config{
			Concurrency: cfg.Queue.Concurrency,
			Queues: map[string]int{
				"default": 1,
			},
			// Exponential backoff between generation attempts.
			RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
				delay := cfg.Queue.RetryBaseDelay
				for i := 0; i < n; i++ {
					delay *= 2
					if delay > cfg.Queue.RetryMaxDelay {
						delay = cfg.Queue.RetryMaxDelay
						break
					}
				}

				log.Printf("Task %s failed %d times, retrying in %v", task.Type(), n+1, delay)
				return delay
			},
		},
	)

	taskHandler := worker.NewTaskHandler(generator, cfg.TTS.Defaults, cfg.Queue.StuckAfter)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeGeneratePodcast, taskHandler.HandleGeneratePodcastTask)
	mux.HandleFunc(tasks.TypeReconcileStuckPodcast, taskHandler.HandleReconcileStuckPodcastTask)

	log.Printf("Worker starting (commit: %s)", CommitSHA)
	if err := srv.Run(mux); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}
