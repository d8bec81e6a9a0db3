package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"notecaster/internal/config"
	"notecaster/internal/db"
	"notecaster/internal/podcast"
	"notecaster/internal/tts"
	"notecaster/pkg/tasks"
)

// timedOutReason is recorded on notes the reconciliation sweep fails.
const timedOutReason = "generation timed out"

// TaskHandler holds the dependencies the asynq handlers need.
type TaskHandler struct {
	generator     *podcast.Generator
	voiceDefaults config.VoiceDefaults
	stuckAfter    time.Duration
}

func NewTaskHandler(generator *podcast.Generator, voiceDefaults config.VoiceDefaults, stuckAfter time.Duration) *TaskHandler {
	return &TaskHandler{
		generator:     generator,
		voiceDefaults: voiceDefaults,
		stuckAfter:    stuckAfter,
	}
}

// HandleGeneratePodcastTask runs one generation attempt for a note. The
// note moves to PROCESSING before the generator is invoked so readers can
// tell queued from in-flight. Validation and configuration failures skip
// asynq's retry machinery; provider and storage failures are returned for
// retry with backoff.
func (h *TaskHandler) HandleGeneratePodcastTask(ctx context.Context, t *asynq.Task) error {
	var p tasks.GeneratePodcastPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal task payload: %v: %w", err, asynq.SkipRetry)
	}

	log.Printf("Generating podcast for note: %d", p.NoteID)

	note, err := db.GetNoteByID(p.NoteID)
	if err != nil {
		return fmt.Errorf("failed to get note %d: %w", p.NoteID, err)
	}

	if err := db.MarkPodcastProcessing(note.ID); err != nil {
		return fmt.Errorf("failed to update note %d podcast status to processing: %w", note.ID, err)
	}

	opts := h.generateOptions(p)
	if err := h.generator.Generate(ctx, &note, opts); err != nil {
		// The generator already persisted the failure on the note.
		if !tts.Retryable(err) {
			log.Printf("Podcast generation for note %d failed terminally: %v", note.ID, err)
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return fmt.Errorf("podcast generation for note %d: %w", note.ID, err)
	}

	log.Printf("Successfully generated podcast for note: %d", p.NoteID)
	return nil
}

// HandleReconcileStuckPodcastTask fails notes stuck in PROCESSING past
// the deadline, typically after a worker died mid-generation. Without it
// those notes would sit in PROCESSING forever.
func (h *TaskHandler) HandleReconcileStuckPodcastTask(ctx context.Context, t *asynq.Task) error {
	cutoff := time.Now().Add(-h.stuckAfter)
	n, err := db.FailStuckPodcasts(cutoff, timedOutReason)
	if err != nil {
		return fmt.Errorf("failed to reconcile stuck podcasts: %w", err)
	}
	if n > 0 {
		log.Printf("Reconciled %d stuck podcast generation(s) older than %s", n, h.stuckAfter)
	}
	return nil
}

func (h *TaskHandler) generateOptions(p tasks.GeneratePodcastPayload) podcast.GenerateOptions {
	voice := tts.VoiceOptions{
		VoiceID:      p.VoiceID,
		Engine:       p.Engine,
		LanguageCode: p.LanguageCode,
		OutputFormat: p.OutputFormat,
		Rate:         p.Rate,
		Pitch:        p.Pitch,
		Variation:    p.Variation,
	}
	if voice.VoiceID == "" {
		voice.VoiceID = h.voiceDefaults.VoiceID
	}
	if voice.Engine == "" {
		voice.Engine = h.voiceDefaults.Engine
	}
	if voice.LanguageCode == "" {
		voice.LanguageCode = h.voiceDefaults.LanguageCode
	}
	if voice.OutputFormat == "" {
		voice.OutputFormat = h.voiceDefaults.OutputFormat
	}

	return podcast.GenerateOptions{
		Provider: p.Provider,
		Voice:    voice,
		Prepare: podcast.PrepareOptions{
			IncludeIntro:      p.IncludeIntro,
			IncludeConclusion: p.IncludeConclusion,
			UseSSML:           p.UseSSML,
		},
	}
}
