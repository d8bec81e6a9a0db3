package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/hibiken/asynq"
	"notecaster/internal/db"
	"notecaster/pkg/tasks"
)

type generateRequest struct {
	Provider          string `json:"provider"`
	VoiceID           string `json:"voice_id"`
	Engine            string `json:"engine"`
	LanguageCode      string `json:"language_code"`
	OutputFormat      string `json:"output_format"`
	Rate              int    `json:"rate"`
	Pitch             int    `json:"pitch"`
	Variation         int    `json:"variation"`
	IncludeIntro      bool   `json:"include_intro"`
	IncludeConclusion bool   `json:"include_conclusion"`
	UseSSML           bool   `json:"use_ssml"`
}

type podcastStatusResponse struct {
	NoteID        int64    `json:"note_id"`
	Status        *string  `json:"status"`
	AudioURL      string   `json:"audio_url,omitempty"`
	Duration      *float64 `json:"duration_seconds,omitempty"`
	FileSize      *int64   `json:"file_size,omitempty"`
	FailureReason *string  `json:"failure_reason,omitempty"`
	GeneratedAt   *string  `json:"generated_at,omitempty"`
}

// PostNotePodcast queues a generation attempt for the note. The note is
// marked PENDING before the task is enqueued so the status is visible
// immediately; the worker moves it to PROCESSING when the attempt starts.
func (h *Handlers) PostNotePodcast(w http.ResponseWriter, r *http.Request) {
	note, ok := h.loadOwnedNote(w, r)
	if !ok {
		return
	}

	if strings.TrimSpace(note.Content) == "" {
		writeError(w, http.StatusUnprocessableEntity, "Note has no content to synthesize")
		return
	}
	if note.PodcastStatus != nil && (*note.PodcastStatus == db.PodcastStatusPending || *note.PodcastStatus == db.PodcastStatusProcessing) {
		writeError(w, http.StatusConflict, "Podcast generation is already in progress for this note")
		return
	}

	var payload generateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if err := db.MarkPodcastPending(note.ID); err != nil {
		log.Printf("Error marking note %d podcast pending: %v", note.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to queue podcast generation")
		return
	}

	task, err := tasks.NewGeneratePodcastTask(tasks.GeneratePodcastPayload{
		NoteID:            note.ID,
		Provider:          payload.Provider,
		VoiceID:           payload.VoiceID,
		Engine:            payload.Engine,
		LanguageCode:      payload.LanguageCode,
		OutputFormat:      payload.OutputFormat,
		Rate:              payload.Rate,
		Pitch:             payload.Pitch,
		Variation:         payload.Variation,
		IncludeIntro:      payload.IncludeIntro,
		IncludeConclusion: payload.IncludeConclusion,
		UseSSML:           payload.UseSSML,
	})
	if err != nil {
		log.Printf("Error creating task: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to queue podcast generation")
		return
	}

	_, err = h.asynqClient.Enqueue(task,
		asynq.MaxRetry(h.queue.MaxRetry),
		asynq.Timeout(h.queue.TaskTimeout),
	)
	if err != nil {
		log.Printf("Error enqueuing task: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to queue podcast generation")
		return
	}

	status := db.PodcastStatusPending
	writeJSON(w, http.StatusAccepted, podcastStatusResponse{NoteID: note.ID, Status: &status})
}

func (h *Handlers) GetNotePodcast(w http.ResponseWriter, r *http.Request) {
	note, ok := h.loadOwnedNote(w, r)
	if !ok {
		return
	}

	response := podcastStatusResponse{
		NoteID:        note.ID,
		Status:        note.PodcastStatus,
		Duration:      note.PodcastDuration,
		FileSize:      note.PodcastFileSize,
		FailureReason: note.PodcastFailureReason,
	}
	if note.PodcastStatus != nil && *note.PodcastStatus == db.PodcastStatusCompleted && note.PodcastFilePath != nil {
		response.AudioURL = h.store.URL(*note.PodcastFilePath)
	}
	if note.PodcastGeneratedAt != nil {
		generatedAt := note.PodcastGeneratedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
		response.GeneratedAt = &generatedAt
	}

	writeJSON(w, http.StatusOK, response)
}
