package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	TypeGeneratePodcast       = "podcast:generate"
	TypeReconcileStuckPodcast = "podcast:reconcile"
)

// GeneratePodcastPayload carries everything one generation attempt needs.
// Voice fields left empty fall back to the configured defaults in the
// worker.
type GeneratePodcastPayload struct {
	NoteID            int64
	Provider          string
	VoiceID           string
	Engine            string
	LanguageCode      string
	OutputFormat      string
	Rate              int
	Pitch             int
	Variation         int
	IncludeIntro      bool
	IncludeConclusion bool
	UseSSML           bool
}

func NewGeneratePodcastTask(payload GeneratePodcastPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeGeneratePodcast, data), nil
}

func NewReconcileStuckPodcastTask() (*asynq.Task, error) {
	return asynq.NewTask(TypeReconcileStuckPodcast, nil), nil
}
