package db

import (
	"time"

	"github.com/jmoiron/sqlx/types"
	"notecaster/internal/models"
)

// Podcast generation statuses. A NULL podcast_status means generation was
// never requested for the note.
const (
	PodcastStatusPending    = "PENDING"
	PodcastStatusProcessing = "PROCESSING"
	PodcastStatusCompleted  = "COMPLETED"
	PodcastStatusFailed     = "FAILED"
)

func CreateNote(userID int64, title, content string) (models.Note, error) {
	note := models.Note{}
	err := DB.Get(&note, "INSERT INTO notes (user_id, title, content) VALUES ($1, $2, $3) RETURNING *", userID, title, content)
	return note, err
}

func GetNoteByID(id int64) (models.Note, error) {
	note := models.Note{}
	err := DB.Get(&note, "SELECT * FROM notes WHERE id = $1", id)
	return note, err
}

func GetCompletedPodcastNotesByUserID(userID int64) ([]models.Note, error) {
	notes := []models.Note{}
	err := DB.Select(&notes, `
		SELECT * FROM notes
		WHERE user_id = $1 AND podcast_status = 'COMPLETED'
		ORDER BY podcast_generated_at DESC`, userID)
	return notes, err
}

// MarkPodcastPending starts a fresh generation attempt: previous failure
// details are cleared so the status invariants hold for the new attempt.
func MarkPodcastPending(id int64) error {
	_, err := DB.Exec(`
		UPDATE notes
		SET podcast_status = 'PENDING', podcast_failure_reason = NULL, podcast_started_at = NULL
		WHERE id = $1`, id)
	return err
}

func MarkPodcastProcessing(id int64) error {
	_, err := DB.Exec(`
		UPDATE notes
		SET podcast_status = 'PROCESSING', podcast_started_at = NOW()
		WHERE id = $1`, id)
	return err
}

func MarkPodcastCompleted(id int64, filePath string, fileSize int64, duration float64, metadata types.JSONText) error {
	_, err := DB.Exec(`
		UPDATE notes
		SET podcast_status = 'COMPLETED', podcast_file_path = $1, podcast_file_size = $2,
		    podcast_duration = $3, podcast_metadata = $4, podcast_failure_reason = NULL,
		    podcast_generated_at = NOW()
		WHERE id = $5`,
		filePath, fileSize, duration, metadata, id)
	return err
}

func MarkPodcastFailed(id int64, reason string) error {
	_, err := DB.Exec(`
		UPDATE notes
		SET podcast_status = 'FAILED', podcast_failure_reason = $1
		WHERE id = $2`, reason, id)
	return err
}

// FailStuckPodcasts moves notes that have sat in PROCESSING since before
// the cutoff into FAILED. Covers workers that died mid-generation and
// never reached a terminal status.
func FailStuckPodcasts(cutoff time.Time, reason string) (int64, error) {
	res, err := DB.Exec(`
		UPDATE notes
		SET podcast_status = 'FAILED', podcast_failure_reason = $1
		WHERE podcast_status = 'PROCESSING' AND podcast_started_at < $2`,
		reason, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
