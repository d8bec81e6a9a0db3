package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Note is a user's study note. The podcast_* columns are written only by
// the generation pipeline during an attempt; everything else belongs to
// the surrounding application.
type Note struct {
	ID                   int64           `db:"id"`
	UserID               int64           `db:"user_id"`
	Title                string          `db:"title"`
	Content              string          `db:"content"`
	PodcastStatus        *string         `db:"podcast_status"`
	PodcastFilePath      *string         `db:"podcast_file_path"`
	PodcastDuration      *float64        `db:"podcast_duration"`
	PodcastFileSize      *int64          `db:"podcast_file_size"`
	PodcastFailureReason *string         `db:"podcast_failure_reason"`
	PodcastMetadata      *types.JSONText `db:"podcast_metadata"`
	PodcastStartedAt     *time.Time      `db:"podcast_started_at"`
	PodcastGeneratedAt   *time.Time      `db:"podcast_generated_at"`
	CreatedAt            time.Time       `db:"created_at"`
	UpdatedAt            time.Time       `db:"updated_at"`
}
