package models

import "time"

// User represents a user in the database.
type User struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	APIKey    string    `db:"api_key"`
	FeedUUID  string    `db:"feed_uuid"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
