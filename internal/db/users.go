package db

import (
	"log"

	"github.com/google/uuid"
	"notecaster/internal/models"
)

// CreateUser inserts a new user with freshly generated API and feed tokens.
func CreateUser(name string) (*models.User, error) {
	query := `
		INSERT INTO users (name, api_key, feed_uuid)
		VALUES ($1, $2, $3)
		RETURNING id, name, api_key, feed_uuid, created_at, updated_at
	`
	user := &models.User{}
	err := DB.Get(user, query, name, uuid.NewString(), uuid.NewString())
	if err != nil {
		log.Printf("Error creating user: %v", err)
		return nil, err
	}
	return user, nil
}

func GetUserByAPIKey(apiKey string) (*models.User, error) {
	user := &models.User{}
	err := DB.Get(user, "SELECT * FROM users WHERE api_key = $1", apiKey)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func GetUserByFeedUUID(feedUUID string) (*models.User, error) {
	user := &models.User{}
	err := DB.Get(user, "SELECT * FROM users WHERE feed_uuid = $1", feedUUID)
	if err != nil {
		return nil, err
	}
	return user, nil
}
