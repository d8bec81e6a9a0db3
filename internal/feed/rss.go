package feed

import (
	"fmt"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/eduncan911/podcast"
	"notecaster/internal/models"
	notepodcast "notecaster/internal/podcast"
)

const descriptionExcerptRunes = 200

func getBaseURL(r *http.Request) string {
	if baseURL := os.Getenv("BASE_URL"); baseURL != "" {
		return baseURL
	}

	scheme := r.URL.Scheme
	if scheme == "" {
		scheme = "https"
		if r.Header.Get("X-Forwarded-Proto") != "" {
			scheme = r.Header.Get("X-Forwarded-Proto")
		}
	}

	return fmt.Sprintf("%s://%s", scheme, r.Host)
}

// GenerateRSS renders the user's completed note podcasts as an RSS feed.
func GenerateRSS(user *models.User, notes []models.Note, r *http.Request) (string, error) {
	baseURL := getBaseURL(r)

	p := podcast.New(
		fmt.Sprintf("%s's Notes", user.Name),
		fmt.Sprintf("%s/rss/%s", baseURL, user.FeedUUID),
		"Spoken versions of your study notes.",
		&time.Time{}, &time.Time{},
	)

	for _, note := range notes {
		if note.PodcastFilePath == nil || note.PodcastFileSize == nil {
			continue
		}
		item := podcast.Item{
			Title:       note.Title,
			Description: excerpt(note.Content),
			PubDate:     note.PodcastGeneratedAt,
		}
		enclosureURL := fmt.Sprintf("%s/audio/%s", baseURL, path.Base(*note.PodcastFilePath))
		item.AddEnclosure(enclosureURL, podcast.MP3, *note.PodcastFileSize)
		if note.PodcastDuration != nil {
			item.AddDuration(int64(*note.PodcastDuration))
		}
		if _, err := p.AddItem(item); err != nil {
			return "", err
		}
	}

	return p.String(), nil
}

func excerpt(content string) string {
	text := notepodcast.StripHTML(content)
	runes := []rune(text)
	if len(runes) <= descriptionExcerptRunes {
		return text
	}
	return string(runes[:descriptionExcerptRunes]) + "…"
}
