package podcast

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/jmoiron/sqlx/types"
	"notecaster/internal/db"
	"notecaster/internal/models"
	"notecaster/internal/storage"
	"notecaster/internal/tts"
)

// GenerateOptions select the provider and shape the synthesized output.
// An empty Provider resolves the registry default.
type GenerateOptions struct {
	Provider string
	Voice    tts.VoiceOptions
	Prepare  PrepareOptions
}

// Generator drives a note through preparation, chunking, per-chunk
// synthesis, concatenation and persistence. It is the only writer of the
// note's podcast fields during an attempt.
type Generator struct {
	registry *tts.Registry
	store    storage.Storage
}

func NewGenerator(registry *tts.Registry, store storage.Storage) *Generator {
	return &Generator{registry: registry, store: store}
}

// Generate runs one full generation attempt. The outcome is persisted on
// the note either way; the returned error reports why the attempt failed
// so the job layer can choose between retry and terminal handling.
func (g *Generator) Generate(ctx context.Context, note *models.Note, opts GenerateOptions) error {
	err := g.generate(ctx, note, opts)
	if err != nil {
		log.Printf("Podcast generation failed for note %d: %v", note.ID, err)
		if dbErr := db.MarkPodcastFailed(note.ID, err.Error()); dbErr != nil {
			log.Printf("Failed to record podcast failure for note %d: %v", note.ID, dbErr)
		}
	}
	return err
}

func (g *Generator) generate(ctx context.Context, note *models.Note, opts GenerateOptions) error {
	provider, err := g.registry.Resolve(opts.Provider)
	if err != nil {
		return err
	}

	text, err := Prepare(note.Title, note.Content, opts.Prepare, provider.SupportsSSML())
	if err != nil {
		return err
	}

	chunks := chunkForProvider(text, provider.MaxTextLength())
	if len(chunks) == 0 {
		return &tts.ValidationError{Reason: "prepared text produced no chunks"}
	}

	var results []*tts.SynthesisResult
	// Per-chunk artifacts are transient; remove them on every exit path.
	defer func() {
		for _, r := range results {
			if delErr := g.store.Delete(r.AudioPath); delErr != nil {
				log.Printf("Failed to clean up chunk artifact %s: %v", r.AudioPath, delErr)
			}
		}
	}()

	// Sequential on purpose: chunk i must be fully synthesized before
	// chunk i+1 so the byte-level concatenation stays ordered.
	for i, chunk := range chunks {
		result, err := provider.Synthesize(ctx, tts.SynthesisRequest{Text: chunk, VoiceOptions: opts.Voice})
		if err != nil {
			return fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
		if result.FileSize == 0 {
			return &tts.ProviderError{
				Service: provider.ServiceName(),
				Err:     fmt.Errorf("chunk %d/%d produced zero-length audio", i+1, len(chunks)),
			}
		}
		results = append(results, result)
	}

	var buf bytes.Buffer
	for _, r := range results {
		data, err := g.store.Get(r.AudioPath)
		if err != nil {
			return &tts.StorageError{Op: "get", Path: r.AudioPath, Err: err}
		}
		buf.Write(data)
	}

	finalPath := storage.PodcastPath(opts.Voice.OutputFormat)
	if err := g.store.Put(finalPath, buf.Bytes()); err != nil {
		return &tts.StorageError{Op: "put", Path: finalPath, Err: err}
	}

	metadata, err := buildMetadata(provider.ServiceName(), opts, chunks)
	if err != nil {
		return fmt.Errorf("failed to build podcast metadata: %w", err)
	}

	if err := db.MarkPodcastCompleted(note.ID, finalPath, int64(buf.Len()), EstimateTotalDuration(results), metadata); err != nil {
		if delErr := g.store.Delete(finalPath); delErr != nil {
			log.Printf("Failed to clean up artifact %s after persistence failure: %v", finalPath, delErr)
		}
		return fmt.Errorf("failed to record podcast completion for note %d: %w", note.ID, err)
	}

	log.Printf("Generated podcast for note %d: %d chunks, %d bytes", note.ID, len(chunks), buf.Len())
	return nil
}

// chunkForProvider splits prepared text to the provider's limit. SSML
// documents lose their outer wrapper before splitting and every chunk is
// re-wrapped, so each synthesis request stays a valid SSML document.
func chunkForProvider(text string, maxLen int) []string {
	if utf8.RuneCountInString(text) <= maxLen {
		if strings.TrimSpace(text) == "" {
			return nil
		}
		return []string{text}
	}

	inner, ssml := strings.CutPrefix(text, "<speak>")
	if ssml {
		inner = strings.TrimSuffix(inner, "</speak>")
		chunks := Chunk(inner, maxLen-len("<speak></speak>"))
		for i, c := range chunks {
			chunks[i] = "<speak>" + c + "</speak>"
		}
		return chunks
	}

	return Chunk(text, maxLen)
}

// EstimateTotalDuration sums per-chunk durations, rounded to a tenth of
// a second. Providers disagree on whether a chunk's figure is measured or
// estimated, so the total is a best-available figure, not a precise
// measurement.
func EstimateTotalDuration(results []*tts.SynthesisResult) float64 {
	var total float64
	for _, r := range results {
		total += r.DurationSeconds
	}
	return math.Round(total*10) / 10
}

func buildMetadata(providerName string, opts GenerateOptions, chunks []string) (types.JSONText, error) {
	chunkCharacters := make([]int, len(chunks))
	wordCount := 0
	for i, c := range chunks {
		chunkCharacters[i] = utf8.RuneCountInString(c)
		wordCount += len(strings.Fields(c))
	}

	raw, err := json.Marshal(map[string]any{
		"provider":         providerName,
		"voice":            opts.Voice.VoiceID,
		"language":         opts.Voice.LanguageCode,
		"engine":           opts.Voice.Engine,
		"format":           opts.Voice.OutputFormat,
		"chunks":           len(chunks),
		"chunk_characters": chunkCharacters,
		"word_count":       wordCount,
	})
	return types.JSONText(raw), err
}
