package tts

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notecaster/internal/storage"
)

func murfVoiceOptions() VoiceOptions {
	return VoiceOptions{
		VoiceID:      "en-US-natalie",
		Engine:       "gen2",
		LanguageCode: "en-US",
		OutputFormat: "mp3",
	}
}

func newTestMurf(t *testing.T, baseURL string) (*MurfProvider, *storage.Disk) {
	store := storage.NewDisk(t.TempDir(), "http://localhost:8080")
	provider, err := NewMurfProvider(MurfConfig{APIKey: "test-key", BaseURL: baseURL}, store)
	require.NoError(t, err)
	return provider, store
}

func TestNewMurfProviderRequiresAPIKey(t *testing.T) {
	_, err := NewMurfProvider(MurfConfig{}, storage.NewDisk(t.TempDir(), ""))
	assert.Error(t, err)
}

func TestMurfSynthesize(t *testing.T) {
	audio := []byte("murf-audio-bytes")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/speech/generate", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("api-key"))

		var req murfGenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "en-US-natalie", req.VoiceID)
		assert.Equal(t, "MP3", req.Format)
		assert.Equal(t, "GEN2", req.ModelVersion)
		assert.True(t, req.EncodeAsBase64)

		json.NewEncoder(w).Encode(murfGenerateResponse{
			EncodedAudio:           base64.StdEncoding.EncodeToString(audio),
			AudioLengthInSeconds:   4.2,
			ConsumedCharacterCount: 12,
		})
	}))
	defer server.Close()

	provider, store := newTestMurf(t, server.URL)

	result, err := provider.Synthesize(context.Background(), SynthesisRequest{
		Text:         "Hello world.",
		VoiceOptions: murfVoiceOptions(),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(len(audio)), result.FileSize)
	assert.Equal(t, 4.2, result.DurationSeconds)
	assert.Equal(t, "mp3", result.Format)
	assert.Equal(t, "12", result.Metadata["consumed_characters"])

	stored, err := store.Get(result.AudioPath)
	require.NoError(t, err)
	assert.Equal(t, audio, stored)
}

func TestMurfSynthesizeAPIErrorIsProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errorMessage":"rate limit exceeded"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	provider, _ := newTestMurf(t, server.URL)

	_, err := provider.Synthesize(context.Background(), SynthesisRequest{
		Text:         "Hello world.",
		VoiceOptions: murfVoiceOptions(),
	})
	require.Error(t, err)

	var providerErr *ProviderError
	require.True(t, errors.As(err, &providerErr))
	assert.Contains(t, err.Error(), "rate limit exceeded")
	assert.True(t, Retryable(err))
}

func TestMurfSynthesizeEmptyAudioIsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(murfGenerateResponse{EncodedAudio: "", AudioLengthInSeconds: 0})
	}))
	defer server.Close()

	provider, _ := newTestMurf(t, server.URL)

	_, err := provider.Synthesize(context.Background(), SynthesisRequest{
		Text:         "Hello world.",
		VoiceOptions: murfVoiceOptions(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no audio data")
}

func TestMurfSynthesizeRejectsEmptyAndOversizedText(t *testing.T) {
	provider, _ := newTestMurf(t, "http://murf.invalid")

	_, err := provider.Synthesize(context.Background(), SynthesisRequest{Text: "", VoiceOptions: murfVoiceOptions()})
	var validation *ValidationError
	assert.True(t, errors.As(err, &validation))

	long := make([]byte, murfMaxTextLength+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err = provider.Synthesize(context.Background(), SynthesisRequest{Text: string(long), VoiceOptions: murfVoiceOptions()})
	assert.True(t, errors.As(err, &validation))
}

func TestMurfValidateOptions(t *testing.T) {
	provider, _ := newTestMurf(t, "http://murf.invalid")

	valid := murfVoiceOptions()
	assert.True(t, provider.ValidateOptions(valid))

	cases := map[string]func(*VoiceOptions){
		"nonexistent engine":  func(o *VoiceOptions) { o.Engine = "nonexistent" },
		"empty voice":         func(o *VoiceOptions) { o.VoiceID = "" },
		"bad language code":   func(o *VoiceOptions) { o.LanguageCode = "english" },
		"unsupported format":  func(o *VoiceOptions) { o.OutputFormat = "aiff" },
		"rate out of range":   func(o *VoiceOptions) { o.Rate = 80 },
		"pitch out of range":  func(o *VoiceOptions) { o.Pitch = -60 },
		"variation underflow": func(o *VoiceOptions) { o.Variation = -1 },
		"variation overflow":  func(o *VoiceOptions) { o.Variation = 6 },
	}
	for name, mutate := range cases {
		opts := murfVoiceOptions()
		mutate(&opts)
		assert.False(t, provider.ValidateOptions(opts), name)
	}
}

func TestMurfListVoicesFallsBackOnTransportError(t *testing.T) {
	provider, _ := newTestMurf(t, "http://127.0.0.1:0")

	voices := provider.ListVoices(context.Background())
	assert.Equal(t, murfFallbackVoices, voices)
}

func TestMurfListVoicesAndLanguages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/speech/voices", r.URL.Path)
		json.NewEncoder(w).Encode([]murfVoice{
			{VoiceID: "en-US-natalie", DisplayName: "Natalie", Locale: "en-US", DisplayLanguage: "English (US)", Gender: "Female"},
			{VoiceID: "fr-FR-adelie", DisplayName: "Adélie", Locale: "fr-FR", DisplayLanguage: "French", Gender: "Female"},
		})
	}))
	defer server.Close()

	provider, _ := newTestMurf(t, server.URL)

	voices := provider.ListVoices(context.Background())
	require.Len(t, voices, 2)
	assert.Equal(t, "en-US-natalie", voices[0].ID)

	languages := provider.ListLanguages(context.Background())
	assert.Equal(t, map[string]string{"en-US": "English (US)", "fr-FR": "French"}, languages)
}
