package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"notecaster/internal/storage"
)

const (
	murfDefaultBaseURL = "https://api.murf.ai"
	murfGeneratePath   = "/v1/speech/generate"
	murfVoicesPath     = "/v1/speech/voices"

	// Murf accepts far more text per request than Polly; this cap keeps
	// single requests bounded without forcing aggressive chunking.
	murfMaxTextLength = 10000

	murfSampleRate = 24000
)

var murfEngines = []string{"gen1", "gen2"}

var murfFormats = []string{"mp3", "wav", "flac"}

var murfFallbackVoices = []Voice{
	{ID: "en-US-natalie", Name: "Natalie", LanguageCode: "en-US", LanguageName: "English (US)", Gender: "Female", Engines: []string{"gen1", "gen2"}},
	{ID: "en-US-terrell", Name: "Terrell", LanguageCode: "en-US", LanguageName: "English (US)", Gender: "Male", Engines: []string{"gen1", "gen2"}},
	{ID: "en-UK-ruby", Name: "Ruby", LanguageCode: "en-UK", LanguageName: "English (UK)", Gender: "Female", Engines: []string{"gen1", "gen2"}},
	{ID: "es-ES-elvira", Name: "Elvira", LanguageCode: "es-ES", LanguageName: "Spanish (Spain)", Gender: "Female", Engines: []string{"gen2"}},
}

// MurfConfig carries the explicit settings for the Murf provider.
type MurfConfig struct {
	APIKey  string
	BaseURL string
}

// MurfProvider synthesizes speech through the Murf REST API.
type MurfProvider struct {
	apiKey  string
	baseURL string
	http    *http.Client
	store   storage.Storage
}

func NewMurfProvider(cfg MurfConfig, store storage.Storage) (*MurfProvider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("murf: empty API key (set MURF_API_KEY)")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = murfDefaultBaseURL
	}
	return &MurfProvider{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 2 * time.Minute},
		store:   store,
	}, nil
}

func (m *MurfProvider) ServiceName() string { return "murf" }

func (m *MurfProvider) MaxTextLength() int { return murfMaxTextLength }

// Murf uses its own pause syntax rather than SSML, so prepared text stays
// plain for this provider.
func (m *MurfProvider) SupportsSSML() bool { return false }

// ValidateOptions checks Murf's documented ranges: rate and pitch run
// -50..50, variation 0..5.
func (m *MurfProvider) ValidateOptions(opts VoiceOptions) bool {
	if !baseOptionsValid(opts) {
		return false
	}
	if !containsString(murfEngines, opts.Engine) {
		return false
	}
	if !containsString(murfFormats, opts.OutputFormat) {
		return false
	}
	if opts.Rate < -50 || opts.Rate > 50 {
		return false
	}
	if opts.Pitch < -50 || opts.Pitch > 50 {
		return false
	}
	return opts.Variation >= 0 && opts.Variation <= 5
}

type murfGenerateRequest struct {
	VoiceID        string `json:"voiceId"`
	Text           string `json:"text"`
	Format         string `json:"format"`
	SampleRate     int    `json:"sampleRate"`
	ModelVersion   string `json:"modelVersion"`
	Rate           int    `json:"rate"`
	Pitch          int    `json:"pitch"`
	Variation      int    `json:"variation"`
	EncodeAsBase64 bool   `json:"encodeAsBase64"`
}

type murfGenerateResponse struct {
	AudioFile               string  `json:"audioFile"`
	EncodedAudio            string  `json:"encodedAudio"`
	AudioLengthInSeconds    float64 `json:"audioLengthInSeconds"`
	ConsumedCharacterCount  int     `json:"consumedCharacterCount"`
	RemainingCharacterCount int     `json:"remainingCharacterCount"`
}

func (m *MurfProvider) Synthesize(ctx context.Context, req SynthesisRequest) (*SynthesisResult, error) {
	length := utf8.RuneCountInString(req.Text)
	if length == 0 {
		return nil, &ValidationError{Reason: "text is empty"}
	}
	if length > murfMaxTextLength {
		return nil, &ValidationError{Reason: fmt.Sprintf("text is %d characters, murf accepts at most %d", length, murfMaxTextLength)}
	}
	if !m.ValidateOptions(req.VoiceOptions) {
		return nil, &ValidationError{Reason: "synthesis options are not valid for murf"}
	}

	payload := murfGenerateRequest{
		VoiceID:        req.VoiceID,
		Text:           req.Text,
		Format:         strings.ToUpper(req.OutputFormat),
		SampleRate:     murfSampleRate,
		ModelVersion:   strings.ToUpper(req.Engine),
		Rate:           req.Rate,
		Pitch:          req.Pitch,
		Variation:      req.Variation,
		EncodeAsBase64: true,
	}

	var response murfGenerateResponse
	if err := m.post(ctx, murfGeneratePath, payload, &response); err != nil {
		return nil, err
	}

	audio, err := base64.StdEncoding.DecodeString(response.EncodedAudio)
	if err != nil {
		return nil, &ProviderError{Service: "murf", Err: fmt.Errorf("failed to decode audio payload: %w", err)}
	}
	if len(audio) == 0 {
		return nil, &ProviderError{Service: "murf", Err: errors.New("synthesis returned no audio data")}
	}

	audioPath := storage.TempAudioPath("murf", req.OutputFormat)
	if err := m.store.Put(audioPath, audio); err != nil {
		return nil, &StorageError{Op: "put", Path: audioPath, Err: err}
	}

	return &SynthesisResult{
		AudioPath: audioPath,
		FileSize:  int64(len(audio)),
		// Murf reports the measured length of the synthesized audio.
		DurationSeconds: response.AudioLengthInSeconds,
		Format:          req.OutputFormat,
		Metadata: map[string]string{
			"consumed_characters": strconv.Itoa(response.ConsumedCharacterCount),
		},
	}, nil
}

func (m *MurfProvider) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &ProviderError{Service: "murf", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return &ProviderError{Service: "murf", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", m.apiKey)

	resp, err := m.http.Do(req)
	if err != nil {
		return &ProviderError{Service: "murf", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if len(b) == 0 {
			b = []byte(resp.Status)
		}
		return &ProviderError{Service: "murf", Err: fmt.Errorf("status=%d, body=%s", resp.StatusCode, bytes.TrimSpace(b))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ProviderError{Service: "murf", Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

type murfVoice struct {
	VoiceID         string `json:"voiceId"`
	DisplayName     string `json:"displayName"`
	Locale          string `json:"locale"`
	DisplayLanguage string `json:"displayLanguage"`
	Gender          string `json:"gender"`
}

func (m *MurfProvider) ListVoices(ctx context.Context) []Voice {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+murfVoicesPath, nil)
	if err != nil {
		log.Printf("murf: failed to build voices request, falling back to static voice list: %v", err)
		return murfFallbackVoices
	}
	req.Header.Set("api-key", m.apiKey)

	resp, err := m.http.Do(req)
	if err != nil {
		log.Printf("murf: voices request failed, falling back to static voice list: %v", err)
		return murfFallbackVoices
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("murf: voices request returned status %d, falling back to static voice list", resp.StatusCode)
		return murfFallbackVoices
	}

	var raw []murfVoice
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		log.Printf("murf: failed to decode voices response, falling back to static voice list: %v", err)
		return murfFallbackVoices
	}

	voices := make([]Voice, 0, len(raw))
	for _, v := range raw {
		voices = append(voices, Voice{
			ID:           v.VoiceID,
			Name:         v.DisplayName,
			LanguageCode: v.Locale,
			LanguageName: v.DisplayLanguage,
			Gender:       v.Gender,
			Engines:      murfEngines,
		})
	}
	return voices
}

func (m *MurfProvider) ListLanguages(ctx context.Context) map[string]string {
	return languagesFromVoices(m.ListVoices(ctx))
}
