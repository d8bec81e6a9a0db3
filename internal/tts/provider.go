package tts

import (
	"context"
	"regexp"
	"strings"
)

// VoiceOptions are the tunable synthesis parameters. Each provider
// validates them against its own documented ranges.
type VoiceOptions struct {
	VoiceID      string
	Engine       string
	LanguageCode string
	OutputFormat string
	// Rate, Pitch and Variation are provider-specific tuning values.
	// Providers that take no numeric tuning require them to be zero.
	Rate      int
	Pitch     int
	Variation int
}

// SynthesisRequest carries one chunk of prepared text to a provider.
type SynthesisRequest struct {
	Text string
	VoiceOptions
}

// SynthesisResult describes the audio artifact a provider produced for
// one chunk. AudioPath points into the provider's temporary storage
// namespace; the caller owns its cleanup.
type SynthesisResult struct {
	AudioPath       string
	FileSize        int64
	DurationSeconds float64
	Format          string
	Metadata        map[string]string
}

// Voice describes an available voice.
type Voice struct {
	ID           string
	Name         string
	LanguageCode string
	LanguageName string
	Gender       string
	Engines      []string
}

// Provider is the capability contract every text-to-speech backend
// implements.
type Provider interface {
	ServiceName() string

	// Synthesize converts one chunk of text into an audio artifact.
	// The text must fit MaxTextLength and the options must pass
	// ValidateOptions; violations fail with a ValidationError, vendor
	// failures with a ProviderError.
	Synthesize(ctx context.Context, req SynthesisRequest) (*SynthesisResult, error)

	// ListVoices is best-effort: on transport failure it logs and
	// returns a static fallback list rather than an error.
	ListVoices(ctx context.Context) []Voice

	// ListLanguages maps language codes to display names, derived from
	// ListVoices.
	ListLanguages(ctx context.Context) map[string]string

	// ValidateOptions reports whether the options are usable with this
	// provider. It never returns an error, only false.
	ValidateOptions(opts VoiceOptions) bool

	MaxTextLength() int
	SupportsSSML() bool
}

var languageCodeRE = regexp.MustCompile(`^[a-z]{2}-[A-Z]{2}$`)

// baseOptionsValid covers the checks shared by all providers: non-empty
// voice and engine identifiers and a well-formed language code.
func baseOptionsValid(opts VoiceOptions) bool {
	if strings.TrimSpace(opts.VoiceID) == "" || strings.TrimSpace(opts.Engine) == "" {
		return false
	}
	return languageCodeRE.MatchString(opts.LanguageCode)
}

func containsString(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

// languagesFromVoices builds the code → display name mapping.
func languagesFromVoices(voices []Voice) map[string]string {
	languages := make(map[string]string, len(voices))
	for _, v := range voices {
		if v.LanguageCode == "" {
			continue
		}
		if _, ok := languages[v.LanguageCode]; !ok {
			languages[v.LanguageCode] = v.LanguageName
		}
	}
	return languages
}
