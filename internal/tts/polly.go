package tts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	pollytypes "github.com/aws/aws-sdk-go-v2/service/polly/types"

	"notecaster/internal/storage"
)

// pollyMaxTextLength is Polly's documented cap on billed characters per
// SynthesizeSpeech request.
const pollyMaxTextLength = 3000

var pollyEngines = []string{"standard", "neural", "long-form", "generative"}

var pollyFormats = []string{"mp3", "ogg_vorbis", "pcm"}

// Polly does not report synthesized audio length, so duration is
// estimated from word count. Neural-class engines speak a little faster
// than standard.
var pollyWordsPerMinute = map[string]float64{
	"standard":   150,
	"neural":     165,
	"long-form":  160,
	"generative": 170,
}

// pollyFallbackVoices is returned when DescribeVoices is unreachable.
// Voices are non-critical metadata, so synthesis keeps working without
// the live list.
var pollyFallbackVoices = []Voice{
	{ID: "Joanna", Name: "Joanna", LanguageCode: "en-US", LanguageName: "US English", Gender: "Female", Engines: []string{"standard", "neural"}},
	{ID: "Matthew", Name: "Matthew", LanguageCode: "en-US", LanguageName: "US English", Gender: "Male", Engines: []string{"standard", "neural"}},
	{ID: "Amy", Name: "Amy", LanguageCode: "en-GB", LanguageName: "British English", Gender: "Female", Engines: []string{"standard", "neural"}},
	{ID: "Brian", Name: "Brian", LanguageCode: "en-GB", LanguageName: "British English", Gender: "Male", Engines: []string{"standard", "neural"}},
	{ID: "Lupe", Name: "Lupe", LanguageCode: "es-US", LanguageName: "US Spanish", Gender: "Female", Engines: []string{"standard", "neural"}},
}

// PollyConfig carries the explicit settings for the Amazon Polly
// provider. With empty static credentials the AWS default credential
// chain (environment, instance profile, IRSA) applies.
type PollyConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// pollyClient is the slice of the Polly SDK the provider uses; mocked in
// tests.
type pollyClient interface {
	SynthesizeSpeech(ctx context.Context, params *polly.SynthesizeSpeechInput, optFns ...func(*polly.Options)) (*polly.SynthesizeSpeechOutput, error)
	DescribeVoices(ctx context.Context, params *polly.DescribeVoicesInput, optFns ...func(*polly.Options)) (*polly.DescribeVoicesOutput, error)
}

// PollyProvider synthesizes speech through Amazon Polly.
type PollyProvider struct {
	client pollyClient
	store  storage.Storage
}

func NewPollyProvider(ctx context.Context, cfg PollyConfig, store storage.Storage) (*PollyProvider, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &PollyProvider{client: polly.NewFromConfig(awsCfg), store: store}, nil
}

func (p *PollyProvider) ServiceName() string { return "polly" }

func (p *PollyProvider) MaxTextLength() int { return pollyMaxTextLength }

func (p *PollyProvider) SupportsSSML() bool { return true }

// ValidateOptions checks Polly's documented values. Polly takes no
// numeric tuning outside SSML prosody, so rate, pitch and variation must
// be zero.
func (p *PollyProvider) ValidateOptions(opts VoiceOptions) bool {
	if !baseOptionsValid(opts) {
		return false
	}
	if !containsString(pollyEngines, opts.Engine) {
		return false
	}
	if !containsString(pollyFormats, opts.OutputFormat) {
		return false
	}
	return opts.Rate == 0 && opts.Pitch == 0 && opts.Variation == 0
}

func (p *PollyProvider) Synthesize(ctx context.Context, req SynthesisRequest) (*SynthesisResult, error) {
	length := utf8.RuneCountInString(req.Text)
	if length == 0 {
		return nil, &ValidationError{Reason: "text is empty"}
	}
	if length > pollyMaxTextLength {
		return nil, &ValidationError{Reason: fmt.Sprintf("text is %d characters, polly accepts at most %d", length, pollyMaxTextLength)}
	}
	if !p.ValidateOptions(req.VoiceOptions) {
		return nil, &ValidationError{Reason: "synthesis options are not valid for polly"}
	}

	textType := pollytypes.TextTypeText
	if strings.HasPrefix(strings.TrimSpace(req.Text), "<speak>") {
		textType = pollytypes.TextTypeSsml
	}

	out, err := p.client.SynthesizeSpeech(ctx, &polly.SynthesizeSpeechInput{
		Text:         aws.String(req.Text),
		TextType:     textType,
		VoiceId:      pollytypes.VoiceId(req.VoiceID),
		Engine:       pollytypes.Engine(req.Engine),
		LanguageCode: pollytypes.LanguageCode(req.LanguageCode),
		OutputFormat: pollytypes.OutputFormat(req.OutputFormat),
	})
	if err != nil {
		return nil, &ProviderError{Service: "polly", Err: err}
	}
	defer out.AudioStream.Close()

	audio, err := io.ReadAll(out.AudioStream)
	if err != nil {
		return nil, &ProviderError{Service: "polly", Err: fmt.Errorf("failed to read audio stream: %w", err)}
	}
	if len(audio) == 0 {
		return nil, &ProviderError{Service: "polly", Err: errors.New("synthesis returned an empty audio stream")}
	}

	audioPath := storage.TempAudioPath("polly", req.OutputFormat)
	if err := p.store.Put(audioPath, audio); err != nil {
		return nil, &StorageError{Op: "put", Path: audioPath, Err: err}
	}

	return &SynthesisResult{
		AudioPath:       audioPath,
		FileSize:        int64(len(audio)),
		DurationSeconds: estimatePollyDuration(req.Text, req.Engine),
		Format:          req.OutputFormat,
		Metadata: map[string]string{
			"request_characters": strconv.Itoa(int(out.RequestCharacters)),
		},
	}, nil
}

// estimatePollyDuration approximates spoken length from word count. This
// is an estimate, not measured audio length.
func estimatePollyDuration(text string, engine string) float64 {
	wpm, ok := pollyWordsPerMinute[engine]
	if !ok {
		wpm = pollyWordsPerMinute["standard"]
	}
	words := len(strings.Fields(text))
	return math.Ceil(float64(words) / wpm * 60)
}

func (p *PollyProvider) ListVoices(ctx context.Context) []Voice {
	out, err := p.client.DescribeVoices(ctx, &polly.DescribeVoicesInput{})
	if err != nil {
		log.Printf("polly: DescribeVoices failed, falling back to static voice list: %v", err)
		return pollyFallbackVoices
	}

	voices := make([]Voice, 0, len(out.Voices))
	for _, v := range out.Voices {
		engines := make([]string, 0, len(v.SupportedEngines))
		for _, e := range v.SupportedEngines {
			engines = append(engines, string(e))
		}
		voices = append(voices, Voice{
			ID:           string(v.Id),
			Name:         aws.ToString(v.Name),
			LanguageCode: string(v.LanguageCode),
			LanguageName: aws.ToString(v.LanguageName),
			Gender:       string(v.Gender),
			Engines:      engines,
		})
	}
	return voices
}

func (p *PollyProvider) ListLanguages(ctx context.Context) map[string]string {
	return languagesFromVoices(p.ListVoices(ctx))
}
