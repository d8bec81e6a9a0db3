package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds everything the binaries need. Values come from the
// environment (optionally seeded from .env by the caller); each provider
// gets its own explicit struct so nothing reads ambient config at
// synthesis time.
type Config struct {
	Port             string `env:"PORT" envDefault:"8080"`
	DatabaseURL      string `env:"DATABASE_URL"`
	RedisAddr        string `env:"REDIS_ADDR" envDefault:"127.0.0.1:6379"`
	BaseURL          string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	AudioStoragePath string `env:"AUDIO_STORAGE_PATH" envDefault:"audio"`

	TTS   TTS
	Queue Queue
}

// TTS selects the default provider and carries per-provider settings.
type TTS struct {
	DefaultProvider string `env:"TTS_DEFAULT_PROVIDER" envDefault:"polly"`
	Polly           Polly
	Murf            Murf
	Defaults        VoiceDefaults
}

// Polly configures the Amazon Polly provider. With no static credentials
// the AWS default credential chain applies.
type Polly struct {
	Enabled         bool   `env:"POLLY_ENABLED" envDefault:"true"`
	Region          string `env:"AWS_REGION" envDefault:"us-east-1"`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
}

// Murf configures the Murf provider. BaseURL is overridable for tests.
type Murf struct {
	Enabled bool   `env:"MURF_ENABLED" envDefault:"false"`
	APIKey  string `env:"MURF_API_KEY"`
	BaseURL string `env:"MURF_BASE_URL"`
}

// VoiceDefaults apply when a generation request does not name its own
// voice settings.
type VoiceDefaults struct {
	VoiceID      string `env:"TTS_VOICE" envDefault:"Joanna"`
	Engine       string `env:"TTS_ENGINE" envDefault:"neural"`
	LanguageCode string `env:"TTS_LANGUAGE" envDefault:"en-US"`
	OutputFormat string `env:"TTS_FORMAT" envDefault:"mp3"`
}

// Queue tunes the asynchronous generation worker.
type Queue struct {
	Concurrency    int           `env:"QUEUE_CONCURRENCY" envDefault:"2"`
	MaxRetry       int           `env:"QUEUE_MAX_RETRY" envDefault:"3"`
	TaskTimeout    time.Duration `env:"QUEUE_TASK_TIMEOUT" envDefault:"10m"`
	RetryBaseDelay time.Duration `env:"QUEUE_RETRY_BASE_DELAY" envDefault:"30s"`
	RetryMaxDelay  time.Duration `env:"QUEUE_RETRY_MAX_DELAY" envDefault:"15m"`
	// StuckAfter is how long a note may sit in PROCESSING before the
	// reconciliation sweep declares the attempt timed out.
	StuckAfter time.Duration `env:"QUEUE_STUCK_AFTER" envDefault:"30m"`
}

// Load parses the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config from environment: %w", err)
	}
	return cfg, nil
}
